package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"shareit/internal/models"
)

func (db *DB) CreateUser(ctx context.Context, user *models.User) error {
	query := `INSERT INTO users (name, email, created_at) VALUES (?, ?, ?)`
	now := time.Now()
	result, err := db.ExecContext(ctx, query, user.Name, user.Email, encodeTime(now))
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	user.ID = id
	user.CreatedAt = now
	return nil
}

// GetUserByID возвращает пользователя или (nil, nil), если его нет.
func (db *DB) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	query := `SELECT id, name, email, created_at FROM users WHERE id = ?`

	var user models.User
	var createdAt string
	err := db.QueryRowContext(ctx, query, id).Scan(&user.ID, &user.Name, &user.Email, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if user.CreatedAt, err = decodeTime(createdAt); err != nil {
		return nil, err
	}
	return &user, nil
}

func (db *DB) GetAllUsers(ctx context.Context) ([]models.User, error) {
	query := `SELECT id, name, email, created_at FROM users ORDER BY id`

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get users: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var user models.User
		var createdAt string
		if err := rows.Scan(&user.ID, &user.Name, &user.Email, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		if user.CreatedAt, err = decodeTime(createdAt); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func (db *DB) UpdateUser(ctx context.Context, user *models.User) error {
	query := `UPDATE users SET name = ?, email = ? WHERE id = ?`
	_, err := db.ExecContext(ctx, query, user.Name, user.Email, user.ID)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}

func (db *DB) DeleteUser(ctx context.Context, id int64) error {
	query := `DELETE FROM users WHERE id = ?`
	_, err := db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}
