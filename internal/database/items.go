package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"shareit/internal/models"
)

const itemColumns = `id, name, description, available, owner_id, COALESCE(request_id, 0), created_at, updated_at`

func (db *DB) CreateItem(ctx context.Context, item *models.Item) error {
	query := `INSERT INTO items (name, description, available, owner_id, request_id, created_at, updated_at)
              VALUES (?, ?, ?, ?, ?, ?, ?)`
	now := time.Now()
	var requestID any
	if item.RequestID != 0 {
		requestID = item.RequestID
	}
	result, err := db.ExecContext(ctx, query,
		item.Name,
		item.Description,
		item.Available,
		item.OwnerID,
		requestID,
		encodeTime(now),
		encodeTime(now),
	)
	if err != nil {
		return fmt.Errorf("failed to create item: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	item.ID = id
	item.CreatedAt = now
	item.UpdatedAt = now
	return nil
}

// GetItemByID возвращает вещь или (nil, nil), если её нет.
func (db *DB) GetItemByID(ctx context.Context, id int64) (*models.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE id = ?`
	row := db.QueryRowContext(ctx, query, id)

	item, err := scanItem(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get item: %w", err)
	}
	return item, nil
}

func (db *DB) UpdateItem(ctx context.Context, item *models.Item) error {
	query := `UPDATE items SET name = ?, description = ?, available = ?, updated_at = ? WHERE id = ?`
	_, err := db.ExecContext(ctx, query,
		item.Name, item.Description, item.Available, encodeTime(time.Now()), item.ID)
	if err != nil {
		return fmt.Errorf("failed to update item: %w", err)
	}
	return nil
}

// GetItemsByOwner возвращает вещи владельца в порядке создания.
func (db *DB) GetItemsByOwner(ctx context.Context, ownerID int64, page *Page) ([]models.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE owner_id = ? ORDER BY id`
	args := []any{ownerID}
	if page != nil {
		query += ` LIMIT ? OFFSET ?`
		args = append(args, page.Size, page.Number*page.Size)
	}
	return db.queryItems(ctx, query, args...)
}

// SearchItems ищет доступные вещи по подстроке в названии или описании.
func (db *DB) SearchItems(ctx context.Context, text string, page *Page) ([]models.Item, error) {
	pattern := "%" + strings.ToLower(text) + "%"
	query := `SELECT ` + itemColumns + ` FROM items
              WHERE available = 1 AND (LOWER(name) LIKE ? OR LOWER(description) LIKE ?)
              ORDER BY id`
	args := []any{pattern, pattern}
	if page != nil {
		query += ` LIMIT ? OFFSET ?`
		args = append(args, page.Size, page.Number*page.Size)
	}
	return db.queryItems(ctx, query, args...)
}

// GetItemsByRequest возвращает вещи, созданные в ответ на запрос.
func (db *DB) GetItemsByRequest(ctx context.Context, requestID int64) ([]models.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE request_id = ? ORDER BY id`
	return db.queryItems(ctx, query, requestID)
}

func (db *DB) queryItems(ctx context.Context, query string, args ...any) ([]models.Item, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query items: %w", err)
	}
	defer rows.Close()

	var items []models.Item
	for rows.Next() {
		item, err := scanItem(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

func scanItem(scan func(...any) error) (*models.Item, error) {
	var item models.Item
	var createdAt, updatedAt string
	err := scan(
		&item.ID, &item.Name, &item.Description, &item.Available,
		&item.OwnerID, &item.RequestID, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}
	if item.CreatedAt, err = decodeTime(createdAt); err != nil {
		return nil, err
	}
	if item.UpdatedAt, err = decodeTime(updatedAt); err != nil {
		return nil, err
	}
	return &item, nil
}
