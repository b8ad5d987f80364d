package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"shareit/internal/models"
)

func (db *DB) CreateRequest(ctx context.Context, request *models.ItemRequest) error {
	query := `INSERT INTO requests (description, requestor_id, created_at) VALUES (?, ?, ?)`
	now := time.Now()
	result, err := db.ExecContext(ctx, query, request.Description, request.RequestorID, encodeTime(now))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	request.ID = id
	request.Created = now
	return nil
}

// GetRequestByID возвращает запрос или (nil, nil), если его нет.
func (db *DB) GetRequestByID(ctx context.Context, id int64) (*models.ItemRequest, error) {
	query := `SELECT id, description, requestor_id, created_at FROM requests WHERE id = ?`
	row := db.QueryRowContext(ctx, query, id)

	request, err := scanRequest(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get request: %w", err)
	}
	return request, nil
}

// GetRequestsByRequestor возвращает запросы пользователя, новые первыми.
func (db *DB) GetRequestsByRequestor(ctx context.Context, requestorID int64) ([]models.ItemRequest, error) {
	query := `SELECT id, description, requestor_id, created_at
              FROM requests WHERE requestor_id = ? ORDER BY created_at DESC`
	return db.queryRequests(ctx, query, requestorID)
}

// GetRequestsByOthers возвращает чужие запросы, новые первыми.
func (db *DB) GetRequestsByOthers(ctx context.Context, requestorID int64, page *Page) ([]models.ItemRequest, error) {
	query := `SELECT id, description, requestor_id, created_at
              FROM requests WHERE requestor_id != ? ORDER BY created_at DESC`
	args := []any{requestorID}
	if page != nil {
		query += ` LIMIT ? OFFSET ?`
		args = append(args, page.Size, page.Number*page.Size)
	}
	return db.queryRequests(ctx, query, args...)
}

func (db *DB) queryRequests(ctx context.Context, query string, args ...any) ([]models.ItemRequest, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query requests: %w", err)
	}
	defer rows.Close()

	var requests []models.ItemRequest
	for rows.Next() {
		request, err := scanRequest(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan request: %w", err)
		}
		requests = append(requests, *request)
	}
	return requests, rows.Err()
}

func scanRequest(scan func(...any) error) (*models.ItemRequest, error) {
	var r models.ItemRequest
	var created string
	if err := scan(&r.ID, &r.Description, &r.RequestorID, &created); err != nil {
		return nil, err
	}
	var err error
	if r.Created, err = decodeTime(created); err != nil {
		return nil, err
	}
	return &r, nil
}
