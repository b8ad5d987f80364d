package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"shareit/internal/models"
)

// Page — пагинация по номеру страницы (не по произвольному смещению).
type Page struct {
	Number int
	Size   int
}

// TimeFilter классифицирует бронирования относительно момента Now.
type TimeFilter int

const (
	TimeAny TimeFilter = iota
	TimeCurrent
	TimePast
	TimeFuture
)

// BookingFilter описывает один параметризованный запрос списка бронирований:
// роль (букер или владелец вещи), временное окно, точный статус и страница.
// Заполняется ровно одно из BookerID/OwnerID.
type BookingFilter struct {
	BookerID int64
	OwnerID  int64
	Time     TimeFilter
	Status   string
	Now      time.Time
	Page     *Page
}

const bookingColumns = `b.id, b.item_id, i.name, i.owner_id, b.booker_id, u.name,
                        b.start_date, b.end_date, b.status, b.created_at, b.updated_at`

const bookingJoin = ` FROM bookings b
              JOIN items i ON i.id = b.item_id
              JOIN users u ON u.id = b.booker_id`

func (db *DB) CreateBooking(ctx context.Context, booking *models.Booking) error {
	query := `INSERT INTO bookings (item_id, booker_id, start_date, end_date, status, created_at, updated_at)
              VALUES (?, ?, ?, ?, ?, ?, ?)`
	now := time.Now()
	result, err := db.ExecContext(ctx, query,
		booking.ItemID,
		booking.BookerID,
		encodeTime(booking.Start),
		encodeTime(booking.End),
		booking.Status,
		encodeTime(now),
		encodeTime(now),
	)
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	booking.ID = id
	booking.CreatedAt = now
	booking.UpdatedAt = now
	return nil
}

// GetBooking возвращает бронирование с данными вещи и букера
// или (nil, nil), если его нет.
func (db *DB) GetBooking(ctx context.Context, id int64) (*models.Booking, error) {
	query := `SELECT ` + bookingColumns + bookingJoin + ` WHERE b.id = ?`
	row := db.QueryRowContext(ctx, query, id)

	booking, err := scanBooking(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return booking, nil
}

func (db *DB) UpdateBookingStatus(ctx context.Context, id int64, status string) error {
	query := `UPDATE bookings SET status = ?, updated_at = ? WHERE id = ?`
	_, err := db.ExecContext(ctx, query, status, encodeTime(time.Now()), id)
	if err != nil {
		return fmt.Errorf("failed to update booking status: %w", err)
	}
	return nil
}

// ListBookings выполняет единственный параметризованный запрос списков:
// все сочетания роли, временного окна и статуса собираются из одного SQL.
// Порядок всегда end_date DESC.
func (db *DB) ListBookings(ctx context.Context, f BookingFilter) ([]models.Booking, error) {
	query := `SELECT ` + bookingColumns + bookingJoin
	var args []any

	switch {
	case f.BookerID != 0:
		query += ` WHERE b.booker_id = ?`
		args = append(args, f.BookerID)
	case f.OwnerID != 0:
		query += ` WHERE i.owner_id = ?`
		args = append(args, f.OwnerID)
	default:
		return nil, fmt.Errorf("booking filter requires booker or owner")
	}

	now := encodeTime(f.Now)
	switch f.Time {
	case TimeCurrent:
		query += ` AND b.start_date <= ? AND b.end_date >= ?`
		args = append(args, now, now)
	case TimePast:
		query += ` AND b.end_date < ?`
		args = append(args, now)
	case TimeFuture:
		query += ` AND b.start_date > ?`
		args = append(args, now)
	}

	if f.Status != "" {
		query += ` AND b.status = ?`
		args = append(args, f.Status)
	}

	query += ` ORDER BY b.end_date DESC`
	if f.Page != nil {
		query += ` LIMIT ? OFFSET ?`
		args = append(args, f.Page.Size, f.Page.Number*f.Page.Size)
	}

	return db.queryBookings(ctx, query, args...)
}

// NextBookingForItem — ближайшее бронирование вещи после ref с данным
// статусом, или (nil, nil).
func (db *DB) NextBookingForItem(ctx context.Context, itemID int64, ref time.Time, status string) (*models.Booking, error) {
	query := `SELECT ` + bookingColumns + bookingJoin + `
              WHERE b.item_id = ? AND b.start_date > ? AND b.status = ?
              ORDER BY b.start_date ASC LIMIT 1`
	return db.queryOneBooking(ctx, query, itemID, encodeTime(ref), status)
}

// LastBookingForItem — последнее начавшееся до ref бронирование вещи с данным
// статусом, или (nil, nil).
func (db *DB) LastBookingForItem(ctx context.Context, itemID int64, ref time.Time, status string) (*models.Booking, error) {
	query := `SELECT ` + bookingColumns + bookingJoin + `
              WHERE b.item_id = ? AND b.start_date < ? AND b.status = ?
              ORDER BY b.start_date DESC LIMIT 1`
	return db.queryOneBooking(ctx, query, itemID, encodeTime(ref), status)
}

// FirstBookingForComment — самое раннее по окончанию бронирование вещи
// данным пользователем, независимо от статуса, или (nil, nil).
func (db *DB) FirstBookingForComment(ctx context.Context, bookerID, itemID int64) (*models.Booking, error) {
	query := `SELECT ` + bookingColumns + bookingJoin + `
              WHERE b.booker_id = ? AND b.item_id = ?
              ORDER BY b.end_date ASC LIMIT 1`
	return db.queryOneBooking(ctx, query, bookerID, itemID)
}

// BookingsBetween возвращает бронирования, начинающиеся в интервале,
// для экспорта ведомости.
func (db *DB) BookingsBetween(ctx context.Context, from, to time.Time) ([]models.Booking, error) {
	query := `SELECT ` + bookingColumns + bookingJoin + `
              WHERE b.start_date >= ? AND b.start_date <= ?
              ORDER BY b.start_date ASC`
	return db.queryBookings(ctx, query, encodeTime(from), encodeTime(to))
}

func (db *DB) queryOneBooking(ctx context.Context, query string, args ...any) (*models.Booking, error) {
	row := db.QueryRowContext(ctx, query, args...)
	booking, err := scanBooking(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return booking, nil
}

func (db *DB) queryBookings(ctx context.Context, query string, args ...any) ([]models.Booking, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query bookings: %w", err)
	}
	defer rows.Close()

	var bookings []models.Booking
	for rows.Next() {
		booking, err := scanBooking(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, *booking)
	}
	return bookings, rows.Err()
}

func scanBooking(scan func(...any) error) (*models.Booking, error) {
	var b models.Booking
	var start, end, createdAt, updatedAt string
	err := scan(
		&b.ID, &b.ItemID, &b.ItemName, &b.ItemOwnerID, &b.BookerID, &b.BookerName,
		&start, &end, &b.Status, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}
	if b.Start, err = decodeTime(start); err != nil {
		return nil, err
	}
	if b.End, err = decodeTime(end); err != nil {
		return nil, err
	}
	if b.CreatedAt, err = decodeTime(createdAt); err != nil {
		return nil, err
	}
	if b.UpdatedAt, err = decodeTime(updatedAt); err != nil {
		return nil, err
	}
	return &b, nil
}
