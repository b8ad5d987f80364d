package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	_ "github.com/mattn/go-sqlite3"
)

// DB оборачивает sqlite-соединение со схемой проката вещей.
type DB struct {
	*sql.DB
	logger *zerolog.Logger
}

func NewDB(path string, logger *zerolog.Logger) (*DB, error) {
	// Создаем директорию для БД, если её нет
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := createTables(db); err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	logger.Info().Str("path", path).Msg("database initialized")
	return &DB{DB: db, logger: logger}, nil
}

func createTables(db *sql.DB) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS users (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            name TEXT NOT NULL,
            email TEXT NOT NULL,
            created_at TEXT NOT NULL
        )`,

		`CREATE TABLE IF NOT EXISTS items (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            name TEXT NOT NULL,
            description TEXT NOT NULL,
            available INTEGER NOT NULL DEFAULT 0,
            owner_id INTEGER NOT NULL REFERENCES users(id),
            request_id INTEGER,
            created_at TEXT NOT NULL,
            updated_at TEXT NOT NULL
        )`,

		`CREATE TABLE IF NOT EXISTS bookings (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            item_id INTEGER NOT NULL REFERENCES items(id),
            booker_id INTEGER NOT NULL REFERENCES users(id),
            start_date TEXT NOT NULL,
            end_date TEXT NOT NULL,
            status TEXT NOT NULL DEFAULT 'WAITING',
            created_at TEXT NOT NULL,
            updated_at TEXT NOT NULL
        )`,

		`CREATE TABLE IF NOT EXISTS comments (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            text TEXT NOT NULL,
            item_id INTEGER NOT NULL REFERENCES items(id),
            author_id INTEGER NOT NULL REFERENCES users(id),
            created_at TEXT NOT NULL
        )`,

		`CREATE TABLE IF NOT EXISTS requests (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            description TEXT NOT NULL,
            requestor_id INTEGER NOT NULL REFERENCES users(id),
            created_at TEXT NOT NULL
        )`,

		`CREATE INDEX IF NOT EXISTS idx_items_owner_id ON items(owner_id)`,
		`CREATE INDEX IF NOT EXISTS idx_items_request_id ON items(request_id)`,
		`CREATE INDEX IF NOT EXISTS idx_bookings_item_id ON bookings(item_id)`,
		`CREATE INDEX IF NOT EXISTS idx_bookings_booker_id ON bookings(booker_id)`,
		`CREATE INDEX IF NOT EXISTS idx_bookings_status ON bookings(status)`,
		`CREATE INDEX IF NOT EXISTS idx_comments_item_id ON comments(item_id)`,
		`CREATE INDEX IF NOT EXISTS idx_requests_requestor_id ON requests(requestor_id)`,
	}

	for _, query := range queries {
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("error executing query %s: %w", query, err)
		}
	}
	return nil
}

// Времена храним строками фиксированной ширины в UTC: все строки одной
// длины, и лексикографический порядок совпадает с хронологическим.
// RFC3339Nano здесь не годится — он отбрасывает хвостовые нули дробной
// части, и "...T12:00:00Z" сортируется после "...T12:00:00.5Z".
const (
	timeEncodeLayout = "2006-01-02T15:04:05.000000000Z07:00"
	timeDecodeLayout = time.RFC3339Nano
)

func encodeTime(t time.Time) string {
	return t.UTC().Format(timeEncodeLayout)
}

func decodeTime(raw string) (time.Time, error) {
	t, err := time.Parse(timeDecodeLayout, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse timestamp %q: %w", raw, err)
	}
	return t, nil
}
