package models

import "time"

type Item struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Available   bool      `json:"available"`
	OwnerID     int64     `json:"owner_id"`
	RequestID   int64     `json:"request_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ItemCreate — входные данные новой вещи. Available указателем:
// отсутствие поля в запросе отличается от false.
type ItemCreate struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Available   *bool  `json:"available"`
	RequestID   int64  `json:"request_id,omitempty"`
}

// ItemUpdate несет частичное обновление вещи: nil-поля не трогаются
type ItemUpdate struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Available   *bool   `json:"available"`
}

// ItemDetails — вещь с контекстом для владельца и комментариями.
// LastBooking/NextBooking заполняются только для владельца.
type ItemDetails struct {
	Item
	LastBooking *BookingRef `json:"last_booking"`
	NextBooking *BookingRef `json:"next_booking"`
	Comments    []Comment   `json:"comments"`
}
