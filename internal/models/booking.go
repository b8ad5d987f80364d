package models

import "time"

type Booking struct {
	ID          int64     `json:"id"`
	ItemID      int64     `json:"item_id"`
	ItemName    string    `json:"item_name"`
	ItemOwnerID int64     `json:"-"`
	BookerID    int64     `json:"booker_id"`
	BookerName  string    `json:"booker_name"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	Status      string    `json:"status"` // WAITING, APPROVED, REJECTED
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// BookingRequest — входные данные команды бронирования.
// Указатели различают "не передано" и нулевое значение.
type BookingRequest struct {
	ItemID *int64     `json:"item_id"`
	Start  *time.Time `json:"start"`
	End    *time.Time `json:"end"`
}

// BookingRef — короткая ссылка на бронирование для карточки вещи
// (последнее/следующее бронирование).
type BookingRef struct {
	ID       int64     `json:"id"`
	BookerID int64     `json:"booker_id"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
}

func (b *Booking) Ref() *BookingRef {
	if b == nil {
		return nil
	}
	return &BookingRef{ID: b.ID, BookerID: b.BookerID, Start: b.Start, End: b.End}
}
