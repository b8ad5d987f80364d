package models

import "time"

// ItemRequest — запрос на вещь, которой еще нет в каталоге.
type ItemRequest struct {
	ID          int64     `json:"id"`
	Description string    `json:"description"`
	RequestorID int64     `json:"requestor_id"`
	Created     time.Time `json:"created"`
	Items       []Item    `json:"items"`
}
