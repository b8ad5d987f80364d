package models

import "time"

type User struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// UserUpdate несет частичное обновление пользователя.
type UserUpdate struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
}
