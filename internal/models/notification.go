package models

import (
	"encoding/json"
	"time"
)

// Событие уведомления о новой публикации избранного автора.
const NotificationEventPostCreated = "posts.created"

// Notification описывает уведомление пользователя.
type Notification struct {
	ID        int64           `db:"id" json:"id"`
	UserID    int64           `db:"user_id" json:"user_id"`
	Payload   json.RawMessage `db:"payload" json:"payload"`
	IsRead    bool            `db:"is_read" json:"is_read"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
}
