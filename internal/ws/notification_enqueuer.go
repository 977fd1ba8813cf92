package ws

import (
	"context"
	"fmt"

	"github.com/ignatzorin/postboard-backend/internal/models"
)

// NotificationCreator сохраняет уведомление в БД.
type NotificationCreator interface {
	Create(ctx context.Context, userID int64, event string, data map[string]interface{}) (*models.Notification, error)
}

// PostCreatedEnqueuer доставляет уведомление о новом посте: сначала строка
// в БД, затем push в открытые WebSocket подключения получателя. Push после
// записи, чтобы офлайн-получатель всё равно увидел уведомление при
// следующем запросе списка.
type PostCreatedEnqueuer struct {
	notifications NotificationCreator
	hub           *Hub
}

// NewPostCreatedEnqueuer создаёт адаптер доставки.
func NewPostCreatedEnqueuer(notifications NotificationCreator, hub *Hub) *PostCreatedEnqueuer {
	return &PostCreatedEnqueuer{notifications: notifications, hub: hub}
}

// Enqueue ставит уведомление получателю.
func (e *PostCreatedEnqueuer) Enqueue(ctx context.Context, recipient *models.User, post *models.Post) error {
	data := map[string]interface{}{
		"post_id":   post.ID,
		"title":     post.Title,
		"author_id": post.UserID,
	}

	if _, err := e.notifications.Create(ctx, recipient.ID, models.NotificationEventPostCreated, data); err != nil {
		return fmt.Errorf("ws enqueuer: save notification %w", err)
	}

	if e.hub != nil {
		if err := e.hub.BroadcastToUser(recipient.ID, models.NotificationEventPostCreated, data); err != nil {
			return fmt.Errorf("ws enqueuer: broadcast %w", err)
		}
	}

	return nil
}
