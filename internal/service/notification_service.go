package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ignatzorin/postboard-backend/internal/models"
	"github.com/ignatzorin/postboard-backend/internal/pkg/apperror"
	"github.com/ignatzorin/postboard-backend/internal/repository"
)

// NotificationStore описывает операции хранилища уведомлений.
type NotificationStore interface {
	Create(ctx context.Context, notification *models.Notification) error
	GetByID(ctx context.Context, id int64) (*models.Notification, error)
	List(ctx context.Context, userID int64, limit, offset int, unreadOnly bool) ([]models.Notification, error)
	MarkAsRead(ctx context.Context, id int64) error
	MarkAllAsRead(ctx context.Context, userID int64) error
	CountUnread(ctx context.Context, userID int64) (int64, error)
}

// NotificationService реализует бизнес-логику уведомлений.
type NotificationService struct {
	repo NotificationStore
}

// NewNotificationService создаёт сервис уведомлений.
func NewNotificationService(repo NotificationStore) *NotificationService {
	return &NotificationService{repo: repo}
}

// notificationPayload описывает структуру JSON-содержимого уведомления.
type notificationPayload struct {
	Event string                 `json:"event"`
	Data  map[string]interface{} `json:"data"`
}

// Create сохраняет уведомление для пользователя.
func (s *NotificationService) Create(ctx context.Context, userID int64, event string, data map[string]interface{}) (*models.Notification, error) {
	payload, err := json.Marshal(notificationPayload{Event: event, Data: data})
	if err != nil {
		return nil, fmt.Errorf("notification service: marshal payload %w", err)
	}

	notification := &models.Notification{
		UserID:  userID,
		Payload: payload,
	}
	if err := s.repo.Create(ctx, notification); err != nil {
		return nil, fmt.Errorf("notification service: create %w", err)
	}

	return notification, nil
}

// List возвращает уведомления пользователя.
func (s *NotificationService) List(ctx context.Context, userID int64, limit, offset int, unreadOnly bool) ([]models.Notification, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	notifications, err := s.repo.List(ctx, userID, limit, offset, unreadOnly)
	if err != nil {
		return nil, fmt.Errorf("notification service: list %w", err)
	}
	if notifications == nil {
		notifications = []models.Notification{}
	}

	return notifications, nil
}

// MarkAsRead отмечает уведомление прочитанным. Чужое уведомление недоступно.
func (s *NotificationService) MarkAsRead(ctx context.Context, userID, notificationID int64) error {
	notification, err := s.repo.GetByID(ctx, notificationID)
	if err != nil {
		if errors.Is(err, repository.ErrNotificationNotFound) {
			return apperror.New(apperror.ErrCodeNotFound, "уведомление не найдено")
		}
		return fmt.Errorf("notification service: get %w", err)
	}
	if notification.UserID != userID {
		return apperror.ErrForbidden
	}

	if err := s.repo.MarkAsRead(ctx, notificationID); err != nil {
		if errors.Is(err, repository.ErrNotificationNotFound) {
			return apperror.New(apperror.ErrCodeNotFound, "уведомление не найдено")
		}
		return fmt.Errorf("notification service: mark as read %w", err)
	}

	return nil
}

// MarkAllAsRead отмечает все уведомления пользователя прочитанными.
func (s *NotificationService) MarkAllAsRead(ctx context.Context, userID int64) error {
	if err := s.repo.MarkAllAsRead(ctx, userID); err != nil {
		return fmt.Errorf("notification service: mark all as read %w", err)
	}
	return nil
}

// CountUnread возвращает число непрочитанных уведомлений.
func (s *NotificationService) CountUnread(ctx context.Context, userID int64) (int64, error) {
	count, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("notification service: count unread %w", err)
	}
	return count, nil
}
