package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/ignatzorin/postboard-backend/internal/models"
	"github.com/ignatzorin/postboard-backend/internal/pkg/apperror"
)

type mockNotificationStore struct {
	mock.Mock
}

func (m *mockNotificationStore) Create(ctx context.Context, notification *models.Notification) error {
	args := m.Called(ctx, notification)
	if args.Error(0) == nil {
		notification.ID = 1
	}
	return args.Error(0)
}

func (m *mockNotificationStore) GetByID(ctx context.Context, id int64) (*models.Notification, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Notification), args.Error(1)
}

func (m *mockNotificationStore) List(ctx context.Context, userID int64, limit, offset int, unreadOnly bool) ([]models.Notification, error) {
	args := m.Called(ctx, userID, limit, offset, unreadOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Notification), args.Error(1)
}

func (m *mockNotificationStore) MarkAsRead(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockNotificationStore) MarkAllAsRead(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *mockNotificationStore) CountUnread(ctx context.Context, userID int64) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func TestNotificationService_Create_PayloadShape(t *testing.T) {
	repo := new(mockNotificationStore)
	svc := NewNotificationService(repo)
	ctx := context.Background()

	repo.On("Create", ctx, mock.AnythingOfType("*models.Notification")).Return(nil)

	notification, err := svc.Create(ctx, 5, models.NotificationEventPostCreated, map[string]interface{}{
		"post_id": int64(10),
	})

	assert.NoError(t, err)

	var payload struct {
		Event string                 `json:"event"`
		Data  map[string]interface{} `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(notification.Payload, &payload))
	assert.Equal(t, models.NotificationEventPostCreated, payload.Event)
	assert.EqualValues(t, 10, payload.Data["post_id"])
}

func TestNotificationService_MarkAsRead_OtherUsers(t *testing.T) {
	repo := new(mockNotificationStore)
	svc := NewNotificationService(repo)
	ctx := context.Background()

	repo.On("GetByID", ctx, int64(3)).Return(&models.Notification{ID: 3, UserID: 2}, nil)

	err := svc.MarkAsRead(ctx, 1, 3)

	assert.ErrorIs(t, err, apperror.ErrForbidden)
	repo.AssertNotCalled(t, "MarkAsRead", mock.Anything, mock.Anything)
}

func TestNotificationService_List_DefaultLimit(t *testing.T) {
	repo := new(mockNotificationStore)
	svc := NewNotificationService(repo)
	ctx := context.Background()

	repo.On("List", ctx, int64(1), 20, 0, false).Return([]models.Notification{}, nil)

	notifications, err := svc.List(ctx, 1, -5, -1, false)

	assert.NoError(t, err)
	assert.NotNil(t, notifications)
	repo.AssertExpectations(t)
}
