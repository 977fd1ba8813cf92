package service

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/ignatzorin/postboard-backend/internal/models"
	"github.com/ignatzorin/postboard-backend/internal/pkg/apperror"
	"github.com/ignatzorin/postboard-backend/internal/repository"
)

type mockPostStore struct {
	mock.Mock
}

func (m *mockPostStore) Create(ctx context.Context, post *models.Post) error {
	args := m.Called(ctx, post)
	if args.Error(0) == nil {
		post.ID = 1
	}
	return args.Error(0)
}

func (m *mockPostStore) GetByID(ctx context.Context, id int64) (*models.Post, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *mockPostStore) List(ctx context.Context, sinceID int64) ([]models.Post, error) {
	args := m.Called(ctx, sinceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Post), args.Error(1)
}

func (m *mockPostStore) Update(ctx context.Context, post *models.Post) error {
	args := m.Called(ctx, post)
	return args.Error(0)
}

func (m *mockPostStore) DeleteTx(ctx context.Context, tx *sqlx.Tx, id int64) error {
	args := m.Called(ctx, tx, id)
	return args.Error(0)
}

func TestPostService_Create_Success(t *testing.T) {
	posts := new(mockPostStore)
	svc := NewPostService(nil, posts, nil, nil, nil, nil)
	ctx := context.Background()

	posts.On("Create", ctx, mock.AnythingOfType("*models.Post")).Return(nil)

	post, err := svc.Create(ctx, 1, "Заголовок", "Текст поста", nil)

	assert.NoError(t, err)
	assert.Equal(t, int64(1), post.ID)
	assert.Equal(t, int64(1), post.UserID)
}

func TestPostService_Create_EmptyTitle(t *testing.T) {
	posts := new(mockPostStore)
	svc := NewPostService(nil, posts, nil, nil, nil, nil)

	_, err := svc.Create(context.Background(), 1, "  ", "Текст", nil)

	assert.Error(t, err)
	posts.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestPostService_Get_NotFound(t *testing.T) {
	posts := new(mockPostStore)
	svc := NewPostService(nil, posts, nil, nil, nil, nil)
	ctx := context.Background()

	posts.On("GetByID", ctx, int64(99)).Return(nil, repository.ErrPostNotFound)

	_, err := svc.Get(ctx, 99)

	assert.ErrorIs(t, err, apperror.ErrPostNotFound)
}

func TestPostService_Update_NotOwner(t *testing.T) {
	posts := new(mockPostStore)
	svc := NewPostService(nil, posts, nil, nil, nil, nil)
	ctx := context.Background()

	posts.On("GetByID", ctx, int64(7)).Return(&models.Post{ID: 7, UserID: 2}, nil)

	_, err := svc.Update(ctx, 1, 7, "Заголовок", "Текст")

	assert.ErrorIs(t, err, apperror.ErrForbidden)
	posts.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestPostService_Delete_NotOwner(t *testing.T) {
	posts := new(mockPostStore)
	svc := NewPostService(nil, posts, nil, nil, nil, nil)
	ctx := context.Background()

	posts.On("GetByID", ctx, int64(7)).Return(&models.Post{ID: 7, UserID: 2}, nil)

	err := svc.Delete(ctx, 1, 7)

	assert.ErrorIs(t, err, apperror.ErrForbidden)
	posts.AssertNotCalled(t, "DeleteTx", mock.Anything, mock.Anything, mock.Anything)
}

func TestPostService_List_EmptyIsNotNil(t *testing.T) {
	posts := new(mockPostStore)
	svc := NewPostService(nil, posts, nil, nil, nil, nil)
	ctx := context.Background()

	posts.On("List", ctx, int64(0)).Return(nil, nil)

	result, err := svc.List(ctx, 0)

	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.Empty(t, result)
}
