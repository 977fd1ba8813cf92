package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/ignatzorin/postboard-backend/internal/models"
	"github.com/ignatzorin/postboard-backend/internal/pkg/apperror"
	"github.com/ignatzorin/postboard-backend/internal/repository"
)

type mockFavoriteStore struct {
	mock.Mock
}

func (m *mockFavoriteStore) Create(ctx context.Context, userID int64, ref models.TargetRef) (*models.Favorite, error) {
	args := m.Called(ctx, userID, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Favorite), args.Error(1)
}

func (m *mockFavoriteStore) Delete(ctx context.Context, userID int64, ref models.TargetRef) error {
	args := m.Called(ctx, userID, ref)
	return args.Error(0)
}

func (m *mockFavoriteStore) ListByUser(ctx context.Context, userID int64) ([]models.Favorite, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Favorite), args.Error(1)
}

type mockPostSource struct {
	mock.Mock
}

func (m *mockPostSource) GetByID(ctx context.Context, id int64) (*models.Post, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *mockPostSource) ListByIDs(ctx context.Context, ids []int64) ([]models.Post, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Post), args.Error(1)
}

type mockUserSource struct {
	mock.Mock
}

func (m *mockUserSource) GetByID(ctx context.Context, id int64) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *mockUserSource) ListByIDs(ctx context.Context, ids []int64) ([]models.User, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.User), args.Error(1)
}

func newFavoriteService(store *mockFavoriteStore, posts *mockPostSource, users *mockUserSource) *FavoriteService {
	return NewFavoriteService(store, NewTargetResolver(posts, users))
}

func TestFavoriteService_Create_Post_Success(t *testing.T) {
	store := new(mockFavoriteStore)
	posts := new(mockPostSource)
	users := new(mockUserSource)
	svc := newFavoriteService(store, posts, users)
	ctx := context.Background()

	ref := models.TargetRef{Kind: models.TargetKindPost, ID: 7}
	posts.On("GetByID", ctx, int64(7)).Return(&models.Post{ID: 7, UserID: 2}, nil)
	store.On("Create", ctx, int64(1), ref).Return(&models.Favorite{
		ID:         10,
		UserID:     1,
		ParentType: models.TargetKindPost,
		ParentID:   7,
	}, nil)

	favorite, err := svc.Create(ctx, 1, ref)

	assert.NoError(t, err)
	assert.NotNil(t, favorite)
	assert.Equal(t, models.TargetKindPost, favorite.ParentType)
	assert.Equal(t, int64(7), favorite.ParentID)
}

func TestFavoriteService_Create_SelfFavorite(t *testing.T) {
	store := new(mockFavoriteStore)
	posts := new(mockPostSource)
	users := new(mockUserSource)
	svc := newFavoriteService(store, posts, users)
	ctx := context.Background()

	ref := models.TargetRef{Kind: models.TargetKindUser, ID: 1}
	_, err := svc.Create(ctx, 1, ref)

	assert.ErrorIs(t, err, apperror.ErrSelfFavorite)
	store.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
	users.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestFavoriteService_Create_OtherUser_Success(t *testing.T) {
	store := new(mockFavoriteStore)
	posts := new(mockPostSource)
	users := new(mockUserSource)
	svc := newFavoriteService(store, posts, users)
	ctx := context.Background()

	ref := models.TargetRef{Kind: models.TargetKindUser, ID: 2}
	users.On("GetByID", ctx, int64(2)).Return(&models.User{ID: 2, Name: "Борис"}, nil)
	store.On("Create", ctx, int64(1), ref).Return(&models.Favorite{
		ID:         11,
		UserID:     1,
		ParentType: models.TargetKindUser,
		ParentID:   2,
	}, nil)

	favorite, err := svc.Create(ctx, 1, ref)

	assert.NoError(t, err)
	assert.Equal(t, models.TargetKindUser, favorite.ParentType)
}

func TestFavoriteService_Create_TargetMissing(t *testing.T) {
	store := new(mockFavoriteStore)
	posts := new(mockPostSource)
	users := new(mockUserSource)
	svc := newFavoriteService(store, posts, users)
	ctx := context.Background()

	posts.On("GetByID", ctx, int64(99)).Return(nil, repository.ErrPostNotFound)

	_, err := svc.Create(ctx, 1, models.TargetRef{Kind: models.TargetKindPost, ID: 99})

	assert.ErrorIs(t, err, apperror.ErrPostNotFound)
	store.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestFavoriteService_Create_Duplicate(t *testing.T) {
	store := new(mockFavoriteStore)
	posts := new(mockPostSource)
	users := new(mockUserSource)
	svc := newFavoriteService(store, posts, users)
	ctx := context.Background()

	ref := models.TargetRef{Kind: models.TargetKindPost, ID: 7}
	posts.On("GetByID", ctx, int64(7)).Return(&models.Post{ID: 7}, nil)
	store.On("Create", ctx, int64(1), ref).Return(nil, repository.ErrDuplicateFavorite)

	_, err := svc.Create(ctx, 1, ref)

	assert.ErrorIs(t, err, apperror.ErrAlreadyFavorited)
}

func TestFavoriteService_Delete_Success(t *testing.T) {
	store := new(mockFavoriteStore)
	posts := new(mockPostSource)
	users := new(mockUserSource)
	svc := newFavoriteService(store, posts, users)
	ctx := context.Background()

	ref := models.TargetRef{Kind: models.TargetKindPost, ID: 7}
	store.On("Delete", ctx, int64(1), ref).Return(nil)

	assert.NoError(t, svc.Delete(ctx, 1, ref))
}

func TestFavoriteService_Delete_NotFound(t *testing.T) {
	store := new(mockFavoriteStore)
	posts := new(mockPostSource)
	users := new(mockUserSource)
	svc := newFavoriteService(store, posts, users)
	ctx := context.Background()

	ref := models.TargetRef{Kind: models.TargetKindUser, ID: 5}
	store.On("Delete", ctx, int64(1), ref).Return(repository.ErrFavoriteNotFound)

	err := svc.Delete(ctx, 1, ref)

	assert.ErrorIs(t, err, apperror.ErrFavoriteNotFound)
}

func TestFavoriteService_ListGrouped(t *testing.T) {
	store := new(mockFavoriteStore)
	posts := new(mockPostSource)
	users := new(mockUserSource)
	svc := newFavoriteService(store, posts, users)
	ctx := context.Background()

	now := time.Now()
	favorites := []models.Favorite{
		{ID: 1, UserID: 1, ParentType: models.TargetKindPost, ParentID: 7, CreatedAt: now},
		{ID: 2, UserID: 1, ParentType: models.TargetKindUser, ParentID: 3, CreatedAt: now},
		{ID: 3, UserID: 1, ParentType: models.TargetKindPost, ParentID: 8, CreatedAt: now},
	}

	store.On("ListByUser", ctx, int64(1)).Return(favorites, nil)
	posts.On("ListByIDs", ctx, []int64{7, 8}).Return([]models.Post{
		{ID: 7, Title: "первый"},
		{ID: 8, Title: "второй"},
	}, nil)
	users.On("ListByIDs", ctx, []int64{3}).Return([]models.User{{ID: 3, Name: "Анна"}}, nil)

	grouped, err := svc.ListGrouped(ctx, 1)

	assert.NoError(t, err)
	assert.Len(t, grouped.Posts, 2)
	assert.Len(t, grouped.Users, 1)
	// Порядок в группах повторяет порядок добавления в избранное.
	assert.Equal(t, int64(7), grouped.Posts[0].ID)
	assert.Equal(t, int64(8), grouped.Posts[1].ID)
}

func TestFavoriteService_ListGrouped_SkipsDangling(t *testing.T) {
	store := new(mockFavoriteStore)
	posts := new(mockPostSource)
	users := new(mockUserSource)
	svc := newFavoriteService(store, posts, users)
	ctx := context.Background()

	favorites := []models.Favorite{
		{ID: 1, UserID: 1, ParentType: models.TargetKindPost, ParentID: 7},
		{ID: 2, UserID: 1, ParentType: models.TargetKindPost, ParentID: 99},
	}

	store.On("ListByUser", ctx, int64(1)).Return(favorites, nil)
	// Пост 99 уже удалён, источник возвращает только существующие.
	posts.On("ListByIDs", ctx, []int64{7, 99}).Return([]models.Post{{ID: 7}}, nil)

	grouped, err := svc.ListGrouped(ctx, 1)

	assert.NoError(t, err)
	assert.Len(t, grouped.Posts, 1)
	assert.Empty(t, grouped.Users)
}

func TestFavoriteService_ListGrouped_Empty(t *testing.T) {
	store := new(mockFavoriteStore)
	posts := new(mockPostSource)
	users := new(mockUserSource)
	svc := newFavoriteService(store, posts, users)
	ctx := context.Background()

	store.On("ListByUser", ctx, int64(1)).Return([]models.Favorite{}, nil)

	grouped, err := svc.ListGrouped(ctx, 1)

	assert.NoError(t, err)
	assert.NotNil(t, grouped.Posts)
	assert.NotNil(t, grouped.Users)
	assert.Empty(t, grouped.Posts)
	assert.Empty(t, grouped.Users)
}
