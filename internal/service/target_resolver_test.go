package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ignatzorin/postboard-backend/internal/models"
	"github.com/ignatzorin/postboard-backend/internal/pkg/apperror"
	"github.com/ignatzorin/postboard-backend/internal/repository"
)

func TestTargetResolver_Resolve_Post(t *testing.T) {
	posts := new(mockPostSource)
	users := new(mockUserSource)
	resolver := NewTargetResolver(posts, users)
	ctx := context.Background()

	posts.On("GetByID", ctx, int64(7)).Return(&models.Post{ID: 7, Title: "пост"}, nil)

	target, err := resolver.Resolve(ctx, models.TargetRef{Kind: models.TargetKindPost, ID: 7})

	assert.NoError(t, err)
	assert.Equal(t, models.TargetKindPost, target.Kind)
	assert.NotNil(t, target.Post)
	assert.Nil(t, target.User)
}

func TestTargetResolver_Resolve_User(t *testing.T) {
	posts := new(mockPostSource)
	users := new(mockUserSource)
	resolver := NewTargetResolver(posts, users)
	ctx := context.Background()

	users.On("GetByID", ctx, int64(3)).Return(&models.User{ID: 3, Name: "Анна"}, nil)

	target, err := resolver.Resolve(ctx, models.TargetRef{Kind: models.TargetKindUser, ID: 3})

	assert.NoError(t, err)
	assert.Equal(t, models.TargetKindUser, target.Kind)
	assert.NotNil(t, target.User)
	assert.Nil(t, target.Post)
}

func TestTargetResolver_Resolve_PostMissing(t *testing.T) {
	posts := new(mockPostSource)
	users := new(mockUserSource)
	resolver := NewTargetResolver(posts, users)
	ctx := context.Background()

	posts.On("GetByID", ctx, int64(99)).Return(nil, repository.ErrPostNotFound)

	_, err := resolver.Resolve(ctx, models.TargetRef{Kind: models.TargetKindPost, ID: 99})

	assert.ErrorIs(t, err, apperror.ErrPostNotFound)
}

func TestTargetResolver_Resolve_UnknownKind(t *testing.T) {
	posts := new(mockPostSource)
	users := new(mockUserSource)
	resolver := NewTargetResolver(posts, users)
	ctx := context.Background()

	_, err := resolver.Resolve(ctx, models.TargetRef{Kind: models.TargetKind("comment"), ID: 1})

	assert.Error(t, err)
	posts.AssertNotCalled(t, "GetByID", ctx, int64(1))
	users.AssertNotCalled(t, "GetByID", ctx, int64(1))
}

func TestTargetResolver_ResolveMany_TwoQueries(t *testing.T) {
	posts := new(mockPostSource)
	users := new(mockUserSource)
	resolver := NewTargetResolver(posts, users)
	ctx := context.Background()

	refs := []models.TargetRef{
		{Kind: models.TargetKindPost, ID: 7},
		{Kind: models.TargetKindUser, ID: 3},
		{Kind: models.TargetKindPost, ID: 8},
	}

	posts.On("ListByIDs", ctx, []int64{7, 8}).Return([]models.Post{{ID: 7}, {ID: 8}}, nil).Once()
	users.On("ListByIDs", ctx, []int64{3}).Return([]models.User{{ID: 3}}, nil).Once()

	set, err := resolver.ResolveMany(ctx, refs)

	assert.NoError(t, err)
	assert.Len(t, set.Posts, 2)
	assert.Len(t, set.Users, 1)
	posts.AssertExpectations(t)
	users.AssertExpectations(t)
}

func TestTargetResolver_ResolveMany_NoRefs(t *testing.T) {
	posts := new(mockPostSource)
	users := new(mockUserSource)
	resolver := NewTargetResolver(posts, users)
	ctx := context.Background()

	set, err := resolver.ResolveMany(ctx, nil)

	assert.NoError(t, err)
	assert.Empty(t, set.Posts)
	assert.Empty(t, set.Users)
	posts.AssertNotCalled(t, "ListByIDs", ctx, []int64(nil))
	users.AssertNotCalled(t, "ListByIDs", ctx, []int64(nil))
}
