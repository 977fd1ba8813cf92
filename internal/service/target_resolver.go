package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/ignatzorin/postboard-backend/internal/models"
	"github.com/ignatzorin/postboard-backend/internal/pkg/apperror"
	"github.com/ignatzorin/postboard-backend/internal/repository"
)

// PostSource описывает зависимость резолвера от хранилища постов.
type PostSource interface {
	GetByID(ctx context.Context, id int64) (*models.Post, error)
	ListByIDs(ctx context.Context, ids []int64) ([]models.Post, error)
}

// UserSource описывает зависимость резолвера от хранилища пользователей.
type UserSource interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
	ListByIDs(ctx context.Context, ids []int64) ([]models.User, error)
}

// Target — результат разрешения полиморфной ссылки: размеченное объединение,
// в котором заполнено ровно одно из полей в соответствии с Kind.
type Target struct {
	Kind models.TargetKind
	Post *models.Post
	User *models.User
}

// TargetResolver — единственное место, где тег избранного превращается в
// обращение к конкретной таблице и обратно. Набор тегов закрыт: post и user.
type TargetResolver struct {
	posts PostSource
	users UserSource
}

// NewTargetResolver создаёт резолвер полиморфных ссылок.
func NewTargetResolver(posts PostSource, users UserSource) *TargetResolver {
	return &TargetResolver{posts: posts, users: users}
}

// Resolve загружает цель по типизированной ссылке. Отсутствующая цель
// превращается в доменную ошибку NotFound соответствующего вида.
func (r *TargetResolver) Resolve(ctx context.Context, ref models.TargetRef) (*Target, error) {
	switch ref.Kind {
	case models.TargetKindPost:
		post, err := r.posts.GetByID(ctx, ref.ID)
		if err != nil {
			if errors.Is(err, repository.ErrPostNotFound) {
				return nil, apperror.ErrPostNotFound
			}
			return nil, fmt.Errorf("target resolver: resolve post %w", err)
		}
		return &Target{Kind: models.TargetKindPost, Post: post}, nil

	case models.TargetKindUser:
		user, err := r.users.GetByID(ctx, ref.ID)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return nil, apperror.ErrUserNotFound
			}
			return nil, fmt.Errorf("target resolver: resolve user %w", err)
		}
		return &Target{Kind: models.TargetKindUser, User: user}, nil

	default:
		return nil, fmt.Errorf("target resolver: неизвестный тип цели %q", ref.Kind)
	}
}

// ResolvedSet — результат пакетного разрешения ссылок. Ссылки, для которых
// цель уже удалена, в наборе отсутствуют.
type ResolvedSet struct {
	Posts map[int64]models.Post
	Users map[int64]models.User
}

// ResolveMany загружает цели для набора ссылок за два запроса — по одному
// на каждый вид, вместо запроса на каждую ссылку.
func (r *TargetResolver) ResolveMany(ctx context.Context, refs []models.TargetRef) (*ResolvedSet, error) {
	var postIDs, userIDs []int64
	for _, ref := range refs {
		switch ref.Kind {
		case models.TargetKindPost:
			postIDs = append(postIDs, ref.ID)
		case models.TargetKindUser:
			userIDs = append(userIDs, ref.ID)
		}
	}

	set := &ResolvedSet{
		Posts: make(map[int64]models.Post, len(postIDs)),
		Users: make(map[int64]models.User, len(userIDs)),
	}

	if len(postIDs) > 0 {
		posts, err := r.posts.ListByIDs(ctx, postIDs)
		if err != nil {
			return nil, fmt.Errorf("target resolver: resolve posts %w", err)
		}
		for _, p := range posts {
			set.Posts[p.ID] = p
		}
	}

	if len(userIDs) > 0 {
		users, err := r.users.ListByIDs(ctx, userIDs)
		if err != nil {
			return nil, fmt.Errorf("target resolver: resolve users %w", err)
		}
		for _, u := range users {
			set.Users[u.ID] = u
		}
	}

	return set, nil
}

// DescribePost возвращает пару (тег, идентификатор) для сохранения ссылки на пост.
func DescribePost(post *models.Post) models.TargetRef {
	return models.TargetRef{Kind: models.TargetKindPost, ID: post.ID}
}

// DescribeUser возвращает пару (тег, идентификатор) для сохранения ссылки на пользователя.
func DescribeUser(user *models.User) models.TargetRef {
	return models.TargetRef{Kind: models.TargetKindUser, ID: user.ID}
}
