package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/ignatzorin/postboard-backend/internal/models"
	"github.com/ignatzorin/postboard-backend/internal/pkg/apperror"
	"github.com/ignatzorin/postboard-backend/internal/repository"
)

// FavoriteStore описывает зависимость сервиса от хранилища избранного.
type FavoriteStore interface {
	Create(ctx context.Context, userID int64, ref models.TargetRef) (*models.Favorite, error)
	Delete(ctx context.Context, userID int64, ref models.TargetRef) error
	ListByUser(ctx context.Context, userID int64) ([]models.Favorite, error)
}

// GroupedFavorites — избранное пользователя, разложенное по видам целей.
type GroupedFavorites struct {
	Posts []models.Post `json:"posts"`
	Users []models.User `json:"users"`
}

// FavoriteService — единственный путь изменения избранного. Проверяет
// запрет на самодобавление и существование цели; дубликат трактуется как
// явный конфликт, а не как идемпотентный успех.
type FavoriteService struct {
	repo     FavoriteStore
	resolver *TargetResolver
}

// NewFavoriteService создаёт сервис избранного.
func NewFavoriteService(repo FavoriteStore, resolver *TargetResolver) *FavoriteService {
	return &FavoriteService{repo: repo, resolver: resolver}
}

// Create добавляет цель в избранное пользователя.
func (s *FavoriteService) Create(ctx context.Context, actingUserID int64, ref models.TargetRef) (*models.Favorite, error) {
	if ref.Kind == models.TargetKindUser && ref.ID == actingUserID {
		return nil, apperror.ErrSelfFavorite
	}

	// Существование цели проверяется при записи, даже если входная
	// валидация уже проходила: валидация и запись не атомарны.
	if _, err := s.resolver.Resolve(ctx, ref); err != nil {
		return nil, err
	}

	favorite, err := s.repo.Create(ctx, actingUserID, ref)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateFavorite) {
			return nil, apperror.ErrAlreadyFavorited
		}
		return nil, fmt.Errorf("favorite service: create %w", err)
	}

	return favorite, nil
}

// Delete убирает цель из избранного пользователя. Отсутствие записи,
// в том числе после повторного удаления, это NotFound.
func (s *FavoriteService) Delete(ctx context.Context, actingUserID int64, ref models.TargetRef) error {
	if err := s.repo.Delete(ctx, actingUserID, ref); err != nil {
		if errors.Is(err, repository.ErrFavoriteNotFound) {
			return apperror.ErrFavoriteNotFound
		}
		return fmt.Errorf("favorite service: delete %w", err)
	}

	return nil
}

// ListGrouped возвращает избранное пользователя, разрешённое в конкретные
// сущности и сгруппированное по виду цели. Порядок внутри групп — порядок
// добавления в избранное.
func (s *FavoriteService) ListGrouped(ctx context.Context, actingUserID int64) (*GroupedFavorites, error) {
	favorites, err := s.repo.ListByUser(ctx, actingUserID)
	if err != nil {
		return nil, fmt.Errorf("favorite service: list %w", err)
	}

	refs := make([]models.TargetRef, 0, len(favorites))
	for i := range favorites {
		refs = append(refs, favorites[i].Ref())
	}

	set, err := s.resolver.ResolveMany(ctx, refs)
	if err != nil {
		return nil, fmt.Errorf("favorite service: %w", err)
	}

	grouped := &GroupedFavorites{
		Posts: []models.Post{},
		Users: []models.User{},
	}

	// Висячие ссылки (цель удалили, запись осталась) молча пропускаются.
	for _, f := range favorites {
		switch f.ParentType {
		case models.TargetKindPost:
			if post, ok := set.Posts[f.ParentID]; ok {
				grouped.Posts = append(grouped.Posts, post)
			}
		case models.TargetKindUser:
			if user, ok := set.Users[f.ParentID]; ok {
				grouped.Users = append(grouped.Users, user)
			}
		}
	}

	return grouped, nil
}
