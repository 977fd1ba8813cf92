package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/postboard-backend/internal/goroutine"
	"github.com/ignatzorin/postboard-backend/internal/models"
	"github.com/ignatzorin/postboard-backend/internal/pkg/apperror"
	"github.com/ignatzorin/postboard-backend/internal/repository"
	"github.com/ignatzorin/postboard-backend/internal/repository/common"
	"github.com/ignatzorin/postboard-backend/internal/validation"
)

// PostStore описывает операции хранилища постов, нужные сервису.
type PostStore interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id int64) (*models.Post, error)
	List(ctx context.Context, sinceID int64) ([]models.Post, error)
	Update(ctx context.Context, post *models.Post) error
	DeleteTx(ctx context.Context, tx *sqlx.Tx, id int64) error
}

// FavoriteCascade удаляет записи избранного, указывающие на цель.
type FavoriteCascade interface {
	DeleteByTargetTx(ctx context.Context, tx *sqlx.Tx, ref models.TargetRef) error
}

// Notifier получает событие о созданном посте.
type Notifier interface {
	OnPostCreated(ctx context.Context, post *models.Post) error
}

// PostService реализует бизнес-логику постов.
type PostService struct {
	db        *sqlx.DB
	posts     PostStore
	favorites FavoriteCascade
	notifier  Notifier
	recovery  *goroutine.RecoveryHandler
	log       logrus.FieldLogger
}

// NewPostService создаёт сервис постов. notifier может быть nil, тогда
// рассылка уведомлений отключена.
func NewPostService(
	db *sqlx.DB,
	posts PostStore,
	favorites FavoriteCascade,
	notifier Notifier,
	recovery *goroutine.RecoveryHandler,
	log logrus.FieldLogger,
) *PostService {
	return &PostService{
		db:        db,
		posts:     posts,
		favorites: favorites,
		notifier:  notifier,
		recovery:  recovery,
		log:       log,
	}
}

// Create создаёт пост и асинхронно запускает рассылку уведомлений тем, кто
// добавил автора в избранное. Ответ клиенту не ждёт рассылку.
func (s *PostService) Create(ctx context.Context, userID int64, title, body string, imageURL *string) (*models.Post, error) {
	if err := validation.ValidatePostTitle(title); err != nil {
		return nil, err
	}
	if err := validation.ValidatePostBody(body); err != nil {
		return nil, err
	}

	post := &models.Post{
		UserID:   userID,
		Title:    title,
		Body:     body,
		ImageURL: imageURL,
	}
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("post service: create %w", err)
	}

	if s.notifier != nil && s.recovery != nil {
		created := *post
		// Контекст запроса завершается вместе с ответом, фоновая рассылка
		// живёт дольше него.
		s.recovery.SafeGoWithContext(context.Background(), func(ctx context.Context) {
			if err := s.notifier.OnPostCreated(ctx, &created); err != nil && s.log != nil {
				s.log.WithField("post_id", created.ID).WithError(err).Error("рассылка уведомлений о посте не выполнена")
			}
		})
	}

	return post, nil
}

// Get возвращает пост по идентификатору.
func (s *PostService) Get(ctx context.Context, id int64) (*models.Post, error) {
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrPostNotFound) {
			return nil, apperror.ErrPostNotFound
		}
		return nil, fmt.Errorf("post service: get %w", err)
	}
	return post, nil
}

// List возвращает посты от новых к старым.
func (s *PostService) List(ctx context.Context, sinceID int64) ([]models.Post, error) {
	posts, err := s.posts.List(ctx, sinceID)
	if err != nil {
		return nil, fmt.Errorf("post service: list %w", err)
	}
	if posts == nil {
		posts = []models.Post{}
	}
	return posts, nil
}

// Update обновляет пост. Редактировать пост может только автор.
func (s *PostService) Update(ctx context.Context, userID, postID int64, title, body string) (*models.Post, error) {
	if err := validation.ValidatePostTitle(title); err != nil {
		return nil, err
	}
	if err := validation.ValidatePostBody(body); err != nil {
		return nil, err
	}

	post, err := s.Get(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.UserID != userID {
		return nil, apperror.ErrForbidden
	}

	post.Title = title
	post.Body = body
	if err := s.posts.Update(ctx, post); err != nil {
		if errors.Is(err, repository.ErrPostNotFound) {
			return nil, apperror.ErrPostNotFound
		}
		return nil, fmt.Errorf("post service: update %w", err)
	}

	return post, nil
}

// Delete удаляет пост вместе с записями избранного, которые на него
// указывают. Обе операции выполняются в одной транзакции, чтобы не
// оставлять висячих ссылок.
func (s *PostService) Delete(ctx context.Context, userID, postID int64) error {
	post, err := s.Get(ctx, postID)
	if err != nil {
		return err
	}
	if post.UserID != userID {
		return apperror.ErrForbidden
	}

	ref := models.TargetRef{Kind: models.TargetKindPost, ID: postID}
	err = common.WithTransaction(ctx, s.db, func(tx *sqlx.Tx) error {
		if err := s.favorites.DeleteByTargetTx(ctx, tx, ref); err != nil {
			return err
		}
		return s.posts.DeleteTx(ctx, tx, postID)
	})
	if err != nil {
		if errors.Is(err, repository.ErrPostNotFound) {
			return apperror.ErrPostNotFound
		}
		return fmt.Errorf("post service: delete %w", err)
	}

	return nil
}
