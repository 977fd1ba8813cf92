package service

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/postboard-backend/internal/models"
)

// FavoriteAudience описывает запрос аудитории: кто добавил цель в избранное.
type FavoriteAudience interface {
	ListFavoriterIDs(ctx context.Context, ref models.TargetRef) ([]int64, error)
}

// RecipientSource загружает пользователей-получателей пачкой.
type RecipientSource interface {
	ListByIDs(ctx context.Context, ids []int64) ([]models.User, error)
}

// Enqueuer — канал доставки уведомлений. Контракт триггера заканчивается
// на постановке одного уведомления в очередь на каждого получателя.
type Enqueuer interface {
	Enqueue(ctx context.Context, recipient *models.User, post *models.Post) error
}

// PostCreatedNotifier рассылает уведомление о новой публикации всем, кто
// добавил автора в избранное. Аудитория собирается в два шага: сначала
// строки избранного, указывающие на автора, затем пакетная загрузка
// пользователей по собранным идентификаторам.
type PostCreatedNotifier struct {
	favorites FavoriteAudience
	users     RecipientSource
	enqueuer  Enqueuer
	log       logrus.FieldLogger
}

// NewPostCreatedNotifier создаёт триггер уведомлений.
func NewPostCreatedNotifier(favorites FavoriteAudience, users RecipientSource, enqueuer Enqueuer, log logrus.FieldLogger) *PostCreatedNotifier {
	return &PostCreatedNotifier{
		favorites: favorites,
		users:     users,
		enqueuer:  enqueuer,
		log:       log,
	}
}

// OnPostCreated вызывается после того, как пост сохранён. Пустая аудитория —
// не ошибка. Сбой постановки в очередь по одному получателю логируется и не
// останавливает рассылку остальным.
func (n *PostCreatedNotifier) OnPostCreated(ctx context.Context, post *models.Post) error {
	authorRef := models.TargetRef{Kind: models.TargetKindUser, ID: post.UserID}

	favoriterIDs, err := n.favorites.ListFavoriterIDs(ctx, authorRef)
	if err != nil {
		return fmt.Errorf("post created notifier: audience %w", err)
	}
	if len(favoriterIDs) == 0 {
		return nil
	}

	recipients, err := n.users.ListByIDs(ctx, favoriterIDs)
	if err != nil {
		return fmt.Errorf("post created notifier: recipients %w", err)
	}

	for i := range recipients {
		recipient := recipients[i]
		// Автор не получает уведомление о собственном посте.
		if recipient.ID == post.UserID {
			continue
		}

		if err := n.enqueuer.Enqueue(ctx, &recipient, post); err != nil {
			if n.log != nil {
				n.log.WithFields(logrus.Fields{
					"post_id":      post.ID,
					"recipient_id": recipient.ID,
				}).WithError(err).Error("не удалось поставить уведомление в очередь")
			}
		}
	}

	return nil
}
