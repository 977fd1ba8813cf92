package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/postboard-backend/internal/models"
	"github.com/ignatzorin/postboard-backend/internal/repository/common"
)

var (
	// ErrFavoriteNotFound возвращается, когда запись избранного не найдена.
	ErrFavoriteNotFound = errors.New("favorite not found")
	// ErrDuplicateFavorite возвращается при попытке повторно добавить ту же
	// цель в избранное, включая проигранную гонку на уникальном индексе.
	ErrDuplicateFavorite = errors.New("favorite already exists")
)

// FavoriteRepository — единственная точка записи в таблицу favorites.
// Уникальность пары (user_id, parent_type, parent_id) обеспечивает индекс
// в базе; репозиторий переводит его нарушение в ErrDuplicateFavorite.
type FavoriteRepository struct {
	db *sqlx.DB
}

// NewFavoriteRepository создаёт экземпляр репозитория.
func NewFavoriteRepository(db *sqlx.DB) *FavoriteRepository {
	return &FavoriteRepository{db: db}
}

// Create вставляет новую запись избранного.
func (r *FavoriteRepository) Create(ctx context.Context, userID int64, ref models.TargetRef) (*models.Favorite, error) {
	var f models.Favorite
	query := `
		INSERT INTO favorites (user_id, parent_type, parent_id)
		VALUES ($1, $2, $3)
		RETURNING id, user_id, parent_type, parent_id, created_at
	`

	if err := r.db.GetContext(ctx, &f, query, userID, string(ref.Kind), ref.ID); err != nil {
		if common.IsUniqueViolation(err) {
			return nil, ErrDuplicateFavorite
		}
		return nil, fmt.Errorf("favorite repository: create %w", err)
	}

	return &f, nil
}

// Delete удаляет запись избранного по пользователю и цели.
func (r *FavoriteRepository) Delete(ctx context.Context, userID int64, ref models.TargetRef) error {
	result, err := r.db.ExecContext(ctx, `
		DELETE FROM favorites WHERE user_id = $1 AND parent_type = $2 AND parent_id = $3
	`, userID, string(ref.Kind), ref.ID)
	if err != nil {
		return fmt.Errorf("favorite repository: delete %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("favorite repository: delete rows affected %w", err)
	}
	if n == 0 {
		return ErrFavoriteNotFound
	}

	return nil
}

// ListByUser возвращает избранное пользователя в порядке добавления.
// Legacy строки без parent_type не попадают в выборку до бэкфилла.
func (r *FavoriteRepository) ListByUser(ctx context.Context, userID int64) ([]models.Favorite, error) {
	var favorites []models.Favorite
	query := `
		SELECT id, user_id, parent_type, parent_id, created_at
		FROM favorites
		WHERE user_id = $1 AND parent_type IS NOT NULL
		ORDER BY created_at ASC, id ASC
	`
	if err := r.db.SelectContext(ctx, &favorites, query, userID); err != nil {
		return nil, fmt.Errorf("favorite repository: list by user %w", err)
	}

	return favorites, nil
}

// Exists проверяет наличие записи избранного.
func (r *FavoriteRepository) Exists(ctx context.Context, userID int64, ref models.TargetRef) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `
		SELECT EXISTS(SELECT 1 FROM favorites WHERE user_id = $1 AND parent_type = $2 AND parent_id = $3)
	`, userID, string(ref.Kind), ref.ID)
	if err != nil {
		return false, fmt.Errorf("favorite repository: exists %w", err)
	}
	return exists, nil
}

// ListFavoriterIDs возвращает идентификаторы пользователей, добавивших
// данную цель в избранное. Первый шаг двухфазного запроса аудитории
// уведомлений; пользователей по этим идентификаторам загружают отдельно.
func (r *FavoriteRepository) ListFavoriterIDs(ctx context.Context, ref models.TargetRef) ([]int64, error) {
	var ids []int64
	query := `
		SELECT user_id FROM favorites
		WHERE parent_type = $1 AND parent_id = $2
		ORDER BY id ASC
	`
	if err := r.db.SelectContext(ctx, &ids, query, string(ref.Kind), ref.ID); err != nil {
		return nil, fmt.Errorf("favorite repository: list favoriter ids %w", err)
	}

	return ids, nil
}

// DeleteByTargetTx удаляет все записи избранного, указывающие на цель,
// внутри переданной транзакции. Используется каскадом при удалении цели.
func (r *FavoriteRepository) DeleteByTargetTx(ctx context.Context, tx *sqlx.Tx, ref models.TargetRef) error {
	if _, err := tx.ExecContext(ctx, `
		DELETE FROM favorites WHERE parent_type = $1 AND parent_id = $2
	`, string(ref.Kind), ref.ID); err != nil {
		return fmt.Errorf("favorite repository: delete by target %w", err)
	}

	return nil
}

// ListLegacyUnconverted возвращает строки старой схемы, ещё не переведённые
// в полиморфную форму: post_id заполнен, parent_type пуст.
func (r *FavoriteRepository) ListLegacyUnconverted(ctx context.Context) ([]models.LegacyFavorite, error) {
	var rows []models.LegacyFavorite
	query := `
		SELECT id, user_id, post_id
		FROM favorites
		WHERE post_id IS NOT NULL AND parent_type IS NULL
		ORDER BY id ASC
	`
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("favorite repository: list legacy unconverted %w", err)
	}

	return rows, nil
}

// ConvertLegacy проставляет полиморфную пару на существующей строке.
// Повторная конвертация записывает те же значения, поэтому безопасна.
func (r *FavoriteRepository) ConvertLegacy(ctx context.Context, favoriteID int64, ref models.TargetRef) error {
	if _, err := r.db.ExecContext(ctx, `
		UPDATE favorites SET parent_type = $1, parent_id = $2 WHERE id = $3
	`, string(ref.Kind), ref.ID, favoriteID); err != nil {
		return fmt.Errorf("favorite repository: convert legacy %w", err)
	}

	return nil
}
