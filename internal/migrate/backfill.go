package migrate

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/postboard-backend/internal/models"
)

// Store описывает операции хранилища, нужные бэкфиллу.
type Store interface {
	ListLegacyUnconverted(ctx context.Context) ([]models.LegacyFavorite, error)
	ConvertLegacy(ctx context.Context, favoriteID int64, ref models.TargetRef) error
}

// PostChecker проверяет существование поста.
type PostChecker interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

// Stats содержит итоги одного прогона бэкфилла.
type Stats struct {
	Converted int
	Orphaned  int
}

// Backfill переводит записи избранного старой схемы (только post_id) в
// полиморфную форму parent_type/parent_id. Прогон идемпотентен: уже
// конвертированные строки в выборку не попадают, повторный запуск
// доконвертирует только оставшиеся.
type Backfill struct {
	favorites Store
	posts     PostChecker
	log       logrus.FieldLogger
}

// NewBackfill создаёт мигратор.
func NewBackfill(favorites Store, posts PostChecker, log logrus.FieldLogger) *Backfill {
	return &Backfill{favorites: favorites, posts: posts, log: log}
}

// Run конвертирует все неконвертированные строки. Строки, ссылающиеся на
// уже не существующий пост, пропускаются с предупреждением в логе и не
// прерывают прогон.
func (b *Backfill) Run(ctx context.Context) (*Stats, error) {
	legacy, err := b.favorites.ListLegacyUnconverted(ctx)
	if err != nil {
		return nil, fmt.Errorf("backfill: list legacy %w", err)
	}

	stats := &Stats{}

	for _, row := range legacy {
		exists, err := b.posts.Exists(ctx, row.PostID)
		if err != nil {
			return stats, fmt.Errorf("backfill: check post %w", err)
		}
		if !exists {
			stats.Orphaned++
			if b.log != nil {
				b.log.WithFields(logrus.Fields{
					"favorite_id": row.ID,
					"post_id":     row.PostID,
				}).Warn("бэкфилл: пост не существует, строка пропущена")
			}
			continue
		}

		ref := models.TargetRef{Kind: models.TargetKindPost, ID: row.PostID}
		if err := b.favorites.ConvertLegacy(ctx, row.ID, ref); err != nil {
			return stats, fmt.Errorf("backfill: convert %w", err)
		}
		stats.Converted++
	}

	if b.log != nil && (stats.Converted > 0 || stats.Orphaned > 0) {
		b.log.WithFields(logrus.Fields{
			"converted": stats.Converted,
			"orphaned":  stats.Orphaned,
		}).Info("бэкфилл избранного завершён")
	}

	return stats, nil
}

// DropLegacyPostID удаляет колонку post_id старой схемы. Не вызывается
// автоматически: запускать только после того, как бэкфилл прошёл и
// оставшиеся legacy строки больше не нужны.
func DropLegacyPostID(ctx context.Context, db *sqlx.DB) error {
	if _, err := db.ExecContext(ctx, `ALTER TABLE favorites DROP COLUMN IF EXISTS post_id`); err != nil {
		return fmt.Errorf("backfill: drop post_id %w", err)
	}
	return nil
}

// RevertParentColumns убирает полиморфные колонки, возвращая таблицу к
// старой схеме. Строки, у которых не заполнен post_id (избранные
// пользователи), при этом теряют смысл и остаются без цели.
func RevertParentColumns(ctx context.Context, db *sqlx.DB) error {
	statements := []string{
		`DROP INDEX IF EXISTS uq_favorites_user_parent`,
		`DROP INDEX IF EXISTS idx_favorites_parent`,
		`ALTER TABLE favorites DROP COLUMN IF EXISTS parent_type`,
		`ALTER TABLE favorites DROP COLUMN IF EXISTS parent_id`,
	}
	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("backfill: revert %w", err)
		}
	}
	return nil
}
