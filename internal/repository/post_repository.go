package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/ignatzorin/postboard-backend/internal/models"
	"github.com/ignatzorin/postboard-backend/internal/repository/common"
)

// ErrPostNotFound возвращается, когда пост не найден.
var ErrPostNotFound = errors.New("post not found")

// PostRepository отвечает за работу с таблицей posts.
type PostRepository struct {
	db *sqlx.DB
}

// NewPostRepository создаёт экземпляр репозитория.
func NewPostRepository(db *sqlx.DB) *PostRepository {
	return &PostRepository{db: db}
}

// Create создаёт новый пост.
func (r *PostRepository) Create(ctx context.Context, post *models.Post) error {
	query := `
		INSERT INTO posts (user_id, title, body, image_url)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`

	if err := r.db.QueryRowxContext(
		ctx, query,
		post.UserID, post.Title, post.Body, post.ImageURL,
	).Scan(&post.ID, &post.CreatedAt, &post.UpdatedAt); err != nil {
		return fmt.Errorf("post repository: create %w", err)
	}

	return nil
}

// GetByID возвращает пост по идентификатору.
func (r *PostRepository) GetByID(ctx context.Context, id int64) (*models.Post, error) {
	return common.GetByID[models.Post](ctx, r.db, "posts", id, ErrPostNotFound)
}

// Exists проверяет наличие поста с данным идентификатором.
func (r *PostRepository) Exists(ctx context.Context, id int64) (bool, error) {
	return common.ExistsByID(ctx, r.db, "posts", id)
}

// List возвращает посты от новых к старым. sinceID > 0 ограничивает выборку
// постами с идентификатором больше указанного.
func (r *PostRepository) List(ctx context.Context, sinceID int64) ([]models.Post, error) {
	query := `SELECT * FROM posts`
	args := []interface{}{}

	if sinceID > 0 {
		query += ` WHERE id > $1`
		args = append(args, sinceID)
	}
	query += ` ORDER BY created_at DESC`

	var posts []models.Post
	if err := r.db.SelectContext(ctx, &posts, query, args...); err != nil {
		return nil, fmt.Errorf("post repository: list %w", err)
	}

	return posts, nil
}

// ListByIDs возвращает посты по списку идентификаторов одним запросом.
func (r *PostRepository) ListByIDs(ctx context.Context, ids []int64) ([]models.Post, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var posts []models.Post
	query := `SELECT * FROM posts WHERE id = ANY($1)`
	if err := r.db.SelectContext(ctx, &posts, query, pq.Array(ids)); err != nil {
		return nil, fmt.Errorf("post repository: list by ids %w", err)
	}

	return posts, nil
}

// Update обновляет заголовок и текст поста.
func (r *PostRepository) Update(ctx context.Context, post *models.Post) error {
	query := `
		UPDATE posts
		SET title = $1, body = $2, updated_at = NOW()
		WHERE id = $3
		RETURNING updated_at
	`

	if err := r.db.QueryRowxContext(ctx, query, post.Title, post.Body, post.ID).Scan(&post.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrPostNotFound
		}
		return fmt.Errorf("post repository: update %w", err)
	}

	return nil
}

// DeleteTx удаляет пост внутри переданной транзакции.
func (r *PostRepository) DeleteTx(ctx context.Context, tx *sqlx.Tx, id int64) error {
	result, err := tx.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("post repository: delete %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("post repository: delete rows affected %w", err)
	}
	if n == 0 {
		return ErrPostNotFound
	}

	return nil
}
