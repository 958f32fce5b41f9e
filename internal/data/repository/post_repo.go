package repository

import (
	"context"
	"fmt"

	"study-booking/internal/data/entity"
	"study-booking/pkg/database"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type PostRepository interface {
	FindAll(ctx context.Context) ([]*entity.Post, error)
	Create(ctx context.Context, post *entity.Post) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type postRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewPostRepository(db database.PgxIface, log *zap.Logger) PostRepository {
	return &postRepository{
		db:  db,
		log: log.With(zap.String("repository", "post")),
	}
}

// FindAll returns every post, newest first.
func (r *postRepository) FindAll(ctx context.Context) ([]*entity.Post, error) {
	query := `
		SELECT id, title, content, created_at
		FROM posts
		ORDER BY created_at DESC, id
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.log.Error("Failed to find posts", zap.Error(err))
		return nil, fmt.Errorf("find posts: %w", err)
	}
	defer rows.Close()

	posts := []*entity.Post{}
	for rows.Next() {
		var post entity.Post
		err := rows.Scan(
			&post.ID,
			&post.Title,
			&post.Content,
			&post.CreatedAt,
		)
		if err != nil {
			r.log.Error("Failed to scan post row", zap.Error(err))
			return nil, fmt.Errorf("scan post row: %w", err)
		}
		posts = append(posts, &post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate post rows: %w", err)
	}

	return posts, nil
}

func (r *postRepository) Create(ctx context.Context, post *entity.Post) error {
	query := `
		INSERT INTO posts (id, title, content, created_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.db.Exec(ctx, query,
		post.ID,
		post.Title,
		post.Content,
		post.CreatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create post",
			zap.Error(err),
			zap.String("post_id", post.ID.String()),
		)
		return fmt.Errorf("create post %s: %w", post.ID.String(), err)
	}

	return nil
}

func (r *postRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM posts WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to delete post",
			zap.Error(err),
			zap.String("post_id", id.String()),
		)
		return fmt.Errorf("delete post %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("post %s not found", id.String())
	}

	r.log.Info("Post deleted", zap.String("post_id", id.String()))
	return nil
}
