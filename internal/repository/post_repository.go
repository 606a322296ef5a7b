package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/dobryakk5/zavod/internal/models"
	"github.com/lib/pq"
)

type PostRepository interface {
	GetByID(ctx context.Context, id int64) (*models.Post, error)
	Create(ctx context.Context, post *models.Post) (int64, error)
	ListByClientID(ctx context.Context, clientID int64) ([]*models.Post, error)
	UpdateStatus(ctx context.Context, status string, postID int64) error
	Remove(ctx context.Context, id int64) error
}

type postRepository struct {
	db *sql.DB
}

func NewPostRepository(db *sql.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) (int64, error) {
	query := `
		INSERT INTO posts (client_id, title, text, status, tags, source, publish_text, publish_image, publish_video)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRowContext(ctx, query,
		post.ClientID, post.Title, post.Text, post.Status, pq.Array([]string(post.Tags)),
		post.Source, post.PublishText, post.PublishImage, post.PublishVideo).Scan(&id)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	return id, nil
}

func (r *postRepository) GetByID(ctx context.Context, id int64) (*models.Post, error) {
	query := `SELECT id, client_id, title, text, status, tags, source, publish_text, publish_image, publish_video, created_at, updated_at FROM posts WHERE id = $1`
	row := r.db.QueryRowContext(ctx, query, id)

	var post models.Post
	err := row.Scan(&post.ID, &post.ClientID, &post.Title, &post.Text, &post.Status, &post.Tags,
		&post.Source, &post.PublishText, &post.PublishImage, &post.PublishVideo, &post.CreatedAt, &post.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}

	return &post, nil
}

func (r *postRepository) ListByClientID(ctx context.Context, clientID int64) ([]*models.Post, error) {
	query := `SELECT id, client_id, title, text, status, tags, source, publish_text, publish_image, publish_video, created_at, updated_at FROM posts WHERE client_id = $1 ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, clientID)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var posts []*models.Post
	for rows.Next() {
		var post models.Post
		err := rows.Scan(&post.ID, &post.ClientID, &post.Title, &post.Text, &post.Status, &post.Tags,
			&post.Source, &post.PublishText, &post.PublishImage, &post.PublishVideo, &post.CreatedAt, &post.UpdatedAt)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		posts = append(posts, &post)
	}
	return posts, nil
}

func (r *postRepository) UpdateStatus(ctx context.Context, status string, postID int64) error {
	query := `
		UPDATE posts
		SET status = $1,
			updated_at = $2
		WHERE id = $3
	`
	_, err := r.db.ExecContext(ctx, query, status, time.Now(), postID)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *postRepository) Remove(ctx context.Context, id int64) error {
	query := `DELETE FROM posts WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)

	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}
