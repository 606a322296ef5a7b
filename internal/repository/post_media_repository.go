package repository

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/dobryakk5/zavod/internal/models"
)

type PostVideoRepository interface {
	Create(ctx context.Context, pv *models.PostVideo) (int64, error)
	ListByPostID(ctx context.Context, postID int64) ([]*models.PostVideo, error)
	CountByPostID(ctx context.Context, postID int64) (int, error)
}

type postVideoRepository struct {
	db *sql.DB
}

func NewPostVideoRepository(db *sql.DB) PostVideoRepository {
	return &postVideoRepository{db: db}
}

func (r *postVideoRepository) Create(ctx context.Context, pv *models.PostVideo) (int64, error) {
	query := `
		INSERT INTO post_videos (post_id, file_key, file_url, display_order)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRowContext(ctx, query, pv.PostID, pv.FileKey, pv.FileURL, pv.DisplayOrder).Scan(&id)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	return id, nil
}

func (r *postVideoRepository) ListByPostID(ctx context.Context, postID int64) ([]*models.PostVideo, error) {
	query := `
		SELECT id, post_id, file_key, file_url, display_order, created_at
		FROM post_videos
		WHERE post_id = $1
		ORDER BY display_order
	`

	rows, err := r.db.QueryContext(ctx, query, postID)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var videos []*models.PostVideo
	for rows.Next() {
		var pv models.PostVideo
		if err := rows.Scan(&pv.ID, &pv.PostID, &pv.FileKey, &pv.FileURL, &pv.DisplayOrder, &pv.CreatedAt); err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		videos = append(videos, &pv)
	}

	if err = rows.Err(); err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	return videos, nil
}

func (r *postVideoRepository) CountByPostID(ctx context.Context, postID int64) (int, error) {
	query := `SELECT COUNT(*) FROM post_videos WHERE post_id = $1`

	var count int
	if err := r.db.QueryRowContext(ctx, query, postID).Scan(&count); err != nil {
		slog.Info(err.Error())
		return 0, err
	}
	return count, nil
}

type PostImageRepository interface {
	Create(ctx context.Context, pi *models.PostImage) (int64, error)
	ListByPostID(ctx context.Context, postID int64) ([]*models.PostImage, error)
	CountByPostID(ctx context.Context, postID int64) (int, error)
}

type postImageRepository struct {
	db *sql.DB
}

func NewPostImageRepository(db *sql.DB) PostImageRepository {
	return &postImageRepository{db: db}
}

func (r *postImageRepository) Create(ctx context.Context, pi *models.PostImage) (int64, error) {
	query := `
		INSERT INTO post_images (post_id, file_key, file_url, display_order)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRowContext(ctx, query, pi.PostID, pi.FileKey, pi.FileURL, pi.DisplayOrder).Scan(&id)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	return id, nil
}

func (r *postImageRepository) ListByPostID(ctx context.Context, postID int64) ([]*models.PostImage, error) {
	query := `
		SELECT id, post_id, file_key, file_url, display_order, created_at
		FROM post_images
		WHERE post_id = $1
		ORDER BY display_order
	`

	rows, err := r.db.QueryContext(ctx, query, postID)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var images []*models.PostImage
	for rows.Next() {
		var pi models.PostImage
		if err := rows.Scan(&pi.ID, &pi.PostID, &pi.FileKey, &pi.FileURL, &pi.DisplayOrder, &pi.CreatedAt); err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		images = append(images, &pi)
	}

	if err = rows.Err(); err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	return images, nil
}

func (r *postImageRepository) CountByPostID(ctx context.Context, postID int64) (int, error) {
	query := `SELECT COUNT(*) FROM post_images WHERE post_id = $1`

	var count int
	if err := r.db.QueryRowContext(ctx, query, postID).Scan(&count); err != nil {
		slog.Info(err.Error())
		return 0, err
	}
	return count, nil
}
