package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/dobryakk5/zavod/internal/models"
	"github.com/lib/pq"
)

type SEOKeywordSetRepository interface {
	GetByID(ctx context.Context, id int64) (*models.SEOKeywordSet, error)
	Create(ctx context.Context, set *models.SEOKeywordSet) (int64, error)
	ListByClientID(ctx context.Context, clientID int64) ([]*models.SEOKeywordSet, error)
	UpdateStatus(ctx context.Context, status string, setID int64) error
	UpdateKeywords(ctx context.Context, setID int64, keywords []string, status string) error
}

type seoKeywordSetRepository struct {
	db *sql.DB
}

func NewSEOKeywordSetRepository(db *sql.DB) SEOKeywordSetRepository {
	return &seoKeywordSetRepository{db: db}
}

func (r *seoKeywordSetRepository) Create(ctx context.Context, set *models.SEOKeywordSet) (int64, error) {
	query := `
		INSERT INTO seo_keyword_sets (client_id, group_type, topic, keywords, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRowContext(ctx, query,
		set.ClientID, set.GroupType, set.Topic, pq.Array([]string(set.Keywords)), set.Status).Scan(&id)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	return id, nil
}

func (r *seoKeywordSetRepository) GetByID(ctx context.Context, id int64) (*models.SEOKeywordSet, error) {
	query := `SELECT id, client_id, group_type, topic, keywords, status, created_at, updated_at FROM seo_keyword_sets WHERE id = $1`
	row := r.db.QueryRowContext(ctx, query, id)

	var set models.SEOKeywordSet
	err := row.Scan(&set.ID, &set.ClientID, &set.GroupType, &set.Topic, &set.Keywords, &set.Status, &set.CreatedAt, &set.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}

	return &set, nil
}

func (r *seoKeywordSetRepository) ListByClientID(ctx context.Context, clientID int64) ([]*models.SEOKeywordSet, error) {
	query := `SELECT id, client_id, group_type, topic, keywords, status, created_at, updated_at FROM seo_keyword_sets WHERE client_id = $1 ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, clientID)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var sets []*models.SEOKeywordSet
	for rows.Next() {
		var set models.SEOKeywordSet
		err := rows.Scan(&set.ID, &set.ClientID, &set.GroupType, &set.Topic, &set.Keywords, &set.Status, &set.CreatedAt, &set.UpdatedAt)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		sets = append(sets, &set)
	}
	return sets, nil
}

func (r *seoKeywordSetRepository) UpdateStatus(ctx context.Context, status string, setID int64) error {
	query := `
		UPDATE seo_keyword_sets
		SET status = $1,
			updated_at = $2
		WHERE id = $3
	`
	_, err := r.db.ExecContext(ctx, query, status, time.Now(), setID)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *seoKeywordSetRepository) UpdateKeywords(ctx context.Context, setID int64, keywords []string, status string) error {
	query := `
		UPDATE seo_keyword_sets
		SET keywords = $1,
			status = $2,
			updated_at = $3
		WHERE id = $4
	`
	_, err := r.db.ExecContext(ctx, query, pq.Array(keywords), status, time.Now(), setID)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}
