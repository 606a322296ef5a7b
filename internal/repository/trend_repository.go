package repository

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/dobryakk5/zavod/internal/models"
)

type TrendRepository interface {
	Create(ctx context.Context, t *models.Trend) (int64, error)
	ListByClientID(ctx context.Context, clientID int64, limit int) ([]*models.Trend, error)
}

type trendRepository struct {
	db *sql.DB
}

func NewTrendRepository(db *sql.DB) TrendRepository {
	return &trendRepository{db: db}
}

func (r *trendRepository) Create(ctx context.Context, t *models.Trend) (int64, error) {
	query := `
		INSERT INTO trends (client_id, source, title, url, score, fetched_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRowContext(ctx, query, t.ClientID, t.Source, t.Title, t.URL, t.Score, t.FetchedAt).Scan(&id)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	return id, nil
}

func (r *trendRepository) ListByClientID(ctx context.Context, clientID int64, limit int) ([]*models.Trend, error) {
	query := `SELECT id, client_id, source, title, url, score, fetched_at FROM trends WHERE client_id = $1 ORDER BY fetched_at DESC LIMIT $2`

	rows, err := r.db.QueryContext(ctx, query, clientID, limit)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var trends []*models.Trend
	for rows.Next() {
		var t models.Trend
		err := rows.Scan(&t.ID, &t.ClientID, &t.Source, &t.Title, &t.URL, &t.Score, &t.FetchedAt)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		trends = append(trends, &t)
	}
	return trends, nil
}
