package repository

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/dobryakk5/zavod/internal/models"
)

type ClientRepository interface {
	GetByID(ctx context.Context, id int64) (*models.Client, error)
	ListActive(ctx context.Context) ([]*models.Client, error)
}

type clientRepository struct {
	db *sql.DB
}

func NewClientRepository(db *sql.DB) ClientRepository {
	return &clientRepository{db: db}
}

func (r *clientRepository) GetByID(ctx context.Context, id int64) (*models.Client, error) {
	query := `SELECT id, name, system_prompt, hashtag_count, trend_sources, active, created_at, updated_at FROM clients WHERE id = $1`
	row := r.db.QueryRowContext(ctx, query, id)

	var c models.Client
	err := row.Scan(&c.ID, &c.Name, &c.SystemPrompt, &c.HashtagCount, &c.TrendSources, &c.Active, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}

	return &c, nil
}

func (r *clientRepository) ListActive(ctx context.Context) ([]*models.Client, error) {
	query := `SELECT id, name, system_prompt, hashtag_count, trend_sources, active, created_at, updated_at FROM clients WHERE active = true`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var clients []*models.Client
	for rows.Next() {
		var c models.Client
		err := rows.Scan(&c.ID, &c.Name, &c.SystemPrompt, &c.HashtagCount, &c.TrendSources, &c.Active, &c.CreatedAt, &c.UpdatedAt)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		clients = append(clients, &c)
	}
	return clients, nil
}
