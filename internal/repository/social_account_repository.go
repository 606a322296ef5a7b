package repository

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/dobryakk5/zavod/internal/models"
)

type SocialAccountRepository interface {
	GetByID(ctx context.Context, id int64) (*models.SocialAccount, error)
	ListByClientID(ctx context.Context, clientID int64) ([]*models.SocialAccount, error)
	CheckByClientID(ctx context.Context, accountID, clientID int64) (bool, error)
}

type socialAccountRepository struct {
	db *sql.DB
}

func NewSocialAccountRepository(db *sql.DB) SocialAccountRepository {
	return &socialAccountRepository{db: db}
}

func (r *socialAccountRepository) GetByID(ctx context.Context, id int64) (*models.SocialAccount, error) {
	query := `SELECT id, client_id, platform, channel_id, channel_name, bot_token, status, created_at, updated_at FROM social_accounts WHERE id = $1`
	row := r.db.QueryRowContext(ctx, query, id)

	var sa models.SocialAccount
	err := row.Scan(&sa.ID, &sa.ClientID, &sa.Platform, &sa.ChannelID, &sa.ChannelName, &sa.BotToken, &sa.Status, &sa.CreatedAt, &sa.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}

	return &sa, nil
}

func (r *socialAccountRepository) ListByClientID(ctx context.Context, clientID int64) ([]*models.SocialAccount, error) {
	query := `SELECT id, client_id, platform, channel_id, channel_name, bot_token, status, created_at, updated_at FROM social_accounts WHERE client_id = $1`

	rows, err := r.db.QueryContext(ctx, query, clientID)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var accounts []*models.SocialAccount
	for rows.Next() {
		var sa models.SocialAccount
		err := rows.Scan(&sa.ID, &sa.ClientID, &sa.Platform, &sa.ChannelID, &sa.ChannelName, &sa.BotToken, &sa.Status, &sa.CreatedAt, &sa.UpdatedAt)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		accounts = append(accounts, &sa)
	}
	return accounts, nil
}

func (r *socialAccountRepository) CheckByClientID(ctx context.Context, accountID, clientID int64) (bool, error) {
	query := "SELECT 1 FROM social_accounts WHERE id = $1 AND client_id = $2"

	var result int
	err := r.db.QueryRowContext(ctx, query, accountID, clientID).Scan(&result)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		slog.Info(err.Error())
		return false, err
	}

	return result == 1, nil
}
