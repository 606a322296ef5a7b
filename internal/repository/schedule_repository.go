package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/dobryakk5/zavod/internal/models"
)

type ScheduleRepository interface {
	GetByID(ctx context.Context, id int64) (*models.Schedule, error)
	Create(ctx context.Context, s *models.Schedule) (int64, error)
	ListByPostID(ctx context.Context, postID int64) ([]*models.Schedule, error)
	ListDue(ctx context.Context, now time.Time) ([]*models.Schedule, error)
	UpdateStatus(ctx context.Context, status string, scheduleID int64) error
	ClaimPending(ctx context.Context, scheduleID int64) (bool, error)
	SetPublished(ctx context.Context, scheduleID int64, messageID string) error
	AppendLog(ctx context.Context, scheduleID int64, line string) error
}

type scheduleRepository struct {
	db *sql.DB
}

func NewScheduleRepository(db *sql.DB) ScheduleRepository {
	return &scheduleRepository{db: db}
}

func (r *scheduleRepository) Create(ctx context.Context, s *models.Schedule) (int64, error) {
	query := `
		INSERT INTO schedules (post_id, account_id, scheduled_at, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRowContext(ctx, query, s.PostID, s.AccountID, s.ScheduledAt, s.Status).Scan(&id)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	return id, nil
}

func (r *scheduleRepository) GetByID(ctx context.Context, id int64) (*models.Schedule, error) {
	query := `SELECT id, post_id, account_id, scheduled_at, status, message_id, log, created_at, updated_at FROM schedules WHERE id = $1`
	row := r.db.QueryRowContext(ctx, query, id)

	var s models.Schedule
	err := row.Scan(&s.ID, &s.PostID, &s.AccountID, &s.ScheduledAt, &s.Status, &s.MessageID, &s.Log, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}

	return &s, nil
}

func (r *scheduleRepository) ListByPostID(ctx context.Context, postID int64) ([]*models.Schedule, error) {
	query := `SELECT id, post_id, account_id, scheduled_at, status, message_id, log, created_at, updated_at FROM schedules WHERE post_id = $1`
	return r.list(ctx, query, postID)
}

func (r *scheduleRepository) ListDue(ctx context.Context, now time.Time) ([]*models.Schedule, error) {
	query := `SELECT id, post_id, account_id, scheduled_at, status, message_id, log, created_at, updated_at FROM schedules WHERE status = $1 AND scheduled_at <= $2`
	return r.list(ctx, query, models.ScheduleStatusPending, now)
}

func (r *scheduleRepository) list(ctx context.Context, query string, args ...any) ([]*models.Schedule, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var schedules []*models.Schedule
	for rows.Next() {
		var s models.Schedule
		err := rows.Scan(&s.ID, &s.PostID, &s.AccountID, &s.ScheduledAt, &s.Status, &s.MessageID, &s.Log, &s.CreatedAt, &s.UpdatedAt)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		schedules = append(schedules, &s)
	}

	if err = rows.Err(); err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	return schedules, nil
}

func (r *scheduleRepository) UpdateStatus(ctx context.Context, status string, scheduleID int64) error {
	query := `
		UPDATE schedules
		SET status = $1,
			updated_at = $2
		WHERE id = $3
	`
	_, err := r.db.ExecContext(ctx, query, status, time.Now(), scheduleID)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

// ClaimPending moves a pending schedule to in_progress. The status guard in
// the WHERE clause means only one of several concurrent dispatches for the
// same schedule can win the claim.
func (r *scheduleRepository) ClaimPending(ctx context.Context, scheduleID int64) (bool, error) {
	query := `
		UPDATE schedules
		SET status = $1,
			updated_at = $2
		WHERE id = $3 AND status = $4
	`
	res, err := r.db.ExecContext(ctx, query, models.ScheduleStatusInProgress, time.Now(), scheduleID, models.ScheduleStatusPending)
	if err != nil {
		slog.Info(err.Error())
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		slog.Info(err.Error())
		return false, err
	}
	return n == 1, nil
}

func (r *scheduleRepository) SetPublished(ctx context.Context, scheduleID int64, messageID string) error {
	query := `
		UPDATE schedules
		SET status = $1,
			message_id = $2,
			updated_at = $3
		WHERE id = $4
	`
	_, err := r.db.ExecContext(ctx, query, models.ScheduleStatusPublished, messageID, time.Now(), scheduleID)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

// AppendLog concatenates the line onto the schedule log. The log is an
// append-only audit trail, prior content is never overwritten.
func (r *scheduleRepository) AppendLog(ctx context.Context, scheduleID int64, line string) error {
	query := `
		UPDATE schedules
		SET log = log || $1,
			updated_at = $2
		WHERE id = $3
	`
	_, err := r.db.ExecContext(ctx, query, line+"\n", time.Now(), scheduleID)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}
