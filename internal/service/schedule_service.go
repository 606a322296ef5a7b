package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dobryakk5/zavod/internal/models"
	"github.com/dobryakk5/zavod/internal/repository"
	"github.com/dobryakk5/zavod/internal/transfer"
)

type ScheduleService interface {
	Create(ctx context.Context, clientID int64, sc *transfer.ScheduleCreation) (int64, error)
	ListForPost(ctx context.Context, clientID, postID int64) ([]*models.Schedule, error)
	Retry(ctx context.Context, clientID, scheduleID int64) error
}

type scheduleService struct {
	sr repository.ScheduleRepository
	pr repository.PostRepository
	ar repository.SocialAccountRepository
}

func NewScheduleService(sr repository.ScheduleRepository, pr repository.PostRepository, ar repository.SocialAccountRepository) ScheduleService {
	return &scheduleService{sr: sr, pr: pr, ar: ar}
}

func (s *scheduleService) Create(ctx context.Context, clientID int64, sc *transfer.ScheduleCreation) (int64, error) {
	if sc == nil {
		return 0, errors.New("schedule data is nil")
	}

	scheduledAt, err := time.Parse("2006-01-02T15:04", sc.ScheduledAt)
	if err != nil {
		err = fmt.Errorf("invalid scheduled time format: %w", err)
		slog.Info(err.Error())
		return 0, err
	}

	post, err := s.pr.GetByID(ctx, sc.PostID)
	if err != nil {
		return 0, err
	}
	if post == nil || post.ClientID != clientID {
		return 0, errors.New("post not found")
	}

	ok, err := s.ar.CheckByClientID(ctx, sc.AccountID, clientID)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, fmt.Errorf("social account %d does not exist", sc.AccountID)
	}

	return s.sr.Create(ctx, &models.Schedule{
		PostID:      sc.PostID,
		AccountID:   sc.AccountID,
		ScheduledAt: scheduledAt,
		Status:      models.ScheduleStatusPending,
	})
}

func (s *scheduleService) ListForPost(ctx context.Context, clientID, postID int64) ([]*models.Schedule, error) {
	post, err := s.pr.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post == nil || post.ClientID != clientID {
		return nil, errors.New("post not found")
	}
	return s.sr.ListByPostID(ctx, postID)
}

// Retry is the operator action that puts a failed schedule back into the
// sweep. Only failed schedules are eligible, published is terminal.
func (s *scheduleService) Retry(ctx context.Context, clientID, scheduleID int64) error {
	sched, err := s.sr.GetByID(ctx, scheduleID)
	if err != nil {
		return err
	}
	if sched == nil {
		return errors.New("schedule not found")
	}

	post, err := s.pr.GetByID(ctx, sched.PostID)
	if err != nil {
		return err
	}
	if post == nil || post.ClientID != clientID {
		return errors.New("schedule not found")
	}

	if sched.Status != models.ScheduleStatusFailed {
		return fmt.Errorf("schedule is %s, only failed schedules can be retried", sched.Status)
	}

	if err := s.sr.UpdateStatus(ctx, models.ScheduleStatusPending, scheduleID); err != nil {
		return err
	}
	return s.sr.AppendLog(ctx, scheduleID, "reset to pending by operator")
}
