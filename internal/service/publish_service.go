package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dobryakk5/zavod/internal/models"
	"github.com/dobryakk5/zavod/internal/repository"
	"github.com/dobryakk5/zavod/pkg/utils"
)

// PublishService drives one Schedule through
// pending -> in_progress -> {published, failed} and rolls the parent
// Post's status up from its schedules.
type PublishService interface {
	PublishSchedule(ctx context.Context, scheduleID int64) error
}

type publishService struct {
	sr        repository.ScheduleRepository
	pr        repository.PostRepository
	ar        repository.SocialAccountRepository
	pv        repository.PostVideoRepository
	pi        repository.PostImageRepository
	tg        TelegramPublisher
	secretKey []byte
}

func NewPublishService(
	sr repository.ScheduleRepository,
	pr repository.PostRepository,
	ar repository.SocialAccountRepository,
	pv repository.PostVideoRepository,
	pi repository.PostImageRepository,
	tg TelegramPublisher,
	secretKey string) PublishService {
	return &publishService{
		sr:        sr,
		pr:        pr,
		ar:        ar,
		pv:        pv,
		pi:        pi,
		tg:        tg,
		secretKey: []byte(secretKey),
	}
}

func (s *publishService) PublishSchedule(ctx context.Context, scheduleID int64) (err error) {
	defer func() {
		if p := recover(); p != nil {
			// Best effort: the in-function state may already have diverged,
			// re-fetch and force the terminal failure.
			if sched, ferr := s.sr.GetByID(ctx, scheduleID); ferr == nil && sched != nil {
				s.sr.UpdateStatus(ctx, models.ScheduleStatusFailed, scheduleID)
				s.sr.AppendLog(ctx, scheduleID, fmt.Sprintf("publish aborted: %v", p))
			}
			err = fmt.Errorf("publish panic: %v", p)
		}
	}()

	sched, err := s.sr.GetByID(ctx, scheduleID)
	if err != nil {
		return err
	}
	if sched == nil {
		return errors.New("schedule not found")
	}
	if sched.Status == models.ScheduleStatusPublished {
		// Published is terminal.
		slog.Info(fmt.Sprintf("schedule %d already published, skipping", scheduleID))
		return nil
	}

	// The claim is conditional on pending, so overlapping dispatches of the
	// same schedule send at most one message. Failed schedules stay put
	// until an operator resets them to pending.
	claimed, err := s.sr.ClaimPending(ctx, scheduleID)
	if err != nil {
		return err
	}
	if !claimed {
		slog.Info(fmt.Sprintf("schedule %d is %s, claim lost, skipping", scheduleID, sched.Status))
		return nil
	}

	post, err := s.pr.GetByID(ctx, sched.PostID)
	if err != nil {
		return s.fail(ctx, scheduleID, fmt.Sprintf("post lookup failed: %v", err))
	}
	if post == nil {
		return s.fail(ctx, scheduleID, "post not found")
	}

	account, err := s.ar.GetByID(ctx, sched.AccountID)
	if err != nil {
		return s.fail(ctx, scheduleID, fmt.Sprintf("account lookup failed: %v", err))
	}
	if account == nil {
		return s.fail(ctx, scheduleID, "social account not found")
	}

	switch account.Platform {
	case models.PlatformTelegram:
		return s.publishTelegram(ctx, sched, post, account)
	default:
		return s.fail(ctx, scheduleID, fmt.Sprintf("platform %s is not supported for publishing", account.Platform))
	}
}

func (s *publishService) publishTelegram(ctx context.Context, sched *models.Schedule, post *models.Post, account *models.SocialAccount) error {
	botToken, err := utils.Decrypt(account.BotToken, s.secretKey)
	if err != nil {
		return s.fail(ctx, sched.ID, "telegram bot token is missing or unreadable")
	}
	if account.ChannelID == "" {
		return s.fail(ctx, sched.ID, "telegram channel is not configured")
	}

	msg := &TelegramMessage{
		BotToken:  botToken,
		ChannelID: account.ChannelID,
	}

	if post.PublishText {
		msg.Text = buildCaption(post)
	}
	if post.PublishVideo {
		videos, err := s.pv.ListByPostID(ctx, post.ID)
		if err != nil {
			return s.fail(ctx, sched.ID, fmt.Sprintf("video lookup failed: %v", err))
		}
		if len(videos) > 0 {
			msg.VideoURL = videos[0].FileURL
		}
	}
	if post.PublishImage && msg.VideoURL == "" {
		images, err := s.pi.ListByPostID(ctx, post.ID)
		if err != nil {
			return s.fail(ctx, sched.ID, fmt.Sprintf("image lookup failed: %v", err))
		}
		if len(images) > 0 {
			msg.ImageURL = images[0].FileURL
		}
	}

	if msg.Text == "" && msg.ImageURL == "" && msg.VideoURL == "" {
		return s.fail(ctx, sched.ID, "nothing enabled to publish: no text, image or video")
	}

	result, err := s.tg.Publish(ctx, msg)
	if err != nil {
		return s.fail(ctx, sched.ID, fmt.Sprintf("telegram publish failed: %v", err))
	}

	if err := s.sr.SetPublished(ctx, sched.ID, result.MessageID); err != nil {
		return err
	}
	if err := s.sr.AppendLog(ctx, sched.ID, fmt.Sprintf("published to %s as message %s", account.ChannelID, result.MessageID)); err != nil {
		slog.Info(err.Error())
	}

	return s.updatePostStatusAfterPublish(ctx, post.ID)
}

// fail marks the schedule failed and appends the reason to its audit log.
// Failed is terminal until an operator resets the schedule, so the error is
// reported to the caller for logging only, never for dispatch retry.
func (s *publishService) fail(ctx context.Context, scheduleID int64, reason string) error {
	if err := s.sr.UpdateStatus(ctx, models.ScheduleStatusFailed, scheduleID); err != nil {
		return err
	}
	if err := s.sr.AppendLog(ctx, scheduleID, "error: "+reason); err != nil {
		slog.Info(err.Error())
	}
	return errors.New(reason)
}

// updatePostStatusAfterPublish rolls the post status up from its schedules:
// published when every schedule is published, scheduled when some are.
func (s *publishService) updatePostStatusAfterPublish(ctx context.Context, postID int64) error {
	schedules, err := s.sr.ListByPostID(ctx, postID)
	if err != nil {
		return err
	}
	if len(schedules) == 0 {
		slog.Info(fmt.Sprintf("post %d has no schedules, skipping status rollup", postID))
		return nil
	}

	published := 0
	for _, sched := range schedules {
		if sched.Status == models.ScheduleStatusPublished {
			published++
		}
	}

	post, err := s.pr.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	if post == nil {
		return errors.New("post not found")
	}

	switch {
	case published == len(schedules):
		if post.Status != models.PostStatusPublished {
			return s.pr.UpdateStatus(ctx, models.PostStatusPublished, postID)
		}
	case published > 0:
		if post.Status != models.PostStatusPublished && post.Status != models.PostStatusScheduled {
			return s.pr.UpdateStatus(ctx, models.PostStatusScheduled, postID)
		}
	}
	return nil
}

func buildCaption(post *models.Post) string {
	var parts []string
	if post.Title != "" {
		parts = append(parts, post.Title)
	}
	if post.Text != "" {
		parts = append(parts, post.Text)
	}
	if len(post.Tags) > 0 {
		tags := make([]string, 0, len(post.Tags))
		for _, t := range post.Tags {
			tags = append(tags, "#"+strings.TrimPrefix(t, "#"))
		}
		parts = append(parts, strings.Join(tags, " "))
	}
	return strings.Join(parts, "\n\n")
}
