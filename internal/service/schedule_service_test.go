package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dobryakk5/zavod/internal/models"
	"github.com/dobryakk5/zavod/internal/transfer"
)

func newScheduleFixture(t *testing.T, schedules ...models.Schedule) (ScheduleService, *fakeScheduleRepo, *fakePostRepo) {
	t.Helper()
	sr := newFakeScheduleRepo(schedules...)
	pr := newFakePostRepo()
	_, err := pr.Create(context.Background(), &models.Post{ClientID: 1, Title: "Launch", Status: models.PostStatusApproved})
	require.NoError(t, err)
	ar := newFakeSocialAccountRepo(models.SocialAccount{ID: 5, ClientID: 1, Platform: models.PlatformTelegram})
	return NewScheduleService(sr, pr, ar), sr, pr
}

func TestScheduleCreate(t *testing.T) {
	svc, sr, _ := newScheduleFixture(t)

	id, err := svc.Create(context.Background(), 1, &transfer.ScheduleCreation{
		PostID:      1,
		AccountID:   5,
		ScheduledAt: "2026-09-01T10:30",
	})
	require.NoError(t, err)

	sched, _ := sr.GetByID(context.Background(), id)
	assert.Equal(t, models.ScheduleStatusPending, sched.Status)
	assert.Equal(t, time.Date(2026, 9, 1, 10, 30, 0, 0, time.UTC), sched.ScheduledAt)
}

func TestScheduleCreate_Validation(t *testing.T) {
	svc, _, _ := newScheduleFixture(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, 1, &transfer.ScheduleCreation{PostID: 1, AccountID: 5, ScheduledAt: "tomorrow"})
	assert.ErrorContains(t, err, "invalid scheduled time format")

	_, err = svc.Create(ctx, 1, &transfer.ScheduleCreation{PostID: 42, AccountID: 5, ScheduledAt: "2026-09-01T10:30"})
	assert.ErrorContains(t, err, "post not found")

	// Another client's post is invisible.
	_, err = svc.Create(ctx, 2, &transfer.ScheduleCreation{PostID: 1, AccountID: 5, ScheduledAt: "2026-09-01T10:30"})
	assert.ErrorContains(t, err, "post not found")

	_, err = svc.Create(ctx, 1, &transfer.ScheduleCreation{PostID: 1, AccountID: 99, ScheduledAt: "2026-09-01T10:30"})
	assert.ErrorContains(t, err, "does not exist")
}

func TestScheduleRetry_OnlyFailed(t *testing.T) {
	svc, sr, _ := newScheduleFixture(t,
		models.Schedule{ID: 1, PostID: 1, AccountID: 5, Status: models.ScheduleStatusFailed, Log: "error: boom\n"},
		models.Schedule{ID: 2, PostID: 1, AccountID: 5, Status: models.ScheduleStatusPublished},
		models.Schedule{ID: 3, PostID: 1, AccountID: 5, Status: models.ScheduleStatusPending},
	)
	ctx := context.Background()

	require.NoError(t, svc.Retry(ctx, 1, 1))
	sched, _ := sr.GetByID(ctx, 1)
	assert.Equal(t, models.ScheduleStatusPending, sched.Status)
	assert.Contains(t, sched.Log, "error: boom")
	assert.Contains(t, sched.Log, "reset to pending by operator")

	assert.ErrorContains(t, svc.Retry(ctx, 1, 2), "only failed schedules")
	assert.ErrorContains(t, svc.Retry(ctx, 1, 3), "only failed schedules")
	assert.ErrorContains(t, svc.Retry(ctx, 2, 1), "schedule not found")
	assert.ErrorContains(t, svc.Retry(ctx, 1, 99), "schedule not found")
}

func TestScheduleListForPost(t *testing.T) {
	svc, _, _ := newScheduleFixture(t,
		models.Schedule{ID: 1, PostID: 1, AccountID: 5, Status: models.ScheduleStatusPending},
		models.Schedule{ID: 2, PostID: 1, AccountID: 5, Status: models.ScheduleStatusFailed},
	)

	schedules, err := svc.ListForPost(context.Background(), 1, 1)
	require.NoError(t, err)
	assert.Len(t, schedules, 2)

	_, err = svc.ListForPost(context.Background(), 2, 1)
	assert.ErrorContains(t, err, "post not found")
}
