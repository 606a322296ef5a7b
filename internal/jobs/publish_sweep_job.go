package job

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/dobryakk5/zavod/internal/queue"
	"github.com/dobryakk5/zavod/internal/repository"
)

type PublishSweepJob struct {
	sr     repository.ScheduleRepository
	client *asynq.Client
}

func NewPublishSweepJob(sr repository.ScheduleRepository, client *asynq.Client) *PublishSweepJob {
	return &PublishSweepJob{
		sr:     sr,
		client: client,
	}
}

// SweepDueSchedules enqueues a publish task for every pending schedule whose
// time has come. The worker moves the schedule out of pending, so a schedule
// picked up here is not picked up again by the next sweep.
func (c *PublishSweepJob) SweepDueSchedules() {
	ctx := context.Background()

	schedules, err := c.sr.ListDue(ctx, time.Now())
	if err != nil {
		slog.Info(err.Error())
		return
	}

	for _, s := range schedules {
		payload := queue.PublishSchedulePayload{ScheduleID: s.ID}
		if err := queue.EnqueueSchedule(c.client, payload, 0); err != nil {
			slog.Info(fmt.Sprintf("failed to enqueue schedule %d: %v", s.ID, err))
		}
	}
}
