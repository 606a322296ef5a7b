package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"
)

func (j *Queue) HandlePublishScheduleTask(ctx context.Context, task *asynq.Task) error {
	var payload PublishSchedulePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return err
	}

	// Publication failures are terminal for the schedule: the service has
	// already marked it failed and written the reason to its log, so the
	// task itself always completes.
	if err := j.ps.PublishSchedule(ctx, payload.ScheduleID); err != nil {
		slog.Info(fmt.Sprintf("schedule %d publish failed: %v", payload.ScheduleID, err))
	}

	return nil
}
