package queue

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
)

func EnqueueSchedule(asynqClient *asynq.Client, payload PublishSchedulePayload, delay time.Duration) error {
	taskPayload, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	task := asynq.NewTask(TaskTypePublishSchedule, taskPayload)

	// MaxRetry(0): a failed publication is recorded on the schedule
	// itself and only an operator retry may requeue it.
	_, err = asynqClient.Enqueue(task, asynq.ProcessIn(delay), asynq.MaxRetry(0))
	if err != nil {
		return err
	}

	slog.Info(fmt.Sprintf("publish task scheduled: %+v", payload))
	return nil
}
