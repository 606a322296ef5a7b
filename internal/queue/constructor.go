package queue

import (
	"github.com/dobryakk5/zavod/internal/service"
)

type Queue struct {
	ps service.PublishService
}

func NewQueue(ps service.PublishService) *Queue {
	return &Queue{
		ps: ps,
	}
}

const TaskTypePublishSchedule = "schedule:publish"

type PublishSchedulePayload struct {
	ScheduleID int64 `json:"schedule_id"`
}
