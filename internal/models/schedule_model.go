package models

import "time"

type Schedule struct {
	ID          int64     `db:"id" json:"id"`
	PostID      int64     `db:"post_id" json:"post_id"`
	AccountID   int64     `db:"account_id" json:"account_id"`
	ScheduledAt time.Time `db:"scheduled_at" json:"scheduled_at"`
	Status      string    `db:"status" json:"status"`
	MessageID   string    `db:"message_id" json:"message_id"`
	Log         string    `db:"log" json:"log"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

const (
	ScheduleStatusPending    = "pending"
	ScheduleStatusInProgress = "in_progress"
	ScheduleStatusPublished  = "published"
	ScheduleStatusFailed     = "failed"
)
