package models

import (
	"time"

	"github.com/lib/pq"
)

type SEOKeywordSet struct {
	ID        int64          `db:"id" json:"id"`
	ClientID  int64          `db:"client_id" json:"client_id"`
	GroupType string         `db:"group_type" json:"group_type"`
	Topic     string         `db:"topic" json:"topic"`
	Keywords  pq.StringArray `db:"keywords" json:"keywords"`
	Status    string         `db:"status" json:"status"`
	CreatedAt time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt time.Time      `db:"updated_at" json:"updated_at"`
}

const (
	KeywordSetStatusPending    = "pending"
	KeywordSetStatusGenerating = "generating"
	KeywordSetStatusCompleted  = "completed"
	KeywordSetStatusFailed     = "failed"
)

const (
	KeywordGroupCommercial    = "commercial"
	KeywordGroupGeneral       = "general"
	KeywordGroupInformational = "informational"
	KeywordGroupLongTail      = "long_tail"
)
