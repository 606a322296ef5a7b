package models

import (
	"time"

	"github.com/lib/pq"
)

type Post struct {
	ID           int64          `db:"id" json:"id"`
	ClientID     int64          `db:"client_id" json:"client_id"`
	Title        string         `db:"title" json:"title"`
	Text         string         `db:"text" json:"text"`
	Status       string         `db:"status" json:"status"`
	Tags         pq.StringArray `db:"tags" json:"tags"`
	Source       string         `db:"source" json:"source"`
	PublishText  bool           `db:"publish_text" json:"publish_text"`
	PublishImage bool           `db:"publish_image" json:"publish_image"`
	PublishVideo bool           `db:"publish_video" json:"publish_video"`
	CreatedAt    time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at" json:"updated_at"`
}

type PostVideo struct {
	ID           int64     `db:"id" json:"id"`
	PostID       int64     `db:"post_id" json:"post_id"`
	FileKey      string    `db:"file_key" json:"file_key"`
	FileURL      string    `db:"file_url" json:"file_url"`
	DisplayOrder int       `db:"display_order" json:"display_order"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

type PostImage struct {
	ID           int64     `db:"id" json:"id"`
	PostID       int64     `db:"post_id" json:"post_id"`
	FileKey      string    `db:"file_key" json:"file_key"`
	FileURL      string    `db:"file_url" json:"file_url"`
	DisplayOrder int       `db:"display_order" json:"display_order"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

const (
	PostStatusDraft     = "draft"
	PostStatusReady     = "ready"
	PostStatusApproved  = "approved"
	PostStatusScheduled = "scheduled"
	PostStatusPublished = "published"
)

const PostSourceSEOBatch = "seo_batch"

// NormalizeTags removes duplicates keeping first-seen order.
func NormalizeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
