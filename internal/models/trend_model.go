package models

import "time"

type Trend struct {
	ID        int64     `db:"id" json:"id"`
	ClientID  int64     `db:"client_id" json:"client_id"`
	Source    string    `db:"source" json:"source"`
	Title     string    `db:"title" json:"title"`
	URL       string    `db:"url" json:"url"`
	Score     float64   `db:"score" json:"score"`
	FetchedAt time.Time `db:"fetched_at" json:"fetched_at"`
}

const (
	TrendSourceTelegram   = "telegram"
	TrendSourceRSS        = "rss"
	TrendSourceYoutube    = "youtube"
	TrendSourceVK         = "vk"
	TrendSourceGoogleNews = "google_news"
)
