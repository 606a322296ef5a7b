package models

import "time"

type SocialAccount struct {
	ID          int64     `db:"id" json:"id"`
	ClientID    int64     `db:"client_id" json:"client_id"`
	Platform    string    `db:"platform" json:"platform"`
	ChannelID   string    `db:"channel_id" json:"channel_id"`
	ChannelName string    `db:"channel_name" json:"channel_name"`
	BotToken    string    `db:"bot_token" json:"-"`
	Status      string    `db:"status" json:"status"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

const (
	PlatformTelegram  = "telegram"
	PlatformInstagram = "instagram"
	PlatformYoutube   = "youtube"
)
