package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"
)

// TelegramMessage is one publish request to a channel. Exactly one of
// VideoURL/ImageURL may be set; Text rides along as the caption.
type TelegramMessage struct {
	BotToken  string
	ChannelID string
	Text      string
	ImageURL  string
	VideoURL  string
}

type PublishResult struct {
	MessageID string
	URL       string
}

type TelegramPublisher interface {
	Publish(ctx context.Context, msg *TelegramMessage) (*PublishResult, error)
}

type telegramService struct {
	baseURL string
	client  *http.Client
}

func NewTelegramService() TelegramPublisher {
	return &telegramService{
		baseURL: "https://api.telegram.org",
		client: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// NewTelegramServiceWithBaseURL is used by tests to point at a fake Bot API.
func NewTelegramServiceWithBaseURL(baseURL string) TelegramPublisher {
	return &telegramService{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (s *telegramService) Publish(ctx context.Context, msg *TelegramMessage) (*PublishResult, error) {
	if msg.BotToken == "" {
		return nil, errors.New("telegram bot token is not configured")
	}
	if msg.ChannelID == "" {
		return nil, errors.New("telegram channel is not configured")
	}

	var method string
	payload := map[string]any{"chat_id": msg.ChannelID}

	switch {
	case msg.VideoURL != "":
		method = "sendVideo"
		payload["video"] = msg.VideoURL
		payload["caption"] = msg.Text
	case msg.ImageURL != "":
		method = "sendPhoto"
		payload["photo"] = msg.ImageURL
		payload["caption"] = msg.Text
	case msg.Text != "":
		method = "sendMessage"
		payload["text"] = msg.Text
	default:
		return nil, errors.New("nothing to publish")
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/bot%s/%s", s.baseURL, msg.BotToken, method)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("telegram request failed: %w", err)
	}
	defer resp.Body.Close()

	var out struct {
		OK          bool   `json:"ok"`
		Description string `json:"description"`
		Result      struct {
			MessageID int64 `json:"message_id"`
		} `json:"result"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&out); err != nil {
		return nil, fmt.Errorf("invalid telegram response: %w", err)
	}
	if !out.OK {
		return nil, fmt.Errorf("telegram api error: %s", out.Description)
	}

	messageID := strconv.FormatInt(out.Result.MessageID, 10)
	return &PublishResult{
		MessageID: messageID,
		URL:       fmt.Sprintf("https://t.me/%s/%s", msg.ChannelID, messageID),
	}, nil
}
