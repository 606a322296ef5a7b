package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	config "github.com/dobryakk5/zavod/configs"
)

// TemplateConfig carries the per-client generation template.
type TemplateConfig struct {
	SystemPrompt string
	HashtagCount int
}

// GeneratedText is one drafted post. Persistence happens in the
// orchestrator, not here.
type GeneratedText struct {
	Title    string   `json:"title"`
	Text     string   `json:"text"`
	Hashtags []string `json:"hashtags"`
}

type TextGenerator interface {
	GeneratePostText(ctx context.Context, keyword string, tmpl TemplateConfig, topicContext string) (*GeneratedText, error)
	GenerateKeywords(ctx context.Context, topic, groupType string, count int) ([]string, error)
}

type geminiTextService struct {
	client *genai.Client
	model  string
}

func NewTextService(ctx context.Context, cfg config.Config) (TextGenerator, error) {
	if cfg.Gemini.APIKey == "" {
		return nil, errors.New("GEMINI_API_KEY is required")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.Gemini.APIKey))
	if err != nil {
		return nil, fmt.Errorf("gemini client init: %w", err)
	}

	return &geminiTextService{client: client, model: cfg.Gemini.TextModel}, nil
}

func (s *geminiTextService) GeneratePostText(ctx context.Context, keyword string, tmpl TemplateConfig, topicContext string) (*GeneratedText, error) {
	model := s.client.GenerativeModel(s.model)
	model.ResponseMIMEType = "application/json"

	hashtagCount := tmpl.HashtagCount
	if hashtagCount <= 0 {
		hashtagCount = 5
	}

	var sb strings.Builder
	if tmpl.SystemPrompt != "" {
		sb.WriteString(tmpl.SystemPrompt)
		sb.WriteString("\n\n")
	}
	fmt.Fprintf(&sb, "Write a social media post built around the keyword phrase %q.\n", keyword)
	if topicContext != "" {
		fmt.Fprintf(&sb, "Topic context: %s\n", topicContext)
	}
	fmt.Fprintf(&sb, `Respond with JSON only: {"title": string, "text": string, "hashtags": [string]} with at most %d hashtags, no leading # in hashtag values.`, hashtagCount)

	resp, err := model.GenerateContent(ctx, genai.Text(sb.String()))
	if err != nil {
		return nil, fmt.Errorf("gemini generate failed: %w", err)
	}

	raw, err := extractText(resp)
	if err != nil {
		return nil, err
	}

	var gen GeneratedText
	if err := json.Unmarshal([]byte(cleanJSON(raw)), &gen); err != nil {
		return nil, fmt.Errorf("failed to parse post draft: %w", err)
	}
	if gen.Title == "" && gen.Text == "" {
		return nil, errors.New("gemini returned an empty draft")
	}

	return &gen, nil
}

func (s *geminiTextService) GenerateKeywords(ctx context.Context, topic, groupType string, count int) ([]string, error) {
	model := s.client.GenerativeModel(s.model)
	model.ResponseMIMEType = "application/json"

	prompt := fmt.Sprintf(`Generate %d SEO keyword phrases of the %q group for the topic %q.
Respond with a JSON array of strings only.`, count, groupType, topic)

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, fmt.Errorf("gemini generate failed: %w", err)
	}

	raw, err := extractText(resp)
	if err != nil {
		return nil, err
	}

	var keywords []string
	if err := json.Unmarshal([]byte(cleanJSON(raw)), &keywords); err != nil {
		return nil, fmt.Errorf("failed to parse keyword list: %w", err)
	}

	return keywords, nil
}

func extractText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", errors.New("empty response from gemini")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	if sb.Len() == 0 {
		return "", errors.New("no text parts in gemini response")
	}

	return sb.String(), nil
}

func cleanJSON(input string) string {
	input = strings.TrimSpace(input)
	input = strings.TrimPrefix(input, "```json")
	input = strings.TrimPrefix(input, "```")
	input = strings.TrimSuffix(input, "```")
	return strings.TrimSpace(input)
}
