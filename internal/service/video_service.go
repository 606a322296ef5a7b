package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	config "github.com/dobryakk5/zavod/configs"
)

// VideoResult is one retrievable video artifact. The caller owns deleting
// VideoPath plus every path in CleanupPaths, on both success and failure.
type VideoResult struct {
	VideoPath    string
	CleanupPaths []string
}

type VideoGenerator interface {
	GenerateVideoFromText(ctx context.Context, prompt string) (*VideoResult, error)
}

type videoGenService struct {
	cfg    config.VideoGen
	client *http.Client
}

const (
	videoPollInterval = 5 * time.Second
	videoWaitTimeout  = 10 * time.Minute
)

func NewVideoService(cfg config.Config) VideoGenerator {
	return &videoGenService{
		cfg: cfg.VideoGen,
		client: &http.Client{
			Timeout: 2 * time.Minute,
		},
	}
}

type videoGenRequest struct {
	Prompt string `json:"prompt"`
	Method string `json:"method"`
}

type videoGenTask struct {
	TaskID   string `json:"task_id"`
	Status   string `json:"status"`
	VideoURL string `json:"video_url"`
	CoverURL string `json:"cover_url"`
	Error    string `json:"error"`
}

func (s *videoGenService) GenerateVideoFromText(ctx context.Context, prompt string) (*VideoResult, error) {
	if s.cfg.BaseURL == "" {
		return nil, errors.New("VIDEOGEN_BASE_URL is required")
	}

	task, err := s.submit(ctx, prompt)
	if err != nil {
		return nil, err
	}

	task, err = s.waitForCompletion(ctx, task.TaskID)
	if err != nil {
		return nil, err
	}
	if task.VideoURL == "" {
		return nil, errors.New("provider reported success without a video url")
	}

	videoPath, err := s.download(ctx, task.VideoURL, "zavod-video-*.mp4")
	if err != nil {
		return nil, err
	}

	result := &VideoResult{VideoPath: videoPath}
	if task.CoverURL != "" {
		// Cover image is a side artifact: handed to the caller for cleanup,
		// download failure is not fatal.
		if coverPath, err := s.download(ctx, task.CoverURL, "zavod-cover-*.jpg"); err == nil {
			result.CleanupPaths = append(result.CleanupPaths, coverPath)
		}
	}

	return result, nil
}

func (s *videoGenService) submit(ctx context.Context, prompt string) (*videoGenTask, error) {
	body, err := json.Marshal(videoGenRequest{Prompt: prompt, Method: s.cfg.Method})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.BaseURL+"/v1/generations", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.cfg.APIKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("video generation request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("video generation request returned %d: %s", resp.StatusCode, string(b))
	}

	var task videoGenTask
	if err := json.NewDecoder(resp.Body).Decode(&task); err != nil {
		return nil, fmt.Errorf("invalid provider response: %w", err)
	}
	if task.TaskID == "" {
		return nil, errors.New("provider returned no task id")
	}

	return &task, nil
}

func (s *videoGenService) waitForCompletion(ctx context.Context, taskID string) (*videoGenTask, error) {
	deadline := time.Now().Add(videoWaitTimeout)

	for {
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("video generation timed out after %s", videoWaitTimeout)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(videoPollInterval):
		}

		task, err := s.poll(ctx, taskID)
		if err != nil {
			return nil, err
		}

		switch task.Status {
		case "completed":
			return task, nil
		case "failed":
			return nil, fmt.Errorf("video generation failed: %s", task.Error)
		}
	}
}

func (s *videoGenService) poll(ctx context.Context, taskID string) (*videoGenTask, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.cfg.BaseURL+"/v1/generations/"+taskID, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+s.cfg.APIKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("video generation poll failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("video generation poll returned %d", resp.StatusCode)
	}

	var task videoGenTask
	if err := json.NewDecoder(resp.Body).Decode(&task); err != nil {
		return nil, fmt.Errorf("invalid provider response: %w", err)
	}

	return &task, nil
}

func (s *videoGenService) download(ctx context.Context, url, pattern string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("artifact download failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("artifact download returned %d", resp.StatusCode)
	}

	f, err := os.CreateTemp("", pattern)
	if err != nil {
		return "", err
	}

	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("artifact write failed: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", err
	}

	return f.Name(), nil
}
