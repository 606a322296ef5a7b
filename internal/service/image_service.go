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

// ImageResult mirrors VideoResult: the caller owns deleting every path.
type ImageResult struct {
	ImagePath    string
	CleanupPaths []string
}

type ImageGenerator interface {
	GenerateImageFromText(ctx context.Context, prompt string) (*ImageResult, error)
}

type imageGenService struct {
	cfg    config.ImageGen
	client *http.Client
}

func NewImageService(cfg config.Config) ImageGenerator {
	return &imageGenService{
		cfg: cfg.ImageGen,
		client: &http.Client{
			Timeout: 3 * time.Minute,
		},
	}
}

func (s *imageGenService) GenerateImageFromText(ctx context.Context, prompt string) (*ImageResult, error) {
	if s.cfg.BaseURL == "" {
		return nil, errors.New("IMAGEGEN_BASE_URL is required")
	}

	body, err := json.Marshal(map[string]string{"prompt": prompt})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.BaseURL+"/v1/images", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.cfg.APIKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("image generation request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("image generation request returned %d: %s", resp.StatusCode, string(b))
	}

	var out struct {
		ImageURL string `json:"image_url"`
		Error    string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("invalid provider response: %w", err)
	}
	if out.Error != "" {
		return nil, fmt.Errorf("image generation failed: %s", out.Error)
	}
	if out.ImageURL == "" {
		return nil, errors.New("provider returned no image url")
	}

	imgReq, err := http.NewRequestWithContext(ctx, http.MethodGet, out.ImageURL, nil)
	if err != nil {
		return nil, err
	}

	imgResp, err := s.client.Do(imgReq)
	if err != nil {
		return nil, fmt.Errorf("image download failed: %w", err)
	}
	defer imgResp.Body.Close()

	if imgResp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("image download returned %d", imgResp.StatusCode)
	}

	f, err := os.CreateTemp("", "zavod-image-*.png")
	if err != nil {
		return nil, err
	}

	if _, err := io.Copy(f, imgResp.Body); err != nil {
		f.Close()
		os.Remove(f.Name())
		return nil, fmt.Errorf("image write failed: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return nil, err
	}

	return &ImageResult{ImagePath: f.Name()}, nil
}
