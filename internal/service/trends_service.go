package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/mmcdole/gofeed"
	"golang.org/x/sync/errgroup"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	config "github.com/dobryakk5/zavod/configs"
	"github.com/dobryakk5/zavod/internal/models"
	"github.com/dobryakk5/zavod/internal/repository"
)

const trendsPerSource = 10

// TrendsService discovers trending topics from the configured external
// sources and persists them for use as generation topic context.
type TrendsService interface {
	Refresh(ctx context.Context, clientID int64) ([]*models.Trend, error)
	List(ctx context.Context, clientID int64) ([]*models.Trend, error)
}

type trendsService struct {
	cfg        config.Config
	cl         repository.ClientRepository
	tr         repository.TrendRepository
	httpClient *http.Client
	parser     *gofeed.Parser
}

func NewTrendsService(cfg config.Config, cl repository.ClientRepository, tr repository.TrendRepository) TrendsService {
	return &trendsService{
		cfg:        cfg,
		cl:         cl,
		tr:         tr,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		parser:     gofeed.NewParser(),
	}
}

// Refresh fans out over the client's enabled sources. A failing source is
// logged and skipped, the remaining sources still deliver.
func (s *trendsService) Refresh(ctx context.Context, clientID int64) ([]*models.Trend, error) {
	client, err := s.cl.GetByID(ctx, clientID)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, errors.New("client not found")
	}

	sources := strings.Split(client.TrendSources, ",")
	if client.TrendSources == "" {
		sources = []string{models.TrendSourceRSS, models.TrendSourceGoogleNews}
	}

	var mu sync.Mutex
	var trends []*models.Trend

	g, gctx := errgroup.WithContext(ctx)
	for _, src := range sources {
		source := strings.TrimSpace(src)
		g.Go(func() error {
			found, err := s.fetchSource(gctx, client, source)
			if err != nil {
				slog.Info(fmt.Sprintf("trend source %s failed: %v", source, err))
				return nil
			}
			mu.Lock()
			trends = append(trends, found...)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, t := range trends {
		if _, err := s.tr.Create(ctx, t); err != nil {
			slog.Info(err.Error())
		}
	}

	return trends, nil
}

func (s *trendsService) List(ctx context.Context, clientID int64) ([]*models.Trend, error) {
	return s.tr.ListByClientID(ctx, clientID, 100)
}

func (s *trendsService) fetchSource(ctx context.Context, client *models.Client, source string) ([]*models.Trend, error) {
	switch source {
	case models.TrendSourceRSS, models.TrendSourceTelegram:
		// Telegram channels are consumed through configured feed bridges,
		// same wire format as plain RSS.
		return s.fetchFeeds(ctx, client.ID, source, strings.Split(s.cfg.TrendFeeds, ","))
	case models.TrendSourceGoogleNews:
		feed := fmt.Sprintf("https://news.google.com/rss/search?q=%s", url.QueryEscape(client.Name))
		return s.fetchFeeds(ctx, client.ID, source, []string{feed})
	case models.TrendSourceYoutube:
		return s.fetchYoutube(ctx, client.ID)
	case models.TrendSourceVK:
		return s.fetchVK(ctx, client)
	default:
		return nil, fmt.Errorf("unknown trend source %q", source)
	}
}

func (s *trendsService) fetchFeeds(ctx context.Context, clientID int64, source string, feedURLs []string) ([]*models.Trend, error) {
	var trends []*models.Trend
	for _, feedURL := range feedURLs {
		feedURL = strings.TrimSpace(feedURL)
		if feedURL == "" {
			continue
		}

		feed, err := s.parser.ParseURLWithContext(feedURL, ctx)
		if err != nil {
			slog.Info(fmt.Sprintf("feed %s failed: %v", feedURL, err))
			continue
		}

		for i, item := range feed.Items {
			if i >= trendsPerSource {
				break
			}
			trends = append(trends, &models.Trend{
				ClientID:  clientID,
				Source:    source,
				Title:     item.Title,
				URL:       item.Link,
				Score:     float64(trendsPerSource - i),
				FetchedAt: time.Now(),
			})
		}
	}
	return trends, nil
}

func (s *trendsService) fetchYoutube(ctx context.Context, clientID int64) ([]*models.Trend, error) {
	if s.cfg.YoutubeAPIKey == "" {
		return nil, fmt.Errorf("YOUTUBE_API_KEY is required")
	}

	svc, err := youtube.NewService(ctx, option.WithAPIKey(s.cfg.YoutubeAPIKey))
	if err != nil {
		return nil, err
	}

	resp, err := svc.Videos.List([]string{"snippet", "statistics"}).
		Chart("mostPopular").
		MaxResults(trendsPerSource).
		Context(ctx).
		Do()
	if err != nil {
		return nil, err
	}

	var trends []*models.Trend
	for _, v := range resp.Items {
		score := 0.0
		if v.Statistics != nil {
			score = float64(v.Statistics.ViewCount)
		}
		trends = append(trends, &models.Trend{
			ClientID:  clientID,
			Source:    models.TrendSourceYoutube,
			Title:     v.Snippet.Title,
			URL:       "https://www.youtube.com/watch?v=" + v.Id,
			Score:     score,
			FetchedAt: time.Now(),
		})
	}
	return trends, nil
}

func (s *trendsService) fetchVK(ctx context.Context, client *models.Client) ([]*models.Trend, error) {
	if s.cfg.VKAccessToken == "" {
		return nil, fmt.Errorf("VK_ACCESS_TOKEN is required")
	}

	q := url.Values{}
	q.Set("q", client.Name)
	q.Set("count", fmt.Sprintf("%d", trendsPerSource))
	q.Set("access_token", s.cfg.VKAccessToken)
	q.Set("v", "5.199")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "https://api.vk.com/method/newsfeed.search?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var out struct {
		Response struct {
			Items []struct {
				ID      int64  `json:"id"`
				OwnerID int64  `json:"owner_id"`
				Text    string `json:"text"`
			} `json:"items"`
		} `json:"response"`
		Error struct {
			ErrorMsg string `json:"error_msg"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	if out.Error.ErrorMsg != "" {
		return nil, fmt.Errorf("vk api error: %s", out.Error.ErrorMsg)
	}

	var trends []*models.Trend
	for i, item := range out.Response.Items {
		title := item.Text
		if len(title) > 120 {
			title = title[:120]
		}
		trends = append(trends, &models.Trend{
			ClientID:  client.ID,
			Source:    models.TrendSourceVK,
			Title:     title,
			URL:       fmt.Sprintf("https://vk.com/wall%d_%d", item.OwnerID, item.ID),
			Score:     float64(trendsPerSource - i),
			FetchedAt: time.Now(),
		})
	}
	return trends, nil
}
