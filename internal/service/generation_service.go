package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/h2non/filetype"
	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/dobryakk5/zavod/internal/models"
	"github.com/dobryakk5/zavod/internal/repository"
	"github.com/dobryakk5/zavod/internal/transfer"
)

const (
	defaultVideosPerPost = 1
	maxVideosPerPost     = 5
	defaultMaxAttempts   = 2
)

// GenerationService runs the batch post+video pipeline: one producer
// generating post text sequentially, one consumer draining post jobs and
// driving per-post parallel video generation.
type GenerationService interface {
	GenerateFromKeywordSet(ctx context.Context, clientID int64, req *transfer.BatchRequest) (*transfer.BatchReport, error)
}

type generationService struct {
	cl repository.ClientRepository
	kw repository.SEOKeywordSetRepository
	pr repository.PostRepository
	pv repository.PostVideoRepository
	pi repository.PostImageRepository
	tg TextGenerator
	vg VideoGenerator
	ig ImageGenerator
	st MediaStorage
}

func NewGenerationService(
	cl repository.ClientRepository,
	kw repository.SEOKeywordSetRepository,
	pr repository.PostRepository,
	pv repository.PostVideoRepository,
	pi repository.PostImageRepository,
	tg TextGenerator,
	vg VideoGenerator,
	ig ImageGenerator,
	st MediaStorage) GenerationService {
	return &generationService{
		cl: cl,
		kw: kw,
		pr: pr,
		pv: pv,
		pi: pi,
		tg: tg,
		vg: vg,
		ig: ig,
		st: st,
	}
}

type postJob struct {
	postID  int64
	keyword string
	prompt  string
}

func (s *generationService) GenerateFromKeywordSet(ctx context.Context, clientID int64, req *transfer.BatchRequest) (*transfer.BatchReport, error) {
	if req == nil || req.PostCount <= 0 {
		return nil, errors.New("post count must be positive")
	}

	set, err := s.kw.GetByID(ctx, req.KeywordSetID)
	if err != nil {
		return nil, err
	}
	if set == nil || set.ClientID != clientID {
		return nil, errors.New("keyword set not found")
	}
	if set.Status != models.KeywordSetStatusCompleted {
		return nil, fmt.Errorf("keyword set is %s, not completed", set.Status)
	}

	client, err := s.cl.GetByID(ctx, clientID)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, errors.New("client not found")
	}

	videosPerPost := req.VideosPerPost
	if videosPerPost <= 0 {
		videosPerPost = defaultVideosPerPost
	}
	if videosPerPost > maxVideosPerPost {
		videosPerPost = maxVideosPerPost
	}
	maxAttempts := req.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}

	keywords := SelectKeywords(set.Keywords, req.PostCount)

	report := &transfer.BatchReport{
		RunID:          uuid.NewString(),
		RequestedPosts: len(keywords),
		PostErrors:     []transfer.PostError{},
		VideoErrors:    []transfer.VideoError{},
	}

	tmpl := TemplateConfig{
		SystemPrompt: client.SystemPrompt,
		HashtagCount: client.HashtagCount,
	}

	// The channel is the producer-to-consumer handoff: a post is written by
	// the producer until created, then owned by the consumer. Closing the
	// channel is the completion signal and it must fire even if the
	// producer loop bails out early.
	jobs := make(chan postJob, len(keywords))

	var mu sync.Mutex
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		for job := range jobs {
			stats := s.generateVideosForPost(ctx, job, videosPerPost, maxAttempts)
			mu.Lock()
			report.VideosSaved += stats.saved
			report.VideoAttempts += stats.attempts
			report.VideoErrors = append(report.VideoErrors, stats.errors...)
			mu.Unlock()
		}
	}()

	// The producer's recover lives in the frame that launched the consumer.
	// A panic in the text loop unwinds past the deferred close, which
	// releases the consumer, and the wait below still runs before anything
	// is returned to the caller.
	var producerPanic error
	func() {
		defer func() {
			if p := recover(); p != nil {
				slog.Error(fmt.Sprintf("generation batch panic: %v", p))
				producerPanic = fmt.Errorf("generation batch panic: %v", p)
			}
		}()
		s.producePosts(ctx, clientID, keywords, tmpl, req.TopicContext, req.WithImage, jobs, report, &mu)
	}()

	wg.Wait()
	if producerPanic != nil {
		return report, producerPanic
	}
	return report, nil
}

// producePosts runs the sequential text-generation loop on the calling
// goroutine and enqueues a video job per created post. A failed keyword is
// reported and skipped, it never reaches the queue.
func (s *generationService) producePosts(ctx context.Context, clientID int64, keywords []string, tmpl TemplateConfig, topicContext string, withImage bool, jobs chan<- postJob, report *transfer.BatchReport, mu *sync.Mutex) {
	defer close(jobs)

	for _, keyword := range keywords {
		if ctx.Err() != nil {
			mu.Lock()
			report.PostErrors = append(report.PostErrors, transfer.PostError{Keyword: keyword, Error: "generation cancelled"})
			mu.Unlock()
			continue
		}

		gen, err := s.tg.GeneratePostText(ctx, keyword, tmpl, topicContext)
		if err != nil {
			slog.Info(fmt.Sprintf("text generation failed for %q: %v", keyword, err))
			mu.Lock()
			report.PostErrors = append(report.PostErrors, transfer.PostError{Keyword: keyword, Error: err.Error()})
			mu.Unlock()
			continue
		}

		post := models.Post{
			ClientID:     clientID,
			Title:        gen.Title,
			Text:         gen.Text,
			Status:       models.PostStatusDraft,
			Tags:         models.NormalizeTags(gen.Hashtags),
			Source:       models.PostSourceSEOBatch,
			PublishText:  true,
			PublishImage: withImage,
			// Batch posts always carry videos, the per-post count is
			// clamped to at least one before the pipeline starts.
			PublishVideo: true,
		}

		postID, err := s.pr.Create(ctx, &post)
		if err != nil {
			mu.Lock()
			report.PostErrors = append(report.PostErrors, transfer.PostError{Keyword: keyword, Error: fmt.Sprintf("post save failed: %v", err)})
			mu.Unlock()
			continue
		}

		mu.Lock()
		report.CreatedPosts++
		mu.Unlock()

		prompt := gen.Title
		if prompt == "" {
			prompt = keyword
		}

		// The cover image rides on the producer: one sequential call per
		// post, a failure costs the image only, never the post.
		if withImage {
			if err := s.generateCoverImage(ctx, postID, prompt); err != nil {
				slog.Info(fmt.Sprintf("cover image for post %d failed: %v", postID, err))
				mu.Lock()
				report.PostErrors = append(report.PostErrors, transfer.PostError{Keyword: keyword, Error: fmt.Sprintf("cover image failed: %v", err)})
				mu.Unlock()
			} else {
				mu.Lock()
				report.ImagesSaved++
				mu.Unlock()
			}
		}

		jobs <- postJob{postID: postID, keyword: keyword, prompt: prompt}
	}
}

type videoBatchStats struct {
	saved    int
	attempts int
	errors   []transfer.VideoError
}

type videoSlot struct {
	attempts int
	success  bool
}

type videoOutcome struct {
	index  int
	result *VideoResult
	err    error
}

// generateVideosForPost drives round-based bounded fan-out for one post:
// each round launches one worker per index still under its retry budget,
// collects every outcome on this goroutine, and re-batches. Slot state is
// mutated here only, never inside a worker. In-flight provider calls are
// bounded by the number of currently retryable indices.
func (s *generationService) generateVideosForPost(ctx context.Context, job postJob, videosPerPost, maxAttempts int) videoBatchStats {
	slots := make(map[int]*videoSlot, videosPerPost)
	pending := make(map[int]struct{}, videosPerPost)
	for i := 1; i <= videosPerPost; i++ {
		slots[i] = &videoSlot{}
		pending[i] = struct{}{}
	}

	var stats videoBatchStats

	for len(pending) > 0 {
		if ctx.Err() != nil {
			for idx := range pending {
				stats.errors = append(stats.errors, transfer.VideoError{
					PostID:     job.postID,
					Keyword:    job.keyword,
					VideoIndex: idx,
					Error:      "generation cancelled",
				})
				delete(pending, idx)
			}
			break
		}

		var batch []int
		for idx := range pending {
			if slots[idx].attempts < maxAttempts {
				batch = append(batch, idx)
			}
		}
		if len(batch) == 0 {
			break
		}
		sort.Ints(batch)

		outcomes := make(chan videoOutcome, len(batch))
		var workers sync.WaitGroup
		for _, idx := range batch {
			// An attempt is counted on dispatch, not on success.
			slots[idx].attempts++
			stats.attempts++

			workers.Add(1)
			go func(idx int) {
				defer workers.Done()
				result, err := s.vg.GenerateVideoFromText(ctx, videoPrompt(job.prompt, idx, videosPerPost))
				outcomes <- videoOutcome{index: idx, result: result, err: err}
			}(idx)
		}
		go func() {
			workers.Wait()
			close(outcomes)
		}()

		for out := range outcomes {
			failure := out.err
			if failure == nil && (out.result == nil || out.result.VideoPath == "") {
				failure = errors.New("provider returned no video artifact")
			}

			if failure == nil {
				saveErr := s.savePostVideo(ctx, job.postID, out.result.VideoPath)
				removeArtifacts(out.result)
				if saveErr == nil {
					slots[out.index].success = true
					delete(pending, out.index)
					stats.saved++
					continue
				}
				failure = fmt.Errorf("video save failed: %w", saveErr)
			} else {
				removeArtifacts(out.result)
			}

			slog.Info(fmt.Sprintf("video %d for post %d failed (attempt %d/%d): %v", out.index, job.postID, slots[out.index].attempts, maxAttempts, failure))

			if slots[out.index].attempts >= maxAttempts {
				stats.errors = append(stats.errors, transfer.VideoError{
					PostID:     job.postID,
					Keyword:    job.keyword,
					VideoIndex: out.index,
					Error:      fmt.Sprintf("attempts exhausted (%d): %v", slots[out.index].attempts, failure),
				})
				delete(pending, out.index)
			}
		}
	}

	return stats
}

func (s *generationService) savePostVideo(ctx context.Context, postID int64, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	contentType := "video/mp4"
	if kind, err := filetype.Match(data); err == nil && kind != filetype.Unknown {
		contentType = kind.MIME.Value
	}

	key, err := gonanoid.New()
	if err != nil {
		return err
	}

	url, err := s.st.Upload(ctx, key, data, contentType)
	if err != nil {
		return err
	}

	count, err := s.pv.CountByPostID(ctx, postID)
	if err != nil {
		return err
	}

	_, err = s.pv.Create(ctx, &models.PostVideo{
		PostID:       postID,
		FileKey:      key,
		FileURL:      url,
		DisplayOrder: count,
	})
	return err
}

func (s *generationService) generateCoverImage(ctx context.Context, postID int64, prompt string) error {
	result, err := s.ig.GenerateImageFromText(ctx, prompt)
	if err != nil {
		return err
	}
	defer func() {
		paths := result.CleanupPaths
		if result.ImagePath != "" {
			paths = append(paths, result.ImagePath)
		}
		for _, p := range paths {
			if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
				slog.Info(fmt.Sprintf("temp artifact cleanup failed for %s: %v", p, err))
			}
		}
	}()
	if result.ImagePath == "" {
		return errors.New("provider returned no image artifact")
	}

	data, err := os.ReadFile(result.ImagePath)
	if err != nil {
		return err
	}

	contentType := "image/png"
	if kind, err := filetype.Match(data); err == nil && kind != filetype.Unknown {
		contentType = kind.MIME.Value
	}

	key, err := gonanoid.New()
	if err != nil {
		return err
	}

	url, err := s.st.Upload(ctx, key, data, contentType)
	if err != nil {
		return err
	}

	count, err := s.pi.CountByPostID(ctx, postID)
	if err != nil {
		return err
	}

	_, err = s.pi.Create(ctx, &models.PostImage{
		PostID:       postID,
		FileKey:      key,
		FileURL:      url,
		DisplayOrder: count,
	})
	return err
}

// videoPrompt varies the prompt per index so parallel videos for one post
// are not byte-identical requests.
func videoPrompt(base string, index, videosPerPost int) string {
	if videosPerPost <= 1 {
		return base
	}
	return fmt.Sprintf("%s. Variation %d: a distinct cinematic take on the same subject.", base, index)
}

func removeArtifacts(result *VideoResult) {
	if result == nil {
		return
	}
	paths := result.CleanupPaths
	if result.VideoPath != "" {
		paths = append(paths, result.VideoPath)
	}
	for _, p := range paths {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			slog.Info(fmt.Sprintf("temp artifact cleanup failed for %s: %v", p, err))
		}
	}
}
