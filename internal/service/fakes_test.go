package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/dobryakk5/zavod/internal/models"
)

// In-memory repositories shared by the service tests. Every fake copies on
// read and write so a test never observes aliased state, and every fake is
// safe for the concurrent access the batch pipeline produces.

type fakeClientRepo struct {
	mu      sync.Mutex
	clients map[int64]models.Client
}

func newFakeClientRepo(clients ...models.Client) *fakeClientRepo {
	r := &fakeClientRepo{clients: make(map[int64]models.Client)}
	for _, c := range clients {
		r.clients[c.ID] = c
	}
	return r
}

func (r *fakeClientRepo) GetByID(ctx context.Context, id int64) (*models.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.clients[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *fakeClientRepo) ListActive(ctx context.Context) ([]*models.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Client
	for _, c := range r.clients {
		if c.Active {
			cc := c
			out = append(out, &cc)
		}
	}
	return out, nil
}

type fakeKeywordSetRepo struct {
	mu   sync.Mutex
	sets map[int64]models.SEOKeywordSet
}

func newFakeKeywordSetRepo(sets ...models.SEOKeywordSet) *fakeKeywordSetRepo {
	r := &fakeKeywordSetRepo{sets: make(map[int64]models.SEOKeywordSet)}
	for _, s := range sets {
		r.sets[s.ID] = s
	}
	return r
}

func (r *fakeKeywordSetRepo) GetByID(ctx context.Context, id int64) (*models.SEOKeywordSet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sets[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (r *fakeKeywordSetRepo) Create(ctx context.Context, set *models.SEOKeywordSet) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := int64(len(r.sets) + 1)
	set.ID = id
	r.sets[id] = *set
	return id, nil
}

func (r *fakeKeywordSetRepo) ListByClientID(ctx context.Context, clientID int64) ([]*models.SEOKeywordSet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.SEOKeywordSet
	for _, s := range r.sets {
		if s.ClientID == clientID {
			ss := s
			out = append(out, &ss)
		}
	}
	return out, nil
}

func (r *fakeKeywordSetRepo) UpdateStatus(ctx context.Context, status string, setID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sets[setID]
	if !ok {
		return errors.New("set not found")
	}
	s.Status = status
	r.sets[setID] = s
	return nil
}

func (r *fakeKeywordSetRepo) UpdateKeywords(ctx context.Context, setID int64, keywords []string, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sets[setID]
	if !ok {
		return errors.New("set not found")
	}
	s.Keywords = keywords
	s.Status = status
	r.sets[setID] = s
	return nil
}

type fakePostRepo struct {
	mu        sync.Mutex
	nextID    int64
	posts     map[int64]models.Post
	createErr error
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{posts: make(map[int64]models.Post)}
}

func (r *fakePostRepo) GetByID(ctx context.Context, id int64) (*models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *fakePostRepo) Create(ctx context.Context, post *models.Post) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return 0, r.createErr
	}
	r.nextID++
	post.ID = r.nextID
	r.posts[r.nextID] = *post
	return r.nextID, nil
}

func (r *fakePostRepo) ListByClientID(ctx context.Context, clientID int64) ([]*models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Post
	for id := int64(1); id <= r.nextID; id++ {
		if p, ok := r.posts[id]; ok && p.ClientID == clientID {
			pp := p
			out = append(out, &pp)
		}
	}
	return out, nil
}

func (r *fakePostRepo) UpdateStatus(ctx context.Context, status string, postID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[postID]
	if !ok {
		return errors.New("post not found")
	}
	p.Status = status
	r.posts[postID] = p
	return nil
}

func (r *fakePostRepo) Remove(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.posts, id)
	return nil
}

type fakePostVideoRepo struct {
	mu     sync.Mutex
	nextID int64
	videos []models.PostVideo
}

func (r *fakePostVideoRepo) Create(ctx context.Context, pv *models.PostVideo) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	pv.ID = r.nextID
	r.videos = append(r.videos, *pv)
	return r.nextID, nil
}

func (r *fakePostVideoRepo) ListByPostID(ctx context.Context, postID int64) ([]*models.PostVideo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.PostVideo
	for _, v := range r.videos {
		if v.PostID == postID {
			vv := v
			out = append(out, &vv)
		}
	}
	return out, nil
}

func (r *fakePostVideoRepo) CountByPostID(ctx context.Context, postID int64) (int, error) {
	list, _ := r.ListByPostID(ctx, postID)
	return len(list), nil
}

type fakePostImageRepo struct {
	mu     sync.Mutex
	nextID int64
	images []models.PostImage
}

func (r *fakePostImageRepo) Create(ctx context.Context, pi *models.PostImage) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	pi.ID = r.nextID
	r.images = append(r.images, *pi)
	return r.nextID, nil
}

func (r *fakePostImageRepo) ListByPostID(ctx context.Context, postID int64) ([]*models.PostImage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.PostImage
	for _, img := range r.images {
		if img.PostID == postID {
			ii := img
			out = append(out, &ii)
		}
	}
	return out, nil
}

func (r *fakePostImageRepo) CountByPostID(ctx context.Context, postID int64) (int, error) {
	list, _ := r.ListByPostID(ctx, postID)
	return len(list), nil
}

type fakeScheduleRepo struct {
	mu        sync.Mutex
	nextID    int64
	schedules map[int64]models.Schedule
}

func newFakeScheduleRepo(schedules ...models.Schedule) *fakeScheduleRepo {
	r := &fakeScheduleRepo{schedules: make(map[int64]models.Schedule)}
	for _, s := range schedules {
		if s.ID > r.nextID {
			r.nextID = s.ID
		}
		r.schedules[s.ID] = s
	}
	return r
}

func (r *fakeScheduleRepo) GetByID(ctx context.Context, id int64) (*models.Schedule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.schedules[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (r *fakeScheduleRepo) Create(ctx context.Context, s *models.Schedule) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	s.ID = r.nextID
	r.schedules[r.nextID] = *s
	return r.nextID, nil
}

func (r *fakeScheduleRepo) ListByPostID(ctx context.Context, postID int64) ([]*models.Schedule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Schedule
	for id := int64(1); id <= r.nextID; id++ {
		if s, ok := r.schedules[id]; ok && s.PostID == postID {
			ss := s
			out = append(out, &ss)
		}
	}
	return out, nil
}

func (r *fakeScheduleRepo) ListDue(ctx context.Context, now time.Time) ([]*models.Schedule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Schedule
	for id := int64(1); id <= r.nextID; id++ {
		if s, ok := r.schedules[id]; ok && s.Status == models.ScheduleStatusPending && !s.ScheduledAt.After(now) {
			ss := s
			out = append(out, &ss)
		}
	}
	return out, nil
}

func (r *fakeScheduleRepo) UpdateStatus(ctx context.Context, status string, scheduleID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.schedules[scheduleID]
	if !ok {
		return errors.New("schedule not found")
	}
	s.Status = status
	r.schedules[scheduleID] = s
	return nil
}

func (r *fakeScheduleRepo) ClaimPending(ctx context.Context, scheduleID int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.schedules[scheduleID]
	if !ok || s.Status != models.ScheduleStatusPending {
		return false, nil
	}
	s.Status = models.ScheduleStatusInProgress
	r.schedules[scheduleID] = s
	return true, nil
}

func (r *fakeScheduleRepo) SetPublished(ctx context.Context, scheduleID int64, messageID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.schedules[scheduleID]
	if !ok {
		return errors.New("schedule not found")
	}
	s.Status = models.ScheduleStatusPublished
	s.MessageID = messageID
	r.schedules[scheduleID] = s
	return nil
}

func (r *fakeScheduleRepo) AppendLog(ctx context.Context, scheduleID int64, line string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.schedules[scheduleID]
	if !ok {
		return errors.New("schedule not found")
	}
	s.Log += line + "\n"
	r.schedules[scheduleID] = s
	return nil
}

type fakeSocialAccountRepo struct {
	mu       sync.Mutex
	accounts map[int64]models.SocialAccount
}

func newFakeSocialAccountRepo(accounts ...models.SocialAccount) *fakeSocialAccountRepo {
	r := &fakeSocialAccountRepo{accounts: make(map[int64]models.SocialAccount)}
	for _, a := range accounts {
		r.accounts[a.ID] = a
	}
	return r
}

func (r *fakeSocialAccountRepo) GetByID(ctx context.Context, id int64) (*models.SocialAccount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[id]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (r *fakeSocialAccountRepo) ListByClientID(ctx context.Context, clientID int64) ([]*models.SocialAccount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.SocialAccount
	for _, a := range r.accounts {
		if a.ClientID == clientID {
			aa := a
			out = append(out, &aa)
		}
	}
	return out, nil
}

func (r *fakeSocialAccountRepo) CheckByClientID(ctx context.Context, accountID, clientID int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[accountID]
	return ok && a.ClientID == clientID, nil
}

type fakeTrendRepo struct {
	mu     sync.Mutex
	nextID int64
	trends []models.Trend
}

func (r *fakeTrendRepo) Create(ctx context.Context, t *models.Trend) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	t.ID = r.nextID
	r.trends = append(r.trends, *t)
	return r.nextID, nil
}

func (r *fakeTrendRepo) ListByClientID(ctx context.Context, clientID int64, limit int) ([]*models.Trend, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Trend
	for _, t := range r.trends {
		if t.ClientID == clientID && len(out) < limit {
			tt := t
			out = append(out, &tt)
		}
	}
	return out, nil
}

// Generator fakes. The video fake writes a real temp file because the
// pipeline reads the artifact back from disk before uploading.

type fakeTextGenerator struct {
	mu          sync.Mutex
	calls       []string
	failFor     map[string]error
	panicOnCall int // panic on the n-th call when > 0
	keywords    []string
}

func (g *fakeTextGenerator) GeneratePostText(ctx context.Context, keyword string, tmpl TemplateConfig, topicContext string) (*GeneratedText, error) {
	g.mu.Lock()
	g.calls = append(g.calls, keyword)
	n := len(g.calls)
	g.mu.Unlock()
	if g.panicOnCall > 0 && n == g.panicOnCall {
		panic("text provider exploded")
	}
	if err, ok := g.failFor[keyword]; ok {
		return nil, err
	}
	return &GeneratedText{
		Title:    "Title for " + keyword,
		Text:     "Body for " + keyword,
		Hashtags: []string{keyword, "zavod", keyword},
	}, nil
}

func (g *fakeTextGenerator) GenerateKeywords(ctx context.Context, topic, groupType string, count int) ([]string, error) {
	if g.keywords == nil {
		return nil, errors.New("keyword generation not configured")
	}
	return g.keywords, nil
}

type fakeVideoGenerator struct {
	mu       sync.Mutex
	calls    int
	failN    int // first failN calls fail
	failAll  bool
	tmpDir   string
	emptyAll bool
	started  chan struct{} // signalled once a call is in flight
	blockOn  chan struct{} // calls wait here until the channel is closed
}

func (g *fakeVideoGenerator) GenerateVideoFromText(ctx context.Context, prompt string) (*VideoResult, error) {
	g.mu.Lock()
	g.calls++
	n := g.calls
	g.mu.Unlock()

	if g.started != nil {
		select {
		case g.started <- struct{}{}:
		default:
		}
	}
	if g.blockOn != nil {
		<-g.blockOn
	}

	if g.failAll || n <= g.failN {
		return nil, fmt.Errorf("provider error on call %d", n)
	}
	if g.emptyAll {
		return &VideoResult{}, nil
	}

	f, err := os.CreateTemp(g.tmpDir, "fake-video-*.mp4")
	if err != nil {
		return nil, err
	}
	f.Write([]byte("video-bytes"))
	f.Close()
	return &VideoResult{VideoPath: f.Name()}, nil
}

func (g *fakeVideoGenerator) callCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}

type fakeImageGenerator struct {
	mu     sync.Mutex
	calls  int
	fail   bool
	tmpDir string
}

func (g *fakeImageGenerator) GenerateImageFromText(ctx context.Context, prompt string) (*ImageResult, error) {
	g.mu.Lock()
	g.calls++
	g.mu.Unlock()

	if g.fail {
		return nil, errors.New("image provider unavailable")
	}

	f, err := os.CreateTemp(g.tmpDir, "fake-image-*.png")
	if err != nil {
		return nil, err
	}
	f.Write([]byte("image-bytes"))
	f.Close()
	return &ImageResult{ImagePath: f.Name()}, nil
}

type fakeStorage struct {
	mu      sync.Mutex
	uploads map[string]string // key -> contentType
	fail    bool
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{uploads: make(map[string]string)}
}

func (s *fakeStorage) Upload(ctx context.Context, key string, file []byte, contentType string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return "", errors.New("storage unavailable")
	}
	s.uploads[key] = contentType
	return "https://cdn.example.com/" + key, nil
}

func (s *fakeStorage) uploadCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.uploads)
}

type fakeTelegramPublisher struct {
	mu       sync.Mutex
	messages []*TelegramMessage
	err      error
}

func (t *fakeTelegramPublisher) Publish(ctx context.Context, msg *TelegramMessage) (*PublishResult, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.err != nil {
		return nil, t.err
	}
	t.messages = append(t.messages, msg)
	return &PublishResult{MessageID: fmt.Sprintf("%d", 100+len(t.messages)), URL: "https://t.me/c/1"}, nil
}
