package transfer

// BatchRequest is the body of POST /api/generation/batch.
type BatchRequest struct {
	KeywordSetID  int64  `json:"keyword_set_id"`
	PostCount     int    `json:"post_count"`
	VideosPerPost int    `json:"videos_per_post"`
	MaxAttempts   int    `json:"max_attempts"`
	WithImage     bool   `json:"with_image"`
	TopicContext  string `json:"topic_context"`
}

// PostError is one keyword whose text generation failed. The keyword
// produced no post and no video job.
type PostError struct {
	Keyword string `json:"keyword"`
	Error   string `json:"error"`
}

// VideoError is one video slot that exhausted its retry budget.
type VideoError struct {
	PostID     int64  `json:"post_id"`
	Keyword    string `json:"keyword"`
	VideoIndex int    `json:"video_index"`
	Error      string `json:"error"`
}

// BatchReport summarizes one generation batch run. It is never persisted;
// partial success is the expected outcome, not an error.
type BatchReport struct {
	RunID          string       `json:"run_id"`
	RequestedPosts int          `json:"requested_posts"`
	CreatedPosts   int          `json:"created_posts"`
	ImagesSaved    int          `json:"images_saved"`
	VideosSaved    int          `json:"videos_saved"`
	VideoAttempts  int          `json:"video_attempts"`
	PostErrors     []PostError  `json:"post_errors"`
	VideoErrors    []VideoError `json:"video_errors"`
}

type KeywordSetCreation struct {
	GroupType string   `json:"group_type"`
	Topic     string   `json:"topic"`
	Keywords  []string `json:"keywords"`
}

type ScheduleCreation struct {
	PostID      int64  `json:"post_id"`
	AccountID   int64  `json:"account_id"`
	ScheduledAt string `json:"scheduled_at"`
}
