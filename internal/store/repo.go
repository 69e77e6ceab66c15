package store

import (
	"context"
	"time"

	"github.com/abhisek/storyforge/internal/story"
)

// StoryRepo persists generated stories.
type StoryRepo interface {
	// Save stores a draft as a new story and returns its id. Draft node
	// ids are replaced by database ids.
	Save(ctx context.Context, d *story.Draft, sessionID string) (int64, error)

	// Get returns the complete story tree, or story.ErrStoryNotFound.
	Get(ctx context.Context, id int64) (*story.Story, error)

	// List returns story summaries, newest first.
	List(ctx context.Context, opts ListOpts) ([]story.Summary, error)

	// Delete removes a story and its nodes.
	Delete(ctx context.Context, id int64) error
}

// ListOpts filters story listings.
type ListOpts struct {
	Limit     int    // max results (0 = unlimited)
	SessionID string // only stories created by this session
}

// JobRepo persists generation jobs.
type JobRepo interface {
	// Create inserts a new job.
	Create(ctx context.Context, job *story.Job) error

	// Get returns a job by id, or story.ErrJobNotFound.
	Get(ctx context.Context, id string) (*story.Job, error)

	// Update writes the job's status, story id, error and completion time.
	Update(ctx context.Context, job *story.Job) error
}

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit   int       // max results (0 = unlimited)
	Purpose string    // exact purpose match
	From    time.Time // timestamp >= From
	To      time.Time // timestamp <= To
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMEvent is a stored LLM request event.
type LLMEvent struct {
	ID        int64
	Timestamp time.Time
	LLMRequestEventData
}

// LLMUsage aggregates LLM events sharing a key (purpose or model).
type LLMUsage struct {
	Key          string
	Requests     int
	Failures     int
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
}

// EventRepo records and queries LLM request events.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMEvents returns events newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMEvent, error)

	// GetLLMEvent returns one event, or ErrEventNotFound.
	GetLLMEvent(ctx context.Context, id int64) (*LLMEvent, error)

	// LLMUsageByPurpose totals events per purpose.
	LLMUsageByPurpose(ctx context.Context) ([]LLMUsage, error)

	// LLMUsageByModel totals events per model.
	LLMUsageByModel(ctx context.Context) ([]LLMUsage, error)
}
