// Package storytest provides an in-memory story.Backend for tests.
package storytest

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/abhisek/storyforge/internal/story"
)

// Backend is an in-memory story.Backend. Jobs are created pending and
// only change when the test calls Complete or Fail.
type Backend struct {
	mu      sync.Mutex
	stories map[int64]*story.Story
	jobs    map[string]*story.Job
	themes  []string
	nextJob int

	// CreateErr, when set, is returned by CreateJob.
	CreateErr error
	// JobErr, when set, is returned by Job.
	JobErr error
}

var _ story.Backend = (*Backend)(nil)

// New returns a Backend holding the given stories.
func New(stories ...*story.Story) *Backend {
	b := &Backend{
		stories: make(map[int64]*story.Story),
		jobs:    make(map[string]*story.Job),
	}
	for _, s := range stories {
		b.stories[s.ID] = s
	}
	return b
}

func (b *Backend) CreateJob(_ context.Context, theme, sessionID string) (*story.Job, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.themes = append(b.themes, theme)
	if b.CreateErr != nil {
		return nil, b.CreateErr
	}
	if err := story.CheckTheme(theme); err != nil {
		return nil, err
	}
	b.nextJob++
	job := &story.Job{
		ID:        fmt.Sprintf("job-%d", b.nextJob),
		SessionID: sessionID,
		Theme:     theme,
		Status:    story.JobPending,
		CreatedAt: time.Now().UTC(),
	}
	b.jobs[job.ID] = job
	cp := *job
	return &cp, nil
}

func (b *Backend) Job(_ context.Context, jobID string) (*story.Job, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.JobErr != nil {
		return nil, b.JobErr
	}
	job, ok := b.jobs[jobID]
	if !ok {
		return nil, story.ErrJobNotFound
	}
	cp := *job
	return &cp, nil
}

func (b *Backend) Story(_ context.Context, id int64) (*story.Story, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	s, ok := b.stories[id]
	if !ok {
		return nil, story.ErrStoryNotFound
	}
	return s, nil
}

// Complete marks a job completed with the given story, storing the story.
func (b *Backend) Complete(jobID string, s *story.Story) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.stories[s.ID] = s
	if job, ok := b.jobs[jobID]; ok {
		now := time.Now().UTC()
		job.Status = story.JobCompleted
		job.StoryID = s.ID
		job.CompletedAt = &now
	}
}

// Fail marks a job failed with reason.
func (b *Backend) Fail(jobID, reason string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if job, ok := b.jobs[jobID]; ok {
		now := time.Now().UTC()
		job.Status = story.JobFailed
		job.Error = reason
		job.CompletedAt = &now
	}
}

// Themes returns every theme passed to CreateJob, in order.
func (b *Backend) Themes() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.themes...)
}

// Sample builds a small story: the root offers a losing ending and a
// second choice, which leads to a winning and a losing ending.
func Sample(id int64) *story.Story {
	return &story.Story{
		ID:        id,
		Title:     "The Sunken Bell",
		Theme:     "pirates",
		SessionID: "sess-1",
		CreatedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		RootID:    1,
		Nodes: map[int64]*story.Node{
			1: {ID: 1, Content: "You wake on a deck.", IsRoot: true, Options: []story.Option{
				{Text: "Jump overboard", NodeID: 2},
				{Text: "Find the captain", NodeID: 3},
			}},
			2: {ID: 2, Content: "The sea takes you.", IsEnding: true},
			3: {ID: 3, Content: "The captain eyes you.", Options: []story.Option{
				{Text: "Offer the map", NodeID: 4},
				{Text: "Draw your sword", NodeID: 5},
			}},
			4: {ID: 4, Content: "Treasure is yours.", IsEnding: true, IsWinningEnding: true},
			5: {ID: 5, Content: "You lose the duel.", IsEnding: true},
		},
	}
}
