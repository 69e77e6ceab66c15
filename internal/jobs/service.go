// Package jobs runs story generation in the background and implements
// story.Backend for in-process callers.
package jobs

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/abhisek/storyforge/internal/store"
	"github.com/abhisek/storyforge/internal/story"
	"github.com/abhisek/storyforge/internal/storygen"
	"github.com/abhisek/storyforge/internal/telemetry"
)

// ErrClosed is returned by CreateJob after Close.
var ErrClosed = errors.New("generation service is closed")

// Messages stored on failed jobs.
const (
	QueueFullMessage = "generation queue is full"
	TimeoutMessage   = "story generation timed out"
)

// Config controls the worker pool.
type Config struct {
	Workers    int
	QueueSize  int
	JobTimeout time.Duration
}

// DefaultConfig returns the worker pool defaults.
func DefaultConfig() Config {
	return Config{Workers: 2, QueueSize: 16, JobTimeout: 3 * time.Minute}
}

// Service queues generation jobs and runs them on a fixed pool of workers.
type Service struct {
	gen     storygen.Generator
	stories store.StoryRepo
	jobs    store.JobRepo
	log     zerolog.Logger
	cfg     Config

	mu     sync.RWMutex
	closed bool
	queue  chan story.Job
	wg     sync.WaitGroup
}

var _ story.Backend = (*Service)(nil)

// New starts a Service with cfg.Workers workers.
func New(gen storygen.Generator, stories store.StoryRepo, jobs store.JobRepo, log zerolog.Logger, cfg Config) *Service {
	def := DefaultConfig()
	if cfg.Workers < 1 {
		cfg.Workers = def.Workers
	}
	if cfg.QueueSize < 0 {
		cfg.QueueSize = 0
	}
	if cfg.JobTimeout <= 0 {
		cfg.JobTimeout = def.JobTimeout
	}

	s := &Service{
		gen:     gen,
		stories: stories,
		jobs:    jobs,
		log:     log.With().Str("component", "jobs").Logger(),
		cfg:     cfg,
		queue:   make(chan story.Job, cfg.QueueSize),
	}
	s.wg.Add(cfg.Workers)
	for i := 0; i < cfg.Workers; i++ {
		go s.worker()
	}
	return s
}

// CreateJob records a pending job and queues it. When the queue is full
// the job is stored as failed and returned without blocking.
func (s *Service) CreateJob(ctx context.Context, theme, sessionID string) (*story.Job, error) {
	if err := story.CheckTheme(theme); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}

	job := story.Job{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		Theme:     story.TrimTheme(theme),
		Status:    story.JobPending,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.jobs.Create(ctx, &job); err != nil {
		return nil, fmt.Errorf("create job: %w", err)
	}

	log := s.log.With().Str("job_id", job.ID).Logger()
	select {
	case s.queue <- job:
		log.Info().Str("theme", job.Theme).Msg("job queued")
	default:
		s.finish(&job, errors.New(QueueFullMessage))
		if err := s.jobs.Update(context.WithoutCancel(ctx), &job); err != nil {
			return nil, fmt.Errorf("update job: %w", err)
		}
		log.Warn().Msg("generation queue is full")
	}
	return &job, nil
}

// Job returns the current state of a job.
func (s *Service) Job(ctx context.Context, jobID string) (*story.Job, error) {
	return s.jobs.Get(ctx, jobID)
}

// Story returns a complete story.
func (s *Service) Story(ctx context.Context, id int64) (*story.Story, error) {
	return s.stories.Get(ctx, id)
}

// Wait polls a job every interval until it is done or ctx ends.
func (s *Service) Wait(ctx context.Context, jobID string, interval time.Duration) (*story.Job, error) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		job, err := s.Job(ctx, jobID)
		if err != nil {
			return nil, err
		}
		if job.Status.Done() {
			return job, nil
		}
		select {
		case <-ctx.Done():
			return job, ctx.Err()
		case <-ticker.C:
		}
	}
}

// Close stops accepting jobs and waits for queued and running jobs.
func (s *Service) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	close(s.queue)
	s.mu.Unlock()

	s.wg.Wait()
	return nil
}

func (s *Service) worker() {
	defer s.wg.Done()
	for job := range s.queue {
		s.run(job)
	}
}

func (s *Service) run(job story.Job) {
	log := s.log.With().Str("job_id", job.ID).Logger()
	ctx, span := telemetry.Tracer().Start(context.Background(), "storyforge.generate",
		trace.WithAttributes(
			attribute.String("storyforge.job_id", job.ID),
			attribute.String("storyforge.theme", job.Theme),
		))
	defer span.End()

	job.Status = story.JobProcessing
	if err := s.jobs.Update(ctx, &job); err != nil {
		log.Error().Err(err).Msg("mark job processing")
	}
	log.Info().Msg("job processing")

	start := time.Now()
	storyID, err := s.generate(log.WithContext(ctx), job)
	if err != nil {
		s.finish(&job, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, job.Error)
		log.Error().Err(err).Dur("elapsed", time.Since(start)).Msg("job failed")
	} else {
		job.StoryID = storyID
		s.finish(&job, nil)
		span.SetAttributes(attribute.Int64("storyforge.story_id", storyID))
		log.Info().Int64("story_id", storyID).Dur("elapsed", time.Since(start)).Msg("job completed")
	}

	if err := s.jobs.Update(ctx, &job); err != nil {
		log.Error().Err(err).Msg("record job result")
	}
}

func (s *Service) generate(ctx context.Context, job story.Job) (int64, error) {
	genCtx, cancel := context.WithTimeout(ctx, s.cfg.JobTimeout)
	defer cancel()

	d, err := s.gen.Generate(genCtx, job.Theme)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(genCtx.Err(), context.DeadlineExceeded) {
			return 0, errors.New(TimeoutMessage)
		}
		return 0, err
	}
	return s.stories.Save(ctx, d, job.SessionID)
}

func (s *Service) finish(job *story.Job, err error) {
	now := time.Now().UTC()
	job.CompletedAt = &now
	if err != nil {
		job.Status = story.JobFailed
		job.Error = err.Error()
		return
	}
	job.Status = story.JobCompleted
	job.Error = ""
}
