package story

import "context"

// Backend is everything the screens need from the story service. It is
// satisfied both by the in-process job service and by the HTTP client, so
// callers never depend on the transport.
type Backend interface {
	// CreateJob validates theme and queues a generation job. It returns
	// as soon as the job is recorded; generation happens in the background.
	CreateJob(ctx context.Context, theme, sessionID string) (*Job, error)

	// Job returns the current state of a job, or ErrJobNotFound.
	Job(ctx context.Context, jobID string) (*Job, error)

	// Story returns a complete story, or ErrStoryNotFound.
	Story(ctx context.Context, id int64) (*Story, error)
}
