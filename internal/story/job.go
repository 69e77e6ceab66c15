package story

import "time"

// JobStatus is the lifecycle state of a generation job.
type JobStatus string

const (
	JobPending    JobStatus = "pending"
	JobProcessing JobStatus = "processing"
	JobCompleted  JobStatus = "completed"
	JobFailed     JobStatus = "failed"
)

// Done reports whether the status is terminal.
func (s JobStatus) Done() bool {
	return s == JobCompleted || s == JobFailed
}

// Job tracks one asynchronous story generation request.
type Job struct {
	ID          string     `json:"job_id"`
	SessionID   string     `json:"session_id"`
	Theme       string     `json:"theme"`
	Status      JobStatus  `json:"status"`
	StoryID     int64      `json:"story_id,omitempty"`
	Error       string     `json:"error,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}
