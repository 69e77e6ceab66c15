package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/storyforge/internal/story"
)

type jobRepo struct {
	db *sql.DB
}

func (r *jobRepo) Create(ctx context.Context, job *story.Job) error {
	q, args := builder().Insert("story_jobs").
		Columns("job_id", "session_id", "theme", "status", "created_at").
		Values(job.ID, job.SessionID, job.Theme, string(job.Status), formatTime(job.CreatedAt)).
		Query()
	if _, err := r.db.ExecContext(ctx, q, args...); err != nil {
		return fmt.Errorf("insert job: %w", err)
	}
	return nil
}

func (r *jobRepo) Get(ctx context.Context, id string) (*story.Job, error) {
	b := builder()
	q, args := b.Select("job_id", "session_id", "theme", "status", "story_id", "error", "created_at", "completed_at").
		From(b.Table("story_jobs")).
		Where(entsql.EQ("job_id", id)).
		Query()

	var (
		job       story.Job
		status    string
		storyID   sql.NullInt64
		errMsg    sql.NullString
		created   string
		completed sql.NullString
	)
	err := r.db.QueryRowContext(ctx, q, args...).
		Scan(&job.ID, &job.SessionID, &job.Theme, &status, &storyID, &errMsg, &created, &completed)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, story.ErrJobNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query job: %w", err)
	}

	job.Status = story.JobStatus(status)
	job.StoryID = storyID.Int64
	job.Error = errMsg.String
	if job.CreatedAt, err = parseTime(created); err != nil {
		return nil, err
	}
	if completed.Valid {
		t, err := parseTime(completed.String)
		if err != nil {
			return nil, err
		}
		job.CompletedAt = &t
	}
	return &job, nil
}

func (r *jobRepo) Update(ctx context.Context, job *story.Job) error {
	upd := builder().Update("story_jobs").
		Set("status", string(job.Status)).
		Where(entsql.EQ("job_id", job.ID))
	if job.StoryID != 0 {
		upd = upd.Set("story_id", job.StoryID)
	} else {
		upd = upd.SetNull("story_id")
	}
	if job.Error != "" {
		upd = upd.Set("error", job.Error)
	} else {
		upd = upd.SetNull("error")
	}
	if job.CompletedAt != nil {
		upd = upd.Set("completed_at", formatTime(*job.CompletedAt))
	} else {
		upd = upd.SetNull("completed_at")
	}

	q, args := upd.Query()
	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return fmt.Errorf("update job: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return story.ErrJobNotFound
	}
	return nil
}
