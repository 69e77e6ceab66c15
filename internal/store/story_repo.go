package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/storyforge/internal/story"
)

type storyRepo struct {
	db *sql.DB
}

var storyColumns = []string{"id", "title", "theme", "session_id", "created_at"}

func (r *storyRepo) Save(ctx context.Context, d *story.Draft, sessionID string) (int64, error) {
	idx := d.Index()
	if _, ok := idx[d.Root]; !ok {
		return 0, fmt.Errorf("save story: %w", story.ErrRootNotFound)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	b := builder()
	q, args := b.Insert("stories").
		Columns("title", "theme", "session_id", "created_at").
		Values(d.Title, d.Theme, sessionID, formatTime(time.Now())).
		Query()
	res, err := tx.ExecContext(ctx, q, args...)
	if err != nil {
		return 0, fmt.Errorf("insert story: %w", err)
	}
	storyID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("story id: %w", err)
	}

	// Insert nodes first so every local id has a database id, then write
	// the options that reference them.
	ids := make(map[string]int64, len(d.Nodes))
	for _, n := range d.Nodes {
		q, args := b.Insert("story_nodes").
			Columns("story_id", "content", "is_root", "is_ending", "is_winning_ending").
			Values(storyID, n.Content, n.ID == d.Root, n.IsEnding, n.IsWinningEnding).
			Query()
		res, err := tx.ExecContext(ctx, q, args...)
		if err != nil {
			return 0, fmt.Errorf("insert node %q: %w", n.ID, err)
		}
		if ids[n.ID], err = res.LastInsertId(); err != nil {
			return 0, fmt.Errorf("node id: %w", err)
		}
	}

	for _, n := range d.Nodes {
		if len(n.Options) == 0 {
			continue
		}
		opts := make([]story.Option, 0, len(n.Options))
		for _, o := range n.Options {
			target, ok := ids[o.Next]
			if !ok {
				return 0, fmt.Errorf("node %q: option %q leads to unknown node %q", n.ID, o.Text, o.Next)
			}
			opts = append(opts, story.Option{Text: o.Text, NodeID: target})
		}
		raw, err := json.Marshal(opts)
		if err != nil {
			return 0, fmt.Errorf("encode options: %w", err)
		}
		q, args := b.Update("story_nodes").
			Set("options", string(raw)).
			Where(entsql.EQ("id", ids[n.ID])).
			Query()
		if _, err := tx.ExecContext(ctx, q, args...); err != nil {
			return 0, fmt.Errorf("update options of %q: %w", n.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return storyID, nil
}

func (r *storyRepo) Get(ctx context.Context, id int64) (*story.Story, error) {
	b := builder()
	q, args := b.Select(storyColumns...).
		From(b.Table("stories")).
		Where(entsql.EQ("id", id)).
		Query()

	s := &story.Story{}
	var created string
	err := r.db.QueryRowContext(ctx, q, args...).
		Scan(&s.ID, &s.Title, &s.Theme, &s.SessionID, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, story.ErrStoryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query story: %w", err)
	}
	if s.CreatedAt, err = parseTime(created); err != nil {
		return nil, err
	}

	q, args = b.Select("id", "content", "is_root", "is_ending", "is_winning_ending", "options").
		From(b.Table("story_nodes")).
		Where(entsql.EQ("story_id", id)).
		OrderBy("id").
		Query()
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query nodes: %w", err)
	}
	defer rows.Close()

	s.Nodes = make(map[int64]*story.Node)
	for rows.Next() {
		n := &story.Node{}
		var opts string
		if err := rows.Scan(&n.ID, &n.Content, &n.IsRoot, &n.IsEnding, &n.IsWinningEnding, &opts); err != nil {
			return nil, fmt.Errorf("scan node: %w", err)
		}
		if err := json.Unmarshal([]byte(opts), &n.Options); err != nil {
			return nil, fmt.Errorf("decode options of node %d: %w", n.ID, err)
		}
		if n.IsRoot {
			s.RootID = n.ID
		}
		s.Nodes[n.ID] = n
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return s, nil
}

func (r *storyRepo) List(ctx context.Context, opts ListOpts) ([]story.Summary, error) {
	b := builder()
	sel := b.Select(storyColumns...).
		From(b.Table("stories")).
		OrderBy(entsql.Desc("id"))
	if opts.SessionID != "" {
		sel = sel.Where(entsql.EQ("session_id", opts.SessionID))
	}
	if opts.Limit > 0 {
		sel = sel.Limit(opts.Limit)
	}
	q, args := sel.Query()

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query stories: %w", err)
	}
	defer rows.Close()

	var out []story.Summary
	for rows.Next() {
		var s story.Summary
		var created string
		if err := rows.Scan(&s.ID, &s.Title, &s.Theme, &s.SessionID, &created); err != nil {
			return nil, fmt.Errorf("scan story: %w", err)
		}
		if s.CreatedAt, err = parseTime(created); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *storyRepo) Delete(ctx context.Context, id int64) error {
	q, args := builder().Delete("stories").Where(entsql.EQ("id", id)).Query()
	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return fmt.Errorf("delete story: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return story.ErrStoryNotFound
	}
	return nil
}
