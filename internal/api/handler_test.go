package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/storyforge/internal/jobs"
	"github.com/abhisek/storyforge/internal/story"
)

// memBackend is an in-memory story.Backend.
type memBackend struct {
	mu      sync.Mutex
	jobs    map[string]*story.Job
	stories map[int64]*story.Story
	err     error
	next    int
}

func newMemBackend() *memBackend {
	return &memBackend{jobs: map[string]*story.Job{}, stories: map[int64]*story.Story{}}
}

func (m *memBackend) CreateJob(_ context.Context, theme, sessionID string) (*story.Job, error) {
	if err := story.CheckTheme(theme); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	m.next++
	job := &story.Job{
		ID:        fmt.Sprintf("job-%d", m.next),
		SessionID: sessionID,
		Theme:     theme,
		Status:    story.JobPending,
		CreatedAt: time.Date(2025, 9, 30, 10, 0, 0, 0, time.UTC),
	}
	m.jobs[job.ID] = job
	return job, nil
}

func (m *memBackend) Job(_ context.Context, id string) (*story.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	job, ok := m.jobs[id]
	if !ok {
		return nil, story.ErrJobNotFound
	}
	out := *job
	return &out, nil
}

func (m *memBackend) Story(_ context.Context, id int64) (*story.Story, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	s, ok := m.stories[id]
	if !ok {
		return nil, story.ErrStoryNotFound
	}
	return s, nil
}

func sampleStory() *story.Story {
	return &story.Story{
		ID:        7,
		Title:     "The Sunken Bell",
		Theme:     "pirates",
		SessionID: "sess-1",
		CreatedAt: time.Date(2025, 9, 30, 10, 0, 0, 0, time.UTC),
		RootID:    1,
		Nodes: map[int64]*story.Node{
			1: {ID: 1, Content: "A bell tolls.", IsRoot: true, Options: []story.Option{
				{Text: "Dive", NodeID: 2},
				{Text: "Row away", NodeID: 3},
			}},
			2: {ID: 2, Content: "Treasure!", IsEnding: true, IsWinningEnding: true},
			3: {ID: 3, Content: "A storm takes you.", IsEnding: true},
		},
	}
}

func newTestServer(t *testing.T, backend story.Backend) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(NewServer(backend, zerolog.Nop(), Config{}).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func decodeError(t *testing.T, resp *http.Response) string {
	t.Helper()
	var body errorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body.Error
}

func TestCreateStory(t *testing.T) {
	backend := newMemBackend()
	srv := newTestServer(t, backend)

	resp, err := http.Post(srv.URL+"/api/stories/create", "application/json", strings.NewReader(`{"theme":"pirates"}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get(RequestIDHeader))

	var cookie *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == SessionCookie {
			cookie = c
		}
	}
	require.NotNil(t, cookie, "expected session cookie")
	assert.True(t, cookie.HttpOnly)

	var job story.Job
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&job))
	assert.Equal(t, "job-1", job.ID)
	assert.Equal(t, story.JobPending, job.Status)
	assert.Equal(t, cookie.Value, job.SessionID)
}

func TestCreateStory_ReusesSessionCookie(t *testing.T) {
	srv := newTestServer(t, newMemBackend())

	req, _ := http.NewRequest(http.MethodPost, srv.URL+"/api/stories/create", strings.NewReader(`{"theme":"space"}`))
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "existing"})
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Empty(t, resp.Cookies())
	var job story.Job
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&job))
	assert.Equal(t, "existing", job.SessionID)
}

func TestCreateStory_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		status  int
		message string
	}{
		{"blank theme", `{"theme":"   "}`, http.StatusUnprocessableEntity, story.EmptyThemeMessage},
		{"missing theme", `{}`, http.StatusUnprocessableEntity, story.EmptyThemeMessage},
		{"too long", `{"theme":"` + strings.Repeat("x", 501) + `"}`, http.StatusUnprocessableEntity, story.LongThemeMessage},
		{"bad json", `{"theme":`, http.StatusBadRequest, "invalid request body"},
	}
	srv := newTestServer(t, newMemBackend())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Post(srv.URL+"/api/stories/create", "application/json", strings.NewReader(tt.body))
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, tt.status, resp.StatusCode)
			assert.Equal(t, tt.message, decodeError(t, resp))
		})
	}
}

func TestCreateStory_BackendErrors(t *testing.T) {
	backend := newMemBackend()
	srv := newTestServer(t, backend)

	backend.err = jobs.ErrClosed
	resp, err := http.Post(srv.URL+"/api/stories/create", "application/json", strings.NewReader(`{"theme":"pirates"}`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	backend.err = errors.New("disk full")
	resp, err = http.Post(srv.URL+"/api/stories/create", "application/json", strings.NewReader(`{"theme":"pirates"}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "failed to create story job", decodeError(t, resp))
}

func TestGetJob(t *testing.T) {
	backend := newMemBackend()
	job, _ := backend.CreateJob(context.Background(), "pirates", "s")
	srv := newTestServer(t, backend)

	resp, err := http.Get(srv.URL + "/api/jobs/" + job.ID)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, job.ID, got["job_id"])
	assert.Equal(t, "pending", got["status"])

	missing, err := http.Get(srv.URL + "/api/jobs/nope")
	require.NoError(t, err)
	defer missing.Body.Close()
	assert.Equal(t, http.StatusNotFound, missing.StatusCode)
	assert.Equal(t, "Job not found", decodeError(t, missing))
}

func TestGetCompleteStory(t *testing.T) {
	backend := newMemBackend()
	backend.stories[7] = sampleStory()
	srv := newTestServer(t, backend)

	resp, err := http.Get(srv.URL + "/api/stories/7/complete")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, "The Sunken Bell", got["title"])
	assert.Equal(t, "sess-1", got["session_id"])

	root := got["root_node"].(map[string]any)
	assert.Equal(t, float64(1), root["id"])
	assert.Equal(t, true, root["is_root"])
	assert.Len(t, root["options"], 2)

	all := got["all_nodes"].(map[string]any)
	assert.Len(t, all, 3)
	ending := all["2"].(map[string]any)
	assert.Equal(t, true, ending["is_winning_ending"])
	assert.Equal(t, []any{}, ending["options"])
}

func TestGetCompleteStory_Errors(t *testing.T) {
	backend := newMemBackend()
	broken := sampleStory()
	broken.RootID = 99
	backend.stories[8] = broken
	srv := newTestServer(t, backend)

	tests := []struct {
		path   string
		status int
		msg    string
	}{
		{"/api/stories/abc/complete", http.StatusBadRequest, "story id must be an integer"},
		{"/api/stories/404/complete", http.StatusNotFound, "Story not found"},
		{"/api/stories/8/complete", http.StatusInternalServerError, "Root node not found"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, err := http.Get(srv.URL + tt.path)
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, tt.status, resp.StatusCode)
			assert.Equal(t, tt.msg, decodeError(t, resp))
		})
	}
}

func TestHealthzAndMethods(t *testing.T) {
	srv := newTestServer(t, newMemBackend())

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/api/stories/create")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestRequestIDIsEchoed(t *testing.T) {
	srv := newTestServer(t, newMemBackend())
	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/healthz", nil)
	req.Header.Set(RequestIDHeader, "req-42")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "req-42", resp.Header.Get(RequestIDHeader))
}

func TestRecoverPanic(t *testing.T) {
	h := Chain(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}), RequestID(), AccessLog(zerolog.Nop()), RecoverPanic(zerolog.Nop()), Trace())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "internal server error")
}

func TestServe_GracefulShutdown(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := NewServer(newMemBackend(), zerolog.Nop(), Config{Addr: "127.0.0.1:0", ShutdownTimeout: time.Second})

	done := make(chan error, 1)
	go func() { done <- s.ListenAndServe(ctx) }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("STORYFORGE_HTTP_ADDR", ":9090")
	t.Setenv("STORYFORGE_HTTP_SHUTDOWN_TIMEOUT", "3s")
	t.Setenv("STORYFORGE_COOKIE_SECURE", "true")

	cfg, err := LoadConfigFromEnv()
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, 3*time.Second, cfg.ShutdownTimeout)
	assert.True(t, cfg.CookieSecure)

	t.Setenv("STORYFORGE_HTTP_SHUTDOWN_TIMEOUT", "soon")
	_, err = LoadConfigFromEnv()
	assert.Error(t, err)
}
