package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/abhisek/storyforge/internal/story"
)

// Client implements story.Backend against a remote storyforge server.
type Client struct {
	baseURL string
	http    *http.Client
}

var _ story.Backend = (*Client)(nil)

// NewClient creates a Client for baseURL. A nil httpClient gets a 30s
// timeout.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: httpClient}
}

// CreateJob asks the server to generate a story about theme.
func (c *Client) CreateJob(ctx context.Context, theme, sessionID string) (*story.Job, error) {
	if err := story.CheckTheme(theme); err != nil {
		return nil, err
	}
	body, err := json.Marshal(createStoryRequest{Theme: theme})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/stories/create", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if sessionID != "" {
		req.AddCookie(&http.Cookie{Name: SessionCookie, Value: sessionID})
	}

	var job story.Job
	if err := c.do(req, &job, nil); err != nil {
		return nil, fmt.Errorf("create job: %w", err)
	}
	return &job, nil
}

// Job fetches the state of a job.
func (c *Client) Job(ctx context.Context, jobID string) (*story.Job, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/jobs/"+url.PathEscape(jobID), nil)
	if err != nil {
		return nil, err
	}
	var job story.Job
	if err := c.do(req, &job, story.ErrJobNotFound); err != nil {
		return nil, err
	}
	return &job, nil
}

// Story fetches a complete story.
func (c *Client) Story(ctx context.Context, id int64) (*story.Story, error) {
	u := c.baseURL + "/api/stories/" + strconv.FormatInt(id, 10) + "/complete"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	var complete CompleteStory
	if err := c.do(req, &complete, story.ErrStoryNotFound); err != nil {
		return nil, err
	}
	return complete.Story(), nil
}

// do sends req and decodes a 200 body into out. A 404 becomes notFound
// and a 422 becomes story.ErrEmptyTheme or story.ErrThemeTooLong.
func (c *Client) do(req *http.Request, out any, notFound error) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusOK {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
		return nil
	}

	var apiErr errorResponse
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if json.Unmarshal(raw, &apiErr) != nil || apiErr.Error == "" {
		apiErr.Error = strings.TrimSpace(string(raw))
	}

	switch {
	case resp.StatusCode == http.StatusNotFound && notFound != nil:
		return notFound
	case resp.StatusCode == http.StatusUnprocessableEntity && apiErr.Error == story.EmptyThemeMessage:
		return story.ErrEmptyTheme
	case resp.StatusCode == http.StatusUnprocessableEntity && apiErr.Error == story.LongThemeMessage:
		return story.ErrThemeTooLong
	}
	return &StatusError{Code: resp.StatusCode, Message: apiErr.Error}
}

// StatusError is a non-200 response from the server.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned %d", e.Code)
	}
	return fmt.Sprintf("server returned %d: %s", e.Code, e.Message)
}

// IsStatus reports whether err is a StatusError with the given code.
func IsStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code == code
}
