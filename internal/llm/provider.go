// Package llm talks to hosted language models. Every vendor sits behind
// Provider, and replies are checked against the request's JSON schema
// before a caller sees them.
package llm

import (
	"context"
	"encoding/json"
	"strings"
)

// Provider generates one structured reply per call.
type Provider interface {
	// Generate sends req and returns the reply. With req.Schema set, the
	// reply Content is JSON that already passed schema validation.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID is the vendor model this provider sends requests to.
	ModelID() string
}

// Normalized stop reasons reported in Response.StopReason.
const (
	StopEnd       = "end"
	StopMaxTokens = "max_tokens"
)

// Request is a single generation call.
type Request struct {
	System   string
	Messages []Message

	// Schema switches the vendor into its structured output mode. Nil
	// means free text.
	Schema *Schema

	MaxTokens int

	// Temperature in [0, 1]. Zero keeps the vendor default.
	Temperature float64
}

// Prompt builds a one-turn request: a system prompt and one user message.
func Prompt(system, user string) Request {
	return Request{
		System:   system,
		Messages: []Message{{Role: RoleUser, Content: user}},
	}
}

// Message is one conversation turn.
type Message struct {
	Role    Role
	Content string
}

// Role is the sender of a Message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema is a named JSON Schema. Name doubles as the compiled-schema
// cache key, so two schemas must never share one.
type Schema struct {
	Name        string
	Description string
	Definition  map[string]any
}

// Response is a validated reply.
type Response struct {
	Content    json.RawMessage
	Usage      Usage
	Model      string
	StopReason string
}

// Decode unmarshals the reply into v. A reply that passed the schema can
// still fail to fit v, which is reported as an invalid response.
func (r *Response) Decode(v any) error {
	if err := json.Unmarshal(r.Content, v); err != nil {
		return &ErrInvalidResponse{Content: r.Content, Err: err}
	}
	return nil
}

// Usage is the token count of one request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// usageOf builds a Usage, deriving the total when the vendor leaves it out.
func usageOf(in, out, total int) Usage {
	if total == 0 {
		total = in + out
	}
	return Usage{InputTokens: in, OutputTokens: out, TotalTokens: total}
}

// completion is a raw vendor reply before schema checks.
type completion struct {
	text  string
	model string
	stop  string
	usage Usage
}

// response validates c against req.Schema and wraps it for the caller.
func (c completion) response(req Request) (*Response, error) {
	content := json.RawMessage(strings.TrimSpace(c.text))
	if err := checkContent(req.Schema, content, c.stop); err != nil {
		return nil, err
	}
	return &Response{
		Content:    content,
		Usage:      c.usage,
		Model:      c.model,
		StopReason: c.stop,
	}, nil
}
