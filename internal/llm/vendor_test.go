package llm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// vendor describes one HTTP API well enough to fake it.
type vendor struct {
	name     string
	provider func(url string) (Provider, error)
	reply    func(text string, truncated bool) any
	failure  func(status int) any
	request  func(t *testing.T, body map[string]any)
}

func anthropicReply(text string, truncated bool) any {
	stop := "end_turn"
	if truncated {
		stop = "max_tokens"
	}
	return map[string]any{
		"id":          "msg_test",
		"type":        "message",
		"role":        "assistant",
		"content":     []map[string]any{{"type": "text", "text": text}},
		"model":       "claude-haiku-4-5",
		"stop_reason": stop,
		"usage":       map[string]any{"input_tokens": 50, "output_tokens": 30},
	}
}

func openAIReply(text string, truncated bool) any {
	finish := "stop"
	if truncated {
		finish = "length"
	}
	return map[string]any{
		"id":      "chatcmpl-test",
		"object":  "chat.completion",
		"created": 1234567890,
		"model":   "gpt-4o-mini",
		"choices": []map[string]any{{
			"index":         0,
			"message":       map[string]any{"role": "assistant", "content": text},
			"finish_reason": finish,
		}},
		"usage": map[string]any{"prompt_tokens": 40, "completion_tokens": 25, "total_tokens": 65},
	}
}

func openAIFailure(status int) any {
	return map[string]any{"error": map[string]any{"type": http.StatusText(status), "message": "nope"}}
}

func openAIRequest(t *testing.T, body map[string]any) {
	format, _ := body["response_format"].(map[string]any)
	assert.Equal(t, "json_schema", format["type"])
	msgs, _ := body["messages"].([]any)
	assert.Len(t, msgs, 2, "system + user")
}

var vendors = []vendor{
	{
		name: ProviderAnthropic,
		provider: func(url string) (Provider, error) {
			return NewAnthropicProvider(AnthropicConfig{APIKey: "test-key", Model: "claude-haiku", BaseURL: url})
		},
		reply: anthropicReply,
		failure: func(status int) any {
			return map[string]any{"type": "error", "error": map[string]any{"type": "api_error", "message": "nope"}}
		},
		request: func(t *testing.T, body map[string]any) {
			assert.Contains(t, body, "output_config")
			assert.Contains(t, body, "system")
		},
	},
	{
		name: ProviderOpenAI,
		provider: func(url string) (Provider, error) {
			return NewOpenAIProvider(OpenAIConfig{APIKey: "test-key", Model: "gpt-4o-mini", BaseURL: url + "/v1"})
		},
		reply:   openAIReply,
		failure: openAIFailure,
		request: openAIRequest,
	},
	{
		name: ProviderOpenRouter,
		provider: func(url string) (Provider, error) {
			return NewOpenRouterProvider(OpenRouterConfig{APIKey: "sk-or", Model: "openai/gpt-4o-mini", BaseURL: url + "/v1"})
		},
		reply:   openAIReply,
		failure: openAIFailure,
		request: openAIRequest,
	},
}

// serve starts a fake vendor that answers every request with status and
// body, and returns a provider pointed at it.
func (v vendor) serve(t *testing.T, status int, body any, captured *map[string]any) Provider {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if captured != nil {
			raw, _ := io.ReadAll(r.Body)
			_ = json.Unmarshal(raw, captured)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	}))
	t.Cleanup(srv.Close)

	p, err := v.provider(srv.URL)
	require.NoError(t, err)
	return p
}

func optionRequest() Request {
	req := Prompt("You are a story writer.", "Write one option.")
	req.Schema = optionSchema()
	req.MaxTokens = 256
	req.Temperature = 0.7
	return req
}

func TestVendors_StructuredReply(t *testing.T) {
	for _, v := range vendors {
		t.Run(v.name, func(t *testing.T) {
			var body map[string]any
			p := v.serve(t, http.StatusOK, v.reply(`{"text":"Climb the mast","next":"crow"}`, false), &body)

			resp, err := p.Generate(context.Background(), optionRequest())
			require.NoError(t, err)
			assert.JSONEq(t, `{"text":"Climb the mast","next":"crow"}`, string(resp.Content))
			assert.Equal(t, StopEnd, resp.StopReason)
			assert.Positive(t, resp.Usage.InputTokens)
			assert.Equal(t, resp.Usage.InputTokens+resp.Usage.OutputTokens, resp.Usage.TotalTokens)
			v.request(t, body)
		})
	}
}

func TestVendors_TruncatedReply(t *testing.T) {
	for _, v := range vendors {
		t.Run(v.name, func(t *testing.T) {
			p := v.serve(t, http.StatusOK, v.reply(`{"text":"Climb`, true), nil)

			_, err := p.Generate(context.Background(), optionRequest())
			var maxTok *ErrMaxTokensExceeded
			assert.ErrorAs(t, err, &maxTok)
		})
	}
}

func TestVendors_SchemaMismatch(t *testing.T) {
	for _, v := range vendors {
		t.Run(v.name, func(t *testing.T) {
			p := v.serve(t, http.StatusOK, v.reply(`{"text":""}`, false), nil)

			_, err := p.Generate(context.Background(), optionRequest())
			var inv *ErrInvalidResponse
			assert.ErrorAs(t, err, &inv)
		})
	}
}

func TestVendors_HTTPFailures(t *testing.T) {
	for _, v := range vendors {
		t.Run(v.name+"/429", func(t *testing.T) {
			p := v.serve(t, http.StatusTooManyRequests, v.failure(http.StatusTooManyRequests), nil)
			_, err := p.Generate(context.Background(), optionRequest())
			var rl *ErrRateLimit
			assert.ErrorAs(t, err, &rl)
		})
		t.Run(v.name+"/500", func(t *testing.T) {
			p := v.serve(t, http.StatusInternalServerError, v.failure(http.StatusInternalServerError), nil)
			_, err := p.Generate(context.Background(), optionRequest())
			var unavail *ErrProviderUnavailable
			assert.ErrorAs(t, err, &unavail)
		})
	}
}

func TestAnthropicProvider_NoTextBlock(t *testing.T) {
	reply := anthropicReply("", false).(map[string]any)
	reply["content"] = []any{}
	p := vendors[0].serve(t, http.StatusOK, reply, nil)

	_, err := p.Generate(context.Background(), optionRequest())
	var inv *ErrInvalidResponse
	assert.ErrorAs(t, err, &inv)
}

func TestOpenAIProvider_NoChoices(t *testing.T) {
	reply := openAIReply("", false).(map[string]any)
	reply["choices"] = []any{}
	p := vendors[1].serve(t, http.StatusOK, reply, nil)

	_, err := p.Generate(context.Background(), optionRequest())
	var inv *ErrInvalidResponse
	assert.ErrorAs(t, err, &inv)
}

func TestVendorConstructors_RequireKey(t *testing.T) {
	_, err := NewAnthropicProvider(AnthropicConfig{Model: "claude-haiku"})
	assert.Error(t, err)
	_, err = NewOpenAIProvider(OpenAIConfig{Model: "gpt-4o"})
	assert.Error(t, err)
	_, err = NewOpenRouterProvider(OpenRouterConfig{Model: "openai/gpt-4o-mini"})
	assert.Error(t, err)
	_, err = NewGeminiProvider(context.Background(), GeminiConfig{Model: "gemini-flash"})
	assert.Error(t, err)
}

func TestResolveModel(t *testing.T) {
	tests := []struct {
		models map[string]string
		in     string
		want   string
	}{
		{anthropicModels, "claude-sonnet", "claude-sonnet-4-5"},
		{anthropicModels, "claude-haiku", "claude-haiku-4-5"},
		{anthropicModels, "claude-sonnet-4-20250514", "claude-sonnet-4-20250514"},
		{openaiModels, "gpt-4o-mini", "gpt-4o-mini"},
		{geminiModels, "gemini-pro", "gemini-2.5-pro"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, resolveModel(tt.in, tt.models), tt.in)
	}
}

func TestOpenRouterProvider_PassesModelThrough(t *testing.T) {
	p, err := NewOpenRouterProvider(OpenRouterConfig{APIKey: "sk-or", Model: "gpt-4o"})
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o", p.ModelID())
}
