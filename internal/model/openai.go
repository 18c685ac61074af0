// Package model provides the OpenAI-compatible chat completions client.
// Any endpoint speaking the chat completions dialect works; the base URL
// comes from configuration.
package model

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/footman-ai/footman/internal/errors"
)

// OpenAIConfig configures the chat completions client.
type OpenAIConfig struct {
	APIKey     string
	BaseURL    string // Default: https://api.openai.com/v1
	Model      string // e.g., "gpt-4o"
	Timeout    time.Duration
	MaxRetries int
}

// DefaultOpenAIConfig returns default configuration.
func DefaultOpenAIConfig(apiKey string) *OpenAIConfig {
	return &OpenAIConfig{
		APIKey:     apiKey,
		BaseURL:    "https://api.openai.com/v1",
		Model:      "gpt-4o",
		Timeout:    120 * time.Second,
		MaxRetries: 3,
	}
}

// OpenAIClient implements Client against an OpenAI-compatible API.
type OpenAIClient struct {
	cfg         *OpenAIConfig
	client      *http.Client
	retryPolicy *errors.Policy
	log         *logrus.Entry
}

// NewOpenAIClient creates a new chat completions client.
func NewOpenAIClient(cfg *OpenAIConfig) *OpenAIClient {
	if cfg == nil {
		return nil
	}
	return &OpenAIClient{
		cfg: cfg,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		retryPolicy: &errors.Policy{
			MaxAttempts:  cfg.MaxRetries,
			InitialDelay: 200 * time.Millisecond,
			MaxDelay:     10 * time.Second,
			Multiplier:   2.0,
			Jitter:       true,
			RetryIf:      errors.IsRetryable,
		},
		log: logrus.WithField("component", "model"),
	}
}

// Name returns the configured model identifier.
func (c *OpenAIClient) Name() string {
	if c != nil && c.cfg != nil {
		return c.cfg.Model
	}
	return "openai"
}

// Complete sends a request and returns the finished response.
func (c *OpenAIClient) Complete(ctx context.Context, req *Request) (*Response, error) {
	body, err := c.buildBody(req, false)
	if err != nil {
		return nil, err
	}

	respBody, retryErr := errors.DoWithResult(ctx, c.retryPolicy, func() ([]byte, error) {
		resp, err := c.post(ctx, body)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()
		b, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return nil, errors.Wrap(readErr, errors.CodeNetworkUnavailable, "failed to read response body", errors.CategoryTemporary)
		}
		return b, nil
	})
	if retryErr != nil {
		return nil, retryErr
	}

	var parsed chatResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, errors.Wrap(err, errors.CodeModelParseError, "failed to parse API response", errors.CategoryPermanent)
	}
	if len(parsed.Choices) == 0 {
		return nil, errors.New(errors.CodeModelInvalidResponse, "API response contained no choices", errors.CategoryPermanent)
	}

	out := &Response{
		Text:       parsed.Choices[0].Message.Content,
		TokensUsed: parsed.Usage.TotalTokens,
		Model:      parsed.Model,
	}
	for _, tc := range parsed.Choices[0].Message.ToolCalls {
		if tc.Type == "function" {
			out.ToolCalls = append(out.ToolCalls, ToolCall{
				ID:        tc.ID,
				Name:      tc.Function.Name,
				Arguments: tc.Function.Arguments,
			})
		}
	}
	return out, nil
}

// Stream sends a request and returns the fragment stream. Connection
// establishment is retried; once fragments flow, a broken stream is
// surfaced to the consumer as-is.
func (c *OpenAIClient) Stream(ctx context.Context, req *Request) (*Stream, error) {
	body, err := c.buildBody(req, true)
	if err != nil {
		return nil, err
	}

	resp, retryErr := errors.DoWithResult(ctx, c.retryPolicy, func() (*http.Response, error) {
		return c.post(ctx, body)
	})
	if retryErr != nil {
		return nil, retryErr
	}

	reader := bufio.NewReader(resp.Body)
	pending := []Chunk{}

	next := func() (Chunk, error) {
		for {
			if len(pending) > 0 {
				ch := pending[0]
				pending = pending[1:]
				return ch, nil
			}
			line, err := reader.ReadString('\n')
			if err != nil {
				if err == io.EOF {
					return Chunk{}, io.EOF
				}
				return Chunk{}, errors.Wrap(err, errors.CodeNetworkUnavailable, "stream interrupted", errors.CategoryTemporary)
			}
			line = strings.TrimSpace(line)
			if line == "" || !strings.HasPrefix(line, "data:") {
				continue
			}
			data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
			if data == "[DONE]" {
				return Chunk{}, io.EOF
			}
			var frag chatStreamChunk
			if err := json.Unmarshal([]byte(data), &frag); err != nil {
				c.log.WithError(err).Warn("skipping malformed stream fragment")
				continue
			}
			pending = append(pending, frag.chunks()...)
		}
	}

	return NewStream(next, resp.Body.Close), nil
}

func (c *OpenAIClient) buildBody(req *Request, stream bool) ([]byte, error) {
	if c == nil || c.cfg == nil || c.cfg.APIKey == "" {
		return nil, errors.User(errors.CodeModelUnavailable, "API key not configured")
	}

	m := req.Model
	if m == "" {
		m = c.cfg.Model
	}
	body := map[string]any{
		"model":    m,
		"messages": req.Messages,
	}
	if req.Temperature != nil {
		body["temperature"] = *req.Temperature
	}
	if req.MaxTokens > 0 {
		body["max_tokens"] = req.MaxTokens
	}
	if len(req.Tools) > 0 {
		tools := make([]map[string]any, 0, len(req.Tools))
		for _, t := range req.Tools {
			tools = append(tools, map[string]any{
				"type": "function",
				"function": map[string]any{
					"name":        t.Name,
					"description": t.Description,
					"parameters":  t.Parameters,
				},
			})
		}
		body["tools"] = tools
	}
	if stream {
		body["stream"] = true
	}

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeModelInvalidResponse, "failed to marshal request", errors.CategoryPermanent)
	}
	return jsonBody, nil
}

// post issues the HTTP call and maps status codes to error categories.
// The response body is returned open on success; callers own closing it.
func (c *OpenAIClient) post(ctx context.Context, body []byte) (*http.Response, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeNetworkUnavailable, "failed to create HTTP request", errors.CategoryTemporary)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeNetworkUnavailable, "network request failed", errors.CategoryTemporary)
	}

	switch resp.StatusCode {
	case http.StatusOK:
		return resp, nil
	case http.StatusTooManyRequests:
		defer resp.Body.Close()
		retryAfter := 5 * time.Second
		if v := resp.Header.Get("Retry-After"); v != "" {
			if secs, err := strconv.Atoi(v); err == nil {
				retryAfter = time.Duration(secs) * time.Second
			}
		}
		return nil, errors.RateLimit(errors.CodeModelRateLimit, "API rate limit exceeded", retryAfter)
	case http.StatusUnauthorized:
		defer resp.Body.Close()
		return nil, errors.User(errors.CodeModelUnavailable, "invalid API key")
	case http.StatusBadRequest:
		defer resp.Body.Close()
		b, _ := io.ReadAll(resp.Body)
		return nil, errors.Permanent(errors.CodeModelInvalidResponse, fmt.Sprintf("bad request: %s", string(b)))
	case http.StatusServiceUnavailable, http.StatusBadGateway, http.StatusGatewayTimeout:
		defer resp.Body.Close()
		return nil, errors.Temporary(errors.CodeModelUnavailable, fmt.Sprintf("API unavailable: %s", resp.Status))
	default:
		defer resp.Body.Close()
		b, _ := io.ReadAll(resp.Body)
		return nil, errors.Temporary(errors.CodeModelUnavailable, fmt.Sprintf("API error (status %d): %s", resp.StatusCode, string(b)))
	}
}

// ============================================================
// Wire Types (OpenAI-compatible)
// ============================================================

type chatResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Index   int `json:"index"`
		Message struct {
			Role      string         `json:"role"`
			Content   string         `json:"content"`
			ToolCalls []wireToolCall `json:"tool_calls,omitempty"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

type wireToolCall struct {
	ID       string `json:"id"`
	Type     string `json:"type"`
	Function struct {
		Name      string `json:"name"`
		Arguments string `json:"arguments"`
	} `json:"function"`
}

type chatStreamChunk struct {
	Choices []struct {
		Delta struct {
			Content   string `json:"content"`
			ToolCalls []struct {
				Index    int    `json:"index"`
				ID       string `json:"id"`
				Function struct {
					Name      string `json:"name"`
					Arguments string `json:"arguments"`
				} `json:"function"`
			} `json:"tool_calls"`
		} `json:"delta"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}

// chunks flattens one SSE fragment into model chunks, content first,
// then tool-call deltas in wire order.
func (f *chatStreamChunk) chunks() []Chunk {
	var out []Chunk
	for _, choice := range f.Choices {
		if choice.Delta.Content != "" {
			out = append(out, Chunk{Content: choice.Delta.Content})
		}
		for _, tc := range choice.Delta.ToolCalls {
			out = append(out, Chunk{ToolDelta: &ToolCallDelta{
				Index:     tc.Index,
				ID:        tc.ID,
				Name:      tc.Function.Name,
				Arguments: tc.Function.Arguments,
			}})
		}
	}
	return out
}
