package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// HTTPBackend talks to an OpenAI-compatible chat-completions endpoint and
// asks for a JSON object response. The wire protocol is the only place that
// knows about the hosted service; everything above it sees Request/bytes.
type HTTPBackend struct {
	endpoint string
	apiKey   string
	model    string
	client   *http.Client
}

// HTTPBackendConfig configures an HTTPBackend. Timeout bounds the whole HTTP
// exchange and should match the per-insight deadline.
type HTTPBackendConfig struct {
	Endpoint string
	APIKey   string
	Model    string
	Timeout  time.Duration
}

func NewHTTPBackend(cfg HTTPBackendConfig) *HTTPBackend {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &HTTPBackend{
		endpoint: cfg.Endpoint,
		apiKey:   cfg.APIKey,
		model:    cfg.Model,
		client:   &http.Client{Timeout: timeout},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string        `json:"model"`
	Messages       []chatMessage `json:"messages"`
	ResponseFormat struct {
		Type string `json:"type"`
	} `json:"response_format"`
	Temperature float64 `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

func (b *HTTPBackend) Complete(ctx context.Context, req Request) ([]byte, error) {
	system := req.System
	if req.Schema != "" {
		system += "\n\nRespond with a single JSON object conforming to this JSON Schema. No prose, no markdown.\n" + req.Schema
	}

	body := chatRequest{
		Model: b.model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: req.Prompt},
		},
	}
	body.ResponseFormat.Type = "json_object"

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, Classify(fmt.Errorf("marshal request: %w", err))
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, b.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, Classify(fmt.Errorf("build request: %w", err))
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if b.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+b.apiKey)
	}

	resp, err := b.client.Do(httpReq)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, &BackendError{Kind: FailureTimeout, Err: ctx.Err()}
		}
		return nil, Classify(fmt.Errorf("%s %s: %w", http.MethodPost, b.endpoint, err))
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, Classify(fmt.Errorf("read response: %w", err))
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &BackendError{
			Kind: FailureUnavailable,
			Err:  fmt.Errorf("backend returned status %d: %s", resp.StatusCode, truncate(raw, 200)),
		}
	}

	var parsed chatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, &BackendError{Kind: FailureMalformed, Err: fmt.Errorf("decode envelope: %w", err)}
	}
	if parsed.Error != nil {
		return nil, &BackendError{Kind: FailureUnavailable, Err: fmt.Errorf("backend error: %s", parsed.Error.Message)}
	}
	if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == "" {
		return nil, &BackendError{Kind: FailureMalformed, Err: fmt.Errorf("no content in response")}
	}

	return []byte(parsed.Choices[0].Message.Content), nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
