// Package provider sends chat-completion requests to the configured
// backends. All backends speak the same wire contract:
// POST {base_url}/v1/chat/completions with a bearer credential.
package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"mozart/internal/config"
)

// Message is one chat message in a request.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// TransportError is an HTTP, network, or timeout failure on a backend
// call. Status is zero when the request never got a response.
type TransportError struct {
	Backend string
	Status  int
	Err     error
}

func (e *TransportError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("backend %s: unexpected status %d: %v", e.Backend, e.Status, e.Err)
	}
	return fmt.Sprintf("backend %s: %v", e.Backend, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Gateway dispatches chat-completion calls to named backends.
type Gateway struct {
	cfg    *config.Config
	client *http.Client
}

// NewGateway creates a gateway enforcing the configured per-call timeout.
func NewGateway(cfg *config.Config) *Gateway {
	return &Gateway{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

// Call sends the messages to the named backend and returns the raw reply
// text. Unknown provider names route to the default backend. When
// forceJSON is set the request carries a json_object response format; for
// a flexible-format backend a failed forced call is retried exactly once
// with the constraint dropped, and that second outcome propagates as-is.
func (g *Gateway) Call(ctx context.Context, providerName string, messages []Message, forceJSON bool, modelOverride string) (string, error) {
	backend := g.cfg.Resolve(providerName)

	model := modelOverride
	if model == "" {
		model = backend.DefaultModel
	}

	text, err := g.post(ctx, backend, model, messages, forceJSON)
	if err != nil && forceJSON && backend.FlexibleFormat {
		// Some models reject a forced JSON response format outright.
		// Degrade to an unconstrained call and lean on the tolerant
		// parser downstream.
		return g.post(ctx, backend, model, messages, false)
	}
	return text, err
}

// chatRequest is the OpenAI-compatible chat completions request body.
type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []Message       `json:"messages"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (g *Gateway) post(ctx context.Context, backend config.Backend, model string, messages []Message, forceJSON bool) (string, error) {
	reqBody := chatRequest{Model: model, Messages: messages}
	if forceJSON {
		reqBody.ResponseFormat = &responseFormat{Type: "json_object"}
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	endpoint := backend.BaseURL + "/v1/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+backend.APIKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return "", &TransportError{Backend: backend.Name, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &TransportError{Backend: backend.Name, Err: fmt.Errorf("read response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &TransportError{
			Backend: backend.Name,
			Status:  resp.StatusCode,
			Err:     fmt.Errorf("%s", truncateBody(respBody)),
		}
	}

	var parsed chatResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", &TransportError{Backend: backend.Name, Err: fmt.Errorf("decode response: %w", err)}
	}
	if len(parsed.Choices) == 0 {
		return "", &TransportError{Backend: backend.Name, Err: fmt.Errorf("response contains no choices")}
	}

	return parsed.Choices[0].Message.Content, nil
}

func truncateBody(b []byte) string {
	const max = 300
	if len(b) <= max {
		return string(b)
	}
	return string(b[:max]) + "..."
}
