// Package ollama implements backend.Backend against an Ollama-compatible
// /api/chat HTTP endpoint. There is no official Go client; the wire format is
// a small JSON request/response pair, so this adapter speaks it directly.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/hupe1980/meetinglens/backend"
)

const defaultHost = "http://localhost:11434"

// Options configure the Ollama backend adapter.
type Options struct {
	// Host is the server base URL; OLLAMA_HOST overrides the default.
	Host  string
	Model string
	// HTTPClient may be replaced for tests. Per-attempt timeouts come from
	// the caller's context, not the client.
	HTTPClient *http.Client
}

// Backend talks to an Ollama-compatible chat endpoint.
type Backend struct {
	opts Options
}

// New creates a new Ollama backend. No credentials are required; a server
// that is not running surfaces as a transport error on first use.
func New(optFns ...func(o *Options)) *Backend {
	opts := Options{
		Host:       defaultHost,
		Model:      "llama3.1",
		HTTPClient: &http.Client{},
	}
	if host := os.Getenv("OLLAMA_HOST"); host != "" {
		opts.Host = host
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	opts.Host = strings.TrimRight(opts.Host, "/")
	return &Backend{opts: opts}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
	Format   string        `json:"format,omitempty"`
	Options  chatOptions   `json:"options"`
}

type chatOptions struct {
	Temperature float64 `json:"temperature"`
	NumPredict  int64   `json:"num_predict,omitempty"`
}

type chatResponse struct {
	Message chatMessage `json:"message"`
	Done    bool        `json:"done"`
}

// Complete implements backend.Backend with a single non-streaming attempt.
func (b *Backend) Complete(ctx context.Context, req backend.Request) (*backend.Response, error) {
	body := chatRequest{
		Model: b.opts.Model,
		Messages: []chatMessage{
			{Role: "system", Content: req.System},
			{Role: "user", Content: req.User},
		},
		Stream: false,
		Options: chatOptions{
			Temperature: req.Temperature,
			NumPredict:  req.MaxOutputTokens,
		},
	}
	if req.JSONResponse {
		body.Format = "json"
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, b.opts.Host+"/api/chat", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := b.opts.HTTPClient.Do(httpReq)
	if err != nil {
		return nil, err // classified by backend.AsCallError
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &backend.CallError{
			Kind:   backend.ClassifyStatus(resp.StatusCode),
			Status: resp.StatusCode,
			Err:    fmt.Errorf("ollama: status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw))),
		}
	}

	var parsed chatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &backend.Response{Content: parsed.Message.Content}, nil
}

// Info returns metadata describing this Ollama backend implementation.
func (b *Backend) Info() backend.Info {
	return backend.Info{Name: b.opts.Model, Provider: "ollama"}
}
