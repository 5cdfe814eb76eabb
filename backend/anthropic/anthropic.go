// Package anthropic implements backend.Backend on the Anthropic Messages API
// via the official client.
package anthropic

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/hupe1980/meetinglens/backend"
)

// Options configure the Anthropic backend adapter.
type Options struct {
	Model  string
	APIKey string
}

// Backend wraps the Anthropic Messages API behind backend.Backend.
type Backend struct {
	client  *anthropic.Client
	opts    Options
	hasAuth bool
}

// New creates a new Anthropic backend using the official client. The API key
// is taken from Options or ANTHROPIC_API_KEY; a missing key surfaces as an
// auth_missing call error on first use.
func New(optFns ...func(o *Options)) *Backend {
	opts := Options{Model: string(anthropic.ModelClaude3_5Sonnet20241022)}
	for _, fn := range optFns {
		fn(&opts)
	}

	var clientOpts []option.RequestOption
	key := opts.APIKey
	if key == "" {
		key = os.Getenv("ANTHROPIC_API_KEY")
	}
	if key != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(key))
	}

	client := anthropic.NewClient(clientOpts...)
	return &Backend{client: &client, opts: opts, hasAuth: key != ""}
}

// Complete implements backend.Backend. The Messages API has no JSON response
// format switch, so the JSON hint is emulated by appending an instruction to
// the system blocks.
func (b *Backend) Complete(ctx context.Context, req backend.Request) (*backend.Response, error) {
	if !b.hasAuth {
		return nil, &backend.CallError{
			Kind: backend.ErrAuthMissing,
			Err:  fmt.Errorf("ANTHROPIC_API_KEY not set"),
		}
	}

	maxTokens := req.MaxOutputTokens
	if maxTokens <= 0 {
		maxTokens = 4096
	}
	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(b.opts.Model),
		MaxTokens:   maxTokens,
		Temperature: anthropic.Float(req.Temperature),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.User)),
		},
	}
	system := req.System
	if req.JSONResponse {
		system += "\n\nRespond with a single JSON object and nothing else."
	}
	if system != "" {
		params.System = []anthropic.TextBlockParam{{Text: system}}
	}

	resp, err := b.client.Messages.New(ctx, params)
	if err != nil {
		return nil, mapError(err)
	}

	var text strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			text.WriteString(block.AsText().Text)
		}
	}
	if text.Len() == 0 {
		return nil, &backend.CallError{Kind: backend.ErrEmptyContent, Err: fmt.Errorf("no text blocks returned")}
	}
	return &backend.Response{Content: text.String()}, nil
}

// Info returns metadata describing this Anthropic backend implementation.
func (b *Backend) Info() backend.Info {
	return backend.Info{Name: b.opts.Model, Provider: "anthropic"}
}

func mapError(err error) error {
	var apierr *anthropic.Error
	if errors.As(err, &apierr) {
		return &backend.CallError{
			Kind:   backend.ClassifyStatus(apierr.StatusCode),
			Status: apierr.StatusCode,
			Err:    err,
		}
	}
	return err
}
