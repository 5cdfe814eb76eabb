// Package openai implements backend.Backend on the OpenAI Chat Completions
// API via the official client. A base URL override makes it usable against
// any OpenAI-compatible server.
package openai

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/hupe1980/meetinglens/backend"
)

// Options configure the OpenAI backend adapter.
type Options struct {
	Model   string
	APIKey  string
	BaseURL string
}

// Backend wraps the OpenAI Chat Completions API behind backend.Backend.
type Backend struct {
	client  *openai.Client
	opts    Options
	hasAuth bool
}

// New creates a new OpenAI backend using the official client. The API key is
// taken from Options or OPENAI_API_KEY; a missing key surfaces as an
// auth_missing call error on first use, not at construction.
func New(optFns ...func(o *Options)) *Backend {
	opts := Options{Model: openai.ChatModelGPT4oMini}
	for _, fn := range optFns {
		fn(&opts)
	}

	var clientOpts []option.RequestOption
	key := opts.APIKey
	if key == "" {
		key = os.Getenv("OPENAI_API_KEY")
	}
	if key != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(key))
	}
	if opts.BaseURL != "" {
		clientOpts = append(clientOpts, option.WithBaseURL(opts.BaseURL))
	}

	client := openai.NewClient(clientOpts...)
	return &Backend{client: &client, opts: opts, hasAuth: key != ""}
}

// Complete implements backend.Backend with a single non-streaming attempt.
func (b *Backend) Complete(ctx context.Context, req backend.Request) (*backend.Response, error) {
	if !b.hasAuth {
		return nil, &backend.CallError{
			Kind: backend.ErrAuthMissing,
			Err:  fmt.Errorf("OPENAI_API_KEY not set"),
		}
	}

	params := openai.ChatCompletionNewParams{
		Model: b.opts.Model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(req.System),
			openai.UserMessage(req.User),
		},
		Temperature: openai.Float(req.Temperature),
	}
	if req.MaxOutputTokens > 0 {
		params.MaxCompletionTokens = openai.Int(req.MaxOutputTokens)
	}
	if req.JSONResponse {
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &openai.ResponseFormatJSONObjectParam{},
		}
	}

	resp, err := b.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, mapError(err)
	}
	if len(resp.Choices) == 0 {
		return nil, &backend.CallError{Kind: backend.ErrEmptyContent, Err: fmt.Errorf("no choices returned")}
	}
	return &backend.Response{Content: resp.Choices[0].Message.Content}, nil
}

// Info returns metadata describing this OpenAI backend implementation.
func (b *Backend) Info() backend.Info {
	return backend.Info{Name: b.opts.Model, Provider: "openai"}
}

func mapError(err error) error {
	var apierr *openai.Error
	if errors.As(err, &apierr) {
		return &backend.CallError{
			Kind:   backend.ClassifyStatus(apierr.StatusCode),
			Status: apierr.StatusCode,
			Err:    err,
		}
	}
	return err
}
