// Package meetinglens provides a high-level façade over the meeting
// intelligence components: a retrying model backend caller, the execution
// composer, the meeting classifier and the batch runner. Most applications
// interact with this package by:
//  1. Creating a MeetingLens via New() from a Config (or option overrides)
//  2. Running ComposeBatch / ClassifyBatch / Stability over input suites
//  3. Reading the emitted artifacts from the configured store
//
// The façade delegates the work to the component packages while keeping
// setup concise. All defaults are safe for local development; production
// runs typically supply a real backend, an output directory and a
// structured logger.
package meetinglens

import (
	"context"
	"fmt"

	"github.com/hupe1980/meetinglens/artifact"
	"github.com/hupe1980/meetinglens/backend"
	"github.com/hupe1980/meetinglens/backend/anthropic"
	"github.com/hupe1980/meetinglens/backend/ollama"
	"github.com/hupe1980/meetinglens/backend/openai"
	"github.com/hupe1980/meetinglens/classifier"
	"github.com/hupe1980/meetinglens/composer"
	"github.com/hupe1980/meetinglens/config"
	"github.com/hupe1980/meetinglens/logging"
	"github.com/hupe1980/meetinglens/runner"
	"github.com/hupe1980/meetinglens/suite"
)

// Options configure a MeetingLens instance.
type Options struct {
	// Backend overrides the one built from Config; handy for tests.
	Backend backend.Backend
	// Store persists artifacts; defaults to an in-memory store.
	Store artifact.Store
	// Logger (defaults to NoOp logger if nil).
	Logger logging.Logger
}

// MeetingLens aggregates the configured components.
type MeetingLens struct {
	cfg        *config.Config
	caller     *backend.Caller
	composer   *composer.Composer
	classifier *classifier.Classifier
	runner     *runner.Runner
	writer     *artifact.Writer
}

// New wires up a MeetingLens from the configuration with optional overrides.
func New(cfg *config.Config, optFns ...func(o *Options)) (*MeetingLens, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	opts := Options{
		Logger: logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	b := opts.Backend
	if b == nil {
		var err error
		if b, err = buildBackend(cfg); err != nil {
			return nil, err
		}
	}

	store := opts.Store
	if store == nil {
		store = artifact.NewInMemoryStore()
	}
	writer := artifact.NewWriter(store, func(o *artifact.WriterOptions) {
		o.Logger = opts.Logger
	})

	caller := backend.NewCaller(b, func(o *backend.CallOptions) {
		o.Temperature = cfg.Temperature
		o.MaxOutputTokens = cfg.MaxOutputTokens
		o.Timeout = cfg.Timeout()
		o.MaxRetries = cfg.MaxRetries
		o.BaseRetryDelay = cfg.BaseRetryDelay()
		o.RateLimitMinInterval = cfg.RateLimitMinInterval()
	})
	caller.SetLogger(opts.Logger)

	comp := composer.New(caller, func(o *composer.Options) {
		o.Source = cfg.Backend
		o.Logger = opts.Logger
	})
	cls := classifier.New(caller, func(o *classifier.Options) {
		o.Logger = opts.Logger
	})
	run := runner.New(comp, cls, func(o *runner.Options) {
		o.Source = cfg.Backend
		o.ModelName = caller.Info().Name
		o.Trials = cfg.Trials
		o.TrialInterval = cfg.TrialInterval()
		o.Writer = writer
		o.Logger = opts.Logger
	})

	return &MeetingLens{
		cfg:        cfg,
		caller:     caller,
		composer:   comp,
		classifier: cls,
		runner:     run,
		writer:     writer,
	}, nil
}

func buildBackend(cfg *config.Config) (backend.Backend, error) {
	switch cfg.Backend {
	case config.BackendOpenAI:
		return openai.New(func(o *openai.Options) {
			o.Model = cfg.Model
			o.APIKey = cfg.OpenAI.APIKey()
			o.BaseURL = cfg.OpenAI.BaseURL
		}), nil
	case config.BackendAnthropic:
		return anthropic.New(func(o *anthropic.Options) {
			o.Model = cfg.Model
			o.APIKey = cfg.Anthropic.APIKey()
		}), nil
	case config.BackendOllama:
		return ollama.New(func(o *ollama.Options) {
			o.Model = cfg.Model
			o.Host = cfg.Ollama.Host
		}), nil
	default:
		return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}
}

// Caller exposes the underlying retrying caller.
func (m *MeetingLens) Caller() *backend.Caller { return m.caller }

// Writer exposes the artifact writer so callers can read back the run id.
func (m *MeetingLens) Writer() *artifact.Writer { return m.writer }

// Compose plans a single hero prompt.
func (m *MeetingLens) Compose(ctx context.Context, promptText, promptID string) *composer.ExecutionComposition {
	return m.composer.Compose(ctx, promptText, promptID)
}

// Classify assigns a meeting type to a single event.
func (m *MeetingLens) Classify(ctx context.Context, e classifier.Event) *classifier.Classification {
	return m.classifier.Classify(ctx, e)
}

// ComposeBatch plans the whole prompt suite and writes the batch artifact.
func (m *MeetingLens) ComposeBatch(ctx context.Context, prompts []suite.HeroPrompt) *runner.CompositionBatch {
	return m.runner.ComposeBatch(ctx, prompts)
}

// ClassifyBatch classifies the whole event suite and writes the batch
// artifact.
func (m *MeetingLens) ClassifyBatch(ctx context.Context, events []suite.MeetingEvent) *runner.ClassificationBatch {
	return m.runner.ClassifyBatch(ctx, events)
}

// Stability runs the repeated-trial composition analysis.
func (m *MeetingLens) Stability(ctx context.Context, prompts []suite.HeroPrompt) *runner.StabilityReport {
	return m.runner.Stability(ctx, prompts)
}
