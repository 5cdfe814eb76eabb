package runner

import (
	"context"
	"time"

	"github.com/hupe1980/meetinglens/artifact"
	"github.com/hupe1980/meetinglens/classifier"
	"github.com/hupe1980/meetinglens/composer"
	"github.com/hupe1980/meetinglens/logging"
)

// Options configure a Runner.
type Options struct {
	// Source is the backend tag stamped into batch metadata.
	Source string
	// ModelName is the backend model identifier for batch metadata.
	ModelName string
	// Trials is the stability trial count.
	Trials int
	// TrialInterval is the pause between stability trials. The default of
	// five seconds keeps repeated full-suite runs under vendor rate
	// limits; set it to zero when the backend has no limits.
	TrialInterval time.Duration
	// Writer persists per-item and batch artifacts; nil disables
	// persistence.
	Writer *artifact.Writer
	// Logger receives runner telemetry; nil silences it.
	Logger logging.Logger
	// Clock is swapped out in tests for deterministic timestamps.
	Clock func() time.Time
}

// Runner drives the composer and/or classifier over input suites. Either
// component may be nil when only the other is exercised.
type Runner struct {
	composer   *composer.Composer
	classifier *classifier.Classifier
	opts       Options
	logger     *logging.CallLogger

	// sleep is swapped out in tests to avoid real waits.
	sleep func(ctx context.Context, d time.Duration) error
}

// New creates a Runner.
func New(comp *composer.Composer, cls *classifier.Classifier, optFns ...func(o *Options)) *Runner {
	opts := Options{
		Trials:        3,
		TrialInterval: 5 * time.Second,
		Clock:         time.Now,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Trials <= 0 {
		opts.Trials = 3
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	return &Runner{
		composer:   comp,
		classifier: cls,
		opts:       opts,
		logger:     logging.NewCallLogger(opts.Logger).WithComponent("runner"),
		sleep:      sleepCtx,
	}
}

func (r *Runner) timestamp() string {
	return r.opts.Clock().UTC().Format(time.RFC3339)
}

func (r *Runner) write(kind, tag string, v any) {
	if r.opts.Writer == nil {
		return
	}
	if _, err := r.opts.Writer.Write(kind, tag, v); err != nil {
		r.logger.Error("artifact write failed", "kind", kind, "tag", tag, "error", err.Error())
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
