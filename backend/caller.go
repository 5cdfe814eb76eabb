package backend

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/hupe1980/meetinglens/logging"
)

// CallOptions bundle the per-call knobs of a Caller. Zero values disable the
// corresponding mechanism (no pacing, no timeout, no retries).
type CallOptions struct {
	// Temperature passed through to the backend.
	Temperature float64
	// MaxOutputTokens passed through to the backend.
	MaxOutputTokens int64
	// Timeout bounds a single attempt, not the whole call.
	Timeout time.Duration
	// JSONResponse hints the backend to reply with a JSON object.
	JSONResponse bool
	// RateLimitMinInterval enforces a minimum spacing between consecutive
	// calls from the same Caller instance. Configurable rather than
	// inferred per vendor; defaults to zero.
	RateLimitMinInterval time.Duration
	// MaxRetries is the number of retries after the first attempt. Only
	// transient failures (rate limit, timeout, transport, 5xx) retry.
	MaxRetries int
	// BaseRetryDelay is the backoff base; retry i waits base * 2^i.
	BaseRetryDelay time.Duration
}

// DefaultCallOptions returns the baseline used by the composer and
// classifier: low temperature, JSON replies, generous per-attempt timeout.
func DefaultCallOptions() CallOptions {
	return CallOptions{
		Temperature:     0.2,
		MaxOutputTokens: 4096,
		Timeout:         120 * time.Second,
		JSONResponse:    true,
		MaxRetries:      3,
		BaseRetryDelay:  2 * time.Second,
	}
}

// Result is the uniform outcome record of Caller.Call. It is always well
// formed: a failed call carries a classified error instead of raising.
type Result struct {
	Success        bool      `json:"success"`
	Content        string    `json:"content,omitempty"`
	Error          string    `json:"error,omitempty"`
	ErrorKind      ErrorKind `json:"error_kind,omitempty"`
	LatencySeconds float64   `json:"latency_seconds"`
	BackendModel   string    `json:"backend_model"`
	Attempts       int       `json:"attempts"`
}

// Caller wraps a Backend with retry, exponential backoff, rate pacing and
// error classification. Its only mutable state is the timestamp of the last
// issued request, guarded so a Caller may be shared across goroutines.
type Caller struct {
	backend Backend
	opts    CallOptions
	logger  *logging.CallLogger

	mu       sync.Mutex
	lastCall time.Time

	// sleep is swapped out in tests to avoid real waits.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewCaller wraps b with DefaultCallOptions, overridable via option funcs.
func NewCaller(b Backend, optFns ...func(o *CallOptions)) *Caller {
	opts := DefaultCallOptions()
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Caller{
		backend: b,
		opts:    opts,
		logger:  logging.NewCallLogger(nil).WithComponent("backend"),
		sleep:   sleepCtx,
	}
}

// SetLogger replaces the telemetry logger. A nil logger silences the caller.
func (c *Caller) SetLogger(logger logging.Logger) {
	c.logger = logging.NewCallLogger(logger).WithComponent("backend")
}

// Options returns the configured defaults.
func (c *Caller) Options() CallOptions { return c.opts }

// Info exposes the wrapped backend's metadata.
func (c *Caller) Info() Info { return c.backend.Info() }

// Call issues a single-shot chat completion with the configured options,
// optionally overridden per call. It never returns an error: failures are
// classified into the Result.
func (c *Caller) Call(ctx context.Context, system, user string, optFns ...func(o *CallOptions)) Result {
	opts := c.opts
	for _, fn := range optFns {
		fn(&opts)
	}

	start := time.Now()
	info := c.backend.Info()
	req := Request{
		System:          system,
		User:            user,
		Temperature:     opts.Temperature,
		MaxOutputTokens: opts.MaxOutputTokens,
		JSONResponse:    opts.JSONResponse,
	}

	var lastErr *CallError
	attempts := 0
	for attempt := 0; attempt <= opts.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := opts.BaseRetryDelay << (attempt - 1)
			if err := c.sleep(ctx, delay); err != nil {
				lastErr = AsCallError(err)
				break
			}
		}
		if err := c.pace(ctx, opts.RateLimitMinInterval); err != nil {
			lastErr = AsCallError(err)
			break
		}

		attempts++
		resp, err := c.attempt(ctx, req, opts.Timeout)
		if err == nil {
			content := strings.TrimSpace(resp.Content)
			if content == "" {
				lastErr = &CallError{Kind: ErrEmptyContent}
				break
			}
			latency := time.Since(start)
			c.logger.LogModelCall(info.Name, attempts, latency, true, "")
			return Result{
				Success:        true,
				Content:        content,
				LatencySeconds: latency.Seconds(),
				BackendModel:   info.Name,
				Attempts:       attempts,
			}
		}

		lastErr = AsCallError(err)
		if !Retryable(lastErr.Kind) {
			break
		}
		c.logger.Warn("retrying model call",
			"model", info.Name, "attempt", attempts, "error_kind", string(lastErr.Kind))
	}

	latency := time.Since(start)
	res := Result{
		LatencySeconds: latency.Seconds(),
		BackendModel:   info.Name,
		Attempts:       attempts,
	}
	if lastErr != nil {
		res.Error = lastErr.Error()
		res.ErrorKind = lastErr.Kind
	}
	c.logger.LogModelCall(info.Name, attempts, latency, false, res.Error)
	return res
}

func (c *Caller) attempt(ctx context.Context, req Request, timeout time.Duration) (*Response, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return c.backend.Complete(ctx, req)
}

// pace blocks until at least minInterval has elapsed since the previous call
// issued through this Caller. The lock is held across the wait so concurrent
// callers queue up instead of bursting.
func (c *Caller) pace(ctx context.Context, minInterval time.Duration) error {
	if minInterval <= 0 {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.lastCall.IsZero() {
		if wait := minInterval - time.Since(c.lastCall); wait > 0 {
			if err := c.sleep(ctx, wait); err != nil {
				return err
			}
		}
	}
	c.lastCall = time.Now()
	return nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
