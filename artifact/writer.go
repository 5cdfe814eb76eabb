package artifact

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hupe1980/meetinglens/logging"
)

// WriterOptions configure a Writer.
type WriterOptions struct {
	// RunID groups this writer's artifacts; defaults to a fresh UUID.
	RunID string
	// Logger receives write telemetry; nil silences it.
	Logger logging.Logger
	// Clock is swapped out in tests for deterministic names.
	Clock func() time.Time
}

// Writer serializes domain records onto a Store with the default
// <kind>_<tag>_<timestamp>.json naming scheme. Safe for concurrent use as
// long as the underlying store is.
type Writer struct {
	store  Store
	runID  string
	clock  func() time.Time
	logger *logging.CallLogger
}

// NewWriter wraps a store. Every writer gets its own run id unless one is
// supplied.
func NewWriter(store Store, optFns ...func(o *WriterOptions)) *Writer {
	opts := WriterOptions{Clock: time.Now}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.RunID == "" {
		opts.RunID = uuid.NewString()
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	return &Writer{
		store:  store,
		runID:  opts.RunID,
		clock:  opts.Clock,
		logger: logging.NewCallLogger(opts.Logger).WithComponent("artifact"),
	}
}

// RunID returns the id grouping this writer's artifacts.
func (w *Writer) RunID() string { return w.runID }

// Write marshals v as indented JSON and saves it under a timestamped name.
// The tag (usually a prompt id) is sanitized; an empty tag is omitted from
// the name. Returns the artifact name.
func (w *Writer) Write(kind, tag string, v any) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal %s artifact: %w", kind, err)
	}
	name := w.name(kind, tag)
	if err := w.store.Save(w.runID, name, data); err != nil {
		return "", fmt.Errorf("save %s artifact: %w", kind, err)
	}
	w.logger.Debug("artifact written", "name", name, "bytes", len(data))
	return name, nil
}

// WriteNamed saves v under an explicit artifact name, for caller-supplied
// --output paths.
func (w *Writer) WriteNamed(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal artifact: %w", err)
	}
	if err := w.store.Save(w.runID, name, data); err != nil {
		return fmt.Errorf("save artifact: %w", err)
	}
	w.logger.Debug("artifact written", "name", name, "bytes", len(data))
	return nil
}

func (w *Writer) name(kind, tag string) string {
	now := w.clock().UTC()
	ts := fmt.Sprintf("%s%03d", now.Format("20060102_150405"), now.Nanosecond()/1e6)
	if tag = sanitizeTag(tag); tag != "" {
		return fmt.Sprintf("%s_%s_%s.json", kind, tag, ts)
	}
	return fmt.Sprintf("%s_%s.json", kind, ts)
}

func sanitizeTag(tag string) string {
	tag = strings.TrimSpace(tag)
	replacer := strings.NewReplacer(" ", "-", "/", "-", "\\", "-", ":", "-")
	return replacer.Replace(tag)
}
