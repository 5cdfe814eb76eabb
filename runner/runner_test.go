package runner

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/meetinglens/artifact"
	"github.com/hupe1980/meetinglens/backend"
	"github.com/hupe1980/meetinglens/classifier"
	"github.com/hupe1980/meetinglens/composer"
	"github.com/hupe1980/meetinglens/registry"
	"github.com/hupe1980/meetinglens/suite"
)

var fixedTime = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

const planReply = `{"execution_plan": [
  {"step": 1, "task_id": "CAN-04"},
  {"step": 2, "task_id": "CAN-01"},
  {"step": 3, "task_id": "CAN-06"}
]}`

type fixture struct {
	mock   *backend.Mock
	store  *artifact.InMemoryStore
	runner *Runner
	delays []time.Duration
}

func newFixture(t *testing.T, optFns ...func(o *Options)) *fixture {
	t.Helper()
	f := &fixture{
		mock:  backend.NewMock("test-model"),
		store: artifact.NewInMemoryStore(),
	}
	caller := backend.NewCaller(f.mock, func(o *backend.CallOptions) {
		o.MaxRetries = 0
	})
	comp := composer.New(caller, func(o *composer.Options) {
		o.Source = "mock"
		o.Clock = func() time.Time { return fixedTime }
	})
	cls := classifier.New(caller)
	writer := artifact.NewWriter(f.store, func(o *artifact.WriterOptions) {
		o.RunID = "run-1"
		o.Clock = func() time.Time { return fixedTime }
	})

	fns := append([]func(o *Options){func(o *Options) {
		o.Source = "mock"
		o.ModelName = "test-model"
		o.Writer = writer
		o.Clock = func() time.Time { return fixedTime }
	}}, optFns...)
	f.runner = New(comp, cls, fns...)
	f.runner.sleep = func(ctx context.Context, d time.Duration) error {
		f.delays = append(f.delays, d)
		return ctx.Err()
	}
	return f
}

func testPrompts() []suite.HeroPrompt {
	return []suite.HeroPrompt{
		{ID: "p1", PromptText: "summarize my week"},
		{ID: "p2", PromptText: "find a slot for the call"},
	}
}

func TestComposeBatch(t *testing.T) {
	f := newFixture(t)
	f.mock.QueueReply(planReply)
	f.mock.QueueError(&backend.CallError{Kind: backend.ErrServer5xx, Status: 503})

	batch := f.runner.ComposeBatch(context.Background(), testPrompts())

	require.Len(t, batch.Compositions, 2)
	assert.Equal(t, "p1", batch.Compositions[0].PromptID)
	assert.False(t, batch.Compositions[0].Failed())
	assert.Equal(t, "p2", batch.Compositions[1].PromptID)
	assert.True(t, batch.Compositions[1].Failed())

	md := batch.Metadata
	assert.Equal(t, "mock", md.Source)
	assert.Equal(t, "test-model", md.ModelName)
	assert.Equal(t, 2, md.TotalPrompts)
	assert.Equal(t, 1, md.Successful)
	assert.Equal(t, 1, md.Failed)
	assert.Equal(t, registry.Version, md.CanonicalTasksVersion)
	assert.Equal(t, 24, md.TotalCanonicalTasks)
	assert.Equal(t, "2026-03-14T09:30:00Z", md.Timestamp)
}

func TestComposeBatch_WritesArtifacts(t *testing.T) {
	f := newFixture(t)
	f.mock.QueueReply(planReply)
	f.mock.QueueReply(planReply)

	f.runner.ComposeBatch(context.Background(), testPrompts())

	names, err := f.store.List("run-1")
	require.NoError(t, err)
	// One per prompt plus the batch record.
	require.Len(t, names, 3)
	var perItem, batchFiles int
	for _, n := range names {
		switch {
		case strings.HasPrefix(n, "composition_batch_"):
			batchFiles++
		case strings.HasPrefix(n, "composition_"):
			perItem++
		}
	}
	assert.Equal(t, 2, perItem)
	assert.Equal(t, 1, batchFiles)
}

func TestClassifyBatch(t *testing.T) {
	f := newFixture(t)
	f.mock.QueueReply(`{"specific_type": "One-on-One Meeting", "confidence": 0.9}`)
	f.mock.QueueReply(`{"specific_type": "All-Hands/Town Hall", "confidence": 0.95}`)

	events := []suite.MeetingEvent{
		{ID: "e1", Subject: "1:1 with Sarah", Attendees: []string{"me", "sarah"}, DurationMinutes: 30},
		{ID: "e2", Subject: "All-Hands Q4", DurationMinutes: 60},
	}
	batch := f.runner.ClassifyBatch(context.Background(), events)

	require.Len(t, batch.Classifications, 2)
	assert.Equal(t, "e1", batch.Classifications[0].ID)
	assert.Equal(t, "One-on-One Meeting", batch.Classifications[0].Classification.SpecificType)
	assert.Equal(t, "All-Hands/Town Hall", batch.Classifications[1].Classification.SpecificType)
	assert.Equal(t, 2, batch.Metadata.Successful)
	assert.Equal(t, 0, batch.Metadata.Failed)
}

func TestClassifyBatch_KeywordFallbackStillSucceeds(t *testing.T) {
	f := newFixture(t)
	f.mock.QueueError(&backend.CallError{Kind: backend.ErrAuthMissing, Status: 401})

	batch := f.runner.ClassifyBatch(context.Background(), []suite.MeetingEvent{
		{ID: "e1", Subject: "Daily Standup"},
	})

	require.Len(t, batch.Classifications, 1)
	cl := batch.Classifications[0].Classification
	assert.Equal(t, "Team Status Update/Standup", cl.SpecificType)
	assert.Equal(t, classifier.MethodKeywords, cl.Method)
	// A fallback classification is still a classification.
	assert.Equal(t, 1, batch.Metadata.Successful)
}

func TestStability_IdenticalTrials(t *testing.T) {
	f := newFixture(t, func(o *Options) {
		o.Trials = 3
		o.TrialInterval = 5 * time.Second
	})
	for i := 0; i < 6; i++ {
		f.mock.QueueReply(planReply)
	}

	report := f.runner.Stability(context.Background(), testPrompts())

	assert.Equal(t, 3, report.Trials)
	assert.Equal(t, []time.Duration{5 * time.Second, 5 * time.Second}, f.delays)

	ps := report.PerPrompt["p1"]
	require.NotNil(t, ps)
	assert.Equal(t, 3, ps.SuccessfulTrials)
	assert.Equal(t, 0, ps.FailedTrials)
	assert.Equal(t, []string{"CAN-01", "CAN-04", "CAN-06"}, ps.AlwaysSelected)
	assert.Empty(t, ps.SometimesSelected)
	assert.Equal(t, 100.0, ps.ConsistencyPercentage)
	assert.Equal(t, 3.0, ps.AverageTaskCount)
	assert.Equal(t, 0.0, ps.StdDev)

	assert.Equal(t, 100.0, report.Aggregate.AverageConsistency)
	assert.Equal(t, RatingHigh, report.Aggregate.Rating)
}

func TestStability_DivergentTrials(t *testing.T) {
	f := newFixture(t, func(o *Options) {
		o.Trials = 2
	})
	prompts := []suite.HeroPrompt{{ID: "p1", PromptText: "plan"}}
	f.mock.QueueReply(`{"execution_plan": [{"step": 1, "task_id": "CAN-04"}, {"step": 2, "task_id": "CAN-01"}]}`)
	f.mock.QueueReply(`{"execution_plan": [{"step": 1, "task_id": "CAN-04"}, {"step": 2, "task_id": "CAN-06"}]}`)

	report := f.runner.Stability(context.Background(), prompts)

	ps := report.PerPrompt["p1"]
	require.NotNil(t, ps)
	assert.Equal(t, []string{"CAN-04"}, ps.AlwaysSelected)
	assert.ElementsMatch(t, []string{"CAN-01", "CAN-06"}, ps.SometimesSelected)
	// |intersection|=1, |union|=3.
	assert.InDelta(t, 100.0/3.0, ps.ConsistencyPercentage, 1e-9)
	assert.Equal(t, 2.0, ps.AverageTaskCount)
	assert.Equal(t, 0.0, ps.StdDev)
	assert.Equal(t, RatingLow, report.Aggregate.Rating)
}

func TestStability_FailedTrialsCounted(t *testing.T) {
	f := newFixture(t, func(o *Options) {
		o.Trials = 2
	})
	prompts := []suite.HeroPrompt{{ID: "p1", PromptText: "plan"}}
	f.mock.QueueReply(planReply)
	f.mock.QueueError(&backend.CallError{Kind: backend.ErrServer5xx, Status: 500})

	report := f.runner.Stability(context.Background(), prompts)

	ps := report.PerPrompt["p1"]
	require.NotNil(t, ps)
	assert.Equal(t, 1, ps.SuccessfulTrials)
	assert.Equal(t, 1, ps.FailedTrials)
	// A single successful trial is trivially consistent.
	assert.Equal(t, 100.0, ps.ConsistencyPercentage)
}

func TestStability_InterruptedBetweenTrials(t *testing.T) {
	f := newFixture(t, func(o *Options) {
		o.Trials = 3
	})
	f.mock.QueueReply(planReply)

	ctx, cancel := context.WithCancel(context.Background())
	prompts := []suite.HeroPrompt{{ID: "p1", PromptText: "plan"}}

	// Cancel after the first trial; the inter-trial sleep observes it.
	f.runner.sleep = func(ctx context.Context, d time.Duration) error {
		cancel()
		return ctx.Err()
	}

	report := f.runner.Stability(ctx, prompts)

	assert.Equal(t, 1, report.Trials)
	assert.Equal(t, 1, report.PerPrompt["p1"].SuccessfulTrials)
}

func TestRunner_DefaultOptions(t *testing.T) {
	r := New(nil, nil)
	assert.Equal(t, 3, r.opts.Trials)
	assert.Equal(t, 5*time.Second, r.opts.TrialInterval)
}

func TestRunner_NilWriterSkipsArtifacts(t *testing.T) {
	mock := backend.NewMock("test-model")
	mock.QueueReply(planReply)
	caller := backend.NewCaller(mock, func(o *backend.CallOptions) { o.MaxRetries = 0 })
	comp := composer.New(caller)
	r := New(comp, nil, func(o *Options) { o.Source = "mock" })
	r.sleep = func(ctx context.Context, d time.Duration) error { return nil }

	batch := r.ComposeBatch(context.Background(), []suite.HeroPrompt{{ID: "p1", PromptText: "plan"}})
	require.Len(t, batch.Compositions, 1)
	assert.False(t, batch.Compositions[0].Failed())
}
