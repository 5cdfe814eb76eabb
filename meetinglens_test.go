package meetinglens

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/meetinglens/backend"
	"github.com/hupe1980/meetinglens/classifier"
	"github.com/hupe1980/meetinglens/config"
	"github.com/hupe1980/meetinglens/suite"
)

const planReply = `{"execution_plan": [
  {"step": 1, "task_id": "CAN-04"},
  {"step": 2, "task_id": "CAN-01"},
  {"step": 3, "task_id": "CAN-06"}
]}`

func newTestApp(t *testing.T, mock *backend.Mock) *MeetingLens {
	t.Helper()
	cfg := config.Default()
	cfg.MaxRetries = 0
	cfg.TrialIntervalSeconds = 0
	app, err := New(cfg, func(o *Options) {
		o.Backend = mock
	})
	require.NoError(t, err)
	return app
}

func TestNew_Defaults(t *testing.T) {
	app, err := New(nil, func(o *Options) {
		o.Backend = backend.NewMock("m")
	})
	require.NoError(t, err)
	assert.NotNil(t, app.Caller())
	assert.NotEmpty(t, app.Writer().RunID())
}

func TestNew_UnknownBackend(t *testing.T) {
	cfg := config.Default()
	cfg.Backend = "gemini"
	_, err := New(cfg)
	assert.ErrorContains(t, err, "unknown backend")
}

func TestNew_BuildsConfiguredBackends(t *testing.T) {
	for _, name := range []string{config.BackendOpenAI, config.BackendAnthropic, config.BackendOllama} {
		cfg := config.Default()
		cfg.Backend = name
		app, err := New(cfg)
		require.NoError(t, err, "backend %s", name)
		assert.Equal(t, name, app.Caller().Info().Provider)
	}
}

func TestMeetingLens_Compose(t *testing.T) {
	mock := backend.NewMock("test-model")
	mock.QueueReply(planReply)
	app := newTestApp(t, mock)

	comp := app.Compose(context.Background(), "summarize my week", "weekly-digest")

	require.False(t, comp.Failed())
	assert.Equal(t, []string{"CAN-04", "CAN-01", "CAN-06"}, comp.TasksCovered)
}

func TestMeetingLens_Classify(t *testing.T) {
	mock := backend.NewMock("test-model")
	mock.QueueReply(`{"specific_type": "One-on-One Meeting", "confidence": 0.9}`)
	app := newTestApp(t, mock)

	cl := app.Classify(context.Background(), classifier.Event{Subject: "1:1 with Sarah"})

	assert.Equal(t, "One-on-One Meeting", cl.SpecificType)
}

func TestMeetingLens_ComposeBatchEndToEnd(t *testing.T) {
	mock := backend.NewMock("test-model")
	mock.QueueReply(planReply)
	mock.QueueReply(planReply)
	app := newTestApp(t, mock)

	batch := app.ComposeBatch(context.Background(), []suite.HeroPrompt{
		{ID: "p1", PromptText: "summarize my week"},
		{ID: "p2", PromptText: "find a slot"},
	})

	assert.Equal(t, 2, batch.Metadata.Successful)
	assert.Equal(t, "test-model", batch.Metadata.ModelName)
	// Artifacts landed in the default in-memory store under this run.
	require.NotEmpty(t, app.Writer().RunID())
}
