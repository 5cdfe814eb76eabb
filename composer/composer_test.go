package composer

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/meetinglens/backend"
)

var fixedTime = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func newTestComposer(mock *backend.Mock) *Composer {
	caller := backend.NewCaller(mock, func(o *backend.CallOptions) {
		o.MaxRetries = 0
	})
	return New(caller, func(o *Options) {
		o.Source = "mock"
		o.Clock = func() time.Time { return fixedTime }
	})
}

const goodPlanReply = `{
  "execution_plan": [
    {"step": 1, "task_id": "CAN-04", "description": "Parse the request", "parallel_execution": false},
    {"step": 2, "task_id": "CAN-01", "description": "Fetch the calendar window"},
    {"step": 3, "task_id": "CAN-06", "description": "Summarize the week"}
  ],
  "tasks_covered": ["CAN-04", "CAN-01", "CAN-06"],
  "orchestration": {"pattern": "sequential", "error_handling": "skip failed steps"}
}`

func TestCompose_HappyPath(t *testing.T) {
	mock := backend.NewMock("test-model")
	mock.QueueReply(goodPlanReply)
	c := newTestComposer(mock)

	comp := c.Compose(context.Background(), "Summarize my week", "weekly-digest")

	require.False(t, comp.Failed())
	assert.Equal(t, "mock", comp.Source)
	assert.Equal(t, "test-model", comp.BackendModel)
	assert.Equal(t, "weekly-digest", comp.PromptID)
	assert.Equal(t, "Summarize my week", comp.PromptText)
	assert.Equal(t, "2026-03-14T09:30:00Z", comp.Timestamp)

	require.Len(t, comp.ExecutionPlan, 3)
	assert.Equal(t, []string{"CAN-04", "CAN-01", "CAN-06"}, comp.TasksCovered)
	assert.Equal(t, "Natural Language Understanding", comp.ExecutionPlan[0].TaskName)
	assert.Equal(t, PatternSequential, comp.Orchestration.Pattern)
	assert.Equal(t, "skip failed steps", comp.Orchestration.ErrorHandling)
}

func TestCompose_DropsUnknownTasksAndRenumbers(t *testing.T) {
	mock := backend.NewMock("test-model")
	mock.QueueReply(`{
	  "execution_plan": [
	    {"step": 1, "task_id": "CAN-04"},
	    {"step": 2, "task_id": "CAN-99"},
	    {"step": 3, "task_id": "CAN-06"},
	    {"step": 4, "task_id": "CAN-04"}
	  ]
	}`)
	c := newTestComposer(mock)

	comp := c.Compose(context.Background(), "do things", "p1")

	require.False(t, comp.Failed())
	require.Len(t, comp.ExecutionPlan, 3)
	for i, step := range comp.ExecutionPlan {
		assert.Equal(t, i+1, step.Step)
	}
	// Duplicates collapse in tasks_covered, first seen wins.
	assert.Equal(t, []string{"CAN-04", "CAN-06"}, comp.TasksCovered)
	assert.Contains(t, comp.Warnings, `dropped step with unknown task_id "CAN-99"`)
}

func TestCompose_TolerantFieldTypes(t *testing.T) {
	mock := backend.NewMock("test-model")
	mock.QueueReply(`{
	  "execution_plan": [
	    {"step": "1", "task_id": "CAN-03", "parallel_execution": "true",
	     "input_schema": {"participants": ["a", "b"]}}
	  ]
	}`)
	c := newTestComposer(mock)

	comp := c.Compose(context.Background(), "check availability", "p1")

	require.False(t, comp.Failed())
	require.Len(t, comp.ExecutionPlan, 1)
	step := comp.ExecutionPlan[0]
	assert.True(t, step.ParallelExecution)
	assert.Contains(t, step.InputSchema, "participants")
}

func TestCompose_BareArrayReply(t *testing.T) {
	mock := backend.NewMock("test-model")
	mock.QueueReply(`[{"step": 1, "task_id": "CAN-04"}, {"step": 2, "task_id": "CAN-12"}]`)
	c := newTestComposer(mock)

	comp := c.Compose(context.Background(), "find a slot", "p1")

	require.False(t, comp.Failed())
	assert.Equal(t, []string{"CAN-04", "CAN-12"}, comp.TasksCovered)
	// The reply carried no orchestration block.
	assert.Equal(t, DefaultOrchestration().Pattern, comp.Orchestration.Pattern)
}

func TestCompose_EmptyPrompt(t *testing.T) {
	mock := backend.NewMock("test-model")
	c := newTestComposer(mock)

	comp := c.Compose(context.Background(), "   ", "p1")

	require.True(t, comp.Failed())
	assert.Equal(t, "empty prompt", comp.Error)
	assert.Empty(t, comp.ExecutionPlan)
	assert.Equal(t, 0, mock.Calls(), "no backend call for empty prompts")
}

func TestCompose_MissingPromptID(t *testing.T) {
	mock := backend.NewMock("test-model")
	mock.QueueReply(goodPlanReply)
	c := newTestComposer(mock)

	comp := c.Compose(context.Background(), "plan my day", "")

	assert.Equal(t, "unknown", comp.PromptID)
}

func TestCompose_BackendFailure(t *testing.T) {
	mock := backend.NewMock("test-model")
	mock.QueueError(&backend.CallError{Kind: backend.ErrAuthMissing, Status: 401})
	c := newTestComposer(mock)

	comp := c.Compose(context.Background(), "plan my day", "p1")

	require.True(t, comp.Failed())
	assert.Empty(t, comp.ExecutionPlan)
	assert.Contains(t, comp.Error, "auth_missing")
}

func TestCompose_UnparseableReply(t *testing.T) {
	mock := backend.NewMock("test-model")
	mock.QueueReply("I am sorry, I cannot produce a plan for that.")
	c := newTestComposer(mock)

	comp := c.Compose(context.Background(), "plan my day", "p1")

	require.True(t, comp.Failed())
	assert.Contains(t, comp.Error, "could not parse")
}

func TestCompose_PlanWithOnlyUnknownTasks(t *testing.T) {
	mock := backend.NewMock("test-model")
	mock.QueueReply(`{"execution_plan": [{"step": 1, "task_id": "BOGUS-1"}]}`)
	c := newTestComposer(mock)

	comp := c.Compose(context.Background(), "plan my day", "p1")

	require.True(t, comp.Failed())
	assert.Equal(t, "model reply contained no usable plan steps", comp.Error)
}

func TestCompose_UnknownOrchestrationPattern(t *testing.T) {
	mock := backend.NewMock("test-model")
	mock.QueueReply(`{
	  "execution_plan": [{"step": 1, "task_id": "CAN-04"}],
	  "orchestration": {"pattern": "round-robin"}
	}`)
	c := newTestComposer(mock)

	comp := c.Compose(context.Background(), "plan", "p1")

	require.False(t, comp.Failed())
	assert.Equal(t, PatternSequential, comp.Orchestration.Pattern)
	assert.Contains(t, comp.Warnings, `unknown orchestration pattern "round-robin"`)
}

func TestSystemPrompt_CarriesGuidance(t *testing.T) {
	mock := backend.NewMock("test-model")
	mock.QueueReply(goodPlanReply)
	c := newTestComposer(mock)

	c.Compose(context.Background(), "prioritize my invitations", "p1")

	req, ok := mock.LastRequest()
	require.True(t, ok)
	// The task library and the composition rules ride in the system prompt.
	assert.Contains(t, req.System, "CAN-01")
	assert.Contains(t, req.System, "CAN-23")
	assert.Contains(t, req.System, "CAN-04")
	assert.Contains(t, req.User, "prioritize my invitations")
}

func TestExecutionComposition_TaskSet(t *testing.T) {
	comp := &ExecutionComposition{TasksCovered: []string{"CAN-01", "CAN-04"}}
	set := comp.TaskSet()
	assert.True(t, set["CAN-01"])
	assert.True(t, set["CAN-04"])
	assert.False(t, set["CAN-06"])
}
