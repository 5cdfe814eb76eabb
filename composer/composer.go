package composer

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/hupe1980/meetinglens/backend"
	"github.com/hupe1980/meetinglens/logging"
	"github.com/hupe1980/meetinglens/parse"
	"github.com/hupe1980/meetinglens/registry"
)

// Options configure a Composer.
type Options struct {
	// Source is the backend tag stamped into compositions; defaults to the
	// caller's provider name.
	Source string
	// Logger receives composer telemetry; nil silences it.
	Logger logging.Logger
	// Clock is swapped out in tests for deterministic timestamps.
	Clock func() time.Time
}

// Composer produces execution compositions from hero prompts.
type Composer struct {
	caller *backend.Caller
	parser *parse.Parser
	tasks  *registry.TaskRegistry
	opts   Options
	logger *logging.CallLogger
}

// New creates a Composer on top of a backend caller.
func New(caller *backend.Caller, optFns ...func(o *Options)) *Composer {
	opts := Options{Clock: time.Now}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Source == "" && caller != nil {
		opts.Source = caller.Info().Provider
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	return &Composer{
		caller: caller,
		parser: parse.New(),
		tasks:  registry.Tasks(),
		opts:   opts,
		logger: logging.NewCallLogger(opts.Logger).WithComponent("composer"),
	}
}

// Compose plans the given hero prompt. An empty promptID is recorded as
// "unknown". The returned composition is always well formed; failures carry
// an error string and an empty plan.
func (c *Composer) Compose(ctx context.Context, promptText, promptID string) *ExecutionComposition {
	if promptID == "" {
		promptID = "unknown"
	}
	if strings.TrimSpace(promptText) == "" {
		return c.failed(promptText, promptID, "empty prompt", nil)
	}

	res := c.caller.Call(ctx, systemPrompt(c.tasks), userPrompt(promptText))
	if !res.Success {
		c.logger.Warn("backend call failed", "prompt_id", promptID, "error_kind", string(res.ErrorKind))
		return c.failed(promptText, promptID, res.Error, nil)
	}

	outcome := c.parser.Extract(res.Content, parse.SchemaComposition)
	if !outcome.OK() {
		c.logger.Warn("unparseable reply", "prompt_id", promptID, "warnings", strings.Join(outcome.Warnings, "; "))
		return c.failed(promptText, promptID, "could not parse model reply as an execution plan", outcome.Warnings)
	}

	comp := c.validate(outcome.Parsed, outcome.Warnings)
	comp.Source = c.opts.Source
	comp.BackendModel = res.BackendModel
	comp.Timestamp = c.opts.Clock().UTC().Format(time.RFC3339)
	comp.PromptID = promptID
	comp.PromptText = promptText
	if len(comp.ExecutionPlan) == 0 && comp.Error == "" {
		comp.Error = "model reply contained no usable plan steps"
	}
	c.logger.Debug("composed plan",
		"prompt_id", promptID, "steps", len(comp.ExecutionPlan), "tasks", len(comp.TasksCovered))
	return comp
}

// failed builds an error-bearing composition with an empty plan.
func (c *Composer) failed(promptText, promptID, errMsg string, warnings []string) *ExecutionComposition {
	return &ExecutionComposition{
		Source:        c.opts.Source,
		BackendModel:  c.caller.Info().Name,
		Timestamp:     c.opts.Clock().UTC().Format(time.RFC3339),
		PromptID:      promptID,
		PromptText:    promptText,
		ExecutionPlan: []ExecutionStep{},
		TasksCovered:  []string{},
		Orchestration: DefaultOrchestration(),
		Warnings:      warnings,
		Error:         errMsg,
	}
}

// wireStep mirrors the reply shape with tolerant field types: models
// occasionally emit step numbers or booleans as strings.
type wireStep struct {
	Step              any            `json:"step"`
	TaskID            string         `json:"task_id"`
	TaskName          string         `json:"task_name"`
	Description       string         `json:"description"`
	InputSchema       map[string]any `json:"input_schema"`
	OutputSchema      map[string]any `json:"output_schema"`
	ParallelExecution any            `json:"parallel_execution"`
	Note              string         `json:"note"`
}

type wireOrchestration struct {
	Pattern                      string `json:"pattern"`
	ParallelizationOpportunities []any  `json:"parallelization_opportunities"`
	ErrorHandling                string `json:"error_handling"`
}

// validate cleans a parsed reply into a composition: unknown task ids are
// dropped with a warning, steps renumbered 1..N, tasks_covered recomputed
// preserving first-seen order.
func (c *Composer) validate(obj map[string]any, warnings []string) *ExecutionComposition {
	comp := &ExecutionComposition{
		ExecutionPlan: []ExecutionStep{},
		TasksCovered:  []string{},
		Orchestration: DefaultOrchestration(),
		Warnings:      warnings,
	}

	var steps []wireStep
	if raw, err := json.Marshal(obj["execution_plan"]); err == nil {
		if err := json.Unmarshal(raw, &steps); err != nil {
			comp.Warnings = append(comp.Warnings, "execution_plan is not a step list")
		}
	}

	seen := make(map[string]bool)
	for _, ws := range steps {
		id := strings.TrimSpace(ws.TaskID)
		if !c.tasks.Contains(id) {
			comp.Warnings = append(comp.Warnings, fmt.Sprintf("dropped step with unknown task_id %q", id))
			continue
		}
		step := ExecutionStep{
			Step:              len(comp.ExecutionPlan) + 1,
			TaskID:            id,
			TaskName:          c.tasks.Name(id),
			Description:       ws.Description,
			InputSchema:       toSchemaMap(ws.InputSchema),
			OutputSchema:      toSchemaMap(ws.OutputSchema),
			ParallelExecution: toBool(ws.ParallelExecution),
			Note:              ws.Note,
		}
		comp.ExecutionPlan = append(comp.ExecutionPlan, step)
		if !seen[id] {
			seen[id] = true
			comp.TasksCovered = append(comp.TasksCovered, id)
		}
	}

	var orch wireOrchestration
	if raw, err := json.Marshal(obj["orchestration"]); err == nil {
		_ = json.Unmarshal(raw, &orch)
	}
	switch orch.Pattern {
	case PatternSequential, PatternParallel, PatternHybrid:
		comp.Orchestration.Pattern = orch.Pattern
	case "":
		comp.Warnings = append(comp.Warnings, "orchestration missing, using defaults")
	default:
		comp.Warnings = append(comp.Warnings, fmt.Sprintf("unknown orchestration pattern %q", orch.Pattern))
	}
	if orch.ErrorHandling != "" {
		comp.Orchestration.ErrorHandling = orch.ErrorHandling
	}
	for _, opp := range orch.ParallelizationOpportunities {
		if s, ok := opp.(string); ok {
			comp.Orchestration.ParallelizationOpportunities = append(comp.Orchestration.ParallelizationOpportunities, s)
		}
	}

	return comp
}

func toSchemaMap(in map[string]any) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = fmt.Sprint(v)
	}
	return out
}

func toBool(v any) bool {
	switch b := v.(type) {
	case bool:
		return b
	case string:
		parsed, err := strconv.ParseBool(strings.TrimSpace(b))
		return err == nil && parsed
	default:
		return false
	}
}
