package composer

// Orchestration patterns accepted in a composition.
const (
	PatternSequential = "sequential"
	PatternParallel   = "parallel"
	PatternHybrid     = "hybrid"
)

// ExecutionStep is one entry of an execution plan. Step ordinals are 1-based
// and contiguous; TaskID always references the canonical task registry.
type ExecutionStep struct {
	Step              int               `json:"step"`
	TaskID            string            `json:"task_id"`
	TaskName          string            `json:"task_name"`
	Description       string            `json:"description"`
	InputSchema       map[string]string `json:"input_schema"`
	OutputSchema      map[string]string `json:"output_schema"`
	ParallelExecution bool              `json:"parallel_execution"`
	Note              string            `json:"note,omitempty"`
}

// Orchestration carries the plan-level execution metadata.
type Orchestration struct {
	Pattern                      string   `json:"pattern"`
	ParallelizationOpportunities []string `json:"parallelization_opportunities"`
	ErrorHandling                string   `json:"error_handling"`
}

// DefaultOrchestration is used when a reply omits or mangles the
// orchestration block.
func DefaultOrchestration() Orchestration {
	return Orchestration{
		Pattern:                      PatternSequential,
		ParallelizationOpportunities: []string{},
		ErrorHandling:                "halt on failed step and report partial results",
	}
}

// ExecutionComposition is the full result of composing one hero prompt.
// Error and a non-empty plan are mutually exclusive.
type ExecutionComposition struct {
	Source        string          `json:"source"`
	BackendModel  string          `json:"backend_llm"`
	BackendNotes  string          `json:"backend_llm_notes,omitempty"`
	Timestamp     string          `json:"timestamp"`
	PromptID      string          `json:"prompt_id"`
	PromptText    string          `json:"prompt_text"`
	ExecutionPlan []ExecutionStep `json:"execution_plan"`
	TasksCovered  []string        `json:"tasks_covered"`
	Orchestration Orchestration   `json:"orchestration"`
	Warnings      []string        `json:"warnings,omitempty"`
	Error         string          `json:"error,omitempty"`
}

// Failed reports whether the composition carries an error instead of a plan.
func (c *ExecutionComposition) Failed() bool { return c.Error != "" }

// TaskSet returns tasks_covered as a membership set.
func (c *ExecutionComposition) TaskSet() map[string]bool {
	set := make(map[string]bool, len(c.TasksCovered))
	for _, id := range c.TasksCovered {
		set[id] = true
	}
	return set
}
