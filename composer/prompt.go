package composer

import (
	"strings"

	"github.com/hupe1980/meetinglens/registry"
)

// planningRules are the fixed guidance rules embedded into every composer
// system prompt. The stability harness measures how consistently a backend
// honors them, so their wording must stay deterministic.
const planningRules = `Planning rules:
- Start essentially every plan with CAN-04 (Natural Language Understanding).
- When both CAN-01 and CAN-06 appear, CAN-01 must come before CAN-06.
- CAN-07 is a parent task enabling CAN-05, CAN-08, CAN-09, CAN-13, CAN-19 and CAN-21; when any of those appears, place CAN-07 before it.
- CAN-02A (meeting type, format-based) and CAN-02B (meeting importance, value-based) are distinct tasks; when the user asks to prioritize meetings, select both.
- Keyword hints: "pending invitations", "RSVP", "attendees" or "documents" suggest CAN-07; "patterns", "visualize" or "dashboard" suggest CAN-20; "bump", "auto-reschedule" or "conflict" suggest CAN-23; "objections", "risks" or "blockers" suggest CAN-18.
- When CAN-12 reports an unsatisfiable request and conflict resolution is implied, follow it with CAN-23.`

const replyShape = `Reply with a single JSON object of this exact shape:
{
  "execution_plan": [
    {
      "step": 1,
      "task_id": "CAN-04",
      "task_name": "Natural Language Understanding",
      "description": "why this step is needed for this request",
      "input_schema": {"field_name": "type"},
      "output_schema": {"field_name": "type"},
      "parallel_execution": false,
      "note": "optional remark"
    }
  ],
  "orchestration": {
    "pattern": "sequential|parallel|hybrid",
    "parallelization_opportunities": ["steps that can run concurrently"],
    "error_handling": "how step failures should be handled"
  }
}
Use only task_id values from the library above. Number steps from 1 with no gaps. Do not add prose outside the JSON object.`

// systemPrompt renders the deterministic composer system message embedding
// the full canonical task library.
func systemPrompt(tasks *registry.TaskRegistry) string {
	var b strings.Builder
	b.WriteString("You are an execution planner for an enterprise calendar assistant. ")
	b.WriteString("Given a user request, select the minimal sufficient subset of the canonical task library below and sequence it into an execution plan.\n\n")
	b.WriteString("Canonical task library:\n")
	b.WriteString(tasks.RenderPrompt())
	b.WriteString("\n")
	b.WriteString(planningRules)
	b.WriteString("\n\n")
	b.WriteString(replyShape)
	return b.String()
}

// userPrompt wraps the verbatim hero prompt with a terse JSON instruction.
func userPrompt(promptText string) string {
	return promptText + "\n\nReturn the execution plan as JSON."
}
