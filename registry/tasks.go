package registry

import (
	"fmt"
	"strings"
)

// Version identifies the revision of the canonical task library. It is
// stamped into batch metadata so artifacts from different library revisions
// can be told apart.
const Version = "1.0"

// CanonicalTask is a single entry of the fixed task library. Tier 1 tasks are
// universal, tier 2 common, tier 3 specialized. FrequencyHint is advisory
// text carried into prompts, never interpreted programmatically.
type CanonicalTask struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	Tier          int    `json:"tier"`
	FrequencyHint string `json:"frequency_hint"`
}

// canonicalTasks is the full 24-entry library. Order matters: it is the order
// tasks are rendered into the composer system prompt.
var canonicalTasks = []CanonicalTask{
	{ID: "CAN-01", Name: "Calendar Data Retrieval", Description: "Fetch events, invitations and free/busy data from the user's calendar for a given window.", Tier: 1, FrequencyHint: "95%"},
	{ID: "CAN-02A", Name: "Meeting Type Classification", Description: "Assign each meeting a specific type from the enterprise taxonomy based on its format and content.", Tier: 1, FrequencyHint: "80%"},
	{ID: "CAN-02B", Name: "Meeting Importance Assessment", Description: "Score each meeting's importance to the user based on stated priorities and relationship value.", Tier: 1, FrequencyHint: "75%"},
	{ID: "CAN-03", Name: "Participant Availability Lookup", Description: "Resolve free/busy availability for a set of participants across calendars.", Tier: 1, FrequencyHint: "70%"},
	{ID: "CAN-04", Name: "Natural Language Understanding", Description: "Parse the user's request into intent, entities, time expressions and constraints.", Tier: 1, FrequencyHint: "100%"},
	{ID: "CAN-05", Name: "Attendee Response Tracking", Description: "Track RSVP and response status for meeting invitations.", Tier: 2, FrequencyHint: "45%"},
	{ID: "CAN-06", Name: "Schedule Summarization", Description: "Summarize a retrieved calendar window into a concise narrative or digest.", Tier: 1, FrequencyHint: "60%"},
	{ID: "CAN-07", Name: "Meeting Context Assembly", Description: "Gather the surrounding context of meetings: pending invitations, attendees, linked documents and threads.", Tier: 1, FrequencyHint: "65%"},
	{ID: "CAN-08", Name: "People & Role Insights", Description: "Build per-person context: role, org relationship, open items and recent activity.", Tier: 2, FrequencyHint: "40%"},
	{ID: "CAN-09", Name: "Related Content Retrieval", Description: "Retrieve documents, notes and mail threads linked to a meeting or its attendees.", Tier: 2, FrequencyHint: "40%"},
	{ID: "CAN-10", Name: "Time Expression Normalization", Description: "Normalize relative and fuzzy time expressions into concrete date ranges.", Tier: 2, FrequencyHint: "50%"},
	{ID: "CAN-11", Name: "Priority Ranking", Description: "Rank meetings or invitations against the user's stated priorities.", Tier: 1, FrequencyHint: "55%"},
	{ID: "CAN-12", Name: "Slot Finding & Constraint Solving", Description: "Find feasible meeting times under constraints and flag unsatisfiable requests.", Tier: 1, FrequencyHint: "60%"},
	{ID: "CAN-13", Name: "Agenda Extraction", Description: "Extract agendas and discussion topics from meeting bodies and attachments.", Tier: 2, FrequencyHint: "35%"},
	{ID: "CAN-14", Name: "Meeting Scheduling Execution", Description: "Create, update or cancel calendar events on the user's behalf.", Tier: 1, FrequencyHint: "50%"},
	{ID: "CAN-15", Name: "Notification & Follow-up Drafting", Description: "Draft notifications, replies and follow-up messages related to meetings.", Tier: 2, FrequencyHint: "35%"},
	{ID: "CAN-16", Name: "Recurrence Pattern Handling", Description: "Interpret and manipulate recurring meeting series and exceptions.", Tier: 2, FrequencyHint: "30%"},
	{ID: "CAN-17", Name: "Focus Time Protection", Description: "Reserve and defend focus blocks against meeting encroachment.", Tier: 2, FrequencyHint: "25%"},
	{ID: "CAN-18", Name: "Risk & Objection Surfacing", Description: "Surface risks, blockers and likely objections relevant to upcoming meetings.", Tier: 3, FrequencyHint: "20%"},
	{ID: "CAN-19", Name: "Action Item Extraction", Description: "Extract open action items and commitments from meeting context.", Tier: 2, FrequencyHint: "30%"},
	{ID: "CAN-20", Name: "Calendar Pattern Analytics", Description: "Analyze calendar usage patterns and produce visualizable aggregates.", Tier: 3, FrequencyHint: "15%"},
	{ID: "CAN-21", Name: "Pre-read & Document Summarization", Description: "Summarize pre-read documents and attachments ahead of a meeting.", Tier: 2, FrequencyHint: "30%"},
	{ID: "CAN-22", Name: "Preference Learning", Description: "Learn and apply the user's scheduling preferences over time.", Tier: 3, FrequencyHint: "15%"},
	{ID: "CAN-23", Name: "Conflict Resolution & Auto-Rescheduling", Description: "Resolve calendar conflicts by bumping or rescheduling movable meetings.", Tier: 2, FrequencyHint: "35%"},
}

// ContextChildren are the task ids enabled by the CAN-07 parent task. When any
// of them appears in a plan, CAN-07 is expected to precede it.
var ContextChildren = []string{"CAN-05", "CAN-08", "CAN-09", "CAN-13", "CAN-19", "CAN-21"}

// TaskRegistry is the immutable canonical task table with id lookup.
type TaskRegistry struct {
	tasks []CanonicalTask
	byID  map[string]CanonicalTask
}

var taskRegistry = newTaskRegistry()

func newTaskRegistry() *TaskRegistry {
	r := &TaskRegistry{
		tasks: canonicalTasks,
		byID:  make(map[string]CanonicalTask, len(canonicalTasks)),
	}
	for _, t := range canonicalTasks {
		if _, dup := r.byID[t.ID]; dup {
			panic(fmt.Sprintf("registry: duplicate canonical task id %s", t.ID))
		}
		r.byID[t.ID] = t
	}
	return r
}

// Tasks returns the process-wide canonical task registry.
func Tasks() *TaskRegistry { return taskRegistry }

// All returns the library in canonical order. Callers must not mutate it.
func (r *TaskRegistry) All() []CanonicalTask { return r.tasks }

// Len returns the number of canonical tasks (always 24).
func (r *TaskRegistry) Len() int { return len(r.tasks) }

// Lookup returns the task for id and whether it exists.
func (r *TaskRegistry) Lookup(id string) (CanonicalTask, bool) {
	t, ok := r.byID[id]
	return t, ok
}

// Contains reports whether id is a valid canonical task id.
func (r *TaskRegistry) Contains(id string) bool {
	_, ok := r.byID[id]
	return ok
}

// Name returns the human-readable name for id, or the id itself when unknown.
func (r *TaskRegistry) Name(id string) string {
	if t, ok := r.byID[id]; ok {
		return t.Name
	}
	return id
}

// RenderPrompt renders the library as a compact numbered listing suitable for
// embedding into a system prompt. Output is deterministic.
func (r *TaskRegistry) RenderPrompt() string {
	var b strings.Builder
	for _, t := range r.tasks {
		fmt.Fprintf(&b, "- %s (%s, tier %d, used in ~%s of requests): %s\n",
			t.ID, t.Name, t.Tier, t.FrequencyHint, t.Description)
	}
	return b.String()
}
