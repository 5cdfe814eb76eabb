package registry

import (
	"fmt"
	"strings"
)

// Unknown is the sentinel type/category accepted in classifications when no
// taxonomy entry applies.
const Unknown = "Unknown"

// Category names of the five-category enterprise meeting taxonomy.
const (
	CategoryInternalRecurring = "Internal Recurring (Cadence)"
	CategoryDecisionMaking    = "Decision-Making & Problem-Solving"
	CategoryCollaborative     = "Collaborative Working"
	CategoryInformational     = "Informational & Broadcast"
	CategoryExternal          = "External & Relationship-Building"
)

// taxonomyOrder fixes the rendering order of categories in prompts.
var taxonomyOrder = []string{
	CategoryInternalRecurring,
	CategoryDecisionMaking,
	CategoryCollaborative,
	CategoryInformational,
	CategoryExternal,
}

// taxonomyTypes maps each category to its ordered specific types. Every type
// is unique across categories; the flattened list is the universe of valid
// classification outputs.
var taxonomyTypes = map[string][]string{
	CategoryInternalRecurring: {
		"One-on-One Meeting",
		"Team Status Update/Standup",
		"Leadership Sync",
		"Project Checkpoint",
		"Sprint Planning",
		"Skip-Level Meeting",
	},
	CategoryDecisionMaking: {
		"Decision Review",
		"Design/Architecture Review",
		"Retrospective",
		"Incident Postmortem",
		"Escalation Meeting",
		"Strategy/Planning Session",
		"Roadmap Review",
	},
	CategoryCollaborative: {
		"Brainstorming Session",
		"Workshop",
		"Working Session",
		"Pair/Group Work",
		"Collaborative Document Review",
		"Offsite Planning",
	},
	CategoryInformational: {
		"All-Hands/Town Hall",
		"Department Update",
		"Webinar",
		"Lunch & Learn",
		"Announcement Briefing",
		"Training Session",
		"Onboarding Session",
	},
	CategoryExternal: {
		"Client/Customer Meeting",
		"Sales/Prospect Call",
		"Vendor/Partner Meeting",
		"Interview",
		"Networking/Social Event",
		"Advisory/Board Meeting",
	},
}

// typeSynonyms is advisory prompt text only. Some sources frame the same
// meeting under a different label; the synonyms steer the model toward the
// canonical type without widening the valid output universe.
var typeSynonyms = map[string][]string{
	"Team Status Update/Standup": {"daily standup", "weekly sync", "status check-in"},
	"Training Session":           {"enablement session", "skills training"},
	"Strategy/Planning Session":  {"quarterly planning", "roadmap planning"},
	"All-Hands/Town Hall":        {"company meeting", "org all-hands"},
}

// Taxonomy is the immutable meeting type table with category lookup.
type Taxonomy struct {
	categories []string
	types      map[string][]string
	categoryOf map[string]string
	flat       []string
}

var taxonomy = newTaxonomy()

func newTaxonomy() *Taxonomy {
	t := &Taxonomy{
		categories: taxonomyOrder,
		types:      taxonomyTypes,
		categoryOf: make(map[string]string),
	}
	for _, cat := range taxonomyOrder {
		for _, st := range taxonomyTypes[cat] {
			if prev, dup := t.categoryOf[st]; dup {
				panic(fmt.Sprintf("registry: specific type %q in both %q and %q", st, prev, cat))
			}
			t.categoryOf[st] = cat
			t.flat = append(t.flat, st)
		}
	}
	return t
}

// MeetingTypes returns the process-wide meeting taxonomy.
func MeetingTypes() *Taxonomy { return taxonomy }

// Categories returns the five category names in canonical order.
func (t *Taxonomy) Categories() []string { return t.categories }

// TypesIn returns the ordered specific types of a category.
func (t *Taxonomy) TypesIn(category string) []string { return t.types[category] }

// AllTypes returns the flattened type universe in canonical order.
func (t *Taxonomy) AllTypes() []string { return t.flat }

// CategoryOf returns the category containing the specific type and whether
// the type exists in the taxonomy.
func (t *Taxonomy) CategoryOf(specificType string) (string, bool) {
	cat, ok := t.categoryOf[specificType]
	return cat, ok
}

// Contains reports whether specificType is a valid taxonomy entry.
func (t *Taxonomy) Contains(specificType string) bool {
	_, ok := t.categoryOf[specificType]
	return ok
}

// MatchType scans free text for a taxonomy type name, case-insensitively, and
// returns the first match in canonical order. Used by text-extraction
// fallbacks when a model reply is not parseable JSON.
func (t *Taxonomy) MatchType(text string) (string, bool) {
	lower := strings.ToLower(text)
	for _, st := range t.flat {
		if strings.Contains(lower, strings.ToLower(st)) {
			return st, true
		}
	}
	return "", false
}

// MatchCategory scans free text for a category name, case-insensitively.
func (t *Taxonomy) MatchCategory(text string) (string, bool) {
	lower := strings.ToLower(text)
	for _, cat := range t.categories {
		if strings.Contains(lower, strings.ToLower(cat)) {
			return cat, true
		}
	}
	return "", false
}

// RenderPrompt renders the taxonomy (with advisory synonyms) for embedding
// into the classifier system prompt. Output is deterministic.
func (t *Taxonomy) RenderPrompt() string {
	var b strings.Builder
	for _, cat := range t.categories {
		fmt.Fprintf(&b, "%s:\n", cat)
		for _, st := range t.types[cat] {
			b.WriteString("  - " + st)
			if syn := typeSynonyms[st]; len(syn) > 0 {
				fmt.Fprintf(&b, " (also phrased as: %s)", strings.Join(syn, ", "))
			}
			b.WriteByte('\n')
		}
	}
	return b.String()
}
