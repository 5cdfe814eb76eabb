package classifier

import (
	"strconv"
	"strings"

	"github.com/hupe1980/meetinglens/registry"
)

// keywordConfidence is the bounded confidence of any keyword-rule match.
const keywordConfidence = 0.6

// defaultConfidence is the confidence of the catch-all classification.
const defaultConfidence = 0.4

// keywordRule maps trigger substrings to a taxonomy entry. Rules are applied
// in order; the first matching rule wins.
type keywordRule struct {
	triggers     []string
	specificType string
	category     string
}

var keywordRules = []keywordRule{
	{[]string{"1:1", "1-1", "one-on-one", "one on one"}, "One-on-One Meeting", registry.CategoryInternalRecurring},
	{[]string{"standup", "stand-up", "status", "sync", "check-in"}, "Team Status Update/Standup", registry.CategoryInternalRecurring},
	{[]string{"all-hands", "all hands", "town hall", "townhall"}, "All-Hands/Town Hall", registry.CategoryInformational},
	{[]string{"retrospective", "retro", "review"}, "Retrospective", registry.CategoryDecisionMaking},
	{[]string{"strategy", "planning", "roadmap"}, "Strategy/Planning Session", registry.CategoryDecisionMaking},
	{[]string{"brainstorm", "ideation"}, "Brainstorming Session", registry.CategoryCollaborative},
	{[]string{"workshop"}, "Workshop", registry.CategoryCollaborative},
	{[]string{"training", "enablement"}, "Training Session", registry.CategoryInformational},
	{[]string{"onboarding"}, "Onboarding Session", registry.CategoryInformational},
	{[]string{"sales", "prospect", "pitch"}, "Sales/Prospect Call", registry.CategoryExternal},
	{[]string{"client", "customer"}, "Client/Customer Meeting", registry.CategoryExternal},
	{[]string{"interview", "screening"}, "Interview", registry.CategoryExternal},
}

// classifyByKeywords is the deterministic fallback used when no backend is
// reachable. It scans subject and description for trigger substrings and
// returns a bounded-confidence classification; with no signal at all it
// falls through to the default type.
func classifyByKeywords(e Event) *Classification {
	text := strings.ToLower(strings.TrimSpace(e.Subject + " " + e.Description))
	if text != "" {
		for _, rule := range keywordRules {
			for _, trigger := range rule.triggers {
				if strings.Contains(text, trigger) {
					return &Classification{
						SpecificType:    rule.specificType,
						PrimaryCategory: rule.category,
						Confidence:      keywordConfidence,
						Reasoning:       "matched keyword " + strconv.Quote(trigger),
						Method:          MethodKeywords,
						BackendModel:    KeywordBackend,
					}
				}
			}
		}
	}
	return &Classification{
		SpecificType:    "Team Status Update/Standup",
		PrimaryCategory: registry.CategoryInternalRecurring,
		Confidence:      defaultConfidence,
		Reasoning:       "no keyword signal, defaulting to the most common meeting type",
		Method:          MethodDefault,
		BackendModel:    KeywordBackend,
	}
}
