package classifier

// Classification methods recorded in results.
const (
	// MethodLLM marks a reply parsed directly from backend JSON.
	MethodLLM = "LLM"
	// MethodManualParse marks a reply salvaged by text extraction.
	MethodManualParse = "LLM_manual_parse"
	// MethodKeywords marks the deterministic keyword fallback.
	MethodKeywords = "fallback_keywords"
	// MethodDefault marks the catch-all default classification.
	MethodDefault = "fallback_default"
)

// KeywordBackend is the backend_model sentinel for non-LLM classifications.
const KeywordBackend = "keyword"

// Event is the classifier input: a calendar event reduced to the fields the
// taxonomy cares about. Zero DurationMinutes means unknown.
type Event struct {
	Subject         string   `json:"subject"`
	Description     string   `json:"description,omitempty"`
	Attendees       []string `json:"attendees,omitempty"`
	DurationMinutes int      `json:"duration_minutes,omitempty"`
}

// Classification is the uniform classifier output. SpecificType is either a
// taxonomy entry or "Unknown"; PrimaryCategory always matches the type's
// category. Confidence is clamped to [0,1].
type Classification struct {
	SpecificType    string  `json:"specific_type"`
	PrimaryCategory string  `json:"primary_category"`
	Confidence      float64 `json:"confidence"`
	Reasoning       string  `json:"reasoning"`
	Method          string  `json:"classification_method"`
	BackendModel    string  `json:"backend_model"`
}

func clampConfidence(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
