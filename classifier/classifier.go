package classifier

import (
	"context"
	"strconv"
	"strings"

	"github.com/hupe1980/meetinglens/backend"
	"github.com/hupe1980/meetinglens/logging"
	"github.com/hupe1980/meetinglens/parse"
	"github.com/hupe1980/meetinglens/registry"
)

// manualParseMaxConfidence caps the confidence of text-salvaged replies.
const manualParseMaxConfidence = 0.7

// Options configure a Classifier.
type Options struct {
	// Logger receives classifier telemetry; nil silences it.
	Logger logging.Logger
}

// Classifier assigns meeting types to calendar events. A nil backend caller
// degrades it to the deterministic keyword fallback.
type Classifier struct {
	caller   *backend.Caller
	parser   *parse.Parser
	taxonomy *registry.Taxonomy
	logger   *logging.CallLogger
}

// New creates a Classifier on top of a backend caller. Pass a nil caller for
// keyword-only operation.
func New(caller *backend.Caller, optFns ...func(o *Options)) *Classifier {
	var opts Options
	for _, fn := range optFns {
		fn(&opts)
	}
	c := &Classifier{
		caller:   caller,
		parser:   parse.New(),
		taxonomy: registry.MeetingTypes(),
		logger:   logging.NewCallLogger(opts.Logger).WithComponent("classifier"),
	}
	c.parser.RegisterFallback(parse.SchemaClassification, c.textExtract)
	return c
}

// Classify assigns the event a specific meeting type. It always returns a
// well-formed classification: the LLM path falls back to text extraction and
// then to the keyword table, and an event with no subject and no description
// goes straight to the default.
func (c *Classifier) Classify(ctx context.Context, e Event) *Classification {
	if strings.TrimSpace(e.Subject) == "" && strings.TrimSpace(e.Description) == "" {
		return classifyByKeywords(e)
	}
	if c.caller == nil {
		return classifyByKeywords(e)
	}

	res := c.caller.Call(ctx, c.systemPrompt(), meetingContext(e))
	if !res.Success {
		c.logger.Warn("backend call failed, using keyword fallback",
			"subject", e.Subject, "error_kind", string(res.ErrorKind))
		return classifyByKeywords(e)
	}

	outcome := c.parser.Extract(res.Content, parse.SchemaClassification)
	if !outcome.OK() {
		c.logger.Warn("unparseable reply, using keyword fallback", "subject", e.Subject)
		return classifyByKeywords(e)
	}

	cl := c.fromParsed(outcome)
	if cl == nil {
		return classifyByKeywords(e)
	}
	cl.BackendModel = res.BackendModel
	return cl
}

// fromParsed validates a parsed reply against the taxonomy. Returns nil when
// the reply names no usable type, handing control to the keyword fallback.
func (c *Classifier) fromParsed(outcome *parse.Outcome) *Classification {
	obj := outcome.Parsed
	specificType := strings.TrimSpace(stringField(obj, "specific_type"))
	confidence := clampConfidence(floatField(obj, "confidence"))
	reasoning := stringField(obj, "reasoning")

	method := MethodLLM
	if outcome.Method == parse.MethodTextFallback {
		method = MethodManualParse
		if confidence > manualParseMaxConfidence {
			confidence = manualParseMaxConfidence
		}
	}

	if specificType == registry.Unknown {
		return &Classification{
			SpecificType:    registry.Unknown,
			PrimaryCategory: registry.Unknown,
			Confidence:      confidence,
			Reasoning:       reasoning,
			Method:          method,
		}
	}

	if !c.taxonomy.Contains(specificType) {
		// Models sometimes paraphrase the type; a substring scan rescues
		// close misses before giving up.
		matched, ok := c.taxonomy.MatchType(specificType)
		if !ok {
			c.logger.Warn("reply named a type outside the taxonomy", "specific_type", specificType)
			return nil
		}
		specificType = matched
	}

	category, _ := c.taxonomy.CategoryOf(specificType)
	if got := stringField(obj, "primary_category"); got != "" && got != category {
		reasoning = strings.TrimSpace(reasoning + " (category corrected to match type)")
	}

	return &Classification{
		SpecificType:    specificType,
		PrimaryCategory: category,
		Confidence:      confidence,
		Reasoning:       reasoning,
		Method:          method,
	}
}

// textExtract is the parse fallback: scan the raw reply for a taxonomy type
// name, then a category name.
func (c *Classifier) textExtract(raw string) map[string]any {
	specificType, ok := c.taxonomy.MatchType(raw)
	if !ok {
		if _, catOK := c.taxonomy.MatchCategory(raw); !catOK {
			return nil
		}
		// A bare category without a type is not specific enough.
		return nil
	}
	return map[string]any{
		"specific_type": specificType,
		"confidence":    manualParseMaxConfidence,
		"reasoning":     "recovered type name from unstructured reply",
	}
}

func (c *Classifier) systemPrompt() string {
	var b strings.Builder
	b.WriteString("You classify enterprise calendar meetings. Pick exactly one specific type from the taxonomy below.\n\n")
	b.WriteString("Meeting taxonomy:\n")
	b.WriteString(c.taxonomy.RenderPrompt())
	b.WriteString("\nReply with a single JSON object: ")
	b.WriteString(`{"specific_type": "...", "primary_category": "...", "confidence": 0.0, "reasoning": "..."}`)
	b.WriteString("\nconfidence is a number between 0 and 1. Use the exact type and category strings from the taxonomy. If nothing fits, use \"Unknown\" for both.")
	return b.String()
}

func stringField(obj map[string]any, key string) string {
	if s, ok := obj[key].(string); ok {
		return s
	}
	return ""
}

func floatField(obj map[string]any, key string) float64 {
	switch v := obj[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			return f
		}
	}
	return 0
}
