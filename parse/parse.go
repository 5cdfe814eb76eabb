package parse

import (
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/tidwall/gjson"
)

// Schema tags the expected reply shape so required keys can be validated and
// schema-specific fallbacks applied.
type Schema string

const (
	// SchemaComposition expects an execution composition object.
	SchemaComposition Schema = "composition"
	// SchemaClassification expects a meeting classification object.
	SchemaClassification Schema = "classification"
	// SchemaAny accepts any JSON object.
	SchemaAny Schema = "any"
)

// requiredKeys lists the keys a reply must carry per schema before it is
// considered usable.
var requiredKeys = map[Schema][]string{
	SchemaComposition:    {"execution_plan"},
	SchemaClassification: {"specific_type"},
}

// Method identifies the strategy that produced the parsed object.
type Method string

const (
	// MethodDirect means the reply parsed as-is (after fence stripping).
	MethodDirect Method = "direct"
	// MethodExtracted means a balanced substring of the reply parsed.
	MethodExtracted Method = "extracted"
	// MethodReconstructed means the object was rebuilt from fragments.
	MethodReconstructed Method = "reconstructed"
	// MethodTextFallback means a registered schema fallback salvaged a
	// result from the raw text.
	MethodTextFallback Method = "text_fallback"
)

// Outcome is the uniform result of Extract. Parsed is nil when every
// strategy failed.
type Outcome struct {
	Parsed   map[string]any
	Method   Method
	Warnings []string
}

// OK reports whether a usable object was recovered.
func (o *Outcome) OK() bool { return o.Parsed != nil }

// Fallback is a schema-specific salvage hook invoked with the raw reply when
// JSON recovery fails or required keys are missing. Returning nil declines.
type Fallback func(raw string) map[string]any

// Parser applies the recovery strategy sequence. The zero value is not
// usable; construct with New.
type Parser struct {
	fallbacks map[Schema]Fallback
}

// New creates a Parser with no fallbacks registered.
func New() *Parser {
	return &Parser{fallbacks: make(map[Schema]Fallback)}
}

// RegisterFallback installs the text-extraction salvage hook for a schema.
func (p *Parser) RegisterFallback(schema Schema, fn Fallback) {
	p.fallbacks[schema] = fn
}

// Extract runs the strategy sequence over raw and returns the recovered
// object, the strategy that produced it and accumulated warnings.
func (p *Parser) Extract(raw string, schema Schema) *Outcome {
	out := &Outcome{}
	cleaned := stripFences(raw)
	if cleaned == "" {
		out.Warnings = append(out.Warnings, "empty reply")
		return p.textFallback(raw, schema, out)
	}

	if obj, ok := decodeObject(cleaned, schema); ok {
		return p.finish(raw, schema, obj, MethodDirect, out)
	}
	out.Warnings = append(out.Warnings, "direct parse failed")

	if span, ok := longestBalanced(cleaned, '{', '}'); ok {
		if obj, ok := decodeObject(span, schema); ok {
			return p.finish(raw, schema, obj, MethodExtracted, out)
		}
	}
	if span, ok := longestBalanced(cleaned, '[', ']'); ok {
		if obj, ok := decodeObject(span, schema); ok {
			return p.finish(raw, schema, obj, MethodExtracted, out)
		}
	}
	out.Warnings = append(out.Warnings, "no balanced JSON substring parsed")

	if obj, ok := decodeObject("{"+cleaned+"}", schema); ok {
		return p.finish(raw, schema, obj, MethodReconstructed, out)
	}
	if obj, ok := reconstructLines(cleaned); ok {
		return p.finish(raw, schema, obj, MethodReconstructed, out)
	}
	out.Warnings = append(out.Warnings, "reconstruction failed")

	return p.textFallback(raw, schema, out)
}

// finish validates required keys and falls back to text extraction when they
// are missing.
func (p *Parser) finish(raw string, schema Schema, obj map[string]any, method Method, out *Outcome) *Outcome {
	if missing := missingKeys(obj, schema); len(missing) > 0 {
		out.Warnings = append(out.Warnings,
			fmt.Sprintf("parsed object missing required keys: %s", strings.Join(missing, ", ")))
		return p.textFallback(raw, schema, out)
	}
	out.Parsed = obj
	out.Method = method
	return out
}

func (p *Parser) textFallback(raw string, schema Schema, out *Outcome) *Outcome {
	fn := p.fallbacks[schema]
	if fn == nil {
		return out
	}
	obj := fn(raw)
	if obj == nil {
		out.Warnings = append(out.Warnings, "text fallback declined")
		return out
	}
	out.Parsed = obj
	out.Method = MethodTextFallback
	out.Warnings = append(out.Warnings, "recovered via text fallback")
	return out
}

func missingKeys(obj map[string]any, schema Schema) []string {
	var missing []string
	for _, key := range requiredKeys[schema] {
		if _, ok := obj[key]; !ok {
			missing = append(missing, key)
		}
	}
	return missing
}

// decodeObject parses s into a generic object. A top-level array is accepted
// for the composition schema by treating it as the bare execution plan.
func decodeObject(s string, schema Schema) (map[string]any, bool) {
	if !gjson.Valid(s) {
		return nil, false
	}
	parsed := gjson.Parse(s)
	switch {
	case parsed.IsObject():
		obj, ok := parsed.Value().(map[string]any)
		return obj, ok
	case parsed.IsArray() && schema == SchemaComposition:
		return map[string]any{"execution_plan": parsed.Value()}, true
	default:
		return nil, false
	}
}

// stripFences trims whitespace and surrounding markdown code fences.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		s = s[idx+1:]
	} else {
		s = strings.TrimPrefix(s, "```")
	}
	if end := strings.LastIndex(s, "```"); end >= 0 {
		s = s[:end]
	}
	return strings.TrimSpace(s)
}

// longestBalanced returns the longest balanced open…close span in s that is
// valid JSON, honoring string literals and escapes.
func longestBalanced(s string, open, close byte) (string, bool) {
	var spans []string
	for i := 0; i < len(s); i++ {
		if s[i] != open {
			continue
		}
		depth, inStr, esc := 0, false, false
		for j := i; j < len(s); j++ {
			c := s[j]
			if inStr {
				switch {
				case esc:
					esc = false
				case c == '\\':
					esc = true
				case c == '"':
					inStr = false
				}
				continue
			}
			switch c {
			case '"':
				inStr = true
			case open:
				depth++
			case close:
				depth--
				if depth == 0 {
					spans = append(spans, s[i:j+1])
					i = j
					j = len(s) // break inner loop
				}
			}
		}
	}
	sort.Slice(spans, func(a, b int) bool { return len(spans[a]) > len(spans[b]) })
	for _, span := range spans {
		if gjson.Valid(span) {
			return span, true
		}
	}
	return "", false
}

var kvLine = regexp.MustCompile(`^\s*"?([A-Za-z_][A-Za-z0-9_]*)"?\s*:\s*(.+?),?\s*$`)

// reconstructLines rebuilds an object from line-by-line "key": value pairs.
// Values that are not standalone JSON are kept as trimmed strings.
func reconstructLines(s string) (map[string]any, bool) {
	obj := make(map[string]any)
	for _, line := range strings.Split(s, "\n") {
		m := kvLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		valStr := strings.TrimSpace(m[2])
		var v any
		if err := json.Unmarshal([]byte(valStr), &v); err != nil {
			v = strings.Trim(valStr, `"`)
		}
		obj[m[1]] = v
	}
	if len(obj) == 0 {
		return nil, false
	}
	return obj, true
}
