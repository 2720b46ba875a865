package generate

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// MaxTaskListSize is the maximum number of tasks a generated task list can have.
	MaxTaskListSize = 7
	// DefaultEstimateHours is the estimation used when the generated one can't be parsed.
	DefaultEstimateHours = 1.0
)

// FallbackTaskList returns the task list used when nothing usable could be parsed.
func FallbackTaskList() []string {
	return []string{"Task 1", "Task 2", "Task 3", "Task 4", "Task 5"}
}

// ListFormat is an encoding the generator can use to answer with lists.
type ListFormat string

const (
	// ListFormatJSON is a JSON array of strings: ["a", "b"].
	ListFormatJSON ListFormat = "json"
	// ListFormatLiteral is a bracketed literal list: ['a', "b", c].
	ListFormatLiteral ListFormat = "literal"
)

var listDecoders = map[ListFormat]func(string) ([]string, error){
	ListFormatJSON:    decodeJSONList,
	ListFormatLiteral: decodeLiteralList,
}

// DefaultListFormats is the order used to auto detect list encodings.
func DefaultListFormats() []ListFormat {
	return []ListFormat{ListFormatJSON, ListFormatLiteral}
}

// ParseListFormats returns the list formats priority for a format selector
// (auto, json or literal).
func ParseListFormats(s string) ([]ListFormat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return DefaultListFormats(), nil
	case string(ListFormatJSON):
		return []ListFormat{ListFormatJSON}, nil
	case string(ListFormatLiteral):
		return []ListFormat{ListFormatLiteral}, nil
	}

	return nil, fmt.Errorf("unknown list format %q (must be: auto, json, literal)", s)
}

// A fence with an optional language tag only takes the tag when the line ends there,
// so inline fences like ```["a"]``` don't lose content.
var codeFenceRegexp = regexp.MustCompile("```(?:[A-Za-z0-9_+.-]*[ \t]*\r?\n)?")

// StripCodeFences removes markdown code fence markers from a generated text.
func StripCodeFences(s string) string {
	return strings.TrimSpace(codeFenceRegexp.ReplaceAllString(s, ""))
}

// ParseTaskList converts a generated text into a task list. It never returns an
// empty list, the returned bool is false when the fallback list was used.
func ParseTaskList(raw string, formats []ListFormat) ([]string, bool) {
	text := StripCodeFences(raw)

	items, err := decodeList(text, formats)
	if err != nil {
		items = splitLines(text)
	}

	items = cleanItems(items)
	if len(items) == 0 {
		return FallbackTaskList(), false
	}

	if len(items) > MaxTaskListSize {
		items = items[:MaxTaskListSize]
	}

	return items, true
}

// decodeList tries the formats in order. When every format fails and the list
// is surrounded by prose, the bracketed span of the text is tried as JSON.
func decodeList(text string, formats []ListFormat) ([]string, error) {
	if len(formats) == 0 {
		return nil, fmt.Errorf("no list formats configured")
	}

	var lastErr error
	for _, f := range formats {
		decode, ok := listDecoders[f]
		if !ok {
			lastErr = fmt.Errorf("unknown list format %q", f)
			continue
		}

		items, err := decode(text)
		if err != nil {
			lastErr = fmt.Errorf("%s: %w", f, err)
			continue
		}

		return items, nil
	}

	// Bare words inside brackets are common in prose, only strict JSON is extracted.
	if span, ok := bracketSpan(text); ok && span != text {
		if items, err := decodeJSONList(span); err == nil {
			return items, nil
		}
	}

	return nil, lastErr
}

func decodeJSONList(s string) ([]string, error) {
	var items []string
	if err := json.Unmarshal([]byte(s), &items); err != nil {
		return nil, err
	}

	return items, nil
}

// decodeLiteralList decodes bracketed lists using YAML flow sequences, these accept
// double and single quoted strings as well as bare words. Lists YAML can't read as
// plain strings (e.g: [Step 1: design, Step 2: build]) are split on commas.
func decodeLiteralList(s string) ([]string, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "[") || !strings.HasSuffix(s, "]") {
		return nil, fmt.Errorf("not a bracketed list")
	}

	items, err := decodeYAMLFlowList(s)
	if err != nil {
		return splitBracketedList(s)
	}

	return items, nil
}

func decodeYAMLFlowList(s string) ([]string, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(s), &doc); err != nil {
		return nil, err
	}

	if doc.Kind != yaml.DocumentNode || len(doc.Content) != 1 || doc.Content[0].Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("not a list")
	}

	seq := doc.Content[0]
	items := make([]string, 0, len(seq.Content))
	for _, n := range seq.Content {
		if n.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("list item at line %d is not a scalar", n.Line)
		}
		items = append(items, n.Value)
	}

	return items, nil
}

func splitBracketedList(s string) ([]string, error) {
	body := s[1 : len(s)-1]
	if strings.ContainsAny(body, "[]") {
		return nil, fmt.Errorf("nested lists are not supported")
	}

	parts := strings.Split(body, ",")
	items := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if len(p) >= 2 && (p[0] == '"' || p[0] == '\'') && p[len(p)-1] == p[0] {
			p = p[1 : len(p)-1]
		}
		items = append(items, p)
	}

	return items, nil
}

func bracketSpan(s string) (string, bool) {
	start := strings.Index(s, "[")
	end := strings.LastIndex(s, "]")
	if start < 0 || end <= start {
		return "", false
	}

	return s[start : end+1], true
}

func splitLines(s string) []string {
	var items []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "```") {
			continue
		}
		items = append(items, line)
	}

	return items
}

func cleanItems(items []string) []string {
	cleaned := make([]string, 0, len(items))
	for _, it := range items {
		it = strings.TrimSpace(it)
		if it == "" {
			continue
		}
		cleaned = append(cleaned, it)
	}

	return cleaned
}

// ParseHours parses a generated estimation in hours. Only finite and non negative
// numbers are valid.
func ParseHours(raw string) (float64, error) {
	text := StripCodeFences(raw)

	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", text)
	}

	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0, fmt.Errorf("%q is not a valid amount of hours", text)
	}

	return v, nil
}
