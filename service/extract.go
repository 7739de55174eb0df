package service

import (
	"encoding/json"
	"regexp"
	"strings"

	"kuhp-analyzer-backend/models"
)

// Extraction locates structured comparison data inside free-form model
// output. Strategies are pure text -> candidate functions tried in fixed
// order; the first candidate that parses and validates wins. All four
// failing yields nil, never an error: callers degrade to the raw text.

var (
	labeledFenceRe = regexp.MustCompile("(?s)```json\\s*(.*?)\\s*```")
	anyFenceRe     = regexp.MustCompile("(?s)```\\s*(.*?)\\s*```")
)

var extractionStrategies = []func(string) string{
	wholeText,
	labeledFence,
	anyFence,
	firstBraceSpan,
}

// ExtractComparison parses raw model output into ComparisonData, tolerating
// the usual wrapping conventions. Returns nil when nothing parseable and
// valid is found.
func ExtractComparison(raw string) *models.ComparisonData {
	for _, strategy := range extractionStrategies {
		candidate := strategy(raw)
		if candidate == "" {
			continue
		}
		var data models.ComparisonData
		if err := json.Unmarshal([]byte(candidate), &data); err != nil {
			continue
		}
		if !data.Validate() {
			continue
		}
		return &data
	}
	return nil
}

func wholeText(raw string) string {
	return strings.TrimSpace(raw)
}

func labeledFence(raw string) string {
	if m := labeledFenceRe.FindStringSubmatch(raw); len(m) > 1 {
		return m[1]
	}
	return ""
}

func anyFence(raw string) string {
	if m := anyFenceRe.FindStringSubmatch(raw); len(m) > 1 {
		return m[1]
	}
	return ""
}

// firstBraceSpan returns the first top-level brace-delimited span, tracking
// string literals so braces inside JSON strings do not unbalance the scan.
func firstBraceSpan(raw string) string {
	start := strings.IndexByte(raw, '{')
	if start < 0 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(raw); i++ {
		c := raw[i]
		if escaped {
			escaped = false
			continue
		}
		switch c {
		case '\\':
			if inString {
				escaped = true
			}
		case '"':
			inString = !inString
		case '{':
			if !inString {
				depth++
			}
		case '}':
			if !inString {
				depth--
				if depth == 0 {
					return raw[start : i+1]
				}
			}
		}
	}
	return ""
}
