// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package analyze

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ppetrou/thesis-publisher/pkg/types"
)

// wireResult mirrors the JSON object the prompt asks the model to return.
// Keywords is a raw message because models drift between a comma-separated
// string and a JSON array.
type wireResult struct {
	Title    string          `json:"title"`
	Author   string          `json:"author"`
	Keywords json.RawMessage `json:"keywords"`
	Summary  string          `json:"summary"`
}

// ParseContent turns the model's reply into an AnalysisResult. It first
// looks for a JSON object (the reply may wrap it in prose), then falls back
// to line-based "key: value" parsing. An error is returned only when
// neither form yields any field.
func ParseContent(content string) (types.AnalysisResult, error) {
	if obj, ok := extractJSON(content); ok {
		var wire wireResult
		if err := json.Unmarshal([]byte(obj), &wire); err == nil {
			return types.AnalysisResult{
				Title:    wire.Title,
				Author:   wire.Author,
				Summary:  wire.Summary,
				Keywords: parseKeywordField(wire.Keywords),
			}, nil
		}
	}

	if result, ok := parseTextResponse(content); ok {
		return result, nil
	}

	return types.AnalysisResult{}, fmt.Errorf("response contains none of the expected fields")
}

// extractJSON returns the substring from the first '{' to the last '}'.
func extractJSON(content string) (string, bool) {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start < 0 || end <= start {
		return "", false
	}
	return content[start : end+1], true
}

// parseKeywordField accepts either a JSON array of strings or a single
// comma-separated string.
func parseKeywordField(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}

	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return list
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return SplitKeywords(s)
	}

	return nil
}

// SplitKeywords splits a comma-separated keyword string, honoring double
// quotes around multi-word keywords, and strips the quotes.
func SplitKeywords(s string) []string {
	var keywords []string
	var current strings.Builder
	inQuotes := false

	flush := func() {
		k := strings.TrimSpace(current.String())
		k = strings.Trim(k, `"`)
		if k = strings.TrimSpace(k); k != "" {
			keywords = append(keywords, k)
		}
		current.Reset()
	}

	for _, r := range s {
		switch {
		case r == '"':
			inQuotes = !inQuotes
			current.WriteRune(r)
		case r == ',' && !inQuotes:
			flush()
		default:
			current.WriteRune(r)
		}
	}
	flush()

	return keywords
}

// parseTextResponse recovers fields from a non-JSON reply, one "key: value"
// line at a time. The summary keeps everything after its label so multi-line
// summaries survive.
func parseTextResponse(content string) (types.AnalysisResult, bool) {
	var result types.AnalysisResult
	found := false

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		label, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		label = strings.ToLower(strings.TrimSpace(strings.Trim(label, "*#0123456789. ")))
		value = strings.TrimSpace(value)

		switch {
		case strings.Contains(label, "title") && result.Title == "":
			result.Title = strings.Trim(value, `"`)
			found = true
		case strings.Contains(label, "author") && result.Author == "":
			result.Author = strings.Trim(value, `"`)
			found = true
		case strings.Contains(label, "keyword") && result.Keywords == nil:
			result.Keywords = SplitKeywords(value)
			found = true
		case strings.Contains(label, "summary") && result.Summary == "":
			rest := append([]string{value}, lines[i+1:]...)
			result.Summary = strings.TrimSpace(strings.Join(rest, "\n"))
			found = true
		}
	}

	return result, found
}
