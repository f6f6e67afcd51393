package translate

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

var codeFence = regexp.MustCompile("```(?:json)?\\s*")

// strips markdown code fences models wrap JSON in
func cleanJSONResponse(s string) string {
	s = codeFence.ReplaceAllString(strings.TrimSpace(s), "")
	return strings.TrimSpace(strings.ReplaceAll(s, "```", ""))
}

// escapeStrayBackslashes doubles backslashes that do not start a valid JSON
// escape, so ASS hard breaks like \N survive decoding literally.
func escapeStrayBackslashes(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' || i == len(s)-1 {
			b.WriteByte(s[i])
			continue
		}
		next := s[i+1]
		if !strings.ContainsRune(`"\/bfnrtu`, rune(next)) {
			b.WriteByte('\\')
		}
		b.WriteByte('\\')
		b.WriteByte(next)
		i++
	}
	return b.String()
}

// extractTranslationResults finds the first JSON value in text that decodes
// to a non-empty result list, either bare or under a wrapper key.
func extractTranslationResults(text string) ([]TranslationResult, error) {
	text = escapeStrayBackslashes(text)

	for i := 0; i < len(text); i++ {
		if text[i] != '[' && text[i] != '{' {
			continue
		}
		var raw json.RawMessage
		if err := json.NewDecoder(strings.NewReader(text[i:])).Decode(&raw); err != nil {
			continue
		}
		if results, ok := decodeResults(raw); ok {
			return results, nil
		}
	}
	return nil, fmt.Errorf("no valid translation JSON found in response")
}

var wrapperKeys = []string{"results", "translations", "data", "items"}

func decodeResults(raw json.RawMessage) ([]TranslationResult, bool) {
	if results, ok := decodeList(raw); ok {
		return results, true
	}

	var wrapper map[string]json.RawMessage
	if err := json.Unmarshal(raw, &wrapper); err != nil {
		return nil, false
	}
	for _, key := range wrapperKeys {
		if field, ok := wrapper[key]; ok {
			if results, ok := decodeList(field); ok {
				return results, true
			}
		}
	}
	for _, field := range wrapper {
		if results, ok := decodeList(field); ok {
			return results, true
		}
	}
	return nil, false
}

// a list counts only if at least one entry carries text
func decodeList(raw json.RawMessage) ([]TranslationResult, bool) {
	var results []TranslationResult
	if err := json.Unmarshal(raw, &results); err != nil {
		return nil, false
	}
	for _, r := range results {
		if r.Text != "" {
			return results, true
		}
	}
	return nil, false
}

func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
