// Package llmtext cleans up free-form model output. Models wrap JSON in
// markdown fences, chat around it, and leave trailing commas; the
// planner and the creative nodes both depend on getting a parseable
// object back anyway.
package llmtext

import (
	"regexp"
	"strings"
)

var (
	fencePattern         = regexp.MustCompile("(?s)```(?:json)?\\s*\\n?(.*?)```")
	trailingCommaPattern = regexp.MustCompile(`,\s*([}\]])`)
)

// ExtractObject pulls the first complete JSON object out of a model
// response and normalizes it. Returns "" when no object is present.
func ExtractObject(content string) string {
	// Prefer fenced blocks: when a model fences its JSON the chatter
	// around the fence often contains stray braces.
	for _, match := range fencePattern.FindAllStringSubmatch(content, -1) {
		if obj := firstBalancedObject(match[1]); obj != "" {
			return clean(obj)
		}
	}
	if obj := firstBalancedObject(content); obj != "" {
		return clean(obj)
	}
	return ""
}

// StripFences removes markdown code fences, returning the inner text of
// the first fenced block, or the trimmed input when there is none.
func StripFences(content string) string {
	if match := fencePattern.FindStringSubmatch(content); len(match) > 1 {
		return strings.TrimSpace(match[1])
	}
	return strings.TrimSpace(content)
}

// firstBalancedObject scans for the first '{' and returns the substring
// up to its matching '}', respecting strings and escapes.
func firstBalancedObject(s string) string {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		ch := s[i]
		if escaped {
			escaped = false
			continue
		}
		switch ch {
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
					return s[start : i+1]
				}
			}
		}
	}
	return ""
}

func clean(raw string) string {
	return trailingCommaPattern.ReplaceAllString(raw, "$1")
}
