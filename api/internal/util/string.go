package util

import (
	"strings"
	"unicode/utf8"
)

func StripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```JSON")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// ExtractJSONObject returns the first fenced ```json block of s, or failing that
// the span between the first '{' and the last '}'. Models often wrap the object in prose.
func ExtractJSONObject(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if i := strings.Index(s, "```"); i >= 0 {
		rest := s[i+3:]
		if nl := strings.IndexByte(rest, '\n'); nl >= 0 {
			// drop the info string ("json", "JSON", ...)
			rest = rest[nl+1:]
		}
		if j := strings.Index(rest, "```"); j >= 0 {
			if body := strings.TrimSpace(rest[:j]); strings.HasPrefix(body, "{") {
				return body, true
			}
		}
	}
	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start < 0 || end <= start {
		return "", false
	}
	return s[start : end+1], true
}

// Truncate shortens s to n bytes, plus an ellipsis, for log lines.
func Truncate(s string, n int) string {
	if len(s) > n {
		return CutUTF8(s, n) + "..."
	}
	return s
}

// CutUTF8 returns the longest prefix of s that fits in n bytes without
// splitting a multi-byte rune.
func CutUTF8(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
