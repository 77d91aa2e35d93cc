package nutrition

import (
	"fmt"
	"strconv"
	"strings"
)

// CleanNumber extracts the magnitude from a unit-annotated string such as
// "250 kcal" or "12,5g". Everything except digits, dots and commas is dropped,
// then commas become dots.
//
// Known limitation: a thousands separator is indistinguishable from a decimal
// comma, so "1,234.5" turns into "1.234.5" and fails.
func CleanNumber(s string) (float64, error) {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9', r == '.':
			b.WriteRune(r)
		case r == ',':
			b.WriteByte('.')
		}
	}
	cleaned := b.String()
	if cleaned == "" {
		return 0, fmt.Errorf("%w: %q", ErrInvalidNumber, s)
	}
	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidNumber, s)
	}
	return f, nil
}

// ParseNutrientString splits "Iron: 2mg, Calcium: 150mg" into
// {"Iron": "2mg", "Calcium": "150mg"}. Commas inside parentheses do not split,
// only the first colon of a segment separates name from amount, and segments
// without a colon are dropped. Amounts are kept as display text.
func ParseNutrientString(s string) map[string]string {
	out := make(map[string]string)
	for _, seg := range splitTopLevel(s) {
		name, amount, ok := strings.Cut(seg, ":")
		if !ok {
			continue
		}
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		out[name] = strings.TrimSpace(amount)
	}
	return out
}

func splitTopLevel(s string) []string {
	var (
		parts []string
		depth int
		start int
	)
	for i, r := range s {
		switch r {
		case '(', '[':
			depth++
		case ')', ']':
			if depth > 0 {
				depth--
			}
		case ',', ';', '\n':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, s[start:])
}
