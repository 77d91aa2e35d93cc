package nutrition

import (
	"encoding/json"
	"math"
	"sort"
	"strings"
)

// RawAnswer is the structured answer decoded from the model text, before any
// cleaning. Nested keys follow the prompt: Protein, Carbohydrates, Fat, Fiber
// under macronutrients, Vitamins and Minerals under micronutrients.
type RawAnswer struct {
	Description    Value                `json:"description"`
	Calories       Value                `json:"calories"`
	Macronutrients Fields               `json:"macronutrients"`
	Micronutrients map[string]Nutrients `json:"micronutrients"`
}

// UnmarshalJSON decodes the top-level fields one at a time so that a field of
// the wrong shape comes back as an *AnalysisParseError naming it. Syntax
// errors are returned as they are.
func (r *RawAnswer) UnmarshalJSON(b []byte) error {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(b, &obj); err != nil {
		return err
	}
	var out RawAnswer
	fields := []struct {
		name string
		dst  any
	}{
		{"description", &out.Description},
		{"calories", &out.Calories},
		{"macronutrients", &out.Macronutrients},
		{"micronutrients", &out.Micronutrients},
	}
	for _, f := range fields {
		v, ok := lookup(obj, f.name)
		if !ok {
			continue
		}
		if err := json.Unmarshal(v, f.dst); err != nil {
			return &AnalysisParseError{Field: f.name, Reason: "unexpected type", Err: err}
		}
	}
	*r = out
	return nil
}

// Normalize validates raw in one place and converts it into a Record. Any
// absent, unparseable or negative field yields an *AnalysisParseError. It does no I/O.
func Normalize(raw RawAnswer) (Record, error) {
	var rec Record

	if raw.Description.Present() && !raw.Description.IsText() {
		return Record{}, &AnalysisParseError{Field: "description", Reason: "not text"}
	}
	rec.Description = strings.TrimSpace(raw.Description.Text())
	if rec.Description == "" {
		return Record{}, missing("description")
	}

	if !raw.Calories.Present() {
		return Record{}, missing("calories")
	}
	kcal, err := quantity("calories", raw.Calories)
	if err != nil {
		return Record{}, err
	}
	rec.Calories = kcal

	if raw.Macronutrients == nil {
		return Record{}, missing("macronutrients")
	}
	macros := []struct {
		key string
		dst *float64
	}{
		{"Protein", &rec.Macronutrients.Protein},
		{"Carbohydrates", &rec.Macronutrients.Carbohydrates},
		{"Fat", &rec.Macronutrients.Fat},
		{"Fiber", &rec.Macronutrients.Fiber},
	}
	for _, m := range macros {
		field := "macronutrients." + m.key
		v, ok := lookup(raw.Macronutrients, m.key)
		if !ok || !v.Present() {
			return Record{}, missing(field)
		}
		f, err := quantity(field, v)
		if err != nil {
			return Record{}, err
		}
		*m.dst = f
	}

	if raw.Micronutrients == nil {
		return Record{}, missing("micronutrients")
	}
	vitamins, ok := lookup(raw.Micronutrients, "Vitamins")
	if !ok || !vitamins.Present() {
		return Record{}, missing("micronutrients.Vitamins")
	}
	if !vitamins.Valid() {
		return Record{}, &AnalysisParseError{Field: "micronutrients.Vitamins", Reason: "unexpected value " + vitamins.s}
	}
	minerals, ok := lookup(raw.Micronutrients, "Minerals")
	if !ok || !minerals.Present() {
		return Record{}, missing("micronutrients.Minerals")
	}
	if !minerals.Valid() {
		return Record{}, &AnalysisParseError{Field: "micronutrients.Minerals", Reason: "unexpected value " + minerals.s}
	}
	rec.Micronutrients = Micronutrients{
		Vitamins: vitamins.Map(),
		Minerals: minerals.Map(),
	}

	return rec, nil
}

// quantity is a calorie or gram amount: a finite, non-negative number.
func quantity(field string, v Value) (float64, error) {
	f, err := v.Float()
	if err != nil {
		return 0, &AnalysisParseError{Field: field, Reason: "not a number", Err: err}
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, &AnalysisParseError{Field: field, Reason: "not finite"}
	}
	if f < 0 {
		return 0, &AnalysisParseError{Field: field, Reason: "negative"}
	}
	return f, nil
}

// lookup prefers the exact key and falls back to a case-insensitive match,
// since models drift between "Fiber" and "fiber". Among several
// case-insensitive matches the smallest key wins.
func lookup[T any](m map[string]T, key string) (T, bool) {
	if v, ok := m[key]; ok {
		return v, true
	}
	var matches []string
	for k := range m {
		if strings.EqualFold(strings.TrimSpace(k), key) {
			matches = append(matches, k)
		}
	}
	if len(matches) == 0 {
		var zero T
		return zero, false
	}
	sort.Strings(matches)
	return m[matches[0]], true
}
