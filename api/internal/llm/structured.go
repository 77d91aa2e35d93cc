package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"nutrition-tracker/api/internal/nutrition"
	"nutrition-tracker/api/internal/util"
)

// ErrMalformedOutput means the model text held no decodable JSON object.
var ErrMalformedOutput = errors.New("llm: malformed structured output")

// ResponseSchema names one field the model has to return.
type ResponseSchema struct {
	Name        string
	Type        string
	Description string
}

// NutritionSchemas are the fields nutrition.RawAnswer is decoded from.
var NutritionSchemas = []ResponseSchema{
	{Name: "description", Type: "string", Description: "A cleaned up description of the food"},
	{Name: "calories", Type: "string", Description: "Estimated total calories as a number"},
	{Name: "macronutrients", Type: "dict", Description: "Macronutrients breakdown in grams with keys Protein, Carbohydrates, Fat, Fiber"},
	{Name: "micronutrients", Type: "dict", Description: `Key micronutrients with keys Vitamins and Minerals, each a "Name: amount, Name: amount" string with amounts in mg or mcg`},
}

// FormatInstructions tells the model to answer with a fenced JSON object
// holding exactly the given fields.
func FormatInstructions(schemas []ResponseSchema) string {
	var b strings.Builder
	b.WriteString("The output should be a markdown code snippet formatted in the following schema, ")
	b.WriteString("including the leading and trailing \"```json\" and \"```\":\n\n```json\n{\n")
	for i, s := range schemas {
		fmt.Fprintf(&b, "\t%q: %s  // %s", s.Name, s.Type, s.Description)
		if i < len(schemas)-1 {
			b.WriteByte(',')
		}
		b.WriteByte('\n')
	}
	b.WriteString("}\n```")
	return b.String()
}

// ParseStructured pulls the JSON object out of the model text and decodes it.
// Field presence is not checked here; that is nutrition.Normalize's job. A
// field of the wrong shape is returned as the *nutrition.AnalysisParseError
// the decoder reports.
func ParseStructured(text string) (nutrition.RawAnswer, error) {
	obj, ok := util.ExtractJSONObject(text)
	if !ok {
		return nutrition.RawAnswer{}, fmt.Errorf("%w: no JSON object in %q", ErrMalformedOutput, util.Truncate(text, 200))
	}
	var raw nutrition.RawAnswer
	if err := json.Unmarshal([]byte(obj), &raw); err != nil {
		var perr *nutrition.AnalysisParseError
		if errors.As(err, &perr) {
			return nutrition.RawAnswer{}, perr
		}
		return nutrition.RawAnswer{}, fmt.Errorf("%w: %v", ErrMalformedOutput, err)
	}
	return raw, nil
}
