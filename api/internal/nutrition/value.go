package nutrition

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

type valueKind uint8

const (
	kindNone valueKind = iota
	kindNumber
	kindString
	kindOther
)

// Value is a scalar from a model answer: a JSON number, a unit string ("31g")
// or absent. Anything else is kept as raw text so the normalizer can name it.
type Value struct {
	kind valueKind
	num  float64
	str  string
}

func Number(f float64) Value { return Value{kind: kindNumber, num: f} }
func String(s string) Value  { return Value{kind: kindString, str: s} }

// Present reports whether the answer carried the field at all.
func (v Value) Present() bool { return v.kind != kindNone }

// Float returns numbers unchanged and runs strings through CleanNumber.
func (v Value) Float() (float64, error) {
	switch v.kind {
	case kindNumber:
		return v.num, nil
	case kindString:
		return CleanNumber(v.str)
	case kindOther:
		return 0, fmt.Errorf("%w: unexpected value %s", ErrInvalidNumber, v.str)
	}
	return 0, fmt.Errorf("%w: empty value", ErrInvalidNumber)
}

// Text renders the value for display maps.
func (v Value) Text() string {
	switch v.kind {
	case kindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case kindString, kindOther:
		return v.str
	}
	return ""
}

func (v *Value) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0 || bytes.Equal(b, []byte("null")):
		*v = Value{}
	case b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*v = String(s)
	default:
		var f float64
		if err := json.Unmarshal(b, &f); err == nil {
			*v = Number(f)
			return nil
		}
		*v = Value{kind: kindOther, str: string(b)}
	}
	return nil
}

func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case kindNumber:
		return json.Marshal(v.num)
	case kindString:
		return json.Marshal(v.str)
	case kindOther:
		return []byte(v.str), nil
	}
	return []byte("null"), nil
}

// Fields is the macronutrient object. Models sometimes answer with a
// "Protein: 31g, Fat: 3g" string instead of an object; both decode here.
type Fields map[string]Value

func (f *Fields) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*f = nil
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		out := make(Fields)
		for k, v := range ParseNutrientString(s) {
			out[k] = String(v)
		}
		*f = out
	default:
		var m map[string]Value
		if err := json.Unmarshal(b, &m); err != nil {
			return err
		}
		*f = m
	}
	return nil
}

// IsText reports whether the answer carried a JSON string.
func (v Value) IsText() bool { return v.kind == kindString }

// Nutrients is one micronutrient category: either an already parsed mapping
// or a "Name: amount, Name: amount" string. Any other JSON is kept as raw
// text and reported by Valid.
type Nutrients struct {
	set   bool
	isMap bool
	bad   bool
	m     map[string]string
	s     string
}

func NutrientMap(m map[string]string) Nutrients { return Nutrients{set: true, isMap: true, m: m} }
func NutrientText(s string) Nutrients           { return Nutrients{set: true, s: s} }

func (n Nutrients) Present() bool { return n.set }

func (n Nutrients) Valid() bool { return n.set && !n.bad }

// Map returns a mapping unchanged and parses text with ParseNutrientString.
// The result is never nil.
func (n Nutrients) Map() map[string]string {
	if n.isMap {
		if n.m == nil {
			return map[string]string{}
		}
		return n.m
	}
	return ParseNutrientString(n.s)
}

func (n *Nutrients) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*n = Nutrients{}
		return nil
	}
	switch b[0] {
	case '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*n = NutrientText(s)
	case '{':
		var raw map[string]Value
		if err := json.Unmarshal(b, &raw); err != nil {
			return err
		}
		m := make(map[string]string, len(raw))
		for k, v := range raw {
			m[strings.TrimSpace(k)] = strings.TrimSpace(v.Text())
		}
		*n = NutrientMap(m)
	case '[':
		// ["Iron: 2mg", "Calcium: 150mg"]
		var items []Value
		if err := json.Unmarshal(b, &items); err != nil {
			return err
		}
		texts := make([]string, 0, len(items))
		for _, it := range items {
			texts = append(texts, strings.TrimSpace(it.Text()))
		}
		*n = NutrientText(strings.Join(texts, ", "))
	default:
		*n = Nutrients{set: true, bad: true, s: string(b)}
	}
	return nil
}

func (n Nutrients) MarshalJSON() ([]byte, error) {
	if !n.set {
		return []byte("null"), nil
	}
	switch {
	case n.bad:
		return []byte(n.s), nil
	case n.isMap:
		return json.Marshal(n.m)
	}
	return json.Marshal(n.s)
}

// String is used in debug logs.
func (n Nutrients) String() string {
	if n.isMap {
		keys := make([]string, 0, len(n.m))
		for k := range n.m {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, k+": "+n.m[k])
		}
		return strings.Join(parts, ", ")
	}
	return n.s
}
