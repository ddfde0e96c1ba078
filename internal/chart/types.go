// Package chart finds chartable data in assistant replies and renders it,
// either as a terminal chart or as a PNG/SVG image.
package chart

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Type is the kind of chart to draw
type Type string

const (
	TypeNone Type = ""
	TypePie  Type = "pie"
	TypeBar  Type = "bar"
	TypeLine Type = "line"
	TypeArea Type = "area"
)

// ParseType converts a user-supplied name ("pie", "Bar", ...) into a Type
func ParseType(s string) (Type, bool) {
	switch Type(strings.ToLower(strings.TrimSpace(s))) {
	case TypePie:
		return TypePie, true
	case TypeBar:
		return TypeBar, true
	case TypeLine:
		return TypeLine, true
	case TypeArea:
		return TypeArea, true
	}
	return TypeNone, false
}

// Value is one cell of a record: a number when the source token parsed as a
// float, otherwise the raw string with quotes removed.
type Value struct {
	Str   string
	Num   float64
	IsNum bool
}

// Number returns a numeric Value
func Number(f float64) Value {
	return Value{Num: f, IsNum: true, Str: strconv.FormatFloat(f, 'f', -1, 64)}
}

// String returns a textual Value
func String(s string) Value {
	return Value{Str: s}
}

// String implements fmt.Stringer
func (v Value) String() string {
	if v.IsNum {
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	}
	return v.Str
}

// MarshalJSON encodes numbers as JSON numbers and everything else as strings
func (v Value) MarshalJSON() ([]byte, error) {
	if v.IsNum {
		return json.Marshal(v.Num)
	}
	return json.Marshal(v.Str)
}

// Record is one data point keyed by column name
type Record map[string]Value

// Info describes a chart derived from a reply. Data is empty when the reply
// carries nothing chartable.
type Info struct {
	Type  Type     `json:"type"`
	Data  []Record `json:"data"`
	Keys  []string `json:"keys"`
	Title string   `json:"title,omitempty"`
	XKey  string   `json:"x_key"`
	YKey  string   `json:"y_key"`
}

// HasData reports whether there is anything to draw
func (i Info) HasData() bool {
	return len(i.Data) > 0
}

// EffectiveType returns the type used for rendering; unset means line
func (i Info) EffectiveType() Type {
	if i.Type == TypeNone {
		return TypeLine
	}
	return i.Type
}

// SeriesKeys returns every key except the x key, in column order
func (i Info) SeriesKeys() []string {
	keys := make([]string, 0, len(i.Keys))
	for _, k := range i.Keys {
		if k != i.XKey {
			keys = append(keys, k)
		}
	}
	return keys
}

// coerce turns a raw token into a Value: surrounding whitespace and one
// level of quotes are removed, then the rest must parse as a float.
func coerce(token string) Value {
	s := strings.TrimSpace(token)
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if (first == '"' || first == '\'') && first == last {
			s = strings.TrimSpace(s[1 : len(s)-1])
		}
	}
	if f, ok := parseDecimal(s); ok {
		return Value{Str: s, Num: f, IsNum: true}
	}
	return Value{Str: s}
}

// parseDecimal accepts finite decimal numbers only: no hex floats, NaN or Inf
func parseDecimal(s string) (float64, bool) {
	if strings.Contains(strings.ToLower(s), "0x") {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// splitList splits the inside of a [...] literal on commas that are not
// inside quotes.
func splitList(s string) []string {
	var (
		out   []string
		cur   strings.Builder
		quote rune
	)
	for _, r := range s {
		switch {
		case quote != 0:
			cur.WriteRune(r)
			if r == quote {
				quote = 0
			}
		case r == '"' || r == '\'':
			quote = r
			cur.WriteRune(r)
		case r == ',':
			out = append(out, cur.String())
			cur.Reset()
		default:
			cur.WriteRune(r)
		}
	}
	if strings.TrimSpace(cur.String()) != "" {
		out = append(out, cur.String())
	}
	return out
}
