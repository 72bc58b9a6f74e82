package ipcam

import (
	"encoding/json"
	"strconv"
	"strings"
)

// ValueKind identifies which field of a Value is meaningful
type ValueKind int

const (
	KindText ValueKind = iota
	KindNumber
	KindBool
)

// String returns the kind name
func (k ValueKind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	default:
		return "text"
	}
}

// Value is a setting or sensor value as reported by the camera.
//
// The camera transmits every setting as a string; ParseValue recovers
// numbers and on/off switches from that text.
type Value struct {
	Kind   ValueKind
	Number float64
	Bool   bool
	Text   string
}

// Text returns a text Value
func Text(s string) Value { return Value{Kind: KindText, Text: s} }

// Number returns a numeric Value
func Number(f float64) Value { return Value{Kind: KindNumber, Number: f} }

// Bool returns a boolean Value
func Bool(b bool) Value { return Value{Kind: KindBool, Bool: b} }

// ParseValue coerces a raw device string.
//
// "on" and "off" become booleans, anything strconv.ParseFloat accepts
// (after trimming surrounding whitespace) becomes a number, and everything
// else is kept as text. Both checks look at the original string.
func ParseValue(raw string) Value {
	if raw == "on" || raw == "off" {
		return Bool(raw == "on")
	}
	if f, ok := parseNumber(raw); ok {
		return Number(f)
	}
	return Text(raw)
}

func parseNumber(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}
	// ParseFloat accepts Go hex floats ("0x1p-2"), which the camera never means.
	lower := strings.ToLower(strings.TrimLeft(s, "+-"))
	if strings.HasPrefix(lower, "0x") {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// String renders the value the way the camera expects it in a settings request
func (v Value) String() string {
	switch v.Kind {
	case KindBool:
		if v.Bool {
			return "on"
		}
		return "off"
	case KindNumber:
		return strconv.FormatFloat(v.Number, 'f', -1, 64)
	default:
		return v.Text
	}
}

// Equal reports whether two values have the same kind and content
func (v Value) Equal(other Value) bool {
	if v.Kind != other.Kind {
		return false
	}
	switch v.Kind {
	case KindBool:
		return v.Bool == other.Bool
	case KindNumber:
		return v.Number == other.Number
	default:
		return v.Text == other.Text
	}
}

// MarshalJSON encodes the value as a native JSON number, bool or string
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case KindBool:
		return json.Marshal(v.Bool)
	case KindNumber:
		return json.Marshal(v.Number)
	default:
		return json.Marshal(v.Text)
	}
}

// UnmarshalJSON decodes a JSON scalar. Strings are kept as text without coercion;
// numbers and booleans keep their JSON type.
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch t := raw.(type) {
	case float64:
		*v = Number(t)
	case bool:
		*v = Bool(t)
	case string:
		*v = Text(t)
	case nil:
		*v = Text("")
	default:
		*v = Text(string(data))
	}
	return nil
}

// ContainsValue reports whether values contains an element equal to v
func ContainsValue(values []Value, v Value) bool {
	for _, candidate := range values {
		if candidate.Equal(v) {
			return true
		}
	}
	return false
}
