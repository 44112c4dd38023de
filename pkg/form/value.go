package form

import (
	"encoding/json"
	"errors"
	"strings"
)

// ErrInvalidShape is returned when a JSON field is neither a string nor an
// array of strings.
var ErrInvalidShape = errors.New("form: value must be a string or an array of strings")

// Value is a form field that may arrive as a single scalar or as an ordered
// sequence of candidates. HTML forms with duplicate input names submit
// repeated values under one name; Value collapses them deterministically
// before the domain layer ever sees them.
//
// The zero Value is "absent".
type Value struct {
	present bool
	scalar  bool
	values  []string
}

// Scalar wraps a single submitted value.
func Scalar(s string) Value {
	return Value{present: true, scalar: true, values: []string{s}}
}

// Sequence wraps an ordered list of candidate values.
func Sequence(vals ...string) Value {
	return Value{present: true, values: vals}
}

// FromPostForm builds a Value from url.Values semantics: a field submitted
// once is a scalar, a field submitted multiple times is a sequence.
func FromPostForm(vals []string) Value {
	switch len(vals) {
	case 0:
		return Value{}
	case 1:
		return Scalar(vals[0])
	default:
		return Sequence(vals...)
	}
}

// UnmarshalJSON accepts a closed set of shapes: null, a string, or an array
// of strings. Anything else is rejected so malformed payloads fail at the
// boundary instead of deep inside validation.
func (v *Value) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		*v = Value{}
		return nil
	}
	if strings.HasPrefix(trimmed, "\"") {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return ErrInvalidShape
		}
		*v = Scalar(s)
		return nil
	}
	if strings.HasPrefix(trimmed, "[") {
		var list []string
		if err := json.Unmarshal(data, &list); err != nil {
			return ErrInvalidShape
		}
		*v = Sequence(list...)
		return nil
	}
	return ErrInvalidShape
}

// Normalize collapses the value into a single canonical scalar.
//
// A sequence yields its first element whose trimmed form is non-empty,
// returned untrimmed; if no such element exists the result is absent. A
// scalar passes through unchanged (trimming is only used to test emptiness,
// so a scalar of blanks stays present). An absent value stays absent.
//
// Normalize is idempotent: wrapping its output in Scalar and normalizing
// again yields the same result.
func (v Value) Normalize() (string, bool) {
	if !v.present {
		return "", false
	}
	if v.scalar {
		s := v.values[0]
		return s, s != ""
	}
	for _, candidate := range v.values {
		if strings.TrimSpace(candidate) != "" {
			return candidate, true
		}
	}
	return "", false
}

// NormalizePtr is Normalize for nil-able storage fields: absent maps to nil.
func (v Value) NormalizePtr() *string {
	s, ok := v.Normalize()
	if !ok {
		return nil
	}
	return &s
}
