package lang

import (
	"cmp"
	"log/slog"
	"math"
	"strconv"
	"strings"
)

// Kind identifies the variant held by a [Value].
type Kind uint8

const (
	// KindNil is the absence of a value.
	KindNil Kind = iota
	// KindBoolean is True or False.
	KindBoolean
	// KindNumber is a float64.
	KindNumber
	// KindString is immutable text.
	KindString
	// KindFunction is an index into the function table.
	KindFunction
	// KindObject is an index into the map table.
	KindObject
)

// String returns a string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindNil:
		return "Nil"
	case KindBoolean:
		return "Boolean"
	case KindNumber:
		return "Number"
	case KindString:
		return "String"
	case KindFunction:
		return "Function"
	case KindObject:
		return "Object"
	default:
		return "Unknown"
	}
}

// Type tags returned by typeof.
const (
	TagNumber   = "__TYPE__NUMBER"
	TagString   = "__TYPE__STRING"
	TagNil      = "__CONSTANT__NIL"
	TagBoolean  = "__TYPE__BOOLEAN"
	TagFunction = "__TYPE__FUNCTION"
	TagObject   = "__TYPE__OBJECT"
)

// Value is an immutable runtime datum.
//
// The zero Value is Nil. Values are comparable with == and usable as Go map
// keys; Function and Object values carry only an index, never the data they
// refer to.
type Value struct {
	str  string
	num  float64
	idx  uint64
	kind Kind
}

// Nil returns the Nil value.
func Nil() Value { return Value{} }

// Number returns a Number value.
func Number(n float64) Value { return Value{kind: KindNumber, num: n} }

// Boolean returns a Boolean value.
func Boolean(b bool) Value {
	v := Value{kind: KindBoolean}
	if b {
		v.num = 1
	}

	return v
}

// String returns a String value.
func String(s string) Value { return Value{kind: KindString, str: s} }

// Function returns a reference to the function table entry at index.
func Function(index uint64) Value { return Value{kind: KindFunction, idx: index} }

// Object returns a reference to the map table entry at index.
func Object(index uint64) Value { return Value{kind: KindObject, idx: index} }

// Kind returns the variant held by v.
func (v Value) Kind() Kind { return v.kind }

// IsNil reports whether v is Nil.
func (v Value) IsNil() bool { return v.kind == KindNil }

// Number returns the numeric payload and whether v is a Number.
func (v Value) Number() (float64, bool) { return v.num, v.kind == KindNumber }

// Bool returns the boolean payload and whether v is a Boolean.
func (v Value) Bool() (bool, bool) { return v.num != 0, v.kind == KindBoolean }

// Text returns the string payload and whether v is a String.
func (v Value) Text() (string, bool) { return v.str, v.kind == KindString }

// Index returns the table index and whether v is a Function or Object.
func (v Value) Index() (uint64, bool) {
	return v.idx, v.kind == KindFunction || v.kind == KindObject
}

// IsPrimitive reports whether v may be used as a map key.
func (v Value) IsPrimitive() bool {
	switch v.kind {
	case KindNil, KindBoolean, KindNumber, KindString:
		return true
	default:
		return false
	}
}

// Truthy applies truthiness coercion: a non-zero Number or a true Boolean.
// The second result is false for kinds that have no truth value.
func (v Value) Truthy() (truth, ok bool) {
	switch v.kind {
	case KindNumber:
		return v.num != 0, true
	case KindBoolean:
		return v.num != 0, true
	default:
		return false, false
	}
}

// Equal reports structural equality.
func (v Value) Equal(w Value) bool { return v.Compare(w) == 0 }

// Compare defines a total order over all values: kinds are ordered
// Nil < Boolean < Number < String < Function < Object, then by payload.
// NaN sorts below every other number and equal to itself.
func (v Value) Compare(w Value) int {
	if c := cmp.Compare(v.kind, w.kind); c != 0 {
		return c
	}

	switch v.kind {
	case KindBoolean, KindNumber:
		return cmp.Compare(v.num, w.num)
	case KindString:
		return strings.Compare(v.str, w.str)
	case KindFunction, KindObject:
		return cmp.Compare(v.idx, w.idx)
	default:
		return 0
	}
}

// TypeTag returns the tag reported by typeof.
func (v Value) TypeTag() string {
	switch v.kind {
	case KindNumber:
		return TagNumber
	case KindString:
		return TagString
	case KindBoolean:
		return TagBoolean
	case KindFunction:
		return TagFunction
	case KindObject:
		return TagObject
	default:
		return TagNil
	}
}

// String renders v using the display rules shared by str and print.
func (v Value) String() string {
	switch v.kind {
	case KindNumber:
		return FormatNumber(v.num)
	case KindString:
		return v.str
	case KindBoolean:
		if v.num != 0 {
			return "True"
		}

		return "False"
	case KindFunction:
		return "Function<" + strconv.FormatUint(v.idx, 10) + ">"
	case KindObject:
		return "Object<" + strconv.FormatUint(v.idx, 10) + ">"
	default:
		return "Nil"
	}
}

// GoString renders v in a form that distinguishes strings from other kinds.
func (v Value) GoString() string {
	if v.kind == KindString {
		return strconv.Quote(v.str)
	}

	return v.String()
}

// LogValue implements slog.LogValuer.
func (v Value) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("kind", v.kind.String()),
		slog.String("value", v.GoString()),
	)
}

// Any converts v to a plain Go value: nil, bool, float64 or string.
// Function and Object values convert to their display string.
func (v Value) Any() any {
	switch v.kind {
	case KindNil:
		return nil
	case KindBoolean:
		return v.num != 0
	case KindNumber:
		return v.num
	default:
		return v.String()
	}
}

// FormatNumber renders n as the shortest decimal that parses back to n.
func FormatNumber(n float64) string {
	switch {
	case math.IsInf(n, 1):
		return "inf"
	case math.IsInf(n, -1):
		return "-inf"
	case math.IsNaN(n):
		return "NaN"
	}

	if abs := math.Abs(n); abs == 0 || (abs >= 1e-6 && abs < 1e21) {
		return strconv.FormatFloat(n, 'f', -1, 64)
	}

	return strconv.FormatFloat(n, 'g', -1, 64)
}
