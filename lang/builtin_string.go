package lang

import (
	"math"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

func stringOperators() []*Operator {
	upper := cases.Upper(language.Und)
	lower := cases.Lower(language.Und)

	return []*Operator{
		{
			Name:    "length",
			Aliases: []string{"string_length"},
			Doc:     "Return the number of characters in a String.",
			Params:  []string{"s"},
			Min:     1, Max: 1,
			Eval: func(in *Invocation) (Value, error) {
				s, err := in.Text(0)
				if err != nil {
					return Nil(), err
				}

				return Number(float64(utf8.RuneCountInString(s))), nil
			},
		},
		{
			Name:    "slice",
			Aliases: []string{"string_slice"},
			Doc:     "Return length characters of base from start; negative start counts from the end.",
			Params:  []string{"base", "start", "length"},
			Min:     3, Max: 3,
			Eval: func(in *Invocation) (Value, error) {
				base, err := in.Text(0)
				if err != nil {
					return Nil(), err
				}

				start, err := in.Number(1)
				if err != nil {
					return Nil(), err
				}

				n, err := in.Number(2)
				if err != nil {
					return Nil(), err
				}

				return String(substring(base, start, n)), nil
			},
		},
		{
			Name:    "concat",
			Aliases: []string{"string_concat"},
			Doc:     "Join Strings end to end.",
			Params:  []string{"...strings"},
			Min:     0, Max: unbounded,
			Eval: func(in *Invocation) (Value, error) {
				var sb strings.Builder

				for i := range in.Len() {
					s, err := in.Text(i)
					if err != nil {
						return Nil(), err
					}

					sb.WriteString(s)
				}

				return String(sb.String()), nil
			},
		},
		mapText("to_upper", []string{"string_upper", "string_to_upper"}, "Convert a String to upper case.", upper.String),
		mapText("to_lower", []string{"string_lower", "string_to_lower"}, "Convert a String to lower case.", lower.String),
		mapText("trim", []string{"string_trim"}, "Remove leading and trailing white space.", strings.TrimSpace),
	}
}

func mapText(name string, aliases []string, doc string, fn func(string) string) *Operator {
	return &Operator{
		Name:    name,
		Aliases: aliases,
		Doc:     doc,
		Params:  []string{"s"},
		Min:     1,
		Max:     1,
		Eval: func(in *Invocation) (Value, error) {
			s, err := in.Text(0)
			if err != nil {
				return Nil(), err
			}

			return String(fn(s)), nil
		},
	}
}

// substring returns up to n runes of s starting at rune start. A negative
// start counts back from the end. Out-of-range bounds are clamped and NaN
// counts as 0.
func substring(s string, start, n float64) string {
	r := []rune(s)
	size := len(r)

	lo := clampIndex(start, size)
	if lo < 0 {
		lo += size
	}

	lo = max(0, min(lo, size))
	end := lo + max(0, min(clampIndex(n, size), size-lo))

	return string(r[lo:end])
}

// clampIndex converts f to an int in [-size, size].
func clampIndex(f float64, size int) int {
	if math.IsNaN(f) {
		return 0
	}

	return int(math.Max(-float64(size), math.Min(f, float64(size))))
}
