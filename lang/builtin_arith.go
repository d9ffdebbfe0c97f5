package lang

import "math"

func arithmeticOperators() []*Operator {
	return []*Operator{
		fold("sum", "Add numbers; sum() is 0.", 0,
			func(a, b float64) float64 { return a + b }, "add"),
		fold("multiply", "Multiply numbers; multiply() is 1.", 1,
			func(a, b float64) float64 { return a * b }),
		binary("subtract", "Return a minus b.",
			func(a, b float64) float64 { return a - b }),
		binary("divide", "Return a divided by b.",
			func(a, b float64) float64 { return a / b }),
		binary("modulus", "Return the floating-point remainder of a divided by b.",
			math.Mod),
	}
}

// fold returns a variadic numeric operator reducing its arguments from
// identity.
func fold(
	name, doc string,
	identity float64,
	fn func(a, b float64) float64,
	aliases ...string,
) *Operator {
	return &Operator{
		Name:    name,
		Doc:     doc,
		Aliases: aliases,
		Params:  []string{"...numbers"},
		Min:     0,
		Max:     unbounded,
		Eval: func(in *Invocation) (Value, error) {
			acc := identity

			for i := range in.Len() {
				n, err := in.Number(i)
				if err != nil {
					return Nil(), err
				}

				acc = fn(acc, n)
			}

			return Number(acc), nil
		},
	}
}

// binary returns an operator over exactly two numbers.
func binary(name, doc string, fn func(a, b float64) float64) *Operator {
	return &Operator{
		Name:   name,
		Doc:    doc,
		Params: []string{"a", "b"},
		Min:    2,
		Max:    2,
		Eval: func(in *Invocation) (Value, error) {
			a, err := in.Number(0)
			if err != nil {
				return Nil(), err
			}

			b, err := in.Number(1)
			if err != nil {
				return Nil(), err
			}

			return Number(fn(a, b)), nil
		},
	}
}
