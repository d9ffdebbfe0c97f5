package lang

func comparisonOperators() []*Operator {
	return []*Operator{
		{
			Name:   "equals",
			Doc:    "Report whether a and b are the same value.",
			Params: []string{"a", "b"},
			Min:    2, Max: 2,
			Eval: func(in *Invocation) (Value, error) {
				a, b, err := evalPair(in)
				if err != nil {
					return Nil(), err
				}

				return Boolean(a.Equal(b)), nil
			},
		},
		{
			Name:   "not_equals",
			Doc:    "Report whether a and b differ.",
			Params: []string{"a", "b"},
			Min:    2, Max: 2,
			Eval: func(in *Invocation) (Value, error) {
				a, b, err := evalPair(in)
				if err != nil {
					return Nil(), err
				}

				return Boolean(!a.Equal(b)), nil
			},
		},
		relation("greater_than", "Report whether a > b.",
			func(a, b float64) bool { return a > b }),
		relation("less_than", "Report whether a < b.",
			func(a, b float64) bool { return a < b }),
		{
			Name:   "is_nil",
			Doc:    "Report whether expr is Nil.",
			Params: []string{"expr"},
			Min:    1, Max: 1,
			Eval: func(in *Invocation) (Value, error) {
				v, err := in.Eval(0)
				if err != nil {
					return Nil(), err
				}

				return Boolean(v.IsNil()), nil
			},
		},
	}
}

func relation(name, doc string, fn func(a, b float64) bool) *Operator {
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

			return Boolean(fn(a, b)), nil
		},
	}
}

func booleanOperators() []*Operator {
	return []*Operator{
		{
			Name:   "and",
			Doc:    "Logical conjunction of two Booleans.",
			Params: []string{"a", "b"},
			Min:    2, Max: 2,
			Eval: func(in *Invocation) (Value, error) {
				a, b, err := boolPair(in)
				if err != nil {
					return Nil(), err
				}

				return Boolean(a && b), nil
			},
		},
		{
			Name:   "or",
			Doc:    "Logical disjunction of two Booleans.",
			Params: []string{"a", "b"},
			Min:    2, Max: 2,
			Eval: func(in *Invocation) (Value, error) {
				a, b, err := boolPair(in)
				if err != nil {
					return Nil(), err
				}

				return Boolean(a || b), nil
			},
		},
		{
			Name:   "not",
			Doc:    "Logical negation of a Boolean.",
			Params: []string{"a"},
			Min:    1, Max: 1,
			Eval: func(in *Invocation) (Value, error) {
				a, err := in.Bool(0)
				if err != nil {
					return Nil(), err
				}

				return Boolean(!a), nil
			},
		},
	}
}

func evalPair(in *Invocation) (a, b Value, err error) {
	if a, err = in.Eval(0); err != nil {
		return Nil(), Nil(), err
	}

	if b, err = in.Eval(1); err != nil {
		return Nil(), Nil(), err
	}

	return a, b, nil
}

// boolPair evaluates both operands; and/or do not short-circuit.
func boolPair(in *Invocation) (a, b bool, err error) {
	if a, err = in.Bool(0); err != nil {
		return false, false, err
	}

	if b, err = in.Bool(1); err != nil {
		return false, false, err
	}

	return a, b, nil
}
