package lang

func variableOperators() []*Operator {
	return []*Operator{
		{
			Name:   "define",
			Doc:    "Bind name to the value of expr in the current frame.",
			Params: []string{"name", "expr"},
			Min:    2, Max: 2,
			Eval: func(in *Invocation) (Value, error) {
				name, err := in.Name(0)
				if err != nil {
					return Nil(), err
				}

				v, err := in.Eval(1)
				if err != nil {
					return Nil(), err
				}

				if err := in.Scope().Insert(name, v); err != nil {
					return Nil(), WrapError(err).With(positionAttr(in.at))
				}

				return v, nil
			},
		},
		{
			Name:   "set",
			Doc:    "Rebind the nearest binding of name and return its previous value.",
			Params: []string{"name", "expr"},
			Min:    2, Max: 2,
			Eval: func(in *Invocation) (Value, error) {
				name, err := in.Name(0)
				if err != nil {
					return Nil(), err
				}

				v, err := in.Eval(1)
				if err != nil {
					return Nil(), err
				}

				prev, err := in.Scope().Update(name, v)
				if err != nil {
					return Nil(), WrapError(err).With(positionAttr(in.at))
				}

				return prev, nil
			},
		},
		{
			Name:   "delete",
			Doc:    "Remove the nearest binding of name and return its value.",
			Params: []string{"name"},
			Min:    1, Max: 1,
			Eval: func(in *Invocation) (Value, error) {
				name, err := in.Name(0)
				if err != nil {
					return Nil(), err
				}

				v, err := in.Scope().Delete(name)
				if err != nil {
					return Nil(), WrapError(err).With(positionAttr(in.at))
				}

				return v, nil
			},
		},
		{
			Name:   "exists",
			Doc:    "Report whether name is bound.",
			Params: []string{"name"},
			Min:    1, Max: 1,
			Eval: func(in *Invocation) (Value, error) {
				name, err := in.Name(0)
				if err != nil {
					return Nil(), err
				}

				return Boolean(in.Scope().Exists(name)), nil
			},
		},
		{
			Name:   "typeof",
			Doc:    "Return the type tag of a value.",
			Params: []string{"expr"},
			Min:    1, Max: 1,
			Eval: func(in *Invocation) (Value, error) {
				v, err := in.Eval(0)
				if err != nil {
					return Nil(), err
				}

				return String(v.TypeTag()), nil
			},
		},
	}
}
