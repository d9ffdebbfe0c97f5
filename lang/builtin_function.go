package lang

import (
	"log/slog"
	"strconv"
)

func functionOperators() []*Operator {
	return []*Operator{
		{
			Name:   "fn",
			Doc:    "Create a function from parameter names and a body.",
			Params: []string{"...params", "body"},
			Min:    1, Max: unbounded,
			Eval: func(in *Invocation) (Value, error) {
				args := in.Args()
				params := make([]string, 0, len(args)-1)
				seen := make(map[string]struct{}, len(args)-1)

				for i, arg := range args[:len(args)-1] {
					w, ok := arg.(*Word)
					if !ok {
						return Nil(), ErrInvalidFunctionDefinition.
							With(slog.Int("param", i+1), positionAttr(arg.Pos())).
							Detail("parameter " + strconv.Itoa(i+1) + " is not a name: " + arg.String())
					}

					if _, dup := seen[w.Name]; dup {
						return Nil(), ErrInvalidFunctionDefinition.
							With(slog.String(nameKey, w.Name), positionAttr(w.At)).
							Detail("duplicate parameter")
					}

					seen[w.Name] = struct{}{}
					params = append(params, w.Name)
				}

				def := &FunctionDef{
					Params: params,
					Body:   args[len(args)-1],
				}

				return in.Scope().Extras().DefineFunction(def), nil
			},
		},
	}
}
