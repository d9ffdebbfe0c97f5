package lang

// Builtins returns a new registry holding the default operator catalog.
//
// The registry is not shared; hosts may register or replace operators on the
// returned value before passing it to [WithRegistry].
func Builtins() *Registry {
	r := NewRegistry()

	for _, group := range [][]*Operator{
		variableOperators(),
		controlOperators(),
		arithmeticOperators(),
		comparisonOperators(),
		booleanOperators(),
		conversionOperators(),
		stringOperators(),
		functionOperators(),
		mapOperators(),
		consoleOperators(),
	} {
		for _, op := range group {
			r.Register(op)
		}
	}

	return r
}

// unbounded marks an operator without an upper argument limit.
const unbounded = -1
