// Package lang implements Egg, a small embeddable scripting language.
//
// A program is a sequence of expressions. Every expression is a literal, a
// word naming a binding, or a call:
//
//	# comments run to end of line; commas are optional separators
//	define(greet, fn(name, concat("hello, ", name)))
//	println(greet("world"))
//
//	define(i, 0)
//	while(less_than(i, 3), set(i, add(i, 1)))
//
// Literals are double-quoted strings without escapes, signed decimal
// numbers, and True or False.
//
// # Evaluation
//
// Source is lexed ([Lex]), then parsed ([Parse]) into a [Tree]. A call whose
// target names a builtin [Operator] is bound to it at parse time; any other
// target is looked up as a user function when the call is evaluated.
//
// Builtins receive their arguments unevaluated and decide what to evaluate,
// which is how if, while and assert avoid evaluating branches they don't
// take.
//
// User functions are created by fn and stored in the [Extras] of the global
// [Scope]; the Function value bound to a name is only an index into that
// table. Calling one evaluates its arguments in the caller's frame and its
// body in a new frame whose parent is the caller's frame, so a function body
// sees the bindings of whoever called it.
//
// # Errors
//
// Every failure is an [*Error] derived from one of the package sentinels,
// such as [ErrUndefinedBinding] or [ErrUnbalancedBrackets]. Use errors.Is
// to classify them. Nothing in this package panics on bad input.
package lang
