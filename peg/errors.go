package peg

import "fmt"

// LeftRecursionError reports a production that tried to match itself at the
// index it was already being evaluated at. The engine does not grow seeds;
// such productions must be rewritten as right recursion or repetition.
type LeftRecursionError struct {
	Goal string
}

func (e *LeftRecursionError) Error() string {
	return fmt.Sprintf("left recursion detected in production %q: rewrite it as right recursion or a repetition", e.Goal)
}

// UnknownProductionError reports a match attempt against a name the grammar
// does not define.
type UnknownProductionError struct {
	Name string
}

func (e *UnknownProductionError) Error() string {
	return fmt.Sprintf("unknown production %q", e.Name)
}
