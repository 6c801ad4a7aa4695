package abnf

import "fmt"

// SourceError reports ABNF source the bootstrap grammar could not consume
// to the end. Index is the farthest source position the engine examined,
// which is where the offending construct starts or shortly after.
type SourceError struct {
	Index int
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("invalid ABNF source near index %d", e.Index)
}

// RepetitionError reports repetition bounds the compiler does not lower.
type RepetitionError struct {
	Spec string
}

func (e *RepetitionError) Error() string {
	return fmt.Sprintf("repetition %q not implemented: supported forms are *, 1* and *1", e.Spec)
}
