package wflpattern

import (
	"errors"
	"fmt"
)

var (
	// ErrSyntax is matched by every *SyntaxError.
	ErrSyntax = errors.New("pattern syntax error")

	// ErrStepLimitExceeded reports that one match attempt ran out of
	// backtracking budget. It is distinct from a failed match.
	ErrStepLimitExceeded = errors.New("pattern step limit exceeded")
)

// SyntaxError describes a malformed pattern. It is returned by the parser
// and by the compiler's global checks; a pattern that fails is never
// partially compiled.
type SyntaxError struct {
	Pos   Position
	Token string
	Msg   string
}

func newSyntaxError(pos Position, token string, format string, args ...any) *SyntaxError {
	return &SyntaxError{Pos: pos, Token: token, Msg: fmt.Sprintf(format, args...)}
}

// Error implements the error interface
func (e *SyntaxError) Error() string {
	if e.Token != "" {
		return fmt.Sprintf("%s: %s (at %q)", e.Pos, e.Msg, e.Token)
	}
	return fmt.Sprintf("%s: %s", e.Pos, e.Msg)
}

func (e *SyntaxError) Is(target error) bool {
	return target == ErrSyntax
}

// StepLimitError is returned when an attempt exceeds its step budget.
type StepLimitError struct {
	Limit  int
	Offset int // start offset of the attempt that gave up
}

// Error implements the error interface
func (e *StepLimitError) Error() string {
	return fmt.Sprintf("pattern step limit of %d exceeded in attempt at offset %d", e.Limit, e.Offset)
}

// Unwrap returns ErrStepLimitExceeded
func (e *StepLimitError) Unwrap() error {
	return ErrStepLimitExceeded
}
