package wflpattern

import (
	"strings"
	"unicode/utf8"
)

// Input abstracts the source of text to be matched.
// It allows the engine to work transparently with strings, byte slices, and io.Readers.
// Positions are byte offsets.
type Input interface {
	// Step returns the rune at the given position and its width in bytes.
	// If the position is at or beyond the end of the input, it returns (0, 0).
	Step(pos int) (rune, int)

	// Len returns the input length in bytes.
	Len() int

	// HasPrefix reports whether lit occurs at pos.
	HasPrefix(pos int, lit string) bool

	// Index returns the byte index of lit in the input at or after pos,
	// or -1 if not found.
	Index(lit string, pos int) int

	// Slice returns the text between two offsets.
	Slice(start, end int) string

	// Bytes returns the input as a byte slice. It must not be modified.
	Bytes() []byte
}

// StringInput implements Input for a string.
type StringInput struct {
	str string
	b   []byte
}

func NewStringInput(s string) *StringInput {
	return &StringInput{str: s}
}

func (s *StringInput) Step(pos int) (rune, int) {
	if pos >= len(s.str) {
		return 0, 0
	}
	r, w := utf8.DecodeRuneInString(s.str[pos:])
	return r, w
}

func (s *StringInput) Len() int {
	return len(s.str)
}

func (s *StringInput) HasPrefix(pos int, lit string) bool {
	return pos <= len(s.str) && strings.HasPrefix(s.str[pos:], lit)
}

func (s *StringInput) Index(lit string, pos int) int {
	if pos > len(s.str) {
		return -1
	}
	idx := strings.Index(s.str[pos:], lit)
	if idx == -1 {
		return -1
	}
	return pos + idx
}

func (s *StringInput) Slice(start, end int) string {
	return s.str[start:end]
}

// Bytes converts lazily; only the prefilter needs it.
func (s *StringInput) Bytes() []byte {
	if s.b == nil {
		s.b = []byte(s.str)
	}
	return s.b
}
