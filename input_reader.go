package wflpattern

import (
	"bytes"
	"io"
	"unicode/utf8"
)

// BytesInput implements Input for a byte slice.
type BytesInput struct {
	data []byte
}

func NewBytesInput(b []byte) *BytesInput {
	return &BytesInput{data: b}
}

func (s *BytesInput) Step(pos int) (rune, int) {
	if pos >= len(s.data) {
		return 0, 0
	}
	r, w := utf8.DecodeRune(s.data[pos:])
	return r, w
}

func (s *BytesInput) Len() int {
	return len(s.data)
}

func (s *BytesInput) HasPrefix(pos int, lit string) bool {
	if pos > len(s.data) || len(s.data)-pos < len(lit) {
		return false
	}
	return string(s.data[pos:pos+len(lit)]) == lit
}

func (s *BytesInput) Index(lit string, pos int) int {
	if pos > len(s.data) {
		return -1
	}
	// Use fast byte search for the literal
	idx := bytes.Index(s.data[pos:], []byte(lit))
	if idx == -1 {
		return -1
	}
	return pos + idx
}

func (s *BytesInput) Slice(start, end int) string {
	return string(s.data[start:end])
}

func (s *BytesInput) Bytes() []byte {
	return s.data
}

// NewReaderInput reads r to the end. Backtracking needs random access, so
// the whole stream is held in memory.
func NewReaderInput(r io.Reader) (*BytesInput, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return &BytesInput{data: b}, nil
}
