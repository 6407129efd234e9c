// Package prefilter rejects search positions that cannot start a match
// because none of a pattern's required literals occurs at or after them.
package prefilter

import (
	"errors"

	"github.com/coregx/ahocorasick"
)

// ErrNoLiterals is returned by New when there is nothing to search for.
var ErrNoLiterals = errors.New("prefilter: no literals")

// Prefilter finds occurrences of any of a fixed set of literals.
type Prefilter struct {
	ac       *ahocorasick.Automaton
	literals []string
}

// New builds a prefilter over literals. Empty literals are rejected since
// they occur everywhere and would make the filter useless.
func New(literals []string) (*Prefilter, error) {
	if len(literals) == 0 {
		return nil, ErrNoLiterals
	}
	builder := ahocorasick.NewBuilder()
	for _, lit := range literals {
		if lit == "" {
			return nil, ErrNoLiterals
		}
		builder.AddPattern([]byte(lit))
	}
	auto, err := builder.Build()
	if err != nil {
		return nil, err
	}
	return &Prefilter{ac: auto, literals: literals}, nil
}

// Literals returns the literal set the filter was built from.
func (p *Prefilter) Literals() []string {
	return p.literals
}

// Next returns the start offset of the leftmost literal occurrence that
// begins at or after at, or -1 when there is none.
func (p *Prefilter) Next(haystack []byte, at int) int {
	if at >= len(haystack) {
		return -1
	}
	if at < 0 {
		at = 0
	}
	m := p.ac.Find(haystack, at)
	if m == nil {
		return -1
	}
	return m.Start
}

// IsMatch reports whether any literal occurs in haystack.
func (p *Prefilter) IsMatch(haystack []byte) bool {
	return p.ac.IsMatch(haystack)
}

// Cursor tracks the prefilter state of one left-to-right scan so that the
// automaton is consulted again only once the scan passes the last known
// occurrence.
type Cursor struct {
	p        *Prefilter
	haystack []byte
	known    int
	done     bool
}

// NewCursor starts a scan over haystack.
func (p *Prefilter) NewCursor(haystack []byte) *Cursor {
	return &Cursor{p: p, haystack: haystack, known: -1}
}

// Viable reports whether a match could start at pos. Once it returns false
// every later position is also rejected.
func (c *Cursor) Viable(pos int) bool {
	if c.done {
		return false
	}
	if pos <= c.known {
		return true
	}
	c.known = c.p.Next(c.haystack, pos)
	if c.known < 0 {
		c.done = true
		return false
	}
	return true
}
