// Package wflpattern implements the WFL natural-language pattern language:
// a parser for patterns such as
//
//	capture { exactly 3 digit } as area_code then "-" then exactly 4 digit
//
// a compiler to a small instruction program, and a backtracking matcher
// with whole-string matching, search, replace and split operations.
//
// A compiled *Pattern is immutable and may be used from multiple
// goroutines at once.
package wflpattern

import (
	"fmt"
	"io"

	"github.com/wfl-lang/wflpattern/internal/prefilter"
)

// DefaultStepLimit is the backtracking budget of one match attempt when
// Options.StepLimit is not set.
const DefaultStepLimit = 1_000_000

// Options tunes compilation and matching.
type Options struct {
	// StepLimit bounds the instructions executed by one attempt.
	// Zero or negative means DefaultStepLimit.
	StepLimit int
}

func (o Options) stepLimit() int {
	if o.StepLimit <= 0 {
		return DefaultStepLimit
	}
	return o.StepLimit
}

// Pattern is a compiled pattern.
type Pattern struct {
	source string
	prog   *Prog
	names  []string // capture names; names[i] is capture i+1
	index  map[string]int
	limit  int

	// literal fast path
	literal   string
	isLiteral bool
	atStart   bool
	atEnd     bool

	anchored bool // matches can only start at offset 0
	filter   *prefilter.Prefilter
}

// Compile parses and compiles a pattern with default options.
func Compile(src string) (*Pattern, error) {
	return CompileWithOptions(src, Options{})
}

// CompileWithOptions parses and compiles a pattern.
func CompileWithOptions(src string, opts Options) (*Pattern, error) {
	return compileAt(src, Position{Line: 1, Column: 1}, opts)
}

// compileAt compiles src whose first byte sits at base in an enclosing
// document, so that errors point into that document.
func compileAt(src string, base Position, opts Options) (*Pattern, error) {
	parser := NewParserAt(src, base)
	node, err := parser.Parse()
	if err != nil {
		return nil, err
	}
	p, err := CompileNode(node, opts)
	if err != nil {
		return nil, err
	}
	p.source = src
	return p, nil
}

// CompileNode compiles a tree built by hand or by a Parser. The tree is
// not modified.
func CompileNode(node Node, opts Options) (*Pattern, error) {
	compiler := NewCompiler()
	prog, err := compiler.Compile(node)
	if err != nil {
		return nil, err
	}

	names := compiler.Names()
	index := make(map[string]int, len(names))
	for i, name := range names {
		index[name] = i + 1
	}

	p := &Pattern{
		source: FormatNode(node),
		prog:   prog,
		names:  names,
		index:  index,
		limit:  opts.stepLimit(),
	}

	simple := simplify(node)
	p.literal, p.atStart, p.atEnd, p.isLiteral = literalShape(simple)
	p.anchored = startsAnchored(simple)
	if !p.isLiteral && !p.anchored {
		if lits := requiredLiterals(simple); lits != nil {
			// A failed build only costs the optimisation.
			p.filter, _ = prefilter.New(lits)
		}
	}
	return p, nil
}

func MustCompile(src string) *Pattern {
	return MustCompileWithOptions(src, Options{})
}

// MustCompileWithOptions is like CompileWithOptions but panics on error.
// It serves generated code and package-level variables.
func MustCompileWithOptions(src string, opts Options) *Pattern {
	p, err := CompileWithOptions(src, opts)
	if err != nil {
		panic(fmt.Sprintf("wflpattern: Compile(%q): %v", src, err))
	}
	return p
}

// String returns the source text used to compile the pattern.
func (p *Pattern) String() string {
	return p.source
}

// Prog returns the compiled program.
func (p *Pattern) Prog() *Prog {
	return p.prog
}

// StepLimit returns the per-attempt step budget.
func (p *Pattern) StepLimit() int {
	return p.limit
}

// CaptureNames returns the capture names in declaration order.
func (p *Pattern) CaptureNames() []string {
	return append([]string(nil), p.names...)
}

// CaptureIndex returns the 1-based index of the named capture, or -1 if
// the pattern declares no such capture.
func (p *Pattern) CaptureIndex(name string) int {
	if i, ok := p.index[name]; ok {
		return i
	}
	return -1
}

// HasCapture reports whether the pattern declares the named capture.
func (p *Pattern) HasCapture(name string) bool {
	_, ok := p.index[name]
	return ok
}

// Matches reports whether the pattern matches the whole of text.
func (p *Pattern) Matches(text string) (bool, error) {
	return p.matchesInput(NewStringInput(text))
}

// MatchesReader reports whether the pattern matches all of r's content.
func (p *Pattern) MatchesReader(r io.Reader) (bool, error) {
	input, err := NewReaderInput(r)
	if err != nil {
		return false, err
	}
	return p.matchesInput(input)
}

func (p *Pattern) matchesInput(in Input) (bool, error) {
	if p.isLiteral {
		return in.Len() == len(p.literal) && in.HasPrefix(0, p.literal), nil
	}
	if p.filter != nil && !p.filter.IsMatch(in.Bytes()) {
		return false, nil
	}
	s := p.newScanner(in)
	defer s.close()
	m, err := s.attempt(0, true)
	return m != nil, err
}

// Contains reports whether the pattern matches anywhere in text.
func (p *Pattern) Contains(text string) (bool, error) {
	m, err := p.Find(text)
	return m != nil, err
}

// MatchAt attempts a match that starts exactly at byte offset pos.
// It returns nil when there is none.
func (p *Pattern) MatchAt(text string, pos int) (*Match, error) {
	if pos < 0 || pos > len(text) {
		return nil, fmt.Errorf("wflpattern: offset %d out of range [0, %d]", pos, len(text))
	}
	s := p.newScanner(NewStringInput(text))
	defer s.close()
	return s.attempt(pos, false)
}

// Find returns the leftmost match in text, or nil if there is none.
func (p *Pattern) Find(text string) (*Match, error) {
	return p.FindFrom(text, 0)
}

// FindFrom returns the leftmost match that starts at or after pos.
func (p *Pattern) FindFrom(text string, pos int) (*Match, error) {
	if pos < 0 || pos > len(text) {
		return nil, fmt.Errorf("wflpattern: offset %d out of range [0, %d]", pos, len(text))
	}
	s := p.newScanner(NewStringInput(text))
	defer s.close()
	return s.find(pos)
}

// FindAll returns successive non-overlapping matches. n < 0 means all.
func (p *Pattern) FindAll(text string, n int) ([]*Match, error) {
	if n == 0 {
		return nil, nil
	}
	var results []*Match
	err := p.each(NewStringInput(text), func(m *Match) bool {
		results = append(results, m)
		return n < 0 || len(results) < n
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

// each calls fn for every successive match until fn returns false.
// After a zero-length match the next search starts one rune later.
func (p *Pattern) each(in Input, fn func(*Match) bool) error {
	s := p.newScanner(in)
	defer s.close()

	n := in.Len()
	pos := 0
	for pos <= n {
		m, err := s.find(pos)
		if err != nil {
			return err
		}
		if m == nil {
			return nil
		}
		if !fn(m) {
			return nil
		}
		if m.End > m.Start {
			pos = m.End
			continue
		}
		// Zero-width match, advance by one rune
		_, w := in.Step(m.End)
		if w == 0 {
			return nil
		}
		pos = m.End + w
	}
	return nil
}

// scanner holds the per-operation state of a search: the pooled machine
// and the prefilter cursor.
type scanner struct {
	p   *Pattern
	in  Input
	m   *machine
	cur *prefilter.Cursor
}

func (p *Pattern) newScanner(in Input) *scanner {
	s := &scanner{p: p, in: in}
	if !p.isLiteral {
		s.m = getMachine(p.prog, in, p.limit)
	}
	if p.filter != nil {
		s.cur = p.filter.NewCursor(in.Bytes())
	}
	return s
}

func (s *scanner) close() {
	if s.m != nil {
		putMachine(s.m)
		s.m = nil
	}
}

// attempt runs the program anchored at pos.
func (s *scanner) attempt(pos int, whole bool) (*Match, error) {
	p := s.p
	if p.isLiteral {
		if (p.atStart && pos != 0) || !s.in.HasPrefix(pos, p.literal) {
			return nil, nil
		}
		end := pos + len(p.literal)
		if (whole || p.atEnd) && end != s.in.Len() {
			return nil, nil
		}
		return s.literalMatch(pos), nil
	}
	ok, err := s.m.run(pos, whole)
	if err != nil || !ok {
		return nil, err
	}
	return s.newMatch(), nil
}

// find returns the leftmost match starting at or after from.
func (s *scanner) find(from int) (*Match, error) {
	p := s.p
	n := s.in.Len()

	if p.isLiteral {
		switch {
		case p.atStart:
			if from > 0 {
				return nil, nil
			}
			return s.attempt(0, false)
		case p.atEnd:
			start := n - len(p.literal)
			if start < from {
				return nil, nil
			}
			return s.attempt(start, false)
		}
		idx := s.in.Index(p.literal, from)
		if idx < 0 {
			return nil, nil
		}
		return s.literalMatch(idx), nil
	}

	if p.anchored && from > 0 {
		return nil, nil
	}

	pos := from
	for pos <= n {
		if s.cur != nil && !s.cur.Viable(pos) {
			return nil, nil
		}
		m, err := s.attempt(pos, false)
		if err != nil || m != nil {
			return m, err
		}
		if p.anchored {
			break
		}
		_, w := s.in.Step(pos)
		if w == 0 {
			break
		}
		pos += w
	}
	return nil, nil
}

func (s *scanner) literalMatch(start int) *Match {
	return newMatchFromSpans(s.in, nil, []int{start, start + len(s.p.literal)})
}

func (s *scanner) newMatch() *Match {
	spans := make([]int, 2*s.p.prog.NumCap)
	copy(spans, s.m.regs)
	return newMatchFromSpans(s.in, s.p.names, spans)
}
