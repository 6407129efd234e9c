package wflpattern

// MatchesBytes reports whether the pattern matches the whole of b.
func (p *Pattern) MatchesBytes(b []byte) (bool, error) {
	return p.matchesInput(NewBytesInput(b))
}

// FindBytes returns the leftmost match in b, or nil if there is none.
// The match copies its texts out of b.
func (p *Pattern) FindBytes(b []byte) (*Match, error) {
	s := p.newScanner(NewBytesInput(b))
	defer s.close()
	return s.find(0)
}

// FindAllBytes returns successive non-overlapping matches in b.
// n < 0 means return all matches.
func (p *Pattern) FindAllBytes(b []byte, n int) ([]*Match, error) {
	if n == 0 {
		return nil, nil
	}
	var results []*Match
	err := p.each(NewBytesInput(b), func(m *Match) bool {
		results = append(results, m)
		return n < 0 || len(results) < n
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

// ReplaceBytes replaces all matches in a byte slice with repl literally.
func (p *Pattern) ReplaceBytes(b, repl []byte) ([]byte, error) {
	var out []byte
	lastEnd := 0
	matched := false
	err := p.each(NewBytesInput(b), func(m *Match) bool {
		matched = true
		out = append(out, b[lastEnd:m.Start]...)
		out = append(out, repl...)
		lastEnd = m.End
		return true
	})
	if err != nil {
		return nil, err
	}
	if !matched {
		return b, nil
	}
	return append(out, b[lastEnd:]...), nil
}
