package wflpattern

import "slices"

// Match is one successful match. Offsets are byte offsets into the
// subject. A Match owns copies of its texts and does not refer back to
// the pattern or the subject.
type Match struct {
	Start int
	End   int
	Text  string

	names []string // capture names; names[i] is capture i+1
	spans []int    // 2*i, 2*i+1 hold capture i; -1 when it did not participate
	texts []string // texts[i] is the text of capture i
}

func newMatchFromSpans(in Input, names []string, spans []int) *Match {
	texts := make([]string, len(spans)/2)
	for i := range texts {
		if start, end := spans[2*i], spans[2*i+1]; start >= 0 && end >= 0 {
			texts[i] = in.Slice(start, end)
		}
	}
	return &Match{
		Start: spans[0],
		End:   spans[1],
		Text:  texts[0],
		names: names,
		spans: spans,
		texts: texts,
	}
}

// HasName reports whether the pattern declares a capture with this name,
// whether or not it took part in this match.
func (m *Match) HasName(name string) bool {
	return slices.Contains(m.names, name)
}

func (m *Match) index(name string) int {
	return slices.Index(m.names, name) + 1
}

// Span returns the offsets of the named capture. ok is false when the
// name is unknown or the capture did not participate.
func (m *Match) Span(name string) (start, end int, ok bool) {
	i := m.index(name)
	if i == 0 {
		return -1, -1, false
	}
	start, end = m.spans[2*i], m.spans[2*i+1]
	if start < 0 || end < 0 {
		return -1, -1, false
	}
	return start, end, true
}

// Capture returns the text of the named capture. Use HasName to tell an
// unknown name from a capture that did not participate.
func (m *Match) Capture(name string) (string, bool) {
	i := m.index(name)
	if i == 0 || m.spans[2*i] < 0 || m.spans[2*i+1] < 0 {
		return "", false
	}
	return m.texts[i], true
}

// Captures returns the participating captures by name.
func (m *Match) Captures() map[string]string {
	caps := make(map[string]string, len(m.names))
	for _, name := range m.names {
		if s, ok := m.Capture(name); ok {
			caps[name] = s
		}
	}
	return caps
}

// Len returns the length of the match in bytes.
func (m *Match) Len() int {
	return m.End - m.Start
}
