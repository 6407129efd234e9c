package wflpattern

import (
	"iter"
	"strings"
)

// Replace replaces every match in text with repl taken literally. The scan
// restarts after each match; after a zero-length match the following
// character is copied and the scan restarts past it. With no match the
// text is returned unchanged.
func (p *Pattern) Replace(text, repl string) (string, error) {
	return p.ReplaceFunc(text, func(*Match) string {
		return repl
	})
}

// ReplaceTemplate is like Replace but expands tmpl for each match:
// $0 is the whole match, $name and ${name} a named capture, $$ a dollar
// sign. Unknown or non-participating captures expand to nothing.
func (p *Pattern) ReplaceTemplate(text, tmpl string) (string, error) {
	return p.ReplaceFunc(text, func(m *Match) string {
		return m.Expand(tmpl)
	})
}

// ReplaceFunc replaces every match with the result of repl.
func (p *Pattern) ReplaceFunc(text string, repl func(*Match) string) (string, error) {
	var result strings.Builder
	lastEnd := 0
	matched := false

	err := p.each(NewStringInput(text), func(m *Match) bool {
		matched = true
		// Append text before match
		result.WriteString(text[lastEnd:m.Start])
		result.WriteString(repl(m))
		lastEnd = m.End
		return true
	})
	if err != nil {
		return "", err
	}
	if !matched {
		return text, nil
	}

	// Append remaining text
	result.WriteString(text[lastEnd:])
	return result.String(), nil
}

// Split returns the text between matches, including the text before the
// first and after the last. With no match it returns []string{text}.
func (p *Pattern) Split(text string) ([]string, error) {
	var parts []string
	for part, err := range p.SplitSeq(text) {
		if err != nil {
			return nil, err
		}
		parts = append(parts, part)
	}
	return parts, nil
}

// SplitSeq yields the pieces Split would return, lazily. A step-limit
// failure is yielded once as the final element.
func (p *Pattern) SplitSeq(text string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		lastEnd := 0
		stopped := false
		err := p.each(NewStringInput(text), func(m *Match) bool {
			if !yield(text[lastEnd:m.Start], nil) {
				stopped = true
				return false
			}
			lastEnd = m.End
			return true
		})
		if stopped {
			return
		}
		if err != nil {
			yield("", err)
			return
		}
		yield(text[lastEnd:], nil)
	}
}

// Expand returns tmpl with $0, $name, ${name} and $$ substituted from m.
func (m *Match) Expand(tmpl string) string {
	var expanded strings.Builder
	i := 0
	for i < len(tmpl) {
		if tmpl[i] != '$' {
			expanded.WriteByte(tmpl[i])
			i++
			continue
		}

		// Found $
		i++
		if i >= len(tmpl) {
			expanded.WriteByte('$')
			break
		}

		// Handle $$
		if tmpl[i] == '$' {
			expanded.WriteByte('$')
			i++
			continue
		}

		// Handle ${name}
		if tmpl[i] == '{' {
			end := strings.IndexByte(tmpl[i:], '}')
			if end < 0 {
				// Unclosed ${, treat as literal
				expanded.WriteString("${")
				i++
				continue
			}
			expanded.WriteString(m.group(tmpl[i+1 : i+end]))
			i += end + 1
			continue
		}

		// Handle $name (identifier) or $0
		nameStart := i
		for i < len(tmpl) && isIdentChar(tmpl[i]) {
			i++
		}
		if i > nameStart {
			expanded.WriteString(m.group(tmpl[nameStart:i]))
			continue
		}

		// Invalid $, treat as literal
		expanded.WriteByte('$')
	}

	return expanded.String()
}

func (m *Match) group(name string) string {
	if name == "0" {
		return m.Text
	}
	s, _ := m.Capture(name)
	return s
}

// isIdentChar returns true if c is a valid identifier character (letter, digit, underscore).
func isIdentChar(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') || c == '_'
}
