package wflpattern

import (
	"slices"
)

// reservedNames cannot be used as pattern names: they are built-in
// classes or words of the surrounding language.
var reservedNames = map[string]bool{
	"url": true, "digit": true, "letter": true, "file": true, "database": true,
	"data": true, "date": true, "time": true, "text": true, "pattern": true,
	"character": true, "whitespace": true, "unicode": true, "category": true, "property": true,
	"script": true, "greedy": true, "lazy": true, "zero": true, "one": true,
	"any": true, "optional": true, "between": true, "start": true, "ahead": true,
	"behind": true, "not": true, "is": true, "than": true, "same": true,
	"greater": true, "less": true, "equal": true, "above": true, "below": true,
	"contains": true, "matches": true, "find": true, "replace": true, "split": true,
	"capture": true, "captured": true, "more": true, "exactly": true,
	"at": true, "least": true, "most": true, "then": true, "end": true, "as": true,
	"to": true, "from": true, "with": true, "and": true, "or": true, "create": true,
	"by": true, "followed": true, "of": true, "in": true, "if": true, "for": true,
	"each": true, "store": true, "display": true, "check": true, "otherwise": true,
	"digits": true, "letters": true,
}

// IsReservedName reports whether name cannot name a declared pattern.
func IsReservedName(name string) bool {
	return reservedNames[name]
}

// Library is an immutable set of named, compiled patterns read from
// declarations of the form
//
//	create pattern phone:
//	    capture { exactly 3 digit } as area_code "-" exactly 4 digit
//	end pattern
type Library struct {
	names    []string
	patterns map[string]*Pattern
}

// ParseLibrary reads every declaration in src. Each body is compiled when
// its declaration is read; the first error aborts the whole library and
// reports a position within src.
func ParseLibrary(src string, opts Options) (*Library, error) {
	toks, err := NewLexer(src).Tokens()
	if err != nil {
		return nil, err
	}

	lib := &Library{patterns: make(map[string]*Pattern)}
	i := 0
	for toks[i].Type != TokenEOF {
		decl := toks[i]
		if !isWordTok(decl, "create") || !isWordTok(toks[i+1], "pattern") {
			return nil, newSyntaxError(decl.Pos, decl.Text, "expected 'create pattern'")
		}
		i += 2

		nameTok := toks[i]
		if nameTok.Type != TokenWord {
			return nil, newSyntaxError(nameTok.Pos, nameTok.Text, "expected pattern name after 'create pattern'")
		}
		name := nameTok.Val
		if IsReservedName(name) {
			return nil, newSyntaxError(nameTok.Pos, name, "%q is a reserved word and cannot name a pattern", name)
		}
		if _, dup := lib.patterns[name]; dup {
			return nil, newSyntaxError(nameTok.Pos, name, "pattern %q is already declared", name)
		}
		i++

		colon := toks[i]
		if colon.Type != TokenColon {
			return nil, newSyntaxError(colon.Pos, colon.Text, "expected ':' after pattern name")
		}
		i++

		// The body runs up to the matching "end pattern".
		bodyStart := i
		for toks[i].Type != TokenEOF && !(isWordTok(toks[i], "end") && isWordTok(toks[i+1], "pattern")) {
			i++
		}
		if toks[i].Type == TokenEOF {
			return nil, newSyntaxError(decl.Pos, "create pattern", "expected 'end pattern' to close pattern %q", name)
		}
		endTok := toks[i]
		i += 2

		base := Position{Offset: colon.Pos.Offset + 1, Line: colon.Pos.Line, Column: colon.Pos.Column + 1}
		body := src[base.Offset:endTok.Pos.Offset]
		if bodyStart == i-2 {
			return nil, newSyntaxError(colon.Pos, name, "pattern %q has an empty body", name)
		}

		p, err := compileAt(body, base, opts)
		if err != nil {
			return nil, err
		}
		lib.names = append(lib.names, name)
		lib.patterns[name] = p
	}
	return lib, nil
}

func isWordTok(t Token, word string) bool {
	return t.Type == TokenWord && t.Val == word
}

// Lookup returns the named pattern.
func (l *Library) Lookup(name string) (*Pattern, bool) {
	p, ok := l.patterns[name]
	return p, ok
}

// Names returns the declared names in declaration order.
func (l *Library) Names() []string {
	return slices.Clone(l.names)
}

// Len returns the number of declared patterns.
func (l *Library) Len() int {
	return len(l.names)
}
