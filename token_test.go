package wflpattern

import (
	"errors"
	"testing"
)

func TestLexerTokens(t *testing.T) {
	input := "capture { exactly 3 digit } as code # trailing\n\"a\\\"b\" -12 // more\n:"
	toks, err := NewLexer(input).Tokens()
	if err != nil {
		t.Fatalf("Tokens() error = %v", err)
	}

	want := []struct {
		typ  TokenType
		val  string
		line int
		col  int
	}{
		{TokenWord, "capture", 1, 1},
		{TokenLBrace, "", 1, 9},
		{TokenWord, "exactly", 1, 11},
		{TokenNumber, "3", 1, 19},
		{TokenWord, "digit", 1, 21},
		{TokenRBrace, "", 1, 27},
		{TokenWord, "as", 1, 29},
		{TokenWord, "code", 1, 32},
		{TokenString, `a"b`, 2, 1},
		{TokenNumber, "-12", 2, 8},
		{TokenColon, "", 3, 1},
		{TokenEOF, "", 3, 2},
	}
	if len(toks) != len(want) {
		t.Fatalf("Tokens() returned %d tokens; want %d: %v", len(toks), len(want), toks)
	}
	for i, w := range want {
		tok := toks[i]
		if tok.Type != w.typ || tok.Val != w.val || tok.Pos.Line != w.line || tok.Pos.Column != w.col {
			t.Errorf("token %d = %v %q at %s; want %v %q at line %d, column %d",
				i, tok.Type, tok.Val, tok.Pos, w.typ, w.val, w.line, w.col)
		}
	}
}

func TestLexerParens(t *testing.T) {
	toks, err := NewLexer(`("a")`).Tokens()
	if err != nil {
		t.Fatal(err)
	}
	want := []TokenType{TokenLParen, TokenString, TokenRParen, TokenEOF}
	if len(toks) != len(want) {
		t.Fatalf("Tokens() returned %d tokens; want %d", len(toks), len(want))
	}
	for i, w := range want {
		if toks[i].Type != w {
			t.Errorf("token %d = %v; want %v", i, toks[i].Type, w)
		}
	}
	if toks[2].Pos.Column != 5 {
		t.Errorf("')' column = %d; want 5", toks[2].Pos.Column)
	}
}

func TestLexerStringEscapes(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{`"plain"`, "plain"},
		{`"tab\there"`, "tab\there"},
		{`"nl\n"`, "nl\n"},
		{`"cr\r"`, "cr\r"},
		{`"back\\slash"`, `back\slash`},
		{`"日本"`, "日本"},
	}
	for _, tt := range tests {
		toks, err := NewLexer(tt.input).Tokens()
		if err != nil {
			t.Errorf("Tokens(%q) error = %v", tt.input, err)
			continue
		}
		if toks[0].Val != tt.want || toks[0].Text != tt.input {
			t.Errorf("Tokens(%q)[0] = %q (raw %q); want %q", tt.input, toks[0].Val, toks[0].Text, tt.want)
		}
	}
}

func TestLexerErrors(t *testing.T) {
	tests := []struct {
		input string
		col   int
	}{
		{`"open`, 1},
		{"\"line\nbreak\"", 1},
		{`"bad \q"`, 1},
		{`letter @`, 8},
		{`- 3`, 1},
	}
	for _, tt := range tests {
		_, err := NewLexer(tt.input).Tokens()
		var se *SyntaxError
		if !errors.As(err, &se) {
			t.Errorf("Tokens(%q) error = %v; want *SyntaxError", tt.input, err)
			continue
		}
		if se.Pos.Column != tt.col {
			t.Errorf("Tokens(%q) error at column %d; want %d", tt.input, se.Pos.Column, tt.col)
		}
		if !errors.Is(err, ErrSyntax) {
			t.Errorf("errors.Is(%v, ErrSyntax) = false", err)
		}
	}
}

func TestLexerBase(t *testing.T) {
	base := Position{Offset: 100, Line: 7, Column: 5}
	toks, err := NewLexerAt(" digit\n  letter", base).Tokens()
	if err != nil {
		t.Fatal(err)
	}
	if got := toks[0].Pos; got != (Position{Offset: 101, Line: 7, Column: 6}) {
		t.Errorf("first token at %+v; want offset 101, line 7, column 6", got)
	}
	if got := toks[1].Pos; got != (Position{Offset: 109, Line: 8, Column: 3}) {
		t.Errorf("second token at %+v; want offset 109, line 8, column 3", got)
	}
}
