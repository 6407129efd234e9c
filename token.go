package wflpattern

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

type TokenType int

const (
	TokenError  TokenType = iota
	TokenEOF
	TokenWord   // keyword or identifier
	TokenNumber // 12, -3
	TokenString // "text"
	TokenLBrace // {
	TokenRBrace // }
	TokenColon  // : (declarations only)
	TokenLParen // (
	TokenRParen // )
)

func (t TokenType) String() string {
	switch t {
	case TokenEOF:
		return "end of pattern"
	case TokenWord:
		return "word"
	case TokenNumber:
		return "number"
	case TokenString:
		return "string"
	case TokenLBrace:
		return "'{'"
	case TokenRBrace:
		return "'}'"
	case TokenColon:
		return "':'"
	case TokenLParen:
		return "'('"
	case TokenRParen:
		return "')'"
	}
	return "error"
}

// Position locates a token in pattern source. Line and Column are 1-based,
// Column counts runes.
type Position struct {
	Offset int
	Line   int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("line %d, column %d", p.Line, p.Column)
}

type Token struct {
	Type TokenType
	Text string // raw source text of the token
	Val  string // decoded value for strings, words and numbers
	Pos  Position
}

func (t Token) String() string {
	if t.Type == TokenEOF {
		return "end of pattern"
	}
	return t.Text
}

// Lexer splits pattern source into tokens.
type Lexer struct {
	input string
	pos   int
	line  int
	col   int
	base  Position
}

func NewLexer(input string) *Lexer {
	return NewLexerAt(input, Position{Line: 1, Column: 1})
}

// NewLexerAt returns a lexer whose positions are reported relative to base,
// for bodies embedded in a larger file.
func NewLexerAt(input string, base Position) *Lexer {
	if base.Line == 0 {
		base.Line = 1
	}
	if base.Column == 0 {
		base.Column = 1
	}
	return &Lexer{input: input, line: base.Line, col: base.Column, base: base}
}

// Tokens lexes the whole input. The last token is always TokenEOF.
func (l *Lexer) Tokens() ([]Token, error) {
	var toks []Token
	for {
		tok, err := l.Next()
		if err != nil {
			return nil, err
		}
		toks = append(toks, tok)
		if tok.Type == TokenEOF {
			return toks, nil
		}
	}
}

func (l *Lexer) Next() (Token, error) {
	l.skipSpace()
	start := l.position()
	if l.pos >= len(l.input) {
		return Token{Type: TokenEOF, Pos: start}, nil
	}

	ch := l.peek()
	switch {
	case ch == '{':
		l.consume()
		return Token{Type: TokenLBrace, Text: "{", Pos: start}, nil
	case ch == '}':
		l.consume()
		return Token{Type: TokenRBrace, Text: "}", Pos: start}, nil
	case ch == ':':
		l.consume()
		return Token{Type: TokenColon, Text: ":", Pos: start}, nil
	case ch == '(':
		l.consume()
		return Token{Type: TokenLParen, Text: "(", Pos: start}, nil
	case ch == ')':
		l.consume()
		return Token{Type: TokenRParen, Text: ")", Pos: start}, nil
	case ch == '"':
		return l.lexString(start)
	case isDigit(ch) || (ch == '-' && isDigit(l.peekAt(1))):
		begin := l.pos
		l.consume()
		for l.pos < len(l.input) && isDigit(l.peek()) {
			l.consume()
		}
		text := l.input[begin:l.pos]
		return Token{Type: TokenNumber, Text: text, Val: text, Pos: start}, nil
	case isWordStart(ch):
		begin := l.pos
		for l.pos < len(l.input) && isWordPart(l.peek()) {
			l.consume()
		}
		text := l.input[begin:l.pos]
		return Token{Type: TokenWord, Text: text, Val: text, Pos: start}, nil
	}

	return Token{}, newSyntaxError(start, string(ch), "unexpected character %q", ch)
}

func (l *Lexer) lexString(start Position) (Token, error) {
	begin := l.pos
	l.consume() // eat "
	var sb strings.Builder
	for {
		if l.pos >= len(l.input) {
			return Token{}, newSyntaxError(start, l.input[begin:], "unterminated string")
		}
		ch := l.consume()
		switch ch {
		case '"':
			text := l.input[begin:l.pos]
			return Token{Type: TokenString, Text: text, Val: sb.String(), Pos: start}, nil
		case '\n':
			return Token{}, newSyntaxError(start, l.input[begin:l.pos-1], "unterminated string")
		case '\\':
			if l.pos >= len(l.input) {
				return Token{}, newSyntaxError(start, l.input[begin:], "unterminated string")
			}
			esc := l.consume()
			switch esc {
			case 'n':
				sb.WriteRune('\n')
			case 't':
				sb.WriteRune('\t')
			case 'r':
				sb.WriteRune('\r')
			case '"', '\\':
				sb.WriteRune(esc)
			default:
				return Token{}, newSyntaxError(start, "\\"+string(esc), "unknown escape \\%c", esc)
			}
		default:
			sb.WriteRune(ch)
		}
	}
}

func (l *Lexer) skipSpace() {
	for l.pos < len(l.input) {
		ch := l.peek()
		switch {
		case unicode.IsSpace(ch):
			l.consume()
		case ch == '#' || (ch == '/' && l.peekAt(1) == '/'):
			for l.pos < len(l.input) && l.peek() != '\n' {
				l.consume()
			}
		default:
			return
		}
	}
}

func (l *Lexer) position() Position {
	return Position{Offset: l.base.Offset + l.pos, Line: l.line, Column: l.col}
}

// Helpers

func (l *Lexer) peek() rune {
	if l.pos >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.pos:])
	return r
}

// peekAt looks n runes ahead without consuming.
func (l *Lexer) peekAt(n int) rune {
	pos := l.pos
	for ; n > 0 && pos < len(l.input); n-- {
		_, w := utf8.DecodeRuneInString(l.input[pos:])
		pos += w
	}
	if pos >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[pos:])
	return r
}

func (l *Lexer) consume() rune {
	if l.pos >= len(l.input) {
		return 0
	}
	r, w := utf8.DecodeRuneInString(l.input[l.pos:])
	l.pos += w
	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return r
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func isWordStart(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isWordPart(r rune) bool { return isWordStart(r) || isDigit(r) }
