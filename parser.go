package wflpattern

import (
	"strconv"
	"unicode"
	"unicode/utf8"
)

const (
	// maxRepeat bounds explicit repetition counts, as regexp/syntax does.
	maxRepeat = 1000
	// maxDepth bounds block and quantifier nesting.
	maxDepth = 64
)

// keywords of the pattern grammar. Words outside this set are reported as
// unknown keywords.
var keywords = map[string]bool{
	"at": true, "start": true, "end": true, "of": true, "text": true,
	"optional": true, "one": true, "zero": true, "or": true, "more": true,
	"between": true, "and": true, "exactly": true, "least": true, "most": true,
	"to": true, "capture": true, "as": true, "any": true, "then": true,
	"followed": true, "by": true, "letter": true, "letters": true, "digit": true,
	"digits": true, "whitespace": true, "character": true, "unicode": true,
	"script": true, "category": true, "property": true,
}

// categoryAliases maps the long category names accepted after
// `unicode category` to unicode.Categories keys.
var categoryAliases = map[string]string{
	"Letter":      "L",
	"Mark":        "M",
	"Number":      "N",
	"Punctuation": "P",
	"Symbol":      "S",
	"Separator":   "Z",
	"Other":       "C",
}

// unicodeProperties maps the names accepted after `unicode property` to
// the tables whose union defines them.
var unicodeProperties = map[string][]*unicode.RangeTable{
	"Alphabetic":   {unicode.Letter, unicode.Nl, unicode.Other_Alphabetic},
	"Uppercase":    {unicode.Upper, unicode.Other_Uppercase},
	"Lowercase":    {unicode.Lower, unicode.Other_Lowercase},
	"Numeric":      {unicode.Number},
	"Alphanumeric": {unicode.Letter, unicode.Nl, unicode.Other_Alphabetic, unicode.Number},
	"Control":      {unicode.Cc},
}

// Parser parses the body of a pattern declaration into an AST.
type Parser struct {
	input string
	base  Position
	toks  []Token
	pos   int
	depth int
	// Capture names in source order of their 'as' clauses, and where each was declared.
	names   []string
	namePos map[string]Position
}

func NewParser(input string) *Parser {
	return NewParserAt(input, Position{Line: 1, Column: 1})
}

// NewParserAt returns a parser that reports positions relative to base.
func NewParserAt(input string, base Position) *Parser {
	return &Parser{
		input:   input,
		base:    base,
		namePos: make(map[string]Position),
	}
}

// Parse returns the pattern as a top-level *Sequence.
func (p *Parser) Parse() (*Sequence, error) {
	toks, err := NewLexerAt(p.input, p.base).Tokens()
	if err != nil {
		return nil, err
	}
	p.toks = toks
	p.pos = 0
	p.depth = 0
	p.names = nil
	p.namePos = make(map[string]Position)

	if p.peek().Type == TokenEOF {
		return nil, newSyntaxError(p.peek().Pos, "", "empty pattern")
	}

	seq, err := p.parseSequence(true)
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); tok.Type != TokenEOF {
		return nil, newSyntaxError(tok.Pos, tok.Text, "unexpected %s", tok.Type)
	}
	return seq, nil
}

// Names returns the capture names seen by the last Parse in the order their
// 'as NAME' clauses appear, so an inner capture precedes its enclosing one.
// Compiled patterns number captures by where they open instead.
func (p *Parser) Names() []string {
	return p.names
}

// parseSequence handles implicit concatenation up to '}' or end of input.
func (p *Parser) parseSequence(top bool) (*Sequence, error) {
	var nodes []Node
	for {
		if p.closes(0) {
			break
		}

		// Natural-language connectives carry no meaning.
		if p.isWord("then") {
			p.next()
			continue
		}
		if p.isWord("followed") && p.isWordAt(1, "by") {
			p.next()
			p.next()
			continue
		}

		anchor, err := p.parseAnchor()
		if err != nil {
			return nil, err
		}
		if anchor != nil {
			switch anchor.Kind {
			case AnchorStartOfText:
				if !top || len(nodes) > 0 {
					return nil, newSyntaxError(anchor.Pos, "start of text", "'start of text' must be the first element of the pattern")
				}
			case AnchorEndOfText:
				if !top || p.peek().Type != TokenEOF {
					return nil, newSyntaxError(anchor.Pos, "end of text", "'end of text' must be the last element of the pattern")
				}
			}
			nodes = append(nodes, anchor)
			continue
		}

		node, err := p.parseItem()
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, node)
	}
	return &Sequence{Nodes: nodes}, nil
}

// parseAnchor recognises `[at] start of text` and `[at] end of text`.
// It returns nil without consuming anything when no anchor starts here.
func (p *Parser) parseAnchor() (*Anchor, error) {
	tok := p.peek()
	off := 0
	if p.isWord("at") {
		if !p.isWordAt(1, "start") && !p.isWordAt(1, "end") {
			return nil, nil
		}
		off = 1
	}
	var kind AnchorKind
	switch {
	case p.isWordAt(off, "start"):
		kind = AnchorStartOfText
	case p.isWordAt(off, "end"):
		kind = AnchorEndOfText
	default:
		return nil, nil
	}
	if !p.isWordAt(off+1, "of") || !p.isWordAt(off+2, "text") {
		word := p.peekAt(off)
		return nil, newSyntaxError(word.Pos, word.Text, "expected '%s of text'", word.Text)
	}
	for i := 0; i < off+3; i++ {
		p.next()
	}
	return &Anchor{Kind: kind, Pos: tok.Pos}, nil
}

// parseItem handles a quantified item or a union.
func (p *Parser) parseItem() (Node, error) {
	start := p.peek()
	q, err := p.parseQuantifier()
	if err != nil {
		return nil, err
	}
	if q == nil {
		node, err := p.parseUnion()
		if err != nil {
			return nil, err
		}
		return p.parsePostfix(node)
	}

	if p.closes(0) {
		return nil, newSyntaxError(start.Pos, start.Text, "quantifier has nothing to repeat")
	}
	if err := p.enter(start); err != nil {
		return nil, err
	}
	body, err := p.parseItem()
	p.depth--
	if err != nil {
		return nil, err
	}
	q.Body = body
	return q, nil
}

// parseQuantifier consumes a quantifier phrase. It returns nil when the
// next tokens are not one.
func (p *Parser) parseQuantifier() (*Quantifier, error) {
	tok := p.peek()
	var min, max int
	var err error

	switch {
	case p.isWord("optional"):
		p.next()
		return &Quantifier{Min: 0, Max: 1}, nil

	case p.isWord("one") || p.isWord("zero"):
		if !p.isWordAt(1, "or") || !p.isWordAt(2, "more") {
			return nil, newSyntaxError(tok.Pos, tok.Text, "unknown keyword %q (did you mean '%s or more'?)", tok.Text, tok.Text)
		}
		p.next()
		p.next()
		p.next()
		min, max = 1, -1
		if tok.Val == "zero" {
			min = 0
		}

	case p.isWord("between"):
		p.next()
		if min, err = p.parseBound("between"); err != nil {
			return nil, err
		}
		if !p.isWord("and") {
			next := p.peek()
			return nil, newSyntaxError(next.Pos, next.Text, "expected 'and' in 'between N and M'")
		}
		p.next()
		if max, err = p.parseBound("and"); err != nil {
			return nil, err
		}

	case p.isWord("exactly"):
		p.next()
		if min, err = p.parseBound("exactly"); err != nil {
			return nil, err
		}
		max = min

	case p.isWord("at") && p.isWordAt(1, "least"):
		p.next()
		p.next()
		if min, err = p.parseBound("at least"); err != nil {
			return nil, err
		}
		max = -1

	case p.isWord("at") && p.isWordAt(1, "most"):
		p.next()
		p.next()
		if max, err = p.parseBound("at most"); err != nil {
			return nil, err
		}

	case tok.Type == TokenNumber && p.isWordAt(1, "to"):
		if min, err = p.parseBound(""); err != nil {
			return nil, err
		}
		p.next() // to
		if max, err = p.parseBound("to"); err != nil {
			return nil, err
		}

	default:
		return nil, nil
	}

	if max != -1 && min > max {
		return nil, newSyntaxError(tok.Pos, tok.Text, "invalid repetition bounds: %d is greater than %d", min, max)
	}
	if p.isWord("of") {
		p.next()
	}
	return &Quantifier{Min: min, Max: max}, nil
}

// parseBound reads a repetition count following the word after.
func (p *Parser) parseBound(after string) (int, error) {
	tok := p.peek()
	if tok.Type != TokenNumber {
		return 0, newSyntaxError(tok.Pos, tok.Text, "expected number after '%s'", after)
	}
	p.next()
	n, err := strconv.Atoi(tok.Val)
	switch {
	case err != nil:
		return 0, newSyntaxError(tok.Pos, tok.Text, "invalid number")
	case n < 0:
		return 0, newSyntaxError(tok.Pos, tok.Text, "negative repetition bound")
	case n > maxRepeat:
		return 0, newSyntaxError(tok.Pos, tok.Text, "repetition bound exceeds %d", maxRepeat)
	}
	return n, nil
}

// parseUnion handles `a or b or c`. Unions of single characters collapse
// into one CharClass; anything longer becomes an Alternate.
func (p *Parser) parseUnion() (Node, error) {
	first, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	if !p.isWord("or") {
		return first, nil
	}

	members := []Node{first}
	for p.isWord("or") {
		or := p.next()
		if p.closes(0) {
			return nil, newSyntaxError(or.Pos, or.Text, "expected pattern element after 'or'")
		}
		m, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}
		members = append(members, m)
	}

	var items []ClassItem
	for _, m := range members {
		switch m := m.(type) {
		case *CharClass:
			items = append(items, m.Items...)
		case *Literal:
			if utf8.RuneCountInString(m.Text) != 1 {
				return &Alternate{Nodes: members}, nil
			}
			r, _ := utf8.DecodeRuneInString(m.Text)
			items = append(items, ClassItem{Kind: ClassRune, Rune: r})
		default:
			return &Alternate{Nodes: members}, nil
		}
	}
	return &CharClass{Items: items}, nil
}

// parsePrimary handles literals, classes, blocks and captures.
func (p *Parser) parsePrimary() (Node, error) {
	tok := p.peek()
	switch tok.Type {
	case TokenString:
		p.next()
		if tok.Val == "" {
			return nil, newSyntaxError(tok.Pos, tok.Text, "empty string literal")
		}
		return &Literal{Text: tok.Val}, nil

	case TokenNumber:
		p.next()
		return &Literal{Text: tok.Val}, nil

	case TokenLBrace:
		p.next()
		body, err := p.parseBlock(tok, "block", TokenRBrace)
		if err != nil {
			return nil, err
		}
		return &Group{Body: body}, nil

	case TokenLParen:
		p.next()
		body, err := p.parseBlock(tok, "group", TokenRParen)
		if err != nil {
			return nil, err
		}
		return &Group{Body: body}, nil

	case TokenWord:
		return p.parseWord()
	}
	return nil, newSyntaxError(tok.Pos, tok.Text, "unexpected %s", tok.Type)
}

func (p *Parser) parseWord() (Node, error) {
	tok := p.next()
	switch tok.Val {
	case "any":
		next := p.peek()
		if cls := classFor(next.Val); next.Type == TokenWord && cls != nil {
			p.next()
			return cls, nil
		}
		return nil, newSyntaxError(next.Pos, next.Text, "expected 'letter', 'digit', 'whitespace' or 'character' after 'any'")

	case "letter", "letters", "digit", "digits", "whitespace", "character":
		return classFor(tok.Val), nil

	case "unicode":
		return p.parseUnicode(tok)

	case "capture":
		return p.parseCapture(tok)
	}

	if keywords[tok.Val] {
		return nil, newSyntaxError(tok.Pos, tok.Text, "unexpected keyword %q", tok.Val)
	}
	return nil, newSyntaxError(tok.Pos, tok.Text, "unknown keyword %q", tok.Val)
}

func classFor(word string) *CharClass {
	var cat Category
	switch word {
	case "letter", "letters":
		cat = CategoryLetter
	case "digit", "digits":
		cat = CategoryDigit
	case "whitespace":
		cat = CategoryWhitespace
	case "character":
		cat = CategoryAny
	default:
		return nil
	}
	return &CharClass{Items: []ClassItem{{Kind: ClassCategory, Category: cat}}}
}

func (p *Parser) parseUnicode(tok Token) (Node, error) {
	next := p.next()
	if next.Type != TokenWord {
		return nil, newSyntaxError(next.Pos, next.Text, "expected 'letter', 'digit', 'script' or 'category' after 'unicode'")
	}

	item := ClassItem{Kind: ClassTable}
	switch next.Val {
	case "letter", "letters":
		item.Tables, item.Name = []*unicode.RangeTable{unicode.Letter}, "unicode letter"
	case "digit", "digits":
		item.Tables, item.Name = []*unicode.RangeTable{unicode.Digit}, "unicode digit"
	case "script", "category", "property":
		name := p.next()
		if name.Type != TokenString {
			return nil, newSyntaxError(name.Pos, name.Text, "expected quoted name after 'unicode %s'", next.Val)
		}
		var ok bool
		switch next.Val {
		case "script":
			var table *unicode.RangeTable
			table, ok = unicode.Scripts[name.Val]
			item.Tables = []*unicode.RangeTable{table}
		case "category":
			key := name.Val
			if alias, found := categoryAliases[key]; found {
				key = alias
			}
			var table *unicode.RangeTable
			table, ok = unicode.Categories[key]
			item.Tables = []*unicode.RangeTable{table}
		default:
			item.Tables, ok = unicodeProperties[name.Val]
		}
		if !ok {
			return nil, newSyntaxError(name.Pos, name.Text, "unknown unicode %s %q", next.Val, name.Val)
		}
		item.Name = "unicode " + next.Val + " " + quote(name.Val)
	default:
		return nil, newSyntaxError(next.Pos, next.Text, "expected 'letter', 'digit', 'script', 'category' or 'property' after 'unicode'")
	}
	return &CharClass{Items: []ClassItem{item}}, nil
}

// parseCapture handles `capture { ... } as name`; 'capture' is consumed.
func (p *Parser) parseCapture(tok Token) (Node, error) {
	open := p.peek()
	if open.Type != TokenLBrace {
		return nil, newSyntaxError(open.Pos, open.Text, "expected '{' after 'capture'")
	}
	p.next()
	body, err := p.parseBlock(tok, "capture block", TokenRBrace)
	if err != nil {
		return nil, err
	}

	if !p.isWord("as") {
		next := p.peek()
		return nil, newSyntaxError(next.Pos, next.Text, "expected 'as <name>' after capture block")
	}
	p.next()
	name := p.peek()
	if name.Type != TokenWord {
		return nil, newSyntaxError(name.Pos, name.Text, "expected capture name after 'as'")
	}
	p.next()
	if prev, dup := p.namePos[name.Val]; dup {
		return nil, newSyntaxError(name.Pos, name.Text, "duplicate capture name %q (first declared at %s)", name.Val, prev)
	}
	p.namePos[name.Val] = name.Pos
	p.names = append(p.names, name.Val)
	return &Group{Body: body, Name: name.Val, Pos: name.Pos}, nil
}

// parseBlock parses up to the close token; the opening one is consumed.
// open is the token reported when the block is never closed.
func (p *Parser) parseBlock(open Token, what string, closeType TokenType) (Node, error) {
	if err := p.enter(open); err != nil {
		return nil, err
	}
	defer func() { p.depth-- }()

	seq, err := p.parseSequence(false)
	if err != nil {
		return nil, err
	}
	switch tok := p.peek(); tok.Type {
	case closeType:
	case TokenEOF:
		return nil, newSyntaxError(open.Pos, open.Text, "unterminated %s", what)
	default:
		return nil, newSyntaxError(tok.Pos, tok.Text, "unexpected %s in %s opened at %s", tok.Type, what, open.Pos)
	}
	p.next()

	switch len(seq.Nodes) {
	case 0:
		return nil, newSyntaxError(open.Pos, open.Text, "empty %s", what)
	case 1:
		return seq.Nodes[0], nil
	}
	return seq, nil
}

// parsePostfix applies a trailing `exactly N` or `between N and M` to node.
// The phrase binds to node only when nothing that could be its own operand
// follows it; otherwise it is left to prefix the next item.
func (p *Parser) parsePostfix(node Node) (Node, error) {
	var width int
	switch {
	case p.isWord("exactly") && p.peekAt(1).Type == TokenNumber:
		width = 2
	case p.isWord("between") && p.peekAt(1).Type == TokenNumber &&
		p.isWordAt(2, "and") && p.peekAt(3).Type == TokenNumber:
		width = 4
	default:
		return node, nil
	}
	if !p.closes(width) && !p.isWordAt(width, "then") &&
		!(p.isWordAt(width, "followed") && p.isWordAt(width+1, "by")) &&
		!p.isWordAt(width, "end") && !(p.isWordAt(width, "at") && p.isWordAt(width+1, "end")) {
		return node, nil
	}

	q, err := p.parseQuantifier()
	if err != nil {
		return nil, err
	}
	q.Body = node
	return q, nil
}

// closes reports whether the token n ahead ends the enclosing sequence.
func (p *Parser) closes(n int) bool {
	switch p.peekAt(n).Type {
	case TokenEOF, TokenRBrace, TokenRParen:
		return true
	}
	return false
}

func (p *Parser) enter(tok Token) error {
	p.depth++
	if p.depth > maxDepth {
		return newSyntaxError(tok.Pos, tok.Text, "pattern nested more than %d levels deep", maxDepth)
	}
	return nil
}

// Helpers

func (p *Parser) peek() Token {
	return p.peekAt(0)
}

func (p *Parser) peekAt(n int) Token {
	if p.pos+n >= len(p.toks) {
		return p.toks[len(p.toks)-1] // EOF
	}
	return p.toks[p.pos+n]
}

func (p *Parser) next() Token {
	tok := p.peek()
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return tok
}

func (p *Parser) isWord(w string) bool {
	return p.isWordAt(0, w)
}

func (p *Parser) isWordAt(n int, w string) bool {
	tok := p.peekAt(n)
	return tok.Type == TokenWord && tok.Val == w
}
