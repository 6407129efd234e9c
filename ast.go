package wflpattern

import (
	"fmt"
	"strings"
	"unicode"
)

// NodeType identifies the type of AST node.
type NodeType int

const (
	NodeLiteral NodeType = iota
	NodeCharClass
	NodeSequence
	NodeAlternate
	NodeQuantifier
	NodeGroup
	NodeAnchor
)

// Node is the base interface for AST nodes. Nodes are not modified once
// the parser has built them.
type Node interface {
	Type() NodeType
}

// Literal matches an exact run of characters.
type Literal struct {
	Text string
}

func (n *Literal) Type() NodeType { return NodeLiteral }

// Category is a named character category usable in a class.
type Category int

const (
	CategoryLetter     Category = iota // ASCII a-z, A-Z
	CategoryDigit                      // ASCII 0-9
	CategoryWhitespace                 // space, \t, \n, \r, \f, \v
	CategoryAny                        // any single character
)

func (c Category) String() string {
	switch c {
	case CategoryLetter:
		return "letter"
	case CategoryDigit:
		return "digit"
	case CategoryWhitespace:
		return "whitespace"
	case CategoryAny:
		return "character"
	}
	return fmt.Sprintf("Category(%d)", int(c))
}

func (c Category) contains(r rune) bool {
	switch c {
	case CategoryLetter:
		return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
	case CategoryDigit:
		return r >= '0' && r <= '9'
	case CategoryWhitespace:
		return r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '\f' || r == '\v'
	case CategoryAny:
		return true
	}
	return false
}

type ClassItemKind int

const (
	ClassCategory ClassItemKind = iota // one of the named categories
	ClassRune                          // a single literal character
	ClassTable                         // a union of unicode range tables
)

// ClassItem is one member of a character class union.
type ClassItem struct {
	Kind     ClassItemKind
	Category Category
	Rune     rune
	Tables   []*unicode.RangeTable
	Name     string // source form of a table item, e.g. `unicode script "Greek"`
}

func (it ClassItem) contains(r rune) bool {
	switch it.Kind {
	case ClassCategory:
		return it.Category.contains(r)
	case ClassRune:
		return it.Rune == r
	case ClassTable:
		return unicode.In(r, it.Tables...)
	}
	return false
}

func (it ClassItem) String() string {
	switch it.Kind {
	case ClassCategory:
		return it.Category.String()
	case ClassRune:
		return quote(string(it.Rune))
	case ClassTable:
		return it.Name
	}
	return "?"
}

// CharClass matches exactly one character belonging to any of its items.
type CharClass struct {
	Items []ClassItem
}

func (n *CharClass) Type() NodeType { return NodeCharClass }

func (n *CharClass) Contains(r rune) bool {
	for _, it := range n.Items {
		if it.contains(r) {
			return true
		}
	}
	return false
}

// Sequence matches its nodes in order with no gaps.
type Sequence struct {
	Nodes []Node
}

func (n *Sequence) Type() NodeType { return NodeSequence }

// Alternate matches the first of its branches that lets the rest of the
// pattern succeed, trying them in order.
type Alternate struct {
	Nodes []Node
}

func (n *Alternate) Type() NodeType { return NodeAlternate }

// Quantifier matches Body repeated Min..Max times, greedily.
type Quantifier struct {
	Body Node
	Min  int
	Max  int // -1 for unbounded
}

func (n *Quantifier) Type() NodeType { return NodeQuantifier }

// Group wraps a node. A named group records the span it matched.
type Group struct {
	Body Node
	Name string   // empty for a plain { } block
	Pos  Position // position of the name, for diagnostics
}

func (n *Group) Type() NodeType { return NodeGroup }

type AnchorKind int

const (
	AnchorStartOfText AnchorKind = iota
	AnchorEndOfText
)

// Anchor matches a position without consuming characters.
type Anchor struct {
	Kind AnchorKind
	Pos  Position
}

func (n *Anchor) Type() NodeType { return NodeAnchor }

// FormatNode renders a tree in pattern syntax. The output parses back to
// an equivalent tree.
func FormatNode(n Node) string {
	var sb strings.Builder
	formatNode(&sb, n)
	return sb.String()
}

func formatNode(sb *strings.Builder, n Node) {
	switch n := n.(type) {
	case *Literal:
		sb.WriteString(quote(n.Text))
	case *CharClass:
		for i, it := range n.Items {
			if i > 0 {
				sb.WriteString(" or ")
			}
			sb.WriteString(it.String())
		}
	case *Sequence:
		for i, c := range n.Nodes {
			if i > 0 {
				sb.WriteByte(' ')
			}
			formatNode(sb, c)
		}
	case *Alternate:
		for i, c := range n.Nodes {
			if i > 0 {
				sb.WriteString(" or ")
			}
			formatOperand(sb, c)
		}
	case *Quantifier:
		switch {
		case n.Min == 0 && n.Max == 1:
			sb.WriteString("optional ")
		case n.Min == 1 && n.Max == -1:
			sb.WriteString("one or more ")
		case n.Min == 0 && n.Max == -1:
			sb.WriteString("zero or more ")
		case n.Max == -1:
			fmt.Fprintf(sb, "at least %d ", n.Min)
		case n.Min == n.Max:
			fmt.Fprintf(sb, "exactly %d ", n.Min)
		default:
			fmt.Fprintf(sb, "between %d and %d ", n.Min, n.Max)
		}
		formatOperand(sb, n.Body)
	case *Group:
		if n.Name != "" {
			sb.WriteString("capture { ")
			formatNode(sb, n.Body)
			fmt.Fprintf(sb, " } as %s", n.Name)
			return
		}
		sb.WriteString("{ ")
		formatNode(sb, n.Body)
		sb.WriteString(" }")
	case *Anchor:
		if n.Kind == AnchorStartOfText {
			sb.WriteString("at start of text")
		} else {
			sb.WriteString("at end of text")
		}
	}
}

// formatOperand wraps n in a block when it would not read back as one unit.
func formatOperand(sb *strings.Builder, n Node) {
	switch n.(type) {
	case *Sequence, *Alternate, *Quantifier:
		sb.WriteString("{ ")
		formatNode(sb, n)
		sb.WriteString(" }")
	default:
		formatNode(sb, n)
	}
}

// quote renders s as a pattern string literal. Only the escapes the lexer
// understands are used; every other character is written as is.
func quote(s string) string {
	var sb strings.Builder
	sb.Grow(len(s) + 2)
	sb.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\t':
			sb.WriteString(`\t`)
		case '\r':
			sb.WriteString(`\r`)
		default:
			sb.WriteRune(r)
		}
	}
	sb.WriteByte('"')
	return sb.String()
}
