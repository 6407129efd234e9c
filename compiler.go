package wflpattern

import (
	"unicode/utf8"
)

// maxInsts bounds the size of a compiled program.
const maxInsts = 100000

// Compiler compiles an AST into a VM Program.
type Compiler struct {
	insts []Inst
	names []string
	index map[string]int
	// next free loop register
	reg int
	err error
}

func NewCompiler() *Compiler {
	return &Compiler{}
}

// Compile validates root, assigns capture indices in declaration order and
// lowers the tree to a program.
func (c *Compiler) Compile(root Node) (*Prog, error) {
	c.insts = nil // reset
	c.names = nil
	c.index = make(map[string]int)
	c.err = nil

	if err := c.validate(root, true); err != nil {
		return nil, err
	}
	root = simplify(root)

	numCap := len(c.names) + 1
	c.reg = 2 * numCap

	// Implicit capture 0 (whole match)
	// Save(0) -> Body -> Save(1) -> Match
	c.emit(Inst{Op: OpSave, Idx: 0})
	c.compileNode(root)
	c.emit(Inst{Op: OpSave, Idx: 1})
	c.emit(Inst{Op: OpMatch})
	if c.err != nil {
		return nil, c.err
	}

	return &Prog{
		Insts:   c.insts,
		Start:   0,
		NumCap:  numCap,
		NumRegs: c.reg,
	}, nil
}

// Names returns the capture names in index order (index 1 first).
func (c *Compiler) Names() []string {
	return c.names
}

// validate checks the invariants that are not visible to a single node:
// unique capture names and anchor placement.
func (c *Compiler) validate(n Node, top bool) error {
	switch n := n.(type) {
	case *Literal:
		return nil
	case *CharClass:
		if len(n.Items) == 0 {
			return newSyntaxError(Position{}, "", "empty character class")
		}
	case *Sequence:
		for i, child := range n.Nodes {
			if a, ok := child.(*Anchor); ok {
				if err := checkAnchor(a, top, i == 0, i == len(n.Nodes)-1); err != nil {
					return err
				}
				continue
			}
			if err := c.validate(child, false); err != nil {
				return err
			}
		}
	case *Alternate:
		if len(n.Nodes) == 0 {
			return newSyntaxError(Position{}, "", "empty alternation")
		}
		for _, child := range n.Nodes {
			if err := c.validate(child, false); err != nil {
				return err
			}
		}
	case *Quantifier:
		if n.Min < 0 || n.Max < -1 || (n.Max != -1 && n.Min > n.Max) {
			return newSyntaxError(Position{}, "", "invalid repetition bounds %d..%d", n.Min, n.Max)
		}
		if n.Body == nil {
			return newSyntaxError(Position{}, "", "quantifier has nothing to repeat")
		}
		return c.validate(n.Body, false)
	case *Group:
		if n.Name != "" {
			if _, dup := c.index[n.Name]; dup {
				return newSyntaxError(n.Pos, n.Name, "duplicate capture name %q", n.Name)
			}
			c.names = append(c.names, n.Name)
			c.index[n.Name] = len(c.names)
		}
		if n.Body == nil {
			return newSyntaxError(n.Pos, n.Name, "empty group")
		}
		return c.validate(n.Body, false)
	case *Anchor:
		return checkAnchor(n, top, true, true)
	case nil:
		return newSyntaxError(Position{}, "", "empty pattern")
	}
	return nil
}

func checkAnchor(a *Anchor, top, first, last bool) error {
	switch {
	case a.Kind == AnchorStartOfText && !(top && first):
		return newSyntaxError(a.Pos, "start of text", "'start of text' must be the first element of the pattern")
	case a.Kind == AnchorEndOfText && !(top && last):
		return newSyntaxError(a.Pos, "end of text", "'end of text' must be the last element of the pattern")
	}
	return nil
}

func (c *Compiler) emit(i Inst) int {
	if len(c.insts) >= maxInsts {
		if c.err == nil {
			c.err = newSyntaxError(Position{}, "", "pattern too large: more than %d instructions", maxInsts)
		}
		return len(c.insts) - 1
	}
	c.insts = append(c.insts, i)
	return len(c.insts) - 1
}

func (c *Compiler) compileNode(node Node) {
	if c.err != nil {
		return
	}
	switch n := node.(type) {
	case *Literal:
		if utf8.RuneCountInString(n.Text) == 1 {
			r, _ := utf8.DecodeRuneInString(n.Text)
			c.emit(Inst{Op: OpRune, Val: r})
			return
		}
		if n.Text != "" {
			c.emit(Inst{Op: OpString, Str: n.Text})
		}

	case *CharClass:
		c.emit(Inst{Op: OpClass, Class: n})

	case *Sequence:
		for _, child := range n.Nodes {
			c.compileNode(child)
		}

	case *Alternate:
		// split L1, next; L1: a; jmp end; next: split L2, next2; ...; last branch
		var jumps []int
		for i, branch := range n.Nodes {
			if i == len(n.Nodes)-1 {
				c.compileNode(branch)
				break
			}
			split := c.emit(Inst{Op: OpSplit})
			c.insts[split].Out = len(c.insts)
			c.compileNode(branch)
			jumps = append(jumps, c.emit(Inst{Op: OpJmp}))
			c.insts[split].Out1 = len(c.insts)
		}
		end := len(c.insts)
		for _, j := range jumps {
			c.insts[j].Out = end
		}

	case *Quantifier:
		c.compileQuantifier(n)

	case *Group:
		if n.Name == "" {
			c.compileNode(n.Body)
			return
		}
		k := c.index[n.Name]
		c.emit(Inst{Op: OpSave, Idx: 2 * k})
		c.compileNode(n.Body)
		c.emit(Inst{Op: OpSave, Idx: 2*k + 1})

	case *Anchor:
		c.emit(Inst{Op: OpAssert, Anchor: n.Kind})
	}
}

// compileQuantifier emits Min copies of the body followed by either a
// greedy loop (unbounded) or Max-Min nested greedy optionals.
func (c *Compiler) compileQuantifier(q *Quantifier) {
	for i := 0; i < q.Min && c.err == nil; i++ {
		c.compileNode(q.Body)
	}

	if q.Max == -1 {
		c.compileLoop(q.Body)
		return
	}

	var splits []int
	for i := q.Min; i < q.Max && c.err == nil; i++ {
		split := c.emit(Inst{Op: OpSplit})
		c.insts[split].Out = len(c.insts)
		c.compileNode(q.Body)
		splits = append(splits, split)
	}
	end := len(c.insts)
	for _, s := range splits {
		c.insts[s].Out1 = end
	}
}

// compileLoop emits a greedy star. A body that can match the empty string
// is bracketed by a progress check so an iteration must consume input.
func (c *Compiler) compileLoop(body Node) {
	loop := c.emit(Inst{Op: OpSplit})
	c.insts[loop].Out = loop + 1

	guard := canBeEmpty(body)
	reg := 0
	if guard {
		reg = c.reg
		c.reg++
		c.emit(Inst{Op: OpSave, Idx: reg})
	}
	c.compileNode(body)
	if guard {
		c.emit(Inst{Op: OpProgress, Idx: reg})
	}
	c.emit(Inst{Op: OpJmp, Out: loop})
	c.insts[loop].Out1 = len(c.insts)
}

func canBeEmpty(n Node) bool {
	switch n := n.(type) {
	case *Literal:
		return n.Text == ""
	case *CharClass:
		return false
	case *Sequence:
		for _, child := range n.Nodes {
			if !canBeEmpty(child) {
				return false
			}
		}
		return true
	case *Alternate:
		for _, child := range n.Nodes {
			if canBeEmpty(child) {
				return true
			}
		}
		return false
	case *Quantifier:
		return n.Min == 0 || canBeEmpty(n.Body)
	case *Group:
		return canBeEmpty(n.Body)
	}
	return true
}

// simplify returns an equivalent tree with nested sequences flattened,
// adjacent literals folded and plain blocks removed. The input is not
// modified.
func simplify(n Node) Node {
	switch n := n.(type) {
	case *Sequence:
		var out []Node
		var add func(Node)
		add = func(child Node) {
			child = simplify(child)
			if seq, ok := child.(*Sequence); ok {
				for _, c := range seq.Nodes {
					add(c)
				}
				return
			}
			if lit, ok := child.(*Literal); ok && len(out) > 0 {
				if prev, ok := out[len(out)-1].(*Literal); ok {
					out[len(out)-1] = &Literal{Text: prev.Text + lit.Text}
					return
				}
			}
			out = append(out, child)
		}
		for _, child := range n.Nodes {
			add(child)
		}
		if len(out) == 1 {
			return out[0]
		}
		return &Sequence{Nodes: out}

	case *Alternate:
		nodes := make([]Node, len(n.Nodes))
		for i, child := range n.Nodes {
			nodes[i] = simplify(child)
		}
		return &Alternate{Nodes: nodes}

	case *Quantifier:
		body := simplify(n.Body)
		if n.Min == 1 && n.Max == 1 {
			return body
		}
		return &Quantifier{Body: body, Min: n.Min, Max: n.Max}

	case *Group:
		if n.Name == "" {
			return simplify(n.Body)
		}
		return &Group{Body: simplify(n.Body), Name: n.Name, Pos: n.Pos}
	}
	return n
}

// literalShape reports whether a simplified tree is a single literal,
// optionally bracketed by anchors.
func literalShape(n Node) (lit string, atStart, atEnd, ok bool) {
	nodes := []Node{n}
	if seq, isSeq := n.(*Sequence); isSeq {
		nodes = seq.Nodes
	}
	if len(nodes) > 0 {
		if a, isAnchor := nodes[0].(*Anchor); isAnchor && a.Kind == AnchorStartOfText {
			atStart = true
			nodes = nodes[1:]
		}
	}
	if len(nodes) > 0 {
		if a, isAnchor := nodes[len(nodes)-1].(*Anchor); isAnchor && a.Kind == AnchorEndOfText {
			atEnd = true
			nodes = nodes[:len(nodes)-1]
		}
	}
	if len(nodes) != 1 {
		return "", false, false, false
	}
	l, isLit := nodes[0].(*Literal)
	if !isLit || l.Text == "" {
		return "", false, false, false
	}
	return l.Text, atStart, atEnd, true
}

// startsAnchored reports whether every match must begin at offset 0.
func startsAnchored(n Node) bool {
	if seq, ok := n.(*Sequence); ok && len(seq.Nodes) > 0 {
		n = seq.Nodes[0]
	}
	a, ok := n.(*Anchor)
	return ok && a.Kind == AnchorStartOfText
}

// requiredLiterals returns a set of literals one of which occurs inside
// every match, or nil when no such set is known.
func requiredLiterals(n Node) []string {
	switch n := n.(type) {
	case *Literal:
		if n.Text == "" {
			return nil
		}
		return []string{n.Text}
	case *Sequence:
		var best []string
		for _, child := range n.Nodes {
			if set := requiredLiterals(child); set != nil && minLen(set) > minLen(best) {
				best = set
			}
		}
		return best
	case *Alternate:
		var set []string
		for _, child := range n.Nodes {
			sub := requiredLiterals(child)
			if sub == nil {
				return nil
			}
			set = append(set, sub...)
		}
		return set
	case *Quantifier:
		if n.Min == 0 {
			return nil
		}
		return requiredLiterals(n.Body)
	case *Group:
		return requiredLiterals(n.Body)
	}
	return nil
}

func minLen(set []string) int {
	if len(set) == 0 {
		return 0
	}
	m := len(set[0])
	for _, s := range set[1:] {
		if len(s) < m {
			m = len(s)
		}
	}
	return m
}
