package wflpattern

import (
	"fmt"
	"strings"
)

type OpCode int

const (
	OpMatch    OpCode = iota // Terminate success
	OpRune                   // Match specific rune
	OpString                 // Match a literal run
	OpClass                  // Match one rune of a char class
	OpJmp                    // Jump to Out
	OpSplit                  // Try Out, on failure resume at Out1
	OpSave                   // Save position to register Idx
	OpAssert                 // Zero-width anchor
	OpProgress               // Fail unless pos moved past register Idx
)

type Inst struct {
	Op     OpCode
	Val    rune       // For OpRune
	Str    string     // For OpString
	Class  *CharClass // For OpClass
	Out    int        // Jump target 1 (primary)
	Out1   int        // Jump target 2 (alternative for Split)
	Idx    int        // Register index for OpSave and OpProgress
	Anchor AnchorKind // For OpAssert
}

// Prog is a compiled pattern program. Registers 0 and 1 hold the overall
// match span, registers 2k and 2k+1 the span of capture k, and any further
// registers are loop progress marks.
type Prog struct {
	Insts   []Inst
	Start   int // Entry point
	NumCap  int // Number of capture slots including the whole match
	NumRegs int // Number of registers needed
}

func (i Inst) String() string {
	switch i.Op {
	case OpMatch:
		return "match"
	case OpRune:
		return fmt.Sprintf("rune %q", i.Val)
	case OpString:
		return fmt.Sprintf("string %q", i.Str)
	case OpClass:
		return "class " + FormatNode(i.Class)
	case OpJmp:
		return fmt.Sprintf("jmp %d", i.Out)
	case OpSplit:
		return fmt.Sprintf("split %d, %d", i.Out, i.Out1)
	case OpSave:
		return fmt.Sprintf("save %d", i.Idx)
	case OpAssert:
		if i.Anchor == AnchorStartOfText {
			return "assert start"
		}
		return "assert end"
	case OpProgress:
		return fmt.Sprintf("progress %d", i.Idx)
	}
	return "?"
}

// String lists the program one instruction per line.
func (p *Prog) String() string {
	var sb strings.Builder
	for pc, inst := range p.Insts {
		fmt.Fprintf(&sb, "%3d  %s\n", pc, inst)
	}
	return sb.String()
}
