package wflpattern

import (
	"sync"
)

// frame is an entry on the backtrack stack. A branch frame resumes
// execution at pc/pos; a restore frame puts an old register value back.
type frame struct {
	restore bool
	pc      int // branch: resume pc; restore: register slot
	pos     int // branch: resume position; restore: old value
}

// machine executes a program against one input. It is reused through
// machinePool to avoid reallocating registers and the stack.
type machine struct {
	prog  *Prog
	input Input
	limit int
	regs  []int
	stack []frame
}

var machinePool = sync.Pool{
	New: func() any {
		return &machine{
			regs:  make([]int, 0, 16),
			stack: make([]frame, 0, 64),
		}
	},
}

func getMachine(prog *Prog, input Input, limit int) *machine {
	m := machinePool.Get().(*machine)
	m.prog = prog
	m.input = input
	m.limit = limit
	if cap(m.regs) < prog.NumRegs {
		m.regs = make([]int, prog.NumRegs)
	} else {
		m.regs = m.regs[:prog.NumRegs]
	}
	return m
}

func putMachine(m *machine) {
	m.prog = nil
	m.input = nil
	m.stack = m.stack[:0]
	machinePool.Put(m)
}

// run performs one attempt anchored at start. In whole mode a match must
// end at the end of the input. On success m.regs holds the spans.
func (m *machine) run(start int, whole bool) (bool, error) {
	for i := range m.regs {
		m.regs[i] = -1
	}
	m.stack = m.stack[:0]

	insts := m.prog.Insts
	n := m.input.Len()
	pc, pos := m.prog.Start, start
	steps := 0

	for {
		steps++
		if steps > m.limit {
			return false, &StepLimitError{Limit: m.limit, Offset: start}
		}

		inst := &insts[pc]
		ok := true

		switch inst.Op {
		case OpMatch:
			if !whole || pos == n {
				return true, nil
			}
			ok = false

		case OpRune:
			r, w := m.input.Step(pos)
			if w == 0 || r != inst.Val {
				ok = false
				break
			}
			pos += w
			pc++

		case OpString:
			if !m.input.HasPrefix(pos, inst.Str) {
				ok = false
				break
			}
			pos += len(inst.Str)
			pc++

		case OpClass:
			r, w := m.input.Step(pos)
			if w == 0 || !inst.Class.Contains(r) {
				ok = false
				break
			}
			pos += w
			pc++

		case OpJmp:
			pc = inst.Out

		case OpSplit:
			m.stack = append(m.stack, frame{pc: inst.Out1, pos: pos})
			pc = inst.Out

		case OpSave:
			m.stack = append(m.stack, frame{restore: true, pc: inst.Idx, pos: m.regs[inst.Idx]})
			m.regs[inst.Idx] = pos
			pc++

		case OpAssert:
			switch inst.Anchor {
			case AnchorStartOfText:
				ok = pos == 0
			case AnchorEndOfText:
				ok = pos == n
			}
			pc++

		case OpProgress:
			if m.regs[inst.Idx] == pos {
				ok = false
				break
			}
			pc++
		}

		if ok {
			continue
		}

		// Backtrack: unwind register writes down to the newest branch.
		for {
			top := len(m.stack) - 1
			if top < 0 {
				return false, nil
			}
			f := m.stack[top]
			m.stack = m.stack[:top]
			if f.restore {
				m.regs[f.pc] = f.pos
				continue
			}
			pc, pos = f.pc, f.pos
			break
		}
	}
}
