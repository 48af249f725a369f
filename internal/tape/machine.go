// Package tape implements a machine for the eight instruction tape language:
//
//	>  move the data pointer right
//	<  move the data pointer left
//	+  increment the current cell, wrapping at 256
//	-  decrement the current cell, wrapping at 0
//	.  append the current cell to output
//	,  read the next input byte into the current cell
//	[  skip past the matching ] if the current cell is 0
//	]  return past the matching [ if the current cell is not 0
//
// Every other byte is a no-op.
//
// A Machine has three independent address spaces: instruction memory (the
// program), data memory (the tape), and input/output buffers. Only Step moves
// any of their cursors.
package tape

import (
	"github.com/jcorbin/gobf/internal/flushio"
	"github.com/jcorbin/gobf/internal/mem"
)

// State is the execution state of a Machine.
type State int

const (
	// Ready is the state of a new machine that has not yet stepped.
	Ready State = iota
	// Running is the state after any step that left instructions to execute.
	Running
	// Halted is the terminal state once the instruction pointer runs off the
	// end of the program.
	Halted
	// Failed is the terminal state after any step error.
	Failed
)

var stateNames = [...]string{"ready", "running", "halted", "failed"}

func (st State) String() string {
	if i := int(st); i >= 0 && i < len(stateNames) {
		return stateNames[i]
	}
	return "invalid"
}

// Terminal returns true for Halted and Failed.
func (st State) Terminal() bool { return st == Halted || st == Failed }

// Machine executes one program against one input; it is not safe for
// concurrent use, but independent machines share nothing.
type Machine struct {
	logfn func(mess string, args ...interface{})

	prog  []byte // instruction memory
	jumps []int  // bracket partners, -1 if none
	ip    int    // instruction pointer

	data mem.Bytes // data memory
	dp   uint      // data pointer

	in  []byte // input buffer
	inp int    // input cursor

	out []byte // output buffer
	tee flushio.WriteFlusher

	state     State
	err       error
	steps     uint64
	maxSteps  uint64
	eof       EOFPolicy
	rawOutput bool
}

// New creates a machine ready to run program against input; both are copied.
// New does not fail: unmatched brackets are only reported once executed, use
// Check to reject them up front. An empty program is immediately Halted.
func New(program, input []byte, opts ...Option) *Machine {
	m := &Machine{
		prog: append([]byte(nil), program...),
		in:   append([]byte(nil), input...),
		tee:  flushio.Discard,
	}
	m.data.PageSize = mem.DefaultBytesPageSize
	m.jumps, _ = matchBrackets(m.prog)
	Options(opts...).apply(m)
	if len(m.prog) == 0 {
		m.state = Halted
	}
	return m
}

// State returns the machine's current execution state.
func (m *Machine) State() State { return m.state }

// Err returns the error that failed the machine, if any.
func (m *Machine) Err() error { return m.err }

// Steps returns how many steps have been executed.
func (m *Machine) Steps() uint64 { return m.steps }

// Program returns the machine's instruction memory; it must not be modified.
func (m *Machine) Program() []byte { return m.prog }

// IP returns the instruction pointer.
func (m *Machine) IP() int { return m.ip }

// DP returns the data pointer.
func (m *Machine) DP() uint { return m.dp }

// Cell returns the value of the current data cell.
func (m *Machine) Cell() byte {
	val, _ := m.data.Load(m.dp)
	return val
}

// Cells copies n data cells starting at addr; cells past any memory limit are
// left out.
func (m *Machine) Cells(addr uint, n int) []byte {
	if lim := m.data.Limit; lim != 0 {
		if addr >= lim {
			return nil
		}
		if end := addr + uint(n); end > lim {
			n = int(lim - addr)
		}
	}
	buf := make([]byte, n)
	if err := m.data.LoadInto(addr, buf); err != nil {
		return nil
	}
	return buf
}

// MemSize returns how many data cells have been allocated so far.
func (m *Machine) MemSize() uint { return m.data.Size() }

// MemLimit returns the data tape limit, or 0 if unbounded.
func (m *Machine) MemLimit() uint { return m.data.Limit }

// Input returns the machine's input buffer; it must not be modified.
func (m *Machine) Input() []byte { return m.in }

// InputOffset returns how many input bytes have been consumed.
func (m *Machine) InputOffset() int { return m.inp }

// Output returns a copy of the bytes output so far.
func (m *Machine) Output() []byte { return append([]byte(nil), m.out...) }

func (m *Machine) logf(mess string, args ...interface{}) {
	if m.logfn != nil {
		m.logfn(mess, args...)
	}
}
