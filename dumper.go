package main

import (
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jcorbin/gobf/internal/tape"
)

const (
	defaultProgWindow = 16
	defaultCellWindow = 8
	outputTail        = 32
)

type machineDumper struct {
	m   *tape.Machine
	out io.Writer

	progWindow int // instructions shown before and after ip
	cellWindow int // cells shown before and after dp
}

func (dump machineDumper) dump() {
	if dump.progWindow == 0 {
		dump.progWindow = defaultProgWindow
	}
	if dump.cellWindow == 0 {
		dump.cellWindow = defaultCellWindow
	}

	m := dump.m
	fmt.Fprintf(dump.out, "# Machine Dump\n")
	fmt.Fprintf(dump.out, "  state: %v\n", m.State())
	if err := m.Err(); err != nil {
		fmt.Fprintf(dump.out, "  error: %v\n", err)
	}
	fmt.Fprintf(dump.out, "  steps: %v\n", m.Steps())

	dump.dumpProg()
	dump.dumpCells()
	dump.dumpIO()
}

func (dump machineDumper) dumpProg() {
	prog, ip := dump.m.Program(), dump.m.IP()
	lo, hi := window(ip, dump.progWindow, len(prog))

	var buf strings.Builder
	fmt.Fprintf(&buf, "  prog @%v: ", lo)
	caret := buf.Len() + ip - lo
	for _, op := range prog[lo:hi] {
		if op < 0x20 || op >= 0x7f {
			op = ' '
		}
		buf.WriteByte(op)
	}
	fmt.Fprintf(dump.out, "%v\n", buf.String())
	if ip < len(prog) {
		fmt.Fprintf(dump.out, "%v^ ip:%v\n", strings.Repeat(" ", caret), ip)
	} else {
		fmt.Fprintf(dump.out, "  ip:%v (end)\n", ip)
	}
}

func (dump machineDumper) dumpCells() {
	dp := dump.m.DP()
	lo, hi := window(int(dp), dump.cellWindow, int(dp)+dump.cellWindow+1)
	cells := dump.m.Cells(uint(lo), hi-lo)

	var buf strings.Builder
	fmt.Fprintf(&buf, "  cells @%v:", lo)
	for i, val := range cells {
		if uint(lo+i) == dp {
			fmt.Fprintf(&buf, " [%v]", val)
		} else {
			fmt.Fprintf(&buf, " %v", val)
		}
	}
	fmt.Fprintf(dump.out, "%v\n", buf.String())
	fmt.Fprintf(dump.out, "  dp:%v allocated:%v", dp, dump.m.MemSize())
	if lim := dump.m.MemLimit(); lim != 0 {
		fmt.Fprintf(dump.out, " limit:%v", lim)
	}
	fmt.Fprintf(dump.out, "\n")
}

func (dump machineDumper) dumpIO() {
	m := dump.m
	fmt.Fprintf(dump.out, "  input: %v/%v consumed\n", m.InputOffset(), len(m.Input()))
	out := m.Output()
	if len(out) > outputTail {
		fmt.Fprintf(dump.out, "  output: %v bytes ...%q\n", len(out), out[len(out)-outputTail:])
	} else {
		fmt.Fprintf(dump.out, "  output: %v bytes %q\n", len(out), out)
	}
}

// window returns the range [lo, hi) of at most radius positions either side
// of at, clipped to [0, size).
func window(at, radius, size int) (lo, hi int) {
	lo, hi = at-radius, at+radius+1
	if lo < 0 {
		lo = 0
	}
	if hi > size {
		hi = size
	}
	if hi < lo {
		hi = lo
	}
	return lo, hi
}

// snapshot is a structured machine dump.
type snapshot struct {
	State  string        `yaml:"state"`
	Error  string        `yaml:"error,omitempty"`
	Steps  uint64        `yaml:"steps"`
	IP     int           `yaml:"ip"`
	Op     string        `yaml:"op,omitempty"`
	DP     uint          `yaml:"dp"`
	Cells  snapshotCells `yaml:"cells"`
	Input  snapshotInput `yaml:"input"`
	Output string        `yaml:"output"`
}

type snapshotCells struct {
	Base   uint  `yaml:"base"`
	Values []int `yaml:"values,flow"`
}

type snapshotInput struct {
	Consumed int `yaml:"consumed"`
	Length   int `yaml:"length"`
}

func snapshotOf(m *tape.Machine) snapshot {
	snap := snapshot{
		State:  m.State().String(),
		Steps:  m.Steps(),
		IP:     m.IP(),
		DP:     m.DP(),
		Input:  snapshotInput{Consumed: m.InputOffset(), Length: len(m.Input())},
		Output: fmt.Sprintf("%q", m.Output()),
	}
	if err := m.Err(); err != nil {
		snap.Error = err.Error()
	}
	if prog := m.Program(); snap.IP < len(prog) {
		snap.Op = string(prog[snap.IP])
	}
	lo, hi := window(int(snap.DP), defaultCellWindow, int(snap.DP)+defaultCellWindow+1)
	snap.Cells.Base = uint(lo)
	for _, val := range m.Cells(uint(lo), hi-lo) {
		snap.Cells.Values = append(snap.Cells.Values, int(val))
	}
	return snap
}

func writeSnapshot(w io.Writer, m *tape.Machine) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(snapshotOf(m)); err != nil {
		return err
	}
	return enc.Close()
}
