package tape

import (
	"fmt"
	"io"
	"strings"

	"github.com/jcorbin/gobf/internal/flushio"
)

// Option customizes a Machine under New.
type Option interface{ apply(m *Machine) }

// Options combines any number of options into one; nil options are ignored.
func Options(opts ...Option) Option { return options(opts) }

type options []Option

func (opts options) apply(m *Machine) {
	for _, opt := range opts {
		if opt != nil {
			opt.apply(m)
		}
	}
}

// WithMemLimit bounds the data tape to the given number of cells; moving the
// data pointer past the last one fails with ErrDataPointerOverflow. Zero
// leaves the tape unbounded.
func WithMemLimit(cells uint) Option { return memLimitOption(cells) }

// WithPageSize sets how many cells the data tape allocates at a time.
func WithPageSize(cells uint) Option { return pageSizeOption(cells) }

// WithMaxSteps bounds the number of steps a machine may take; the step after
// the last allowed one fails with ErrStepLimitExceeded. Zero is unbounded.
func WithMaxSteps(n uint64) Option { return maxStepsOption(n) }

// WithEOF sets what the input instruction does once input is exhausted.
func WithEOF(policy EOFPolicy) Option { return policy }

// WithRawOutput disables UTF-8 validation of the output returned by Run.
func WithRawOutput(raw bool) Option { return rawOutputOption(raw) }

// WithOutput copies every output byte to w as it is produced, in addition to
// the machine's own output buffer. The copy is flushed when the machine stops.
func WithOutput(w io.Writer) Option { return outputOption{w} }

// WithLogf enables trace logging of every step through logfn.
func WithLogf(logfn func(mess string, args ...interface{})) Option { return withLogfn(logfn) }

type memLimitOption uint
type pageSizeOption uint
type maxStepsOption uint64
type rawOutputOption bool
type outputOption struct{ io.Writer }
type withLogfn func(mess string, args ...interface{})

func (lim memLimitOption) apply(m *Machine)  { m.data.Limit = uint(lim) }
func (size pageSizeOption) apply(m *Machine) { m.data.PageSize = uint(size) }
func (n maxStepsOption) apply(m *Machine)    { m.maxSteps = uint64(n) }
func (raw rawOutputOption) apply(m *Machine) { m.rawOutput = bool(raw) }
func (logfn withLogfn) apply(m *Machine)     { m.logfn = logfn }

func (o outputOption) apply(m *Machine) {
	m.tee = flushio.WriteFlushers(m.tee, flushio.NewWriteFlusher(o.Writer))
}

// EOFPolicy decides what the input instruction does when no input remains.
type EOFPolicy int

const (
	// EOFFail fails the step with ErrInputExhausted.
	EOFFail EOFPolicy = iota
	// EOFZero stores 0 into the current cell.
	EOFZero
	// EOFKeep leaves the current cell unchanged.
	EOFKeep
)

var eofPolicyNames = [...]string{"fail", "zero", "keep"}

func (policy EOFPolicy) apply(m *Machine) { m.eof = policy }

func (policy EOFPolicy) String() string {
	if i := int(policy); i >= 0 && i < len(eofPolicyNames) {
		return eofPolicyNames[i]
	}
	return fmt.Sprintf("EOFPolicy(%d)", int(policy))
}

// ParseEOFPolicy parses one of "fail", "zero" or "keep".
func ParseEOFPolicy(s string) (EOFPolicy, error) {
	for i, name := range eofPolicyNames {
		if strings.EqualFold(s, name) {
			return EOFPolicy(i), nil
		}
	}
	return EOFFail, fmt.Errorf("invalid EOF policy %q, want one of %v", s, strings.Join(eofPolicyNames[:], ", "))
}

// MarshalText implements encoding.TextMarshaler.
func (policy EOFPolicy) MarshalText() ([]byte, error) { return []byte(policy.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (policy *EOFPolicy) UnmarshalText(text []byte) (err error) {
	*policy, err = ParseEOFPolicy(string(text))
	return err
}
