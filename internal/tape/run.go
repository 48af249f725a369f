package tape

import (
	"context"
	"unicode/utf8"

	"github.com/jcorbin/gobf/internal/panicerr"
)

// ctxCheckInterval is how many steps Run takes between context checks.
const ctxCheckInterval = 1024

// Run steps the machine until it halts or fails, returning its output as
// text. Output that is not valid UTF-8 results in an EncodingError, unless
// WithRawOutput was given; the machine itself is Halted either way, and the
// bytes remain available from Output.
//
// On failure Run returns no output and the error; the machine is left Failed
// with its state open to inspection. A done context fails the machine with
// the context's error. Running a Halted machine returns its output again,
// while running a Failed one returns its error again.
func (m *Machine) Run(ctx context.Context) (string, error) {
	if err := panicerr.Recover("tape", func() error {
		return m.run(ctx)
	}); err != nil {
		if m.state != Failed {
			m.state = Failed
			m.err = err
		}
		return "", err
	}
	return m.text()
}

func (m *Machine) run(ctx context.Context) error {
	if m.state == Failed {
		return m.err
	}
	for n := 0; m.state != Halted; n++ {
		if n%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				_, err = m.fail(m.ip, err)
				return err
			}
		}
		if _, err := m.Step(); err != nil {
			return err
		}
	}
	return nil
}

func (m *Machine) text() (string, error) {
	if !m.rawOutput && !utf8.Valid(m.out) {
		return "", EncodingError{Offset: invalidUTF8(m.out)}
	}
	return string(m.out), nil
}

func invalidUTF8(b []byte) int {
	for i := 0; i < len(b); {
		r, size := utf8.DecodeRune(b[i:])
		if r == utf8.RuneError && size <= 1 {
			return i
		}
		i += size
	}
	return len(b)
}
