package tape

import (
	"errors"
	"fmt"
)

// Sentinel errors, matched through errors.Is by the typed errors below.
var (
	ErrUnmatchedBracket      = errors.New("unmatched bracket")
	ErrDataPointerUnderflow  = errors.New("data pointer underflow")
	ErrDataPointerOverflow   = errors.New("data pointer overflow")
	ErrInputExhausted        = errors.New("input exhausted")
	ErrStepLimitExceeded     = errors.New("step limit exceeded")
	ErrInvalidOutputEncoding = errors.New("invalid output encoding")
	ErrStopped               = errors.New("machine stopped")
)

// UnmatchedBracketError locates a bracket that has no partner.
type UnmatchedBracketError struct {
	Offset int
	Op     byte
}

func (err UnmatchedBracketError) Error() string {
	return fmt.Sprintf("unmatched %q @%v", err.Op, err.Offset)
}

// Is returns true for ErrUnmatchedBracket.
func (err UnmatchedBracketError) Is(target error) bool { return target == ErrUnmatchedBracket }

// PointerError reports a data pointer move that would leave the tape.
type PointerError struct {
	Op    byte
	DP    uint
	Limit uint
}

func (err PointerError) Error() string {
	if err.Op == '<' {
		return fmt.Sprintf("%v: %q @dp:%v", ErrDataPointerUnderflow, err.Op, err.DP)
	}
	return fmt.Sprintf("%v: %q @dp:%v limit:%v", ErrDataPointerOverflow, err.Op, err.DP, err.Limit)
}

// Is returns true for ErrDataPointerUnderflow or ErrDataPointerOverflow,
// depending on direction.
func (err PointerError) Is(target error) bool {
	if err.Op == '<' {
		return target == ErrDataPointerUnderflow
	}
	return target == ErrDataPointerOverflow
}

// EncodingError locates the first output byte that is not valid UTF-8.
type EncodingError struct {
	Offset int
}

func (err EncodingError) Error() string {
	return fmt.Sprintf("%v: non UTF-8 output @%v", ErrInvalidOutputEncoding, err.Offset)
}

// Is returns true for ErrInvalidOutputEncoding.
func (err EncodingError) Is(target error) bool { return target == ErrInvalidOutputEncoding }

// StepError wraps any failure raised while executing the instruction at IP.
type StepError struct {
	IP  int
	Op  byte
	Err error
}

func (err StepError) Error() string {
	return fmt.Sprintf("step @%v %q: %v", err.IP, err.Op, err.Err)
}

func (err StepError) Unwrap() error { return err.Err }

type stoppedError struct{ state State }

func (err stoppedError) Error() string {
	return fmt.Sprintf("%v: %v", ErrStopped, err.state)
}

func (err stoppedError) Is(target error) bool { return target == ErrStopped }
