package panicerr

import "runtime/debug"

// Recover calls f, converting any panic raised while it runs into a non-nil
// error return. The error retains the panic value and a stack trace; see
// IsPanic and PanicStack.
func Recover(name string, f func() error) (err error) {
	defer func() {
		if e := recover(); e != nil {
			err = panicError{name: name, e: e, stack: debug.Stack()}
		}
	}()
	return f()
}
