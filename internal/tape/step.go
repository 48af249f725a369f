package tape

// Step executes the instruction at the instruction pointer, returning the
// resulting state: Running while instructions remain, Halted once the
// instruction pointer moves past the end of the program. Any error fails the
// machine, returned as a StepError. Stepping a Halted or Failed machine
// executes nothing and returns an error matching ErrStopped.
func (m *Machine) Step() (State, error) {
	if m.state.Terminal() {
		return m.state, stoppedError{m.state}
	}

	ip := m.ip
	if m.maxSteps != 0 && m.steps >= m.maxSteps {
		return m.fail(ip, ErrStepLimitExceeded)
	}

	op := m.prog[ip]
	if m.logfn != nil {
		m.logf("%v @%v %q dp:%v cell:%v", m.steps, ip, op, m.dp, m.Cell())
	}
	m.state = Running
	m.steps++

	next := ip + 1
	var err error
	switch op {
	case '>':
		err = m.right()
	case '<':
		err = m.left()
	case '+':
		err = m.add(1)
	case '-':
		err = m.add(0xff)
	case '.':
		err = m.emit()
	case ',':
		err = m.read()
	case '[':
		next, err = m.jumpIf(ip, next, false)
	case ']':
		next, err = m.jumpIf(ip, next, true)
	}
	if err != nil {
		return m.fail(ip, err)
	}

	m.ip = next
	if m.ip >= len(m.prog) {
		return m.halt(ip)
	}
	return m.state, nil
}

func (m *Machine) halt(ip int) (State, error) {
	if err := m.tee.Flush(); err != nil {
		return m.fail(ip, err)
	}
	m.state = Halted
	m.logf("halt after %v steps", m.steps)
	return m.state, nil
}

func (m *Machine) fail(ip int, err error) (State, error) {
	var op byte
	if ip < len(m.prog) {
		op = m.prog[ip]
	}
	m.state = Failed
	m.err = StepError{IP: ip, Op: op, Err: err}
	if ferr := m.tee.Flush(); ferr != nil {
		m.logf("output flush error: %v", ferr)
	}
	m.logf("fail: %v", m.err)
	return m.state, m.err
}

func (m *Machine) right() error {
	if lim := m.data.Limit; lim != 0 && m.dp+1 >= lim {
		return PointerError{Op: '>', DP: m.dp, Limit: lim}
	}
	m.dp++
	return nil
}

func (m *Machine) left() error {
	if m.dp == 0 {
		return PointerError{Op: '<', DP: m.dp, Limit: m.data.Limit}
	}
	m.dp--
	return nil
}

func (m *Machine) add(delta byte) error {
	val, err := m.data.Load(m.dp)
	if err != nil {
		return err
	}
	return m.data.Stor(m.dp, val+delta)
}

func (m *Machine) emit() error {
	val, err := m.data.Load(m.dp)
	if err != nil {
		return err
	}
	m.out = append(m.out, val)
	_, err = m.tee.Write(m.out[len(m.out)-1:])
	return err
}

func (m *Machine) read() error {
	if m.inp >= len(m.in) {
		switch m.eof {
		case EOFZero:
			return m.data.Stor(m.dp, 0)
		case EOFKeep:
			return nil
		default:
			return ErrInputExhausted
		}
	}
	val := m.in[m.inp]
	m.inp++
	return m.data.Stor(m.dp, val)
}

// jumpIf returns one past the partner of the bracket at ip if the current
// cell being non-zero equals nonZero, or next otherwise.
func (m *Machine) jumpIf(ip, next int, nonZero bool) (int, error) {
	partner := m.jumps[ip]
	if partner < 0 {
		return next, UnmatchedBracketError{Offset: ip, Op: m.prog[ip]}
	}
	val, err := m.data.Load(m.dp)
	if err != nil {
		return next, err
	}
	if (val != 0) == nonZero {
		return partner + 1, nil
	}
	return next, nil
}
