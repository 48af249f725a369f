package tape

// matchBrackets computes, in one pass, a table mapping the offset of every
// bracket in prog to the offset of its partner. Unmatched brackets, and every
// other byte, map to -1. The first unmatched bracket, by offset, is also
// returned.
func matchBrackets(prog []byte) (jumps []int, unmatched error) {
	jumps = make([]int, len(prog))
	first := -1
	var open []int
	for i, op := range prog {
		jumps[i] = -1
		switch op {
		case '[':
			open = append(open, i)
		case ']':
			if j := len(open) - 1; j >= 0 {
				partner := open[j]
				open = open[:j]
				jumps[i] = partner
				jumps[partner] = i
			} else if first < 0 {
				first = i
			}
		}
	}
	if len(open) > 0 && (first < 0 || open[0] < first) {
		first = open[0]
	}
	if first >= 0 {
		unmatched = UnmatchedBracketError{Offset: first, Op: prog[first]}
	}
	return jumps, unmatched
}

// Check returns an UnmatchedBracketError for the first bracket in program
// that has no partner, or nil if all brackets are balanced.
func Check(program []byte) error {
	_, err := matchBrackets(program)
	return err
}
