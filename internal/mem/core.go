package mem

import (
	"errors"
	"fmt"
)

// PagedCore provides functionality common to any paged memory model.
type PagedCore struct {
	// PageSize specifies the length for newly allocated pages.
	PageSize uint

	// Limit specifies the number of addressable cells; any load or store at or
	// past it results in a LimitError. Zero means no limit.
	Limit uint

	bases []uint
	sizes []uint
}

// ErrLimit is matched by any LimitError.
var ErrLimit = errors.New("memory limit exceeded")

// LimitError indicates that a memory operation, like load or store, exceeded a limit.
type LimitError struct {
	Addr  uint
	Limit uint
	Op    string
}

func (lim LimitError) Error() string {
	return fmt.Sprintf("memory limit %v exceeded by %v @%v", lim.Limit, lim.Op, lim.Addr)
}

// Is returns true for ErrLimit.
func (lim LimitError) Is(target error) bool { return target == ErrLimit }

func (m *PagedCore) findPage(addr uint) int {
	i, j := 0, len(m.bases)
	for i < j {
		h := int(uint(i+j)>>1) + 1
		if h < len(m.bases) && m.bases[h] <= addr {
			i = h
		} else {
			j = h - 1
		}
	}
	return i
}

func (m *PagedCore) allocPage(pageID int, addr uint) (base, size uint, isNew bool) {
	if pageID == len(m.bases) {
		base = addr / m.PageSize * m.PageSize
		size = m.PageSize
		if i := len(m.bases) - 1; i >= 0 {
			lastEnd := m.bases[i] + m.sizes[i]
			if base < lastEnd {
				size -= lastEnd - base
				base = lastEnd
			}
		}
		m.bases = append(m.bases, base)
		m.sizes = append(m.sizes, size)
		return base, size, true
	}

	base = m.bases[pageID]
	if addr < base {
		size = m.PageSize
		nextBase := base
		base = addr / m.PageSize * m.PageSize
		if gapSize := nextBase - base; size > gapSize {
			size = gapSize
		}
		m.bases = append(m.bases, 0)
		m.sizes = append(m.sizes, 0)
		copy(m.bases[pageID+1:], m.bases[pageID:])
		copy(m.sizes[pageID+1:], m.sizes[pageID:])
		m.bases[pageID] = base
		m.sizes[pageID] = size
		return base, size, true
	}

	return base, m.sizes[pageID], false
}

// checkLimit returns a LimitError if any of the n cells starting at addr lie
// at or past the limit.
func (m *PagedCore) checkLimit(addr, n uint, op string) error {
	if lim := m.Limit; lim != 0 && addr+n > lim {
		if addr < lim {
			addr = lim
		}
		return LimitError{Addr: addr, Limit: lim, Op: op}
	}
	return nil
}
