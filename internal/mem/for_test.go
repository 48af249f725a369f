package mem

// BytesDump provides data for testing.
type BytesDump struct {
	Bases []uint
	Sizes []uint
	Pages [][]byte
}

// Dump memory data for testing.
func (m *Bytes) Dump() (d BytesDump) {
	d.Bases = m.bases
	d.Sizes = m.sizes
	d.Pages = m.pages
	return d
}
