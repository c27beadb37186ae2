package vm

// Image is a passive, immutable-at-mount descriptor: a function table
// and a static table (both symbol -> offset), plus the raw static and text
// section bytes. Neither table need be exhaustive -- they advertise only
// the externally visible symbols.
type Image struct {
	FunctionTable map[string]int64
	StaticTable   map[string]int64
	StaticSection []byte
	TextSection   []byte
}

// Mount copies the image's static section then its text section into the
// machine's memory, contiguously, and records the section boundaries.
// The image itself is not retained past this call.
func (m *Machine) Mount(img *Image) error {
	total := int64(len(img.StaticSection)) + int64(len(img.TextSection))
	if total > m.end {
		return ErrOutOfMemory
	}

	copy(m.memory[0:], img.StaticSection)
	m.textStart = int64(len(img.StaticSection))
	copy(m.memory[m.textStart:], img.TextSection)
	m.stackStart = m.textStart + int64(len(img.TextSection))

	m.execPointer = 0
	m.stackPointer = m.stackStart

	return nil
}

// Lookup resolves a public function-table symbol to an absolute code
// offset: |static_section| + function_table[symbol].
func (m *Machine) Lookup(img *Image, symbol string) (int64, bool) {
	off, ok := img.FunctionTable[symbol]
	if !ok {
		return 0, false
	}
	return m.textStart + off, true
}
