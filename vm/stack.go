package vm

// fetchArg reads W bytes from the instruction stream at exec_pointer and
// advances it by W. Used for every opcode operand.
func fetchArg[T Unsigned](m *Machine) (T, error) {
	n := widthOf[T]()
	if m.execPointer < 0 || m.execPointer+n > int64(len(m.memory)) {
		return 0, segfault(m.execPointer)
	}
	v := readBE[T](m.memory[m.execPointer:])
	m.execPointer += n
	return v, nil
}

// pushWidth writes v at stack_pointer (big-endian) and advances
// stack_pointer by W.
func pushWidth[T Unsigned](m *Machine, v T) error {
	n := widthOf[T]()
	idx, err := m.translate(m.stackPointer)
	if err != nil {
		return err
	}
	writeBE[T](m.memory[idx:], v)
	m.stackPointer += n
	return nil
}

// popWidth decrements stack_pointer by W and reads the W bytes now just
// below it.
func popWidth[T Unsigned](m *Machine) (T, error) {
	n := widthOf[T]()
	idx, err := m.translate(m.stackPointer - n)
	if err != nil {
		return 0, err
	}
	v := readBE[T](m.memory[idx:])
	m.stackPointer -= n
	return v, nil
}

// popAddress pops an L-word off the stack, reinterprets it as a signed
// address, and translates it to a byte index. Used wherever a host
// callable's argument is a pointer rather than a plain value.
func popAddress(m *Machine) (int64, error) {
	raw, err := popWidth[uint64](m)
	if err != nil {
		return 0, err
	}
	return m.translate(int64(raw))
}
