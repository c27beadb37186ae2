package vm

import (
	"unicode/utf8"

	"github.com/pkg/errors"
)

// Machine is a live execution context created with a fixed byte capacity.
// It owns the linear memory, the stack/exec pointers, the structured
// error state, and the rabbit registry/host table roster.
type Machine struct {
	memory []byte
	// capacity is the usable byte count requested by the caller; end is
	// capacity-8, the tail padding that lets wide reads near the edge of
	// memory go unchecked.
	capacity int64
	end      int64

	textStart  int64
	stackStart int64

	execPointer  int64
	stackPointer int64

	errcode byte

	sbmStack int64
	sbmExec  int64

	rabbitTop  int64
	rabbitObjs map[int64]*HostTable
	rabbitFns  map[int64]HostFunc

	hostTables map[string]*HostTable
}

// NewMachine allocates a Machine with the given byte capacity. The last 8
// bytes of the underlying buffer are reserved padding; capacity must
// therefore be large enough for whatever image will be mounted into it
// plus working stack space.
func NewMachine(capacity int64) *Machine {
	m := &Machine{
		capacity:   capacity,
		end:        capacity - 8,
		memory:     make([]byte, capacity),
		rabbitTop:  capacity + 1,
		rabbitObjs: make(map[int64]*HostTable),
		rabbitFns:  make(map[int64]HostFunc),
		hostTables: make(map[string]*HostTable),
	}
	return m
}

// Register installs a named host table, to be looked up by a guest's dock
// instruction. Registration must happen before Invoke.
func (m *Machine) Register(name string, table *HostTable) {
	m.hostTables[name] = table
}

// isRabbitHandle reports whether addr names an entry in the rabbit
// registry rather than a memory address: strictly greater than capacity.
func (m *Machine) isRabbitHandle(addr int64) bool {
	return addr > m.capacity
}

// translate resolves a signed stack-address operand to a non-negative byte
// index. Negative addresses are stack-relative; the result must land in
// [0, end).
func (m *Machine) translate(addr int64) (int64, error) {
	if addr < 0 {
		addr = m.stackPointer + addr
	}
	if addr < 0 || addr >= m.end {
		return 0, segfault(addr)
	}
	return addr, nil
}

func readWidth[T Unsigned](m *Machine, pos int64) (T, error) {
	idx, err := m.translate(pos)
	if err != nil {
		return 0, err
	}
	return readBE[T](m.memory[idx:]), nil
}

func writeWidth[T Unsigned](m *Machine, pos int64, v T) error {
	idx, err := m.translate(pos)
	if err != nil {
		return err
	}
	writeBE[T](m.memory[idx:], v)
	return nil
}

// swapWidth exchanges the W-byte values at two translated addresses.
func swapWidth[T Unsigned](m *Machine, a, b int64) error {
	av, err := readWidth[T](m, a)
	if err != nil {
		return err
	}
	bv, err := readWidth[T](m, b)
	if err != nil {
		return err
	}
	if err := writeWidth[T](m, a, bv); err != nil {
		return err
	}
	return writeWidth[T](m, b, av)
}

// cpyWidth copies the W-byte value at src to dst, leaving src unchanged.
func cpyWidth[T Unsigned](m *Machine, src, dst int64) error {
	v, err := readWidth[T](m, src)
	if err != nil {
		return err
	}
	return writeWidth[T](m, dst, v)
}

// readCString reads a NUL-terminated string starting at addr, used by
// dock/loadfun to resolve host table/function names. It fails with
// StringProcessingError both when no NUL terminator is found in bounds and
// when the bytes up to the terminator are not valid UTF-8.
func (m *Machine) readCString(addr int64) (string, error) {
	idx, err := m.translate(addr)
	if err != nil {
		return "", err
	}
	return m.cstringAt(idx)
}

// cstringAt reads a NUL-terminated string starting at an already-translated
// byte index, used by host callables that obtain their pointer via
// popAddress rather than a raw operand.
func (m *Machine) cstringAt(idx int64) (string, error) {
	end := idx
	for {
		if end >= int64(len(m.memory)) {
			return "", errors.WithStack(&StringProcessingError{Addr: idx})
		}
		if m.memory[end] == 0 {
			break
		}
		end++
	}
	raw := m.memory[idx:end]
	if !utf8.Valid(raw) {
		return "", errors.WithStack(&StringProcessingError{Addr: idx})
	}
	return string(raw), nil
}
