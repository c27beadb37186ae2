package vm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMountEstablishesBoundaries(t *testing.T) {
	img := &Image{
		StaticSection: []byte{1, 2, 3, 4},
		TextSection:   []byte{5, 6},
	}
	m := NewMachine(64)
	require.NoError(t, m.Mount(img))

	assert.Equal(t, int64(4), m.textStart)
	assert.Equal(t, int64(6), m.stackStart)
	assert.Equal(t, int64(0), m.execPointer)
	assert.Equal(t, m.stackStart, m.stackPointer)

	assert.Equal(t, byte(1), m.memory[0])
	assert.Equal(t, byte(5), m.memory[4])
}

func TestMountOutOfMemory(t *testing.T) {
	img := &Image{
		StaticSection: make([]byte, 100),
		TextSection:   make([]byte, 100),
	}
	m := NewMachine(64)
	err := m.Mount(img)
	require.ErrorIs(t, err, ErrOutOfMemory)
}

// TestNegativeAddressIsStackRelative covers the "Stack address" glossary
// entry: negative addresses translate relative to stack_pointer.
func TestNegativeAddressIsStackRelative(t *testing.T) {
	m := NewMachine(64)
	m.stackPointer = 32

	idx, err := m.translate(-8)
	require.NoError(t, err)
	assert.Equal(t, int64(24), idx)
}

// TestTranslateRejectsOutOfRange covers invariant 1's bounds-checking
// half, and that the failure mode from C2 is always Segfault.
func TestTranslateRejectsOutOfRange(t *testing.T) {
	m := NewMachine(64) // end = 56
	_, err := m.translate(56)
	require.Error(t, err)
	var sf *SegfaultError
	require.ErrorAs(t, err, &sf)

	m.stackPointer = 0
	_, err = m.translate(-1)
	require.Error(t, err)
	require.ErrorAs(t, err, &sf)
}

// TestBadInstructionTerminatesCleanly covers invariant 6: any opcode byte
// outside the defined table halts Invoke with BadInstruction.
func TestBadInstructionTerminatesCleanly(t *testing.T) {
	img := &Image{
		TextSection: []byte{0xFF}, // not a valid opcode (>74, unassigned)
	}
	m := NewMachine(64)
	require.NoError(t, m.Mount(img))

	_, err := m.Invoke(0)
	require.ErrorIs(t, err, ErrBadInstruction)
}

// TestArithmeticAddThenSubRestoresValue covers invariant 5: add[W] a b
// followed by sub[W] a b restores the prior value at a, including across
// the 2^W wraparound boundary.
func TestArithmeticAddThenSubRestoresValue(t *testing.T) {
	static := newBuilder().u8(250).u8(20) // a=0, b=1; 250+20 wraps past 255
	text := newBuilder().
		op(OpAddB).i64(0).i64(1).
		op(OpSubB).i64(0).i64(1).
		op(OpExit).i64(0)

	img := &Image{StaticSection: static.bytes(), TextSection: text.bytes()}
	m := NewMachine(64)
	require.NoError(t, m.Mount(img))

	_, err := m.Invoke(m.textStart)
	require.NoError(t, err)

	got, err := readWidth[uint8](m, 0)
	require.NoError(t, err)
	assert.Equal(t, uint8(250), got)
}

func TestDivideByZero(t *testing.T) {
	static := newBuilder().u32(10).u32(0) // a=0, b=4
	text := newBuilder().op(OpDivI).i64(0).i64(4).op(OpExit).i64(0)
	img := &Image{StaticSection: static.bytes(), TextSection: text.bytes()}
	m := NewMachine(64)
	require.NoError(t, m.Mount(img))
	_, err := m.Invoke(m.textStart)
	require.ErrorIs(t, err, ErrDivideByZero)
}

func TestRabbitHandleClassificationAndMinting(t *testing.T) {
	m := NewMachine(64)
	assert.False(t, m.isRabbitHandle(64))
	assert.True(t, m.isRabbitHandle(65))
	assert.Equal(t, int64(65), m.nextRabbit())
	assert.Equal(t, int64(66), m.nextRabbit())
}
