package vm

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestPushPopRoundTrip covers invariant 2: push<W> followed by pop<W>
// yields the value pushed, bit-for-bit, for every width.
func TestPushPopRoundTrip(t *testing.T) {
	m := NewMachine(64)
	m.stackPointer = 0

	require.NoError(t, pushWidth[uint64](m, math.MaxUint64))
	got64, err := popWidth[uint64](m)
	require.NoError(t, err)
	assert.Equal(t, uint64(math.MaxUint64), got64)

	require.NoError(t, pushWidth[uint32](m, math.MaxUint32))
	got32, err := popWidth[uint32](m)
	require.NoError(t, err)
	assert.Equal(t, uint32(math.MaxUint32), got32)

	require.NoError(t, pushWidth[uint16](m, math.MaxUint16))
	got16, err := popWidth[uint16](m)
	require.NoError(t, err)
	assert.Equal(t, uint16(math.MaxUint16), got16)

	require.NoError(t, pushWidth[uint8](m, 0xAB))
	got8, err := popWidth[uint8](m)
	require.NoError(t, err)
	assert.Equal(t, uint8(0xAB), got8)
}

// TestSwapTwiceIsNoop covers invariant 3.
func TestSwapTwiceIsNoop(t *testing.T) {
	m := NewMachine(64)
	require.NoError(t, writeWidth[uint64](m, 0, 0x1122334455667788))
	require.NoError(t, writeWidth[uint64](m, 8, 0x8877665544332211))

	require.NoError(t, swapWidth[uint64](m, 0, 8))
	require.NoError(t, swapWidth[uint64](m, 0, 8))

	a, err := readWidth[uint64](m, 0)
	require.NoError(t, err)
	b, err := readWidth[uint64](m, 8)
	require.NoError(t, err)
	assert.Equal(t, uint64(0x1122334455667788), a)
	assert.Equal(t, uint64(0x8877665544332211), b)
}

// TestCpyLeavesSourceUnchanged covers invariant 4.
func TestCpyLeavesSourceUnchanged(t *testing.T) {
	m := NewMachine(64)
	require.NoError(t, writeWidth[uint32](m, 0, 0xCAFEBABE))

	require.NoError(t, cpyWidth[uint32](m, 0, 16))

	src, err := readWidth[uint32](m, 0)
	require.NoError(t, err)
	dst, err := readWidth[uint32](m, 16)
	require.NoError(t, err)
	assert.Equal(t, uint32(0xCAFEBABE), src)
	assert.Equal(t, uint32(0xCAFEBABE), dst)
}

// TestNaiveWideningIsZeroExtendingNotSignExtending checks the "no sign
// extension" rule: a narrow negative-looking value naively widens to a
// large positive u64, not a sign-extended negative one.
func TestNaiveWideningIsZeroExtendingNotSignExtending(t *testing.T) {
	var b uint8 = 0xFF // -1 if reinterpreted signed
	wide := naiveU64(b)
	assert.Equal(t, uint64(0xFF), wide)
	assert.NotEqual(t, uint64(math.MaxUint64), wide)

	narrowed := fromNaiveU64[uint8](wide)
	assert.Equal(t, b, narrowed)
}

func TestCompareUnsigned(t *testing.T) {
	assert.Equal(t, uint8(0), compareUnsigned[uint32](5, 5))
	assert.Equal(t, uint8(1), compareUnsigned[uint32](6, 5))
	assert.Equal(t, uint8(2), compareUnsigned[uint32](4, 5))
}
