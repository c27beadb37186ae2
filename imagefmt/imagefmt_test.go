package imagefmt

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	vm "anyvm/vm"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	img := &vm.Image{
		FunctionTable: map[string]int64{"main": 0, "helper": 42},
		StaticTable:   map[string]int64{"greeting": 8},
		StaticSection: []byte("hello\x00world\x00"),
		TextSection:   []byte{0x4A, 0, 0, 0, 0, 0, 0, 0, 0},
	}

	encoded := Encode(img)
	got, err := Decode(bytes.NewReader(encoded))
	require.NoError(t, err)

	require.Equal(t, img.FunctionTable, got.FunctionTable)
	require.Equal(t, img.StaticTable, got.StaticTable)
	require.Equal(t, img.StaticSection, got.StaticSection)
	require.Equal(t, img.TextSection, got.TextSection)
}

func TestEncodeDecodeEmptyImage(t *testing.T) {
	img := &vm.Image{
		FunctionTable: map[string]int64{},
		StaticTable:   map[string]int64{},
	}
	got, err := Decode(bytes.NewReader(Encode(img)))
	require.NoError(t, err)
	require.Empty(t, got.FunctionTable)
	require.Empty(t, got.StaticTable)
	require.Empty(t, got.StaticSection)
	require.Empty(t, got.TextSection)
}

func TestDecodeTruncatedInputErrors(t *testing.T) {
	_, err := Decode(bytes.NewReader([]byte{0, 0, 0}))
	require.Error(t, err)
}
