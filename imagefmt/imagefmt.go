// Package imagefmt implements the on-disk framing for anyvm images, with
// no magic number or version header. It is the one canonical codec this
// repository supplies so cmd/anyvm and tests have a concrete file format
// to round-trip.
package imagefmt

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/pkg/errors"

	vm "anyvm/vm"
)

// Encode serialises img as: function-table (count:L, then repeated
// [name_length:L, name_bytes, offset:L]), static-table (same shape),
// static_section_length:L, static bytes, text_section_length:L, text
// bytes.
func Encode(img *vm.Image) []byte {
	var buf bytes.Buffer
	writeTable(&buf, img.FunctionTable)
	writeTable(&buf, img.StaticTable)
	writeLenPrefixed(&buf, img.StaticSection)
	writeLenPrefixed(&buf, img.TextSection)
	return buf.Bytes()
}

func writeTable(buf *bytes.Buffer, table map[string]int64) {
	writeU64(buf, uint64(len(table)))
	for name, offset := range table {
		writeLenPrefixed(buf, []byte(name))
		writeU64(buf, uint64(offset))
	}
}

func writeLenPrefixed(buf *bytes.Buffer, b []byte) {
	writeU64(buf, uint64(len(b)))
	buf.Write(b)
}

func writeU64(buf *bytes.Buffer, v uint64) {
	var tmp [8]byte
	binary.BigEndian.PutUint64(tmp[:], v)
	buf.Write(tmp[:])
}

// Decode reads the layout Encode writes, rebuilding a *vm.Image.
func Decode(r io.Reader) (*vm.Image, error) {
	functionTable, err := readTable(r)
	if err != nil {
		return nil, errors.Wrap(err, "imagefmt: function table")
	}
	staticTable, err := readTable(r)
	if err != nil {
		return nil, errors.Wrap(err, "imagefmt: static table")
	}
	staticSection, err := readLenPrefixed(r)
	if err != nil {
		return nil, errors.Wrap(err, "imagefmt: static section")
	}
	textSection, err := readLenPrefixed(r)
	if err != nil {
		return nil, errors.Wrap(err, "imagefmt: text section")
	}

	return &vm.Image{
		FunctionTable: functionTable,
		StaticTable:   staticTable,
		StaticSection: staticSection,
		TextSection:   textSection,
	}, nil
}

func readTable(r io.Reader) (map[string]int64, error) {
	count, err := readU64(r)
	if err != nil {
		return nil, err
	}
	table := make(map[string]int64, count)
	for i := uint64(0); i < count; i++ {
		nameBytes, err := readLenPrefixed(r)
		if err != nil {
			return nil, err
		}
		offset, err := readU64(r)
		if err != nil {
			return nil, err
		}
		table[string(nameBytes)] = int64(offset)
	}
	return table, nil
}

func readLenPrefixed(r io.Reader) ([]byte, error) {
	n, err := readU64(r)
	if err != nil {
		return nil, err
	}
	b := make([]byte, n)
	if _, err := io.ReadFull(r, b); err != nil {
		return nil, err
	}
	return b, nil
}

func readU64(r io.Reader) (uint64, error) {
	var tmp [8]byte
	if _, err := io.ReadFull(r, tmp[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(tmp[:]), nil
}
