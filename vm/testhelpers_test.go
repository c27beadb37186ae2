package vm

import "encoding/binary"

// byteBuilder is a tiny fixture helper for assembling raw bytecode and
// static-section byte streams directly in tests -- there is no text
// assembler in this package, so tests build byte streams by hand.
type byteBuilder struct {
	buf []byte
}

func (b *byteBuilder) op(o Opcode) *byteBuilder {
	b.buf = append(b.buf, byte(o))
	return b
}

func (b *byteBuilder) u64(v uint64) *byteBuilder {
	var tmp [8]byte
	binary.BigEndian.PutUint64(tmp[:], v)
	b.buf = append(b.buf, tmp[:]...)
	return b
}

func (b *byteBuilder) i64(v int64) *byteBuilder {
	return b.u64(uint64(v))
}

func (b *byteBuilder) u32(v uint32) *byteBuilder {
	var tmp [4]byte
	binary.BigEndian.PutUint32(tmp[:], v)
	b.buf = append(b.buf, tmp[:]...)
	return b
}

func (b *byteBuilder) u16(v uint16) *byteBuilder {
	var tmp [2]byte
	binary.BigEndian.PutUint16(tmp[:], v)
	b.buf = append(b.buf, tmp[:]...)
	return b
}

func (b *byteBuilder) u8(v uint8) *byteBuilder {
	b.buf = append(b.buf, v)
	return b
}

func (b *byteBuilder) i8(v int8) *byteBuilder {
	return b.u8(uint8(v))
}

func (b *byteBuilder) cstr(s string) *byteBuilder {
	b.buf = append(b.buf, []byte(s)...)
	b.buf = append(b.buf, 0)
	return b
}

func (b *byteBuilder) bytes() []byte {
	return b.buf
}

func newBuilder() *byteBuilder {
	return &byteBuilder{}
}
