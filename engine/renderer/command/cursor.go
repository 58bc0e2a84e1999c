package command

import (
	"encoding/binary"
	"math"
)

// cursor reads or writes fixed-width little endian fields in order.
type cursor struct {
	b   []byte
	off int
}

func (c *cursor) putU32(v uint32) {
	binary.LittleEndian.PutUint32(c.b[c.off:], v)
	c.off += 4
}

func (c *cursor) putI32(v int32) {
	c.putU32(uint32(v))
}

func (c *cursor) putU64(v uint64) {
	binary.LittleEndian.PutUint64(c.b[c.off:], v)
	c.off += 8
}

func (c *cursor) putF32(v float32) {
	c.putU32(math.Float32bits(v))
}

func (c *cursor) u32() uint32 {
	v := binary.LittleEndian.Uint32(c.b[c.off:])
	c.off += 4
	return v
}

func (c *cursor) i32() int32 {
	return int32(c.u32())
}

func (c *cursor) u64() uint64 {
	v := binary.LittleEndian.Uint64(c.b[c.off:])
	c.off += 8
	return v
}

func (c *cursor) f32() float32 {
	return math.Float32frombits(c.u32())
}
