package command

import (
	"fmt"

	"github.com/spaghettifunk/rhi/engine/core"
)

const opcodeSize = 1

// VirtualCommandBuffer is a growable byte stream of records
//
//	[opcode uint8][command, Command.Size() bytes][payload, DataSize bytes]
//
// plus a table of the Go objects the records reference. It is written by
// one recorder and replayed front to back, never both at once.
type VirtualCommandBuffer struct {
	data    []byte
	objects []any
}

func NewVirtualCommandBuffer(capacity int) *VirtualCommandBuffer {
	return &VirtualCommandBuffer{
		data: make([]byte, 0, capacity),
	}
}

// Clear empties the buffer and keeps its storage for the next pass.
func (b *VirtualCommandBuffer) Clear() {
	b.data = b.data[:0]
	clear(b.objects)
	b.objects = b.objects[:0]
}

func (b *VirtualCommandBuffer) Len() int {
	return len(b.data)
}

func (b *VirtualCommandBuffer) Empty() bool {
	return len(b.data) == 0
}

// Bytes returns the recorded stream. The slice must not be modified.
func (b *VirtualCommandBuffer) Bytes() []byte {
	return b.data
}

func (b *VirtualCommandBuffer) grow(n int) []byte {
	old := len(b.data)
	if need := old + n; need > cap(b.data) {
		newCap := cap(b.data) * 2
		if newCap < need {
			newCap = need
		}
		tmp := make([]byte, old, newCap)
		copy(tmp, b.data)
		b.data = tmp
	}
	b.data = b.data[:old+n]
	return b.data[old:]
}

// AllocOpcode appends a record without command or payload.
func (b *VirtualCommandBuffer) AllocOpcode(op Opcode) {
	b.grow(opcodeSize)[0] = byte(op)
}

// AllocCommand appends a record for op and returns the size+payloadSize
// bytes following the opcode for the caller to fill in.
func (b *VirtualCommandBuffer) AllocCommand(op Opcode, size, payloadSize int) []byte {
	rec := b.grow(opcodeSize + size + payloadSize)
	rec[0] = byte(op)
	return rec[opcodeSize:]
}

// Append encodes cmd followed by payload. Commands carrying a payload
// must have their DataSize set to len(payload).
func (b *VirtualCommandBuffer) Append(cmd Command, payload []byte) {
	size := cmd.Size()
	rec := b.AllocCommand(cmd.Opcode(), size, len(payload))
	c := cursor{b: rec}
	cmd.encode(&c)
	if c.off != size {
		panic(fmt.Sprintf("command %s encoded %d bytes, expected %d", cmd.Opcode(), c.off, size))
	}
	copy(rec[size:], payload)
}

// AddObject stores obj in the object table and returns its reference.
func (b *VirtualCommandBuffer) AddObject(obj any) ObjectRef {
	b.objects = append(b.objects, obj)
	return ObjectRef(len(b.objects) - 1)
}

// Record is what a dispatcher sees of one record: the bytes from the end
// of the opcode to the end of the stream and the object table.
type Record struct {
	data    []byte
	objects []any
}

// Decode reads the fixed part of the record into cmd.
func (r Record) Decode(cmd Command) {
	c := cursor{b: r.data}
	cmd.decode(&c)
}

// Payload returns n bytes following a command of the given size.
func (r Record) Payload(size, n int) []byte {
	return r.data[size : size+n]
}

func (r Record) Object(ref ObjectRef) any {
	if int(ref) >= len(r.objects) {
		panic(fmt.Sprintf("object reference %d out of range (%d objects)", ref, len(r.objects)))
	}
	return r.objects[ref]
}

// DispatchFunc executes one record against ctx and returns the number of
// bytes it consumed after the opcode.
type DispatchFunc func(op Opcode, rec Record, ctx CommandContext) int

// Run walks the buffer from the start and dispatches every record in
// recording order. Run does not modify the buffer and can be repeated.
func (b *VirtualCommandBuffer) Run(fn DispatchFunc, ctx CommandContext) {
	pos, records := 0, 0
	for pos < len(b.data) {
		op := Opcode(b.data[pos])
		pos += opcodeSize
		n := fn(op, Record{data: b.data[pos:], objects: b.objects}, ctx)
		if n < 0 || pos+n > len(b.data) {
			panic(fmt.Sprintf("record %s at offset %d consumed %d bytes past the end of the buffer (%d bytes)", op, pos-opcodeSize, n, len(b.data)))
		}
		pos += n
		records++
	}
	core.MetricsReplay(records, pos)
}
