package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVirtualCommandBufferDrawRoundTrip(t *testing.T) {
	vb := NewVirtualCommandBuffer(0)
	vb.Append(&DrawCmd{NumVertices: 100, FirstVertex: 5}, nil)
	require.Equal(t, opcodeSize+(&DrawCmd{}).Size(), vb.Len())

	ctx := &recordingContext{}
	consumed := 0
	vb.Run(func(op Opcode, rec Record, ctx CommandContext) int {
		n := Dispatch(op, rec, ctx)
		consumed += opcodeSize + n
		return n
	}, ctx)

	assert.Equal(t, []string{"Draw(100, 5)"}, ctx.calls)
	assert.Equal(t, vb.Len(), consumed)
}

func TestVirtualCommandBufferPayloadRoundTrip(t *testing.T) {
	vb := NewVirtualCommandBuffer(16)
	data := []byte{0x11, 0x22, 0x33, 0x44}
	vb.Append(&SetUniformsCmd{First: 2, DataSize: uint32(len(data))}, data)
	vb.AllocOpcode(OpcodeDrawAuto)

	ctx := &recordingContext{}
	vb.Run(Dispatch, ctx)
	assert.Equal(t, []string{"SetUniforms(2, 11223344)", "DrawAuto()"}, ctx.calls)
}

func TestVirtualCommandBufferAllocCommandInPlace(t *testing.T) {
	vb := NewVirtualCommandBuffer(0)
	rec := vb.AllocCommand(OpcodeDispatch, 12, 0)
	require.Len(t, rec, 12)
	c := cursor{b: rec}
	c.putU32(8)
	c.putU32(4)
	c.putU32(1)

	ctx := &recordingContext{}
	vb.Run(Dispatch, ctx)
	assert.Equal(t, []string{"Dispatch(8, 4, 1)"}, ctx.calls)
}

func TestVirtualCommandBufferClear(t *testing.T) {
	vb := NewVirtualCommandBuffer(0)
	vb.Append(&DrawCmd{NumVertices: 3}, nil)
	vb.AddObject(&fakeBuffer{})
	capacity := cap(vb.Bytes())

	vb.Clear()
	assert.True(t, vb.Empty())
	assert.Equal(t, capacity, cap(vb.Bytes()))

	ctx := &recordingContext{}
	vb.Run(Dispatch, ctx)
	assert.Empty(t, ctx.calls)

	vb.Clear()
	vb.Run(Dispatch, ctx)
	assert.Empty(t, ctx.calls)
}

func TestVirtualCommandBufferRunIsRepeatable(t *testing.T) {
	vb := NewVirtualCommandBuffer(0)
	vb.Append(&DrawCmd{NumVertices: 3}, nil)
	vb.Append(&DispatchCmd{NumWorkGroups: [3]uint32{1, 2, 3}}, nil)

	ctx := &recordingContext{}
	vb.Run(Dispatch, ctx)
	vb.Run(Dispatch, ctx)
	assert.Equal(t, []string{"Draw(3, 0)", "Dispatch(1, 2, 3)", "Draw(3, 0)", "Dispatch(1, 2, 3)"}, ctx.calls)
}

func TestVirtualCommandBufferDetectsDesync(t *testing.T) {
	vb := NewVirtualCommandBuffer(0)
	vb.Append(&DrawCmd{NumVertices: 3}, nil)

	assert.Panics(t, func() {
		vb.Run(func(Opcode, Record, CommandContext) int { return 64 }, &recordingContext{})
	})
}

func TestDispatchUnknownOpcodePanics(t *testing.T) {
	vb := NewVirtualCommandBuffer(0)
	vb.AllocOpcode(Opcode(0))
	assert.Panics(t, func() { vb.Run(Dispatch, &recordingContext{}) })

	vb.Clear()
	vb.AllocOpcode(Opcode(opcodeEnd))
	assert.Panics(t, func() { vb.Run(Dispatch, &recordingContext{}) })
}

func TestCommandsEncodeTheirSize(t *testing.T) {
	commands := []Command{
		&SetVertexBufferCmd{Buffer: 1, Slot: 2, Offset: 3},
		&SetIndexBufferCmd{Buffer: 1, Format: 2, Offset: 3},
		&SetPipelineStateCmd{Pipeline: 1},
		&SetResourceHeapCmd{Heap: 1, DescriptorSet: 2},
		&SetResourceCmd{Descriptor: 1, Resource: 2},
		&SetBlendFactorCmd{Color: [4]float32{1, 2, 3, 4}},
		&SetStencilRefCmd{Reference: 1, Face: 2},
		&SetUniformsCmd{First: 1},
		&SetViewportsCmd{Count: 1},
		&SetScissorsCmd{Count: 1},
		&DrawCmd{NumVertices: 1, FirstVertex: 2},
		&DrawIndexedCmd{NumIndices: 1, FirstIndex: 2, VertexOffset: -3},
		&DrawInstancedCmd{NumVertices: 1, FirstVertex: 2, NumInstances: 3, FirstInstance: 4},
		&DrawIndexedInstancedCmd{NumIndices: 1, NumInstances: 2, FirstIndex: 3, VertexOffset: -4, FirstInstance: 5},
		&DrawIndirectCmd{Op: OpcodeDrawInstancedIndirect, Buffer: 1, Offset: 2},
		&DrawIndirectCmd{Op: OpcodeDrawInstancedIndirectN, Buffer: 1, Offset: 2, NumCommands: 3, Stride: 4},
		&DrawIndirectCmd{Op: OpcodeDrawIndexedInstancedIndirect, Buffer: 1, Offset: 2},
		&DrawIndirectCmd{Op: OpcodeDrawIndexedInstancedIndirectN, Buffer: 1, Offset: 2, NumCommands: 3, Stride: 4},
		&DispatchCmd{NumWorkGroups: [3]uint32{1, 2, 3}},
		&DispatchIndirectCmd{Buffer: 1, Offset: 2},
		&PushDebugGroupCmd{},
	}
	for _, cmd := range commands {
		t.Run(cmd.Opcode().String(), func(t *testing.T) {
			buf := make([]byte, cmd.Size()+8)
			w := cursor{b: buf}
			cmd.encode(&w)
			assert.Equal(t, cmd.Size(), w.off)

			decoded := newCommand(cmd.Opcode())
			r := cursor{b: buf}
			decoded.decode(&r)
			assert.Equal(t, cmd.Size(), r.off)
			if ind, ok := cmd.(*DrawIndirectCmd); ok && !ind.multi() {
				ind.NumCommands = 1
			}
			assert.Equal(t, cmd, decoded)
		})
	}
}

// newCommand returns an empty command for op.
func newCommand(op Opcode) Command {
	switch op {
	case OpcodeSetVertexBuffer:
		return &SetVertexBufferCmd{}
	case OpcodeSetIndexBuffer:
		return &SetIndexBufferCmd{}
	case OpcodeSetPipelineState:
		return &SetPipelineStateCmd{}
	case OpcodeSetResourceHeap:
		return &SetResourceHeapCmd{}
	case OpcodeSetResource:
		return &SetResourceCmd{}
	case OpcodeSetBlendFactor:
		return &SetBlendFactorCmd{}
	case OpcodeSetStencilRef:
		return &SetStencilRefCmd{}
	case OpcodeSetUniforms:
		return &SetUniformsCmd{}
	case OpcodeSetViewports:
		return &SetViewportsCmd{}
	case OpcodeSetScissors:
		return &SetScissorsCmd{}
	case OpcodeDraw:
		return &DrawCmd{}
	case OpcodeDrawIndexed:
		return &DrawIndexedCmd{}
	case OpcodeDrawInstanced:
		return &DrawInstancedCmd{}
	case OpcodeDrawIndexedInstanced:
		return &DrawIndexedInstancedCmd{}
	case OpcodeDrawInstancedIndirect, OpcodeDrawInstancedIndirectN,
		OpcodeDrawIndexedInstancedIndirect, OpcodeDrawIndexedInstancedIndirectN:
		return &DrawIndirectCmd{Op: op}
	case OpcodeDispatch:
		return &DispatchCmd{}
	case OpcodeDispatchIndirect:
		return &DispatchIndirectCmd{}
	case OpcodePushDebugGroup:
		return &PushDebugGroupCmd{}
	}
	return nil
}

func TestOpcodeNames(t *testing.T) {
	for op := Opcode(1); op < opcodeEnd; op++ {
		assert.True(t, op.Valid())
		assert.NotContains(t, op.String(), "Opcode(", "opcode %d has no name", op)
	}
	assert.False(t, Opcode(0).Valid())
	assert.Equal(t, "Opcode(200)", Opcode(200).String())
}
