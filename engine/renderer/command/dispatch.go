package command

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/spaghettifunk/rhi/engine/renderer/heap"
	"github.com/spaghettifunk/rhi/engine/renderer/metadata"
)

// Dispatch executes one record on ctx and returns the number of bytes the
// record occupies after its opcode. It is a DispatchFunc.
func Dispatch(op Opcode, rec Record, ctx CommandContext) int {
	switch op {
	case OpcodeSetVertexBuffer:
		var cmd SetVertexBufferCmd
		rec.Decode(&cmd)
		ctx.SetVertexBuffer(cmd.Slot, object[metadata.Buffer](rec, op, cmd.Buffer), cmd.Offset)
		return cmd.Size()

	case OpcodeSetIndexBuffer:
		var cmd SetIndexBufferCmd
		rec.Decode(&cmd)
		ctx.SetIndexBuffer(object[metadata.Buffer](rec, op, cmd.Buffer), metadata.Format(cmd.Format), cmd.Offset)
		return cmd.Size()

	case OpcodeSetPipelineState:
		var cmd SetPipelineStateCmd
		rec.Decode(&cmd)
		ctx.SetPipelineState(object[metadata.PipelineState](rec, op, cmd.Pipeline))
		return cmd.Size()

	case OpcodeSetResourceHeap:
		var cmd SetResourceHeapCmd
		rec.Decode(&cmd)
		ctx.SetResourceHeap(object[*heap.ResourceHeap](rec, op, cmd.Heap), cmd.DescriptorSet)
		return cmd.Size()

	case OpcodeSetResource:
		var cmd SetResourceCmd
		rec.Decode(&cmd)
		ctx.SetResource(cmd.Descriptor, object[metadata.Resource](rec, op, cmd.Resource))
		return cmd.Size()

	case OpcodeSetBlendFactor:
		var cmd SetBlendFactorCmd
		rec.Decode(&cmd)
		ctx.SetBlendFactor(cmd.Color)
		return cmd.Size()

	case OpcodeSetStencilRef:
		var cmd SetStencilRefCmd
		rec.Decode(&cmd)
		ctx.SetStencilRef(cmd.Reference, metadata.StencilFace(cmd.Face))
		return cmd.Size()

	case OpcodeSetUniforms:
		var cmd SetUniformsCmd
		rec.Decode(&cmd)
		ctx.SetUniforms(cmd.First, rec.Payload(cmd.Size(), int(cmd.DataSize)))
		return cmd.Size() + int(cmd.DataSize)

	case OpcodeSetViewports:
		var cmd SetViewportsCmd
		rec.Decode(&cmd)
		ctx.SetViewports(decodeViewports(rec.Payload(cmd.Size(), int(cmd.DataSize)), int(cmd.Count)))
		return cmd.Size() + int(cmd.DataSize)

	case OpcodeSetScissors:
		var cmd SetScissorsCmd
		rec.Decode(&cmd)
		ctx.SetScissors(decodeScissors(rec.Payload(cmd.Size(), int(cmd.DataSize)), int(cmd.Count)))
		return cmd.Size() + int(cmd.DataSize)

	case OpcodeDraw:
		var cmd DrawCmd
		rec.Decode(&cmd)
		ctx.Draw(cmd.NumVertices, cmd.FirstVertex)
		return cmd.Size()

	case OpcodeDrawIndexed:
		var cmd DrawIndexedCmd
		rec.Decode(&cmd)
		ctx.DrawIndexed(cmd.NumIndices, cmd.FirstIndex, cmd.VertexOffset)
		return cmd.Size()

	case OpcodeDrawInstanced:
		var cmd DrawInstancedCmd
		rec.Decode(&cmd)
		ctx.DrawInstanced(cmd.NumVertices, cmd.FirstVertex, cmd.NumInstances, cmd.FirstInstance)
		return cmd.Size()

	case OpcodeDrawIndexedInstanced:
		var cmd DrawIndexedInstancedCmd
		rec.Decode(&cmd)
		ctx.DrawIndexedInstanced(cmd.NumIndices, cmd.NumInstances, cmd.FirstIndex, cmd.VertexOffset, cmd.FirstInstance)
		return cmd.Size()

	case OpcodeDrawInstancedIndirect, OpcodeDrawInstancedIndirectN:
		cmd := DrawIndirectCmd{Op: op}
		rec.Decode(&cmd)
		ctx.DrawInstancedIndirect(object[metadata.Buffer](rec, op, cmd.Buffer), cmd.Offset, cmd.NumCommands, cmd.Stride)
		return cmd.Size()

	case OpcodeDrawIndexedInstancedIndirect, OpcodeDrawIndexedInstancedIndirectN:
		cmd := DrawIndirectCmd{Op: op}
		rec.Decode(&cmd)
		ctx.DrawIndexedInstancedIndirect(object[metadata.Buffer](rec, op, cmd.Buffer), cmd.Offset, cmd.NumCommands, cmd.Stride)
		return cmd.Size()

	case OpcodeDrawAuto:
		ctx.DrawAuto()
		return 0

	case OpcodeDispatch:
		var cmd DispatchCmd
		rec.Decode(&cmd)
		ctx.Dispatch(cmd.NumWorkGroups[0], cmd.NumWorkGroups[1], cmd.NumWorkGroups[2])
		return cmd.Size()

	case OpcodeDispatchIndirect:
		var cmd DispatchIndirectCmd
		rec.Decode(&cmd)
		ctx.DispatchIndirect(object[metadata.Buffer](rec, op, cmd.Buffer), cmd.Offset)
		return cmd.Size()

	case OpcodePushDebugGroup:
		var cmd PushDebugGroupCmd
		rec.Decode(&cmd)
		ctx.PushDebugGroup(string(rec.Payload(cmd.Size(), int(cmd.DataSize))))
		return cmd.Size() + int(cmd.DataSize)

	case OpcodePopDebugGroup:
		ctx.PopDebugGroup()
		return 0

	default:
		panic(fmt.Sprintf("unknown opcode %d in virtual command buffer", uint8(op)))
	}
}

func object[T any](rec Record, op Opcode, ref ObjectRef) T {
	obj, ok := rec.Object(ref).(T)
	if !ok {
		panic(fmt.Sprintf("%s references object %d of type %T", op, ref, rec.Object(ref)))
	}
	return obj
}

func encodeViewports(viewports []metadata.Viewport) []byte {
	out := make([]byte, len(viewports)*viewportSize)
	c := cursor{b: out}
	for _, vp := range viewports {
		c.putF32(vp.X)
		c.putF32(vp.Y)
		c.putF32(vp.Width)
		c.putF32(vp.Height)
		c.putF32(vp.MinDepth)
		c.putF32(vp.MaxDepth)
	}
	return out
}

func decodeViewports(data []byte, n int) []metadata.Viewport {
	out := make([]metadata.Viewport, n)
	c := cursor{b: data}
	for i := range out {
		out[i] = metadata.Viewport{
			X: c.f32(), Y: c.f32(), Width: c.f32(), Height: c.f32(),
			MinDepth: c.f32(), MaxDepth: c.f32(),
		}
	}
	return out
}

func encodeScissors(scissors []metadata.Scissor) []byte {
	out := make([]byte, len(scissors)*scissorSize)
	for i, sc := range scissors {
		b := out[i*scissorSize:]
		binary.LittleEndian.PutUint32(b[0:], uint32(sc.X))
		binary.LittleEndian.PutUint32(b[4:], uint32(sc.Y))
		binary.LittleEndian.PutUint32(b[8:], uint32(sc.Width))
		binary.LittleEndian.PutUint32(b[12:], uint32(sc.Height))
	}
	return out
}

func decodeScissors(data []byte, n int) []metadata.Scissor {
	out := make([]metadata.Scissor, n)
	c := cursor{b: data}
	for i := range out {
		out[i] = metadata.Scissor{X: c.i32(), Y: c.i32(), Width: c.i32(), Height: c.i32()}
	}
	return out
}

// encodeFloats packs float32 uniform data for SetUniforms.
func encodeFloats(values []float32) []byte {
	out := make([]byte, len(values)*4)
	for i, v := range values {
		binary.LittleEndian.PutUint32(out[i*4:], math.Float32bits(v))
	}
	return out
}
