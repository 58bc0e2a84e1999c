package command

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/spaghettifunk/rhi/engine/core"
	"github.com/spaghettifunk/rhi/engine/renderer/heap"
	"github.com/spaghettifunk/rhi/engine/renderer/metadata"
)

type CommandBufferState int

const (
	COMMAND_BUFFER_STATE_READY CommandBufferState = iota
	COMMAND_BUFFER_STATE_RECORDING
	COMMAND_BUFFER_STATE_RECORDING_ENDED
	COMMAND_BUFFER_STATE_SUBMITTED
)

func (s CommandBufferState) String() string {
	switch s {
	case COMMAND_BUFFER_STATE_READY:
		return "ready"
	case COMMAND_BUFFER_STATE_RECORDING:
		return "recording"
	case COMMAND_BUFFER_STATE_RECORDING_ENDED:
		return "recording-ended"
	case COMMAND_BUFFER_STATE_SUBMITTED:
		return "submitted"
	}
	return "unknown"
}

// SecondaryCommandBuffer records commands into a virtual command buffer
// for contexts without native secondary command buffers, and replays
// them later against a CommandContext.
//
// Recording methods do not return errors. The first recording error is
// kept and returned by End.
type SecondaryCommandBuffer struct {
	Name   string
	State  CommandBufferState
	buffer *VirtualCommandBuffer
	err    error
}

func NewSecondaryCommandBuffer(name string, capacity int) *SecondaryCommandBuffer {
	if name == "" {
		name = fmt.Sprintf("command-buffer-%s", uuid.NewString())
	}
	return &SecondaryCommandBuffer{
		Name:   name,
		State:  COMMAND_BUFFER_STATE_READY,
		buffer: NewVirtualCommandBuffer(capacity),
	}
}

// Begin discards previously recorded commands and starts recording.
func (cb *SecondaryCommandBuffer) Begin() {
	cb.buffer.Clear()
	cb.err = nil
	cb.State = COMMAND_BUFFER_STATE_RECORDING
}

func (cb *SecondaryCommandBuffer) End() error {
	if cb.State != COMMAND_BUFFER_STATE_RECORDING {
		return fmt.Errorf("%w: '%s' is %s", core.ErrNotRecording, cb.Name, cb.State)
	}
	cb.State = COMMAND_BUFFER_STATE_RECORDING_ENDED
	if cb.err != nil {
		core.LogError("command buffer '%s' recorded with errors: %s", cb.Name, cb.err)
	}
	return cb.err
}

// Execute replays the recorded commands on ctx. The buffer must have
// ended recording; it can be executed any number of times.
func (cb *SecondaryCommandBuffer) Execute(ctx CommandContext) error {
	if cb.State != COMMAND_BUFFER_STATE_RECORDING_ENDED && cb.State != COMMAND_BUFFER_STATE_SUBMITTED {
		return fmt.Errorf("%w: '%s' is %s", core.ErrNotEnded, cb.Name, cb.State)
	}
	if cb.err != nil {
		return cb.err
	}
	cb.buffer.Run(Dispatch, ctx)
	return nil
}

// Buffer exposes the underlying virtual command buffer.
func (cb *SecondaryCommandBuffer) Buffer() *VirtualCommandBuffer {
	return cb.buffer
}

// Err returns the first recording error, if any.
func (cb *SecondaryCommandBuffer) Err() error {
	return cb.err
}

func (cb *SecondaryCommandBuffer) recording(op Opcode) bool {
	if cb.State != COMMAND_BUFFER_STATE_RECORDING {
		cb.fail(fmt.Errorf("%w: %s on '%s' in state %s", core.ErrNotRecording, op, cb.Name, cb.State))
		return false
	}
	return cb.err == nil
}

func (cb *SecondaryCommandBuffer) fail(err error) {
	if cb.err == nil {
		cb.err = err
	}
}

func (cb *SecondaryCommandBuffer) ref(op Opcode, obj any) (ObjectRef, bool) {
	if metadata.IsNil(obj) {
		cb.fail(fmt.Errorf("%w: %s on '%s'", core.ErrNullResource, op, cb.Name))
		return 0, false
	}
	return cb.buffer.AddObject(obj), true
}

func (cb *SecondaryCommandBuffer) SetVertexBuffer(slot uint32, buffer metadata.Buffer, offset uint64) {
	if !cb.recording(OpcodeSetVertexBuffer) {
		return
	}
	if ref, ok := cb.ref(OpcodeSetVertexBuffer, buffer); ok {
		cb.buffer.Append(&SetVertexBufferCmd{Buffer: ref, Slot: slot, Offset: offset}, nil)
	}
}

func (cb *SecondaryCommandBuffer) SetIndexBuffer(buffer metadata.Buffer, format metadata.Format, offset uint64) {
	if !cb.recording(OpcodeSetIndexBuffer) {
		return
	}
	if ref, ok := cb.ref(OpcodeSetIndexBuffer, buffer); ok {
		cb.buffer.Append(&SetIndexBufferCmd{Buffer: ref, Format: uint32(format), Offset: offset}, nil)
	}
}

func (cb *SecondaryCommandBuffer) SetPipelineState(pipeline metadata.PipelineState) {
	if !cb.recording(OpcodeSetPipelineState) {
		return
	}
	if ref, ok := cb.ref(OpcodeSetPipelineState, pipeline); ok {
		cb.buffer.Append(&SetPipelineStateCmd{Pipeline: ref}, nil)
	}
}

func (cb *SecondaryCommandBuffer) SetResourceHeap(h *heap.ResourceHeap, descriptorSet uint32) {
	if !cb.recording(OpcodeSetResourceHeap) {
		return
	}
	if h != nil && descriptorSet >= h.NumDescriptorSets() {
		cb.fail(fmt.Errorf("descriptor set %d out of range for heap '%s' (%d sets)", descriptorSet, h.Name(), h.NumDescriptorSets()))
		return
	}
	if ref, ok := cb.ref(OpcodeSetResourceHeap, h); ok {
		cb.buffer.Append(&SetResourceHeapCmd{Heap: ref, DescriptorSet: descriptorSet}, nil)
	}
}

func (cb *SecondaryCommandBuffer) SetResource(descriptor uint32, resource metadata.Resource) {
	if !cb.recording(OpcodeSetResource) {
		return
	}
	if ref, ok := cb.ref(OpcodeSetResource, resource); ok {
		cb.buffer.Append(&SetResourceCmd{Descriptor: descriptor, Resource: ref}, nil)
	}
}

func (cb *SecondaryCommandBuffer) SetBlendFactor(color [4]float32) {
	if cb.recording(OpcodeSetBlendFactor) {
		cb.buffer.Append(&SetBlendFactorCmd{Color: color}, nil)
	}
}

func (cb *SecondaryCommandBuffer) SetStencilRef(reference uint32, face metadata.StencilFace) {
	if cb.recording(OpcodeSetStencilRef) {
		cb.buffer.Append(&SetStencilRefCmd{Reference: reference, Face: uint32(face)}, nil)
	}
}

// SetUniforms records a copy of data.
func (cb *SecondaryCommandBuffer) SetUniforms(first uint32, data []byte) {
	if cb.recording(OpcodeSetUniforms) {
		cb.buffer.Append(&SetUniformsCmd{First: first, DataSize: uint32(len(data))}, data)
	}
}

func (cb *SecondaryCommandBuffer) SetUniformFloats(first uint32, values []float32) {
	cb.SetUniforms(first, encodeFloats(values))
}

func (cb *SecondaryCommandBuffer) SetViewports(viewports []metadata.Viewport) {
	if cb.recording(OpcodeSetViewports) {
		data := encodeViewports(viewports)
		cb.buffer.Append(&SetViewportsCmd{Count: uint32(len(viewports)), DataSize: uint32(len(data))}, data)
	}
}

func (cb *SecondaryCommandBuffer) SetScissors(scissors []metadata.Scissor) {
	if cb.recording(OpcodeSetScissors) {
		data := encodeScissors(scissors)
		cb.buffer.Append(&SetScissorsCmd{Count: uint32(len(scissors)), DataSize: uint32(len(data))}, data)
	}
}

func (cb *SecondaryCommandBuffer) Draw(numVertices, firstVertex uint32) {
	if cb.recording(OpcodeDraw) {
		cb.buffer.Append(&DrawCmd{NumVertices: numVertices, FirstVertex: firstVertex}, nil)
	}
}

func (cb *SecondaryCommandBuffer) DrawIndexed(numIndices, firstIndex uint32, vertexOffset int32) {
	if cb.recording(OpcodeDrawIndexed) {
		cb.buffer.Append(&DrawIndexedCmd{NumIndices: numIndices, FirstIndex: firstIndex, VertexOffset: vertexOffset}, nil)
	}
}

func (cb *SecondaryCommandBuffer) DrawInstanced(numVertices, firstVertex, numInstances, firstInstance uint32) {
	if cb.recording(OpcodeDrawInstanced) {
		cb.buffer.Append(&DrawInstancedCmd{
			NumVertices:   numVertices,
			FirstVertex:   firstVertex,
			NumInstances:  numInstances,
			FirstInstance: firstInstance,
		}, nil)
	}
}

func (cb *SecondaryCommandBuffer) DrawIndexedInstanced(numIndices, numInstances, firstIndex uint32, vertexOffset int32, firstInstance uint32) {
	if cb.recording(OpcodeDrawIndexedInstanced) {
		cb.buffer.Append(&DrawIndexedInstancedCmd{
			NumIndices:    numIndices,
			NumInstances:  numInstances,
			FirstIndex:    firstIndex,
			VertexOffset:  vertexOffset,
			FirstInstance: firstInstance,
		}, nil)
	}
}

func (cb *SecondaryCommandBuffer) drawIndirect(op, opN Opcode, buffer metadata.Buffer, offset uint64, numCommands, stride uint32) {
	if numCommands != 1 {
		op = opN
	}
	if !cb.recording(op) {
		return
	}
	if ref, ok := cb.ref(op, buffer); ok {
		cb.buffer.Append(&DrawIndirectCmd{Op: op, Buffer: ref, Offset: offset, NumCommands: numCommands, Stride: stride}, nil)
	}
}

// DrawInstancedIndirect records numCommands indirect draws read from
// buffer at offset, stride bytes apart.
func (cb *SecondaryCommandBuffer) DrawInstancedIndirect(buffer metadata.Buffer, offset uint64, numCommands, stride uint32) {
	cb.drawIndirect(OpcodeDrawInstancedIndirect, OpcodeDrawInstancedIndirectN, buffer, offset, numCommands, stride)
}

func (cb *SecondaryCommandBuffer) DrawIndexedInstancedIndirect(buffer metadata.Buffer, offset uint64, numCommands, stride uint32) {
	cb.drawIndirect(OpcodeDrawIndexedInstancedIndirect, OpcodeDrawIndexedInstancedIndirectN, buffer, offset, numCommands, stride)
}

// DrawAuto draws with the vertex count of the last stream output.
func (cb *SecondaryCommandBuffer) DrawAuto() {
	if cb.recording(OpcodeDrawAuto) {
		cb.buffer.AllocOpcode(OpcodeDrawAuto)
	}
}

func (cb *SecondaryCommandBuffer) Dispatch(numWorkGroupsX, numWorkGroupsY, numWorkGroupsZ uint32) {
	if cb.recording(OpcodeDispatch) {
		cb.buffer.Append(&DispatchCmd{NumWorkGroups: [3]uint32{numWorkGroupsX, numWorkGroupsY, numWorkGroupsZ}}, nil)
	}
}

func (cb *SecondaryCommandBuffer) DispatchIndirect(buffer metadata.Buffer, offset uint64) {
	if !cb.recording(OpcodeDispatchIndirect) {
		return
	}
	if ref, ok := cb.ref(OpcodeDispatchIndirect, buffer); ok {
		cb.buffer.Append(&DispatchIndirectCmd{Buffer: ref, Offset: offset}, nil)
	}
}

func (cb *SecondaryCommandBuffer) PushDebugGroup(name string) {
	if cb.recording(OpcodePushDebugGroup) {
		cb.buffer.Append(&PushDebugGroupCmd{DataSize: uint32(len(name))}, []byte(name))
	}
}

func (cb *SecondaryCommandBuffer) PopDebugGroup() {
	if cb.recording(OpcodePopDebugGroup) {
		cb.buffer.AllocOpcode(OpcodePopDebugGroup)
	}
}
