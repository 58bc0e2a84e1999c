package trace

import (
	"github.com/spaghettifunk/rhi/engine/renderer/command"
	"github.com/spaghettifunk/rhi/engine/renderer/heap"
	"github.com/spaghettifunk/rhi/engine/renderer/metadata"
)

// Commands are journaled with the same names the command package uses
// for its opcodes.

func (d *Device) SetVertexBuffer(slot uint32, buffer metadata.Buffer, offset uint64) {
	d.record("SetVertexBuffer slot=%d %v offset=%d", slot, buffer, offset)
}

func (d *Device) SetIndexBuffer(buffer metadata.Buffer, format metadata.Format, offset uint64) {
	d.record("SetIndexBuffer %v format=%d offset=%d", buffer, format, offset)
}

func (d *Device) SetPipelineState(pipeline metadata.PipelineState) {
	d.record("SetPipelineState %v compute=%t", pipeline, pipeline.IsCompute())
}

func (d *Device) SetResourceHeap(h *heap.ResourceHeap, descriptorSet uint32) {
	d.record("SetResourceHeap %s set=%d", h.Name(), descriptorSet)
}

func (d *Device) SetResource(descriptor uint32, resource metadata.Resource) {
	d.record("SetResource descriptor=%d %v", descriptor, resource)
}

func (d *Device) SetBlendFactor(color [4]float32) {
	d.record("SetBlendFactor %v", color)
}

func (d *Device) SetStencilRef(reference uint32, face metadata.StencilFace) {
	d.record("SetStencilRef %d face=%d", reference, face)
}

func (d *Device) SetUniforms(first uint32, data []byte) {
	d.record("SetUniforms first=%d %d bytes", first, len(data))
}

func (d *Device) SetViewports(viewports []metadata.Viewport) {
	d.record("SetViewports %v", viewports)
}

func (d *Device) SetScissors(scissors []metadata.Scissor) {
	d.record("SetScissors %v", scissors)
}

func (d *Device) Draw(numVertices, firstVertex uint32) {
	d.record("Draw vertices=%d first=%d", numVertices, firstVertex)
}

func (d *Device) DrawIndexed(numIndices, firstIndex uint32, vertexOffset int32) {
	d.record("DrawIndexed indices=%d first=%d offset=%d", numIndices, firstIndex, vertexOffset)
}

func (d *Device) DrawInstanced(numVertices, firstVertex, numInstances, firstInstance uint32) {
	d.record("DrawInstanced vertices=%d first=%d instances=%d first=%d", numVertices, firstVertex, numInstances, firstInstance)
}

func (d *Device) DrawIndexedInstanced(numIndices, numInstances, firstIndex uint32, vertexOffset int32, firstInstance uint32) {
	d.record("DrawIndexedInstanced indices=%d instances=%d first=%d offset=%d first-instance=%d", numIndices, numInstances, firstIndex, vertexOffset, firstInstance)
}

func (d *Device) DrawInstancedIndirect(buffer metadata.Buffer, offset uint64, numCommands, stride uint32) {
	d.record("DrawInstancedIndirect %v offset=%d commands=%d stride=%d", buffer, offset, numCommands, stride)
}

func (d *Device) DrawIndexedInstancedIndirect(buffer metadata.Buffer, offset uint64, numCommands, stride uint32) {
	d.record("DrawIndexedInstancedIndirect %v offset=%d commands=%d stride=%d", buffer, offset, numCommands, stride)
}

func (d *Device) DrawAuto() {
	d.record("DrawAuto")
}

func (d *Device) Dispatch(x, y, z uint32) {
	d.record("Dispatch %dx%dx%d", x, y, z)
}

func (d *Device) DispatchIndirect(buffer metadata.Buffer, offset uint64) {
	d.record("DispatchIndirect %v offset=%d", buffer, offset)
}

func (d *Device) PushDebugGroup(name string) {
	d.record("PushDebugGroup %q", name)
}

func (d *Device) PopDebugGroup() {
	d.record("PopDebugGroup")
}

var (
	_ heap.ViewFactory       = (*Device)(nil)
	_ heap.BindingContext    = (*Device)(nil)
	_ command.CommandContext = (*Device)(nil)
)
