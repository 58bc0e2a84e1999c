package command

import (
	"fmt"

	"github.com/spaghettifunk/rhi/engine/renderer/heap"
	"github.com/spaghettifunk/rhi/engine/renderer/metadata"
)

type fakeBuffer struct {
	name string
	size uint64
}

func (b *fakeBuffer) ResourceType() metadata.ResourceType  { return metadata.ResourceTypeBuffer }
func (b *fakeBuffer) Native() metadata.Handle              { return 1 }
func (b *fakeBuffer) BindFlags() metadata.BindFlags        { return metadata.BindConstantBuffer }
func (b *fakeBuffer) Size() uint64                         { return b.size }
func (b *fakeBuffer) ShaderResourceView() metadata.Handle  { return 0 }
func (b *fakeBuffer) UnorderedAccessView() metadata.Handle { return 0 }
func (b *fakeBuffer) String() string                       { return b.name }

type fakePipeline struct {
	name    string
	compute bool
}

func (p *fakePipeline) IsCompute() bool { return p.compute }
func (p *fakePipeline) String() string  { return p.name }

type fakeFactory struct{}

func (fakeFactory) Features() metadata.Features { return metadata.Features{} }
func (fakeFactory) CreateTextureView(metadata.Texture, metadata.TextureViewDescriptor, bool) (metadata.Handle, error) {
	return 0, fmt.Errorf("not supported")
}
func (fakeFactory) CreateBufferView(metadata.Buffer, metadata.BufferViewDescriptor, bool) (metadata.Handle, error) {
	return 0, fmt.Errorf("not supported")
}
func (fakeFactory) ReleaseView(metadata.Handle) {}

// recordingContext logs every call it receives as a string.
type recordingContext struct {
	calls []string
}

func (c *recordingContext) log(format string, args ...any) {
	c.calls = append(c.calls, fmt.Sprintf(format, args...))
}

func (c *recordingContext) SetVertexBuffer(slot uint32, buffer metadata.Buffer, offset uint64) {
	c.log("SetVertexBuffer(%d, %v, %d)", slot, buffer, offset)
}
func (c *recordingContext) SetIndexBuffer(buffer metadata.Buffer, format metadata.Format, offset uint64) {
	c.log("SetIndexBuffer(%v, %d, %d)", buffer, format, offset)
}
func (c *recordingContext) SetPipelineState(pipeline metadata.PipelineState) {
	c.log("SetPipelineState(%v)", pipeline)
}
func (c *recordingContext) SetResourceHeap(h *heap.ResourceHeap, descriptorSet uint32) {
	c.log("SetResourceHeap(%s, %d)", h.Name(), descriptorSet)
}
func (c *recordingContext) SetResource(descriptor uint32, resource metadata.Resource) {
	c.log("SetResource(%d, %v)", descriptor, resource)
}
func (c *recordingContext) SetBlendFactor(color [4]float32) {
	c.log("SetBlendFactor(%v)", color)
}
func (c *recordingContext) SetStencilRef(reference uint32, face metadata.StencilFace) {
	c.log("SetStencilRef(%d, %d)", reference, face)
}
func (c *recordingContext) SetUniforms(first uint32, data []byte) {
	c.log("SetUniforms(%d, %x)", first, data)
}
func (c *recordingContext) SetViewports(viewports []metadata.Viewport) {
	c.log("SetViewports(%v)", viewports)
}
func (c *recordingContext) SetScissors(scissors []metadata.Scissor) {
	c.log("SetScissors(%v)", scissors)
}
func (c *recordingContext) Draw(numVertices, firstVertex uint32) {
	c.log("Draw(%d, %d)", numVertices, firstVertex)
}
func (c *recordingContext) DrawIndexed(numIndices, firstIndex uint32, vertexOffset int32) {
	c.log("DrawIndexed(%d, %d, %d)", numIndices, firstIndex, vertexOffset)
}
func (c *recordingContext) DrawInstanced(numVertices, firstVertex, numInstances, firstInstance uint32) {
	c.log("DrawInstanced(%d, %d, %d, %d)", numVertices, firstVertex, numInstances, firstInstance)
}
func (c *recordingContext) DrawIndexedInstanced(numIndices, numInstances, firstIndex uint32, vertexOffset int32, firstInstance uint32) {
	c.log("DrawIndexedInstanced(%d, %d, %d, %d, %d)", numIndices, numInstances, firstIndex, vertexOffset, firstInstance)
}
func (c *recordingContext) DrawInstancedIndirect(buffer metadata.Buffer, offset uint64, numCommands, stride uint32) {
	c.log("DrawInstancedIndirect(%v, %d, %d, %d)", buffer, offset, numCommands, stride)
}
func (c *recordingContext) DrawIndexedInstancedIndirect(buffer metadata.Buffer, offset uint64, numCommands, stride uint32) {
	c.log("DrawIndexedInstancedIndirect(%v, %d, %d, %d)", buffer, offset, numCommands, stride)
}
func (c *recordingContext) DrawAuto() {
	c.log("DrawAuto()")
}
func (c *recordingContext) Dispatch(x, y, z uint32) {
	c.log("Dispatch(%d, %d, %d)", x, y, z)
}
func (c *recordingContext) DispatchIndirect(buffer metadata.Buffer, offset uint64) {
	c.log("DispatchIndirect(%v, %d)", buffer, offset)
}
func (c *recordingContext) PushDebugGroup(name string) {
	c.log("PushDebugGroup(%s)", name)
}
func (c *recordingContext) PopDebugGroup() {
	c.log("PopDebugGroup()")
}

// recordingBindings logs native binding calls.
type recordingBindings struct {
	calls []string
}

func (b *recordingBindings) SetConstantBuffers(stage heap.ShaderStage, startSlot uint32, buffers []metadata.Handle) {
	b.calls = append(b.calls, fmt.Sprintf("%s cbuffers @%d %v", stage, startSlot, buffers))
}
func (b *recordingBindings) SetConstantBufferRanges(stage heap.ShaderStage, startSlot uint32, buffers []metadata.Handle, first, num []uint32) {
	b.calls = append(b.calls, fmt.Sprintf("%s cbuffer-ranges @%d %v", stage, startSlot, buffers))
}
func (b *recordingBindings) SetSamplers(stage heap.ShaderStage, startSlot uint32, samplers []metadata.Handle) {
	b.calls = append(b.calls, fmt.Sprintf("%s samplers @%d %v", stage, startSlot, samplers))
}
func (b *recordingBindings) SetShaderResources(stage heap.ShaderStage, startSlot uint32, views []metadata.Handle) {
	b.calls = append(b.calls, fmt.Sprintf("%s srvs @%d %v", stage, startSlot, views))
}
func (b *recordingBindings) SetUnorderedAccessViews(stage heap.ShaderStage, startSlot uint32, views []metadata.Handle, counts []uint32) {
	b.calls = append(b.calls, fmt.Sprintf("%s uavs @%d %v", stage, startSlot, views))
}
