package command

import (
	"github.com/spaghettifunk/rhi/engine/renderer/heap"
	"github.com/spaghettifunk/rhi/engine/renderer/metadata"
)

// CommandContext issues commands against a native context. There is one
// method per opcode; slices handed to it are only valid during the call.
type CommandContext interface {
	SetVertexBuffer(slot uint32, buffer metadata.Buffer, offset uint64)
	SetIndexBuffer(buffer metadata.Buffer, format metadata.Format, offset uint64)
	SetPipelineState(pipeline metadata.PipelineState)
	SetResourceHeap(heap *heap.ResourceHeap, descriptorSet uint32)
	SetResource(descriptor uint32, resource metadata.Resource)
	SetBlendFactor(color [4]float32)
	SetStencilRef(reference uint32, face metadata.StencilFace)
	SetUniforms(first uint32, data []byte)
	SetViewports(viewports []metadata.Viewport)
	SetScissors(scissors []metadata.Scissor)

	Draw(numVertices, firstVertex uint32)
	DrawIndexed(numIndices, firstIndex uint32, vertexOffset int32)
	DrawInstanced(numVertices, firstVertex, numInstances, firstInstance uint32)
	DrawIndexedInstanced(numIndices, numInstances, firstIndex uint32, vertexOffset int32, firstInstance uint32)
	DrawInstancedIndirect(buffer metadata.Buffer, offset uint64, numCommands, stride uint32)
	DrawIndexedInstancedIndirect(buffer metadata.Buffer, offset uint64, numCommands, stride uint32)
	DrawAuto()

	Dispatch(numWorkGroupsX, numWorkGroupsY, numWorkGroupsZ uint32)
	DispatchIndirect(buffer metadata.Buffer, offset uint64)

	PushDebugGroup(name string)
	PopDebugGroup()
}
