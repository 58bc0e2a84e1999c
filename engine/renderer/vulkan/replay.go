package vulkan

import (
	"fmt"
	"unsafe"

	vk "github.com/goki/vulkan"

	"github.com/spaghettifunk/rhi/engine/core"
	"github.com/spaghettifunk/rhi/engine/renderer/command"
	"github.com/spaghettifunk/rhi/engine/renderer/heap"
	"github.com/spaghettifunk/rhi/engine/renderer/metadata"
)

// Replayer records virtual commands into a native command buffer. Every
// heap descriptor set is backed by its own native descriptor set, written
// the first time it is bound. SetResource calls on top of a heap bind a
// freshly written set, so no set is updated after it has been bound.
type Replayer struct {
	context  *VulkanContext
	cmd      *VulkanCommandBuffer
	pipeline *Pipeline

	sets      *descriptorSets
	heap      *heap.ResourceHeap
	heapSet   uint32
	overrides *descriptorWriter
	// Set when the descriptor set bound for the next draw changed.
	dirty bool
}

// NewReplayer creates a replayer allocating descriptor sets from pool.
// The pool must stay alive, and must not be reset, while the replayed
// command buffers are in use.
func NewReplayer(context *VulkanContext, cmd *VulkanCommandBuffer, pool vk.DescriptorPool, shifts BindingShifts) *Replayer {
	return &Replayer{
		context:   context,
		cmd:       cmd,
		sets:      newDescriptorSets(context, pool, shifts),
		overrides: newDescriptorWriter(context, shifts),
	}
}

// Replay records the commands of cb into the native command buffer,
// which must be recording.
func (r *Replayer) Replay(cb *command.SecondaryCommandBuffer) error {
	if r.cmd.State != COMMAND_BUFFER_STATE_RECORDING {
		return fmt.Errorf("%w: native command buffer", core.ErrNotRecording)
	}
	return cb.Execute(r)
}

// ReleaseHeap forgets the descriptor sets written for h. Call it before
// releasing the heap.
func (r *Replayer) ReleaseHeap(h *heap.ResourceHeap) {
	r.sets.forget(h)
	if r.heap == h {
		r.heap = nil
	}
}

func asBuffer(buffer metadata.Buffer) *Buffer {
	buf, ok := buffer.(*Buffer)
	if !ok {
		panic(fmt.Sprintf("vulkan: %T is not a vulkan buffer", buffer))
	}
	return buf
}

// descriptorSet returns the native set the next draw or dispatch reads,
// and false when nothing is bound.
func (r *Replayer) descriptorSet() (vk.DescriptorSet, bool, error) {
	var base heapDescriptorSet
	if r.heap != nil {
		hs, err := r.sets.forHeap(r.heap, r.heapSet, r.pipeline.SetLayout, r.pipeline.Compute)
		if err != nil {
			return base.set, false, err
		}
		base = hs
	}
	if r.overrides.pending() > 0 {
		set, err := r.sets.withOverrides(base, r.overrides, r.pipeline.SetLayout)
		return set, err == nil, err
	}
	return base.set, r.heap != nil, nil
}

// flush binds the descriptor set before work is recorded.
func (r *Replayer) flush() {
	if r.pipeline == nil {
		panic("vulkan: draw or dispatch without a pipeline")
	}
	if !r.dirty {
		return
	}
	r.dirty = false
	set, ok, err := r.descriptorSet()
	if err != nil {
		panic(fmt.Sprintf("vulkan: %s", err))
	}
	if !ok {
		return
	}
	vk.CmdBindDescriptorSets(r.cmd.Handle, r.pipeline.bindPoint(), r.pipeline.Layout, 0, 1, []vk.DescriptorSet{set}, 0, nil)
}

func (r *Replayer) SetVertexBuffer(slot uint32, buffer metadata.Buffer, offset uint64) {
	buf := asBuffer(buffer)
	vk.CmdBindVertexBuffers(r.cmd.Handle, slot, 1, []vk.Buffer{buf.Handle}, []vk.DeviceSize{vk.DeviceSize(offset)})
}

func (r *Replayer) SetIndexBuffer(buffer metadata.Buffer, format metadata.Format, offset uint64) {
	buf := asBuffer(buffer)
	vk.CmdBindIndexBuffer(r.cmd.Handle, buf.Handle, vk.DeviceSize(offset), indexType(format))
}

func (r *Replayer) SetPipelineState(pipeline metadata.PipelineState) {
	p, ok := pipeline.(*Pipeline)
	if !ok {
		panic(fmt.Sprintf("vulkan: %T is not a vulkan pipeline", pipeline))
	}
	r.pipeline = p
	r.dirty = true
	vk.CmdBindPipeline(r.cmd.Handle, p.bindPoint(), p.Handle)
}

func (r *Replayer) SetResourceHeap(h *heap.ResourceHeap, descriptorSet uint32) {
	r.heap = h
	r.heapSet = descriptorSet
	clear(r.overrides.writes)
	r.dirty = true
}

func (r *Replayer) SetResource(descriptor uint32, resource metadata.Resource) {
	w := r.overrides
	switch res := resource.(type) {
	case metadata.Buffer:
		if res.BindFlags()&metadata.BindConstantBuffer != 0 {
			w.SetConstantBuffers(heap.StageVertex, descriptor, []metadata.Handle{res.Native()})
			r.dirty = true
			return
		}
		if h := res.ShaderResourceView(); h != metadata.NullHandle {
			w.SetShaderResources(heap.StageVertex, descriptor, []metadata.Handle{h})
			r.dirty = true
			return
		}
	case metadata.Texture:
		if h := res.ShaderResourceView(); h != metadata.NullHandle {
			w.SetShaderResources(heap.StageVertex, descriptor, []metadata.Handle{h})
			r.dirty = true
			return
		}
	case metadata.Sampler:
		w.SetSamplers(heap.StageVertex, descriptor, []metadata.Handle{res.Native()})
		r.dirty = true
		return
	}
	core.LogWarn("vulkan: SetResource(%d) with a resource that has no default view", descriptor)
}

func (r *Replayer) SetBlendFactor(color [4]float32) {
	vk.CmdSetBlendConstants(r.cmd.Handle, &color)
}

func (r *Replayer) SetStencilRef(reference uint32, face metadata.StencilFace) {
	vk.CmdSetStencilReference(r.cmd.Handle, stencilFaceMask(face), reference)
}

// SetUniforms writes push constants; first counts 32-bit words.
func (r *Replayer) SetUniforms(first uint32, data []byte) {
	if len(data) == 0 || r.pipeline == nil {
		return
	}
	vk.CmdPushConstants(r.cmd.Handle, r.pipeline.Layout, r.pipeline.PushConstantStages, first*4, uint32(len(data)), unsafe.Pointer(&data[0]))
}

func (r *Replayer) SetViewports(viewports []metadata.Viewport) {
	if len(viewports) > 0 {
		vk.CmdSetViewport(r.cmd.Handle, 0, uint32(len(viewports)), toViewports(viewports))
	}
}

func (r *Replayer) SetScissors(scissors []metadata.Scissor) {
	if len(scissors) > 0 {
		vk.CmdSetScissor(r.cmd.Handle, 0, uint32(len(scissors)), toRects(scissors))
	}
}

func (r *Replayer) Draw(numVertices, firstVertex uint32) {
	r.flush()
	vk.CmdDraw(r.cmd.Handle, numVertices, 1, firstVertex, 0)
}

func (r *Replayer) DrawIndexed(numIndices, firstIndex uint32, vertexOffset int32) {
	r.flush()
	vk.CmdDrawIndexed(r.cmd.Handle, numIndices, 1, firstIndex, vertexOffset, 0)
}

func (r *Replayer) DrawInstanced(numVertices, firstVertex, numInstances, firstInstance uint32) {
	r.flush()
	vk.CmdDraw(r.cmd.Handle, numVertices, numInstances, firstVertex, firstInstance)
}

func (r *Replayer) DrawIndexedInstanced(numIndices, numInstances, firstIndex uint32, vertexOffset int32, firstInstance uint32) {
	r.flush()
	vk.CmdDrawIndexed(r.cmd.Handle, numIndices, numInstances, firstIndex, vertexOffset, firstInstance)
}

func (r *Replayer) DrawInstancedIndirect(buffer metadata.Buffer, offset uint64, numCommands, stride uint32) {
	r.flush()
	vk.CmdDrawIndirect(r.cmd.Handle, asBuffer(buffer).Handle, vk.DeviceSize(offset), numCommands, stride)
}

func (r *Replayer) DrawIndexedInstancedIndirect(buffer metadata.Buffer, offset uint64, numCommands, stride uint32) {
	r.flush()
	vk.CmdDrawIndexedIndirect(r.cmd.Handle, asBuffer(buffer).Handle, vk.DeviceSize(offset), numCommands, stride)
}

// DrawAuto needs transform feedback, which core Vulkan does not have.
func (r *Replayer) DrawAuto() {
	core.LogWarn("vulkan: DrawAuto is not supported, command skipped")
}

func (r *Replayer) Dispatch(x, y, z uint32) {
	r.flush()
	vk.CmdDispatch(r.cmd.Handle, x, y, z)
}

func (r *Replayer) DispatchIndirect(buffer metadata.Buffer, offset uint64) {
	r.flush()
	vk.CmdDispatchIndirect(r.cmd.Handle, asBuffer(buffer).Handle, vk.DeviceSize(offset))
}

func (r *Replayer) PushDebugGroup(name string) {
	core.LogDebug("vulkan: begin group '%s'", name)
}

func (r *Replayer) PopDebugGroup() {
	core.LogDebug("vulkan: end group")
}

var _ command.CommandContext = (*Replayer)(nil)
