package vulkan

import (
	"fmt"
	"sort"

	vk "github.com/goki/vulkan"

	"github.com/spaghettifunk/rhi/engine/renderer/heap"
	"github.com/spaghettifunk/rhi/engine/renderer/metadata"
)

// BindingShifts maps per-kind slot spaces onto descriptor binding
// numbers, the same way shader compilers shift register spaces when
// targeting SPIR-V.
type BindingShifts struct {
	ConstantBuffers uint32
	Samplers        uint32
	ShaderResources uint32
	UnorderedAccess uint32
}

func DefaultBindingShifts() BindingShifts {
	return BindingShifts{
		ConstantBuffers: 0,
		Samplers:        100,
		ShaderResources: 200,
		UnorderedAccess: 300,
	}
}

// descriptorWriter turns heap binding calls into descriptor writes.
// Vulkan descriptor sets are visible to every stage the layout allows,
// so a slot bound for several stages is written once.
type descriptorWriter struct {
	context *VulkanContext
	shifts  BindingShifts
	writes  map[uint32]vk.WriteDescriptorSet
}

func newDescriptorWriter(context *VulkanContext, shifts BindingShifts) *descriptorWriter {
	return &descriptorWriter{
		context: context,
		shifts:  shifts,
		writes:  make(map[uint32]vk.WriteDescriptorSet),
	}
}

func (w *descriptorWriter) put(binding uint32, write vk.WriteDescriptorSet) {
	write.SType = vk.StructureTypeWriteDescriptorSet
	write.DstBinding = binding
	write.DescriptorCount = 1
	w.writes[binding] = write
}

func (w *descriptorWriter) SetConstantBuffers(stage heap.ShaderStage, startSlot uint32, buffers []metadata.Handle) {
	for i, h := range buffers {
		obj := w.buffer(h)
		w.put(w.shifts.ConstantBuffers+startSlot+uint32(i), vk.WriteDescriptorSet{
			DescriptorType: vk.DescriptorTypeUniformBuffer,
			PBufferInfo:    []vk.DescriptorBufferInfo{{Buffer: obj.buffer, Offset: 0, Range: vk.DeviceSize(vk.WholeSize)}},
		})
	}
}

func (w *descriptorWriter) SetConstantBufferRanges(stage heap.ShaderStage, startSlot uint32, buffers []metadata.Handle, firstConstants, numConstants []uint32) {
	for i, h := range buffers {
		obj := w.buffer(h)
		w.put(w.shifts.ConstantBuffers+startSlot+uint32(i), vk.WriteDescriptorSet{
			DescriptorType: vk.DescriptorTypeUniformBuffer,
			PBufferInfo: []vk.DescriptorBufferInfo{{
				Buffer: obj.buffer,
				Offset: vk.DeviceSize(firstConstants[i]) * 16,
				Range:  vk.DeviceSize(numConstants[i]) * 16,
			}},
		})
	}
}

func (w *descriptorWriter) SetSamplers(stage heap.ShaderStage, startSlot uint32, samplers []metadata.Handle) {
	for i, h := range samplers {
		obj, ok := w.context.object(h).(samplerObject)
		if !ok {
			panic(fmt.Sprintf("vulkan: handle %d is not a sampler", h))
		}
		w.put(w.shifts.Samplers+startSlot+uint32(i), vk.WriteDescriptorSet{
			DescriptorType: vk.DescriptorTypeSampler,
			PImageInfo:     []vk.DescriptorImageInfo{{Sampler: obj.sampler}},
		})
	}
}

func (w *descriptorWriter) SetShaderResources(stage heap.ShaderStage, startSlot uint32, views []metadata.Handle) {
	for i, h := range views {
		w.put(w.shifts.ShaderResources+startSlot+uint32(i), w.viewWrite(h))
	}
}

// Vulkan storage buffers have no hidden counter, initial counts are
// ignored.
func (w *descriptorWriter) SetUnorderedAccessViews(stage heap.ShaderStage, startSlot uint32, views []metadata.Handle, initialCounts []uint32) {
	for i, h := range views {
		w.put(w.shifts.UnorderedAccess+startSlot+uint32(i), w.viewWrite(h))
	}
}

func (w *descriptorWriter) buffer(h metadata.Handle) bufferObject {
	obj, ok := w.context.object(h).(bufferObject)
	if !ok {
		panic(fmt.Sprintf("vulkan: handle %d is not a buffer", h))
	}
	return obj
}

func (w *descriptorWriter) viewWrite(h metadata.Handle) vk.WriteDescriptorSet {
	switch obj := w.context.object(h).(type) {
	case imageViewObject:
		if obj.storage {
			return vk.WriteDescriptorSet{
				DescriptorType: vk.DescriptorTypeStorageImage,
				PImageInfo:     []vk.DescriptorImageInfo{{ImageView: obj.view, ImageLayout: vk.ImageLayoutGeneral}},
			}
		}
		return vk.WriteDescriptorSet{
			DescriptorType: vk.DescriptorTypeSampledImage,
			PImageInfo:     []vk.DescriptorImageInfo{{ImageView: obj.view, ImageLayout: vk.ImageLayoutShaderReadOnlyOptimal}},
		}
	case bufferViewObject:
		kind := vk.DescriptorTypeUniformTexelBuffer
		if obj.storage {
			kind = vk.DescriptorTypeStorageTexelBuffer
		}
		return vk.WriteDescriptorSet{
			DescriptorType:   kind,
			PTexelBufferView: []vk.BufferView{obj.view},
		}
	case bufferObject:
		rng := vk.DeviceSize(obj.size)
		if rng == 0 {
			rng = vk.DeviceSize(vk.WholeSize)
		}
		return vk.WriteDescriptorSet{
			DescriptorType: vk.DescriptorTypeStorageBuffer,
			PBufferInfo:    []vk.DescriptorBufferInfo{{Buffer: obj.buffer, Offset: vk.DeviceSize(obj.offset), Range: rng}},
		}
	default:
		panic(fmt.Sprintf("vulkan: handle %d (%T) is not a view", h, obj))
	}
}

func (w *descriptorWriter) pending() int {
	return len(w.writes)
}

// flush returns the staged writes targeting set, ordered by binding, and
// clears them.
func (w *descriptorWriter) flush(set vk.DescriptorSet) []vk.WriteDescriptorSet {
	if len(w.writes) == 0 {
		return nil
	}
	out := make([]vk.WriteDescriptorSet, 0, len(w.writes))
	for _, write := range w.writes {
		write.DstSet = set
		out = append(out, write)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DstBinding < out[j].DstBinding })
	clear(w.writes)
	return out
}
