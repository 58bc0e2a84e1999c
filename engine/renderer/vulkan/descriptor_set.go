package vulkan

import (
	"fmt"

	vk "github.com/goki/vulkan"

	"github.com/spaghettifunk/rhi/engine/renderer/heap"
)

type descriptorSetKey struct {
	heap    *heap.ResourceHeap
	set     uint32
	layout  vk.DescriptorSetLayout
	compute bool
}

type heapDescriptorSet struct {
	set    vk.DescriptorSet
	writes []vk.WriteDescriptorSet
}

// descriptorSets maps every heap descriptor set to its own native
// descriptor set. A native set is written once, right after allocation
// and before it is first bound, and is never updated afterwards.
type descriptorSets struct {
	context  *VulkanContext
	shifts   BindingShifts
	allocate func(layout vk.DescriptorSetLayout) (vk.DescriptorSet, error)
	update   func(writes []vk.WriteDescriptorSet)
	cache    map[descriptorSetKey]heapDescriptorSet
}

func newDescriptorSets(context *VulkanContext, pool vk.DescriptorPool, shifts BindingShifts) *descriptorSets {
	return &descriptorSets{
		context: context,
		shifts:  shifts,
		allocate: func(layout vk.DescriptorSetLayout) (vk.DescriptorSet, error) {
			var set vk.DescriptorSet
			info := vk.DescriptorSetAllocateInfo{
				SType:              vk.StructureTypeDescriptorSetAllocateInfo,
				DescriptorPool:     pool,
				DescriptorSetCount: 1,
				PSetLayouts:        []vk.DescriptorSetLayout{layout},
			}
			err := vulkanError(vk.AllocateDescriptorSets(context.Device, &info, &set), "allocate descriptor set")
			return set, err
		},
		update: func(writes []vk.WriteDescriptorSet) {
			vk.UpdateDescriptorSets(context.Device, uint32(len(writes)), writes, 0, nil)
		},
		cache: make(map[descriptorSetKey]heapDescriptorSet),
	}
}

// forHeap returns the native set holding descriptor set index of h,
// allocating and writing it on first use.
func (d *descriptorSets) forHeap(h *heap.ResourceHeap, index uint32, layout vk.DescriptorSetLayout, compute bool) (heapDescriptorSet, error) {
	key := descriptorSetKey{heap: h, set: index, layout: layout, compute: compute}
	if hs, ok := d.cache[key]; ok {
		return hs, nil
	}

	w := newDescriptorWriter(d.context, d.shifts)
	if compute {
		h.BindForComputePipeline(w, index)
	} else {
		h.BindForGraphicsPipeline(w, index)
	}
	set, err := d.allocate(layout)
	if err != nil {
		return heapDescriptorSet{}, fmt.Errorf("heap '%s' set %d: %w", h.Name(), index, err)
	}
	hs := heapDescriptorSet{set: set, writes: w.flush(set)}
	if len(hs.writes) > 0 {
		d.update(hs.writes)
	}
	d.cache[key] = hs
	return hs, nil
}

// withOverrides allocates a new native set holding the writes of base
// with the single resource writes of overrides on top. base may be empty
// when no heap is bound.
func (d *descriptorSets) withOverrides(base heapDescriptorSet, overrides *descriptorWriter, layout vk.DescriptorSetLayout) (vk.DescriptorSet, error) {
	merged := newDescriptorWriter(d.context, d.shifts)
	for _, write := range base.writes {
		merged.writes[write.DstBinding] = write
	}
	for binding, write := range overrides.writes {
		merged.writes[binding] = write
	}
	set, err := d.allocate(layout)
	if err != nil {
		return set, err
	}
	d.update(merged.flush(set))
	return set, nil
}

// forget drops the native sets of h. The sets themselves go back to the
// pool when the application resets it.
func (d *descriptorSets) forget(h *heap.ResourceHeap) {
	for key := range d.cache {
		if key.heap == h {
			delete(d.cache, key)
		}
	}
}
