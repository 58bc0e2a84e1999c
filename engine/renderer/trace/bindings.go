package trace

import (
	"github.com/spaghettifunk/rhi/engine/renderer/heap"
	"github.com/spaghettifunk/rhi/engine/renderer/metadata"
)

func (d *Device) SetConstantBuffers(stage heap.ShaderStage, startSlot uint32, buffers []metadata.Handle) {
	d.record("%s cbuffers @%d %s", stage, startSlot, d.describeAll(buffers))
}

func (d *Device) SetConstantBufferRanges(stage heap.ShaderStage, startSlot uint32, buffers []metadata.Handle, firstConstants, numConstants []uint32) {
	d.record("%s cbuffer-ranges @%d %s first=%v num=%v", stage, startSlot, d.describeAll(buffers), firstConstants, numConstants)
}

func (d *Device) SetSamplers(stage heap.ShaderStage, startSlot uint32, samplers []metadata.Handle) {
	d.record("%s samplers @%d %s", stage, startSlot, d.describeAll(samplers))
}

func (d *Device) SetShaderResources(stage heap.ShaderStage, startSlot uint32, views []metadata.Handle) {
	d.record("%s srvs @%d %s", stage, startSlot, d.describeAll(views))
}

func (d *Device) SetUnorderedAccessViews(stage heap.ShaderStage, startSlot uint32, views []metadata.Handle, initialCounts []uint32) {
	counts := make([]int64, len(initialCounts))
	for i, c := range initialCounts {
		counts[i] = int64(c)
		if c == metadata.KeepCounter {
			counts[i] = -1
		}
	}
	d.record("%s uavs @%d %s counts=%v", stage, startSlot, d.describeAll(views), counts)
}
