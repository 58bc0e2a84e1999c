package command

import (
	"github.com/spaghettifunk/rhi/engine/renderer/heap"
	"github.com/spaghettifunk/rhi/engine/renderer/metadata"
)

// HeapBinder wraps a CommandContext and resolves SetResourceHeap into
// native binding calls for the pipeline bound last. Every other command
// goes to the wrapped context unchanged.
type HeapBinder struct {
	CommandContext
	Bindings heap.BindingContext

	compute bool
}

func NewHeapBinder(next CommandContext, bindings heap.BindingContext) *HeapBinder {
	return &HeapBinder{
		CommandContext: next,
		Bindings:       bindings,
	}
}

func (b *HeapBinder) SetPipelineState(pipeline metadata.PipelineState) {
	b.compute = pipeline.IsCompute()
	b.CommandContext.SetPipelineState(pipeline)
}

func (b *HeapBinder) SetResourceHeap(h *heap.ResourceHeap, descriptorSet uint32) {
	if b.compute {
		h.BindForComputePipeline(b.Bindings, descriptorSet)
	} else {
		h.BindForGraphicsPipeline(b.Bindings, descriptorSet)
	}
	b.CommandContext.SetResourceHeap(h, descriptorSet)
}
