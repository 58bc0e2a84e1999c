package heap

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/spaghettifunk/rhi/engine/core"
	"github.com/spaghettifunk/rhi/engine/math"
	"github.com/spaghettifunk/rhi/engine/renderer/metadata"
)

// Constant buffer ranges are addressed in 16-byte constants and must
// start on a 256-byte boundary.
const (
	constantSize      = 16
	constantRangeUnit = 256
)

// ResourceHeap holds any number of descriptor sets for one pipeline
// layout, packed into a single byte buffer. Each descriptor set is one
// stride-sized chunk made of binding segments in fixed stage and kind
// order, so binding a set replays the chunk front to back.
//
// A ResourceHeap is not safe for concurrent use.
type ResourceHeap struct {
	name string

	buffer []byte
	stride int
	// Offset of the compute sub-chunk inside every chunk.
	computeOffset int
	segmentation  segmentation

	factory    ViewFactory
	ownedViews []metadata.Handle

	reader segmentReader
}

type Option func(*ResourceHeap)

func WithName(name string) Option {
	return func(h *ResourceHeap) {
		h.name = name
	}
}

// New builds a heap holding len(views)/layout.NumBindings() descriptor
// sets. views is laid out set after set, each set following the binding
// order of the layout. All validation happens here; nothing is returned
// on failure.
func New(factory ViewFactory, layout *metadata.PipelineLayout, views []metadata.ResourceViewDescriptor, opts ...Option) (*ResourceHeap, error) {
	numBindings := layout.NumBindings()
	if numBindings == 0 {
		return nil, core.ErrNoBindings
	}
	if len(views) == 0 {
		return nil, core.ErrNoResourceViews
	}
	if len(views)%numBindings != 0 {
		return nil, fmt.Errorf("%w: %d views for %d bindings", core.ErrViewCountMismatch, len(views), numBindings)
	}

	h := &ResourceHeap{
		factory: factory,
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.name == "" {
		h.name = fmt.Sprintf("resource-heap-%s", uuid.NewString())
	}

	b := &builder{
		heap:     h,
		features: factory.Features(),
		bindings: layout.Bindings,
	}
	numSets := len(views) / numBindings
	for set := 0; set < numSets; set++ {
		if err := b.buildSet(set, views[set*numBindings:(set+1)*numBindings]); err != nil {
			h.Release()
			core.LogError("failed to create resource heap '%s' for layout '%s': %s", h.name, layout.Name, err)
			return nil, err
		}
	}

	h.buffer = b.buf.data
	h.stride = len(h.buffer) / numSets
	h.segmentation.finalize()

	core.LogDebug("resource heap '%s': %d descriptor sets, stride %d bytes, %d owned views", h.name, numSets, h.stride, len(h.ownedViews))
	return h, nil
}

func (h *ResourceHeap) Name() string {
	return h.name
}

// NumDescriptorSets returns the number of descriptor sets in the heap.
func (h *ResourceHeap) NumDescriptorSets() uint32 {
	if h.stride > 0 {
		return uint32(len(h.buffer) / h.stride)
	}
	return 0
}

// Stride returns the size in bytes of one descriptor set chunk.
func (h *ResourceHeap) Stride() int {
	return h.stride
}

// Bytes returns the packed buffer. The slice must not be modified.
func (h *ResourceHeap) Bytes() []byte {
	return h.buffer
}

// HasConstantBufferRanges reports whether binding the heap issues
// constant buffer range calls.
func (h *ResourceHeap) HasConstantBufferRanges() bool {
	return h.segmentation.hasRanges()
}

// Release frees the views the heap created. The heap must not be bound
// afterwards.
func (h *ResourceHeap) Release() {
	for _, view := range h.ownedViews {
		h.factory.ReleaseView(view)
	}
	h.ownedViews = nil
	h.buffer = nil
	h.stride = 0
}

func (h *ResourceHeap) chunk(set uint32) []byte {
	if n := h.NumDescriptorSets(); set >= n {
		panic(fmt.Sprintf("heap '%s': descriptor set %d out of range (%d sets)", h.name, set, n))
	}
	start := int(set) * h.stride
	return h.buffer[start : start+h.stride]
}

// BindForGraphicsPipeline issues the binding calls of descriptor set
// `set` for every graphics stage that has resources.
func (h *ResourceHeap) BindForGraphicsPipeline(ctx BindingContext, set uint32) {
	if !h.segmentation.hasGraphicsResources() {
		return
	}
	h.reader.reset(h.chunk(set)[:h.computeOffset])
	calls := 0
	for stage := ShaderStage(0); stage < numGraphicsStages; stage++ {
		if h.segmentation[stage].hasResources() {
			calls += h.bindStage(ctx, stage)
		}
	}
	core.MetricsBind(calls)
}

// BindForComputePipeline issues the binding calls of descriptor set
// `set` for the compute stage.
func (h *ResourceHeap) BindForComputePipeline(ctx BindingContext, set uint32) {
	if !h.segmentation.hasComputeResources() {
		return
	}
	h.reader.reset(h.chunk(set)[h.computeOffset:])
	core.MetricsBind(h.bindStage(ctx, StageCompute))
}

func (h *ResourceHeap) bindStage(ctx BindingContext, stage ShaderStage) int {
	seg := h.segmentation[stage]
	for k := segmentKind(0); k < numSegmentKinds; k++ {
		for i := seg.count(k); i > 0; i-- {
			sv := h.reader.next(k.shape())
			switch k {
			case kindConstantBufferRange:
				ctx.SetConstantBufferRanges(stage, sv.startSlot, sv.handles, sv.scalars0, sv.scalars1)
			case kindConstantBuffer:
				ctx.SetConstantBuffers(stage, sv.startSlot, sv.handles)
			case kindSampler:
				ctx.SetSamplers(stage, sv.startSlot, sv.handles)
			case kindShaderResource:
				ctx.SetShaderResources(stage, sv.startSlot, sv.handles)
			case kindUnorderedAccess:
				ctx.SetUnorderedAccessViews(stage, sv.startSlot, sv.handles, sv.scalars0)
			}
		}
	}
	return seg.total()
}

// Segment is a decoded copy of one binding segment.
type Segment struct {
	Stage     ShaderStage
	Kind      string
	StartSlot uint32
	Handles   []metadata.Handle
	// Initial counts for storage views, first constants for ranges.
	Scalars0 []uint32
	// Number of constants for ranges.
	Scalars1 []uint32
}

// Segments decodes descriptor set `set` in replay order.
func (h *ResourceHeap) Segments(set uint32) []Segment {
	var out []Segment
	var r segmentReader
	r.reset(h.chunk(set))
	for stage := ShaderStage(0); stage < numShaderStages; stage++ {
		seg := h.segmentation[stage]
		for k := segmentKind(0); k < numSegmentKinds; k++ {
			for i := seg.count(k); i > 0; i-- {
				sv := r.next(k.shape())
				out = append(out, Segment{
					Stage:     stage,
					Kind:      k.String(),
					StartSlot: sv.startSlot,
					Handles:   append([]metadata.Handle(nil), sv.handles...),
					Scalars0:  append([]uint32(nil), sv.scalars0...),
					Scalars1:  append([]uint32(nil), sv.scalars1...),
				})
			}
		}
	}
	return out
}

// builder carries the state of one heap construction.
type builder struct {
	heap     *ResourceHeap
	features metadata.Features
	bindings []metadata.BindingDescriptor
	buf      packBuffer
	// Segmentation of the first set; every later set must match it.
	first *segmentation
}

func (b *builder) buildSet(set int, views []metadata.ResourceViewDescriptor) error {
	h := b.heap
	setStart := b.buf.len()
	h.segmentation.reset()

	for stage := ShaderStage(0); stage < numShaderStages; stage++ {
		if stage == StageCompute && set == 0 {
			h.computeOffset = b.buf.len() - setStart
		}
		if err := b.buildStage(stage, views); err != nil {
			return fmt.Errorf("descriptor set %d, %s stage: %w", set, stage, err)
		}
	}

	if h.segmentation.hasRanges() && !b.features.ConstantBufferRanges {
		return fmt.Errorf("%w: constant buffer ranges in descriptor set %d", core.ErrFeatureUnsupported, set)
	}
	if b.first == nil {
		seg := h.segmentation
		b.first = &seg
		return nil
	}
	if *b.first != h.segmentation {
		return fmt.Errorf("%w: descriptor set %d is segmented differently than set 0", core.ErrInconsistentDescriptorSets, set)
	}
	if size := b.buf.len() - setStart; size != setStart/set {
		return fmt.Errorf("%w: descriptor set %d is %d bytes, set 0 is %d", core.ErrInconsistentDescriptorSets, set, size, setStart/set)
	}
	return nil
}

func (b *builder) buildStage(stage ShaderStage, views []metadata.ResourceViewDescriptor) error {
	flag := stage.Flag()
	seg := &b.heap.segmentation[stage]

	passes := []struct {
		kind    segmentKind
		filter  bindingFilter
		resolve resolveFunc
	}{
		{kindConstantBufferRange, bindingFilter{kind: metadata.ResourceTypeBuffer, bindFlags: metadata.BindConstantBuffer, stages: flag, accept: hasRange}, b.resolveConstantBufferRange},
		{kindConstantBuffer, bindingFilter{kind: metadata.ResourceTypeBuffer, bindFlags: metadata.BindConstantBuffer, stages: flag, accept: hasNoRange}, b.resolveConstantBuffer},
		{kindSampler, bindingFilter{kind: metadata.ResourceTypeSampler, stages: flag}, b.resolveSampler},
		{kindShaderResource, bindingFilter{kind: metadata.ResourceTypeTexture, bindFlags: metadata.BindSampled, stages: flag}, b.resolveTextureView(false)},
		{kindShaderResource, bindingFilter{kind: metadata.ResourceTypeBuffer, bindFlags: metadata.BindSampled, stages: flag}, b.resolveBufferView(false)},
		{kindUnorderedAccess, bindingFilter{kind: metadata.ResourceTypeTexture, bindFlags: metadata.BindStorage, stages: flag}, b.resolveTextureView(true)},
		{kindUnorderedAccess, bindingFilter{kind: metadata.ResourceTypeBuffer, bindFlags: metadata.BindStorage, stages: flag}, b.resolveBufferView(true)},
	}

	counts := [numSegmentKinds]int{}
	for _, pass := range passes {
		if pass.kind == kindUnorderedAccess {
			switch stage {
			case StageFragment:
				// Graphics pipelines share one set of storage slots.
				pass.filter.stages = metadata.StageAllGraphics
			case StageCompute:
			default:
				continue
			}
		}
		sorted, err := classify(views, b.bindings, pass.filter, pass.resolve)
		if err != nil {
			return err
		}
		if err := b.checkSlots(sorted, pass.kind); err != nil {
			return err
		}
		counts[pass.kind] += buildSegments(&b.buf, pass.kind.shape(), sorted)
	}
	for k, n := range counts {
		if err := seg.setCount(segmentKind(k), n); err != nil {
			return err
		}
	}
	return nil
}

func (b *builder) checkSlots(sorted []resourceBinding, kind segmentKind) error {
	if b.features.MaxSlots == 0 || len(sorted) == 0 {
		return nil
	}
	if last := sorted[len(sorted)-1].slot; last >= b.features.MaxSlots {
		return fmt.Errorf("%w: %s slot %d (max %d)", core.ErrSlotOutOfRange, kind, last, b.features.MaxSlots-1)
	}
	return nil
}

func hasRange(view *metadata.ResourceViewDescriptor) bool {
	return view.HasBufferRange()
}

func hasNoRange(view *metadata.ResourceViewDescriptor) bool {
	return !view.HasBufferRange()
}

func (b *builder) resolveConstantBuffer(binding *metadata.BindingDescriptor, view *metadata.ResourceViewDescriptor) (resourceBinding, error) {
	buf, err := asBuffer(binding, view)
	if err != nil {
		return resourceBinding{}, err
	}
	return resourceBinding{handle: buf.Native()}, nil
}

func (b *builder) resolveConstantBufferRange(binding *metadata.BindingDescriptor, view *metadata.ResourceViewDescriptor) (resourceBinding, error) {
	buf, err := asBuffer(binding, view)
	if err != nil {
		return resourceBinding{}, err
	}
	offset, size := view.BufferView.Offset, view.BufferView.Size
	if size == 0 && offset < buf.Size() {
		size = buf.Size() - offset
	}
	if size == 0 {
		return resourceBinding{}, fmt.Errorf("%w: binding %s has an empty range at offset %d", core.ErrInvalidBufferRange, binding, offset)
	}
	if offset%constantRangeUnit != 0 {
		return resourceBinding{}, fmt.Errorf("%w: binding %s offset %d is not a multiple of %d", core.ErrInvalidBufferRange, binding, offset, constantRangeUnit)
	}
	if offset+size > buf.Size() {
		return resourceBinding{}, fmt.Errorf("%w: binding %s range [%d, %d) exceeds buffer size %d", core.ErrInvalidBufferRange, binding, offset, offset+size, buf.Size())
	}
	// The number of constants must be a multiple of 16.
	size = math.AlignUp(size, constantRangeUnit)
	return resourceBinding{
		handle:  buf.Native(),
		scalars: [2]uint32{uint32(offset / constantSize), uint32(size / constantSize)},
	}, nil
}

func (b *builder) resolveSampler(binding *metadata.BindingDescriptor, view *metadata.ResourceViewDescriptor) (resourceBinding, error) {
	sampler, ok := view.Resource.(metadata.Sampler)
	if !ok {
		return resourceBinding{}, fmt.Errorf("%w: binding %s is not a sampler", core.ErrInvalidResourceType, binding)
	}
	return resourceBinding{handle: sampler.Native()}, nil
}

func (b *builder) resolveTextureView(storage bool) resolveFunc {
	return func(binding *metadata.BindingDescriptor, view *metadata.ResourceViewDescriptor) (resourceBinding, error) {
		rb := resourceBinding{scalars: [2]uint32{view.InitialCount}}
		tex, ok := view.Resource.(metadata.Texture)
		if !ok {
			return rb, fmt.Errorf("%w: binding %s is not a texture", core.ErrInvalidResourceType, binding)
		}
		if view.HasTextureView() {
			handle, err := b.createView(func() (metadata.Handle, error) {
				return b.heap.factory.CreateTextureView(tex, view.TextureView, storage)
			})
			if err != nil {
				return rb, fmt.Errorf("binding %s: %w", binding, err)
			}
			rb.handle = handle
			return rb, nil
		}
		if storage {
			rb.handle = tex.UnorderedAccessView()
		} else {
			rb.handle = tex.ShaderResourceView()
		}
		if rb.handle == metadata.NullHandle {
			return rb, missingViewError(binding, storage)
		}
		return rb, nil
	}
}

func (b *builder) resolveBufferView(storage bool) resolveFunc {
	return func(binding *metadata.BindingDescriptor, view *metadata.ResourceViewDescriptor) (resourceBinding, error) {
		rb := resourceBinding{scalars: [2]uint32{view.InitialCount}}
		buf, err := asBuffer(binding, view)
		if err != nil {
			return rb, err
		}
		if view.HasBufferView() {
			if end := view.BufferView.Offset + view.BufferView.Size; view.BufferView.Offset >= buf.Size() || end > buf.Size() {
				return rb, fmt.Errorf("%w: binding %s view [%d, %d) exceeds buffer size %d", core.ErrInvalidBufferRange, binding, view.BufferView.Offset, end, buf.Size())
			}
			handle, err := b.createView(func() (metadata.Handle, error) {
				return b.heap.factory.CreateBufferView(buf, view.BufferView, storage)
			})
			if err != nil {
				return rb, fmt.Errorf("binding %s: %w", binding, err)
			}
			rb.handle = handle
			return rb, nil
		}
		if storage {
			rb.handle = buf.UnorderedAccessView()
		} else {
			rb.handle = buf.ShaderResourceView()
		}
		if rb.handle == metadata.NullHandle {
			return rb, missingViewError(binding, storage)
		}
		return rb, nil
	}
}

func (b *builder) createView(create func() (metadata.Handle, error)) (metadata.Handle, error) {
	handle, err := create()
	if err != nil {
		return metadata.NullHandle, err
	}
	if handle == metadata.NullHandle {
		return metadata.NullHandle, errors.New("view factory returned a null view")
	}
	b.heap.ownedViews = append(b.heap.ownedViews, handle)
	return handle, nil
}

func asBuffer(binding *metadata.BindingDescriptor, view *metadata.ResourceViewDescriptor) (metadata.Buffer, error) {
	buf, ok := view.Resource.(metadata.Buffer)
	if !ok {
		return nil, fmt.Errorf("%w: binding %s is not a buffer", core.ErrInvalidResourceType, binding)
	}
	return buf, nil
}

func missingViewError(binding *metadata.BindingDescriptor, storage bool) error {
	flag := "sampled"
	if storage {
		flag = "storage"
	}
	return fmt.Errorf("%w: binding %s needs a resource created with the %s bind flag", core.ErrInvalidResourceType, binding, flag)
}
