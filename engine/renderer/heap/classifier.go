package heap

import (
	"fmt"
	"sort"

	"github.com/spaghettifunk/rhi/engine/core"
	"github.com/spaghettifunk/rhi/engine/renderer/metadata"
)

// resourceBinding is one classified binding: a slot, the native object
// bound there and up to two per-view scalars.
type resourceBinding struct {
	slot    uint32
	stages  metadata.StageFlags
	handle  metadata.Handle
	scalars [2]uint32
}

// bindingFilter selects the bindings of one (kind, flags, stage) pass.
// A zero bindFlags or stages matches everything.
type bindingFilter struct {
	kind      metadata.ResourceType
	bindFlags metadata.BindFlags
	stages    metadata.StageFlags
	// accept narrows the match on the paired view, e.g. "has a buffer range".
	accept func(view *metadata.ResourceViewDescriptor) bool
}

func (f *bindingFilter) matches(b *metadata.BindingDescriptor) bool {
	return b.Type == f.kind &&
		(f.bindFlags == 0 || b.BindFlags&f.bindFlags != 0) &&
		(f.stages == 0 || b.StageFlags&f.stages != 0)
}

// resolveFunc turns a matched (binding, view) pair into its native form.
type resolveFunc func(binding *metadata.BindingDescriptor, view *metadata.ResourceViewDescriptor) (resourceBinding, error)

// classify walks one descriptor set worth of views and returns the
// bindings that pass the filter, resolved and sorted by slot.
func classify(views []metadata.ResourceViewDescriptor, bindings []metadata.BindingDescriptor, filter bindingFilter, resolve resolveFunc) ([]resourceBinding, error) {
	var out []resourceBinding
	for i := range bindings {
		binding := &bindings[i]
		if !filter.matches(binding) {
			continue
		}
		view := &views[i]
		if metadata.IsNil(view.Resource) {
			return nil, fmt.Errorf("%w: binding %s", core.ErrNullResource, binding)
		}
		if view.Resource.ResourceType() != binding.Type {
			return nil, fmt.Errorf("%w: binding %s got %s", core.ErrInvalidResourceType, binding, view.Resource.ResourceType())
		}
		if filter.accept != nil && !filter.accept(view) {
			continue
		}
		rb, err := resolve(binding, view)
		if err != nil {
			return nil, err
		}
		rb.slot = binding.Slot
		rb.stages = binding.StageFlags
		out = append(out, rb)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].slot < out[j].slot
	})
	return out, nil
}
