package metadata

import "fmt"

/**
 * @brief The bindings of one descriptor set, in declaration order.
 */
type PipelineLayout struct {
	Name     string
	Bindings []BindingDescriptor
}

func NewPipelineLayout(name string, bindings ...BindingDescriptor) (*PipelineLayout, error) {
	pl := &PipelineLayout{
		Name:     name,
		Bindings: bindings,
	}
	if err := pl.Validate(); err != nil {
		return nil, err
	}
	return pl, nil
}

func (pl *PipelineLayout) NumBindings() int {
	return len(pl.Bindings)
}

// Validate rejects layouts that place two bindings of the same kind at
// the same slot of a shader stage.
func (pl *PipelineLayout) Validate() error {
	for i := range pl.Bindings {
		a := pl.Bindings[i]
		if a.Type == ResourceTypeUndefined {
			return fmt.Errorf("binding %d (%s) has no resource type", i, a)
		}
		for j := i + 1; j < len(pl.Bindings); j++ {
			b := pl.Bindings[j]
			if a.Slot == b.Slot && a.Type == b.Type && a.StageFlags&b.StageFlags != 0 && bindingClass(a) == bindingClass(b) {
				return fmt.Errorf("bindings %s and %s share slot %d in stages %s", a, b, a.Slot, a.StageFlags&b.StageFlags)
			}
		}
	}
	return nil
}

// bindingClass groups bind flags that end up in the same native slot space.
func bindingClass(b BindingDescriptor) BindFlags {
	switch {
	case b.BindFlags&BindConstantBuffer != 0:
		return BindConstantBuffer
	case b.BindFlags&BindStorage != 0:
		return BindStorage
	default:
		return BindSampled
	}
}

// PipelineState is a compiled graphics or compute pipeline owned by a backend.
type PipelineState interface {
	IsCompute() bool
}

/**
 * @brief Capabilities of the native context a heap is built for.
 */
type Features struct {
	/** @brief The context can bind a sub-range of a constant buffer. */
	ConstantBufferRanges bool
	/** @brief Highest slot index + 1 the context accepts per resource kind. Zero means unbounded. */
	MaxSlots uint32
}

type Viewport struct {
	X, Y, Width, Height float32
	MinDepth, MaxDepth  float32
}

type Scissor struct {
	X, Y          int32
	Width, Height int32
}

type StencilFace uint8

const (
	StencilFaceFrontAndBack StencilFace = iota
	StencilFaceFront
	StencilFaceBack
)
