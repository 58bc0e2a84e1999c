package metadata

import (
	"fmt"
	"strings"
)

type BindFlags uint32

const (
	BindVertexBuffer BindFlags = 1 << iota
	BindIndexBuffer
	BindConstantBuffer
	BindStreamOutputBuffer
	BindIndirectBuffer
	/** @brief Resource can be read in shaders (texture or structured/typed buffer). */
	BindSampled
	/** @brief Resource can be read and written in shaders (RW texture or buffer). */
	BindStorage
	BindColorAttachment
	BindDepthStencilAttachment
	BindCombinedSampler
	BindCopySrc
	BindCopyDst
)

type StageFlags uint32

const (
	StageVertex StageFlags = 1 << iota
	StageTessControl
	StageTessEvaluation
	StageGeometry
	StageFragment
	StageCompute

	StageAllTess     = StageTessControl | StageTessEvaluation
	StageAllGraphics = StageVertex | StageAllTess | StageGeometry | StageFragment
	StageAll         = StageAllGraphics | StageCompute
	StageNone        = StageFlags(0)
)

const stageNamesInOrder = "vertex,tess-control,tess-evaluation,geometry,fragment,compute"

func (s StageFlags) String() string {
	if s == StageNone {
		return "none"
	}
	names := strings.Split(stageNamesInOrder, ",")
	var parts []string
	for i, name := range names {
		if s&(1<<i) != 0 {
			parts = append(parts, name)
		}
	}
	return strings.Join(parts, "|")
}

/**
 * @brief Describes one binding point of a pipeline layout.
 */
type BindingDescriptor struct {
	/** @brief Optional name, used for diagnostics only. */
	Name string
	/** @brief The kind of resource expected at this binding. */
	Type ResourceType
	/** @brief How the resource is accessed (constant buffer, sampled, storage, ...). */
	BindFlags BindFlags
	/** @brief The shader stages the binding is visible to. */
	StageFlags StageFlags
	/** @brief The binding slot. */
	Slot uint32
	/** @brief Number of array elements. Zero and one both mean "not an array". */
	ArraySize uint32
}

func (b BindingDescriptor) String() string {
	if b.Name != "" {
		return fmt.Sprintf("%s(%s@%d)", b.Name, b.Type, b.Slot)
	}
	return fmt.Sprintf("%s@%d", b.Type, b.Slot)
}

// KeepCounter leaves the hidden counter of a storage buffer unchanged
// when the view is bound.
const KeepCounter = ^uint32(0)

type BufferViewDescriptor struct {
	/** @brief Format override for typed buffer views; undefined keeps the buffer format. */
	Format Format
	/** @brief Offset in bytes from the start of the buffer. */
	Offset uint64
	/** @brief Size in bytes of the view; zero spans to the end of the buffer. */
	Size uint64
}

type TextureSubresource struct {
	BaseMipLevel   uint32
	NumMipLevels   uint32
	BaseArrayLayer uint32
	NumArrayLayers uint32
}

type TextureViewDescriptor struct {
	/** @brief Format override; undefined keeps the texture format. */
	Format      Format
	Subresource TextureSubresource
}

/**
 * @brief Pairs a resource with the optional sub-resource view parameters
 * it is bound with. One per binding per descriptor set.
 */
type ResourceViewDescriptor struct {
	Resource    Resource
	BufferView  BufferViewDescriptor
	TextureView TextureViewDescriptor
	/** @brief Initial hidden counter for storage buffer views (see KeepCounter). */
	InitialCount uint32
}

// HasBufferRange reports whether the descriptor selects a sub-range of
// the bound buffer instead of the whole buffer.
func (d *ResourceViewDescriptor) HasBufferRange() bool {
	if d.BufferView.Offset != 0 {
		return true
	}
	if d.BufferView.Size == 0 {
		return false
	}
	if buf, ok := d.Resource.(Buffer); ok {
		return d.BufferView.Size != buf.Size()
	}
	return true
}

// HasBufferView reports whether binding the descriptor requires a
// dedicated buffer view instead of the buffer's default view.
func (d *ResourceViewDescriptor) HasBufferView() bool {
	return d.BufferView.Format != FormatUndefined || d.HasBufferRange()
}

// HasTextureView reports whether binding the descriptor requires a
// dedicated texture view instead of the texture's default view.
func (d *ResourceViewDescriptor) HasTextureView() bool {
	tv := d.TextureView
	if tv.Format != FormatUndefined {
		if tex, ok := d.Resource.(Texture); !ok || tex.Format() != tv.Format {
			return true
		}
	}
	sub := tv.Subresource
	if sub == (TextureSubresource{}) {
		return false
	}
	tex, ok := d.Resource.(Texture)
	if !ok {
		return true
	}
	return sub.BaseMipLevel != 0 || sub.BaseArrayLayer != 0 ||
		(sub.NumMipLevels != 0 && sub.NumMipLevels != tex.MipLevels()) ||
		(sub.NumArrayLayers != 0 && sub.NumArrayLayers != tex.ArrayLayers())
}
