package vulkan

import (
	vk "github.com/goki/vulkan"

	"github.com/spaghettifunk/rhi/engine/renderer/metadata"
)

// indexType maps an index buffer format. Formats on this backend are
// vk.Format values.
func indexType(format metadata.Format) vk.IndexType {
	if vk.Format(format) == vk.FormatR16Uint {
		return vk.IndexTypeUint16
	}
	return vk.IndexTypeUint32
}

func stencilFaceMask(face metadata.StencilFace) vk.StencilFaceFlags {
	switch face {
	case metadata.StencilFaceFront:
		return vk.StencilFaceFlags(vk.StencilFaceFrontBit)
	case metadata.StencilFaceBack:
		return vk.StencilFaceFlags(vk.StencilFaceBackBit)
	default:
		return vk.StencilFaceFlags(vk.StencilFrontAndBack)
	}
}

func toViewports(viewports []metadata.Viewport) []vk.Viewport {
	out := make([]vk.Viewport, len(viewports))
	for i, v := range viewports {
		out[i] = vk.Viewport{
			X:        v.X,
			Y:        v.Y,
			Width:    v.Width,
			Height:   v.Height,
			MinDepth: v.MinDepth,
			MaxDepth: v.MaxDepth,
		}
	}
	return out
}

func toRects(scissors []metadata.Scissor) []vk.Rect2D {
	out := make([]vk.Rect2D, len(scissors))
	for i, s := range scissors {
		out[i] = vk.Rect2D{
			Offset: vk.Offset2D{X: s.X, Y: s.Y},
			Extent: vk.Extent2D{Width: uint32(max(s.Width, 0)), Height: uint32(max(s.Height, 0))},
		}
	}
	return out
}
