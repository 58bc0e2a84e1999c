package heap

import (
	"github.com/spaghettifunk/rhi/engine/renderer/metadata"
)

// ShaderStage identifies one programmable stage of a native context.
// Stages are ordered: graphics stages first, compute last.
type ShaderStage uint8

const (
	StageVertex ShaderStage = iota
	StageTessControl
	StageTessEvaluation
	StageGeometry
	StageFragment
	StageCompute

	numShaderStages   = 6
	numGraphicsStages = 5
)

var shaderStageNames = [numShaderStages]string{"vertex", "tess-control", "tess-evaluation", "geometry", "fragment", "compute"}

func (s ShaderStage) String() string {
	if int(s) < numShaderStages {
		return shaderStageNames[s]
	}
	return "invalid"
}

// Flag returns the stage bit of s.
func (s ShaderStage) Flag() metadata.StageFlags {
	return metadata.StageFlags(1) << s
}

// BindingContext is the native "set N objects at slot S for stage X"
// binding primitive. The slices passed to it are only valid for the
// duration of the call.
type BindingContext interface {
	SetConstantBuffers(stage ShaderStage, startSlot uint32, buffers []metadata.Handle)
	// SetConstantBufferRanges binds sub-ranges of constant buffers, given
	// in 16-byte constants.
	SetConstantBufferRanges(stage ShaderStage, startSlot uint32, buffers []metadata.Handle, firstConstants, numConstants []uint32)
	SetSamplers(stage ShaderStage, startSlot uint32, samplers []metadata.Handle)
	SetShaderResources(stage ShaderStage, startSlot uint32, views []metadata.Handle)
	// SetUnorderedAccessViews binds storage views. For graphics pipelines
	// the views are bound through the fragment stage.
	SetUnorderedAccessViews(stage ShaderStage, startSlot uint32, views []metadata.Handle, initialCounts []uint32)
}

// ViewFactory creates the native views a heap needs when a resource view
// descriptor selects a sub-resource or reinterprets the format.
type ViewFactory interface {
	Features() metadata.Features
	CreateTextureView(texture metadata.Texture, desc metadata.TextureViewDescriptor, storage bool) (metadata.Handle, error)
	CreateBufferView(buffer metadata.Buffer, desc metadata.BufferViewDescriptor, storage bool) (metadata.Handle, error)
	ReleaseView(view metadata.Handle)
}
