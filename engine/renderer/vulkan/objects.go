package vulkan

import (
	vk "github.com/goki/vulkan"

	"github.com/spaghettifunk/rhi/engine/renderer/metadata"
)

// Native objects behind metadata handles.
type (
	bufferObject struct {
		buffer       vk.Buffer
		offset, size uint64
		storage      bool
	}
	bufferViewObject struct {
		view    vk.BufferView
		storage bool
	}
	imageObject struct {
		image vk.Image
	}
	imageViewObject struct {
		view    vk.ImageView
		storage bool
		owned   bool
	}
	samplerObject struct {
		sampler vk.Sampler
	}
)

type Buffer struct {
	Name   string
	Handle vk.Buffer
	native metadata.Handle
	flags  metadata.BindFlags
	size   uint64
	srv    metadata.Handle
	uav    metadata.Handle
}

func (b *Buffer) ResourceType() metadata.ResourceType  { return metadata.ResourceTypeBuffer }
func (b *Buffer) Native() metadata.Handle              { return b.native }
func (b *Buffer) BindFlags() metadata.BindFlags        { return b.flags }
func (b *Buffer) Size() uint64                         { return b.size }
func (b *Buffer) ShaderResourceView() metadata.Handle  { return b.srv }
func (b *Buffer) UnorderedAccessView() metadata.Handle { return b.uav }
func (b *Buffer) String() string                       { return b.Name }

type Texture struct {
	Name        string
	Image       vk.Image
	native      metadata.Handle
	flags       metadata.BindFlags
	format      vk.Format
	mipLevels   uint32
	arrayLayers uint32
	srv         metadata.Handle
	uav         metadata.Handle
}

func (t *Texture) ResourceType() metadata.ResourceType  { return metadata.ResourceTypeTexture }
func (t *Texture) Native() metadata.Handle              { return t.native }
func (t *Texture) BindFlags() metadata.BindFlags        { return t.flags }
func (t *Texture) Format() metadata.Format              { return metadata.Format(t.format) }
func (t *Texture) MipLevels() uint32                    { return t.mipLevels }
func (t *Texture) ArrayLayers() uint32                  { return t.arrayLayers }
func (t *Texture) ShaderResourceView() metadata.Handle  { return t.srv }
func (t *Texture) UnorderedAccessView() metadata.Handle { return t.uav }
func (t *Texture) String() string                       { return t.Name }

type Sampler struct {
	Name   string
	Handle vk.Sampler
	native metadata.Handle
}

func (s *Sampler) ResourceType() metadata.ResourceType { return metadata.ResourceTypeSampler }
func (s *Sampler) Native() metadata.Handle             { return s.native }
func (s *Sampler) String() string                      { return s.Name }

// Pipeline is a compiled pipeline together with the layout of descriptor
// set 0, which heap bindings are written to.
type Pipeline struct {
	Name      string
	Handle    vk.Pipeline
	Layout    vk.PipelineLayout
	SetLayout vk.DescriptorSetLayout
	// Stages that read push constants set with SetUniforms.
	PushConstantStages vk.ShaderStageFlags
	Compute            bool
}

func (p *Pipeline) IsCompute() bool { return p.Compute }
func (p *Pipeline) String() string  { return p.Name }

func (p *Pipeline) bindPoint() vk.PipelineBindPoint {
	if p.Compute {
		return vk.PipelineBindPointCompute
	}
	return vk.PipelineBindPointGraphics
}
