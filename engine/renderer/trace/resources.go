package trace

import (
	"fmt"

	"github.com/spaghettifunk/rhi/engine/renderer/metadata"
)

type Buffer struct {
	Name   string
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
	native      metadata.Handle
	flags       metadata.BindFlags
	format      metadata.Format
	mipLevels   uint32
	arrayLayers uint32
	srv         metadata.Handle
	uav         metadata.Handle
}

func (t *Texture) ResourceType() metadata.ResourceType  { return metadata.ResourceTypeTexture }
func (t *Texture) Native() metadata.Handle              { return t.native }
func (t *Texture) BindFlags() metadata.BindFlags        { return t.flags }
func (t *Texture) Format() metadata.Format              { return t.format }
func (t *Texture) MipLevels() uint32                    { return t.mipLevels }
func (t *Texture) ArrayLayers() uint32                  { return t.arrayLayers }
func (t *Texture) ShaderResourceView() metadata.Handle  { return t.srv }
func (t *Texture) UnorderedAccessView() metadata.Handle { return t.uav }
func (t *Texture) String() string                       { return t.Name }

type Sampler struct {
	Name   string
	native metadata.Handle
}

func (s *Sampler) ResourceType() metadata.ResourceType { return metadata.ResourceTypeSampler }
func (s *Sampler) Native() metadata.Handle             { return s.native }
func (s *Sampler) String() string                      { return s.Name }

type Pipeline struct {
	Name    string
	Compute bool
}

func (p *Pipeline) IsCompute() bool { return p.Compute }
func (p *Pipeline) String() string  { return p.Name }

// label names the object behind a handle in the journal.
type label string

func (l label) String() string { return string(l) }

func viewLabel(owner fmt.Stringer, kind string) label {
	return label(fmt.Sprintf("%s.%s", owner, kind))
}
