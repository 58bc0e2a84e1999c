package heap

import (
	"fmt"

	"github.com/spaghettifunk/rhi/engine/renderer/metadata"
)

type fakeBuffer struct {
	native, srv, uav metadata.Handle
	size             uint64
}

func (b *fakeBuffer) ResourceType() metadata.ResourceType  { return metadata.ResourceTypeBuffer }
func (b *fakeBuffer) Native() metadata.Handle              { return b.native }
func (b *fakeBuffer) BindFlags() metadata.BindFlags        { return 0 }
func (b *fakeBuffer) Size() uint64                         { return b.size }
func (b *fakeBuffer) ShaderResourceView() metadata.Handle  { return b.srv }
func (b *fakeBuffer) UnorderedAccessView() metadata.Handle { return b.uav }

type fakeTexture struct {
	native, srv, uav metadata.Handle
}

func (t *fakeTexture) ResourceType() metadata.ResourceType  { return metadata.ResourceTypeTexture }
func (t *fakeTexture) Native() metadata.Handle              { return t.native }
func (t *fakeTexture) BindFlags() metadata.BindFlags        { return 0 }
func (t *fakeTexture) Format() metadata.Format              { return 1 }
func (t *fakeTexture) MipLevels() uint32                    { return 4 }
func (t *fakeTexture) ArrayLayers() uint32                  { return 1 }
func (t *fakeTexture) ShaderResourceView() metadata.Handle  { return t.srv }
func (t *fakeTexture) UnorderedAccessView() metadata.Handle { return t.uav }

type fakeSampler struct {
	native metadata.Handle
}

func (s *fakeSampler) ResourceType() metadata.ResourceType { return metadata.ResourceTypeSampler }
func (s *fakeSampler) Native() metadata.Handle             { return s.native }

type fakeFactory struct {
	features metadata.Features
	next     metadata.Handle
	live     map[metadata.Handle]bool
	failWith error
}

func newFakeFactory(ranges bool) *fakeFactory {
	return &fakeFactory{
		features: metadata.Features{ConstantBufferRanges: ranges},
		next:     0x1000,
		live:     map[metadata.Handle]bool{},
	}
}

func (f *fakeFactory) Features() metadata.Features { return f.features }

func (f *fakeFactory) create() (metadata.Handle, error) {
	if f.failWith != nil {
		return metadata.NullHandle, f.failWith
	}
	f.next++
	f.live[f.next] = true
	return f.next, nil
}

func (f *fakeFactory) CreateTextureView(metadata.Texture, metadata.TextureViewDescriptor, bool) (metadata.Handle, error) {
	return f.create()
}

func (f *fakeFactory) CreateBufferView(metadata.Buffer, metadata.BufferViewDescriptor, bool) (metadata.Handle, error) {
	return f.create()
}

func (f *fakeFactory) ReleaseView(view metadata.Handle) {
	delete(f.live, view)
}

// recordingContext logs every binding call as a string.
type recordingContext struct {
	calls []string
}

func (c *recordingContext) SetConstantBuffers(stage ShaderStage, startSlot uint32, buffers []metadata.Handle) {
	c.calls = append(c.calls, fmt.Sprintf("%s cbuffers @%d %v", stage, startSlot, buffers))
}

func (c *recordingContext) SetConstantBufferRanges(stage ShaderStage, startSlot uint32, buffers []metadata.Handle, first, num []uint32) {
	c.calls = append(c.calls, fmt.Sprintf("%s cbuffer-ranges @%d %v first=%v num=%v", stage, startSlot, buffers, first, num))
}

func (c *recordingContext) SetSamplers(stage ShaderStage, startSlot uint32, samplers []metadata.Handle) {
	c.calls = append(c.calls, fmt.Sprintf("%s samplers @%d %v", stage, startSlot, samplers))
}

func (c *recordingContext) SetShaderResources(stage ShaderStage, startSlot uint32, views []metadata.Handle) {
	c.calls = append(c.calls, fmt.Sprintf("%s srvs @%d %v", stage, startSlot, views))
}

func (c *recordingContext) SetUnorderedAccessViews(stage ShaderStage, startSlot uint32, views []metadata.Handle, initialCounts []uint32) {
	c.calls = append(c.calls, fmt.Sprintf("%s uavs @%d %v counts=%v", stage, startSlot, views, initialCounts))
}
