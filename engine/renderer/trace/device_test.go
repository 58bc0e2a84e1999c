package trace

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/rhi/engine/core"
	"github.com/spaghettifunk/rhi/engine/renderer/command"
	"github.com/spaghettifunk/rhi/engine/renderer/heap"
	"github.com/spaghettifunk/rhi/engine/renderer/metadata"
)

func sceneHeap(t *testing.T, dev *Device) *heap.ResourceHeap {
	t.Helper()
	layout, err := metadata.NewPipelineLayout("scene",
		metadata.BindingDescriptor{Name: "globals", Type: metadata.ResourceTypeBuffer, BindFlags: metadata.BindConstantBuffer, StageFlags: metadata.StageVertex | metadata.StageFragment, Slot: 0},
		metadata.BindingDescriptor{Name: "albedo", Type: metadata.ResourceTypeTexture, BindFlags: metadata.BindSampled, StageFlags: metadata.StageFragment, Slot: 1},
		metadata.BindingDescriptor{Name: "linear", Type: metadata.ResourceTypeSampler, StageFlags: metadata.StageFragment, Slot: 0},
		metadata.BindingDescriptor{Name: "particles", Type: metadata.ResourceTypeBuffer, BindFlags: metadata.BindStorage, StageFlags: metadata.StageFragment, Slot: 2},
	)
	require.NoError(t, err)

	globals := dev.NewBuffer("globals", 256, metadata.BindConstantBuffer)
	albedo := dev.NewTexture("albedo", 1, 4, 1, metadata.BindSampled)
	linear := dev.NewSampler("linear")
	particles := dev.NewBuffer("particles", 1024, metadata.BindStorage)

	h, err := heap.New(dev, layout, []metadata.ResourceViewDescriptor{
		{Resource: globals},
		{Resource: albedo, TextureView: metadata.TextureViewDescriptor{Subresource: metadata.TextureSubresource{BaseMipLevel: 1, NumMipLevels: 2}}},
		{Resource: linear},
		{Resource: particles, InitialCount: metadata.KeepCounter},
	}, heap.WithName("scene"))
	require.NoError(t, err)
	return h
}

func TestDeviceJournalsHeapBindings(t *testing.T) {
	dev := NewDevice(metadata.Features{ConstantBufferRanges: true, MaxSlots: 16})
	h := sceneHeap(t, dev)
	assert.Equal(t, 1, dev.LiveViews())

	h.BindForGraphicsPipeline(dev, 0)
	assert.Equal(t, []string{
		"vertex cbuffers @0 [globals]",
		"fragment cbuffers @0 [globals]",
		"fragment samplers @0 [linear]",
		"fragment srvs @1 [albedo.view[mip 1+2, layer 0+1]]",
		"fragment uavs @2 [particles.uav] counts=[-1]",
	}, dev.Journal())

	dev.ResetJournal()
	h.BindForComputePipeline(dev, 0)
	assert.Empty(t, dev.Journal())

	h.Release()
	assert.Zero(t, dev.LiveViews())
}

func TestDeviceReplaysThroughHeapBinder(t *testing.T) {
	dev := NewDevice(metadata.Features{})
	h := sceneHeap(t, dev)
	vbo := dev.NewBuffer("vbo", 4096, metadata.BindVertexBuffer)

	cb := command.NewSecondaryCommandBuffer("frame", 0)
	cb.Begin()
	cb.SetPipelineState(dev.NewPipeline("opaque", false))
	cb.SetResourceHeap(h, 0)
	cb.SetVertexBuffer(0, vbo, 0)
	cb.Draw(36, 0)
	require.NoError(t, cb.End())

	require.NoError(t, cb.Execute(command.NewHeapBinder(dev, dev)))
	journal := dev.Journal()
	require.Len(t, journal, 9)
	assert.Equal(t, "SetPipelineState opaque compute=false", journal[0])
	assert.Equal(t, "vertex cbuffers @0 [globals]", journal[1])
	assert.Equal(t, "SetResourceHeap scene set=0", journal[6])
	assert.Equal(t, "SetVertexBuffer slot=0 vbo offset=0", journal[7])
	assert.Equal(t, "Draw vertices=36 first=0", journal[8])
}

func TestDeviceViews(t *testing.T) {
	dev := NewDevice(metadata.Features{})
	buf := dev.NewBuffer("data", 512, metadata.BindSampled|metadata.BindStorage)
	tex := dev.NewTexture("shadow", 1, 1, 6, metadata.BindSampled)

	assert.Equal(t, "data", dev.Describe(buf.Native()))
	assert.Equal(t, "data.srv", dev.Describe(buf.ShaderResourceView()))
	assert.Equal(t, "data.uav", dev.Describe(buf.UnorderedAccessView()))
	assert.Equal(t, "null", dev.Describe(metadata.NullHandle))
	assert.Equal(t, metadata.NullHandle, tex.UnorderedAccessView())

	v, err := dev.CreateBufferView(buf, metadata.BufferViewDescriptor{Offset: 256}, true)
	require.NoError(t, err)
	assert.Equal(t, "data.rwview[256:512]", dev.Describe(v))

	_, err = dev.CreateBufferView(buf, metadata.BufferViewDescriptor{Offset: 256, Size: 512}, false)
	assert.ErrorIs(t, err, core.ErrInvalidBufferRange)

	face, err := dev.CreateTextureView(tex, metadata.TextureViewDescriptor{Subresource: metadata.TextureSubresource{BaseArrayLayer: 2, NumArrayLayers: 1}}, false)
	require.NoError(t, err)
	assert.Equal(t, "shadow.view[mip 0+1, layer 2+1]", dev.Describe(face))

	_, err = dev.CreateTextureView(tex, metadata.TextureViewDescriptor{Subresource: metadata.TextureSubresource{BaseMipLevel: 1}}, false)
	assert.Error(t, err)

	assert.Equal(t, 2, dev.LiveViews())
	dev.ReleaseView(v)
	dev.ReleaseView(v)
	dev.ReleaseView(face)
	assert.Zero(t, dev.LiveViews())
}
