package vulkan

import (
	"fmt"

	vk "github.com/goki/vulkan"

	"github.com/spaghettifunk/rhi/engine/core"
	"github.com/spaghettifunk/rhi/engine/renderer/metadata"
)

// VulkanContext owns the device level state heaps and replayers need:
// the logical device, the registry that maps metadata handles to native
// objects, and the views heaps create. Instance, surface and swapchain
// setup are left to the application.
type VulkanContext struct {
	Device    vk.Device
	Allocator *vk.AllocationCallbacks

	features metadata.Features
	objects  *core.Identifiers
}

func NewVulkanContext(device vk.Device, features metadata.Features) *VulkanContext {
	return &VulkanContext{
		Device:   device,
		features: features,
		objects:  core.NewIdentifiers(),
	}
}

func (vc *VulkanContext) Features() metadata.Features {
	return vc.features
}

func (vc *VulkanContext) register(obj any) metadata.Handle {
	return metadata.Handle(vc.objects.Acquire(obj))
}

// object returns the native object behind h. Handles are only ever
// minted by this context, so an unknown handle is a programming error.
func (vc *VulkanContext) object(h metadata.Handle) any {
	obj := vc.objects.Owner(uint32(h))
	if obj == nil {
		panic(fmt.Sprintf("vulkan: handle %d is not registered", h))
	}
	return obj
}

func (vc *VulkanContext) RegisterBuffer(name string, handle vk.Buffer, size uint64, flags metadata.BindFlags) *Buffer {
	b := &Buffer{Name: name, Handle: handle, flags: flags, size: size}
	b.native = vc.register(bufferObject{buffer: handle, size: size})
	if flags&metadata.BindSampled != 0 {
		b.srv = vc.register(bufferObject{buffer: handle, size: size})
	}
	if flags&metadata.BindStorage != 0 {
		b.uav = vc.register(bufferObject{buffer: handle, size: size, storage: true})
	}
	return b
}

// RegisterTexture wraps an image and its default views. srv and uav may
// be nil when the texture is not sampled or not used as storage.
func (vc *VulkanContext) RegisterTexture(name string, image vk.Image, srv, uav vk.ImageView, format vk.Format, mipLevels, arrayLayers uint32, flags metadata.BindFlags) *Texture {
	t := &Texture{
		Name:        name,
		Image:       image,
		flags:       flags,
		format:      format,
		mipLevels:   max(mipLevels, 1),
		arrayLayers: max(arrayLayers, 1),
	}
	t.native = vc.register(imageObject{image: image})
	if srv != nil {
		t.srv = vc.register(imageViewObject{view: srv})
	}
	if uav != nil {
		t.uav = vc.register(imageViewObject{view: uav, storage: true})
	}
	return t
}

func (vc *VulkanContext) RegisterSampler(name string, handle vk.Sampler) *Sampler {
	s := &Sampler{Name: name, Handle: handle}
	s.native = vc.register(samplerObject{sampler: handle})
	return s
}

func (vc *VulkanContext) CreateTextureView(texture metadata.Texture, desc metadata.TextureViewDescriptor, storage bool) (metadata.Handle, error) {
	tex, ok := texture.(*Texture)
	if !ok {
		return metadata.NullHandle, fmt.Errorf("%w: %T is not a vulkan texture", core.ErrInvalidResourceType, texture)
	}
	format := vk.Format(desc.Format)
	if desc.Format == metadata.FormatUndefined {
		format = tex.format
	}
	sub := desc.Subresource
	levels, layers := sub.NumMipLevels, sub.NumArrayLayers
	if levels == 0 {
		levels = vk.RemainingMipLevels
	}
	if layers == 0 {
		layers = vk.RemainingArrayLayers
	}
	viewType := vk.ImageViewType2d
	if tex.arrayLayers > 1 {
		viewType = vk.ImageViewType2dArray
	}

	viewInfo := vk.ImageViewCreateInfo{
		SType:    vk.StructureTypeImageViewCreateInfo,
		Image:    tex.Image,
		ViewType: viewType,
		Format:   format,
		SubresourceRange: vk.ImageSubresourceRange{
			AspectMask:     vk.ImageAspectFlags(vk.ImageAspectColorBit),
			BaseMipLevel:   sub.BaseMipLevel,
			LevelCount:     levels,
			BaseArrayLayer: sub.BaseArrayLayer,
			LayerCount:     layers,
		},
	}
	var view vk.ImageView
	if err := vulkanError(vk.CreateImageView(vc.Device, &viewInfo, vc.Allocator, &view), "create image view"); err != nil {
		core.LogError("texture '%s': %s", tex.Name, err)
		return metadata.NullHandle, err
	}
	return vc.register(imageViewObject{view: view, storage: storage, owned: true}), nil
}

func (vc *VulkanContext) CreateBufferView(buffer metadata.Buffer, desc metadata.BufferViewDescriptor, storage bool) (metadata.Handle, error) {
	buf, ok := buffer.(*Buffer)
	if !ok {
		return metadata.NullHandle, fmt.Errorf("%w: %T is not a vulkan buffer", core.ErrInvalidResourceType, buffer)
	}
	size := desc.Size
	if size == 0 {
		size = buf.size - desc.Offset
	}

	// Structured views are plain ranges; only typed views need a VkBufferView.
	if desc.Format == metadata.FormatUndefined {
		return vc.register(bufferObject{buffer: buf.Handle, offset: desc.Offset, size: size, storage: storage}), nil
	}

	viewInfo := vk.BufferViewCreateInfo{
		SType:  vk.StructureTypeBufferViewCreateInfo,
		Buffer: buf.Handle,
		Format: vk.Format(desc.Format),
		Offset: vk.DeviceSize(desc.Offset),
		Range:  vk.DeviceSize(size),
	}
	var view vk.BufferView
	if err := vulkanError(vk.CreateBufferView(vc.Device, &viewInfo, vc.Allocator, &view), "create buffer view"); err != nil {
		core.LogError("buffer '%s': %s", buf.Name, err)
		return metadata.NullHandle, err
	}
	return vc.register(bufferViewObject{view: view, storage: storage}), nil
}

func (vc *VulkanContext) ReleaseView(view metadata.Handle) {
	switch obj := vc.object(view).(type) {
	case imageViewObject:
		if obj.owned {
			vk.DestroyImageView(vc.Device, obj.view, vc.Allocator)
		}
	case bufferViewObject:
		vk.DestroyBufferView(vc.Device, obj.view, vc.Allocator)
	}
	if err := vc.objects.Release(uint32(view)); err != nil {
		core.LogWarn("vulkan: %s", err)
	}
}
