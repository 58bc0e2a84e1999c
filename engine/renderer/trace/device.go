package trace

import (
	"fmt"
	"strings"

	"github.com/spaghettifunk/rhi/engine/core"
	"github.com/spaghettifunk/rhi/engine/renderer/metadata"
)

// Device is a backend without a GPU. It mints handles for resources and
// views and writes every native call it receives to a journal, which
// makes it the reference context for inspecting heaps and replaying
// command buffers.
//
// A Device is not safe for concurrent use.
type Device struct {
	features metadata.Features
	ids      *core.Identifiers
	views    map[metadata.Handle]struct{}
	journal  []string
}

func NewDevice(features metadata.Features) *Device {
	return &Device{
		features: features,
		ids:      core.NewIdentifiers(),
		views:    make(map[metadata.Handle]struct{}),
	}
}

func (d *Device) Features() metadata.Features {
	return d.features
}

func (d *Device) handle(owner fmt.Stringer) metadata.Handle {
	return metadata.Handle(d.ids.Acquire(owner))
}

func (d *Device) NewBuffer(name string, size uint64, flags metadata.BindFlags) *Buffer {
	b := &Buffer{Name: name, flags: flags, size: size}
	b.native = d.handle(b)
	if flags&metadata.BindSampled != 0 {
		b.srv = d.handle(viewLabel(b, "srv"))
	}
	if flags&metadata.BindStorage != 0 {
		b.uav = d.handle(viewLabel(b, "uav"))
	}
	return b
}

func (d *Device) NewTexture(name string, format metadata.Format, mipLevels, arrayLayers uint32, flags metadata.BindFlags) *Texture {
	t := &Texture{
		Name:        name,
		flags:       flags,
		format:      format,
		mipLevels:   max(mipLevels, 1),
		arrayLayers: max(arrayLayers, 1),
	}
	t.native = d.handle(t)
	if flags&metadata.BindSampled != 0 {
		t.srv = d.handle(viewLabel(t, "srv"))
	}
	if flags&metadata.BindStorage != 0 {
		t.uav = d.handle(viewLabel(t, "uav"))
	}
	return t
}

func (d *Device) NewSampler(name string) *Sampler {
	s := &Sampler{Name: name}
	s.native = d.handle(s)
	return s
}

func (d *Device) NewPipeline(name string, compute bool) *Pipeline {
	return &Pipeline{Name: name, Compute: compute}
}

func (d *Device) CreateTextureView(texture metadata.Texture, desc metadata.TextureViewDescriptor, storage bool) (metadata.Handle, error) {
	sub := desc.Subresource
	numMips := sub.NumMipLevels
	if numMips == 0 {
		numMips = texture.MipLevels() - min(sub.BaseMipLevel, texture.MipLevels())
	}
	numLayers := sub.NumArrayLayers
	if numLayers == 0 {
		numLayers = texture.ArrayLayers() - min(sub.BaseArrayLayer, texture.ArrayLayers())
	}
	if numMips == 0 || sub.BaseMipLevel+numMips > texture.MipLevels() ||
		numLayers == 0 || sub.BaseArrayLayer+numLayers > texture.ArrayLayers() {
		return metadata.NullHandle, fmt.Errorf("texture view mips [%d+%d] layers [%d+%d] exceeds %s (%d mips, %d layers)",
			sub.BaseMipLevel, numMips, sub.BaseArrayLayer, numLayers, texture, texture.MipLevels(), texture.ArrayLayers())
	}
	kind := "view"
	if storage {
		kind = "rwview"
	}
	h := d.handle(label(fmt.Sprintf("%v.%s[mip %d+%d, layer %d+%d]", texture, kind, sub.BaseMipLevel, numMips, sub.BaseArrayLayer, numLayers)))
	d.views[h] = struct{}{}
	return h, nil
}

func (d *Device) CreateBufferView(buffer metadata.Buffer, desc metadata.BufferViewDescriptor, storage bool) (metadata.Handle, error) {
	size := desc.Size
	if size == 0 && desc.Offset < buffer.Size() {
		size = buffer.Size() - desc.Offset
	}
	if size == 0 || desc.Offset+size > buffer.Size() {
		return metadata.NullHandle, fmt.Errorf("%w: [%d, %d) outside of %v (%d bytes)",
			core.ErrInvalidBufferRange, desc.Offset, desc.Offset+size, buffer, buffer.Size())
	}
	kind := "view"
	if storage {
		kind = "rwview"
	}
	h := d.handle(label(fmt.Sprintf("%v.%s[%d:%d]", buffer, kind, desc.Offset, desc.Offset+size)))
	d.views[h] = struct{}{}
	return h, nil
}

func (d *Device) ReleaseView(view metadata.Handle) {
	if _, ok := d.views[view]; !ok {
		core.LogWarn("trace: release of unknown view %d", view)
		return
	}
	delete(d.views, view)
	if err := d.ids.Release(uint32(view)); err != nil {
		core.LogWarn("trace: %s", err)
	}
}

// LiveViews returns the number of views created through the device and
// not yet released.
func (d *Device) LiveViews() int {
	return len(d.views)
}

// Describe names the object behind a handle.
func (d *Device) Describe(h metadata.Handle) string {
	if h == metadata.NullHandle {
		return "null"
	}
	if s, ok := d.ids.Owner(uint32(h)).(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("#%d", h)
}

func (d *Device) describeAll(handles []metadata.Handle) string {
	names := make([]string, len(handles))
	for i, h := range handles {
		names[i] = d.Describe(h)
	}
	return "[" + strings.Join(names, " ") + "]"
}

func (d *Device) record(format string, args ...any) {
	entry := fmt.Sprintf(format, args...)
	core.LogDebug("trace: %s", entry)
	d.journal = append(d.journal, entry)
}

// Journal returns the calls recorded since the last reset.
func (d *Device) Journal() []string {
	return d.journal
}

func (d *Device) ResetJournal() {
	d.journal = d.journal[:0]
}
