package metadata

import "reflect"

// Handle is an opaque native object handle (view, buffer, sampler, ...).
// The zero value is the null handle.
type Handle uint64

const NullHandle Handle = 0

// IsNil reports whether v is nil or an interface holding a nil pointer,
// such as a (*Buffer)(nil) passed as a Resource.
func IsNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}

type ResourceType uint8

/** @brief Pre-defined resource types. */
const (
	/** @brief Undefined resource type. */
	ResourceTypeUndefined ResourceType = iota
	/** @brief Hardware buffer resource. */
	ResourceTypeBuffer
	/** @brief Texture resource. */
	ResourceTypeTexture
	/** @brief Sampler state resource. */
	ResourceTypeSampler
)

func (t ResourceType) String() string {
	switch t {
	case ResourceTypeBuffer:
		return "Buffer"
	case ResourceTypeTexture:
		return "Texture"
	case ResourceTypeSampler:
		return "Sampler"
	default:
		return "Undefined"
	}
}

// Format is a backend agnostic pixel or element format. Only the
// undefined format has a meaning here: "inherit the resource format".
type Format uint32

const FormatUndefined Format = 0

// Resource is the common interface of every bindable object.
type Resource interface {
	ResourceType() ResourceType
}

// Buffer is a hardware buffer owned by a backend.
type Buffer interface {
	Resource
	/** @brief The native buffer object. */
	Native() Handle
	BindFlags() BindFlags
	/** @brief The size of the buffer in bytes. */
	Size() uint64
	/** @brief The default shader resource view over the whole buffer, if any. */
	ShaderResourceView() Handle
	/** @brief The default unordered access view over the whole buffer, if any. */
	UnorderedAccessView() Handle
}

// Texture is a texture owned by a backend.
type Texture interface {
	Resource
	Native() Handle
	BindFlags() BindFlags
	Format() Format
	MipLevels() uint32
	ArrayLayers() uint32
	ShaderResourceView() Handle
	UnorderedAccessView() Handle
}

// Sampler is a sampler state owned by a backend.
type Sampler interface {
	Resource
	Native() Handle
}
