package scene

import (
	"image"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/mogaika/gltfscene/registry"
)

type AlphaMode uint8

const (
	AlphaOpaque AlphaMode = iota
	AlphaMask
	AlphaBlend
)

func (m AlphaMode) String() string {
	switch m {
	case AlphaOpaque:
		return "Opaque"
	case AlphaMask:
		return "Mask"
	case AlphaBlend:
		return "Blend"
	}
	return "UnknownAlphaMode"
}

// Material is a resolved PBR material. Texture references point into the
// label registry so a material can be built before its textures are.
type Material struct {
	Name string

	BaseColor        mgl32.Vec4
	BaseColorTexture registry.Handle

	Metallic                 float32
	PerceptualRoughness      float32
	MetallicRoughnessTexture registry.Handle

	NormalMapTexture registry.Handle
	OcclusionTexture registry.Handle

	Emissive        mgl32.Vec4
	EmissiveTexture registry.Handle

	// CullBackfaces is false for double-sided materials.
	DoubleSided   bool
	CullBackfaces bool

	Unlit bool

	AlphaMode   AlphaMode
	AlphaCutoff float32
}

type AddressMode uint8

const (
	AddressClampToEdge AddressMode = iota
	AddressRepeat
	AddressMirrorRepeat
)

type FilterMode uint8

const (
	FilterNearest FilterMode = iota
	FilterLinear
)

// SamplerDesc is the translated sampler state of a texture.
type SamplerDesc struct {
	AddressModeU AddressMode
	AddressModeV AddressMode
	MagFilter    FilterMode
	MinFilter    FilterMode
	MipmapFilter FilterMode
}

// Texture is a decoded image plus its color-space tag and sampler state.
// SRGB is false for data textures (normal, occlusion, metallic-roughness).
type Texture struct {
	Name    string
	Image   image.Image
	SRGB    bool
	Sampler SamplerDesc
}
