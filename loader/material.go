package loader

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"

	"github.com/mogaika/gltfscene/registry"
	"github.com/mogaika/gltfscene/scene"
)

const extUnlit = "KHR_materials_unlit"

// linearTextureIndices collects texture indices that carry non-color data
// (normal maps, occlusion, metallic-roughness) and therefore must not be
// tagged sRGB.
func linearTextureIndices(doc *gltf.Document) map[int]bool {
	linear := make(map[int]bool)
	for _, mat := range doc.Materials {
		if pbr := mat.PBRMetallicRoughness; pbr != nil && pbr.MetallicRoughnessTexture != nil {
			linear[int(pbr.MetallicRoughnessTexture.Index)] = true
		}
		if mat.NormalTexture != nil && mat.NormalTexture.Index != nil {
			linear[int(*mat.NormalTexture.Index)] = true
		}
		if mat.OcclusionTexture != nil && mat.OcclusionTexture.Index != nil {
			linear[int(*mat.OcclusionTexture.Index)] = true
		}
	}
	return linear
}

func loadMaterial(mat *gltf.Material, reg *registry.Registry) *scene.Material {
	out := &scene.Material{
		Name:                mat.Name,
		BaseColor:           mgl32.Vec4{1, 1, 1, 1},
		Metallic:            1,
		PerceptualRoughness: 1,
		DoubleSided:         mat.DoubleSided,
		CullBackfaces:       !mat.DoubleSided,
		AlphaCutoff:         mat.AlphaCutoffOrDefault(),
	}

	if pbr := mat.PBRMetallicRoughness; pbr != nil {
		base := pbr.BaseColorFactorOrDefault()
		out.BaseColor = mgl32.Vec4{base[0], base[1], base[2], base[3]}
		out.Metallic = float32(pbr.MetallicFactorOrDefault())
		out.PerceptualRoughness = float32(pbr.RoughnessFactorOrDefault())
		if pbr.BaseColorTexture != nil {
			out.BaseColorTexture = reg.Handle(textureLabel(int(pbr.BaseColorTexture.Index)))
		}
		if pbr.MetallicRoughnessTexture != nil {
			out.MetallicRoughnessTexture = reg.Handle(textureLabel(int(pbr.MetallicRoughnessTexture.Index)))
		}
	}

	if mat.NormalTexture != nil && mat.NormalTexture.Index != nil {
		out.NormalMapTexture = reg.Handle(textureLabel(int(*mat.NormalTexture.Index)))
	}
	if mat.OcclusionTexture != nil && mat.OcclusionTexture.Index != nil {
		out.OcclusionTexture = reg.Handle(textureLabel(int(*mat.OcclusionTexture.Index)))
	}

	out.Emissive = mgl32.Vec4{mat.EmissiveFactor[0], mat.EmissiveFactor[1], mat.EmissiveFactor[2], 1}
	if mat.EmissiveTexture != nil {
		out.EmissiveTexture = reg.Handle(textureLabel(int(mat.EmissiveTexture.Index)))
	}

	switch mat.AlphaMode {
	case gltf.AlphaMask:
		out.AlphaMode = scene.AlphaMask
	case gltf.AlphaBlend:
		out.AlphaMode = scene.AlphaBlend
	default:
		out.AlphaMode = scene.AlphaOpaque
	}

	if _, ok := mat.Extensions[extUnlit]; ok {
		out.Unlit = true
	}
	return out
}

// defaultMaterial backs primitives that declare no material.
func defaultMaterial() *scene.Material {
	return &scene.Material{
		BaseColor:           mgl32.Vec4{1, 1, 1, 1},
		Metallic:            1,
		PerceptualRoughness: 1,
		CullBackfaces:       true,
		Emissive:            mgl32.Vec4{0, 0, 0, 1},
		AlphaMode:           scene.AlphaOpaque,
		AlphaCutoff:         0.5,
	}
}
