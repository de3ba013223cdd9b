package loader

import (
	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"

	"github.com/mogaika/gltfscene/scene"
)

// conversionClass selects how raw accessor elements are reshaped for the
// target attribute slot. Most slots take elements as-is; colors, texture
// coordinates and joint indices have widening rules.
type conversionClass uint8

const (
	convertAny conversionClass = iota
	convertRGBA
	convertTexCoord
	convertJointIndex
)

type attributeMapping struct {
	attr       scene.Attribute
	conversion conversionClass
}

func mapSemantic(semantic string, custom map[string]scene.Attribute) (attributeMapping, bool) {
	switch semantic {
	case "POSITION":
		return attributeMapping{scene.AttributePosition, convertAny}, true
	case "NORMAL":
		return attributeMapping{scene.AttributeNormal, convertAny}, true
	case "TANGENT":
		return attributeMapping{scene.AttributeTangent, convertAny}, true
	case "COLOR_0":
		return attributeMapping{scene.AttributeColor, convertRGBA}, true
	case "TEXCOORD_0":
		return attributeMapping{scene.AttributeTexCoord0, convertTexCoord}, true
	case "JOINTS_0":
		return attributeMapping{scene.AttributeJointIndex, convertJointIndex}, true
	case "WEIGHTS_0":
		return attributeMapping{scene.AttributeJointWeight, convertAny}, true
	}
	if attr, ok := custom[semantic]; ok {
		return attributeMapping{attr, convertAny}, true
	}
	return attributeMapping{}, false
}

// convertAttribute decodes one named vertex attribute accessor and converts
// it for its target slot. Any failure here is recoverable: the caller logs
// it and omits the attribute.
func convertAttribute(doc *gltf.Document, semantic string, acc *gltf.Accessor, buffers [][]byte, custom map[string]scene.Attribute) (scene.Attribute, scene.VertexValues, error) {
	mapping, ok := mapSemantic(semantic, custom)
	if !ok {
		return scene.Attribute{}, nil, errors.Errorf("Unrecognized vertex attribute %q", semantic)
	}

	seq, err := elementsFromAccessor(doc, acc, buffers)
	if err != nil {
		return scene.Attribute{}, nil, errors.Wrapf(err, "Attribute %q", semantic)
	}

	var values scene.VertexValues
	switch mapping.conversion {
	case convertRGBA:
		values, err = intoRGBAValues(seq)
	case convertTexCoord:
		values, err = intoTexCoordValues(seq)
	case convertJointIndex:
		values, err = intoJointIndexValues(seq)
	default:
		values, err = intoAnyValues(seq)
	}
	if err != nil {
		return scene.Attribute{}, nil, errors.Wrapf(err, "Attribute %q", semantic)
	}

	if values.Format() != mapping.attr.Format {
		return scene.Attribute{}, nil, errors.Errorf(
			"Attribute %q decoded as %s but slot %q requires %s",
			semantic, values.Format(), mapping.attr.Name, mapping.attr.Format)
	}
	return mapping.attr, values, nil
}

// intoAnyValues maps the raw element variant onto the matching storage
// format without touching the data.
func intoAnyValues(seq elementSeq) (scene.VertexValues, error) {
	switch seq.kind {
	case elemF32:
		return scene.Float32(seq.data.([]float32)), nil
	case elemU32:
		return scene.Uint32(seq.data.([]uint32)), nil
	case elemF32x2:
		return scene.Float32x2(seq.data.([][2]float32)), nil
	case elemU32x2:
		return scene.Uint32x2(seq.data.([][2]uint32)), nil
	case elemF32x3:
		return scene.Float32x3(seq.data.([][3]float32)), nil
	case elemU32x3:
		return scene.Uint32x3(seq.data.([][3]uint32)), nil
	case elemF32x4:
		return scene.Float32x4(seq.data.([][4]float32)), nil
	case elemU32x4:
		return scene.Uint32x4(seq.data.([][4]uint32)), nil
	case elemI16x2:
		if seq.normalized {
			return scene.Snorm16x2(seq.data.([][2]int16)), nil
		}
		return scene.Sint16x2(seq.data.([][2]int16)), nil
	case elemU16x2:
		if seq.normalized {
			return scene.Unorm16x2(seq.data.([][2]uint16)), nil
		}
		return scene.Uint16x2(seq.data.([][2]uint16)), nil
	case elemI16x4:
		if seq.normalized {
			return scene.Snorm16x4(seq.data.([][4]int16)), nil
		}
		return scene.Sint16x4(seq.data.([][4]int16)), nil
	case elemU16x4:
		if seq.normalized {
			return scene.Unorm16x4(seq.data.([][4]uint16)), nil
		}
		return scene.Uint16x4(seq.data.([][4]uint16)), nil
	case elemI8x2:
		if seq.normalized {
			return scene.Snorm8x2(seq.data.([][2]int8)), nil
		}
		return scene.Sint8x2(seq.data.([][2]int8)), nil
	case elemU8x2:
		if seq.normalized {
			return scene.Unorm8x2(seq.data.([][2]uint8)), nil
		}
		return scene.Uint8x2(seq.data.([][2]uint8)), nil
	case elemI8x4:
		if seq.normalized {
			return scene.Snorm8x4(seq.data.([][4]int8)), nil
		}
		return scene.Sint8x4(seq.data.([][4]int8)), nil
	case elemU8x4:
		if seq.normalized {
			return scene.Unorm8x4(seq.data.([][4]uint8)), nil
		}
		return scene.Uint8x4(seq.data.([][4]uint8)), nil
	}
	// Three-component integer formats exist only for the color path.
	return nil, errUnsupportedFormat
}

// intoRGBAValues widens color elements to four float channels, filling a
// missing alpha channel with 1. Formats outside the color table fall back
// to pass-through.
func intoRGBAValues(seq elementSeq) (scene.VertexValues, error) {
	switch {
	case seq.kind == elemU8x3 && seq.normalized:
		raw := seq.data.([][3]uint8)
		out := make(scene.Float32x4, len(raw))
		for i, v := range raw {
			out[i] = [4]float32{normU8(v[0]), normU8(v[1]), normU8(v[2]), 1}
		}
		return out, nil
	case seq.kind == elemU16x3 && seq.normalized:
		raw := seq.data.([][3]uint16)
		out := make(scene.Float32x4, len(raw))
		for i, v := range raw {
			out[i] = [4]float32{normU16(v[0]), normU16(v[1]), normU16(v[2]), 1}
		}
		return out, nil
	case seq.kind == elemF32x3:
		raw := seq.data.([][3]float32)
		out := make(scene.Float32x4, len(raw))
		for i, v := range raw {
			out[i] = [4]float32{v[0], v[1], v[2], 1}
		}
		return out, nil
	case seq.kind == elemU8x4 && seq.normalized:
		raw := seq.data.([][4]uint8)
		out := make(scene.Float32x4, len(raw))
		for i, v := range raw {
			out[i] = [4]float32{normU8(v[0]), normU8(v[1]), normU8(v[2]), normU8(v[3])}
		}
		return out, nil
	case seq.kind == elemU16x4 && seq.normalized:
		raw := seq.data.([][4]uint16)
		out := make(scene.Float32x4, len(raw))
		for i, v := range raw {
			out[i] = [4]float32{normU16(v[0]), normU16(v[1]), normU16(v[2]), normU16(v[3])}
		}
		return out, nil
	}
	return intoAnyValues(seq)
}

// intoTexCoordValues widens normalized integer texture coordinates to two
// float channels.
func intoTexCoordValues(seq elementSeq) (scene.VertexValues, error) {
	switch {
	case seq.kind == elemU8x2 && seq.normalized:
		raw := seq.data.([][2]uint8)
		out := make(scene.Float32x2, len(raw))
		for i, v := range raw {
			out[i] = [2]float32{normU8(v[0]), normU8(v[1])}
		}
		return out, nil
	case seq.kind == elemU16x2 && seq.normalized:
		raw := seq.data.([][2]uint16)
		out := make(scene.Float32x2, len(raw))
		for i, v := range raw {
			out[i] = [2]float32{normU16(v[0]), normU16(v[1])}
		}
		return out, nil
	}
	return intoAnyValues(seq)
}

// intoJointIndexValues widens non-normalized byte joint indices to 16-bit
// with the values kept verbatim.
func intoJointIndexValues(seq elementSeq) (scene.VertexValues, error) {
	if seq.kind == elemU8x4 && !seq.normalized {
		raw := seq.data.([][4]uint8)
		out := make(scene.Uint16x4, len(raw))
		for i, v := range raw {
			out[i] = [4]uint16{uint16(v[0]), uint16(v[1]), uint16(v[2]), uint16(v[3])}
		}
		return out, nil
	}
	return intoAnyValues(seq)
}

// readIndices decodes a primitive index accessor. Byte indices are widened
// to 16-bit.
func readIndices(doc *gltf.Document, acc *gltf.Accessor, buffers [][]byte) (scene.Indices, error) {
	if acc.Sparse != nil {
		return nil, errUnsupportedFormat
	}
	if acc.Type != gltf.AccessorScalar || acc.Normalized {
		return nil, errUnsupportedFormat
	}

	switch acc.ComponentType {
	case gltf.ComponentUbyte:
		d, err := newAccessorData(doc, acc, buffers, 1)
		if err != nil {
			return nil, err
		}
		out := make(scene.IndicesU16, d.count)
		for i := range out {
			out[i] = uint16(getU8(d.elem(i)))
		}
		return out, nil
	case gltf.ComponentUshort:
		d, err := newAccessorData(doc, acc, buffers, 2)
		if err != nil {
			return nil, err
		}
		return scene.IndicesU16(decodeScalar(d, getU16)), nil
	case gltf.ComponentUint:
		d, err := newAccessorData(doc, acc, buffers, 4)
		if err != nil {
			return nil, err
		}
		return scene.IndicesU32(decodeScalar(d, getU32)), nil
	}
	return nil, errUnsupportedFormat
}
