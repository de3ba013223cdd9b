package loader

import (
	"encoding/binary"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
)

// elementKind tags the raw element type produced by an accessor, one
// constructor per supported (component type, dimensionality) pair.
type elementKind uint8

const (
	elemF32 elementKind = iota
	elemU32
	elemF32x2
	elemU32x2
	elemF32x3
	elemU32x3
	elemF32x4
	elemU32x4
	elemI16x2
	elemU16x2
	elemI16x4
	elemU16x4
	elemI8x2
	elemU8x2
	elemI8x4
	elemU8x4
	// On-disk formats used only for RGB colors.
	elemU16x3
	elemU8x3
)

// elementSeq is a decoded element sequence plus the normalization
// side-channel. data holds the slice matching kind ([]float32, [][4]uint8,
// and so on).
type elementSeq struct {
	kind       elementKind
	normalized bool
	data       any
}

// accessorData is a validated strided window over a resolved buffer.
type accessorData struct {
	buf      []byte
	base     int
	stride   int
	count    int
	elemSize int
}

func (d accessorData) elem(i int) []byte {
	off := d.base + i*d.stride
	return d.buf[off : off+d.elemSize]
}

// newAccessorData bounds-checks the accessor against its buffer view and
// the backing buffer. Any inconsistency is malformed data.
func newAccessorData(doc *gltf.Document, acc *gltf.Accessor, buffers [][]byte, elemSize int) (accessorData, error) {
	if acc.BufferView == nil || int(*acc.BufferView) >= len(doc.BufferViews) {
		return accessorData{}, errMalformedData
	}
	view := doc.BufferViews[*acc.BufferView]
	if int(view.Buffer) >= len(buffers) {
		return accessorData{}, errMalformedData
	}
	buf := buffers[view.Buffer]

	stride := elemSize
	if view.ByteStride != 0 {
		stride = int(view.ByteStride)
	}
	if stride < elemSize {
		return accessorData{}, errMalformedData
	}

	d := accessorData{
		buf:      buf,
		base:     int(view.ByteOffset) + int(acc.ByteOffset),
		stride:   stride,
		count:    int(acc.Count),
		elemSize: elemSize,
	}

	if int(view.ByteOffset)+int(view.ByteLength) > len(buf) {
		return accessorData{}, errMalformedData
	}
	if d.count > 0 {
		lastInView := int(acc.ByteOffset) + (d.count-1)*stride + elemSize
		if lastInView > int(view.ByteLength) || d.base+(d.count-1)*stride+elemSize > len(buf) {
			return accessorData{}, errMalformedData
		}
	}
	return d, nil
}

func getF32(b []byte) float32 { return math.Float32frombits(binary.LittleEndian.Uint32(b)) }
func getU32(b []byte) uint32  { return binary.LittleEndian.Uint32(b) }
func getU16(b []byte) uint16  { return binary.LittleEndian.Uint16(b) }
func getI16(b []byte) int16   { return int16(binary.LittleEndian.Uint16(b)) }
func getU8(b []byte) uint8    { return b[0] }
func getI8(b []byte) int8     { return int8(b[0]) }

func decodeScalar[T any](d accessorData, get func([]byte) T) []T {
	out := make([]T, d.count)
	for i := range out {
		out[i] = get(d.elem(i))
	}
	return out
}

func decodeVec2[T any](d accessorData, compSize int, get func([]byte) T) [][2]T {
	out := make([][2]T, d.count)
	for i := range out {
		el := d.elem(i)
		out[i] = [2]T{get(el), get(el[compSize:])}
	}
	return out
}

func decodeVec3[T any](d accessorData, compSize int, get func([]byte) T) [][3]T {
	out := make([][3]T, d.count)
	for i := range out {
		el := d.elem(i)
		out[i] = [3]T{get(el), get(el[compSize:]), get(el[2*compSize:])}
	}
	return out
}

func decodeVec4[T any](d accessorData, compSize int, get func([]byte) T) [][4]T {
	out := make([][4]T, d.count)
	for i := range out {
		el := d.elem(i)
		out[i] = [4]T{get(el), get(el[compSize:]), get(el[2*compSize:]), get(el[3*compSize:])}
	}
	return out
}

type elementLayout struct {
	kind     elementKind
	compSize int
	comps    int
	// needsNorm: the format carries the normalization side-channel.
	// Formats without it (float32, uint32) reject normalized accessors.
	needsNorm bool
}

// Supported (component type, dimensionality) pairs. Everything else is an
// unsupported format.
var elementLayouts = map[gltf.ComponentType]map[gltf.AccessorType]elementLayout{
	gltf.ComponentFloat: {
		gltf.AccessorScalar: {elemF32, 4, 1, false},
		gltf.AccessorVec2:   {elemF32x2, 4, 2, false},
		gltf.AccessorVec3:   {elemF32x3, 4, 3, false},
		gltf.AccessorVec4:   {elemF32x4, 4, 4, false},
	},
	gltf.ComponentUint: {
		gltf.AccessorScalar: {elemU32, 4, 1, false},
		gltf.AccessorVec2:   {elemU32x2, 4, 2, false},
		gltf.AccessorVec3:   {elemU32x3, 4, 3, false},
		gltf.AccessorVec4:   {elemU32x4, 4, 4, false},
	},
	gltf.ComponentShort: {
		gltf.AccessorVec2: {elemI16x2, 2, 2, true},
		gltf.AccessorVec4: {elemI16x4, 2, 4, true},
	},
	gltf.ComponentUshort: {
		gltf.AccessorVec2: {elemU16x2, 2, 2, true},
		gltf.AccessorVec3: {elemU16x3, 2, 3, true},
		gltf.AccessorVec4: {elemU16x4, 2, 4, true},
	},
	gltf.ComponentByte: {
		gltf.AccessorVec2: {elemI8x2, 1, 2, true},
		gltf.AccessorVec4: {elemI8x4, 1, 4, true},
	},
	gltf.ComponentUbyte: {
		gltf.AccessorVec2: {elemU8x2, 1, 2, true},
		gltf.AccessorVec3: {elemU8x3, 1, 3, true},
		gltf.AccessorVec4: {elemU8x4, 1, 4, true},
	},
}

// elementsFromAccessor decodes a vertex attribute accessor into the raw
// element variant. Sparse accessors are rejected outright, never partially
// decoded.
func elementsFromAccessor(doc *gltf.Document, acc *gltf.Accessor, buffers [][]byte) (elementSeq, error) {
	if acc.Sparse != nil {
		return elementSeq{}, errUnsupportedFormat
	}

	layout, ok := elementLayouts[acc.ComponentType][acc.Type]
	if !ok {
		return elementSeq{}, errUnsupportedFormat
	}
	if acc.Normalized && !layout.needsNorm {
		return elementSeq{}, errUnsupportedFormat
	}

	d, err := newAccessorData(doc, acc, buffers, layout.compSize*layout.comps)
	if err != nil {
		return elementSeq{}, err
	}

	seq := elementSeq{kind: layout.kind, normalized: acc.Normalized}
	switch layout.kind {
	case elemF32:
		seq.data = decodeScalar(d, getF32)
	case elemU32:
		seq.data = decodeScalar(d, getU32)
	case elemF32x2:
		seq.data = decodeVec2(d, 4, getF32)
	case elemU32x2:
		seq.data = decodeVec2(d, 4, getU32)
	case elemF32x3:
		seq.data = decodeVec3(d, 4, getF32)
	case elemU32x3:
		seq.data = decodeVec3(d, 4, getU32)
	case elemF32x4:
		seq.data = decodeVec4(d, 4, getF32)
	case elemU32x4:
		seq.data = decodeVec4(d, 4, getU32)
	case elemI16x2:
		seq.data = decodeVec2(d, 2, getI16)
	case elemU16x2:
		seq.data = decodeVec2(d, 2, getU16)
	case elemI16x4:
		seq.data = decodeVec4(d, 2, getI16)
	case elemU16x4:
		seq.data = decodeVec4(d, 2, getU16)
	case elemI8x2:
		seq.data = decodeVec2(d, 1, getI8)
	case elemU8x2:
		seq.data = decodeVec2(d, 1, getU8)
	case elemI8x4:
		seq.data = decodeVec4(d, 1, getI8)
	case elemU8x4:
		seq.data = decodeVec4(d, 1, getU8)
	case elemU16x3:
		seq.data = decodeVec3(d, 2, getU16)
	case elemU8x3:
		seq.data = decodeVec3(d, 1, getU8)
	}
	return seq, nil
}

// Fixed-point to float conversions per the normalization rules.
func normU8(v uint8) float32   { return float32(v) / 255 }
func normU16(v uint16) float32 { return float32(v) / 65535 }

func normI8(v int8) float32 {
	if f := float32(v) / 127; f > -1 {
		return f
	}
	return -1
}

func normI16(v int16) float32 {
	if f := float32(v) / 32767; f > -1 {
		return f
	}
	return -1
}

// readTimestamps decodes an animation sampler input as raw float seconds.
func readTimestamps(doc *gltf.Document, acc *gltf.Accessor, buffers [][]byte) ([]float32, error) {
	if acc.Sparse != nil {
		return nil, errUnsupportedFormat
	}
	if acc.ComponentType != gltf.ComponentFloat || acc.Type != gltf.AccessorScalar || acc.Normalized {
		return nil, errUnsupportedFormat
	}
	d, err := newAccessorData(doc, acc, buffers, 4)
	if err != nil {
		return nil, err
	}
	return decodeScalar(d, getF32), nil
}

// readVec3s decodes translation/scale keyframe outputs.
func readVec3s(doc *gltf.Document, acc *gltf.Accessor, buffers [][]byte) ([]mgl32.Vec3, error) {
	if acc.Sparse != nil {
		return nil, errUnsupportedFormat
	}
	if acc.ComponentType != gltf.ComponentFloat || acc.Type != gltf.AccessorVec3 || acc.Normalized {
		return nil, errUnsupportedFormat
	}
	d, err := newAccessorData(doc, acc, buffers, 12)
	if err != nil {
		return nil, err
	}
	raw := decodeVec3(d, 4, getF32)
	out := make([]mgl32.Vec3, len(raw))
	for i, v := range raw {
		out[i] = mgl32.Vec3(v)
	}
	return out, nil
}

// readQuaternions decodes rotation keyframe outputs, widening normalized
// integer components to float32.
func readQuaternions(doc *gltf.Document, acc *gltf.Accessor, buffers [][]byte) ([]mgl32.Quat, error) {
	if acc.Sparse != nil || acc.Type != gltf.AccessorVec4 {
		return nil, errUnsupportedFormat
	}

	var raw [][4]float32
	switch acc.ComponentType {
	case gltf.ComponentFloat:
		if acc.Normalized {
			return nil, errUnsupportedFormat
		}
		d, err := newAccessorData(doc, acc, buffers, 16)
		if err != nil {
			return nil, err
		}
		raw = decodeVec4(d, 4, getF32)
	case gltf.ComponentByte:
		if !acc.Normalized {
			return nil, errUnsupportedFormat
		}
		d, err := newAccessorData(doc, acc, buffers, 4)
		if err != nil {
			return nil, err
		}
		raw = widenQuatComponents(decodeVec4(d, 1, getI8), normI8)
	case gltf.ComponentUbyte:
		if !acc.Normalized {
			return nil, errUnsupportedFormat
		}
		d, err := newAccessorData(doc, acc, buffers, 4)
		if err != nil {
			return nil, err
		}
		raw = widenQuatComponents(decodeVec4(d, 1, getU8), normU8)
	case gltf.ComponentShort:
		if !acc.Normalized {
			return nil, errUnsupportedFormat
		}
		d, err := newAccessorData(doc, acc, buffers, 8)
		if err != nil {
			return nil, err
		}
		raw = widenQuatComponents(decodeVec4(d, 2, getI16), normI16)
	case gltf.ComponentUshort:
		if !acc.Normalized {
			return nil, errUnsupportedFormat
		}
		d, err := newAccessorData(doc, acc, buffers, 8)
		if err != nil {
			return nil, err
		}
		raw = widenQuatComponents(decodeVec4(d, 2, getU16), normU16)
	default:
		return nil, errUnsupportedFormat
	}

	out := make([]mgl32.Quat, len(raw))
	for i, q := range raw {
		out[i] = mgl32.Quat{V: mgl32.Vec3{q[0], q[1], q[2]}, W: q[3]}
	}
	return out, nil
}

func widenQuatComponents[T any](raw [][4]T, norm func(T) float32) [][4]float32 {
	out := make([][4]float32, len(raw))
	for i, q := range raw {
		out[i] = [4]float32{norm(q[0]), norm(q[1]), norm(q[2]), norm(q[3])}
	}
	return out
}

// readMat4s decodes float32 4x4 matrices (inverse bind matrices). glTF
// matrices are column-major, matching mgl32.
func readMat4s(doc *gltf.Document, acc *gltf.Accessor, buffers [][]byte) ([]mgl32.Mat4, error) {
	if acc.Sparse != nil {
		return nil, errUnsupportedFormat
	}
	if acc.ComponentType != gltf.ComponentFloat || acc.Type != gltf.AccessorMat4 || acc.Normalized {
		return nil, errUnsupportedFormat
	}
	d, err := newAccessorData(doc, acc, buffers, 64)
	if err != nil {
		return nil, err
	}
	out := make([]mgl32.Mat4, d.count)
	for i := range out {
		el := d.elem(i)
		for c := 0; c < 16; c++ {
			out[i][c] = getF32(el[c*4:])
		}
	}
	return out, nil
}
