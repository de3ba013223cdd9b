package scene

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

func remapIndexed[T any](src []T, ind Indices) []T {
	out := make([]T, ind.IndexCount())
	for i := range out {
		out[i] = src[ind.At(i)]
	}
	return out
}

func remapValues(values VertexValues, ind Indices) VertexValues {
	switch v := values.(type) {
	case Float32:
		return Float32(remapIndexed(v, ind))
	case Uint32:
		return Uint32(remapIndexed(v, ind))
	case Float32x2:
		return Float32x2(remapIndexed(v, ind))
	case Uint32x2:
		return Uint32x2(remapIndexed(v, ind))
	case Float32x3:
		return Float32x3(remapIndexed(v, ind))
	case Uint32x3:
		return Uint32x3(remapIndexed(v, ind))
	case Float32x4:
		return Float32x4(remapIndexed(v, ind))
	case Uint32x4:
		return Uint32x4(remapIndexed(v, ind))
	case Sint16x2:
		return Sint16x2(remapIndexed(v, ind))
	case Snorm16x2:
		return Snorm16x2(remapIndexed(v, ind))
	case Uint16x2:
		return Uint16x2(remapIndexed(v, ind))
	case Unorm16x2:
		return Unorm16x2(remapIndexed(v, ind))
	case Sint16x4:
		return Sint16x4(remapIndexed(v, ind))
	case Snorm16x4:
		return Snorm16x4(remapIndexed(v, ind))
	case Uint16x4:
		return Uint16x4(remapIndexed(v, ind))
	case Unorm16x4:
		return Unorm16x4(remapIndexed(v, ind))
	case Sint8x2:
		return Sint8x2(remapIndexed(v, ind))
	case Snorm8x2:
		return Snorm8x2(remapIndexed(v, ind))
	case Uint8x2:
		return Uint8x2(remapIndexed(v, ind))
	case Unorm8x2:
		return Unorm8x2(remapIndexed(v, ind))
	case Sint8x4:
		return Sint8x4(remapIndexed(v, ind))
	case Snorm8x4:
		return Snorm8x4(remapIndexed(v, ind))
	case Uint8x4:
		return Uint8x4(remapIndexed(v, ind))
	case Unorm8x4:
		return Unorm8x4(remapIndexed(v, ind))
	}
	panic("remap of unknown vertex values type")
}

// DuplicateVertices unrolls the index buffer so every index owns an
// independent vertex. Lossy: the vertex count grows to the index count.
// No-op for non-indexed primitives.
func (p *Primitive) DuplicateVertices() {
	if p.Indices == nil {
		return
	}
	for name, values := range p.Attributes {
		p.Attributes[name] = remapValues(values, p.Indices)
	}
	p.Indices = nil
}

// ComputeFlatNormals fills the normal attribute with per-face normals.
// Requires a non-indexed triangle list with float32x3 positions; call
// DuplicateVertices first on indexed geometry.
func (p *Primitive) ComputeFlatNormals() error {
	if p.Topology != TriangleList {
		return errors.Errorf("Cannot compute flat normals for topology %v", p.Topology)
	}
	if p.Indices != nil {
		return errors.New("Cannot compute flat normals for indexed geometry")
	}
	positions, ok := p.Attribute(AttributePosition).(Float32x3)
	if !ok {
		return errors.New("Cannot compute flat normals without float32x3 positions")
	}

	normals := make(Float32x3, len(positions))
	for tri := 0; tri+2 < len(positions); tri += 3 {
		a := mgl32.Vec3(positions[tri])
		b := mgl32.Vec3(positions[tri+1])
		c := mgl32.Vec3(positions[tri+2])
		n := b.Sub(a).Cross(c.Sub(a))
		if n.Len() > 0 {
			n = n.Normalize()
		}
		normals[tri] = n
		normals[tri+1] = n
		normals[tri+2] = n
	}
	p.InsertAttribute(AttributeNormal, normals)
	return nil
}

// GenerateTangents computes per-vertex tangents (xyz plus handedness in w)
// from positions, normals and texture coordinates using the deterministic
// per-triangle accumulation scheme. Works on indexed and non-indexed
// triangle lists.
func (p *Primitive) GenerateTangents() error {
	if p.Topology != TriangleList {
		return errors.Errorf("Cannot generate tangents for topology %v", p.Topology)
	}
	positions, ok := p.Attribute(AttributePosition).(Float32x3)
	if !ok {
		return errors.New("Cannot generate tangents without float32x3 positions")
	}
	normals, ok := p.Attribute(AttributeNormal).(Float32x3)
	if !ok || len(normals) != len(positions) {
		return errors.New("Cannot generate tangents without matching float32x3 normals")
	}
	uvs, ok := p.Attribute(AttributeTexCoord0).(Float32x2)
	if !ok || len(uvs) != len(positions) {
		return errors.New("Cannot generate tangents without matching float32x2 texture coordinates")
	}
	if len(positions) == 0 {
		return errors.New("Cannot generate tangents for empty geometry")
	}

	indexAt := func(i int) int { return i }
	indexCount := len(positions)
	if p.Indices != nil {
		indexAt = func(i int) int { return int(p.Indices.At(i)) }
		indexCount = p.Indices.IndexCount()
	}

	tan1 := make([]mgl32.Vec3, len(positions))
	tan2 := make([]mgl32.Vec3, len(positions))
	for tri := 0; tri+2 < indexCount; tri += 3 {
		i0, i1, i2 := indexAt(tri), indexAt(tri+1), indexAt(tri+2)
		if i0 >= len(positions) || i1 >= len(positions) || i2 >= len(positions) {
			return errors.Errorf("Index out of range in triangle %d", tri/3)
		}

		p0 := mgl32.Vec3(positions[i0])
		e1 := mgl32.Vec3(positions[i1]).Sub(p0)
		e2 := mgl32.Vec3(positions[i2]).Sub(p0)

		du1 := uvs[i1][0] - uvs[i0][0]
		dv1 := uvs[i1][1] - uvs[i0][1]
		du2 := uvs[i2][0] - uvs[i0][0]
		dv2 := uvs[i2][1] - uvs[i0][1]

		det := du1*dv2 - du2*dv1
		if det == 0 {
			continue
		}
		r := 1.0 / det

		sdir := e1.Mul(dv2).Sub(e2.Mul(dv1)).Mul(r)
		tdir := e2.Mul(du1).Sub(e1.Mul(du2)).Mul(r)

		for _, i := range [3]int{i0, i1, i2} {
			tan1[i] = tan1[i].Add(sdir)
			tan2[i] = tan2[i].Add(tdir)
		}
	}

	tangents := make(Float32x4, len(positions))
	for i := range tangents {
		n := mgl32.Vec3(normals[i])
		t := tan1[i]

		// Gram-Schmidt orthogonalize against the normal.
		t = t.Sub(n.Mul(n.Dot(t)))
		if t.Len() == 0 {
			t = mgl32.Vec3{1, 0, 0}
		} else {
			t = t.Normalize()
		}

		w := float32(1)
		if n.Cross(t).Dot(tan2[i]) < 0 {
			w = -1
		}
		tangents[i] = [4]float32{t.X(), t.Y(), t.Z(), w}
	}
	p.InsertAttribute(AttributeTangent, tangents)
	return nil
}
