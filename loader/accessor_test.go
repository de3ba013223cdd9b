package loader

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/qmuntal/gltf"
)

func idx(i uint32) *uint32 { return &i }

// docWithAccessor wraps a single accessor over a single buffer view.
func docWithAccessor(data []byte, acc *gltf.Accessor, byteStride uint32) (*gltf.Document, [][]byte) {
	acc.BufferView = idx(0)
	doc := &gltf.Document{
		BufferViews: []*gltf.BufferView{{
			Buffer:     0,
			ByteOffset: 0,
			ByteLength: uint32(len(data)),
			ByteStride: byteStride,
		}},
		Accessors: []*gltf.Accessor{acc},
	}
	return doc, [][]byte{data}
}

func encodeFloats(values []float32) []byte {
	out := make([]byte, 4*len(values))
	for i, v := range values {
		binary.LittleEndian.PutUint32(out[i*4:], math.Float32bits(v))
	}
	return out
}

func TestAccessorFloat32x3RoundTrip(t *testing.T) {
	src := [][3]float32{
		{1, 2, 3},
		{-0.5, 0.25, 1e-20},
		{float32(math.Inf(1)), 0, -0},
	}
	flat := make([]float32, 0, len(src)*3)
	for _, v := range src {
		flat = append(flat, v[0], v[1], v[2])
	}

	doc, buffers := docWithAccessor(encodeFloats(flat), &gltf.Accessor{
		ComponentType: gltf.ComponentFloat,
		Type:          gltf.AccessorVec3,
		Count:         uint32(len(src)),
	}, 0)

	seq, err := elementsFromAccessor(doc, doc.Accessors[0], buffers)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if seq.kind != elemF32x3 || seq.normalized {
		t.Fatalf("Wrong element variant: %v normalized=%v", seq.kind, seq.normalized)
	}

	decoded := seq.data.([][3]float32)
	if len(decoded) != len(src) {
		t.Fatalf("Expected %d elements, got %d", len(src), len(decoded))
	}
	for i := range src {
		for c := 0; c < 3; c++ {
			if math.Float32bits(decoded[i][c]) != math.Float32bits(src[i][c]) {
				t.Errorf("Element %d component %d not bit-identical: %x != %x",
					i, c, math.Float32bits(decoded[i][c]), math.Float32bits(src[i][c]))
			}
		}
	}
}

func TestAccessorStride(t *testing.T) {
	// Two float scalars padded to 8-byte stride.
	data := make([]byte, 12)
	binary.LittleEndian.PutUint32(data[0:], math.Float32bits(1.5))
	binary.LittleEndian.PutUint32(data[8:], math.Float32bits(-2.5))

	doc, buffers := docWithAccessor(data, &gltf.Accessor{
		ComponentType: gltf.ComponentFloat,
		Type:          gltf.AccessorScalar,
		Count:         2,
	}, 8)

	seq, err := elementsFromAccessor(doc, doc.Accessors[0], buffers)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	decoded := seq.data.([]float32)
	if decoded[0] != 1.5 || decoded[1] != -2.5 {
		t.Errorf("Strided decode mismatch: %v", decoded)
	}
}

func TestAccessorSparseRejected(t *testing.T) {
	doc, buffers := docWithAccessor(encodeFloats([]float32{1, 2, 3}), &gltf.Accessor{
		ComponentType: gltf.ComponentFloat,
		Type:          gltf.AccessorVec3,
		Count:         1,
		Sparse:        &gltf.Sparse{},
	}, 0)

	if _, err := elementsFromAccessor(doc, doc.Accessors[0], buffers); err != errUnsupportedFormat {
		t.Errorf("Sparse accessor should be rejected as unsupported, got %v", err)
	}
	if _, err := readTimestamps(doc, doc.Accessors[0], buffers); err != errUnsupportedFormat {
		t.Errorf("Sparse timestamps should be rejected as unsupported, got %v", err)
	}
}

func TestAccessorMalformed(t *testing.T) {
	cases := []struct {
		name string
		acc  *gltf.Accessor
		data []byte
	}{
		{
			name: "CountPastView",
			acc: &gltf.Accessor{
				ComponentType: gltf.ComponentFloat,
				Type:          gltf.AccessorVec3,
				Count:         2,
			},
			data: encodeFloats([]float32{1, 2, 3}),
		},
		{
			name: "OffsetPastView",
			acc: &gltf.Accessor{
				ComponentType: gltf.ComponentFloat,
				Type:          gltf.AccessorScalar,
				Count:         1,
				ByteOffset:    64,
			},
			data: encodeFloats([]float32{1}),
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			doc, buffers := docWithAccessor(c.data, c.acc, 0)
			if _, err := elementsFromAccessor(doc, doc.Accessors[0], buffers); err != errMalformedData {
				t.Errorf("Expected malformed data, got %v", err)
			}
		})
	}
}

func TestAccessorMissingBufferView(t *testing.T) {
	doc := &gltf.Document{
		Accessors: []*gltf.Accessor{{
			ComponentType: gltf.ComponentFloat,
			Type:          gltf.AccessorScalar,
			Count:         1,
		}},
	}
	if _, err := elementsFromAccessor(doc, doc.Accessors[0], nil); err != errMalformedData {
		t.Errorf("Expected malformed data for missing buffer view, got %v", err)
	}
}

func TestAccessorNormalizedFloatRejected(t *testing.T) {
	doc, buffers := docWithAccessor(encodeFloats([]float32{1, 2, 3}), &gltf.Accessor{
		ComponentType: gltf.ComponentFloat,
		Type:          gltf.AccessorVec3,
		Count:         1,
		Normalized:    true,
	}, 0)

	if _, err := elementsFromAccessor(doc, doc.Accessors[0], buffers); err != errUnsupportedFormat {
		t.Errorf("Normalized float accessor should be unsupported, got %v", err)
	}
}

func TestReadQuaternionsWidening(t *testing.T) {
	data := []byte{0, 127, 0x81, 255} // 0, max, min, unsigned interpreted per component type
	doc, buffers := docWithAccessor(data, &gltf.Accessor{
		ComponentType: gltf.ComponentByte,
		Type:          gltf.AccessorVec4,
		Count:         1,
		Normalized:    true,
	}, 0)

	quats, err := readQuaternions(doc, doc.Accessors[0], buffers)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	q := quats[0]
	if q.V[0] != 0 || q.V[1] != 1 || q.V[2] != -1 || q.W != normI8(-1) {
		t.Errorf("Quaternion widening mismatch: %v", q)
	}
}

func TestReadMat4s(t *testing.T) {
	flat := make([]float32, 16)
	for i := range flat {
		flat[i] = float32(i)
	}
	doc, buffers := docWithAccessor(encodeFloats(flat), &gltf.Accessor{
		ComponentType: gltf.ComponentFloat,
		Type:          gltf.AccessorMat4,
		Count:         1,
	}, 0)

	mats, err := readMat4s(doc, doc.Accessors[0], buffers)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	for i := 0; i < 16; i++ {
		if mats[0][i] != float32(i) {
			t.Fatalf("Matrix element %d mismatch: %v", i, mats[0][i])
		}
	}
}
