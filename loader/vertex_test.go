package loader

import (
	"testing"

	"github.com/qmuntal/gltf"

	"github.com/mogaika/gltfscene/scene"
)

func TestConvertColorUnorm8ToFloat(t *testing.T) {
	// Three RGB colors, one byte per channel.
	data := []byte{
		0, 127, 255,
		255, 0, 0,
		51, 102, 153,
	}
	doc, buffers := docWithAccessor(data, &gltf.Accessor{
		ComponentType: gltf.ComponentUbyte,
		Type:          gltf.AccessorVec3,
		Count:         3,
		Normalized:    true,
	}, 0)

	attr, values, err := convertAttribute(doc, "COLOR_0", doc.Accessors[0], buffers, nil)
	if err != nil {
		t.Fatalf("Convert failed: %v", err)
	}
	if attr != scene.AttributeColor {
		t.Fatalf("Wrong target attribute: %v", attr)
	}

	colors, ok := values.(scene.Float32x4)
	if !ok {
		t.Fatalf("Expected Float32x4 colors, got %s", values.Format())
	}
	if len(colors) != 3 {
		t.Fatalf("Expected 3 colors, got %d", len(colors))
	}

	const eps = 1e-6
	approx := func(a, b float32) bool {
		d := a - b
		return d < eps && d > -eps
	}
	if !approx(colors[0][0], 0) || !approx(colors[0][1], 127.0/255) || !approx(colors[0][2], 1) {
		t.Errorf("Channel scaling mismatch: %v", colors[0])
	}
	for i, c := range colors {
		if c[3] != 1 {
			t.Errorf("Color %d alpha should be filled with 1, got %v", i, c[3])
		}
	}
}

func TestConvertJointIndicesWidened(t *testing.T) {
	data := []byte{0, 1, 2, 3, 250, 251, 252, 253}
	doc, buffers := docWithAccessor(data, &gltf.Accessor{
		ComponentType: gltf.ComponentUbyte,
		Type:          gltf.AccessorVec4,
		Count:         2,
	}, 0)

	attr, values, err := convertAttribute(doc, "JOINTS_0", doc.Accessors[0], buffers, nil)
	if err != nil {
		t.Fatalf("Convert failed: %v", err)
	}
	if attr != scene.AttributeJointIndex {
		t.Fatalf("Wrong target attribute: %v", attr)
	}

	joints, ok := values.(scene.Uint16x4)
	if !ok {
		t.Fatalf("Expected Uint16x4 joints, got %s", values.Format())
	}
	expected := []([4]uint16){{0, 1, 2, 3}, {250, 251, 252, 253}}
	for i := range expected {
		if joints[i] != expected[i] {
			t.Errorf("Joint %d values must be kept verbatim: got %v, expected %v", i, joints[i], expected[i])
		}
	}
}

func TestConvertTexCoordUnorm16Widened(t *testing.T) {
	data := []byte{
		0x00, 0x00, 0xff, 0xff,
		0xff, 0x7f, 0x00, 0x00,
	}
	doc, buffers := docWithAccessor(data, &gltf.Accessor{
		ComponentType: gltf.ComponentUshort,
		Type:          gltf.AccessorVec2,
		Count:         2,
		Normalized:    true,
	}, 0)

	_, values, err := convertAttribute(doc, "TEXCOORD_0", doc.Accessors[0], buffers, nil)
	if err != nil {
		t.Fatalf("Convert failed: %v", err)
	}
	uvs, ok := values.(scene.Float32x2)
	if !ok {
		t.Fatalf("Expected Float32x2 uvs, got %s", values.Format())
	}
	if uvs[0][0] != 0 || uvs[0][1] != 1 {
		t.Errorf("UV widening mismatch: %v", uvs[0])
	}
}

func TestConvertFormatMismatch(t *testing.T) {
	// Positions require three components, feed two.
	data := encodeFloats([]float32{1, 2})
	doc, buffers := docWithAccessor(data, &gltf.Accessor{
		ComponentType: gltf.ComponentFloat,
		Type:          gltf.AccessorVec2,
		Count:         1,
	}, 0)

	if _, _, err := convertAttribute(doc, "POSITION", doc.Accessors[0], buffers, nil); err == nil {
		t.Error("Expected format mismatch error for vec2 positions")
	}
}

func TestConvertUnknownSemantic(t *testing.T) {
	data := encodeFloats([]float32{1})
	doc, buffers := docWithAccessor(data, &gltf.Accessor{
		ComponentType: gltf.ComponentFloat,
		Type:          gltf.AccessorScalar,
		Count:         1,
	}, 0)

	if _, _, err := convertAttribute(doc, "_UNKNOWN_THING", doc.Accessors[0], buffers, nil); err == nil {
		t.Error("Expected error for unrecognized semantic")
	}
}

func TestConvertCustomSemantic(t *testing.T) {
	data := encodeFloats([]float32{7})
	doc, buffers := docWithAccessor(data, &gltf.Accessor{
		ComponentType: gltf.ComponentFloat,
		Type:          gltf.AccessorScalar,
		Count:         1,
	}, 0)

	custom := map[string]scene.Attribute{
		"_HEAT": {Name: "Vertex_Heat", Format: scene.FormatFloat32},
	}
	attr, values, err := convertAttribute(doc, "_HEAT", doc.Accessors[0], buffers, custom)
	if err != nil {
		t.Fatalf("Convert failed: %v", err)
	}
	if attr.Name != "Vertex_Heat" {
		t.Errorf("Wrong target attribute: %v", attr)
	}
	if heat := values.(scene.Float32); heat[0] != 7 {
		t.Errorf("Custom attribute value mismatch: %v", heat)
	}
}

func TestReadIndicesWidening(t *testing.T) {
	data := []byte{0, 1, 200}
	doc, buffers := docWithAccessor(data, &gltf.Accessor{
		ComponentType: gltf.ComponentUbyte,
		Type:          gltf.AccessorScalar,
		Count:         3,
	}, 0)

	indices, err := readIndices(doc, doc.Accessors[0], buffers)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if _, ok := indices.(scene.IndicesU16); !ok {
		t.Fatalf("Byte indices should be widened to 16 bit")
	}
	if indices.IndexCount() != 3 || indices.At(2) != 200 {
		t.Errorf("Index decode mismatch: count=%d last=%d", indices.IndexCount(), indices.At(2))
	}
}
