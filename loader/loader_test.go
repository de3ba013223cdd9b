package loader

import (
	"encoding/base64"
	"fmt"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"

	"github.com/mogaika/gltfscene/registry"
	"github.com/mogaika/gltfscene/scene"
)

func triangleDocJSON(t *testing.T, primitiveExtra string) []byte {
	t.Helper()
	positions := encodeFloats([]float32{0, 0, 0, 1, 0, 0, 0, 1, 0})
	b64 := base64.StdEncoding.EncodeToString(positions)
	return []byte(fmt.Sprintf(`{
		"asset": {"version": "2.0"},
		"buffers": [{"byteLength": %d, "uri": "data:application/octet-stream;base64,%s"}],
		"bufferViews": [{"buffer": 0, "byteOffset": 0, "byteLength": %d}],
		"accessors": [{"bufferView": 0, "componentType": 5126, "count": 3, "type": "VEC3"}],
		"meshes": [{"name": "Triangle", "primitives": [{"attributes": {"POSITION": 0}%s}]}],
		"nodes": [{"name": "RootNode", "mesh": 0}],
		"scenes": [{"name": "Main", "nodes": [0]}],
		"scene": 0
	}`, len(positions), b64, len(positions), primitiveExtra))
}

func TestLoadTriangleDocument(t *testing.T) {
	result, err := Load(triangleDocJSON(t, ""), "triangle.gltf", Options{})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	doc := result.Document

	if len(doc.Scenes) != 1 || len(doc.Meshes) != 1 || len(doc.Nodes) != 1 {
		t.Fatalf("Unexpected document shape: %d scenes, %d meshes, %d nodes",
			len(doc.Scenes), len(doc.Meshes), len(doc.Nodes))
	}
	if !doc.DefaultScene.Exists() || doc.DefaultScene.Label() != sceneLabel(0) {
		t.Errorf("Default scene should point at scene 0, got %q", doc.DefaultScene.Label())
	}
	if _, ok := doc.NamedScenes["Main"]; !ok {
		t.Error("Named scene lookup missing")
	}

	mesh, ok := registry.Resolve[*scene.Mesh](doc.NamedMeshes["Triangle"])
	if !ok {
		t.Fatal("Named mesh did not resolve")
	}
	prim := mesh.Primitives[0]
	if prim.Topology != scene.TriangleList {
		t.Errorf("Default primitive mode should be a triangle list, got %v", prim.Topology)
	}
	if !prim.HasAttribute(scene.AttributePosition) {
		t.Fatal("Positions missing")
	}
	if !prim.HasAttribute(scene.AttributeNormal) {
		t.Error("Missing normals should be generated for triangle lists")
	}
	if prim.VertexCount() != 3 {
		t.Errorf("Expected 3 vertices, got %d", prim.VertexCount())
	}

	if prim.Material.Label() != "MaterialDefault" {
		t.Errorf("Primitive without material should use the default, got %q", prim.Material.Label())
	}
	if _, ok := registry.Resolve[*scene.Material](prim.Material); !ok {
		t.Error("Default material should be registered")
	}

	node, ok := registry.Resolve[*scene.Node](doc.NamedNodes["RootNode"])
	if !ok {
		t.Fatal("Named node did not resolve")
	}
	if node.Mesh.Label() != meshLabel(0) {
		t.Errorf("Node mesh reference mismatch: %q", node.Mesh.Label())
	}

	sc, ok := registry.Resolve[*scene.Scene](doc.Scenes[0])
	if !ok {
		t.Fatal("Scene did not resolve")
	}
	if len(sc.RootNodes) != 1 || sc.RootNodes[0].Label() != nodeLabel(0) {
		t.Errorf("Scene roots mismatch: %+v", sc.RootNodes)
	}
}

func TestLoadRejectsUnsupportedPrimitiveMode(t *testing.T) {
	// Mode 6 is a triangle fan.
	_, err := Load(triangleDocJSON(t, `, "mode": 6`), "fan.gltf", Options{})
	if _, ok := err.(*UnsupportedPrimitiveError); !ok {
		t.Fatalf("Expected unsupported primitive error, got %v", err)
	}
}

func TestLoadRejectsMalformedDocument(t *testing.T) {
	if _, err := Load([]byte("not a gltf"), "junk.gltf", Options{}); err == nil {
		t.Error("Expected parse failure")
	}
}

func TestNodeTransformTRS(t *testing.T) {
	tr := nodeTransform(&gltf.Node{Translation: [3]float32{1, 2, 3}})
	if tr.Translation != (mgl32.Vec3{1, 2, 3}) {
		t.Errorf("Translation mismatch: %v", tr.Translation)
	}
	if tr.Rotation != mgl32.QuatIdent() {
		t.Errorf("Zero rotation should decode as identity: %v", tr.Rotation)
	}
	if tr.Scale != (mgl32.Vec3{1, 1, 1}) {
		t.Errorf("Zero scale should decode as unit: %v", tr.Scale)
	}
}

func TestNodeTransformMatrix(t *testing.T) {
	tr := nodeTransform(&gltf.Node{Matrix: [16]float32{
		2, 0, 0, 0,
		0, 2, 0, 0,
		0, 0, 2, 0,
		5, 6, 7, 1,
	}})
	if tr.Translation != (mgl32.Vec3{5, 6, 7}) {
		t.Errorf("Matrix translation mismatch: %v", tr.Translation)
	}
	if tr.Scale != (mgl32.Vec3{2, 2, 2}) {
		t.Errorf("Matrix scale mismatch: %v", tr.Scale)
	}
}

func TestPrimitiveTopologyTable(t *testing.T) {
	cases := []struct {
		mode     gltf.PrimitiveMode
		expected scene.Topology
	}{
		{gltf.PrimitivePoints, scene.PointList},
		{gltf.PrimitiveLines, scene.LineList},
		{gltf.PrimitiveLineStrip, scene.LineStrip},
		{gltf.PrimitiveTriangles, scene.TriangleList},
		{gltf.PrimitiveTriangleStrip, scene.TriangleStrip},
	}
	for _, c := range cases {
		topology, err := primitiveTopology(c.mode)
		if err != nil {
			t.Errorf("Mode %v should be supported: %v", c.mode, err)
			continue
		}
		if topology != c.expected {
			t.Errorf("Mode %v mapped to %v, expected %v", c.mode, topology, c.expected)
		}
	}

	for _, mode := range []gltf.PrimitiveMode{gltf.PrimitiveLineLoop, gltf.PrimitiveTriangleFan} {
		if _, err := primitiveTopology(mode); err == nil {
			t.Errorf("Mode %v should be unsupported", mode)
		}
	}
}

func TestMaterialLabels(t *testing.T) {
	if materialLabel(nil) != "MaterialDefault" {
		t.Errorf("Nil material should label the default material")
	}
	if materialLabel(idx(3)) != "Material3" {
		t.Errorf("Material label mismatch: %q", materialLabel(idx(3)))
	}
	if primitiveLabel(2, 1) != "Mesh2/Primitive1" {
		t.Errorf("Primitive label mismatch: %q", primitiveLabel(2, 1))
	}
}
