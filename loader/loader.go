package loader

import (
	"bytes"
	"encoding/json"
	"log"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/ext/lightspuntual"

	"github.com/mogaika/gltfscene/config"
	"github.com/mogaika/gltfscene/registry"
	"github.com/mogaika/gltfscene/scene"
)

// ReadBytesFunc reads the raw bytes of an external resource referenced by
// the document, typically os.ReadFile or a virtual-filesystem lookup.
type ReadBytesFunc func(path string) ([]byte, error)

// Options tune a single Load call. The zero value works for self-contained
// documents.
type Options struct {
	// ReadBytes resolves external buffer and image URIs. Loads of
	// documents without external references never call it.
	ReadBytes ReadBytesFunc

	// VertexAttributes maps non-standard attribute semantics to target
	// slots. Defaults to the process-wide registrations.
	VertexAttributes map[string]scene.Attribute

	// Registry receives the decoded sub-assets. A fresh one is created
	// when nil.
	Registry *registry.Registry

	// DisableTextureFanOut forces serial texture decoding, where any
	// texture failure aborts the load.
	DisableTextureFanOut bool
}

// Result pairs the assembled document with the registry holding every
// decoded sub-asset.
type Result struct {
	Document *scene.Document
	Registry *registry.Registry
}

var identityMatrix = [16]float32{
	1, 0, 0, 0,
	0, 1, 0, 0,
	0, 0, 1, 0,
	0, 0, 0, 1,
}

// Load decodes a glTF or GLB document and resolves it into a normalized
// scene graph. docPath locates external resources and names the document
// in diagnostics.
func Load(data []byte, docPath string, opts Options) (*Result, error) {
	doc := new(gltf.Document)
	if err := gltf.NewDecoder(bytes.NewReader(data)).Decode(doc); err != nil {
		return nil, errors.Wrapf(err, "Failed to parse gltf document %s", docPath)
	}

	reg := opts.Registry
	if reg == nil {
		reg = registry.New()
	}
	customAttrs := opts.VertexAttributes
	if customAttrs == nil {
		customAttrs = config.CustomVertexAttributes()
	}

	buffers, err := resolveBuffers(doc, docPath, opts.ReadBytes)
	if err != nil {
		return nil, err
	}
	// Embedded images read their bytes back through the buffer views.
	for i := range doc.Buffers {
		doc.Buffers[i].Data = buffers[i]
	}

	linear := linearTextureIndices(doc)

	out := &scene.Document{
		NamedScenes:     make(map[string]registry.Handle),
		NamedMeshes:     make(map[string]registry.Handle),
		NamedMaterials:  make(map[string]registry.Handle),
		NamedNodes:      make(map[string]registry.Handle),
		NamedAnimations: make(map[string]registry.Handle),
	}

	for i, mat := range doc.Materials {
		idx := uint32(i)
		handle := reg.Set(materialLabel(&idx), loadMaterial(mat, reg))
		out.Materials = append(out.Materials, handle)
		if mat.Name != "" {
			out.NamedMaterials[mat.Name] = handle
		}
	}

	paths := nodePaths(doc)

	animations, animatedRoots, err := loadAnimations(doc, buffers, paths, reg)
	if err != nil {
		return nil, err
	}
	out.Animations = animations
	for i, anim := range doc.Animations {
		if anim.Name != "" {
			out.NamedAnimations[anim.Name] = animations[i]
		}
	}

	if err := loadMeshes(doc, buffers, customAttrs, reg, out); err != nil {
		return nil, err
	}

	if err := loadNodes(doc, docPath, reg, out); err != nil {
		return nil, err
	}

	if len(doc.Textures) == 1 || opts.DisableTextureFanOut {
		if err := loadTexturesSerial(doc, docPath, linear, opts.ReadBytes, reg); err != nil {
			return nil, err
		}
	} else if len(doc.Textures) > 1 {
		loadTexturesConcurrent(doc, docPath, linear, opts.ReadBytes, reg)
	}

	skins, err := loadSkins(doc, buffers, reg)
	if err != nil {
		return nil, err
	}
	out.Skins = skins

	loadScenes(doc, animatedRoots, reg, out)

	if doc.Scene != nil && int(*doc.Scene) < len(doc.Scenes) {
		out.DefaultScene = reg.Handle(sceneLabel(int(*doc.Scene)))
	}
	return &Result{Document: out, Registry: reg}, nil
}

func primitiveTopology(mode gltf.PrimitiveMode) (scene.Topology, error) {
	switch mode {
	case gltf.PrimitivePoints:
		return scene.PointList, nil
	case gltf.PrimitiveLines:
		return scene.LineList, nil
	case gltf.PrimitiveLineStrip:
		return scene.LineStrip, nil
	case gltf.PrimitiveTriangles:
		return scene.TriangleList, nil
	case gltf.PrimitiveTriangleStrip:
		return scene.TriangleStrip, nil
	}
	return 0, &UnsupportedPrimitiveError{Mode: mode}
}

func loadMeshes(doc *gltf.Document, buffers [][]byte, customAttrs map[string]scene.Attribute, reg *registry.Registry, out *scene.Document) error {
	for mi, mesh := range doc.Meshes {
		primitives := make([]*scene.Primitive, 0, len(mesh.Primitives))

		for pi, prim := range mesh.Primitives {
			topology, err := primitiveTopology(prim.Mode)
			if err != nil {
				return err
			}
			p := scene.NewPrimitive(topology)

			for semantic, accIndex := range prim.Attributes {
				if int(accIndex) >= len(doc.Accessors) {
					log.Printf("Mesh %d primitive %d: attribute %q references a missing accessor", mi, pi, semantic)
					continue
				}
				attr, values, err := convertAttribute(doc, semantic, doc.Accessors[accIndex], buffers, customAttrs)
				if err != nil {
					log.Printf("Mesh %d primitive %d: %v", mi, pi, err)
					continue
				}
				p.InsertAttribute(attr, values)
			}

			if prim.Indices != nil && int(*prim.Indices) < len(doc.Accessors) {
				indices, err := readIndices(doc, doc.Accessors[*prim.Indices], buffers)
				if err != nil {
					log.Printf("Mesh %d primitive %d: failed to read indices: %v", mi, pi, err)
				} else {
					p.Indices = indices
				}
			}

			matLabel := materialLabel(prim.Material)
			if prim.Material == nil && !reg.Has(matLabel) {
				reg.Set(matLabel, defaultMaterial())
			}
			p.Material = reg.Handle(matLabel)

			if topology == scene.TriangleList &&
				!p.HasAttribute(scene.AttributeNormal) &&
				p.HasAttribute(scene.AttributePosition) {
				log.Printf("Automatically calculating missing vertex normals for geometry %s", primitiveLabel(mi, pi))
				if p.Indices != nil {
					p.DuplicateVertices()
				}
				if err := p.ComputeFlatNormals(); err != nil {
					log.Printf("Failed to calculate normals for %s: %v", primitiveLabel(mi, pi), err)
				}
			}

			if materialNeedsTangents(doc, prim.Material) &&
				p.HasAttribute(scene.AttributeNormal) &&
				!p.HasAttribute(scene.AttributeTangent) {
				log.Printf("Missing vertex tangents for %s, computing them", primitiveLabel(mi, pi))
				if err := p.GenerateTangents(); err != nil {
					log.Printf("Failed to generate vertex tangents for %s: %v", primitiveLabel(mi, pi), err)
				}
			}

			reg.Set(primitiveLabel(mi, pi), p)
			primitives = append(primitives, p)
		}

		handle := reg.Set(meshLabel(mi), &scene.Mesh{Name: mesh.Name, Primitives: primitives})
		out.Meshes = append(out.Meshes, handle)
		if mesh.Name != "" {
			out.NamedMeshes[mesh.Name] = handle
		}
	}
	return nil
}

func materialNeedsTangents(doc *gltf.Document, material *uint32) bool {
	if material == nil || int(*material) >= len(doc.Materials) {
		return false
	}
	normal := doc.Materials[*material].NormalTexture
	return normal != nil && normal.Index != nil
}

func nodeTransform(node *gltf.Node) scene.Transform {
	if node.Matrix != identityMatrix && node.Matrix != ([16]float32{}) {
		return scene.TransformFromMatrix(mgl32.Mat4(node.Matrix))
	}
	t := scene.TransformIdentity()
	t.Translation = mgl32.Vec3(node.Translation)
	t.Rotation = mgl32.Quat{
		V: mgl32.Vec3{node.Rotation[0], node.Rotation[1], node.Rotation[2]},
		W: node.Rotation[3],
	}
	if node.Rotation == ([4]float32{}) {
		t.Rotation = mgl32.QuatIdent()
	}
	if node.Scale != ([3]float32{}) {
		t.Scale = mgl32.Vec3(node.Scale)
	}
	return t
}

func loadNodes(doc *gltf.Document, docPath string, reg *registry.Registry, out *scene.Document) error {
	var lights lightspuntual.Lights
	if ext, ok := doc.Extensions[lightspuntual.ExtensionName]; ok {
		lights, _ = ext.(lightspuntual.Lights)
	}

	intermediate := make([]labeledNode, len(doc.Nodes))
	for i, node := range doc.Nodes {
		n := &scene.Node{
			Name:      gltfNodeName(node, i),
			Transform: nodeTransform(node),
		}
		if node.Mesh != nil {
			n.Mesh = reg.Handle(meshLabel(int(*node.Mesh)))
		}
		if node.Skin != nil {
			n.Skin = reg.Handle(skinLabel(int(*node.Skin)))
		}
		if node.Camera != nil && int(*node.Camera) < len(doc.Cameras) {
			n.Camera = loadCamera(doc.Cameras[*node.Camera])
		}
		if ext, ok := node.Extensions[lightspuntual.ExtensionName]; ok {
			if lightIndex, ok := ext.(lightspuntual.LightIndex); ok && int(lightIndex) < len(lights) {
				n.Light = loadLight(lights[lightIndex])
			}
		}
		if node.Extras != nil {
			if raw, err := json.Marshal(node.Extras); err == nil {
				n.Extras = string(raw)
			}
		}

		children := make([]int, len(node.Children))
		for c, child := range node.Children {
			children[c] = int(child)
		}
		intermediate[i] = labeledNode{Label: nodeLabel(i), Node: n, Children: children}
	}

	for _, resolved := range resolveNodeHierarchy(intermediate, docPath) {
		handle := reg.Set(resolved.Label, resolved.Node)
		out.Nodes = append(out.Nodes, handle)
		if name := doc.Nodes[resolved.Index].Name; name != "" {
			out.NamedNodes[name] = handle
		}
	}
	return nil
}

func loadCamera(cam *gltf.Camera) *scene.Camera {
	out := &scene.Camera{Name: cam.Name}
	if p := cam.Perspective; p != nil {
		proj := &scene.PerspectiveProjection{
			FovY: float32(p.Yfov),
			Near: float32(p.Znear),
		}
		if p.AspectRatio != nil {
			proj.AspectRatio = float32(*p.AspectRatio)
		}
		if p.Zfar != nil {
			proj.Far = float32(*p.Zfar)
		}
		out.Perspective = proj
	}
	if o := cam.Orthographic; o != nil {
		out.Orthographic = &scene.OrthographicProjection{
			XMag: float32(o.Xmag),
			YMag: float32(o.Ymag),
			Near: float32(o.Znear),
			Far:  float32(o.Zfar),
		}
	}
	return out
}

func loadLight(light *lightspuntual.Light) *scene.Light {
	out := &scene.Light{
		Name:           light.Name,
		Color:          mgl32.Vec3{1, 1, 1},
		Intensity:      1,
		OuterConeAngle: math.Pi / 4,
	}
	if light.Color != nil {
		out.Color = mgl32.Vec3{
			float32((*light.Color)[0]),
			float32((*light.Color)[1]),
			float32((*light.Color)[2]),
		}
	}
	if light.Intensity != nil {
		out.Intensity = float32(*light.Intensity)
	}
	if light.Range != nil {
		out.Range = float32(*light.Range)
	}
	switch light.Type {
	case lightspuntual.TypeDirectional:
		out.Kind = scene.LightDirectional
	case lightspuntual.TypeSpot:
		out.Kind = scene.LightSpot
		if light.Spot != nil {
			out.InnerConeAngle = float32(light.Spot.InnerConeAngle)
			if light.Spot.OuterConeAngle != nil {
				out.OuterConeAngle = float32(*light.Spot.OuterConeAngle)
			}
		}
	default:
		out.Kind = scene.LightPoint
	}
	return out
}

// loadScenes records root handles in declaration order plus the skin and
// animation wiring reachable from each scene.
func loadScenes(doc *gltf.Document, animatedRoots map[int]bool, reg *registry.Registry, out *scene.Document) {
	for si, src := range doc.Scenes {
		sc := &scene.Scene{Name: src.Name}

		visited := make(map[int]bool)
		var walk func(node int)
		walk = func(node int) {
			if node < 0 || node >= len(doc.Nodes) || visited[node] {
				return
			}
			visited[node] = true
			n := doc.Nodes[node]
			if n.Mesh != nil && n.Skin != nil {
				sc.SkinBindings = append(sc.SkinBindings, scene.SkinBinding{
					Node: reg.Handle(nodeLabel(node)),
					Skin: reg.Handle(skinLabel(int(*n.Skin))),
				})
			}
			for _, child := range n.Children {
				walk(int(child))
			}
		}

		for _, root := range src.Nodes {
			sc.RootNodes = append(sc.RootNodes, reg.Handle(nodeLabel(int(root))))
			if animatedRoots[int(root)] {
				sc.AnimationRoots = append(sc.AnimationRoots, reg.Handle(nodeLabel(int(root))))
			}
			walk(int(root))
		}

		handle := reg.Set(sceneLabel(si), sc)
		out.Scenes = append(out.Scenes, handle)
		if src.Name != "" {
			out.NamedScenes[src.Name] = handle
		}
	}
}
