package scene

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/mogaika/gltfscene/registry"
)

// Transform is a decomposed node transform.
type Transform struct {
	Translation mgl32.Vec3
	Rotation    mgl32.Quat
	Scale       mgl32.Vec3
}

func TransformIdentity() Transform {
	return Transform{
		Rotation: mgl32.QuatIdent(),
		Scale:    mgl32.Vec3{1, 1, 1},
	}
}

// TransformFromMatrix decomposes a column-major affine matrix into
// translation, rotation and scale. Negative determinant flips the x scale.
func TransformFromMatrix(m mgl32.Mat4) Transform {
	translation := m.Col(3).Vec3()

	c0 := m.Col(0).Vec3()
	c1 := m.Col(1).Vec3()
	c2 := m.Col(2).Vec3()

	scale := mgl32.Vec3{c0.Len(), c1.Len(), c2.Len()}
	if m.Det() < 0 {
		scale[0] = -scale[0]
	}

	norm := func(c mgl32.Vec3, s float32) mgl32.Vec3 {
		if s != 0 {
			return c.Mul(1 / s)
		}
		return c
	}
	c0 = norm(c0, scale[0])
	c1 = norm(c1, scale[1])
	c2 = norm(c2, scale[2])

	rot := mgl32.Mat4{
		c0[0], c0[1], c0[2], 0,
		c1[0], c1[1], c1[2], 0,
		c2[0], c2[1], c2[2], 0,
		0, 0, 0, 1,
	}

	return Transform{
		Translation: translation,
		Rotation:    mgl32.Mat4ToQuat(rot).Normalize(),
		Scale:       scale,
	}
}

type LightKind uint8

const (
	LightDirectional LightKind = iota
	LightPoint
	LightSpot
)

// Light is a punctual light attached to a node.
type Light struct {
	Name           string
	Kind           LightKind
	Color          mgl32.Vec3
	Intensity      float32
	Range          float32
	InnerConeAngle float32
	OuterConeAngle float32
}

type PerspectiveProjection struct {
	FovY        float32
	AspectRatio float32
	Near        float32
	Far         float32
}

type OrthographicProjection struct {
	XMag float32
	YMag float32
	Near float32
	Far  float32
}

// Camera holds exactly one projection kind.
type Camera struct {
	Name         string
	Perspective  *PerspectiveProjection
	Orthographic *OrthographicProjection
}

// Node is a resolved scene-graph node. Children are owned by value of the
// slice: a node appears under at most one parent and never references an
// ancestor.
type Node struct {
	Name      string
	Transform Transform
	Children  []*Node

	Mesh   registry.Handle
	Skin   registry.Handle
	Camera *Camera
	Light  *Light

	// Extras carries the raw extras JSON of the source node, if any.
	Extras string
}

// Clone deep-copies the node and its subtree. Handles are value copies
// pointing at the same registry entries.
func (n *Node) Clone() *Node {
	clone := *n
	clone.Children = make([]*Node, len(n.Children))
	for i, child := range n.Children {
		clone.Children[i] = child.Clone()
	}
	return &clone
}

// SkinBinding associates a mesh-bearing node with the skin that deforms it.
type SkinBinding struct {
	Node registry.Handle
	Skin registry.Handle
}

// Skin is an ordered joint set with one inverse-bind matrix per joint.
type Skin struct {
	Name             string
	Joints           []registry.Handle
	InverseBindposes []mgl32.Mat4
}

// Scene lists root node references in declaration order plus the skin and
// animation wiring resolved during scene assembly.
type Scene struct {
	Name           string
	RootNodes      []registry.Handle
	SkinBindings   []SkinBinding
	AnimationRoots []registry.Handle
}

// Document is the fully assembled load result: ordered sub-asset handles
// plus name lookups, mirroring declaration order of the source document.
type Document struct {
	Scenes      []registry.Handle
	NamedScenes map[string]registry.Handle

	Meshes      []registry.Handle
	NamedMeshes map[string]registry.Handle

	Materials      []registry.Handle
	NamedMaterials map[string]registry.Handle

	Nodes      []registry.Handle
	NamedNodes map[string]registry.Handle

	Skins []registry.Handle

	Animations      []registry.Handle
	NamedAnimations map[string]registry.Handle

	// DefaultScene is the zero Handle when the source declares none.
	DefaultScene registry.Handle
}
