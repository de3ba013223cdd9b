package scene

import (
	"github.com/mogaika/gltfscene/registry"
)

// Topology of a primitive, fixed table from the source primitive mode.
type Topology uint8

const (
	PointList Topology = iota
	LineList
	LineStrip
	TriangleList
	TriangleStrip
)

func (t Topology) String() string {
	switch t {
	case PointList:
		return "PointList"
	case LineList:
		return "LineList"
	case LineStrip:
		return "LineStrip"
	case TriangleList:
		return "TriangleList"
	case TriangleStrip:
		return "TriangleStrip"
	}
	return "UnknownTopology"
}

// Indices is the optional index buffer of a primitive. 8-bit source
// indices are widened to 16-bit before they reach this type.
type Indices interface {
	IndexCount() int
	At(i int) uint32
}

type IndicesU16 []uint16
type IndicesU32 []uint32

func (ind IndicesU16) IndexCount() int { return len(ind) }
func (ind IndicesU32) IndexCount() int { return len(ind) }

func (ind IndicesU16) At(i int) uint32 { return uint32(ind[i]) }
func (ind IndicesU32) At(i int) uint32 { return ind[i] }

// Primitive owns one set of converted vertex attributes, an optional index
// buffer, a topology and an optional material reference.
type Primitive struct {
	Topology   Topology
	Attributes map[string]VertexValues
	Indices    Indices
	Material   registry.Handle
}

func NewPrimitive(topology Topology) *Primitive {
	return &Primitive{
		Topology:   topology,
		Attributes: make(map[string]VertexValues),
	}
}

func (p *Primitive) InsertAttribute(attr Attribute, values VertexValues) {
	p.Attributes[attr.Name] = values
}

func (p *Primitive) Attribute(attr Attribute) VertexValues {
	return p.Attributes[attr.Name]
}

func (p *Primitive) HasAttribute(attr Attribute) bool {
	_, ok := p.Attributes[attr.Name]
	return ok
}

// VertexCount returns the element count of the position attribute, or of
// any attribute when positions are absent.
func (p *Primitive) VertexCount() int {
	if pos := p.Attribute(AttributePosition); pos != nil {
		return pos.Len()
	}
	for _, values := range p.Attributes {
		return values.Len()
	}
	return 0
}

// Mesh is an ordered sequence of primitives.
type Mesh struct {
	Name       string
	Primitives []*Primitive
}
