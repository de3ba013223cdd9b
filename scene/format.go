package scene

import "github.com/pkg/errors"

// VertexFormat names the native storage format of one vertex attribute
// element. The set mirrors the formats the conversion engine can realize
// from glTF accessors.
type VertexFormat uint8

const (
	FormatFloat32 VertexFormat = iota
	FormatUint32
	FormatFloat32x2
	FormatUint32x2
	FormatFloat32x3
	FormatUint32x3
	FormatFloat32x4
	FormatUint32x4
	FormatSint16x2
	FormatSnorm16x2
	FormatUint16x2
	FormatUnorm16x2
	FormatSint16x4
	FormatSnorm16x4
	FormatUint16x4
	FormatUnorm16x4
	FormatSint8x2
	FormatSnorm8x2
	FormatUint8x2
	FormatUnorm8x2
	FormatSint8x4
	FormatSnorm8x4
	FormatUint8x4
	FormatUnorm8x4
)

var vertexFormatNames = map[VertexFormat]string{
	FormatFloat32:   "Float32",
	FormatUint32:    "Uint32",
	FormatFloat32x2: "Float32x2",
	FormatUint32x2:  "Uint32x2",
	FormatFloat32x3: "Float32x3",
	FormatUint32x3:  "Uint32x3",
	FormatFloat32x4: "Float32x4",
	FormatUint32x4:  "Uint32x4",
	FormatSint16x2:  "Sint16x2",
	FormatSnorm16x2: "Snorm16x2",
	FormatUint16x2:  "Uint16x2",
	FormatUnorm16x2: "Unorm16x2",
	FormatSint16x4:  "Sint16x4",
	FormatSnorm16x4: "Snorm16x4",
	FormatUint16x4:  "Uint16x4",
	FormatUnorm16x4: "Unorm16x4",
	FormatSint8x2:   "Sint8x2",
	FormatSnorm8x2:  "Snorm8x2",
	FormatUint8x2:   "Uint8x2",
	FormatUnorm8x2:  "Unorm8x2",
	FormatSint8x4:   "Sint8x4",
	FormatSnorm8x4:  "Snorm8x4",
	FormatUint8x4:   "Uint8x4",
	FormatUnorm8x4:  "Unorm8x4",
}

func (f VertexFormat) String() string {
	if name, ok := vertexFormatNames[f]; ok {
		return name
	}
	return "UnknownFormat"
}

// ParseVertexFormat is the inverse of VertexFormat.String. Used by the
// YAML custom-attribute configuration.
func ParseVertexFormat(name string) (VertexFormat, error) {
	for f, n := range vertexFormatNames {
		if n == name {
			return f, nil
		}
	}
	return 0, errors.Errorf("Unknown vertex format %q", name)
}

// Attribute identifies a target vertex attribute slot: a stable name plus
// the storage format the slot requires.
type Attribute struct {
	Name   string
	Format VertexFormat
}

var (
	AttributePosition    = Attribute{Name: "Vertex_Position", Format: FormatFloat32x3}
	AttributeNormal      = Attribute{Name: "Vertex_Normal", Format: FormatFloat32x3}
	AttributeTangent     = Attribute{Name: "Vertex_Tangent", Format: FormatFloat32x4}
	AttributeColor       = Attribute{Name: "Vertex_Color", Format: FormatFloat32x4}
	AttributeTexCoord0   = Attribute{Name: "Vertex_Uv", Format: FormatFloat32x2}
	AttributeJointIndex  = Attribute{Name: "Vertex_JointIndex", Format: FormatUint16x4}
	AttributeJointWeight = Attribute{Name: "Vertex_JointWeight", Format: FormatFloat32x4}
)

// VertexValues is a decoded attribute value array in one of the native
// storage formats. Concrete types below form a closed set: code consuming
// values switches over Format() and treats unknown formats as a bug.
type VertexValues interface {
	Format() VertexFormat
	Len() int
}

type Float32 []float32
type Uint32 []uint32
type Float32x2 [][2]float32
type Uint32x2 [][2]uint32
type Float32x3 [][3]float32
type Uint32x3 [][3]uint32
type Float32x4 [][4]float32
type Uint32x4 [][4]uint32
type Sint16x2 [][2]int16
type Snorm16x2 [][2]int16
type Uint16x2 [][2]uint16
type Unorm16x2 [][2]uint16
type Sint16x4 [][4]int16
type Snorm16x4 [][4]int16
type Uint16x4 [][4]uint16
type Unorm16x4 [][4]uint16
type Sint8x2 [][2]int8
type Snorm8x2 [][2]int8
type Uint8x2 [][2]uint8
type Unorm8x2 [][2]uint8
type Sint8x4 [][4]int8
type Snorm8x4 [][4]int8
type Uint8x4 [][4]uint8
type Unorm8x4 [][4]uint8

func (v Float32) Format() VertexFormat   { return FormatFloat32 }
func (v Uint32) Format() VertexFormat    { return FormatUint32 }
func (v Float32x2) Format() VertexFormat { return FormatFloat32x2 }
func (v Uint32x2) Format() VertexFormat  { return FormatUint32x2 }
func (v Float32x3) Format() VertexFormat { return FormatFloat32x3 }
func (v Uint32x3) Format() VertexFormat  { return FormatUint32x3 }
func (v Float32x4) Format() VertexFormat { return FormatFloat32x4 }
func (v Uint32x4) Format() VertexFormat  { return FormatUint32x4 }
func (v Sint16x2) Format() VertexFormat  { return FormatSint16x2 }
func (v Snorm16x2) Format() VertexFormat { return FormatSnorm16x2 }
func (v Uint16x2) Format() VertexFormat  { return FormatUint16x2 }
func (v Unorm16x2) Format() VertexFormat { return FormatUnorm16x2 }
func (v Sint16x4) Format() VertexFormat  { return FormatSint16x4 }
func (v Snorm16x4) Format() VertexFormat { return FormatSnorm16x4 }
func (v Uint16x4) Format() VertexFormat  { return FormatUint16x4 }
func (v Unorm16x4) Format() VertexFormat { return FormatUnorm16x4 }
func (v Sint8x2) Format() VertexFormat   { return FormatSint8x2 }
func (v Snorm8x2) Format() VertexFormat  { return FormatSnorm8x2 }
func (v Uint8x2) Format() VertexFormat   { return FormatUint8x2 }
func (v Unorm8x2) Format() VertexFormat  { return FormatUnorm8x2 }
func (v Sint8x4) Format() VertexFormat   { return FormatSint8x4 }
func (v Snorm8x4) Format() VertexFormat  { return FormatSnorm8x4 }
func (v Uint8x4) Format() VertexFormat   { return FormatUint8x4 }
func (v Unorm8x4) Format() VertexFormat  { return FormatUnorm8x4 }

func (v Float32) Len() int   { return len(v) }
func (v Uint32) Len() int    { return len(v) }
func (v Float32x2) Len() int { return len(v) }
func (v Uint32x2) Len() int  { return len(v) }
func (v Float32x3) Len() int { return len(v) }
func (v Uint32x3) Len() int  { return len(v) }
func (v Float32x4) Len() int { return len(v) }
func (v Uint32x4) Len() int  { return len(v) }
func (v Sint16x2) Len() int  { return len(v) }
func (v Snorm16x2) Len() int { return len(v) }
func (v Uint16x2) Len() int  { return len(v) }
func (v Unorm16x2) Len() int { return len(v) }
func (v Sint16x4) Len() int  { return len(v) }
func (v Snorm16x4) Len() int { return len(v) }
func (v Uint16x4) Len() int  { return len(v) }
func (v Unorm16x4) Len() int { return len(v) }
func (v Sint8x2) Len() int   { return len(v) }
func (v Snorm8x2) Len() int  { return len(v) }
func (v Uint8x2) Len() int   { return len(v) }
func (v Unorm8x2) Len() int  { return len(v) }
func (v Sint8x4) Len() int   { return len(v) }
func (v Snorm8x4) Len() int  { return len(v) }
func (v Uint8x4) Len() int   { return len(v) }
func (v Unorm8x4) Len() int  { return len(v) }
