package scene

import (
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

// EntityPath names a node by the chain of node names from its scene root.
type EntityPath []string

func (p EntityPath) String() string { return strings.Join(p, "/") }

// Keyframes is the typed payload of one animation curve.
type Keyframes interface {
	KeyframeCount() int
}

type TranslationKeyframes []mgl32.Vec3
type RotationKeyframes []mgl32.Quat
type ScaleKeyframes []mgl32.Vec3

func (k TranslationKeyframes) KeyframeCount() int { return len(k) }
func (k RotationKeyframes) KeyframeCount() int    { return len(k) }
func (k ScaleKeyframes) KeyframeCount() int       { return len(k) }

// Curve is a keyframe track for one target property of one entity path.
type Curve struct {
	Path       EntityPath
	Timestamps []float32
	Keyframes  Keyframes
}

// AnimationClip groups curves by target entity path.
type AnimationClip struct {
	Name   string
	Curves map[string][]Curve
}

func NewAnimationClip(name string) *AnimationClip {
	return &AnimationClip{
		Name:   name,
		Curves: make(map[string][]Curve),
	}
}

func (c *AnimationClip) AddCurve(path EntityPath, timestamps []float32, keyframes Keyframes) {
	key := path.String()
	c.Curves[key] = append(c.Curves[key], Curve{
		Path:       path,
		Timestamps: timestamps,
		Keyframes:  keyframes,
	})
}
