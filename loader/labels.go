package loader

import "fmt"

// Stable sub-asset labels. Cross-references between decoded assets are
// link-by-label so that forward references (a primitive naming a material
// that is materialized later) resolve lazily.

func meshLabel(mesh int) string { return fmt.Sprintf("Mesh%d", mesh) }

func primitiveLabel(mesh, primitive int) string {
	return fmt.Sprintf("Mesh%d/Primitive%d", mesh, primitive)
}

func materialLabel(material *uint32) string {
	if material == nil {
		return "MaterialDefault"
	}
	return fmt.Sprintf("Material%d", *material)
}

func textureLabel(texture int) string { return fmt.Sprintf("Texture%d", texture) }

func nodeLabel(node int) string { return fmt.Sprintf("Node%d", node) }

func sceneLabel(scene int) string { return fmt.Sprintf("Scene%d", scene) }

func skinLabel(skin int) string { return fmt.Sprintf("Skin%d", skin) }

func animationLabel(animation int) string { return fmt.Sprintf("Animation%d", animation) }
