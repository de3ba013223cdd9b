package loader

import (
	"fmt"
	"log"

	"github.com/qmuntal/gltf"

	"github.com/mogaika/gltfscene/registry"
	"github.com/mogaika/gltfscene/scene"
)

// nodePath locates a node for animation retargeting: the scene root it
// hangs from plus the name chain leading to it.
type nodePath struct {
	root int
	path scene.EntityPath
}

func gltfNodeName(node *gltf.Node, index int) string {
	if node.Name != "" {
		return node.Name
	}
	return fmt.Sprintf("Node%d", index)
}

// nodePaths walks every scene from its roots and records the name chain of
// each reachable node. Already-visited nodes are skipped so cyclic child
// graphs terminate; the hierarchy resolver reports those separately.
func nodePaths(doc *gltf.Document) map[int]nodePath {
	paths := make(map[int]nodePath, len(doc.Nodes))

	var walk func(node, root int, prefix scene.EntityPath)
	walk = func(node, root int, prefix scene.EntityPath) {
		if node < 0 || node >= len(doc.Nodes) {
			return
		}
		if _, seen := paths[node]; seen {
			return
		}

		current := make(scene.EntityPath, 0, len(prefix)+1)
		current = append(current, prefix...)
		current = append(current, gltfNodeName(doc.Nodes[node], node))
		paths[node] = nodePath{root: root, path: current}

		for _, child := range doc.Nodes[node].Children {
			walk(int(child), root, current)
		}
	}

	for _, sc := range doc.Scenes {
		for _, root := range sc.Nodes {
			walk(int(root), int(root), scene.EntityPath{})
		}
	}
	return paths
}

// loadAnimations converts animation channels into retargetable clips and
// returns the set of root node indices that own animated descendants.
// Channels that cannot be interpreted keep the rest of the clip intact;
// unreadable sampler data aborts the load.
func loadAnimations(doc *gltf.Document, buffers [][]byte, paths map[int]nodePath, reg *registry.Registry) ([]registry.Handle, map[int]bool, error) {
	handles := make([]registry.Handle, 0, len(doc.Animations))
	animatedRoots := make(map[int]bool)

	for i, anim := range doc.Animations {
		clip := scene.NewAnimationClip(anim.Name)

		for _, channel := range anim.Channels {
			if channel.Sampler == nil || int(*channel.Sampler) >= len(anim.Samplers) {
				return nil, nil, &MissingAnimationSamplerError{Animation: i}
			}
			sampler := anim.Samplers[*channel.Sampler]

			if sampler.Interpolation != gltf.InterpolationLinear {
				log.Printf("Animation %d uses interpolation %v, interpreting as linear", i, sampler.Interpolation)
			}

			if sampler.Input == nil || int(*sampler.Input) >= len(doc.Accessors) ||
				sampler.Output == nil || int(*sampler.Output) >= len(doc.Accessors) {
				return nil, nil, &MissingAnimationSamplerError{Animation: i}
			}
			inputAcc := doc.Accessors[*sampler.Input]
			outputAcc := doc.Accessors[*sampler.Output]

			if inputAcc.Sparse != nil || outputAcc.Sparse != nil {
				log.Printf("Sparse accessor not supported for animation sampler input/output, skipping channel in animation %d", i)
				continue
			}

			timestamps, err := readTimestamps(doc, inputAcc, buffers)
			if err != nil {
				return nil, nil, &MissingAnimationSamplerError{Animation: i}
			}

			var keyframes scene.Keyframes
			switch channel.Target.Path {
			case gltf.TRSTranslation:
				values, err := readVec3s(doc, outputAcc, buffers)
				if err != nil {
					return nil, nil, &MissingAnimationSamplerError{Animation: i}
				}
				keyframes = scene.TranslationKeyframes(values)
			case gltf.TRSRotation:
				values, err := readQuaternions(doc, outputAcc, buffers)
				if err != nil {
					return nil, nil, &MissingAnimationSamplerError{Animation: i}
				}
				keyframes = scene.RotationKeyframes(values)
			case gltf.TRSScale:
				values, err := readVec3s(doc, outputAcc, buffers)
				if err != nil {
					return nil, nil, &MissingAnimationSamplerError{Animation: i}
				}
				keyframes = scene.ScaleKeyframes(values)
			default:
				log.Printf("Unsupported animation channel target %q in animation %d, skipping channel", channel.Target.Path, i)
				continue
			}

			if channel.Target.Node == nil {
				log.Printf("Animation channel in animation %d targets no node, skipping channel", i)
				continue
			}
			target, ok := paths[int(*channel.Target.Node)]
			if !ok {
				log.Printf("Animation channel in animation %d targets a node outside every scene, skipping channel", i)
				continue
			}

			animatedRoots[target.root] = true
			clip.AddCurve(target.path, timestamps, keyframes)
		}

		handle := reg.Set(animationLabel(i), clip)
		handles = append(handles, handle)
	}
	return handles, animatedRoots, nil
}

// loadSkins links joint node references and decodes inverse bind matrices.
// A skin without readable bind matrices aborts the load.
func loadSkins(doc *gltf.Document, buffers [][]byte, reg *registry.Registry) ([]registry.Handle, error) {
	handles := make([]registry.Handle, 0, len(doc.Skins))
	for i, skin := range doc.Skins {
		if skin.InverseBindMatrices == nil || int(*skin.InverseBindMatrices) >= len(doc.Accessors) {
			return nil, &MissingInverseBindMatricesError{Skin: i}
		}
		matrices, err := readMat4s(doc, doc.Accessors[*skin.InverseBindMatrices], buffers)
		if err != nil {
			return nil, &MissingInverseBindMatricesError{Skin: i}
		}

		joints := make([]registry.Handle, len(skin.Joints))
		for j, joint := range skin.Joints {
			joints[j] = reg.Handle(nodeLabel(int(joint)))
		}

		handle := reg.Set(skinLabel(i), &scene.Skin{
			Name:             skin.Name,
			Joints:           joints,
			InverseBindposes: matrices,
		})
		handles = append(handles, handle)
	}
	return handles, nil
}
