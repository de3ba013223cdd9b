package config

import (
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/mogaika/gltfscene/scene"
)

// Custom vertex attributes recognized by the loader, keyed by the semantic
// name as it appears in the source document ("_BATCHID" and friends).
var customVertexAttributes = map[string]scene.Attribute{}

func RegisterVertexAttribute(semantic string, attr scene.Attribute) {
	customVertexAttributes[semantic] = attr
}

func CustomVertexAttributes() map[string]scene.Attribute {
	attrs := make(map[string]scene.Attribute, len(customVertexAttributes))
	for semantic, attr := range customVertexAttributes {
		attrs[semantic] = attr
	}
	return attrs
}

type yamlVertexAttribute struct {
	Name   string `yaml:"name"`
	Format string `yaml:"format"`
}

// LoadVertexAttributesYAML registers custom attributes from a YAML mapping
// of semantic name to {name, format}:
//
//	_BATCHID:
//	  name: Vertex_BatchId
//	  format: Uint32
func LoadVertexAttributesYAML(data []byte) error {
	var parsed map[string]yamlVertexAttribute
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return errors.Wrapf(err, "Failed to unmarshal vertex attributes yaml")
	}

	for semantic, raw := range parsed {
		format, err := scene.ParseVertexFormat(raw.Format)
		if err != nil {
			return errors.Wrapf(err, "Attribute %q", semantic)
		}
		if raw.Name == "" {
			return errors.Errorf("Attribute %q: empty target name", semantic)
		}
		RegisterVertexAttribute(semantic, scene.Attribute{Name: raw.Name, Format: format})
	}
	return nil
}
