package serializer

import (
	"github.com/ghodss/yaml"
)

// NewYAMLSerializer creates a new serializer using yaml encoding.
// Struct tags are the json tags, since ghodss/yaml converts through json.
func NewYAMLSerializer() IObjectSerializer {
	return &yamlSerializerImpl{}
}

// yamlSerializerImpl implements the IObjectSerializer interface using yaml encoding
type yamlSerializerImpl struct {
}

// --------------------------------------------------------------------------
// Interface Methods (docu see serializer.IObjectSerializer)
// --------------------------------------------------------------------------

func (y yamlSerializerImpl) Serialize(v any) ([]byte, error) {
	return yaml.Marshal(v)
}

func (y yamlSerializerImpl) Deserialize(b []byte, v any) error {
	return yaml.Unmarshal(b, v)
}

func (y yamlSerializerImpl) Name() string {
	return "yaml"
}
