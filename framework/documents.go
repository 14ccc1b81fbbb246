package framework

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// DecodeDocument parses a YAML or JSON document into target, which is expected to use json
// struct tags. The document goes through a generic YAML parse and is then re-encoded as JSON, so
// that the same tags and custom unmarshalers apply regardless of which format was used.
func DecodeDocument(data []byte, target interface{}) error {
	var generic interface{}
	if err := yaml.Unmarshal(data, &generic); err != nil {
		return fmt.Errorf("invalid document: %w", err)
	}
	jsonData, err := json.Marshal(normalizeYAML(generic))
	if err != nil {
		return fmt.Errorf("document cannot be represented as JSON: %w", err)
	}
	if err := json.Unmarshal(jsonData, target); err != nil {
		return fmt.Errorf("document has unexpected structure: %w", err)
	}
	return nil
}

// normalizeYAML converts any map with non-string keys, which encoding/json cannot handle, into a
// map with string keys.
func normalizeYAML(value interface{}) interface{} {
	switch v := value.(type) {
	case map[string]interface{}:
		for k, item := range v {
			v[k] = normalizeYAML(item)
		}
		return v
	case map[interface{}]interface{}:
		m := make(map[string]interface{}, len(v))
		for k, item := range v {
			m[fmt.Sprint(k)] = normalizeYAML(item)
		}
		return m
	case []interface{}:
		for i, item := range v {
			v[i] = normalizeYAML(item)
		}
		return v
	default:
		return v
	}
}
