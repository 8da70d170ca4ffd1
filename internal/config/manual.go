package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadManualFields reads user-supplied manual-field text from a YAML
// mapping. A value may be a string or a list of strings; list items are
// joined with a blank line.
func LoadManualFields(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manual fields: %w", err)
	}

	var raw map[string]yaml.Node
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing manual fields %s: %w", path, err)
	}

	fields := make(map[string]string, len(raw))
	for key, node := range raw {
		switch node.Kind {
		case yaml.ScalarNode:
			fields[key] = node.Value
		case yaml.SequenceNode:
			var items []string
			if err := node.Decode(&items); err != nil {
				return nil, fmt.Errorf("manual field %s: %w", key, err)
			}
			fields[key] = strings.Join(items, "\n\n")
		default:
			return nil, fmt.Errorf("manual field %s: expected text or a list of text", key)
		}
	}
	return fields, nil
}
