package answers

import (
	"fmt"
	"os"
	"sort"

	"go.yaml.in/yaml/v3"
)

// FromMap converts loosely typed answers (as decoded from YAML) into a store.
// Booleans become Bool values, everything else is kept as a String value;
// the question phase re-validates kinds when it meets the key.
func FromMap(raw map[string]any) (*Store, error) {
	s := New()
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		var v Value
		switch val := raw[k].(type) {
		case bool:
			v = BoolValue(val)
		case string:
			v = StringValue(val)
		case int, int64, float64:
			v = StringValue(fmt.Sprint(val))
		case nil:
			continue
		default:
			return nil, fmt.Errorf("answer %q: unsupported value type %T", k, val)
		}
		if err := s.Set(k, v); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// LoadFile reads a YAML file of key: value answers.
func LoadFile(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading answers file %s: %w", path, err)
	}
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing answers file %s: %w", path, err)
	}
	return FromMap(raw)
}
