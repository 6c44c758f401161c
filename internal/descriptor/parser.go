package descriptor

import (
	_ "embed"
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"
)

//go:embed default.yaml
var defaultDescriptor []byte

// DefaultSource is the Source reported for the embedded descriptor.
const DefaultSource = "<embedded>"

// Default returns the embedded web extension descriptor.
func Default() (*Descriptor, error) {
	return Parse(defaultDescriptor, DefaultSource)
}

// DefaultBytes returns the raw embedded descriptor.
func DefaultBytes() []byte {
	out := make([]byte, len(defaultDescriptor))
	copy(out, defaultDescriptor)
	return out
}

// Load reads, validates and compiles a descriptor file.
func Load(path string) (*Descriptor, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data, path)
}

// Parse validates data against the schema and compiles it.
func Parse(data []byte, source string) (*Descriptor, error) {
	result, err := Validate(data)
	if err != nil {
		return nil, fmt.Errorf("validating descriptor %s: %w", source, err)
	}
	if !result.Valid {
		return nil, &InvalidError{Source: source, Issues: result.Issues}
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing descriptor %s: %w", source, err)
	}
	return Compile(&f, source)
}

// readFile reads the contents of a file at the given path.
func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file %s: %w", path, err)
	}
	return data, nil
}
