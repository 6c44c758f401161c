// Package pkgjson canonicalizes the package.json of a generated project:
// dependency groups are sorted alphabetically while every other key keeps
// its position.
package pkgjson

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// FileName is the manifest the normalizer rewrites.
const FileName = "package.json"

// DependencyGroups are the objects whose keys get sorted.
var DependencyGroups = []string{"dependencies", "devDependencies", "peerDependencies", "optionalDependencies"}

type field struct {
	key string
	val json.RawMessage
}

// SortDependencies returns data with every dependency group sorted by
// package name. Top-level key order is preserved and output is indented
// with two spaces and a trailing newline.
func SortDependencies(data []byte) ([]byte, error) {
	fields, err := decodeObject(data)
	if err != nil {
		return nil, err
	}

	for i, f := range fields {
		if !isDependencyGroup(f.key) {
			continue
		}
		var deps map[string]json.RawMessage
		if err := json.Unmarshal(f.val, &deps); err != nil {
			return nil, fmt.Errorf("%s is not an object: %w", f.key, err)
		}
		// encoding/json writes map keys in sorted order.
		sorted, err := marshal(deps)
		if err != nil {
			return nil, fmt.Errorf("encoding %s: %w", f.key, err)
		}
		fields[i].val = sorted
	}

	var compact bytes.Buffer
	compact.WriteByte('{')
	for i, f := range fields {
		if i > 0 {
			compact.WriteByte(',')
		}
		k, err := marshal(f.key)
		if err != nil {
			return nil, err
		}
		compact.Write(k)
		compact.WriteByte(':')
		compact.Write(f.val)
	}
	compact.WriteByte('}')

	var out bytes.Buffer
	if err := json.Indent(&out, compact.Bytes(), "", "  "); err != nil {
		return nil, fmt.Errorf("indenting %s: %w", FileName, err)
	}
	out.WriteByte('\n')
	return out.Bytes(), nil
}

// SortFile rewrites path in place. A missing file is not an error: there is
// simply nothing to normalize.
func SortFile(path string) (changed bool, err error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("reading %s: %w", path, err)
	}

	sorted, err := SortDependencies(data)
	if err != nil {
		return false, fmt.Errorf("normalizing %s: %w", path, err)
	}
	if bytes.Equal(sorted, data) {
		return false, nil
	}
	if err := os.WriteFile(path, sorted, 0644); err != nil {
		return false, fmt.Errorf("writing %s: %w", path, err)
	}
	return true, nil
}

// RangeWarnings lists dependencies whose version range is neither a semver
// constraint nor a recognized non-registry specifier.
func RangeWarnings(data []byte) ([]string, error) {
	fields, err := decodeObject(data)
	if err != nil {
		return nil, err
	}

	var warnings []string
	for _, f := range fields {
		if !isDependencyGroup(f.key) {
			continue
		}
		var deps map[string]string
		if err := json.Unmarshal(f.val, &deps); err != nil {
			warnings = append(warnings, fmt.Sprintf("%s: not a name → range object", f.key))
			continue
		}
		names := make([]string, 0, len(deps))
		for name := range deps {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			spec := deps[name]
			if isNonRegistrySpec(spec) {
				continue
			}
			if _, err := semver.NewConstraint(spec); err != nil {
				warnings = append(warnings, fmt.Sprintf("%s: %s has an unrecognized version range %q", f.key, name, spec))
			}
		}
	}
	return warnings, nil
}

// marshal encodes v without HTML escaping, so ranges like ">=1.0.0" stay
// readable.
func marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func decodeObject(data []byte) ([]field, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", FileName, err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("parsing %s: top level is not an object", FileName)
	}

	var fields []field
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", FileName, err)
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("parsing %s: unexpected token %v", FileName, tok)
		}
		var val json.RawMessage
		if err := dec.Decode(&val); err != nil {
			return nil, fmt.Errorf("parsing %s: value of %q: %w", FileName, key, err)
		}
		fields = append(fields, field{key: key, val: val})
	}
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", FileName, err)
	}
	return fields, nil
}

func isDependencyGroup(key string) bool {
	for _, g := range DependencyGroups {
		if g == key {
			return true
		}
	}
	return false
}

var nonRegistryPrefixes = []string{"file:", "link:", "git+", "git:", "github:", "http:", "https:", "npm:", "workspace:"}

func isNonRegistrySpec(spec string) bool {
	switch spec {
	case "latest", "next", "*", "":
		return true
	}
	for _, p := range nonRegistryPrefixes {
		if strings.HasPrefix(spec, p) {
			return true
		}
	}
	// owner/repo shorthand
	return strings.Count(spec, "/") == 1 && !strings.ContainsAny(spec, " <>=^~")
}
