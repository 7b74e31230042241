// Package layout holds the declarative project skeleton: which directories
// and files to scaffold and what each path is for.
package layout

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// RootKey is the structure key that stands for the project root itself.
const RootKey = "root"

// Directory is one structure entry: a directory key and the files to create
// inside it, in order.
type Directory struct {
	Path  string
	Files []string
}

// IsRoot reports whether the entry targets the project root.
func (d Directory) IsRoot() bool {
	return d.Path == RootKey
}

// Structure is an ordered list of directory entries. Order follows the
// declaration so scaffolding runs are reproducible.
type Structure []Directory

// UnmarshalYAML decodes a YAML mapping of directory -> [files] while keeping
// the mapping's key order.
func (s *Structure) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: structure must be a mapping of directory to file list", value.Line)
	}

	seen := make(map[string]bool, len(value.Content)/2)
	out := make(Structure, 0, len(value.Content)/2)
	for i := 0; i+1 < len(value.Content); i += 2 {
		keyNode, valNode := value.Content[i], value.Content[i+1]
		key := normalizeKey(keyNode.Value)
		if key == "" {
			return fmt.Errorf("line %d: empty directory key", keyNode.Line)
		}
		if seen[key] {
			return fmt.Errorf("line %d: duplicate directory key %q", keyNode.Line, key)
		}
		seen[key] = true

		var files []string
		if valNode.Tag != "!!null" {
			if err := valNode.Decode(&files); err != nil {
				return fmt.Errorf("line %d: files for %q: %w", valNode.Line, key, err)
			}
		}
		out = append(out, Directory{Path: key, Files: files})
	}

	*s = out
	return nil
}

// FileCount returns the number of files listed across all entries.
func (s Structure) FileCount() int {
	n := 0
	for _, d := range s {
		n += len(d.Files)
	}
	return n
}

// Layout bundles the structure, the standalone empty directories and the
// description table.
type Layout struct {
	Structure    Structure
	EmptyDirs    []string
	Descriptions Descriptions
}

// layoutFile is the on-disk YAML shape.
type layoutFile struct {
	Structure    Structure         `yaml:"structure"`
	EmptyDirs    []string          `yaml:"empty_dirs"`
	Descriptions map[string]string `yaml:"descriptions"`
}

// ErrEmptyLayout is returned when a layout file declares nothing to create.
var ErrEmptyLayout = errors.New("layout declares no directories or files")

// Load reads a YAML layout file.
func Load(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, fmt.Errorf("error reading layout file %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes a YAML layout document.
func Parse(data []byte) (Layout, error) {
	var lf layoutFile
	if err := yaml.Unmarshal(data, &lf); err != nil {
		return Layout{}, fmt.Errorf("error parsing layout: %w", err)
	}
	if len(lf.Structure) == 0 && len(lf.EmptyDirs) == 0 {
		return Layout{}, ErrEmptyLayout
	}

	emptyDirs := make([]string, 0, len(lf.EmptyDirs))
	for _, d := range lf.EmptyDirs {
		if key := normalizeKey(d); key != "" {
			emptyDirs = append(emptyDirs, key)
		}
	}

	return Layout{
		Structure:    lf.Structure,
		EmptyDirs:    emptyDirs,
		Descriptions: NewDescriptions(lf.Descriptions),
	}, nil
}
