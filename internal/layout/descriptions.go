package layout

import (
	"path"
	"sort"
	"strings"
)

// Descriptions maps a relative path ("src/imagenespdf/cli.py") or a bare
// name ("cli.py") to a human-readable purpose. It is read-only once built.
type Descriptions struct {
	entries map[string]string
}

// NewDescriptions copies m into an immutable Descriptions table.
func NewDescriptions(m map[string]string) Descriptions {
	entries := make(map[string]string, len(m))
	for k, v := range m {
		entries[normalizeKey(k)] = v
	}
	return Descriptions{entries: entries}
}

// Lookup resolves a description for relPath: exact relative path first,
// then the bare name.
func (d Descriptions) Lookup(relPath string) (string, bool) {
	key := normalizeKey(relPath)
	if desc, ok := d.entries[key]; ok {
		return desc, true
	}
	return d.LookupName(path.Base(key))
}

// LookupName resolves a description by bare name only.
func (d Descriptions) LookupName(name string) (string, bool) {
	desc, ok := d.entries[name]
	return desc, ok
}

// Len returns the number of entries.
func (d Descriptions) Len() int {
	return len(d.entries)
}

// Keys returns every key, sorted.
func (d Descriptions) Keys() []string {
	keys := make([]string, 0, len(d.entries))
	for k := range d.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// normalizeKey converts Windows separators and trims surrounding slashes so
// "src\app\" and "src/app" share a key.
func normalizeKey(p string) string {
	p = strings.ReplaceAll(p, "\\", "/")
	return strings.Trim(p, "/")
}
