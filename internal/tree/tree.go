// Package tree renders an annotated ASCII listing of a directory.
package tree

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/imagenespdf/projkit/internal/layout"
)

const (
	connectorMid  = "├── "
	connectorLast = "└── "
	indentOpen    = "│   "
	indentClosed  = "    "
)

// Node is one rendered entry. Nodes are rebuilt on every render.
type Node struct {
	Name        string
	RelPath     string
	IsDir       bool
	Last        bool
	Prefix      string
	Description string
	Err         error
	Children    []*Node
}

// Connector returns the branch glyph for the node.
func (n *Node) Connector() string {
	if n.Last {
		return connectorLast
	}
	return connectorMid
}

// Tree is the result of a render pass.
type Tree struct {
	Root  *Node
	Text  string
	Dirs  int
	Files int
}

// Render walks root and returns the annotated listing. Descriptions are
// resolved by relative path, then by bare name.
func Render(root string, descriptions layout.Descriptions) (Tree, error) {
	info, err := os.Stat(root)
	if err != nil {
		return Tree{}, fmt.Errorf("error accessing root %s: %w", root, err)
	}
	if !info.IsDir() {
		return Tree{}, fmt.Errorf("root %s is not a directory", root)
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return Tree{}, fmt.Errorf("error resolving root %s: %w", root, err)
	}

	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return Tree{}, fmt.Errorf("error resolving root %s: %w", root, err)
	}

	r := &renderer{root: resolved, descriptions: descriptions}
	top := &Node{Name: filepath.Base(abs), IsDir: true, Last: true}
	top.Children = r.children(resolved, "", nil)

	var b strings.Builder
	b.WriteString(top.Name)
	b.WriteString("/\n")
	writeNodes(&b, top.Children)

	return Tree{Root: top, Text: b.String(), Dirs: r.dirs, Files: r.files}, nil
}

type renderer struct {
	root         string
	descriptions layout.Descriptions
	dirs         int
	files        int
}

// children lists dir, directories first and then files, each group by name.
// ancestors holds one "is last sibling" flag per ancestor below the root and
// is copied before it is extended.
func (r *renderer) children(dir, relDir string, ancestors []bool) []*Node {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return []*Node{{
			Name:   fmt.Sprintf("[error: %v]", err),
			Last:   true,
			Prefix: prefixFor(ancestors),
			Err:    err,
		}}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		di, dj := entries[i].IsDir(), entries[j].IsDir()
		if di != dj {
			return di
		}
		return entries[i].Name() < entries[j].Name()
	})

	prefix := prefixFor(ancestors)
	nodes := make([]*Node, 0, len(entries))
	for i, entry := range entries {
		rel := entry.Name()
		if relDir != "" {
			rel = path.Join(relDir, entry.Name())
		}
		node := &Node{
			Name:    entry.Name(),
			RelPath: rel,
			IsDir:   entry.IsDir(),
			Last:    i == len(entries)-1,
			Prefix:  prefix,
		}
		if desc, ok := r.descriptions.Lookup(rel); ok {
			node.Description = desc
		}

		if node.IsDir {
			r.dirs++
			next := make([]bool, len(ancestors), len(ancestors)+1)
			copy(next, ancestors)
			next = append(next, node.Last)
			node.Children = r.children(filepath.Join(dir, entry.Name()), rel, next)
		} else {
			r.files++
		}
		nodes = append(nodes, node)
	}
	return nodes
}

func prefixFor(ancestors []bool) string {
	var b strings.Builder
	for _, last := range ancestors {
		if last {
			b.WriteString(indentClosed)
		} else {
			b.WriteString(indentOpen)
		}
	}
	return b.String()
}

func writeNodes(b *strings.Builder, nodes []*Node) {
	for _, node := range nodes {
		b.WriteString(node.Prefix)
		b.WriteString(node.Connector())
		b.WriteString(node.Name)
		if node.IsDir {
			b.WriteString("/")
		}
		if node.Description != "" {
			b.WriteString("  # ")
			b.WriteString(node.Description)
		}
		b.WriteString("\n")
		writeNodes(b, node.Children)
	}
}

// Count tallies directories and files below root, excluding root itself.
// It walks independently of Render so the two can be cross-checked.
func Count(root string) (dirs, files int, err error) {
	// WalkDir does not descend into a symlinked root.
	resolved, err := filepath.EvalSymlinks(root)
	if err != nil {
		return 0, 0, fmt.Errorf("error resolving root %s: %w", root, err)
	}
	err = filepath.WalkDir(resolved, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			if p == resolved {
				return walkErr
			}
			// Second visit of an unreadable directory; it was counted on entry.
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if p == resolved {
			return nil
		}
		if d.IsDir() {
			dirs++
		} else {
			files++
		}
		return nil
	})
	if err != nil {
		return 0, 0, fmt.Errorf("error counting %s: %w", root, err)
	}
	return dirs, files, nil
}
