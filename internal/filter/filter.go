// Package filter decides which files belong in a snapshot.
package filter

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	gitignore "github.com/monochromegane/go-gitignore"
)

// DefaultExtensions are the source, config and doc types captured by default.
var DefaultExtensions = []string{
	".py", ".yaml", ".yml", ".toml", ".json", ".md", ".txt", ".ini", ".cfg",
}

// DefaultExcludedNames are never captured, whatever their extension.
var DefaultExcludedNames = []string{
	"memory.txt", "tree.txt", "requirements-lock.txt", "package-lock.json", ".DS_Store", "Thumbs.db",
}

// DefaultExcludedDirs are matched as substrings of the relative path.
var DefaultExcludedDirs = []string{
	"__pycache__", ".git", ".venv", "venv", "node_modules", ".pytest_cache",
	".mypy_cache", ".idea", ".vscode", "dist", "build", ".egg-info",
}

// Config lists the three exclusion criteria.
type Config struct {
	Extensions    []string
	ExcludedNames []string
	ExcludedDirs  []string
}

// DefaultConfig returns a copy of the default criteria.
func DefaultConfig() Config {
	return Config{
		Extensions:    append([]string(nil), DefaultExtensions...),
		ExcludedNames: append([]string(nil), DefaultExcludedNames...),
		ExcludedDirs:  append([]string(nil), DefaultExcludedDirs...),
	}
}

// Filter is the inclusion predicate. The zero value includes nothing.
type Filter struct {
	cfg        Config
	extensions map[string]bool
	names      map[string]bool
	ignore     gitignore.IgnoreMatcher
	ignoreRoot string
}

// Option configures a Filter.
type Option func(*Filter) error

// WithGitignore adds root/.gitignore as a fourth criterion. A missing
// .gitignore is not an error.
func WithGitignore(root string) Option {
	return func(f *Filter) error {
		absRoot, err := filepath.Abs(root)
		if err != nil {
			return fmt.Errorf("error resolving root %s: %w", root, err)
		}
		path := filepath.Join(absRoot, ".gitignore")
		if _, err := os.Stat(path); err != nil {
			return nil
		}
		matcher, err := gitignore.NewGitIgnore(path, absRoot)
		if err != nil {
			return fmt.Errorf("could not parse .gitignore file %s: %w", path, err)
		}
		f.ignore = matcher
		f.ignoreRoot = absRoot
		return nil
	}
}

// New builds a Filter from cfg.
func New(cfg Config, opts ...Option) (*Filter, error) {
	f := &Filter{
		cfg:        cfg,
		extensions: make(map[string]bool, len(cfg.Extensions)),
		names:      make(map[string]bool, len(cfg.ExcludedNames)),
	}
	for _, ext := range cfg.Extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		f.extensions[ext] = true
	}
	for _, name := range cfg.ExcludedNames {
		f.names[name] = true
	}
	for _, opt := range opts {
		if err := opt(f); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// ExcludeName adds name to the name blacklist.
func (f *Filter) ExcludeName(name string) {
	if name == "" || f.names[name] {
		return
	}
	f.names[name] = true
	f.cfg.ExcludedNames = append(f.cfg.ExcludedNames, name)
}

// ShouldInclude reports whether the file called name, at relPath under the
// root, passes every criterion. Extension runs first as the cheapest reject.
func (f *Filter) ShouldInclude(name, relPath string) bool {
	if !f.extensions[strings.ToLower(filepath.Ext(name))] {
		return false
	}
	if f.names[name] {
		return false
	}
	rel := filepath.ToSlash(relPath)
	if f.excludedByDir(rel) {
		return false
	}
	if f.ignore != nil && f.ignore.Match(filepath.Join(f.ignoreRoot, filepath.FromSlash(rel)), false) {
		return false
	}
	return true
}

// SkipDir reports whether everything below relDir is excluded. Any file
// under a directory whose path holds a blacklisted token holds it too.
func (f *Filter) SkipDir(relDir string) bool {
	rel := filepath.ToSlash(relDir)
	if f.excludedByDir(rel) {
		return true
	}
	return f.ignore != nil && f.ignore.Match(filepath.Join(f.ignoreRoot, filepath.FromSlash(rel)), true)
}

// excludedByDir matches directory tokens anywhere in the path, so "notdist"
// is caught by "dist".
func (f *Filter) excludedByDir(rel string) bool {
	for _, token := range f.cfg.ExcludedDirs {
		if token != "" && strings.Contains(rel, token) {
			return true
		}
	}
	return false
}

// Config returns the criteria in effect.
func (f *Filter) Config() Config {
	return Config{
		Extensions:    append([]string(nil), f.cfg.Extensions...),
		ExcludedNames: append([]string(nil), f.cfg.ExcludedNames...),
		ExcludedDirs:  append([]string(nil), f.cfg.ExcludedDirs...),
	}
}

// UsesGitignore reports whether a .gitignore was loaded.
func (f *Filter) UsesGitignore() bool {
	return f.ignore != nil
}
