package filter

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDefault(t *testing.T) *Filter {
	t.Helper()
	f, err := New(DefaultConfig())
	require.NoError(t, err)
	return f
}

func TestShouldInclude(t *testing.T) {
	f := newDefault(t)

	tests := []struct {
		name    string
		relPath string
		want    bool
	}{
		{"main.py", "src/imagenespdf/main.py", true},
		{"dims.yaml", "src/imagenespdf/schema/dims.yaml", true},
		{"README.MD", "README.MD", true},
		{"Config.PY", "Config.PY", true},
		{"run.bat", "scripts/run.bat", false},
		{"catalog.pdf", "input/pdfs/catalog.pdf", false},
		{"Makefile", "Makefile", false},
		{"memory.txt", "memory.txt", false},
		{"tree.txt", "tree.txt", false},
		{"model.py", "sub/__pycache__/model.py", false},
		{"config", ".git/config", false},
		{"HEAD.txt", ".git/HEAD.txt", false},
		{"site.py", ".venv/lib/site.py", false},
		{"x.py", "notdist/x.py", false},
		{"x.py", `windows\__pycache__\x.py`, false},
	}

	for _, tt := range tests {
		t.Run(tt.relPath, func(t *testing.T) {
			assert.Equal(t, tt.want, f.ShouldInclude(tt.name, tt.relPath))
		})
	}
}

func TestShouldInclude_Conjunction(t *testing.T) {
	f := newDefault(t)

	// Extension outside the whitelist loses regardless of the other criteria.
	assert.False(t, f.ShouldInclude("run.bat", "run.bat"))

	// Whitelisted extension and allowed name still lose to a blacklisted dir.
	assert.True(t, f.ShouldInclude("model.py", "sub/model.py"))
	assert.False(t, f.ShouldInclude("model.py", "sub/__pycache__/model.py"))

	// Whitelisted extension in a clean path still loses to the name list.
	assert.False(t, f.ShouldInclude("memory.txt", "docs/memory.txt"))
}

func TestNew_NormalizesExtensions(t *testing.T) {
	f, err := New(Config{Extensions: []string{"PY", " .Md ", ""}})
	require.NoError(t, err)

	assert.True(t, f.ShouldInclude("a.py", "a.py"))
	assert.True(t, f.ShouldInclude("b.md", "b.md"))
	assert.False(t, f.ShouldInclude("noext", "noext"))
}

func TestZeroFilterIncludesNothing(t *testing.T) {
	var f Filter
	assert.False(t, f.ShouldInclude("a.py", "a.py"))
}

func TestExcludeName(t *testing.T) {
	f := newDefault(t)
	require.True(t, f.ShouldInclude("snapshot.txt", "snapshot.txt"))

	f.ExcludeName("snapshot.txt")
	f.ExcludeName("snapshot.txt")

	assert.False(t, f.ShouldInclude("snapshot.txt", "snapshot.txt"))
	count := 0
	for _, n := range f.Config().ExcludedNames {
		if n == "snapshot.txt" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestSkipDir(t *testing.T) {
	f := newDefault(t)

	assert.True(t, f.SkipDir("src/__pycache__"))
	assert.True(t, f.SkipDir(".git"))
	assert.True(t, f.SkipDir("packages/notdist"))
	assert.False(t, f.SkipDir("src/imagenespdf"))
}

func TestConfigIsACopy(t *testing.T) {
	f := newDefault(t)
	cfg := f.Config()
	cfg.ExcludedDirs[0] = "mutated"

	assert.Equal(t, DefaultExcludedDirs[0], f.Config().ExcludedDirs[0])
}

func TestWithGitignore(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, ".gitignore"), []byte("secrets.yaml\ngenerated/\n"), 0o644))

	f, err := New(DefaultConfig(), WithGitignore(root))
	require.NoError(t, err)
	require.True(t, f.UsesGitignore())

	assert.False(t, f.ShouldInclude("secrets.yaml", "secrets.yaml"))
	assert.True(t, f.ShouldInclude("settings.yaml", "settings.yaml"))
	assert.True(t, f.SkipDir("generated"))
}

func TestWithGitignore_Missing(t *testing.T) {
	f, err := New(DefaultConfig(), WithGitignore(t.TempDir()))
	require.NoError(t, err)
	assert.False(t, f.UsesGitignore())
}
