package scaffold

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/imagenespdf/projkit/internal/layout"
	"github.com/imagenespdf/projkit/internal/tree"
)

func sampleStructure() layout.Structure {
	return layout.Structure{
		{Path: layout.RootKey, Files: []string{"README.md", "pyproject.toml"}},
		{Path: "src/app", Files: []string{"__init__.py", "cli.py"}},
		{Path: "src/app/schema", Files: []string{"dims.yaml"}},
		{Path: "tests", Files: []string{"test_cli.py"}},
	}
}

var sampleEmptyDirs = []string{"input/pdfs", "out/logs"}

func newObserved() (*Initializer, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return New(zap.New(core)), logs
}

func fileSizes(t *testing.T, root string) map[string]int64 {
	t.Helper()
	sizes := make(map[string]int64)
	err := filepath.WalkDir(root, func(p string, d os.DirEntry, err error) error {
		require.NoError(t, err)
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		require.NoError(t, err)
		rel, _ := filepath.Rel(root, p)
		sizes[rel] = info.Size()
		return nil
	})
	require.NoError(t, err)
	return sizes
}

func TestInitialize_CreatesEverything(t *testing.T) {
	root := filepath.Join(t.TempDir(), "proj")
	in, logs := newObserved()

	res, err := in.Initialize(root, sampleStructure(), sampleEmptyDirs, false)
	require.NoError(t, err)

	assert.Equal(t, 0, res.Errors)
	assert.Equal(t, 0, res.Skipped)
	// 3 dirs + 6 files + 2 empty dirs
	assert.Equal(t, 11, res.Created)
	assert.Equal(t, 11, res.Succeeded())

	for _, p := range []string{"README.md", "pyproject.toml", "src/app/cli.py", "src/app/schema/dims.yaml", "tests/test_cli.py"} {
		info, err := os.Stat(filepath.Join(root, p))
		require.NoError(t, err, p)
		assert.Zero(t, info.Size(), p)
	}
	for _, d := range []string{"input/pdfs", "out/logs"} {
		info, err := os.Stat(filepath.Join(root, d))
		require.NoError(t, err, d)
		assert.True(t, info.IsDir())
	}

	assert.Equal(t, 1, logs.FilterMessage("root created").Len())
	assert.Equal(t, 6, logs.FilterMessage("file created").Len())
}

func TestInitialize_IsIdempotent(t *testing.T) {
	root := t.TempDir()
	in, _ := newObserved()

	_, err := in.Initialize(root, sampleStructure(), sampleEmptyDirs, false)
	require.NoError(t, err)

	// Simulate work done between runs.
	require.NoError(t, os.WriteFile(filepath.Join(root, "src", "app", "cli.py"), []byte("print('hi')\n"), 0o644))
	before := fileSizes(t, root)

	in2, logs := newObserved()
	res, err := in2.Initialize(root, sampleStructure(), sampleEmptyDirs, false)
	require.NoError(t, err)

	assert.Equal(t, 0, res.Errors)
	assert.Equal(t, 0, res.Created)
	assert.Equal(t, 11, res.Skipped)
	assert.Equal(t, before, fileSizes(t, root))

	assert.Equal(t, 6, logs.FilterMessage("file skipped").Len())
	assert.Equal(t, 5, logs.FilterMessage("directory already exists").Len())
	assert.Equal(t, 5, logs.FilterLevelExact(zapcore.WarnLevel).Len())
}

func TestInitialize_OverwriteTruncates(t *testing.T) {
	root := t.TempDir()
	in, _ := newObserved()

	_, err := in.Initialize(root, sampleStructure(), nil, false)
	require.NoError(t, err)
	for _, p := range []string{"README.md", "pyproject.toml", "src/app/__init__.py", "src/app/cli.py", "src/app/schema/dims.yaml", "tests/test_cli.py"} {
		require.NoError(t, os.WriteFile(filepath.Join(root, p), []byte("placeholder content"), 0o644))
	}
	require.NoError(t, os.WriteFile(filepath.Join(root, "notes.txt"), []byte("keep me"), 0o644))

	in2, logs := newObserved()
	res, err := in2.Initialize(root, sampleStructure(), nil, true)
	require.NoError(t, err)

	assert.Equal(t, 6, res.Overwritten)
	assert.Equal(t, 0, res.Errors)
	assert.Equal(t, 6, logs.FilterMessage("file overwritten").Len())

	for rel, size := range fileSizes(t, root) {
		if rel == "notes.txt" {
			assert.Equal(t, int64(7), size, "unlisted files are untouched")
			continue
		}
		assert.Zero(t, size, rel)
	}
}

func TestInitialize_MissingParentIsPerFileError(t *testing.T) {
	root := t.TempDir()
	in, logs := newObserved()

	// Directory creation fails because a file sits where "blocked" should be,
	// so files listed under it hit a missing parent.
	require.NoError(t, os.WriteFile(filepath.Join(root, "blocked"), []byte("x"), 0o644))

	structure := layout.Structure{
		{Path: "blocked/inner", Files: []string{"a.py", "b.py"}},
		{Path: "ok", Files: []string{"c.py"}},
	}
	res, err := in.Initialize(root, structure, []string{"after"}, false)
	require.NoError(t, err)

	assert.Equal(t, 3, res.Errors, "dir + two files")
	assert.Equal(t, 3, res.Created, "ok/, ok/c.py, after/")
	assert.NoFileExists(t, filepath.Join(root, "blocked", "inner", "a.py"))
	assert.FileExists(t, filepath.Join(root, "ok", "c.py"))
	assert.DirExists(t, filepath.Join(root, "after"))

	failed := res.Failed()
	require.Len(t, failed, 3)
	assert.Equal(t, KindDir, failed[0].Kind)
	assert.Equal(t, "blocked/inner/a.py", failed[1].Path)
	assert.Error(t, failed[1].Err)
	assert.Equal(t, 3, logs.FilterLevelExact(zapcore.ErrorLevel).Len())
}

func TestInitialize_FileNeverCreatesParents(t *testing.T) {
	root := t.TempDir()
	in, _ := newObserved()

	structure := layout.Structure{
		{Path: layout.RootKey, Files: []string{"nested/orphan.py"}},
	}
	res, err := in.Initialize(root, structure, nil, false)
	require.NoError(t, err)

	assert.Equal(t, 1, res.Errors)
	assert.NoDirExists(t, filepath.Join(root, "nested"))
}

func TestInitialize_RejectsEscapingPaths(t *testing.T) {
	base := t.TempDir()
	root := filepath.Join(base, "proj")
	in, _ := newObserved()

	structure := layout.Structure{
		{Path: "../outside", Files: []string{"x.py"}},
	}
	res, err := in.Initialize(root, structure, []string{"../elsewhere"}, false)
	require.NoError(t, err)

	assert.Equal(t, 3, res.Errors)
	assert.NoDirExists(t, filepath.Join(base, "outside"))
	assert.NoDirExists(t, filepath.Join(base, "elsewhere"))
}

func TestInitialize_ExistingDirectoryInPlaceOfFile(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "README.md"), 0o755))
	in, _ := newObserved()

	res, err := in.Initialize(root, layout.Structure{{Path: layout.RootKey, Files: []string{"README.md"}}}, nil, true)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Errors)
}

func TestInitialize_RootUnavailable(t *testing.T) {
	base := t.TempDir()
	file := filepath.Join(base, "file")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))
	in, _ := newObserved()

	_, err := in.Initialize(file, sampleStructure(), nil, false)
	require.ErrorIs(t, err, ErrRootUnavailable)

	_, err = in.Initialize(filepath.Join(file, "child"), sampleStructure(), nil, false)
	require.ErrorIs(t, err, ErrRootUnavailable)
}

func TestInitialize_NilLogger(t *testing.T) {
	res, err := New(nil).Initialize(t.TempDir(), sampleStructure(), nil, false)
	require.NoError(t, err)
	assert.Equal(t, 9, res.Created)
}

func TestWriteReport(t *testing.T) {
	root := filepath.Join(t.TempDir(), "proj")
	in, _ := newObserved()
	l := layout.Layout{
		Structure: sampleStructure(),
		EmptyDirs: sampleEmptyDirs,
		Descriptions: layout.NewDescriptions(map[string]string{
			"src/app": "main package",
			"cli.py":  "command line",
		}),
	}

	res, err := in.Initialize(root, l.Structure, l.EmptyDirs, false)
	require.NoError(t, err)

	core, reportLogs := observer.New(zapcore.DebugLevel)
	reportPath := filepath.Join(root, ReportFile)
	tr, err := WriteReport(reportPath, ReportInput{
		Root:         root,
		RunID:        "run-1",
		GeneratedAt:  time.Date(2026, 10, 17, 9, 30, 0, 0, time.UTC),
		Overwrite:    false,
		Result:       res,
		Descriptions: l.Descriptions,
		Logger:       zap.New(core),
	})
	require.NoError(t, err)
	assert.Zero(t, reportLogs.FilterMessage("tree counts differ from scan").Len())

	data, err := os.ReadFile(reportPath)
	require.NoError(t, err)
	text := string(data)

	assert.Contains(t, text, "Generado: 2026-10-17 09:30:00\n")
	assert.Contains(t, text, "Modo sobrescritura: NO\n")
	assert.Contains(t, text, "Raíz: "+root+"\n")
	assert.Contains(t, text, "Ejecución: run-1\n")
	assert.Contains(t, text, "│   └── app/  # main package\n")
	assert.Contains(t, text, "cli.py  # command line\n")
	assert.Contains(t, text, "Creados: 11 | Sobrescritos: 0 | Omitidos: 0 | Errores: 0\n")
	assert.Contains(t, text, "src/app: main package\n")

	// The footer is computed before the report file exists.
	dirs, files, err := tree.Count(root)
	require.NoError(t, err)
	assert.Equal(t, dirs, tr.Dirs)
	assert.Equal(t, files-1, tr.Files)
	assert.True(t, strings.Contains(text, "Archivos: 6\n"))
	assert.Contains(t, text, "Directorios: 8\n")
}

func TestBuildReport_FooterFromScanThroughSymlink(t *testing.T) {
	base := t.TempDir()
	target := filepath.Join(base, "target")
	in, _ := newObserved()
	_, err := in.Initialize(target, sampleStructure(), sampleEmptyDirs, false)
	require.NoError(t, err)

	link := filepath.Join(base, "link")
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	core, logs := observer.New(zapcore.DebugLevel)
	text, tr, err := BuildReport(ReportInput{Root: link, Logger: zap.New(core)})
	require.NoError(t, err)

	dirs, files, err := tree.Count(target)
	require.NoError(t, err)
	assert.Equal(t, 8, dirs)
	assert.Equal(t, 6, files)
	assert.Equal(t, dirs, tr.Dirs)
	assert.Equal(t, files, tr.Files)
	assert.Contains(t, text, "Directorios: 8\nArchivos: 6\n")
	assert.Zero(t, logs.FilterMessage("tree counts differ from scan").Len())
}
