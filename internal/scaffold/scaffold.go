// Package scaffold creates a project skeleton on disk.
package scaffold

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/imagenespdf/projkit/internal/layout"
	"github.com/imagenespdf/projkit/internal/logging"
)

// ErrRootUnavailable is returned when the root cannot be established.
var ErrRootUnavailable = errors.New("root directory unavailable")

// Kind tells directories and files apart in a Result.
type Kind string

const (
	KindDir  Kind = "dir"
	KindFile Kind = "file"
)

// Action is what happened to one path.
type Action string

const (
	ActionCreated     Action = "created"
	ActionOverwritten Action = "overwritten"
	ActionSkipped     Action = "skipped"
	ActionFailed      Action = "failed"
)

// Entry records the outcome for one path, relative to the root.
type Entry struct {
	Path   string
	Kind   Kind
	Action Action
	Err    error
}

// Result tallies a run.
type Result struct {
	Created     int
	Overwritten int
	Skipped     int
	Errors      int
	Entries     []Entry
}

// Succeeded counts every path left in an acceptable state.
func (r Result) Succeeded() int {
	return r.Created + r.Overwritten + r.Skipped
}

// Failed returns the entries that failed.
func (r Result) Failed() []Entry {
	var out []Entry
	for _, e := range r.Entries {
		if e.Action == ActionFailed {
			out = append(out, e)
		}
	}
	return out
}

func (r *Result) record(e Entry) {
	switch e.Action {
	case ActionCreated:
		r.Created++
	case ActionOverwritten:
		r.Overwritten++
	case ActionSkipped:
		r.Skipped++
	case ActionFailed:
		r.Errors++
	}
	r.Entries = append(r.Entries, e)
}

// Initializer creates directories and empty placeholder files.
type Initializer struct {
	logger *zap.Logger
}

// New returns an Initializer. A nil logger discards output.
func New(logger *zap.Logger) *Initializer {
	return &Initializer{logger: logging.OrNop(logger)}
}

// Initialize creates root, every structure entry and every empty directory.
// Only a root that cannot be created is returned as an error; per-path
// failures are logged and counted in the Result.
func (in *Initializer) Initialize(root string, structure layout.Structure, emptyDirs []string, overwrite bool) (Result, error) {
	var res Result

	if err := in.ensureRoot(root); err != nil {
		return res, err
	}

	for _, dir := range structure {
		dirRel := ""
		if !dir.IsRoot() {
			dirRel = dir.Path
			res.record(in.createDir(root, dirRel))
		}
		for _, name := range dir.Files {
			rel := name
			if dirRel != "" {
				rel = dirRel + "/" + name
			}
			res.record(in.createFile(root, rel, overwrite))
		}
	}

	for _, dir := range emptyDirs {
		res.record(in.createDir(root, dir))
	}

	in.logger.Info("scaffold finished",
		zap.Int("created", res.Created),
		zap.Int("overwritten", res.Overwritten),
		zap.Int("skipped", res.Skipped),
		zap.Int("errors", res.Errors),
	)
	return res, nil
}

func (in *Initializer) ensureRoot(root string) error {
	info, err := os.Stat(root)
	switch {
	case err == nil && info.IsDir():
		in.logger.Debug("root exists", zap.String("root", root))
		return nil
	case err == nil:
		return fmt.Errorf("%w: %s is not a directory", ErrRootUnavailable, root)
	case !errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("%w: %s: %w", ErrRootUnavailable, root, err)
	}

	if err := os.MkdirAll(root, 0o755); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrRootUnavailable, root, err)
	}
	in.logger.Info("root created", zap.String("root", root))
	return nil
}

// createDir creates rel (and its parents). An existing directory is a
// warning, not an error.
func (in *Initializer) createDir(root, rel string) Entry {
	entry := Entry{Path: rel, Kind: KindDir}
	full, err := resolve(root, rel)
	if err != nil {
		return in.fail(entry, err)
	}

	info, err := os.Stat(full)
	if err == nil {
		if !info.IsDir() {
			return in.fail(entry, fmt.Errorf("%s exists and is not a directory", rel))
		}
		entry.Action = ActionSkipped
		in.logger.Warn("directory already exists", zap.String("path", rel))
		return entry
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return in.fail(entry, err)
	}

	if err := os.MkdirAll(full, 0o755); err != nil {
		return in.fail(entry, err)
	}
	entry.Action = ActionCreated
	in.logger.Info("directory created", zap.String("path", rel))
	return entry
}

// createFile creates an empty file at rel. The parent must already exist.
func (in *Initializer) createFile(root, rel string, overwrite bool) Entry {
	entry := Entry{Path: rel, Kind: KindFile}
	full, err := resolve(root, rel)
	if err != nil {
		return in.fail(entry, err)
	}

	exists := false
	info, err := os.Stat(full)
	switch {
	case err == nil && info.IsDir():
		return in.fail(entry, fmt.Errorf("%s exists and is a directory", rel))
	case err == nil:
		exists = true
	case !errors.Is(err, fs.ErrNotExist):
		return in.fail(entry, err)
	}

	if exists && !overwrite {
		entry.Action = ActionSkipped
		in.logger.Info("file skipped", zap.String("path", rel))
		return entry
	}

	parent := filepath.Dir(full)
	if pinfo, err := os.Stat(parent); err != nil || !pinfo.IsDir() {
		return in.fail(entry, fmt.Errorf("parent directory of %s does not exist", rel))
	}

	f, err := os.OpenFile(full, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return in.fail(entry, err)
	}
	if err := f.Close(); err != nil {
		return in.fail(entry, err)
	}

	if exists {
		entry.Action = ActionOverwritten
		in.logger.Info("file overwritten", zap.String("path", rel))
	} else {
		entry.Action = ActionCreated
		in.logger.Info("file created", zap.String("path", rel))
	}
	return entry
}

func (in *Initializer) fail(entry Entry, err error) Entry {
	entry.Action = ActionFailed
	entry.Err = err
	in.logger.Error("could not create "+string(entry.Kind), zap.String("path", entry.Path), zap.Error(err))
	return entry
}

// resolve joins rel onto root and refuses paths that escape it.
func resolve(root, rel string) (string, error) {
	if rel == "" || filepath.IsAbs(rel) || strings.HasPrefix(rel, "/") {
		return "", fmt.Errorf("invalid path %q: must be relative to the root", rel)
	}
	full := filepath.Join(root, filepath.FromSlash(rel))
	back, err := filepath.Rel(root, full)
	if err != nil {
		return "", err
	}
	if back == ".." || strings.HasPrefix(back, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("path traversal not allowed: %s", rel)
	}
	return full, nil
}
