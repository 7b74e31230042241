// Package snapshot concatenates a filtered set of project files into one
// annotated text document.
package snapshot

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/imagenespdf/projkit/internal/filter"
	"github.com/imagenespdf/projkit/internal/gitinfo"
	"github.com/imagenespdf/projkit/internal/layout"
	"github.com/imagenespdf/projkit/internal/logging"
)

// DefaultOutputFile is written under the root unless overridden.
const DefaultOutputFile = "memory.txt"

const (
	// EmptySentinel replaces the content of empty or blank files.
	EmptySentinel = "[ARCHIVO VACÍO]"
	// readErrorFormat embeds the read error in place of the content.
	readErrorFormat = "[ERROR AL LEER ARCHIVO: %v]"
)

var (
	// ErrRootNotFound is returned when the root is missing or not a directory.
	ErrRootNotFound = errors.New("root directory not found")
	// ErrSelectionAborted is returned by a Selector when the user cancels.
	ErrSelectionAborted = errors.New("selection aborted")
	errInvalidUTF8      = errors.New("invalid UTF-8 content")
)

// Selector narrows the filtered candidates before they are read.
type Selector interface {
	Select(candidates []Candidate) ([]Candidate, error)
}

// SelectorFunc adapts a function to Selector.
type SelectorFunc func([]Candidate) ([]Candidate, error)

// Select calls f.
func (f SelectorFunc) Select(c []Candidate) ([]Candidate, error) {
	return f(c)
}

// Aggregator builds snapshot documents.
type Aggregator struct {
	filter       *filter.Filter
	descriptions layout.Descriptions
	logger       *zap.Logger
	selector     Selector
	outputFile   string
	now          func() time.Time
	runID        func() string
	gitInfo      bool
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(a *Aggregator) { a.logger = logging.OrNop(l) }
}

// WithSelector installs a candidate selector.
func WithSelector(s Selector) Option {
	return func(a *Aggregator) { a.selector = s }
}

// WithOutputFile sets the output path, relative to the root. Its base name
// is excluded from the scan.
func WithOutputFile(name string) Option {
	return func(a *Aggregator) {
		if name != "" {
			a.outputFile = name
		}
	}
}

// WithClock overrides the header timestamp source.
func WithClock(now func() time.Time) Option {
	return func(a *Aggregator) { a.now = now }
}

// WithRunID fixes the run identifier.
func WithRunID(id string) Option {
	return func(a *Aggregator) { a.runID = func() string { return id } }
}

// WithGitInfo toggles the repository line in the header.
func WithGitInfo(enabled bool) Option {
	return func(a *Aggregator) { a.gitInfo = enabled }
}

// New returns an Aggregator. The output file name is added to f's name
// blacklist so a snapshot never captures itself.
func New(f *filter.Filter, descriptions layout.Descriptions, opts ...Option) *Aggregator {
	a := &Aggregator{
		filter:       f,
		descriptions: descriptions,
		logger:       zap.NewNop(),
		outputFile:   DefaultOutputFile,
		now:          time.Now,
		runID:        uuid.NewString,
		gitInfo:      true,
	}
	for _, opt := range opts {
		opt(a)
	}
	a.filter.ExcludeName(filepath.Base(a.outputFile))
	return a
}

// OutputPath returns where Run writes the snapshot for root.
func (a *Aggregator) OutputPath(root string) string {
	return filepath.Join(root, a.outputFile)
}

// Run aggregates root and writes the document to OutputPath(root),
// replacing any previous snapshot.
func (a *Aggregator) Run(root string) (*Document, string, error) {
	doc, err := a.Aggregate(root)
	if err != nil {
		return nil, "", err
	}
	out := a.OutputPath(root)
	if err := doc.WriteFile(out); err != nil {
		return doc, "", err
	}
	return doc, out, nil
}

// Aggregate enumerates, filters, sorts and reads the files under root.
// Unreadable files become error sections; only an invalid root fails.
func (a *Aggregator) Aggregate(root string) (*Document, error) {
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrRootNotFound, root)
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("error resolving root %s: %w", root, err)
	}
	// WalkDir does not descend into a symlinked root.
	walkRoot, err := filepath.EvalSymlinks(absRoot)
	if err != nil {
		return nil, fmt.Errorf("error resolving root %s: %w", root, err)
	}

	candidates, err := a.collect(walkRoot)
	if err != nil {
		return nil, err
	}
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].FullPath < candidates[j].FullPath
	})
	a.logger.Debug("files selected", zap.Int("count", len(candidates)))

	if a.selector != nil {
		candidates, err = a.selector.Select(candidates)
		if err != nil {
			return nil, err
		}
	}

	doc := &Document{
		Root:        absRoot,
		RunID:       a.runID(),
		GeneratedAt: a.now(),
		Git:         a.describeGit(absRoot),
		Sections:    make([]Section, 0, len(candidates)),
	}
	doc.Stats.Filter = a.filter.Config()
	doc.Stats.Gitignore = a.filter.UsesGitignore()

	for _, c := range candidates {
		sec := a.read(c)
		if sec.Err != nil {
			doc.Stats.Errors++
		} else {
			doc.Stats.Processed++
			doc.Stats.TotalBytes += sec.Size
		}
		doc.Sections = append(doc.Sections, sec)
	}
	doc.Stats.Characters = utf8.RuneCountInString(doc.body())

	a.logger.Info("snapshot assembled",
		zap.Int("processed", doc.Stats.Processed),
		zap.Int("errors", doc.Stats.Errors),
		zap.Int("characters", doc.Stats.Characters),
	)
	return doc, nil
}

// collect walks absRoot and returns the files that pass the filter.
func (a *Aggregator) collect(absRoot string) ([]Candidate, error) {
	var out []Candidate
	err := filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == absRoot {
				return err
			}
			a.logger.Warn("error accessing path", zap.String("path", path), zap.Error(err))
			return nil
		}
		if path == absRoot {
			return nil
		}

		rel, err := filepath.Rel(absRoot, path)
		if err != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if a.filter.SkipDir(rel) {
				return fs.SkipDir
			}
			return nil
		}

		if !a.filter.ShouldInclude(d.Name(), rel) {
			return nil
		}

		info, err := os.Stat(path)
		if err != nil {
			a.logger.Warn("could not get info", zap.String("path", rel), zap.Error(err))
			return nil
		}
		if !info.Mode().IsRegular() {
			return nil
		}

		c := Candidate{RelPath: rel, FullPath: path, Size: info.Size()}
		if desc, ok := a.descriptions.LookupName(d.Name()); ok {
			c.Description = desc
		}
		out = append(out, c)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error walking directory %s: %w", absRoot, err)
	}
	return out, nil
}

// read loads one candidate. Failures are reported in the section.
func (a *Aggregator) read(c Candidate) Section {
	sec := Section{
		RelPath:     c.RelPath,
		FullPath:    c.FullPath,
		Description: c.Description,
		Size:        c.Size,
	}

	data, err := readFile(c.FullPath)
	if err != nil {
		a.logger.Warn("could not read file", zap.String("path", c.RelPath), zap.Error(err))
		sec.Err = err
		sec.Content = fmt.Sprintf(readErrorFormat, err)
		return sec
	}

	sec.Size = int64(len(data))
	if strings.TrimSpace(string(data)) == "" {
		sec.Content = EmptySentinel
	} else {
		sec.Content = string(data)
	}
	return sec
}

func readFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	if !utf8.Valid(data) {
		return nil, errInvalidUTF8
	}
	return data, nil
}

func (a *Aggregator) describeGit(absRoot string) string {
	if !a.gitInfo {
		return ""
	}
	info, err := gitinfo.Describe(absRoot)
	if err != nil {
		if !errors.Is(err, gitinfo.ErrNotRepository) {
			a.logger.Warn("could not read git state", zap.Error(err))
		}
		return ""
	}
	return info.String()
}
