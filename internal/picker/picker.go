// Package picker lets the user narrow a snapshot interactively with a fuzzy
// finder.
package picker

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"
	fuzzyfinder "github.com/ktr0731/go-fuzzyfinder"

	"github.com/imagenespdf/projkit/internal/snapshot"
)

// ErrNoCandidates is returned when the filter left nothing to choose from.
var ErrNoCandidates = errors.New("no files to select from")

const header = "Tab para marcar varios archivos, Enter para confirmar"

// FuzzySelector implements snapshot.Selector.
type FuzzySelector struct {
	find func(candidates []snapshot.Candidate) ([]int, error)
}

// New returns a selector backed by the terminal fuzzy finder.
func New() *FuzzySelector {
	return &FuzzySelector{find: findMulti}
}

// Select shows candidates and returns the marked ones in their original
// order. Esc or Ctrl+C yields snapshot.ErrSelectionAborted.
func (s *FuzzySelector) Select(candidates []snapshot.Candidate) ([]snapshot.Candidate, error) {
	if len(candidates) == 0 {
		return nil, ErrNoCandidates
	}

	idx, err := s.find(candidates)
	if err != nil {
		if errors.Is(err, fuzzyfinder.ErrAbort) {
			return nil, snapshot.ErrSelectionAborted
		}
		return nil, fmt.Errorf("fuzzy finder error: %w", err)
	}

	sort.Ints(idx)
	selected := make([]snapshot.Candidate, 0, len(idx))
	for i, index := range idx {
		if index < 0 || index >= len(candidates) || (i > 0 && idx[i-1] == index) {
			continue
		}
		selected = append(selected, candidates[index])
	}
	return selected, nil
}

func findMulti(candidates []snapshot.Candidate) ([]int, error) {
	return fuzzyfinder.FindMulti(
		candidates,
		func(i int) string { return candidates[i].RelPath },
		fuzzyfinder.WithHeader(header),
		fuzzyfinder.WithPreviewWindow(func(i, w, h int) string {
			if i == -1 {
				return header
			}
			return preview(candidates[i], h)
		}),
	)
}

// preview describes c and shows up to the first lines of its content.
func preview(c snapshot.Candidate, lines int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Archivo: %s\n", c.RelPath)
	if c.Description != "" {
		fmt.Fprintf(&b, "Propósito: %s\n", c.Description)
	}
	fmt.Fprintf(&b, "Tamaño: %s\n\n", humanize.Bytes(uint64(c.Size)))

	f, err := os.Open(c.FullPath)
	if err != nil {
		fmt.Fprintf(&b, "Error: %v", err)
		return b.String()
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for n := 0; n < lines && scanner.Scan(); n++ {
		b.WriteString(scanner.Text())
		b.WriteByte('\n')
	}
	return b.String()
}
