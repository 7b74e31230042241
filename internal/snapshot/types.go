package snapshot

import (
	"time"

	"github.com/imagenespdf/projkit/internal/filter"
)

// Section is one captured file.
type Section struct {
	// RelPath is root-relative with forward slashes.
	RelPath     string
	FullPath    string
	Description string
	Size        int64
	Content     string
	Err         error
}

// HasDescription reports whether a description was found.
func (s Section) HasDescription() bool {
	return s.Description != ""
}

// Stats is the trailing statistics block.
type Stats struct {
	Processed  int
	Errors     int
	Characters int
	TotalBytes int64
	Filter     filter.Config
	Gitignore  bool
}

// Document is a snapshot ready to be serialized. It is built once per run.
type Document struct {
	Root        string
	RunID       string
	GeneratedAt time.Time
	// Git is the formatted repository line; empty outside a repository.
	Git      string
	Sections []Section
	Stats    Stats
}

// Processed is the number of files read successfully.
func (d *Document) Processed() int {
	return d.Stats.Processed
}

// Errors is the number of files that could not be read.
func (d *Document) Errors() int {
	return d.Stats.Errors
}

// Candidate is a file that passed the filter, before it is read.
type Candidate struct {
	RelPath     string
	FullPath    string
	Size        int64
	Description string
}
