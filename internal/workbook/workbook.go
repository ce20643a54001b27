// Package workbook assembles deferred sheets into a workbook package on disk.
package workbook

import (
	"errors"
	"fmt"
	"strings"

	"github.com/klytics/sheetkit/internal/formats/xlsx"
	"github.com/klytics/sheetkit/internal/sheet"
)

var (
	// ErrAlreadyExists is returned when the destination exists and the
	// overwrite policy is FailIfExists.
	ErrAlreadyExists = errors.New("destination already exists")
	// ErrMissingPath is returned when Build is called before WithPath.
	ErrMissingPath = errors.New("no destination path set")
	// ErrDuplicateSheet is returned when two queued sheets share a name.
	// Names compare without case, as spreadsheet applications do.
	ErrDuplicateSheet = errors.New("duplicate sheet name")
)

// OverwritePolicy decides what Build does with an existing destination.
type OverwritePolicy int

const (
	// Overwrite replaces an existing destination.
	Overwrite OverwritePolicy = iota
	// FailIfExists aborts the build with ErrAlreadyExists.
	FailIfExists
)

func (p OverwritePolicy) String() string {
	if p == FailIfExists {
		return "fail-if-exists"
	}
	return "overwrite"
}

// ParseOverwritePolicy accepts "overwrite" or "fail-if-exists" (also "fail").
func ParseOverwritePolicy(s string) (OverwritePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "overwrite":
		return Overwrite, nil
	case "fail", "fail-if-exists", "no-overwrite":
		return FailIfExists, nil
	}
	return Overwrite, fmt.Errorf("unknown overwrite policy %q — use overwrite or fail-if-exists", s)
}

// Package is the package writer a build drives. Parts are identified by the
// string AddWorksheet returns.
type Package interface {
	AddStyle(s xlsx.Style) (int, error)
	AddWorksheet(rows []sheet.Row) (string, error)
	RegisterSheet(part string, sheetID int, name string) error
	Save() error
	Close() error
}

// Opener creates a new, empty package that saves to path.
type Opener func(path string) (Package, error)

// OpenXLSX is the default Opener.
func OpenXLSX(path string) (Package, error) {
	return xlsx.Create(path)
}

// SheetEntry describes one registered sheet in a built workbook.
type SheetEntry struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Part  string `json:"part"`
	Rows  int    `json:"rows"`
	Cells int    `json:"cells"`
}

// Manifest summarizes a completed build.
type Manifest struct {
	Path   string       `json:"path"`
	Sheets []SheetEntry `json:"sheets"`
}

// RowCount returns the number of rows across all sheets.
func (m *Manifest) RowCount() int {
	n := 0
	for _, s := range m.Sheets {
		n += s.Rows
	}
	return n
}

// Builder collects deferred sheets and writes them out on Build.
// A Builder is not safe for concurrent use.
type Builder struct {
	path        string
	policy      OverwritePolicy
	sheets      []*sheet.Lazy
	open        Opener
	headerStyle xlsx.Style
}

// NewBuilder returns a builder with the Overwrite policy and the xlsx writer.
func NewBuilder() *Builder {
	return &Builder{
		policy:      Overwrite,
		open:        OpenXLSX,
		headerStyle: xlsx.DefaultHeaderStyle(),
	}
}

// WithPath sets the destination file.
func (b *Builder) WithPath(path string) *Builder {
	b.path = path
	return b
}

// WithOverwriteFile replaces an existing destination on Build. This is the default.
func (b *Builder) WithOverwriteFile() *Builder {
	b.policy = Overwrite
	return b
}

// WithNonOverwriteFile makes Build fail if the destination exists.
func (b *Builder) WithNonOverwriteFile() *Builder {
	b.policy = FailIfExists
	return b
}

// WithOverwritePolicy sets the policy directly.
func (b *Builder) WithOverwritePolicy(p OverwritePolicy) *Builder {
	b.policy = p
	return b
}

// WithSheet queues a deferred sheet. The sheet is not forced until Build.
func (b *Builder) WithSheet(s *sheet.Lazy) *Builder {
	b.sheets = append(b.sheets, s)
	return b
}

// WithOpener replaces the package writer.
func (b *Builder) WithOpener(open Opener) *Builder {
	b.open = open
	return b
}

// WithHeaderStyle replaces the style record header cells reference.
func (b *Builder) WithHeaderStyle(s xlsx.Style) *Builder {
	b.headerStyle = s
	return b
}

// Path returns the destination.
func (b *Builder) Path() string { return b.path }

// Policy returns the overwrite policy.
func (b *Builder) Policy() OverwritePolicy { return b.policy }

// Pending returns the number of queued sheets.
func (b *Builder) Pending() int { return len(b.sheets) }
