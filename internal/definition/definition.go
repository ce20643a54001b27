// Package definition loads declarative workbook definitions and drives the
// sheet and workbook builders from them.
package definition

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/klytics/sheetkit/internal/sheet"
	"github.com/klytics/sheetkit/internal/workbook"
)

// ErrInvalidDefinition wraps every validation failure.
var ErrInvalidDefinition = errors.New("invalid workbook definition")

// Workbook is a complete workbook definition. JSON documents decode too.
type Workbook struct {
	Output    string  `yaml:"output,omitempty" json:"output,omitempty"`
	Overwrite *bool   `yaml:"overwrite,omitempty" json:"overwrite,omitempty"`
	Sheets    []Sheet `yaml:"sheets" json:"sheets"`
}

// Sheet defines one sheet: an optional header row followed by data rows.
type Sheet struct {
	Name    string  `yaml:"name" json:"name"`
	Headers []any   `yaml:"headers,omitempty" json:"headers,omitempty"`
	Rows    [][]any `yaml:"rows" json:"rows"`
}

// Load reads and parses a definition file.
func Load(path string) (*Workbook, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("definition file not found: %s — check that the path is correct", path)
		}
		return nil, fmt.Errorf("could not read definition file %s: %w", path, err)
	}

	return Parse(data)
}

// Parse parses a definition from YAML or JSON bytes.
func Parse(data []byte) (*Workbook, error) {
	var w Workbook
	if err := yaml.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDefinition, err)
	}

	if err := validate(&w); err != nil {
		return nil, err
	}

	return &w, nil
}

func validate(w *Workbook) error {
	if len(w.Sheets) == 0 {
		return fmt.Errorf("%w: no sheets defined", ErrInvalidDefinition)
	}

	seen := make(map[string]bool)
	for i, s := range w.Sheets {
		if s.Name == "" {
			return fmt.Errorf("%w: sheet %d is missing a 'name' field", ErrInvalidDefinition, i+1)
		}
		key := strings.ToLower(s.Name)
		if seen[key] {
			return fmt.Errorf("%w: duplicate sheet name %q — sheet names must be unique, ignoring case", ErrInvalidDefinition, s.Name)
		}
		seen[key] = true
	}

	return nil
}

// Builder records the sheet on a new sheet builder: header cells on row 0,
// then one new line before each data row.
func (s Sheet) Builder() *sheet.Builder {
	b := sheet.NewBuilder().WithName(s.Name)

	for _, h := range s.Headers {
		b.WithColumnName(h)
	}
	for i, row := range s.Rows {
		if i > 0 || len(s.Headers) > 0 {
			b.WithNewLine()
		}
		for _, v := range row {
			b.WithColumnValue(v)
		}
	}

	return b
}

// Apply queues every sheet on b and applies the definition's output and
// overwrite settings when present.
func (w *Workbook) Apply(b *workbook.Builder) *workbook.Builder {
	if w.Output != "" {
		b.WithPath(w.Output)
	}
	if w.Overwrite != nil {
		if *w.Overwrite {
			b.WithOverwriteFile()
		} else {
			b.WithNonOverwriteFile()
		}
	}

	for _, s := range w.Sheets {
		b.WithSheet(s.Builder().Build())
	}
	return b
}

// RowCount returns the number of physical rows the definition produces.
func (w *Workbook) RowCount() int {
	n := 0
	for _, s := range w.Sheets {
		n += len(s.Rows)
		if len(s.Headers) > 0 {
			n++
		}
	}
	return n
}
