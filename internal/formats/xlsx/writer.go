package xlsx

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/klytics/sheetkit/internal/sheet"
)

// Style is a minimal cell style record: one font and one solid fill.
type Style struct {
	Bold      bool    `mapstructure:"bold" json:"bold"`
	FontSize  float64 `mapstructure:"font_size" json:"font_size"`
	FontColor string  `mapstructure:"font_color" json:"font_color"`
	FillColor string  `mapstructure:"fill_color" json:"fill_color"`
}

// DefaultHeaderStyle is the record header cells reference: bold 21pt magenta
// text on a green fill.
func DefaultHeaderStyle() Style {
	return Style{
		Bold:      true,
		FontSize:  21,
		FontColor: "FF00FF",
		FillColor: "00FF00",
	}
}

// Writer assembles a workbook package with excelize and saves it to a path.
// Worksheets are staged by AddWorksheet and only written into the package
// when they are registered with a sheet id and name.
type Writer struct {
	path       string
	file       *excelize.File
	styles     []int
	parts      map[string][]sheet.Row
	partCount  int
	registered int
}

// Create opens a new, empty package that Save will write to path.
func Create(path string) (*Writer, error) {
	if path == "" {
		return nil, fmt.Errorf("no output path given for workbook")
	}
	return &Writer{
		path:  path,
		file:  excelize.NewFile(),
		parts: make(map[string][]sheet.Row),
	}, nil
}

// AddStyle adds a record to the shared style table and returns its index in
// the order records were added, starting at 0.
func (w *Writer) AddStyle(s Style) (int, error) {
	st := &excelize.Style{
		Font: &excelize.Font{
			Bold:  s.Bold,
			Size:  s.FontSize,
			Color: s.FontColor,
		},
	}
	if s.FillColor != "" {
		st.Fill = excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{s.FillColor}}
	}

	id, err := w.file.NewStyle(st)
	if err != nil {
		return 0, fmt.Errorf("could not add style: %w", err)
	}
	w.styles = append(w.styles, id)
	return len(w.styles) - 1, nil
}

// AddWorksheet stages a worksheet part and returns its relationship id.
func (w *Writer) AddWorksheet(rows []sheet.Row) (string, error) {
	w.partCount++
	part := "rId" + strconv.Itoa(w.partCount)
	w.parts[part] = rows
	return part, nil
}

// RegisterSheet writes a staged part into the package under name. Sheet ids
// must be registered densely from 1.
func (w *Writer) RegisterSheet(part string, sheetID int, name string) error {
	rows, ok := w.parts[part]
	if !ok {
		return fmt.Errorf("unknown worksheet part %q", part)
	}
	if sheetID != w.registered+1 {
		return fmt.Errorf("sheet id %d out of sequence, expected %d", sheetID, w.registered+1)
	}
	if w.registered > 0 && w.hasSheet(name) {
		return fmt.Errorf("sheet name %q is already registered", name)
	}

	if w.registered == 0 {
		// Rename default sheet
		defaultSheet := w.file.GetSheetName(0)
		if err := w.file.SetSheetName(defaultSheet, name); err != nil {
			return fmt.Errorf("could not rename sheet: %w", err)
		}
	} else {
		if _, err := w.file.NewSheet(name); err != nil {
			return fmt.Errorf("could not create sheet %q: %w", name, err)
		}
	}

	if err := w.writeRows(name, rows); err != nil {
		return err
	}

	delete(w.parts, part)
	w.registered++
	return nil
}

// hasSheet reports whether name is taken. Sheet names compare without case.
func (w *Writer) hasSheet(name string) bool {
	for _, existing := range w.file.GetSheetList() {
		if strings.EqualFold(existing, name) {
			return true
		}
	}
	return false
}

// writeRows writes rows into the named sheet. Row indices are 0-based while
// SpreadsheetML rows start at 1, so every row is shifted down by one.
func (w *Writer) writeRows(name string, rows []sheet.Row) error {
	for _, row := range rows {
		for _, c := range row.Cells {
			cellName, err := excelize.CoordinatesToCellName(c.Column, row.Index+1)
			if err != nil {
				return fmt.Errorf("invalid cell coordinates: %w", err)
			}
			if err := w.file.SetCellStr(name, cellName, c.Value); err != nil {
				return fmt.Errorf("could not set cell %s: %w", cellName, err)
			}

			idx, ok := c.StyleIndex()
			if !ok {
				continue
			}
			if idx >= len(w.styles) {
				return fmt.Errorf("cell %s references style %d, only %d defined", c.Reference, idx, len(w.styles))
			}
			if err := w.file.SetCellStyle(name, cellName, cellName, w.styles[idx]); err != nil {
				return fmt.Errorf("could not style cell %s: %w", cellName, err)
			}
		}
	}
	return nil
}

// Save writes the package to its path.
func (w *Writer) Save() error {
	if len(w.parts) > 0 {
		return fmt.Errorf("%d worksheet part(s) added but never registered", len(w.parts))
	}
	if err := w.file.SaveAs(w.path); err != nil {
		return fmt.Errorf("could not save %s: %w", w.path, err)
	}
	return nil
}

// Close releases the package.
func (w *Writer) Close() error {
	return w.file.Close()
}
