// Package xlsx writes workbook packages with excelize and reads them back.
package xlsx

import (
	"fmt"
	"os"

	"github.com/xuri/excelize/v2"
)

// SheetContents is the text content of one worksheet in a saved package.
type SheetContents struct {
	Name string     `json:"name"`
	Rows [][]string `json:"rows"`
	// HeaderStyled holds the cell names whose style has a bold font.
	HeaderStyled []string `json:"header_styled,omitempty"`
}

// Contents is the text content of a saved package, in sheet order.
type Contents struct {
	Sheets []SheetContents `json:"sheets"`
}

// ReadFile opens a saved package and returns its contents.
func ReadFile(path string) (*Contents, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("file not found: %s — check that the path is correct", path)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not open %s — is this a valid .xlsx file? %w", path, err)
	}
	defer f.Close()

	return readContents(f)
}

func readContents(f *excelize.File) (*Contents, error) {
	out := &Contents{}

	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil {
			return nil, fmt.Errorf("could not read sheet %q: %w", name, err)
		}

		sc := SheetContents{
			Name: name,
			Rows: rows,
		}

		for r, row := range rows {
			for c := range row {
				cellName, err := excelize.CoordinatesToCellName(c+1, r+1)
				if err != nil {
					return nil, err
				}
				bold, err := isBold(f, name, cellName)
				if err != nil {
					return nil, err
				}
				if bold {
					sc.HeaderStyled = append(sc.HeaderStyled, cellName)
				}
			}
		}
		out.Sheets = append(out.Sheets, sc)
	}

	return out, nil
}

func isBold(f *excelize.File, sheetName, cellName string) (bool, error) {
	id, err := f.GetCellStyle(sheetName, cellName)
	if err != nil {
		return false, fmt.Errorf("could not read style of %s: %w", cellName, err)
	}
	if id == 0 {
		return false, nil
	}
	st, err := f.GetStyle(id)
	if err != nil {
		return false, fmt.Errorf("could not read style %d: %w", id, err)
	}
	return st.Font != nil && st.Font.Bold, nil
}

// Sheet returns the named sheet's contents.
func (c *Contents) Sheet(name string) (*SheetContents, error) {
	for i := range c.Sheets {
		if c.Sheets[i].Name == name {
			return &c.Sheets[i], nil
		}
	}

	available := make([]string, len(c.Sheets))
	for i, s := range c.Sheets {
		available[i] = s.Name
	}
	return nil, fmt.Errorf("sheet %q not found — available sheets: %v", name, available)
}
