package xlsx

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/klytics/sheetkit/internal/sheet"
)

func sampleRows() []sheet.Row {
	return []sheet.Row{
		{Index: 0, Cells: []sheet.Cell{
			{Column: 1, Reference: "A0", Value: "Name", Header: true},
			{Column: 2, Reference: "B0", Value: "Age", Header: true},
		}},
		{Index: 1, Cells: []sheet.Cell{
			{Column: 1, Reference: "A1", Value: "Alice"},
			{Column: 2, Reference: "B1", Value: "30"},
		}},
	}
}

func TestWriteAndRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.xlsx")

	w, err := Create(path)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	defer w.Close()

	idx, err := w.AddStyle(DefaultHeaderStyle())
	if err != nil {
		t.Fatalf("AddStyle failed: %v", err)
	}
	if idx != sheet.HeaderStyleIndex {
		t.Fatalf("first style index = %d, want %d", idx, sheet.HeaderStyleIndex)
	}

	part, err := w.AddWorksheet(sampleRows())
	if err != nil {
		t.Fatalf("AddWorksheet failed: %v", err)
	}
	if err := w.RegisterSheet(part, 1, "People"); err != nil {
		t.Fatalf("RegisterSheet failed: %v", err)
	}
	if err := w.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Fatal("Save did not create the file")
	}

	contents, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if len(contents.Sheets) != 1 {
		t.Fatalf("expected 1 sheet, got %d", len(contents.Sheets))
	}

	s, err := contents.Sheet("People")
	if err != nil {
		t.Fatal(err)
	}
	if len(s.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(s.Rows))
	}
	if s.Rows[0][0] != "Name" || s.Rows[1][0] != "Alice" || s.Rows[1][1] != "30" {
		t.Errorf("unexpected rows: %v", s.Rows)
	}
	if len(s.HeaderStyled) != 2 || s.HeaderStyled[0] != "A1" || s.HeaderStyled[1] != "B1" {
		t.Errorf("expected header cells A1,B1 styled, got %v", s.HeaderStyled)
	}
}

func TestRegisterSheetOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "order.xlsx")
	w, err := Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	names := []string{"One", "Two", "Three"}
	for i, name := range names {
		part, err := w.AddWorksheet(nil)
		if err != nil {
			t.Fatal(err)
		}
		if err := w.RegisterSheet(part, i+1, name); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Save(); err != nil {
		t.Fatal(err)
	}

	contents, err := ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	for i, name := range names {
		if contents.Sheets[i].Name != name {
			t.Errorf("sheet %d = %q, want %q", i, contents.Sheets[i].Name, name)
		}
	}
}

func TestRegisterSheetRejectsGaps(t *testing.T) {
	w, err := Create(filepath.Join(t.TempDir(), "gap.xlsx"))
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	part, _ := w.AddWorksheet(nil)
	if err := w.RegisterSheet(part, 2, "Skipped"); err == nil {
		t.Error("expected error for sheet id out of sequence")
	}
	if err := w.RegisterSheet("rId99", 1, "Missing"); err == nil {
		t.Error("expected error for unknown part")
	}
}

func TestHeaderCellWithoutStyle(t *testing.T) {
	w, err := Create(filepath.Join(t.TempDir(), "nostyle.xlsx"))
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	part, _ := w.AddWorksheet(sampleRows())
	if err := w.RegisterSheet(part, 1, "S"); err == nil {
		t.Error("expected error when header cell references an undefined style")
	}
}

func TestSaveRejectsUnregisteredParts(t *testing.T) {
	w, err := Create(filepath.Join(t.TempDir(), "dangling.xlsx"))
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	if _, err := w.AddWorksheet(nil); err != nil {
		t.Fatal(err)
	}
	if err := w.Save(); err == nil {
		t.Error("expected error for unregistered part")
	}
}

func TestCreateRequiresPath(t *testing.T) {
	if _, err := Create(""); err == nil {
		t.Error("expected error for empty path")
	}
}

func TestReadFileNotFound(t *testing.T) {
	_, err := ReadFile("/nonexistent/file.xlsx")
	if err == nil {
		t.Error("expected error for missing file")
	}
}

func TestContentsSheetMissing(t *testing.T) {
	c := &Contents{Sheets: []SheetContents{{Name: "One"}}}
	if _, err := c.Sheet("Two"); err == nil {
		t.Error("expected error for missing sheet")
	}
}

func TestRegisterSheetRejectsDuplicateNames(t *testing.T) {
	w, err := Create(filepath.Join(t.TempDir(), "dup.xlsx"))
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	part, _ := w.AddWorksheet(nil)
	if err := w.RegisterSheet(part, 1, "Data"); err != nil {
		t.Fatal(err)
	}

	for _, name := range []string{"Data", "DATA"} {
		part, _ := w.AddWorksheet(nil)
		if err := w.RegisterSheet(part, 2, name); err == nil {
			t.Errorf("expected error registering %q next to Data", name)
		}
	}
}

func TestRegisterSheetRenamesDefaultFirst(t *testing.T) {
	path := filepath.Join(t.TempDir(), "default.xlsx")
	w, err := Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	// The first registration takes over the default sheet even when it
	// reuses the default name.
	for i, name := range []string{"Sheet1", "Sheet2"} {
		part, _ := w.AddWorksheet(nil)
		if err := w.RegisterSheet(part, i+1, name); err != nil {
			t.Fatalf("RegisterSheet(%q): %v", name, err)
		}
	}
	if err := w.Save(); err != nil {
		t.Fatal(err)
	}

	contents, err := ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(contents.Sheets) != 2 {
		t.Fatalf("expected 2 sheets, got %d", len(contents.Sheets))
	}
}
