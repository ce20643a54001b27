package benchmarks

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/klytics/sheetkit/internal/address"
	"github.com/klytics/sheetkit/internal/definition"
	"github.com/klytics/sheetkit/internal/sheet"
	"github.com/klytics/sheetkit/internal/workbook"
)

var peopleYAML = filepath.Join("..", "testdata", "people.yaml")

func recordSheet(name string, rows, cols int) *sheet.Builder {
	b := sheet.NewBuilder().WithName(name)
	for c := 0; c < cols; c++ {
		b.WithColumnName(fmt.Sprintf("Col%d", c+1))
	}
	for r := 0; r < rows; r++ {
		b.WithNewLine()
		for c := 0; c < cols; c++ {
			b.WithColumnValue(r * c)
		}
	}
	return b
}

// --- Addressing ---

func BenchmarkColumnLetters(b *testing.B) {
	for i := 0; i < b.N; i++ {
		if _, err := address.Letters(i%16384 + 1); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkColumnIndex(b *testing.B) {
	for i := 0; i < b.N; i++ {
		if _, err := address.Index("XFD"); err != nil {
			b.Fatal(err)
		}
	}
}

// --- Sheet replay ---

func BenchmarkSheetForce(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := recordSheet("Data", 100, 10).Build().Force(); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkSheetForceLarge(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := recordSheet("Data", 5000, 20).Build().Force(); err != nil {
			b.Fatal(err)
		}
	}
}

// --- Workbook builds ---

func BenchmarkWorkbookBuild(b *testing.B) {
	dest := filepath.Join(b.TempDir(), "bench.xlsx")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, err := workbook.NewBuilder().
			WithPath(dest).
			WithSheet(recordSheet("One", 100, 10).Build()).
			WithSheet(recordSheet("Two", 100, 10).Build()).
			Build()
		if err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkDefinitionBuild(b *testing.B) {
	def, err := definition.Load(peopleYAML)
	if err != nil {
		b.Fatal(err)
	}
	dest := filepath.Join(b.TempDir(), "people.xlsx")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := def.Apply(workbook.NewBuilder()).WithPath(dest).Build(); err != nil {
			b.Fatal(err)
		}
	}
}
