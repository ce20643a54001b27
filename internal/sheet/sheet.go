// Package sheet records sheet authoring steps and replays them into rows and
// cells only when the sheet is forced.
package sheet

// HeaderStyleIndex is the style index header cells point at: the single style
// record a workbook build emits.
const HeaderStyleIndex = 0

// Sheet is a materialized sheet. It is produced once, when a Lazy handle is
// forced, and is not modified afterwards.
type Sheet struct {
	Name string `json:"name"`
	Rows []Row  `json:"rows"`
}

// Row is one physical row. Index is 0-based.
type Row struct {
	Index int    `json:"index"`
	Cells []Cell `json:"cells"`
}

// Cell is a string-valued cell. Column is 1-based and Reference is the column
// letters followed by the row index of the row holding the cell.
type Cell struct {
	Column    int    `json:"column"`
	Reference string `json:"reference"`
	Value     string `json:"value"`
	Header    bool   `json:"header,omitempty"`
}

// StyleIndex reports the style index attached to the cell. Only header cells
// carry one.
func (c Cell) StyleIndex() (int, bool) {
	if c.Header {
		return HeaderStyleIndex, true
	}
	return 0, false
}

// CellCount returns the number of cells across all rows.
func (s *Sheet) CellCount() int {
	n := 0
	for _, row := range s.Rows {
		n += len(row.Cells)
	}
	return n
}
