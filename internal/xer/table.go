package xer

// RawTable is one named XER section: an ordered column header and the data
// rows beneath it. After extraction every row has exactly len(Columns) cells;
// a cell holds the empty string where the source had no value.
type RawTable struct {
	Name    string
	Columns []string
	Rows    [][]string

	colIndex map[string]int
}

// Col returns the position of the named column, or -1 if the table does not
// declare it. Column names are case-sensitive P6 identifiers.
func (t *RawTable) Col(name string) int {
	if t.colIndex == nil {
		t.colIndex = make(map[string]int, len(t.Columns))
		for i, c := range t.Columns {
			if _, dup := t.colIndex[c]; !dup {
				t.colIndex[c] = i
			}
		}
	}
	if i, ok := t.colIndex[name]; ok {
		return i
	}
	return -1
}

// Value returns the cell for the named column in the given row, or "" when
// the column is absent.
func (t *RawTable) Value(row []string, name string) string {
	i := t.Col(name)
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

// HasColumns reports whether the table declares every named column.
func (t *RawTable) HasColumns(names ...string) bool {
	for _, n := range names {
		if t.Col(n) < 0 {
			return false
		}
	}
	return true
}
