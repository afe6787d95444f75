package xer

import (
	"strings"
	"testing"
)

// sampleXER builds a minimal two-table file from the given rows.
func sampleXER(lines ...string) string {
	return strings.Join(lines, "\n") + "\n"
}

func TestExtractTablesBasic(t *testing.T) {
	text := sampleXER(
		"ERMHDR\t19.12",
		"%T\tPROJECT",
		"%F\tproj_id\tproj_short_name",
		"%R\t100\tBridge Rebuild",
		"%E",
		"%T\tTASK",
		"%F\ttask_id\ttask_name\twbs_id",
		"%R\t1000\tMobilize\t10",
		"%R\t1001\tExcavate\t10",
		"%E",
	)

	tables, stats := ExtractTables(text)

	if len(tables) != 2 {
		t.Fatalf("expected 2 tables, got %d", len(tables))
	}
	if stats.TablesFound != 2 {
		t.Errorf("TablesFound = %d, want 2", stats.TablesFound)
	}

	task := tables["TASK"]
	if task == nil {
		t.Fatal("TASK table missing")
	}
	if len(task.Rows) != 2 {
		t.Fatalf("TASK rows = %d, want 2", len(task.Rows))
	}
	if got := task.Value(task.Rows[0], "task_name"); got != "Mobilize" {
		t.Errorf("task_name = %q, want %q", got, "Mobilize")
	}
}

func TestExtractTablesRowNormalization(t *testing.T) {
	tests := []struct {
		name          string
		lines         []string
		wantColumns   int
		wantRowLens   []int
		wantPadded    int
		wantTruncated int
		wantSynth     int
	}{
		{
			name: "short row padded",
			lines: []string{
				"%T\tTASK",
				"%F\ta\tb\tc",
				"%R\t1",
				"%R\t2\t2\t2",
			},
			wantColumns: 3,
			wantRowLens: []int{3, 3},
			wantPadded:  1,
		},
		{
			name: "long row synthesizes header columns",
			lines: []string{
				"%T\tTASK",
				"%F\ta\tb",
				"%R\t1\t2\t3\t4",
			},
			wantColumns: 4,
			wantRowLens: []int{4},
			wantSynth:   2,
		},
		{
			name: "header wider than every row is truncated",
			lines: []string{
				"%T\tTASK",
				"%F\ta\tb\tc\td",
				"%R\t1\t2",
				"%R\t3\t4",
			},
			wantColumns: 2,
			wantRowLens: []int{2, 2},
		},
		{
			name: "mixed pad and truncate against widest row",
			lines: []string{
				"%T\tTASK",
				"%F\ta\tb\tc",
				"%R\t1",
				"%R\t1\t2\t3\t4",
			},
			wantColumns:   4,
			wantRowLens:   []int{4, 4},
			wantPadded:    1,
			wantSynth:     1,
			wantTruncated: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tables, stats := ExtractTables(sampleXER(tt.lines...))
			task := tables["TASK"]
			if task == nil {
				t.Fatal("TASK table missing")
			}
			if len(task.Columns) != tt.wantColumns {
				t.Errorf("columns = %d, want %d", len(task.Columns), tt.wantColumns)
			}
			for i, row := range task.Rows {
				if len(row) != tt.wantRowLens[i] {
					t.Errorf("row %d length = %d, want %d", i, len(row), tt.wantRowLens[i])
				}
				if len(row) != len(task.Columns) {
					t.Errorf("row %d length %d != header length %d", i, len(row), len(task.Columns))
				}
			}
			if stats.PaddedRows != tt.wantPadded {
				t.Errorf("PaddedRows = %d, want %d", stats.PaddedRows, tt.wantPadded)
			}
			if stats.TruncatedRows != tt.wantTruncated {
				t.Errorf("TruncatedRows = %d, want %d", stats.TruncatedRows, tt.wantTruncated)
			}
			if stats.SynthesizedCols != tt.wantSynth {
				t.Errorf("SynthesizedCols = %d, want %d", stats.SynthesizedCols, tt.wantSynth)
			}
		})
	}
}

func TestExtractTablesImplicitClose(t *testing.T) {
	// Second %T arrives while the first section is still open.
	text := sampleXER(
		"%T\tPROJECT",
		"%F\tproj_id",
		"%R\t100",
		"%T\tTASK",
		"%F\ttask_id",
		"%R\t1000",
		"%E",
	)

	tables, _ := ExtractTables(text)
	if tables["PROJECT"] == nil {
		t.Error("PROJECT table lost on implicit close")
	}
	if tables["TASK"] == nil {
		t.Error("TASK table missing")
	}
}

func TestExtractTablesHeaderlessAndEmpty(t *testing.T) {
	text := sampleXER(
		"%T\tNOFIELDS",
		"%R\t1\t2",
		"%E",
		"%T\tNODATA",
		"%F\ta\tb",
		"%E",
		"%T\tTASK",
		"%F\ttask_id",
		"%R\t1000",
		"%E",
	)

	tables, stats := ExtractTables(text)

	if _, ok := tables["NOFIELDS"]; ok {
		t.Error("headerless section should yield no table")
	}
	if _, ok := tables["NODATA"]; ok {
		t.Error("rowless section should yield no table")
	}
	if len(stats.HeaderlessTables) != 1 || stats.HeaderlessTables[0] != "NOFIELDS" {
		t.Errorf("HeaderlessTables = %v, want [NOFIELDS]", stats.HeaderlessTables)
	}
	if len(stats.EmptyTables) != 1 || stats.EmptyTables[0] != "NODATA" {
		t.Errorf("EmptyTables = %v, want [NODATA]", stats.EmptyTables)
	}
	if stats.TablesFound != 1 {
		t.Errorf("TablesFound = %d, want 1", stats.TablesFound)
	}
}

func TestExtractTablesUnknownSection(t *testing.T) {
	text := sampleXER(
		"%T\tFUTURETBL",
		"%F\tx\ty",
		"%R\t1\t2",
		"%E",
	)

	tables, stats := ExtractTables(text)
	if tables["FUTURETBL"] == nil {
		t.Fatal("unknown section should still be extracted")
	}
	if len(stats.UnknownTables) != 1 || stats.UnknownTables[0] != "FUTURETBL" {
		t.Errorf("UnknownTables = %v, want [FUTURETBL]", stats.UnknownTables)
	}
}

func TestExtractTablesFirstSectionWins(t *testing.T) {
	text := sampleXER(
		"%T\tTASK",
		"%F\ttask_id",
		"%R\tfirst",
		"%E",
		"%T\tTASK",
		"%F\ttask_id",
		"%R\tsecond",
		"%E",
	)

	tables, _ := ExtractTables(text)
	task := tables["TASK"]
	if task == nil {
		t.Fatal("TASK table missing")
	}
	if got := task.Rows[0][0]; got != "first" {
		t.Errorf("duplicate section should be ignored, got row %q", got)
	}
}

func TestExtractTablesCRLFAndBlankLines(t *testing.T) {
	text := "%T\tTASK\r\n\r\n%F\ttask_id\ttask_name\r\n%R\t1000\tMobilize\r\n%E\r\n"

	tables, _ := ExtractTables(text)
	task := tables["TASK"]
	if task == nil {
		t.Fatal("TASK table missing")
	}
	if got := task.Value(task.Rows[0], "task_name"); got != "Mobilize" {
		t.Errorf("task_name = %q, want %q (CR not trimmed?)", got, "Mobilize")
	}
}

func TestRawTableValue(t *testing.T) {
	tbl := &RawTable{
		Name:    "TASK",
		Columns: []string{"task_id", "task_name"},
	}
	row := []string{"1000", "Mobilize"}

	if got := tbl.Value(row, "task_id"); got != "1000" {
		t.Errorf("Value(task_id) = %q, want 1000", got)
	}
	if got := tbl.Value(row, "missing_col"); got != "" {
		t.Errorf("Value(missing_col) = %q, want empty", got)
	}
	if tbl.Col("task_name") != 1 {
		t.Errorf("Col(task_name) = %d, want 1", tbl.Col("task_name"))
	}
	if tbl.Col("nope") != -1 {
		t.Errorf("Col(nope) = %d, want -1", tbl.Col("nope"))
	}
}
