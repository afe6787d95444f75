package xer

import (
	"fmt"
	"log/slog"
	"strings"
)

// Section markers. Each appears at the start of a line, followed by a tab
// and the marker's payload.
const (
	markerTable  = "%T"
	markerFields = "%F"
	markerRow    = "%R"
	markerEnd    = "%E"
)

// KnownTables is the fixed set of section names every extraction attempts.
// Sections found in the file but not listed here are extracted under their
// own name anyway, so unfamiliar exporter output is never dropped.
var KnownTables = []string{
	"PROJECT", "TASK", "PROJWBS", "TASKPRED",
	"CALENDAR", "RSRC", "TASKRSRC", "RSRCRATE",
	"ACTVTYPE", "ACTVCODE", "TASKACTV",
	"UDFTYPE", "UDFVALUE",
	"ACCOUNT", "TASKFIN", "TRSRCFIN",
	"MEMOTYPE", "TASKMEMO", "PROJMEMO",
	"NONWORK", "WORKTIME",
}

var knownTableSet = func() map[string]bool {
	m := make(map[string]bool, len(KnownTables))
	for _, name := range KnownTables {
		m[name] = true
	}
	return m
}()

// ExtractStats records row-level accommodations made while slicing a file
// into tables. None of these abort the parse; they feed the caller's
// data-quality reporting.
type ExtractStats struct {
	TablesFound      int
	UnknownTables    []string // extracted but not in KnownTables
	HeaderlessTables []string // %T with no %F — no RawTable produced
	EmptyTables      []string // header but zero data rows — no RawTable produced
	PaddedRows       int      // rows shorter than the header
	TruncatedRows    int      // rows longer than the header
	SynthesizedCols  int      // placeholder columns added for headerless data
}

// ExtractTables slices decoded XER text into named RawTables.
//
// A %T line opens a section (implicitly closing any open one), %F declares
// its header, %R lines are data, %E closes it. Blank lines are ignored.
// After collection each table's rows are normalized so every row length
// equals the header length: headers grow placeholder columns or shrink to
// the widest row, and rows are padded or truncated to match.
//
// The first occurrence of a section name wins; repeated sections are logged
// and ignored.
func ExtractTables(text string) (map[string]*RawTable, *ExtractStats) {
	tables := make(map[string]*RawTable)
	stats := &ExtractStats{}

	var open *rawSection
	closeOpen := func() {
		if open == nil {
			return
		}
		finishSection(open, tables, stats)
		open = nil
	}

	for line := range strings.Lines(text) {
		line = strings.TrimRight(line, "\r\n")
		if strings.TrimSpace(line) == "" {
			continue
		}

		fields := strings.Split(line, "\t")
		switch fields[0] {
		case markerTable:
			closeOpen()
			if len(fields) > 1 && fields[1] != "" {
				open = &rawSection{name: fields[1]}
			}
		case markerFields:
			if open != nil {
				open.columns = fields[1:]
				open.hasHeader = true
			}
		case markerRow:
			if open != nil {
				open.rows = append(open.rows, fields[1:])
			}
		case markerEnd:
			closeOpen()
		}
	}
	closeOpen()

	stats.TablesFound = len(tables)
	return tables, stats
}

type rawSection struct {
	name      string
	columns   []string
	hasHeader bool
	rows      [][]string
}

// finishSection normalizes a collected section and files it under its name.
// Sections without a header or without data rows yield no RawTable; both are
// logged so "absent" and "empty" stay distinguishable in diagnostics.
func finishSection(sec *rawSection, tables map[string]*RawTable, stats *ExtractStats) {
	if _, dup := tables[sec.name]; dup {
		slog.Debug("duplicate table section ignored", "table", sec.name)
		return
	}
	if !sec.hasHeader {
		stats.HeaderlessTables = append(stats.HeaderlessTables, sec.name)
		slog.Warn("table has no header row", "table", sec.name)
		return
	}
	if len(sec.rows) == 0 {
		stats.EmptyTables = append(stats.EmptyTables, sec.name)
		slog.Debug("table has no data rows", "table", sec.name)
		return
	}

	maxLen := 0
	for _, row := range sec.rows {
		if len(row) > maxLen {
			maxLen = len(row)
		}
	}

	columns := sec.columns
	switch {
	case len(columns) < maxLen:
		// Data wider than the declared header: keep the extra positions
		// addressable under synthesized names rather than dropping them.
		for i := len(columns); i < maxLen; i++ {
			columns = append(columns, fmt.Sprintf("col_%d", i))
			stats.SynthesizedCols++
		}
	case len(columns) > maxLen:
		columns = columns[:maxLen]
	}

	rows := make([][]string, 0, len(sec.rows))
	for _, row := range sec.rows {
		switch {
		case len(row) < len(columns):
			padded := make([]string, len(columns))
			copy(padded, row)
			row = padded
			stats.PaddedRows++
		case len(row) > len(columns):
			row = row[:len(columns)]
			stats.TruncatedRows++
		}
		rows = append(rows, row)
	}

	if !knownTableSet[sec.name] {
		stats.UnknownTables = append(stats.UnknownTables, sec.name)
	}

	tables[sec.name] = &RawTable{
		Name:    sec.name,
		Columns: columns,
		Rows:    rows,
	}
}
