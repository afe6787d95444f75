package schedule

// mapper.go transforms extracted RawTables into typed domain records.
//
// The mapper is a total function over whatever the extractor produced: rows
// missing a required key are skipped with a counter, per-field parse
// failures take type defaults with a counter, and absent tables degrade to
// empty output. It performs no cross-referential validation — a WBS row may
// name a parent that does not exist if the source file does.

import (
	"fmt"
	"log/slog"

	"github.com/schedfoundation/xerimport/internal/xer"
)

// MapStats counts every accommodation made while mapping, so callers can
// surface data-quality warnings without failing the import.
type MapStats struct {
	WbsMapped            int      `json:"wbs_mapped"`
	WbsSkipped           int      `json:"wbs_skipped"`
	ActivitiesMapped     int      `json:"activities_mapped"`
	ActivitiesSkipped    int      `json:"activities_skipped"`
	RelationshipsMapped  int      `json:"relationships_mapped"`
	RelationshipsSkipped int      `json:"relationships_skipped"`
	FieldsDefaulted      int      `json:"fields_defaulted"`
	ProjectRowsIgnored   int      `json:"project_rows_ignored"`
	MissingTables        []string `json:"missing_tables,omitempty"`
}

// MappedData is the mapper's complete output for one file.
type MappedData struct {
	Project       *ProjectInfo // nil when the PROJECT table is absent
	WbsNodes      []*WbsNode
	Activities    []*Activity
	Relationships []*Relationship
	Stats         MapStats
}

// Mapper turns one file's tables into domain records. Each parse gets its
// own Mapper; nothing is shared across invocations.
type Mapper struct {
	codes xer.ActivityCodes
	udfs  xer.UDFValues
	stats MapStats
}

// NewMapper creates a Mapper carrying the resolver outputs to attach to
// activities. Either map may be nil or empty.
func NewMapper(codes xer.ActivityCodes, udfs xer.UDFValues) *Mapper {
	return &Mapper{codes: codes, udfs: udfs}
}

// Map produces domain records from the extracted tables.
func (m *Mapper) Map(tables map[string]*xer.RawTable) *MappedData {
	out := &MappedData{
		Project:       m.mapProject(tables),
		WbsNodes:      m.mapWbs(tables),
		Activities:    m.mapActivities(tables),
		Relationships: m.mapRelationships(tables),
	}
	out.Stats = m.stats
	return out
}

func (m *Mapper) missingTable(name string) {
	m.stats.MissingTables = append(m.stats.MissingTables, name)
	slog.Debug("table absent, dependent records skipped", "table", name)
}

// mapProject reads the first PROJECT row. Additional rows are ignored and
// counted.
func (m *Mapper) mapProject(tables map[string]*xer.RawTable) *ProjectInfo {
	t, ok := tables["PROJECT"]
	if !ok {
		m.missingTable("PROJECT")
		return nil
	}

	row := t.Rows[0]
	m.stats.ProjectRowsIgnored = len(t.Rows) - 1

	shortName := t.Value(row, "proj_short_name")
	if shortName == "" {
		shortName = "Imported Project"
	}
	return &ProjectInfo{
		ProjID:     t.Value(row, "proj_id"),
		ShortName:  shortName,
		PlanStart:  ParseDate(t.Value(row, "plan_start_date")),
		PlanFinish: ParseDate(t.Value(row, "plan_end_date")),
	}
}

// mapWbs produces one WbsNode per PROJWBS row with a non-empty wbs_id. A
// node flagged proj_node_flag=Y, with an empty parent, or whose parent
// references its own proj_id (P6's self-reference convention) is a project
// root and has its parent forced to empty.
func (m *Mapper) mapWbs(tables map[string]*xer.RawTable) []*WbsNode {
	t, ok := tables["PROJWBS"]
	if !ok {
		m.missingTable("PROJWBS")
		return nil
	}

	nodes := make([]*WbsNode, 0, len(t.Rows))
	for _, row := range t.Rows {
		wbsID := t.Value(row, "wbs_id")
		if wbsID == "" {
			m.stats.WbsSkipped++
			continue
		}

		parentID := t.Value(row, "parent_wbs_id")
		projID := t.Value(row, "proj_id")
		isRoot := t.Value(row, "proj_node_flag") == "Y" ||
			parentID == "" ||
			(projID != "" && parentID == projID)
		if isRoot {
			parentID = ""
		}

		name := t.Value(row, "wbs_name")
		if name == "" {
			name = fmt.Sprintf("WBS %s", wbsID)
		}

		nodes = append(nodes, &WbsNode{
			WbsID:         wbsID,
			Name:          name,
			ShortName:     t.Value(row, "wbs_short_name"),
			ParentWbsID:   parentID,
			ProjID:        projID,
			IsProjectRoot: isRoot,
		})
	}
	m.stats.WbsMapped = len(nodes)
	return nodes
}

// mapActivities produces one Activity per TASK row with a non-empty task_id.
func (m *Mapper) mapActivities(tables map[string]*xer.RawTable) []*Activity {
	t, ok := tables["TASK"]
	if !ok {
		m.missingTable("TASK")
		return nil
	}

	acts := make([]*Activity, 0, len(t.Rows))
	for _, row := range t.Rows {
		taskID := t.Value(row, "task_id")
		if taskID == "" {
			m.stats.ActivitiesSkipped++
			continue
		}

		name := t.Value(row, "task_name")
		if name == "" {
			name = fmt.Sprintf("Activity %s", taskID)
		}

		a := &Activity{
			TaskID:     taskID,
			Name:       name,
			TaskCode:   t.Value(row, "task_code"),
			WbsID:      t.Value(row, "wbs_id"),
			TaskType:   t.Value(row, "task_type"),
			StatusCode: t.Value(row, "status_code"),

			DurationDays:   m.hoursField(t.Value(row, "target_drtn_hr_cnt")),
			RemainingDays:  m.hoursField(t.Value(row, "remain_drtn_hr_cnt")),
			TotalFloatDays: m.hoursField(t.Value(row, "total_float_hr_cnt")),
			FreeFloatDays:  m.hoursField(t.Value(row, "free_float_hr_cnt")),
			ProgressPct:    m.floatField(t.Value(row, "phys_complete_pct")),

			EarlyStart:   ParseDate(t.Value(row, "early_start_date")),
			EarlyFinish:  ParseDate(t.Value(row, "early_end_date")),
			LateStart:    ParseDate(t.Value(row, "late_start_date")),
			LateFinish:   ParseDate(t.Value(row, "late_end_date")),
			ActualStart:  ParseDate(t.Value(row, "act_start_date")),
			ActualFinish: ParseDate(t.Value(row, "act_end_date")),
			TargetStart:  ParseDate(t.Value(row, "target_start_date")),
			TargetFinish: ParseDate(t.Value(row, "target_end_date")),

			ConstraintType: t.Value(row, "cstr_type"),
			ConstraintDate: ParseDate(t.Value(row, "cstr_date")),
		}
		a.OriginalDays = a.DurationDays

		// nil, not empty map, when the task has no entries.
		if codes := m.codes[taskID]; len(codes) > 0 {
			a.ActivityCodes = codes
		}
		if udfs := m.udfs[taskID]; len(udfs) > 0 {
			a.UDFValues = udfs
		}

		acts = append(acts, a)
	}
	m.stats.ActivitiesMapped = len(acts)
	return acts
}

// mapRelationships produces one Relationship per TASKPRED row with both
// endpoints present. The pred_type cell's "PR_" prefix is stripped;
// unrecognized types default to FS with a counter.
func (m *Mapper) mapRelationships(tables map[string]*xer.RawTable) []*Relationship {
	t, ok := tables["TASKPRED"]
	if !ok {
		m.missingTable("TASKPRED")
		return nil
	}

	rels := make([]*Relationship, 0, len(t.Rows))
	for _, row := range t.Rows {
		predID := t.Value(row, "pred_task_id")
		succID := t.Value(row, "task_id")
		if predID == "" || succID == "" {
			m.stats.RelationshipsSkipped++
			continue
		}

		relType := RelationType(trimPRPrefix(t.Value(row, "pred_type")))
		if !ValidRelationType(relType) {
			relType = RelationFS
			m.stats.FieldsDefaulted++
		}

		rels = append(rels, &Relationship{
			PredTaskID: predID,
			SuccTaskID: succID,
			Type:       relType,
			LagDays:    m.hoursField(t.Value(row, "lag_hr_cnt")),
		})
	}
	m.stats.RelationshipsMapped = len(rels)
	return rels
}

func trimPRPrefix(s string) string {
	if len(s) > 3 && s[:3] == "PR_" {
		return s[3:]
	}
	return s
}

// hoursField converts an hour-count cell to days, counting defaults taken on
// non-empty but unparsable input.
func (m *Mapper) hoursField(s string) float64 {
	days, defaulted := HoursToDays(s)
	if defaulted && s != "" {
		m.stats.FieldsDefaulted++
	}
	return days
}

func (m *Mapper) floatField(s string) float64 {
	f, defaulted := ParseFloat(s)
	if defaulted && s != "" {
		m.stats.FieldsDefaulted++
	}
	return f
}
