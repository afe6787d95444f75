// Package schedule holds the normalized project-schedule domain model and
// the logic that derives it from raw XER tables: record mapping and
// hierarchy-code assignment. The package is persistence-agnostic; records
// reference each other by P6 identifiers, not by storage keys.
package schedule

import "time"

// RelationType is a precedence relationship type.
type RelationType string

const (
	RelationFS RelationType = "FS" // finish-to-start
	RelationSS RelationType = "SS" // start-to-start
	RelationFF RelationType = "FF" // finish-to-finish
	RelationSF RelationType = "SF" // start-to-finish
)

// ValidRelationType reports whether t is one of the four P6 relation types.
func ValidRelationType(t RelationType) bool {
	switch t {
	case RelationFS, RelationSS, RelationFF, RelationSF:
		return true
	}
	return false
}

// ProjectInfo carries schedule-level metadata from the PROJECT table.
// One per parsed file; the first PROJECT row wins.
type ProjectInfo struct {
	ProjID     string     `json:"proj_id"`
	ShortName  string     `json:"short_name"`
	PlanStart  *time.Time `json:"plan_start,omitempty"`
	PlanFinish *time.Time `json:"plan_finish,omitempty"`
}

// WbsNode is one work-breakdown-structure element. WbsCode, Level,
// SortOrder, and FullPath stay zero-valued until the hierarchy builder runs.
type WbsNode struct {
	WbsID       string `json:"wbs_id"`
	Name        string `json:"wbs_name"`
	ShortName   string `json:"wbs_short_name"`
	ParentWbsID string `json:"parent_wbs_id"` // empty marks a root
	ProjID      string `json:"proj_id"`

	IsProjectRoot bool `json:"is_project_root"`

	// Populated by the hierarchy builder.
	Level     int    `json:"level"`
	WbsCode   string `json:"wbs_code"`   // dotted code, e.g. "1.2.3"
	SortOrder int    `json:"sort_order"` // 1-based sibling rank
	FullPath  string `json:"full_path"`  // breadcrumb from root, " > "-joined
}

// Activity is one schedule activity from the TASK table. Duration and float
// fields are expressed in days (source hours divided by 8). ActivityCode,
// WbsCode, SortOrder, and HierarchyPath stay zero-valued until the hierarchy
// builder runs. ActivityCodes and UDFValues are nil when the task carries no
// classification data; callers treat nil and empty maps alike.
type Activity struct {
	TaskID     string `json:"task_id"`
	Name       string `json:"task_name"`
	TaskCode   string `json:"task_code"`
	WbsID      string `json:"wbs_id"` // empty when unassigned
	TaskType   string `json:"task_type"`
	StatusCode string `json:"status_code"`

	DurationDays   float64 `json:"duration_days"`
	RemainingDays  float64 `json:"remaining_days"`
	OriginalDays   float64 `json:"original_days"`
	TotalFloatDays float64 `json:"total_float_days"`
	FreeFloatDays  float64 `json:"free_float_days"`
	ProgressPct    float64 `json:"progress_pct"`

	EarlyStart   *time.Time `json:"early_start_date,omitempty"`
	EarlyFinish  *time.Time `json:"early_end_date,omitempty"`
	LateStart    *time.Time `json:"late_start_date,omitempty"`
	LateFinish   *time.Time `json:"late_end_date,omitempty"`
	ActualStart  *time.Time `json:"actual_start_date,omitempty"`
	ActualFinish *time.Time `json:"actual_end_date,omitempty"`
	TargetStart  *time.Time `json:"target_start_date,omitempty"`
	TargetFinish *time.Time `json:"target_end_date,omitempty"`

	ConstraintType string     `json:"constraint_type,omitempty"`
	ConstraintDate *time.Time `json:"constraint_date,omitempty"`

	ActivityCodes map[string]string `json:"activity_codes,omitempty"`
	UDFValues     map[string]string `json:"udf_values,omitempty"`

	// Populated by the hierarchy builder.
	ActivityCode  string `json:"activity_code"` // owning WBS code + "." + rank, e.g. "1.2.3.4"
	WbsCode       string `json:"wbs_code"`      // denormalized copy of the owning WBS's code
	SortOrder     int    `json:"sort_order"`
	HierarchyPath string `json:"hierarchy_path"`
}

// Relationship is one precedence link from the TASKPRED table. Both
// endpoints are required; rows missing either are dropped at mapping time.
type Relationship struct {
	PredTaskID string       `json:"pred_task_id"`
	SuccTaskID string       `json:"succ_task_id"`
	Type       RelationType `json:"relation_type"`
	LagDays    float64      `json:"lag_days"`
}
