package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/schedfoundation/xerimport/internal/schedule"
)

var activityCopyColumns = []string{
	"schedule_id", "task_id", "task_name", "task_code", "wbs_id",
	"task_type", "status_code",
	"duration_days", "remaining_days", "original_days",
	"total_float_days", "free_float_days", "progress_pct",
	"early_start_date", "early_end_date", "late_start_date", "late_end_date",
	"actual_start_date", "actual_end_date", "target_start_date", "target_end_date",
	"constraint_type", "constraint_date",
	"activity_codes", "udf_values",
	"activity_code", "wbs_code", "sort_order", "hierarchy_path",
}

// InsertActivities bulk-inserts activities for one schedule using the COPY
// protocol. Classification maps serialize to JSONB; nil maps store as NULL.
func (s *Store) InsertActivities(ctx context.Context, scheduleID uuid.UUID, acts []*schedule.Activity) (int64, error) {
	if len(acts) == 0 {
		return 0, nil
	}
	n, err := s.db.CopyFrom(ctx, pgx.Identifier{"activities"}, activityCopyColumns,
		pgx.CopyFromSlice(len(acts), func(i int) ([]any, error) {
			a := acts[i]
			codes, err := marshalMap(a.ActivityCodes)
			if err != nil {
				return nil, fmt.Errorf("activity %s codes: %w", a.TaskID, err)
			}
			udfs, err := marshalMap(a.UDFValues)
			if err != nil {
				return nil, fmt.Errorf("activity %s udfs: %w", a.TaskID, err)
			}
			return []any{
				scheduleID, a.TaskID, a.Name, a.TaskCode, a.WbsID,
				a.TaskType, a.StatusCode,
				a.DurationDays, a.RemainingDays, a.OriginalDays,
				a.TotalFloatDays, a.FreeFloatDays, a.ProgressPct,
				a.EarlyStart, a.EarlyFinish, a.LateStart, a.LateFinish,
				a.ActualStart, a.ActualFinish, a.TargetStart, a.TargetFinish,
				a.ConstraintType, a.ConstraintDate,
				codes, udfs,
				a.ActivityCode, a.WbsCode, a.SortOrder, a.HierarchyPath,
			}, nil
		}))
	if err != nil {
		return n, fmt.Errorf("copy activities: %w", err)
	}
	return n, nil
}

// marshalMap serializes a classification map for a JSONB column, mapping a
// nil or empty map to SQL NULL.
func marshalMap(m map[string]string) ([]byte, error) {
	if len(m) == 0 {
		return nil, nil
	}
	return json.Marshal(m)
}

const activitySelectColumns = `task_id, task_name, task_code, wbs_id,
	task_type, status_code,
	duration_days, remaining_days, original_days,
	total_float_days, free_float_days, progress_pct,
	early_start_date, early_end_date, late_start_date, late_end_date,
	actual_start_date, actual_end_date, target_start_date, target_end_date,
	constraint_type, constraint_date,
	activity_codes, udf_values,
	activity_code, wbs_code, sort_order, hierarchy_path`

// ListActivities returns every activity for a schedule, ordered by early
// start ascending (nulls first) then task_id — the same order the hierarchy
// builder uses.
func (s *Store) ListActivities(ctx context.Context, scheduleID uuid.UUID) ([]*schedule.Activity, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+activitySelectColumns+`
		 FROM activities
		 WHERE schedule_id = $1
		 ORDER BY early_start_date ASC NULLS FIRST, task_id ASC`, scheduleID)
	if err != nil {
		return nil, fmt.Errorf("query activities: %w", err)
	}
	defer rows.Close()
	return scanActivities(rows)
}

// ActivityFilter narrows and pages an activity listing.
type ActivityFilter struct {
	Search string // substring match on task_id or task_name
	Status string // "", "all", "not_started", "in_progress", "completed"
	Limit  int
	Offset int
}

// ListActivitiesPage returns one page of activities plus the total count
// matching the filter.
func (s *Store) ListActivitiesPage(ctx context.Context, scheduleID uuid.UUID, f ActivityFilter) ([]*schedule.Activity, int64, error) {
	where := []string{"schedule_id = $1"}
	args := []any{scheduleID}

	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		n := len(args)
		where = append(where, fmt.Sprintf("(task_id ILIKE $%d OR task_name ILIKE $%d)", n, n))
	}
	switch f.Status {
	case "not_started":
		where = append(where, "progress_pct = 0")
	case "in_progress":
		where = append(where, "progress_pct > 0 AND progress_pct < 100")
	case "completed":
		where = append(where, "progress_pct >= 100")
	}
	cond := strings.Join(where, " AND ")

	var total int64
	if err := s.db.QueryRow(ctx,
		"SELECT count(*) FROM activities WHERE "+cond, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count activities: %w", err)
	}

	args = append(args, f.Limit, f.Offset)
	query := fmt.Sprintf(
		`SELECT %s FROM activities WHERE %s
		 ORDER BY early_start_date ASC NULLS FIRST, task_id ASC
		 LIMIT $%d OFFSET $%d`,
		activitySelectColumns, cond, len(args)-1, len(args))

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("query activities page: %w", err)
	}
	defer rows.Close()

	acts, err := scanActivities(rows)
	return acts, total, err
}

func scanActivities(rows pgx.Rows) ([]*schedule.Activity, error) {
	var acts []*schedule.Activity
	for rows.Next() {
		a := &schedule.Activity{}
		var codes, udfs []byte
		if err := rows.Scan(&a.TaskID, &a.Name, &a.TaskCode, &a.WbsID,
			&a.TaskType, &a.StatusCode,
			&a.DurationDays, &a.RemainingDays, &a.OriginalDays,
			&a.TotalFloatDays, &a.FreeFloatDays, &a.ProgressPct,
			&a.EarlyStart, &a.EarlyFinish, &a.LateStart, &a.LateFinish,
			&a.ActualStart, &a.ActualFinish, &a.TargetStart, &a.TargetFinish,
			&a.ConstraintType, &a.ConstraintDate,
			&codes, &udfs,
			&a.ActivityCode, &a.WbsCode, &a.SortOrder, &a.HierarchyPath); err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		if len(codes) > 0 {
			if err := json.Unmarshal(codes, &a.ActivityCodes); err != nil {
				return nil, fmt.Errorf("decode activity codes for %s: %w", a.TaskID, err)
			}
		}
		if len(udfs) > 0 {
			if err := json.Unmarshal(udfs, &a.UDFValues); err != nil {
				return nil, fmt.Errorf("decode udf values for %s: %w", a.TaskID, err)
			}
		}
		acts = append(acts, a)
	}
	return acts, rows.Err()
}

// UpdateActivityHierarchy writes codes and paths back after a hierarchy
// build, batched into a single round trip.
func (s *Store) UpdateActivityHierarchy(ctx context.Context, scheduleID uuid.UUID, acts []*schedule.Activity) error {
	if len(acts) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, a := range acts {
		batch.Queue(
			`UPDATE activities
			 SET activity_code = $1, wbs_code = $2, sort_order = $3, hierarchy_path = $4
			 WHERE schedule_id = $5 AND task_id = $6`,
			a.ActivityCode, a.WbsCode, a.SortOrder, a.HierarchyPath, scheduleID, a.TaskID)
	}
	br := s.db.SendBatch(ctx, batch)
	defer br.Close()
	for range acts {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("update activity hierarchy: %w", err)
		}
	}
	return nil
}
