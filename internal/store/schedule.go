package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/schedfoundation/xerimport/internal/schedule"
)

// ScheduleSummary is the record-count and status rollup written after a
// successful import.
type ScheduleSummary struct {
	TotalActivities    int
	TotalRelationships int
	TotalWbsItems      int
	Status             string
}

// EnsureSchedule creates the schedule row if it does not exist yet, so
// imports into a fresh id work without a separate create call.
func (s *Store) EnsureSchedule(ctx context.Context, scheduleID uuid.UUID, name string) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO schedules (id, name)
		 VALUES ($1, $2)
		 ON CONFLICT (id) DO NOTHING`, scheduleID, name)
	if err != nil {
		return fmt.Errorf("ensure schedule: %w", err)
	}
	return nil
}

// UpdateScheduleSummary writes record counts, status, and project metadata
// onto the schedule row. proj may be nil when the file had no PROJECT table.
func (s *Store) UpdateScheduleSummary(ctx context.Context, scheduleID uuid.UUID, proj *schedule.ProjectInfo, sum ScheduleSummary) error {
	_, err := s.db.Exec(ctx,
		`UPDATE schedules
		 SET total_activities = $1,
		     total_relationships = $2,
		     total_wbs_items = $3,
		     status = $4,
		     updated_at = now()
		 WHERE id = $5`,
		sum.TotalActivities, sum.TotalRelationships, sum.TotalWbsItems, sum.Status, scheduleID)
	if err != nil {
		return fmt.Errorf("update schedule summary: %w", err)
	}

	if proj == nil {
		return nil
	}
	_, err = s.db.Exec(ctx,
		`UPDATE schedules
		 SET proj_id = $1,
		     proj_short_name = $2,
		     project_start_date = COALESCE($3, project_start_date),
		     project_finish_date = COALESCE($4, project_finish_date),
		     updated_at = now()
		 WHERE id = $5`,
		proj.ProjID, proj.ShortName, proj.PlanStart, proj.PlanFinish, scheduleID)
	if err != nil {
		return fmt.Errorf("update schedule project info: %w", err)
	}
	return nil
}

// DeleteScheduleRecords removes every imported record for a schedule,
// leaving the schedule row itself in place for re-import.
func (s *Store) DeleteScheduleRecords(ctx context.Context, scheduleID uuid.UUID) error {
	for _, table := range []string{"relationships", "activities", "wbs_nodes"} {
		if _, err := s.db.Exec(ctx,
			fmt.Sprintf("DELETE FROM %s WHERE schedule_id = $1", table), scheduleID); err != nil {
			return fmt.Errorf("delete %s: %w", table, err)
		}
	}
	return nil
}

// DeleteSchedule removes the schedule row; imported records cascade.
func (s *Store) DeleteSchedule(ctx context.Context, scheduleID uuid.UUID) error {
	if _, err := s.db.Exec(ctx,
		"DELETE FROM schedules WHERE id = $1", scheduleID); err != nil {
		return fmt.Errorf("delete schedule: %w", err)
	}
	return nil
}
