package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/schedfoundation/xerimport/internal/schedule"
)

var relationshipCopyColumns = []string{
	"schedule_id", "pred_task_id", "succ_task_id", "relation_type", "lag_days",
}

// InsertRelationships bulk-inserts precedence links for one schedule using
// the COPY protocol.
func (s *Store) InsertRelationships(ctx context.Context, scheduleID uuid.UUID, rels []*schedule.Relationship) (int64, error) {
	if len(rels) == 0 {
		return 0, nil
	}
	n, err := s.db.CopyFrom(ctx, pgx.Identifier{"relationships"}, relationshipCopyColumns,
		pgx.CopyFromSlice(len(rels), func(i int) ([]any, error) {
			r := rels[i]
			return []any{scheduleID, r.PredTaskID, r.SuccTaskID, string(r.Type), r.LagDays}, nil
		}))
	if err != nil {
		return n, fmt.Errorf("copy relationships: %w", err)
	}
	return n, nil
}

// ListRelationshipsPage returns one page of relationships plus the total
// count for the schedule.
func (s *Store) ListRelationshipsPage(ctx context.Context, scheduleID uuid.UUID, limit, offset int) ([]*schedule.Relationship, int64, error) {
	var total int64
	if err := s.db.QueryRow(ctx,
		"SELECT count(*) FROM relationships WHERE schedule_id = $1", scheduleID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count relationships: %w", err)
	}

	rows, err := s.db.Query(ctx,
		`SELECT pred_task_id, succ_task_id, relation_type, lag_days
		 FROM relationships
		 WHERE schedule_id = $1
		 ORDER BY pred_task_id, succ_task_id
		 LIMIT $2 OFFSET $3`, scheduleID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("query relationships: %w", err)
	}
	defer rows.Close()

	var rels []*schedule.Relationship
	for rows.Next() {
		r := &schedule.Relationship{}
		var relType string
		if err := rows.Scan(&r.PredTaskID, &r.SuccTaskID, &relType, &r.LagDays); err != nil {
			return nil, 0, fmt.Errorf("scan relationship: %w", err)
		}
		r.Type = schedule.RelationType(relType)
		rels = append(rels, r)
	}
	return rels, total, rows.Err()
}
