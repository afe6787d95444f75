package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/schedfoundation/xerimport/internal/schedule"
)

var wbsCopyColumns = []string{
	"schedule_id", "wbs_id", "wbs_name", "wbs_short_name", "parent_wbs_id",
	"proj_id", "is_project_root", "level", "wbs_code", "sort_order", "full_path",
}

// InsertWbsNodes bulk-inserts WBS nodes for one schedule using the COPY
// protocol.
func (s *Store) InsertWbsNodes(ctx context.Context, scheduleID uuid.UUID, nodes []*schedule.WbsNode) (int64, error) {
	if len(nodes) == 0 {
		return 0, nil
	}
	n, err := s.db.CopyFrom(ctx, pgx.Identifier{"wbs_nodes"}, wbsCopyColumns,
		pgx.CopyFromSlice(len(nodes), func(i int) ([]any, error) {
			w := nodes[i]
			return []any{
				scheduleID, w.WbsID, w.Name, w.ShortName, w.ParentWbsID,
				w.ProjID, w.IsProjectRoot, w.Level, w.WbsCode, w.SortOrder, w.FullPath,
			}, nil
		}))
	if err != nil {
		return n, fmt.Errorf("copy wbs_nodes: %w", err)
	}
	return n, nil
}

const wbsSelectColumns = `wbs_id, wbs_name, wbs_short_name, parent_wbs_id,
	proj_id, is_project_root, level, wbs_code, sort_order, full_path`

// ListWbsNodes returns every WBS node for a schedule, ordered for stable
// display (sort_order within level, then wbs_id).
func (s *Store) ListWbsNodes(ctx context.Context, scheduleID uuid.UUID) ([]*schedule.WbsNode, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+wbsSelectColumns+`
		 FROM wbs_nodes
		 WHERE schedule_id = $1
		 ORDER BY level, sort_order, wbs_id`, scheduleID)
	if err != nil {
		return nil, fmt.Errorf("query wbs_nodes: %w", err)
	}
	defer rows.Close()

	var nodes []*schedule.WbsNode
	for rows.Next() {
		w := &schedule.WbsNode{}
		if err := rows.Scan(&w.WbsID, &w.Name, &w.ShortName, &w.ParentWbsID,
			&w.ProjID, &w.IsProjectRoot, &w.Level, &w.WbsCode, &w.SortOrder, &w.FullPath); err != nil {
			return nil, fmt.Errorf("scan wbs_node: %w", err)
		}
		nodes = append(nodes, w)
	}
	return nodes, rows.Err()
}

// UpdateWbsHierarchy writes codes, levels, sort orders, and paths back after
// a hierarchy build, batched into a single round trip.
func (s *Store) UpdateWbsHierarchy(ctx context.Context, scheduleID uuid.UUID, nodes []*schedule.WbsNode) error {
	if len(nodes) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, w := range nodes {
		batch.Queue(
			`UPDATE wbs_nodes
			 SET wbs_code = $1, level = $2, sort_order = $3, full_path = $4
			 WHERE schedule_id = $5 AND wbs_id = $6`,
			w.WbsCode, w.Level, w.SortOrder, w.FullPath, scheduleID, w.WbsID)
	}
	br := s.db.SendBatch(ctx, batch)
	defer br.Close()
	for range nodes {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("update wbs hierarchy: %w", err)
		}
	}
	return nil
}
