// Package store persists parsed schedules in PostgreSQL via pgx.
//
// Expected schema (migrations are managed outside this service):
//
//	CREATE TABLE schedules (
//	    id                  UUID PRIMARY KEY,
//	    name                TEXT NOT NULL DEFAULT '',
//	    proj_id             TEXT NOT NULL DEFAULT '',
//	    proj_short_name     TEXT NOT NULL DEFAULT '',
//	    project_start_date  TIMESTAMPTZ,
//	    project_finish_date TIMESTAMPTZ,
//	    status              TEXT NOT NULL DEFAULT 'created',
//	    total_activities    INTEGER NOT NULL DEFAULT 0,
//	    total_relationships INTEGER NOT NULL DEFAULT 0,
//	    total_wbs_items     INTEGER NOT NULL DEFAULT 0,
//	    created_at          TIMESTAMPTZ NOT NULL DEFAULT now(),
//	    updated_at          TIMESTAMPTZ NOT NULL DEFAULT now()
//	);
//
//	CREATE TABLE wbs_nodes (
//	    id              BIGSERIAL PRIMARY KEY,
//	    schedule_id     UUID NOT NULL REFERENCES schedules(id) ON DELETE CASCADE,
//	    wbs_id          TEXT NOT NULL,
//	    wbs_name        TEXT NOT NULL DEFAULT '',
//	    wbs_short_name  TEXT NOT NULL DEFAULT '',
//	    parent_wbs_id   TEXT NOT NULL DEFAULT '',
//	    proj_id         TEXT NOT NULL DEFAULT '',
//	    is_project_root BOOLEAN NOT NULL DEFAULT false,
//	    level           INTEGER NOT NULL DEFAULT 0,
//	    wbs_code        TEXT NOT NULL DEFAULT '',
//	    sort_order      INTEGER NOT NULL DEFAULT 0,
//	    full_path       TEXT NOT NULL DEFAULT '',
//	    UNIQUE (schedule_id, wbs_id)
//	);
//
//	CREATE TABLE activities (
//	    id              BIGSERIAL PRIMARY KEY,
//	    schedule_id     UUID NOT NULL REFERENCES schedules(id) ON DELETE CASCADE,
//	    task_id         TEXT NOT NULL,
//	    task_name       TEXT NOT NULL DEFAULT '',
//	    task_code       TEXT NOT NULL DEFAULT '',
//	    wbs_id          TEXT NOT NULL DEFAULT '',
//	    task_type       TEXT NOT NULL DEFAULT '',
//	    status_code     TEXT NOT NULL DEFAULT '',
//	    duration_days        DOUBLE PRECISION NOT NULL DEFAULT 0,
//	    remaining_days       DOUBLE PRECISION NOT NULL DEFAULT 0,
//	    original_days        DOUBLE PRECISION NOT NULL DEFAULT 0,
//	    total_float_days     DOUBLE PRECISION NOT NULL DEFAULT 0,
//	    free_float_days      DOUBLE PRECISION NOT NULL DEFAULT 0,
//	    progress_pct         DOUBLE PRECISION NOT NULL DEFAULT 0,
//	    early_start_date     TIMESTAMPTZ,
//	    early_end_date       TIMESTAMPTZ,
//	    late_start_date      TIMESTAMPTZ,
//	    late_end_date        TIMESTAMPTZ,
//	    actual_start_date    TIMESTAMPTZ,
//	    actual_end_date      TIMESTAMPTZ,
//	    target_start_date    TIMESTAMPTZ,
//	    target_end_date      TIMESTAMPTZ,
//	    constraint_type      TEXT NOT NULL DEFAULT '',
//	    constraint_date      TIMESTAMPTZ,
//	    activity_codes       JSONB,
//	    udf_values           JSONB,
//	    activity_code        TEXT NOT NULL DEFAULT '',
//	    wbs_code             TEXT NOT NULL DEFAULT '',
//	    sort_order           INTEGER NOT NULL DEFAULT 0,
//	    hierarchy_path       TEXT NOT NULL DEFAULT '',
//	    UNIQUE (schedule_id, task_id)
//	);
//
//	CREATE TABLE relationships (
//	    id            BIGSERIAL PRIMARY KEY,
//	    schedule_id   UUID NOT NULL REFERENCES schedules(id) ON DELETE CASCADE,
//	    pred_task_id  TEXT NOT NULL,
//	    succ_task_id  TEXT NOT NULL,
//	    relation_type TEXT NOT NULL DEFAULT 'FS',
//	    lag_days      DOUBLE PRECISION NOT NULL DEFAULT 0
//	);
package store

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is the interface for database operations.
// Satisfied by both *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(context.Context, string, ...any) (pgconn.CommandTag, error)
	Query(context.Context, string, ...any) (pgx.Rows, error)
	QueryRow(context.Context, string, ...any) pgx.Row
	CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error)
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// Store provides schedule persistence on top of a pgx connection pool.
type Store struct {
	db DBTX
}

// New creates a Store. db is typically a *pgxpool.Pool; tests pass fakes.
func New(db DBTX) *Store {
	return &Store{db: db}
}
