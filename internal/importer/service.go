// Package importer orchestrates a full XER import: decode, extract,
// cross-reference, map, persist, and the hierarchy-code pass. One Import
// call owns its table and record set end to end; nothing is shared between
// concurrent imports.
package importer

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/schedfoundation/xerimport/internal/logging"
	"github.com/schedfoundation/xerimport/internal/schedule"
	"github.com/schedfoundation/xerimport/internal/store"
	"github.com/schedfoundation/xerimport/internal/xer"
)

// Store is the persistence collaborator the importer requires. Implemented
// by *store.Store; tests substitute fakes.
type Store interface {
	EnsureSchedule(ctx context.Context, scheduleID uuid.UUID, name string) error
	InsertWbsNodes(ctx context.Context, scheduleID uuid.UUID, nodes []*schedule.WbsNode) (int64, error)
	InsertActivities(ctx context.Context, scheduleID uuid.UUID, acts []*schedule.Activity) (int64, error)
	InsertRelationships(ctx context.Context, scheduleID uuid.UUID, rels []*schedule.Relationship) (int64, error)
	ListWbsNodes(ctx context.Context, scheduleID uuid.UUID) ([]*schedule.WbsNode, error)
	ListActivities(ctx context.Context, scheduleID uuid.UUID) ([]*schedule.Activity, error)
	UpdateWbsHierarchy(ctx context.Context, scheduleID uuid.UUID, nodes []*schedule.WbsNode) error
	UpdateActivityHierarchy(ctx context.Context, scheduleID uuid.UUID, acts []*schedule.Activity) error
	UpdateScheduleSummary(ctx context.Context, scheduleID uuid.UUID, proj *schedule.ProjectInfo, sum store.ScheduleSummary) error
	DeleteScheduleRecords(ctx context.Context, scheduleID uuid.UUID) error
}

// Service runs imports against a Store.
type Service struct {
	store       Store
	batchSize   int
	maxFileSize int64
}

// Options tune a Service. Zero values take defaults.
type Options struct {
	BatchSize   int   // records per bulk-insert batch (default 1000)
	MaxFileSize int64 // bytes (default 200MB)
}

// NewService creates an import service.
func NewService(st Store, opts Options) *Service {
	if opts.BatchSize <= 0 {
		opts.BatchSize = 1000
	}
	if opts.MaxFileSize <= 0 {
		opts.MaxFileSize = 200 * 1024 * 1024
	}
	return &Service{
		store:       st,
		batchSize:   opts.BatchSize,
		maxFileSize: opts.MaxFileSize,
	}
}

// Stats is the flat count structure returned to callers so data-quality
// warnings can be surfaced without failing the import.
type Stats struct {
	Encoding    string `json:"encoding"`
	TablesFound int    `json:"tables_found"`

	WbsParsed           int `json:"wbs_parsed"`
	WbsSaved            int `json:"wbs_saved"`
	ActivitiesParsed    int `json:"activities_parsed"`
	ActivitiesSaved     int `json:"activities_saved"`
	RelationshipsParsed int `json:"relationships_parsed"`
	RelationshipsSaved  int `json:"relationships_saved"`
	ActivitiesWithCodes int `json:"activities_with_codes"`
	RecordsWithUDFs     int `json:"records_with_udfs"`
	RowsSkipped         int `json:"rows_skipped"`
	FieldsDefaulted     int `json:"fields_defaulted"`
	ProjectRowsIgnored  int `json:"project_rows_ignored"`

	MissingTables  []string `json:"missing_tables,omitempty"`
	UnknownTables  []string `json:"unknown_tables,omitempty"`
	HierarchyBuilt bool     `json:"hierarchy_built"`

	DurationMS int64 `json:"duration_ms"`
}

// Result is the outcome of one import.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Stats   Stats  `json:"stats"`
}

// Import parses XER file bytes and persists the schedule's records.
//
// File-level failures (empty, unreadable, no data) return an error with no
// partial result persisted. Record-level problems never abort: they are
// counted into Stats. Previously-committed batches stay intact if a later
// save stage fails; the returned error names the stage.
func (s *Service) Import(ctx context.Context, data []byte, scheduleID uuid.UUID, name string) (*Result, error) {
	start := time.Now()
	log := logging.WithFields(ctx, "schedule_id", scheduleID)

	if int64(len(data)) > s.maxFileSize {
		return nil, fmt.Errorf("file size %d exceeds limit %d", len(data), s.maxFileSize)
	}

	text, encodingName, err := xer.Decode(data)
	if err != nil {
		return nil, err
	}
	log.Info("file decoded", "encoding", encodingName, "bytes", len(data))

	tables, extractStats := xer.ExtractTables(text)
	if len(tables) == 0 {
		return nil, fmt.Errorf("%w: no tables extracted", xer.ErrUnreadableFile)
	}
	log.Info("tables extracted", "count", extractStats.TablesFound,
		"unknown", len(extractStats.UnknownTables))

	codes := xer.BuildActivityCodes(tables)
	udfs := xer.BuildUDFValues(tables)

	mapped := schedule.NewMapper(codes, udfs).Map(tables)
	log.Info("records mapped",
		"wbs", mapped.Stats.WbsMapped,
		"activities", mapped.Stats.ActivitiesMapped,
		"relationships", mapped.Stats.RelationshipsMapped,
		"skipped", mapped.Stats.WbsSkipped+mapped.Stats.ActivitiesSkipped+mapped.Stats.RelationshipsSkipped)

	stats := Stats{
		Encoding:            encodingName,
		TablesFound:         extractStats.TablesFound,
		UnknownTables:       extractStats.UnknownTables,
		WbsParsed:           mapped.Stats.WbsMapped,
		ActivitiesParsed:    mapped.Stats.ActivitiesMapped,
		RelationshipsParsed: mapped.Stats.RelationshipsMapped,
		ActivitiesWithCodes: len(codes),
		RecordsWithUDFs:     len(udfs),
		RowsSkipped:         mapped.Stats.WbsSkipped + mapped.Stats.ActivitiesSkipped + mapped.Stats.RelationshipsSkipped,
		FieldsDefaulted:     mapped.Stats.FieldsDefaulted,
		ProjectRowsIgnored:  mapped.Stats.ProjectRowsIgnored,
		MissingTables:       mapped.Stats.MissingTables,
	}

	if err := s.save(ctx, scheduleID, name, mapped, &stats); err != nil {
		return nil, err
	}

	if err := s.BuildHierarchy(ctx, scheduleID); err != nil {
		// Records are saved; surface the degraded state in the result
		// rather than failing the import.
		log.Warn("hierarchy build failed", "error", err)
	} else {
		stats.HierarchyBuilt = true
	}

	stats.DurationMS = time.Since(start).Milliseconds()
	return &Result{
		Success: true,
		Message: fmt.Sprintf("imported %d activities, %d WBS items, %d relationships",
			stats.ActivitiesSaved, stats.WbsSaved, stats.RelationshipsSaved),
		Stats: stats,
	}, nil
}

// save persists mapped records in batches and updates the schedule summary.
func (s *Service) save(ctx context.Context, scheduleID uuid.UUID, name string, mapped *schedule.MappedData, stats *Stats) error {
	if err := s.store.EnsureSchedule(ctx, scheduleID, name); err != nil {
		return fmt.Errorf("save schedule: %w", err)
	}

	// Re-import replaces the previous record set.
	if err := s.store.DeleteScheduleRecords(ctx, scheduleID); err != nil {
		return fmt.Errorf("clear previous records: %w", err)
	}

	for batch := range batches(mapped.WbsNodes, s.batchSize) {
		n, err := s.store.InsertWbsNodes(ctx, scheduleID, batch)
		stats.WbsSaved += int(n)
		if err != nil {
			return fmt.Errorf("save wbs batch: %w", err)
		}
	}
	for batch := range batches(mapped.Activities, s.batchSize) {
		n, err := s.store.InsertActivities(ctx, scheduleID, batch)
		stats.ActivitiesSaved += int(n)
		if err != nil {
			return fmt.Errorf("save activity batch: %w", err)
		}
	}
	for batch := range batches(mapped.Relationships, s.batchSize) {
		n, err := s.store.InsertRelationships(ctx, scheduleID, batch)
		stats.RelationshipsSaved += int(n)
		if err != nil {
			return fmt.Errorf("save relationship batch: %w", err)
		}
	}

	sum := store.ScheduleSummary{
		TotalActivities:    stats.ActivitiesSaved,
		TotalRelationships: stats.RelationshipsSaved,
		TotalWbsItems:      stats.WbsSaved,
		Status:             "parsed",
	}
	if err := s.store.UpdateScheduleSummary(ctx, scheduleID, mapped.Project, sum); err != nil {
		return fmt.Errorf("update schedule summary: %w", err)
	}
	return nil
}

// BuildHierarchy loads a schedule's saved records, derives codes and paths,
// and writes them back. Valid as a standalone second pass after save.
func (s *Service) BuildHierarchy(ctx context.Context, scheduleID uuid.UUID) error {
	nodes, err := s.store.ListWbsNodes(ctx, scheduleID)
	if err != nil {
		return fmt.Errorf("load wbs: %w", err)
	}
	acts, err := s.store.ListActivities(ctx, scheduleID)
	if err != nil {
		return fmt.Errorf("load activities: %w", err)
	}

	schedule.BuildHierarchy(nodes, acts)

	if err := s.store.UpdateWbsHierarchy(ctx, scheduleID, nodes); err != nil {
		return err
	}
	if err := s.store.UpdateActivityHierarchy(ctx, scheduleID, acts); err != nil {
		return err
	}
	logging.FromContext(ctx).Info("hierarchy built",
		"schedule_id", scheduleID, "wbs", len(nodes), "activities", len(acts))
	return nil
}

// batches yields consecutive sub-slices of at most size elements.
func batches[T any](items []T, size int) func(yield func([]T) bool) {
	return func(yield func([]T) bool) {
		for start := 0; start < len(items); start += size {
			end := min(start+size, len(items))
			if !yield(items[start:end]) {
				return
			}
		}
	}
}
