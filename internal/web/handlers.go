package web

import (
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/schedfoundation/xerimport/internal/store"
)

const (
	defaultPageSize = 100
	maxPageSize     = 2000
)

// handleHealth reports service liveness.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}

// handleImport accepts an XER file as multipart form data under "file" and
// runs a full import for the schedule in the URL.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	scheduleID, ok := s.scheduleID(w, r)
	if !ok {
		return
	}

	maxSize := s.cfg.Import.MaxFileSize
	r.Body = http.MaxBytesReader(w, r.Body, maxSize)

	if err := r.ParseMultipartForm(maxSize); err != nil {
		writeError(w, http.StatusBadRequest, "file too large or invalid form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "no file provided")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read file")
		return
	}

	result, err := s.service.Import(r.Context(), data, scheduleID, header.Filename)
	if err != nil {
		s.respondError(w, r, err, statusForError(err))
		return
	}

	writeJSON(w, result)
}

// handleBuildHierarchy re-runs hierarchy code assignment for a schedule
// whose records are already saved.
func (s *Server) handleBuildHierarchy(w http.ResponseWriter, r *http.Request) {
	scheduleID, ok := s.scheduleID(w, r)
	if !ok {
		return
	}

	if err := s.service.BuildHierarchy(r.Context(), scheduleID); err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]bool{"success": true})
}

// handleListActivities returns one page of a schedule's activities in
// hierarchy order, with optional search and status filtering.
//
// Query parameters: page (1-based), per_page (max 2000), search, status.
func (s *Server) handleListActivities(w http.ResponseWriter, r *http.Request) {
	scheduleID, ok := s.scheduleID(w, r)
	if !ok {
		return
	}

	page, perPage := pageParams(r)
	filter := store.ActivityFilter{
		Search: r.URL.Query().Get("search"),
		Status: r.URL.Query().Get("status"),
		Limit:  perPage,
		Offset: (page - 1) * perPage,
	}

	acts, total, err := s.catalog.ListActivitiesPage(r.Context(), scheduleID, filter)
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]any{
		"activities": acts,
		"total":      total,
		"page":       page,
		"per_page":   perPage,
	})
}

// handleListWbs returns a schedule's full WBS tree in level then
// sort-order sequence.
func (s *Server) handleListWbs(w http.ResponseWriter, r *http.Request) {
	scheduleID, ok := s.scheduleID(w, r)
	if !ok {
		return
	}

	nodes, err := s.catalog.ListWbsNodes(r.Context(), scheduleID)
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]any{
		"wbs":   nodes,
		"total": len(nodes),
	})
}

// handleListRelationships returns one page of a schedule's relationships.
func (s *Server) handleListRelationships(w http.ResponseWriter, r *http.Request) {
	scheduleID, ok := s.scheduleID(w, r)
	if !ok {
		return
	}

	page, perPage := pageParams(r)
	rels, total, err := s.catalog.ListRelationshipsPage(r.Context(), scheduleID, perPage, (page-1)*perPage)
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]any{
		"relationships": rels,
		"total":         total,
		"page":          page,
		"per_page":      perPage,
	})
}

// handleDeleteSchedule removes a schedule and all its imported records.
func (s *Server) handleDeleteSchedule(w http.ResponseWriter, r *http.Request) {
	scheduleID, ok := s.scheduleID(w, r)
	if !ok {
		return
	}

	if err := s.catalog.DeleteSchedule(r.Context(), scheduleID); err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]bool{"success": true})
}

// scheduleID parses the scheduleID URL parameter, writing a 400 on failure.
func (s *Server) scheduleID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	raw := chi.URLParam(r, "scheduleID")
	id, err := uuid.Parse(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid schedule ID")
		return uuid.Nil, false
	}
	return id, true
}

// pageParams reads page and per_page query parameters with defaults and caps.
func pageParams(r *http.Request) (page, perPage int) {
	page = 1
	if v, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && v > 0 {
		page = v
	}
	perPage = defaultPageSize
	if v, err := strconv.Atoi(r.URL.Query().Get("per_page")); err == nil && v > 0 {
		perPage = min(v, maxPageSize)
	}
	return page, perPage
}
