package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"cucina/internal/core"
)

func (s *Server) handleListWeeks(w http.ResponseWriter, r *http.Request) {
	weeks, err := s.store.ListWeeks(r.Context(), weeksPageSize)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed listing weeks", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch weeks")
		return
	}
	writeJSON(w, http.StatusOK, weeks)
}

type createWeekRequest struct {
	StartDate core.Date `json:"start_date"`
}

func (s *Server) handleCreateWeek(w http.ResponseWriter, r *http.Request) {
	var req createWeekRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.StartDate.IsZero() {
		writeError(w, http.StatusBadRequest, core.ErrInvalidDate.Error())
		return
	}

	week, err := s.store.CreateWeek(r.Context(), req.StartDate)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed creating week", "error", err, "start_date", req.StartDate.String())
		writeError(w, http.StatusInternalServerError, "Failed to create week")
		return
	}
	writeJSON(w, http.StatusCreated, week)
}

func (s *Server) handleGetWeek(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid id")
		return
	}
	detail, err := s.store.GetWeekDetail(r.Context(), id)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed fetching week", "error", err, "id", id)
		writeError(w, http.StatusInternalServerError, "Failed to fetch week")
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

type updateWeekRequest struct {
	Status core.WeekStatus `json:"status"`
}

func (s *Server) handleUpdateWeekStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid id")
		return
	}
	var req updateWeekRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if !req.Status.Valid() {
		writeError(w, http.StatusBadRequest, core.ErrInvalidStatus.Error())
		return
	}

	week, err := s.weeks.ChangeStatus(r.Context(), id, req.Status)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed updating week status", "error", err, "id", id, "status", req.Status)
		writeError(w, http.StatusInternalServerError, "Failed to update week")
		return
	}
	writeJSON(w, http.StatusOK, week)
}

func (s *Server) handleDeleteWeek(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid id")
		return
	}
	if err := s.store.DeleteWeekCascade(r.Context(), id); err != nil {
		slog.ErrorContext(r.Context(), "Failed deleting week", "error", err, "id", id)
		writeError(w, http.StatusInternalServerError, "Failed to delete week")
		return
	}
	s.listCache.Delete(strconv.FormatInt(id, 10))
	writeOK(w)
}

func (s *Server) handleListDayPlans(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid id")
		return
	}
	days, err := s.store.ListDayPlans(r.Context(), id)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed listing day plans", "error", err, "week_id", id)
		writeError(w, http.StatusInternalServerError, "Failed to fetch day plans")
		return
	}
	writeJSON(w, http.StatusOK, days)
}

type upsertDayPlansRequest struct {
	Days []core.DayPlan `json:"days"`
}

func (s *Server) handleUpsertDayPlans(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid id")
		return
	}
	var req upsertDayPlansRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if len(req.Days) == 0 {
		writeError(w, http.StatusBadRequest, "days must not be empty")
		return
	}
	for i := range req.Days {
		req.Days[i].Menu = sanitizePtr(req.Days[i].Menu)
		if err := req.Days[i].Validate(); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	if err := s.store.UpsertDayPlans(r.Context(), id, req.Days); err != nil {
		slog.ErrorContext(r.Context(), "Failed upserting day plans", "error", err, "week_id", id)
		writeError(w, http.StatusInternalServerError, "Failed to save day plans")
		return
	}
	writeOK(w)
}

func (s *Server) handleListRequirements(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid id")
		return
	}
	reqs, err := s.store.ListRequirements(r.Context(), id)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed listing requirements", "error", err, "week_id", id)
		writeError(w, http.StatusInternalServerError, "Failed to fetch requirements")
		return
	}
	writeJSON(w, http.StatusOK, reqs)
}

type upsertRequirementsRequest struct {
	Items []core.WeeklyRequirement `json:"items"`
}

func (s *Server) handleUpsertRequirements(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid id")
		return
	}
	var req upsertRequirementsRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if len(req.Items) == 0 {
		writeError(w, http.StatusBadRequest, "items must not be empty")
		return
	}
	for i := range req.Items {
		req.Items[i].Notes = sanitizePtr(req.Items[i].Notes)
		if err := req.Items[i].Validate(); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if req.Items[i].RequiredQty.IsNegative() {
			writeError(w, http.StatusBadRequest, "required_qty must not be negative")
			return
		}
	}

	if err := s.store.UpsertRequirements(r.Context(), id, req.Items); err != nil {
		slog.ErrorContext(r.Context(), "Failed upserting requirements", "error", err, "week_id", id)
		writeError(w, http.StatusInternalServerError, "Failed to save requirements")
		return
	}
	s.listCache.Delete(strconv.FormatInt(id, 10))
	writeOK(w)
}
