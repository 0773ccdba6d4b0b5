package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/laaraari2/theatre-management-system-sub001/internal/grouping"
	"github.com/laaraari2/theatre-management-system-sub001/internal/migration"
	"github.com/laaraari2/theatre-management-system-sub001/internal/models"
	"github.com/laaraari2/theatre-management-system-sub001/internal/months"
	"github.com/laaraari2/theatre-management-system-sub001/internal/service"
	"github.com/laaraari2/theatre-management-system-sub001/pkg/helpers"
)

// CalendarService is what the handler needs from the service layer
type CalendarService interface {
	Months(ctx context.Context) service.MonthsView
	UpdateMonths(ctx context.Context, entries []models.CustomMonthEntry) error
	ResetMonths(ctx context.Context) ([]models.CustomMonthEntry, error)
	ParseDate(raw string) service.ParsedDate
	GroupRecords(records []models.Record) []grouping.Bucket[models.Record]
	GroupActivities(ctx context.Context, keys []string) (*service.GroupedActivities, error)
	MigrateHijri(ctx context.Context, dryRun bool) (*migration.Result[models.Activity], error)
}

type CalendarHandler struct {
	service CalendarService
}

func NewCalendarHandler(svc CalendarService) *CalendarHandler {
	return &CalendarHandler{service: svc}
}

// RegisterCalendarHandler mounts the calendar routes on r
func RegisterCalendarHandler(r *mux.Router, svc CalendarService) {
	h := NewCalendarHandler(svc)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/calendar/months", h.GetMonths).Methods(http.MethodGet)
	api.HandleFunc("/calendar/months", h.UpdateMonths).Methods(http.MethodPut)
	api.HandleFunc("/calendar/months/reset", h.ResetMonths).Methods(http.MethodPost)
	api.HandleFunc("/calendar/parse", h.ParseDate).Methods(http.MethodPost)
	api.HandleFunc("/calendar/group", h.GroupRecords).Methods(http.MethodPost)
	api.HandleFunc("/activities/grouped", h.GroupedActivities).Methods(http.MethodGet)
	api.HandleFunc("/activities/migrate-hijri", h.MigrateHijri).Methods(http.MethodPost)
}

// GetMonths handles GET /api/calendar/months
func (h *CalendarHandler) GetMonths(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.Months(r.Context()))
}

// UpdateMonths handles PUT /api/calendar/months
// Body: {"months": [CustomMonthEntry...]}
func (h *CalendarHandler) UpdateMonths(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Months []models.CustomMonthEntry `json:"months"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.service.UpdateMonths(r.Context(), req.Months); err != nil {
		if errors.Is(err, months.ErrInvalidEntry) {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
				"error":  err.Error(),
				"fields": helpers.FieldErrors(err),
			})
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to save months")
		return
	}

	writeJSON(w, http.StatusOK, h.service.Months(r.Context()))
}

// ResetMonths handles POST /api/calendar/months/reset
func (h *CalendarHandler) ResetMonths(w http.ResponseWriter, r *http.Request) {
	if _, err := h.service.ResetMonths(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to reset months")
		return
	}

	writeJSON(w, http.StatusOK, h.service.Months(r.Context()))
}

// ParseDate handles POST /api/calendar/parse
// Body: {"date": "..."}; a null or missing date is reported as absent
func (h *CalendarHandler) ParseDate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Date *string `json:"date"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	raw := ""
	if req.Date != nil {
		raw = *req.Date
	}
	writeJSON(w, http.StatusOK, h.service.ParseDate(raw))
}

// GroupRecords handles POST /api/calendar/group
// Body: {"records": [{"id": ..., "date": ..., ...}]}
func (h *CalendarHandler) GroupRecords(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Records []models.Record `json:"records"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	buckets := h.service.GroupRecords(req.Records)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"buckets": buckets,
		"options": grouping.MonthOptions(buckets),
	})
}

// GroupedActivities handles GET /api/activities/grouped
// Query params: months (comma separated bucket keys, optional)
func (h *CalendarHandler) GroupedActivities(w http.ResponseWriter, r *http.Request) {
	var keys []string
	if raw := r.URL.Query().Get("months"); raw != "" {
		for _, k := range strings.Split(raw, ",") {
			if k = strings.TrimSpace(k); k != "" {
				keys = append(keys, k)
			}
		}
	}

	out, err := h.service.GroupActivities(r.Context(), keys)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load activities")
		return
	}

	writeJSON(w, http.StatusOK, out)
}

// MigrateHijri handles POST /api/activities/migrate-hijri
// Query params: dry_run (true|false)
func (h *CalendarHandler) MigrateHijri(w http.ResponseWriter, r *http.Request) {
	dryRun := r.URL.Query().Get("dry_run") == "true"

	res, err := h.service.MigrateHijri(r.Context(), dryRun)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "migration failed")
		return
	}

	writeJSON(w, http.StatusOK, res)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
