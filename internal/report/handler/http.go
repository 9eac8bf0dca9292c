// Package handler exposes the report pipelines and signoff records over HTTP.
package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"signoff-dashboard/backend/internal/report"
	runlogrepo "signoff-dashboard/backend/internal/runlog/repository"
	signoffdomain "signoff-dashboard/backend/internal/signoff/domain"
	signoffrepo "signoff-dashboard/backend/internal/signoff/repository"
)

const defaultPageLimit = 100

// Handler serves the dashboard API: the four report listings, run refresh and
// history, and signoff event maintenance.
type Handler struct {
	reports  *report.Service
	runs     runlogrepo.Repository
	signoffs signoffrepo.Repository
}

// New returns a Handler.
func New(reports *report.Service, runs runlogrepo.Repository, signoffs signoffrepo.Repository) *Handler {
	return &Handler{reports: reports, runs: runs, signoffs: signoffs}
}

// Register mounts all report routes on the mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/reports/signoff-history", h.listHistory)
	mux.HandleFunc("GET /api/v1/reports/qualification", h.listQualification)
	mux.HandleFunc("GET /api/v1/reports/never-signed-off", h.listNeverSignedOff)
	mux.HandleFunc("GET /api/v1/reports/risk", h.listRisk)
	mux.HandleFunc("POST /api/v1/reports/refresh", h.refresh)
	mux.HandleFunc("GET /api/v1/runs", h.listRuns)
	mux.HandleFunc("GET /api/v1/signoffs", h.listSignoffs)
	mux.HandleFunc("GET /api/v1/signoffs/{id}", h.getSignoff)
	mux.HandleFunc("POST /api/v1/signoffs", h.createSignoff)
	mux.HandleFunc("DELETE /api/v1/signoffs/{id}", h.deleteSignoff)
}

// listResponse is the envelope for every paged listing.
type listResponse struct {
	AsOf  time.Time   `json:"as_of"`
	Total int         `json:"total"`
	Rows  interface{} `json:"rows"`
}

func (h *Handler) listHistory(w http.ResponseWriter, r *http.Request) {
	q, err := parseQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	asOf, ok := h.reports.AsOf()
	if !ok {
		writeError(w, http.StatusConflict, "no report run has completed yet")
		return
	}
	rows, total := h.reports.History(q)
	writeJSON(w, http.StatusOK, listResponse{AsOf: asOf, Total: total, Rows: rows})
}

func (h *Handler) listQualification(w http.ResponseWriter, r *http.Request) {
	q, err := parseQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	asOf, ok := h.reports.AsOf()
	if !ok {
		writeError(w, http.StatusConflict, "no report run has completed yet")
		return
	}
	rows, total := h.reports.Qualification(q)
	writeJSON(w, http.StatusOK, listResponse{AsOf: asOf, Total: total, Rows: rows})
}

func (h *Handler) listNeverSignedOff(w http.ResponseWriter, r *http.Request) {
	q, err := parseQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	asOf, ok := h.reports.AsOf()
	if !ok {
		writeError(w, http.StatusConflict, "no report run has completed yet")
		return
	}
	rows, total := h.reports.NeverSignedOff(q)
	writeJSON(w, http.StatusOK, listResponse{AsOf: asOf, Total: total, Rows: rows})
}

func (h *Handler) listRisk(w http.ResponseWriter, r *http.Request) {
	q, err := parseQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	asOf, ok := h.reports.AsOf()
	if !ok {
		writeError(w, http.StatusConflict, "no report run has completed yet")
		return
	}
	rows, total := h.reports.Risk(q)
	writeJSON(w, http.StatusOK, listResponse{AsOf: asOf, Total: total, Rows: rows})
}

func (h *Handler) refresh(w http.ResponseWriter, r *http.Request) {
	run, err := h.reports.Refresh(r.Context())
	if err != nil {
		log.Printf("handler: refresh failed: %v", err)
		writeError(w, http.StatusInternalServerError, "report refresh failed")
		return
	}
	writeJSON(w, http.StatusOK, run)
}

func (h *Handler) listRuns(w http.ResponseWriter, r *http.Request) {
	limit, offset, err := parsePage(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	runs, err := h.runs.List(r.Context(), int32(limit), int32(offset))
	if err != nil {
		log.Printf("handler: list runs failed: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to list runs")
		return
	}
	writeJSON(w, http.StatusOK, runs)
}

// createSignoffRequest is the POST /api/v1/signoffs body.
type createSignoffRequest struct {
	ContractID    string    `json:"contract_id"`
	UserID        string    `json:"user_id"`
	CreatedAt     time.Time `json:"created_at"`
	MethodID      string    `json:"method_id"`
	IdentityID    string    `json:"identity_id"`
	DeferReasonID string    `json:"defer_reason_id,omitempty"`
	EngagementID  string    `json:"engagement_id,omitempty"`
	EventTypeID   string    `json:"event_type_id,omitempty"`
}

func (h *Handler) createSignoff(w http.ResponseWriter, r *http.Request) {
	var req createSignoffRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.CreatedAt.IsZero() {
		req.CreatedAt = time.Now().UTC()
	}
	e := &signoffdomain.SignoffEvent{
		ID:            uuid.New().String(),
		ContractID:    req.ContractID,
		UserID:        req.UserID,
		CreatedAt:     req.CreatedAt,
		MethodID:      req.MethodID,
		IdentityID:    req.IdentityID,
		DeferReasonID: req.DeferReasonID,
		EngagementID:  req.EngagementID,
		EventTypeID:   req.EventTypeID,
	}
	if err := e.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.signoffs.CreateEvent(r.Context(), e); err != nil {
		log.Printf("handler: create signoff failed: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to create signoff")
		return
	}
	writeJSON(w, http.StatusCreated, e)
}

func (h *Handler) listSignoffs(w http.ResponseWriter, r *http.Request) {
	contractID := r.URL.Query().Get("contract_id")
	if contractID == "" {
		writeError(w, http.StatusBadRequest, "contract_id is required")
		return
	}
	events, err := h.signoffs.ListEventsByContract(r.Context(), contractID)
	if err != nil {
		log.Printf("handler: list signoffs failed: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to list signoffs")
		return
	}
	writeJSON(w, http.StatusOK, events)
}

func (h *Handler) getSignoff(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	e, err := h.signoffs.GetEventByID(r.Context(), id)
	if err != nil {
		log.Printf("handler: get signoff failed: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to get signoff")
		return
	}
	if e == nil {
		writeError(w, http.StatusNotFound, "signoff not found")
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (h *Handler) deleteSignoff(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.signoffs.SoftDeleteEvent(r.Context(), id); err != nil {
		log.Printf("handler: delete signoff failed: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to delete signoff")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// parseQuery reads the shared listing filters. Dates are RFC3339 or YYYY-MM-DD.
func parseQuery(r *http.Request) (report.Query, error) {
	q := report.Query{Limit: defaultPageLimit}
	values := r.URL.Query()

	q.ContractID = values.Get("contract_id")
	if s := values.Get("from"); s != "" {
		t, err := parseDate(s)
		if err != nil {
			return report.Query{}, errors.New("invalid from date")
		}
		q.From = t
	}
	if s := values.Get("to"); s != "" {
		t, err := parseDate(s)
		if err != nil {
			return report.Query{}, errors.New("invalid to date")
		}
		q.To = t
	}
	if s := values.Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			return report.Query{}, errors.New("invalid limit")
		}
		q.Limit = n
	}
	if s := values.Get("offset"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			return report.Query{}, errors.New("invalid offset")
		}
		q.Offset = n
	}
	return q, nil
}

func parsePage(r *http.Request) (limit, offset int, err error) {
	limit = defaultPageLimit
	if s := r.URL.Query().Get("limit"); s != "" {
		limit, err = strconv.Atoi(s)
		if err != nil || limit < 1 {
			return 0, 0, errors.New("invalid limit")
		}
	}
	if s := r.URL.Query().Get("offset"); s != "" {
		offset, err = strconv.Atoi(s)
		if err != nil || offset < 0 {
			return 0, 0, errors.New("invalid offset")
		}
	}
	return limit, offset, nil
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("handler: write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
