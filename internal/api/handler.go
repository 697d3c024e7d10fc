// Package api exposes the planner over HTTP.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"mime"
	"net/http"
	"strconv"
	"time"

	"github.com/mauriantolin/tu-carrera/internal/curriculum"
	"github.com/mauriantolin/tu-carrera/internal/planner"
	"github.com/mauriantolin/tu-carrera/internal/session"
)

const readyTimeout = 2 * time.Second

// Checker is a dependency probed by /readyz.
type Checker interface {
	HealthCheck(ctx context.Context) error
}

// CatalogLister lists the loaded curricula.
type CatalogLister interface {
	All() []*curriculum.Curriculum
}

// Config holds dependencies for the HTTP handler.
type Config struct {
	Service  *session.Service
	Catalogs CatalogLister      // optional; enables GET /v1/curricula
	Checks   map[string]Checker // probed by /readyz
}

// Handler serves the planner API.
type Handler struct {
	svc      *session.Service
	catalogs CatalogLister
	checks   map[string]Checker
}

// NewHandler creates a handler.
func NewHandler(cfg Config) *Handler {
	return &Handler{
		svc:      cfg.Service,
		catalogs: cfg.Catalogs,
		checks:   cfg.Checks,
	}
}

// Routes returns the HTTP router.
func (h *Handler) Routes() *http.ServeMux {
	const student = "/v1/curricula/{curriculum}/students/{student}"

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", h.handleHealthz)
	mux.HandleFunc("GET /readyz", h.handleReadyz)

	mux.HandleFunc("GET /v1/curricula", h.handleCurricula)
	mux.HandleFunc("GET /v1/curricula/{curriculum}/courses/{course}", h.handleAnalyze)

	mux.HandleFunc("GET "+student+"/available", h.handleAvailable)
	mux.HandleFunc("GET "+student+"/blocking/{course}", h.handleBlocking)
	mux.HandleFunc("POST "+student+"/toggle/{course}", h.handleToggle)
	mux.HandleFunc("POST "+student+"/validate", h.handleValidate)
	mux.HandleFunc("GET "+student+"/schedule", h.handleSchedule)
	mux.HandleFunc("GET "+student+"/schedule.xlsx", h.handleScheduleWorkbook)
	mux.HandleFunc("GET "+student+"/progress", h.handleProgress)
	mux.HandleFunc("DELETE "+student, h.handleReset)
	return mux
}

func (h *Handler) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

func (h *Handler) handleReadyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	for name, check := range h.checks {
		if err := check.HealthCheck(ctx); err != nil {
			slog.Warn("readiness check failed", "dependency", name, "error", err)
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status":     "unavailable",
				"dependency": name,
			})
			return
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ready"}`))
}

type curriculumSummary struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	MaxYear int    `json:"max_year"`
	Courses int    `json:"courses"`
}

func (h *Handler) handleCurricula(w http.ResponseWriter, r *http.Request) {
	out := []curriculumSummary{}
	if h.catalogs != nil {
		for _, c := range h.catalogs.All() {
			out = append(out, curriculumSummary{
				ID:      c.ID,
				Name:    c.Name,
				MaxYear: c.MaxYear,
				Courses: c.Catalog.Len(),
			})
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"curricula": out})
}

func (h *Handler) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	analysis, err := h.svc.Analyze(r.PathValue("curriculum"), courseID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, analysis)
}

func (h *Handler) handleAvailable(w http.ResponseWriter, r *http.Request) {
	courses, err := h.svc.Available(r.Context(), sessionKey(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"courses": courseViews(courses)})
}

func (h *Handler) handleBlocking(w http.ResponseWriter, r *http.Request) {
	key := sessionKey(r)
	blocking, err := h.svc.Blocking(r.Context(), key, courseID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	cur, err := h.svc.Curriculum(key.CurriculumID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"course_id": courseID(r),
		"blocking":  refViews(cur.Catalog, blocking),
	})
}

type toggleResponse struct {
	CourseID   curriculum.CourseID `json:"course_id"`
	Completed  bool                `json:"completed"`
	Rejected   bool                `json:"rejected"`
	Blocking   []courseRef         `json:"blocking,omitempty"`
	Removed    []courseRef         `json:"removed,omitempty"`
	Completion []string            `json:"completion"`
}

func (h *Handler) handleToggle(w http.ResponseWriter, r *http.Request) {
	key := sessionKey(r)
	id := courseID(r)
	res, err := h.svc.Toggle(r.Context(), key, id)
	if err != nil {
		writeError(w, err)
		return
	}
	cur, err := h.svc.Curriculum(key.CurriculumID)
	if err != nil {
		writeError(w, err)
		return
	}

	status := http.StatusOK
	if res.Rejected {
		status = http.StatusConflict
	}
	writeJSON(w, status, toggleResponse{
		CourseID:   id,
		Completed:  res.Completed,
		Rejected:   res.Rejected,
		Blocking:   refViews(cur.Catalog, res.Blocking),
		Removed:    refViews(cur.Catalog, res.Removed),
		Completion: res.Completion.Strings(),
	})
}

func (h *Handler) handleValidate(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Recommendations []planner.Recommendation `json:"recommendations"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	res, err := h.svc.Validate(r.Context(), sessionKey(r), body.Recommendations)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) handleSchedule(w http.ResponseWriter, r *http.Request) {
	plan, err := h.svc.Schedule(r.Context(), sessionKey(r), excludeElectives(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

func (h *Handler) handleScheduleWorkbook(w http.ResponseWriter, r *http.Request) {
	key := sessionKey(r)
	plan, err := h.svc.Schedule(r.Context(), key, excludeElectives(r))
	if err != nil {
		writeError(w, err)
		return
	}

	var buf bytes.Buffer
	if err := planner.WriteWorkbook(&buf, plan); err != nil {
		slog.Error("failed to render workbook", "curriculum_id", key.CurriculumID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", attachment("plan-"+key.CurriculumID+".xlsx"))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

func (h *Handler) handleProgress(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.Progress(r.Context(), sessionKey(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *Handler) handleReset(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Reset(r.Context(), sessionKey(r)); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// attachment builds a Content-Disposition value with filename quoted or
// RFC 2231 encoded as needed.
func attachment(filename string) string {
	if v := mime.FormatMediaType("attachment", map[string]string{"filename": filename}); v != "" {
		return v
	}
	return "attachment"
}

func sessionKey(r *http.Request) session.Key {
	return session.Key{
		StudentID:    r.PathValue("student"),
		CurriculumID: r.PathValue("curriculum"),
	}
}

func courseID(r *http.Request) curriculum.CourseID {
	return curriculum.CourseID(r.PathValue("course"))
}

func excludeElectives(r *http.Request) bool {
	v, _ := strconv.ParseBool(r.URL.Query().Get("exclude_electives"))
	return v
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, curriculum.ErrUnknownCourse), errors.Is(err, curriculum.ErrCurriculumNotFound):
		return http.StatusNotFound
	case errors.Is(err, curriculum.ErrMalformedCatalog):
		return http.StatusUnprocessableEntity
	case errors.Is(err, planner.ErrMissingContext), errors.Is(err, session.ErrMissingStudent):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		slog.Error("request failed", "error", err)
		msg = "internal error"
	}
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("failed to encode response", "error", err)
	}
}
