package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"progress-dashboard/internal/app"
	"progress-dashboard/internal/domain"
	"progress-dashboard/internal/logging"
	"progress-dashboard/internal/metrics"
)

// Handler serves the dashboard REST API.
type Handler struct {
	service *app.DashboardService
}

func NewHandler(service *app.DashboardService) *Handler {
	return &Handler{service: service}
}

type errorPayload struct {
	Message string `json:"message"`
}

// ListAssignments handles GET /api/assignments?q=&status=&class=&viewer=.
func (h *Handler) ListAssignments(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.ListAssignments(r.Context(), filterFromQuery(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *Handler) Overview(w http.ResponseWriter, r *http.Request) {
	overview, err := h.service.Overview(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, overview)
}

func (h *Handler) StudentAssignments(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.StudentAssignments(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *Handler) StudentActivity(w http.ResponseWriter, r *http.Request) {
	score, err := h.service.StudentActivity(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, score)
}

func (h *Handler) TutorialProgress(w http.ResponseWriter, r *http.Request) {
	progress, err := h.service.TutorialProgress(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, progress)
}

func (h *Handler) SaveTutorialProgress(w http.ResponseWriter, r *http.Request) {
	var progress domain.TutorialProgress
	if err := json.NewDecoder(r.Body).Decode(&progress); err != nil {
		writeJSON(w, http.StatusBadRequest, errorPayload{Message: "invalid request body"})
		return
	}
	progress.UserID = chi.URLParam(r, "id")

	saved, err := h.service.SaveTutorialProgress(r.Context(), progress)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

func filterFromQuery(r *http.Request) domain.FilterQuery {
	q := r.URL.Query()
	query := domain.FilterQuery{
		Text:     q.Get("q"),
		Status:   q.Get("status"),
		Class:    q.Get("class"),
		ViewerID: q.Get("viewer"),
	}
	if query.Status == "" {
		query.Status = metrics.FilterAll
	}
	if query.Class == "" {
		query.Class = metrics.FilterAll
	}
	return query
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidDate):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrStudentNotFound),
		errors.Is(err, domain.ErrAssignmentNotFound),
		errors.Is(err, domain.ErrProgressNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := statusFor(err)
	message := err.Error()
	if code == http.StatusInternalServerError {
		logging.FromContext(r.Context()).Error("request failed", zap.Error(err))
		message = http.StatusText(code)
	}
	writeJSON(w, code, errorPayload{Message: message})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
