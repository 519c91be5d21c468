package reportshandler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"leavedesk/internal/domain/reports"
	"leavedesk/internal/platform/jobs"
	"leavedesk/internal/transport/http/api"
	"leavedesk/internal/transport/http/middleware"
	"leavedesk/internal/transport/http/shared"
)

type Handler struct {
	Service *reports.Service
	Jobs    *jobs.Service
}

func NewHandler(service *reports.Service, jobsSvc *jobs.Service) *Handler {
	return &Handler{Service: service, Jobs: jobsSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/reports", func(r chi.Router) {
		r.Get("/departments", h.handleDepartmentSummary)
		r.Get("/system", h.handleSystemStats)
		r.Get("/info", h.handleSystemInfo)
		r.Get("/quick-start", h.handleQuickStart)
	})
	r.Get("/jobs/runs", h.handleJobRuns)
}

func (h *Handler) handleDepartmentSummary(w http.ResponseWriter, r *http.Request) {
	summary := h.Service.DepartmentSummary(r.Context(), r.URL.Query().Get("department"))
	api.Success(w, summary, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleSystemStats(w http.ResponseWriter, r *http.Request) {
	api.Success(w, h.Service.SystemStats(r.Context()), middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleSystemInfo(w http.ResponseWriter, r *http.Request) {
	api.Success(w, h.Service.SystemInfo(r.Context()), middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleQuickStart(w http.ResponseWriter, r *http.Request) {
	api.Success(w, h.Service.QuickStart(), middleware.GetRequestID(r.Context()))
}

type JobRunsResponse struct {
	Runs    []jobs.Run `json:"runs"`
	NextRun string     `json:"nextRun,omitempty"`
}

func (h *Handler) handleJobRuns(w http.ResponseWriter, r *http.Request) {
	v := shared.NewValidator()
	page := shared.ParsePagination(r, v, 50, 200)
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}
	out := JobRunsResponse{Runs: h.Jobs.Runs(r.URL.Query().Get("jobType"), page.Limit)}
	if next, ok := h.Jobs.NextRun(); ok {
		out.NextRun = next.Format(time.RFC3339)
	}
	api.Success(w, out, middleware.GetRequestID(r.Context()))
}
