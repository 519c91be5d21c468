package toolshandler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"leavedesk/internal/domain/core"
	"leavedesk/internal/domain/leave"
	"leavedesk/internal/domain/policy"
	"leavedesk/internal/domain/reports"
	"leavedesk/internal/platform/sentinel"
	"leavedesk/internal/transport/http/api"
	"leavedesk/internal/transport/http/middleware"
	"leavedesk/internal/transport/http/shared"
)

// Metrics is satisfied by *metrics.Collector.
type Metrics interface {
	LeaveTransition(status string)
	PolicySearch(results int)
}

// Handler exposes the domain operations as named procedures: POST
// /tools/{name} with a JSON object of arguments.
type Handler struct {
	Directory *core.Store
	Leave     *leave.Service
	Policies  *policy.Service
	Reports   *reports.Service
	Audit     shared.Auditor
	Metrics   Metrics

	tools  []Tool
	byName map[string]Tool
}

func NewHandler(directory *core.Store, leaveSvc *leave.Service, policies *policy.Service, reportsSvc *reports.Service, auditor shared.Auditor, metrics Metrics) *Handler {
	h := &Handler{
		Directory: directory,
		Leave:     leaveSvc,
		Policies:  policies,
		Reports:   reportsSvc,
		Audit:     auditor,
		Metrics:   metrics,
	}
	h.tools = h.buildTools()
	h.byName = make(map[string]Tool, len(h.tools))
	for _, t := range h.tools {
		h.byName[t.Name] = t
	}
	return h
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/tools", func(r chi.Router) {
		r.Get("/", h.handleListTools)
		r.Post("/{name}", h.handleCallTool)
	})
}

func (h *Handler) Tools() []Tool {
	out := make([]Tool, len(h.tools))
	copy(out, h.tools)
	return out
}

func (h *Handler) handleListTools(w http.ResponseWriter, r *http.Request) {
	api.Success(w, h.tools, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCallTool(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	tool, ok := h.byName[name]
	if !ok {
		api.FailError(w, fmt.Errorf("tool %q: %w", name, sentinel.ErrNotFound), middleware.GetRequestID(r.Context()))
		return
	}
	var args json.RawMessage
	if !shared.DecodeJSON(w, r, &args) {
		return
	}
	result, err := tool.call(r, args)
	if err != nil {
		api.FailError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, result, middleware.GetRequestID(r.Context()))
}

func (h *Handler) transition(status leave.Status) {
	if h.Metrics != nil {
		h.Metrics.LeaveTransition(string(status))
	}
}

func (h *Handler) searched(results int) {
	if h.Metrics != nil {
		h.Metrics.PolicySearch(results)
	}
}
