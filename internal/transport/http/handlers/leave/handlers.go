package leavehandler

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"leavedesk/internal/domain/audit"
	"leavedesk/internal/domain/leave"
	"leavedesk/internal/transport/http/api"
	"leavedesk/internal/transport/http/middleware"
	"leavedesk/internal/transport/http/shared"
)

const (
	maxReasonLen = 500
	maxListLimit = 500
)

// Metrics is satisfied by *metrics.Collector.
type Metrics interface {
	LeaveTransition(status string)
}

type Handler struct {
	Service *leave.Service
	Audit   shared.Auditor
	Metrics Metrics
	Now     func() time.Time
}

func NewHandler(service *leave.Service, auditor shared.Auditor, metrics Metrics) *Handler {
	return &Handler{Service: service, Audit: auditor, Metrics: metrics, Now: time.Now}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/leave", func(r chi.Router) {
		r.Get("/types", h.handleListTypes)
		r.Get("/requests", h.handleListRequests)
		r.Post("/requests", h.handleCreateRequest)
		r.Get("/requests/export.pdf", h.handleExportPDF)
		r.Get("/requests/{requestID}", h.handleGetRequest)
		r.Post("/requests/{requestID}/approve", h.handleApproveRequest)
		r.Post("/requests/{requestID}/reject", h.handleRejectRequest)
		r.Get("/balances/{employeeID}", h.handleGetBalance)
		r.Post("/balances/{employeeID}/adjust", h.handleAdjustBalance)
	})
}

type LeaveTypeView struct {
	Type           leave.LeaveType `json:"leaveType"`
	BalanceChecked bool            `json:"balanceChecked"`
}

func (h *Handler) handleListTypes(w http.ResponseWriter, r *http.Request) {
	types := leave.LeaveTypes()
	out := make([]LeaveTypeView, 0, len(types))
	for _, lt := range types {
		out = append(out, LeaveTypeView{Type: lt, BalanceChecked: h.Service.IsBalanceChecked(lt)})
	}
	api.Success(w, out, middleware.GetRequestID(r.Context()))
}

type createRequestPayload struct {
	EmployeeID string `json:"employeeId"`
	StartDate  string `json:"startDate"`
	EndDate    string `json:"endDate"`
	LeaveType  string `json:"leaveType"`
	Reason     string `json:"reason"`
}

func (h *Handler) handleCreateRequest(w http.ResponseWriter, r *http.Request) {
	var payload createRequestPayload
	if !shared.DecodeJSON(w, r, &payload) {
		return
	}
	v := shared.NewValidator()
	v.Required("employeeId", payload.EmployeeID, "is required")
	v.Required("startDate", payload.StartDate, "is required")
	v.Required("endDate", payload.EndDate, "is required")
	v.MaxLen("reason", payload.Reason, maxReasonLen)
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	req, err := h.Service.Submit(r.Context(), leave.SubmitInput{
		EmployeeID: strings.TrimSpace(payload.EmployeeID),
		StartDate:  strings.TrimSpace(payload.StartDate),
		EndDate:    strings.TrimSpace(payload.EndDate),
		LeaveType:  payload.LeaveType,
		Reason:     payload.Reason,
	})
	if err != nil {
		api.FailError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	h.transition(req.Status)
	shared.RecordAudit(r, h.Audit, audit.ActionLeaveSubmit, audit.EntityLeaveRequest, req.ID, nil, req)
	api.Created(w, req, middleware.GetRequestID(r.Context()))
}

// filterFromQuery reads status and employeeId. Status accepts "All".
func filterFromQuery(r *http.Request) (leave.RequestFilter, bool) {
	status, ok := leave.ParseStatus(r.URL.Query().Get("status"))
	if !ok {
		return leave.RequestFilter{}, false
	}
	return leave.RequestFilter{
		EmployeeID: strings.TrimSpace(r.URL.Query().Get("employeeId")),
		Status:     status,
	}, true
}

func (h *Handler) handleListRequests(w http.ResponseWriter, r *http.Request) {
	filter, ok := filterFromQuery(r)
	if !ok {
		api.Fail(w, http.StatusBadRequest, "invalid_input", "status must be All, Pending, Approved or Rejected", middleware.GetRequestID(r.Context()))
		return
	}
	if filter.EmployeeID != "" {
		if _, err := h.Service.BalanceOf(r.Context(), filter.EmployeeID); err != nil {
			api.FailError(w, err, middleware.GetRequestID(r.Context()))
			return
		}
	}
	v := shared.NewValidator()
	page := shared.ParsePagination(r, v, 0, maxListLimit)
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}
	requests := h.Service.ListRequests(r.Context(), filter)
	w.Header().Set("X-Total-Count", strconv.Itoa(len(requests)))
	api.Success(w, shared.Window(requests, page), middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleExportPDF(w http.ResponseWriter, r *http.Request) {
	filter, ok := filterFromQuery(r)
	if !ok {
		api.Fail(w, http.StatusBadRequest, "invalid_input", "status must be All, Pending, Approved or Rejected", middleware.GetRequestID(r.Context()))
		return
	}
	v := shared.NewValidator()
	from, to := time.Time{}, time.Time{}
	if raw := r.URL.Query().Get("from"); raw != "" {
		from, _ = v.Date("from", raw)
	}
	if raw := r.URL.Query().Get("to"); raw != "" {
		to, _ = v.Date("to", raw)
	}
	v.DateOrder("from", from, "to", to)
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	requests := overlapping(h.Service.ListRequests(r.Context(), filter), from, to)
	var buf bytes.Buffer
	if err := leave.WriteRegisterPDF(&buf, requests, h.Now()); err != nil {
		slog.Warn("leave register export failed", "err", err)
		api.Fail(w, http.StatusInternalServerError, "export_failed", "failed to render leave register", middleware.GetRequestID(r.Context()))
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=leave-register-%s.pdf", h.Now().Format("20060102")))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		slog.Warn("leave register write failed", "err", err)
	}
}

// overlapping keeps requests whose span touches [from, to]. Zero bounds are
// open.
func overlapping(requests []leave.Request, from, to time.Time) []leave.Request {
	if from.IsZero() && to.IsZero() {
		return requests
	}
	out := requests[:0]
	for _, req := range requests {
		if !from.IsZero() && req.EndDate.Before(from) {
			continue
		}
		if !to.IsZero() && req.StartDate.After(to) {
			continue
		}
		out = append(out, req)
	}
	return out
}

func (h *Handler) handleGetRequest(w http.ResponseWriter, r *http.Request) {
	req, err := h.Service.GetRequest(r.Context(), chi.URLParam(r, "requestID"))
	if err != nil {
		api.FailError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, req, middleware.GetRequestID(r.Context()))
}

type decisionPayload struct {
	ApproverID string `json:"approverId"`
	Reason     string `json:"reason"`
}

// approver prefers the explicit payload value, then the declared actor.
func approver(r *http.Request, payload decisionPayload) string {
	if id := strings.TrimSpace(payload.ApproverID); id != "" {
		return id
	}
	return middleware.GetActor(r.Context())
}

func (h *Handler) handleApproveRequest(w http.ResponseWriter, r *http.Request) {
	var payload decisionPayload
	if !shared.DecodeJSON(w, r, &payload) {
		return
	}
	requestID := chi.URLParam(r, "requestID")
	before, err := h.Service.GetRequest(r.Context(), requestID)
	if err != nil {
		api.FailError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	updated, err := h.Service.Approve(r.Context(), requestID, approver(r, payload))
	if err != nil {
		api.FailError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	h.transition(updated.Status)
	shared.RecordAudit(r, h.Audit, audit.ActionLeaveApprove, audit.EntityLeaveRequest, requestID, before, updated)
	api.Success(w, updated, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleRejectRequest(w http.ResponseWriter, r *http.Request) {
	var payload decisionPayload
	if !shared.DecodeJSON(w, r, &payload) {
		return
	}
	requestID := chi.URLParam(r, "requestID")
	before, err := h.Service.GetRequest(r.Context(), requestID)
	if err != nil {
		api.FailError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	updated, err := h.Service.Reject(r.Context(), requestID, payload.Reason, approver(r, payload))
	if err != nil {
		api.FailError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	h.transition(updated.Status)
	shared.RecordAudit(r, h.Audit, audit.ActionLeaveReject, audit.EntityLeaveRequest, requestID, before, updated)
	api.Success(w, updated, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGetBalance(w http.ResponseWriter, r *http.Request) {
	summary, err := h.Service.CheckBalance(r.Context(), chi.URLParam(r, "employeeID"))
	if err != nil {
		api.FailError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, summary, middleware.GetRequestID(r.Context()))
}

type adjustPayload struct {
	Days int `json:"days"`
}

func (h *Handler) handleAdjustBalance(w http.ResponseWriter, r *http.Request) {
	var payload adjustPayload
	if !shared.DecodeJSON(w, r, &payload) {
		return
	}
	v := shared.NewValidator()
	v.NonZero("days", payload.Days)
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}
	employeeID := chi.URLParam(r, "employeeID")
	adj, err := h.Service.AdjustBalance(r.Context(), employeeID, payload.Days)
	if err != nil {
		api.FailError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	shared.RecordAudit(r, h.Audit, audit.ActionBalanceAdjust, audit.EntityLeaveBalance, employeeID,
		map[string]int{"balance": adj.OldBalance}, map[string]int{"balance": adj.NewBalance})
	api.Success(w, adj, middleware.GetRequestID(r.Context()))
}

func (h *Handler) transition(status leave.Status) {
	if h.Metrics != nil {
		h.Metrics.LeaveTransition(string(status))
	}
}
