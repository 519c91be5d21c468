package corehandler

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"leavedesk/internal/domain/audit"
	"leavedesk/internal/domain/core"
	"leavedesk/internal/domain/leave"
	"leavedesk/internal/transport/http/api"
	"leavedesk/internal/transport/http/middleware"
	"leavedesk/internal/transport/http/shared"
)

const (
	maxEmployeeIDLen = 64
	maxFieldLen      = 200
)

type Handler struct {
	Directory *core.Store
	Leave     *leave.Service
	Audit     shared.Auditor
}

func NewHandler(directory *core.Store, leaveSvc *leave.Service, auditor shared.Auditor) *Handler {
	return &Handler{Directory: directory, Leave: leaveSvc, Audit: auditor}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/employees", func(r chi.Router) {
		r.Get("/", h.handleListEmployees)
		r.Post("/", h.handleCreateEmployee)
		r.Route("/{employeeID}", func(r chi.Router) {
			r.Get("/", h.handleGetEmployee)
			r.Put("/status", h.handleUpdateStatus)
		})
	})
	r.Get("/departments", h.handleListDepartments)
}

type createEmployeeRequest struct {
	EmployeeID string `json:"employeeId"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Department string `json:"department"`
}

type EmployeeView struct {
	Employee     core.Employee `json:"employee"`
	LeaveBalance int           `json:"leaveBalance"`
}

func (h *Handler) handleCreateEmployee(w http.ResponseWriter, r *http.Request) {
	var payload createEmployeeRequest
	if !shared.DecodeJSON(w, r, &payload) {
		return
	}
	v := shared.NewValidator()
	v.Required("employeeId", payload.EmployeeID, "is required")
	v.Required("name", payload.Name, "is required")
	v.MaxLen("employeeId", payload.EmployeeID, maxEmployeeIDLen)
	v.MaxLen("name", payload.Name, maxFieldLen)
	v.MaxLen("email", payload.Email, maxFieldLen)
	v.MaxLen("department", payload.Department, maxFieldLen)
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	reg, err := h.Leave.RegisterEmployee(r.Context(), core.Employee{
		ID:         strings.TrimSpace(payload.EmployeeID),
		Name:       strings.TrimSpace(payload.Name),
		Email:      strings.TrimSpace(payload.Email),
		Department: strings.TrimSpace(payload.Department),
	})
	if err != nil {
		api.FailError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	shared.RecordAudit(r, h.Audit, audit.ActionEmployeeRegister, audit.EntityEmployee, reg.Employee.ID, nil, reg)
	api.Created(w, reg, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListEmployees(w http.ResponseWriter, r *http.Request) {
	employees := h.Directory.List(r.Context(), r.URL.Query().Get("department"))
	if status := r.URL.Query().Get("status"); status != "" {
		want, ok := core.ParseStatus(status)
		if !ok {
			api.Fail(w, http.StatusBadRequest, "invalid_input", "status must be Active or Inactive", middleware.GetRequestID(r.Context()))
			return
		}
		filtered := employees[:0]
		for _, emp := range employees {
			if emp.Status == want {
				filtered = append(filtered, emp)
			}
		}
		employees = filtered
	}
	api.Success(w, employees, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGetEmployee(w http.ResponseWriter, r *http.Request) {
	emp, err := h.Directory.Get(r.Context(), chi.URLParam(r, "employeeID"))
	if err != nil {
		api.FailError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	balance, err := h.Leave.BalanceOf(r.Context(), emp.ID)
	if err != nil {
		api.FailError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, EmployeeView{Employee: emp, LeaveBalance: balance}, middleware.GetRequestID(r.Context()))
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	var payload updateStatusRequest
	if !shared.DecodeJSON(w, r, &payload) {
		return
	}
	status, ok := core.ParseStatus(payload.Status)
	if !ok {
		shared.FailValidation(w, middleware.GetRequestID(r.Context()), []shared.ValidationIssue{{Field: "status", Reason: "must be Active or Inactive"}})
		return
	}

	employeeID := chi.URLParam(r, "employeeID")
	before, err := h.Directory.Get(r.Context(), employeeID)
	if err != nil {
		api.FailError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	updated, err := h.Directory.SetStatus(r.Context(), employeeID, status)
	if err != nil {
		api.FailError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	shared.RecordAudit(r, h.Audit, audit.ActionEmployeeStatus, audit.EntityEmployee, employeeID, before, updated)
	api.Success(w, updated, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListDepartments(w http.ResponseWriter, r *http.Request) {
	departments := h.Directory.Departments(r.Context())
	if departments == nil {
		departments = []string{}
	}
	api.Success(w, departments, middleware.GetRequestID(r.Context()))
}
