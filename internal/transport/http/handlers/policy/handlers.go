package policyhandler

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"leavedesk/internal/domain/audit"
	"leavedesk/internal/domain/policy"
	"leavedesk/internal/transport/http/api"
	"leavedesk/internal/transport/http/middleware"
	"leavedesk/internal/transport/http/shared"
)

const (
	maxSearchLimit = 50
	maxPolicyIDLen = 64
	maxTitleLen    = 200
)

// Metrics is satisfied by *metrics.Collector.
type Metrics interface {
	PolicySearch(results int)
}

// ReloadFunc re-ingests the configured policy directory and returns the
// number of documents loaded.
type ReloadFunc func(ctx context.Context) (int, error)

type Handler struct {
	Service *policy.Service
	Audit   shared.Auditor
	Metrics Metrics
	Reload  ReloadFunc
}

func NewHandler(service *policy.Service, auditor shared.Auditor, metrics Metrics, reload ReloadFunc) *Handler {
	return &Handler{Service: service, Audit: auditor, Metrics: metrics, Reload: reload}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/policies", func(r chi.Router) {
		r.Get("/", h.handleListPolicies)
		r.Post("/", h.handleAddPolicy)
		r.Get("/categories", h.handleListCategories)
		r.Get("/search", h.handleSearch)
		r.Post("/ask", h.handleAsk)
		r.Post("/reload", h.handleReload)
		r.Get("/{policyID}", h.handleGetPolicy)
	})
}

type addPolicyPayload struct {
	PolicyID string `json:"policyId"`
	Title    string `json:"title"`
	Content  string `json:"content"`
	Category string `json:"category"`
}

type AddResult struct {
	policy.Summary
	Replaced bool `json:"replaced"`
}

func (h *Handler) handleAddPolicy(w http.ResponseWriter, r *http.Request) {
	var payload addPolicyPayload
	if !shared.DecodeJSON(w, r, &payload) {
		return
	}
	v := shared.NewValidator()
	v.Required("policyId", payload.PolicyID, "is required")
	v.Required("title", payload.Title, "is required")
	v.MaxLen("policyId", payload.PolicyID, maxPolicyIDLen)
	v.MaxLen("title", payload.Title, maxTitleLen)
	category := v.Enum("category", payload.Category, categoryNames())
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	var before any
	if prev, ok := h.Service.Store.Get(strings.TrimSpace(payload.PolicyID)); ok {
		before = prev.Summary()
	}
	doc, replaced, err := h.Service.Add(r.Context(), policy.AddInput{
		ID:       payload.PolicyID,
		Title:    payload.Title,
		Content:  payload.Content,
		Category: category,
	})
	if err != nil {
		api.FailError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	shared.RecordAudit(r, h.Audit, audit.ActionPolicyAdd, audit.EntityPolicy, doc.ID, before, doc.Summary())

	result := AddResult{Summary: doc.Summary(), Replaced: replaced}
	if replaced {
		api.Success(w, result, middleware.GetRequestID(r.Context()))
		return
	}
	api.Created(w, result, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListPolicies(w http.ResponseWriter, r *http.Request) {
	docs := h.Service.List(r.Context(), r.URL.Query().Get("category"))
	out := make([]policy.Summary, 0, len(docs))
	for _, doc := range docs {
		out = append(out, doc.Summary())
	}
	api.Success(w, out, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListCategories(w http.ResponseWriter, r *http.Request) {
	api.Success(w, policy.Categories(), middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGetPolicy(w http.ResponseWriter, r *http.Request) {
	doc, err := h.Service.Get(r.Context(), chi.URLParam(r, "policyID"))
	if err != nil {
		api.FailError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, doc, middleware.GetRequestID(r.Context()))
}

type SearchResponse struct {
	Query   string                `json:"query"`
	Count   int                   `json:"resultsFound"`
	Results []policy.RankedResult `json:"results"`
}

func (h *Handler) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	v := shared.NewValidator()
	v.Required("q", query, "is required")
	limit := min(v.Int("limit", r.URL.Query().Get("limit"), 1, 0), maxSearchLimit)
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	results := h.Service.Search(r.Context(), query, r.URL.Query().Get("category"), limit)
	h.searched(len(results))
	api.Success(w, SearchResponse{Query: query, Count: len(results), Results: results}, middleware.GetRequestID(r.Context()))
}

type askPayload struct {
	Question string `json:"question"`
	Category string `json:"category"`
}

func (h *Handler) handleAsk(w http.ResponseWriter, r *http.Request) {
	var payload askPayload
	if !shared.DecodeJSON(w, r, &payload) {
		return
	}
	v := shared.NewValidator()
	v.Required("question", payload.Question, "is required")
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}
	answer := h.Service.Answer(r.Context(), payload.Question, payload.Category)
	h.searched(len(answer.Sources))
	api.Success(w, answer, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleReload(w http.ResponseWriter, r *http.Request) {
	if h.Reload == nil {
		api.Fail(w, http.StatusConflict, "invalid_state", "no policy directory configured", middleware.GetRequestID(r.Context()))
		return
	}
	loaded, err := h.Reload(r.Context())
	if err != nil {
		api.FailError(w, err, middleware.GetRequestID(r.Context()))
		return
	}
	shared.RecordAudit(r, h.Audit, audit.ActionPolicyReload, audit.EntityPolicy, "", nil, map[string]int{"loaded": loaded})
	api.Success(w, map[string]int{"loaded": loaded, "total": h.Service.Store.Len()}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) searched(results int) {
	if h.Metrics != nil {
		h.Metrics.PolicySearch(results)
	}
}

func categoryNames() []string {
	cats := policy.Categories()
	out := make([]string, 0, len(cats))
	for _, c := range cats {
		out = append(out, string(c))
	}
	return out
}
