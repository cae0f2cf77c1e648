package analytics

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/burnrate/internal/analytics"
	"github.com/MrJamesThe3rd/burnrate/internal/finance"
	"github.com/MrJamesThe3rd/burnrate/internal/ledger"
	"github.com/MrJamesThe3rd/burnrate/internal/report"
)

const maxBodyBytes = 10 << 20

type Handler struct {
	engine  *analytics.Engine
	ledger  *ledger.Service
	reports *report.Service
}

func NewHandler(engine *analytics.Engine, ledgerSvc *ledger.Service, reports *report.Service) *Handler {
	return &Handler{
		engine:  engine,
		ledger:  ledgerSvc,
		reports: reports,
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.calculate)
	r.Post("/insights", h.insights)
	r.Post("/projects", h.projects)
	r.Get("/", h.stored)
	r.Get("/report", h.report)
	r.Get("/stats", h.stats)
}

func (h *Handler) ProjectRoutes(r chi.Router) {
	r.Get("/", h.listProjects)
	r.Get("/{id}/analytics", h.projectAnalytics)
}

type analyticsRequest struct {
	Costs       []finance.Cost    `json:"costs"`
	Expenses    []finance.Expense `json:"expenses"`
	Budgets     []finance.Budget  `json:"budgets"`
	ProjectID   string            `json:"projectId,omitempty"`
	TopN        int               `json:"topN,omitempty"`
	TrendMonths int               `json:"trendMonths,omitempty"`
}

func (req analyticsRequest) input() analytics.Input {
	return analytics.Input{
		Costs:    req.Costs,
		Expenses: req.Expenses,
		Budgets:  req.Budgets,
	}
}

func (req analyticsRequest) options() []analytics.Option {
	return []analytics.Option{
		analytics.WithProject(req.ProjectID),
		analytics.WithTopN(req.TopN),
		analytics.WithTrendMonths(req.TrendMonths),
	}
}

func decodeRequest(w http.ResponseWriter, r *http.Request) (analyticsRequest, bool) {
	var req analyticsRequest

	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return analyticsRequest{}, false
	}

	return req, true
}

func (h *Handler) calculate(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeRequest(w, r)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, ToResponse(h.engine.Calculate(req.input(), req.options()...)))
}

func (h *Handler) insights(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeRequest(w, r)
	if !ok {
		return
	}

	a, insights := h.engine.Insights(req.input(), req.options()...)

	writeJSON(w, http.StatusOK, ToInsightsResponse(a, insights))
}

func (h *Handler) projects(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeRequest(w, r)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, toProjectSummaryList(analytics.GroupByProject(req.input())))
}

// stored computes analytics over the ledger. The project query parameter
// selects a bucket and defaults to all.
func (h *Handler) stored(w http.ResponseWriter, r *http.Request) {
	h.serveStored(w, r, r.URL.Query().Get("project"))
}

func (h *Handler) projectAnalytics(w http.ResponseWriter, r *http.Request) {
	h.serveStored(w, r, chi.URLParam(r, "id"))
}

func (h *Handler) serveStored(w http.ResponseWriter, r *http.Request, projectID string) {
	opts, err := queryOptions(r.URL.Query())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	in, err := h.ledger.LoadProject(r.Context(), projectID)
	if err != nil {
		writeLedgerError(w, err)
		return
	}

	opts = append(opts, analytics.WithProject(projectID))

	if r.URL.Query().Has("insights") {
		a, insights := h.engine.Insights(in, opts...)
		writeJSON(w, http.StatusOK, ToInsightsResponse(a, insights))

		return
	}

	writeJSON(w, http.StatusOK, ToResponse(h.engine.Calculate(in, opts...)))
}

func (h *Handler) report(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	opts, err := queryOptions(q)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	projectID := q.Get("project")

	in, err := h.ledger.LoadProject(r.Context(), projectID)
	if err != nil {
		writeLedgerError(w, err)
		return
	}

	a, insights := h.engine.Insights(in, append(opts, analytics.WithProject(projectID))...)

	title := "Burnrate report: " + projectLabel(projectID)

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")

	if _, err := w.Write([]byte(h.reports.Summary(title, a, insights, q.Get("currency")))); err != nil {
		slog.Error("failed to write report", "error", err)
	}
}

func (h *Handler) stats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, toStatsResponse(h.engine.Stats()))
}

func (h *Handler) listProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.ledger.Projects(r.Context())
	if err != nil {
		writeLedgerError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toProjectList(projects))
}

func queryOptions(q url.Values) ([]analytics.Option, error) {
	var opts []analytics.Option

	if s := q.Get("topN"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid topN: %q", s)
		}

		opts = append(opts, analytics.WithTopN(n))
	}

	if s := q.Get("months"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid months: %q", s)
		}

		opts = append(opts, analytics.WithTrendMonths(n))
	}

	return opts, nil
}

func projectLabel(id string) string {
	switch id {
	case "", analytics.ProjectAll:
		return "all projects"
	case analytics.ProjectUnassigned:
		return "unassigned"
	}

	return id
}

func writeLedgerError(w http.ResponseWriter, err error) {
	if errors.Is(err, ledger.ErrNotFound) {
		http.Error(w, "project not found", http.StatusNotFound)
		return
	}

	slog.Error("failed to load ledger", "error", err)
	http.Error(w, "internal error", http.StatusInternalServerError)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
