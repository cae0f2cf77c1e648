package importcsv

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/burnrate/internal/finance"
	httpanalytics "github.com/MrJamesThe3rd/burnrate/internal/http/analytics"
	"github.com/MrJamesThe3rd/burnrate/internal/importer"
	"github.com/MrJamesThe3rd/burnrate/internal/ledger"
	"github.com/MrJamesThe3rd/burnrate/internal/matching"
	"github.com/MrJamesThe3rd/burnrate/internal/preview"
)

type Handler struct {
	preview     *preview.Service
	matchingSvc *matching.Service
}

func NewHandler(previewSvc *preview.Service, matchingSvc *matching.Service) *Handler {
	return &Handler{
		preview:     previewSvc,
		matchingSvc: matchingSvc,
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/analytics", h.importAnalytics)
	r.Post("/rules", h.learnRule)
}

type costResponse struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Amount      float64          `json:"amount"`
	Currency    string           `json:"currency,omitempty"`
	Category    finance.Category `json:"category"`
	Description string           `json:"description,omitempty"`
	Date        finance.Date     `json:"date"`
	ProjectID   string           `json:"projectId,omitempty"`
}

type importAnalyticsResponse struct {
	Imported    int                             `json:"imported"`
	Categorized int                             `json:"categorized"`
	OutOfScope  int                             `json:"outOfScope"`
	Costs       []costResponse                  `json:"costs"`
	Analytics   httpanalytics.Response          `json:"analytics"`
	Insights    []httpanalytics.InsightResponse `json:"insights"`
}

type ruleRequest struct {
	Pattern  string `json:"pattern"`
	Category string `json:"category"`
}

// importAnalytics previews analytics for an uploaded cost export combined with
// the stored expenses and budgets of the selected project. Nothing is persisted.
func (h *Handler) importAnalytics(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		http.Error(w, "failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file field is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	res, err := h.preview.Preview(r.Context(), preview.Request{
		Format:    importer.Format(r.FormValue("format")),
		File:      file,
		ProjectID: r.FormValue("projectId"),
	})
	if err != nil {
		switch {
		case errors.Is(err, preview.ErrInvalidExport):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, ledger.ErrNotFound):
			http.Error(w, "project not found", http.StatusNotFound)
		default:
			slog.Error("failed to preview import", "error", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
		}

		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toImportResponse(res)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// learnRule stores a description pattern that future imports use to pick a
// category for otherwise uncategorized costs.
func (h *Handler) learnRule(w http.ResponseWriter, r *http.Request) {
	var req ruleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.matchingSvc.Learn(r.Context(), req.Pattern, finance.Category(strings.ToLower(strings.TrimSpace(req.Category)))); err != nil {
		if errors.Is(err, matching.ErrInvalidRule) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		slog.Error("failed to store category rule", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func toImportResponse(res *preview.Result) importAnalyticsResponse {
	full := httpanalytics.ToInsightsResponse(res.Analytics, res.Insights)

	resp := importAnalyticsResponse{
		Imported:    len(res.Costs),
		Categorized: res.Categorized,
		OutOfScope:  res.OutOfScope,
		Costs:       make([]costResponse, 0, len(res.Costs)),
		Analytics:   full.Analytics,
		Insights:    full.Insights,
	}

	for _, c := range res.Costs {
		resp.Costs = append(resp.Costs, costResponse{
			ID:          c.ID,
			Name:        c.Name,
			Amount:      c.Amount.InexactFloat64(),
			Currency:    c.Currency,
			Category:    c.Category,
			Description: c.Description,
			Date:        c.Date,
			ProjectID:   c.ProjectID,
		})
	}

	return resp
}
