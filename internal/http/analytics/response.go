package analytics

import (
	"github.com/MrJamesThe3rd/burnrate/internal/analytics"
	"github.com/MrJamesThe3rd/burnrate/internal/finance"
	"github.com/MrJamesThe3rd/burnrate/internal/ledger"
)

// Response is the JSON shape of FinancialAnalytics.
type Response struct {
	TotalCosts        float64                     `json:"totalCosts"`
	TotalExpenses     float64                     `json:"totalExpenses"`
	TotalBudgets      float64                     `json:"totalBudgets"`
	BudgetUtilization float64                     `json:"budgetUtilization"`
	CategoryBreakdown []categoryBreakdownResponse `json:"categoryBreakdown"`
	MonthlyTrend      []monthlyTrendResponse      `json:"monthlyTrend"`
	BudgetVsActual    []budgetVsActualResponse    `json:"budgetVsActual"`
	TopCategories     []categorySpendingResponse  `json:"topCategories"`
	ActiveExpenses    int                         `json:"activeExpenses"`
	Skipped           int                         `json:"skipped"`
	CurrencyTotals    []currencyTotalResponse     `json:"currencyTotals"`
}

type categoryBreakdownResponse struct {
	Category   finance.Category `json:"category"`
	Costs      float64          `json:"costs"`
	Expenses   float64          `json:"expenses"`
	Budgets    float64          `json:"budgets"`
	Percentage float64          `json:"percentage"`
}

type monthlyTrendResponse struct {
	Month    string  `json:"month"`
	Year     int     `json:"year"`
	Costs    float64 `json:"costs"`
	Expenses float64 `json:"expenses"`
	Budgets  float64 `json:"budgets"`
}

type budgetVsActualResponse struct {
	Category   finance.Category `json:"category"`
	Budgeted   float64          `json:"budgeted"`
	Actual     float64          `json:"actual"`
	Variance   float64          `json:"variance"`
	Percentage float64          `json:"percentage"`
}

type categorySpendingResponse struct {
	Category finance.Category `json:"category"`
	Total    float64          `json:"total"`
	Count    int              `json:"count"`
}

type currencyTotalResponse struct {
	Currency string  `json:"currency"`
	Total    float64 `json:"total"`
}

type InsightResponse struct {
	Type     analytics.InsightType `json:"type"`
	Title    string                `json:"title"`
	Message  string                `json:"message"`
	Category finance.Category      `json:"category,omitempty"`
	Value    float64               `json:"value"`
}

// InsightsResponse pairs analytics with the insights derived from them.
type InsightsResponse struct {
	Analytics Response          `json:"analytics"`
	Insights  []InsightResponse `json:"insights"`
}

type projectSummaryResponse struct {
	ProjectID   string  `json:"projectId"`
	Costs       float64 `json:"costs"`
	Expenses    float64 `json:"expenses"`
	Budgets     float64 `json:"budgets"`
	Total       float64 `json:"total"`
	Utilization float64 `json:"utilization"`
	Count       int     `json:"count"`
}

type projectResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type statsResponse struct {
	Hits    int64 `json:"hits"`
	Misses  int64 `json:"misses"`
	Entries int   `json:"entries"`
}

func ToResponse(a analytics.FinancialAnalytics) Response {
	resp := Response{
		TotalCosts:        a.TotalCosts.InexactFloat64(),
		TotalExpenses:     a.TotalExpenses.InexactFloat64(),
		TotalBudgets:      a.TotalBudgets.InexactFloat64(),
		BudgetUtilization: a.BudgetUtilization.InexactFloat64(),
		CategoryBreakdown: make([]categoryBreakdownResponse, len(a.CategoryBreakdown)),
		MonthlyTrend:      make([]monthlyTrendResponse, len(a.MonthlyTrend)),
		BudgetVsActual:    make([]budgetVsActualResponse, len(a.BudgetVsActual)),
		TopCategories:     make([]categorySpendingResponse, len(a.TopCategories)),
		ActiveExpenses:    a.ActiveExpenses,
		Skipped:           a.Skipped,
		CurrencyTotals:    make([]currencyTotalResponse, len(a.CurrencyTotals)),
	}

	for i, c := range a.CategoryBreakdown {
		resp.CategoryBreakdown[i] = categoryBreakdownResponse{
			Category:   c.Category,
			Costs:      c.Costs.InexactFloat64(),
			Expenses:   c.Expenses.InexactFloat64(),
			Budgets:    c.Budgets.InexactFloat64(),
			Percentage: c.Percentage.InexactFloat64(),
		}
	}

	for i, m := range a.MonthlyTrend {
		resp.MonthlyTrend[i] = monthlyTrendResponse{
			Month:    m.Month,
			Year:     m.Start.Year(),
			Costs:    m.Costs.InexactFloat64(),
			Expenses: m.Expenses.InexactFloat64(),
			Budgets:  m.Budgets.InexactFloat64(),
		}
	}

	for i, b := range a.BudgetVsActual {
		resp.BudgetVsActual[i] = budgetVsActualResponse{
			Category:   b.Category,
			Budgeted:   b.Budgeted.InexactFloat64(),
			Actual:     b.Actual.InexactFloat64(),
			Variance:   b.Variance.InexactFloat64(),
			Percentage: b.Percentage.InexactFloat64(),
		}
	}

	for i, c := range a.TopCategories {
		resp.TopCategories[i] = categorySpendingResponse{
			Category: c.Category,
			Total:    c.Total.InexactFloat64(),
			Count:    c.Count,
		}
	}

	for i, c := range a.CurrencyTotals {
		resp.CurrencyTotals[i] = currencyTotalResponse{
			Currency: c.Currency,
			Total:    c.Total.InexactFloat64(),
		}
	}

	return resp
}

// ToInsightsResponse is shared by every endpoint that returns insights.
func ToInsightsResponse(a analytics.FinancialAnalytics, insights []analytics.Insight) InsightsResponse {
	resp := InsightsResponse{
		Analytics: ToResponse(a),
		Insights:  make([]InsightResponse, len(insights)),
	}

	for i, in := range insights {
		resp.Insights[i] = InsightResponse{
			Type:     in.Type,
			Title:    in.Title,
			Message:  in.Message,
			Category: in.Category,
			Value:    in.Value.InexactFloat64(),
		}
	}

	return resp
}

func toProjectSummaryList(projects []analytics.ProjectSummary) []projectSummaryResponse {
	resp := make([]projectSummaryResponse, len(projects))
	for i, p := range projects {
		resp[i] = projectSummaryResponse{
			ProjectID:   p.ProjectID,
			Costs:       p.Costs.InexactFloat64(),
			Expenses:    p.Expenses.InexactFloat64(),
			Budgets:     p.Budgets.InexactFloat64(),
			Total:       p.Total().InexactFloat64(),
			Utilization: p.Utilization.InexactFloat64(),
			Count:       p.Count,
		}
	}

	return resp
}

func toProjectList(projects []ledger.Project) []projectResponse {
	resp := make([]projectResponse, len(projects))
	for i, p := range projects {
		resp[i] = projectResponse{ID: p.ID, Name: p.Name}
	}

	return resp
}

func toStatsResponse(s analytics.Stats) statsResponse {
	return statsResponse{Hits: s.Hits, Misses: s.Misses, Entries: s.Entries}
}
