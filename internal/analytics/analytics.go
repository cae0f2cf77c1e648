// Package analytics turns raw costs, expenses and budgets into the summaries
// shown on dashboards, reports and project views.
//
// Every function here is pure: inputs are never modified and results are
// rebuilt from scratch on each call. Engine adds a memoizing layer on top.
package analytics

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/burnrate/internal/finance"
)

// FinancialAnalytics is the complete aggregate handed to presentation layers.
type FinancialAnalytics struct {
	TotalCosts        decimal.Decimal
	TotalExpenses     decimal.Decimal // monthly equivalent of active expenses
	TotalBudgets      decimal.Decimal
	BudgetUtilization decimal.Decimal

	CategoryBreakdown []CategoryBreakdown
	MonthlyTrend      []MonthlyTrend
	BudgetVsActual    []BudgetVsActual
	TopCategories     []CategorySpending

	ActiveExpenses int
	Skipped        int
	CurrencyTotals []CurrencyTotal
}

type CategoryBreakdown struct {
	Category   finance.Category
	Costs      decimal.Decimal
	Expenses   decimal.Decimal
	Budgets    decimal.Decimal
	Percentage decimal.Decimal
}

// Total is the category's cost plus monthly expense spend.
func (c CategoryBreakdown) Total() decimal.Decimal {
	return c.Costs.Add(c.Expenses)
}

type MonthlyTrend struct {
	Month    string // short month name, e.g. "Jan"
	Start    time.Time
	Costs    decimal.Decimal
	Expenses decimal.Decimal
	Budgets  decimal.Decimal
}

type BudgetVsActual struct {
	Category   finance.Category
	Budgeted   decimal.Decimal
	Actual     decimal.Decimal
	Variance   decimal.Decimal
	Percentage decimal.Decimal
}

// Visible reports whether the entry carries anything worth displaying.
func (b BudgetVsActual) Visible() bool {
	return !b.Budgeted.IsZero() || !b.Actual.IsZero()
}

// VisibleBudgetVsActual filters out categories with neither budget nor spend.
func VisibleBudgetVsActual(entries []BudgetVsActual) []BudgetVsActual {
	out := make([]BudgetVsActual, 0, len(entries))

	for _, e := range entries {
		if e.Visible() {
			out = append(out, e)
		}
	}

	return out
}

type CategorySpending struct {
	Category finance.Category
	Total    decimal.Decimal
	Count    int
}

// CurrencyTotal is cost plus monthly expense spend in a single currency.
// Amounts are never converted between currencies.
type CurrencyTotal struct {
	Currency string
	Total    decimal.Decimal
}

// ProjectSummary aggregates one project bucket.
type ProjectSummary struct {
	ProjectID   string
	Costs       decimal.Decimal
	Expenses    decimal.Decimal
	Budgets     decimal.Decimal
	Utilization decimal.Decimal
	Count       int
}

func (p ProjectSummary) Total() decimal.Decimal {
	return p.Costs.Add(p.Expenses)
}
