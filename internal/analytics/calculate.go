package analytics

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/burnrate/internal/finance"
)

// Calculate aggregates the input into a FinancialAnalytics value.
// It never fails: negative amounts are skipped, unknown categories fall into
// CategoryOther, and every ratio with a zero denominator yields zero.
func Calculate(in Input, opts ...Option) FinancialAnalytics {
	s := newSettings(opts)
	if s.now.IsZero() {
		s.now = time.Now()
	}

	return calculate(in, s)
}

func calculate(in Input, s settings) FinancialAnalytics {
	in = in.ForProject(s.projectID)
	in, skipped := in.sanitize()

	a := FinancialAnalytics{
		TotalCosts:    decimal.Zero,
		TotalExpenses: decimal.Zero,
		TotalBudgets:  decimal.Zero,
		Skipped:       skipped,
	}

	for _, c := range in.Costs {
		a.TotalCosts = a.TotalCosts.Add(c.Amount)
	}

	for _, e := range in.Expenses {
		if e.IsActive {
			a.ActiveExpenses++
		}

		a.TotalExpenses = a.TotalExpenses.Add(ExpenseMonthly(e))
	}

	for _, b := range in.Budgets {
		a.TotalBudgets = a.TotalBudgets.Add(b.Amount)
	}

	a.BudgetUtilization = percentOf(a.TotalCosts, a.TotalBudgets)
	a.CategoryBreakdown = groupByCategory(in)
	a.MonthlyTrend = groupByMonth(in, s.now, s.trendMonths)
	a.BudgetVsActual = budgetVsActual(a.CategoryBreakdown)
	a.TopCategories = topCategories(in, a.CategoryBreakdown, s.topN)
	a.CurrencyTotals = groupByCurrency(in)

	return a
}

func budgetVsActual(breakdown []CategoryBreakdown) []BudgetVsActual {
	out := make([]BudgetVsActual, len(breakdown))

	for i, c := range breakdown {
		out[i] = BudgetVsActual{
			Category:   c.Category,
			Budgeted:   c.Budgets,
			Actual:     c.Costs,
			Variance:   c.Costs.Sub(c.Budgets),
			Percentage: percentOf(c.Costs, c.Budgets),
		}
	}

	return out
}

// topCategories ranks categories by spend. Ties keep canonical category order.
func topCategories(in Input, breakdown []CategoryBreakdown, n int) []CategorySpending {
	counts := make([]int, len(breakdown))

	for _, c := range in.Costs {
		counts[c.Category.Index()]++
	}

	for _, e := range in.Expenses {
		if e.IsActive {
			counts[e.Category.Index()]++
		}
	}

	ranked := make([]CategorySpending, 0, len(breakdown))

	for i, c := range breakdown {
		total := c.Total()
		if total.IsZero() && counts[i] == 0 {
			continue
		}

		ranked = append(ranked, CategorySpending{
			Category: c.Category,
			Total:    total,
			Count:    counts[i],
		})
	}

	slices.SortStableFunc(ranked, func(a, b CategorySpending) int {
		return b.Total.Cmp(a.Total)
	})

	if n > 0 && len(ranked) > n {
		ranked = ranked[:n]
	}

	return ranked
}

// CategoryOf returns the breakdown entry for c.
func (a FinancialAnalytics) CategoryOf(c finance.Category) (CategoryBreakdown, bool) {
	for _, b := range a.CategoryBreakdown {
		if b.Category == c {
			return b, true
		}
	}

	return CategoryBreakdown{}, false
}
