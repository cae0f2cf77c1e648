package analytics

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/burnrate/internal/finance"
)

// GroupByCategory sums costs, monthly expenses and budgets for every category.
// The result always has one entry per category, in canonical order.
func GroupByCategory(in Input) []CategoryBreakdown {
	in, _ = in.sanitize()
	return groupByCategory(in)
}

func groupByCategory(in Input) []CategoryBreakdown {
	cats := finance.Categories()
	out := make([]CategoryBreakdown, len(cats))

	for i, c := range cats {
		out[i] = CategoryBreakdown{
			Category:   c,
			Costs:      decimal.Zero,
			Expenses:   decimal.Zero,
			Budgets:    decimal.Zero,
			Percentage: decimal.Zero,
		}
	}

	for _, c := range in.Costs {
		i := c.Category.Index()
		out[i].Costs = out[i].Costs.Add(c.Amount)
	}

	for _, e := range in.Expenses {
		i := e.Category.Index()
		out[i].Expenses = out[i].Expenses.Add(ExpenseMonthly(e))
	}

	for _, b := range in.Budgets {
		i := b.Category.Index()
		out[i].Budgets = out[i].Budgets.Add(b.Amount)
	}

	grand := decimal.Zero
	for _, c := range out {
		grand = grand.Add(c.Total())
	}

	for i := range out {
		out[i].Percentage = percentOf(out[i].Total(), grand)
	}

	return out
}

// GroupByProject builds one summary per project bucket plus the synthetic
// ProjectAll bucket. ProjectAll always comes first and ProjectUnassigned, when
// present, last; the rest are ordered by descending spend.
func GroupByProject(in Input) []ProjectSummary {
	in, _ = in.sanitize()
	return groupByProject(in)
}

func groupByProject(in Input) []ProjectSummary {
	all := newProjectSummary(ProjectAll)
	buckets := make(map[string]*ProjectSummary)

	bucket := func(projectID string) *ProjectSummary {
		key := bucketOf(projectID)

		p, ok := buckets[key]
		if !ok {
			p = new(newProjectSummary(key))
			buckets[key] = p
		}

		return p
	}

	for _, c := range in.Costs {
		p := bucket(c.ProjectID)
		p.Costs = p.Costs.Add(c.Amount)
		p.Count++

		all.Costs = all.Costs.Add(c.Amount)
		all.Count++
	}

	for _, e := range in.Expenses {
		monthly := ExpenseMonthly(e)

		p := bucket(e.ProjectID)
		p.Expenses = p.Expenses.Add(monthly)
		p.Count++

		all.Expenses = all.Expenses.Add(monthly)
		all.Count++
	}

	for _, b := range in.Budgets {
		p := bucket(b.ProjectID)
		p.Budgets = p.Budgets.Add(b.Amount)
		p.Count++

		all.Budgets = all.Budgets.Add(b.Amount)
		all.Count++
	}

	projects := make([]ProjectSummary, 0, len(buckets))

	var unassigned *ProjectSummary

	for key, p := range buckets {
		p.Utilization = percentOf(p.Costs, p.Budgets)

		if key == ProjectUnassigned {
			unassigned = p
			continue
		}

		projects = append(projects, *p)
	}

	slices.SortFunc(projects, func(a, b ProjectSummary) int {
		if c := b.Total().Cmp(a.Total()); c != 0 {
			return c
		}

		return cmp.Compare(a.ProjectID, b.ProjectID)
	})

	all.Utilization = percentOf(all.Costs, all.Budgets)

	out := make([]ProjectSummary, 0, len(projects)+2)
	out = append(out, all)
	out = append(out, projects...)

	if unassigned != nil && unassigned.Count > 0 {
		out = append(out, *unassigned)
	}

	return out
}

func newProjectSummary(id string) ProjectSummary {
	return ProjectSummary{
		ProjectID:   id,
		Costs:       decimal.Zero,
		Expenses:    decimal.Zero,
		Budgets:     decimal.Zero,
		Utilization: decimal.Zero,
	}
}

// GroupByMonth buckets costs into the trailing calendar months ending with the
// month of now, oldest first. Recurring expenses and budgets are not date
// scoped: their monthly equivalents are applied to every month in the window.
// Costs with an invalid date are left out.
func GroupByMonth(in Input, now time.Time, months int) []MonthlyTrend {
	in, _ = in.sanitize()
	return groupByMonth(in, now, months)
}

func groupByMonth(in Input, now time.Time, months int) []MonthlyTrend {
	if months <= 0 {
		months = DefaultTrendMonths
	}

	loc := now.Location()

	expenses := decimal.Zero
	for _, e := range in.Expenses {
		expenses = expenses.Add(ExpenseMonthly(e))
	}

	budgets := decimal.Zero
	for _, b := range in.Budgets {
		budgets = budgets.Add(BudgetMonthly(b))
	}

	out := make([]MonthlyTrend, months)
	index := make(map[int]int, months)

	for i := range months {
		start := time.Date(now.Year(), now.Month()-time.Month(months-1-i), 1, 0, 0, 0, 0, loc)

		out[i] = MonthlyTrend{
			Month:    start.Format("Jan"),
			Start:    start,
			Costs:    decimal.Zero,
			Expenses: expenses,
			Budgets:  budgets,
		}
		index[monthKey(start)] = i
	}

	for _, c := range in.Costs {
		if !c.Date.Valid() {
			continue
		}

		i, ok := index[monthKey(c.Date.Time)]
		if !ok {
			continue
		}

		out[i].Costs = out[i].Costs.Add(c.Amount)
	}

	return out
}

func monthKey(t time.Time) int {
	return t.Year()*12 + int(t.Month()) - 1
}

func groupByCurrency(in Input) []CurrencyTotal {
	totals := make(map[string]decimal.Decimal)

	add := func(code string, amount decimal.Decimal) {
		key, err := finance.NormalizeCurrency(code)
		if err != nil {
			key = strings.ToUpper(strings.TrimSpace(code))
		}

		if cur, ok := totals[key]; ok {
			totals[key] = cur.Add(amount)
			return
		}

		totals[key] = amount
	}

	for _, c := range in.Costs {
		add(c.Currency, c.Amount)
	}

	for _, e := range in.Expenses {
		add(e.Currency, ExpenseMonthly(e))
	}

	out := make([]CurrencyTotal, 0, len(totals))
	for code, total := range totals {
		out = append(out, CurrencyTotal{Currency: code, Total: total})
	}

	slices.SortFunc(out, func(a, b CurrencyTotal) int {
		return cmp.Compare(a.Currency, b.Currency)
	})

	return out
}
