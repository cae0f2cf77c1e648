package analytics

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/burnrate/internal/finance"
)

type InsightType string

const (
	InsightWarning InsightType = "warning"
	InsightSuccess InsightType = "success"
	InsightInfo    InsightType = "info"
	InsightTip     InsightType = "tip"
)

// Insight is a human-readable observation derived from an analytics result.
type Insight struct {
	Type     InsightType
	Title    string
	Message  string
	Category finance.Category // empty when the insight is not about a category
	Value    decimal.Decimal  // the figure the insight cites
}

var (
	overBudgetThreshold    = decimal.NewFromInt(100)
	approachingThreshold   = decimal.NewFromInt(80)
	wellWithinThreshold    = decimal.NewFromInt(50)
	concentrationThreshold = decimal.NewFromInt(30)
	underspendThreshold    = decimal.NewFromInt(50)
)

const subscriptionReviewCount = 10

type insightRule func(a FinancialAnalytics) (Insight, bool)

// rules are evaluated in order; each may contribute at most one insight.
var rules = []insightRule{
	overBudget,
	approachingLimit,
	wellWithinBudget,
	worstCategoryOverspend,
	spendingConcentration,
	subscriptionReview,
	savingsOpportunity,
}

// DeriveInsights applies the fixed rule set to a. Rules are independent and
// none suppresses another.
func DeriveInsights(a FinancialAnalytics) []Insight {
	out := make([]Insight, 0, len(rules))

	for _, rule := range rules {
		if in, ok := rule(a); ok {
			out = append(out, in)
		}
	}

	return out
}

func overBudget(a FinancialAnalytics) (Insight, bool) {
	if !a.BudgetUtilization.GreaterThan(overBudgetThreshold) {
		return Insight{}, false
	}

	over := a.BudgetUtilization.Sub(overBudgetThreshold)

	return Insight{
		Type:    InsightWarning,
		Title:   "Over Budget",
		Message: fmt.Sprintf("Spending is %s%% over the total budget.", over.StringFixed(1)),
		Value:   over,
	}, true
}

func approachingLimit(a FinancialAnalytics) (Insight, bool) {
	u := a.BudgetUtilization
	if !u.GreaterThan(approachingThreshold) || u.GreaterThan(overBudgetThreshold) {
		return Insight{}, false
	}

	return Insight{
		Type:    InsightWarning,
		Title:   "Approaching Budget Limit",
		Message: fmt.Sprintf("%s%% of the total budget has been used.", u.StringFixed(1)),
		Value:   u,
	}, true
}

func wellWithinBudget(a FinancialAnalytics) (Insight, bool) {
	if !a.BudgetUtilization.LessThan(wellWithinThreshold) {
		return Insight{}, false
	}

	return Insight{
		Type:    InsightSuccess,
		Title:   "Well Within Budget",
		Message: fmt.Sprintf("Only %s%% of the total budget has been used.", a.BudgetUtilization.StringFixed(1)),
		Value:   a.BudgetUtilization,
	}, true
}

func worstCategoryOverspend(a FinancialAnalytics) (Insight, bool) {
	var (
		worst BudgetVsActual
		found bool
	)

	for _, b := range a.BudgetVsActual {
		if !b.Budgeted.IsPositive() || !b.Actual.GreaterThan(b.Budgeted) {
			continue
		}

		if !found || b.Variance.GreaterThan(worst.Variance) {
			worst, found = b, true
		}
	}

	if !found {
		return Insight{}, false
	}

	return Insight{
		Type:     InsightWarning,
		Title:    "Category Over Budget",
		Message:  fmt.Sprintf("%s is %s over its budget (%s%% used).", worst.Category, worst.Variance.StringFixed(2), worst.Percentage.StringFixed(1)),
		Category: worst.Category,
		Value:    worst.Variance,
	}, true
}

func spendingConcentration(a FinancialAnalytics) (Insight, bool) {
	if len(a.TopCategories) == 0 {
		return Insight{}, false
	}

	top := a.TopCategories[0]

	share := percentOf(top.Total, a.TotalCosts.Add(a.TotalExpenses))
	if !share.GreaterThan(concentrationThreshold) {
		return Insight{}, false
	}

	return Insight{
		Type:     InsightInfo,
		Title:    "High Spending Concentration",
		Message:  fmt.Sprintf("%s accounts for %s%% of all spending.", top.Category, share.StringFixed(1)),
		Category: top.Category,
		Value:    share,
	}, true
}

func subscriptionReview(a FinancialAnalytics) (Insight, bool) {
	if a.ActiveExpenses <= subscriptionReviewCount {
		return Insight{}, false
	}

	return Insight{
		Type:    InsightInfo,
		Title:   "Review Subscriptions",
		Message: fmt.Sprintf("There are %d active recurring expenses; consider cancelling the ones no longer needed.", a.ActiveExpenses),
		Value:   decimal.NewFromInt(int64(a.ActiveExpenses)),
	}, true
}

func savingsOpportunity(a FinancialAnalytics) (Insight, bool) {
	var (
		best   BudgetVsActual
		unused decimal.Decimal
		found  bool
	)

	for _, b := range a.BudgetVsActual {
		if !b.Budgeted.IsPositive() || !b.Percentage.LessThan(underspendThreshold) {
			continue
		}

		left := b.Budgeted.Sub(b.Actual)
		if !found || left.GreaterThan(unused) {
			best, unused, found = b, left, true
		}
	}

	if !found {
		return Insight{}, false
	}

	return Insight{
		Type:     InsightTip,
		Title:    "Savings Opportunity",
		Message:  fmt.Sprintf("%s has used %s%% of its budget, leaving %s unspent.", best.Category, best.Percentage.StringFixed(1), unused.StringFixed(2)),
		Category: best.Category,
		Value:    unused,
	}, true
}
