package view

import (
	"testing"

	"github.com/charmbracelet/bubbles/table"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/burnrate/internal/analytics"
	"github.com/MrJamesThe3rd/burnrate/internal/finance"
	"github.com/MrJamesThe3rd/burnrate/internal/ledger"
)

func TestCategoryRows(t *testing.T) {
	a := analytics.FinancialAnalytics{
		CategoryBreakdown: []analytics.CategoryBreakdown{
			{
				Category:   finance.CategoryFood,
				Costs:      decimal.NewFromInt(500),
				Expenses:   decimal.NewFromInt(50),
				Budgets:    decimal.NewFromInt(1000),
				Percentage: decimal.RequireFromString("90.91"),
			},
		},
	}

	got := categoryRows(a)

	require.Len(t, got, 1)
	assert.Equal(t, table.Row{"food", "500.00", "50.00", "1000.00", "90.9%"}, got[0])
}

func TestProjectRows(t *testing.T) {
	summaries := []analytics.ProjectSummary{
		{ProjectID: analytics.ProjectAll, Costs: decimal.NewFromInt(140), Count: 3},
		{ProjectID: "alpha", Costs: decimal.NewFromInt(100), Budgets: decimal.NewFromInt(200), Utilization: decimal.NewFromInt(50), Count: 2},
		{ProjectID: analytics.ProjectUnassigned, Costs: decimal.NewFromInt(40), Count: 1},
	}

	got := projectRows(summaries, map[string]string{"alpha": "Alpha Launch"})

	require.Len(t, got, 3)
	assert.Equal(t, "all projects", got[0][0])
	assert.Equal(t, table.Row{"Alpha Launch", "100.00", "0.00", "200.00", "50.0%", "2"}, got[1])
	assert.Equal(t, "unassigned", got[2][0])
}

func TestScopeOptions(t *testing.T) {
	got := scopeOptions([]ledger.Project{{ID: "alpha", Name: "Alpha"}, {ID: "beta"}})

	require.Len(t, got, 4)
	assert.Equal(t, analytics.ProjectAll, got[0].Value)
	assert.Equal(t, analytics.ProjectUnassigned, got[1].Value)
	assert.Equal(t, "Alpha", got[2].Key)
	assert.Equal(t, "beta", got[3].Key)
}

func TestRenderInsights(t *testing.T) {
	assert.Contains(t, renderInsights(nil), "Nothing to report.")

	got := renderInsights([]analytics.Insight{
		{Type: analytics.InsightWarning, Title: "Over Budget", Message: "You are over budget."},
	})

	assert.Contains(t, got, "Over Budget")
	assert.Contains(t, got, "You are over budget.")
}
