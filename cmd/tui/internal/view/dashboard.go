package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/burnrate/internal/analytics"
	"github.com/MrJamesThe3rd/burnrate/internal/ledger"
	"github.com/MrJamesThe3rd/burnrate/internal/report"
)

const reportDir = "./reports"

type dashboardState int

const (
	dashboardStateScope dashboardState = iota
	dashboardStateLoading
	dashboardStateResult
)

type DashboardModel struct {
	CommonModel
	ledger  *ledger.Service
	engine  *analytics.Engine
	reports *report.Service

	state   dashboardState
	scope   ScopePicker
	spinner spinner.Model
	table   table.Model

	selected  ScopeSelectedMsg
	analytics analytics.FinancialAnalytics
	insights  []analytics.Insight

	status string
	err    error
}

func NewDashboardModel(ledgerSvc *ledger.Service, engine *analytics.Engine, reports *report.Service) DashboardModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return DashboardModel{
		ledger:  ledgerSvc,
		engine:  engine,
		reports: reports,
		scope:   NewScopePicker(ledgerSvc),
		spinner: s,
		table:   newCategoryTable(),
	}
}

func newCategoryTable() table.Model {
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Category", Width: 16},
			{Title: "Costs", Width: 12},
			{Title: "Expenses/mo", Width: 12},
			{Title: "Budget", Width: 12},
			{Title: "Share", Width: 8},
		}),
		table.WithFocused(true),
		table.WithHeight(10),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

func (m DashboardModel) Title() string { return "Dashboard" }

func (m DashboardModel) ShortHelp() string {
	switch m.state {
	case dashboardStateResult:
		return "Esc: change scope | r: refresh | s: save report"
	case dashboardStateLoading:
		return "Calculating..."
	}

	return "Esc: back | Enter: confirm"
}

func (m DashboardModel) Init() tea.Cmd {
	return m.scope.Init()
}

func (m DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ScopeSelectedMsg:
		m.selected = msg
		m.state = dashboardStateLoading
		m.err = nil
		m.status = ""

		return m, tea.Batch(m.spinner.Tick, m.loadCmd(msg))

	case dashboardLoadedMsg:
		m.state = dashboardStateResult
		m.err = msg.err
		m.analytics = msg.analytics
		m.insights = msg.insights
		m.table.SetRows(categoryRows(msg.analytics))

		return m, nil

	case reportSavedMsg:
		if msg.err != nil {
			m.status = errorStyle.Render(fmt.Sprintf("Error saving report: %v", msg.err))
			return m, nil
		}

		m.status = successStyle.Render("Report saved to " + msg.path)

		return m, nil

	case tea.WindowSizeMsg:
		m.Width, m.Height = msg.Width, msg.Height
		return m, nil
	}

	switch m.state {
	case dashboardStateScope:
		return m.updateScope(msg)
	case dashboardStateLoading:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd
	case dashboardStateResult:
		return m.updateResult(msg)
	}

	return m, nil
}

func (m DashboardModel) updateScope(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		return m, Back
	}

	var cmd tea.Cmd
	m.scope, cmd = m.scope.Update(msg)

	return m, cmd
}

func (m DashboardModel) updateResult(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			m.state = dashboardStateScope
			return m, m.scope.Reset()
		case "r":
			m.engine.Invalidate()
			m.state = dashboardStateLoading

			return m, tea.Batch(m.spinner.Tick, m.loadCmd(m.selected))
		case "s":
			return m, m.saveCmd()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m DashboardModel) View() string {
	switch m.state {
	case dashboardStateScope:
		return lipgloss.NewStyle().Padding(1).Render(m.scope.View())
	case dashboardStateLoading:
		return lipgloss.NewStyle().Padding(1).Render(
			fmt.Sprintf("%s Calculating analytics for %s...", m.spinner.View(), scopeLabel(m.selected.ProjectID)),
		)
	case dashboardStateResult:
		return m.viewResult()
	}

	return ""
}

func (m DashboardModel) viewResult() string {
	if m.err != nil {
		return lipgloss.NewStyle().Padding(1).Render(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	}

	a := m.analytics

	totals := boxStyle.Render(fmt.Sprintf(
		"Costs %s   Expenses/mo %s   Budgets %s   Utilization %s",
		FormatAmount(a.TotalCosts),
		FormatAmount(a.TotalExpenses),
		FormatAmount(a.TotalBudgets),
		FormatPercent(a.BudgetUtilization),
	))

	sections := []string{
		headerStyle.Render("Analytics: " + scopeLabel(m.selected.ProjectID)),
		totals,
		"",
		m.table.View(),
		"",
		headerStyle.Render("Monthly trend"),
		renderTrend(a.MonthlyTrend),
		"",
		headerStyle.Render("Insights"),
		renderInsights(m.insights),
	}

	if m.status != "" {
		sections = append(sections, "", m.status)
	}

	return lipgloss.NewStyle().Padding(1).Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func categoryRows(a analytics.FinancialAnalytics) []table.Row {
	rows := make([]table.Row, 0, len(a.CategoryBreakdown))

	for _, c := range a.CategoryBreakdown {
		rows = append(rows, table.Row{
			string(c.Category),
			FormatAmount(c.Costs),
			FormatAmount(c.Expenses),
			FormatAmount(c.Budgets),
			FormatPercent(c.Percentage),
		})
	}

	return rows
}

func renderTrend(trend []analytics.MonthlyTrend) string {
	var sb strings.Builder

	for _, t := range trend {
		line := fmt.Sprintf("%s %d  %10s  + %s recurring", t.Month, t.Start.Year(), FormatAmount(t.Costs), FormatAmount(t.Expenses))

		if !t.Budgets.IsZero() && t.Costs.Add(t.Expenses).GreaterThan(t.Budgets) {
			line = warnStyle.Render(line)
		}

		sb.WriteString(line + "\n")
	}

	return strings.TrimRight(sb.String(), "\n")
}

func renderInsights(insights []analytics.Insight) string {
	if len(insights) == 0 {
		return mutedStyle.Render("Nothing to report.")
	}

	lines := make([]string, 0, len(insights))

	for _, in := range insights {
		style := mutedStyle

		switch in.Type {
		case analytics.InsightWarning:
			style = warnStyle
		case analytics.InsightSuccess:
			style = successStyle
		}

		lines = append(lines, style.Render(fmt.Sprintf("[%s] %s", in.Type, in.Title))+" "+in.Message)
	}

	return strings.Join(lines, "\n")
}

func scopeLabel(projectID string) string {
	switch projectID {
	case "", analytics.ProjectAll:
		return "all projects"
	case analytics.ProjectUnassigned:
		return "unassigned"
	}

	return projectID
}

type dashboardLoadedMsg struct {
	analytics analytics.FinancialAnalytics
	insights  []analytics.Insight
	err       error
}

type reportSavedMsg struct {
	path string
	err  error
}

func (m DashboardModel) loadCmd(scope ScopeSelectedMsg) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		in, err := m.ledger.LoadProject(ctx, scope.ProjectID)
		if err != nil {
			return dashboardLoadedMsg{err: err}
		}

		a, insights := m.engine.Insights(in,
			analytics.WithProject(scope.ProjectID),
			analytics.WithTrendMonths(scope.Months),
		)

		return dashboardLoadedMsg{analytics: a, insights: insights}
	}
}

func (m DashboardModel) saveCmd() tea.Cmd {
	title := "Burnrate report: " + scopeLabel(m.selected.ProjectID)
	body := m.reports.Summary(title, m.analytics, m.insights, "")

	return func() tea.Msg {
		path, err := m.reports.Save(reportDir, title, body)
		return reportSavedMsg{path: path, err: err}
	}
}
