package view

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/burnrate/internal/analytics"
	"github.com/MrJamesThe3rd/burnrate/internal/ledger"
)

// ProjectsModel compares every project bucket side by side.
type ProjectsModel struct {
	CommonModel
	ledger *ledger.Service

	table   table.Model
	loading bool
	err     error
}

func NewProjectsModel(ledgerSvc *ledger.Service) ProjectsModel {
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Project", Width: 24},
			{Title: "Costs", Width: 12},
			{Title: "Expenses/mo", Width: 12},
			{Title: "Budgets", Width: 12},
			{Title: "Used", Width: 8},
			{Title: "Items", Width: 6},
		}),
		table.WithFocused(true),
		table.WithHeight(15),
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

	return ProjectsModel{
		ledger:  ledgerSvc,
		table:   t,
		loading: true,
	}
}

func (m ProjectsModel) Title() string { return "Projects" }

func (m ProjectsModel) ShortHelp() string {
	return "Esc: back | r: refresh"
}

func (m ProjectsModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m ProjectsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case projectsSummaryMsg:
		m.loading = false
		m.err = msg.err
		m.table.SetRows(projectRows(msg.summaries, msg.names))

		return m, nil

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m ProjectsModel) View() string {
	style := lipgloss.NewStyle().Padding(1)

	switch {
	case m.err != nil:
		return style.Render(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	case m.loading:
		return style.Render("Loading projects...")
	}

	return style.Render(lipgloss.JoinVertical(lipgloss.Left,
		headerStyle.Render("Spend by project"),
		"",
		m.table.View(),
	))
}

func projectRows(summaries []analytics.ProjectSummary, names map[string]string) []table.Row {
	rows := make([]table.Row, 0, len(summaries))

	for _, p := range summaries {
		label := names[p.ProjectID]
		if label == "" {
			label = scopeLabel(p.ProjectID)
		}

		rows = append(rows, table.Row{
			label,
			FormatAmount(p.Costs),
			FormatAmount(p.Expenses),
			FormatAmount(p.Budgets),
			FormatPercent(p.Utilization),
			fmt.Sprintf("%d", p.Count),
		})
	}

	return rows
}

type projectsSummaryMsg struct {
	summaries []analytics.ProjectSummary
	names     map[string]string
	err       error
}

func (m ProjectsModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		in, err := m.ledger.Load(ctx, ledger.Filter{})
		if err != nil {
			return projectsSummaryMsg{err: err}
		}

		projects, err := m.ledger.Projects(ctx)
		if err != nil {
			return projectsSummaryMsg{err: err}
		}

		names := make(map[string]string, len(projects))
		for _, p := range projects {
			names[p.ID] = p.Name
		}

		return projectsSummaryMsg{summaries: analytics.GroupByProject(in), names: names}
	}
}
