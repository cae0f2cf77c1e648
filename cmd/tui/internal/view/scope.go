package view

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/MrJamesThe3rd/burnrate/internal/analytics"
	"github.com/MrJamesThe3rd/burnrate/internal/ledger"
)

// trendWindows are the monthly trend lengths offered by the picker.
var trendWindows = []int{3, 6, 12, 24}

// ScopeSelectedMsg is emitted once the user has chosen a project bucket and
// trend window.
type ScopeSelectedMsg struct {
	ProjectID string
	Months    int
}

type scopeChoice struct {
	projectID string
	months    int
}

type projectsLoadedMsg struct {
	projects []ledger.Project
	err      error
}

// ScopePicker asks which project bucket to analyse and how many months of
// trend to show. Projects are loaded from the ledger on Init.
type ScopePicker struct {
	ledger *ledger.Service

	form    *huh.Form
	choice  *scopeChoice
	loading bool
	err     error
}

func NewScopePicker(ledgerSvc *ledger.Service) ScopePicker {
	return ScopePicker{
		ledger:  ledgerSvc,
		choice:  &scopeChoice{projectID: analytics.ProjectAll, months: analytics.DefaultTrendMonths},
		loading: true,
	}
}

func (m ScopePicker) Init() tea.Cmd {
	svc := m.ledger

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		projects, err := svc.Projects(ctx)

		return projectsLoadedMsg{projects: projects, err: err}
	}
}

func (m ScopePicker) Update(msg tea.Msg) (ScopePicker, tea.Cmd) {
	if loaded, ok := msg.(projectsLoadedMsg); ok {
		m.loading = false
		if loaded.err != nil {
			m.err = loaded.err
			return m, nil
		}

		m.form = buildScopeForm(m.choice, loaded.projects)

		return m, m.form.Init()
	}

	if m.form == nil {
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	choice := *m.choice

	return m, func() tea.Msg {
		return ScopeSelectedMsg{ProjectID: choice.projectID, Months: choice.months}
	}
}

func (m ScopePicker) View() string {
	switch {
	case m.err != nil:
		return errorStyle.Render(fmt.Sprintf("Error loading projects: %v", m.err))
	case m.loading || m.form == nil:
		return "Loading projects..."
	}

	return m.form.View()
}

// Reset rebuilds the form so the picker can be shown again.
func (m *ScopePicker) Reset() tea.Cmd {
	m.form = nil
	m.loading = true
	m.err = nil

	return m.Init()
}

func scopeOptions(projects []ledger.Project) []huh.Option[string] {
	opts := []huh.Option[string]{
		huh.NewOption("All projects", analytics.ProjectAll),
		huh.NewOption("Unassigned", analytics.ProjectUnassigned),
	}

	for _, p := range projects {
		label := p.Name
		if label == "" {
			label = p.ID
		}

		opts = append(opts, huh.NewOption(label, p.ID))
	}

	return opts
}

func buildScopeForm(choice *scopeChoice, projects []ledger.Project) *huh.Form {
	months := make([]huh.Option[int], 0, len(trendWindows))
	for _, n := range trendWindows {
		months = append(months, huh.NewOption(fmt.Sprintf("%d months", n), n))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Project").
				Options(scopeOptions(projects)...).
				Value(&choice.projectID),
			huh.NewSelect[int]().
				Title("Trend window").
				Options(months...).
				Value(&choice.months),
		),
	).WithWidth(50).WithShowHelp(false)
}
