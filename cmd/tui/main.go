package main

import (
	"context"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"
	"golang.org/x/text/language"

	"github.com/MrJamesThe3rd/burnrate/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/burnrate/internal/analytics"
	"github.com/MrJamesThe3rd/burnrate/internal/config"
	"github.com/MrJamesThe3rd/burnrate/internal/database"
	"github.com/MrJamesThe3rd/burnrate/internal/importer"
	"github.com/MrJamesThe3rd/burnrate/internal/ledger"
	ledgerStore "github.com/MrJamesThe3rd/burnrate/internal/ledger/store"
	"github.com/MrJamesThe3rd/burnrate/internal/matching"
	matchingStore "github.com/MrJamesThe3rd/burnrate/internal/matching/store"
	"github.com/MrJamesThe3rd/burnrate/internal/preview"
	"github.com/MrJamesThe3rd/burnrate/internal/report"
)

type model struct {
	ledgerService   *ledger.Service
	engine          *analytics.Engine
	previewService  *preview.Service
	reportService   *report.Service

	currentView View

	dashboardView view.DashboardModel
	projectsView  view.ProjectsModel
	importView    view.ImportModel
}

type View int

const (
	ViewMenu      View = 0
	ViewDashboard View = 1
	ViewProjects  View = 2
	ViewImport    View = 3
)

func initialModel() model {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.New(context.Background(), cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	ledgerSvc := ledger.NewService(ledgerStore.New(db))
	engine := analytics.NewEngine(analytics.EngineConfig{
		CacheSize:   cfg.Analytics.CacheSize,
		CacheTTL:    cfg.Analytics.CacheTTL,
		TopN:        cfg.Analytics.TopN,
		TrendMonths: cfg.Analytics.TrendMonths,
	})
	matchSvc := matching.NewService(matchingStore.New(db))
	prevSvc := preview.NewService(importer.NewService(), matchSvc, ledgerSvc, engine)
	repSvc := report.NewService(language.English)

	return model{
		ledgerService:   ledgerSvc,
		engine:          engine,
		previewService:  prevSvc,
		reportService:   repSvc,
		currentView:     ViewMenu,
		dashboardView:   view.NewDashboardModel(ledgerSvc, engine, repSvc),
		projectsView:    view.NewProjectsModel(ledgerSvc),
		importView:      view.NewImportModel(ledgerSvc, prevSvc),
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if m.currentView == ViewMenu {
			switch msg.String() {
			case "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewDashboard
				m.dashboardView = view.NewDashboardModel(m.ledgerService, m.engine, m.reportService)

				return m, m.dashboardView.Init()
			case "2":
				m.currentView = ViewProjects
				m.projectsView = view.NewProjectsModel(m.ledgerService)

				return m, m.projectsView.Init()
			case "3":
				m.currentView = ViewImport
				m.importView = view.NewImportModel(m.ledgerService, m.previewService)

				return m, m.importView.Init()
			}
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewDashboard:
		var newModel tea.Model
		newModel, cmd = m.dashboardView.Update(msg)
		m.dashboardView = newModel.(view.DashboardModel)
	case ViewProjects:
		var newModel tea.Model
		newModel, cmd = m.projectsView.Update(msg)
		m.projectsView = newModel.(view.ProjectsModel)
	case ViewImport:
		var newModel tea.Model
		newModel, cmd = m.importView.Update(msg)
		m.importView = newModel.(view.ImportModel)
	}

	return m, cmd
}

func (m model) View() string {
	var current view.View

	switch m.currentView {
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			"Burnrate\n\n" +
				"1. Dashboard\n" +
				"2. Projects\n" +
				"3. Import Preview\n\n" +
				"q. Quit",
		)
	case ViewDashboard:
		current = m.dashboardView
	case ViewProjects:
		current = m.projectsView
	case ViewImport:
		current = m.importView
	default:
		return "Unknown View"
	}

	help := lipgloss.NewStyle().Foreground(lipgloss.Color("240")).PaddingLeft(1).Render(current.ShortHelp())

	return lipgloss.JoinVertical(lipgloss.Left, current.View(), help)
}

func main() {
	p := tea.NewProgram(initialModel())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
