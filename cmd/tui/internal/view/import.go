package view

import (
	"fmt"
	"os"

	"github.com/charmbracelet/bubbles/filepicker"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/burnrate/internal/importer"
	"github.com/MrJamesThe3rd/burnrate/internal/ledger"
	"github.com/MrJamesThe3rd/burnrate/internal/preview"
)

type importState int

const (
	importStateScope importState = iota
	importStateFormatSelect
	importStateFilePick
	importStateImporting
	importStateResult
)

// ImportModel previews analytics for a cost export against the stored
// expenses and budgets of a project. Nothing is written back.
type ImportModel struct {
	CommonModel
	preview *preview.Service

	state         importState
	scope         ScopePicker
	selected      ScopeSelectedMsg
	filePicker    filepicker.Model
	formatOptions []importer.Format
	formatCursor  int

	result importPreviewMsg
	status string
	err    error
}

func NewImportModel(ledgerSvc *ledger.Service, previewSvc *preview.Service) ImportModel {
	fp := filepicker.New()
	fp.CurrentDirectory, _ = os.Getwd()
	fp.AllowedTypes = []string{".csv", ".txt"}
	fp.ShowHidden = false
	fp.DirAllowed = false
	fp.FileAllowed = true
	fp.SetHeight(15)

	return ImportModel{
		preview:       previewSvc,
		scope:         NewScopePicker(ledgerSvc),
		filePicker:    fp,
		formatOptions: []importer.Format{importer.FormatGeneric, importer.FormatCGD},
	}
}

func (m ImportModel) Title() string { return "Import Preview" }

func (m ImportModel) ShortHelp() string {
	return "Esc: back | Enter: select"
}

func (m ImportModel) Init() tea.Cmd {
	return m.scope.Init()
}

func (m ImportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m.handleEsc()
		}

		if m.state == importStateFormatSelect {
			return m.updateFormatSelect(msg)
		}

	case ScopeSelectedMsg:
		m.selected = msg
		m.state = importStateFormatSelect

		return m, nil

	case importPreviewMsg:
		m.state = importStateResult
		m.result = msg
		m.err = msg.err

		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
			return m, nil
		}

		m.status = fmt.Sprintf("Parsed %d costs, %d categorized by rules.", len(msg.result.Costs), msg.result.Categorized)
		if msg.result.OutOfScope > 0 {
			m.status += fmt.Sprintf(" %d belong to another project.", msg.result.OutOfScope)
		}

		return m, nil
	}

	switch m.state {
	case importStateScope:
		var cmd tea.Cmd
		m.scope, cmd = m.scope.Update(msg)

		return m, cmd
	case importStateFilePick:
		return m.updateFilePick(msg)
	}

	return m, nil
}

func (m ImportModel) handleEsc() (tea.Model, tea.Cmd) {
	switch m.state {
	case importStateFormatSelect:
		m.state = importStateScope
		return m, m.scope.Reset()
	case importStateFilePick:
		m.state = importStateFormatSelect
		return m, nil
	case importStateResult:
		m.state = importStateFormatSelect
		m.err = nil
		m.status = ""

		return m, nil
	}

	return m, Back
}

func (m ImportModel) updateFormatSelect(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyUp:
		if m.formatCursor > 0 {
			m.formatCursor--
		}
	case tea.KeyDown:
		if m.formatCursor < len(m.formatOptions)-1 {
			m.formatCursor++
		}
	case tea.KeyEnter:
		m.state = importStateFilePick
		return m, m.filePicker.Init()
	}

	return m, nil
}

func (m ImportModel) updateFilePick(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.filePicker, cmd = m.filePicker.Update(msg)

	if didSelect, path := m.filePicker.DidSelectFile(msg); didSelect {
		m.state = importStateImporting
		m.status = fmt.Sprintf("Importing from %s...", path)

		return m, m.previewCmd(path, m.formatOptions[m.formatCursor], m.selected)
	}

	return m, cmd
}

func (m ImportModel) View() string {
	switch m.state {
	case importStateScope:
		return lipgloss.NewStyle().Padding(1).Render(m.scope.View())
	case importStateFormatSelect:
		return m.viewFormatSelect()
	case importStateFilePick:
		return lipgloss.NewStyle().Padding(1).Render(
			fmt.Sprintf("Select export to preview (%s):\n\n%s", m.formatOptions[m.formatCursor], m.filePicker.View()),
		)
	case importStateImporting:
		return lipgloss.NewStyle().Padding(2).Render(m.status)
	case importStateResult:
		return m.viewResult()
	}

	return ""
}

func (m ImportModel) viewFormatSelect() string {
	s := "Select export format:\n\n"

	for i, f := range m.formatOptions {
		cursor := " "
		if i == m.formatCursor {
			cursor = ">"
		}

		s += fmt.Sprintf("%s %s\n", cursor, string(f))
	}

	return lipgloss.NewStyle().Padding(2).Render(s)
}

func (m ImportModel) viewResult() string {
	style := lipgloss.NewStyle().Padding(2)
	if m.err != nil {
		return style.Render(errorStyle.Render(m.status) + "\n\n(Esc to go back)")
	}

	a := m.result.result.Analytics

	return style.Render(lipgloss.JoinVertical(lipgloss.Left,
		successStyle.Render(m.status),
		"",
		fmt.Sprintf("Costs %s against budgets %s (%s used)",
			FormatAmount(a.TotalCosts), FormatAmount(a.TotalBudgets), FormatPercent(a.BudgetUtilization)),
		"",
		headerStyle.Render("Insights"),
		renderInsights(m.result.result.Insights),
		"",
		"(Esc to go back)",
	))
}

type importPreviewMsg struct {
	result *preview.Result
	err    error
}

func (m ImportModel) previewCmd(path string, format importer.Format, scope ScopeSelectedMsg) tea.Cmd {
	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return importPreviewMsg{err: err}
		}
		defer f.Close()

		ctx, cancel := DbCtx()
		defer cancel()

		res, err := m.preview.Preview(ctx, preview.Request{
			Format:      format,
			File:        f,
			ProjectID:   scope.ProjectID,
			TrendMonths: scope.Months,
		})
		if err != nil {
			return importPreviewMsg{err: err}
		}

		return importPreviewMsg{result: res}
	}
}
