package main

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/feelsunbreeze/gradecalc/internal/session"
)

// historyKinds are the filter tabs; the empty kind shows everything.
var historyKinds = []session.Kind{"", session.KindGPA, session.KindCGPA, session.KindEndSem}

func historyRows(entries []session.Entry) []table.Row {
	rows := make([]table.Row, 0, len(entries))
	// Newest first.
	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		rows = append(rows, table.Row{
			e.CreatedAt.Format("02 Jan 2006 15:04"),
			e.Kind.Label(),
			fmt.Sprintf("%.2f", e.Value()),
			e.Summary(),
		})
	}
	return rows
}

func (m *model) setHistoryTable() {
	columns := []table.Column{
		{Title: "Date", Width: 18},
		{Title: "Type", Width: 7},
		{Title: "Result", Width: 7},
		{Title: "Details", Width: 36},
	}
	entries := session.Filter(m.session.History.List(), historyKinds[m.historyKind])
	m.historyLen = len(entries)
	m.history = newResultTable(columns, historyRows(entries))
}

func (m model) handleHistoryKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "esc":
		m.currentView = MenuView
	case "tab", "right", "l":
		m.historyKind = (m.historyKind + 1) % len(historyKinds)
		m.setHistoryTable()
	case "shift+tab", "left", "h":
		m.historyKind = (m.historyKind - 1 + len(historyKinds)) % len(historyKinds)
		m.setHistoryTable()
	case "c":
		if err := m.session.ClearHistory(); err != nil {
			m.setError(err)
			return m, nil
		}
		m.setHistoryTable()
		m.setNotice("✅ History cleared", false)
	case "up", "k", "down", "j":
		var cmd tea.Cmd
		m.history, cmd = m.history.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m model) renderHistory() string {
	tabStyle := lipgloss.NewStyle().
		Foreground(SILVER).
		Padding(0, 1)

	activeTabStyle := tabStyle.
		Bold(true).
		Foreground(WHITE).
		Background(BLUE)

	var tabs []string
	for i, k := range historyKinds {
		label := "All"
		if k != "" {
			label = k.Label()
		}
		if i == m.historyKind {
			tabs = append(tabs, activeTabStyle.Render(label))
		} else {
			tabs = append(tabs, tabStyle.Render(label))
		}
	}

	countStyle := lipgloss.NewStyle().
		Foreground(GREY).
		MarginBottom(1)

	var body string
	if m.historyLen == 0 {
		body = lipgloss.NewStyle().Foreground(YELLOW).Render("No calculations yet.")
	} else {
		body = m.history.View()
	}

	content := lipgloss.JoinVertical(lipgloss.Center,
		m.renderTitle("🗂 History"),
		lipgloss.JoinHorizontal(lipgloss.Top, tabs...),
		countStyle.Render(fmt.Sprintf("%d entries", m.historyLen)),
		body,
		m.renderNotice(),
		m.renderHelp("• ←/→: Filter • ↑/↓: Navigate • C: Clear • Esc: Back • Q: Quit"),
	)
	return m.place(content)
}
