package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/feelsunbreeze/gradecalc/internal/flow"
	"github.com/feelsunbreeze/gradecalc/internal/forms"
	"github.com/feelsunbreeze/gradecalc/internal/session"
)

var yearOptions = []string{"I", "II", "III", "IV"}

func newProfileForm() form {
	departments := make([]string, len(session.Departments))
	for i, d := range session.Departments {
		departments[i] = fmt.Sprintf("%s - %s", d.Code, d.Name)
	}
	return form{fields: []formField{
		{key: "name", label: "Name:", kind: textField},
		{key: "department", label: "Department:", kind: choiceField, options: departments},
		{key: "year", label: "Year of study:", kind: choiceField, options: yearOptions},
		{key: "submit", label: "Continue", kind: buttonField},
	}}
}

func (m model) handleProfileKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "esc" {
		return m, tea.Quit
	}

	event, _ := m.profileForm.handleKey(msg)
	if event != formPressed {
		return m, nil
	}

	p := session.Profile{
		Name:        m.profileForm.value("name"),
		Department:  session.Departments[m.profileForm.field("department").choice].Code,
		YearOfStudy: m.profileForm.field("year").choice + 1,
	}
	if err := m.session.SignIn(p); err != nil {
		m.setError(err)
		return m, nil
	}

	m.profileForm = newProfileForm()
	m.selectedMenu = 0
	m.currentView = MenuView
	return m, m.submitProfile(p)
}

func (m model) renderProfile() string {
	subtitleStyle := lipgloss.NewStyle().
		Foreground(SILVER).
		MarginBottom(1)

	content := lipgloss.JoinVertical(lipgloss.Center,
		m.renderTitle("REC Grade Calculator"),
		subtitleStyle.Render("Tell us a little about yourself to get started"),
		m.profileForm.render(inputWidth*2),
		m.renderNotice(),
		m.renderHelp("• ↑/↓: Navigate • ←/→: Change option • Enter: Select • Esc/Ctrl+C: Quit"),
	)
	return m.place(content)
}

func (m model) handleMenuKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		return m, tea.Quit

	case "up", "k":
		if m.selectedMenu > 0 {
			m.selectedMenu--
		}

	case "down", "j":
		if m.selectedMenu < len(menuItems)-1 {
			m.selectedMenu++
		}

	case "1", "2", "3", "4", "5":
		m.selectedMenu = int(msg.String()[0] - '1')
		return m.openView(menuItems[m.selectedMenu].view)

	case "enter":
		return m.openView(menuItems[m.selectedMenu].view)

	case "l":
		if err := m.session.Logout(); err != nil {
			m.setError(err)
			return m, nil
		}
		m.resetToProfile()
	}
	return m, nil
}

// openView starts each calculator afresh, the way leaving a page discards it.
func (m model) openView(v ViewType) (tea.Model, tea.Cmd) {
	switch v {
	case EndSemView:
		m.endSem = flow.NewEndSem(m.session)
		m.endSemForm = newEndSemForm(m.endSem)
		m.targetChoice = 0
	case GPAView:
		m.gpa = flow.NewGPA(m.session)
		m.gpaSubject = 0
		m.gpaForm = newGPAForm(m.gpa, 0)
	case CGPAView:
		m.cgpa = flow.NewCGPA(m.session)
		m.cgpaForm = newCGPAForm(m.cgpa)
	case HistoryView:
		m.historyKind = 0
		m.setHistoryTable()
	case QueryView:
		if p, ok := m.session.Profile(); ok && m.queryForm.value("name") == "" {
			m.queryForm.field("name").value = p.Name
		}
	}
	m.currentView = v
	return m, nil
}

func (m *model) resetToProfile() {
	m.currentView = ProfileView
	m.profileForm = newProfileForm()
	m.queryForm = newQueryForm()
	m.selectedMenu = 0
	m.endSem = nil
	m.gpa = nil
	m.cgpa = nil
}

func (m model) renderMenu() string {
	headerStyle := lipgloss.NewStyle().
		Bold(true).Foreground(LIGHT_BLUE)

	turquoiseStyle := lipgloss.NewStyle().Foreground(TURQUOISE).Bold(true)
	lavenderStyle := lipgloss.NewStyle().Foreground(LAVENDER).Bold(true)
	lightGreenStyle := lipgloss.NewStyle().Foreground(LIGHT_GREEN).Bold(true)

	selectedStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(WHITE).
		Background(BLUE).
		Padding(0, 1)

	normalStyle := lipgloss.NewStyle().
		Foreground(SILVER).
		Padding(0, 1)

	subtitleStyle := lipgloss.NewStyle().
		Foreground(GREY).
		PaddingLeft(5)

	var studentInfo string
	if p, ok := m.session.Profile(); ok {
		studentInfo = fmt.Sprintf("%s, %s | %s | %s %s",
			headerStyle.Render("Welcome"),
			turquoiseStyle.Render(p.Name),
			lavenderStyle.Render(p.Department),
			headerStyle.Render("Year"),
			lightGreenStyle.MarginBottom(1).Render(p.YearRoman()),
		)
	}

	var items []string
	for i, item := range menuItems {
		if i == m.selectedMenu {
			items = append(items, selectedStyle.Render("→ "+item.title))
		} else {
			items = append(items, normalStyle.Render("  "+item.title))
		}
		items = append(items, subtitleStyle.Render(item.subtitle))
	}

	content := lipgloss.JoinVertical(lipgloss.Center,
		studentInfo,
		lipgloss.JoinVertical(lipgloss.Left, items...),
		m.renderNotice(),
		m.renderHelp("• ↑/↓: Navigate • Enter/1-5: Open • L: Log out • Q: Quit"),
	)
	return m.place(content)
}

func newQueryForm() form {
	return form{fields: []formField{
		{key: "name", label: "Name:", kind: textField},
		{key: "email", label: "Email:", kind: textField},
		{key: "message", label: "Your question:", kind: textField},
		{key: "submit", label: "Send", kind: buttonField},
	}}
}

func (m model) handleQueryKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "esc" {
		m.currentView = MenuView
		return m, nil
	}

	event, _ := m.queryForm.handleKey(msg)
	if event != formPressed {
		return m, nil
	}

	q := forms.Query{
		Name:    m.queryForm.value("name"),
		Email:   m.queryForm.value("email"),
		Message: m.queryForm.value("message"),
	}
	if err := q.Validate(); err != nil {
		m.setError(err)
		return m, nil
	}

	m.setLoadingState("📨 Sending your query, please wait", "Posting your question to the team", "• Esc: Back • Q: Quit")
	m.currentView = LoadingView
	return m, tea.Batch(m.spinner.Tick, m.submitQuery(q))
}

func (m model) renderQuery() string {
	subtitleStyle := lipgloss.NewStyle().
		Foreground(SILVER).
		MarginBottom(1)

	content := lipgloss.JoinVertical(lipgloss.Center,
		m.renderTitle("Got Questions? Ask Away! 💭"),
		subtitleStyle.Render("We got your back, fam"),
		m.queryForm.render(inputWidth*2),
		m.renderNotice(),
		m.renderHelp("• ↑/↓: Navigate • Enter: Send • Esc: Back • Ctrl+C: Quit"),
	)
	return m.place(content)
}
