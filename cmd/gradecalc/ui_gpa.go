package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/feelsunbreeze/gradecalc/internal/flow"
	"github.com/feelsunbreeze/gradecalc/internal/grading"
	"github.com/feelsunbreeze/gradecalc/internal/session"
)

// violationAt reports where the first problem in err lives. row is the
// zero-based row index, or -1 when the error is not tied to a row.
func violationAt(err error) (row int, field grading.Field, ok bool) {
	var verr *grading.ValidationError
	if errors.As(err, &verr) {
		err = verr.First()
	}

	var rowName string
	var missing *grading.MissingFieldError
	var outOfRange *grading.OutOfRangeError
	switch {
	case errors.As(err, &missing):
		rowName, field = missing.Row, missing.Field
	case errors.As(err, &outOfRange):
		rowName, field = outOfRange.Row, outOfRange.Field
	default:
		return -1, "", false
	}

	row = -1
	if i := strings.LastIndex(rowName, " "); i >= 0 {
		if n, err := strconv.Atoi(rowName[i+1:]); err == nil {
			row = n - 1
		}
	}
	return row, field, true
}

func focusViolation(f *form, err error) {
	if _, field, ok := violationAt(err); ok {
		f.focusKey(string(field))
	}
}

func newGPAForm(g *flow.GPA, i int) form {
	s := g.Subjects()[i]
	policy := grading.Policy(s.CourseType)

	fields := []formField{
		{key: keySubject, label: "Subject name:", kind: textField, value: s.Name},
		courseTypeField(s.CourseType),
		{key: keyCredit, label: "Credit:", kind: textField, value: s.Credit, hint: "(1-5)"},
	}
	for _, f := range policy.Fields {
		fields = append(fields, markField(f, s.Inputs[f]))
	}
	fields = append(fields,
		markField(policy.EndSem, s.Inputs[policy.EndSem]),
		formField{key: "add", label: "Add Subject", kind: buttonField},
		formField{key: "remove", label: "Remove Subject", kind: buttonField},
		formField{key: "calculate", label: "Calculate GPA", kind: buttonField},
	)
	return form{fields: fields}
}

func (m *model) showSubject(i int) {
	m.gpaSubject = max(0, min(i, m.gpa.Len()-1))
	m.gpaForm = newGPAForm(m.gpa, m.gpaSubject)
}

func (m model) handleGPAKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.currentView = MenuView
		return m, nil
	case "pgdown", "ctrl+n":
		m.showSubject(m.gpaSubject + 1)
		return m, nil
	case "pgup", "ctrl+p":
		m.showSubject(m.gpaSubject - 1)
		return m, nil
	}

	id := m.gpa.Subjects()[m.gpaSubject].ID
	event, fld := m.gpaForm.handleKey(msg)
	switch event {
	case formEdited:
		switch fld.key {
		case keySubject:
			m.gpa.SetName(id, fld.value)
		case keyCredit:
			m.gpa.SetCredit(id, fld.value)
		default:
			m.gpa.SetMark(id, grading.Field(fld.key), fld.value)
		}

	case formChose:
		m.gpa.SetCourseType(id, grading.CourseTypes()[fld.choice])
		m.showSubject(m.gpaSubject)
		m.gpaForm.focusKey(keyCourseType)

	case formPressed:
		switch fld.key {
		case "add":
			m.gpa.AddSubject()
			m.showSubject(m.gpa.Len() - 1)
		case "remove":
			if err := m.gpa.RemoveSubject(id); err != nil {
				m.setError(err)
				return m, nil
			}
			m.showSubject(m.gpaSubject)
		case "calculate":
			r, err := m.gpa.Calculate()
			if errors.Is(err, session.ErrNotRecorded) {
				m.setGPAResult(r)
				m.setError(err)
				return m, nil
			}
			if err != nil {
				m.setError(err)
				if row, _, ok := violationAt(err); ok && row >= 0 {
					m.showSubject(row)
				}
				focusViolation(&m.gpaForm, err)
				return m, nil
			}
			m.setGPAResult(r)
		}
	}
	return m, nil
}

func (m *model) setGPAResult(r grading.GPAResult) {
	columns := []table.Column{
		{Title: "Subject", Width: 24},
		{Title: "Course Type", Width: 15},
		{Title: "Credit", Width: 6},
		{Title: "Internal", Width: 8},
		{Title: "End Sem", Width: 7},
		{Title: "Total", Width: 6},
		{Title: "Grade", Width: 5},
		{Title: "G.P.", Width: 4},
	}
	var rows []table.Row
	for _, s := range r.Subjects {
		rows = append(rows, table.Row{
			s.Name,
			s.CourseType.Label(),
			grading.FormatMark(s.Credit),
			grading.FormatMark(grading.Round2(s.Internal)),
			grading.FormatMark(s.EndSem),
			grading.FormatMark(grading.Round2(s.Total)),
			string(s.Grade),
			grading.FormatMark(s.GradePoint),
		})
	}
	m.resultTable = newResultTable(columns, rows)
	m.resultKind = session.KindGPA
	m.currentView = ResultView
}

func (m model) renderGPA() string {
	tabStyle := lipgloss.NewStyle().
		Foreground(SILVER).
		Padding(0, 1)

	activeTabStyle := tabStyle.
		Bold(true).
		Foreground(WHITE).
		Background(BLUE)

	var tabs []string
	for i, s := range m.gpa.Subjects() {
		name := strings.TrimSpace(s.Name)
		if name == "" {
			name = flow.SubjectRowName(i)
		}
		if i == m.gpaSubject {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, tabStyle.Render(name))
		}
	}

	navStyle := lipgloss.NewStyle().
		Foreground(GREY).
		MarginBottom(1)

	content := lipgloss.JoinVertical(lipgloss.Center,
		m.renderTitle("Semester GPA Checker 🎯"),
		lipgloss.JoinHorizontal(lipgloss.Top, tabs...),
		navStyle.Render(fmt.Sprintf("Subject %d of %d", m.gpaSubject+1, m.gpa.Len())),
		m.gpaForm.render(inputWidth),
		m.renderNotice(),
		m.renderHelp("• ↑/↓: Navigate • ←/→: Course type • PgUp/PgDn: Switch subject • Esc: Back • Ctrl+C: Quit"),
	)
	return m.place(content)
}

func cgpaKey(i int, f grading.Field) string {
	return fmt.Sprintf("%d:%s", i, f)
}

func newCGPAForm(c *flow.CGPA) form {
	var fields []formField
	for i, s := range c.Semesters() {
		fields = append(fields,
			formField{key: cgpaKey(i, grading.FieldGPA), label: fmt.Sprintf("Semester %d GPA:", s.Number), kind: textField, value: s.GPA, hint: "(0-10)"},
			formField{key: cgpaKey(i, grading.FieldCredits), label: fmt.Sprintf("Semester %d Credits:", s.Number), kind: textField, value: s.Credits},
		)
	}
	fields = append(fields,
		formField{key: "add", label: "Add Semester", kind: buttonField},
		formField{key: "calculate", label: "Calculate CGPA", kind: buttonField},
	)
	return form{fields: fields}
}

// semesterAt splits a cgpaKey back into its row and field.
func semesterAt(key string) (int, grading.Field, bool) {
	idx, field, found := strings.Cut(key, ":")
	if !found {
		return 0, "", false
	}
	i, err := strconv.Atoi(idx)
	if err != nil {
		return 0, "", false
	}
	return i, grading.Field(field), true
}

func (m model) handleCGPAKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	semesters := m.cgpa.Semesters()

	switch msg.String() {
	case "esc":
		m.currentView = MenuView
		return m, nil
	case "ctrl+d":
		i, _, ok := semesterAt(m.cgpaForm.focused().key)
		if !ok {
			return m, nil
		}
		if err := m.cgpa.RemoveSemester(semesters[i].ID); err != nil {
			m.setError(err)
			return m, nil
		}
		focus := m.cgpaForm.focus
		m.cgpaForm = newCGPAForm(m.cgpa)
		m.cgpaForm.focus = min(focus, len(m.cgpaForm.fields)-1)
		return m, nil
	}

	event, fld := m.cgpaForm.handleKey(msg)
	switch event {
	case formEdited:
		i, field, ok := semesterAt(fld.key)
		if !ok {
			return m, nil
		}
		if field == grading.FieldGPA {
			m.cgpa.SetGPA(semesters[i].ID, fld.value)
		} else {
			m.cgpa.SetCredits(semesters[i].ID, fld.value)
		}

	case formPressed:
		switch fld.key {
		case "add":
			m.cgpa.AddSemester()
			m.cgpaForm = newCGPAForm(m.cgpa)
			m.cgpaForm.focusKey(cgpaKey(m.cgpa.Len()-1, grading.FieldGPA))
		case "calculate":
			r, err := m.cgpa.Calculate()
			if errors.Is(err, session.ErrNotRecorded) {
				m.setCGPAResult(r)
				m.setError(err)
				return m, nil
			}
			if err != nil {
				m.setError(err)
				if row, field, ok := violationAt(err); ok && row >= 0 {
					m.cgpaForm.focusKey(cgpaKey(row, field))
				}
				return m, nil
			}
			m.setCGPAResult(r)
		}
	}
	return m, nil
}

func (m *model) setCGPAResult(r grading.CGPAResult) {
	columns := []table.Column{
		{Title: "Semester", Width: 10},
		{Title: "GPA", Width: 6},
		{Title: "Credits", Width: 8},
	}
	var rows []table.Row
	for _, s := range r.Semesters {
		rows = append(rows, table.Row{
			strconv.Itoa(s.Number),
			grading.FormatMark(s.GPA),
			grading.FormatMark(s.Credits),
		})
	}
	m.resultTable = newResultTable(columns, rows)
	m.resultKind = session.KindCGPA
	m.currentView = ResultView
}

func (m model) renderCGPA() string {
	content := lipgloss.JoinVertical(lipgloss.Center,
		m.renderTitle("Overall CGPA Tracker 📈"),
		m.cgpaForm.render(inputWidth),
		m.renderNotice(),
		m.renderHelp("• ↑/↓: Navigate • Ctrl+D: Remove semester • Esc: Back • Ctrl+C: Quit"),
	)
	return m.place(content)
}

func (m model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "esc":
		if m.resultKind == session.KindGPA {
			m.currentView = GPAView
		} else {
			m.currentView = CGPAView
		}
	case "m":
		m.currentView = MenuView
	case "x":
		return m, m.exportResult()
	case "up", "k", "down", "j":
		var cmd tea.Cmd
		m.resultTable, cmd = m.resultTable.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m model) renderResult() string {
	statsStyle := lipgloss.NewStyle().
		Foreground(WHITE).
		MarginTop(1)

	turquoiseStyle := lipgloss.NewStyle().Foreground(TURQUOISE)
	lightGreenStyle := lipgloss.NewStyle().Foreground(LIGHT_GREEN).Bold(true)

	var title, stats string
	switch m.resultKind {
	case session.KindGPA:
		r, _ := m.gpa.Result()
		title = "🎯 Your Semester GPA"
		stats = fmt.Sprintf("%s %s | %s %s",
			"Credits:", turquoiseStyle.Render(grading.FormatMark(r.TotalCredits())),
			"GPA:", lightGreenStyle.Render(fmt.Sprintf("%.2f", r.GPA)),
		)
	default:
		r, _ := m.cgpa.Result()
		title = "📈 Your Overall CGPA"
		stats = fmt.Sprintf("%s %s | %s %s",
			"Credits:", turquoiseStyle.Render(grading.FormatMark(r.TotalCredits())),
			"CGPA:", lightGreenStyle.Render(fmt.Sprintf("%.2f", r.CGPA)),
		)
	}

	content := lipgloss.JoinVertical(lipgloss.Center,
		m.renderTitle(title),
		m.resultTable.View(),
		statsStyle.Render(stats),
		m.renderNotice(),
		m.renderHelp("• ↑/↓: Navigate • X: Export to Excel • Esc: Edit • M: Menu • Q: Quit"),
	)
	return m.place(content)
}
