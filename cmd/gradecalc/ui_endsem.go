package main

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/feelsunbreeze/gradecalc/internal/flow"
	"github.com/feelsunbreeze/gradecalc/internal/grading"
)

const (
	keySubject    = string(grading.FieldSubject)
	keyCourseType = "courseType"
	keyCredit     = string(grading.FieldCredit)
)

func courseTypeField(ct grading.CourseType) formField {
	types := grading.CourseTypes()
	fld := formField{key: keyCourseType, label: "Course type:", kind: choiceField}
	for i, t := range types {
		fld.options = append(fld.options, t.Label())
		if t == ct {
			fld.choice = i
		}
	}
	return fld
}

func markField(f grading.Field, value string) formField {
	spec := grading.Spec(f)
	return formField{
		key:   string(f),
		label: spec.Label + ":",
		kind:  textField,
		value: value,
		hint:  fmt.Sprintf("(out of %s)", grading.FormatMark(spec.Bound.Max)),
	}
}

func newEndSemForm(e *flow.EndSem) form {
	fields := []formField{
		{key: keySubject, label: "Subject name:", kind: textField, value: e.Subject()},
		courseTypeField(e.CourseType()),
	}
	for _, f := range e.Policy().Fields {
		fields = append(fields, markField(f, e.Input(f)))
	}
	fields = append(fields, formField{key: "calculate", label: "Calculate Internal Mark", kind: buttonField})
	return form{fields: fields}
}

func (m model) handleEndSemKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "esc" {
		m.currentView = MenuView
		return m, nil
	}
	if m.endSem.State() == flow.CollectingInternals {
		return m.handleInternalsKeys(msg)
	}

	targets := grading.TargetGrades()
	switch msg.String() {
	case "up", "k":
		if m.targetChoice > 0 {
			m.targetChoice--
		}
		m.endSem.SelectTarget(targets[m.targetChoice])
	case "down", "j":
		if m.targetChoice < len(targets)-1 {
			m.targetChoice++
		}
		m.endSem.SelectTarget(targets[m.targetChoice])
	case "enter":
		if err := m.endSem.SelectTarget(targets[m.targetChoice]); err != nil {
			m.setError(err)
			return m, nil
		}
		if _, err := m.endSem.CalculateRequired(); err != nil {
			m.setError(err)
		}
	case "n":
		m.endSem.Reset()
		m.endSemForm = newEndSemForm(m.endSem)
		m.targetChoice = 0
	}
	return m, nil
}

func (m model) handleInternalsKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	event, fld := m.endSemForm.handleKey(msg)
	switch event {
	case formEdited:
		if fld.key == keySubject {
			m.endSem.SetSubject(fld.value)
		} else {
			m.endSem.SetMark(grading.Field(fld.key), fld.value)
		}

	case formChose:
		m.endSem.SetCourseType(grading.CourseTypes()[fld.choice])
		m.endSemForm = newEndSemForm(m.endSem)
		m.endSemForm.focusKey(keyCourseType)

	case formPressed:
		if err := m.endSem.SubmitInternals(); err != nil {
			m.setError(err)
			focusViolation(&m.endSemForm, err)
			return m, nil
		}
		m.targetChoice = 0
		m.endSem.SelectTarget(grading.TargetGrades()[0])
	}
	return m, nil
}

// endSemMessage is the headline shown once a required mark is known.
func endSemMessage(r grading.EndSemResult) string {
	internal := grading.FormatMark(grading.Round2(r.InternalMark))
	grade := strings.ToUpper(r.Target.Label())
	switch r.CourseType {
	case grading.NPTEL:
		return fmt.Sprintf("Your NPTEL score of %s is giving you %s vibes ✨ You need at least %s in the exam.",
			internal, grade, grading.FormatMark(r.RequiredMark))
	case grading.LabOnly:
		return fmt.Sprintf("Your lab score of %s is totally %s material 🔥 You need at least %s in the end practical.",
			internal, grade, grading.FormatMark(r.RequiredMark))
	default:
		return fmt.Sprintf("To get that %s in %s, you need to score at least %s in your EndSem! Let's go! 💪",
			grade, r.Subject, grading.FormatMark(r.RequiredMark))
	}
}

func (m model) renderEndSem() string {
	if m.endSem.State() == flow.CollectingInternals {
		content := lipgloss.JoinVertical(lipgloss.Center,
			m.renderTitle("End Sem Mark Calculator 📊"),
			m.endSemForm.render(inputWidth),
			m.renderNotice(),
			m.renderHelp("• ↑/↓: Navigate • ←/→: Course type • Enter: Calculate • Esc: Back • Ctrl+C: Quit"),
		)
		return m.place(content)
	}

	internalStyle := lipgloss.NewStyle().
		Foreground(WHITE).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(BLUE).
		Padding(0, 2).
		MarginBottom(1)

	questionStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(LIGHT_BLUE)

	selectedStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(WHITE).
		Background(BLUE).
		Padding(0, 1)

	normalStyle := lipgloss.NewStyle().
		Foreground(SILVER).
		Padding(0, 1)

	resultStyle := lipgloss.NewStyle().
		Foreground(LIGHT_GREEN).
		Bold(true).
		MarginTop(1).
		Width(inputWidth * 3).
		Align(lipgloss.Center)

	ct := m.endSem.CourseType()
	internal := internalStyle.Render(fmt.Sprintf("Your internal mark is %s out of %s",
		grading.FormatMark(grading.Round2(m.endSem.InternalMark())),
		grading.FormatMark(grading.MaxInternal(ct)),
	))

	var options []string
	for i, t := range grading.TargetGrades() {
		if i == m.targetChoice {
			options = append(options, selectedStyle.Render("● "+t.Label()))
		} else {
			options = append(options, normalStyle.Render("○ "+t.Label()))
		}
	}

	var result string
	if r, ok := m.endSem.Result(); ok {
		result = resultStyle.Render(endSemMessage(r))
	}

	content := lipgloss.JoinVertical(lipgloss.Center,
		m.renderTitle("End Sem Mark Calculator 📊"),
		internal,
		questionStyle.Render(fmt.Sprintf("Which grade do you want to get in your end sem of %s?", strings.TrimSpace(m.endSem.Subject()))),
		lipgloss.JoinVertical(lipgloss.Left, options...),
		result,
		m.renderNotice(),
		m.renderHelp("• ↑/↓: Grade • Enter: Calculate Required Mark • N: Another subject • Esc: Back • Ctrl+C: Quit"),
	)
	return m.place(content)
}
