package main

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type fieldKind int

const (
	textField fieldKind = iota
	choiceField
	buttonField
)

type formField struct {
	key     string
	label   string
	kind    fieldKind
	value   string
	hint    string
	options []string
	choice  int
	secret  bool
}

// form is a vertical list of inputs navigated with tab/arrows, the same way
// the sign-in screen has always worked.
type form struct {
	fields []formField
	focus  int
}

type formEvent int

const (
	formNone formEvent = iota
	formEdited
	formChose
	formPressed
)

func (f *form) focused() *formField {
	if len(f.fields) == 0 {
		return nil
	}
	if f.focus >= len(f.fields) {
		f.focus = len(f.fields) - 1
	}
	return &f.fields[f.focus]
}

func (f *form) field(key string) *formField {
	for i := range f.fields {
		if f.fields[i].key == key {
			return &f.fields[i]
		}
	}
	return nil
}

func (f *form) value(key string) string {
	if fld := f.field(key); fld != nil {
		return fld.value
	}
	return ""
}

func (f *form) focusKey(key string) {
	for i := range f.fields {
		if f.fields[i].key == key {
			f.focus = i
			return
		}
	}
}

// handleKey applies msg to the focused field and reports what happened.
func (f *form) handleKey(msg tea.KeyMsg) (formEvent, *formField) {
	n := len(f.fields)
	if n == 0 {
		return formNone, nil
	}
	fld := f.focused()

	switch msg.String() {
	case "tab", "down":
		f.focus = (f.focus + 1) % n
		return formNone, nil
	case "shift+tab", "up":
		f.focus = (f.focus - 1 + n) % n
		return formNone, nil
	case "left", "right":
		if fld.kind != choiceField || len(fld.options) == 0 {
			return formNone, nil
		}
		step := 1
		if msg.String() == "left" {
			step = -1
		}
		fld.choice = (fld.choice + step + len(fld.options)) % len(fld.options)
		return formChose, fld
	case "enter":
		if fld.kind == buttonField {
			return formPressed, fld
		}
		f.focus = (f.focus + 1) % n
		return formNone, nil
	case "backspace":
		if fld.kind == textField && len(fld.value) > 0 {
			runes := []rune(fld.value)
			fld.value = string(runes[:len(runes)-1])
			return formEdited, fld
		}
		return formNone, nil
	}

	if fld.kind == textField && msg.Type == tea.KeyRunes {
		fld.value += string(msg.Runes)
		return formEdited, fld
	} else if fld.kind == textField && msg.Type == tea.KeySpace {
		fld.value += " "
		return formEdited, fld
	}
	return formNone, nil
}

func (f form) render(width int) string {
	labelStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(WHITE)

	hintStyle := lipgloss.NewStyle().
		Foreground(GREY)

	inputStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(WHITE).
		Padding(0, 1).
		Width(width)

	focusedInputStyle := inputStyle.
		BorderForeground(BLUE)

	buttonStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(WHITE).
		Padding(0, 2).
		Margin(1, 0, 0, 0).
		Border(lipgloss.RoundedBorder())

	focusedButtonStyle := buttonStyle.
		Background(BLUE)

	var rows []string
	for i, fld := range f.fields {
		isFocused := i == f.focus
		switch fld.kind {
		case buttonField:
			if isFocused {
				rows = append(rows, focusedButtonStyle.Render(fld.label))
			} else {
				rows = append(rows, buttonStyle.Render(fld.label))
			}
			continue
		case choiceField:
			value := ""
			if len(fld.options) > 0 {
				value = fmt.Sprintf("‹ %s ›", fld.options[fld.choice])
			}
			style := inputStyle
			if isFocused {
				style = focusedInputStyle
			}
			rows = append(rows, lipgloss.JoinVertical(lipgloss.Left, labelStyle.Render(fld.label), style.Render(value)))
			continue
		}

		value := fld.value
		if fld.secret {
			value = strings.Repeat("*", len([]rune(value)))
		}
		label := labelStyle.Render(fld.label)
		if fld.hint != "" {
			label += " " + hintStyle.Render(fld.hint)
		}
		var input string
		if isFocused {
			input = focusedInputStyle.Render(value + "│")
		} else {
			input = inputStyle.Render(value)
		}
		rows = append(rows, lipgloss.JoinVertical(lipgloss.Left, label, input))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
