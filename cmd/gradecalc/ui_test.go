package main

import (
	"errors"
	"os"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/feelsunbreeze/gradecalc/internal/flow"
	"github.com/feelsunbreeze/gradecalc/internal/forms"
	"github.com/feelsunbreeze/gradecalc/internal/grading"
	"github.com/feelsunbreeze/gradecalc/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var namedKeys = map[string]tea.KeyType{
	"enter":     tea.KeyEnter,
	"tab":       tea.KeyTab,
	"shift+tab": tea.KeyShiftTab,
	"esc":       tea.KeyEsc,
	"up":        tea.KeyUp,
	"down":      tea.KeyDown,
	"left":      tea.KeyLeft,
	"right":     tea.KeyRight,
	"backspace": tea.KeyBackspace,
	"pgup":      tea.KeyPgUp,
	"pgdown":    tea.KeyPgDown,
	"ctrl+d":    tea.KeyCtrlD,
	"ctrl+c":    tea.KeyCtrlC,
}

func key(k string) tea.KeyMsg {
	if t, ok := namedKeys[k]; ok {
		return tea.KeyMsg{Type: t}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

// press feeds keys one by one; anything not in namedKeys is typed as text.
func press(t *testing.T, m model, keys ...string) model {
	t.Helper()
	for _, k := range keys {
		next, _ := m.Update(key(k))
		m = next.(model)
	}
	return m
}

func pressCmd(t *testing.T, m model, k string) (model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(key(k))
	return next.(model), cmd
}

func newTestModel(t *testing.T) (model, *session.Session) {
	t.Helper()
	s := session.NewMemory()
	client := forms.NewClient("", "", time.Second, nil)
	return NewModel(s, client, t.TempDir()), s
}

func signedInModel(t *testing.T) (model, *session.Session) {
	t.Helper()
	s := session.NewMemory()
	require.NoError(t, s.SignIn(session.Profile{Name: "Asha", Department: "CSE", YearOfStudy: 2}))
	client := forms.NewClient("", "", time.Second, nil)
	return NewModel(s, client, t.TempDir()), s
}

func TestProfileSignIn(t *testing.T) {
	m, s := newTestModel(t)
	require.Equal(t, ProfileView, m.currentView)

	m = press(t, m, "Asha", "enter", "right", "down", "right", "down")
	m, cmd := pressCmd(t, m, "enter")

	assert.Equal(t, MenuView, m.currentView)
	require.NotNil(t, cmd)

	p, ok := s.Profile()
	require.True(t, ok)
	assert.Equal(t, "Asha", p.Name)
	assert.Equal(t, "AIML", p.Department)
	assert.Equal(t, 2, p.YearOfStudy)

	// No endpoint configured: the submission is dropped quietly.
	msg := cmd()
	require.IsType(t, SubmissionMsg{}, msg)
	assert.ErrorIs(t, msg.(SubmissionMsg).Error, forms.ErrNoEndpoint)

	next, _ := m.Update(msg)
	m = next.(model)
	assert.Equal(t, MenuView, m.currentView)
	assert.Empty(t, m.notice)
	assert.Contains(t, m.View(), "Asha")
}

func TestProfileValidation(t *testing.T) {
	m, s := newTestModel(t)

	m = press(t, m, "shift+tab", "enter")

	assert.Equal(t, ProfileView, m.currentView)
	assert.True(t, m.noticeErr)
	assert.Contains(t, m.notice, "please enter your name (up to 80 characters)")
	assert.False(t, s.HasProfile())
}

func TestEndSemRequiredMark(t *testing.T) {
	m, _ := signedInModel(t)

	m = press(t, m, "1")
	require.Equal(t, EndSemView, m.currentView)

	m = press(t, m, "Maths", "tab", "tab", "60", "tab", "55", "tab", "40", "tab", "45", "tab", "enter")
	require.Equal(t, flow.InternalsComputed, m.endSem.State())
	assert.InDelta(t, 32, m.endSem.InternalMark(), 1e-9)
	assert.Equal(t, grading.TargetPass, m.endSem.Target())

	// Pass, B, B+, A
	m = press(t, m, "down", "down", "down", "enter")
	require.Equal(t, flow.Done, m.endSem.State())

	r, ok := m.endSem.Result()
	require.True(t, ok)
	assert.Equal(t, grading.TargetA, r.Target)
	assert.Equal(t, 65.0, r.RequiredMark)
	assert.Contains(t, m.View(), "you need to score at least 65")

	// Picking another grade hides the result until it is recalculated.
	m = press(t, m, "up")
	_, ok = m.endSem.Result()
	assert.False(t, ok)

	m = press(t, m, "n")
	assert.Equal(t, flow.CollectingInternals, m.endSem.State())
	assert.Empty(t, m.endSemForm.value(keySubject))
}

func TestEndSemUnreachableGrade(t *testing.T) {
	m, _ := signedInModel(t)

	m = press(t, m, "1", "Maths", "tab", "tab", "0", "tab", "0", "tab", "0", "tab", "0", "tab", "enter")
	require.Equal(t, flow.InternalsComputed, m.endSem.State())

	m = press(t, m, "down", "down", "down", "down", "down", "enter")
	assert.Equal(t, flow.InternalsComputed, m.endSem.State())
	assert.True(t, m.noticeErr)
	assert.Contains(t, m.notice, grading.ErrUnreachableGrade.Error())
}

func TestEndSemMissingSubjectFocusesField(t *testing.T) {
	m, _ := signedInModel(t)

	m = press(t, m, "1", "shift+tab", "enter")

	assert.Equal(t, flow.CollectingInternals, m.endSem.State())
	assert.Contains(t, m.notice, "please enter Subject name")
	assert.Equal(t, keySubject, m.endSemForm.focused().key)
}

func TestEndSemCourseTypeSwitchKeepsSubject(t *testing.T) {
	m, _ := signedInModel(t)

	m = press(t, m, "1", "Cloud", "tab", "right", "right")

	assert.Equal(t, grading.NPTEL, m.endSem.CourseType())
	assert.Equal(t, "Cloud", m.endSemForm.value(keySubject))
	assert.Equal(t, keyCourseType, m.endSemForm.focused().key)
	assert.NotNil(t, m.endSemForm.field(string(grading.NPTELField(8))))
	assert.Nil(t, m.endSemForm.field(string(grading.FieldCAT1)))
}

func TestGPACalculation(t *testing.T) {
	m, s := signedInModel(t)

	m = press(t, m, "2")
	require.Equal(t, GPAView, m.currentView)

	m = press(t, m,
		"Maths", "tab", "tab", "4",
		"tab", "60", "tab", "55", "tab", "40", "tab", "45",
		"tab", "80",
		"tab", "tab", "tab", "enter",
	)
	require.Equal(t, ResultView, m.currentView, m.notice)

	r, ok := m.gpa.Result()
	require.True(t, ok)
	require.Len(t, r.Subjects, 1)
	assert.Equal(t, grading.GradeA, r.Subjects[0].Grade)
	assert.InDelta(t, 8, r.GPA, 1e-9)
	assert.Contains(t, m.View(), "Maths")

	entries := s.History.List()
	require.Len(t, entries, 1)
	assert.Equal(t, session.KindGPA, entries[0].Kind)

	m = press(t, m, "esc")
	assert.Equal(t, GPAView, m.currentView)
}

func TestGPAErrorJumpsToFirstBadRow(t *testing.T) {
	m, s := signedInModel(t)

	// Add a second subject, then calculate with both blank.
	m = press(t, m, "2", "shift+tab", "shift+tab", "shift+tab", "enter")
	require.Equal(t, 2, m.gpa.Len())
	require.Equal(t, 1, m.gpaSubject)

	m = press(t, m, "shift+tab", "enter")

	assert.Equal(t, GPAView, m.currentView)
	assert.Equal(t, "Subject 1: please enter Subject name", m.notice[len("❌ "):])
	assert.Equal(t, 0, m.gpaSubject)
	assert.Equal(t, keySubject, m.gpaForm.focused().key)
	assert.Empty(t, s.History.List())
}

func TestGPASwitchSubjects(t *testing.T) {
	m, _ := signedInModel(t)

	m = press(t, m, "2", "Maths", "shift+tab", "shift+tab", "shift+tab", "enter", "Physics")
	require.Equal(t, 1, m.gpaSubject)

	m = press(t, m, "pgup")
	assert.Equal(t, 0, m.gpaSubject)
	assert.Equal(t, "Maths", m.gpaForm.value(keySubject))

	m = press(t, m, "pgdown")
	assert.Equal(t, "Physics", m.gpaForm.value(keySubject))

	m = press(t, m, "shift+tab", "shift+tab", "enter")
	assert.Equal(t, 1, m.gpa.Len())
	assert.Equal(t, "Maths", m.gpaForm.value(keySubject))
}

func TestGPARemoveLastSubject(t *testing.T) {
	m, _ := signedInModel(t)

	m = press(t, m, "2", "shift+tab", "shift+tab", "enter")

	assert.Equal(t, 1, m.gpa.Len())
	assert.True(t, m.noticeErr)
	assert.Contains(t, m.notice, "at least one subject is required")
}

func TestCGPACalculation(t *testing.T) {
	m, s := signedInModel(t)

	m = press(t, m, "3", "8.5", "tab", "20", "tab", "enter")
	require.Equal(t, 2, m.cgpa.Len())
	assert.Equal(t, cgpaKey(1, grading.FieldGPA), m.cgpaForm.focused().key)

	m = press(t, m, "9", "tab", "22", "tab", "tab", "enter")
	require.Equal(t, ResultView, m.currentView, m.notice)

	r, ok := m.cgpa.Result()
	require.True(t, ok)
	assert.Equal(t, 8.76, grading.Round2(r.CGPA))
	assert.Contains(t, m.View(), "8.76")

	entries := session.Filter(s.History.List(), session.KindCGPA)
	assert.Len(t, entries, 1)
}

type unwritableStore struct{ session.MemoryStore }

func (*unwritableStore) Add(session.Entry) error { return errors.New("disk full") }

func TestCGPAShowsResultWhenHistoryFails(t *testing.T) {
	s := session.New(&unwritableStore{}, &session.MemoryProfileStore{}, nil)
	require.NoError(t, s.SignIn(session.Profile{Name: "Asha", Department: "CSE", YearOfStudy: 2}))
	m := NewModel(s, forms.NewClient("", "", time.Second, nil), t.TempDir())

	m = press(t, m, "3", "8.5", "tab", "20", "tab", "tab", "enter")
	require.Equal(t, ResultView, m.currentView, m.notice)

	r, ok := m.cgpa.Result()
	require.True(t, ok)
	assert.Equal(t, 8.5, r.CGPA)
	assert.True(t, m.noticeErr)
	assert.Contains(t, m.notice, "not saved to history")
	assert.Contains(t, m.View(), "not saved to history")
	assert.Empty(t, s.History.List())
}

func TestCGPARemoveSemester(t *testing.T) {
	m, _ := signedInModel(t)

	m = press(t, m, "3", "tab", "tab", "enter")
	require.Equal(t, 2, m.cgpa.Len())

	m = press(t, m, "ctrl+d")
	assert.Equal(t, 1, m.cgpa.Len())

	m = press(t, m, "up", "ctrl+d")
	assert.Equal(t, 1, m.cgpa.Len())
	assert.Contains(t, m.notice, "at least one")
}

func TestCGPAOutOfRangeFocusesField(t *testing.T) {
	m, _ := signedInModel(t)

	m = press(t, m, "3", "11", "tab", "20", "tab", "tab", "enter")

	assert.Equal(t, CGPAView, m.currentView)
	assert.Contains(t, m.notice, "Semester 1: GPA must be between 0 and 10 (got 11)")
	assert.Equal(t, cgpaKey(0, grading.FieldGPA), m.cgpaForm.focused().key)
}

func TestExportResult(t *testing.T) {
	m, _ := signedInModel(t)

	m = press(t, m, "3", "8.5", "tab", "20", "tab", "tab", "enter")
	require.Equal(t, ResultView, m.currentView, m.notice)

	m, cmd := pressCmd(t, m, "x")
	require.NotNil(t, cmd)

	msg := cmd().(ExportMsg)
	require.NoError(t, msg.Error)
	_, err := os.Stat(msg.Path)
	require.NoError(t, err)

	next, _ := m.Update(msg)
	m = next.(model)
	assert.Contains(t, m.notice, "Saved")
}

func TestHistoryFilterAndClear(t *testing.T) {
	m, s := signedInModel(t)
	require.NoError(t, s.Record(session.NewGPAEntry(grading.GPAResult{GPA: 8})))
	require.NoError(t, s.Record(session.NewCGPAEntry(grading.CGPAResult{CGPA: 8.5})))

	m = press(t, m, "4")
	require.Equal(t, HistoryView, m.currentView)
	assert.Equal(t, 2, m.historyLen)

	m = press(t, m, "right")
	assert.Equal(t, session.KindGPA, historyKinds[m.historyKind])
	assert.Equal(t, 1, m.historyLen)

	m = press(t, m, "c")
	assert.Equal(t, 0, m.historyLen)
	assert.Empty(t, s.History.List())
	assert.Contains(t, m.View(), "No calculations yet.")
}

func TestQuerySubmission(t *testing.T) {
	m, _ := signedInModel(t)

	m = press(t, m, "5")
	require.Equal(t, QueryView, m.currentView)
	assert.Equal(t, "Asha", m.queryForm.value("name"))

	m = press(t, m, "tab", "nope", "tab", "Hi", "tab", "enter")
	assert.Equal(t, QueryView, m.currentView)
	assert.Contains(t, m.notice, "please enter a valid email address")

	m = press(t, m, "shift+tab", "shift+tab")
	for i := 0; i < len("nope"); i++ {
		m = press(t, m, "backspace")
	}
	m = press(t, m, "asha@example.com", "tab", "tab", "enter")
	require.Equal(t, LoadingView, m.currentView)

	next, _ := m.Update(SubmissionMsg{Kind: "query"})
	m = next.(model)
	assert.Equal(t, QueryView, m.currentView)
	assert.False(t, m.noticeErr)
	assert.Empty(t, m.queryForm.value("message"))
}

func TestLogout(t *testing.T) {
	m, s := signedInModel(t)
	require.NoError(t, s.Record(session.NewGPAEntry(grading.GPAResult{GPA: 8})))

	m = press(t, m, "l")

	assert.Equal(t, ProfileView, m.currentView)
	assert.False(t, s.HasProfile())
	assert.Empty(t, s.History.List())
}

func TestQuitKeys(t *testing.T) {
	m, _ := signedInModel(t)

	_, cmd := pressCmd(t, m, "q")
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	m = press(t, m, "2")
	_, cmd = pressCmd(t, m, "ctrl+c")
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}
