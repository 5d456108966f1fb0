package main

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/feelsunbreeze/gradecalc/internal/export"
	"github.com/feelsunbreeze/gradecalc/internal/flow"
	"github.com/feelsunbreeze/gradecalc/internal/forms"
	"github.com/feelsunbreeze/gradecalc/internal/session"
	"github.com/go-kit/log/level"
)

const (
	WHITE       = lipgloss.Color("#FFFFFF")
	BLUE        = lipgloss.Color("#0043a8")
	GREY        = lipgloss.Color("#626262")
	LAVENDER    = lipgloss.Color("#B8B8FF")
	GREEN       = lipgloss.Color("#50FA7B")
	LIGHT_GREEN = lipgloss.Color("#B9FBC0")
	PINK        = lipgloss.Color("#FFD1DC")
	RED         = lipgloss.Color("#FF5555")
	YELLOW      = lipgloss.Color("#F1FA8C")
	LIGHT_BLUE  = lipgloss.Color("#8BE9FD")
	TURQUOISE   = lipgloss.Color("#98F5E1")
	SILVER      = lipgloss.Color("#A9B2D8")
)

const inputWidth = 36

type ViewType int

const (
	ProfileView ViewType = iota
	MenuView
	LoadingView
	EndSemView
	GPAView
	CGPAView
	ResultView
	HistoryView
	QueryView
)

type SubmissionMsg struct {
	Kind  string
	Error error
}

type ExportMsg struct {
	Path  string
	Error error
}

type LoadingState struct {
	Reason     string
	HelpText   string
	BottomText string
}

type menuItem struct {
	title    string
	subtitle string
	view     ViewType
}

var menuItems = []menuItem{
	{"1 - End Sem Mark Calculator 📊", "Check what you need to score for that grade", EndSemView},
	{"2 - Semester GPA Checker 🎯", "See where you stand this sem", GPAView},
	{"3 - Overall CGPA Tracker 📈", "Your academic journey so far", CGPAView},
	{"4 - History 🗂", "Every GPA and CGPA you have worked out", HistoryView},
	{"5 - Got Questions? Ask Away! 💭", "We got your back, fam", QueryView},
}

type model struct {
	width        int
	height       int
	currentView  ViewType
	session      *session.Session
	forms        *forms.Client
	exportDir    string
	loadingState LoadingState
	spinner      spinner.Model

	notice    string
	noticeErr bool

	selectedMenu int
	profileForm  form
	queryForm    form

	endSem       *flow.EndSem
	endSemForm   form
	targetChoice int

	gpa        *flow.GPA
	gpaForm    form
	gpaSubject int

	cgpa     *flow.CGPA
	cgpaForm form

	resultKind  session.Kind
	resultTable table.Model

	history     table.Model
	historyKind int
	historyLen  int
}

func NewModel(s *session.Session, client *forms.Client, exportDir string) model {
	sp := spinner.New()
	sp.Style = lipgloss.NewStyle().Foreground(BLUE)
	sp.Spinner = spinner.Points

	m := model{
		currentView: MenuView,
		session:     s,
		forms:       client,
		exportDir:   exportDir,
		spinner:     sp,
		profileForm: newProfileForm(),
		queryForm:   newQueryForm(),
	}
	if !s.HasProfile() {
		m.currentView = ProfileView
	}
	return m
}

func (m model) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case spinner.TickMsg:
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case SubmissionMsg:
		m.handleSubmission(msg)

	case ExportMsg:
		if msg.Error != nil {
			m.setNotice(fmt.Sprintf("❌ Export failed: %s", msg.Error), true)
		} else {
			m.setNotice(fmt.Sprintf("✅ Saved %s", msg.Path), false)
		}

	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	}

	return m, nil
}

func (m *model) handleSubmission(msg SubmissionMsg) {
	switch msg.Kind {
	case "profile":
		// Fire-and-forget: the client has already logged any failure.
	case "query":
		if m.currentView == LoadingView {
			m.currentView = QueryView
		}
		if msg.Error != nil {
			m.setNotice(fmt.Sprintf("❌ Could not send your query: %s", msg.Error), true)
			return
		}
		m.queryForm = newQueryForm()
		m.setNotice("✅ Thanks! Your query has been sent.", false)
	}
}

func (m model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	m.notice = ""

	switch m.currentView {
	case ProfileView:
		return m.handleProfileKeys(msg)
	case MenuView:
		return m.handleMenuKeys(msg)
	case LoadingView:
		return m.handleLoadingKeys(msg)
	case EndSemView:
		return m.handleEndSemKeys(msg)
	case GPAView:
		return m.handleGPAKeys(msg)
	case CGPAView:
		return m.handleCGPAKeys(msg)
	case ResultView:
		return m.handleResultKeys(msg)
	case HistoryView:
		return m.handleHistoryKeys(msg)
	case QueryView:
		return m.handleQueryKeys(msg)
	default:
		return m, nil
	}
}

func (m model) handleLoadingKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "esc":
		m.currentView = QueryView
	}
	return m, nil
}

func (m *model) setLoadingState(reason, helpText, bottomText string) {
	m.loadingState = LoadingState{
		Reason:     reason,
		HelpText:   helpText,
		BottomText: bottomText,
	}
}

func (m *model) setNotice(text string, isErr bool) {
	m.notice = text
	m.noticeErr = isErr
}

func (m *model) setError(err error) {
	m.setNotice(fmt.Sprintf("❌ %s", err), true)
}

func (m model) submitProfile(p session.Profile) tea.Cmd {
	client := m.forms
	return func() tea.Msg {
		err := client.SubmitProfile(context.Background(), p)
		return SubmissionMsg{Kind: "profile", Error: err}
	}
}

func (m model) submitQuery(q forms.Query) tea.Cmd {
	client := m.forms
	return func() tea.Msg {
		err := client.SubmitQuery(context.Background(), q)
		return SubmissionMsg{Kind: "query", Error: err}
	}
}

func (m model) exportResult() tea.Cmd {
	kind, dir := m.resultKind, m.exportDir
	gpa, cgpa := m.gpa, m.cgpa
	logger := m.session.Logger
	return func() tea.Msg {
		var path string
		err := func() error {
			switch kind {
			case session.KindGPA:
				r, ok := gpa.Result()
				if !ok {
					return flow.ErrInvalidState
				}
				f, err := export.GPAWorkbook(r)
				if err != nil {
					return err
				}
				defer f.Close()
				path, err = export.Save(f, dir, "gpa")
				return err
			default:
				r, ok := cgpa.Result()
				if !ok {
					return flow.ErrInvalidState
				}
				f, err := export.CGPAWorkbook(r)
				if err != nil {
					return err
				}
				defer f.Close()
				path, err = export.Save(f, dir, "cgpa")
				return err
			}
		}()
		if err != nil {
			level.Error(logger).Log("msg", "export failed", "kind", kind, "err", err)
		} else {
			level.Info(logger).Log("msg", "exported", "kind", kind, "path", path)
		}
		return ExportMsg{Path: path, Error: err}
	}
}

func (m model) View() string {
	switch m.currentView {
	case ProfileView:
		return m.renderProfile()
	case MenuView:
		return m.renderMenu()
	case LoadingView:
		return m.renderLoading()
	case EndSemView:
		return m.renderEndSem()
	case GPAView:
		return m.renderGPA()
	case CGPAView:
		return m.renderCGPA()
	case ResultView:
		return m.renderResult()
	case HistoryView:
		return m.renderHistory()
	case QueryView:
		return m.renderQuery()
	default:
		return "Unknown view"
	}
}

func (m model) renderLoading() string {
	reasonStyle := lipgloss.NewStyle().
		Foreground(WHITE).
		Bold(true).
		MarginBottom(1)

	helpStyle := lipgloss.NewStyle().
		Foreground(GREY).
		MarginTop(1)

	quitStyle := lipgloss.NewStyle().
		Foreground(GREY).
		MarginTop(1)

	content := lipgloss.JoinVertical(lipgloss.Center,
		reasonStyle.Render(m.loadingState.Reason),
		m.spinner.View(),
		helpStyle.Render(m.loadingState.HelpText),
		quitStyle.Render(m.loadingState.BottomText),
	)

	return m.place(content)
}

func (m model) renderNotice() string {
	if m.notice == "" {
		return ""
	}
	color := GREEN
	if m.noticeErr {
		color = RED
	}
	return lipgloss.NewStyle().Foreground(color).MarginTop(1).Render(m.notice)
}

func (m model) renderTitle(title string) string {
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(LIGHT_BLUE).
		MarginBottom(1).
		Render(title)
}

func (m model) renderHelp(text string) string {
	return lipgloss.NewStyle().
		Foreground(GREY).
		MarginTop(1).
		Render(text)
}

func (m model) place(content string) string {
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

func newResultTable(columns []table.Column, rows []table.Row) table.Model {
	tableHeight := min(max(len(rows)+1, 5), 15)

	tbl := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithHeight(tableHeight),
		table.WithFocused(true),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(BLUE).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(WHITE).
		Background(BLUE).
		Bold(true)
	tbl.SetStyles(s)

	return tbl
}
