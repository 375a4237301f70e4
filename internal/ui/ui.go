package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/lcleigh/page-hoppers-frontend/internal/models"
	"github.com/lcleigh/page-hoppers-frontend/internal/session"
	"github.com/lcleigh/page-hoppers-frontend/internal/shared"
	"github.com/lcleigh/page-hoppers-frontend/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	LogView ViewState = iota
	SearchView
)

// Model represents the TUI application state.
type Model struct {
	ctx        context.Context
	view       ViewState
	engine     *tasks.Engine
	store      *session.Store
	width      int
	height     int
	name       string
	logList    list.Model
	summary    *models.ReadingSummary
	logsErr    string
	loading    bool
	query      textinput.Model
	results    list.Model
	resultsFor string
	searchErr  string
	searching  bool
	searchSeq  int
	inResults  bool
	modal      *tasks.Modal
	form       logForm
	submitting bool
	notice     string
	err        error
	help       help.Model
	keys       keyMap
}

// NewModel creates a new TUI model for the child signed in to store.
func NewModel(ctx context.Context, engine *tasks.Engine, store *session.Store) *Model {
	q := textinput.New()
	q.Placeholder = "Search by title or author"
	q.CharLimit = 120

	return &Model{
		ctx:     ctx,
		view:    LogView,
		engine:  engine,
		store:   store,
		name:    tasks.DefaultChildName,
		logList: newList(nil, "My reading log", 0, 0),
		results: newList(nil, "Results", 0, 0),
		query:   q,
		modal:   &tasks.Modal{},
		help:    help.New(),
		keys:    newKeyMap(),
	}
}

// Init initializes the TUI by loading the child's dashboard.
func (m *Model) Init() tea.Cmd {
	m.loading = true
	return m.loadDashboard()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.logList.SetSize(msg.Width-4, msg.Height-12)
		m.results.SetSize(msg.Width-4, msg.Height-10)
		return m, nil

	case tea.KeyMsg:
		if m.err != nil {
			if key.Matches(msg, m.keys.quit) {
				return m, tea.Quit
			}
			return m, nil
		}
		if m.modal.IsOpen() {
			return m.handleModalKeys(msg)
		}
		switch m.view {
		case LogView:
			return m.handleLogKeys(msg)
		case SearchView:
			return m.handleSearchKeys(msg)
		}

	case Msg:
		return m.handleMsg(msg)
	}

	return m, nil
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgDashboardLoaded:
		p := msg.data.(dashboardPayload)
		m.loading = false
		if p.err != nil {
			m.err = p.err
			return m, nil
		}
		m.name = p.view.Name
		m.summary = p.view.Summary
		m.logsErr = p.view.LogsError
		m.logList.SetItems(logItems(p.view.Logs))
		return m, nil

	case MsgSearchDone:
		p := msg.data.(searchPayload)
		// the child has moved on or searched again
		if p.seq != m.searchSeq || m.view != SearchView {
			return m, nil
		}
		m.searching = false
		m.resultsFor = p.query
		m.searchErr = ""
		if p.err != nil {
			m.searchErr = tasks.Message(p.err)
		}
		m.results.SetItems(bookItems(p.results))
		m.results.ResetSelected()
		if len(p.results) > 0 {
			m.focusResults()
		}
		return m, nil

	case MsgLogSubmitted:
		p := msg.data.(submitPayload)
		m.submitting = false
		*m.modal = p.modal
		if p.err != nil {
			return m, nil
		}
		m.notice = p.msg
		m.view = LogView
		m.loading = true
		return m, m.loadDashboard()
	}
	return m, nil
}

func (m *Model) handleLogKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.search):
		m.notice = ""
		m.view = SearchView
		return m, m.focusQuery()
	case key.Matches(msg, m.keys.add):
		m.notice = ""
		return m, m.openModal(m.modal.OpenManual(m.engine.Today()))
	case key.Matches(msg, m.keys.refresh):
		m.loading = true
		return m, m.loadDashboard()
	}

	var cmd tea.Cmd
	m.logList, cmd = m.logList.Update(msg)
	return m, cmd
}

func (m *Model) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.force):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.view = LogView
		m.searching = false
		m.query.Blur()
		return m, nil
	case key.Matches(msg, m.keys.next):
		if m.inResults {
			return m, m.focusQuery()
		}
		if len(m.results.Items()) > 0 {
			m.focusResults()
		}
		return m, nil
	}

	if !m.inResults {
		if key.Matches(msg, m.keys.enter) {
			return m, m.search(m.query.Value())
		}
		var cmd tea.Cmd
		m.query, cmd = m.query.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.add):
		return m, m.openModal(m.modal.OpenManual(m.engine.Today()))
	case key.Matches(msg, m.keys.enter):
		if item, ok := m.results.SelectedItem().(bookItem); ok {
			return m, m.openModal(m.modal.OpenCatalog(item.book, m.engine.Today()))
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.results, cmd = m.results.Update(msg)
	return m, cmd
}

func (m *Model) handleModalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.force) {
		return m, tea.Quit
	}
	if m.submitting {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.back):
		m.modal.Close()
		return m, nil
	case key.Matches(msg, m.keys.enter):
		m.form.apply(m.modal)
		m.submitting = true
		return m, m.submit(*m.modal)
	}

	var cmd tea.Cmd
	m.form, cmd = m.form.update(msg, m.keys)
	return m, cmd
}

// openModal builds the form for a freshly opened modal. A busy modal is left alone.
func (m *Model) openModal(err error) tea.Cmd {
	if err != nil {
		return nil
	}
	m.form = newLogForm(m.modal)
	return textinput.Blink
}

func (m *Model) focusQuery() tea.Cmd {
	m.inResults = false
	return m.query.Focus()
}

func (m *Model) focusResults() {
	m.inResults = true
	m.query.Blur()
}

func (m *Model) loadDashboard() tea.Cmd {
	return func() tea.Msg {
		view, err := m.engine.ChildDashboard(m.ctx, m.store)
		return dashboardLoadedMsg(view, err)
	}
}

// search starts a query. Results from earlier queries are discarded when they arrive.
func (m *Model) search(query string) tea.Cmd {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}

	m.searchSeq++
	m.searching = true
	seq := m.searchSeq
	return func() tea.Msg {
		results, err := m.engine.SearchBooks(m.ctx, query)
		return searchDoneMsg(seq, query, results, err)
	}
}

// submit runs the modal on a copy so the running command never shares state with View.
func (m *Model) submit(modal tasks.Modal) tea.Cmd {
	return func() tea.Msg {
		msg, err := m.engine.SubmitLog(m.ctx, m.store, &modal)
		return logSubmittedMsg(modal, msg, err)
	}
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil {
		return m.renderError()
	}
	if m.modal.IsOpen() {
		return m.form.view(m.modal, m.submitting)
	}

	switch m.view {
	case LogView:
		return m.renderLogs()
	case SearchView:
		return m.renderSearch()
	default:
		return ""
	}
}

func (m *Model) renderError() string {
	msg := tasks.Message(m.err)
	if errors.Is(m.err, shared.ErrNotAuthenticated) {
		msg = "Not signed in. Run `hoppers auth child-login` first."
	}
	return styles.err.Render(fmt.Sprintf("Error: %s\n\nPress q to quit", msg))
}

func (m *Model) renderSummary() string {
	if m.summary == nil || m.summary.Empty() {
		return styles.help.Render(tasks.MsgNoSummary)
	}

	s := m.summary
	var lines []string
	if s.CurrentBook != nil {
		lines = append(lines, "Currently reading: "+s.CurrentBook.Title)
	}
	if s.LastCompletedBook != nil {
		lines = append(lines, "Last finished: "+s.LastCompletedBook.Title)
	}
	lines = append(lines, fmt.Sprintf("This month: %d • This year: %d • All time: %d • In progress: %d",
		s.TotalBooksReadThisMonth, s.TotalBooksReadThisYear, s.TotalCompletedBooks, s.TotalUncompletedBooks))
	return strings.Join(lines, "\n")
}

func (m *Model) renderLogs() string {
	var b strings.Builder
	b.WriteString(styles.title.Render(fmt.Sprintf("Hi, %s!", m.name)))
	b.WriteString("\n" + m.renderSummary() + "\n\n")

	if m.notice != "" {
		b.WriteString(styles.ok.Render(m.notice) + "\n\n")
	}

	switch {
	case m.loading:
		b.WriteString("Loading...")
	case m.logsErr != "":
		b.WriteString(styles.err.Render(m.logsErr))
	case len(m.logList.Items()) == 0:
		b.WriteString(tasks.MsgNoLogs)
	default:
		b.WriteString(m.logList.View())
	}

	helpKeys := []key.Binding{m.keys.search, m.keys.add, m.keys.refresh, m.keys.quit}
	return b.String() + "\n\n" + m.help.ShortHelpView(helpKeys)
}

func (m *Model) renderSearch() string {
	var b strings.Builder
	b.WriteString(styles.title.Render("Find a book"))
	b.WriteString("\n" + m.query.View() + "\n\n")

	switch {
	case m.searching:
		b.WriteString("Searching...")
	case m.searchErr != "":
		b.WriteString(styles.err.Render(m.searchErr))
	case m.resultsFor != "" && len(m.results.Items()) == 0:
		b.WriteString(tasks.MsgNoResults)
	case len(m.results.Items()) > 0:
		b.WriteString(m.results.View())
	}

	helpKeys := []key.Binding{m.keys.enter, m.keys.next, m.keys.add, m.keys.back}
	return b.String() + "\n\n" + m.help.ShortHelpView(helpKeys)
}
