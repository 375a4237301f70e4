package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/lcleigh/page-hoppers-frontend/internal/models"
	"github.com/lcleigh/page-hoppers-frontend/internal/tasks"
)

type formField int

const (
	fieldTitle formField = iota
	fieldAuthor
	fieldStatus
	fieldDate
)

// logForm edits the fields of a [tasks.Modal].
type logForm struct {
	title  textinput.Model
	author textinput.Model
	date   textinput.Model
	status models.Status
	fields []formField
	focus  int
}

func newTextInput(placeholder, value string, limit int) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = limit
	ti.SetValue(value)
	return ti
}

// newLogForm mirrors the modal's form. A catalog modal only edits status and date.
func newLogForm(m *tasks.Modal) logForm {
	f := logForm{
		title:  newTextInput("Title", m.Form.Title, 200),
		author: newTextInput("Author (optional)", m.Form.Author, 200),
		date:   newTextInput("YYYY-MM-DD", m.Form.Date, 10),
		status: m.Form.Status,
	}

	if m.Kind == tasks.ManualBook {
		f.fields = []formField{fieldTitle, fieldAuthor, fieldStatus, fieldDate}
	} else {
		f.fields = []formField{fieldStatus, fieldDate}
	}
	f.refocus()
	return f
}

func (f *logForm) current() formField {
	return f.fields[f.focus]
}

func (f *logForm) refocus() {
	f.title.Blur()
	f.author.Blur()
	f.date.Blur()

	switch f.current() {
	case fieldTitle:
		f.title.Focus()
	case fieldAuthor:
		f.author.Focus()
	case fieldDate:
		f.date.Focus()
	}
}

func (f *logForm) move(delta int) {
	f.focus = (f.focus + delta + len(f.fields)) % len(f.fields)
	f.refocus()
}

func (f *logForm) toggleStatus() {
	if f.status == models.StatusCompleted {
		f.status = models.StatusStarted
	} else {
		f.status = models.StatusCompleted
	}
}

// apply copies the edited values into m.
func (f logForm) apply(m *tasks.Modal) {
	if m.Kind == tasks.ManualBook {
		m.Form.Title = f.title.Value()
		m.Form.Author = f.author.Value()
	}
	m.Form.Status = f.status
	m.Form.Date = strings.TrimSpace(f.date.Value())
}

func (f logForm) update(msg tea.KeyMsg, keys keyMap) (logForm, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.next):
		f.move(1)
		return f, nil
	case key.Matches(msg, keys.prev):
		f.move(-1)
		return f, nil
	}

	var cmd tea.Cmd
	switch f.current() {
	case fieldTitle:
		f.title, cmd = f.title.Update(msg)
	case fieldAuthor:
		f.author, cmd = f.author.Update(msg)
	case fieldDate:
		f.date, cmd = f.date.Update(msg)
	case fieldStatus:
		if key.Matches(msg, keys.toggle) {
			f.toggleStatus()
		}
	}
	return f, cmd
}

func (f logForm) view(m *tasks.Modal, submitting bool) string {
	var b strings.Builder

	if m.Kind == tasks.CatalogBook {
		b.WriteString(styles.title.Render(fmt.Sprintf("Log %q", m.Form.Book.Title)))
		if a := m.Form.Book.AuthorLine(); a != "" {
			b.WriteString("\nby " + a + "\n")
		}
	} else {
		b.WriteString(styles.title.Render("Add a book"))
		b.WriteString("\nTitle:  " + f.title.View())
		b.WriteString("\nAuthor: " + f.author.View())
	}

	status := string(f.status)
	if f.current() == fieldStatus {
		status = styles.ok.Render("< " + status + " >")
	}
	b.WriteString("\nStatus: " + status)
	b.WriteString("\nDate:   " + f.date.View())

	switch {
	case submitting:
		b.WriteString("\n\n" + styles.warn.Render("Saving..."))
	case m.Err != "":
		b.WriteString("\n\n" + styles.err.Render(m.Err))
	}

	b.WriteString("\n\n" + styles.help.Render("tab next field • space toggle status • enter save • esc cancel"))
	return styles.modal.Render(b.String())
}
