package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/lcleigh/page-hoppers-frontend/internal/models"
)

var (
	_ list.Item = logItem{}
	_ list.Item = bookItem{}
)

// logItem wraps [models.ReadingLog] to implement [list.Item].
type logItem struct {
	log models.ReadingLog
}

func (i logItem) FilterValue() string { return i.log.Title }
func (i logItem) Title() string       { return i.log.Title }
func (i logItem) Description() string {
	desc := fmt.Sprintf("%s on %s", i.log.Status.Verb(), i.log.DateString())
	if i.log.Author != "" {
		desc = fmt.Sprintf("%s • %s", i.log.Author, desc)
	}
	return desc
}

// bookItem wraps [models.BookResult] to implement [list.Item].
type bookItem struct {
	book models.BookResult
}

func (i bookItem) FilterValue() string { return i.book.Title }
func (i bookItem) Title() string       { return i.book.Title }
func (i bookItem) Description() string {
	if a := i.book.AuthorLine(); a != "" {
		return a
	}
	return "Unknown author"
}

func newList(items []list.Item, title string, width, height int) list.Model {
	l := list.New(items, list.NewDefaultDelegate(), width, height)
	l.Title = title
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.DisableQuitKeybindings()
	return l
}

func logItems(logs []models.ReadingLog) []list.Item {
	items := make([]list.Item, len(logs))
	for i, l := range logs {
		items[i] = logItem{log: l}
	}
	return items
}

func bookItems(books []models.BookResult) []list.Item {
	items := make([]list.Item, len(books))
	for i, b := range books {
		items[i] = bookItem{book: b}
	}
	return items
}
