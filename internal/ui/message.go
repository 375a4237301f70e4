package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/lcleigh/page-hoppers-frontend/internal/models"
	"github.com/lcleigh/page-hoppers-frontend/internal/tasks"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgDashboardLoaded MsgKind = iota
	MsgSearchDone
	MsgLogSubmitted
)

type dashboardPayload struct {
	view *tasks.ChildView
	err  error
}

type searchPayload struct {
	seq     int
	query   string
	results []models.BookResult
	err     error
}

type submitPayload struct {
	modal tasks.Modal
	msg   string
	err   error
}

// dashboardLoadedMsg is the constructor for [MsgDashboardLoaded]
func dashboardLoadedMsg(view *tasks.ChildView, err error) Msg {
	return Msg{kind: MsgDashboardLoaded, data: dashboardPayload{view, err}}
}

// searchDoneMsg is the constructor for [MsgSearchDone]
func searchDoneMsg(seq int, query string, results []models.BookResult, err error) Msg {
	return Msg{kind: MsgSearchDone, data: searchPayload{seq, query, results, err}}
}

// logSubmittedMsg is the constructor for [MsgLogSubmitted]
func logSubmittedMsg(modal tasks.Modal, msg string, err error) Msg {
	return Msg{kind: MsgLogSubmitted, data: submitPayload{modal, msg, err}}
}
