package tasks

import (
	"fmt"
	"strings"

	"github.com/lcleigh/page-hoppers-frontend/internal/models"
)

var (
	// ErrModalBusy is returned when opening a modal while another is open or submitting.
	ErrModalBusy = fmt.Errorf("another modal is already open")
	// ErrModalClosed is returned when submitting a modal that is not open.
	ErrModalClosed = fmt.Errorf("modal is not open")
)

// ModalKind is the form a [Modal] shows.
type ModalKind int

const (
	NoModal ModalKind = iota
	CatalogBook
	ManualBook
)

func (k ModalKind) String() string {
	switch k {
	case CatalogBook:
		return "catalog"
	case ManualBook:
		return "manual"
	default:
		return ""
	}
}

// ParseModalKind maps a query value onto a [ModalKind].
func ParseModalKind(s string) ModalKind {
	switch s {
	case "catalog":
		return CatalogBook
	case "manual":
		return ManualBook
	default:
		return NoModal
	}
}

// ModalState is a [Modal]'s position in its lifecycle.
type ModalState int

const (
	Closed ModalState = iota
	Open
	Submitting
	Failed
)

func (s ModalState) String() string {
	switch s {
	case Open:
		return "open"
	case Submitting:
		return "submitting"
	case Failed:
		return "failed"
	default:
		return "closed"
	}
}

// LogForm holds the fields of either log modal.
type LogForm struct {
	Book   models.BookResult // catalog modal only
	Title  string            // manual modal only
	Author string            // manual modal only
	Status models.Status
	Date   string
}

// Modal is the single log-a-book dialog.
//
// Closed -> Open -> Submitting -> Closed on success, or Failed (still open, with Err set) on error.
type Modal struct {
	Kind    ModalKind
	State   ModalState
	Form    LogForm
	Err     string
	Success string
}

// IsOpen reports whether the form is visible.
func (m *Modal) IsOpen() bool {
	return m.State == Open || m.State == Failed || m.State == Submitting
}

// OpenCatalog opens the modal for a catalog book with status completed and date today.
func (m *Modal) OpenCatalog(book models.BookResult, today string) error {
	return m.open(CatalogBook, LogForm{Book: book}, today)
}

// OpenManual opens the modal for a typed title with status completed and date today.
func (m *Modal) OpenManual(today string) error {
	return m.open(ManualBook, LogForm{}, today)
}

func (m *Modal) open(kind ModalKind, form LogForm, today string) error {
	if m.IsOpen() {
		return ErrModalBusy
	}

	form.Status = models.StatusCompleted
	form.Date = today
	*m = Modal{Kind: kind, State: Open, Form: form}
	return nil
}

// Close dismisses the modal. A modal that is submitting cannot be closed.
func (m *Modal) Close() bool {
	if m.State == Submitting {
		return false
	}
	m.Kind, m.State, m.Err = NoModal, Closed, ""
	m.Form = LogForm{}
	return true
}

// Title returns the book title the form would submit.
func (m *Modal) Title() string {
	if m.Kind == CatalogBook {
		return strings.TrimSpace(m.Form.Book.Title)
	}
	return strings.TrimSpace(m.Form.Title)
}

// Input builds the creation payload from the form.
func (m *Modal) Input() models.ReadingLogInput {
	if m.Kind == CatalogBook {
		in := models.LogFromBook(m.Form.Book, m.Form.Status, m.Form.Date)
		in.Title = m.Title()
		return in
	}
	return models.ReadingLogInput{
		Title:  m.Title(),
		Author: strings.TrimSpace(m.Form.Author),
		Status: m.Form.Status,
		Date:   m.Form.Date,
	}
}

// Begin validates the form and moves to Submitting. A validation failure moves to Failed instead.
func (m *Modal) Begin() (models.ReadingLogInput, error) {
	if m.State != Open && m.State != Failed {
		return models.ReadingLogInput{}, ErrModalClosed
	}

	in := m.Input()
	if err := in.Validate(); err != nil {
		m.Fail(Message(err))
		return models.ReadingLogInput{}, err
	}

	m.State, m.Err, m.Success = Submitting, "", ""
	return in, nil
}

// Succeed closes the modal and records the confirmation.
func (m *Modal) Succeed(msg string) {
	*m = Modal{Success: msg}
}

// Fail keeps the modal open with msg shown.
func (m *Modal) Fail(msg string) {
	m.State, m.Err = Failed, msg
}
