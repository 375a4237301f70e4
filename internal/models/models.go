package models

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/lcleigh/page-hoppers-frontend/internal/shared"
)

// Role identifies which credential a request acts under.
type Role string

const (
	RoleParent Role = "parent"
	RoleChild  Role = "child"
)

// Status is the state of a reading entry.
type Status string

const (
	StatusStarted   Status = "started"
	StatusCompleted Status = "completed"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	return s == StatusStarted || s == StatusCompleted
}

// Verb renders the status in a confirmation sentence.
func (s Status) Verb() string {
	if s == StatusStarted {
		return "started reading"
	}
	return "completed reading"
}

// ParseStatus maps user input onto a [Status].
func ParseStatus(s string) (Status, error) {
	status := Status(strings.ToLower(strings.TrimSpace(s)))
	if !status.Valid() {
		return "", &ValidationError{Field: "status", Message: "Status must be started or completed"}
	}
	return status, nil
}

// ParentAccount is the registration payload. The password is never validated beyond length locally.
type ParentAccount struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ChildProfile is a child as returned by GET /api/children.
type ChildProfile struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name,omitempty"`
	Age      int    `json:"age,omitempty"`
	Avatar   string `json:"avatar,omitempty"`
}

// UnmarshalJSON accepts both "id" and "ID", since the backend serialises embedded ORM ids with the latter.
func (c *ChildProfile) UnmarshalJSON(data []byte) error {
	var raw struct {
		LowerID  *uint  `json:"id"`
		UpperID  *uint  `json:"ID"`
		Username string `json:"username"`
		Name     string `json:"name"`
		Age      int    `json:"age"`
		Avatar   string `json:"avatar"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*c = ChildProfile{Username: raw.Username, Name: raw.Name, Age: raw.Age, Avatar: raw.Avatar}
	switch {
	case raw.LowerID != nil:
		c.ID = *raw.LowerID
	case raw.UpperID != nil:
		c.ID = *raw.UpperID
	}
	return nil
}

// DisplayName returns the name, falling back to the username.
func (c ChildProfile) DisplayName() string {
	if name := strings.TrimSpace(c.Name); name != "" {
		return name
	}
	return c.Username
}

// NewChild is the payload for POST /api/children.
type NewChild struct {
	Username string `json:"username,omitempty"`
	Name     string `json:"name"`
	Age      int    `json:"age"`
	PIN      string `json:"pin"`
}

// BookResult is a single catalog search hit.
type BookResult struct {
	Key     string   `json:"key"`
	Title   string   `json:"title"`
	Authors []string `json:"author_name,omitempty"`
	CoverID int      `json:"cover_i,omitempty"`
}

// AuthorLine joins the authors for display.
func (b BookResult) AuthorLine() string {
	return strings.Join(b.Authors, ", ")
}

// FirstAuthor returns the primary author, or "".
func (b BookResult) FirstAuthor() string {
	if len(b.Authors) == 0 {
		return ""
	}
	return b.Authors[0]
}

// HasCover reports whether the catalog knows a cover image.
func (b BookResult) HasCover() bool {
	return b.CoverID > 0
}

// ReadingLog is a persisted reading entry.
type ReadingLog struct {
	ID             uint      `json:"id"`
	Title          string    `json:"title"`
	Author         string    `json:"author,omitempty"`
	Status         Status    `json:"status"`
	Date           time.Time `json:"date"`
	OpenLibraryKey string    `json:"open_library_key,omitempty"`
	CoverID        int       `json:"cover_id,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// DateString renders the entry date in [shared.DateLayout].
func (l ReadingLog) DateString() string {
	if l.Date.IsZero() {
		return ""
	}
	return shared.FormatDate(l.Date)
}

// BookRef is the compact book shape used inside [ReadingSummary].
type BookRef struct {
	Title   string `json:"title"`
	Author  string `json:"author,omitempty"`
	CoverID int    `json:"cover_id,omitempty"`
}

// ReadingSummary aggregates a child's reading log.
type ReadingSummary struct {
	Name                    string   `json:"name,omitempty"`
	CurrentBook             *BookRef `json:"currentBook"`
	LastCompletedBook       *BookRef `json:"lastCompletedBook"`
	TotalBooksReadThisMonth int      `json:"totalBooksReadThisMonth"`
	TotalBooksReadThisYear  int      `json:"totalBooksReadThisYear"`
	TotalUncompletedBooks   int      `json:"totalUncompletedBooks"`
	TotalCompletedBooks     int      `json:"totalCompletedBooks"`
}

// Summarize computes a [ReadingSummary] from logs relative to now.
//
// The current book is the most recent started entry; the last completed book is the most recent completed entry.
// Entries on the same date are ordered by creation time.
func Summarize(logs []ReadingLog, now time.Time) ReadingSummary {
	var (
		summary                   ReadingSummary
		latestStart, latestFinish *ReadingLog
	)

	for i := range logs {
		l := &logs[i]
		ref := &BookRef{Title: l.Title, Author: l.Author, CoverID: l.CoverID}
		switch l.Status {
		case StatusStarted:
			summary.TotalUncompletedBooks++
			if newerLog(l, latestStart) {
				summary.CurrentBook, latestStart = ref, l
			}
		case StatusCompleted:
			summary.TotalCompletedBooks++
			if l.Date.Year() == now.Year() {
				summary.TotalBooksReadThisYear++
				if l.Date.Month() == now.Month() {
					summary.TotalBooksReadThisMonth++
				}
			}
			if newerLog(l, latestFinish) {
				summary.LastCompletedBook, latestFinish = ref, l
			}
		}
	}
	return summary
}

// newerLog reports whether l sorts before other in date then creation order, newest first.
// Exact ties keep other.
func newerLog(l, other *ReadingLog) bool {
	if other == nil {
		return true
	}
	if !l.Date.Equal(other.Date) {
		return l.Date.After(other.Date)
	}
	return l.CreatedAt.After(other.CreatedAt)
}

// Empty reports whether the summary has no books in it. The reader's name is ignored.
func (s ReadingSummary) Empty() bool {
	s.Name = ""
	return s == ReadingSummary{}
}

// ReadingLogInput is the payload for POST /api/reading-logs.
type ReadingLogInput struct {
	Title          string `json:"title"`
	Author         string `json:"author,omitempty"`
	Status         Status `json:"status"`
	Date           string `json:"date"`
	OpenLibraryKey string `json:"open_library_key,omitempty"`
	CoverID        int    `json:"cover_id,omitempty"`
}

// LogFromBook builds a [ReadingLogInput] from a catalog hit, taking the first author.
func LogFromBook(b BookResult, status Status, date string) ReadingLogInput {
	return ReadingLogInput{
		Title:          b.Title,
		Author:         b.FirstAuthor(),
		Status:         status,
		Date:           date,
		OpenLibraryKey: b.Key,
		CoverID:        b.CoverID,
	}
}

// Validate checks the payload locally.
func (in ReadingLogInput) Validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return &ValidationError{Field: "title", Message: "Title is required"}
	}
	if !in.Status.Valid() {
		return &ValidationError{Field: "status", Message: "Status must be started or completed"}
	}
	if _, err := shared.ParseDate(in.Date); err != nil {
		return &ValidationError{Field: "date", Message: "Date must be YYYY-MM-DD"}
	}
	return nil
}

// RegisterForm is the parent registration form.
type RegisterForm struct {
	Name            string
	Email           string
	Password        string
	ConfirmPassword string
}

// Validate applies the local registration rules, in the order the form reports them.
func (f RegisterForm) Validate() error {
	if f.Password != f.ConfirmPassword {
		return &ValidationError{Field: "confirmPassword", Message: "Passwords do not match"}
	}
	return ValidatePassword(f.Password)
}

// Account converts the form into the registration payload.
func (f RegisterForm) Account() ParentAccount {
	return ParentAccount{Name: strings.TrimSpace(f.Name), Email: strings.TrimSpace(f.Email), Password: f.Password}
}

// ChildForm is the add-child form on the parent dashboard.
type ChildForm struct {
	Username string
	Name     string
	Age      int
	PIN      string
}

// Validate checks the add-child rules.
func (f ChildForm) Validate() error {
	if strings.TrimSpace(f.Name) == "" {
		return &ValidationError{Field: "name", Message: "Name is required"}
	}
	if f.Age < 1 {
		return &ValidationError{Field: "age", Message: "Age must be at least 1"}
	}
	return ValidatePIN(f.PIN)
}

// Child converts the form into the creation payload.
func (f ChildForm) Child() NewChild {
	return NewChild{
		Username: strings.TrimSpace(f.Username),
		Name:     strings.TrimSpace(f.Name),
		Age:      f.Age,
		PIN:      f.PIN,
	}
}

// LogBook is one reader's reading log, the unit of export.
type LogBook struct {
	Reader   string       `json:"reader"`
	ChildID  uint         `json:"child_id,omitempty"`
	Logs     []ReadingLog `json:"logs"`
	Exported time.Time    `json:"exported_at"`
}

// Summary computes the book's [ReadingSummary] as of its export time.
func (b LogBook) Summary() ReadingSummary {
	s := Summarize(b.Logs, b.Exported)
	s.Name = b.Reader
	return s
}
