package testing

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/lcleigh/page-hoppers-frontend/internal/models"
)

type fakeParent struct {
	name     string
	password string
}

type fakeChild struct {
	profile models.ChildProfile
	parent  string
	pin     string
}

// FakeAPI is an in-memory reading-log backend served over [httptest].
//
// Tokens are opaque strings of the form "parent:<email>" and "child:<id>".
type FakeAPI struct {
	Server *httptest.Server

	mu          sync.Mutex
	now         func() time.Time
	failSummary bool
	parents     map[string]fakeParent
	children    []fakeChild
	logs        map[uint][]models.ReadingLog
	nextID      uint
	requests    []string
}

// NewFakeAPI starts a [FakeAPI] that is closed when the test ends.
func NewFakeAPI(t *testing.T) *FakeAPI {
	t.Helper()

	f := &FakeAPI{
		now:     time.Now,
		parents: make(map[string]fakeParent),
		logs:    make(map[uint][]models.ReadingLog),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/parent/register", f.register)
	mux.HandleFunc("POST /api/auth/parent/login", f.parentLogin)
	mux.HandleFunc("POST /api/auth/child/login", f.childLogin)
	mux.HandleFunc("GET /api/children", f.listChildren)
	mux.HandleFunc("POST /api/children", f.createChild)
	mux.HandleFunc("GET /api/children/reading-logs", f.childLogs)
	mux.HandleFunc("GET /api/reading-logs", f.listLogs)
	mux.HandleFunc("POST /api/reading-logs", f.createLog)
	mux.HandleFunc("GET /api/reading-logs/summary", f.summary)

	f.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.requests = append(f.requests, r.Method+" "+r.URL.Path)
		f.mu.Unlock()
		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(f.Server.Close)
	return f
}

// URL returns the fake's base URL.
func (f *FakeAPI) URL() string { return f.Server.URL }

// Requests returns "METHOD /path" for every request received so far.
func (f *FakeAPI) Requests() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.requests...)
}

// SetNow replaces the clock used to stamp created logs and anchor summaries.
func (f *FakeAPI) SetNow(now func() time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = now
}

// stamp returns a creation time that grows with every stored entry.
func (f *FakeAPI) stamp() time.Time {
	return f.now().Add(time.Duration(f.nextID) * time.Second)
}

// SetFailSummary makes the summary endpoint return 500 while fail is true.
func (f *FakeAPI) SetFailSummary(fail bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failSummary = fail
}

// AddParent seeds a parent account and returns its token.
func (f *FakeAPI) AddParent(name, email, password string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.parents[email] = fakeParent{name: name, password: password}
	return ParentToken(email)
}

// AddChild seeds a child for parentEmail and returns its profile.
func (f *FakeAPI) AddChild(parentEmail, name string, age int, pin string) models.ChildProfile {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.addChild(parentEmail, models.NewChild{Name: name, Age: age, PIN: pin})
}

// AddLog seeds a reading entry for childID.
func (f *FakeAPI) AddLog(childID uint, l models.ReadingLog) models.ReadingLog {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	l.ID = f.nextID
	if l.CreatedAt.IsZero() {
		l.CreatedAt = f.stamp()
	}
	f.logs[childID] = append(f.logs[childID], l)
	return l
}

// Logs returns the stored entries for childID.
func (f *FakeAPI) Logs(childID uint) []models.ReadingLog {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.ReadingLog(nil), f.logs[childID]...)
}

// ParentToken returns the token the fake issues for email.
func ParentToken(email string) string { return "parent:" + email }

// ChildToken returns the token the fake issues for a child id.
func ChildToken(id uint) string { return "child:" + strconv.FormatUint(uint64(id), 10) }

func (f *FakeAPI) addChild(parentEmail string, in models.NewChild) models.ChildProfile {
	f.nextID++
	username := in.Username
	if username == "" {
		username = strings.ToLower(strings.ReplaceAll(in.Name, " ", ""))
	}
	profile := models.ChildProfile{ID: f.nextID, Username: username, Name: in.Name, Age: in.Age}
	f.children = append(f.children, fakeChild{profile: profile, parent: parentEmail, pin: in.PIN})
	return profile
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func bearer(r *http.Request, prefix string) (string, bool) {
	token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok {
		return "", false
	}
	return strings.CutPrefix(token, prefix+":")
}

func (f *FakeAPI) parentFrom(r *http.Request) (string, bool) {
	email, ok := bearer(r, "parent")
	if !ok {
		return "", false
	}
	_, known := f.parents[email]
	return email, known
}

func (f *FakeAPI) childFrom(r *http.Request) (uint, bool) {
	raw, ok := bearer(r, "child")
	if !ok {
		return 0, false
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	_, known := f.findChild(uint(id))
	return uint(id), known
}

func (f *FakeAPI) findChild(id uint) (fakeChild, bool) {
	for _, c := range f.children {
		if c.profile.ID == id {
			return c, true
		}
	}
	return fakeChild{}, false
}

func (f *FakeAPI) register(w http.ResponseWriter, r *http.Request) {
	var in models.ParentAccount
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.Email == "" {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.parents[in.Email]; exists {
		writeError(w, http.StatusConflict, "email already registered")
		return
	}
	f.parents[in.Email] = fakeParent{name: in.Name, password: in.Password}
	writeJSON(w, http.StatusCreated, map[string]string{"message": "Parent registered successfully"})
}

func (f *FakeAPI) parentLogin(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.parents[in.Email]
	if !ok || p.password != in.Password {
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": ParentToken(in.Email)})
}

func (f *FakeAPI) childLogin(w http.ResponseWriter, r *http.Request) {
	var in struct {
		ChildID uint   `json:"childId"`
		PIN     string `json:"pin"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.findChild(in.ChildID)
	if !ok || c.pin != in.PIN {
		writeError(w, http.StatusUnauthorized, "Invalid PIN")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": ChildToken(in.ChildID)})
}

func (f *FakeAPI) listChildren(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	email, ok := f.parentFrom(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	// Embedded ORM models serialise their primary key as "ID".
	out := []map[string]any{}
	for _, c := range f.children {
		if c.parent != email {
			continue
		}
		out = append(out, map[string]any{
			"ID":       c.profile.ID,
			"username": c.profile.Username,
			"name":     c.profile.Name,
			"age":      c.profile.Age,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (f *FakeAPI) createChild(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	email, ok := f.parentFrom(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var in models.NewChild
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.Name == "" || len(in.PIN) != 4 {
		writeError(w, http.StatusBadRequest, "invalid child")
		return
	}

	profile := f.addChild(email, in)
	writeJSON(w, http.StatusCreated, map[string]any{"id": profile.ID, "username": profile.Username})
}

func (f *FakeAPI) childLogs(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	email, ok := f.parentFrom(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := strconv.ParseUint(r.URL.Query().Get("child_id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "child_id is required")
		return
	}
	c, found := f.findChild(uint(id))
	if !found || c.parent != email {
		writeError(w, http.StatusNotFound, "child not found")
		return
	}
	writeJSON(w, http.StatusOK, f.logs[uint(id)])
}

func (f *FakeAPI) listLogs(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	id, ok := f.childFrom(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	writeJSON(w, http.StatusOK, f.logs[id])
}

func (f *FakeAPI) createLog(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	id, ok := f.childFrom(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var in models.ReadingLogInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.Title == "" || !in.Status.Valid() {
		writeError(w, http.StatusBadRequest, "invalid reading log")
		return
	}
	date, err := time.Parse("2006-01-02", in.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid date %q", in.Date))
		return
	}

	f.nextID++
	l := models.ReadingLog{
		ID:             f.nextID,
		Title:          in.Title,
		Author:         in.Author,
		Status:         in.Status,
		Date:           date,
		OpenLibraryKey: in.OpenLibraryKey,
		CoverID:        in.CoverID,
		CreatedAt:      f.stamp(),
	}
	f.logs[id] = append(f.logs[id], l)
	writeJSON(w, http.StatusCreated, l)
}

func (f *FakeAPI) summary(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	id, ok := f.childFrom(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if f.failSummary {
		writeError(w, http.StatusInternalServerError, "summary unavailable")
		return
	}

	c, _ := f.findChild(id)
	s := models.Summarize(f.logs[id], f.now())
	s.Name = c.profile.DisplayName()
	writeJSON(w, http.StatusOK, s)
}
