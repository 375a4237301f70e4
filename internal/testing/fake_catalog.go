package testing

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

// CatalogBook is a book served by [FakeCatalog], shaped like a search.json doc.
type CatalogBook struct {
	Key     string   `json:"key"`
	Title   string   `json:"title"`
	Authors []string `json:"author_name,omitempty"`
	CoverID int      `json:"cover_i,omitempty"`
}

// FakeCatalog serves /search.json and /b/id/{cover} over [httptest].
//
// Searches match case-insensitively on title and author.
type FakeCatalog struct {
	Server *httptest.Server
	Books  []CatalogBook

	mu      sync.Mutex
	fail    bool
	queries []string
}

// NewFakeCatalog starts a [FakeCatalog] that is closed when the test ends.
func NewFakeCatalog(t *testing.T, books ...CatalogBook) *FakeCatalog {
	t.Helper()

	f := &FakeCatalog{Books: books}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /search.json", f.search)
	mux.HandleFunc("GET /b/id/{cover}", f.cover)

	f.Server = httptest.NewServer(mux)
	t.Cleanup(f.Server.Close)
	return f
}

// SearchURL returns the search endpoint.
func (f *FakeCatalog) SearchURL() string { return f.Server.URL + "/search.json" }

// CoversURL returns the covers origin.
func (f *FakeCatalog) CoversURL() string { return f.Server.URL }

// SetFail makes every endpoint return 503 while fail is true.
func (f *FakeCatalog) SetFail(fail bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fail = fail
}

// Queries returns every q parameter received.
func (f *FakeCatalog) Queries() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.queries...)
}

func (f *FakeCatalog) search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")

	f.mu.Lock()
	f.queries = append(f.queries, q)
	fail := f.fail
	f.mu.Unlock()

	if fail {
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
		return
	}

	needle := strings.ToLower(q)
	docs := []CatalogBook{}
	for _, b := range f.Books {
		haystack := strings.ToLower(b.Title + " " + strings.Join(b.Authors, " "))
		if strings.Contains(haystack, needle) {
			docs = append(docs, b)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"numFound": len(docs), "docs": docs})
}

func (f *FakeCatalog) cover(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	fail := f.fail
	f.mu.Unlock()

	if fail {
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "image/jpeg")
	w.Write([]byte("jpeg:" + r.PathValue("cover")))
}

// ManyBooks returns n books whose titles all contain "Hopper".
func ManyBooks(n int) []CatalogBook {
	books := make([]CatalogBook, n)
	for i := range books {
		books[i] = CatalogBook{
			Key:     "/works/OL" + strings.Repeat("1", i+1) + "W",
			Title:   "Hopper Tales " + strings.Repeat("I", i+1),
			Authors: []string{"Ann Author"},
			CoverID: i + 1,
		}
	}
	return books
}
