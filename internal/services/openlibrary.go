// Open Library catalog client
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"

	"github.com/lcleigh/page-hoppers-frontend/internal/models"
	"github.com/lcleigh/page-hoppers-frontend/internal/shared"
)

const (
	// MaxSearchResults caps how many catalog hits are returned.
	MaxSearchResults = 10

	defaultSearchURL = "https://openlibrary.org/search.json"
	defaultCoversURL = "https://covers.openlibrary.org"
)

// OpenLibraryDoc is one entry of the search.json docs array.
type OpenLibraryDoc struct {
	Key        string   `json:"key"`
	Title      string   `json:"title"`
	AuthorName []string `json:"author_name"`
	CoverI     int      `json:"cover_i"`
}

// OpenLibrarySearch is the search.json response body.
type OpenLibrarySearch struct {
	NumFound int              `json:"numFound"`
	Docs     []OpenLibraryDoc `json:"docs"`
}

// OpenLibrary implements [Catalog]. Requests are unauthenticated and paced by a shared limiter.
type OpenLibrary struct {
	searchURL  string
	coversURL  string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *log.Logger
}

// OpenLibraryOpts configures [NewOpenLibrary]. Zero values fall back to the public endpoints and no pacing.
type OpenLibraryOpts struct {
	SearchURL  string
	CoversURL  string
	RateLimit  float64 // requests per second; <= 0 disables pacing
	HTTPClient *http.Client
	Logger     *log.Logger
}

// NewOpenLibrary creates a catalog client.
func NewOpenLibrary(opts OpenLibraryOpts) *OpenLibrary {
	if opts.SearchURL == "" {
		opts.SearchURL = defaultSearchURL
	}
	if opts.CoversURL == "" {
		opts.CoversURL = defaultCoversURL
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{}
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(io.Discard)
	}

	limit := rate.Inf
	if opts.RateLimit > 0 {
		limit = rate.Limit(opts.RateLimit)
	}

	return &OpenLibrary{
		searchURL:  opts.SearchURL,
		coversURL:  strings.TrimRight(opts.CoversURL, "/"),
		httpClient: opts.HTTPClient,
		limiter:    rate.NewLimiter(limit, 1),
		logger:     opts.Logger,
	}
}

func (o *OpenLibrary) get(ctx context.Context, rawURL string) (*http.Response, error) {
	if err := o.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrCatalogUnavailable, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrCatalogUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		resp.Body.Close()
		return nil, fmt.Errorf("%w: status %d", shared.ErrCatalogUnavailable, resp.StatusCode)
	}
	return resp, nil
}

// SearchBooks queries the catalog. A blank query is rejected without a request; no matches is an empty slice.
func (o *OpenLibrary) SearchBooks(ctx context.Context, query string) ([]models.BookResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, &models.ValidationError{Field: "query", Message: "Enter a book title or author"}
	}

	resp, err := o.get(ctx, o.searchURL+"?"+url.Values{"q": {query}}.Encode())
	if err != nil {
		o.logger.Warn("catalog search failed", "query", query, "error", err)
		return nil, err
	}
	defer resp.Body.Close()

	var body OpenLibrarySearch
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrCatalogUnavailable, err)
	}

	docs := body.Docs
	if len(docs) > MaxSearchResults {
		docs = docs[:MaxSearchResults]
	}

	results := make([]models.BookResult, 0, len(docs))
	for _, d := range docs {
		results = append(results, models.BookResult{
			Key:     d.Key,
			Title:   d.Title,
			Authors: d.AuthorName,
			CoverID: d.CoverI,
		})
	}

	o.logger.Debug("catalog search", "query", query, "found", body.NumFound, "returned", len(results))
	return results, nil
}

// CoverURL returns the cover image URL, or "" when coverID is unset.
func (o *OpenLibrary) CoverURL(coverID int, size CoverSize) string {
	if coverID <= 0 {
		return ""
	}
	if size == "" {
		size = CoverSmall
	}
	return fmt.Sprintf("%s/b/id/%d-%s.jpg", o.coversURL, coverID, size)
}

// FetchCover downloads a cover image and returns its bytes and content type.
func (o *OpenLibrary) FetchCover(ctx context.Context, coverID int, size CoverSize) ([]byte, string, error) {
	coverURL := o.CoverURL(coverID, size)
	if coverURL == "" {
		return nil, "", &models.ValidationError{Field: "cover", Message: "Cover id must be positive"}
	}

	resp, err := o.get(ctx, coverURL)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", shared.ErrCatalogUnavailable, err)
	}
	return data, resp.Header.Get("Content-Type"), nil
}
