// package services defines clients for the HTTP APIs the front-end consumes
//
// Reading-log backend, Open Library
package services

import (
	"context"

	"github.com/lcleigh/page-hoppers-frontend/internal/models"
)

// API is the reading-log backend. Authenticated calls take the bearer token for the relevant role.
type API interface {
	// RegisterParent creates a parent account and returns the server's confirmation message.
	RegisterParent(ctx context.Context, account models.ParentAccount) (string, error)

	// LoginParent exchanges email and password for a parent token.
	LoginParent(ctx context.Context, email, password string) (string, error)

	// LoginChild exchanges a child id and PIN for a child token.
	LoginChild(ctx context.Context, childID uint, pin string) (string, error)

	// ListChildren returns the children of the signed-in parent.
	ListChildren(ctx context.Context, parentToken string) ([]models.ChildProfile, error)

	// CreateChild adds a child to the signed-in parent.
	CreateChild(ctx context.Context, parentToken string, child models.NewChild) (*models.ChildProfile, error)

	// ListChildReadingLogs returns one child's log as seen by their parent.
	ListChildReadingLogs(ctx context.Context, parentToken string, childID uint) ([]models.ReadingLog, error)

	// ListReadingLogs returns the signed-in child's log.
	ListReadingLogs(ctx context.Context, childToken string) ([]models.ReadingLog, error)

	// CreateReadingLog records a reading entry for the signed-in child.
	CreateReadingLog(ctx context.Context, childToken string, in models.ReadingLogInput) (*models.ReadingLog, error)

	// GetReadingSummary returns the signed-in child's reading summary.
	GetReadingSummary(ctx context.Context, childToken string) (*models.ReadingSummary, error)
}

// CoverSize selects an Open Library cover variant.
type CoverSize string

const (
	CoverSmall  CoverSize = "S"
	CoverMedium CoverSize = "M"
	CoverLarge  CoverSize = "L"
)

// ParseCoverSize maps a case-insensitive letter onto a [CoverSize], defaulting to small.
func ParseCoverSize(s string) CoverSize {
	switch s {
	case "M", "m":
		return CoverMedium
	case "L", "l":
		return CoverLarge
	default:
		return CoverSmall
	}
}

// Catalog is the public book catalog.
type Catalog interface {
	// SearchBooks returns at most [MaxSearchResults] matches for query.
	SearchBooks(ctx context.Context, query string) ([]models.BookResult, error)

	// CoverURL returns the image URL for a cover id.
	CoverURL(coverID int, size CoverSize) string
}
