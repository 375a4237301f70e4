// package formatter provides functions to export reading logs to various formats (CSV, Markdown, plain text, JSON)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/lcleigh/page-hoppers-frontend/internal/models"
	"github.com/lcleigh/page-hoppers-frontend/internal/shared"
)

// Format is an export file format.
type Format string

const (
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "markdown"
	FormatText     Format = "txt"
	FormatJSON     Format = "json"
)

// ParseFormat maps user input onto a [Format]. "md" and "text" are accepted as aliases.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "csv":
		return FormatCSV, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "txt", "text":
		return FormatText, nil
	case "json", "":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: unknown format %q (csv, markdown, txt, json)", shared.ErrInvalidArgument, s)
	}
}

// Extension returns the file extension for f, including the dot.
func (f Format) Extension() string {
	switch f {
	case FormatCSV:
		return ".csv"
	case FormatMarkdown:
		return ".md"
	case FormatText:
		return ".txt"
	default:
		return ".json"
	}
}

// CoverURLFunc resolves a cover id to an image URL. It may return "" for unknown covers.
type CoverURLFunc func(coverID int) string

// ExportToCSV converts a LogBook to CSV format with columns: ID, Title, Author, Status, Date, OpenLibraryKey, CoverID
func ExportToCSV(book *models.LogBook) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Title", "Author", "Status", "Date", "OpenLibraryKey", "CoverID"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, l := range book.Logs {
		cover := ""
		if l.CoverID > 0 {
			cover = strconv.Itoa(l.CoverID)
		}
		record := []string{
			strconv.FormatUint(uint64(l.ID), 10),
			l.Title,
			l.Author,
			string(l.Status),
			l.DateString(),
			l.OpenLibraryKey,
			cover,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts a LogBook to Markdown with a summary section. Covers are linked when coverURL is set.
func ExportToMarkdown(book *models.LogBook, coverURL CoverURLFunc) ([]byte, error) {
	var buf bytes.Buffer
	summary := book.Summary()

	fmt.Fprintf(&buf, "# %s's Reading Log\n\n", book.Reader)

	buf.WriteString("## Summary\n\n")
	if summary.CurrentBook != nil {
		fmt.Fprintf(&buf, "**Currently reading**: %s\n", bookLine(summary.CurrentBook.Title, summary.CurrentBook.Author))
	}
	if summary.LastCompletedBook != nil {
		fmt.Fprintf(&buf, "**Last completed**: %s\n", bookLine(summary.LastCompletedBook.Title, summary.LastCompletedBook.Author))
	}
	fmt.Fprintf(&buf, "**Completed this month**: %d\n", summary.TotalBooksReadThisMonth)
	fmt.Fprintf(&buf, "**Completed this year**: %d\n", summary.TotalBooksReadThisYear)
	fmt.Fprintf(&buf, "**Completed in total**: %d\n", summary.TotalCompletedBooks)
	fmt.Fprintf(&buf, "**Still reading**: %d\n\n", summary.TotalUncompletedBooks)

	buf.WriteString("## Books\n\n")
	if len(book.Logs) == 0 {
		buf.WriteString("No reading logs yet.\n")
		return buf.Bytes(), nil
	}

	for i, l := range book.Logs {
		fmt.Fprintf(&buf, "%d. %s [%s, %s]", i+1, bookLine(l.Title, l.Author), l.Status, l.DateString())
		if coverURL != nil {
			if u := coverURL(l.CoverID); u != "" {
				fmt.Fprintf(&buf, " ![cover](%s)", u)
			}
		}
		buf.WriteString("\n")
	}

	return buf.Bytes(), nil
}

// ExportToText converts a LogBook to plain text format
func ExportToText(book *models.LogBook) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "Reader: %s\n", book.Reader)
	fmt.Fprintf(&buf, "Books: %d\n\n", len(book.Logs))

	for i, l := range book.Logs {
		fmt.Fprintf(&buf, "%d. %s (%s on %s)\n", i+1, bookLine(l.Title, l.Author), l.Status, l.DateString())
	}

	return buf.Bytes(), nil
}

// ExportToJSON encodes the LogBook with its computed summary.
func ExportToJSON(book *models.LogBook) ([]byte, error) {
	payload := struct {
		*models.LogBook
		Summary models.ReadingSummary `json:"summary"`
	}{LogBook: book, Summary: book.Summary()}
	return shared.MarshalJSON(payload, true)
}

// Export renders book in format.
func Export(book *models.LogBook, format Format, coverURL CoverURLFunc) ([]byte, error) {
	switch format {
	case FormatCSV:
		return ExportToCSV(book)
	case FormatMarkdown:
		return ExportToMarkdown(book, coverURL)
	case FormatText:
		return ExportToText(book)
	default:
		return ExportToJSON(book)
	}
}

// WriteExport renders book in format and writes it to path, creating parent directories.
//
// An empty path defaults to {reader}_reading_log{ext} in the working directory.
func WriteExport(book *models.LogBook, format Format, path string, coverURL CoverURLFunc) (string, error) {
	if path == "" {
		path = FileName(book.Reader, format)
	}

	data, err := Export(book, format, coverURL)
	if err != nil {
		return "", fmt.Errorf("failed to generate %s: %w", format, err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("failed to create directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s file: %w", format, err)
	}
	return path, nil
}

// FileName builds a filesystem-safe export name for reader.
func FileName(reader string, format Format) string {
	slug := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		default:
			return '_'
		}
	}, strings.TrimSpace(reader))
	if slug == "" {
		slug = "reader"
	}
	return slug + "_reading_log" + format.Extension()
}

func bookLine(title, author string) string {
	if author == "" {
		return title
	}
	return fmt.Sprintf("%s by %s", title, author)
}
