package formatter

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/lcleigh/page-hoppers-frontend/internal/models"
	"github.com/lcleigh/page-hoppers-frontend/internal/shared"
	th "github.com/lcleigh/page-hoppers-frontend/internal/testing"
)

func sampleBook() *models.LogBook {
	day := func(d int) time.Time { return time.Date(2025, 3, d, 0, 0, 0, 0, time.UTC) }
	return &models.LogBook{
		Reader:   "Ava",
		ChildID:  7,
		Exported: day(20),
		Logs: []models.ReadingLog{
			{ID: 1, Title: "Matilda", Author: "Roald Dahl", Status: models.StatusCompleted, Date: day(2), CoverID: 8314541, OpenLibraryKey: "/works/OL45804W"},
			{ID: 2, Title: "Charlotte's Web", Status: models.StatusStarted, Date: day(10)},
		},
	}
}

func TestExporters(t *testing.T) {
	t.Run("ExportToCSV", func(t *testing.T) {
		data, err := ExportToCSV(sampleBook())
		if err != nil {
			t.Fatalf("ExportToCSV failed: %v", err)
		}

		output := string(data)
		if !strings.Contains(output, "ID,Title,Author,Status,Date,OpenLibraryKey,CoverID") {
			t.Errorf("CSV missing headers, got: %s", output)
		}
		if !strings.Contains(output, "1,Matilda,Roald Dahl,completed,2025-03-02,/works/OL45804W,8314541") {
			t.Errorf("CSV missing first row, got: %s", output)
		}
		if !strings.Contains(output, "2,Charlotte's Web,,started,2025-03-10,,") {
			t.Errorf("CSV missing second row, got: %s", output)
		}
	})

	t.Run("ExportToMarkdown", func(t *testing.T) {
		cover := func(id int) string {
			if id == 0 {
				return ""
			}
			return fmt.Sprintf("https://covers.example/%d-S.jpg", id)
		}

		data, err := ExportToMarkdown(sampleBook(), cover)
		if err != nil {
			t.Fatalf("ExportToMarkdown failed: %v", err)
		}

		output := string(data)
		for _, want := range []string{
			"# Ava's Reading Log",
			"**Currently reading**: Charlotte's Web",
			"**Last completed**: Matilda by Roald Dahl",
			"**Completed this month**: 1",
			"1. Matilda by Roald Dahl [completed, 2025-03-02] ![cover](https://covers.example/8314541-S.jpg)",
			"2. Charlotte's Web [started, 2025-03-10]\n",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("Markdown missing %q, got:\n%s", want, output)
			}
		}
	})

	t.Run("ExportToMarkdown Empty", func(t *testing.T) {
		data, err := ExportToMarkdown(&models.LogBook{Reader: "Leo"}, nil)
		if err != nil {
			t.Fatalf("ExportToMarkdown failed: %v", err)
		}
		if !strings.Contains(string(data), "No reading logs yet.") {
			t.Errorf("expected empty message, got:\n%s", data)
		}
	})

	t.Run("ExportToText", func(t *testing.T) {
		data, err := ExportToText(sampleBook())
		if err != nil {
			t.Fatalf("ExportToText failed: %v", err)
		}

		output := string(data)
		if !strings.Contains(output, "Reader: Ava") || !strings.Contains(output, "Books: 2") {
			t.Errorf("text missing header, got: %s", output)
		}
		if !strings.Contains(output, "1. Matilda by Roald Dahl (completed on 2025-03-02)") {
			t.Errorf("text missing entry, got: %s", output)
		}
	})

	t.Run("ExportToJSON", func(t *testing.T) {
		data, err := ExportToJSON(sampleBook())
		if err != nil {
			t.Fatalf("ExportToJSON failed: %v", err)
		}

		var decoded struct {
			Reader  string                `json:"reader"`
			Logs    []models.ReadingLog   `json:"logs"`
			Summary models.ReadingSummary `json:"summary"`
		}
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if decoded.Reader != "Ava" || len(decoded.Logs) != 2 || decoded.Summary.TotalCompletedBooks != 1 {
			t.Errorf("unexpected decoded export: %+v", decoded)
		}
	})
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
	}{
		{"csv", FormatCSV},
		{"MD", FormatMarkdown},
		{"markdown", FormatMarkdown},
		{"text", FormatText},
		{"", FormatJSON},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, %v; want %q", tt.in, got, err, tt.want)
		}
	}

	if _, err := ParseFormat("xml"); !errors.Is(err, shared.ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestWriters(t *testing.T) {
	t.Run("WriteExport Default Path", func(t *testing.T) {
		tempDir := t.TempDir()
		originalDir := th.MustGetwd(t)
		th.MustChdir(t, tempDir)
		defer th.MustChdir(t, originalDir)

		path, err := WriteExport(sampleBook(), FormatCSV, "", nil)
		if err != nil {
			t.Fatalf("WriteExport failed: %v", err)
		}
		if path != "ava_reading_log.csv" {
			t.Errorf("unexpected default path %q", path)
		}
		th.AssertFileExists(t, path)
	})

	t.Run("WriteExport Nested Path", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "exports", "ava.md")
		written, err := WriteExport(sampleBook(), FormatMarkdown, path, nil)
		if err != nil {
			t.Fatalf("WriteExport failed: %v", err)
		}
		content := th.MustReadFile(t, written)
		if !strings.Contains(content, "# Ava's Reading Log") {
			t.Errorf("unexpected content: %s", content)
		}
	})

	t.Run("WriteExport Unwritable", func(t *testing.T) {
		dir := t.TempDir()
		blocker := filepath.Join(dir, "file")
		if _, err := WriteExport(sampleBook(), FormatText, blocker, nil); err != nil {
			t.Fatalf("setup failed: %v", err)
		}
		if _, err := WriteExport(sampleBook(), FormatText, filepath.Join(blocker, "nested.txt"), nil); err == nil {
			t.Error("expected error writing beneath a file")
		}
	})

	t.Run("WriteManifest", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "manifest.json")
		m := &Manifest{Format: FormatCSV, Succeeded: 1, Entries: []ManifestEntry{{ChildID: 7, Reader: "Ava", File: "ava.csv", Books: 2}}}
		if err := WriteManifest(m, path); err != nil {
			t.Fatalf("WriteManifest failed: %v", err)
		}
		content := th.MustReadFile(t, path)
		if !strings.Contains(content, `"reader": "Ava"`) {
			t.Errorf("unexpected manifest: %s", content)
		}
	})

	t.Run("FileName", func(t *testing.T) {
		if got := FileName("Mary Jane!", FormatText); got != "mary_jane__reading_log.txt" {
			t.Errorf("unexpected file name %q", got)
		}
		if got := FileName("  ", FormatJSON); got != "reader_reading_log.json" {
			t.Errorf("unexpected file name %q", got)
		}
	})
}
