package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/lcleigh/page-hoppers-frontend/internal/models"
	"github.com/lcleigh/page-hoppers-frontend/internal/services"
	"github.com/lcleigh/page-hoppers-frontend/internal/session"
	"github.com/lcleigh/page-hoppers-frontend/internal/shared"
	"github.com/lcleigh/page-hoppers-frontend/internal/tasks"
	tu "github.com/lcleigh/page-hoppers-frontend/internal/testing"
	"github.com/urfave/cli/v3"
)

const (
	parentEmail    = "pat@example.com"
	parentPassword = "secret1"
)

type cliHarness struct {
	api     *tu.FakeAPI
	catalog *tu.FakeCatalog
	backend *session.MemoryBackend
	out     *bytes.Buffer
	runner  *Runner
}

func newCLIHarness(t *testing.T, books ...tu.CatalogBook) *cliHarness {
	t.Helper()

	api := tu.NewFakeAPI(t)
	api.SetNow(func() time.Time { return time.Date(2025, 3, 15, 9, 30, 0, 0, time.UTC) })
	api.AddParent("Pat", parentEmail, parentPassword)
	catalog := tu.NewFakeCatalog(t, books...)

	logger := shared.NewLogger(io.Discard)
	backend := session.NewMemoryBackend()
	out := &bytes.Buffer{}

	runner := NewRunner(RunnerOpts{
		Logger:  logger,
		Output:  out,
		API:     services.NewClient(api.URL(), nil, logger),
		Catalog: services.NewOpenLibrary(services.OpenLibraryOpts{SearchURL: catalog.SearchURL(), CoversURL: catalog.CoversURL()}),
		Store:   session.NewStore(backend),
	})

	return &cliHarness{api: api, catalog: catalog, backend: backend, out: out, runner: runner}
}

// run executes args against a fresh command tree, clearing previous output.
func (h *cliHarness) run(args ...string) error {
	h.out.Reset()
	app := &cli.Command{
		Name:      "hoppers",
		Writer:    io.Discard,
		ErrWriter: io.Discard,
		Commands:  h.runner.register(),
	}
	return app.Run(context.Background(), append([]string{"hoppers"}, args...))
}

func (h *cliHarness) mustRun(t *testing.T, args ...string) string {
	t.Helper()
	if err := h.run(args...); err != nil {
		t.Fatalf("%v: unexpected error: %v", args, err)
	}
	return h.out.String()
}

func (h *cliHarness) loginParent(t *testing.T) {
	t.Helper()
	h.mustRun(t, "auth", "login", "--email", parentEmail, "--password", parentPassword)
}

func (h *cliHarness) loginChild(t *testing.T) models.ChildProfile {
	t.Helper()
	child := h.api.AddChild(parentEmail, "Ava", 7, "1234")
	h.loginParent(t)
	h.mustRun(t, "auth", "child-login", "--child", strconv.FormatUint(uint64(child.ID), 10), "--pin", "1234")
	return child
}

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			httpClient := &http.Client{}
			api := services.NewClient("http://backend.test", httpClient, logger)
			catalog := services.NewOpenLibrary(services.OpenLibraryOpts{})
			store := session.NewStore(session.NewMemoryBackend())

			runner := NewRunner(RunnerOpts{
				Config:     config,
				Logger:     logger,
				Output:     output,
				HTTPClient: httpClient,
				API:        api,
				Catalog:    catalog,
				Store:      store,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.httpClient != httpClient {
				t.Error("expected httpClient to be set")
			}
			if runner.api != services.API(api) {
				t.Error("expected api to be set")
			}
			if runner.catalog != catalog {
				t.Error("expected catalog to be set")
			}
			if runner.store != store {
				t.Error("expected store to be set")
			}
			if runner.engine == nil {
				t.Error("expected engine to be built")
			}
		})

		t.Run("with nil config uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Config: nil})

			if runner.config == nil {
				t.Error("expected default config to be set")
			}
		})

		t.Run("with nil logger uses default", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Logger: nil})

			if runner.logger == nil {
				t.Error("expected default logger to be set")
			}
		})

		t.Run("with nil output uses stdout", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: nil})

			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
		})

		t.Run("with nil httpClient uses configured timeout", func(t *testing.T) {
			config := shared.DefaultConfig()
			config.API.Timeout = 7

			runner := NewRunner(RunnerOpts{Config: config})

			if runner.httpClient == nil || runner.httpClient.Timeout != 7*time.Second {
				t.Errorf("expected a client with a 7s timeout, got %+v", runner.httpClient)
			}
		})

		t.Run("with nil clients builds them from config", func(t *testing.T) {
			config := shared.DefaultConfig()
			config.API.BaseURL = "http://backend.test/"

			runner := NewRunner(RunnerOpts{Config: config})

			if _, ok := runner.api.(*services.Client); !ok {
				t.Fatalf("expected *services.Client, got %T", runner.api)
			}
			if runner.catalog == nil {
				t.Error("expected catalog to be built")
			}
		})
	})

	t.Run("SetLogger", func(t *testing.T) {
		t.Run("rebuilds owned clients", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})
			api, catalog, engine := runner.api, runner.catalog, runner.engine

			logger := shared.NewLogger(io.Discard)
			runner.SetLogger(logger)

			if runner.logger != logger {
				t.Error("expected logger to be replaced")
			}
			if runner.api == api || runner.catalog == catalog || runner.engine == engine {
				t.Error("expected clients and engine to be rebuilt")
			}
		})

		t.Run("keeps injected clients", func(t *testing.T) {
			api := services.NewClient("http://backend.test", nil, nil)
			runner := NewRunner(RunnerOpts{API: api})

			runner.SetLogger(shared.NewLogger(io.Discard))

			if runner.api != services.API(api) {
				t.Error("expected injected api to survive")
			}
		})

		t.Run("ignores nil", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})
			logger := runner.logger

			runner.SetLogger(nil)

			if runner.logger != logger {
				t.Error("expected logger to be unchanged")
			}
		})
	})

	t.Run("writeJSON", func(t *testing.T) {
		t.Run("writes formatted JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			err := runner.writeJSON(map[string]string{"key": "value"}, true)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			if !strings.Contains(result, `"key": "value"`) {
				t.Errorf("expected formatted JSON, got %s", result)
			}
			if !strings.HasSuffix(result, "\n") {
				t.Error("expected output to end with newline")
			}
		})

		t.Run("writes compact JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			expected := `{"key":"value"}` + "\n"
			if output.String() != expected {
				t.Errorf("expected %q, got %q", expected, output.String())
			}
		})

		t.Run("handles marshal error with non-serializable data", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &bytes.Buffer{}})

			err := runner.writeJSON(make(chan int), false)
			if err == nil {
				t.Fatal("expected error for non-serializable data")
			}
			if !strings.Contains(err.Error(), "failed to marshal JSON") {
				t.Errorf("expected marshal error, got %v", err)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err == nil {
				t.Fatal("expected error from failing writer")
			}
			if !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})

		t.Run("handles newline write failure", func(t *testing.T) {
			limitedWriter := tu.NewLimitedWriter(1, 0, &bytes.Buffer{})
			runner := NewRunner(RunnerOpts{Output: &limitedWriter})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err == nil {
				t.Fatal("expected error writing newline")
			}
			if !strings.Contains(err.Error(), "failed to write newline") {
				t.Errorf("expected newline write error, got %v", err)
			}
		})
	})

	t.Run("writePlain", func(t *testing.T) {
		t.Run("writes plain text successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writePlain("hello %s", "world"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if output.String() != "hello world" {
				t.Errorf("expected 'hello world', got %q", output.String())
			}
		})

		t.Run("writes padded line", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writePlainln("done"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if output.String() != "\ndone\n" {
				t.Errorf("expected padded line, got %q", output.String())
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writePlain("test")
			if err == nil {
				t.Fatal("expected error from failing writer")
			}
			if !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})
	})

	t.Run("register", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{})
		commands := runner.register()

		want := []string{"setup", "serve", "auth", "children", "logs", "catalog", "tui"}
		if len(commands) != len(want) {
			t.Fatalf("expected %d commands, got %d", len(want), len(commands))
		}
		for i, cmd := range commands {
			if cmd == nil {
				t.Fatalf("command at index %d is nil", i)
			}
			if cmd.Name != want[i] {
				t.Errorf("command %d: expected %q, got %q", i, want[i], cmd.Name)
			}
		}
	})

	t.Run("credentials", func(t *testing.T) {
		t.Run("persists across runners", func(t *testing.T) {
			api := tu.NewFakeAPI(t)
			api.AddParent("Pat", parentEmail, parentPassword)

			config := shared.DefaultConfig()
			config.API.BaseURL = api.URL()
			config.Database.Path = filepath.Join(t.TempDir(), "hoppers.db")

			first := NewRunner(RunnerOpts{Config: config, Logger: shared.NewLogger(io.Discard), Output: &bytes.Buffer{}})
			store, err := first.credentials()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if err := first.engine.LoginParent(context.Background(), store, parentEmail, parentPassword); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if err := first.Close(); err != nil {
				t.Fatalf("unexpected close error: %v", err)
			}

			second := NewRunner(RunnerOpts{Config: config, Logger: shared.NewLogger(io.Discard), Output: &bytes.Buffer{}})
			defer second.Close()
			store, err = second.credentials()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			token, err := store.Token(models.RoleParent)
			if err != nil {
				t.Fatalf("expected stored parent token, got %v", err)
			}
			if token != tu.ParentToken(parentEmail) {
				t.Errorf("unexpected token %q", token)
			}
		})

		t.Run("Close without store", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})
			if err := runner.Close(); err != nil {
				t.Errorf("expected nil, got %v", err)
			}
		})
	})
}

func TestAuthCommands(t *testing.T) {
	t.Run("Register", func(t *testing.T) {
		h := newCLIHarness(t)

		out := h.mustRun(t, "auth", "register", "--name", "Sam", "--email", "sam@example.com", "--password", "hunter22")
		if !strings.Contains(out, tasks.MsgRegistered) {
			t.Errorf("expected confirmation, got %q", out)
		}

		h.mustRun(t, "auth", "login", "--email", "sam@example.com", "--password", "hunter22")
		if got := h.backend.Snapshot()[session.KeyParentToken]; got != tu.ParentToken("sam@example.com") {
			t.Errorf("unexpected token %q", got)
		}
	})

	t.Run("Register Password Mismatch", func(t *testing.T) {
		h := newCLIHarness(t)

		err := h.run("auth", "register", "--name", "Sam", "--email", "sam@example.com", "--password", "hunter22", "--confirm", "hunter23")

		var ve *models.ValidationError
		if !errors.As(err, &ve) {
			t.Fatalf("expected validation error, got %v", err)
		}
		for _, req := range h.api.Requests() {
			if strings.Contains(req, "register") {
				t.Errorf("expected no request, got %q", req)
			}
		}
	})

	t.Run("Login", func(t *testing.T) {
		h := newCLIHarness(t)

		out := h.mustRun(t, "auth", "login", "--email", parentEmail, "--password", parentPassword)

		if !strings.Contains(out, "Signed in as "+parentEmail) {
			t.Errorf("unexpected output %q", out)
		}
		if got := h.backend.Snapshot()[session.KeyParentToken]; got != tu.ParentToken(parentEmail) {
			t.Errorf("unexpected token %q", got)
		}
	})

	t.Run("Login Wrong Password", func(t *testing.T) {
		h := newCLIHarness(t)

		err := h.run("auth", "login", "--email", parentEmail, "--password", "wrong-password")

		if tasks.Message(err) != tasks.MsgLoginFailed {
			t.Errorf("expected %q, got %v", tasks.MsgLoginFailed, err)
		}
		if len(h.backend.Snapshot()) != 0 {
			t.Errorf("expected nothing stored, got %v", h.backend.Snapshot())
		}
	})

	t.Run("Child Login", func(t *testing.T) {
		h := newCLIHarness(t)
		child := h.loginChild(t)

		snap := h.backend.Snapshot()
		if snap[session.KeyChildToken] != tu.ChildToken(child.ID) {
			t.Errorf("unexpected child token %q", snap[session.KeyChildToken])
		}
		if snap[session.KeyChildName] != "Ava" {
			t.Errorf("unexpected child name %q", snap[session.KeyChildName])
		}
		if snap[session.KeyChildID] != strconv.FormatUint(uint64(child.ID), 10) {
			t.Errorf("unexpected child id %q", snap[session.KeyChildID])
		}
	})

	t.Run("Child Login Wrong PIN", func(t *testing.T) {
		h := newCLIHarness(t)
		child := h.api.AddChild(parentEmail, "Ava", 7, "1234")
		h.loginParent(t)

		err := h.run("auth", "child-login", "--child", strconv.FormatUint(uint64(child.ID), 10), "--pin", "9999")

		if tasks.Message(err) != tasks.MsgInvalidPIN {
			t.Errorf("expected %q, got %v", tasks.MsgInvalidPIN, err)
		}
	})

	t.Run("Child Login Without Parent", func(t *testing.T) {
		h := newCLIHarness(t)

		err := h.run("auth", "child-login", "--child", "1", "--pin", "1234")

		if !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("expected not authenticated, got %v", err)
		}
	})

	t.Run("Logout", func(t *testing.T) {
		h := newCLIHarness(t)
		h.loginChild(t)

		h.mustRun(t, "auth", "logout", "--role", "child")
		snap := h.backend.Snapshot()
		if _, ok := snap[session.KeyChildToken]; ok {
			t.Error("expected child token to be cleared")
		}
		if _, ok := snap[session.KeyParentToken]; !ok {
			t.Error("expected parent token to remain")
		}

		h.mustRun(t, "auth", "logout")
		if len(h.backend.Snapshot()) != 0 {
			t.Errorf("expected everything cleared, got %v", h.backend.Snapshot())
		}
	})

	t.Run("Logout Unknown Role", func(t *testing.T) {
		h := newCLIHarness(t)

		err := h.run("auth", "logout", "--role", "guardian")
		if !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected invalid argument, got %v", err)
		}
	})

	t.Run("Status", func(t *testing.T) {
		h := newCLIHarness(t)
		h.loginParent(t)

		out := h.mustRun(t, "auth", "status", "--json")

		var status authStatus
		if err := json.Unmarshal([]byte(out), &status); err != nil {
			t.Fatalf("invalid JSON %q: %v", out, err)
		}
		if !status.Parent || status.Child {
			t.Errorf("unexpected status %+v", status)
		}

		out = h.mustRun(t, "auth", "status")
		if !strings.Contains(out, "Parent: signed in") || !strings.Contains(out, "Child:  not signed in") {
			t.Errorf("unexpected output %q", out)
		}
	})
}

func TestChildrenCommands(t *testing.T) {
	t.Run("Add And List", func(t *testing.T) {
		h := newCLIHarness(t)
		h.loginParent(t)

		out := h.mustRun(t, "children", "add", "--name", "Ava", "--age", "7", "--pin", "1234")
		if !strings.Contains(out, tasks.MsgChildAdded) {
			t.Errorf("unexpected output %q", out)
		}

		out = h.mustRun(t, "children", "list", "--json")
		var children []models.ChildProfile
		if err := json.Unmarshal([]byte(out), &children); err != nil {
			t.Fatalf("invalid JSON %q: %v", out, err)
		}
		if len(children) != 1 || children[0].DisplayName() != "Ava" {
			t.Errorf("unexpected children %+v", children)
		}

		out = h.mustRun(t, "children", "list")
		if !strings.Contains(out, "Ava") {
			t.Errorf("expected child in listing, got %q", out)
		}
	})

	t.Run("Add Invalid PIN", func(t *testing.T) {
		h := newCLIHarness(t)
		h.loginParent(t)

		err := h.run("children", "add", "--name", "Ava", "--age", "7", "--pin", "12a4")

		var ve *models.ValidationError
		if !errors.As(err, &ve) || ve.Field != "pin" {
			t.Errorf("expected pin validation error, got %v", err)
		}
	})

	t.Run("Requires Parent", func(t *testing.T) {
		h := newCLIHarness(t)

		err := h.run("children", "list")
		if !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("expected not authenticated, got %v", err)
		}
	})

	t.Run("Logs", func(t *testing.T) {
		h := newCLIHarness(t)
		child := h.api.AddChild(parentEmail, "Ava", 7, "1234")
		h.api.AddLog(child.ID, models.ReadingLog{
			Title:  "Frog and Toad",
			Author: "Arnold Lobel",
			Status: models.StatusCompleted,
			Date:   time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		})
		h.loginParent(t)

		out := h.mustRun(t, "children", "logs", "--child", strconv.FormatUint(uint64(child.ID), 10))

		if !strings.Contains(out, "Ava's Reading Log") || !strings.Contains(out, "Frog and Toad by Arnold Lobel") {
			t.Errorf("unexpected output %q", out)
		}
	})

	t.Run("Logs Unknown Child", func(t *testing.T) {
		h := newCLIHarness(t)
		h.loginParent(t)

		err := h.run("children", "logs", "--child", "99")
		if tasks.Message(err) != tasks.MsgChildNotFound {
			t.Errorf("expected %q, got %v", tasks.MsgChildNotFound, err)
		}
	})

	t.Run("Export", func(t *testing.T) {
		h := newCLIHarness(t)
		ava := h.api.AddChild(parentEmail, "Ava", 7, "1234")
		ben := h.api.AddChild(parentEmail, "Ben", 9, "4321")
		h.api.AddLog(ava.ID, models.ReadingLog{Title: "Frog and Toad", Status: models.StatusCompleted, Date: time.Now()})
		h.loginParent(t)

		dir := filepath.Join(t.TempDir(), "family")
		out := h.mustRun(t, "children", "export", "--format", "csv", "--output", dir, "--workers", "2")

		if !strings.Contains(out, "Exported 2 of 2 reading logs") {
			t.Errorf("unexpected output %q", out)
		}
		tu.AssertDirExists(t, dir)
		tu.AssertFileExists(t, filepath.Join(dir, "export_manifest.json"))
		tu.AssertFileExists(t, filepath.Join(dir, fmt.Sprintf("%d_ava_reading_log.csv", ava.ID)))
		tu.AssertFileExists(t, filepath.Join(dir, fmt.Sprintf("%d_ben_reading_log.csv", ben.ID)))
	})

	t.Run("Export Unknown Format", func(t *testing.T) {
		h := newCLIHarness(t)
		h.loginParent(t)

		if err := h.run("children", "export", "--format", "pdf"); err == nil {
			t.Error("expected error for unknown format")
		}
	})
}

func TestLogsCommands(t *testing.T) {
	t.Run("Add Manual", func(t *testing.T) {
		h := newCLIHarness(t)
		child := h.loginChild(t)

		out := h.mustRun(t, "logs", "add", "--title", "Frog and Toad", "--author", "Arnold Lobel", "--date", "2025-03-10")

		if !strings.Contains(out, `"Frog and Toad" logged as completed reading on 2025-03-10!`) {
			t.Errorf("unexpected output %q", out)
		}
		logs := h.api.Logs(child.ID)
		if len(logs) != 1 || logs[0].Author != "Arnold Lobel" || logs[0].OpenLibraryKey != "" {
			t.Errorf("unexpected logs %+v", logs)
		}
	})

	t.Run("Add Catalog Book", func(t *testing.T) {
		h := newCLIHarness(t)
		child := h.loginChild(t)

		h.mustRun(t, "logs", "add", "--key", "/works/OL1W", "--title", "Hopper Tales", "--cover", "5", "--status", "started", "--date", "2025-03-11")

		logs := h.api.Logs(child.ID)
		if len(logs) != 1 {
			t.Fatalf("expected one log, got %d", len(logs))
		}
		if logs[0].OpenLibraryKey != "/works/OL1W" || logs[0].CoverID != 5 || logs[0].Status != models.StatusStarted {
			t.Errorf("unexpected log %+v", logs[0])
		}
	})

	t.Run("Add Without Title", func(t *testing.T) {
		h := newCLIHarness(t)
		h.loginChild(t)

		err := h.run("logs", "add", "--author", "Nobody")

		var ve *models.ValidationError
		if !errors.As(err, &ve) || ve.Field != "title" {
			t.Errorf("expected title validation error, got %v", err)
		}
		for _, req := range h.api.Requests() {
			if req == "POST /api/reading-logs" {
				t.Error("expected no log request")
			}
		}
	})

	t.Run("Add Bad Status", func(t *testing.T) {
		h := newCLIHarness(t)
		h.loginChild(t)

		err := h.run("logs", "add", "--title", "Frog and Toad", "--status", "abandoned")

		var ve *models.ValidationError
		if !errors.As(err, &ve) || ve.Field != "status" {
			t.Errorf("expected status validation error, got %v", err)
		}
	})

	t.Run("Requires Child", func(t *testing.T) {
		h := newCLIHarness(t)
		h.loginParent(t)

		err := h.run("logs", "list")
		if !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("expected not authenticated, got %v", err)
		}
	})

	t.Run("List", func(t *testing.T) {
		h := newCLIHarness(t)
		h.loginChild(t)

		out := h.mustRun(t, "logs", "list")
		if !strings.Contains(out, tasks.MsgNoLogs) {
			t.Errorf("expected empty message, got %q", out)
		}

		h.mustRun(t, "logs", "add", "--title", "Frog and Toad", "--date", "2025-03-10")

		out = h.mustRun(t, "logs", "list", "--json")
		var logs []models.ReadingLog
		if err := json.Unmarshal([]byte(out), &logs); err != nil {
			t.Fatalf("invalid JSON %q: %v", out, err)
		}
		if len(logs) != 1 || logs[0].Title != "Frog and Toad" {
			t.Errorf("unexpected logs %+v", logs)
		}
	})

	t.Run("Summary", func(t *testing.T) {
		h := newCLIHarness(t)
		h.loginChild(t)

		out := h.mustRun(t, "logs", "summary")
		if !strings.Contains(out, tasks.MsgNoSummary) {
			t.Errorf("expected empty summary, got %q", out)
		}

		h.mustRun(t, "logs", "add", "--title", "Frog and Toad", "--author", "Arnold Lobel", "--date", "2025-03-10")

		out = h.mustRun(t, "logs", "summary", "--json")
		var summary models.ReadingSummary
		if err := json.Unmarshal([]byte(out), &summary); err != nil {
			t.Fatalf("invalid JSON %q: %v", out, err)
		}
		if summary.TotalCompletedBooks != 1 || summary.LastCompletedBook == nil || summary.LastCompletedBook.Title != "Frog and Toad" {
			t.Errorf("unexpected summary %+v", summary)
		}

		out = h.mustRun(t, "logs", "summary")
		if !strings.Contains(out, "Frog and Toad by Arnold Lobel") {
			t.Errorf("unexpected output %q", out)
		}
	})

	t.Run("Export", func(t *testing.T) {
		h := newCLIHarness(t)
		h.loginChild(t)
		h.mustRun(t, "logs", "add", "--title", "Frog and Toad", "--date", "2025-03-10")

		path := filepath.Join(t.TempDir(), "ava.md")
		out := h.mustRun(t, "logs", "export", "--format", "markdown", "--output", path)

		if !strings.Contains(out, "Exported 1 books to "+path) {
			t.Errorf("unexpected output %q", out)
		}
		if content := tu.MustReadFile(t, path); !strings.Contains(content, "Frog and Toad") {
			t.Errorf("expected title in export, got %q", content)
		}
	})
}

func TestCatalogCommands(t *testing.T) {
	t.Run("Search", func(t *testing.T) {
		h := newCLIHarness(t, tu.ManyBooks(12)...)

		out := h.mustRun(t, "catalog", "search", "hopper", "--json")
		var results []models.BookResult
		if err := json.Unmarshal([]byte(out), &results); err != nil {
			t.Fatalf("invalid JSON %q: %v", out, err)
		}
		if len(results) != services.MaxSearchResults {
			t.Errorf("expected %d results, got %d", services.MaxSearchResults, len(results))
		}

		out = h.mustRun(t, "catalog", "search", "hopper")
		if !strings.Contains(out, `Results for "hopper"`) || !strings.Contains(out, "by Ann Author") {
			t.Errorf("unexpected output %q", out)
		}
	})

	t.Run("Search No Results", func(t *testing.T) {
		h := newCLIHarness(t)

		out := h.mustRun(t, "catalog", "search", "dragons")
		if !strings.Contains(out, tasks.MsgNoResults) {
			t.Errorf("expected no results message, got %q", out)
		}
	})

	t.Run("Search Without Query", func(t *testing.T) {
		h := newCLIHarness(t)

		err := h.run("catalog", "search")
		if !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected missing argument, got %v", err)
		}
	})

	t.Run("Search Failure", func(t *testing.T) {
		h := newCLIHarness(t)
		h.catalog.SetFail(true)

		err := h.run("catalog", "search", "hopper")
		if tasks.Message(err) != tasks.MsgSearchFailed {
			t.Errorf("expected %q, got %v", tasks.MsgSearchFailed, err)
		}
	})

	t.Run("Cover", func(t *testing.T) {
		h := newCLIHarness(t)
		path := filepath.Join(t.TempDir(), "cover.jpg")

		h.mustRun(t, "catalog", "cover", "--id", "7", "--size", "L", "--output", path)

		if content := tu.MustReadFile(t, path); content != "jpeg:7-L.jpg" {
			t.Errorf("unexpected cover bytes %q", content)
		}
	})

	t.Run("Cover Invalid ID", func(t *testing.T) {
		h := newCLIHarness(t)

		err := h.run("catalog", "cover", "--id", "0")
		if !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected invalid argument, got %v", err)
		}
	})
}

func TestSetupCommands(t *testing.T) {
	t.Run("Config", func(t *testing.T) {
		h := newCLIHarness(t)
		path := filepath.Join(t.TempDir(), "config.toml")

		h.mustRun(t, "setup", "config", "--config", path)
		tu.AssertFileExists(t, path)

		if _, err := shared.LoadConfig(path); err != nil {
			t.Errorf("expected a loadable config, got %v", err)
		}
		if err := h.run("setup", "config", "--config", path); err == nil {
			t.Error("expected error when the file exists")
		}
	})

	t.Run("Database", func(t *testing.T) {
		h := newCLIHarness(t)
		dir := t.TempDir()
		dbPath := filepath.Join(dir, "creds.db")
		configPath := filepath.Join(dir, "config.toml")

		conf := "[database]\npath = \"" + filepath.ToSlash(dbPath) + "\"\nmax_open_conns = 1\nmax_idle_conns = 1\n"
		if err := os.WriteFile(configPath, []byte(conf), 0644); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		out := h.mustRun(t, "setup", "database", "--config", configPath)

		tu.AssertFileExists(t, dbPath)
		if !strings.Contains(out, "Credential database ready") {
			t.Errorf("unexpected output %q", out)
		}
	})
}

func TestHelpers(t *testing.T) {
	t.Run("parseRoles", func(t *testing.T) {
		tests := []struct {
			in   string
			want int
			err  bool
		}{
			{"", 2, false},
			{"all", 2, false},
			{"Parent", 1, false},
			{" child ", 1, false},
			{"guardian", 0, true},
		}
		for _, tt := range tests {
			roles, err := parseRoles(tt.in)
			if (err != nil) != tt.err {
				t.Errorf("%q: unexpected error %v", tt.in, err)
			}
			if len(roles) != tt.want {
				t.Errorf("%q: expected %d roles, got %v", tt.in, tt.want, roles)
			}
		}
	})

	t.Run("browserAddr", func(t *testing.T) {
		tests := []struct {
			host, addr, want string
		}{
			{"", ":3000", "localhost:3000"},
			{"0.0.0.0", "0.0.0.0:3000", "localhost:3000"},
			{"127.0.0.1", "127.0.0.1:3000", "127.0.0.1:3000"},
			{"", "bad-address", "bad-address"},
		}
		for _, tt := range tests {
			if got := browserAddr(tt.host, tt.addr); got != tt.want {
				t.Errorf("browserAddr(%q, %q) = %q, want %q", tt.host, tt.addr, got, tt.want)
			}
		}
	})

	t.Run("bookRef", func(t *testing.T) {
		if bookRef(nil) != "-" {
			t.Error("expected dash for nil")
		}
		if got := bookRef(&models.BookRef{Title: "Frog and Toad", Author: "Arnold Lobel"}); got != "Frog and Toad by Arnold Lobel" {
			t.Errorf("unexpected %q", got)
		}
	})
}
