package server

import (
	"bytes"
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestBasicRouter(t *testing.T) {
	t.Run("Method Patterns", func(t *testing.T) {
		r := NewBasicRouter()
		r.HandleFunc("GET", "/login", func(w http.ResponseWriter, _ *http.Request) { w.Write([]byte("form")) })
		r.HandleFunc("post", "/login", func(w http.ResponseWriter, _ *http.Request) { w.Write([]byte("submit")) })

		for method, want := range map[string]string{http.MethodGet: "form", http.MethodPost: "submit"} {
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(method, "/login", nil))
			if rec.Body.String() != want {
				t.Errorf("%s /login = %q, want %q", method, rec.Body.String(), want)
			}
		}

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/login", nil))
		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("DELETE status = %d, want 405", rec.Code)
		}
	})

	t.Run("Path Values", func(t *testing.T) {
		r := NewBasicRouter()
		r.HandleFunc("POST", "/dashboard/children/{id}/login", func(w http.ResponseWriter, req *http.Request) {
			w.Write([]byte(req.PathValue("id")))
		})

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/dashboard/children/42/login", nil))
		if rec.Body.String() != "42" {
			t.Errorf("id = %q, want 42", rec.Body.String())
		}
	})

	t.Run("Middleware Order", func(t *testing.T) {
		var order []string
		tag := func(name string) Middleware {
			return func(next http.Handler) http.Handler {
				return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
					order = append(order, name)
					next.ServeHTTP(w, req)
				})
			}
		}

		r := NewBasicRouter()
		r.Use(tag("first"), tag("second"))
		r.HandleFunc("GET", "/", func(http.ResponseWriter, *http.Request) { order = append(order, "handler") })
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

		if strings.Join(order, ",") != "first,second,handler" {
			t.Errorf("order = %v", order)
		}
	})
}

type staticHandler struct{ routes []string }

func (s staticHandler) ServeHTTP(w http.ResponseWriter, _ *http.Request) { w.Write([]byte("static")) }
func (s staticHandler) Routes() []string                                 { return s.routes }

func TestHandlerRegistration(t *testing.T) {
	r := NewBasicRouter()
	r.Handler(staticHandler{routes: []string{"GET /a", "GET /b"}})

	for _, path := range []string{"/a", "/b"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Body.String() != "static" {
			t.Errorf("%s = %q", path, rec.Body.String())
		}
	}
}

func TestMiddleware(t *testing.T) {
	t.Run("Request Logger", func(t *testing.T) {
		var buf bytes.Buffer
		logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})

		var seen string
		h := RequestLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = RequestID(r.Context())
			w.WriteHeader(http.StatusTeapot)
		}))

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/child-dashboard", nil))

		if seen == "" || rec.Header().Get(RequestIDHeader) != seen {
			t.Errorf("request id = %q, header = %q", seen, rec.Header().Get(RequestIDHeader))
		}
		out := buf.String()
		for _, want := range []string{"/child-dashboard", "418", seen} {
			if !strings.Contains(out, want) {
				t.Errorf("log output missing %q: %s", want, out)
			}
		}
	})

	t.Run("Keeps Incoming Request ID", func(t *testing.T) {
		h := RequestLogger(nil)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, "abc")

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if got := rec.Header().Get(RequestIDHeader); got != "abc" {
			t.Errorf("request id = %q, want abc", got)
		}
	})

	t.Run("Request Scoped Logger", func(t *testing.T) {
		var buf bytes.Buffer
		logger := log.New(&buf)

		h := RequestLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			Logger(r.Context(), nil).Info("loading dashboard")
		}))

		req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
		req.Header.Set(RequestIDHeader, "req-42")
		h.ServeHTTP(httptest.NewRecorder(), req)

		out := buf.String()
		if !strings.Contains(out, "loading dashboard") || !strings.Contains(out, "id=req-42") {
			t.Errorf("handler log should carry the request id: %s", out)
		}

		fallback := log.New(io.Discard)
		if Logger(context.Background(), fallback) != fallback {
			t.Error("expected fallback logger outside a request")
		}
	})

	t.Run("Recover", func(t *testing.T) {
		var buf bytes.Buffer
		h := Recover(log.New(&buf))(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			panic("boom")
		}))

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		if rec.Code != http.StatusInternalServerError {
			t.Errorf("status = %d, want 500", rec.Code)
		}
		if !strings.Contains(buf.String(), "boom") {
			t.Errorf("panic not logged: %s", buf.String())
		}
	})

	t.Run("Healthz", func(t *testing.T) {
		rec := httptest.NewRecorder()
		Healthz(nil)(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
		if rec.Body.String() != "OK" {
			t.Errorf("body = %q, want OK", rec.Body.String())
		}
	})
}

func TestServe(t *testing.T) {
	t.Run("Shuts Down On Cancel", func(t *testing.T) {
		l, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			t.Fatalf("listen: %v", err)
		}
		addr := l.Addr().String()
		l.Close()

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() { done <- Serve(ctx, addr, Healthz(nil), nil, nil) }()

		var resp *http.Response
		for range 50 {
			resp, err = http.Get("http://" + addr + "/healthz")
			if err == nil {
				break
			}
			time.Sleep(20 * time.Millisecond)
		}
		if err != nil {
			t.Fatalf("server never came up: %v", err)
		}
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		if string(body) != "OK" {
			t.Errorf("body = %q", body)
		}

		cancel()
		select {
		case err := <-done:
			if err != nil {
				t.Errorf("Serve returned %v", err)
			}
		case <-time.After(2 * ShutdownTimeout):
			t.Fatal("Serve did not return after cancel")
		}
	})

	t.Run("Listen Error", func(t *testing.T) {
		err := Serve(context.Background(), "bad-address", Healthz(nil), nil, nil)
		if err == nil {
			t.Fatal("expected error for invalid address")
		}
	})
}
