package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"golang.org/x/oauth2"
)

func TestBasicRouter(t *testing.T) {
	t.Run("Method Filtering", func(t *testing.T) {
		r := NewBasicRouter()
		r.HandleFunc(http.MethodGet, "/ping", func(w http.ResponseWriter, _ *http.Request) {
			w.Write([]byte("pong"))
		})

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
		if rec.Code != http.StatusOK || rec.Body.String() != "pong" {
			t.Errorf("unexpected GET response %d %q", rec.Code, rec.Body.String())
		}

		rec = httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/ping", nil))
		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("expected 405, got %d", rec.Code)
		}
		if rec.Header().Get("Allow") != "GET" {
			t.Errorf("expected Allow header, got %q", rec.Header().Get("Allow"))
		}
	})

	t.Run("Middleware Order", func(t *testing.T) {
		var order []string
		mw := func(name string) Middleware {
			return func(next http.Handler) http.Handler {
				return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					order = append(order, name)
					next.ServeHTTP(w, r)
				})
			}
		}

		r := NewBasicRouter()
		r.Use(mw("first"), mw("second"))
		r.HandleFunc(http.MethodGet, "/", func(http.ResponseWriter, *http.Request) { order = append(order, "handler") })
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

		if strings.Join(order, ",") != "first,second,handler" {
			t.Errorf("unexpected order %v", order)
		}
	})

	t.Run("Handler Routes", func(t *testing.T) {
		r := NewBasicRouter()
		r.Handler(NewOAuthHandler(&oauth2.Config{}, "s"))
		r.HandleFunc(http.MethodGet, "/metrics", func(http.ResponseWriter, *http.Request) {})

		paths := r.Paths()
		if len(paths) != 2 || paths[0] != CallbackPath || paths[1] != "/metrics" {
			t.Errorf("unexpected paths %v", paths)
		}
	})
}

func TestLoggingMiddleware(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})

	r := NewBasicRouter()
	r.Use(LoggingMiddleware(logger))
	r.HandleFunc(http.MethodGet, "/teapot", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/teapot", nil))

	out := buf.String()
	if !strings.Contains(out, "/teapot") || !strings.Contains(out, "418") {
		t.Errorf("expected request log, got %q", out)
	}
}

func newTokenServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.ParseForm()
		if r.Form.Get("code") != "good-code" {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"error":"invalid_grant"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"at","token_type":"Bearer","id_token":"idt","expires_in":3600}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestOAuthHandler(t *testing.T) {
	tokenServer := newTokenServer(t)
	config := &oauth2.Config{
		ClientID: "client",
		Endpoint: oauth2.Endpoint{TokenURL: tokenServer.URL, AuthStyle: oauth2.AuthStyleInParams},
	}

	t.Run("Successful Callback", func(t *testing.T) {
		h := NewOAuthHandler(config, "state-1")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, CallbackPath+"?state=state-1&code=good-code", nil))

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}

		result := <-h.Result()
		if result.Err != nil {
			t.Fatalf("unexpected error: %v", result.Err)
		}
		if result.Token.AccessToken != "at" || result.IDToken() != "idt" {
			t.Errorf("unexpected token %+v id=%q", result.Token, result.IDToken())
		}
	})

	t.Run("State Mismatch", func(t *testing.T) {
		h := NewOAuthHandler(config, "expected")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, CallbackPath+"?state=other&code=good-code", nil))

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}
		if result := <-h.Result(); !errors.Is(result.Err, ErrStateMismatch) {
			t.Errorf("expected ErrStateMismatch, got %v", result.Err)
		}
	})

	t.Run("Denied", func(t *testing.T) {
		h := NewOAuthHandler(config, "s")
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, CallbackPath+"?state=s&error=access_denied", nil))

		result := <-h.Result()
		if !errors.Is(result.Err, ErrAccessDenied) || !strings.Contains(result.Err.Error(), "access_denied") {
			t.Errorf("expected ErrAccessDenied, got %v", result.Err)
		}
	})

	t.Run("Exchange Failure", func(t *testing.T) {
		h := NewOAuthHandler(config, "s")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, CallbackPath+"?state=s&code=bad-code", nil))

		if rec.Code != http.StatusInternalServerError {
			t.Errorf("expected 500, got %d", rec.Code)
		}
		if result := <-h.Result(); result.Err == nil {
			t.Error("expected exchange error")
		}
	})

	t.Run("Only First Callback Counts", func(t *testing.T) {
		h := NewOAuthHandler(config, "s")
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, CallbackPath+"?state=s&code=good-code", nil))

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, CallbackPath+"?state=s&code=good-code", nil))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected replay to be rejected, got %d", rec.Code)
		}

		<-h.Result()
		if _, open := <-h.Result(); open {
			t.Error("expected result channel to be closed")
		}
	})
}

func TestServe(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	r := NewBasicRouter()
	r.HandleFunc(http.MethodGet, "/ping", func(w http.ResponseWriter, _ *http.Request) { w.Write([]byte("pong")) })

	addr, errs, err := Serve(ctx, "127.0.0.1:0", r)
	if err != nil {
		t.Fatalf("failed to serve: %v", err)
	}

	resp, err := http.Get(fmt.Sprintf("http://%s/ping", addr))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if string(body) != "pong" {
		t.Errorf("unexpected body %q", body)
	}

	cancel()
	if err, open := <-errs; open && err != nil {
		t.Errorf("unexpected server error: %v", err)
	}

	if _, _, err := Serve(context.Background(), "not-an-address", r); err == nil {
		t.Error("expected listen error")
	}
}
