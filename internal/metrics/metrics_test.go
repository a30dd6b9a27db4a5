package metrics

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/prometheus/client_golang/prometheus"
)

func counterValue(t *testing.T, reg *prometheus.Registry, name string, labels map[string]string) float64 {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}

	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
	metrics:
		for _, m := range mf.GetMetric() {
			for _, lp := range m.GetLabel() {
				if want, ok := labels[lp.GetName()]; ok && want != lp.GetValue() {
					continue metrics
				}
			}
			return m.GetCounter().GetValue()
		}
	}
	return 0
}

func TestCollector(t *testing.T) {
	t.Run("Counts Events By Method", func(t *testing.T) {
		reg := prometheus.NewRegistry()
		c := NewCollector(reg, nil)

		c.LogEvent("login", map[string]any{"method": "email"})
		c.LogEvent("login", map[string]any{"method": "email"})
		c.LogEvent("login", map[string]any{"method": "google"})
		c.LogEvent("logout", nil)

		if v := counterValue(t, reg, "worlder_events_total", map[string]string{"event": "login", "method": "email"}); v != 2 {
			t.Errorf("login/email = %v, want 2", v)
		}
		if v := counterValue(t, reg, "worlder_events_total", map[string]string{"event": "login", "method": "google"}); v != 1 {
			t.Errorf("login/google = %v, want 1", v)
		}
		if v := counterValue(t, reg, "worlder_events_total", map[string]string{"event": "logout", "method": ""}); v != 1 {
			t.Errorf("logout = %v, want 1", v)
		}
	})

	t.Run("Logs Events", func(t *testing.T) {
		var buf bytes.Buffer
		c := NewCollector(prometheus.NewRegistry(), log.New(&buf))

		c.LogEvent("add_to_favorites", map[string]any{"movie_id": 550})

		out := buf.String()
		if !strings.Contains(out, "event add_to_favorites") || !strings.Contains(out, "movie_id=550") {
			t.Errorf("unexpected log output %q", out)
		}
	})

	t.Run("Export Results", func(t *testing.T) {
		reg := prometheus.NewRegistry()
		c := NewCollector(reg, nil)

		c.RecordExport(true)
		c.RecordExport(true)
		c.RecordExport(false)

		if v := counterValue(t, reg, "worlder_export_movies_total", map[string]string{"result": "ok"}); v != 2 {
			t.Errorf("ok = %v, want 2", v)
		}
		if v := counterValue(t, reg, "worlder_export_movies_total", map[string]string{"result": "failed"}); v != 1 {
			t.Errorf("failed = %v, want 1", v)
		}
	})
}

func TestHandler(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg, nil)
	c.LogEvent("sign_up", map[string]any{"method": "email"})

	h := NewHandler(reg)
	if routes := h.Routes(); len(routes) != 1 || routes[0] != "/metrics" {
		t.Errorf("unexpected routes %v", routes)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), `worlder_events_total{event="sign_up",method="email"} 1`) {
		t.Errorf("expected sign_up counter in exposition, got:\n%s", body)
	}
}
