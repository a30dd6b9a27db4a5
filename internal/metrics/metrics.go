// Package metrics records telemetry events as Prometheus counters and log lines.
package metrics

import (
	"fmt"
	"net/http"
	"slices"

	"github.com/charmbracelet/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector implements the stores' telemetry sink.
type Collector struct {
	events        *prometheus.CounterVec
	exportResults *prometheus.CounterVec
	logger        *log.Logger
}

// NewCollector registers the counters with reg. A nil logger disables event log lines.
func NewCollector(reg prometheus.Registerer, logger *log.Logger) *Collector {
	c := &Collector{
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "worlder_events_total",
			Help: "Telemetry events by name and sign-in method.",
		}, []string{"event", "method"}),
		exportResults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "worlder_export_movies_total",
			Help: "Favorites export detail fetches by result.",
		}, []string{"result"}),
		logger: logger,
	}

	reg.MustRegister(c.events, c.exportResults)
	return c
}

// LogEvent counts name, labelled with params["method"] when present, and logs it.
func (c *Collector) LogEvent(name string, params map[string]any) {
	method, _ := params["method"].(string)
	c.events.WithLabelValues(name, method).Inc()

	if c.logger == nil {
		return
	}
	keyvals := make([]any, 0, len(params)*2)
	for _, k := range sortedKeys(params) {
		keyvals = append(keyvals, k, params[k])
	}
	c.logger.Info(fmt.Sprintf("event %s", name), keyvals...)
}

// RecordExport counts one favorites export detail fetch with result "ok" or "failed".
func (c *Collector) RecordExport(ok bool) {
	result := "ok"
	if !ok {
		result = "failed"
	}
	c.exportResults.WithLabelValues(result).Inc()
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Handler serves the Prometheus exposition format on /metrics.
type Handler struct {
	next http.Handler
}

func NewHandler(gatherer prometheus.Gatherer) *Handler {
	return &Handler{next: promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})}
}

func (h *Handler) Routes() []string { return []string{"/metrics"} }

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.next.ServeHTTP(w, r)
}
