// Package metrics holds the Prometheus metrics of the board service.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Board names used as label values.
const (
	BoardProcesses    = "processes"
	BoardApplications = "applications"
)

// Metrics tracks drag-and-drop outcomes and request latency.
type Metrics struct {
	registry *prometheus.Registry

	CardMoves       *prometheus.CounterVec
	IgnoredDrops    *prometheus.CounterVec
	MoveFailures    *prometheus.CounterVec
	HiddenCards     *prometheus.GaugeVec
	RequestDuration *prometheus.HistogramVec
}

// New creates a registry with the Go and process collectors plus the board
// metrics.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	f := promauto.With(reg)
	return &Metrics{
		registry: reg,
		CardMoves: f.NewCounterVec(prometheus.CounterOpts{
			Name: "talentboard_card_moves_total",
			Help: "Cards moved to another column, by board",
		}, []string{"board"}),
		IgnoredDrops: f.NewCounterVec(prometheus.CounterOpts{
			Name: "talentboard_ignored_drops_total",
			Help: "Drops that resolved to no move (no target or same column), by board",
		}, []string{"board"}),
		MoveFailures: f.NewCounterVec(prometheus.CounterOpts{
			Name: "talentboard_move_failures_total",
			Help: "Moves whose store update failed, by board",
		}, []string{"board"}),
		HiddenCards: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "talentboard_hidden_cards",
			Help: "Cards hidden on the last render because their column is unknown, by board and process",
		}, []string{"board", "process"}),
		RequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "talentboard_http_request_duration_seconds",
			Help:    "Duration of HTTP requests by route and method",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"route", "method"}),
	}
}

func (m *Metrics) ObserveMove(board string)    { m.CardMoves.WithLabelValues(board).Inc() }
func (m *Metrics) ObserveIgnored(board string) { m.IgnoredDrops.WithLabelValues(board).Inc() }
func (m *Metrics) ObserveFailure(board string) { m.MoveFailures.WithLabelValues(board).Inc() }

// SetHidden records the hidden cards of one board. process is the
// applications board's process id, empty for the processes board.
func (m *Metrics) SetHidden(board, process string, n int) {
	m.HiddenCards.WithLabelValues(board, process).Set(float64(n))
}

// ObserveRequest records the duration of a request.
// Call with time.Now() at the start of the request.
func (m *Metrics) ObserveRequest(route, method string, start time.Time) {
	m.RequestDuration.WithLabelValues(route, method).Observe(time.Since(start).Seconds())
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
