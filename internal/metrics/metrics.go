package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "restaurant_hours"

var (
	once sync.Once

	ingestedRows = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ingested_rows_total",
			Help:      "Count of ingested source rows by outcome.",
		},
		[]string{"status"},
	)

	parseFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "parse_failures_total",
			Help:      "Count of rejected hours strings by failure kind.",
		},
		[]string{"kind"},
	)

	windowsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "windows_created_total",
			Help:      "Count of operating-hours windows newly persisted.",
		},
	)

	openQueries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "open_queries_total",
			Help:      "Count of open-restaurant queries by cache result.",
		},
		[]string{"cache"},
	)
)

// Register registers metrics (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(ingestedRows, parseFailures, windowsCreated, openQueries)
	})
}

func IncIngestedRow(status string) {
	ingestedRows.WithLabelValues(status).Inc()
}

func IncParseFailure(kind string) {
	parseFailures.WithLabelValues(kind).Inc()
}

func AddWindowsCreated(n int) {
	if n > 0 {
		windowsCreated.Add(float64(n))
	}
}

func IncOpenQuery(cache string) {
	openQueries.WithLabelValues(cache).Inc()
}
