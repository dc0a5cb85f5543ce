package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	MergeRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "rci_merge_requests_total",
		Help: "CSV merge requests by result",
	}, []string{"result"})
	MergedFilesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "rci_merged_files_total",
		Help: "Files folded into merged CSV output",
	})
	MergedRowsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "rci_merged_rows_total",
		Help: "Data rows written to merged CSV output",
	})
	ReadingsStoredTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "rci_readings_stored_total",
		Help: "Readings accepted into the reading store",
	})
	MalformedRecordsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "rci_malformed_records_total",
		Help: "Rows skipped because a required numeric field was missing or invalid",
	})
	AggregationDurationMs = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "rci_aggregation_duration_ms",
		Help:    "Time to fold readings into grid cells",
		Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
	})
	GridCells = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "rci_grid_cells",
		Help: "Grid cells produced by the latest aggregation pass",
	})
	UpstreamFailuresTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "rci_upstream_failures_total",
		Help: "Failed fetches from the reading provider",
	})
	CalculatedRowsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "rci_calculated_rows_total",
		Help: "Sensor log rows seen by the RCI calculator by outcome",
	}, []string{"outcome"})
)

func init() {
	prometheus.MustRegister(MergeRequestsTotal)
	prometheus.MustRegister(MergedFilesTotal)
	prometheus.MustRegister(MergedRowsTotal)
	prometheus.MustRegister(ReadingsStoredTotal)
	prometheus.MustRegister(MalformedRecordsTotal)
	prometheus.MustRegister(AggregationDurationMs)
	prometheus.MustRegister(GridCells)
	prometheus.MustRegister(UpstreamFailuresTotal)
	prometheus.MustRegister(CalculatedRowsTotal)
}

// Handler exposes the registered metrics for Prometheus to scrape
func Handler() http.Handler { return promhttp.Handler() }
