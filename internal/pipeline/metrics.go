package pipeline

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts what a run did. They are kept in a private registry and can
// be dumped in the Prometheus text format for a node_exporter textfile collector.
type Metrics struct {
	registry *prometheus.Registry

	filesProcessed prometheus.Counter
	filesSkipped   prometheus.Counter
	filesGeotagged prometheus.Counter
	rowsWritten    prometheus.Counter
	markers        prometheus.Gauge
	duration       prometheus.Gauge
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		filesProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "exifmap_files_processed_total",
			Help: "Image files whose metadata was read.",
		}),
		filesSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "exifmap_files_skipped_total",
			Help: "Image files that could not be opened or decoded.",
		}),
		filesGeotagged: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "exifmap_files_geotagged_total",
			Help: "Image files with a complete GPS position.",
		}),
		rowsWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "exifmap_report_rows_total",
			Help: "Rows written to the metadata report.",
		}),
		markers: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "exifmap_map_markers",
			Help: "Markers on the most recently rendered map.",
		}),
		duration: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "exifmap_last_run_duration_seconds",
			Help: "Wall time of the most recent run.",
		}),
	}
	m.registry.MustRegister(
		m.filesProcessed,
		m.filesSkipped,
		m.filesGeotagged,
		m.rowsWritten,
		m.markers,
		m.duration,
	)
	return m
}

// WriteTextfile dumps the current values to path.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}
	return nil
}
