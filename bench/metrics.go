package bench

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	registry *prometheus.Registry
	duration *prometheus.GaugeVec
	pages    *prometheus.GaugeVec
	size     *prometheus.GaugeVec
}

func newMetrics() *metrics {
	labels := []string{"scenario", "library"}
	m := &metrics{
		registry: prometheus.NewRegistry(),
		duration: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "pdfbench_render_duration_seconds",
			Help: "Wall time of the last render, layout included",
		}, labels),
		pages: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "pdfbench_output_pages",
			Help: "Page count of the last rendered document",
		}, labels),
		size: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "pdfbench_output_bytes",
			Help: "Size of the last rendered document in bytes",
		}, labels),
	}
	m.registry.MustRegister(m.duration, m.pages, m.size)
	return m
}

func (m *metrics) observe(r *Report) {
	scenario, lib := string(r.Scenario), string(r.Library)
	m.duration.WithLabelValues(scenario, lib).Set(r.Elapsed.Seconds())
	m.pages.WithLabelValues(scenario, lib).Set(float64(r.Pages))
	m.size.WithLabelValues(scenario, lib).Set(float64(r.Bytes))
}

// WriteMetrics writes gauges for the reports to path in the Prometheus text
// format, ready for the node exporter textfile collector.
func WriteMetrics(path string, reports ...*Report) error {
	if path == "" || len(reports) == 0 {
		return nil
	}
	m := newMetrics()
	for _, r := range reports {
		m.observe(r)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating metrics directory: %w", err)
		}
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("writing metrics: %w", err)
	}
	return nil
}
