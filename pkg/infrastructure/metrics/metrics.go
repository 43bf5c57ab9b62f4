package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/MisterVladimir/download-zillow-listings/pkg/domain/entity"
)

// Exporter publishes batch download metrics as Prometheus gauges. It
// implements application.MetricsObserver.
type Exporter struct {
	registry  *prometheus.Registry
	requested prometheus.Gauge
	skipped   prometheus.Gauge
	queued    prometheus.Gauge
	processed prometheus.Gauge
	succeeded prometheus.Gauge
	failed    prometheus.Gauge
}

// NewExporter creates an exporter with its own registry, so multiple
// instances never collide on metric names.
func NewExporter() *Exporter {
	registry := prometheus.NewRegistry()

	gauge := func(name, help string) prometheus.Gauge {
		g := prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "zillow",
			Subsystem: "downloader",
			Name:      name,
			Help:      help,
		})
		registry.MustRegister(g)
		return g
	}

	return &Exporter{
		registry:  registry,
		requested: gauge("listings_requested", "Raw listing URLs handed to the run"),
		skipped:   gauge("listings_skipped", "Duplicates and already-downloaded addresses"),
		queued:    gauge("listings_queued", "Listings left to download after filtering"),
		processed: gauge("listings_processed", "Listings attempted so far"),
		succeeded: gauge("listings_succeeded", "Listings committed to the destination root"),
		failed:    gauge("listings_failed", "Listings whose fetch produced no entry document"),
	}
}

// OnMetricsUpdate implements application.MetricsObserver.
func (e *Exporter) OnMetricsUpdate(m *entity.Metrics) {
	e.requested.Set(float64(m.Requested))
	e.skipped.Set(float64(m.Skipped))
	e.queued.Set(float64(m.Queued))
	e.processed.Set(float64(m.Processed))
	e.succeeded.Set(float64(m.Succeeded))
	e.failed.Set(float64(m.Failed))
}

// Serve exposes the /metrics endpoint on addr. It blocks, so callers run it
// in a goroutine.
func (e *Exporter) Serve(addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(e.registry, promhttp.HandlerOpts{}))
	return http.ListenAndServe(addr, mux)
}
