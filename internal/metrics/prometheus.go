package metrics

import (
	"net/http"
	"strconv"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	reg            *prom.Registry
	scanDuration   prom.Histogram
	catalogEntries prom.Gauge
	catalogSkipped prom.Gauge
	renderDuration *prom.HistogramVec
	searches       *prom.CounterVec
}

// NewPrometheusRecorder registers the archive metrics on reg. A nil reg gets
// a fresh registry.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		reg: reg,
		scanDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: "codex",
			Name:      "catalog_scan_duration_seconds",
			Help:      "Duration of the catalog directory scan",
			Buckets:   prom.DefBuckets,
		}),
		catalogEntries: prom.NewGauge(prom.GaugeOpts{
			Namespace: "codex",
			Name:      "catalog_entries",
			Help:      "Documents indexed by the last catalog scan",
		}),
		catalogSkipped: prom.NewGauge(prom.GaugeOpts{
			Namespace: "codex",
			Name:      "catalog_skipped_documents",
			Help:      "Documents excluded from the catalog because metadata extraction failed",
		}),
		renderDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "codex",
			Name:      "render_duration_seconds",
			Help:      "Duration of full document renders by outcome",
			Buckets:   prom.DefBuckets,
		}, []string{"outcome"}),
		searches: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "codex",
			Name:      "searches_total",
			Help:      "Catalog searches, split by whether the query was empty",
		}, []string{"empty"}),
	}
	reg.MustRegister(pr.scanDuration, pr.catalogEntries, pr.catalogSkipped, pr.renderDuration, pr.searches)
	return pr
}

func (p *PrometheusRecorder) ObserveScan(d time.Duration, indexed, skipped int) {
	p.scanDuration.Observe(d.Seconds())
	p.catalogEntries.Set(float64(indexed))
	p.catalogSkipped.Set(float64(skipped))
}

func (p *PrometheusRecorder) ObserveRender(d time.Duration, outcome string) {
	p.renderDuration.WithLabelValues(outcome).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncSearch(empty bool) {
	p.searches.WithLabelValues(strconv.FormatBool(empty)).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (p *PrometheusRecorder) Handler() http.Handler {
	return promhttp.HandlerFor(p.reg, promhttp.HandlerOpts{EnableOpenMetrics: true})
}
