package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the extraction collectors. A nil *Metrics records nothing.
type Metrics struct {
	Extractions  *prometheus.CounterVec
	OCRJobs      *prometheus.CounterVec
	Completeness prometheus.Histogram
	OCRDuration  prometheus.Histogram

	gatherer prometheus.Gatherer
}

// New registers the collectors on a fresh registry, together with the Go
// runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	m := &Metrics{
		Extractions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "po_extractions_total",
			Help: "Field extractions by the extractor that ran.",
		}, []string{"format"}),
		OCRJobs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "po_ocr_jobs_total",
			Help: "Finished OCR jobs by terminal status.",
		}, []string{"status"}),
		Completeness: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "po_extraction_completeness",
			Help:    "Completeness score of extracted records.",
			Buckets: prometheus.LinearBuckets(0, 0.1, 11),
		}),
		OCRDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "po_ocr_duration_seconds",
			Help:    "Wall time spent reading text out of an uploaded document.",
			Buckets: prometheus.ExponentialBuckets(0.25, 2, 10),
		}),
		gatherer: reg,
	}
	reg.MustRegister(m.Extractions, m.OCRJobs, m.Completeness, m.OCRDuration)
	return m
}

func (m *Metrics) ObserveExtraction(format string, completeness float64) {
	if m == nil {
		return
	}
	m.Extractions.WithLabelValues(format).Inc()
	m.Completeness.Observe(completeness)
}

func (m *Metrics) ObserveOCRJob(status string) {
	if m == nil {
		return
	}
	m.OCRJobs.WithLabelValues(status).Inc()
}

func (m *Metrics) ObserveOCRDuration(d time.Duration) {
	if m == nil {
		return
	}
	m.OCRDuration.Observe(d.Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
