package webapi

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/umputun/langid/lib/langid"
)

// metrics of the detection service, each server has its own registry
type metrics struct {
	registry   *prometheus.Registry
	detections *prometheus.CounterVec
	duration   prometheus.Histogram
	cacheHits  prometheus.Counter
}

func newMetrics(loadedModels func() float64) *metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	res := &metrics{
		registry: reg,
		detections: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "langid",
			Name:      "detections_total",
			Help:      "Number of detections by resulting language, \"unknown\" for undecided",
		}, []string{"language"}),
		duration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: "langid",
			Name:      "detection_duration_seconds",
			Help:      "Duration of confidence distribution calculation",
			Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1},
		}),
		cacheHits: f.NewCounter(prometheus.CounterOpts{
			Namespace: "langid",
			Name:      "cache_hits_total",
			Help:      "Number of detections served from cache",
		}),
	}
	f.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: "langid",
		Name:      "models_loaded",
		Help:      "Number of language models loaded by the detector",
	}, loadedModels)
	return res
}

func (m *metrics) detected(lang langid.Language, ok bool) {
	if !ok {
		m.detections.WithLabelValues("unknown").Inc()
		return
	}
	m.detections.WithLabelValues(lang.String()).Inc()
}

func (m *metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
