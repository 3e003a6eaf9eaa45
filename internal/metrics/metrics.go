package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricPrefix = "solar_"

	resultSuccess = "success"
	resultError   = "error"
)

// Exported constants for callers.
const (
	ResultSuccess = resultSuccess
	ResultError   = resultError
)

var (
	registerOnce sync.Once

	simulationTotal   *prometheus.CounterVec
	simulationLatency *prometheus.HistogramVec

	climateFetchTotal   *prometheus.CounterVec
	climateFetchLatency *prometheus.HistogramVec
	climateCacheLookups *prometheus.CounterVec

	reportTotal   *prometheus.CounterVec
	reportLatency *prometheus.HistogramVec
)

// Init registers the collectors with the default registry. Safe to call
// more than once.
func Init() {
	registerOnce.Do(func() {
		simulationTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "simulations_total",
				Help: "Total simulation runs by result",
			},
			[]string{"result"},
		)
		simulationLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "simulation_latency_seconds",
				Help:    "Simulation latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"result"},
		)

		climateFetchTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "climate_fetch_total",
				Help: "Total climate lookups by result",
			},
			[]string{"result"},
		)
		climateFetchLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "climate_fetch_latency_seconds",
				Help:    "Climate lookup latency in seconds, cache hits included",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"result"},
		)
		climateCacheLookups = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "climate_cache_lookups_total",
				Help: "Climate cache lookups by layer and outcome",
			},
			[]string{"layer", "outcome"},
		)

		reportTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "report_render_total",
				Help: "Total report renders by format and result",
			},
			[]string{"format", "result"},
		)
		reportLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "report_render_latency_seconds",
				Help:    "Report render latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"format", "result"},
		)

		prometheus.MustRegister(
			simulationTotal,
			simulationLatency,
			climateFetchTotal,
			climateFetchLatency,
			climateCacheLookups,
			reportTotal,
			reportLatency,
		)
	})
}

// ObserveSimulation records simulation latency and result.
func ObserveSimulation(result string, duration time.Duration) {
	if result == "" {
		result = resultSuccess
	}
	if simulationTotal != nil {
		simulationTotal.WithLabelValues(result).Inc()
	}
	if simulationLatency != nil {
		simulationLatency.WithLabelValues(result).Observe(duration.Seconds())
	}
}

// ObserveClimateFetch records climate lookup latency and result.
func ObserveClimateFetch(result string, duration time.Duration) {
	if result == "" {
		result = resultSuccess
	}
	if climateFetchTotal != nil {
		climateFetchTotal.WithLabelValues(result).Inc()
	}
	if climateFetchLatency != nil {
		climateFetchLatency.WithLabelValues(result).Observe(duration.Seconds())
	}
}

// IncCacheLookup counts a hit or miss on a cache layer.
func IncCacheLookup(layer string, hit bool) {
	if layer == "" {
		layer = "unknown"
	}
	outcome := "miss"
	if hit {
		outcome = "hit"
	}
	if climateCacheLookups != nil {
		climateCacheLookups.WithLabelValues(layer, outcome).Inc()
	}
}

// ObserveReport records report render latency and result.
func ObserveReport(format, result string, duration time.Duration) {
	if format == "" {
		format = "unknown"
	}
	if result == "" {
		result = resultSuccess
	}
	if reportTotal != nil {
		reportTotal.WithLabelValues(format, result).Inc()
	}
	if reportLatency != nil {
		reportLatency.WithLabelValues(format, result).Observe(duration.Seconds())
	}
}

// Result maps an error to a result label.
func Result(err error) string {
	if err != nil {
		return resultError
	}
	return resultSuccess
}

// ClimateRecorder feeds climate provider middleware into the collectors.
type ClimateRecorder struct{}

func (ClimateRecorder) ObserveFetch(duration time.Duration, err error) {
	ObserveClimateFetch(Result(err), duration)
}

func (ClimateRecorder) ObserveCacheLookup(layer string, hit bool) {
	IncCacheLookup(layer, hit)
}
