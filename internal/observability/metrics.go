package observability

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registry *prometheus.Registry

	// OpenWeatherMap call rate by status label. Watch for: error vs success ratio.
	WeatherAPICallsTotal *prometheus.CounterVec

	// OpenWeatherMap latency per request.
	WeatherAPIDuration *prometheus.HistogramVec

	// Weather failures by taxonomy kind (not_found, timeout, ...).
	WeatherAPIErrorsTotal *prometheus.CounterVec

	// Chat completion call rate by status label.
	AdviceAPICallsTotal *prometheus.CounterVec

	// Chat completion latency per request. Completions are slow; buckets reach 60s.
	AdviceAPIDuration *prometheus.HistogramVec

	// Advice failures by taxonomy kind (rate_limited, quota_exceeded, ...).
	AdviceAPIErrorsTotal *prometheus.CounterVec

	// Tokens reported by the provider, split into prompt and completion.
	AdviceTokensTotal *prometheus.CounterVec

	// Recommendation cycles by outcome (success, weather_error, advice_error, interrupted, unexpected_error).
	RecommendationsTotal *prometheus.CounterVec

	// Time spent waiting on the outbound rate limiter before a provider call.
	ThrottleWaitSeconds *prometheus.HistogramVec
)

func init() {
	registry = prometheus.NewRegistry()

	WeatherAPICallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "weatherApiCallsTotal",
			Help: "Total number of OpenWeatherMap API calls",
		},
		[]string{"status"},
	)
	WeatherAPIDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "weatherApiDurationSeconds",
			Help:    "OpenWeatherMap API latency in seconds (per request)",
			Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"status"},
	)
	WeatherAPIErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "weatherApiErrorsTotal",
			Help: "Weather lookups that failed, by error kind",
		},
		[]string{"kind"},
	)
	AdviceAPICallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "adviceApiCallsTotal",
			Help: "Total number of chat completion calls",
		},
		[]string{"status"},
	)
	AdviceAPIDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "adviceApiDurationSeconds",
			Help:    "Chat completion latency in seconds (per request)",
			Buckets: []float64{.5, 1, 2.5, 5, 10, 20, 40, 60},
		},
		[]string{"status"},
	)
	AdviceAPIErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "adviceApiErrorsTotal",
			Help: "Advice generations that failed, by error kind",
		},
		[]string{"kind"},
	)
	AdviceTokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "adviceTokensTotal",
			Help: "Tokens consumed by chat completions",
		},
		[]string{"type"},
	)
	RecommendationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendationsTotal",
			Help: "Recommendation cycles by outcome",
		},
		[]string{"outcome"},
	)
	ThrottleWaitSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "throttleWaitSeconds",
			Help:    "Time spent waiting on the outbound rate limiter",
			Buckets: []float64{.001, .01, .1, .5, 1, 2.5, 5},
		},
		[]string{"provider"},
	)

	registry.MustRegister(
		WeatherAPICallsTotal, WeatherAPIDuration, WeatherAPIErrorsTotal,
		AdviceAPICallsTotal, AdviceAPIDuration, AdviceAPIErrorsTotal, AdviceTokensTotal,
		RecommendationsTotal, ThrottleWaitSeconds,
	)
}

// StatusLabel maps an HTTP status code to a low-cardinality label.
func StatusLabel(statusCode int) string {
	if statusCode >= 200 && statusCode < 300 {
		return "success"
	}
	if statusCode == 429 {
		return "rate_limited"
	}
	if statusCode >= 400 && statusCode < 500 {
		return "client_error"
	}
	if statusCode >= 500 {
		return "server_error"
	}
	return "error"
}

// RecordRecommendation counts one finished cycle.
func RecordRecommendation(outcome string) {
	RecommendationsTotal.WithLabelValues(outcome).Inc()
}

// WriteTextfile writes the registry in Prometheus text format to path, atomically,
// for pickup by a node-exporter textfile collector. A CLI has no scrape endpoint.
func WriteTextfile(path string) error {
	if path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}

// Gatherer exposes the registry for tests and textfile export.
func Gatherer() prometheus.Gatherer {
	return registry
}
