package obs

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors used by the service.
type Metrics struct {
	HTTPRequests  *prometheus.CounterVec
	HTTPLatency   *prometheus.HistogramVec
	Estimates     *prometheus.CounterVec
	Inference     prometheus.Histogram
	ModelMissing  prometheus.Counter
	DistanceCalls *prometheus.CounterVec
}

// NewMetrics registers the service metrics on the provided registerer.
// If reg is nil, the default registerer is used. If the collectors are
// already registered, the existing ones are reused.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "route", "status"}),
		HTTPLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		Estimates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "route_time_estimates_total",
			Help: "Route-time estimations by outcome",
		}, []string{"outcome"}),
		Inference: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "route_time_inference_seconds",
			Help:    "Model inference latency",
			Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1},
		}),
		ModelMissing: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "route_time_model_missing_total",
			Help: "Predictions answered with the zero fallback because no model is loaded",
		}),
		DistanceCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "route_time_distance_lookups_total",
			Help: "Distance lookups by result",
		}, []string{"result"}),
	}

	var err error
	if m.HTTPRequests, err = register(reg, m.HTTPRequests); err != nil {
		return nil, err
	}
	if m.HTTPLatency, err = register(reg, m.HTTPLatency); err != nil {
		return nil, err
	}
	if m.Estimates, err = register(reg, m.Estimates); err != nil {
		return nil, err
	}
	if m.Inference, err = register(reg, m.Inference); err != nil {
		return nil, err
	}
	if m.ModelMissing, err = register(reg, m.ModelMissing); err != nil {
		return nil, err
	}
	if m.DistanceCalls, err = register(reg, m.DistanceCalls); err != nil {
		return nil, err
	}
	return m, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}
