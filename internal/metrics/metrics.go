// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "health_triage"

// Collector wraps a private registry so tests can create independent instances.
type Collector struct {
	registry *prometheus.Registry

	Classifications     *prometheus.CounterVec
	DoctorAlerts        *prometheus.CounterVec
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
}

func New() *Collector {
	reg := prometheus.NewRegistry()

	c := &Collector{
		registry: reg,
		Classifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "classifications_total",
			Help:      "Classifications performed, by kind and resulting tier",
		}, []string{"kind", "tier"}),
		DoctorAlerts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "doctor_alerts_total",
			Help:      "Doctor alerts attempted, by outcome",
		}, []string{"status"}),
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests handled",
		}, []string{"method", "route", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	reg.MustRegister(
		c.Classifications,
		c.DoctorAlerts,
		c.HTTPRequestsTotal,
		c.HTTPRequestDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return c
}

// RecordClassification counts one classification. Safe on a nil Collector.
func (c *Collector) RecordClassification(kind, tier string) {
	if c == nil {
		return
	}
	c.Classifications.WithLabelValues(kind, tier).Inc()
}

// RecordDoctorAlert counts one alert attempt. Safe on a nil Collector.
func (c *Collector) RecordDoctorAlert(err error) {
	if c == nil {
		return
	}
	status := "sent"
	if err != nil {
		status = "failed"
	}
	c.DoctorAlerts.WithLabelValues(status).Inc()
}

func (c *Collector) RecordHTTPRequest(method, route string, status int, d time.Duration) {
	if c == nil {
		return
	}
	c.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.HTTPRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}
