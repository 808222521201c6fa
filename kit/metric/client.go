// Package metric provides rate, error and duration (RED) metrics for service
// layer middlewares.
package metric

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/storefront/storefront/kit/platform/errors"
)

// REDClient records the rate, errors and duration of calls made through a
// service.
type REDClient struct {
	callCount *prometheus.CounterVec
	errCount  *prometheus.CounterVec
	duration  *prometheus.HistogramVec
}

// New creates a REDClient whose metrics are named storefront_<service>_* and
// registers them with reg.
func New(reg prometheus.Registerer, service string, opts ...ClientOptFn) *REDClient {
	o := ApplyMetricOpts(opts...)

	const namespace = "storefront"
	c := &REDClient{
		callCount: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: service,
			Name:      "call_total",
			Help:      "Number of calls",
		}, []string{"method"}),
		errCount: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: service,
			Name:      "error_total",
			Help:      "Number of errors encountered",
		}, []string{"method", "code"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: service,
			Name:      "duration",
			Help:      "Duration of calls",
			Buckets:   o.Buckets,
		}, []string{"method"}),
	}

	reg.MustRegister(c.callCount, c.errCount, c.duration)
	return c
}

// Record starts timing method. The returned func records the outcome and
// passes err through unchanged so it can wrap a return statement.
func (c *REDClient) Record(method string) func(error) error {
	start := time.Now()
	return func(err error) error {
		c.callCount.WithLabelValues(method).Inc()
		if err != nil {
			c.errCount.WithLabelValues(method, errors.ErrorCode(err)).Inc()
		}
		c.duration.WithLabelValues(method).Observe(time.Since(start).Seconds())
		return err
	}
}
