package metric

import "github.com/prometheus/client_golang/prometheus"

type (
	// MetricsOpts is an option set for metric middlewares.
	MetricsOpts struct {
		Suffix  string
		Buckets []float64
	}

	// ClientOptFn is an option used by a metric middleware.
	ClientOptFn func(*MetricsOpts)
)

// ApplyMetricOpts applies opts to a default option set.
func ApplyMetricOpts(opts ...ClientOptFn) *MetricsOpts {
	o := MetricsOpts{Buckets: prometheus.DefBuckets}
	for _, opt := range opts {
		opt(&o)
	}
	return &o
}

// ApplySuffix returns prefix with the configured suffix appended, if any.
func (o *MetricsOpts) ApplySuffix(prefix string) string {
	if o.Suffix != "" {
		return prefix + "_" + o.Suffix
	}
	return prefix
}

// WithSuffix returns a metric option that applies a suffix to the service name of the metric.
func WithSuffix(suffix string) ClientOptFn {
	return func(opts *MetricsOpts) {
		opts.Suffix = suffix
	}
}

// WithBuckets overrides the histogram buckets of the duration metric.
func WithBuckets(buckets []float64) ClientOptFn {
	return func(opts *MetricsOpts) {
		opts.Buckets = buckets
	}
}
