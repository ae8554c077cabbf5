package shim

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusMetricsOptions configures NewPrometheusMetrics.
type PrometheusMetricsOptions struct {
	Registerer  prometheus.Registerer
	Namespace   string
	Subsystem   string
	ConstLabels prometheus.Labels
	// Buckets overrides the operation duration histogram buckets.
	Buckets []float64
}

var _ MetricHook = (*PrometheusMetrics)(nil)

// PrometheusMetrics implements MetricHook using Prometheus counters and a
// duration histogram.
type PrometheusMetrics struct {
	modelsCreated       *prometheus.CounterVec
	modelsReleased      *prometheus.CounterVec
	operationsCompleted *prometheus.CounterVec
	operationsFailed    *prometheus.CounterVec
	operationDuration   *prometheus.HistogramVec
}

// NewPrometheusMetrics constructs a MetricHook backed by Prometheus collectors.
func NewPrometheusMetrics(opts PrometheusMetricsOptions) (*PrometheusMetrics, error) {
	reg := opts.Registerer
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	buckets := opts.Buckets
	if buckets == nil {
		buckets = prometheus.ExponentialBuckets(0.0005, 4, 10)
	}

	p := &PrometheusMetrics{
		modelsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   opts.Namespace,
			Subsystem:   opts.Subsystem,
			Name:        "xgboost_shim_models_created_total",
			Help:        "Number of models registered by create or load",
			ConstLabels: opts.ConstLabels,
		}, createdLabelKeys),
		modelsReleased: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   opts.Namespace,
			Subsystem:   opts.Subsystem,
			Name:        "xgboost_shim_models_released_total",
			Help:        "Number of models released by destroy",
			ConstLabels: opts.ConstLabels,
		}, releasedLabelKeys),
		operationsCompleted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   opts.Namespace,
			Subsystem:   opts.Subsystem,
			Name:        "xgboost_shim_operations_completed_total",
			Help:        "Number of handle operations that succeeded",
			ConstLabels: opts.ConstLabels,
		}, operationLabelKeys),
		operationsFailed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   opts.Namespace,
			Subsystem:   opts.Subsystem,
			Name:        "xgboost_shim_operations_failed_total",
			Help:        "Number of handle operations that returned a non-zero status",
			ConstLabels: opts.ConstLabels,
		}, operationLabelKeys),
		operationDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   opts.Namespace,
			Subsystem:   opts.Subsystem,
			Name:        "xgboost_shim_operation_duration_seconds",
			Help:        "Duration of successful handle operations",
			ConstLabels: opts.ConstLabels,
			Buckets:     buckets,
		}, durationLabelKeys),
	}

	var err error
	if p.modelsCreated, err = registerCounterVec(reg, p.modelsCreated); err != nil {
		return nil, err
	}
	if p.modelsReleased, err = registerCounterVec(reg, p.modelsReleased); err != nil {
		return nil, err
	}
	if p.operationsCompleted, err = registerCounterVec(reg, p.operationsCompleted); err != nil {
		return nil, err
	}
	if p.operationsFailed, err = registerCounterVec(reg, p.operationsFailed); err != nil {
		return nil, err
	}
	if p.operationDuration, err = registerHistogramVec(reg, p.operationDuration); err != nil {
		return nil, err
	}

	return p, nil
}

var (
	createdLabelKeys   = []string{labelSource}
	releasedLabelKeys  = []string{}
	operationLabelKeys = []string{labelOperation, labelStatus}
	durationLabelKeys  = []string{labelOperation}
)

func (p *PrometheusMetrics) ModelCreated(attrs map[string]string) {
	p.modelsCreated.With(labels(attrs, createdLabelKeys...)).Inc()
}

func (p *PrometheusMetrics) ModelReleased(attrs map[string]string) {
	p.modelsReleased.With(labels(attrs, releasedLabelKeys...)).Inc()
}

func (p *PrometheusMetrics) OperationCompleted(op string, elapsed time.Duration, attrs map[string]string) {
	labs := labels(attrs, operationLabelKeys...)
	labs[labelOperation] = op
	p.operationsCompleted.With(labs).Inc()
	p.operationDuration.WithLabelValues(op).Observe(elapsed.Seconds())
}

func (p *PrometheusMetrics) OperationFailed(op string, _ error, attrs map[string]string) {
	labs := labels(attrs, operationLabelKeys...)
	labs[labelOperation] = op
	p.operationsFailed.With(labs).Inc()
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
		}
		return nil, err
	}
	return vec, nil
}

func registerHistogramVec(reg prometheus.Registerer, vec *prometheus.HistogramVec) (*prometheus.HistogramVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.HistogramVec); ok {
				return existing, nil
			}
		}
		return nil, err
	}
	return vec, nil
}

func labels(attrs map[string]string, keys ...string) prometheus.Labels {
	labs := make(prometheus.Labels, len(keys))
	for _, key := range keys {
		labs[key] = attrs[key]
	}
	return labs
}
