package shim

import (
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Environment variables read by ConfigFromEnv.
const (
	EnvLogLevel         = "XGBSHIM_LOG_LEVEL"
	EnvMetrics          = "XGBSHIM_METRICS"
	EnvMetricsNamespace = "XGBSHIM_METRICS_NAMESPACE"
	EnvTracing          = "XGBSHIM_TRACING"
	EnvStrictColumns    = "XGBSHIM_STRICT_COLUMNS"
)

// Metrics backends selectable through EnvMetrics.
const (
	MetricsNone       = "none"
	MetricsPrometheus = "prometheus"
	MetricsOTel       = "otel"
)

// EnvConfig is the process-level configuration of a c-shared build.
type EnvConfig struct {
	LogLevel         zapcore.Level
	Metrics          string
	MetricsNamespace string
	Tracing          bool
	StrictColumns    bool
}

// ConfigFromEnv reads EnvConfig through getenv, typically os.Getenv.
func ConfigFromEnv(getenv func(string) string) (EnvConfig, error) {
	cfg := EnvConfig{
		LogLevel:      zapcore.WarnLevel,
		Metrics:       MetricsNone,
		StrictColumns: true,
	}
	if getenv == nil {
		return cfg, nil
	}

	if raw := strings.TrimSpace(getenv(EnvLogLevel)); raw != "" {
		level, err := zapcore.ParseLevel(raw)
		if err != nil {
			return cfg, errors.Wrapf(err, "%s", EnvLogLevel)
		}
		cfg.LogLevel = level
	}

	switch raw := strings.ToLower(strings.TrimSpace(getenv(EnvMetrics))); raw {
	case "", MetricsNone:
	case MetricsPrometheus, MetricsOTel:
		cfg.Metrics = raw
	default:
		return cfg, errors.Newf("%s: unknown metrics backend %q", EnvMetrics, raw)
	}
	cfg.MetricsNamespace = strings.TrimSpace(getenv(EnvMetricsNamespace))

	if raw := strings.TrimSpace(getenv(EnvTracing)); raw != "" {
		enabled, err := strconv.ParseBool(raw)
		if err != nil {
			return cfg, errors.Wrapf(err, "%s", EnvTracing)
		}
		cfg.Tracing = enabled
	}

	if raw := strings.TrimSpace(getenv(EnvStrictColumns)); raw != "" {
		strict, err := strconv.ParseBool(raw)
		if err != nil {
			return cfg, errors.Wrapf(err, "%s", EnvStrictColumns)
		}
		cfg.StrictColumns = strict
	}
	return cfg, nil
}

// Build turns the environment configuration into a table Config with a zap
// production logger and the selected telemetry backends.
func (c EnvConfig) Build() (Config, error) {
	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(c.LogLevel)
	logger, err := zcfg.Build()
	if err != nil {
		return Config{}, errors.Wrap(err, "build logger")
	}

	cfg := Config{
		LenientColumns:   !c.StrictColumns,
		StructuredLogger: logger.Sugar().Named("xgbshim"),
	}

	switch c.Metrics {
	case MetricsPrometheus:
		metrics, err := NewPrometheusMetrics(PrometheusMetricsOptions{Namespace: c.MetricsNamespace})
		if err != nil {
			return Config{}, errors.Wrap(err, "prometheus metrics")
		}
		cfg.Metrics = metrics
	case MetricsOTel:
		metrics, err := NewOTelMetrics(OTelMetricsOptions{})
		if err != nil {
			return Config{}, errors.Wrap(err, "otel metrics")
		}
		cfg.Metrics = metrics
	}

	if c.Tracing {
		cfg.Tracer = NewOTelTracer(otel.Tracer("github.com/rocketbitz/xgboost-go/shim"))
	}
	return cfg, nil
}

// NewFromEnv builds a table configured from the environment. On a
// configuration error it still returns a usable table with defaults.
func NewFromEnv(getenv func(string) string) (*Table, error) {
	env, err := ConfigFromEnv(getenv)
	cfg, buildErr := env.Build()
	if buildErr != nil {
		return New(Config{}), errors.CombineErrors(err, buildErr)
	}
	return New(cfg), err
}
