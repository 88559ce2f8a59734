package metrics

import (
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/baditaflorin/go_edit_similarity/internal/core/domain"
)

// DefaultNamespace prefixes every exported metric.
const DefaultNamespace = "edit_similarity"

// PrometheusObserver exports revision scoring metrics to Prometheus.
type PrometheusObserver struct {
	ratio     *prometheus.HistogramVec
	duration  *prometheus.HistogramVec
	flagged   *prometheus.CounterVec
	cancelled *prometheus.CounterVec
}

// NewPrometheusObserver registers the scoring metrics with reg.
func NewPrometheusObserver(namespace string, reg prometheus.Registerer) (*PrometheusObserver, error) {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	o := &PrometheusObserver{
		ratio: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "ratio",
			Help:      "Normalized edit distance between drafts and their revisions.",
			Buckets:   prometheus.LinearBuckets(0.1, 0.1, 10),
		}, []string{"metric"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "compute_duration_seconds",
			Help:      "Time spent scoring a revision.",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 10),
		}, []string{"metric"}),
		flagged: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "flagged_total",
			Help:      "Revisions whose ratio reached the review threshold.",
		}, []string{"metric"}),
		cancelled: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cancelled_total",
			Help:      "Computations abandoned because the context ended.",
		}, []string{"metric"}),
	}

	var err error
	if o.ratio, err = register(reg, o.ratio); err != nil {
		return nil, err
	}
	if o.duration, err = register(reg, o.duration); err != nil {
		return nil, err
	}
	if o.flagged, err = register(reg, o.flagged); err != nil {
		return nil, err
	}
	if o.cancelled, err = register(reg, o.cancelled); err != nil {
		return nil, err
	}
	return o, nil
}

// register adds c to reg, reusing an identical collector registered earlier.
func register[T prometheus.Collector](reg prometheus.Registerer, c T) (T, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing, nil
			}
		}
		return c, fmt.Errorf("register edit similarity metric: %w", err)
	}
	return c, nil
}

// ObserveResult records one computation.
func (o *PrometheusObserver) ObserveResult(result domain.Result, elapsed time.Duration) {
	if o == nil {
		return
	}
	name := result.Name
	if result.Cancelled() {
		o.cancelled.WithLabelValues(name).Inc()
		return
	}
	o.duration.WithLabelValues(name).Observe(elapsed.Seconds())
	o.ratio.WithLabelValues(name).Observe(result.Ratio)
	if result.Flagged {
		o.flagged.WithLabelValues(name).Inc()
	}
}
