package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baditaflorin/go_edit_similarity/internal/core/domain"
)

func TestPrometheusObserverRecords(t *testing.T) {
	reg := prometheus.NewRegistry()
	obs, err := NewPrometheusObserver("", reg)
	require.NoError(t, err)

	obs.ObserveResult(domain.Result{Name: "edit_ratio", Ratio: 0.5, Flagged: true}, time.Millisecond)
	obs.ObserveResult(domain.Result{Name: "edit_ratio", Ratio: 0.1}, time.Millisecond)
	obs.ObserveResult(domain.Result{
		Name:    "edit_ratio",
		Details: map[string]interface{}{"error": "computation cancelled"},
	}, 0)

	assert.Equal(t, 1.0, testutil.ToFloat64(obs.flagged.WithLabelValues("edit_ratio")))
	assert.Equal(t, 1.0, testutil.ToFloat64(obs.cancelled.WithLabelValues("edit_ratio")))
	assert.Equal(t, 1, testutil.CollectAndCount(obs.ratio))

	families, err := reg.Gather()
	require.NoError(t, err)
	var samples uint64
	for _, mf := range families {
		if mf.GetName() == "edit_similarity_ratio" {
			samples = mf.GetMetric()[0].GetHistogram().GetSampleCount()
		}
	}
	assert.EqualValues(t, 2, samples)
}

func TestPrometheusObserverReusesRegistered(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := NewPrometheusObserver("draft", reg)
	require.NoError(t, err)
	second, err := NewPrometheusObserver("draft", reg)
	require.NoError(t, err)

	first.ObserveResult(domain.Result{Name: "edit_ratio", Ratio: 0.9, Flagged: true}, 0)
	second.ObserveResult(domain.Result{Name: "edit_ratio", Ratio: 0.9, Flagged: true}, 0)

	assert.Equal(t, 2.0, testutil.ToFloat64(second.flagged.WithLabelValues("edit_ratio")))
}

func TestNilObserverIsSafe(t *testing.T) {
	var obs *PrometheusObserver
	assert.NotPanics(t, func() {
		obs.ObserveResult(domain.Result{Ratio: 1}, 0)
	})
}
