package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConversionsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewConversions(reg)
	require.NoError(t, err)

	m.Observe("pptx2md", "succeeded", 2*time.Second, 4096)
	m.Observe("pptx2md", "failed", time.Second, 0)
	m.Observe("pandoc", "succeeded", 500*time.Millisecond, 2048)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.total.WithLabelValues("pptx2md", "succeeded")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.total.WithLabelValues("pptx2md", "failed")))
	assert.Equal(t, 2, testutil.CollectAndCount(m.duration))
	assert.Equal(t, 1, testutil.CollectAndCount(m.archive))

	families, err := reg.Gather()
	require.NoError(t, err)
	for _, f := range families {
		if f.GetName() == "conversion_archive_bytes" {
			assert.Equal(t, uint64(2), f.GetMetric()[0].GetHistogram().GetSampleCount())
		}
	}
}

func TestNewConversionsDuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewConversions(reg)
	require.NoError(t, err)

	_, err = NewConversions(reg)
	assert.Error(t, err)
}

func TestNilConversionsIsNoop(t *testing.T) {
	var m *Conversions
	assert.NotPanics(t, func() { m.Observe("aspose", "succeeded", time.Second, 1) })
}
