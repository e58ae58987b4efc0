package prometheus

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"largeimage/pkg/metrics"
)

func TestNewUnitStoreMetrics_Disabled(t *testing.T) {
	metrics.Reset()
	assert.Nil(t, NewUnitStoreMetrics())
}

func TestUnitStoreMetrics_Records(t *testing.T) {
	metrics.InitRegistry()
	defer metrics.Reset()

	m := NewUnitStoreMetrics()
	require.NotNil(t, m)
	um := m.(*unitStoreMetrics)

	m.ObserveLoad(100, time.Millisecond, nil)
	m.ObserveLoad(0, time.Millisecond, errors.New("boom"))
	m.RecordFresh()
	m.RecordFresh()
	m.ObserveFlush(64, 2*time.Millisecond, nil)
	m.RecordEviction(true)
	m.RecordEviction(false)
	m.RecordEviction(false)

	assert.Equal(t, 1.0, testutil.ToFloat64(um.loads.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(um.loads.WithLabelValues("error")))
	assert.Equal(t, 100.0, testutil.ToFloat64(um.loadBytes))
	assert.Equal(t, 2.0, testutil.ToFloat64(um.fresh))
	assert.Equal(t, 64.0, testutil.ToFloat64(um.flushBytes))
	assert.Equal(t, 1.0, testutil.ToFloat64(um.evictions.WithLabelValues("true")))
	assert.Equal(t, 2.0, testutil.ToFloat64(um.evictions.WithLabelValues("false")))

	count, err := testutil.GatherAndCount(metrics.GetRegistry(), "largeimage_unit_flushes_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
