package metrics_test

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itemhub/item-service/internal/metrics"
	"github.com/itemhub/item-service/internal/processor"
)

func TestNew_RegistersInstruments(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	m.UnitsTotal.WithLabelValues("completed").Inc()
	m.RunsTotal.WithLabelValues("ok").Inc()

	families, err := reg.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "process_units_total")
	assert.Contains(t, names, "process_runs_total")
	assert.Contains(t, names, "worker_queue_depth")
}

func TestProcessorHooks(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	hooks := m.ProcessorHooks()

	hooks.OnUnit(processor.UnitCompleted, time.Millisecond)
	hooks.OnUnit(processor.UnitCompleted, time.Millisecond)
	hooks.OnUnit(processor.UnitAbsent, time.Millisecond)
	hooks.OnRun(2, nil, time.Second)
	hooks.OnRun(0, errors.New("boom"), time.Second)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.UnitsTotal.WithLabelValues("completed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.UnitsTotal.WithLabelValues("absent")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RunsTotal.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RunsTotal.WithLabelValues("failed")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.ItemsProcessed))
}

func TestPoolHooks(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	hooks := m.PoolHooks()

	hooks.OnDepth(7)
	hooks.OnPanic()
	hooks.OnTaskDone(time.Millisecond, time.Millisecond)

	assert.Equal(t, 7.0, testutil.ToFloat64(m.QueueDepth))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.TaskPanics))
	assert.Equal(t, 1, testutil.CollectAndCount(m.TaskRun))
}
