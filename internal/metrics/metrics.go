package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/itemhub/item-service/internal/processor"
	"github.com/itemhub/item-service/internal/worker"
)

// Metrics groups all Prometheus instruments used across the application.
// Registered once at startup via New(); passed by pointer wherever needed.
type Metrics struct {
	UnitsTotal     *prometheus.CounterVec
	UnitLatency    prometheus.Histogram
	RunsTotal      *prometheus.CounterVec
	RunDuration    prometheus.Histogram
	ItemsProcessed prometheus.Counter

	TaskWait   prometheus.Histogram
	TaskRun    prometheus.Histogram
	TaskPanics prometheus.Counter
	QueueDepth prometheus.Gauge
}

// New registers all instruments with the given Prometheus registerer and
// returns the populated Metrics struct.
// Using a custom registry (instead of prometheus.DefaultRegisterer) keeps
// tests isolated and avoids global state.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		UnitsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "process_units_total",
			Help: "Units of work finished by bulk processing, by terminal state.",
		}, []string{"state"}),

		UnitLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "process_unit_seconds",
			Help:    "Time one unit spends from start to terminal state.",
			Buckets: prometheus.DefBuckets,
		}),

		RunsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "process_runs_total",
			Help: "ProcessAll calls, by result.",
		}, []string{"result"}),

		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "process_run_seconds",
			Help:    "Wall time of a ProcessAll call including the barrier wait.",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
		}),

		ItemsProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "items_processed_total",
			Help: "Items returned by successful ProcessAll calls.",
		}),

		TaskWait: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "worker_task_wait_seconds",
			Help:    "Time a task spent queued before a worker picked it up.",
			Buckets: prometheus.DefBuckets,
		}),

		TaskRun: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "worker_task_run_seconds",
			Help:    "Time a worker spent running a task.",
			Buckets: prometheus.DefBuckets,
		}),

		TaskPanics: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "worker_task_panics_total",
			Help: "Tasks that panicked and were recovered by a worker.",
		}),

		QueueDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "worker_queue_depth",
			Help: "Tasks waiting in the worker queue.",
		}),
	}

	reg.MustRegister(
		m.UnitsTotal,
		m.UnitLatency,
		m.RunsTotal,
		m.RunDuration,
		m.ItemsProcessed,
		m.TaskWait,
		m.TaskRun,
		m.TaskPanics,
		m.QueueDepth,
	)

	return m
}

// PoolHooks returns the callbacks expected by worker.NewPool.
// Centralises the prometheus observation calls so the worker package stays
// import-free.
func (m *Metrics) PoolHooks() worker.MetricHooks {
	return worker.MetricHooks{
		OnTaskDone: func(wait, run time.Duration) {
			m.TaskWait.Observe(wait.Seconds())
			m.TaskRun.Observe(run.Seconds())
		},
		OnPanic: m.TaskPanics.Inc,
		OnDepth: func(depth int) { m.QueueDepth.Set(float64(depth)) },
	}
}

// ProcessorHooks returns the callbacks expected by processor.New.
func (m *Metrics) ProcessorHooks() processor.MetricHooks {
	return processor.MetricHooks{
		OnUnit: func(state processor.UnitState, latency time.Duration) {
			m.UnitsTotal.WithLabelValues(string(state)).Inc()
			m.UnitLatency.Observe(latency.Seconds())
		},
		OnRun: func(processed int, err error, elapsed time.Duration) {
			m.RunDuration.Observe(elapsed.Seconds())
			if err != nil {
				m.RunsTotal.WithLabelValues("failed").Inc()
				return
			}
			m.RunsTotal.WithLabelValues("ok").Inc()
			m.ItemsProcessed.Add(float64(processed))
		},
	}
}
