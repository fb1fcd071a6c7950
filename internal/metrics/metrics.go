package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP Metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameHTTPRequestsTotal,
			Help: HelpTextHTTPRequestsTotal,
		},
		[]string{LabelMethod, LabelPath, LabelStatus},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricNameHTTPRequestDuration,
			Help:    HelpTextHTTPRequestDuration,
			Buckets: HTTPLatencyBuckets,
		},
		[]string{LabelMethod, LabelPath},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameHTTPRequestsInFlight,
			Help: HelpTextHTTPRequestsInFlight,
		},
	)
)

// Dispenser Metrics
var (
	DispenseOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameDispenseOutcomes,
			Help: HelpTextDispenseOutcomes,
		},
		[]string{LabelOutcome},
	)

	SlotMutations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameSlotMutations,
			Help: HelpTextSlotMutations,
		},
		[]string{LabelOperation},
	)

	AlarmCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameAlarmCacheLookups,
			Help: HelpTextAlarmCacheLookups,
		},
		[]string{LabelResult},
	)

	SkipSweepMarked = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameSkipSweepMarked,
			Help: HelpTextSkipSweepMarked,
		},
	)

	SkipSweepRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameSkipSweepRuns,
			Help: HelpTextSkipSweepRuns,
		},
		[]string{LabelResult},
	)
)
