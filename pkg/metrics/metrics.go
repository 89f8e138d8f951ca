// Package metrics provides Prometheus observability for the pooling and
// scheduling layer: budget pressure, admission outcomes and pool occupancy.
//
// # Basic Usage
//
//	metrics.Admissions.WithLabelValues("explosion_large", "high").Inc()
//	metrics.BudgetCost.Set(float64(scheduler.GetActiveCost()))
//
// Counters are monotonic admission/rejection tallies; gauges track the
// current budget cost and per-pool occupancy. All collectors register
// through promauto at package load.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Admissions counts play requests that passed admission control.
	// Labels: type (effect type id), priority (tier name)
	Admissions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cinder_effect_admissions_total",
			Help: "Total number of admitted effect plays",
		},
		[]string{"type", "priority"},
	)

	// Rejections counts play requests that were rejected.
	// Labels: type, reason (not_registered/distance/budget/rate_limited/pool_exhausted)
	Rejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cinder_effect_rejections_total",
			Help: "Total number of rejected effect plays",
		},
		[]string{"type", "reason"},
	)

	// AutoReleases counts effects returned to their pool by the auto-release
	// timer rather than an explicit stop.
	AutoReleases = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cinder_effect_auto_releases_total",
			Help: "Total number of timer-driven effect releases",
		},
		[]string{"type"},
	)

	// BudgetCost tracks the current process-wide particle cost.
	BudgetCost = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cinder_budget_cost",
			Help: "Current total particle cost of active effects",
		},
	)

	// ActiveEffects tracks the number of currently active effect instances.
	ActiveEffects = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cinder_active_effects",
			Help: "Number of currently active effect instances",
		},
	)

	// PoolAvailable tracks per-pool available instance counts.
	PoolAvailable = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cinder_pool_available",
			Help: "Available instances per pool",
		},
		[]string{"pool"},
	)

	// PoolActive tracks per-pool active instance counts.
	PoolActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cinder_pool_active",
			Help: "Active instances per pool",
		},
		[]string{"pool"},
	)
)
