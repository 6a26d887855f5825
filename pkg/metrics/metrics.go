package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/arnavshah/duty-roster-go/pkg/models"
	"github.com/arnavshah/duty-roster-go/pkg/scheduler"
)

// Collector exposes roster generation and swap metrics
type Collector struct {
	generationsTotal   prometheus.Counter
	assignmentsTotal   *prometheus.CounterVec
	shortfallSlots     prometheus.Gauge
	generationDuration prometheus.Histogram
	swapsTotal         *prometheus.CounterVec
}

// NewCollector registers the roster metrics on reg
func NewCollector(reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)
	return &Collector{
		generationsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "roster_generations_total",
				Help: "Total number of successful roster generations",
			},
		),
		assignmentsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "roster_assignments_total",
				Help: "Total number of assignments produced, by kind",
			},
			[]string{"kind"},
		),
		shortfallSlots: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "roster_shortfall_slots",
				Help: "Number of under-filled slots in the current roster",
			},
		),
		generationDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "roster_generation_duration_seconds",
				Help:    "Duration of roster generation",
				Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms .. ~2s
			},
		),
		swapsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "roster_swaps_total",
				Help: "Total number of swap requests, by result",
			},
			[]string{"result"},
		),
	}
}

// Generated records a finished generation
func (c *Collector) Generated(r *models.Roster, elapsed time.Duration) {
	c.generationsTotal.Inc()
	c.generationDuration.Observe(elapsed.Seconds())
	c.shortfallSlots.Set(float64(len(r.Shortfalls)))

	for _, a := range r.Assignments {
		c.assignmentsTotal.WithLabelValues(string(a.Kind)).Inc()
	}
}

// Swapped records a swap attempt; rejected swaps are labelled by cause
func (c *Collector) Swapped(err error) {
	c.swapsTotal.WithLabelValues(swapResult(err)).Inc()
}

// swapResult maps a swap error to a metric label
func swapResult(err error) string {
	var violation *scheduler.ConstraintViolation
	switch {
	case err == nil:
		return "ok"
	case errors.As(err, &violation):
		return "rejected"
	default:
		return "error"
	}
}
