package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "healthlog"

// Metrics bundles the prometheus collectors of the service.
type Metrics struct {
	ZoneEventsDerived     *prometheus.CounterVec
	SummariesDerived      prometheus.Counter
	DerivationCache       *prometheus.CounterVec
	TimelineEntriesMerged *prometheus.CounterVec
	AlertsEnqueued        prometheus.Counter
	DosesMarked           *prometheus.CounterVec
	StreakComputations    prometheus.Counter
}

func NewRegistry() *prometheus.Registry {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return registry
}

func New(registry *prometheus.Registry) *Metrics {
	m := &Metrics{
		ZoneEventsDerived: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "zone_events_derived_total",
			Help:      "Total number of zone transition events derived from vitals.",
		}, []string{"metric", "zone"}),
		SummariesDerived: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "monthly_summaries_derived_total",
			Help:      "Total number of monthly vitals summaries derived.",
		}),
		DerivationCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "derivation_cache_requests_total",
			Help:      "Derivation cache lookups by result.",
		}, []string{"result"}),
		TimelineEntriesMerged: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "timeline_entries_merged_total",
			Help:      "Timeline entries merged by category and outcome.",
		}, []string{"category", "outcome"}),
		AlertsEnqueued: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "zone_alerts_enqueued_total",
			Help:      "Total number of red zone alerts enqueued for notification.",
		}),
		DosesMarked: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "doses_marked_total",
			Help:      "Medication doses marked as taken by outcome.",
		}, []string{"outcome"}),
		StreakComputations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "adherence_streak_computations_total",
			Help:      "Total number of adherence streak computations.",
		}),
	}

	registry.MustRegister(
		m.ZoneEventsDerived,
		m.SummariesDerived,
		m.DerivationCache,
		m.TimelineEntriesMerged,
		m.AlertsEnqueued,
		m.DosesMarked,
		m.StreakComputations,
	)

	return m
}

// NewNop returns collectors registered with a throwaway registry, for tests and tools
// which don't expose metrics.
func NewNop() *Metrics {
	return New(prometheus.NewRegistry())
}

func Handler(registry *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry})
}
