package insights

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strings"

	lru "github.com/hashicorp/golang-lru"
	"github.com/kelseyhightower/envconfig"
	"github.com/mohae/deepcopy"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/tidepool-org/healthlog/metrics"
	"github.com/tidepool-org/healthlog/outbox"
	"github.com/tidepool-org/healthlog/store"
	"github.com/tidepool-org/healthlog/timeline"
	"github.com/tidepool-org/healthlog/vitals"
	"github.com/tidepool-org/healthlog/zones"
)

type Config struct {
	CacheSize int `envconfig:"HEALTHLOG_INSIGHTS_CACHE_SIZE" default:"1024"`
}

func NewConfig() (*Config, error) {
	cfg := &Config{}
	if err := envconfig.Process("", cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ObservationLister loads the complete vitals history of a user in ascending order.
type ObservationLister interface {
	ListAll(ctx context.Context, userId string) ([]vitals.Observation, error)
}

type RefreshOptions struct {
	// Prune removes derived entries which can no longer be derived from the vitals,
	// e.g. after observations were deleted.
	Prune bool
}

type RefreshResult struct {
	ZoneEvents     int   `json:"zoneEvents"`
	Summaries      int   `json:"summaries"`
	Inserted       int   `json:"inserted"`
	Updated        int   `json:"updated"`
	Unchanged      int   `json:"unchanged"`
	AlertsEnqueued int   `json:"alertsEnqueued"`
	Pruned         int64 `json:"pruned"`
}

//go:generate go tool mockgen -source=./service.go -destination=./test/mock_service.go -package test

type Service interface {
	ZoneEvents(ctx context.Context, userId string) ([]ZoneEvent, error)
	MonthlySummaries(ctx context.Context, userId string) ([]MonthlySummary, error)
	Refresh(ctx context.Context, userId string, options RefreshOptions) (*RefreshResult, error)
}

type Params struct {
	fx.In

	Config     *Config
	Vitals     vitals.Repository
	Timeline   timeline.Repository
	Outbox     outbox.Repository
	Transactor store.Transactor
	Metrics    *metrics.Metrics
	Logger     *zap.SugaredLogger
}

func NewService(p Params) (Service, error) {
	return newService(p.Config, p.Vitals, p.Timeline, p.Outbox, p.Transactor, p.Metrics, p.Logger)
}

func newService(cfg *Config, lister ObservationLister, timelineRepo timeline.Repository, outboxRepo outbox.Repository, transactor store.Transactor, m *metrics.Metrics, logger *zap.SugaredLogger) (*service, error) {
	cache, err := lru.New(cfg.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("unable to create derivation cache: %w", err)
	}
	if transactor == nil {
		transactor = store.NoTransaction
	}
	return &service{
		cache:      cache,
		vitals:     lister,
		timeline:   timelineRepo,
		outbox:     outboxRepo,
		transactor: transactor,
		metrics:    m,
		logger:     logger,
	}, nil
}

type service struct {
	cache      *lru.Cache
	vitals     ObservationLister
	timeline   timeline.Repository
	outbox     outbox.Repository
	transactor store.Transactor
	metrics    *metrics.Metrics
	logger     *zap.SugaredLogger
}

type derivation struct {
	Events    []ZoneEvent
	Summaries []MonthlySummary
}

func (s *service) ZoneEvents(ctx context.Context, userId string) ([]ZoneEvent, error) {
	d, err := s.derive(ctx, userId)
	if err != nil {
		return nil, err
	}
	return d.Events, nil
}

func (s *service) MonthlySummaries(ctx context.Context, userId string) ([]MonthlySummary, error) {
	d, err := s.derive(ctx, userId)
	if err != nil {
		return nil, err
	}
	return d.Summaries, nil
}

func (s *service) Refresh(ctx context.Context, userId string, options RefreshOptions) (*RefreshResult, error) {
	d, err := s.derive(ctx, userId)
	if err != nil {
		return nil, err
	}

	events := make(map[string]ZoneEvent, len(d.Events))
	entries := make([]timeline.Entry, 0, len(d.Events)+len(d.Summaries))
	for _, event := range d.Events {
		entry := ZoneEventEntry(userId, event)
		events[entry.Key] = event
		entries = append(entries, entry)
	}
	for _, summary := range d.Summaries {
		entries = append(entries, MonthlySummaryEntry(userId, summary))
	}

	res, err := s.transactor.WithTransaction(ctx, func(ctx context.Context) (any, error) {
		merged, err := s.timeline.Merge(ctx, userId, entries)
		if err != nil {
			return nil, err
		}

		alerts := make([]outbox.Event, 0)
		for _, entry := range merged.Inserted {
			if entry.Category != timeline.CategoryZoneAlert || entry.Zone != zones.Red {
				continue
			}
			alert, err := outbox.NewZoneAlertEvent(zoneAlertPayload(userId, entry, events[entry.Key]))
			if err != nil {
				return nil, err
			}
			alerts = append(alerts, alert)
		}
		if err := s.outbox.CreateMany(ctx, alerts); err != nil {
			return nil, err
		}

		result := &RefreshResult{
			ZoneEvents:     len(d.Events),
			Summaries:      len(d.Summaries),
			Inserted:       len(merged.Inserted),
			Updated:        merged.Updated,
			Unchanged:      merged.Unchanged,
			AlertsEnqueued: len(alerts),
		}
		if options.Prune {
			result.Pruned, err = s.prune(ctx, userId, entries)
			if err != nil {
				return nil, err
			}
		}
		return result, nil
	})
	if err != nil {
		return nil, fmt.Errorf("unable to refresh timeline: %w", err)
	}

	result := res.(*RefreshResult)
	s.recordRefresh(result)
	s.logger.Infow("refreshed timeline",
		"userId", userId,
		"inserted", result.Inserted,
		"updated", result.Updated,
		"alerts", result.AlertsEnqueued,
		"pruned", result.Pruned,
	)
	return result, nil
}

func (s *service) prune(ctx context.Context, userId string, entries []timeline.Entry) (int64, error) {
	keep := map[timeline.Category][]string{
		timeline.CategoryZoneAlert:      {},
		timeline.CategoryMonthlySummary: {},
	}
	for _, entry := range entries {
		keep[entry.Category] = append(keep[entry.Category], entry.Key)
	}

	var pruned int64
	for _, category := range []timeline.Category{timeline.CategoryZoneAlert, timeline.CategoryMonthlySummary} {
		count, err := s.timeline.Prune(ctx, userId, category, keep[category])
		if err != nil {
			return 0, err
		}
		pruned += count
	}
	return pruned, nil
}

func (s *service) recordRefresh(result *RefreshResult) {
	s.metrics.TimelineEntriesMerged.WithLabelValues("derived", "inserted").Add(float64(result.Inserted))
	s.metrics.TimelineEntriesMerged.WithLabelValues("derived", "updated").Add(float64(result.Updated))
	s.metrics.TimelineEntriesMerged.WithLabelValues("derived", "unchanged").Add(float64(result.Unchanged))
	s.metrics.AlertsEnqueued.Add(float64(result.AlertsEnqueued))
}

// derive returns the zone events and monthly summaries of the user, served from the
// cache while the user's observations are unchanged. The returned value is a copy.
func (s *service) derive(ctx context.Context, userId string) (*derivation, error) {
	observations, err := s.vitals.ListAll(ctx, userId)
	if err != nil {
		return nil, err
	}

	key := userId + ":" + Fingerprint(observations)
	if cached, ok := s.cache.Get(key); ok {
		s.metrics.DerivationCache.WithLabelValues("hit").Inc()
		return deepcopy.Copy(cached).(*derivation), nil
	}
	s.metrics.DerivationCache.WithLabelValues("miss").Inc()

	d := &derivation{
		Events:    DeriveZoneEvents(observations),
		Summaries: DeriveMonthlySummaries(observations),
	}
	for _, event := range d.Events {
		s.metrics.ZoneEventsDerived.WithLabelValues(string(event.Metric), string(event.Zone)).Inc()
	}
	s.metrics.SummariesDerived.Add(float64(len(d.Summaries)))

	s.cache.Add(key, d)
	return deepcopy.Copy(d).(*derivation), nil
}

// Fingerprint identifies a list of observations by the ids, recorded times and
// modification times of its elements.
func Fingerprint(observations []vitals.Observation) string {
	h := sha256.New()
	buf := make([]byte, 8)
	for _, o := range observations {
		if o.Id != nil {
			h.Write(o.Id[:])
		}
		binary.BigEndian.PutUint64(buf, uint64(o.RecordedAt.UnixNano()))
		h.Write(buf)
		binary.BigEndian.PutUint64(buf, uint64(o.ModifiedTime.UnixNano()))
		h.Write(buf)
	}
	return hex.EncodeToString(h.Sum(nil))
}

// ZoneEventEntry converts a zone event to an immutable timeline entry. The zone is part of
// the key so that an observation moved to another zone yields a new entry.
func ZoneEventEntry(userId string, event ZoneEvent) timeline.Entry {
	reference := event.ObservedAt.UTC().Format("2006-01-02T15:04:05.000Z")
	if event.ObservationId != nil {
		reference = event.ObservationId.Hex()
	}

	return timeline.Entry{
		Key:       timeline.NewKey(userId, timeline.CategoryZoneAlert, string(event.Metric), string(event.Zone), reference),
		UserId:    userId,
		Title:     fmt.Sprintf("%s: %s", event.Metric.DisplayName(), cases.Title(language.English).String(string(event.Zone))),
		Details:   fmt.Sprintf("%s. %s", event.ValueSummary, event.Insight),
		Date:      event.ObservedAt,
		Category:  timeline.CategoryZoneAlert,
		RelatedId: reference,
		Zone:      event.Zone,
	}
}

// MonthlySummaryEntry converts a monthly summary to a timeline entry which is replaced
// whenever the summary of the month changes.
func MonthlySummaryEntry(userId string, summary MonthlySummary) timeline.Entry {
	details := fmt.Sprintf("%d observations.", summary.Observations)
	if len(summary.Flags) > 0 {
		details += " " + strings.Join(summary.Flags, ", ") + "."
	}

	worst := zones.Green
	for _, zone := range summary.Zones {
		if zone.Rank() > worst.Rank() {
			worst = zone
		}
	}

	return timeline.Entry{
		Key:         timeline.NewKey(userId, timeline.CategoryMonthlySummary, summary.MonthKey),
		UserId:      userId,
		Title:       "Monthly summary " + summary.MonthKey,
		Details:     details,
		Date:        summary.AnchorDate,
		Category:    timeline.CategoryMonthlySummary,
		RelatedId:   summary.MonthKey,
		Zone:        worst,
		Flags:       summary.Flags,
		Replaceable: true,
	}
}

func zoneAlertPayload(userId string, entry timeline.Entry, event ZoneEvent) outbox.ZoneAlertPayload {
	payload := outbox.ZoneAlertPayload{
		UserId:       userId,
		Metric:       event.Metric,
		Zone:         event.Zone,
		ValueSummary: event.ValueSummary,
		Insight:      event.Insight,
		ObservedAt:   event.ObservedAt,
	}
	if entry.Id != nil {
		payload.EntryId = entry.Id.Hex()
	}
	return payload
}
