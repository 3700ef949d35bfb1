package adherence

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/tidepool-org/healthlog/config"
	"github.com/tidepool-org/healthlog/metrics"
	"github.com/tidepool-org/healthlog/store"
	"github.com/tidepool-org/healthlog/timeline"
)

// Clock returns the current time.
type Clock func() time.Time

type Params struct {
	fx.In

	Config     *config.Config
	Repository Repository
	Timeline   timeline.Repository
	Transactor store.Transactor
	Metrics    *metrics.Metrics
	Logger     *zap.SugaredLogger
	Clock      Clock `optional:"true"`
}

type service struct {
	Repository

	timeline   timeline.Repository
	transactor store.Transactor
	metrics    *metrics.Metrics
	logger     *zap.SugaredLogger
	location   *time.Location
	clock      Clock
}

var _ Service = &service{}

func NewService(p Params) (Service, error) {
	location, err := p.Config.GetLocation()
	if err != nil {
		return nil, fmt.Errorf("invalid location %q: %w", p.Config.Location, err)
	}

	clock := p.Clock
	if clock == nil {
		clock = time.Now
	}
	transactor := p.Transactor
	if transactor == nil {
		transactor = store.NoTransaction
	}

	return &service{
		Repository: p.Repository,
		timeline:   p.Timeline,
		transactor: transactor,
		metrics:    p.Metrics,
		logger:     p.Logger,
		location:   location,
		clock:      clock,
	}, nil
}

func (s *service) MarkTaken(ctx context.Context, userId string, medication Medication) (*MarkTakenResult, error) {
	if err := medication.Validate(); err != nil {
		return nil, err
	}

	now := s.clock().In(s.location)
	today := DateKey(now)

	res, err := s.transactor.WithTransaction(ctx, func(ctx context.Context) (any, error) {
		days, err := s.Repository.ListAll(ctx, userId)
		if err != nil {
			return nil, err
		}

		updated := MarkTaken(days, medication, now)
		result := &MarkTakenResult{}
		for _, day := range updated {
			if day.Date == today {
				result.Day = day
				break
			}
		}
		result.Day.UserId = userId

		for _, day := range days {
			if day.Date == today && day.HasTaken(medication.Id) {
				result.AlreadyTaken = true
			}
		}

		if !result.AlreadyTaken {
			stored, err := s.Repository.Upsert(ctx, result.Day)
			if err != nil {
				return nil, err
			}
			result.Day = *stored
			for i := range updated {
				if updated[i].Date == today {
					updated[i] = *stored
				}
			}
		}
		result.Streak = ComputeStreaks(updated)

		if !result.AlreadyTaken {
			if _, err := s.timeline.Merge(ctx, userId, []timeline.Entry{DayEntry(userId, result.Day, result.Streak, now)}); err != nil {
				return nil, err
			}
		}
		return result, nil
	})
	if err != nil {
		return nil, fmt.Errorf("unable to mark medication as taken: %w", err)
	}

	result := res.(*MarkTakenResult)
	s.metrics.StreakComputations.Inc()
	if result.AlreadyTaken {
		s.metrics.DosesMarked.WithLabelValues("duplicate").Inc()
		s.logger.Debugw("medication was already taken today", "userId", userId, "medicationId", medication.Id, "date", today)
	} else {
		s.metrics.DosesMarked.WithLabelValues("taken").Inc()
		s.logger.Infow("medication taken", "userId", userId, "medicationId", medication.Id, "date", today, "score", result.Day.AdherenceScore)
	}
	return result, nil
}

func (s *service) Streaks(ctx context.Context, userId string) (Streak, error) {
	days, err := s.Repository.ListAll(ctx, userId)
	if err != nil {
		return Streak{}, err
	}
	s.metrics.StreakComputations.Inc()
	return ComputeStreaks(days), nil
}

// DayEntry converts an adherence day to a timeline entry which is replaced every time a
// medication is taken that day.
func DayEntry(userId string, day Day, streak Streak, now time.Time) timeline.Entry {
	related := day.Date
	if day.Id != nil {
		related = day.Id.Hex()
	}

	return timeline.Entry{
		Key:         timeline.NewKey(userId, timeline.CategoryAdherence, day.Date),
		UserId:      userId,
		Title:       "Medication adherence " + day.Date,
		Details:     fmt.Sprintf("%d medications taken, score %d. Current streak %d days, best %d.", len(day.TakenMedications), day.AdherenceScore, streak.Current, streak.Best),
		Date:        now.UTC(),
		Category:    timeline.CategoryAdherence,
		RelatedId:   related,
		Replaceable: true,
	}
}
