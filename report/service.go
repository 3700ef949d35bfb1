package report

import (
	"context"
	"fmt"
	"time"

	"github.com/tealeg/xlsx/v3"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/tidepool-org/healthlog/adherence"
	"github.com/tidepool-org/healthlog/insights"
	"github.com/tidepool-org/healthlog/store"
	"github.com/tidepool-org/healthlog/timeline"
	"github.com/tidepool-org/healthlog/vitals"
)

const (
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	// TimelineLimit is the number of most recent timeline entries included in a report
	TimelineLimit = store.MaxLimit
)

//go:generate go tool mockgen -source=./service.go -destination=./test/mock_service.go -package test

type Service interface {
	Generate(ctx context.Context, userId string) (*xlsx.File, error)
}

type Params struct {
	fx.In

	Vitals    vitals.Repository
	Insights  insights.Service
	Timeline  timeline.Repository
	Adherence adherence.Repository
	Logger    *zap.SugaredLogger
	Clock     adherence.Clock `optional:"true"`
}

type service struct {
	vitals    vitals.Repository
	insights  insights.Service
	timeline  timeline.Repository
	adherence adherence.Repository
	logger    *zap.SugaredLogger
	clock     adherence.Clock
}

func NewService(p Params) Service {
	clock := p.Clock
	if clock == nil {
		clock = time.Now
	}
	return &service{
		vitals:    p.Vitals,
		insights:  p.Insights,
		timeline:  p.Timeline,
		adherence: p.Adherence,
		logger:    p.Logger,
		clock:     clock,
	}
}

func (s *service) Generate(ctx context.Context, userId string) (*xlsx.File, error) {
	data, err := s.collect(ctx, userId)
	if err != nil {
		return nil, fmt.Errorf("unable to collect report data: %w", err)
	}

	file, err := NewReport(*data).Generate()
	if err != nil {
		return nil, fmt.Errorf("unable to generate report: %w", err)
	}

	s.logger.Infow("generated report",
		"userId", userId,
		"observations", len(data.Observations),
		"entries", len(data.Timeline),
		"days", len(data.Days),
	)
	return file, nil
}

func (s *service) collect(ctx context.Context, userId string) (*Data, error) {
	observations, err := s.vitals.ListAll(ctx, userId)
	if err != nil {
		return nil, err
	}
	events, err := s.insights.ZoneEvents(ctx, userId)
	if err != nil {
		return nil, err
	}
	summaries, err := s.insights.MonthlySummaries(ctx, userId)
	if err != nil {
		return nil, err
	}
	entries, err := s.timeline.List(ctx, &timeline.Filter{UserId: userId}, store.DefaultPagination().WithLimit(TimelineLimit))
	if err != nil {
		return nil, err
	}
	days, err := s.adherence.ListAll(ctx, userId)
	if err != nil {
		return nil, err
	}

	return &Data{
		UserId:       userId,
		GeneratedAt:  s.clock().UTC(),
		Observations: observations,
		Events:       events,
		Summaries:    summaries,
		Timeline:     entries,
		Days:         days,
		Streak:       adherence.ComputeStreaks(days),
	}, nil
}
