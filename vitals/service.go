package vitals

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/TwiN/deepmerge"
	"go.uber.org/zap"

	"github.com/tidepool-org/healthlog/errors"
)

type service struct {
	Repository

	logger *zap.SugaredLogger
}

var _ Service = &service{}

func NewService(repo Repository, logger *zap.SugaredLogger) (Service, error) {
	return &service{
		Repository: repo,
		logger:     logger,
	}, nil
}

func (s *service) Create(ctx context.Context, observation Observation) (*Observation, error) {
	if err := observation.Validate(); err != nil {
		return nil, err
	}
	observation.RecordedAt = observation.RecordedAt.UTC()
	return s.Repository.Create(ctx, observation)
}

func (s *service) Update(ctx context.Context, userId string, id string, observation Observation) (*Observation, error) {
	observation.UserId = userId
	if err := observation.Validate(); err != nil {
		return nil, err
	}
	observation.RecordedAt = observation.RecordedAt.UTC()
	return s.Repository.Update(ctx, userId, id, observation)
}

// Patch merges a partial JSON document into the stored observation. Keys set to null
// clear the corresponding measurement.
func (s *service) Patch(ctx context.Context, userId string, id string, patch []byte) (*Observation, error) {
	existing, err := s.Repository.Get(ctx, userId, id)
	if err != nil {
		return nil, err
	}

	current, err := json.Marshal(existing)
	if err != nil {
		return nil, fmt.Errorf("unable to marshal observation: %w", err)
	}

	merged, err := deepmerge.JSON(current, patch, deepmerge.Config{
		PreventMultipleDefinitionsOfKeysWithPrimitiveValue: false,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: unable to apply patch: %s", errors.BadRequest, err.Error())
	}

	var observation Observation
	if err := json.Unmarshal(merged, &observation); err != nil {
		return nil, fmt.Errorf("%w: unable to apply patch: %s", errors.BadRequest, err.Error())
	}

	s.logger.Debugw("patching observation", "userId", userId, "id", id)
	return s.Update(ctx, userId, id, observation)
}
