package services

import (
	"context"
	"fmt"
	"time"

	"github.com/TeodorGlobalworth/MeteringGraph/internal/logger"
	"github.com/TeodorGlobalworth/MeteringGraph/internal/repos"
	"github.com/TeodorGlobalworth/MeteringGraph/internal/types"
)

type ReadingService interface {
	Add(ctx context.Context, projectID int64, nodeID string, value float64, unit string, at *time.Time) (*types.Reading, error)
	List(ctx context.Context, projectID int64, nodeID string, limit, offset int) ([]*types.Reading, error)
	ListRange(ctx context.Context, projectID int64, nodeID string, from, to time.Time) ([]*types.Reading, error)
	Daily(ctx context.Context, projectID int64, nodeID string, days int) ([]*types.DailyReading, error)
}

type readingService struct {
	readings repos.ReadingRepo
	log      *logger.Logger
	clock    func() time.Time
}

func NewReadingService(readings repos.ReadingRepo, baseLog *logger.Logger) ReadingService {
	return &readingService{
		readings: readings,
		log:      baseLog.With("service", "ReadingService"),
		clock:    time.Now,
	}
}

func (s *readingService) Add(ctx context.Context, projectID int64, nodeID string, value float64, unit string, at *time.Time) (*types.Reading, error) {
	if unit == "" {
		return nil, fmt.Errorf("%w: unit is required", types.ErrInvalidArgument)
	}
	ts := s.clock().UTC()
	if at != nil {
		ts = at.UTC()
	}
	reading := &types.Reading{
		Time:      ts,
		ProjectID: projectID,
		NodeID:    nodeID,
		Value:     value,
		Unit:      unit,
	}
	if err := s.readings.Insert(ctx, nil, []*types.Reading{reading}); err != nil {
		return nil, err
	}
	return reading, nil
}

func (s *readingService) List(ctx context.Context, projectID int64, nodeID string, limit, offset int) ([]*types.Reading, error) {
	return s.readings.ListByNode(ctx, nil, projectID, nodeID, limit, offset)
}

func (s *readingService) ListRange(ctx context.Context, projectID int64, nodeID string, from, to time.Time) ([]*types.Reading, error) {
	return s.readings.ListByNodeRange(ctx, nil, projectID, nodeID, from, to)
}

func (s *readingService) Daily(ctx context.Context, projectID int64, nodeID string, days int) ([]*types.DailyReading, error) {
	return s.readings.DailyAggregates(ctx, nil, projectID, nodeID, days)
}
