package usecase

import (
	"context"
	"fmt"
	"time"

	"transit-hub/internal/data/repository"
	"transit-hub/internal/dto/request"
	"transit-hub/internal/dto/response"
	"transit-hub/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type SearchService interface {
	SearchSchedules(ctx context.Context, req *request.SearchSchedulesRequest) ([]response.ScheduleSearchResponse, error)
	GetAvailability(ctx context.Context, scheduleID uuid.UUID) (*response.AvailabilityResponse, error)
}

type searchService struct {
	repo  *repository.Repository
	cache AvailabilityCache
	log   *zap.Logger
}

func NewSearchService(repo *repository.Repository, cache AvailabilityCache, log *zap.Logger) SearchService {
	return &searchService{
		repo:  repo,
		cache: cache,
		log:   log.With(zap.String("service", "search")),
	}
}

func (s *searchService) SearchSchedules(ctx context.Context, req *request.SearchSchedulesRequest) ([]response.ScheduleSearchResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Search validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	travelDate, err := time.Parse("2006-01-02", req.TravelDate)
	if err != nil {
		return nil, fmt.Errorf("invalid travel date %s: %w", req.TravelDate, err)
	}

	var rows []*repository.ScheduleSearchRow
	if req.Type == "train" {
		rows, err = s.repo.Schedule.SearchTrains(ctx, req.SourceCode, req.DestCode, travelDate)
	} else {
		rows, err = s.repo.Schedule.SearchFlights(ctx, req.SourceCode, req.DestCode, travelDate)
	}
	if err != nil {
		return nil, err
	}

	results := make([]response.ScheduleSearchResponse, len(rows))
	for i, row := range rows {
		results[i] = response.SearchRowToResponse(row)
	}

	s.log.Info("Schedules searched",
		zap.String("type", req.Type),
		zap.String("route", req.SourceCode+"-"+req.DestCode),
		zap.String("travel_date", req.TravelDate),
		zap.Int("results", len(results)),
	)

	return results, nil
}

// GetAvailability serves the seats-left snapshot. Cache first, database on
// a miss; the answer is stale-tolerant and never takes the schedule lock.
func (s *searchService) GetAvailability(ctx context.Context, scheduleID uuid.UUID) (*response.AvailabilityResponse, error) {
	resp := &response.AvailabilityResponse{ScheduleID: scheduleID.String()}

	if s.cache != nil {
		if seats, ok, err := s.cache.GetAvailability(ctx, scheduleID); err == nil && ok {
			resp.AvailableSeats = seats
			length, err := s.repo.Waitlist.CountBySchedule(ctx, scheduleID)
			if err != nil {
				return nil, err
			}
			resp.WaitlistLength = length
			return resp, nil
		}
	}

	inv, err := s.repo.Inventory.FindByScheduleID(ctx, scheduleID)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, fmt.Errorf("schedule %s: %w", scheduleID.String(), ErrNotFound)
	}
	resp.AvailableSeats = inv.AvailableSeats

	length, err := s.repo.Waitlist.CountBySchedule(ctx, scheduleID)
	if err != nil {
		return nil, err
	}
	resp.WaitlistLength = length

	if s.cache != nil {
		if err := s.cache.SetAvailability(ctx, scheduleID, inv.AvailableSeats); err != nil {
			s.log.Warn("Failed to backfill availability snapshot",
				zap.Error(err),
				zap.String("schedule_id", scheduleID.String()),
			)
		}
	}

	return resp, nil
}
