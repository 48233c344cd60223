package repository

import (
	"context"
	"fmt"
	"time"

	"transit-hub/internal/data/entity"
	"transit-hub/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// ScheduleSearchRow is one search result joined with carrier, endpoints and
// the live availability counter. Availability read here is a lock-free
// snapshot and may be stale by the time a booking is attempted.
type ScheduleSearchRow struct {
	ScheduleID     uuid.UUID `json:"schedule_id"`
	CarrierNumber  string    `json:"carrier_number"`
	CarrierName    string    `json:"carrier_name"`
	SourceCode     string    `json:"source_code"`
	SourceName     string    `json:"source_name"`
	DestCode       string    `json:"destination_code"`
	DestName       string    `json:"destination_name"`
	TravelDate     time.Time `json:"travel_date"`
	DepartureTime  time.Time `json:"departure_time"`
	ArrivalTime    time.Time `json:"arrival_time"`
	ClassCode      string    `json:"class_code"`
	QuotaCode      string    `json:"quota_code"`
	BaseFare       float64   `json:"base_fare"`
	AvailableSeats int       `json:"available_seats"`
	TotalSeats     int       `json:"total_seats"`
}

type ScheduleRepository interface {
	Create(ctx context.Context, s *entity.Schedule) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Schedule, error)
	SearchTrains(ctx context.Context, sourceCode, destCode string, travelDate time.Time) ([]*ScheduleSearchRow, error)
	SearchFlights(ctx context.Context, sourceCode, destCode string, travelDate time.Time) ([]*ScheduleSearchRow, error)
}

type scheduleRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewScheduleRepository(db database.PgxIface, log *zap.Logger) ScheduleRepository {
	return &scheduleRepository{
		db:  db,
		log: log.With(zap.String("repository", "schedule")),
	}
}

func (r *scheduleRepository) Create(ctx context.Context, s *entity.Schedule) error {
	query := `
		INSERT INTO schedules (id, schedule_type, carrier_id, source_id, destination_id, travel_date,
		                       departure_time, arrival_time, class_code, quota_code, base_fare, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err := r.db.Exec(ctx, query,
		s.ID,
		s.Type,
		s.CarrierID,
		s.SourceID,
		s.DestinationID,
		s.TravelDate,
		s.DepartureTime,
		s.ArrivalTime,
		s.ClassCode,
		s.QuotaCode,
		s.BaseFare,
		s.CreatedAt,
		s.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create schedule",
			zap.Error(err),
			zap.String("schedule_id", s.ID.String()),
		)
		return fmt.Errorf("create schedule %s: %w", s.ID.String(), err)
	}

	return nil
}

func (r *scheduleRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Schedule, error) {
	query := `
		SELECT id, schedule_type, carrier_id, source_id, destination_id, travel_date,
		       departure_time, arrival_time, class_code, quota_code, base_fare, created_at, updated_at
		FROM schedules
		WHERE id = $1
	`

	var s entity.Schedule
	err := r.db.QueryRow(ctx, query, id).Scan(
		&s.ID,
		&s.Type,
		&s.CarrierID,
		&s.SourceID,
		&s.DestinationID,
		&s.TravelDate,
		&s.DepartureTime,
		&s.ArrivalTime,
		&s.ClassCode,
		&s.QuotaCode,
		&s.BaseFare,
		&s.CreatedAt,
		&s.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find schedule by ID",
			zap.Error(err),
			zap.String("schedule_id", id.String()),
		)
		return nil, fmt.Errorf("find schedule by ID %s: %w", id.String(), err)
	}

	return &s, nil
}

func (r *scheduleRepository) SearchTrains(ctx context.Context, sourceCode, destCode string, travelDate time.Time) ([]*ScheduleSearchRow, error) {
	query := `
		SELECT s.id, t.number, t.name,
		       src.code, src.name, dst.code, dst.name,
		       s.travel_date, s.departure_time, s.arrival_time,
		       s.class_code, s.quota_code, s.base_fare,
		       i.available_seats, i.total_seats
		FROM schedules s
		JOIN trains t ON t.id = s.carrier_id
		JOIN stations src ON src.id = s.source_id
		JOIN stations dst ON dst.id = s.destination_id
		JOIN schedule_inventory i ON i.schedule_id = s.id
		WHERE s.schedule_type = 'train'
		  AND src.code = $1 AND dst.code = $2 AND s.travel_date = $3
		ORDER BY s.departure_time
	`

	return r.search(ctx, query, sourceCode, destCode, travelDate)
}

func (r *scheduleRepository) SearchFlights(ctx context.Context, sourceCode, destCode string, travelDate time.Time) ([]*ScheduleSearchRow, error) {
	query := `
		SELECT s.id, f.number, f.airline,
		       src.code, src.name, dst.code, dst.name,
		       s.travel_date, s.departure_time, s.arrival_time,
		       s.class_code, s.quota_code, s.base_fare,
		       i.available_seats, i.total_seats
		FROM schedules s
		JOIN flights f ON f.id = s.carrier_id
		JOIN airports src ON src.id = s.source_id
		JOIN airports dst ON dst.id = s.destination_id
		JOIN schedule_inventory i ON i.schedule_id = s.id
		WHERE s.schedule_type = 'flight'
		  AND src.code = $1 AND dst.code = $2 AND s.travel_date = $3
		ORDER BY s.departure_time
	`

	return r.search(ctx, query, sourceCode, destCode, travelDate)
}

func (r *scheduleRepository) search(ctx context.Context, query, sourceCode, destCode string, travelDate time.Time) ([]*ScheduleSearchRow, error) {
	rows, err := r.db.Query(ctx, query, sourceCode, destCode, travelDate)
	if err != nil {
		r.log.Error("Failed to search schedules",
			zap.Error(err),
			zap.String("source", sourceCode),
			zap.String("destination", destCode),
		)
		return nil, fmt.Errorf("search schedules %s-%s: %w", sourceCode, destCode, err)
	}
	defer rows.Close()

	var results []*ScheduleSearchRow
	for rows.Next() {
		var row ScheduleSearchRow
		err := rows.Scan(
			&row.ScheduleID,
			&row.CarrierNumber,
			&row.CarrierName,
			&row.SourceCode,
			&row.SourceName,
			&row.DestCode,
			&row.DestName,
			&row.TravelDate,
			&row.DepartureTime,
			&row.ArrivalTime,
			&row.ClassCode,
			&row.QuotaCode,
			&row.BaseFare,
			&row.AvailableSeats,
			&row.TotalSeats,
		)
		if err != nil {
			r.log.Error("Failed to scan schedule search row", zap.Error(err))
			return nil, fmt.Errorf("scan schedule search row: %w", err)
		}
		results = append(results, &row)
	}

	return results, nil
}
