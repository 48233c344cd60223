package repository

import (
	"context"
	"fmt"

	"transit-hub/internal/data/entity"
	"transit-hub/pkg/database"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type PassengerRepository interface {
	CreateBatch(ctx context.Context, passengers []*entity.Passenger) error
	FindByBookingID(ctx context.Context, bookingID uuid.UUID) ([]*entity.Passenger, error)
	AssignSeatNumbers(ctx context.Context, bookingID uuid.UUID, seatNumbers []string) error
	DeleteByBookingID(ctx context.Context, bookingID uuid.UUID) error
}

type passengerRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewPassengerRepository(db database.PgxIface, log *zap.Logger) PassengerRepository {
	return &passengerRepository{
		db:  db,
		log: log.With(zap.String("repository", "passenger")),
	}
}

func (r *passengerRepository) CreateBatch(ctx context.Context, passengers []*entity.Passenger) error {
	if len(passengers) == 0 {
		return nil
	}

	query := `INSERT INTO passengers (id, booking_id, name, age, gender, seat_number, created_at) VALUES `
	args := make([]any, 0, len(passengers)*7)
	for i, p := range passengers {
		if i > 0 {
			query += ", "
		}
		base := i * 7
		query += fmt.Sprintf("($%d, $%d, $%d, $%d, $%d, $%d, $%d)",
			base+1, base+2, base+3, base+4, base+5, base+6, base+7)
		args = append(args, p.ID, p.BookingID, p.Name, p.Age, p.Gender, p.SeatNumber, p.CreatedAt)
	}

	_, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to create passengers",
			zap.Error(err),
			zap.String("booking_id", passengers[0].BookingID.String()),
			zap.Int("count", len(passengers)),
		)
		return fmt.Errorf("create %d passengers: %w", len(passengers), err)
	}

	return nil
}

func (r *passengerRepository) FindByBookingID(ctx context.Context, bookingID uuid.UUID) ([]*entity.Passenger, error) {
	query := `
		SELECT id, booking_id, name, age, gender, seat_number, created_at
		FROM passengers
		WHERE booking_id = $1
		ORDER BY created_at, id
	`

	rows, err := r.db.Query(ctx, query, bookingID)
	if err != nil {
		r.log.Error("Failed to find passengers by booking ID",
			zap.Error(err),
			zap.String("booking_id", bookingID.String()),
		)
		return nil, fmt.Errorf("find passengers by booking ID %s: %w", bookingID.String(), err)
	}
	defer rows.Close()

	var passengers []*entity.Passenger
	for rows.Next() {
		var p entity.Passenger
		err := rows.Scan(&p.ID, &p.BookingID, &p.Name, &p.Age, &p.Gender, &p.SeatNumber, &p.CreatedAt)
		if err != nil {
			r.log.Error("Failed to scan passenger row", zap.Error(err))
			return nil, fmt.Errorf("scan passenger row: %w", err)
		}
		passengers = append(passengers, &p)
	}

	return passengers, nil
}

// AssignSeatNumbers writes one seat label per passenger, in the stable
// creation order returned by FindByBookingID.
func (r *passengerRepository) AssignSeatNumbers(ctx context.Context, bookingID uuid.UUID, seatNumbers []string) error {
	passengers, err := r.FindByBookingID(ctx, bookingID)
	if err != nil {
		return err
	}
	if len(passengers) != len(seatNumbers) {
		return fmt.Errorf("assign seats booking %s: %d passengers, %d seats", bookingID.String(), len(passengers), len(seatNumbers))
	}

	query := `UPDATE passengers SET seat_number = $2 WHERE id = $1`
	for i, p := range passengers {
		if _, err := r.db.Exec(ctx, query, p.ID, seatNumbers[i]); err != nil {
			r.log.Error("Failed to assign seat number",
				zap.Error(err),
				zap.String("passenger_id", p.ID.String()),
				zap.String("seat", seatNumbers[i]),
			)
			return fmt.Errorf("assign seat %s to passenger %s: %w", seatNumbers[i], p.ID.String(), err)
		}
	}

	return nil
}

func (r *passengerRepository) DeleteByBookingID(ctx context.Context, bookingID uuid.UUID) error {
	query := `DELETE FROM passengers WHERE booking_id = $1`

	if _, err := r.db.Exec(ctx, query, bookingID); err != nil {
		r.log.Error("Failed to delete passengers",
			zap.Error(err),
			zap.String("booking_id", bookingID.String()),
		)
		return fmt.Errorf("delete passengers of booking %s: %w", bookingID.String(), err)
	}

	return nil
}
