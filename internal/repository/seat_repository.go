package repository // repository defines data access for seats

import (
	"context"      // context allows query cancellation and timeouts
	"database/sql" // sql provides DB primitives
	"strings"

	"github.com/ali-7097/Airline-Ticket-Purchasing-System---SkyLink/internal/model"
)

// SeatRepo answers seat availability questions.  Seats belong to an
// aircraft and are shared by every flight it flies, so "available" is
// always relative to one flight.
type SeatRepo struct {
	db *sql.DB
}

// NewSeatRepo constructs a SeatRepo with the given DB handle.
func NewSeatRepo(db *sql.DB) *SeatRepo {
	return &SeatRepo{db: db}
}

// createSeatsTx inserts a seat layout for an aircraft in a single
// statement.  Passing an empty slice has no effect.
func createSeatsTx(ctx context.Context, tx *sql.Tx, aircraftID uint64, seats []model.Seat) error {
	if len(seats) == 0 {
		return nil
	}
	var sb strings.Builder
	sb.WriteString("INSERT INTO seats (aircraft_id, seat_number, class, position) VALUES ")
	args := make([]any, 0, len(seats)*4)
	for i, s := range seats {
		if i > 0 {
			sb.WriteString(",")
		}
		sb.WriteString("(?, ?, ?, ?)")
		args = append(args, aircraftID, s.SeatNumber, s.Class, s.Position)
	}
	_, err := tx.ExecContext(ctx, sb.String(), args...)
	return err
}

// availableSeatsQuery selects the seats of the flight's aircraft in one
// cabin that no reservation of the flight references and no other user
// holds.  Args: flight id, class, flight id, flight id, user id.
const availableSeatsQuery = `
	SELECT s.id, s.aircraft_id, s.seat_number, s.class, s.position
	FROM flights f
	JOIN flight_templates ft ON ft.id = f.flight_template_id
	JOIN seats s ON s.aircraft_id = ft.aircraft_id
	WHERE f.id = ? AND s.class = ?
	  AND NOT EXISTS (
	      SELECT 1 FROM reservation_seats rs
	      WHERE rs.flight_id = ? AND rs.seat_id = s.id)
	  AND NOT EXISTS (
	      SELECT 1 FROM seat_holds h
	      WHERE h.flight_id = ? AND h.seat_id = s.id
	        AND h.user_id <> ? AND h.expires_at > UTC_TIMESTAMP())
	ORDER BY s.id`

// AvailableForFlight lists the seats userID may choose on flightID in the
// given cabin.  Seats held by userID are included.
func (r *SeatRepo) AvailableForFlight(ctx context.Context, flightID uint64, class model.SeatClass, userID uint64) ([]model.Seat, error) {
	rows, err := r.db.QueryContext(ctx, availableSeatsQuery, flightID, class, flightID, flightID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Seat{}
	for rows.Next() {
		var s model.Seat
		if err := rows.Scan(&s.ID, &s.AircraftID, &s.SeatNumber, &s.Class, &s.Position); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// AvailableSet is AvailableForFlight as a lookup set of seat ids.
func (r *SeatRepo) AvailableSet(ctx context.Context, flightID uint64, class model.SeatClass, userID uint64) (map[uint64]bool, error) {
	seats, err := r.AvailableForFlight(ctx, flightID, class, userID)
	if err != nil {
		return nil, err
	}
	set := make(map[uint64]bool, len(seats))
	for _, s := range seats {
		set[s.ID] = true
	}
	return set, nil
}

// PreferredFirst reorders seats so those at pos come first, keeping the
// relative order otherwise.  An empty pos returns seats unchanged.
func PreferredFirst(seats []model.Seat, pos model.SeatPosition) []model.Seat {
	if pos == "" {
		return seats
	}
	out := make([]model.Seat, 0, len(seats))
	for _, s := range seats {
		if s.Position == pos {
			out = append(out, s)
		}
	}
	for _, s := range seats {
		if s.Position != pos {
			out = append(out, s)
		}
	}
	return out
}
