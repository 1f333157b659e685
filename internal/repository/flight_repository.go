package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/ali-7097/Airline-Ticket-Purchasing-System---SkyLink/internal/model"
)

// FlightRepo manages scheduled flights.
type FlightRepo struct{ db *sql.DB }

func NewFlightRepo(db *sql.DB) *FlightRepo { return &FlightRepo{db: db} }

// FlightRow is a flight with the template and airport details shown in
// lists, tickets and booking screens.
type FlightRow struct {
	ID                uint64           `json:"id"`
	FlightTemplateID  uint64           `json:"flight_template_id"`
	DepartureDatetime time.Time        `json:"departure_datetime"`
	ArrivalDatetime   time.Time        `json:"arrival_datetime"`
	TimezoneDiff      int              `json:"timezone_diff"`
	IsActive          bool             `json:"is_active"`
	FlightNumber      string           `json:"flight_number"`
	AirlineID         uint64           `json:"airline_id"`
	AirlineName       string           `json:"airline_name"`
	AircraftID        uint64           `json:"aircraft_id"`
	DepartureAirport  string           `json:"departure_airport"`
	DepartureIATA     string           `json:"departure_iata"`
	DepartureCity     string           `json:"departure_city"`
	ArrivalAirport    string           `json:"arrival_airport"`
	ArrivalIATA       string           `json:"arrival_iata"`
	ArrivalCity       string           `json:"arrival_city"`
	Duration          string           `json:"duration"`
	BasePrice         float64          `json:"base_price"`
	FlightType        model.FlightType `json:"flight_type"`
	// DiscountPercentage is the flight's first discount, 0 without one.
	DiscountPercentage float64 `json:"discount_percentage"`
}

const flightRowSelect = `
	SELECT f.id, f.flight_template_id, f.departure_datetime, f.arrival_datetime, f.timezone_diff, f.is_active,
	       ft.flight_number, al.id, al.name, ft.aircraft_id,
	       dep.name, dep.iata_code, dep.city, arr.name, arr.iata_code, arr.city,
	       TIME_FORMAT(ft.duration, '%H:%i'), ft.base_price, ft.flight_type,
	       COALESCE((SELECT d.discount_percentage FROM discounts d WHERE d.flight_id = f.id ORDER BY d.id LIMIT 1), 0)
	FROM flights f
	JOIN flight_templates ft ON ft.id = f.flight_template_id
	JOIN airlines al ON al.id = ft.airline_id
	JOIN airports dep ON dep.id = ft.departure_airport_id
	JOIN airports arr ON arr.id = ft.arrival_airport_id`

func scanFlightRow(row interface{ Scan(...any) error }) (FlightRow, error) {
	var f FlightRow
	err := row.Scan(&f.ID, &f.FlightTemplateID, &f.DepartureDatetime, &f.ArrivalDatetime, &f.TimezoneDiff, &f.IsActive,
		&f.FlightNumber, &f.AirlineID, &f.AirlineName, &f.AircraftID,
		&f.DepartureAirport, &f.DepartureIATA, &f.DepartureCity, &f.ArrivalAirport, &f.ArrivalIATA, &f.ArrivalCity,
		&f.Duration, &f.BasePrice, &f.FlightType, &f.DiscountPercentage)
	return f, err
}

// Get returns one flight with its details.
func (r *FlightRepo) Get(ctx context.Context, id uint64) (FlightRow, error) {
	f, err := scanFlightRow(r.db.QueryRowContext(ctx, flightRowSelect+" WHERE f.id = ?", id))
	return f, notFound(err)
}

// List returns every flight, latest departure first.
func (r *FlightRepo) List(ctx context.Context) ([]FlightRow, error) {
	rows, err := r.db.QueryContext(ctx, flightRowSelect+" ORDER BY f.departure_datetime DESC, f.id DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []FlightRow
	for rows.Next() {
		f, err := scanFlightRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// Create schedules a flight of a template.  New flights are active.
func (r *FlightRepo) Create(ctx context.Context, f model.Flight) (uint64, error) {
	id, err := insertID(r.db.ExecContext(ctx, `
		INSERT INTO flights (flight_template_id, departure_datetime, arrival_datetime, timezone_diff, is_active)
		VALUES (?,?,?,?,1)`,
		f.FlightTemplateID, f.DepartureDatetime, f.ArrivalDatetime, f.TimezoneDiff))
	return id, reference(err)
}

// Update rewrites the schedule of a flight.  The active flag is left as
// is; use Toggle for that.
func (r *FlightRepo) Update(ctx context.Context, f model.Flight) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE flights SET flight_template_id = ?, departure_datetime = ?, arrival_datetime = ?, timezone_diff = ?
		WHERE id = ?`,
		f.FlightTemplateID, f.DepartureDatetime, f.ArrivalDatetime, f.TimezoneDiff, f.ID)
	if err != nil {
		return reference(err)
	}
	return expectRow(ctx, r.db, res, "SELECT COUNT(*) FROM flights WHERE id = ?", f.ID)
}

// Toggle flips the active flag and returns the new value.
func (r *FlightRepo) Toggle(ctx context.Context, id uint64) (bool, error) {
	res, err := r.db.ExecContext(ctx, "UPDATE flights SET is_active = NOT is_active WHERE id = ?", id)
	if err != nil {
		return false, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return false, ErrNotFound
	}
	var active bool
	err = r.db.QueryRowContext(ctx, "SELECT is_active FROM flights WHERE id = ?", id).Scan(&active)
	return active, notFound(err)
}

// Bookable reports whether a flight can still be booked at now: active
// and departing in the future.
func (f FlightRow) Bookable(now time.Time) bool {
	return f.IsActive && f.DepartureDatetime.After(now)
}

// expectRow turns a zero-row UPDATE into ErrNotFound unless the row exists
// with identical values, in which case MySQL reports zero affected rows.
func expectRow(ctx context.Context, db *sql.DB, res sql.Result, countQuery string, id uint64) error {
	if n, _ := res.RowsAffected(); n > 0 {
		return nil
	}
	var n int
	if err := db.QueryRowContext(ctx, countQuery, id).Scan(&n); err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
