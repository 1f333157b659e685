package repository

import (
	"context"
	"database/sql"

	"github.com/ali-7097/Airline-Ticket-Purchasing-System---SkyLink/internal/model"
)

// CatalogRepo serves the static reference data: airlines, airports and
// aircraft.  It backs the location pickers of the search form and the
// admin template form.
type CatalogRepo struct{ DB *sql.DB }

func NewCatalogRepo(db *sql.DB) *CatalogRepo { return &CatalogRepo{DB: db} }

// Airlines lists every airline by name.
func (r *CatalogRepo) Airlines(ctx context.Context) ([]model.Airline, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id, name, iata_code, icao_code, support_email FROM airlines ORDER BY name, id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Airline
	for rows.Next() {
		var a model.Airline
		if err := rows.Scan(&a.ID, &a.Name, &a.IATACode, &a.ICAOCode, &a.SupportEmail); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// Countries lists the distinct countries that have at least one airport.
func (r *CatalogRepo) Countries(ctx context.Context) ([]string, error) {
	return r.strings(ctx, "SELECT DISTINCT country FROM airports ORDER BY country")
}

// Cities lists the distinct cities with an airport in country.
func (r *CatalogRepo) Cities(ctx context.Context, country string) ([]string, error) {
	return r.strings(ctx, "SELECT DISTINCT city FROM airports WHERE country = ? ORDER BY city", country)
}

// Airports lists airports, all of them when city is empty.
func (r *CatalogRepo) Airports(ctx context.Context, city string) ([]model.Airport, error) {
	q := "SELECT id, name, city, country, iata_code, icao_code FROM airports"
	var args []any
	if city != "" {
		q += " WHERE city = ?"
		args = append(args, city)
	}
	q += " ORDER BY name, id"
	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Airport
	for rows.Next() {
		var a model.Airport
		if err := rows.Scan(&a.ID, &a.Name, &a.City, &a.Country, &a.IATACode, &a.ICAOCode); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// AircraftRow is an aircraft with its airline name, as listed on the
// template form.
type AircraftRow struct {
	ID          uint64 `json:"id"`
	AirlineID   uint64 `json:"airline_id"`
	Model       string `json:"model"`
	TotalSeats  uint32 `json:"total_seats"`
	AirlineName string `json:"airline_name"`
}

// Aircraft lists every aircraft with its airline.
func (r *CatalogRepo) Aircraft(ctx context.Context) ([]AircraftRow, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT ac.id, ac.airline_id, ac.model, ac.total_seats, al.name
		FROM aircrafts ac
		JOIN airlines al ON al.id = ac.airline_id
		ORDER BY al.name, ac.model, ac.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []AircraftRow
	for rows.Next() {
		var a AircraftRow
		if err := rows.Scan(&a.ID, &a.AirlineID, &a.Model, &a.TotalSeats, &a.AirlineName); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *CatalogRepo) strings(ctx context.Context, q string, args ...any) ([]string, error) {
	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []string{}
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// CreateAirline inserts an airline and returns its ID.
func (r *CatalogRepo) CreateAirline(ctx context.Context, a model.Airline) (uint64, error) {
	return insertID(r.DB.ExecContext(ctx,
		"INSERT INTO airlines (name, iata_code, icao_code, support_email) VALUES (?,?,?,?)",
		a.Name, a.IATACode, a.ICAOCode, a.SupportEmail))
}

// CreateAirport inserts an airport and returns its ID.
func (r *CatalogRepo) CreateAirport(ctx context.Context, a model.Airport) (uint64, error) {
	return insertID(r.DB.ExecContext(ctx,
		"INSERT INTO airports (name, city, country, iata_code, icao_code) VALUES (?,?,?,?,?)",
		a.Name, a.City, a.Country, a.IATACode, a.ICAOCode))
}

// CreateAircraft inserts an aircraft and its seat layout in one
// transaction.  TotalSeats is taken from len(seats).
func (r *CatalogRepo) CreateAircraft(ctx context.Context, a model.Aircraft, seats []model.Seat) (uint64, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	id, err := insertID(tx.ExecContext(ctx,
		"INSERT INTO aircrafts (airline_id, model, total_seats) VALUES (?,?,?)",
		a.AirlineID, a.Model, len(seats)))
	if err != nil {
		return 0, err
	}
	if err := createSeatsTx(ctx, tx, id, seats); err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	committed = true
	return id, nil
}

// insertID unwraps the result of an INSERT into the generated id.
func insertID(res sql.Result, err error) (uint64, error) {
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}
