package repository

import (
	"context"
	"database/sql"

	"github.com/ali-7097/Airline-Ticket-Purchasing-System---SkyLink/internal/model"
	"github.com/ali-7097/Airline-Ticket-Purchasing-System---SkyLink/internal/pricing"
)

// TemplateRepo manages flight templates and their price rows.
type TemplateRepo struct{ db *sql.DB }

func NewTemplateRepo(db *sql.DB) *TemplateRepo { return &TemplateRepo{db: db} }

// TemplateRow is a template joined with the names shown in admin lists.
type TemplateRow struct {
	ID                 uint64           `json:"id"`
	AirlineID          uint64           `json:"airline_id"`
	AircraftID         uint64           `json:"aircraft_id"`
	FlightNumber       string           `json:"flight_number"`
	DepartureAirportID uint64           `json:"departure_airport_id"`
	ArrivalAirportID   uint64           `json:"arrival_airport_id"`
	Duration           string           `json:"duration"`
	BasePrice          float64          `json:"base_price"`
	FlightType         model.FlightType `json:"flight_type"`
	AirlineName        string           `json:"airline_name"`
	AircraftModel      string           `json:"aircraft_model"`
	DepartureAirport   string           `json:"departure_airport"`
	DepartureIATA      string           `json:"departure_iata"`
	ArrivalAirport     string           `json:"arrival_airport"`
	ArrivalIATA        string           `json:"arrival_iata"`
	EconomyPrice       float64          `json:"economy_price"`
	BusinessPrice      float64          `json:"business_price"`
	FirstPrice         float64          `json:"first_price"`
}

// Create inserts t and its default price row in one transaction.  Duration
// is "HH:MM" or "HH:MM:SS".
func (r *TemplateRepo) Create(ctx context.Context, t model.FlightTemplate) (uint64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	id, err := insertID(tx.ExecContext(ctx, `
		INSERT INTO flight_templates
			(airline_id, aircraft_id, flight_number, departure_airport_id, arrival_airport_id, duration, base_price, flight_type)
		VALUES (?,?,?,?,?,?,?,?)`,
		t.AirlineID, t.AircraftID, t.FlightNumber, t.DepartureAirportID, t.ArrivalAirportID,
		t.Duration, t.BasePrice, t.FlightType))
	if err != nil {
		return 0, reference(err)
	}
	p := pricing.DefaultPrices(t.BasePrice)
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO prices (flight_template_id, economy_price, business_price, first_price) VALUES (?,?,?,?)",
		id, p.EconomyPrice, p.BusinessPrice, p.FirstPrice); err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	committed = true
	return id, nil
}

// List returns every template with its names and prices.
func (r *TemplateRepo) List(ctx context.Context) ([]TemplateRow, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT ft.id, ft.airline_id, ft.aircraft_id, ft.flight_number,
		       ft.departure_airport_id, ft.arrival_airport_id,
		       TIME_FORMAT(ft.duration, '%H:%i'), ft.base_price, ft.flight_type,
		       al.name, ac.model, dep.name, dep.iata_code, arr.name, arr.iata_code,
		       COALESCE(p.economy_price, 0), COALESCE(p.business_price, 0), COALESCE(p.first_price, 0)
		FROM flight_templates ft
		JOIN airlines al ON al.id = ft.airline_id
		JOIN aircrafts ac ON ac.id = ft.aircraft_id
		JOIN airports dep ON dep.id = ft.departure_airport_id
		JOIN airports arr ON arr.id = ft.arrival_airport_id
		LEFT JOIN prices p ON p.flight_template_id = ft.id
		ORDER BY ft.flight_number, ft.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []TemplateRow
	for rows.Next() {
		var t TemplateRow
		if err := rows.Scan(&t.ID, &t.AirlineID, &t.AircraftID, &t.FlightNumber,
			&t.DepartureAirportID, &t.ArrivalAirportID,
			&t.Duration, &t.BasePrice, &t.FlightType,
			&t.AirlineName, &t.AircraftModel, &t.DepartureAirport, &t.DepartureIATA, &t.ArrivalAirport, &t.ArrivalIATA,
			&t.EconomyPrice, &t.BusinessPrice, &t.FirstPrice); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// Exists reports whether a template with id exists.
func (r *TemplateRepo) Exists(ctx context.Context, id uint64) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM flight_templates WHERE id = ?", id).Scan(&n)
	return n > 0, err
}

// GetPrice returns the price row of a template.
func (r *TemplateRepo) GetPrice(ctx context.Context, templateID uint64) (model.Price, error) {
	var p model.Price
	err := r.db.QueryRowContext(ctx,
		"SELECT id, flight_template_id, economy_price, business_price, first_price FROM prices WHERE flight_template_id = ?",
		templateID).Scan(&p.ID, &p.FlightTemplateID, &p.EconomyPrice, &p.BusinessPrice, &p.FirstPrice)
	return p, notFound(err)
}

// UpsertPrice writes the price row of a template, creating it if missing.
// An unknown template is ErrNotFound.
func (r *TemplateRepo) UpsertPrice(ctx context.Context, p model.Price) error {
	ok, err := r.Exists(ctx, p.FlightTemplateID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO prices (flight_template_id, economy_price, business_price, first_price)
		VALUES (?,?,?,?)
		ON DUPLICATE KEY UPDATE
			economy_price = VALUES(economy_price),
			business_price = VALUES(business_price),
			first_price = VALUES(first_price)`,
		p.FlightTemplateID, p.EconomyPrice, p.BusinessPrice, p.FirstPrice)
	return err
}
