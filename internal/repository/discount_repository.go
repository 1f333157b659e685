package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// DiscountRepo manages per-flight discounts.  A flight carries at most one
// effective discount: the one with the lowest id.
type DiscountRepo struct{ db *sql.DB }

func NewDiscountRepo(db *sql.DB) *DiscountRepo { return &DiscountRepo{db: db} }

// DiscountRow is a discount with the flight it applies to.
type DiscountRow struct {
	ID                 uint64    `json:"id"`
	FlightID           uint64    `json:"flight_id"`
	DiscountPercentage float64   `json:"discount_percentage"`
	FlightNumber       string    `json:"flight_number"`
	DepartureDatetime  time.Time `json:"departure_datetime"`
}

// List returns every discount, latest departure first.
func (r *DiscountRepo) List(ctx context.Context) ([]DiscountRow, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT d.id, d.flight_id, d.discount_percentage, ft.flight_number, f.departure_datetime
		FROM discounts d
		JOIN flights f ON f.id = d.flight_id
		JOIN flight_templates ft ON ft.id = f.flight_template_id
		ORDER BY f.departure_datetime DESC, d.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []DiscountRow
	for rows.Next() {
		var d DiscountRow
		if err := rows.Scan(&d.ID, &d.FlightID, &d.DiscountPercentage, &d.FlightNumber, &d.DepartureDatetime); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// Apply sets the discount of a flight.  The flight's existing first
// discount is updated in place; a new row is inserted only when the flight
// has none.  It returns the id of the affected discount.
func (r *DiscountRepo) Apply(ctx context.Context, flightID uint64, pct float64) (uint64, error) {
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

	var exists int
	if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM flights WHERE id = ?", flightID).Scan(&exists); err != nil {
		return 0, err
	}
	if exists == 0 {
		return 0, ErrNotFound
	}

	var id uint64
	err = tx.QueryRowContext(ctx,
		"SELECT id FROM discounts WHERE flight_id = ? ORDER BY id LIMIT 1 FOR UPDATE", flightID).Scan(&id)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		id, err = insertID(tx.ExecContext(ctx,
			"INSERT INTO discounts (flight_id, discount_percentage) VALUES (?,?)", flightID, pct))
		if err != nil {
			return 0, err
		}
	case err != nil:
		return 0, err
	default:
		if _, err := tx.ExecContext(ctx,
			"UPDATE discounts SET discount_percentage = ? WHERE id = ?", pct, id); err != nil {
			return 0, err
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	committed = true
	return id, nil
}

// Delete removes a discount.
func (r *DiscountRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM discounts WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
