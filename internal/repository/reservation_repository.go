package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ali-7097/Airline-Ticket-Purchasing-System---SkyLink/internal/model"
	"github.com/ali-7097/Airline-Ticket-Purchasing-System---SkyLink/internal/pricing"
)

// ReservationRepo writes and reads reservations together with their
// passengers, seats and invoice.  A reservation covers exactly one flight;
// every reservation_seats row of it carries the same flight_id.  All
// timestamp fields are stored in UTC.
type ReservationRepo struct {
	db    *sql.DB
	holds *SeatHoldRepo
}

// NewReservationRepo returns a new ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo {
	return &ReservationRepo{db: db, holds: NewSeatHoldRepo(db)}
}

// CommitRequest is everything the booking commit writes.  Passengers[i]
// sits in SeatIDs[i].
type CommitRequest struct {
	UserID        uint64
	FlightID      uint64
	Passengers    []model.Passenger
	SeatIDs       []uint64
	TotalPrice    float64
	PaymentMethod string
	TripType      model.TripType
}

// CommitBooking writes a confirmed booking in one transaction: the
// passengers, the reservation, one reservation_seats row per passenger,
// the invoice and the release of the user's seat holds on the flight.  Any
// failure rolls everything back.  A seat booked by someone else in the
// meantime returns ErrSeatTaken.
func (r *ReservationRepo) CommitBooking(ctx context.Context, req CommitRequest) (uint64, error) {
	if len(req.Passengers) == 0 || len(req.Passengers) != len(req.SeatIDs) {
		return 0, fmt.Errorf("commit booking: %d passengers for %d seats", len(req.Passengers), len(req.SeatIDs))
	}

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

	passengerIDs := make([]uint64, 0, len(req.Passengers))
	for _, p := range req.Passengers {
		id, err := insertID(tx.ExecContext(ctx, `
			INSERT INTO passengers (first_name, last_name, gender, age, passport_no, contact_number)
			VALUES (?,?,?,?,?,?)`,
			p.FirstName, p.LastName, p.Gender, p.Age, p.PassportNo, p.ContactNumber))
		if err != nil {
			return 0, fmt.Errorf("insert passenger: %w", err)
		}
		passengerIDs = append(passengerIDs, id)
	}

	resID, err := insertID(tx.ExecContext(ctx, `
		INSERT INTO reservations (user_id, total_price, payment_method, status, trip_type, created_at)
		VALUES (?,?,?,?,?,UTC_TIMESTAMP())`,
		req.UserID, req.TotalPrice, req.PaymentMethod, model.StatusConfirmed, req.TripType))
	if err != nil {
		return 0, fmt.Errorf("insert reservation: %w", err)
	}

	var sb strings.Builder
	sb.WriteString("INSERT INTO reservation_seats (flight_id, reservation_id, passenger_id, seat_id) VALUES ")
	args := make([]any, 0, len(req.SeatIDs)*4)
	for i, sid := range req.SeatIDs {
		if i > 0 {
			sb.WriteString(",")
		}
		sb.WriteString("(?, ?, ?, ?)")
		args = append(args, req.FlightID, resID, passengerIDs[i], sid)
	}
	if _, err := tx.ExecContext(ctx, sb.String(), args...); err != nil {
		if isDuplicate(err) {
			return 0, ErrSeatTaken
		}
		return 0, fmt.Errorf("insert reservation seats: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO invoices (reservation_id, issued_at, amount) VALUES (?, UTC_TIMESTAMP(), ?)",
		resID, req.TotalPrice); err != nil {
		return 0, fmt.Errorf("insert invoice: %w", err)
	}

	if err := r.holds.DeleteByUserAndFlightTx(ctx, tx, req.UserID, req.FlightID); err != nil {
		return 0, fmt.Errorf("release seat holds: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	committed = true
	return resID, nil
}

// RefundResult reports a completed refund.
type RefundResult struct {
	ReservationID uint64  `json:"reservation_id"`
	FlightID      uint64  `json:"flight_id"`
	TotalPrice    float64 `json:"total_price"`
	RefundAmount  float64 `json:"refund_amount"`
}

// Refund refunds a reservation of userID.  The reservation row is locked
// for the duration of the transaction.  The reservation must be Confirmed
// and its flight must depart strictly after now; otherwise
// ErrRefundNotAllowed.  A reservation of another user is ErrForbidden.
// The refund is pricing.RefundRate of the total and overwrites the invoice
// amount.
func (r *ReservationRepo) Refund(ctx context.Context, reservationID, userID uint64, now time.Time) (RefundResult, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return RefundResult{}, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var (
		owner  uint64
		status model.ReservationStatus
		total  float64
	)
	err = tx.QueryRowContext(ctx,
		"SELECT user_id, status, total_price FROM reservations WHERE id = ? FOR UPDATE",
		reservationID).Scan(&owner, &status, &total)
	if err != nil {
		return RefundResult{}, notFound(err)
	}
	if owner != userID {
		return RefundResult{}, ErrForbidden
	}
	if status != model.StatusConfirmed {
		return RefundResult{}, ErrRefundNotAllowed
	}

	var (
		flightID  uint64
		departure time.Time
	)
	err = tx.QueryRowContext(ctx, `
		SELECT f.id, f.departure_datetime
		FROM reservation_seats rs
		JOIN flights f ON f.id = rs.flight_id
		WHERE rs.reservation_id = ?
		LIMIT 1`, reservationID).Scan(&flightID, &departure)
	if errors.Is(err, sql.ErrNoRows) {
		return RefundResult{}, ErrRefundNotAllowed
	}
	if err != nil {
		return RefundResult{}, err
	}
	if !departure.After(now) {
		return RefundResult{}, ErrRefundNotAllowed
	}

	amount := pricing.RefundAmount(total)
	if _, err := tx.ExecContext(ctx,
		"UPDATE reservations SET status = ? WHERE id = ?", model.StatusRefunded, reservationID); err != nil {
		return RefundResult{}, err
	}
	if _, err := tx.ExecContext(ctx,
		"UPDATE invoices SET amount = ? WHERE reservation_id = ?", amount, reservationID); err != nil {
		return RefundResult{}, err
	}
	if err := tx.Commit(); err != nil {
		return RefundResult{}, err
	}
	committed = true
	return RefundResult{ReservationID: reservationID, FlightID: flightID, TotalPrice: total, RefundAmount: amount}, nil
}

// ReservationSummary is one line of a reservation list.
type ReservationSummary struct {
	ID                uint64                  `json:"id"`
	UserID            uint64                  `json:"user_id"`
	UserEmail         string                  `json:"user_email,omitempty"`
	Status            model.ReservationStatus `json:"status"`
	TotalPrice        float64                 `json:"total_price"`
	PaymentMethod     string                  `json:"payment_method"`
	TripType          model.TripType          `json:"trip_type"`
	CreatedAt         time.Time               `json:"created_at"`
	FlightID          uint64                  `json:"flight_id"`
	FlightNumber      string                  `json:"flight_number"`
	AirlineName       string                  `json:"airline_name"`
	DepartureIATA     string                  `json:"departure_iata"`
	ArrivalIATA       string                  `json:"arrival_iata"`
	DepartureDatetime time.Time               `json:"departure_datetime"`
	Passengers        int                     `json:"passengers"`
	CanRefund         bool                    `json:"can_refund"`
}

// Refundable reports whether a reservation in status departing at
// departure may be refunded at now.
func Refundable(status model.ReservationStatus, departure, now time.Time) bool {
	return status == model.StatusConfirmed && departure.After(now)
}

const summarySelect = `
	SELECT r.id, r.user_id, u.email, r.status, r.total_price, r.payment_method, r.trip_type, r.created_at,
	       f.id, ft.flight_number, al.name, dep.iata_code, arr.iata_code, f.departure_datetime,
	       COUNT(rs.passenger_id)
	FROM reservations r
	JOIN users u ON u.id = r.user_id
	JOIN reservation_seats rs ON rs.reservation_id = r.id
	JOIN flights f ON f.id = rs.flight_id
	JOIN flight_templates ft ON ft.id = f.flight_template_id
	JOIN airlines al ON al.id = ft.airline_id
	JOIN airports dep ON dep.id = ft.departure_airport_id
	JOIN airports arr ON arr.id = ft.arrival_airport_id`

const summaryGroup = `
	GROUP BY r.id, r.user_id, u.email, r.status, r.total_price, r.payment_method, r.trip_type, r.created_at,
	         f.id, ft.flight_number, al.name, dep.iata_code, arr.iata_code, f.departure_datetime`

func (r *ReservationRepo) summaries(ctx context.Context, now time.Time, q string, args ...any) ([]ReservationSummary, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []ReservationSummary{}
	for rows.Next() {
		var s ReservationSummary
		if err := rows.Scan(&s.ID, &s.UserID, &s.UserEmail, &s.Status, &s.TotalPrice, &s.PaymentMethod,
			&s.TripType, &s.CreatedAt, &s.FlightID, &s.FlightNumber, &s.AirlineName,
			&s.DepartureIATA, &s.ArrivalIATA, &s.DepartureDatetime, &s.Passengers); err != nil {
			return nil, err
		}
		s.CanRefund = Refundable(s.Status, s.DepartureDatetime, now)
		out = append(out, s)
	}
	return out, rows.Err()
}

// ListByUser returns the reservations of userID, newest first.  A
// positive limit caps the list.
func (r *ReservationRepo) ListByUser(ctx context.Context, userID uint64, limit int, now time.Time) ([]ReservationSummary, error) {
	q := summarySelect + " WHERE r.user_id = ?" + summaryGroup + " ORDER BY r.created_at DESC, r.id DESC"
	args := []any{userID}
	if limit > 0 {
		q += " LIMIT ?"
		args = append(args, limit)
	}
	return r.summaries(ctx, now, q, args...)
}

// UpcomingForUser returns the confirmed reservations of userID whose
// flight departs after now, soonest first.
func (r *ReservationRepo) UpcomingForUser(ctx context.Context, userID uint64, now time.Time) ([]ReservationSummary, error) {
	q := summarySelect + " WHERE r.user_id = ? AND r.status = ? AND f.departure_datetime > ?" +
		summaryGroup + " ORDER BY f.departure_datetime ASC, r.id ASC"
	return r.summaries(ctx, now, q, userID, model.StatusConfirmed, now.UTC())
}

// Recent returns the latest reservations of all users for the admin
// dashboard.
func (r *ReservationRepo) Recent(ctx context.Context, limit int, now time.Time) ([]ReservationSummary, error) {
	q := summarySelect + summaryGroup + " ORDER BY r.created_at DESC, r.id DESC LIMIT ?"
	return r.summaries(ctx, now, q, limit)
}

// SeatDetail is one passenger of a reservation and the seat they hold.
type SeatDetail struct {
	PassengerID   uint64             `json:"passenger_id"`
	FirstName     string             `json:"first_name"`
	LastName      string             `json:"last_name"`
	ContactNumber string             `json:"contact_number"`
	SeatID        uint64             `json:"seat_id"`
	SeatNumber    string             `json:"seat_number"`
	Class         model.SeatClass    `json:"class"`
	Position      model.SeatPosition `json:"position"`
}

// ReservationDetail is a reservation with its flight, purchaser, invoice
// and seats.
type ReservationDetail struct {
	ReservationSummary
	UserName         string       `json:"user_name"`
	DepartureAirport string       `json:"departure_airport"`
	ArrivalAirport   string       `json:"arrival_airport"`
	ArrivalDatetime  time.Time    `json:"arrival_datetime"`
	InvoiceAmount    float64      `json:"invoice_amount"`
	InvoiceIssuedAt  *time.Time   `json:"invoice_issued_at,omitempty"`
	Seats            []SeatDetail `json:"seats"`
}

// GetDetail loads a reservation regardless of owner.
func (r *ReservationRepo) GetDetail(ctx context.Context, reservationID uint64, now time.Time) (*ReservationDetail, error) {
	const q = `
		SELECT r.id, r.user_id, u.email, u.name, r.status, r.total_price, r.payment_method, r.trip_type, r.created_at,
		       f.id, ft.flight_number, al.name, dep.iata_code, dep.name, arr.iata_code, arr.name,
		       f.departure_datetime, f.arrival_datetime,
		       COALESCE(i.amount, 0), i.issued_at
		FROM reservations r
		JOIN users u ON u.id = r.user_id
		JOIN reservation_seats rs ON rs.reservation_id = r.id
		JOIN flights f ON f.id = rs.flight_id
		JOIN flight_templates ft ON ft.id = f.flight_template_id
		JOIN airlines al ON al.id = ft.airline_id
		JOIN airports dep ON dep.id = ft.departure_airport_id
		JOIN airports arr ON arr.id = ft.arrival_airport_id
		LEFT JOIN invoices i ON i.reservation_id = r.id
		WHERE r.id = ?
		LIMIT 1`
	var (
		d      ReservationDetail
		issued sql.NullTime
	)
	err := r.db.QueryRowContext(ctx, q, reservationID).Scan(
		&d.ID, &d.UserID, &d.UserEmail, &d.UserName, &d.Status, &d.TotalPrice, &d.PaymentMethod, &d.TripType, &d.CreatedAt,
		&d.FlightID, &d.FlightNumber, &d.AirlineName, &d.DepartureIATA, &d.DepartureAirport, &d.ArrivalIATA, &d.ArrivalAirport,
		&d.DepartureDatetime, &d.ArrivalDatetime,
		&d.InvoiceAmount, &issued,
	)
	if err != nil {
		return nil, notFound(err)
	}
	if issued.Valid {
		t := issued.Time
		d.InvoiceIssuedAt = &t
	}
	d.CanRefund = Refundable(d.Status, d.DepartureDatetime, now)

	rows, err := r.db.QueryContext(ctx, `
		SELECT p.id, p.first_name, p.last_name, p.contact_number, s.id, s.seat_number, s.class, s.position
		FROM reservation_seats rs
		JOIN passengers p ON p.id = rs.passenger_id
		JOIN seats s ON s.id = rs.seat_id
		WHERE rs.reservation_id = ?
		ORDER BY p.id`, reservationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	d.Seats = []SeatDetail{}
	for rows.Next() {
		var s SeatDetail
		if err := rows.Scan(&s.PassengerID, &s.FirstName, &s.LastName, &s.ContactNumber,
			&s.SeatID, &s.SeatNumber, &s.Class, &s.Position); err != nil {
			return nil, err
		}
		d.Seats = append(d.Seats, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	d.Passengers = len(d.Seats)
	return &d, nil
}

// GetDetailForUser loads a reservation owned by userID.  A reservation of
// another user is ErrForbidden.
func (r *ReservationRepo) GetDetailForUser(ctx context.Context, reservationID, userID uint64, now time.Time) (*ReservationDetail, error) {
	d, err := r.GetDetail(ctx, reservationID, now)
	if err != nil {
		return nil, err
	}
	if d.UserID != userID {
		return nil, ErrForbidden
	}
	return d, nil
}
