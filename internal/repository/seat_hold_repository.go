package repository

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"strings"
	"time"
)

// SeatHoldRepo provides data access to the seat_holds table.  A hold keeps
// a seat out of other bookers' seat maps while its owner pays.  Holds are
// advisory; the booking commit relies on the reservation_seats unique key.
// All timestamps are UTC.
type SeatHoldRepo struct {
	db *sql.DB
}

// NewSeatHoldRepo returns a new SeatHoldRepo bound to the provided database.
func NewSeatHoldRepo(db *sql.DB) *SeatHoldRepo { return &SeatHoldRepo{db: db} }

// randomToken generates a random hexadecimal string of n*2 characters for
// the hold_token column.
func randomToken(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// Replace swaps the holds of userID on flightID for seatIDs, all expiring
// at expiresAt.  Expired holds of the flight are purged first.  If any seat
// is held by another user the transaction rolls back with ErrSeatTaken.
func (r *SeatHoldRepo) Replace(ctx context.Context, userID, flightID uint64, seatIDs []uint64, expiresAt time.Time) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM seat_holds WHERE flight_id = ? AND expires_at <= UTC_TIMESTAMP()`, flightID); err != nil {
		return err
	}
	if err := r.DeleteByUserAndFlightTx(ctx, tx, userID, flightID); err != nil {
		return err
	}
	if len(seatIDs) > 0 {
		var sb strings.Builder
		sb.WriteString("INSERT INTO seat_holds (user_id, flight_id, seat_id, hold_token, expires_at) VALUES ")
		args := make([]any, 0, len(seatIDs)*5)
		for i, sid := range seatIDs {
			token, err := randomToken(16)
			if err != nil {
				return err
			}
			if i > 0 {
				sb.WriteString(",")
			}
			sb.WriteString("(?, ?, ?, ?, ?)")
			args = append(args, userID, flightID, sid, token, expiresAt.UTC().Format("2006-01-02 15:04:05"))
		}
		if _, err := tx.ExecContext(ctx, sb.String(), args...); err != nil {
			if isDuplicate(err) {
				return ErrSeatTaken
			}
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// Release drops every hold of userID on flightID.
func (r *SeatHoldRepo) Release(ctx context.Context, userID, flightID uint64) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM seat_holds WHERE user_id = ? AND flight_id = ?`, userID, flightID)
	return err
}

// DeleteByUserAndFlightTx removes all holds of userID on flightID inside
// the caller's transaction.  The booking commit uses it to release holds
// together with the reservation insert.
func (r *SeatHoldRepo) DeleteByUserAndFlightTx(ctx context.Context, tx *sql.Tx, userID, flightID uint64) error {
	_, err := tx.ExecContext(ctx,
		`DELETE FROM seat_holds WHERE user_id = ? AND flight_id = ?`, userID, flightID)
	return err
}

// PurgeExpired deletes lapsed holds on every flight and returns how many
// went.
func (r *SeatHoldRepo) PurgeExpired(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM seat_holds WHERE expires_at <= UTC_TIMESTAMP()`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
