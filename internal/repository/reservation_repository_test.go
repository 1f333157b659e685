package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ali-7097/Airline-Ticket-Purchasing-System---SkyLink/internal/model"
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func twoPassengerCommit() CommitRequest {
	return CommitRequest{
		UserID:   3,
		FlightID: 5,
		Passengers: []model.Passenger{
			{FirstName: "Ana", LastName: "Diaz", Gender: "Female", Age: 31, PassportNo: "P1", ContactNumber: "555"},
			{FirstName: "Ben", LastName: "Diaz", Gender: "Male", Age: 8, PassportNo: "P2", ContactNumber: "555"},
		},
		SeatIDs:       []uint64{101, 102},
		TotalPrice:    46000,
		PaymentMethod: "Credit Card",
		TripType:      model.TripOneWay,
	}
}

func expectPassengersAndReservation(mock sqlmock.Sqlmock) {
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO passengers")).
		WithArgs("Ana", "Diaz", "Female", 31, "P1", "555").
		WillReturnResult(sqlmock.NewResult(11, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO passengers")).
		WithArgs("Ben", "Diaz", "Male", 8, "P2", "555").
		WillReturnResult(sqlmock.NewResult(12, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO reservations")).
		WithArgs(uint64(3), 46000.0, "Credit Card", "Confirmed", "one-way").
		WillReturnResult(sqlmock.NewResult(7, 1))
}

func TestCommitBookingWritesEverythingInOneTransaction(t *testing.T) {
	db, mock := newMock(t)
	expectPassengersAndReservation(mock)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO reservation_seats (flight_id, reservation_id, passenger_id, seat_id) VALUES (?, ?, ?, ?),(?, ?, ?, ?)")).
		WithArgs(uint64(5), uint64(7), uint64(11), uint64(101), uint64(5), uint64(7), uint64(12), uint64(102)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO invoices")).
		WithArgs(uint64(7), 46000.0).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM seat_holds WHERE user_id = ? AND flight_id = ?")).
		WithArgs(uint64(3), uint64(5)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	id, err := NewReservationRepo(db).CommitBooking(context.Background(), twoPassengerCommit())
	require.NoError(t, err)
	assert.Equal(t, uint64(7), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCommitBookingDuplicateSeatRollsBack(t *testing.T) {
	db, mock := newMock(t)
	expectPassengersAndReservation(mock)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO reservation_seats")).
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry '5-101'"})
	mock.ExpectRollback()

	_, err := NewReservationRepo(db).CommitBooking(context.Background(), twoPassengerCommit())
	require.ErrorIs(t, err, ErrSeatTaken)
	assert.ErrorIs(t, err, ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCommitBookingInvoiceFailureRollsBack(t *testing.T) {
	db, mock := newMock(t)
	expectPassengersAndReservation(mock)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO reservation_seats")).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO invoices")).
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	_, err := NewReservationRepo(db).CommitBooking(context.Background(), twoPassengerCommit())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrConflict)
	assert.ErrorIs(t, err, assert.AnError)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCommitBookingRejectsSeatCountMismatch(t *testing.T) {
	db, mock := newMock(t)
	req := twoPassengerCommit()
	req.SeatIDs = req.SeatIDs[:1]

	_, err := NewReservationRepo(db).CommitBooking(context.Background(), req)
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

var refundNow = time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)

func expectReservationLock(mock sqlmock.Sqlmock, owner uint64, status string, total float64) {
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT user_id, status, total_price FROM reservations WHERE id = ? FOR UPDATE")).
		WithArgs(uint64(9)).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "status", "total_price"}).AddRow(owner, status, total))
}

func TestRefundPaysBackThreeQuarters(t *testing.T) {
	db, mock := newMock(t)
	expectReservationLock(mock, 3, "Confirmed", 1000)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT f.id, f.departure_datetime")).
		WithArgs(uint64(9)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "departure_datetime"}).AddRow(5, refundNow.Add(48*time.Hour)))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE reservations SET status = ? WHERE id = ?")).
		WithArgs("Refunded", uint64(9)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE invoices SET amount = ? WHERE reservation_id = ?")).
		WithArgs(750.0, uint64(9)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	res, err := NewReservationRepo(db).Refund(context.Background(), 9, 3, refundNow)
	require.NoError(t, err)
	assert.Equal(t, 750.0, res.RefundAmount)
	assert.Equal(t, uint64(5), res.FlightID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRefundRejections(t *testing.T) {
	tests := []struct {
		name      string
		owner     uint64
		status    string
		departure time.Time
		want      error
	}{
		{name: "other user", owner: 4, status: "Confirmed", want: ErrForbidden},
		{name: "already refunded", owner: 3, status: "Refunded", want: ErrRefundNotAllowed},
		{name: "departed", owner: 3, status: "Confirmed", departure: refundNow.Add(-time.Hour), want: ErrRefundNotAllowed},
		{name: "departing now", owner: 3, status: "Confirmed", departure: refundNow, want: ErrRefundNotAllowed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMock(t)
			expectReservationLock(mock, tt.owner, tt.status, 1000)
			if !tt.departure.IsZero() {
				mock.ExpectQuery(regexp.QuoteMeta("SELECT f.id, f.departure_datetime")).
					WillReturnRows(sqlmock.NewRows([]string{"id", "departure_datetime"}).AddRow(5, tt.departure))
			}
			mock.ExpectRollback()

			_, err := NewReservationRepo(db).Refund(context.Background(), 9, 3, refundNow)
			assert.ErrorIs(t, err, tt.want)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRefundMissingReservation(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FROM reservations WHERE id = ? FOR UPDATE")).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	_, err := NewReservationRepo(db).Refund(context.Background(), 9, 3, refundNow)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRefundable(t *testing.T) {
	assert.True(t, Refundable(model.StatusConfirmed, refundNow.Add(time.Minute), refundNow))
	assert.False(t, Refundable(model.StatusConfirmed, refundNow, refundNow))
	assert.False(t, Refundable(model.StatusRefunded, refundNow.Add(time.Hour), refundNow))
}
