package handler

import (
	"bytes"
	"net/http"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ali-7097/Airline-Ticket-Purchasing-System---SkyLink/internal/model"
	"github.com/ali-7097/Airline-Ticket-Purchasing-System---SkyLink/internal/repository"
)

func newReservationHandler(t *testing.T) (*ReservationHandler, sqlmock.Sqlmock) {
	db, mock := newMock(t)
	h := NewReservationHandler(testConfig(), repository.NewReservationRepo(db), nil)
	h.Now = func() time.Time { return fixedNow }
	return h, mock
}

// expectDetail queues the two queries of GetDetail for reservation 7
// owned by ownerID.
func expectDetail(mock sqlmock.Sqlmock, ownerID uint64) {
	dep := fixedNow.Add(72 * time.Hour)
	mock.ExpectQuery(regexp.QuoteMeta("FROM reservations r")).
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "user_id", "email", "name", "status", "total_price", "payment_method", "trip_type", "created_at",
			"flight_id", "flight_number", "airline", "dep_iata", "dep_name", "arr_iata", "arr_name",
			"departure_datetime", "arrival_datetime", "amount", "issued_at",
		}).AddRow(7, ownerID, "ana@example.com", "Ana Diaz", "Confirmed", 204.0, "Credit Card", "one-way", fixedNow,
			10, "PK-101", "Pakistan International", "KHI", "Jinnah International", "LHE", "Allama Iqbal International",
			dep, dep.Add(2*time.Hour), 204.0, fixedNow))
	mock.ExpectQuery(regexp.QuoteMeta("FROM reservation_seats rs")).
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{
			"passenger_id", "first_name", "last_name", "contact_number", "seat_id", "seat_number", "class", "position",
		}).
			AddRow(11, "Ana", "Diaz", "555", 7, "E1", "Economy", "Window").
			AddRow(12, "Ben", "Diaz", "555", 8, "E2", "Economy", "Aisle"))
}

func TestReservationGet(t *testing.T) {
	h, mock := newReservationHandler(t)
	expectDetail(mock, 3)

	c, rec := newCtx(http.MethodGet, "/v1/reservations/7", "")
	as(c, 3, model.RolePassenger)
	withParam(c, "id", "7")
	require.NoError(t, h.Get(c))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	res := decode(t, rec)["reservation"].(map[string]any)
	assert.Equal(t, float64(2), res["passengers"])
	assert.Equal(t, true, res["can_refund"])
	assert.Len(t, res["seats"], 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReservationOfAnotherUser(t *testing.T) {
	h, mock := newReservationHandler(t)
	expectDetail(mock, 3)

	c, rec := newCtx(http.MethodGet, "/v1/reservations/7/ticket", "")
	as(c, 4, model.RolePassenger)
	withParam(c, "id", "7")
	require.NoError(t, h.Ticket(c))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReservationTicketPDF(t *testing.T) {
	h, mock := newReservationHandler(t)
	expectDetail(mock, 3)

	c, rec := newCtx(http.MethodGet, "/v1/reservations/7/ticket", "")
	as(c, 3, model.RolePassenger)
	withParam(c, "id", "7")
	require.NoError(t, h.Ticket(c))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get(echo.HeaderContentType))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "TKT-000007.pdf")
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")))
}

func TestReservationInvoicePDF(t *testing.T) {
	h, mock := newReservationHandler(t)
	expectDetail(mock, 3)

	c, rec := newCtx(http.MethodGet, "/v1/reservations/7/invoice", "")
	as(c, 3, model.RolePassenger)
	withParam(c, "id", "7")
	require.NoError(t, h.Invoice(c))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "invoice_000007.pdf")
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")))
}

func TestReservationRefundNotFound(t *testing.T) {
	h, mock := newReservationHandler(t)
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT user_id, status, total_price FROM reservations WHERE id = ? FOR UPDATE")).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "status", "total_price"}))
	mock.ExpectRollback()

	c, rec := newCtx(http.MethodPost, "/v1/reservations/99/refund", "")
	as(c, 3, model.RolePassenger)
	withParam(c, "id", "99")
	require.NoError(t, h.Refund(c))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReservationRefundBadID(t *testing.T) {
	h, _ := newReservationHandler(t)
	c, rec := newCtx(http.MethodPost, "/v1/reservations/x/refund", "")
	as(c, 3, model.RolePassenger)
	withParam(c, "id", "x")
	require.NoError(t, h.Refund(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
