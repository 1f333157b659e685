package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonthWindowsAreContiguousCalendarMonths(t *testing.T) {
	now := time.Date(2026, 3, 31, 23, 59, 0, 0, time.UTC)
	ws := MonthWindows(now, 6)
	require.Len(t, ws, 6)

	assert.Equal(t, time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC), ws[0].Start)
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), ws[5].Start)
	assert.Equal(t, time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC), ws[5].End)
	for i := 1; i < len(ws); i++ {
		assert.Equal(t, ws[i-1].End, ws[i].Start)
	}
}

func TestMonthWindowsAcrossYearBoundary(t *testing.T) {
	ws := MonthWindows(time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC), 2)
	assert.Equal(t, time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC), ws[0].Start)
	assert.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), ws[0].End)
}

func TestSummary(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COALESCE(SUM(amount), 0) FROM invoices")).
		WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow(50000.0))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM reservations")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(12))
	mock.ExpectQuery(regexp.QuoteMeta("FROM flights")).
		WillReturnRows(sqlmock.NewRows([]string{"count", "active"}).AddRow(8, 5))
	mock.ExpectQuery(regexp.QuoteMeta("FROM reservation_seats rs")).
		WithArgs(TopRoutesLimit).
		WillReturnRows(sqlmock.NewRows([]string{"dep", "arr", "seats"}).
			AddRow("Allama Iqbal", "Jinnah", 9).
			AddRow("Jinnah", "Islamabad", 4))
	for i := 0; i < RevenueMonths; i++ {
		mock.ExpectQuery(regexp.QuoteMeta("FROM invoices WHERE issued_at >= ? AND issued_at < ?")).
			WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow(float64(i * 100)))
	}

	s, err := NewAnalyticsRepo(db).Summary(context.Background(), time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 50000.0, s.TotalRevenue)
	assert.Equal(t, 1000.0, s.Profit)
	assert.Equal(t, 12, s.Reservations)
	assert.Equal(t, 3, s.InactiveFlights)
	require.Len(t, s.TopRoutes, 2)
	assert.Equal(t, 9, s.TopRoutes[0].Seats)
	require.Len(t, s.MonthlyRevenue, RevenueMonths)
	assert.Equal(t, "2026-05", s.MonthlyRevenue[0].Month)
	assert.Equal(t, "2026-10", s.MonthlyRevenue[5].Month)
	assert.Equal(t, 500.0, s.MonthlyRevenue[5].Revenue)
	assert.NoError(t, mock.ExpectationsWereMet())
}
