package repository

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func expectFlightExists(mock sqlmock.Sqlmock, n int) {
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM flights WHERE id = ?")).
		WithArgs(uint64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(n))
}

func TestApplyDiscountUpdatesFirstDiscount(t *testing.T) {
	db, mock := newMock(t)
	expectFlightExists(mock, 1)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM discounts WHERE flight_id = ? ORDER BY id LIMIT 1 FOR UPDATE")).
		WithArgs(uint64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE discounts SET discount_percentage = ? WHERE id = ?")).
		WithArgs(15.0, uint64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	id, err := NewDiscountRepo(db).Apply(context.Background(), 5, 15)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplyDiscountInsertsWhenNone(t *testing.T) {
	tests := []struct {
		name   string
		expect func(q *sqlmock.ExpectedQuery)
	}{
		{"empty result", func(q *sqlmock.ExpectedQuery) { q.WillReturnRows(sqlmock.NewRows([]string{"id"})) }},
		{"wrapped no rows", func(q *sqlmock.ExpectedQuery) {
			q.WillReturnError(fmt.Errorf("lookup: %w", sql.ErrNoRows))
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMock(t)
			expectFlightExists(mock, 1)
			tt.expect(mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM discounts")))
			mock.ExpectExec(regexp.QuoteMeta("INSERT INTO discounts (flight_id, discount_percentage) VALUES (?,?)")).
				WithArgs(uint64(5), 20.0).
				WillReturnResult(sqlmock.NewResult(8, 1))
			mock.ExpectCommit()

			id, err := NewDiscountRepo(db).Apply(context.Background(), 5, 20)
			require.NoError(t, err)
			assert.Equal(t, uint64(8), id)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestApplyDiscountUnknownFlight(t *testing.T) {
	db, mock := newMock(t)
	expectFlightExists(mock, 0)
	mock.ExpectRollback()

	_, err := NewDiscountRepo(db).Apply(context.Background(), 5, 20)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteDiscountMissing(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM discounts WHERE id = ?")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, NewDiscountRepo(db).Delete(context.Background(), 1), ErrNotFound)
}
