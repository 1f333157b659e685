package repository

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ali-7097/Airline-Ticket-Purchasing-System---SkyLink/internal/model"
)

func sampleTemplate() model.FlightTemplate {
	return model.FlightTemplate{
		AirlineID: 1, AircraftID: 2, FlightNumber: "SK201",
		DepartureAirportID: 1, ArrivalAirportID: 2,
		Duration: "01:45", BasePrice: 100, FlightType: model.FlightDomestic,
	}
}

func TestTemplateCreateAddsDefaultPrices(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO flight_templates")).
		WithArgs(uint64(1), uint64(2), "SK201", uint64(1), uint64(2), "01:45", 100.0, "Domestic").
		WillReturnResult(sqlmock.NewResult(4, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO prices")).
		WithArgs(uint64(4), 100.0, 250.0, 400.0).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	id, err := NewTemplateRepo(db).Create(context.Background(), sampleTemplate())
	require.NoError(t, err)
	assert.Equal(t, uint64(4), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTemplateCreateRollsBackWhenPricesFail(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO flight_templates")).
		WillReturnResult(sqlmock.NewResult(4, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO prices")).
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	_, err := NewTemplateRepo(db).Create(context.Background(), sampleTemplate())
	assert.ErrorIs(t, err, assert.AnError)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertPriceUnknownTemplate(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM flight_templates WHERE id = ?")).
		WithArgs(uint64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(0))

	err := NewTemplateRepo(db).UpsertPrice(context.Background(), model.Price{FlightTemplateID: 99, EconomyPrice: 1})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
