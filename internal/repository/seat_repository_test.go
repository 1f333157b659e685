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

func TestPreferredFirstKeepsOrder(t *testing.T) {
	seats := []model.Seat{
		{ID: 1, Position: model.PositionAisle},
		{ID: 2, Position: model.PositionWindow},
		{ID: 3, Position: model.PositionMiddle},
		{ID: 4, Position: model.PositionWindow},
	}
	got := PreferredFirst(seats, model.PositionWindow)
	ids := make([]uint64, len(got))
	for i, s := range got {
		ids[i] = s.ID
	}
	assert.Equal(t, []uint64{2, 4, 1, 3}, ids)
	assert.Equal(t, seats, PreferredFirst(seats, ""))
}

func TestAvailableForFlightExcludesBookedAndHeldSeats(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta("FROM flights f")).
		WithArgs(uint64(5), "Business", uint64(5), uint64(5), uint64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "aircraft_id", "seat_number", "class", "position"}).
			AddRow(21, 2, "B1", "Business", "Window"))

	set, err := NewSeatRepo(db).AvailableSet(context.Background(), 5, model.ClassBusiness, 3)
	require.NoError(t, err)
	assert.Equal(t, map[uint64]bool{21: true}, set)
	assert.NoError(t, mock.ExpectationsWereMet())
}
