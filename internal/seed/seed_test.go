package seed

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ali-7097/Airline-Ticket-Purchasing-System---SkyLink/internal/database"
	"github.com/ali-7097/Airline-Ticket-Purchasing-System---SkyLink/internal/model"
)

const sample = `
admin: { name: Admin, email: admin@skylink.com, password: admin123 }
airlines:
  - { name: Emirates, iata: EK, icao: UAE, support_email: support@emirates.com }
airports:
  - { name: Dubai International Airport, city: Dubai, country: UAE, iata: DXB, icao: OMDB }
  - { name: Heathrow Airport, city: London, country: UK, iata: LHR, icao: EGLL }
aircraft:
  - { airline: EK, model: Airbus A320neo, total_seats: 180 }
templates:
  - { flight_number: EK-1, aircraft: Airbus A320neo, from: DXB, to: LHR, duration: "07:30", base_price: 500, flight_type: International, discount: 5 }
`

func TestParse(t *testing.T) {
	f, err := Parse([]byte(sample))
	require.NoError(t, err)
	assert.Equal(t, "admin@skylink.com", f.Admin.Email)
	require.Len(t, f.Airports, 2)
	assert.Equal(t, "LHR", f.Airports[1].IATA)
	require.Len(t, f.Templates, 1)
	assert.Equal(t, 5.0, f.Templates[0].Discount)
	assert.Equal(t, 180, f.Aircraft[0].TotalSeats)
}

func TestParseRejectsUnknownKeys(t *testing.T) {
	_, err := Parse([]byte("airlines:\n  - { name: X, iatta: XX }\n"))
	assert.Error(t, err)
}

func TestLoadShippedFile(t *testing.T) {
	f, err := Load(filepath.Join("..", "..", "seed", "skylink.yaml"))
	require.NoError(t, err)
	assert.NotEmpty(t, f.Templates)

	airports := map[string]bool{}
	for _, a := range f.Airports {
		airports[a.IATA] = true
	}
	models := map[string]bool{}
	for _, a := range f.Aircraft {
		models[a.Model] = true
	}
	for _, tpl := range f.Templates {
		assert.True(t, airports[tpl.From], tpl.FlightNumber)
		assert.True(t, airports[tpl.To], tpl.FlightNumber)
		assert.True(t, models[tpl.Aircraft], tpl.FlightNumber)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestSeatLayoutSplitsCabins(t *testing.T) {
	seats := SeatLayout(396)
	require.Len(t, seats, 396)

	count := map[model.SeatClass]int{}
	for _, s := range seats {
		count[s.Class]++
	}
	assert.Equal(t, 277, count[model.ClassEconomy])
	assert.Equal(t, 79, count[model.ClassBusiness])
	assert.Equal(t, 40, count[model.ClassFirst])

	assert.Equal(t, "E1", seats[0].SeatNumber)
	assert.Equal(t, model.PositionWindow, seats[0].Position)
	assert.Equal(t, "B1", seats[277].SeatNumber)
	assert.Equal(t, "F40", seats[395].SeatNumber)
}

func TestSchedule(t *testing.T) {
	start := time.Date(2026, 3, 31, 17, 45, 0, 0, time.UTC)
	flights, err := Schedule(7, "02:30", start, 3)
	require.NoError(t, err)
	require.Len(t, flights, 3)

	assert.Equal(t, time.Date(2026, 3, 31, 8, 0, 0, 0, time.UTC), flights[0].DepartureDatetime)
	assert.Equal(t, time.Date(2026, 3, 31, 10, 30, 0, 0, time.UTC), flights[0].ArrivalDatetime)
	assert.Equal(t, time.Date(2026, 4, 2, 8, 0, 0, 0, time.UTC), flights[2].DepartureDatetime)
	for _, f := range flights {
		assert.Equal(t, uint64(7), f.FlightTemplateID)
		assert.True(t, f.IsActive)
	}

	_, err = Schedule(7, "soon", start, 1)
	assert.Error(t, err)
}

func TestFlushDeletesChildrenFirst(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	order := flushOrder()
	for _, tbl := range order {
		mock.ExpectExec("DELETE FROM " + tbl).WillReturnResult(sqlmock.NewResult(0, 0))
	}
	mock.ExpectCommit()

	require.NoError(t, Flush(context.Background(), db))
	require.NoError(t, mock.ExpectationsWereMet())
	assert.Equal(t, "seat_holds", order[0])
	assert.Equal(t, "users", order[len(order)-1])
	assert.Len(t, order, len(database.Tables))
}

func TestFlushRollsBackOnError(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM seat_holds").WillReturnError(assert.AnError)
	mock.ExpectRollback()

	err = Flush(context.Background(), db)
	require.ErrorIs(t, err, assert.AnError)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRunStopsOnUnknownAircraft(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	f := File{
		Templates: []Template{{FlightNumber: "X-1", Aircraft: "Concorde", From: "A", To: "B", Duration: "01:00", BasePrice: 1, FlightType: "Domestic"}},
	}
	err = NewSeeder(db, 4, nil).Run(context.Background(), f, 1, time.Now())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Concorde")
	require.NoError(t, mock.ExpectationsWereMet())
}
