package search

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ali-7097/Airline-Ticket-Purchasing-System---SkyLink/internal/model"
	"github.com/ali-7097/Airline-Ticket-Purchasing-System---SkyLink/internal/validation"
)

func TestParamsDefaults(t *testing.T) {
	c, err := Params{DepartureCity: "Karachi", ArrivalCity: "Lahore", DepartureDate: "2026-11-02"}.Criteria()
	require.NoError(t, err)

	assert.Equal(t, time.Date(2026, 11, 2, 0, 0, 0, 0, time.UTC), c.Date)
	assert.Equal(t, model.TripOneWay, c.TripType)
	assert.Equal(t, 1, c.Passengers)
	assert.Equal(t, model.ClassEconomy, c.Class)
	assert.Equal(t, SortDeparture, c.Sort)
	assert.Empty(t, c.DepartureBand)
	assert.False(t, c.RoundTrip())
}

func TestParamsCollectsEveryError(t *testing.T) {
	_, err := Params{
		DepartureDate:      "02/11/2026",
		Passengers:         "12",
		SeatClass:          "premium",
		DepartureTimeRange: "dawn",
		SortBy:             "random",
		DepartureAirportID: "-1",
	}.Criteria()

	ve, ok := validation.As(err)
	require.True(t, ok)
	for _, f := range []string{"departure_date", "passengers", "seat_class", "departure_time_range", "sort_by", "departure_airport_id"} {
		assert.Contains(t, ve.Fields, f)
	}
}

func TestRoundTripRequiresReturnDate(t *testing.T) {
	_, err := Params{DepartureDate: "2026-11-02", TripType: "round-trip"}.Criteria()
	ve, ok := validation.As(err)
	require.True(t, ok)
	assert.Contains(t, ve.Fields, "return_date")

	_, err = Params{DepartureDate: "2026-11-02", ReturnDate: "2026-11-01", TripType: "round-trip"}.Criteria()
	ve, ok = validation.As(err)
	require.True(t, ok)
	assert.Equal(t, "must not be before the departure date", ve.Fields["return_date"])
}

func TestReturnCriteriaMirrorsOutbound(t *testing.T) {
	c, err := Params{
		DepartureCountry:   "Pakistan",
		DepartureCity:      "Karachi",
		ArrivalAirportID:   "4",
		DepartureDate:      "2026-11-02",
		ReturnDate:         "2026-11-09",
		TripType:           "round_trip",
		Passengers:         "2",
		SeatClass:          "business",
		FlightType:         "international",
		AirlineID:          "1",
		DepartureTimeRange: "morning",
		ReturnTimeRange:    "evening",
		MaxBudget:          "150000",
		DiscountedOnly:     "true",
		SortBy:             "price",
	}.Criteria()
	require.NoError(t, err)

	r, ok := c.ReturnCriteria()
	require.True(t, ok)
	assert.Equal(t, Location{AirportID: 4}, r.From)
	assert.Equal(t, Location{Country: "Pakistan", City: "Karachi"}, r.To)
	assert.Equal(t, time.Date(2026, 11, 9, 0, 0, 0, 0, time.UTC), r.Date)
	assert.Nil(t, r.ReturnDate)
	assert.Equal(t, BandEvening, r.DepartureBand)

	assert.Equal(t, c.Passengers, r.Passengers)
	assert.Equal(t, c.Class, r.Class)
	assert.Equal(t, c.FlightType, r.FlightType)
	assert.Equal(t, c.AirlineID, r.AirlineID)
	assert.Equal(t, c.MaxBudget, r.MaxBudget)
	assert.Equal(t, c.DiscountedOnly, r.DiscountedOnly)
	assert.Equal(t, c.Sort, r.Sort)

	_, ok = r.ReturnCriteria()
	assert.False(t, ok)
}

func TestTimeBandHours(t *testing.T) {
	tests := []struct {
		band     TimeBand
		from, to int
	}{
		{BandMorning, 6, 12},
		{BandAfternoon, 12, 18},
		{BandEvening, 18, 24},
		{BandNight, 0, 6},
	}
	for _, tt := range tests {
		t.Run(string(tt.band), func(t *testing.T) {
			from, to, ok := tt.band.Hours()
			require.True(t, ok)
			assert.Equal(t, tt.from, from)
			assert.Equal(t, tt.to, to)
		})
	}
	_, _, ok := TimeBand("").Hours()
	assert.False(t, ok)
}
