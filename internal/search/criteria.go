// Package search turns raw search parameters into validated flight search
// criteria.  The SQL itself lives in the repository; this package only
// decides what the filters mean.
package search

import (
	"strconv"
	"strings"
	"time"

	"github.com/ali-7097/Airline-Ticket-Purchasing-System---SkyLink/internal/model"
	"github.com/ali-7097/Airline-Ticket-Purchasing-System---SkyLink/internal/validation"
)

// DateLayout is the wire format of departure and return dates.
const DateLayout = "2006-01-02"

// MaxPassengers is the largest party a single booking may carry.
const MaxPassengers = 9

// SortKey orders a result list.  Every key breaks ties on flight id.
type SortKey string

const (
	SortDeparture SortKey = "departure_time"
	SortPrice     SortKey = "price"
	SortPriceDesc SortKey = "price_desc"
	SortDuration  SortKey = "duration"
	SortAirline   SortKey = "airline"
)

func parseSortKey(s string) (SortKey, bool) {
	switch k := SortKey(strings.ToLower(strings.TrimSpace(s))); k {
	case "":
		return SortDeparture, true
	case SortDeparture, SortPrice, SortPriceDesc, SortDuration, SortAirline:
		return k, true
	}
	return "", false
}

// Location narrows one end of the trip.  AirportID wins over City; Country
// only scopes the city and airport lookups and never filters flights.
type Location struct {
	Country   string
	City      string
	AirportID uint64
}

// Empty reports whether the location names neither an airport nor a city.
func (l Location) Empty() bool {
	return l.AirportID == 0 && l.City == ""
}

// Criteria is a validated search request.
type Criteria struct {
	From           Location
	To             Location
	Date           time.Time
	ReturnDate     *time.Time
	TripType       model.TripType
	Passengers     int
	Class          model.SeatClass
	SeatPreference model.SeatPosition // empty when any position will do
	FlightType     model.FlightType   // empty when any type will do
	AirlineID      uint64
	DepartureBand  TimeBand
	ReturnBand     TimeBand
	MaxBudget      float64 // 0 disables the budget filter
	DiscountedOnly bool
	Sort           SortKey
}

// RoundTrip reports whether a return list should be produced.
func (c Criteria) RoundTrip() bool {
	return c.TripType == model.TripRoundTrip && c.ReturnDate != nil
}

// ReturnCriteria mirrors c for the return leg: origin and destination
// swap, the return date and return band replace the outbound ones, and
// every other filter and the sort key carry over unchanged.  It returns
// false when c is not a round trip.
func (c Criteria) ReturnCriteria() (Criteria, bool) {
	if !c.RoundTrip() {
		return Criteria{}, false
	}
	r := c
	r.From, r.To = c.To, c.From
	r.Date = *c.ReturnDate
	r.ReturnDate = nil
	r.DepartureBand = c.ReturnBand
	r.ReturnBand = ""
	return r, true
}

// Params is the raw query-string form of a search.  Field names follow the
// public API.
type Params struct {
	DepartureCountry   string `query:"departure_country"`
	DepartureCity      string `query:"departure_city"`
	DepartureAirportID string `query:"departure_airport_id"`
	ArrivalCountry     string `query:"arrival_country"`
	ArrivalCity        string `query:"arrival_city"`
	ArrivalAirportID   string `query:"arrival_airport_id"`
	DepartureDate      string `query:"departure_date"`
	ReturnDate         string `query:"return_date"`
	TripType           string `query:"trip_type"`
	Passengers         string `query:"passengers"`
	SeatClass          string `query:"seat_class"`
	SeatPreference     string `query:"seat_preference"`
	FlightType         string `query:"flight_type"`
	AirlineID          string `query:"preferred_airline_id"`
	DepartureTimeRange string `query:"departure_time_range"`
	ReturnTimeRange    string `query:"return_time_range"`
	MaxBudget          string `query:"max_budget"`
	DiscountedOnly     string `query:"show_discounted_only"`
	SortBy             string `query:"sort_by"`
}

// Criteria validates p and converts it.  All problems are reported
// together in a *validation.Error.
func (p Params) Criteria() (Criteria, error) {
	var (
		ve validation.Error
		c  Criteria
	)

	c.From = Location{Country: strings.TrimSpace(p.DepartureCountry), City: strings.TrimSpace(p.DepartureCity)}
	c.To = Location{Country: strings.TrimSpace(p.ArrivalCountry), City: strings.TrimSpace(p.ArrivalCity)}
	if id, ok := optionalID(p.DepartureAirportID); ok {
		c.From.AirportID = id
	} else {
		ve.Add("departure_airport_id", "must be a positive integer")
	}
	if id, ok := optionalID(p.ArrivalAirportID); ok {
		c.To.AirportID = id
	} else {
		ve.Add("arrival_airport_id", "must be a positive integer")
	}

	d, err := time.Parse(DateLayout, strings.TrimSpace(p.DepartureDate))
	if err != nil {
		ve.Add("departure_date", "must be a date in YYYY-MM-DD format")
	}
	c.Date = d

	tt, err := model.ParseTripType(p.TripType)
	if err != nil {
		ve.Add("trip_type", "must be one-way or round-trip")
	}
	c.TripType = tt

	if s := strings.TrimSpace(p.ReturnDate); s != "" {
		rd, err := time.Parse(DateLayout, s)
		switch {
		case err != nil:
			ve.Add("return_date", "must be a date in YYYY-MM-DD format")
		case !c.Date.IsZero() && rd.Before(c.Date):
			ve.Add("return_date", "must not be before the departure date")
		default:
			c.ReturnDate = &rd
		}
	} else if c.TripType == model.TripRoundTrip {
		ve.Add("return_date", "is required for a round trip")
	}

	c.Passengers = 1
	if s := strings.TrimSpace(p.Passengers); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 || n > MaxPassengers {
			ve.Add("passengers", "must be between 1 and 9")
		}
		c.Passengers = n
	}

	c.Class = model.ClassEconomy
	if strings.TrimSpace(p.SeatClass) != "" {
		cl, err := model.ParseSeatClass(p.SeatClass)
		if err != nil {
			ve.Add("seat_class", "must be economy, business or first")
		}
		c.Class = cl
	}

	if strings.TrimSpace(p.SeatPreference) != "" {
		pos, err := model.ParseSeatPosition(p.SeatPreference)
		if err != nil {
			ve.Add("seat_preference", "must be window, aisle or middle")
		}
		c.SeatPreference = pos
	}

	if strings.TrimSpace(p.FlightType) != "" {
		ft, err := model.ParseFlightType(p.FlightType)
		if err != nil {
			ve.Add("flight_type", "must be domestic or international")
		}
		c.FlightType = ft
	}

	if id, ok := optionalID(p.AirlineID); ok {
		c.AirlineID = id
	} else {
		ve.Add("preferred_airline_id", "must be a positive integer")
	}

	if b, err := ParseTimeBand(p.DepartureTimeRange); err == nil {
		c.DepartureBand = b
	} else {
		ve.Add("departure_time_range", "must be morning, afternoon, evening or night")
	}
	if b, err := ParseTimeBand(p.ReturnTimeRange); err == nil {
		c.ReturnBand = b
	} else {
		ve.Add("return_time_range", "must be morning, afternoon, evening or night")
	}

	if s := strings.TrimSpace(p.MaxBudget); s != "" {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil || v < 0 {
			ve.Add("max_budget", "must be a non-negative number")
		}
		c.MaxBudget = v
	}

	if s := strings.TrimSpace(p.DiscountedOnly); s != "" {
		b, err := strconv.ParseBool(s)
		if err != nil {
			ve.Add("show_discounted_only", "must be true or false")
		}
		c.DiscountedOnly = b
	}

	sk, ok := parseSortKey(p.SortBy)
	if !ok {
		ve.Add("sort_by", "must be one of departure_time, price, price_desc, duration, airline")
	}
	c.Sort = sk

	if err := ve.Err(); err != nil {
		return Criteria{}, err
	}
	return c, nil
}

// optionalID parses an id that may be absent.  Absent and "0" both mean
// "not set".
func optionalID(s string) (uint64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, true
	}
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}
