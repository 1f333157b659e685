package model

import "time"

// FlightTemplate is a recurring route definition.  Dated Flight rows are
// scheduled from it and it owns exactly one Price row.
//
// Fields:
//
//	ID                 – primary key identifier.
//	AirlineID          – operating airline.
//	AircraftID         – aircraft whose seat layout is sold.
//	FlightNumber       – public flight number (e.g. PK-101).
//	DepartureAirportID – origin airport.
//	ArrivalAirportID   – destination airport.
//	Duration           – scheduled block time, stored as TIME "HH:MM:SS".
//	BasePrice          – economy base fare used by the run-time quote.
//	FlightType         – Domestic or International.
type FlightTemplate struct {
	ID                 uint64     // flight_templates.id
	AirlineID          uint64     // flight_templates.airline_id
	AircraftID         uint64     // flight_templates.aircraft_id
	FlightNumber       string     // flight_templates.flight_number
	DepartureAirportID uint64     // flight_templates.departure_airport_id
	ArrivalAirportID   uint64     // flight_templates.arrival_airport_id
	Duration           string     // flight_templates.duration
	BasePrice          float64    // flight_templates.base_price
	FlightType         FlightType // flight_templates.flight_type
}

// Flight is one dated instance of a template.  Departure and arrival are
// stored in the local time of the respective airport; TimezoneDiff records
// the hour offset between the two.
type Flight struct {
	ID                uint64    // flights.id
	FlightTemplateID  uint64    // flights.flight_template_id
	DepartureDatetime time.Time // flights.departure_datetime
	ArrivalDatetime   time.Time // flights.arrival_datetime
	TimezoneDiff      int       // flights.timezone_diff
	IsActive          bool      // flights.is_active
}

// Price is the persisted per-cabin price of a template.  The search budget
// filter reads it; the booking quote does not.
type Price struct {
	ID               uint64  // prices.id
	FlightTemplateID uint64  // prices.flight_template_id
	EconomyPrice     float64 // prices.economy_price
	BusinessPrice    float64 // prices.business_price
	FirstPrice       float64 // prices.first_price
}
