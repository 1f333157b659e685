package model

// Aircraft belongs to an airline and owns a fixed seat layout.  The same
// seats are shared by every flight flown with the aircraft; occupancy is
// tracked per flight in reservation_seats.
//
// Fields:
//
//	ID         – primary key identifier.
//	AirlineID  – operating airline.
//	Model      – manufacturer model name (e.g. Airbus A320neo).
//	TotalSeats – number of seats in the layout.
type Aircraft struct {
	ID         uint64 // aircrafts.id
	AirlineID  uint64 // aircrafts.airline_id
	Model      string // aircrafts.model
	TotalSeats uint32 // aircrafts.total_seats
}
