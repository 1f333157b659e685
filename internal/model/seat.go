package model

// Seat describes a physical seat of an aircraft.  Seats are shared by all
// flights of the aircraft, so availability is never stored on the seat.
//
// Fields:
//
//	ID         – primary key identifier.
//	AircraftID – aircraft the seat belongs to.
//	SeatNumber – label printed on the ticket (e.g. E12, B3).
//	Class      – cabin class.
//	Position   – Window, Aisle or Middle.
type Seat struct {
	ID         uint64       // seats.id
	AircraftID uint64       // seats.aircraft_id
	SeatNumber string       // seats.seat_number
	Class      SeatClass    // seats.class
	Position   SeatPosition // seats.position
}
