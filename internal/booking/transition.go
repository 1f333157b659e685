package booking

import (
	"strings"
	"time"

	"github.com/ali-7097/Airline-Ticket-Purchasing-System---SkyLink/internal/model"
	"github.com/ali-7097/Airline-Ticket-Purchasing-System---SkyLink/internal/pricing"
	"github.com/ali-7097/Airline-Ticket-Purchasing-System---SkyLink/internal/validation"
)

// MaxPassengers bounds the number of passengers on one booking.
const MaxPassengers = 9

// Selection is what the search results step hands to the workflow.
type Selection struct {
	FlightID       uint64
	Class          model.SeatClass
	Passengers     int
	TripType       model.TripType
	SeatPreference model.SeatPosition
	Quote          pricing.Quote
}

// SelectFlight moves a draft to passenger_details.  It may be re-run from
// any later stage short of confirmed; passenger and seat data from the
// previous selection are discarded.
func SelectFlight(d Draft, sel Selection, now time.Time) (Draft, error) {
	if d.Confirmed() {
		return d, ErrConfirmed
	}
	var ve validation.Error
	if sel.FlightID == 0 {
		ve.Add("flight_id", "is required")
	}
	if sel.Passengers < 1 || sel.Passengers > MaxPassengers {
		ve.Add("passengers", "must be between 1 and 9")
	}
	switch sel.Class {
	case model.ClassEconomy, model.ClassBusiness, model.ClassFirst:
	default:
		ve.Add("seat_class", "must be economy, business or first")
	}
	if err := ve.Err(); err != nil {
		return d, err
	}

	next := d.clone()
	next.Stage = StagePassengerDetails
	next.FlightID = sel.FlightID
	next.Class = sel.Class
	next.Passengers = sel.Passengers
	next.TripType = sel.TripType
	if next.TripType == "" {
		next.TripType = model.TripOneWay
	}
	next.SeatPreference = sel.SeatPreference
	next.Quote = sel.Quote
	next.PassengerInfo = nil
	next.SeatIDs = nil
	next.UpdatedAt = now
	return next, nil
}

// WithPassengers records exactly one form per passenger slot and moves the
// draft to seat_selection.  Field errors are reported per form position and
// leave the draft unchanged.  Re-running it from seat_selection or payment
// clears the chosen seats.
func WithPassengers(d Draft, forms []PassengerInfo, now time.Time) (Draft, error) {
	if d.Confirmed() {
		return d, ErrConfirmed
	}
	if d.Stage.rank() < StagePassengerDetails.rank() {
		return d, ErrStage
	}
	var ve validation.Error
	if len(forms) != d.Passengers {
		ve.Add("passengers", "expected one form per passenger")
	}
	for i, f := range forms {
		validatePassenger(&ve, i, f)
	}
	if err := ve.Err(); err != nil {
		return d, err
	}

	next := d.clone()
	next.Stage = StageSeatSelection
	next.PassengerInfo = make([]PassengerInfo, len(forms))
	for i, f := range forms {
		next.PassengerInfo[i] = normalizePassenger(f)
	}
	next.SeatIDs = nil
	next.UpdatedAt = now
	return next, nil
}

// WithSeats records the chosen seats and moves the draft to payment.
// available is the set of seats still free for this user on the flight in
// the draft's cabin.  A wrong count or a repeated seat is a validation
// error; a seat outside available is ErrSeatUnavailable.
func WithSeats(d Draft, seatIDs []uint64, available map[uint64]bool, now time.Time) (Draft, error) {
	if d.Confirmed() {
		return d, ErrConfirmed
	}
	if d.Stage.rank() < StageSeatSelection.rank() {
		return d, ErrStage
	}
	if len(seatIDs) != d.Passengers {
		return d, validation.Field("seat_ids", "select exactly one seat per passenger")
	}
	seen := make(map[uint64]bool, len(seatIDs))
	for _, id := range seatIDs {
		if seen[id] {
			return d, validation.Field("seat_ids", "each seat may be selected once")
		}
		seen[id] = true
	}
	for _, id := range seatIDs {
		if !available[id] {
			return d, ErrSeatUnavailable
		}
	}

	next := d.clone()
	next.Stage = StagePayment
	next.SeatIDs = append([]uint64(nil), seatIDs...)
	next.UpdatedAt = now
	return next, nil
}

// Confirm marks the draft as committed under reservationID.  Only a draft
// at the payment stage can be confirmed.
func Confirm(d Draft, reservationID uint64, now time.Time) (Draft, error) {
	if d.Confirmed() {
		return d, ErrConfirmed
	}
	if d.Stage != StagePayment {
		return d, ErrStage
	}
	next := d.clone()
	next.Stage = StageConfirmed
	next.ReservationID = reservationID
	next.UpdatedAt = now
	return next, nil
}

func validatePassenger(ve *validation.Error, i int, f PassengerInfo) {
	if strings.TrimSpace(f.FirstName) == "" {
		ve.AddPassenger(i, "first_name", "is required")
	} else if len(f.FirstName) > 50 {
		ve.AddPassenger(i, "first_name", "must be at most 50 characters")
	}
	if strings.TrimSpace(f.LastName) == "" {
		ve.AddPassenger(i, "last_name", "is required")
	} else if len(f.LastName) > 50 {
		ve.AddPassenger(i, "last_name", "must be at most 50 characters")
	}
	switch strings.TrimSpace(f.Gender) {
	case "Male", "Female", "Other":
	default:
		ve.AddPassenger(i, "gender", "must be Male, Female or Other")
	}
	if f.Age == nil {
		ve.AddPassenger(i, "age", "is required")
	} else if *f.Age < 0 || *f.Age > 120 {
		ve.AddPassenger(i, "age", "must be between 0 and 120")
	}
	if strings.TrimSpace(f.PassportNo) == "" {
		ve.AddPassenger(i, "passport_no", "is required")
	} else if len(f.PassportNo) > 50 {
		ve.AddPassenger(i, "passport_no", "must be at most 50 characters")
	}
	if strings.TrimSpace(f.ContactNumber) == "" {
		ve.AddPassenger(i, "contact_number", "is required")
	} else if len(f.ContactNumber) > 20 {
		ve.AddPassenger(i, "contact_number", "must be at most 20 characters")
	}
}

func normalizePassenger(f PassengerInfo) PassengerInfo {
	f.FirstName = strings.TrimSpace(f.FirstName)
	f.LastName = strings.TrimSpace(f.LastName)
	f.Gender = strings.TrimSpace(f.Gender)
	f.PassportNo = strings.TrimSpace(f.PassportNo)
	f.ContactNumber = strings.TrimSpace(f.ContactNumber)
	if f.Age != nil {
		age := *f.Age
		f.Age = &age
	}
	return f
}
