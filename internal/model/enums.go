package model

import (
	"fmt"
	"strings"
)

// SeatClass is the cabin a seat belongs to.  Values match the
// seats.class ENUM column.
type SeatClass string

const (
	ClassEconomy  SeatClass = "Economy"
	ClassBusiness SeatClass = "Business"
	ClassFirst    SeatClass = "First"
)

// ParseSeatClass accepts the canonical value case-insensitively, plus the
// "first-class" spelling used by older clients.
func ParseSeatClass(s string) (SeatClass, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "economy":
		return ClassEconomy, nil
	case "business":
		return ClassBusiness, nil
	case "first", "first-class", "first_class":
		return ClassFirst, nil
	}
	return "", fmt.Errorf("unknown seat class %q", s)
}

// SeatPosition describes where a seat sits within its row.
type SeatPosition string

const (
	PositionWindow SeatPosition = "Window"
	PositionAisle  SeatPosition = "Aisle"
	PositionMiddle SeatPosition = "Middle"
)

// ParseSeatPosition returns the position for s.  An empty string is not a
// position; callers treat a missing preference separately.
func ParseSeatPosition(s string) (SeatPosition, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "window":
		return PositionWindow, nil
	case "aisle":
		return PositionAisle, nil
	case "middle":
		return PositionMiddle, nil
	}
	return "", fmt.Errorf("unknown seat position %q", s)
}

// ReservationStatus is the lifecycle state of a reservation.  The only
// transition the service performs is Confirmed -> Refunded.
type ReservationStatus string

const (
	StatusConfirmed ReservationStatus = "Confirmed"
	StatusCancelled ReservationStatus = "Cancelled"
	StatusRefunded  ReservationStatus = "Refunded"
)

// TripType distinguishes one-way bookings from round trips.
type TripType string

const (
	TripOneWay    TripType = "one-way"
	TripRoundTrip TripType = "round-trip"
)

// ParseTripType accepts both dash and underscore spellings.
func ParseTripType(s string) (TripType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "one-way", "one_way", "oneway":
		return TripOneWay, nil
	case "round-trip", "round_trip", "roundtrip":
		return TripRoundTrip, nil
	}
	return "", fmt.Errorf("unknown trip type %q", s)
}

// FlightType marks a template as domestic or international.
type FlightType string

const (
	FlightDomestic      FlightType = "Domestic"
	FlightInternational FlightType = "International"
)

// ParseFlightType matches the value case-insensitively.
func ParseFlightType(s string) (FlightType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "domestic":
		return FlightDomestic, nil
	case "international":
		return FlightInternational, nil
	}
	return "", fmt.Errorf("unknown flight type %q", s)
}

// Role is the closed set of user roles.  Authorization decisions are made
// against these values only; anything else in a token is rejected.
type Role string

const (
	RoleAdmin     Role = "admin"
	RolePassenger Role = "passenger"
)

// ParseRole returns the role named by s.
func ParseRole(s string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleAdmin:
		return RoleAdmin, nil
	case RolePassenger:
		return RolePassenger, nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// Toggled returns the other role.  Admins become passengers and vice versa.
func (r Role) Toggled() Role {
	if r == RoleAdmin {
		return RolePassenger
	}
	return RoleAdmin
}
