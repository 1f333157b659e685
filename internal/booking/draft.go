// Package booking implements the multi-step booking workflow as a series of
// pure transitions over an immutable Draft.  Persistence of drafts between
// requests is delegated to a Store; committing the reservation is done by
// the repository layer.
package booking

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ali-7097/Airline-Ticket-Purchasing-System---SkyLink/internal/model"
	"github.com/ali-7097/Airline-Ticket-Purchasing-System---SkyLink/internal/pricing"
)

// Stage is the step a draft has reached.
type Stage string

const (
	StageSearchResults    Stage = "search_results"
	StagePassengerDetails Stage = "passenger_details"
	StageSeatSelection    Stage = "seat_selection"
	StagePayment          Stage = "payment"
	StageConfirmed        Stage = "confirmed"
)

func (s Stage) rank() int {
	switch s {
	case StagePassengerDetails:
		return 1
	case StageSeatSelection:
		return 2
	case StagePayment:
		return 3
	case StageConfirmed:
		return 4
	}
	return 0
}

var (
	// ErrConflict is the base of every state conflict.  Handlers map it to
	// 409.
	ErrConflict = errors.New("booking conflict")
	// ErrConfirmed is returned for any transition on a confirmed draft.
	ErrConfirmed = fmt.Errorf("%w: booking already confirmed", ErrConflict)
	// ErrStage is returned when a step is attempted before its
	// prerequisites are filled in.
	ErrStage = fmt.Errorf("%w: step not reachable from current stage", ErrConflict)
	// ErrSeatUnavailable is returned when a chosen seat is booked or held.
	ErrSeatUnavailable = fmt.Errorf("%w: seat is no longer available", ErrConflict)
	// ErrPaymentInProgress is returned when another request holds the
	// payment lock of the draft.
	ErrPaymentInProgress = fmt.Errorf("%w: payment already in progress", ErrConflict)

	// ErrNotFound is returned by stores for unknown or expired drafts.
	ErrNotFound = errors.New("booking not found")
	// ErrForbidden is returned when a user touches another user's draft.
	ErrForbidden = errors.New("booking belongs to another user")
)

// PassengerInfo is one passenger form as submitted.  Age is a pointer so
// a missing age is told apart from an infant's 0.
type PassengerInfo struct {
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	Gender        string `json:"gender"`
	Age           *int   `json:"age"`
	PassportNo    string `json:"passport_no"`
	ContactNumber string `json:"contact_number"`
}

// Passenger converts the form to the model stored at commit.
func (p PassengerInfo) Passenger() model.Passenger {
	var age int
	if p.Age != nil {
		age = *p.Age
	}
	return model.Passenger{
		FirstName:     p.FirstName,
		LastName:      p.LastName,
		Gender:        p.Gender,
		Age:           age,
		PassportNo:    p.PassportNo,
		ContactNumber: p.ContactNumber,
	}
}

// Draft is the state of one booking attempt.  Drafts are values: every
// transition returns a new Draft and leaves its input untouched.  Slices
// are copied on write so two drafts never share backing arrays.
type Draft struct {
	ID             string             `json:"id"`
	UserID         uint64             `json:"user_id"`
	Stage          Stage              `json:"stage"`
	FlightID       uint64             `json:"flight_id,omitempty"`
	Class          model.SeatClass    `json:"seat_class,omitempty"`
	Passengers     int                `json:"passengers,omitempty"`
	TripType       model.TripType     `json:"trip_type,omitempty"`
	SeatPreference model.SeatPosition `json:"seat_preference,omitempty"`
	Quote          pricing.Quote      `json:"quote"`
	PassengerInfo  []PassengerInfo    `json:"passenger_info,omitempty"`
	SeatIDs        []uint64           `json:"seat_ids,omitempty"`
	ReservationID  uint64             `json:"reservation_id,omitempty"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`
}

// New starts a booking attempt for userID with a fresh UUID v4 id.
func New(userID uint64, now time.Time) Draft {
	return Draft{
		ID:        uuid.NewString(),
		UserID:    userID,
		Stage:     StageSearchResults,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// OwnedBy reports whether userID created the draft.
func (d Draft) OwnedBy(userID uint64) bool {
	return d.UserID == userID
}

// CheckOwner returns ErrForbidden when userID did not create the draft.
func (d Draft) CheckOwner(userID uint64) error {
	if !d.OwnedBy(userID) {
		return ErrForbidden
	}
	return nil
}

// Reached reports whether the draft has got to stage s or beyond.
func (d Draft) Reached(s Stage) bool {
	return d.Stage.rank() >= s.rank()
}

// Confirmed reports whether the draft has been committed.
func (d Draft) Confirmed() bool {
	return d.Stage == StageConfirmed
}

// clone copies the slices of d so the result can be modified freely.
func (d Draft) clone() Draft {
	if d.PassengerInfo != nil {
		d.PassengerInfo = append([]PassengerInfo(nil), d.PassengerInfo...)
	}
	if d.SeatIDs != nil {
		d.SeatIDs = append([]uint64(nil), d.SeatIDs...)
	}
	return d
}
