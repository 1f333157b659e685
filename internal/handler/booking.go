package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ali-7097/Airline-Ticket-Purchasing-System---SkyLink/internal/booking"
	"github.com/ali-7097/Airline-Ticket-Purchasing-System---SkyLink/internal/config"
	"github.com/ali-7097/Airline-Ticket-Purchasing-System---SkyLink/internal/model"
	"github.com/ali-7097/Airline-Ticket-Purchasing-System---SkyLink/internal/pricing"
	"github.com/ali-7097/Airline-Ticket-Purchasing-System---SkyLink/internal/repository"
	"github.com/ali-7097/Airline-Ticket-Purchasing-System---SkyLink/internal/service"
	"github.com/ali-7097/Airline-Ticket-Purchasing-System---SkyLink/internal/validation"
)

// paymentLockTTL bounds how long a crashed payment request can block
// retries of the same draft.
const paymentLockTTL = 30 * time.Second

// BookingHandler drives the booking workflow: select flight, passenger
// details, seat selection and payment.  Drafts live in the Store between
// requests; the only database write is the final commit.
type BookingHandler struct {
	Cfg          config.Config
	Drafts       booking.Store
	Flights      *repository.FlightRepo
	Seats        *repository.SeatRepo
	Holds        *repository.SeatHoldRepo
	Reservations *repository.ReservationRepo
	Publisher    service.Publisher
	Now          func() time.Time
}

func NewBookingHandler(cfg config.Config, drafts booking.Store, flights *repository.FlightRepo, seats *repository.SeatRepo,
	holds *repository.SeatHoldRepo, res *repository.ReservationRepo, pub service.Publisher) *BookingHandler {
	if pub == nil {
		pub = service.NopPublisher{}
	}
	return &BookingHandler{
		Cfg: cfg, Drafts: drafts, Flights: flights, Seats: seats, Holds: holds,
		Reservations: res, Publisher: pub, Now: func() time.Time { return time.Now().UTC() },
	}
}

// ----- DTOs -----

type selectFlightReq struct {
	FlightID       uint64 `json:"flight_id"`
	SeatClass      string `json:"seat_class"`
	Passengers     int    `json:"passengers"`
	TripType       string `json:"trip_type"`
	SeatPreference string `json:"seat_preference"`
}

type passengersReq struct {
	Passengers []booking.PassengerInfo `json:"passengers"`
}

type seatsReq struct {
	SeatIDs []uint64 `json:"seat_ids"`
}

type seatDTO struct {
	ID         uint64             `json:"id"`
	SeatNumber string             `json:"seat_number"`
	Class      model.SeatClass    `json:"class"`
	Position   model.SeatPosition `json:"position"`
	Selected   bool               `json:"selected"`
}

// selection validates req against the flight it names and prices it.
// Unknown flights are ErrNotFound; inactive or departed flights and a
// cabin without enough free seats are field errors.
func (h *BookingHandler) selection(ctx context.Context, req selectFlightReq, userID uint64, now time.Time) (booking.Selection, error) {
	var ve validation.Error
	sel := booking.Selection{FlightID: req.FlightID, Passengers: req.Passengers}

	if cl, err := model.ParseSeatClass(req.SeatClass); err == nil {
		sel.Class = cl
	}
	tt, err := model.ParseTripType(req.TripType)
	if err != nil {
		ve.Add("trip_type", "must be one-way or round-trip")
	}
	sel.TripType = tt
	if strings.TrimSpace(req.SeatPreference) != "" {
		pos, err := model.ParseSeatPosition(req.SeatPreference)
		if err != nil {
			ve.Add("seat_preference", "must be window, aisle or middle")
		}
		sel.SeatPreference = pos
	}
	if err := ve.Err(); err != nil {
		return sel, err
	}
	// Shape problems are reported by the transition itself.
	if sel.FlightID == 0 || sel.Class == "" || sel.Passengers < 1 || sel.Passengers > booking.MaxPassengers {
		return sel, nil
	}

	f, err := h.Flights.Get(ctx, sel.FlightID)
	if err != nil {
		return sel, err
	}
	if !f.Bookable(now) {
		return sel, validation.Field("flight_id", "flight is not available for booking")
	}
	free, err := h.Seats.AvailableForFlight(ctx, f.ID, sel.Class, userID)
	if err != nil {
		return sel, err
	}
	if len(free) < sel.Passengers {
		return sel, validation.Field("passengers", "not enough seats available in this class")
	}
	sel.Quote = pricing.Calculate(f.BasePrice, sel.Class, f.DiscountPercentage, sel.Passengers)
	return sel, nil
}

// load fetches the draft named by :id and checks that the caller owns it.
func (h *BookingHandler) load(ctx context.Context, c echo.Context, userID uint64) (booking.Draft, error) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		return booking.Draft{}, booking.ErrNotFound
	}
	d, err := h.Drafts.Get(ctx, id)
	if err != nil {
		return booking.Draft{}, err
	}
	if err := d.CheckOwner(userID); err != nil {
		return booking.Draft{}, err
	}
	return d, nil
}

// releaseHolds drops the caller's holds on the draft's flight.  Failure
// is logged only; holds lapse on their own.
func (h *BookingHandler) releaseHolds(ctx context.Context, c echo.Context, d booking.Draft) {
	if d.FlightID == 0 || len(d.SeatIDs) == 0 {
		return
	}
	if err := h.Holds.Release(ctx, d.UserID, d.FlightID); err != nil {
		c.Logger().Warnf("release seat holds of booking %s: %v", d.ID, err)
	}
}

// Create starts a booking for the selected flight (POST /v1/bookings).
func (h *BookingHandler) Create(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	var req selectFlightReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	ctx, cancel := readCtx(c, h.Cfg.RequestTimeout)
	defer cancel()

	now := h.Now()
	sel, err := h.selection(ctx, req, uid, now)
	if err != nil {
		return respondError(c, err)
	}
	d, err := booking.SelectFlight(booking.New(uid, now), sel, now)
	if err != nil {
		return respondError(c, err)
	}
	if err := h.Drafts.Save(ctx, d); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"booking": d})
}

// Get returns a draft with its flight.
func (h *BookingHandler) Get(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	ctx, cancel := readCtx(c, h.Cfg.RequestTimeout)
	defer cancel()

	d, err := h.load(ctx, c, uid)
	if err != nil {
		return respondError(c, err)
	}
	body := echo.Map{"booking": d}
	if d.FlightID != 0 {
		f, err := h.Flights.Get(ctx, d.FlightID)
		if err != nil {
			return respondError(c, err)
		}
		body["flight"] = f
	}
	return c.JSON(http.StatusOK, body)
}

// SelectFlight re-runs flight selection on an existing draft.  Passenger
// forms and seats chosen earlier are discarded.
func (h *BookingHandler) SelectFlight(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	var req selectFlightReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	ctx, cancel := readCtx(c, h.Cfg.RequestTimeout)
	defer cancel()

	d, err := h.load(ctx, c, uid)
	if err != nil {
		return respondError(c, err)
	}
	if d.Confirmed() {
		return respondError(c, booking.ErrConfirmed)
	}
	now := h.Now()
	sel, err := h.selection(ctx, req, uid, now)
	if err != nil {
		return respondError(c, err)
	}
	next, err := booking.SelectFlight(d, sel, now)
	if err != nil {
		return respondError(c, err)
	}
	if err := h.Drafts.Save(ctx, next); err != nil {
		return respondError(c, err)
	}
	h.releaseHolds(ctx, c, d)
	return c.JSON(http.StatusOK, echo.Map{"booking": next})
}

// Passengers records one form per passenger.
func (h *BookingHandler) Passengers(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	var req passengersReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	ctx, cancel := readCtx(c, h.Cfg.RequestTimeout)
	defer cancel()

	d, err := h.load(ctx, c, uid)
	if err != nil {
		return respondError(c, err)
	}
	next, err := booking.WithPassengers(d, req.Passengers, h.Now())
	if err != nil {
		return respondError(c, err)
	}
	if err := h.Drafts.Save(ctx, next); err != nil {
		return respondError(c, err)
	}
	h.releaseHolds(ctx, c, d)
	return c.JSON(http.StatusOK, echo.Map{"booking": next})
}

// SeatMap lists the seats the caller may pick, preferred position first.
func (h *BookingHandler) SeatMap(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	ctx, cancel := readCtx(c, h.Cfg.RequestTimeout)
	defer cancel()

	d, err := h.load(ctx, c, uid)
	if err != nil {
		return respondError(c, err)
	}
	if d.Confirmed() {
		return respondError(c, booking.ErrConfirmed)
	}
	if !d.Reached(booking.StageSeatSelection) {
		return respondError(c, booking.ErrStage)
	}
	seats, err := h.Seats.AvailableForFlight(ctx, d.FlightID, d.Class, uid)
	if err != nil {
		return respondError(c, err)
	}
	chosen := make(map[uint64]bool, len(d.SeatIDs))
	for _, id := range d.SeatIDs {
		chosen[id] = true
	}
	out := make([]seatDTO, 0, len(seats))
	for _, s := range repository.PreferredFirst(seats, d.SeatPreference) {
		out = append(out, seatDTO{ID: s.ID, SeatNumber: s.SeatNumber, Class: s.Class, Position: s.Position, Selected: chosen[s.ID]})
	}
	return c.JSON(http.StatusOK, echo.Map{"seats": out, "required": d.Passengers})
}

// ChooseSeats records the chosen seats and holds them for SeatHoldTTL.
func (h *BookingHandler) ChooseSeats(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	var req seatsReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	ctx, cancel := readCtx(c, h.Cfg.RequestTimeout)
	defer cancel()

	d, err := h.load(ctx, c, uid)
	if err != nil {
		return respondError(c, err)
	}
	if d.Confirmed() {
		return respondError(c, booking.ErrConfirmed)
	}
	if !d.Reached(booking.StageSeatSelection) {
		return respondError(c, booking.ErrStage)
	}
	available, err := h.Seats.AvailableSet(ctx, d.FlightID, d.Class, uid)
	if err != nil {
		return respondError(c, err)
	}
	now := h.Now()
	next, err := booking.WithSeats(d, req.SeatIDs, available, now)
	if err != nil {
		return respondError(c, err)
	}
	if err := h.Holds.Replace(ctx, uid, d.FlightID, next.SeatIDs, now.Add(h.Cfg.SeatHoldTTL)); err != nil {
		return respondError(c, err)
	}
	if err := h.Drafts.Save(ctx, next); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"booking": next})
}

// Pay validates the card and commits the booking.  The draft is locked
// for the duration so a double submit cannot commit twice.
func (h *BookingHandler) Pay(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	var p booking.Payment
	if err := c.Bind(&p); err != nil {
		return badRequest(c, "invalid body")
	}
	ctx := c.Request().Context()

	d, err := h.load(ctx, c, uid)
	if err != nil {
		return respondError(c, err)
	}
	if d.Confirmed() {
		return respondError(c, booking.ErrConfirmed)
	}
	if d.Stage != booking.StagePayment {
		return respondError(c, booking.ErrStage)
	}
	now := h.Now()
	if err := booking.ValidatePayment(p, now); err != nil {
		return respondError(c, err)
	}

	if err := h.Drafts.Lock(ctx, d.ID, paymentLockTTL); err != nil {
		return respondError(c, err)
	}
	defer func() {
		uctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
		defer cancel()
		if err := h.Drafts.Unlock(uctx, d.ID); err != nil {
			c.Logger().Warnf("unlock booking %s: %v", d.ID, err)
		}
	}()

	// Another request may have committed, or gone back to an earlier
	// step, between the first read and the lock.
	d, err = h.load(ctx, c, uid)
	if err != nil {
		return respondError(c, err)
	}
	if d.Confirmed() {
		return respondError(c, booking.ErrConfirmed)
	}
	if d.Stage != booking.StagePayment {
		return respondError(c, booking.ErrStage)
	}
	f, err := h.Flights.Get(ctx, d.FlightID)
	if err != nil {
		return respondError(c, err)
	}
	if !f.Bookable(now) {
		return respondError(c, validation.Field("flight_id", "flight is no longer available for booking"))
	}

	passengers := make([]model.Passenger, len(d.PassengerInfo))
	for i, pi := range d.PassengerInfo {
		passengers[i] = pi.Passenger()
	}
	resID, err := h.Reservations.CommitBooking(ctx, repository.CommitRequest{
		UserID:        uid,
		FlightID:      d.FlightID,
		Passengers:    passengers,
		SeatIDs:       d.SeatIDs,
		TotalPrice:    d.Quote.Total,
		PaymentMethod: booking.PaymentMethodCard,
		TripType:      d.TripType,
	})
	if err != nil {
		return respondError(c, err)
	}

	confirmed, err := booking.Confirm(d, resID, now)
	if err != nil {
		return respondError(c, err)
	}
	// The reservation exists from here on; a lost draft only means the
	// client cannot re-read its confirmation.
	if err := h.Drafts.Save(ctx, confirmed); err != nil {
		c.Logger().Warnf("save confirmed booking %s: %v", d.ID, err)
	}
	h.publishConfirmed(c, resID, now)

	return c.JSON(http.StatusCreated, echo.Map{
		"reservation_id": resID,
		"total_price":    d.Quote.Total,
		"booking":        confirmed,
	})
}

// Cancel abandons a draft and releases its seat holds.
func (h *BookingHandler) Cancel(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	ctx, cancel := readCtx(c, h.Cfg.RequestTimeout)
	defer cancel()

	d, err := h.load(ctx, c, uid)
	if err != nil {
		return respondError(c, err)
	}
	if !d.Confirmed() {
		h.releaseHolds(ctx, c, d)
	}
	if err := h.Drafts.Delete(ctx, d.ID); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// publishConfirmed loads the committed reservation and publishes its
// audit event in the background.
func (h *BookingHandler) publishConfirmed(c echo.Context, resID uint64, now time.Time) {
	if _, off := h.Publisher.(service.NopPublisher); off {
		return
	}
	logger := c.Logger()
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		det, err := h.Reservations.GetDetail(ctx, resID, now)
		if err != nil {
			logger.Warnf("load reservation %d for audit: %v", resID, err)
			return
		}
		if err := h.Publisher.PublishBookingConfirmed(ctx, confirmedEvent(det, now)); err != nil {
			logger.Warnf("publish booking.confirmed %d: %v", resID, err)
		}
	}()
}
