package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ali-7097/Airline-Ticket-Purchasing-System---SkyLink/internal/config"
	"github.com/ali-7097/Airline-Ticket-Purchasing-System---SkyLink/internal/document"
	"github.com/ali-7097/Airline-Ticket-Purchasing-System---SkyLink/internal/repository"
	"github.com/ali-7097/Airline-Ticket-Purchasing-System---SkyLink/internal/service"
)

// dashboardRecent is the number of reservations on the passenger
// dashboard.
const dashboardRecent = 5

// ReservationHandler serves a passenger's committed reservations: lists,
// details, refunds and the two PDF documents.  Every endpoint is scoped
// to the caller; another user's reservation is 403.
type ReservationHandler struct {
	Cfg          config.Config
	Reservations *repository.ReservationRepo
	Publisher    service.Publisher
	Now          func() time.Time
}

func NewReservationHandler(cfg config.Config, res *repository.ReservationRepo, pub service.Publisher) *ReservationHandler {
	if pub == nil {
		pub = service.NopPublisher{}
	}
	return &ReservationHandler{Cfg: cfg, Reservations: res, Publisher: pub, Now: func() time.Time { return time.Now().UTC() }}
}

// List returns the caller's reservations, newest first.
func (h *ReservationHandler) List(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	ctx, cancel := readCtx(c, h.Cfg.RequestTimeout)
	defer cancel()

	out, err := h.Reservations.ListByUser(ctx, uid, 0, h.Now())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"reservations": out})
}

// Dashboard returns the five latest reservations and the upcoming
// confirmed flights of the caller.
func (h *ReservationHandler) Dashboard(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	ctx, cancel := readCtx(c, h.Cfg.RequestTimeout)
	defer cancel()

	now := h.Now()
	recent, err := h.Reservations.ListByUser(ctx, uid, dashboardRecent, now)
	if err != nil {
		return respondError(c, err)
	}
	upcoming, err := h.Reservations.UpcomingForUser(ctx, uid, now)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"recent": recent, "upcoming": upcoming})
}

// detail loads reservation :id for the caller.
func (h *ReservationHandler) detail(c echo.Context) (*repository.ReservationDetail, error) {
	uid, err := getUserID(c)
	if err != nil {
		return nil, err
	}
	id, ok := parseID(c, "id")
	if !ok {
		return nil, repository.ErrNotFound
	}
	ctx, cancel := readCtx(c, h.Cfg.RequestTimeout)
	defer cancel()
	return h.Reservations.GetDetailForUser(ctx, id, uid, h.Now())
}

// Get returns one reservation with its seats and invoice.
func (h *ReservationHandler) Get(c echo.Context) error {
	d, err := h.detail(c)
	if err == errNoUser {
		return unauthorized(c)
	}
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"reservation": d})
}

// Refund refunds a confirmed reservation whose flight has not departed.
func (h *ReservationHandler) Refund(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}
	now := h.Now()
	res, err := h.Reservations.Refund(c.Request().Context(), id, uid, now)
	if err != nil {
		return respondError(c, err)
	}

	ev := refundedEvent(res, uid, now)
	logger := c.Logger()
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := h.Publisher.PublishBookingRefunded(ctx, ev); err != nil {
			logger.Warnf("publish booking.refunded %d: %v", ev.ReservationID, err)
		}
	}()
	return c.JSON(http.StatusOK, echo.Map{"refund": res})
}

// Ticket streams the ticket PDF.
func (h *ReservationHandler) Ticket(c echo.Context) error {
	d, err := h.detail(c)
	if err == errNoUser {
		return unauthorized(c)
	}
	if err != nil {
		return respondError(c, err)
	}
	pdf, err := document.Ticket(toDocument(d))
	if err != nil {
		return respondError(c, err)
	}
	return attachment(c, document.TicketFilename(d.ID), pdf)
}

// Invoice streams the invoice PDF.
func (h *ReservationHandler) Invoice(c echo.Context) error {
	d, err := h.detail(c)
	if err == errNoUser {
		return unauthorized(c)
	}
	if err != nil {
		return respondError(c, err)
	}
	pdf, err := document.Invoice(toDocument(d))
	if err != nil {
		return respondError(c, err)
	}
	return attachment(c, document.InvoiceFilename(d.ID), pdf)
}

func attachment(c echo.Context, filename string, pdf []byte) error {
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Blob(http.StatusOK, "application/pdf", pdf)
}
