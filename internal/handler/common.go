package handler // handler defines http handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ali-7097/Airline-Ticket-Purchasing-System---SkyLink/internal/booking"
	"github.com/ali-7097/Airline-Ticket-Purchasing-System---SkyLink/internal/middleware"
	"github.com/ali-7097/Airline-Ticket-Purchasing-System---SkyLink/internal/model"
	"github.com/ali-7097/Airline-Ticket-Purchasing-System---SkyLink/internal/repository"
	"github.com/ali-7097/Airline-Ticket-Purchasing-System---SkyLink/internal/validation"
)

// defaultTimeout bounds read queries when a handler has no configured
// timeout.
const defaultTimeout = 5 * time.Second

// errNoUser is returned by getUserID when JWTAuth has not run.
var errNoUser = errors.New("invalid user_id in context")

// getUserID extracts the user_id stored by JWTAuth.
func getUserID(c echo.Context) (uint64, error) {
	switch t := c.Get(middleware.CtxUserID).(type) {
	case uint64:
		if t > 0 {
			return t, nil
		}
	case float64:
		if t > 0 {
			return uint64(t), nil
		}
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil && n > 0 {
			return n, nil
		}
	}
	return 0, errNoUser
}

// getRole extracts the role stored by JWTAuth.
func getRole(c echo.Context) model.Role {
	r, _ := c.Get(middleware.CtxRole).(model.Role)
	return r
}

// parseID reads a positive integer path parameter.
func parseID(c echo.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	return id, err == nil && id > 0
}

// readCtx derives the context for read queries of one request.
func readCtx(c echo.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		d = defaultTimeout
	}
	return context.WithTimeout(c.Request().Context(), d)
}

func unauthorized(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
}

// conflictMessages names each known state conflict.  Order matters only for
// readability; the sentinels are distinct.
var conflictMessages = []struct {
	err error
	msg string
}{
	{repository.ErrSeatTaken, "seat taken, retry from seat selection"},
	{repository.ErrRefundNotAllowed, "reservation cannot be refunded"},
	{booking.ErrConfirmed, "booking already confirmed"},
	{booking.ErrStage, "step not reachable from current stage"},
	{booking.ErrSeatUnavailable, "seat is no longer available"},
	{booking.ErrPaymentInProgress, "payment already in progress"},
}

// respondError maps an error to its HTTP status and JSON body:
//
//	validation errors         -> 422 with "fields" and/or "passengers"
//	not found                 -> 404
//	another user's resource   -> 403
//	state conflicts           -> 409
//	anything else             -> 500, logged, with a generic message
func respondError(c echo.Context, err error) error {
	if ve, ok := validation.As(err); ok {
		body := echo.Map{"error": "validation failed"}
		if len(ve.Fields) > 0 {
			body["fields"] = ve.Fields
		}
		if len(ve.Passengers) > 0 {
			body["passengers"] = ve.Passengers
		}
		return c.JSON(http.StatusUnprocessableEntity, body)
	}
	switch {
	case errors.Is(err, repository.ErrNotFound), errors.Is(err, booking.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
	case errors.Is(err, repository.ErrForbidden), errors.Is(err, booking.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	case errors.Is(err, repository.ErrEmailExists):
		return c.JSON(http.StatusConflict, echo.Map{"error": "email already exists"})
	case errors.Is(err, repository.ErrReference):
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": err.Error()})
	case errors.Is(err, repository.ErrConflict), errors.Is(err, booking.ErrConflict):
		for _, cm := range conflictMessages {
			if errors.Is(err, cm.err) {
				return c.JSON(http.StatusConflict, echo.Map{"error": cm.msg})
			}
		}
		return c.JSON(http.StatusConflict, echo.Map{"error": "conflict"})
	}
	c.Logger().Errorf("%s %s: %v", c.Request().Method, c.Path(), err)
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "an error occurred"})
}
