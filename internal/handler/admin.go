package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ali-7097/Airline-Ticket-Purchasing-System---SkyLink/internal/config"
	"github.com/ali-7097/Airline-Ticket-Purchasing-System---SkyLink/internal/model"
	"github.com/ali-7097/Airline-Ticket-Purchasing-System---SkyLink/internal/repository"
	"github.com/ali-7097/Airline-Ticket-Purchasing-System---SkyLink/internal/validation"
)

// FlightTimeLayout is the wire format of admin flight datetimes.
const FlightTimeLayout = "2006-01-02T15:04"

// adminRecentBookings is the number of bookings on the admin dashboard.
const adminRecentBookings = 10

// AdminHandler groups the back-office endpoints.  Routes are mounted
// behind RequireRole(model.RoleAdmin).
type AdminHandler struct {
	Cfg          config.Config
	Flights      *repository.FlightRepo
	Templates    *repository.TemplateRepo
	Discounts    *repository.DiscountRepo
	Users        *repository.UserRepo
	Reservations *repository.ReservationRepo
	Analytics    *repository.AnalyticsRepo
	Catalog      *repository.CatalogRepo
	Now          func() time.Time
}

// AdminDeps carries the repositories AdminHandler needs.
type AdminDeps struct {
	Flights      *repository.FlightRepo
	Templates    *repository.TemplateRepo
	Discounts    *repository.DiscountRepo
	Users        *repository.UserRepo
	Reservations *repository.ReservationRepo
	Analytics    *repository.AnalyticsRepo
	Catalog      *repository.CatalogRepo
}

func NewAdminHandler(cfg config.Config, d AdminDeps) *AdminHandler {
	return &AdminHandler{
		Cfg: cfg, Flights: d.Flights, Templates: d.Templates, Discounts: d.Discounts, Users: d.Users,
		Reservations: d.Reservations, Analytics: d.Analytics, Catalog: d.Catalog,
		Now: func() time.Time { return time.Now().UTC() },
	}
}

// ----- DTOs -----

type flightReq struct {
	FlightTemplateID  uint64 `json:"flight_template_id"`
	DepartureDatetime string `json:"departure_datetime"`
	ArrivalDatetime   string `json:"arrival_datetime"`
	TimezoneDiff      int    `json:"timezone_diff"`
}

type templateReq struct {
	AirlineID          uint64  `json:"airline_id"`
	AircraftID         uint64  `json:"aircraft_id"`
	FlightNumber       string  `json:"flight_number"`
	DepartureAirportID uint64  `json:"departure_airport_id"`
	ArrivalAirportID   uint64  `json:"arrival_airport_id"`
	Duration           string  `json:"duration"`
	BasePrice          float64 `json:"base_price"`
	FlightType         string  `json:"flight_type"`
}

type priceReq struct {
	EconomyPrice  float64 `json:"economy_price"`
	BusinessPrice float64 `json:"business_price"`
	FirstPrice    float64 `json:"first_price"`
}

type discountReq struct {
	FlightID           uint64  `json:"flight_id"`
	DiscountPercentage float64 `json:"discount_percentage"`
}

type userDTO struct {
	ID        uint64     `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Role      model.Role `json:"role"`
	CreatedAt time.Time  `json:"created_at"`
}

func toUserDTO(u model.User) userDTO {
	return userDTO{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role, CreatedAt: u.CreatedAt}
}

// flight validates r into a model.Flight.
func (r flightReq) flight() (model.Flight, error) {
	var ve validation.Error
	f := model.Flight{FlightTemplateID: r.FlightTemplateID, TimezoneDiff: r.TimezoneDiff}
	if r.FlightTemplateID == 0 {
		ve.Add("flight_template_id", "is required")
	}
	dep, err := time.Parse(FlightTimeLayout, strings.TrimSpace(r.DepartureDatetime))
	if err != nil {
		ve.Add("departure_datetime", "must be YYYY-MM-DDTHH:MM")
	}
	arr, err := time.Parse(FlightTimeLayout, strings.TrimSpace(r.ArrivalDatetime))
	if err != nil {
		ve.Add("arrival_datetime", "must be YYYY-MM-DDTHH:MM")
	}
	if r.TimezoneDiff < -24 || r.TimezoneDiff > 24 {
		ve.Add("timezone_diff", "must be between -24 and 24 hours")
	}
	f.DepartureDatetime, f.ArrivalDatetime = dep, arr
	return f, ve.Err()
}

// parseDuration accepts "HH:MM" with a non-zero total and returns it in
// the TIME column format.
func parseDuration(s string) (string, bool) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok || len(hh) != 2 || len(mm) != 2 {
		return "", false
	}
	h, err1 := strconv.Atoi(hh)
	m, err2 := strconv.Atoi(mm)
	if err1 != nil || err2 != nil || h < 0 || m < 0 || m > 59 || h+m == 0 {
		return "", false
	}
	return hh + ":" + mm + ":00", true
}

// template validates r into a model.FlightTemplate.
func (r templateReq) template() (model.FlightTemplate, error) {
	var ve validation.Error
	t := model.FlightTemplate{
		AirlineID:          r.AirlineID,
		AircraftID:         r.AircraftID,
		FlightNumber:       strings.ToUpper(strings.TrimSpace(r.FlightNumber)),
		DepartureAirportID: r.DepartureAirportID,
		ArrivalAirportID:   r.ArrivalAirportID,
		BasePrice:          r.BasePrice,
	}
	if r.AirlineID == 0 {
		ve.Add("airline_id", "is required")
	}
	if r.AircraftID == 0 {
		ve.Add("aircraft_id", "is required")
	}
	if t.FlightNumber == "" {
		ve.Add("flight_number", "is required")
	} else if len(t.FlightNumber) > 20 {
		ve.Add("flight_number", "must be at most 20 characters")
	}
	if r.DepartureAirportID == 0 {
		ve.Add("departure_airport_id", "is required")
	}
	if r.ArrivalAirportID == 0 {
		ve.Add("arrival_airport_id", "is required")
	} else if r.ArrivalAirportID == r.DepartureAirportID {
		ve.Add("arrival_airport_id", "must differ from the departure airport")
	}
	if d, ok := parseDuration(r.Duration); ok {
		t.Duration = d
	} else {
		ve.Add("duration", "must be HH:MM")
	}
	if r.BasePrice <= 0 {
		ve.Add("base_price", "must be greater than 0")
	}
	ft, err := model.ParseFlightType(r.FlightType)
	if err != nil {
		ve.Add("flight_type", "must be domestic or international")
	}
	t.FlightType = ft
	return t, ve.Err()
}

func (r priceReq) validate() error {
	var ve validation.Error
	if r.EconomyPrice <= 0 {
		ve.Add("economy_price", "must be greater than 0")
	}
	if r.BusinessPrice <= 0 {
		ve.Add("business_price", "must be greater than 0")
	}
	if r.FirstPrice <= 0 {
		ve.Add("first_price", "must be greater than 0")
	}
	return ve.Err()
}

func (r discountReq) validate() error {
	var ve validation.Error
	if r.FlightID == 0 {
		ve.Add("flight_id", "is required")
	}
	if r.DiscountPercentage < 0 || r.DiscountPercentage > 100 {
		ve.Add("discount_percentage", "must be between 0 and 100")
	}
	return ve.Err()
}

// ----- dashboard -----

// Dashboard returns the analytics figures and the latest bookings.
func (h *AdminHandler) Dashboard(c echo.Context) error {
	ctx, cancel := readCtx(c, h.Cfg.RequestTimeout)
	defer cancel()

	now := h.Now()
	sum, err := h.Analytics.Summary(ctx, now)
	if err != nil {
		return respondError(c, err)
	}
	recent, err := h.Reservations.Recent(ctx, adminRecentBookings, now)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"analytics": sum, "recent_bookings": recent})
}

// AnalyticsSummary returns revenue, counts, top routes and monthly
// revenue.
func (h *AdminHandler) AnalyticsSummary(c echo.Context) error {
	ctx, cancel := readCtx(c, h.Cfg.RequestTimeout)
	defer cancel()

	sum, err := h.Analytics.Summary(ctx, h.Now())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, sum)
}

// ----- flights -----

// ListFlights lists every flight, latest departure first.
func (h *AdminHandler) ListFlights(c echo.Context) error {
	ctx, cancel := readCtx(c, h.Cfg.RequestTimeout)
	defer cancel()

	out, err := h.Flights.List(ctx)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"flights": out})
}

// CreateFlight schedules a flight from a template.  New flights are
// active.
func (h *AdminHandler) CreateFlight(c echo.Context) error {
	var req flightReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	f, err := req.flight()
	if err != nil {
		return respondError(c, err)
	}
	ctx, cancel := readCtx(c, h.Cfg.RequestTimeout)
	defer cancel()

	id, err := h.Flights.Create(ctx, f)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": id})
}

// UpdateFlight replaces the schedule of flight :id.
func (h *AdminHandler) UpdateFlight(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}
	var req flightReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	f, err := req.flight()
	if err != nil {
		return respondError(c, err)
	}
	f.ID = id
	ctx, cancel := readCtx(c, h.Cfg.RequestTimeout)
	defer cancel()

	if err := h.Flights.Update(ctx, f); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"id": id})
}

// ToggleFlight flips the active flag of flight :id.
func (h *AdminHandler) ToggleFlight(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}
	ctx, cancel := readCtx(c, h.Cfg.RequestTimeout)
	defer cancel()

	active, err := h.Flights.Toggle(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"id": id, "is_active": active})
}

// ----- templates -----

// ListTemplates lists templates with their prices.
func (h *AdminHandler) ListTemplates(c echo.Context) error {
	ctx, cancel := readCtx(c, h.Cfg.RequestTimeout)
	defer cancel()

	out, err := h.Templates.List(ctx)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"templates": out})
}

// CreateTemplate adds a template and its default price row.
func (h *AdminHandler) CreateTemplate(c echo.Context) error {
	var req templateReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	t, err := req.template()
	if err != nil {
		return respondError(c, err)
	}
	ctx, cancel := readCtx(c, h.Cfg.RequestTimeout)
	defer cancel()

	id, err := h.Templates.Create(ctx, t)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": id})
}

// GetPrices returns the price row of template :id.
func (h *AdminHandler) GetPrices(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}
	ctx, cancel := readCtx(c, h.Cfg.RequestTimeout)
	defer cancel()

	p, err := h.Templates.GetPrice(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, priceReq{EconomyPrice: p.EconomyPrice, BusinessPrice: p.BusinessPrice, FirstPrice: p.FirstPrice})
}

// UpsertPrices sets the price row of template :id.
func (h *AdminHandler) UpsertPrices(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}
	var req priceReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	if err := req.validate(); err != nil {
		return respondError(c, err)
	}
	ctx, cancel := readCtx(c, h.Cfg.RequestTimeout)
	defer cancel()

	err := h.Templates.UpsertPrice(ctx, model.Price{
		FlightTemplateID: id,
		EconomyPrice:     req.EconomyPrice,
		BusinessPrice:    req.BusinessPrice,
		FirstPrice:       req.FirstPrice,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, req)
}

// ----- discounts -----

// ListDiscounts lists every discount with its flight.
func (h *AdminHandler) ListDiscounts(c echo.Context) error {
	ctx, cancel := readCtx(c, h.Cfg.RequestTimeout)
	defer cancel()

	out, err := h.Discounts.List(ctx)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"discounts": out})
}

// ApplyDiscount sets the discount of a flight, updating the applied one
// when it exists.
func (h *AdminHandler) ApplyDiscount(c echo.Context) error {
	var req discountReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	if err := req.validate(); err != nil {
		return respondError(c, err)
	}
	ctx, cancel := readCtx(c, h.Cfg.RequestTimeout)
	defer cancel()

	id, err := h.Discounts.Apply(ctx, req.FlightID, req.DiscountPercentage)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": id, "flight_id": req.FlightID, "discount_percentage": req.DiscountPercentage})
}

// DeleteDiscount removes discount :id.
func (h *AdminHandler) DeleteDiscount(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}
	ctx, cancel := readCtx(c, h.Cfg.RequestTimeout)
	defer cancel()

	if err := h.Discounts.Delete(ctx, id); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ----- users -----

// ListUsers lists users filtered by ?q= (name or email) and ?role=.
func (h *AdminHandler) ListUsers(c echo.Context) error {
	var role model.Role
	if s := strings.TrimSpace(c.QueryParam("role")); s != "" {
		r, err := model.ParseRole(s)
		if err != nil {
			return respondError(c, validation.Field("role", "must be admin or passenger"))
		}
		role = r
	}
	ctx, cancel := readCtx(c, h.Cfg.RequestTimeout)
	defer cancel()

	users, err := h.Users.List(ctx, c.QueryParam("q"), role)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]userDTO, 0, len(users))
	for _, u := range users {
		out = append(out, toUserDTO(u))
	}
	return c.JSON(http.StatusOK, echo.Map{"users": out})
}

// GetUser returns user :id with their reservations.
func (h *AdminHandler) GetUser(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}
	ctx, cancel := readCtx(c, h.Cfg.RequestTimeout)
	defer cancel()

	u, err := h.Users.GetByID(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	res, err := h.Reservations.ListByUser(ctx, id, 0, h.Now())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"user": toUserDTO(u), "reservations": res})
}

// ToggleRole switches user :id between admin and passenger.  Admins
// cannot change their own role.
func (h *AdminHandler) ToggleRole(c echo.Context) error {
	actor, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}
	ctx, cancel := readCtx(c, h.Cfg.RequestTimeout)
	defer cancel()

	role, err := h.Users.ToggleRole(ctx, id, actor)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"id": id, "role": role})
}

// ----- catalog -----

// Aircraft lists aircraft for the template form.
func (h *AdminHandler) Aircraft(c echo.Context) error {
	ctx, cancel := readCtx(c, h.Cfg.RequestTimeout)
	defer cancel()

	out, err := h.Catalog.Aircraft(ctx)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"aircraft": out})
}
