package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/ali-7097/Airline-Ticket-Purchasing-System---SkyLink/internal/config"
	"github.com/ali-7097/Airline-Ticket-Purchasing-System---SkyLink/internal/model"
	"github.com/ali-7097/Airline-Ticket-Purchasing-System---SkyLink/internal/repository"
)

// LocationHandler serves the pickers of the search form.
type LocationHandler struct {
	Cfg     config.Config
	Catalog *repository.CatalogRepo
}

func NewLocationHandler(cfg config.Config, cat *repository.CatalogRepo) *LocationHandler {
	return &LocationHandler{Cfg: cfg, Catalog: cat}
}

type airportDTO struct {
	ID       uint64 `json:"id"`
	Name     string `json:"name"`
	City     string `json:"city"`
	Country  string `json:"country"`
	IATACode string `json:"iata_code"`
	ICAOCode string `json:"icao_code"`
}

type airlineDTO struct {
	ID           uint64 `json:"id"`
	Name         string `json:"name"`
	IATACode     string `json:"iata_code"`
	ICAOCode     string `json:"icao_code"`
	SupportEmail string `json:"support_email"`
}

func toAirportDTO(a model.Airport) airportDTO {
	return airportDTO{ID: a.ID, Name: a.Name, City: a.City, Country: a.Country, IATACode: a.IATACode, ICAOCode: a.ICAOCode}
}

func toAirlineDTO(a model.Airline) airlineDTO {
	return airlineDTO{ID: a.ID, Name: a.Name, IATACode: a.IATACode, ICAOCode: a.ICAOCode, SupportEmail: a.SupportEmail}
}

// Countries lists countries that have an airport.
func (h *LocationHandler) Countries(c echo.Context) error {
	ctx, cancel := readCtx(c, h.Cfg.RequestTimeout)
	defer cancel()
	out, err := h.Catalog.Countries(ctx)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"countries": out})
}

// Cities lists the cities of ?country=.
func (h *LocationHandler) Cities(c echo.Context) error {
	country := strings.TrimSpace(c.QueryParam("country"))
	if country == "" {
		return badRequest(c, "country is required")
	}
	ctx, cancel := readCtx(c, h.Cfg.RequestTimeout)
	defer cancel()
	out, err := h.Catalog.Cities(ctx, country)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"cities": out})
}

// Airports lists the airports of ?city=, or all airports without it.
func (h *LocationHandler) Airports(c echo.Context) error {
	ctx, cancel := readCtx(c, h.Cfg.RequestTimeout)
	defer cancel()
	rows, err := h.Catalog.Airports(ctx, strings.TrimSpace(c.QueryParam("city")))
	if err != nil {
		return respondError(c, err)
	}
	out := make([]airportDTO, 0, len(rows))
	for _, a := range rows {
		out = append(out, toAirportDTO(a))
	}
	return c.JSON(http.StatusOK, echo.Map{"airports": out})
}

// Airlines lists every airline.
func (h *LocationHandler) Airlines(c echo.Context) error {
	ctx, cancel := readCtx(c, h.Cfg.RequestTimeout)
	defer cancel()
	rows, err := h.Catalog.Airlines(ctx)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]airlineDTO, 0, len(rows))
	for _, a := range rows {
		out = append(out, toAirlineDTO(a))
	}
	return c.JSON(http.StatusOK, echo.Map{"airlines": out})
}
