package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ali-7097/Airline-Ticket-Purchasing-System---SkyLink/internal/config"
	"github.com/ali-7097/Airline-Ticket-Purchasing-System---SkyLink/internal/repository"
	"github.com/ali-7097/Airline-Ticket-Purchasing-System---SkyLink/internal/search"
)

// SearchHandler serves flight search.
type SearchHandler struct {
	Cfg     config.Config
	Flights *repository.FlightSearchRepo
}

func NewSearchHandler(cfg config.Config, fs *repository.FlightSearchRepo) *SearchHandler {
	return &SearchHandler{Cfg: cfg, Flights: fs}
}

// Search handles GET /v1/flights/search.  Every query parameter problem
// is reported at once as 422.  A round trip returns both lists.
func (h *SearchHandler) Search(c echo.Context) error {
	var p search.Params
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &p); err != nil {
		return badRequest(c, "invalid query")
	}
	crit, err := p.Criteria()
	if err != nil {
		return respondError(c, err)
	}

	ctx, cancel := readCtx(c, h.Cfg.RequestTimeout)
	defer cancel()

	res, err := h.Flights.Search(ctx, crit)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}
