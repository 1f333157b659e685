package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/ali-7097/Airline-Ticket-Purchasing-System---SkyLink/internal/model"
	"github.com/ali-7097/Airline-Ticket-Purchasing-System---SkyLink/internal/pricing"
	"github.com/ali-7097/Airline-Ticket-Purchasing-System---SkyLink/internal/search"
)

// FlightResult is one row of a search result list.
type FlightResult struct {
	FlightID           uint64           `json:"flight_id"`
	FlightNumber       string           `json:"flight_number"`
	AirlineID          uint64           `json:"airline_id"`
	AirlineName        string           `json:"airline_name"`
	DepartureAirport   string           `json:"departure_airport"`
	DepartureIATA      string           `json:"departure_iata"`
	DepartureCity      string           `json:"departure_city"`
	ArrivalAirport     string           `json:"arrival_airport"`
	ArrivalIATA        string           `json:"arrival_iata"`
	ArrivalCity        string           `json:"arrival_city"`
	DepartureDatetime  time.Time        `json:"departure_datetime"`
	ArrivalDatetime    time.Time        `json:"arrival_datetime"`
	Duration           string           `json:"duration"`
	FlightType         model.FlightType `json:"flight_type"`
	Class              model.SeatClass  `json:"seat_class"`
	BasePrice          float64          `json:"base_price"`
	ClassPrice         float64          `json:"class_price"` // persisted catalogue price
	DiscountPercentage float64          `json:"discount_percentage"`
	AvailableSeats     int              `json:"available_seats"`
	Quote              pricing.Quote    `json:"quote"`
}

// priceColumn whitelists the prices column for a cabin.  The column name
// is concatenated into SQL, so it never comes from the request.
func priceColumn(c model.SeatClass) string {
	switch c {
	case model.ClassBusiness:
		return "p.business_price"
	case model.ClassFirst:
		return "p.first_price"
	default:
		return "p.economy_price"
	}
}

// locationFilter adds the airport condition for one end of the trip.  An
// airport id wins; a city resolves to that city's airports, so an unknown
// city matches nothing.
func locationFilter(col string, l search.Location, where []string, args []any) ([]string, []any) {
	if l.Empty() {
		return where, args
	}
	switch {
	case l.AirportID > 0:
		where = append(where, col+" = ?")
		args = append(args, l.AirportID)
	case l.City != "":
		where = append(where, col+" IN (SELECT a.id FROM airports a WHERE a.city = ?)")
		args = append(args, l.City)
	}
	return where, args
}

// buildSearchQuery returns the SQL and args for one leg of a search.
func buildSearchQuery(c search.Criteria) (string, []any) {
	price := priceColumn(c.Class)
	// select-list args come first: the cabin for the seat count
	args := []any{c.Class}
	where := []string{"f.is_active = 1", "DATE(f.departure_datetime) = ?"}
	args = append(args, c.Date.Format(search.DateLayout))

	where, args = locationFilter("ft.departure_airport_id", c.From, where, args)
	where, args = locationFilter("ft.arrival_airport_id", c.To, where, args)

	if c.FlightType != "" {
		where = append(where, "ft.flight_type = ?")
		args = append(args, c.FlightType)
	}
	if c.AirlineID > 0 {
		where = append(where, "ft.airline_id = ?")
		args = append(args, c.AirlineID)
	}
	if c.MaxBudget > 0 {
		where = append(where, price+" <= ?")
		args = append(args, c.MaxBudget)
	}
	if c.DiscountedOnly {
		where = append(where, "EXISTS (SELECT 1 FROM discounts dx WHERE dx.flight_id = f.id)")
	}
	if from, to, ok := c.DepartureBand.Hours(); ok {
		where = append(where, "HOUR(f.departure_datetime) >= ? AND HOUR(f.departure_datetime) < ?")
		args = append(args, from, to)
	}

	var order string
	switch c.Sort {
	case search.SortPrice:
		order = price + " ASC"
	case search.SortPriceDesc:
		order = price + " DESC"
	case search.SortDuration:
		order = "ft.duration ASC"
	case search.SortAirline:
		order = "al.name ASC"
	default:
		order = "f.departure_datetime ASC"
	}

	q := `
		SELECT f.id, ft.flight_number, al.id, al.name,
		       dep.name, dep.iata_code, dep.city, arr.name, arr.iata_code, arr.city,
		       f.departure_datetime, f.arrival_datetime, TIME_FORMAT(ft.duration, '%H:%i'),
		       ft.flight_type, ft.base_price, COALESCE(` + price + `, 0),
		       COALESCE((SELECT d.discount_percentage FROM discounts d WHERE d.flight_id = f.id ORDER BY d.id LIMIT 1), 0),
		       (SELECT COUNT(*) FROM seats s
		        WHERE s.aircraft_id = ft.aircraft_id AND s.class = ?
		          AND NOT EXISTS (SELECT 1 FROM reservation_seats rs WHERE rs.flight_id = f.id AND rs.seat_id = s.id))
		FROM flights f
		JOIN flight_templates ft ON ft.id = f.flight_template_id
		JOIN airlines al ON al.id = ft.airline_id
		JOIN airports dep ON dep.id = ft.departure_airport_id
		JOIN airports arr ON arr.id = ft.arrival_airport_id
		LEFT JOIN prices p ON p.flight_template_id = ft.id
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY ` + order + `, f.id ASC`
	return q, args
}

// SearchResult holds the outbound list and, for round trips, the return
// list.
type SearchResult struct {
	Outbound []FlightResult `json:"outbound"`
	Return   []FlightResult `json:"return,omitempty"`
}

// FlightSearchRepo runs flight searches.
type FlightSearchRepo struct{ db *sql.DB }

func NewFlightSearchRepo(db *sql.DB) *FlightSearchRepo { return &FlightSearchRepo{db: db} }

// Search runs the outbound search and, when c is a round trip, the
// mirrored return search.  Empty lists are not an error.
func (r *FlightSearchRepo) Search(ctx context.Context, c search.Criteria) (SearchResult, error) {
	out, err := r.leg(ctx, c)
	if err != nil {
		return SearchResult{}, err
	}
	res := SearchResult{Outbound: out}
	if rc, ok := c.ReturnCriteria(); ok {
		back, err := r.leg(ctx, rc)
		if err != nil {
			return SearchResult{}, err
		}
		res.Return = back
	}
	return res, nil
}

func (r *FlightSearchRepo) leg(ctx context.Context, c search.Criteria) ([]FlightResult, error) {
	q, args := buildSearchQuery(c)
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []FlightResult{}
	for rows.Next() {
		var fr FlightResult
		if err := rows.Scan(&fr.FlightID, &fr.FlightNumber, &fr.AirlineID, &fr.AirlineName,
			&fr.DepartureAirport, &fr.DepartureIATA, &fr.DepartureCity,
			&fr.ArrivalAirport, &fr.ArrivalIATA, &fr.ArrivalCity,
			&fr.DepartureDatetime, &fr.ArrivalDatetime, &fr.Duration,
			&fr.FlightType, &fr.BasePrice, &fr.ClassPrice,
			&fr.DiscountPercentage, &fr.AvailableSeats); err != nil {
			return nil, err
		}
		fr.Class = c.Class
		fr.Quote = pricing.Calculate(fr.BasePrice, c.Class, fr.DiscountPercentage, c.Passengers)
		out = append(out, fr)
	}
	return out, rows.Err()
}
