package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/ali-7097/Airline-Ticket-Purchasing-System---SkyLink/internal/pricing"
)

// AnalyticsRepo computes the admin summary figures.
type AnalyticsRepo struct{ db *sql.DB }

func NewAnalyticsRepo(db *sql.DB) *AnalyticsRepo { return &AnalyticsRepo{db: db} }

// RouteCount is a departure/arrival airport pair with its booked seats.
type RouteCount struct {
	DepartureAirport string `json:"departure_airport"`
	ArrivalAirport   string `json:"arrival_airport"`
	Seats            int    `json:"seats"`
}

// MonthRevenue is the invoiced amount of one calendar month.
type MonthRevenue struct {
	Month   string  `json:"month"` // YYYY-MM
	Revenue float64 `json:"revenue"`
}

// Summary holds the admin analytics figures.
type Summary struct {
	TotalRevenue    float64        `json:"total_revenue"`
	Profit          float64        `json:"profit"`
	Reservations    int            `json:"reservations"`
	Flights         int            `json:"flights"`
	ActiveFlights   int            `json:"active_flights"`
	InactiveFlights int            `json:"inactive_flights"`
	TopRoutes       []RouteCount   `json:"top_routes"`
	MonthlyRevenue  []MonthRevenue `json:"monthly_revenue"`
}

// MonthWindow is a calendar month as the half-open range [Start, End).
type MonthWindow struct {
	Start time.Time
	End   time.Time
}

// MonthWindows returns the n calendar months ending with the month of now,
// oldest first.  Each window runs from the first day 00:00 to the first
// day of the next month 00:00, in now's location.
func MonthWindows(now time.Time, n int) []MonthWindow {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	out := make([]MonthWindow, n)
	for i := 0; i < n; i++ {
		start := first.AddDate(0, -(n - 1 - i), 0)
		out[i] = MonthWindow{Start: start, End: start.AddDate(0, 1, 0)}
	}
	return out
}

// TopRoutesLimit is the number of routes in Summary.TopRoutes.
const TopRoutesLimit = 5

// RevenueMonths is the number of months in Summary.MonthlyRevenue.
const RevenueMonths = 6

// Summary computes the figures at now.
func (r *AnalyticsRepo) Summary(ctx context.Context, now time.Time) (Summary, error) {
	var s Summary
	if err := r.db.QueryRowContext(ctx,
		"SELECT COALESCE(SUM(amount), 0) FROM invoices").Scan(&s.TotalRevenue); err != nil {
		return Summary{}, err
	}
	s.Profit = pricing.Profit(s.TotalRevenue)
	if err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM reservations").Scan(&s.Reservations); err != nil {
		return Summary{}, err
	}
	if err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*), COALESCE(SUM(is_active), 0) FROM flights").Scan(&s.Flights, &s.ActiveFlights); err != nil {
		return Summary{}, err
	}
	s.InactiveFlights = s.Flights - s.ActiveFlights

	routes, err := r.topRoutes(ctx)
	if err != nil {
		return Summary{}, err
	}
	s.TopRoutes = routes

	s.MonthlyRevenue = make([]MonthRevenue, 0, RevenueMonths)
	for _, w := range MonthWindows(now.UTC(), RevenueMonths) {
		var rev float64
		if err := r.db.QueryRowContext(ctx,
			"SELECT COALESCE(SUM(amount), 0) FROM invoices WHERE issued_at >= ? AND issued_at < ?",
			w.Start, w.End).Scan(&rev); err != nil {
			return Summary{}, err
		}
		s.MonthlyRevenue = append(s.MonthlyRevenue, MonthRevenue{Month: w.Start.Format("2006-01"), Revenue: rev})
	}
	return s, nil
}

func (r *AnalyticsRepo) topRoutes(ctx context.Context) ([]RouteCount, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT dep.name, arr.name, COUNT(*) AS seats
		FROM reservation_seats rs
		JOIN flights f ON f.id = rs.flight_id
		JOIN flight_templates ft ON ft.id = f.flight_template_id
		JOIN airports dep ON dep.id = ft.departure_airport_id
		JOIN airports arr ON arr.id = ft.arrival_airport_id
		GROUP BY dep.id, dep.name, arr.id, arr.name
		ORDER BY seats DESC, dep.name, arr.name
		LIMIT ?`, TopRoutesLimit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []RouteCount{}
	for rows.Next() {
		var rc RouteCount
		if err := rows.Scan(&rc.DepartureAirport, &rc.ArrivalAirport, &rc.Seats); err != nil {
			return nil, err
		}
		out = append(out, rc)
	}
	return out, rows.Err()
}
