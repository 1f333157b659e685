// Package seed loads reference and sample data into an empty database:
// airlines, airports, aircraft with their seat layouts, flight templates
// with prices, scheduled flights, an admin and sample passengers.  The
// data comes from a YAML file so environments can differ without code
// changes.
package seed

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ali-7097/Airline-Ticket-Purchasing-System---SkyLink/internal/database"
	"github.com/ali-7097/Airline-Ticket-Purchasing-System---SkyLink/internal/model"
	"github.com/ali-7097/Airline-Ticket-Purchasing-System---SkyLink/internal/repository"
)

// DepartureHour is the local departure time of every seeded flight.
const DepartureHour = 8

// File is the layout of the seed YAML.  Aircraft and templates refer to
// airlines, airports and aircraft by IATA code or model name.
type File struct {
	Admin      User       `yaml:"admin"`
	Passengers []User     `yaml:"passengers"`
	Airlines   []Airline  `yaml:"airlines"`
	Airports   []Airport  `yaml:"airports"`
	Aircraft   []Aircraft `yaml:"aircraft"`
	Templates  []Template `yaml:"templates"`
}

type User struct {
	Name     string `yaml:"name"`
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
}

type Airline struct {
	Name         string `yaml:"name"`
	IATA         string `yaml:"iata"`
	ICAO         string `yaml:"icao"`
	SupportEmail string `yaml:"support_email"`
}

type Airport struct {
	Name    string `yaml:"name"`
	City    string `yaml:"city"`
	Country string `yaml:"country"`
	IATA    string `yaml:"iata"`
	ICAO    string `yaml:"icao"`
}

type Aircraft struct {
	Airline    string `yaml:"airline"` // airline IATA
	Model      string `yaml:"model"`
	TotalSeats int    `yaml:"total_seats"`
}

type Template struct {
	FlightNumber string  `yaml:"flight_number"`
	Aircraft     string  `yaml:"aircraft"` // aircraft model; the airline is the aircraft's
	From         string  `yaml:"from"`     // airport IATA
	To           string  `yaml:"to"`       // airport IATA
	Duration     string  `yaml:"duration"` // HH:MM
	BasePrice    float64 `yaml:"base_price"`
	FlightType   string  `yaml:"flight_type"`
	Discount     float64 `yaml:"discount"` // percent applied to the first flight, 0 for none
}

// Parse decodes a seed file.  Unknown keys are rejected so typos do not
// silently drop data.
func Parse(b []byte) (File, error) {
	var f File
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return File{}, fmt.Errorf("decode seed file: %w", err)
	}
	return f, nil
}

// Load reads and decodes the seed file at path.
func Load(path string) (File, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return File{}, err
	}
	return Parse(b)
}

// positionCycle assigns positions across a 3-3 row: window, middle, aisle,
// aisle, middle, window.
var positionCycle = []model.SeatPosition{
	model.PositionWindow, model.PositionMiddle, model.PositionAisle,
	model.PositionAisle, model.PositionMiddle, model.PositionWindow,
}

// SeatLayout builds the seats of an aircraft with total seats: 70%
// economy (E1..), 20% business (B1..) and the rest first class (F1..),
// each share rounded down.
func SeatLayout(total int) []model.Seat {
	econ := total * 7 / 10
	bus := total * 2 / 10
	first := total - econ - bus
	seats := make([]model.Seat, 0, total)
	add := func(prefix string, n int, class model.SeatClass) {
		for i := 0; i < n; i++ {
			seats = append(seats, model.Seat{
				SeatNumber: prefix + strconv.Itoa(i+1),
				Class:      class,
				Position:   positionCycle[i%len(positionCycle)],
			})
		}
	}
	add("E", econ, model.ClassEconomy)
	add("B", bus, model.ClassBusiness)
	add("F", first, model.ClassFirst)
	return seats
}

// Schedule returns one flight per day for days days, starting on the date
// of start, departing at DepartureHour and arriving duration later.
func Schedule(templateID uint64, duration string, start time.Time, days int) ([]model.Flight, error) {
	d, err := parseDuration(duration)
	if err != nil {
		return nil, err
	}
	y, m, day := start.Date()
	first := time.Date(y, m, day, DepartureHour, 0, 0, 0, time.UTC)
	out := make([]model.Flight, 0, days)
	for i := 0; i < days; i++ {
		dep := first.AddDate(0, 0, i)
		out = append(out, model.Flight{
			FlightTemplateID:  templateID,
			DepartureDatetime: dep,
			ArrivalDatetime:   dep.Add(d),
			IsActive:          true,
		})
	}
	return out, nil
}

func parseDuration(s string) (time.Duration, error) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return 0, fmt.Errorf("duration %q: want HH:MM", s)
	}
	h, err := strconv.Atoi(hh)
	if err != nil {
		return 0, fmt.Errorf("duration %q: %w", s, err)
	}
	m, err := strconv.Atoi(mm)
	if err != nil {
		return 0, fmt.Errorf("duration %q: %w", s, err)
	}
	return time.Duration(h)*time.Hour + time.Duration(m)*time.Minute, nil
}

// flushOrder is database.Tables reversed, children first, so foreign keys
// never block a delete.
func flushOrder() []string {
	order := make([]string, 0, len(database.Tables))
	for i := len(database.Tables) - 1; i >= 0; i-- {
		order = append(order, database.Tables[i])
	}
	return order
}

// Flush deletes all rows of every table in one transaction.
func Flush(ctx context.Context, db *sql.DB) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	for _, t := range flushOrder() {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+t); err != nil {
			return fmt.Errorf("flush %s: %w", t, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// Seeder writes a File through the repositories.
type Seeder struct {
	Catalog    *repository.CatalogRepo
	Templates  *repository.TemplateRepo
	Flights    *repository.FlightRepo
	Discounts  *repository.DiscountRepo
	Users      *repository.UserRepo
	BcryptCost int
	Logf       func(format string, args ...any)
}

// NewSeeder returns a Seeder over db.
func NewSeeder(db *sql.DB, bcryptCost int, logf func(string, ...any)) *Seeder {
	if logf == nil {
		logf = func(string, ...any) {}
	}
	return &Seeder{
		Catalog:    repository.NewCatalogRepo(db),
		Templates:  repository.NewTemplateRepo(db),
		Flights:    repository.NewFlightRepo(db),
		Discounts:  repository.NewDiscountRepo(db),
		Users:      repository.NewUserRepo(db),
		BcryptCost: bcryptCost,
		Logf:       logf,
	}
}

// Run seeds f and schedules days days of flights per template from now.
// Users whose email exists are skipped; everything else expects an empty
// catalogue, so reseeding should follow Flush.
func (s *Seeder) Run(ctx context.Context, f File, days int, now time.Time) error {
	if err := s.user(ctx, f.Admin, model.RoleAdmin); err != nil {
		return err
	}
	for _, p := range f.Passengers {
		if err := s.user(ctx, p, model.RolePassenger); err != nil {
			return err
		}
	}

	airlines := map[string]uint64{}
	for _, a := range f.Airlines {
		id, err := s.Catalog.CreateAirline(ctx, model.Airline{Name: a.Name, IATACode: a.IATA, ICAOCode: a.ICAO, SupportEmail: a.SupportEmail})
		if err != nil {
			return fmt.Errorf("airline %s: %w", a.IATA, err)
		}
		airlines[a.IATA] = id
	}
	s.Logf("created %d airlines", len(airlines))

	airports := map[string]uint64{}
	for _, a := range f.Airports {
		id, err := s.Catalog.CreateAirport(ctx, model.Airport{Name: a.Name, City: a.City, Country: a.Country, IATACode: a.IATA, ICAOCode: a.ICAO})
		if err != nil {
			return fmt.Errorf("airport %s: %w", a.IATA, err)
		}
		airports[a.IATA] = id
	}
	s.Logf("created %d airports", len(airports))

	type craft struct{ id, airlineID uint64 }
	aircraft := map[string]craft{}
	for _, a := range f.Aircraft {
		airlineID, ok := airlines[a.Airline]
		if !ok {
			return fmt.Errorf("aircraft %s: unknown airline %q", a.Model, a.Airline)
		}
		id, err := s.Catalog.CreateAircraft(ctx, model.Aircraft{AirlineID: airlineID, Model: a.Model}, SeatLayout(a.TotalSeats))
		if err != nil {
			return fmt.Errorf("aircraft %s: %w", a.Model, err)
		}
		aircraft[a.Model] = craft{id: id, airlineID: airlineID}
		s.Logf("created aircraft %s with %d seats", a.Model, a.TotalSeats)
	}

	for _, t := range f.Templates {
		ac, ok := aircraft[t.Aircraft]
		if !ok {
			return fmt.Errorf("template %s: unknown aircraft %q", t.FlightNumber, t.Aircraft)
		}
		from, ok1 := airports[t.From]
		to, ok2 := airports[t.To]
		if !ok1 || !ok2 {
			return fmt.Errorf("template %s: unknown airport in %s-%s", t.FlightNumber, t.From, t.To)
		}
		ft, err := model.ParseFlightType(t.FlightType)
		if err != nil {
			return fmt.Errorf("template %s: %w", t.FlightNumber, err)
		}
		tid, err := s.Templates.Create(ctx, model.FlightTemplate{
			AirlineID:          ac.airlineID,
			AircraftID:         ac.id,
			FlightNumber:       t.FlightNumber,
			DepartureAirportID: from,
			ArrivalAirportID:   to,
			Duration:           t.Duration,
			BasePrice:          t.BasePrice,
			FlightType:         ft,
		})
		if err != nil {
			return fmt.Errorf("template %s: %w", t.FlightNumber, err)
		}

		flights, err := Schedule(tid, t.Duration, now, days)
		if err != nil {
			return fmt.Errorf("template %s: %w", t.FlightNumber, err)
		}
		for i, fl := range flights {
			fid, err := s.Flights.Create(ctx, fl)
			if err != nil {
				return fmt.Errorf("template %s: flight: %w", t.FlightNumber, err)
			}
			if i == 0 && t.Discount > 0 {
				if _, err := s.Discounts.Apply(ctx, fid, t.Discount); err != nil {
					return fmt.Errorf("template %s: discount: %w", t.FlightNumber, err)
				}
			}
		}
		s.Logf("created template %s with %d flights", t.FlightNumber, len(flights))
	}
	return nil
}

func (s *Seeder) user(ctx context.Context, u User, role model.Role) error {
	if u.Email == "" {
		return nil
	}
	_, err := s.Users.Create(ctx, u.Name, u.Email, u.Password, role, s.BcryptCost)
	switch {
	case errors.Is(err, repository.ErrEmailExists):
		s.Logf("user %s exists", u.Email)
		return nil
	case err != nil:
		return fmt.Errorf("user %s: %w", u.Email, err)
	}
	s.Logf("created %s %s", role, u.Email)
	return nil
}
