// Package queue defines the booking audit events exchanged over RabbitMQ and
// the consumer that appends them to the audit log.
package queue

import (
	"fmt"
	"strings"
)

// Queue names.  Both queues are durable.
const (
	QueueBookingConfirmed = "booking.confirmed"
	QueueBookingRefunded  = "booking.refunded"
)

// BookingConfirmedEvent is published after a booking commit.  It carries
// enough for the audit log without querying the primary database.
type BookingConfirmedEvent struct {
	ReservationID uint64   `json:"reservation_id"`
	UserID        uint64   `json:"user_id"`
	FlightID      uint64   `json:"flight_id"`
	FlightNumber  string   `json:"flight_number"`
	AirlineName   string   `json:"airline_name"`
	Route         string   `json:"route"` // e.g. LHE-KHI
	DepartureAt   string   `json:"departure_at"`
	SeatNumbers   []string `json:"seats"`
	TotalPrice    float64  `json:"total_price"`
	PaymentMethod string   `json:"payment_method"`
	ConfirmedAt   string   `json:"confirmed_at"`
}

// BookingRefundedEvent is published after a refund.
type BookingRefundedEvent struct {
	ReservationID uint64  `json:"reservation_id"`
	UserID        uint64  `json:"user_id"`
	FlightID      uint64  `json:"flight_id"`
	TotalPrice    float64 `json:"total_price"`
	RefundAmount  float64 `json:"refund_amount"`
	RefundedAt    string  `json:"refunded_at"`
}

// LogLine renders the event as one audit log line.
func (ev BookingConfirmedEvent) LogLine() string {
	return fmt.Sprintf("[%s] Reservation confirmed | reservation_id=%d | user_id=%d | flight_id=%d | flight=%q | airline=%q | route=%s | departs=%s | total=%.2f | payment=%q | seats=[%s]\n",
		ev.ConfirmedAt, ev.ReservationID, ev.UserID, ev.FlightID, ev.FlightNumber, ev.AirlineName,
		ev.Route, ev.DepartureAt, ev.TotalPrice, ev.PaymentMethod, strings.Join(ev.SeatNumbers, ","))
}

// LogLine renders the event as one audit log line.
func (ev BookingRefundedEvent) LogLine() string {
	return fmt.Sprintf("[%s] Reservation refunded | reservation_id=%d | user_id=%d | flight_id=%d | total=%.2f | refund=%.2f\n",
		ev.RefundedAt, ev.ReservationID, ev.UserID, ev.FlightID, ev.TotalPrice, ev.RefundAmount)
}
