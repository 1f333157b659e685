package handler

import (
	"time"

	"github.com/ali-7097/Airline-Ticket-Purchasing-System---SkyLink/internal/document"
	q "github.com/ali-7097/Airline-Ticket-Purchasing-System---SkyLink/internal/queue"
	"github.com/ali-7097/Airline-Ticket-Purchasing-System---SkyLink/internal/repository"
)

// confirmedEvent builds the audit event of a committed reservation.
func confirmedEvent(d *repository.ReservationDetail, now time.Time) q.BookingConfirmedEvent {
	seats := make([]string, 0, len(d.Seats))
	for _, s := range d.Seats {
		seats = append(seats, s.SeatNumber)
	}
	return q.BookingConfirmedEvent{
		ReservationID: d.ID,
		UserID:        d.UserID,
		FlightID:      d.FlightID,
		FlightNumber:  d.FlightNumber,
		AirlineName:   d.AirlineName,
		Route:         d.DepartureIATA + "-" + d.ArrivalIATA,
		DepartureAt:   d.DepartureDatetime.Format(time.RFC3339),
		SeatNumbers:   seats,
		TotalPrice:    d.TotalPrice,
		PaymentMethod: d.PaymentMethod,
		ConfirmedAt:   now.Format(time.RFC3339),
	}
}

// refundedEvent builds the audit event of a refund.
func refundedEvent(r repository.RefundResult, userID uint64, now time.Time) q.BookingRefundedEvent {
	return q.BookingRefundedEvent{
		ReservationID: r.ReservationID,
		UserID:        userID,
		FlightID:      r.FlightID,
		TotalPrice:    r.TotalPrice,
		RefundAmount:  r.RefundAmount,
		RefundedAt:    now.Format(time.RFC3339),
	}
}

// toDocument maps a reservation to what the ticket and invoice print.
func toDocument(d *repository.ReservationDetail) document.Booking {
	b := document.Booking{
		ReservationID:  d.ID,
		CreatedAt:      d.CreatedAt,
		TotalPrice:     d.TotalPrice,
		InvoiceAmount:  d.InvoiceAmount,
		PaymentMethod:  d.PaymentMethod,
		Status:         d.Status,
		PurchaserName:  d.UserName,
		PurchaserEmail: d.UserEmail,
		Flight: document.Flight{
			AirlineName:      d.AirlineName,
			FlightNumber:     d.FlightNumber,
			DepartureAirport: d.DepartureAirport,
			DepartureIATA:    d.DepartureIATA,
			ArrivalAirport:   d.ArrivalAirport,
			ArrivalIATA:      d.ArrivalIATA,
			Departure:        d.DepartureDatetime,
			Arrival:          d.ArrivalDatetime,
		},
	}
	for _, s := range d.Seats {
		b.Seats = append(b.Seats, document.SeatLine{
			PassengerName: s.FirstName + " " + s.LastName,
			Contact:       s.ContactNumber,
			SeatNumber:    s.SeatNumber,
			Class:         s.Class,
			Position:      s.Position,
		})
	}
	return b
}
