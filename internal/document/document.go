// Package document renders the two PDFs a passenger can download for a
// reservation: the ticket, carrying a QR code, and the invoice.
package document

import (
	"bytes"
	"crypto/rand"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/skip2/go-qrcode"

	"github.com/ali-7097/Airline-Ticket-Purchasing-System---SkyLink/internal/model"
)

const (
	timeLayout = "January 02, 2006 03:04 PM"
	dateLayout = "January 02, 2006"
	qrAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// Flight describes the flight printed on both documents.
type Flight struct {
	AirlineName      string
	FlightNumber     string
	DepartureAirport string
	DepartureIATA    string
	ArrivalAirport   string
	ArrivalIATA      string
	Departure        time.Time
	Arrival          time.Time
}

// SeatLine is one passenger and the seat assigned to them.
type SeatLine struct {
	PassengerName string
	Contact       string
	SeatNumber    string
	Class         model.SeatClass
	Position      model.SeatPosition
}

// Booking gathers everything printed for a reservation.
type Booking struct {
	ReservationID  uint64
	CreatedAt      time.Time
	TotalPrice     float64
	InvoiceAmount  float64
	PaymentMethod  string
	Status         model.ReservationStatus
	PurchaserName  string
	PurchaserEmail string
	Flight         Flight
	Seats          []SeatLine
}

// TicketNumber formats the public ticket number of a reservation.
func TicketNumber(reservationID uint64) string { return fmt.Sprintf("TKT-%06d", reservationID) }

// TicketFilename is the download name of the ticket PDF.
func TicketFilename(reservationID uint64) string { return TicketNumber(reservationID) + ".pdf" }

// InvoiceNumber formats the public invoice number of a reservation.
func InvoiceNumber(reservationID uint64) string { return fmt.Sprintf("INV-%06d", reservationID) }

// InvoiceFilename is the download name of the invoice PDF.
func InvoiceFilename(reservationID uint64) string {
	return fmt.Sprintf("invoice_%06d.pdf", reservationID)
}

// QRPayload returns a fresh QR code text: "QR-CODE-" followed by ten random
// upper-case letters and digits.  It is not stored and carries no booking
// data.
func QRPayload() (string, error) {
	buf := make([]byte, 10)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	for i, b := range buf {
		buf[i] = qrAlphabet[int(b)%len(qrAlphabet)]
	}
	return "QR-CODE-" + string(buf), nil
}

// Ticket renders the ticket PDF.
func Ticket(b Booking) ([]byte, error) {
	payload, err := QRPayload()
	if err != nil {
		return nil, fmt.Errorf("qr payload: %w", err)
	}
	png, err := qrcode.Encode(payload, qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("qr encode: %w", err)
	}
	return renderTicket(b, png, true)
}

// Invoice renders the invoice PDF.
func Invoice(b Booking) ([]byte, error) {
	return renderInvoice(b, true)
}

func newPDF(compress bool) (*fpdf.Fpdf, func(string) string) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCompression(compress)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()
	// Core fonts are cp1252; names and airports may not be ASCII.
	return pdf, pdf.UnicodeTranslatorFromDescriptor("")
}

func output(pdf *fpdf.Fpdf) ([]byte, error) {
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func line(pdf *fpdf.Fpdf, tr func(string) string, h float64, format string, args ...any) {
	pdf.CellFormat(0, h, tr(fmt.Sprintf(format, args...)), "", 1, "L", false, 0, "")
}

func heading(pdf *fpdf.Fpdf, text string) {
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 10, text, "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 12)
}

func renderTicket(b Booking, qrPNG []byte, compress bool) ([]byte, error) {
	pdf, tr := newPDF(compress)
	f := b.Flight

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, "Flight Ticket", "", 1, "C", false, 0, "")
	pdf.Ln(5)

	pdf.SetFont("Helvetica", "", 12)
	line(pdf, tr, 10, "Ticket Number: %s", TicketNumber(b.ReservationID))
	line(pdf, tr, 10, "Airline: %s", f.AirlineName)
	line(pdf, tr, 10, "Flight Number: %s", f.FlightNumber)
	line(pdf, tr, 10, "Route: %s (%s) -> %s (%s)", f.DepartureAirport, f.DepartureIATA, f.ArrivalAirport, f.ArrivalIATA)
	line(pdf, tr, 10, "Departure: %s", f.Departure.Format(timeLayout))
	line(pdf, tr, 10, "Arrival: %s", f.Arrival.Format(timeLayout))
	pdf.Ln(5)

	heading(pdf, "Passengers & Seat Assignments")
	for i, s := range b.Seats {
		line(pdf, tr, 8, "%d. %s", i+1, s.PassengerName)
		line(pdf, tr, 8, "   Contact: %s", s.Contact)
		line(pdf, tr, 8, "   Seat: %s | Class: %s | Position: %s", s.SeatNumber, s.Class, s.Position)
		pdf.Ln(3)
	}

	heading(pdf, "Payment Details")
	line(pdf, tr, 8, "Amount Paid: $%.2f", b.TotalPrice)
	line(pdf, tr, 8, "Payment Method: %s", b.PaymentMethod)
	line(pdf, tr, 8, "Status: %s", b.Status)
	if b.Status == model.StatusRefunded {
		line(pdf, tr, 8, "Refunded Amount: $%.2f", b.InvoiceAmount)
	}
	pdf.Ln(5)

	opts := fpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("qr", opts, bytes.NewReader(qrPNG))
	pdf.ImageOptions("qr", 80, pdf.GetY(), 50, 50, false, opts, 0, "")
	pdf.SetY(pdf.GetY() + 55)

	pdf.SetFont("Helvetica", "I", 11)
	pdf.MultiCell(0, 8,
		"Please print your physical ticket at the airport using the above QR code. "+
			"This QR code contains your booking reference for verification. "+
			"Keep this ticket with you at all times.",
		"", "C", false)

	return output(pdf)
}

func renderInvoice(b Booking, compress bool) ([]byte, error) {
	pdf, tr := newPDF(compress)
	f := b.Flight

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, "Invoice", "", 1, "C", false, 0, "")
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "", 12)
	line(pdf, tr, 10, "Invoice Number: %s", InvoiceNumber(b.ReservationID))
	line(pdf, tr, 10, "Reservation Date: %s", b.CreatedAt.Format(dateLayout))
	pdf.Ln(5)

	heading(pdf, "User Information")
	line(pdf, tr, 8, "Name: %s", b.PurchaserName)
	line(pdf, tr, 8, "Email: %s", b.PurchaserEmail)
	pdf.Ln(5)

	heading(pdf, "Flight Details")
	line(pdf, tr, 8, "Flight Number: %s", f.FlightNumber)
	line(pdf, tr, 8, "Airline: %s", f.AirlineName)
	line(pdf, tr, 8, "Route: %s -> %s", f.DepartureIATA, f.ArrivalIATA)
	line(pdf, tr, 8, "Departure: %s", f.Departure.Format(timeLayout))
	line(pdf, tr, 8, "Arrival: %s", f.Arrival.Format(timeLayout))
	pdf.Ln(5)

	heading(pdf, "Seats Reserved")
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(40, 8, "Seat Number", "1", 0, "L", false, 0, "")
	pdf.CellFormat(50, 8, "Class", "1", 0, "L", false, 0, "")
	pdf.CellFormat(50, 8, "Position", "1", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 12)
	for _, s := range b.Seats {
		pdf.CellFormat(40, 8, tr(s.SeatNumber), "1", 0, "L", false, 0, "")
		pdf.CellFormat(50, 8, string(s.Class), "1", 0, "L", false, 0, "")
		pdf.CellFormat(50, 8, string(s.Position), "1", 1, "L", false, 0, "")
	}
	pdf.Ln(5)

	heading(pdf, "Payment Information")
	line(pdf, tr, 8, "Amount Paid: $%.2f", b.TotalPrice)
	line(pdf, tr, 8, "Payment Method: %s", b.PaymentMethod)
	line(pdf, tr, 8, "Status: %s", b.Status)
	if b.Status == model.StatusRefunded {
		line(pdf, tr, 8, "Refunded Amount: $%.2f", b.InvoiceAmount)
	}
	pdf.Ln(5)

	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 10, "Thank you for booking with us. Please keep this invoice for your records.", "", "L", false)

	return output(pdf)
}
