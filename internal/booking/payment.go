package booking

import (
	"strconv"
	"strings"
	"time"

	"github.com/ali-7097/Airline-Ticket-Purchasing-System---SkyLink/internal/validation"
)

// PaymentMethodCard is the label stored on reservations paid by card.
const PaymentMethodCard = "Credit Card"

// Payment is the card form submitted at the payment step.  Card data is
// checked for shape only and never stored.
type Payment struct {
	CardholderName string `json:"cardholder_name"`
	CardNumber     string `json:"card_number"`
	Expiry         string `json:"expiry"` // MM/YY
	CVV            string `json:"cvv"`
}

// ValidatePayment checks the card form against now.  A card is valid
// through the last day of its expiry month.
func ValidatePayment(p Payment, now time.Time) error {
	var ve validation.Error

	if strings.TrimSpace(p.CardholderName) == "" {
		ve.Add("cardholder_name", "is required")
	}

	digits := strings.NewReplacer(" ", "", "-", "").Replace(p.CardNumber)
	if len(digits) < 13 || len(digits) > 19 || !allDigits(digits) {
		ve.Add("card_number", "must be 13 to 19 digits")
	}

	if month, year, ok := parseExpiry(p.Expiry); !ok {
		ve.Add("expiry", "must be MM/YY")
	} else {
		firstOfNext := time.Date(year, time.Month(month)+1, 1, 0, 0, 0, 0, now.Location())
		if !now.Before(firstOfNext) {
			ve.Add("expiry", "card has expired")
		}
	}

	if len(p.CVV) < 3 || len(p.CVV) > 4 || !allDigits(p.CVV) {
		ve.Add("cvv", "must be 3 or 4 digits")
	}
	return ve.Err()
}

func parseExpiry(s string) (month, year int, ok bool) {
	mm, yy, found := strings.Cut(strings.TrimSpace(s), "/")
	if !found || len(mm) != 2 || len(yy) != 2 {
		return 0, 0, false
	}
	m, err := strconv.Atoi(mm)
	if err != nil || m < 1 || m > 12 {
		return 0, 0, false
	}
	y, err := strconv.Atoi(yy)
	if err != nil || y < 0 {
		return 0, 0, false
	}
	return m, 2000 + y, true
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
