// Package pricing computes what a passenger pays for a seat.  The booking
// quote is derived from a template's base price and the cabin multiplier at
// run time; the persisted prices table is a separate catalogue used only by
// search filters and sorting.
package pricing

import (
	"math"

	"github.com/ali-7097/Airline-Ticket-Purchasing-System---SkyLink/internal/model"
)

const (
	// ServiceFeeRate is charged on top of the class price.
	ServiceFeeRate = 0.02
	// RefundRate is the share of the total paid back on refund.
	RefundRate = 0.75
	// ProfitRate is the share of revenue reported as profit.
	ProfitRate = 0.02
)

// Multiplier returns the cabin multiplier applied to a template's base price.
func Multiplier(c model.SeatClass) float64 {
	switch c {
	case model.ClassBusiness:
		return 2.5
	case model.ClassFirst:
		return 4.0
	default:
		return 1.0
	}
}

// ClassPrice returns base × multiplier for the cabin.
func ClassPrice(base float64, c model.SeatClass) float64 {
	return base * Multiplier(c)
}

// Quote is the per-passenger breakdown shown before payment and the total
// charged at commit.
type Quote struct {
	ClassPrice         float64 `json:"class_price"`
	DiscountPercentage float64 `json:"discount_percentage"`
	DiscountAmount     float64 `json:"discount_amount"`
	ServiceFee         float64 `json:"service_fee"`
	FinalPerPassenger  float64 `json:"final_per_passenger"`
	Passengers         int     `json:"passengers"`
	Total              float64 `json:"total"`
}

// Calculate builds a quote.  discountPct is the percentage of the flight's
// first discount, or 0.  The value is taken as stored; admin input is
// range-checked when the discount is saved.
func Calculate(base float64, c model.SeatClass, discountPct float64, passengers int) Quote {
	classPrice := ClassPrice(base, c)
	discount := classPrice * discountPct / 100
	fee := classPrice * ServiceFeeRate
	final := classPrice + fee - discount
	return Quote{
		ClassPrice:         round2(classPrice),
		DiscountPercentage: discountPct,
		DiscountAmount:     round2(discount),
		ServiceFee:         round2(fee),
		FinalPerPassenger:  round2(final),
		Passengers:         passengers,
		Total:              round2(final * float64(passengers)),
	}
}

// DefaultPrices returns the catalogue row created with a new template.
func DefaultPrices(base float64) model.Price {
	return model.Price{
		EconomyPrice:  round2(ClassPrice(base, model.ClassEconomy)),
		BusinessPrice: round2(ClassPrice(base, model.ClassBusiness)),
		FirstPrice:    round2(ClassPrice(base, model.ClassFirst)),
	}
}

// RefundAmount is what the passenger gets back for a reservation total.
func RefundAmount(total float64) float64 {
	return round2(total * RefundRate)
}

// Profit is the reported margin on revenue.
func Profit(revenue float64) float64 {
	return round2(revenue * ProfitRate)
}

// round2 rounds half away from zero to cents so stored amounts do not carry
// binary float noise.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
