package orders

import (
	"fmt"

	"github.com/Ashhad1200/medical/internal/store"
)

// lineFigures holds the computed money fields for one cart line. Values keep
// full float precision; rounding to two decimals happens only when a receipt
// or report is rendered.
type lineFigures struct {
	UnitPrice       float64
	TradePrice      float64
	DiscountPercent float64
	DiscountAmount  float64
	GSTAmount       float64
	LineTotal       float64
	LineProfit      float64
}

// priceLine computes subtotal, discount, GST, total and profit for one line.
// Profit is floored at zero: loss-leader sales are allowed but never reported
// as negative profit.
func priceLine(quantity int, unitPrice, tradePrice, discountPercent, gstPerUnit float64) (lineFigures, error) {
	if quantity <= 0 {
		return lineFigures{}, fmt.Errorf("%w: quantity must be positive", store.ErrInvalidInput)
	}
	if unitPrice < 0 {
		return lineFigures{}, fmt.Errorf("%w: unit price must not be negative", store.ErrInvalidInput)
	}
	if tradePrice < 0 {
		return lineFigures{}, fmt.Errorf("%w: trade price must not be negative", store.ErrInvalidInput)
	}
	if discountPercent < 0 || discountPercent > 100 {
		return lineFigures{}, fmt.Errorf("%w: discount percent must be between 0 and 100", store.ErrInvalidInput)
	}
	if gstPerUnit < 0 {
		return lineFigures{}, fmt.Errorf("%w: gst per unit must not be negative", store.ErrInvalidInput)
	}

	qty := float64(quantity)
	lineSubtotal := unitPrice * qty
	discountAmount := lineSubtotal * discountPercent / 100
	afterDiscount := lineSubtotal - discountAmount
	gstAmount := gstPerUnit * qty

	profitPerUnit := unitPrice - discountAmount/qty - tradePrice
	if profitPerUnit < 0 {
		profitPerUnit = 0
	}

	return lineFigures{
		UnitPrice:       unitPrice,
		TradePrice:      tradePrice,
		DiscountPercent: discountPercent,
		DiscountAmount:  discountAmount,
		GSTAmount:       gstAmount,
		LineTotal:       afterDiscount + gstAmount,
		LineProfit:      profitPerUnit * qty,
	}, nil
}

func clampMoney(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}

// orCatalog returns the caller-supplied override when present, otherwise the
// catalog value.
func orCatalog(override *float64, catalog float64) float64 {
	if override != nil {
		return *override
	}
	return catalog
}
