package orders

import (
	"errors"
	"math"
	"testing"

	"github.com/Ashhad1200/medical/internal/store"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestPriceLine(t *testing.T) {
	tests := []struct {
		name            string
		quantity        int
		unitPrice       float64
		tradePrice      float64
		discountPercent float64
		gstPerUnit      float64

		wantDiscount float64
		wantGST      float64
		wantTotal    float64
		wantProfit   float64
	}{
		{
			name:     "plain sale",
			quantity: 3, unitPrice: 50, tradePrice: 30,
			wantTotal: 150, wantProfit: 60,
		},
		{
			name:     "discount gst and profit",
			quantity: 2, unitPrice: 100, tradePrice: 60, discountPercent: 10, gstPerUnit: 5,
			wantDiscount: 20, wantGST: 10, wantTotal: 190, wantProfit: 60,
		},
		{
			name:     "full discount floors profit at zero",
			quantity: 4, unitPrice: 25, tradePrice: 10, discountPercent: 100,
			wantDiscount: 100, wantTotal: 0, wantProfit: 0,
		},
		{
			name:     "trade price above discounted price never goes negative",
			quantity: 1, unitPrice: 10, tradePrice: 12, discountPercent: 50,
			wantDiscount: 5, wantTotal: 5, wantProfit: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fig, err := priceLine(tt.quantity, tt.unitPrice, tt.tradePrice, tt.discountPercent, tt.gstPerUnit)
			if err != nil {
				t.Fatalf("priceLine returned error: %v", err)
			}
			if !almostEqual(fig.DiscountAmount, tt.wantDiscount) {
				t.Errorf("discount = %v, want %v", fig.DiscountAmount, tt.wantDiscount)
			}
			if !almostEqual(fig.GSTAmount, tt.wantGST) {
				t.Errorf("gst = %v, want %v", fig.GSTAmount, tt.wantGST)
			}
			if !almostEqual(fig.LineTotal, tt.wantTotal) {
				t.Errorf("total = %v, want %v", fig.LineTotal, tt.wantTotal)
			}
			if !almostEqual(fig.LineProfit, tt.wantProfit) {
				t.Errorf("profit = %v, want %v", fig.LineProfit, tt.wantProfit)
			}
		})
	}
}

func TestPriceLineRejectsBadInput(t *testing.T) {
	tests := []struct {
		name            string
		quantity        int
		unitPrice       float64
		tradePrice      float64
		discountPercent float64
		gstPerUnit      float64
	}{
		{name: "zero quantity", quantity: 0, unitPrice: 10},
		{name: "negative unit price", quantity: 1, unitPrice: -1},
		{name: "negative trade price", quantity: 1, unitPrice: 10, tradePrice: -1},
		{name: "discount above 100", quantity: 1, unitPrice: 10, discountPercent: 101},
		{name: "negative discount", quantity: 1, unitPrice: 10, discountPercent: -5},
		{name: "negative gst", quantity: 1, unitPrice: 10, gstPerUnit: -0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := priceLine(tt.quantity, tt.unitPrice, tt.tradePrice, tt.discountPercent, tt.gstPerUnit)
			if !errors.Is(err, store.ErrInvalidInput) {
				t.Fatalf("err = %v, want ErrInvalidInput", err)
			}
		})
	}
}
