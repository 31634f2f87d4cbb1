package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Ashhad1200/medical/internal/models"
	"github.com/Ashhad1200/medical/internal/store"

	"github.com/google/uuid"
)

// CartLine is one requested medicine. The price fields are optional
// overrides; when nil the catalog values are used.
type CartLine struct {
	MedicineID      uint     `json:"medicine_id"`
	Quantity        int      `json:"quantity"`
	UnitPrice       *float64 `json:"unit_price,omitempty"`
	TradePrice      *float64 `json:"trade_price,omitempty"`
	DiscountPercent *float64 `json:"discount_percent,omitempty"`
	GSTPerUnit      *float64 `json:"gst_per_unit,omitempty"`
}

// Totals lets the caller supply pre-computed order totals. Non-nil fields
// take precedence over the computed values; everything is clamped >= 0.
type Totals struct {
	Subtotal   *float64 `json:"subtotal,omitempty"`
	TaxAmount  *float64 `json:"tax_amount,omitempty"`
	GrandTotal *float64 `json:"grand_total,omitempty"`
}

type CreateOrderInput struct {
	Lines         []CartLine           `json:"items"`
	CustomerName  string               `json:"customer_name"`
	CustomerPhone string               `json:"customer_phone"`
	PaymentMethod models.PaymentMethod `json:"payment_method"`
	TaxPercent    float64              `json:"tax_percent"`
	Discount      float64              `json:"discount"` // order-level discount amount
	Totals        *Totals              `json:"totals,omitempty"`
	CreatedBy     string               `json:"-"`
}

// Service owns the order-processing transaction: it is the only component
// allowed to decrement catalog stock for a sale.
type Service struct {
	uow store.UnitOfWork
}

func NewService(uow store.UnitOfWork) *Service {
	return &Service{uow: uow}
}

// Create validates the cart, computes per-line and aggregate financials,
// decrements stock and persists the order in one transaction. On any failure
// nothing is written: the catalog and the order ledger stay untouched.
func (s *Service) Create(ctx context.Context, in CreateOrderInput) (*models.Order, error) {
	if len(in.Lines) == 0 {
		return nil, fmt.Errorf("%w: cart is empty", store.ErrInvalidInput)
	}
	for _, l := range in.Lines {
		if l.Quantity <= 0 {
			return nil, fmt.Errorf("%w: quantity must be positive for medicine %d", store.ErrInvalidInput, l.MedicineID)
		}
	}
	if in.TaxPercent < 0 || in.Discount < 0 {
		return nil, fmt.Errorf("%w: tax percent and discount must not be negative", store.ErrInvalidInput)
	}

	var order *models.Order

	err := s.uow.Transaction(ctx, func(tx store.Tx) error {
		now := time.Now()

		var (
			lineErrs    []store.LineError
			items       []models.OrderItem
			subtotal    float64
			totalProfit float64
			requested   = make(map[uint]int) // summed across lines for the re-check
		)

		for _, l := range in.Lines {
			med, err := tx.Catalog().FindByID(ctx, l.MedicineID)
			if errors.Is(err, store.ErrNotFound) {
				// collect, don't abort: report every bad line at once
				lineErrs = append(lineErrs, store.LineError{
					MedicineID: l.MedicineID,
					Kind:       store.LineNotFound,
					Message:    fmt.Sprintf("medicine %d not found", l.MedicineID),
				})
				continue
			}
			if err != nil {
				return err
			}

			if med.Quantity < l.Quantity {
				lineErrs = append(lineErrs, store.LineError{
					MedicineID: med.ID,
					Name:       med.Name,
					Kind:       store.LineInsufficientStock,
					Message:    fmt.Sprintf("%s: %d requested, %d available", med.Name, l.Quantity, med.Quantity),
				})
				continue
			}
			if med.IsExpired(now) {
				lineErrs = append(lineErrs, store.LineError{
					MedicineID: med.ID,
					Name:       med.Name,
					Kind:       store.LineExpired,
					Message:    fmt.Sprintf("%s expired on %s", med.Name, med.ExpiryDate.Format("2006-01-02")),
				})
				continue
			}

			fig, err := priceLine(
				l.Quantity,
				orCatalog(l.UnitPrice, med.RetailPrice),
				orCatalog(l.TradePrice, med.TradePrice),
				orCatalog(l.DiscountPercent, 0),
				orCatalog(l.GSTPerUnit, med.GSTPerUnit),
			)
			if err != nil {
				// an invalid price or discount aborts the whole transaction
				return err
			}

			items = append(items, models.OrderItem{
				MedicineID:      med.ID,
				Name:            med.Name,
				Manufacturer:    med.Manufacturer,
				Quantity:        l.Quantity,
				UnitPrice:       fig.UnitPrice,
				TradePrice:      fig.TradePrice,
				DiscountPercent: fig.DiscountPercent,
				DiscountAmount:  fig.DiscountAmount,
				GSTAmount:       fig.GSTAmount,
				LineTotal:       fig.LineTotal,
				LineProfit:      fig.LineProfit,
			})
			subtotal += fig.LineTotal
			totalProfit += fig.LineProfit
			requested[med.ID] += l.Quantity
		}

		if len(lineErrs) > 0 {
			return &store.InventoryError{Lines: lineErrs}
		}

		// Re-check current stock right before the decrement. A concurrent
		// sale may have drained it since the validation pass above.
		for id, qty := range requested {
			med, err := tx.Catalog().FindByID(ctx, id)
			if err != nil {
				return err
			}
			if med.Quantity < qty {
				return fmt.Errorf("%w: %s", store.ErrConflict, med.Name)
			}
			med.Quantity -= qty
			if err := tx.Catalog().Save(ctx, med); err != nil {
				return err
			}
		}

		taxAmount := subtotal * in.TaxPercent / 100
		grandTotal := subtotal + taxAmount - in.Discount
		if t := in.Totals; t != nil {
			if t.Subtotal != nil {
				subtotal = *t.Subtotal
			}
			if t.TaxAmount != nil {
				taxAmount = *t.TaxAmount
			}
			if t.GrandTotal != nil {
				grandTotal = *t.GrandTotal
			}
		}

		customer := strings.TrimSpace(in.CustomerName)
		if customer == "" {
			customer = models.WalkInCustomer
		}
		payment := in.PaymentMethod
		if payment == "" {
			payment = models.PaymentCash
		}

		order = &models.Order{
			OrderNumber:    newOrderNumber(now),
			CustomerName:   customer,
			CustomerPhone:  strings.TrimSpace(in.CustomerPhone),
			Status:         models.OrderCompleted,
			PaymentMethod:  payment,
			Subtotal:       clampMoney(subtotal),
			TaxPercent:     in.TaxPercent,
			TaxAmount:      clampMoney(taxAmount),
			DiscountAmount: clampMoney(in.Discount),
			GrandTotal:     clampMoney(grandTotal),
			TotalProfit:    clampMoney(totalProfit),
			CreatedBy:      in.CreatedBy,
			OrderedAt:      now,
			Items:          items,
		}
		return tx.Orders().Create(ctx, order)
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// newOrderNumber builds a unique, human-sortable invoice number. A uuid
// suffix avoids the races of count-based numbering under concurrent sales.
func newOrderNumber(now time.Time) string {
	suffix := strings.ToUpper(uuid.NewString()[:6])
	return fmt.Sprintf("INV-%s-%s", now.Format("20060102"), suffix)
}
