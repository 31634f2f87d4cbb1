package orders

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Ashhad1200/medical/internal/models"
	"github.com/Ashhad1200/medical/internal/store"
)

func futureExpiry() time.Time {
	return time.Now().AddDate(1, 0, 0)
}

func seedMedicine(mem *store.Memory, name string, qty int, retail, trade, gst float64) uint {
	return mem.AddMedicine(models.Medicine{
		Name:             name,
		Manufacturer:     "Acme Pharma",
		RetailPrice:      retail,
		TradePrice:       trade,
		GSTPerUnit:       gst,
		Quantity:         qty,
		ExpiryDate:       futureExpiry(),
		ReorderThreshold: models.DefaultReorderThreshold,
	})
}

func f(v float64) *float64 { return &v }

func TestCreateOrderComputesFinancialsAndDecrementsStock(t *testing.T) {
	mem := store.NewMemory()
	svc := NewService(mem)

	medID := seedMedicine(mem, "Paracetamol 500mg", 20, 100, 60, 0)

	order, err := svc.Create(context.Background(), CreateOrderInput{
		Lines: []CartLine{{
			MedicineID:      medID,
			Quantity:        2,
			UnitPrice:       f(100),
			TradePrice:      f(60),
			DiscountPercent: f(10),
			GSTPerUnit:      f(5),
		}},
		CreatedBy: "counter-1",
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if len(order.Items) != 1 {
		t.Fatalf("items = %d, want 1", len(order.Items))
	}
	item := order.Items[0]
	if !almostEqual(item.DiscountAmount, 20) {
		t.Errorf("discount = %v, want 20", item.DiscountAmount)
	}
	if !almostEqual(item.GSTAmount, 10) {
		t.Errorf("gst = %v, want 10", item.GSTAmount)
	}
	if !almostEqual(item.LineTotal, 190) {
		t.Errorf("line total = %v, want 190", item.LineTotal)
	}
	if !almostEqual(item.LineProfit, 60) {
		t.Errorf("line profit = %v, want 60", item.LineProfit)
	}
	if !almostEqual(order.Subtotal, 190) {
		t.Errorf("subtotal = %v, want 190", order.Subtotal)
	}
	if !almostEqual(order.GrandTotal, 190) {
		t.Errorf("grand total = %v, want 190", order.GrandTotal)
	}
	if !almostEqual(order.TotalProfit, 60) {
		t.Errorf("total profit = %v, want 60", order.TotalProfit)
	}
	if order.CustomerName != models.WalkInCustomer {
		t.Errorf("customer = %q, want %q", order.CustomerName, models.WalkInCustomer)
	}
	if order.OrderNumber == "" {
		t.Error("order number should be set")
	}

	med, _ := mem.Medicine(medID)
	if med.Quantity != 18 {
		t.Errorf("stock = %d, want 18", med.Quantity)
	}
}

func TestCreateOrderSubtotalMatchesLineTotals(t *testing.T) {
	mem := store.NewMemory()
	svc := NewService(mem)

	a := seedMedicine(mem, "Amoxicillin", 50, 12.5, 8, 0.75)
	b := seedMedicine(mem, "Ibuprofen", 50, 8.25, 5, 0)

	order, err := svc.Create(context.Background(), CreateOrderInput{
		Lines: []CartLine{
			{MedicineID: a, Quantity: 3, DiscountPercent: f(5)},
			{MedicineID: b, Quantity: 7},
		},
		TaxPercent: 4,
		Discount:   2,
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	var sum float64
	for _, item := range order.Items {
		sum += item.LineTotal
	}
	if !almostEqual(order.Subtotal, sum) {
		t.Errorf("subtotal = %v, want sum of line totals %v", order.Subtotal, sum)
	}
	want := order.Subtotal + order.TaxAmount - order.DiscountAmount
	if !almostEqual(order.GrandTotal, want) {
		t.Errorf("grand total = %v, want %v", order.GrandTotal, want)
	}
}

func TestCreateOrderRejectsEmptyAndInvalidCarts(t *testing.T) {
	mem := store.NewMemory()
	svc := NewService(mem)
	medID := seedMedicine(mem, "Aspirin", 10, 5, 3, 0)

	if _, err := svc.Create(context.Background(), CreateOrderInput{}); !errors.Is(err, store.ErrInvalidInput) {
		t.Errorf("empty cart: err = %v, want ErrInvalidInput", err)
	}

	_, err := svc.Create(context.Background(), CreateOrderInput{
		Lines: []CartLine{{MedicineID: medID, Quantity: 0}},
	})
	if !errors.Is(err, store.ErrInvalidInput) {
		t.Errorf("zero quantity: err = %v, want ErrInvalidInput", err)
	}

	_, err = svc.Create(context.Background(), CreateOrderInput{
		Lines: []CartLine{{MedicineID: medID, Quantity: 1, DiscountPercent: f(150)}},
	})
	if !errors.Is(err, store.ErrInvalidInput) {
		t.Errorf("bad discount: err = %v, want ErrInvalidInput", err)
	}

	med, _ := mem.Medicine(medID)
	if med.Quantity != 10 {
		t.Errorf("stock = %d, want 10 (unchanged)", med.Quantity)
	}
	if mem.OrderCount() != 0 {
		t.Errorf("orders = %d, want 0", mem.OrderCount())
	}
}

func TestCreateOrderCollectsEveryFailingLine(t *testing.T) {
	mem := store.NewMemory()
	svc := NewService(mem)

	short := seedMedicine(mem, "Cough Syrup", 2, 15, 9, 0)
	expired := mem.AddMedicine(models.Medicine{
		Name:        "Old Stock",
		RetailPrice: 10,
		TradePrice:  6,
		Quantity:    30,
		ExpiryDate:  time.Now().AddDate(0, 0, -1),
	})
	ok := seedMedicine(mem, "Bandages", 100, 3, 1, 0)

	_, err := svc.Create(context.Background(), CreateOrderInput{
		Lines: []CartLine{
			{MedicineID: short, Quantity: 5},
			{MedicineID: expired, Quantity: 1},
			{MedicineID: 9999, Quantity: 1},
			{MedicineID: ok, Quantity: 2},
		},
	})

	var invErr *store.InventoryError
	if !errors.As(err, &invErr) {
		t.Fatalf("err = %v, want InventoryError", err)
	}
	if len(invErr.Lines) != 3 {
		t.Fatalf("line errors = %d, want 3: %+v", len(invErr.Lines), invErr.Lines)
	}

	kinds := map[store.LineErrorKind]bool{}
	for _, l := range invErr.Lines {
		kinds[l.Kind] = true
	}
	for _, k := range []store.LineErrorKind{store.LineInsufficientStock, store.LineExpired, store.LineNotFound} {
		if !kinds[k] {
			t.Errorf("missing line error kind %q", k)
		}
	}

	// atomicity: nothing moved, nothing persisted
	for _, id := range []uint{short, expired, ok} {
		med, _ := mem.Medicine(id)
		switch id {
		case short:
			if med.Quantity != 2 {
				t.Errorf("stock of %d = %d, want 2", id, med.Quantity)
			}
		case expired:
			if med.Quantity != 30 {
				t.Errorf("stock of %d = %d, want 30", id, med.Quantity)
			}
		case ok:
			if med.Quantity != 100 {
				t.Errorf("stock of %d = %d, want 100", id, med.Quantity)
			}
		}
	}
	if mem.OrderCount() != 0 {
		t.Errorf("orders = %d, want 0", mem.OrderCount())
	}
}

func TestCreateOrderTotalsOverride(t *testing.T) {
	mem := store.NewMemory()
	svc := NewService(mem)
	medID := seedMedicine(mem, "Vitamin C", 10, 20, 12, 0)

	order, err := svc.Create(context.Background(), CreateOrderInput{
		Lines:  []CartLine{{MedicineID: medID, Quantity: 1}},
		Totals: &Totals{Subtotal: f(18), TaxAmount: f(1), GrandTotal: f(19)},
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if !almostEqual(order.Subtotal, 18) || !almostEqual(order.TaxAmount, 1) || !almostEqual(order.GrandTotal, 19) {
		t.Errorf("totals = %v/%v/%v, want 18/1/19", order.Subtotal, order.TaxAmount, order.GrandTotal)
	}
}

func TestCreateOrderClampsNegativeGrandTotal(t *testing.T) {
	mem := store.NewMemory()
	svc := NewService(mem)
	medID := seedMedicine(mem, "Saline", 10, 5, 2, 0)

	order, err := svc.Create(context.Background(), CreateOrderInput{
		Lines:    []CartLine{{MedicineID: medID, Quantity: 1}},
		Discount: 50, // bigger than the subtotal
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if order.GrandTotal != 0 {
		t.Errorf("grand total = %v, want 0 after clamping", order.GrandTotal)
	}
}

func TestConcurrentOrdersForLastUnit(t *testing.T) {
	mem := store.NewMemory()
	svc := NewService(mem)
	medID := seedMedicine(mem, "Insulin", 1, 500, 350, 0)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Create(context.Background(), CreateOrderInput{
				Lines: []CartLine{{MedicineID: medID, Quantity: 1}},
			})
		}(i)
	}
	wg.Wait()

	var failures int
	for _, err := range errs {
		if err == nil {
			continue
		}
		failures++
		var invErr *store.InventoryError
		if !errors.As(err, &invErr) && !errors.Is(err, store.ErrConflict) {
			t.Errorf("unexpected failure kind: %v", err)
		}
	}
	if failures != 1 {
		t.Fatalf("failures = %d, want exactly 1", failures)
	}

	med, _ := mem.Medicine(medID)
	if med.Quantity != 0 {
		t.Errorf("stock = %d, want 0", med.Quantity)
	}
	if mem.OrderCount() != 1 {
		t.Errorf("orders = %d, want 1", mem.OrderCount())
	}
}

func TestCreateOrderDuplicateLinesShareStock(t *testing.T) {
	mem := store.NewMemory()
	svc := NewService(mem)
	medID := seedMedicine(mem, "Gauze", 5, 2, 1, 0)

	// two lines for the same medicine; together they exceed stock
	_, err := svc.Create(context.Background(), CreateOrderInput{
		Lines: []CartLine{
			{MedicineID: medID, Quantity: 3},
			{MedicineID: medID, Quantity: 3},
		},
	})
	if err == nil {
		t.Fatal("expected failure when combined lines exceed stock")
	}

	med, _ := mem.Medicine(medID)
	if med.Quantity != 5 {
		t.Errorf("stock = %d, want 5 (unchanged)", med.Quantity)
	}
}
