package purchasing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Ashhad1200/medical/internal/models"
	"github.com/Ashhad1200/medical/internal/store"
)

func seedPO(mem *store.Memory, status models.PurchaseOrderStatus, medID uint, qty int) (uint, uint) {
	poID := mem.AddPurchaseOrder(models.PurchaseOrder{
		OrderNumber:  "PO-TEST-1",
		SupplierID:   1,
		SupplierName: "HealthCo Distributors",
		Status:       status,
		Items: []models.PurchaseOrderItem{{
			MedicineID: medID,
			Name:       "Paracetamol 500mg",
			Quantity:   qty,
			UnitPrice:  4,
			LineTotal:  float64(qty) * 4,
		}},
	})
	po, _ := mem.PurchaseOrder(poID)
	return poID, po.Items[0].ID
}

func TestReceiveIncrementsStockAndClosesOrder(t *testing.T) {
	mem := store.NewMemory()
	svc := NewService(mem)

	medID := mem.AddMedicine(models.Medicine{
		Name:        "Paracetamol 500mg",
		RetailPrice: 8,
		TradePrice:  4,
		Quantity:    10,
		ExpiryDate:  time.Now().AddDate(0, 6, 0),
	})
	poID, itemID := seedPO(mem, models.PurchasePending, medID, 5)

	newExpiry := time.Now().AddDate(2, 0, 0)
	po, err := svc.Receive(context.Background(), poID, []ReceiveItemUpdate{{
		ItemID:           itemID,
		ReceivedQuantity: 5,
		BatchNumber:      "B-2027-11",
		ExpiryDate:       &newExpiry,
	}}, "warehouse-1")
	if err != nil {
		t.Fatalf("Receive returned error: %v", err)
	}

	if po.Status != models.PurchaseReceived {
		t.Errorf("status = %s, want received", po.Status)
	}
	if po.ReceivedBy != "warehouse-1" {
		t.Errorf("received_by = %q, want warehouse-1", po.ReceivedBy)
	}
	if po.ReceivedAt == nil {
		t.Error("received_at should be stamped")
	}

	med, _ := mem.Medicine(medID)
	if med.Quantity != 15 {
		t.Errorf("stock = %d, want 15", med.Quantity)
	}
	if med.BatchNumber != "B-2027-11" {
		t.Errorf("batch = %q, want B-2027-11", med.BatchNumber)
	}
	if !med.ExpiryDate.Equal(newExpiry) {
		t.Errorf("expiry = %v, want %v", med.ExpiryDate, newExpiry)
	}
}

func TestReceiveSkipsZeroQuantityUpdates(t *testing.T) {
	mem := store.NewMemory()
	svc := NewService(mem)

	medID := mem.AddMedicine(models.Medicine{
		Name: "Ibuprofen", RetailPrice: 6, TradePrice: 3, Quantity: 4,
		ExpiryDate: time.Now().AddDate(1, 0, 0),
	})
	poID, itemID := seedPO(mem, models.PurchaseOrdered, medID, 10)

	po, err := svc.Receive(context.Background(), poID, []ReceiveItemUpdate{{
		ItemID:           itemID,
		ReceivedQuantity: 0,
	}}, "warehouse-1")
	if err != nil {
		t.Fatalf("Receive returned error: %v", err)
	}
	if po.Status != models.PurchaseReceived {
		t.Errorf("status = %s, want received", po.Status)
	}

	med, _ := mem.Medicine(medID)
	if med.Quantity != 4 {
		t.Errorf("stock = %d, want 4 (nothing booked in)", med.Quantity)
	}
}

func TestReceiveFailsOnTerminalStates(t *testing.T) {
	for _, status := range []models.PurchaseOrderStatus{models.PurchaseReceived, models.PurchaseCancelled} {
		t.Run(string(status), func(t *testing.T) {
			mem := store.NewMemory()
			svc := NewService(mem)

			medID := mem.AddMedicine(models.Medicine{
				Name: "Aspirin", RetailPrice: 5, TradePrice: 2, Quantity: 7,
				ExpiryDate: time.Now().AddDate(1, 0, 0),
			})
			poID, itemID := seedPO(mem, status, medID, 3)

			_, err := svc.Receive(context.Background(), poID, []ReceiveItemUpdate{{
				ItemID:           itemID,
				ReceivedQuantity: 3,
			}}, "warehouse-1")
			if !errors.Is(err, store.ErrInvalidState) {
				t.Fatalf("err = %v, want ErrInvalidState", err)
			}

			med, _ := mem.Medicine(medID)
			if med.Quantity != 7 {
				t.Errorf("stock = %d, want 7 (unchanged)", med.Quantity)
			}
			po, _ := mem.PurchaseOrder(poID)
			if po.Status != status {
				t.Errorf("status = %s, want %s (unchanged)", po.Status, status)
			}
		})
	}
}

func TestReceiveUnknownOrderAndItem(t *testing.T) {
	mem := store.NewMemory()
	svc := NewService(mem)

	if _, err := svc.Receive(context.Background(), 42, nil, "warehouse-1"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("missing order: err = %v, want ErrNotFound", err)
	}

	medID := mem.AddMedicine(models.Medicine{
		Name: "Saline", RetailPrice: 3, TradePrice: 1, Quantity: 2,
		ExpiryDate: time.Now().AddDate(1, 0, 0),
	})
	poID, _ := seedPO(mem, models.PurchasePending, medID, 1)

	_, err := svc.Receive(context.Background(), poID, []ReceiveItemUpdate{{
		ItemID:           777,
		ReceivedQuantity: 1,
	}}, "warehouse-1")
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("missing item: err = %v, want ErrNotFound", err)
	}

	// the failed receive must roll back everything
	med, _ := mem.Medicine(medID)
	if med.Quantity != 2 {
		t.Errorf("stock = %d, want 2 (unchanged)", med.Quantity)
	}
	po, _ := mem.PurchaseOrder(poID)
	if po.Status != models.PurchasePending {
		t.Errorf("status = %s, want pending (unchanged)", po.Status)
	}
}
