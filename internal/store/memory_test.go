package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Ashhad1200/medical/internal/models"
)

func TestMemoryTransactionRollsBackOnError(t *testing.T) {
	mem := NewMemory()
	medID := mem.AddMedicine(models.Medicine{
		Name:        "Paracetamol",
		RetailPrice: 8,
		TradePrice:  4,
		Quantity:    10,
		ExpiryDate:  time.Now().AddDate(1, 0, 0),
	})

	boom := errors.New("boom")
	err := mem.Transaction(context.Background(), func(tx Tx) error {
		med, err := tx.Catalog().FindByID(context.Background(), medID)
		if err != nil {
			return err
		}
		med.Quantity = 0
		if err := tx.Catalog().Save(context.Background(), med); err != nil {
			return err
		}
		if err := tx.Orders().Create(context.Background(), &models.Order{OrderNumber: "INV-X"}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}

	med, _ := mem.Medicine(medID)
	if med.Quantity != 10 {
		t.Errorf("stock = %d, want 10 after rollback", med.Quantity)
	}
	if mem.OrderCount() != 0 {
		t.Errorf("orders = %d, want 0 after rollback", mem.OrderCount())
	}
}

func TestMemoryTransactionCommitsOnSuccess(t *testing.T) {
	mem := NewMemory()
	medID := mem.AddMedicine(models.Medicine{
		Name:        "Ibuprofen",
		RetailPrice: 6,
		TradePrice:  3,
		Quantity:    5,
		ExpiryDate:  time.Now().AddDate(1, 0, 0),
	})

	err := mem.Transaction(context.Background(), func(tx Tx) error {
		med, err := tx.Catalog().FindByID(context.Background(), medID)
		if err != nil {
			return err
		}
		med.Quantity = 3
		return tx.Catalog().Save(context.Background(), med)
	})
	if err != nil {
		t.Fatalf("Transaction returned error: %v", err)
	}

	med, _ := mem.Medicine(medID)
	if med.Quantity != 3 {
		t.Errorf("stock = %d, want 3", med.Quantity)
	}
}
