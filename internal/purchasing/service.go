package purchasing

import (
	"context"
	"fmt"
	"time"

	"github.com/Ashhad1200/medical/internal/models"
	"github.com/Ashhad1200/medical/internal/store"
)

// ReceiveItemUpdate reports how much of one purchase-order line actually
// arrived. Batch number and expiry date, when set, overwrite the catalog row.
type ReceiveItemUpdate struct {
	ItemID           uint       `json:"item_id"`
	ReceivedQuantity int        `json:"received_quantity"`
	BatchNumber      string     `json:"batch_number,omitempty"`
	ExpiryDate       *time.Time `json:"expiry_date,omitempty"`
}

// Service owns the receiving transaction: it is the only component allowed
// to increment catalog stock for a replenishment.
type Service struct {
	uow store.UnitOfWork
}

func NewService(uow store.UnitOfWork) *Service {
	return &Service{uow: uow}
}

// Receive books the delivered quantities into the catalog and moves the
// purchase order to received, atomically. Any failure rolls back every stock
// increment together with the status transition.
func (s *Service) Receive(ctx context.Context, purchaseOrderID uint, updates []ReceiveItemUpdate, receivedBy string) (*models.PurchaseOrder, error) {
	var result *models.PurchaseOrder

	err := s.uow.Transaction(ctx, func(tx store.Tx) error {
		po, err := tx.PurchaseOrders().FindByID(ctx, purchaseOrderID)
		if err != nil {
			return err
		}
		if !po.CanReceive() {
			return fmt.Errorf("%w: purchase order is already %s", store.ErrInvalidState, po.Status)
		}

		for _, upd := range updates {
			if upd.ReceivedQuantity <= 0 {
				continue
			}

			item := findItem(po.Items, upd.ItemID)
			if item == nil {
				return fmt.Errorf("%w: purchase order item %d", store.ErrNotFound, upd.ItemID)
			}

			med, err := tx.Catalog().FindByID(ctx, item.MedicineID)
			if err != nil {
				return err
			}

			med.Quantity += upd.ReceivedQuantity
			if upd.BatchNumber != "" {
				med.BatchNumber = upd.BatchNumber
			}
			if upd.ExpiryDate != nil {
				med.ExpiryDate = *upd.ExpiryDate
			}
			if err := tx.Catalog().Save(ctx, med); err != nil {
				return err
			}
		}

		now := time.Now()
		po.Status = models.PurchaseReceived
		po.ReceivedBy = receivedBy
		po.ReceivedAt = &now
		if err := tx.PurchaseOrders().Save(ctx, po); err != nil {
			return err
		}

		result = po
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func findItem(items []models.PurchaseOrderItem, id uint) *models.PurchaseOrderItem {
	for i := range items {
		if items[i].ID == id {
			return &items[i]
		}
	}
	return nil
}
