package models

import "time"

type PurchaseOrderStatus string

const (
	PurchasePending   PurchaseOrderStatus = "pending"
	PurchaseOrdered   PurchaseOrderStatus = "ordered"
	PurchaseReceived  PurchaseOrderStatus = "received"
	PurchaseCancelled PurchaseOrderStatus = "cancelled"
)

type PurchaseOrder struct {
	ID             uint                `gorm:"primaryKey" json:"id"`
	OrderNumber    string              `gorm:"size:30;uniqueIndex;not null" json:"order_number"`
	SupplierID     uint                `gorm:"index;not null" json:"supplier_id"`
	Supplier       Supplier            `json:"supplier,omitempty"`
	SupplierName   string              `gorm:"size:200;not null" json:"supplier_name"` // snapshot
	Status         PurchaseOrderStatus `gorm:"size:20;not null;default:'pending';index" json:"status"`
	Subtotal       float64             `gorm:"not null;default:0" json:"subtotal"`
	TaxAmount      float64             `gorm:"not null;default:0" json:"tax_amount"`
	DiscountAmount float64             `gorm:"not null;default:0" json:"discount_amount"`
	TotalAmount    float64             `gorm:"not null;default:0" json:"total_amount"`
	Notes          string              `gorm:"size:500" json:"notes"`
	CreatedBy      string              `gorm:"size:100" json:"created_by"`
	ReceivedBy     string              `gorm:"size:100" json:"received_by"`
	ReceivedAt     *time.Time          `json:"received_at,omitempty"`
	CreatedAt      time.Time           `json:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at"`

	Items []PurchaseOrderItem `gorm:"foreignKey:PurchaseOrderID;constraint:OnDelete:CASCADE" json:"items"`
}

type PurchaseOrderItem struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	PurchaseOrderID uint       `gorm:"index;not null" json:"purchase_order_id"`
	MedicineID      uint       `gorm:"index;not null" json:"medicine_id"`
	Name            string     `gorm:"size:200;not null" json:"name"`
	Manufacturer    string     `gorm:"size:200" json:"manufacturer"`
	Quantity        int        `gorm:"not null" json:"quantity"`
	UnitPrice       float64    `gorm:"not null" json:"unit_price"`
	LineTotal       float64    `gorm:"not null" json:"line_total"`
	BatchNumber     string     `gorm:"size:50" json:"batch_number"`
	ExpiryDate      *time.Time `json:"expiry_date,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

// CanModify reports whether items and totals may still be edited.
// Receiving and cancellation are terminal.
func (po *PurchaseOrder) CanModify() bool {
	return po.Status == PurchasePending
}

// CanCancel reports whether the order may still be cancelled.
func (po *PurchaseOrder) CanCancel() bool {
	return po.Status != PurchaseReceived && po.Status != PurchaseCancelled
}

// CanReceive reports whether stock may be booked in against the order.
func (po *PurchaseOrder) CanReceive() bool {
	return po.Status == PurchasePending || po.Status == PurchaseOrdered
}
