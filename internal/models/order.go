package models

import "time"

type OrderStatus string

const (
	OrderCompleted OrderStatus = "completed"
	OrderRefunded  OrderStatus = "refunded"
)

type PaymentMethod string

const (
	PaymentCash   PaymentMethod = "cash"
	PaymentCard   PaymentMethod = "card"
	PaymentMobile PaymentMethod = "mobile"
)

// WalkInCustomer is used when no customer name is supplied at the counter.
const WalkInCustomer = "Walk-in Customer"

// Order is an immutable snapshot of a completed sale. Items, prices and
// computed totals are frozen at the moment the transaction commits.
type Order struct {
	ID             uint          `gorm:"primaryKey" json:"id"`
	OrderNumber    string        `gorm:"size:30;uniqueIndex;not null" json:"order_number"`
	CustomerName   string        `gorm:"size:200;not null" json:"customer_name"`
	CustomerPhone  string        `gorm:"size:50" json:"customer_phone"`
	Status         OrderStatus   `gorm:"size:20;not null;default:'completed'" json:"status"`
	PaymentMethod  PaymentMethod `gorm:"size:20;not null;default:'cash'" json:"payment_method"`
	Subtotal       float64       `gorm:"not null" json:"subtotal"`
	TaxPercent     float64       `gorm:"not null;default:0" json:"tax_percent"`
	TaxAmount      float64       `gorm:"not null;default:0" json:"tax_amount"`
	DiscountAmount float64       `gorm:"not null;default:0" json:"discount_amount"`
	GrandTotal     float64       `gorm:"not null" json:"grand_total"`
	TotalProfit    float64       `gorm:"not null" json:"total_profit"`
	CreatedBy      string        `gorm:"size:100" json:"created_by"`
	OrderedAt      time.Time     `gorm:"index;not null" json:"ordered_at"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`

	Items []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
}

// OrderItem snapshots name, manufacturer and both prices at sale time, so
// later catalog edits never change what a past receipt says.
type OrderItem struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	OrderID         uint      `gorm:"index;not null" json:"order_id"`
	MedicineID      uint      `gorm:"index;not null" json:"medicine_id"`
	Name            string    `gorm:"size:200;not null" json:"name"`
	Manufacturer    string    `gorm:"size:200" json:"manufacturer"`
	Quantity        int       `gorm:"not null" json:"quantity"`
	UnitPrice       float64   `gorm:"not null" json:"unit_price"`
	TradePrice      float64   `gorm:"not null" json:"trade_price"`
	DiscountPercent float64   `gorm:"not null;default:0" json:"discount_percent"`
	DiscountAmount  float64   `gorm:"not null;default:0" json:"discount_amount"`
	GSTAmount       float64   `gorm:"not null;default:0" json:"gst_amount"`
	LineTotal       float64   `gorm:"not null" json:"line_total"`
	LineProfit      float64   `gorm:"not null" json:"line_profit"`
	CreatedAt       time.Time `json:"created_at"`
}
