package models

import "time"

// DefaultReorderThreshold is used when a medicine is created without one.
const DefaultReorderThreshold = 10

// DefaultExpiryWindowDays is the lookahead for "expiring soon" queries.
const DefaultExpiryWindowDays = 30

type Medicine struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	Name             string    `gorm:"size:200;not null;index" json:"name"`
	GenericName      string    `gorm:"size:200;index" json:"generic_name"`
	Manufacturer     string    `gorm:"size:200;index" json:"manufacturer"`
	Category         string    `gorm:"size:100;index" json:"category"`
	BatchNumber      string    `gorm:"size:50" json:"batch_number"`
	RetailPrice      float64   `gorm:"not null" json:"retail_price"`
	TradePrice       float64   `gorm:"not null" json:"trade_price"`
	GSTPerUnit       float64   `gorm:"not null;default:0" json:"gst_per_unit"`
	Quantity         int       `gorm:"not null;default:0" json:"quantity"` // never negative
	ExpiryDate       time.Time `gorm:"index;not null" json:"expiry_date"`
	ReorderThreshold int       `gorm:"not null;default:10" json:"reorder_threshold"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func (m *Medicine) IsExpired(now time.Time) bool {
	return m.ExpiryDate.Before(now)
}

func (m *Medicine) IsLowStock() bool {
	return m.Quantity <= m.ReorderThreshold
}

// ExpiresWithin reports whether the medicine is still valid now but will
// expire within the given number of days.
func (m *Medicine) ExpiresWithin(now time.Time, days int) bool {
	if m.IsExpired(now) {
		return false
	}
	return !m.ExpiryDate.After(now.AddDate(0, 0, days))
}
