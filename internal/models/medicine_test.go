package models

import (
	"testing"
	"time"
)

func TestMedicineStockAndExpiryPredicates(t *testing.T) {
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)

	m := Medicine{Quantity: 10, ReorderThreshold: 10, ExpiryDate: now.AddDate(0, 0, 15)}
	if !m.IsLowStock() {
		t.Error("quantity equal to threshold should count as low stock")
	}

	m.Quantity = 11
	if m.IsLowStock() {
		t.Error("quantity above threshold should not be low stock")
	}

	if m.IsExpired(now) {
		t.Error("future expiry should not be expired")
	}
	if !m.ExpiresWithin(now, 30) {
		t.Error("expiry in 15 days should be within a 30 day window")
	}
	if m.ExpiresWithin(now, 7) {
		t.Error("expiry in 15 days should not be within a 7 day window")
	}

	m.ExpiryDate = now.AddDate(0, 0, -1)
	if !m.IsExpired(now) {
		t.Error("past expiry should be expired")
	}
	if m.ExpiresWithin(now, 30) {
		t.Error("already expired medicine is not expiring soon")
	}
}
