// Package store abstracts the database behind a unit-of-work interface so the
// order-processing and receiving transactions can run against Postgres in
// production and an in-memory fake in tests.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Ashhad1200/medical/internal/models"
)

var (
	ErrNotFound     = errors.New("record not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrConflict     = errors.New("stock changed during checkout")
	ErrInvalidState = errors.New("operation not allowed in current state")
)

type LineErrorKind string

const (
	LineNotFound          LineErrorKind = "not_found"
	LineInsufficientStock LineErrorKind = "insufficient_stock"
	LineExpired           LineErrorKind = "expired"
)

// LineError describes why a single cart line cannot be fulfilled.
type LineError struct {
	MedicineID uint          `json:"medicine_id"`
	Name       string        `json:"name,omitempty"`
	Kind       LineErrorKind `json:"kind"`
	Message    string        `json:"message"`
}

// InventoryError carries every failing cart line so the operator can fix the
// whole cart in one pass instead of retrying line by line.
type InventoryError struct {
	Lines []LineError
}

func (e *InventoryError) Error() string {
	msgs := make([]string, 0, len(e.Lines))
	for _, l := range e.Lines {
		msgs = append(msgs, l.Message)
	}
	return fmt.Sprintf("insufficient inventory: %s", strings.Join(msgs, "; "))
}

// CatalogStore reads and writes medicine rows. Inside a transaction FindByID
// takes a row lock, so a concurrent sale of the same medicine blocks until
// this transaction commits or aborts.
type CatalogStore interface {
	FindByID(ctx context.Context, id uint) (*models.Medicine, error)
	Save(ctx context.Context, m *models.Medicine) error
}

type OrderStore interface {
	Create(ctx context.Context, o *models.Order) error
}

type PurchaseOrderStore interface {
	FindByID(ctx context.Context, id uint) (*models.PurchaseOrder, error)
	Save(ctx context.Context, po *models.PurchaseOrder) error
}

// Tx scopes all reads and writes of one atomic unit of work.
type Tx interface {
	Catalog() CatalogStore
	Orders() OrderStore
	PurchaseOrders() PurchaseOrderStore
}

// UnitOfWork runs fn inside one transaction. If fn returns an error every
// write made through the Tx is rolled back.
type UnitOfWork interface {
	Transaction(ctx context.Context, fn func(tx Tx) error) error
}
