package store

import (
	"context"
	"errors"

	"github.com/Ashhad1200/medical/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Gorm is the Postgres-backed UnitOfWork.
type Gorm struct {
	db *gorm.DB
}

func NewGorm(db *gorm.DB) *Gorm {
	return &Gorm{db: db}
}

func (g *Gorm) Transaction(ctx context.Context, fn func(tx Tx) error) error {
	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTx{db: tx})
	})
}

type gormTx struct {
	db *gorm.DB
}

func (t *gormTx) Catalog() CatalogStore              { return gormCatalog{t.db} }
func (t *gormTx) Orders() OrderStore                 { return gormOrders{t.db} }
func (t *gormTx) PurchaseOrders() PurchaseOrderStore { return gormPurchaseOrders{t.db} }

type gormCatalog struct {
	db *gorm.DB
}

func (s gormCatalog) FindByID(ctx context.Context, id uint) (*models.Medicine, error) {
	var m models.Medicine
	err := s.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&m, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (s gormCatalog) Save(ctx context.Context, m *models.Medicine) error {
	return s.db.WithContext(ctx).Save(m).Error
}

type gormOrders struct {
	db *gorm.DB
}

func (s gormOrders) Create(ctx context.Context, o *models.Order) error {
	return s.db.WithContext(ctx).Create(o).Error
}

type gormPurchaseOrders struct {
	db *gorm.DB
}

func (s gormPurchaseOrders) FindByID(ctx context.Context, id uint) (*models.PurchaseOrder, error) {
	var po models.PurchaseOrder
	err := s.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Preload("Items").
		First(&po, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &po, nil
}

func (s gormPurchaseOrders) Save(ctx context.Context, po *models.PurchaseOrder) error {
	return s.db.WithContext(ctx).Save(po).Error
}
