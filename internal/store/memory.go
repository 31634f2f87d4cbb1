package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/Ashhad1200/medical/internal/models"
)

// Memory is an in-memory UnitOfWork for tests. Transactions run serialized
// under a mutex; on error the whole state is restored from a snapshot, giving
// the same all-or-nothing semantics as the Postgres implementation.
type Memory struct {
	mu sync.Mutex

	medicines      map[uint]models.Medicine
	orders         map[uint]models.Order
	purchaseOrders map[uint]models.PurchaseOrder

	nextMedicineID uint
	nextOrderID    uint
	nextPOID       uint
	nextItemID     uint
}

func NewMemory() *Memory {
	return &Memory{
		medicines:      make(map[uint]models.Medicine),
		orders:         make(map[uint]models.Order),
		purchaseOrders: make(map[uint]models.PurchaseOrder),
	}
}

// AddMedicine seeds a medicine and returns its assigned ID.
func (m *Memory) AddMedicine(med models.Medicine) uint {
	m.mu.Lock()
	defer m.mu.Unlock()
	if med.ID == 0 {
		m.nextMedicineID++
		med.ID = m.nextMedicineID
	} else if med.ID > m.nextMedicineID {
		m.nextMedicineID = med.ID
	}
	m.medicines[med.ID] = med
	return med.ID
}

// AddPurchaseOrder seeds a purchase order and returns its assigned ID.
func (m *Memory) AddPurchaseOrder(po models.PurchaseOrder) uint {
	m.mu.Lock()
	defer m.mu.Unlock()
	if po.ID == 0 {
		m.nextPOID++
		po.ID = m.nextPOID
	} else if po.ID > m.nextPOID {
		m.nextPOID = po.ID
	}
	for i := range po.Items {
		if po.Items[i].ID == 0 {
			m.nextItemID++
			po.Items[i].ID = m.nextItemID
		}
		po.Items[i].PurchaseOrderID = po.ID
	}
	m.purchaseOrders[po.ID] = clonePO(po)
	return po.ID
}

// Medicine returns a copy of the stored medicine.
func (m *Memory) Medicine(id uint) (models.Medicine, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	med, ok := m.medicines[id]
	return med, ok
}

// PurchaseOrder returns a copy of the stored purchase order.
func (m *Memory) PurchaseOrder(id uint) (models.PurchaseOrder, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	po, ok := m.purchaseOrders[id]
	return clonePO(po), ok
}

// OrderCount reports how many orders have been persisted.
func (m *Memory) OrderCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.orders)
}

func (m *Memory) Transaction(ctx context.Context, fn func(tx Tx) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	snap := m.snapshot()
	if err := fn(&memTx{m: m}); err != nil {
		m.restore(snap)
		return err
	}
	return nil
}

type memorySnapshot struct {
	medicines      map[uint]models.Medicine
	orders         map[uint]models.Order
	purchaseOrders map[uint]models.PurchaseOrder
	nextMedicineID uint
	nextOrderID    uint
	nextPOID       uint
	nextItemID     uint
}

func (m *Memory) snapshot() memorySnapshot {
	snap := memorySnapshot{
		medicines:      make(map[uint]models.Medicine, len(m.medicines)),
		orders:         make(map[uint]models.Order, len(m.orders)),
		purchaseOrders: make(map[uint]models.PurchaseOrder, len(m.purchaseOrders)),
		nextMedicineID: m.nextMedicineID,
		nextOrderID:    m.nextOrderID,
		nextPOID:       m.nextPOID,
		nextItemID:     m.nextItemID,
	}
	for id, med := range m.medicines {
		snap.medicines[id] = med
	}
	for id, o := range m.orders {
		snap.orders[id] = cloneOrder(o)
	}
	for id, po := range m.purchaseOrders {
		snap.purchaseOrders[id] = clonePO(po)
	}
	return snap
}

func (m *Memory) restore(snap memorySnapshot) {
	m.medicines = snap.medicines
	m.orders = snap.orders
	m.purchaseOrders = snap.purchaseOrders
	m.nextMedicineID = snap.nextMedicineID
	m.nextOrderID = snap.nextOrderID
	m.nextPOID = snap.nextPOID
	m.nextItemID = snap.nextItemID
}

func cloneOrder(o models.Order) models.Order {
	c := o
	c.Items = append([]models.OrderItem(nil), o.Items...)
	return c
}

func clonePO(po models.PurchaseOrder) models.PurchaseOrder {
	c := po
	c.Items = append([]models.PurchaseOrderItem(nil), po.Items...)
	return c
}

// memTx operates directly on the Memory maps; the caller already holds the
// mutex and keeps a snapshot for rollback.
type memTx struct {
	m *Memory
}

func (t *memTx) Catalog() CatalogStore              { return memCatalog{t.m} }
func (t *memTx) Orders() OrderStore                 { return memOrders{t.m} }
func (t *memTx) PurchaseOrders() PurchaseOrderStore { return memPurchaseOrders{t.m} }

type memCatalog struct {
	m *Memory
}

func (s memCatalog) FindByID(ctx context.Context, id uint) (*models.Medicine, error) {
	med, ok := s.m.medicines[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &med, nil
}

func (s memCatalog) Save(ctx context.Context, med *models.Medicine) error {
	if med.ID == 0 {
		return fmt.Errorf("%w: medicine without id", ErrInvalidInput)
	}
	s.m.medicines[med.ID] = *med
	return nil
}

type memOrders struct {
	m *Memory
}

func (s memOrders) Create(ctx context.Context, o *models.Order) error {
	s.m.nextOrderID++
	o.ID = s.m.nextOrderID
	for i := range o.Items {
		s.m.nextItemID++
		o.Items[i].ID = s.m.nextItemID
		o.Items[i].OrderID = o.ID
	}
	s.m.orders[o.ID] = cloneOrder(*o)
	return nil
}

type memPurchaseOrders struct {
	m *Memory
}

func (s memPurchaseOrders) FindByID(ctx context.Context, id uint) (*models.PurchaseOrder, error) {
	po, ok := s.m.purchaseOrders[id]
	if !ok {
		return nil, ErrNotFound
	}
	c := clonePO(po)
	return &c, nil
}

func (s memPurchaseOrders) Save(ctx context.Context, po *models.PurchaseOrder) error {
	if po.ID == 0 {
		s.m.nextPOID++
		po.ID = s.m.nextPOID
	}
	for i := range po.Items {
		if po.Items[i].ID == 0 {
			s.m.nextItemID++
			po.Items[i].ID = s.m.nextItemID
		}
		po.Items[i].PurchaseOrderID = po.ID
	}
	s.m.purchaseOrders[po.ID] = clonePO(*po)
	return nil
}
