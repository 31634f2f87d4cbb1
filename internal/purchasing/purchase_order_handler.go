package purchasing

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Ashhad1200/medical/internal/audit"
	"github.com/Ashhad1200/medical/internal/auth"
	"github.com/Ashhad1200/medical/internal/database"
	"github.com/Ashhad1200/medical/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type PurchaseOrderItemRequest struct {
	MedicineID  uint    `json:"medicine_id"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	BatchNumber string  `json:"batch_number"`
	ExpiryDate  string  `json:"expiry_date"` // "2027-01-31", optional
}

type CreatePurchaseOrderRequest struct {
	SupplierID     uint                       `json:"supplier_id"`
	Items          []PurchaseOrderItemRequest `json:"items"`
	TaxAmount      float64                    `json:"tax_amount"`
	DiscountAmount float64                    `json:"discount_amount"`
	Notes          string                     `json:"notes"`
}

type ReceivePurchaseOrderRequest struct {
	Items []ReceiveItemUpdate `json:"items"`
}

func buildPurchaseOrderItems(reqs []PurchaseOrderItemRequest) ([]models.PurchaseOrderItem, float64, error) {
	var items []models.PurchaseOrderItem
	var subtotal float64

	for _, r := range reqs {
		if r.Quantity <= 0 || r.UnitPrice < 0 {
			return nil, 0, fiber.NewError(fiber.StatusBadRequest, "every item needs a positive quantity and a non-negative unit_price")
		}

		var med models.Medicine
		if err := database.DB.First(&med, "id = ?", r.MedicineID).Error; err != nil {
			return nil, 0, fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("medicine %d not found", r.MedicineID))
		}

		item := models.PurchaseOrderItem{
			MedicineID:   med.ID,
			Name:         med.Name,
			Manufacturer: med.Manufacturer,
			Quantity:     r.Quantity,
			UnitPrice:    r.UnitPrice,
			LineTotal:    float64(r.Quantity) * r.UnitPrice,
			BatchNumber:  strings.TrimSpace(r.BatchNumber),
		}
		if r.ExpiryDate != "" {
			d, err := time.Parse("2006-01-02", r.ExpiryDate)
			if err != nil {
				return nil, 0, fiber.NewError(fiber.StatusBadRequest, "expiry_date must be YYYY-MM-DD")
			}
			item.ExpiryDate = &d
		}

		subtotal += item.LineTotal
		items = append(items, item)
	}
	return items, subtotal, nil
}

// POST /api/purchase-orders
func CreatePurchaseOrderHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreatePurchaseOrderRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}

		if len(body.Items) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "at least one item is required")
		}
		if body.TaxAmount < 0 || body.DiscountAmount < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "tax_amount and discount_amount must not be negative")
		}

		var supplier models.Supplier
		if err := database.DB.First(&supplier, "id = ?", body.SupplierID).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "supplier not found")
		}
		if !supplier.Active {
			return fiber.NewError(fiber.StatusBadRequest, "supplier is inactive")
		}

		items, subtotal, err := buildPurchaseOrderItems(body.Items)
		if err != nil {
			return err
		}

		total := subtotal + body.TaxAmount - body.DiscountAmount
		if total < 0 {
			total = 0
		}

		userID, userName, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		po := models.PurchaseOrder{
			OrderNumber:    newPurchaseOrderNumber(time.Now()),
			SupplierID:     supplier.ID,
			SupplierName:   supplier.Name,
			Status:         models.PurchasePending,
			Subtotal:       subtotal,
			TaxAmount:      body.TaxAmount,
			DiscountAmount: body.DiscountAmount,
			TotalAmount:    total,
			Notes:          strings.TrimSpace(body.Notes),
			CreatedBy:      userName,
			Items:          items,
		}

		if err := database.DB.Create(&po).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not create purchase order")
		}

		_ = audit.WriteLog(audit.LogOptions{
			UserID:      userID,
			UserName:    userName,
			EntityType:  "purchase_order",
			EntityID:    po.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("purchase order %s for %s: %d items, total %.2f", po.OrderNumber, po.SupplierName, len(po.Items), po.TotalAmount),
			After:       po,
		})

		return c.Status(fiber.StatusCreated).JSON(po)
	}
}

// GET /api/purchase-orders?status=pending
func ListPurchaseOrdersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := database.DB.Preload("Items").Preload("Supplier").Order("created_at DESC")
		if status := c.Query("status"); status != "" {
			q = q.Where("status = ?", status)
		}

		var orders []models.PurchaseOrder
		if err := q.Find(&orders).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not list purchase orders")
		}
		return c.JSON(orders)
	}
}

// GET /api/purchase-orders/:id
func GetPurchaseOrderHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var po models.PurchaseOrder
		if err := database.DB.Preload("Items").Preload("Supplier").First(&po, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "purchase order not found")
		}
		return c.JSON(po)
	}
}

// PUT /api/purchase-orders/:id
// Items and totals can only change while the order is still pending.
func UpdatePurchaseOrderHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var po models.PurchaseOrder
		if err := database.DB.Preload("Items").First(&po, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "purchase order not found")
		}
		if !po.CanModify() {
			return fiber.NewError(fiber.StatusConflict, fmt.Sprintf("purchase order is %s and can no longer be edited", po.Status))
		}
		before := po

		var body CreatePurchaseOrderRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if len(body.Items) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "at least one item is required")
		}
		if body.TaxAmount < 0 || body.DiscountAmount < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "tax_amount and discount_amount must not be negative")
		}

		items, subtotal, err := buildPurchaseOrderItems(body.Items)
		if err != nil {
			return err
		}

		total := subtotal + body.TaxAmount - body.DiscountAmount
		if total < 0 {
			total = 0
		}

		tx := database.DB.Begin()
		if tx.Error != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not start transaction")
		}

		if err := tx.Where("purchase_order_id = ?", po.ID).Delete(&models.PurchaseOrderItem{}).Error; err != nil {
			tx.Rollback()
			return fiber.NewError(fiber.StatusInternalServerError, "could not replace items")
		}

		po.Subtotal = subtotal
		po.TaxAmount = body.TaxAmount
		po.DiscountAmount = body.DiscountAmount
		po.TotalAmount = total
		po.Notes = strings.TrimSpace(body.Notes)
		po.Items = items

		if err := tx.Save(&po).Error; err != nil {
			tx.Rollback()
			return fiber.NewError(fiber.StatusInternalServerError, "could not update purchase order")
		}

		if err := tx.Commit().Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not update purchase order")
		}

		userID, userName, err := auth.CurrentUser(c)
		if err == nil {
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "purchase_order",
				EntityID:    po.ID,
				Action:      models.AuditActionUpdate,
				Description: fmt.Sprintf("purchase order %s updated", po.OrderNumber),
				Before:      before,
				After:       po,
			})
		}

		return c.JSON(po)
	}
}

// POST /api/purchase-orders/:id/order
// Marks a pending order as sent to the supplier.
func MarkOrderedHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var po models.PurchaseOrder
		if err := database.DB.First(&po, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "purchase order not found")
		}
		if po.Status != models.PurchasePending {
			return fiber.NewError(fiber.StatusConflict, fmt.Sprintf("purchase order is %s, only pending orders can be marked as ordered", po.Status))
		}

		po.Status = models.PurchaseOrdered
		if err := database.DB.Save(&po).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not update purchase order")
		}

		userID, userName, err := auth.CurrentUser(c)
		if err == nil {
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "purchase_order",
				EntityID:    po.ID,
				Action:      models.AuditActionUpdate,
				Description: fmt.Sprintf("purchase order %s marked as ordered", po.OrderNumber),
				After:       po,
			})
		}

		return c.JSON(po)
	}
}

// POST /api/purchase-orders/:id/cancel
func CancelPurchaseOrderHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var po models.PurchaseOrder
		if err := database.DB.First(&po, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "purchase order not found")
		}
		if !po.CanCancel() {
			return fiber.NewError(fiber.StatusConflict, fmt.Sprintf("purchase order is %s and cannot be cancelled", po.Status))
		}

		po.Status = models.PurchaseCancelled
		if err := database.DB.Save(&po).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not cancel purchase order")
		}

		userID, userName, err := auth.CurrentUser(c)
		if err == nil {
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "purchase_order",
				EntityID:    po.ID,
				Action:      models.AuditActionCancel,
				Description: fmt.Sprintf("purchase order %s cancelled", po.OrderNumber),
				After:       po,
			})
		}

		return c.JSON(po)
	}
}

// POST /api/purchase-orders/:id/receive
func ReceivePurchaseOrderHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := strconv.ParseUint(c.Params("id"), 10, 32)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid purchase order id")
		}

		var body ReceivePurchaseOrderRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}

		userID, userName, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		po, err := svc.Receive(c.Context(), uint(id), body.Items, userName)
		if err != nil {
			return err
		}

		_ = audit.WriteLog(audit.LogOptions{
			UserID:      userID,
			UserName:    userName,
			EntityType:  "purchase_order",
			EntityID:    po.ID,
			Action:      models.AuditActionReceive,
			Description: fmt.Sprintf("purchase order %s received", po.OrderNumber),
			After:       po,
		})

		return c.JSON(po)
	}
}

func newPurchaseOrderNumber(now time.Time) string {
	suffix := strings.ToUpper(uuid.NewString()[:6])
	return fmt.Sprintf("PO-%s-%s", now.Format("20060102"), suffix)
}
