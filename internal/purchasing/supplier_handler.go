package purchasing

import (
	"fmt"
	"strings"

	"github.com/Ashhad1200/medical/internal/audit"
	"github.com/Ashhad1200/medical/internal/auth"
	"github.com/Ashhad1200/medical/internal/database"
	"github.com/Ashhad1200/medical/internal/models"

	"github.com/gofiber/fiber/v2"
)

type SupplierRequest struct {
	Name          string `json:"name"`
	ContactPerson string `json:"contact_person"`
	Phone         string `json:"phone"`
	Email         string `json:"email"`
	Address       string `json:"address"`
	Active        *bool  `json:"active"`
}

// POST /api/suppliers
func CreateSupplierHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body SupplierRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "name is required")
		}

		var count int64
		database.DB.Model(&models.Supplier{}).Where("name = ?", body.Name).Count(&count)
		if count > 0 {
			return fiber.NewError(fiber.StatusConflict, "a supplier with this name already exists")
		}

		supplier := models.Supplier{
			Name:          body.Name,
			ContactPerson: strings.TrimSpace(body.ContactPerson),
			Phone:         strings.TrimSpace(body.Phone),
			Email:         strings.TrimSpace(body.Email),
			Address:       strings.TrimSpace(body.Address),
			Active:        true,
		}

		if err := database.DB.Create(&supplier).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not create supplier")
		}

		userID, userName, err := auth.CurrentUser(c)
		if err == nil {
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "supplier",
				EntityID:    supplier.ID,
				Action:      models.AuditActionCreate,
				Description: fmt.Sprintf("supplier added: %s", supplier.Name),
				After:       supplier,
			})
		}

		return c.Status(fiber.StatusCreated).JSON(supplier)
	}
}

// GET /api/suppliers
func ListSuppliersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := database.DB.Order("name")
		if c.Query("active") == "true" {
			q = q.Where("active = ?", true)
		}

		var suppliers []models.Supplier
		if err := q.Find(&suppliers).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not list suppliers")
		}
		return c.JSON(suppliers)
	}
}

// PUT /api/suppliers/:id
func UpdateSupplierHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var supplier models.Supplier
		if err := database.DB.First(&supplier, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "supplier not found")
		}
		before := supplier

		var body SupplierRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}

		if name := strings.TrimSpace(body.Name); name != "" {
			supplier.Name = name
		}
		if body.ContactPerson != "" {
			supplier.ContactPerson = strings.TrimSpace(body.ContactPerson)
		}
		if body.Phone != "" {
			supplier.Phone = strings.TrimSpace(body.Phone)
		}
		if body.Email != "" {
			supplier.Email = strings.TrimSpace(body.Email)
		}
		if body.Address != "" {
			supplier.Address = strings.TrimSpace(body.Address)
		}
		if body.Active != nil {
			supplier.Active = *body.Active
		}

		if err := database.DB.Save(&supplier).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not update supplier")
		}

		userID, userName, err := auth.CurrentUser(c)
		if err == nil {
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "supplier",
				EntityID:    supplier.ID,
				Action:      models.AuditActionUpdate,
				Description: fmt.Sprintf("supplier updated: %s", supplier.Name),
				Before:      before,
				After:       supplier,
			})
		}

		return c.JSON(supplier)
	}
}

// DELETE /api/suppliers/:id
func DeleteSupplierHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var supplier models.Supplier
		if err := database.DB.First(&supplier, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "supplier not found")
		}

		var poCount int64
		database.DB.Model(&models.PurchaseOrder{}).Where("supplier_id = ?", supplier.ID).Count(&poCount)
		if poCount > 0 {
			return fiber.NewError(fiber.StatusConflict, "supplier has purchase orders and cannot be deleted")
		}

		if err := database.DB.Delete(&supplier).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not delete supplier")
		}

		userID, userName, err := auth.CurrentUser(c)
		if err == nil {
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "supplier",
				EntityID:    supplier.ID,
				Action:      models.AuditActionDelete,
				Description: fmt.Sprintf("supplier deleted: %s", supplier.Name),
				Before:      supplier,
			})
		}

		return c.JSON(fiber.Map{"message": "supplier deleted"})
	}
}
