package catalog

import (
	"fmt"
	"strings"
	"time"

	"github.com/Ashhad1200/medical/internal/audit"
	"github.com/Ashhad1200/medical/internal/auth"
	"github.com/Ashhad1200/medical/internal/database"
	"github.com/Ashhad1200/medical/internal/models"

	"github.com/gofiber/fiber/v2"
)

type MedicineRequest struct {
	Name             string   `json:"name"`
	GenericName      string   `json:"generic_name"`
	Manufacturer     string   `json:"manufacturer"`
	Category         string   `json:"category"`
	BatchNumber      string   `json:"batch_number"`
	RetailPrice      *float64 `json:"retail_price"`
	TradePrice       *float64 `json:"trade_price"`
	GSTPerUnit       *float64 `json:"gst_per_unit"`
	Quantity         *int     `json:"quantity"`
	ExpiryDate       string   `json:"expiry_date"` // "2026-08-31"
	ReorderThreshold *int     `json:"reorder_threshold"`
}

// POST /api/medicines
func CreateMedicineHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body MedicineRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "name is required")
		}
		if body.RetailPrice == nil || *body.RetailPrice < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "retail_price is required and must not be negative")
		}
		if body.TradePrice == nil || *body.TradePrice < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "trade_price is required and must not be negative")
		}
		if body.GSTPerUnit != nil && *body.GSTPerUnit < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "gst_per_unit must not be negative")
		}

		expiry, err := time.Parse("2006-01-02", body.ExpiryDate)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "expiry_date must be YYYY-MM-DD")
		}

		med := models.Medicine{
			Name:             body.Name,
			GenericName:      strings.TrimSpace(body.GenericName),
			Manufacturer:     strings.TrimSpace(body.Manufacturer),
			Category:         strings.TrimSpace(body.Category),
			BatchNumber:      strings.TrimSpace(body.BatchNumber),
			RetailPrice:      *body.RetailPrice,
			TradePrice:       *body.TradePrice,
			ExpiryDate:       expiry,
			ReorderThreshold: models.DefaultReorderThreshold,
		}
		if body.GSTPerUnit != nil {
			med.GSTPerUnit = *body.GSTPerUnit
		}
		if body.Quantity != nil {
			if *body.Quantity < 0 {
				return fiber.NewError(fiber.StatusBadRequest, "quantity must not be negative")
			}
			med.Quantity = *body.Quantity
		}
		if body.ReorderThreshold != nil && *body.ReorderThreshold >= 0 {
			med.ReorderThreshold = *body.ReorderThreshold
		}

		if err := database.DB.Create(&med).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not create medicine")
		}

		userID, userName, err := auth.CurrentUser(c)
		if err == nil {
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "medicine",
				EntityID:    med.ID,
				Action:      models.AuditActionCreate,
				Description: fmt.Sprintf("medicine added: %s", med.Name),
				After:       med,
			})
		}

		return c.Status(fiber.StatusCreated).JSON(med)
	}
}

// GET /api/medicines
func ListMedicinesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := database.DB.Order("name")
		if category := c.Query("category"); category != "" {
			q = q.Where("category = ?", category)
		}

		var meds []models.Medicine
		if err := q.Find(&meds).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not list medicines")
		}
		return c.JSON(meds)
	}
}

// GET /api/medicines/:id
func GetMedicineHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var med models.Medicine
		if err := database.DB.First(&med, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "medicine not found")
		}
		return c.JSON(med)
	}
}

// PUT /api/medicines/:id
// Quantity is deliberately not updatable here: stock moves only through
// order processing and purchase-order receiving.
func UpdateMedicineHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var med models.Medicine
		if err := database.DB.First(&med, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "medicine not found")
		}
		before := med

		var body MedicineRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}

		if name := strings.TrimSpace(body.Name); name != "" {
			med.Name = name
		}
		if body.GenericName != "" {
			med.GenericName = strings.TrimSpace(body.GenericName)
		}
		if body.Manufacturer != "" {
			med.Manufacturer = strings.TrimSpace(body.Manufacturer)
		}
		if body.Category != "" {
			med.Category = strings.TrimSpace(body.Category)
		}
		if body.BatchNumber != "" {
			med.BatchNumber = strings.TrimSpace(body.BatchNumber)
		}
		if body.RetailPrice != nil {
			if *body.RetailPrice < 0 {
				return fiber.NewError(fiber.StatusBadRequest, "retail_price must not be negative")
			}
			med.RetailPrice = *body.RetailPrice
		}
		if body.TradePrice != nil {
			if *body.TradePrice < 0 {
				return fiber.NewError(fiber.StatusBadRequest, "trade_price must not be negative")
			}
			med.TradePrice = *body.TradePrice
		}
		if body.GSTPerUnit != nil {
			if *body.GSTPerUnit < 0 {
				return fiber.NewError(fiber.StatusBadRequest, "gst_per_unit must not be negative")
			}
			med.GSTPerUnit = *body.GSTPerUnit
		}
		if body.ExpiryDate != "" {
			expiry, err := time.Parse("2006-01-02", body.ExpiryDate)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "expiry_date must be YYYY-MM-DD")
			}
			med.ExpiryDate = expiry
		}
		if body.ReorderThreshold != nil {
			if *body.ReorderThreshold < 0 {
				return fiber.NewError(fiber.StatusBadRequest, "reorder_threshold must not be negative")
			}
			med.ReorderThreshold = *body.ReorderThreshold
		}

		if err := database.DB.Save(&med).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not update medicine")
		}

		userID, userName, err := auth.CurrentUser(c)
		if err == nil {
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "medicine",
				EntityID:    med.ID,
				Action:      models.AuditActionUpdate,
				Description: fmt.Sprintf("medicine updated: %s", med.Name),
				Before:      before,
				After:       med,
			})
		}

		return c.JSON(med)
	}
}

// DELETE /api/medicines/:id
func DeleteMedicineHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var med models.Medicine
		if err := database.DB.First(&med, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "medicine not found")
		}

		var soldCount int64
		database.DB.Model(&models.OrderItem{}).Where("medicine_id = ?", med.ID).Count(&soldCount)
		if soldCount > 0 {
			return fiber.NewError(fiber.StatusConflict, "medicine has sales history and cannot be deleted")
		}

		if err := database.DB.Delete(&med).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not delete medicine")
		}

		userID, userName, err := auth.CurrentUser(c)
		if err == nil {
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "medicine",
				EntityID:    med.ID,
				Action:      models.AuditActionDelete,
				Description: fmt.Sprintf("medicine deleted: %s", med.Name),
				Before:      med,
			})
		}

		return c.JSON(fiber.Map{"message": "medicine deleted"})
	}
}
