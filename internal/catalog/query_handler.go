package catalog

import (
	"strconv"
	"strings"
	"time"

	"github.com/Ashhad1200/medical/internal/database"
	"github.com/Ashhad1200/medical/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GET /api/medicines/search?q=para
// Case-insensitive substring match over name, generic name, manufacturer and
// category, restricted to medicines that are actually in stock.
func SearchMedicinesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := strings.TrimSpace(c.Query("q"))
		if q == "" {
			return fiber.NewError(fiber.StatusBadRequest, "q is required")
		}

		pattern := "%" + q + "%"
		var meds []models.Medicine
		err := database.DB.
			Where("quantity > 0").
			Where(
				database.DB.Where("name ILIKE ?", pattern).
					Or("generic_name ILIKE ?", pattern).
					Or("manufacturer ILIKE ?", pattern).
					Or("category ILIKE ?", pattern),
			).
			Order("name").
			Find(&meds).Error
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "search failed")
		}
		return c.JSON(meds)
	}
}

// GET /api/medicines/low-stock
func LowStockHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var meds []models.Medicine
		err := database.DB.
			Where("quantity <= reorder_threshold").
			Order("quantity").
			Find(&meds).Error
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not list low stock")
		}
		return c.JSON(meds)
	}
}

// GET /api/medicines/expired
func ExpiredHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var meds []models.Medicine
		err := database.DB.
			Where("expiry_date < ?", time.Now()).
			Order("expiry_date").
			Find(&meds).Error
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not list expired medicines")
		}
		return c.JSON(meds)
	}
}

// GET /api/medicines/expiring?days=30
func ExpiringSoonHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		days := models.DefaultExpiryWindowDays
		if d := c.Query("days"); d != "" {
			n, err := strconv.Atoi(d)
			if err != nil || n <= 0 {
				return fiber.NewError(fiber.StatusBadRequest, "days must be a positive number")
			}
			days = n
		}

		now := time.Now()
		var meds []models.Medicine
		err := database.DB.
			Where("expiry_date >= ? AND expiry_date <= ?", now, now.AddDate(0, 0, days)).
			Order("expiry_date").
			Find(&meds).Error
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not list expiring medicines")
		}
		return c.JSON(meds)
	}
}
