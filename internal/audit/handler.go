package audit

import (
	"strconv"

	"github.com/Ashhad1200/medical/internal/database"
	"github.com/Ashhad1200/medical/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GET /api/audit-logs?entity_type=order&entity_id=12&limit=100
func ListAuditLogsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := database.DB.Order("created_at DESC")

		if entityType := c.Query("entity_type"); entityType != "" {
			q = q.Where("entity_type = ?", entityType)
		}
		if entityID := c.Query("entity_id"); entityID != "" {
			id, err := strconv.ParseUint(entityID, 10, 32)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "entity_id must be a number")
			}
			q = q.Where("entity_id = ?", id)
		}

		limit := 100
		if l := c.Query("limit"); l != "" {
			n, err := strconv.Atoi(l)
			if err != nil || n <= 0 || n > 1000 {
				return fiber.NewError(fiber.StatusBadRequest, "limit must be between 1 and 1000")
			}
			limit = n
		}

		var logs []models.AuditLog
		if err := q.Limit(limit).Find(&logs).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not list audit logs")
		}
		return c.JSON(logs)
	}
}
