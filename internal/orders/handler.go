package orders

import (
	"fmt"
	"time"

	"github.com/Ashhad1200/medical/internal/audit"
	"github.com/Ashhad1200/medical/internal/auth"
	"github.com/Ashhad1200/medical/internal/database"
	"github.com/Ashhad1200/medical/internal/models"

	"github.com/gofiber/fiber/v2"
)

// POST /api/orders
func CreateOrderHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateOrderInput
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}

		userID, userName, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}
		body.CreatedBy = userName

		order, err := svc.Create(c.Context(), body)
		if err != nil {
			// domain errors are mapped to statuses by the central error handler
			return err
		}

		_ = audit.WriteLog(audit.LogOptions{
			UserID:      userID,
			UserName:    userName,
			EntityType:  "order",
			EntityID:    order.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("order %s: %d items, total %.2f", order.OrderNumber, len(order.Items), order.GrandTotal),
			After:       order,
		})

		return c.Status(fiber.StatusCreated).JSON(order)
	}
}

// GET /api/orders?from=YYYY-MM-DD&to=YYYY-MM-DD&customer=...
func ListOrdersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := database.DB.Preload("Items").Order("ordered_at DESC")

		if from := c.Query("from"); from != "" {
			d, err := time.Parse("2006-01-02", from)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "from must be YYYY-MM-DD")
			}
			q = q.Where("ordered_at >= ?", d)
		}
		if to := c.Query("to"); to != "" {
			d, err := time.Parse("2006-01-02", to)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "to must be YYYY-MM-DD")
			}
			q = q.Where("ordered_at < ?", d.AddDate(0, 0, 1))
		}
		if customer := c.Query("customer"); customer != "" {
			q = q.Where("customer_name ILIKE ?", "%"+customer+"%")
		}

		var orders []models.Order
		if err := q.Find(&orders).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not list orders")
		}
		return c.JSON(orders)
	}
}

// GET /api/orders/:id
func GetOrderHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var order models.Order
		if err := database.DB.Preload("Items").First(&order, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "order not found")
		}
		return c.JSON(order)
	}
}
