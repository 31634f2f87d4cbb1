package reports

import (
	"fmt"
	"time"

	"github.com/Ashhad1200/medical/internal/database"
	"github.com/Ashhad1200/medical/internal/models"

	"github.com/gofiber/fiber/v2"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// GET /api/orders/:id/receipt
func ReceiptHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var order models.Order
		if err := database.DB.Preload("Items").First(&order, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "order not found")
		}

		buf, err := BuildReceipt(&order)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not render receipt")
		}

		c.Set(fiber.HeaderContentType, xlsxContentType)
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="receipt-%s.xlsx"`, order.OrderNumber))
		return c.Send(buf.Bytes())
	}
}

func ordersForRange(c *fiber.Ctx) ([]models.Order, error) {
	q := database.DB.Preload("Items").Order("ordered_at")

	if from := c.Query("from"); from != "" {
		d, err := time.Parse("2006-01-02", from)
		if err != nil {
			return nil, fiber.NewError(fiber.StatusBadRequest, "from must be YYYY-MM-DD")
		}
		q = q.Where("ordered_at >= ?", d)
	}
	if to := c.Query("to"); to != "" {
		d, err := time.Parse("2006-01-02", to)
		if err != nil {
			return nil, fiber.NewError(fiber.StatusBadRequest, "to must be YYYY-MM-DD")
		}
		q = q.Where("ordered_at < ?", d.AddDate(0, 0, 1))
	}

	var orders []models.Order
	if err := q.Find(&orders).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "could not load orders")
	}
	return orders, nil
}

// GET /api/reports/sales.xlsx?from=...&to=...
func SalesXLSXHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		orders, err := ordersForRange(c)
		if err != nil {
			return err
		}

		buf, err := BuildSalesXLSX(orders)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not render report")
		}

		c.Set(fiber.HeaderContentType, xlsxContentType)
		c.Set(fiber.HeaderContentDisposition, `attachment; filename="sales-report.xlsx"`)
		return c.Send(buf.Bytes())
	}
}

// GET /api/reports/sales.csv?from=...&to=...
func SalesCSVHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		orders, err := ordersForRange(c)
		if err != nil {
			return err
		}

		buf, err := BuildSalesCSV(orders)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not render report")
		}

		c.Set(fiber.HeaderContentType, "text/csv")
		c.Set(fiber.HeaderContentDisposition, `attachment; filename="sales-report.csv"`)
		return c.Send(buf.Bytes())
	}
}
