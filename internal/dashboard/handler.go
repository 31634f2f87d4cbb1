package dashboard

import (
	"strconv"
	"time"

	"github.com/Ashhad1200/medical/internal/database"
	"github.com/Ashhad1200/medical/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GET /api/dashboard/summary
func SummaryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		now := time.Now()
		todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

		type salesRow struct {
			Revenue float64
			Profit  float64
			Count   int64
		}
		var today salesRow
		database.DB.Model(&models.Order{}).
			Select("COALESCE(SUM(grand_total),0) AS revenue, COALESCE(SUM(total_profit),0) AS profit, COUNT(*) AS count").
			Where("ordered_at >= ? AND status = ?", todayStart, models.OrderCompleted).
			Scan(&today)

		var month salesRow
		monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		database.DB.Model(&models.Order{}).
			Select("COALESCE(SUM(grand_total),0) AS revenue, COALESCE(SUM(total_profit),0) AS profit, COUNT(*) AS count").
			Where("ordered_at >= ? AND status = ?", monthStart, models.OrderCompleted).
			Scan(&month)

		var medicineCount, lowStock, expired, expiringSoon int64
		database.DB.Model(&models.Medicine{}).Count(&medicineCount)
		database.DB.Model(&models.Medicine{}).Where("quantity <= reorder_threshold").Count(&lowStock)
		database.DB.Model(&models.Medicine{}).Where("expiry_date < ?", now).Count(&expired)
		database.DB.Model(&models.Medicine{}).
			Where("expiry_date >= ? AND expiry_date <= ?", now, now.AddDate(0, 0, models.DefaultExpiryWindowDays)).
			Count(&expiringSoon)

		var pendingPOs int64
		database.DB.Model(&models.PurchaseOrder{}).
			Where("status IN ?", []models.PurchaseOrderStatus{models.PurchasePending, models.PurchaseOrdered}).
			Count(&pendingPOs)

		return c.JSON(fiber.Map{
			"today": fiber.Map{
				"revenue": today.Revenue,
				"profit":  today.Profit,
				"orders":  today.Count,
			},
			"month": fiber.Map{
				"revenue": month.Revenue,
				"profit":  month.Profit,
				"orders":  month.Count,
			},
			"stock": fiber.Map{
				"medicines":     medicineCount,
				"low_stock":     lowStock,
				"expired":       expired,
				"expiring_soon": expiringSoon,
			},
			"open_purchase_orders": pendingPOs,
		})
	}
}

// GET /api/dashboard/sales-chart?days=7
// Daily revenue/profit series for the last N days, zero-filled.
func SalesChartHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		days := 7
		if d := c.Query("days"); d != "" {
			n, err := strconv.Atoi(d)
			if err != nil || n <= 0 || n > 90 {
				return fiber.NewError(fiber.StatusBadRequest, "days must be between 1 and 90")
			}
			days = n
		}

		now := time.Now()
		start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, -(days - 1))

		type dayRow struct {
			Day     time.Time
			Revenue float64
			Profit  float64
			Orders  int64
		}
		var rows []dayRow
		database.DB.Model(&models.Order{}).
			Select("DATE_TRUNC('day', ordered_at) AS day, SUM(grand_total) AS revenue, SUM(total_profit) AS profit, COUNT(*) AS orders").
			Where("ordered_at >= ? AND status = ?", start, models.OrderCompleted).
			Group("DATE_TRUNC('day', ordered_at)").
			Order("day").
			Scan(&rows)

		byDay := make(map[string]dayRow, len(rows))
		for _, r := range rows {
			byDay[r.Day.Format("2006-01-02")] = r
		}

		chart := make([]fiber.Map, 0, days)
		for i := 0; i < days; i++ {
			d := start.AddDate(0, 0, i).Format("2006-01-02")
			r := byDay[d]
			chart = append(chart, fiber.Map{
				"date":    d,
				"revenue": r.Revenue,
				"profit":  r.Profit,
				"orders":  r.Orders,
			})
		}

		return c.JSON(chart)
	}
}

// GET /api/dashboard/top-sellers?days=30&limit=10
func TopSellersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		days := 30
		if d := c.Query("days"); d != "" {
			n, err := strconv.Atoi(d)
			if err != nil || n <= 0 {
				return fiber.NewError(fiber.StatusBadRequest, "days must be a positive number")
			}
			days = n
		}
		limit := 10
		if l := c.Query("limit"); l != "" {
			n, err := strconv.Atoi(l)
			if err != nil || n <= 0 || n > 100 {
				return fiber.NewError(fiber.StatusBadRequest, "limit must be between 1 and 100")
			}
			limit = n
		}

		since := time.Now().AddDate(0, 0, -days)

		type topRow struct {
			MedicineID uint    `json:"medicine_id"`
			Name       string  `json:"name"`
			Sold       int64   `json:"sold"`
			Revenue    float64 `json:"revenue"`
			Profit     float64 `json:"profit"`
		}
		var rows []topRow
		err := database.DB.Model(&models.OrderItem{}).
			Select("order_items.medicine_id, order_items.name, SUM(order_items.quantity) AS sold, SUM(order_items.line_total) AS revenue, SUM(order_items.line_profit) AS profit").
			Joins("JOIN orders ON orders.id = order_items.order_id").
			Where("orders.ordered_at >= ? AND orders.status = ?", since, models.OrderCompleted).
			Group("order_items.medicine_id, order_items.name").
			Order("sold DESC").
			Limit(limit).
			Scan(&rows).Error
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not compute top sellers")
		}

		return c.JSON(rows)
	}
}
