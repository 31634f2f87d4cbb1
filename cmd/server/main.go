package main

import (
	"errors"
	"log"
	"strings"

	"github.com/Ashhad1200/medical/internal/audit"
	"github.com/Ashhad1200/medical/internal/auth"
	"github.com/Ashhad1200/medical/internal/catalog"
	"github.com/Ashhad1200/medical/internal/config"
	"github.com/Ashhad1200/medical/internal/dashboard"
	"github.com/Ashhad1200/medical/internal/database"
	"github.com/Ashhad1200/medical/internal/models"
	"github.com/Ashhad1200/medical/internal/orders"
	"github.com/Ashhad1200/medical/internal/purchasing"
	"github.com/Ashhad1200/medical/internal/reports"
	"github.com/Ashhad1200/medical/internal/store"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func errorHandler(c *fiber.Ctx, err error) error {
	if e, ok := err.(*fiber.Error); ok {
		return c.Status(e.Code).JSON(fiber.Map{
			"error": e.Message,
		})
	}

	var invErr *store.InventoryError
	if errors.As(err, &invErr) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "one or more items cannot be fulfilled",
			"lines": invErr.Lines,
		})
	}

	switch {
	case errors.Is(err, store.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, store.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, store.ErrConflict), errors.Is(err, store.ErrInvalidState):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	}

	log.Println("unexpected error:", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "unexpected server error",
	})
}

func main() {
	cfg := config.Load()
	database.Init(cfg)

	uow := store.NewGorm(database.DB)
	orderSvc := orders.NewService(uow)
	receivingSvc := purchasing.NewService(uow)

	app := fiber.New(fiber.Config{
		ErrorHandler: errorHandler,
	})

	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	api := app.Group("/api")

	// Public auth
	api.Post("/auth/register-admin", auth.RegisterAdminHandler(cfg))
	api.Post("/auth/login", auth.LoginHandler(cfg))

	// Protected
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Get("/auth/me", auth.MeHandler())

	// Admin: user management, reports, audit trail
	adminRoutes := protected.Group("/admin")
	adminRoutes.Use(auth.RequireRole(models.RoleAdmin))
	adminRoutes.Post("/users", auth.CreateUserHandler())
	adminRoutes.Get("/users", auth.ListUsersHandler())
	adminRoutes.Put("/users/:id", auth.UpdateUserHandler())
	adminRoutes.Post("/users/:id/reset-password", auth.ResetPasswordHandler())

	// Catalog: everyone reads, admin/warehouse write
	protected.Get("/medicines", catalog.ListMedicinesHandler())
	protected.Get("/medicines/search", catalog.SearchMedicinesHandler())
	protected.Get("/medicines/low-stock", catalog.LowStockHandler())
	protected.Get("/medicines/expired", catalog.ExpiredHandler())
	protected.Get("/medicines/expiring", catalog.ExpiringSoonHandler())
	protected.Get("/medicines/:id", catalog.GetMedicineHandler())

	catalogWrite := protected.Group("/medicines")
	catalogWrite.Use(auth.RequireRole(models.RoleAdmin, models.RoleWarehouse))
	catalogWrite.Post("/", catalog.CreateMedicineHandler())
	catalogWrite.Put("/:id", catalog.UpdateMedicineHandler())
	catalogWrite.Delete("/:id", catalog.DeleteMedicineHandler())

	// Sales: only counter staff and admins ring up orders
	protected.Post("/orders", auth.RequireRole(models.RoleAdmin, models.RoleCounter), orders.CreateOrderHandler(orderSvc))
	protected.Get("/orders", orders.ListOrdersHandler())
	protected.Get("/orders/:id", orders.GetOrderHandler())
	protected.Get("/orders/:id/receipt", reports.ReceiptHandler())

	// Suppliers
	supplierRoutes := protected.Group("/suppliers")
	supplierRoutes.Get("/", purchasing.ListSuppliersHandler())
	supplierRoutes.Post("/", auth.RequireRole(models.RoleAdmin), purchasing.CreateSupplierHandler())
	supplierRoutes.Put("/:id", auth.RequireRole(models.RoleAdmin), purchasing.UpdateSupplierHandler())
	supplierRoutes.Delete("/:id", auth.RequireRole(models.RoleAdmin), purchasing.DeleteSupplierHandler())

	// Purchase orders: warehouse and admin
	poRoutes := protected.Group("/purchase-orders")
	poRoutes.Use(auth.RequireRole(models.RoleAdmin, models.RoleWarehouse))
	poRoutes.Post("/", purchasing.CreatePurchaseOrderHandler())
	poRoutes.Get("/", purchasing.ListPurchaseOrdersHandler())
	poRoutes.Get("/:id", purchasing.GetPurchaseOrderHandler())
	poRoutes.Put("/:id", purchasing.UpdatePurchaseOrderHandler())
	poRoutes.Post("/:id/order", purchasing.MarkOrderedHandler())
	poRoutes.Post("/:id/cancel", purchasing.CancelPurchaseOrderHandler())
	poRoutes.Post("/:id/receive", purchasing.ReceivePurchaseOrderHandler(receivingSvc))

	// Dashboard
	protected.Get("/dashboard/summary", dashboard.SummaryHandler())
	protected.Get("/dashboard/sales-chart", dashboard.SalesChartHandler())
	protected.Get("/dashboard/top-sellers", dashboard.TopSellersHandler())

	// Reports
	reportRoutes := protected.Group("/reports")
	reportRoutes.Use(auth.RequireRole(models.RoleAdmin))
	reportRoutes.Get("/sales.xlsx", reports.SalesXLSXHandler())
	reportRoutes.Get("/sales.csv", reports.SalesCSVHandler())

	// Audit logs
	protected.Get("/audit-logs", auth.RequireRole(models.RoleAdmin), audit.ListAuditLogsHandler())

	log.Println("server listening on port", cfg.HTTPPort)
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		log.Fatal(err)
	}
}
