package database

import (
	"log"

	"github.com/Ashhad1200/medical/internal/config"
	"github.com/Ashhad1200/medical/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init(cfg *config.Config) {
	var err error

	DB, err = gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("could not connect to database: %v", err)
	}

	err = DB.AutoMigrate(
		&models.User{},
		&models.Medicine{},
		&models.Supplier{},
		&models.Order{},
		&models.OrderItem{},
		&models.PurchaseOrder{},
		&models.PurchaseOrderItem{},
		&models.AuditLog{},
	)
	if err != nil {
		log.Fatalf("AutoMigrate failed: %v", err)
	}

	log.Println("database connected, migration complete")
}
