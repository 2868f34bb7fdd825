package main

import (
	"fmt"
	"log"

	"apparel_store/internal/config"
	"apparel_store/internal/database"
	"apparel_store/internal/migrations"
	"apparel_store/internal/models"
)

// Drops and recreates every table, then seeds the defaults. Only for
// development environments.
func main() {
	fmt.Println("Initializing database...")

	cfg := config.Load()

	db, err := database.Initialize(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	fmt.Println("Dropping existing tables...")
	err = db.Migrator().DropTable(
		&models.User{},
		&models.Category{},
		&models.Product{},
		&models.ProductVariant{},
		&models.ProductImage{},
		&models.SizeChart{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.ExchangeRequest{},
		&models.ShiprocketLog{},
		&models.StoreSetting{},
	)
	if err != nil {
		log.Printf("Warning: Error dropping tables: %v", err)
	}

	fmt.Println("Creating tables...")
	err = db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Product{},
		&models.ProductVariant{},
		&models.ProductImage{},
		&models.SizeChart{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.ExchangeRequest{},
		&models.ShiprocketLog{},
		&models.StoreSetting{},
	)
	if err != nil {
		log.Fatal("Failed to create tables:", err)
	}

	if err := migrations.Seed(db); err != nil {
		log.Fatal("Failed to seed default data:", err)
	}

	fmt.Println("Database initialized successfully!")
}
