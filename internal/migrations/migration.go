package migrations

import (
	"errors"
	"log"
	"os"

	"apparel_store/internal/models"
	"apparel_store/internal/repository"
	"apparel_store/internal/services"

	"gorm.io/gorm"
)

// Seed creates the default data a fresh deployment needs: the admin
// account, the checkout charge settings and the base categories. It is
// idempotent, so the server calls it on every start.
func Seed(db *gorm.DB) error {
	if err := seedAdmin(db); err != nil {
		return err
	}
	if err := seedSettings(db); err != nil {
		return err
	}
	return seedCategories(db)
}

func seedAdmin(db *gorm.DB) error {
	userRepo := repository.NewUserRepository(db)
	userService := services.NewUserService(userRepo, "", 0)

	email := os.Getenv("ADMIN_EMAIL")
	if email == "" {
		email = "admin@example.com"
	}
	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "admin123"
	}

	if _, err := userRepo.GetByEmail(email); err == nil {
		return nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	log.Println("Creating admin user...")
	if _, err := userService.CreateAdmin("Admin", email, password); err != nil {
		log.Printf("Warning: Failed to create admin user: %v", err)
	}
	return nil
}

func seedSettings(db *gorm.DB) error {
	settingRepo := repository.NewSettingRepository(db)

	defaults := map[string]float64{
		models.SettingCODCharge:             100,
		models.SettingShippingCharge:        50,
		models.SettingFreeShippingThreshold: 999,
	}
	for name, amount := range defaults {
		if _, err := settingRepo.Get(name); err == nil {
			continue
		}
		err := settingRepo.Upsert(&models.StoreSetting{
			SettingName: name,
			Amount:      amount,
			IsActive:    true,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func seedCategories(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Category{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	log.Println("Creating base categories...")
	categories := []models.Category{
		{Name: "T-Shirts", Slug: "t-shirts", Gender: "unisex", DisplayOrder: 1},
		{Name: "Shirts", Slug: "shirts", Gender: "men", DisplayOrder: 2},
		{Name: "Dresses", Slug: "dresses", Gender: "women", DisplayOrder: 3},
		{Name: "Jeans", Slug: "jeans", Gender: "unisex", DisplayOrder: 4},
	}
	return db.Create(&categories).Error
}
