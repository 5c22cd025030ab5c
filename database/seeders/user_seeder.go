package seeders

import (
	"errors"

	"github.com/kunalsingla/product-api/app/models"
	"github.com/kunalsingla/product-api/pkg/auth"
	"gorm.io/gorm"
)

func init() {
	register("admin user", seedAdminUser)
}

func seedAdminUser(db *gorm.DB) error {
	var existing models.User
	err := db.Where("email = ?", "admin@example.com").First(&existing).Error
	if err == nil {
		return nil // already seeded
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hash, err := auth.HashPassword("password123")
	if err != nil {
		return err
	}

	return db.Create(&models.User{
		Name:     "Admin",
		Email:    "admin@example.com",
		Password: hash,
		Role:     "admin",
		IsActive: true,
	}).Error
}
