package seeders

import (
	"errors"

	"github.com/kunalsingla/product-api/app/models"
	"gorm.io/gorm"
)

func init() {
	register("sample products", seedProducts)
}

func seedProducts(db *gorm.DB) error {
	samples := []models.Product{
		{
			Name:          "Gaming Laptop",
			SKU:           "LAPTOP-001",
			Description:   "15 inch gaming laptop with dedicated GPU.",
			PriceAmount:   1499.99,
			PriceCurrency: "USD",
			Tags:          models.StringList{"electronics", "computers"},
			Dimensions:    &models.Dimensions{Width: 36, Height: 2.5, Depth: 25},
			Images:        models.ImageList{},
			InStock:       true,
		},
		{
			Name:          "Wireless Mouse",
			SKU:           "MOUSE-010",
			Description:   "Ergonomic wireless mouse, 2.4 GHz receiver.",
			PriceAmount:   29.90,
			PriceCurrency: "EUR",
			Tags:          models.StringList{"electronics", "accessories"},
			Images:        models.ImageList{},
			InStock:       true,
		},
		{
			Name:          "Mechanical Keyboard",
			SKU:           "KEYB-2024",
			Description:   "Tenkeyless mechanical keyboard with brown switches.",
			PriceAmount:   89.00,
			PriceCurrency: "USD",
			Tags:          models.StringList{"electronics", "accessories", "keyboards"},
			Images:        models.ImageList{},
			InStock:       false,
		},
	}

	for _, p := range samples {
		var existing models.Product
		err := db.Where("sku = ?", p.SKU).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err := db.Create(&p).Error; err != nil {
			return err
		}
	}
	return nil
}
