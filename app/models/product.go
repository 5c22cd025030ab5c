package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"gorm.io/gorm"
)

// Product is the catalog entry persisted in the products table.
//
// Tags, Dimensions and Images are stored as JSON text columns so the
// same schema works across all supported SQL drivers.
type Product struct {
	gorm.Model
	Name          string      `gorm:"size:100;not null;index" json:"name"`
	SKU           string      `gorm:"size:20;uniqueIndex;not null" json:"sku"`
	Description   string      `gorm:"type:text" json:"description,omitempty"`
	PriceAmount   float64     `gorm:"type:decimal(10,2);not null" json:"price_amount"`
	PriceCurrency string      `gorm:"size:3;not null" json:"price_currency"`
	Tags          StringList  `gorm:"type:text" json:"tags"`
	Dimensions    *Dimensions `gorm:"type:text" json:"dimensions,omitempty"`
	Images        ImageList   `gorm:"type:text" json:"images"`
	// No gorm default tag here: GORM skips zero values on fields with a
	// default, which would turn in_stock:false into true on insert. The
	// service layer applies the true default instead.
	InStock    bool  `gorm:"not null" json:"in_stock"`
	CategoryID *uint `json:"category_id,omitempty"`
}

func (Product) TableName() string { return "products" }

// StringList is a []string stored as a JSON array in a text column.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		l = StringList{}
	}
	b, err := json.Marshal(l)
	return string(b), err
}

func (l *StringList) Scan(src any) error {
	return scanJSON(src, l)
}

// Dimensions holds physical measurements in centimeters.
type Dimensions struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Depth  float64 `json:"depth"`
}

func (d Dimensions) Value() (driver.Value, error) {
	b, err := json.Marshal(d)
	return string(b), err
}

func (d *Dimensions) Scan(src any) error {
	return scanJSON(src, d)
}

// Image is a single product photo reference.
type Image struct {
	URL     string `json:"url"`
	AltText string `json:"alt_text"`
}

// ImageList is a []Image stored as a JSON array in a text column.
type ImageList []Image

func (l ImageList) Value() (driver.Value, error) {
	if l == nil {
		l = ImageList{}
	}
	b, err := json.Marshal(l)
	return string(b), err
}

func (l *ImageList) Scan(src any) error {
	return scanJSON(src, l)
}

func scanJSON(src, dest any) error {
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		if len(v) == 0 {
			return nil
		}
		return json.Unmarshal(v, dest)
	case string:
		if v == "" {
			return nil
		}
		return json.Unmarshal([]byte(v), dest)
	default:
		return fmt.Errorf("models: cannot scan %T into JSON column", src)
	}
}
