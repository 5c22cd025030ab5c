package services

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/kunalsingla/product-api/app/repositories"
	"github.com/kunalsingla/product-api/pkg/validate"
	"gorm.io/gorm"
)

// genericNames are rejected as product names because they carry no
// catalog information.
var genericNames = map[string]bool{
	"producto": true,
	"artículo": true,
	"item":     true,
	"thing":    true,
	"objeto":   true,
}

const (
	maxTags          = 10
	maxTagLength     = 30
	maxOutOfStock    = 1000.0
	bulkyVolume      = 100000.0
	maxImagesPerItem = 10
)

// ValidationService checks product input against field rules,
// cross-field rules and database uniqueness constraints.
type ValidationService struct {
	products *repositories.ProductRepository
}

func NewValidationService(products *repositories.ProductRepository) *ValidationService {
	return &ValidationService{products: products}
}

// ValidateInput runs all stateless checks on the input. It returns a map
// of field → message; an empty map means the input is clean.
func (s *ValidationService) ValidateInput(in *ProductInput) map[string]string {
	errs := validate.Struct(in)

	mergePrefixed(errs, "price", validate.Struct(&in.Price))
	if in.Dimensions != nil {
		mergePrefixed(errs, "dimensions", validate.Struct(in.Dimensions))
	}
	for i := range in.Images {
		mergePrefixed(errs, fmt.Sprintf("images.%d", i), validate.Struct(&in.Images[i]))
	}

	if _, taken := errs["name"]; !taken {
		if msg := checkGenericName(in.Name); msg != "" {
			errs["name"] = msg
		}
	}

	if _, taken := errs["price.amount"]; !taken {
		if msg := checkDecimalPlaces(in.Price.Amount); msg != "" {
			errs["price.amount"] = msg
		}
	}

	if _, taken := errs["tags"]; !taken {
		if msg := checkTags(in.Tags); msg != "" {
			errs["tags"] = msg
		}
	}

	if len(in.Images) > maxImagesPerItem {
		errs["images"] = fmt.Sprintf("A product can have at most %d images.", maxImagesPerItem)
	}

	// Out-of-stock items cannot carry a premium price.
	if in.InStock != nil && !*in.InStock && in.Price.Amount > maxOutOfStock {
		errs["price.amount"] = fmt.Sprintf(
			"Out of stock products cannot have a price above %.0f.", maxOutOfStock)
	}

	// Bulky products need at least one image so buyers can see them.
	if in.Dimensions != nil {
		volume := in.Dimensions.Width * in.Dimensions.Height * in.Dimensions.Depth
		if volume > bulkyVolume && len(in.Images) == 0 {
			errs["images"] = fmt.Sprintf(
				"Products with a volume above %.0f require at least one image.", bulkyVolume)
		}
	}

	return errs
}

// ValidateBusiness checks uniqueness constraints against the database.
// excludeID skips the record being updated; pass 0 on create.
func (s *ValidationService) ValidateBusiness(in *ProductInput, excludeID uint) (map[string]string, error) {
	errs := make(map[string]string)

	existing, err := s.products.FindBySKU(strings.TrimSpace(in.SKU))
	switch {
	case err == nil && existing.ID != excludeID:
		errs["sku"] = "A product with this SKU already exists."
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, err
	}

	existing, err = s.products.FindByName(normalizeName(in.Name))
	switch {
	case err == nil && existing.ID != excludeID:
		errs["name"] = "A product with this name already exists."
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, err
	}

	return errs, nil
}

func checkGenericName(name string) string {
	if genericNames[strings.ToLower(strings.TrimSpace(name))] {
		return "The name is too generic. Use a descriptive product name."
	}
	return ""
}

func checkDecimalPlaces(amount float64) string {
	scaled := amount * 100
	if math.Abs(scaled-math.Round(scaled)) > 1e-9 {
		return "The price amount must have at most 2 decimal places."
	}
	return ""
}

func checkTags(tags []string) string {
	if len(tags) > maxTags {
		return fmt.Sprintf("A product can have at most %d tags.", maxTags)
	}
	seen := make(map[string]bool, len(tags))
	for _, tag := range tags {
		t := strings.ToLower(strings.TrimSpace(tag))
		if t == "" {
			return "Tags cannot be empty."
		}
		if len([]rune(t)) > maxTagLength {
			return fmt.Sprintf("Each tag must not exceed %d characters.", maxTagLength)
		}
		if seen[t] {
			return fmt.Sprintf("Duplicate tag: %s.", t)
		}
		seen[t] = true
	}
	return ""
}

func mergePrefixed(dest map[string]string, prefix string, src map[string]string) {
	for field, msg := range src {
		dest[prefix+"."+field] = msg
	}
}
