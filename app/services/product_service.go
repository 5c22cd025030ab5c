// Package services holds the business logic between controllers and
// repositories.
package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/kunalsingla/product-api/app/models"
	"github.com/kunalsingla/product-api/app/repositories"
	"github.com/kunalsingla/product-api/pkg/cache"
	"github.com/kunalsingla/product-api/pkg/orm"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ─── Input types ──────────────────────────────────────────────────────────────

// PriceInput is the nested price object in product payloads.
type PriceInput struct {
	Amount   float64 `json:"amount"   validate:"required,gt=0,lte=99999999.99"`
	Currency string  `json:"currency" validate:"required,in=USD,EUR,COP,GBP,JPY,CAD,AUD"`
}

// DimensionsInput is the optional physical size of a product, in cm.
type DimensionsInput struct {
	Width  float64 `json:"width"  validate:"required,gt=0,lte=500"`
	Height float64 `json:"height" validate:"required,gt=0,lte=500"`
	Depth  float64 `json:"depth"  validate:"required,gt=0,lte=500"`
}

// ImageInput is a single product photo reference.
type ImageInput struct {
	URL     string `json:"url"      validate:"required,url"`
	AltText string `json:"alt_text" validate:"required,min=1,max=100"`
}

// ProductInput is the payload accepted by create and validate endpoints.
type ProductInput struct {
	Name        string           `json:"name"        validate:"required,min=3,max=100"`
	SKU         string           `json:"sku"         validate:"required,regex=^[A-Z0-9-]{5,20}$"`
	Description *string          `json:"description" validate:"nullable,max=500"`
	Price       PriceInput       `json:"price"`
	Tags        []string         `json:"tags"`
	Dimensions  *DimensionsInput `json:"dimensions"`
	Images      []ImageInput     `json:"images"`
	InStock     *bool            `json:"in_stock"`
	CategoryID  *uint            `json:"category_id" validate:"nullable,gt=0"`
}

// ProductUpdateInput is the payload for PUT. Nil fields keep their
// current value. SKU is fixed at creation and has no update field; an
// "sku" key in the body is ignored.
type ProductUpdateInput struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Price       *PriceInput      `json:"price"`
	Tags        *[]string        `json:"tags"`
	Dimensions  *DimensionsInput `json:"dimensions"`
	Images      *[]ImageInput    `json:"images"`
	InStock     *bool            `json:"in_stock"`
	CategoryID  *uint            `json:"category_id"`
}

// ─── Response types ───────────────────────────────────────────────────────────

type PriceResponse struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

// ProductResponse is the outward shape of a product.
type ProductResponse struct {
	ID          uint               `json:"id"`
	Name        string             `json:"name"`
	SKU         string             `json:"sku"`
	Description string             `json:"description,omitempty"`
	Price       PriceResponse      `json:"price"`
	Tags        []string           `json:"tags"`
	Dimensions  *models.Dimensions `json:"dimensions,omitempty"`
	Images      []models.Image     `json:"images"`
	InStock     bool               `json:"in_stock"`
	CategoryID  *uint              `json:"category_id,omitempty"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

// ─── Service ──────────────────────────────────────────────────────────────────

var titleCaser = cases.Title(language.Und)

// ProductService implements the catalog use cases.
type ProductService struct {
	repo      *repositories.ProductRepository
	validator *ValidationService
}

func NewProductService(repo *repositories.ProductRepository) *ProductService {
	return &ProductService{
		repo:      repo,
		validator: NewValidationService(repo),
	}
}

// Validate runs the full validation pipeline (field rules, cross-field
// rules, uniqueness) without writing anything.
func (s *ProductService) Validate(in *ProductInput) (map[string]string, error) {
	errs := s.validator.ValidateInput(in)
	if len(errs) > 0 {
		return errs, nil
	}
	return s.validator.ValidateBusiness(in, 0)
}

// Create validates and persists a new product.
// The returned map holds field errors; when it is non-empty no write
// happened and err is nil.
func (s *ProductService) Create(in *ProductInput) (*ProductResponse, map[string]string, error) {
	if errs := s.validator.ValidateInput(in); len(errs) > 0 {
		return nil, errs, nil
	}
	if errs, err := s.validator.ValidateBusiness(in, 0); err != nil {
		return nil, nil, err
	} else if len(errs) > 0 {
		return nil, errs, nil
	}

	product := buildProduct(in)
	if err := s.repo.Create(product); err != nil {
		return nil, nil, err
	}

	// Drop any stale entry a concurrent writer may have left under this id.
	cache.Forget(productCacheKey(product.ID))
	return toResponse(product), nil, nil
}

// List returns one page of products.
func (s *ProductService) List(page, limit int) ([]ProductResponse, orm.Pagination, error) {
	products, meta, err := s.repo.All(page, limit)
	if err != nil {
		return nil, orm.Pagination{}, err
	}

	out := make([]ProductResponse, 0, len(products))
	for i := range products {
		out = append(out, *toResponse(&products[i]))
	}
	return out, meta, nil
}

// GetByID returns a single product, served from cache when warm.
func (s *ProductService) GetByID(id uint) (*ProductResponse, error) {
	product, err := s.repo.FindByIDCached(id)
	if err != nil {
		return nil, err
	}
	return toResponse(product), nil
}

// Update applies a partial update, re-validating the merged result.
func (s *ProductService) Update(id uint, in *ProductUpdateInput) (*ProductResponse, map[string]string, error) {
	product, err := s.repo.FindByID(id)
	if err != nil {
		return nil, nil, err
	}

	merged := mergeInput(product, in)
	if errs := s.validator.ValidateInput(merged); len(errs) > 0 {
		return nil, errs, nil
	}
	if errs, err := s.validator.ValidateBusiness(merged, id); err != nil {
		return nil, nil, err
	} else if len(errs) > 0 {
		return nil, errs, nil
	}

	applyInput(product, merged)
	if err := s.repo.Update(product); err != nil {
		return nil, nil, err
	}

	cache.Forget(productCacheKey(id))
	return toResponse(product), nil, nil
}

// Delete soft-deletes a product.
func (s *ProductService) Delete(id uint) error {
	product, err := s.repo.FindByID(id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(product); err != nil {
		return err
	}
	cache.Forget(productCacheKey(id))
	return nil
}

// AppendImage attaches an uploaded image URL to the product.
func (s *ProductService) AppendImage(id uint, url, altText string) (*ProductResponse, error) {
	product, err := s.repo.FindByID(id)
	if err != nil {
		return nil, err
	}

	product.Images = append(product.Images, models.Image{URL: url, AltText: altText})
	if err := s.repo.Update(product); err != nil {
		return nil, err
	}

	cache.Forget(productCacheKey(id))
	return toResponse(product), nil
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

func productCacheKey(id uint) string { return fmt.Sprintf("product:%d", id) }

// normalizeName trims whitespace and title-cases the product name so
// "  gaming laptop " and "Gaming Laptop" are the same catalog entry.
func normalizeName(name string) string {
	return titleCaser.String(strings.TrimSpace(name))
}

func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]bool, len(tags))
	for _, tag := range tags {
		t := strings.ToLower(strings.TrimSpace(tag))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

func buildProduct(in *ProductInput) *models.Product {
	p := &models.Product{
		Name:          normalizeName(in.Name),
		SKU:           strings.TrimSpace(in.SKU),
		PriceAmount:   in.Price.Amount,
		PriceCurrency: in.Price.Currency,
		Tags:          normalizeTags(in.Tags),
		Images:        models.ImageList{},
		InStock:       true,
		CategoryID:    in.CategoryID,
	}
	if in.Description != nil {
		p.Description = strings.TrimSpace(*in.Description)
	}
	if in.InStock != nil {
		p.InStock = *in.InStock
	}
	if in.Dimensions != nil {
		p.Dimensions = &models.Dimensions{
			Width:  in.Dimensions.Width,
			Height: in.Dimensions.Height,
			Depth:  in.Dimensions.Depth,
		}
	}
	for _, img := range in.Images {
		p.Images = append(p.Images, models.Image{URL: img.URL, AltText: img.AltText})
	}
	return p
}

// mergeInput projects the stored product back into an input and lays the
// partial update on top, so the full ruleset can re-run on the result.
func mergeInput(p *models.Product, in *ProductUpdateInput) *ProductInput {
	merged := &ProductInput{
		Name: p.Name,
		SKU:  p.SKU,
		Price: PriceInput{
			Amount:   p.PriceAmount,
			Currency: p.PriceCurrency,
		},
		Tags:       p.Tags,
		InStock:    &p.InStock,
		CategoryID: p.CategoryID,
	}
	if p.Description != "" {
		desc := p.Description
		merged.Description = &desc
	}
	if p.Dimensions != nil {
		merged.Dimensions = &DimensionsInput{
			Width:  p.Dimensions.Width,
			Height: p.Dimensions.Height,
			Depth:  p.Dimensions.Depth,
		}
	}
	for _, img := range p.Images {
		merged.Images = append(merged.Images, ImageInput{URL: img.URL, AltText: img.AltText})
	}

	if in.Name != nil {
		merged.Name = *in.Name
	}
	if in.Description != nil {
		merged.Description = in.Description
	}
	if in.Price != nil {
		merged.Price = *in.Price
	}
	if in.Tags != nil {
		merged.Tags = *in.Tags
	}
	if in.Dimensions != nil {
		merged.Dimensions = in.Dimensions
	}
	if in.Images != nil {
		merged.Images = *in.Images
	}
	if in.InStock != nil {
		merged.InStock = in.InStock
	}
	if in.CategoryID != nil {
		merged.CategoryID = in.CategoryID
	}
	return merged
}

func applyInput(p *models.Product, in *ProductInput) {
	p.Name = normalizeName(in.Name)
	p.SKU = strings.TrimSpace(in.SKU)
	if in.Description != nil {
		p.Description = strings.TrimSpace(*in.Description)
	} else {
		p.Description = ""
	}
	p.PriceAmount = in.Price.Amount
	p.PriceCurrency = in.Price.Currency
	p.Tags = normalizeTags(in.Tags)
	p.CategoryID = in.CategoryID
	if in.InStock != nil {
		p.InStock = *in.InStock
	}
	if in.Dimensions != nil {
		p.Dimensions = &models.Dimensions{
			Width:  in.Dimensions.Width,
			Height: in.Dimensions.Height,
			Depth:  in.Dimensions.Depth,
		}
	} else {
		p.Dimensions = nil
	}
	p.Images = models.ImageList{}
	for _, img := range in.Images {
		p.Images = append(p.Images, models.Image{URL: img.URL, AltText: img.AltText})
	}
}

func toResponse(p *models.Product) *ProductResponse {
	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}
	images := p.Images
	if images == nil {
		images = models.ImageList{}
	}
	return &ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		SKU:         p.SKU,
		Description: p.Description,
		Price: PriceResponse{
			Amount:   p.PriceAmount,
			Currency: p.PriceCurrency,
		},
		Tags:       tags,
		Dimensions: p.Dimensions,
		Images:     images,
		InStock:    p.InStock,
		CategoryID: p.CategoryID,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}
