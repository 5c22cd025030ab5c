// Package repositories contains the data access layer. Each repository
// wraps the orm query builder for one model so services never touch
// GORM directly.
package repositories

import (
	"fmt"
	"time"

	"github.com/kunalsingla/product-api/app/models"
	"github.com/kunalsingla/product-api/pkg/orm"
	"gorm.io/gorm"
)

// ProductRepository persists and retrieves products.
type ProductRepository struct {
	q func() *orm.Query
}

// NewProductRepository builds a repository over the global database handle.
func NewProductRepository() *ProductRepository {
	return &ProductRepository{q: orm.DB}
}

// NewProductRepositoryWith builds a repository over an explicit query
// source (used by tests).
func NewProductRepositoryWith(q func() *orm.Query) *ProductRepository {
	return &ProductRepository{q: q}
}

// FindByID returns the product with the given id.
func (r *ProductRepository) FindByID(id uint) (*models.Product, error) {
	var p models.Product
	if err := r.q().Where("id = ?", id).First(&p); err != nil {
		return nil, err
	}
	return &p, nil
}

// FindByIDCached is FindByID with a read-through cache in front of the
// database. Writers invalidate the key (see services).
func (r *ProductRepository) FindByIDCached(id uint) (*models.Product, error) {
	var p models.Product
	key := fmt.Sprintf("product:%d", id)
	if err := r.q().Where("id = ?", id).Cache(key, 5*time.Minute, &p); err != nil {
		return nil, err
	}
	if p.ID == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &p, nil
}

// FindBySKU returns the product with the given sku.
func (r *ProductRepository) FindBySKU(sku string) (*models.Product, error) {
	var p models.Product
	if err := r.q().Where("sku = ?", sku).First(&p); err != nil {
		return nil, err
	}
	return &p, nil
}

// FindByName returns the product with the given name.
func (r *ProductRepository) FindByName(name string) (*models.Product, error) {
	var p models.Product
	if err := r.q().Where("name = ?", name).First(&p); err != nil {
		return nil, err
	}
	return &p, nil
}

// All returns one page of products ordered by newest first.
func (r *ProductRepository) All(page, limit int) ([]models.Product, orm.Pagination, error) {
	products := []models.Product{}
	meta, err := r.q().Model(&models.Product{}).Order("id desc").
		GetWithPagination(&products, page, limit)
	return products, meta, err
}

// Create inserts the product.
func (r *ProductRepository) Create(p *models.Product) error {
	return r.q().Create(p)
}

// Update persists all fields of the product.
func (r *ProductRepository) Update(p *models.Product) error {
	return r.q().Save(p)
}

// Delete soft-deletes the product.
func (r *ProductRepository) Delete(p *models.Product) error {
	return r.q().Delete(p).Error
}
