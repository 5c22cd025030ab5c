// Package controllers contains the HTTP handlers. Controllers stay
// thin: decode, call a service, map errors to status codes.
package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/kunalsingla/product-api/app/repositories"
	"github.com/kunalsingla/product-api/app/services"
	"github.com/kunalsingla/product-api/pkg/bind"
	"github.com/kunalsingla/product-api/pkg/logger"
	"github.com/kunalsingla/product-api/pkg/response"
	"github.com/kunalsingla/product-api/pkg/router"
	"github.com/kunalsingla/product-api/pkg/storage"
	"gorm.io/gorm"
)

const maxImageUploadBytes = 5 << 20 // 5 MB

var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
}

type ProductController struct {
	service *services.ProductService
}

func NewProductController() *ProductController {
	return &ProductController{
		service: services.NewProductService(repositories.NewProductRepository()),
	}
}

// NewProductControllerWith builds a controller over an explicit service
// (used by tests).
func NewProductControllerWith(service *services.ProductService) *ProductController {
	return &ProductController{service: service}
}

// Create handles POST /api/v1/products.
func (c *ProductController) Create(w http.ResponseWriter, r *http.Request) {
	var in services.ProductInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if len(errs) > 0 {
		response.ValidationError(w, errs)
		return
	}

	product, errs, err := c.service.Create(&in)
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			response.Conflict(w, "A product with this SKU or name already exists.")
			return
		}
		logger.WithCtx(r.Context()).Error("product create failed", "error", err)
		response.Error(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	if len(errs) > 0 {
		response.ValidationError(w, errs)
		return
	}

	logger.WithCtx(r.Context()).Info("product created", "id", product.ID, "sku", product.SKU)
	response.Created(w, product)
}

// Validate handles POST /api/v1/products/validate. It runs the full
// validation pipeline without persisting anything.
func (c *ProductController) Validate(w http.ResponseWriter, r *http.Request) {
	var in services.ProductInput
	errs, err := bind.JSON(r, &in)
	if err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	if len(errs) == 0 {
		errs, err = c.service.Validate(&in)
		if err != nil {
			logger.WithCtx(r.Context()).Error("product validate failed", "error", err)
			response.Error(w, http.StatusInternalServerError, "Internal Server Error")
			return
		}
	}

	result := map[string]interface{}{
		"valid":  len(errs) == 0,
		"errors": errs,
	}
	if len(errs) == 0 {
		result["message"] = "Product data is valid."
	} else {
		result["message"] = "Product data is invalid."
	}
	response.Success(w, result)
}

// List handles GET /api/v1/products with page/limit query params.
func (c *ProductController) List(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	products, meta, err := c.service.List(page, limit)
	if err != nil {
		logger.WithCtx(r.Context()).Error("product list failed", "error", err)
		response.Error(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	response.Paginated(w, products, meta)
}

// Get handles GET /api/v1/products/{id}.
func (c *ProductController) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(w, r)
	if !ok {
		return
	}

	product, err := c.service.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(w)
			return
		}
		logger.WithCtx(r.Context()).Error("product get failed", "id", id, "error", err)
		response.Error(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	response.Success(w, product)
}

// Update handles PUT /api/v1/products/{id}. Fields absent from the body
// keep their stored value.
func (c *ProductController) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(w, r)
	if !ok {
		return
	}

	var in services.ProductUpdateInput
	if _, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	product, errs, err := c.service.Update(id, &in)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			response.NotFound(w)
		case errors.Is(err, gorm.ErrDuplicatedKey):
			response.Conflict(w, "A product with this SKU or name already exists.")
		default:
			logger.WithCtx(r.Context()).Error("product update failed", "id", id, "error", err)
			response.Error(w, http.StatusInternalServerError, "Internal Server Error")
		}
		return
	}
	if len(errs) > 0 {
		response.ValidationError(w, errs)
		return
	}

	logger.WithCtx(r.Context()).Info("product updated", "id", id)
	response.Success(w, product)
}

// Delete handles DELETE /api/v1/products/{id}.
func (c *ProductController) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(w, r)
	if !ok {
		return
	}

	if err := c.service.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(w)
			return
		}
		logger.WithCtx(r.Context()).Error("product delete failed", "id", id, "error", err)
		response.Error(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	logger.WithCtx(r.Context()).Info("product deleted", "id", id)
	response.NoContent(w)
}

// UploadImage handles POST /api/v1/products/{id}/images. Accepts one
// multipart file field named "file" plus an optional "alt_text" field.
func (c *ProductController) UploadImage(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxImageUploadBytes+(1<<20))
	if err := r.ParseMultipartForm(maxImageUploadBytes); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid multipart form or file too large (max 5 MB).")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Missing file field.")
		return
	}
	defer file.Close()

	if header.Size > maxImageUploadBytes {
		response.Error(w, http.StatusBadRequest, "File too large (max 5 MB).")
		return
	}

	contentType := header.Header.Get("Content-Type")
	ext, allowed := allowedImageTypes[contentType]
	if !allowed {
		response.Error(w, http.StatusUnsupportedMediaType,
			"Unsupported image type. Allowed: image/jpeg, image/png, image/gif.")
		return
	}

	altText := strings.TrimSpace(r.FormValue("alt_text"))
	if altText == "" {
		altText = strings.TrimSuffix(header.Filename, filepath.Ext(header.Filename))
	}
	if len([]rune(altText)) > 100 {
		altText = string([]rune(altText)[:100])
	}

	path := fmt.Sprintf("products/%d/%d%s", id, time.Now().UnixNano(), ext)
	if err := storage.PutStream(path, file); err != nil {
		logger.WithCtx(r.Context()).Error("image store failed", "id", id, "error", err)
		response.Error(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	product, err := c.service.AppendImage(id, storage.URL(path), altText)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			storage.Delete(path) //nolint:errcheck
			response.NotFound(w)
			return
		}
		logger.WithCtx(r.Context()).Error("image append failed", "id", id, "error", err)
		response.Error(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	logger.WithCtx(r.Context()).Info("product image uploaded", "id", id, "path", path)
	response.Created(w, product)
}

func productID(w http.ResponseWriter, r *http.Request) (uint, bool) {
	raw := router.Param(r, "id")
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		response.Error(w, http.StatusBadRequest, "Invalid product id.")
		return 0, false
	}
	return uint(id), true
}
