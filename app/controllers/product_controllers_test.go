package controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/kunalsingla/product-api/app/models"
	"github.com/kunalsingla/product-api/app/routes"
	"github.com/kunalsingla/product-api/pkg/auth"
	"github.com/kunalsingla/product-api/pkg/database"
	"github.com/kunalsingla/product-api/pkg/router"
	"github.com/kunalsingla/product-api/pkg/storage"
)

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "productapi-test-*")
	if err != nil {
		panic(err)
	}
	storage.Connect()
	storage.RegisterDisk("local", storage.NewLocal(dir, "http://localhost:8000/storage"))

	code := m.Run()
	os.RemoveAll(dir)
	os.Exit(code)
}

func setupAPI(t *testing.T) http.Handler {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Product{}, &models.User{}))

	database.DB = db

	r := router.New()
	routes.RegisterAPI(r)
	return r.Handler()
}

func bearer(t *testing.T) string {
	t.Helper()
	token, err := auth.GenerateToken(1, "admin")
	require.NoError(t, err)
	return "Bearer " + token
}

func productPayload() map[string]interface{} {
	return map[string]interface{}{
		"name": "Gaming Laptop",
		"sku":  "LAPTOP-001",
		"price": map[string]interface{}{
			"amount":   1499.99,
			"currency": "USD",
		},
		"tags":     []string{"electronics"},
		"in_stock": true,
	}
}

func doJSON(t *testing.T, h http.Handler, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", token)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func createProduct(t *testing.T, h http.Handler) uint {
	t.Helper()
	rec := doJSON(t, h, http.MethodPost, "/api/v1/products", productPayload(), bearer(t))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	body := decodeBody(t, rec)
	data := body["data"].(map[string]interface{})
	return uint(data["id"].(float64))
}

func TestHealth(t *testing.T) {
	h := setupAPI(t)
	rec := doJSON(t, h, http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "healthy")
}

func TestDocsListsRoutes(t *testing.T) {
	h := setupAPI(t)
	rec := doJSON(t, h, http.MethodGet, "/docs", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/api/v1/products")
	assert.Contains(t, rec.Body.String(), "products.store")
}

func TestCreateRequiresAuth(t *testing.T) {
	h := setupAPI(t)
	rec := doJSON(t, h, http.MethodPost, "/api/v1/products", productPayload(), "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreateProduct(t *testing.T) {
	h := setupAPI(t)
	rec := doJSON(t, h, http.MethodPost, "/api/v1/products", productPayload(), bearer(t))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	body := decodeBody(t, rec)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "Gaming Laptop", data["name"])
	assert.Equal(t, "LAPTOP-001", data["sku"])
}

func TestCreateValidationError(t *testing.T) {
	h := setupAPI(t)

	payload := productPayload()
	payload["sku"] = "bad sku"
	rec := doJSON(t, h, http.MethodPost, "/api/v1/products", payload, bearer(t))
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	body := decodeBody(t, rec)
	errs := body["errors"].(map[string]interface{})
	assert.Contains(t, errs, "sku")
}

func TestCreateDuplicateSKU(t *testing.T) {
	h := setupAPI(t)
	createProduct(t, h)

	payload := productPayload()
	payload["name"] = "Another Laptop"
	rec := doJSON(t, h, http.MethodPost, "/api/v1/products", payload, bearer(t))
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	body := decodeBody(t, rec)
	errs := body["errors"].(map[string]interface{})
	assert.Contains(t, errs, "sku")
}

func TestCreateMalformedJSON(t *testing.T) {
	h := setupAPI(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/products", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", bearer(t))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestValidateEndpoint(t *testing.T) {
	h := setupAPI(t)

	rec := doJSON(t, h, http.MethodPost, "/api/v1/products/validate", productPayload(), "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, true, data["valid"])

	payload := productPayload()
	payload["name"] = "item"
	rec = doJSON(t, h, http.MethodPost, "/api/v1/products/validate", payload, "")
	require.Equal(t, http.StatusOK, rec.Code)
	body = decodeBody(t, rec)
	data = body["data"].(map[string]interface{})
	assert.Equal(t, false, data["valid"])

	// Nothing was written either way.
	rec = doJSON(t, h, http.MethodGet, "/api/v1/products", nil, "")
	body = decodeBody(t, rec)
	items := body["data"].(map[string]interface{})["items"].([]interface{})
	assert.Empty(t, items)
}

func TestGetProduct(t *testing.T) {
	h := setupAPI(t)
	id := createProduct(t, h)

	rec := doJSON(t, h, http.MethodGet, fmt.Sprintf("/api/v1/products/%d", id), nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "LAPTOP-001", data["sku"])
}

func TestGetProductNotFound(t *testing.T) {
	h := setupAPI(t)
	rec := doJSON(t, h, http.MethodGet, "/api/v1/products/9999", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetProductInvalidID(t *testing.T) {
	h := setupAPI(t)
	rec := doJSON(t, h, http.MethodGet, "/api/v1/products/abc", nil, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListProductsPaginated(t *testing.T) {
	h := setupAPI(t)

	for i := 1; i <= 3; i++ {
		payload := productPayload()
		payload["name"] = fmt.Sprintf("Product Number %d", i)
		payload["sku"] = fmt.Sprintf("ITEM-%03d", i)
		rec := doJSON(t, h, http.MethodPost, "/api/v1/products", payload, bearer(t))
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	}

	rec := doJSON(t, h, http.MethodGet, "/api/v1/products?page=1&limit=2", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	data := body["data"].(map[string]interface{})
	items := data["items"].([]interface{})
	meta := data["pagination"].(map[string]interface{})

	assert.Len(t, items, 2)
	assert.Equal(t, float64(3), meta["total"])
	assert.Equal(t, float64(2), meta["pages"])
}

func TestUpdateProduct(t *testing.T) {
	h := setupAPI(t)
	id := createProduct(t, h)

	update := map[string]interface{}{
		"price": map[string]interface{}{"amount": 999.99, "currency": "EUR"},
	}
	rec := doJSON(t, h, http.MethodPut, fmt.Sprintf("/api/v1/products/%d", id), update, bearer(t))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body := decodeBody(t, rec)
	data := body["data"].(map[string]interface{})
	price := data["price"].(map[string]interface{})
	assert.Equal(t, 999.99, price["amount"])
	assert.Equal(t, "EUR", price["currency"])
	assert.Equal(t, "Gaming Laptop", data["name"])
}

func TestUpdateIgnoresSKUField(t *testing.T) {
	h := setupAPI(t)
	id := createProduct(t, h)

	// SKU is fixed at creation; an "sku" key in the body has no effect.
	update := map[string]interface{}{
		"sku":  "CHANGED-999",
		"name": "Workstation Laptop",
	}
	rec := doJSON(t, h, http.MethodPut, fmt.Sprintf("/api/v1/products/%d", id), update, bearer(t))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body := decodeBody(t, rec)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "LAPTOP-001", data["sku"])
	assert.Equal(t, "Workstation Laptop", data["name"])
}

func TestDeleteProduct(t *testing.T) {
	h := setupAPI(t)
	id := createProduct(t, h)

	rec := doJSON(t, h, http.MethodDelete, fmt.Sprintf("/api/v1/products/%d", id), nil, bearer(t))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, h, http.MethodGet, fmt.Sprintf("/api/v1/products/%d", id), nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func uploadRequest(t *testing.T, path, contentType string) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="file"; filename="photo.jpg"`)
	header.Set("Content-Type", contentType)
	part, err := mw.CreatePart(header)
	require.NoError(t, err)
	part.Write([]byte("fake image bytes")) //nolint:errcheck

	require.NoError(t, mw.WriteField("alt_text", "Front view"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestUploadImage(t *testing.T) {
	h := setupAPI(t)
	id := createProduct(t, h)

	req := uploadRequest(t, fmt.Sprintf("/api/v1/products/%d/images", id), "image/jpeg")
	req.Header.Set("Authorization", bearer(t))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	body := decodeBody(t, rec)
	data := body["data"].(map[string]interface{})
	images := data["images"].([]interface{})
	require.Len(t, images, 1)

	img := images[0].(map[string]interface{})
	assert.Equal(t, "Front view", img["alt_text"])
	assert.Contains(t, img["url"], fmt.Sprintf("products/%d/", id))
}

func TestUploadImageRejectsType(t *testing.T) {
	h := setupAPI(t)
	id := createProduct(t, h)

	req := uploadRequest(t, fmt.Sprintf("/api/v1/products/%d/images", id), "application/pdf")
	req.Header.Set("Authorization", bearer(t))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
}
