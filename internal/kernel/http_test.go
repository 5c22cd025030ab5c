package kernel_test

import (
	"bytes"
	"encoding/json"
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
	"github.com/kunalsingla/product-api/internal/kernel"
	"github.com/kunalsingla/product-api/pkg/auth"
	"github.com/kunalsingla/product-api/pkg/database"
	"github.com/kunalsingla/product-api/pkg/storage"
)

const baseURL = "http://localhost:8000"

func setupStack(t *testing.T) http.Handler {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Product{}, &models.User{}))
	database.DB = db

	dir, err := os.MkdirTemp("", "kernel-test-*")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(dir) })

	storage.Connect()
	storage.RegisterDisk("local", storage.NewLocal(dir, baseURL+"/storage"))

	return kernel.NewHandler()
}

func adminBearer(t *testing.T) string {
	t.Helper()
	token, err := auth.GenerateToken(1, "admin")
	require.NoError(t, err)
	return "Bearer " + token
}

// Uploading through the full stack must yield a URL the same server can
// serve back.
func TestUploadedImageIsServed(t *testing.T) {
	h := setupStack(t)

	payload := `{"name":"Gaming Laptop","sku":"LAPTOP-001","price":{"amount":1499.99,"currency":"USD"}}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/products", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", adminBearer(t))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	content := []byte("jpeg bytes")
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="file"; filename="photo.jpg"`)
	header.Set("Content-Type", "image/jpeg")
	part, err := mw.CreatePart(header)
	require.NoError(t, err)
	part.Write(content) //nolint:errcheck
	require.NoError(t, mw.WriteField("alt_text", "Front view"))
	require.NoError(t, mw.Close())

	req = httptest.NewRequest(http.MethodPost, "/api/v1/products/1/images", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", adminBearer(t))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var body struct {
		Data struct {
			Images []struct {
				URL string `json:"url"`
			} `json:"images"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Data.Images, 1)

	url := body.Data.Images[0].URL
	require.True(t, strings.HasPrefix(url, baseURL+"/storage/"), url)

	req = httptest.NewRequest(http.MethodGet, strings.TrimPrefix(url, baseURL), nil)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, content, rec.Body.Bytes())
}

func TestStorageUnknownFileIs404(t *testing.T) {
	h := setupStack(t)

	req := httptest.NewRequest(http.MethodGet, "/storage/products/9/nothing.jpg", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
