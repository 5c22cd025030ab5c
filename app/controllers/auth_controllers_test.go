package controllers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kunalsingla/product-api/app/models"
	"github.com/kunalsingla/product-api/pkg/auth"
	"github.com/kunalsingla/product-api/pkg/database"
)

func seedUser(t *testing.T, email, password string, active bool) {
	t.Helper()
	hash, err := auth.HashPassword(password)
	require.NoError(t, err)
	require.NoError(t, database.DB.Create(&models.User{
		Name:     "Test User",
		Email:    email,
		Password: hash,
		Role:     "admin",
		IsActive: active,
	}).Error)
}

func TestLogin(t *testing.T) {
	h := setupAPI(t)
	seedUser(t, "dev@example.com", "password123", true)

	rec := doJSON(t, h, http.MethodPost, "/api/v1/auth/login", map[string]string{
		"email":    "dev@example.com",
		"password": "password123",
	}, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body := decodeBody(t, rec)
	data := body["data"].(map[string]interface{})
	assert.NotEmpty(t, data["token"])
	assert.Equal(t, "bearer", data["token_type"])
}

func TestLoginWrongPassword(t *testing.T) {
	h := setupAPI(t)
	seedUser(t, "dev@example.com", "password123", true)

	rec := doJSON(t, h, http.MethodPost, "/api/v1/auth/login", map[string]string{
		"email":    "dev@example.com",
		"password": "wrong-password",
	}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLoginUnknownEmail(t *testing.T) {
	h := setupAPI(t)

	rec := doJSON(t, h, http.MethodPost, "/api/v1/auth/login", map[string]string{
		"email":    "ghost@example.com",
		"password": "password123",
	}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLoginDisabledAccount(t *testing.T) {
	h := setupAPI(t)
	seedUser(t, "dev@example.com", "password123", false)

	rec := doJSON(t, h, http.MethodPost, "/api/v1/auth/login", map[string]string{
		"email":    "dev@example.com",
		"password": "password123",
	}, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestLoginValidation(t *testing.T) {
	h := setupAPI(t)

	rec := doJSON(t, h, http.MethodPost, "/api/v1/auth/login", map[string]string{
		"email":    "not-an-email",
		"password": "short",
	}, "")
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	body := decodeBody(t, rec)
	errs := body["errors"].(map[string]interface{})
	assert.Contains(t, errs, "email")
	assert.Contains(t, errs, "password")
}

func TestLoginTokenWorksOnProtectedRoute(t *testing.T) {
	h := setupAPI(t)
	seedUser(t, "dev@example.com", "password123", true)

	rec := doJSON(t, h, http.MethodPost, "/api/v1/auth/login", map[string]string{
		"email":    "dev@example.com",
		"password": "password123",
	}, "")
	require.Equal(t, http.StatusOK, rec.Code)

	data := decodeBody(t, rec)["data"].(map[string]interface{})
	token := "Bearer " + data["token"].(string)

	rec = doJSON(t, h, http.MethodPost, "/api/v1/products", productPayload(), token)
	assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}
