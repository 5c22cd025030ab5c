// Package routes wires controllers onto the router.
package routes

import (
	"net/http"

	"github.com/kunalsingla/product-api/app/controllers"
	"github.com/kunalsingla/product-api/config"
	"github.com/kunalsingla/product-api/pkg/middleware"
	"github.com/kunalsingla/product-api/pkg/response"
	"github.com/kunalsingla/product-api/pkg/router"
)

// RegisterAPI mounts every route of the product API.
func RegisterAPI(r *router.Router) {
	products := controllers.NewProductController()
	auth := controllers.NewAuthController()

	r.Get("/", "home", func(w http.ResponseWriter, req *http.Request) {
		response.Success(w, map[string]string{
			"name":    config.AppName(),
			"message": "Welcome to the Product API",
			"docs":    "/docs",
		})
	})

	r.Get("/health", "health", func(w http.ResponseWriter, req *http.Request) {
		response.Success(w, map[string]string{"status": "healthy"})
	})

	// Machine-readable route table, the API's self-documentation.
	r.Get("/docs", "docs", func(w http.ResponseWriter, req *http.Request) {
		response.Success(w, map[string]interface{}{"routes": r.Routes()})
	})

	api := r.Group("/api/v1")

	authGroup := api.Group("/auth")
	authGroup.Post("/login", "auth.login", auth.Login)

	// Reads are public; writes require a bearer token.
	productGroup := api.Group("/products")
	productGroup.Get("", "products.index", products.List)
	productGroup.Get("/{id}", "products.show", products.Get)
	productGroup.Post("/validate", "products.validate", products.Validate)

	protected := api.Group("/products", middleware.Auth)
	protected.Post("", "products.store", products.Create)
	protected.Put("/{id}", "products.update", products.Update)
	protected.Delete("/{id}", "products.destroy", products.Delete, middleware.AdminOnly)
	protected.Post("/{id}/images", "products.images.store", products.UploadImage)
}
