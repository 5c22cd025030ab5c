package controllers

import (
	"errors"
	"net/http"

	"github.com/kunalsingla/product-api/app/repositories"
	"github.com/kunalsingla/product-api/app/services"
	"github.com/kunalsingla/product-api/pkg/bind"
	"github.com/kunalsingla/product-api/pkg/logger"
	"github.com/kunalsingla/product-api/pkg/response"
)

type AuthController struct {
	service *services.AuthService
}

func NewAuthController() *AuthController {
	return &AuthController{
		service: services.NewAuthService(repositories.NewUserRepository()),
	}
}

func NewAuthControllerWith(service *services.AuthService) *AuthController {
	return &AuthController{service: service}
}

// Login handles POST /api/v1/auth/login.
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var in services.LoginInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if len(errs) > 0 {
		response.ValidationError(w, errs)
		return
	}

	result, err := c.service.Login(&in)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidCredentials):
			response.Error(w, http.StatusUnauthorized, "Invalid email or password.")
		case errors.Is(err, services.ErrAccountDisabled):
			response.Forbidden(w)
		default:
			logger.WithCtx(r.Context()).Error("login failed", "error", err)
			response.Error(w, http.StatusInternalServerError, "Internal Server Error")
		}
		return
	}

	logger.WithCtx(r.Context()).Info("user logged in", "email", in.Email)
	response.Success(w, result)
}
