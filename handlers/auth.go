package handlers

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Madhav-Gupta-28/marketplace-backend-go/middleware"
	"github.com/Madhav-Gupta-28/marketplace-backend-go/models"
	"github.com/Madhav-Gupta-28/marketplace-backend-go/services"
)

// AccountService is the account logic behind the auth and profile routes.
type AccountService interface {
	SignUp(ctx context.Context, in services.SignUpInput) (*models.User, string, error)
	Login(ctx context.Context, email, password string) (*models.User, string, error)
	Profile(ctx context.Context, userID primitive.ObjectID) (*models.User, error)
	UpdateProfile(ctx context.Context, userID primitive.ObjectID, name string) (*models.User, error)
}

type AuthHandler struct {
	accounts AccountService
}

func NewAuthHandler(accounts AccountService) *AuthHandler {
	return &AuthHandler{accounts: accounts}
}

type signUpRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"omitempty,oneof=user seller"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type updateProfileRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

// SignUp handles POST /api/auth/signup.
func (h *AuthHandler) SignUp(c echo.Context) error {
	var req signUpRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, token, err := h.accounts.SignUp(c.Request().Context(), services.SignUpInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     models.Role(req.Role),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, map[string]any{
		"success": true,
		"user":    user,
		"token":   token,
	})
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, token, err := h.accounts.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"user":    user,
		"token":   token,
	})
}

// Me handles GET /api/users/me.
func (h *AuthHandler) Me(c echo.Context) error {
	actor, err := middleware.ActorFrom(c)
	if err != nil {
		return err
	}
	user, err := h.accounts.Profile(c.Request().Context(), actor.UserID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "user", user)
}

// UpdateMe handles PATCH /api/users/me.
func (h *AuthHandler) UpdateMe(c echo.Context) error {
	actor, err := middleware.ActorFrom(c)
	if err != nil {
		return err
	}
	var req updateProfileRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	user, err := h.accounts.UpdateProfile(c.Request().Context(), actor.UserID, req.Name)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "user", user)
}
