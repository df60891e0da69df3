package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/ventapos/venta_api/internal/middleware"
	"github.com/ventapos/venta_api/internal/service"
	"github.com/ventapos/venta_api/internal/utils"
)

// AuthHandler handles back-office login.
type AuthHandler struct {
	authService *service.AuthService
	limiter     *middleware.InvalidAuthRateLimiter
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(authService *service.AuthService, limiter *middleware.InvalidAuthRateLimiter) *AuthHandler {
	return &AuthHandler{authService: authService, limiter: limiter}
}

// Login handles POST /v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	if !h.limiter.Allow(c.ClientIP()) {
		utils.Error(c, 429, "TOO_MANY_ATTEMPTS", "Too many failed login attempts, try again later")
		return
	}

	token, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		utils.Error(c, 401, "INVALID_CREDENTIALS", err.Error())
		return
	}
	h.limiter.Reset(c.ClientIP())

	utils.Success(c, 200, "Login successful", gin.H{
		"token": token,
	})
}

// CreateUser handles POST /v1/users (admin only)
func (h *AuthHandler) CreateUser(c *gin.Context) {
	if c.GetString("role") != "admin" {
		utils.Error(c, 403, "FORBIDDEN", "Admin role required")
		return
	}

	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=8"`
		Name     string `json:"name" binding:"required"`
		Role     string `json:"role" binding:"required,oneof=admin cashier"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", err.Error())
		return
	}

	if err := h.authService.CreateUser(c.Request.Context(), req.Email, req.Password, req.Name, req.Role); err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to create user")
		return
	}
	utils.Success(c, 201, "User created successfully", nil)
}
