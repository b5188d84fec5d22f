package handlers

import (
	"net/http"

	"dgstudios-backend/internal/apperrors"
	"dgstudios-backend/internal/auth"
	"dgstudios-backend/internal/middleware"
	"dgstudios-backend/internal/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AuthHandler struct {
	svc                 *auth.Service
	registrationEnabled bool
	log                 *zap.Logger
}

func NewAuthHandler(svc *auth.Service, registrationEnabled bool, log *zap.Logger) *AuthHandler {
	return &AuthHandler{svc: svc, registrationEnabled: registrationEnabled, log: log}
}

func (h *AuthHandler) Register(c *gin.Context) {
	if !h.registrationEnabled {
		c.JSON(http.StatusForbidden, gin.H{"error": "Registration is disabled", "code": apperrors.KindForbidden})
		return
	}

	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Username, a valid email and a password of at least 6 characters are required")
		return
	}

	admin, err := h.svc.RegisterFirst(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Admin registered successfully", "admin": admin})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Identifier and password are required")
		return
	}

	token, _, err := h.svc.Login(c.Request.Context(), req.Identifier, req.Password)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, models.LoginResponse{Token: token})
}

// Me returns the admin named by the bearer token.
func (h *AuthHandler) Me(c *gin.Context) {
	admin, err := h.svc.Get(c.Request.Context(), c.GetString(middleware.ContextUserID))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, admin)
}
