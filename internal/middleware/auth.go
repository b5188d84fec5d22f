package middleware

import (
	"net/http"
	"strings"

	"dgstudios-backend/internal/apperrors"
	"dgstudios-backend/internal/auth"
	"dgstudios-backend/internal/models"

	"github.com/gin-gonic/gin"
)

// Context keys set by AuthMiddleware.
const (
	ContextUserID   = "user_id"
	ContextUsername = "username"
	ContextUserRole = "user_role"
)

func AuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !authenticate(c, jwtSecret) {
			return
		}
		c.Next()
	}
}

func AdminMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !authenticate(c, jwtSecret) {
			return
		}
		if c.GetString(ContextUserRole) != models.RoleAdmin {
			abort(c, http.StatusForbidden, apperrors.KindForbidden, "Admin access required")
			return
		}
		c.Next()
	}
}

// authenticate stores the bearer token's claims on c, or aborts with 401.
func authenticate(c *gin.Context, jwtSecret string) bool {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		abort(c, http.StatusUnauthorized, apperrors.KindUnauthorized, "Authorization header is required")
		return false
	}

	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	if tokenString == authHeader {
		abort(c, http.StatusUnauthorized, apperrors.KindUnauthorized, "Invalid authorization format")
		return false
	}

	claims, err := auth.ValidateToken(tokenString, jwtSecret)
	if err != nil {
		abort(c, http.StatusUnauthorized, apperrors.KindUnauthorized, "Invalid token")
		return false
	}

	c.Set(ContextUserID, claims.UserID)
	c.Set(ContextUsername, claims.Username)
	c.Set(ContextUserRole, claims.Role)
	return true
}

func abort(c *gin.Context, status int, kind apperrors.Kind, message string) {
	c.AbortWithStatusJSON(status, gin.H{"error": message, "code": kind})
}
