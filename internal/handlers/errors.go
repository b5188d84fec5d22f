package handlers

import (
	"net/http"

	"dgstudios-backend/internal/apperrors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// respondError writes err as {"error", "code"} with the status its kind maps to.
func respondError(c *gin.Context, log *zap.Logger, err error) {
	status := apperrors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		log.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
	}
	_ = c.Error(err)
	c.JSON(status, gin.H{"error": apperrors.Message(err), "code": apperrors.KindOf(err)})
}

func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": message, "code": apperrors.KindValidation})
}
