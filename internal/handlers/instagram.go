package handlers

import (
	"net/http"

	"dgstudios-backend/internal/instagram"

	"github.com/gin-gonic/gin"
)

type InstagramHandler struct {
	client *instagram.Client
}

func NewInstagramHandler(client *instagram.Client) *InstagramHandler {
	return &InstagramHandler{client: client}
}

func (h *InstagramHandler) Feed(c *gin.Context) {
	c.JSON(http.StatusOK, h.client.Feed(c.Request.Context()))
}
