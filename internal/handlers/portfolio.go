package handlers

import (
	"net/http"

	"dgstudios-backend/internal/models"
	"dgstudios-backend/internal/portfolio"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type PortfolioHandler struct {
	svc *portfolio.Service
	log *zap.Logger
}

func NewPortfolioHandler(svc *portfolio.Service, log *zap.Logger) *PortfolioHandler {
	return &PortfolioHandler{svc: svc, log: log}
}

// List returns every portfolio item, optionally narrowed by ?category=.
func (h *PortfolioHandler) List(c *gin.Context) {
	items, err := h.svc.List(c.Request.Context(), c.Query("category"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *PortfolioHandler) Create(c *gin.Context) {
	var req models.PortfolioItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Missing image data")
		return
	}

	item, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

func (h *PortfolioHandler) Update(c *gin.Context) {
	var patch models.PortfolioItemPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		respondBadRequest(c, "Invalid request body")
		return
	}

	item, err := h.svc.Update(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// Delete succeeds whether or not the item existed.
func (h *PortfolioHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Clear removes every portfolio item and, with them, every hero slide.
func (h *PortfolioHandler) Clear(c *gin.Context) {
	if err := h.svc.Clear(c.Request.Context()); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
