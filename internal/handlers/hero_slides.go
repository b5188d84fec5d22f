package handlers

import (
	"errors"
	"io"
	"net/http"

	"dgstudios-backend/internal/apperrors"
	"dgstudios-backend/internal/curation"
	"dgstudios-backend/internal/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type HeroSlideHandler struct {
	svc *curation.Service
	log *zap.Logger
}

func NewHeroSlideHandler(svc *curation.Service, log *zap.Logger) *HeroSlideHandler {
	return &HeroSlideHandler{svc: svc, log: log}
}

func (h *HeroSlideHandler) List(c *gin.Context) {
	slides, err := h.svc.List(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, slides)
}

// Add curates body.portfolioItem.id. A missing or malformed body is passed on
// as an empty id so the capacity check still runs first; a malformed one then
// gets its own message.
func (h *HeroSlideHandler) Add(c *gin.Context) {
	var req models.AddHeroSlideRequest
	bindErr := c.ShouldBindJSON(&req)
	if errors.Is(bindErr, io.EOF) {
		bindErr = nil
	}

	var id string
	if bindErr == nil && req.PortfolioItem != nil {
		id = req.PortfolioItem.ID
	}

	slide, err := h.svc.Add(c.Request.Context(), id)
	if bindErr != nil && errors.Is(err, apperrors.ErrValidation) {
		h.log.Debug("invalid hero slide body", zap.Error(bindErr))
		respondBadRequest(c, invalidHeroSlideBody)
		return
	}
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, slide)
}

const invalidHeroSlideBody = "Invalid request body: expected {\"portfolioItem\": {\"id\": string}}"

func (h *HeroSlideHandler) Remove(c *gin.Context) {
	if _, err := h.svc.Remove(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *HeroSlideHandler) Reorder(c *gin.Context) {
	var req models.ReorderHeroSlidesRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.SlideIDs == nil {
		respondBadRequest(c, "slideIds must be an array")
		return
	}

	slides, err := h.svc.Reorder(c.Request.Context(), req.SlideIDs)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, slides)
}
