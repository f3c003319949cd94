package handler

import (
	"net/http"
	"strconv"

	"github.com/vicrey1/Gallerypavilion-sub000/internal/service"

	"github.com/gin-gonic/gin"
)

type AnalyticsHandler struct {
	analyticsSvc *service.AnalyticsService
}

func NewAnalyticsHandler(analyticsSvc *service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsSvc: analyticsSvc}
}

// Summarize 相册邀请分析
func (h *AnalyticsHandler) Summarize(c *gin.Context) {
	galleryID, err := parseID(c, "id")
	if err != nil {
		return
	}

	periodDays := 0
	if p := c.Query("period"); p != "" {
		periodDays, err = strconv.Atoi(p)
		if err != nil || periodDays < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid period"})
			return
		}
	}

	summary, err := h.analyticsSvc.Summarize(c.Request.Context(), galleryID, c.GetInt64("user_id"), periodDays)
	if err != nil {
		switch err {
		case service.ErrGalleryNotFound:
			c.JSON(http.StatusNotFound, gin.H{"error": "gallery not found"})
		case service.ErrNotOwner:
			c.JSON(http.StatusForbidden, gin.H{"error": "not the gallery owner"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, summary)
}
