package handler

import (
	"database/sql"
	"net/http"

	"github.com/gin-gonic/gin"
)

type SystemHandler struct {
	db *sql.DB
}

func NewSystemHandler(db *sql.DB) *SystemHandler {
	return &SystemHandler{db: db}
}

// Health 健康检查
func (h *SystemHandler) Health(c *gin.Context) {
	if err := h.db.PingContext(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Stats 系统统计
func (h *SystemHandler) Stats(c *gin.Context) {
	var galleries, links, invitations, grants int64
	row := h.db.QueryRowContext(c.Request.Context(), `
		SELECT
			(SELECT COUNT(*) FROM galleries),
			(SELECT COUNT(*) FROM share_links),
			(SELECT COUNT(*) FROM invitations),
			(SELECT COUNT(*) FROM access_grants)
	`)
	if err := row.Scan(&galleries, &links, &invitations, &grants); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"galleries":     galleries,
		"share_links":   links,
		"invitations":   invitations,
		"access_grants": grants,
	})
}
