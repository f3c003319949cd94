package handler

import (
	"net/http"

	"github.com/vicrey1/Gallerypavilion-sub000/internal/model"
	"github.com/vicrey1/Gallerypavilion-sub000/internal/service"

	"github.com/gin-gonic/gin"
)

type ShareHandler struct {
	accessSvc *service.AccessService
	linkSvc   *service.ShareLinkService
}

func NewShareHandler(accessSvc *service.AccessService, linkSvc *service.ShareLinkService) *ShareHandler {
	return &ShareHandler{accessSvc: accessSvc, linkSvc: linkSvc}
}

// View 游客访问分享链接
// 授权通过返回相册和照片，同时消耗一次浏览计数
func (h *ShareHandler) View(c *gin.Context) {
	req := service.ResolveRequest{
		Token:       c.Param("token"),
		Password:    c.Query("password"),
		InviteCode:  c.Query("invite"),
		AccessToken: c.Query("access_token"),
	}

	resp, err := h.accessSvc.View(c.Request.Context(), req)
	if err != nil {
		switch err {
		case service.ErrShareLinkNotFound:
			c.JSON(http.StatusNotFound, gin.H{"error": "share link not found"})
		case service.ErrLinkExpired:
			c.JSON(http.StatusGone, gin.H{"error": "share link has expired"})
		case service.ErrLimitReached:
			c.JSON(http.StatusGone, gin.H{"error": "share link view limit reached"})
		case service.ErrRequiresPassword:
			c.JSON(http.StatusUnauthorized, gin.H{"error": "password required", "requiresPassword": true})
		case service.ErrRequiresInvitation:
			c.JSON(http.StatusForbidden, gin.H{"error": "invitation required", "requiresInvitation": true})
		case service.ErrInvitationInvalid:
			c.JSON(http.StatusForbidden, gin.H{"error": "invitation is expired or revoked", "invitationInvalid": true})
		case service.ErrStorageConflict:
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "temporary conflict, please retry"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, resp)
}

// VerifyPassword 验证分享链接密码（不消耗浏览次数）
func (h *ShareHandler) VerifyPassword(c *gin.Context) {
	var req model.VerifyPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.linkSvc.VerifyPassword(c.Request.Context(), c.Param("token"), req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, resp)
}
