package handler

import (
	"net/http"

	"github.com/vicrey1/Gallerypavilion-sub000/internal/model"
	"github.com/vicrey1/Gallerypavilion-sub000/internal/service"

	"github.com/gin-gonic/gin"
)

type InvitationHandler struct {
	inviteSvc *service.InvitationService
}

func NewInvitationHandler(inviteSvc *service.InvitationService) *InvitationHandler {
	return &InvitationHandler{inviteSvc: inviteSvc}
}

// Create 创建邀请
func (h *InvitationHandler) Create(c *gin.Context) {
	var req model.CreateInvitationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	inv, err := h.inviteSvc.Create(c.Request.Context(), &req, c.GetInt64("user_id"))
	if err != nil {
		respondInvitationError(c, err)
		return
	}
	c.JSON(http.StatusCreated, inv)
}

// Send 创建邀请并投递邮件
func (h *InvitationHandler) Send(c *gin.Context) {
	var req model.SendInvitationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	inv, err := h.inviteSvc.Send(c.Request.Context(), &req, c.GetInt64("user_id"))
	if err != nil {
		respondInvitationError(c, err)
		return
	}
	c.JSON(http.StatusCreated, inv)
}

// List 获取相册的邀请列表
func (h *InvitationHandler) List(c *gin.Context) {
	galleryID, err := parseID(c, "id")
	if err != nil {
		return
	}

	resp, err := h.inviteSvc.List(c.Request.Context(), galleryID, c.GetInt64("user_id"))
	if err != nil {
		respondInvitationError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Revoke 撤销邀请
func (h *InvitationHandler) Revoke(c *gin.Context) {
	invitationID, err := parseID(c, "id")
	if err != nil {
		return
	}

	if err := h.inviteSvc.Revoke(c.Request.Context(), invitationID, c.GetInt64("user_id")); err != nil {
		respondInvitationError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "invitation revoked"})
}

// respondInvitationError 邀请相关接口的错误映射
func respondInvitationError(c *gin.Context, err error) {
	switch err {
	case service.ErrGalleryNotFound:
		c.JSON(http.StatusNotFound, gin.H{"error": "gallery not found"})
	case service.ErrInvitationNotFound:
		c.JSON(http.StatusNotFound, gin.H{"error": "invitation not found"})
	case service.ErrNotOwner:
		c.JSON(http.StatusForbidden, gin.H{"error": "not the gallery owner"})
	case service.ErrInvalidInviteType:
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid invitation type"})
	case service.ErrTokenCollision:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "code generation failed, check entropy configuration"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
