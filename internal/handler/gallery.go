package handler

import (
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/vicrey1/Gallerypavilion-sub000/internal/model"
	"github.com/vicrey1/Gallerypavilion-sub000/internal/service"

	"github.com/gin-gonic/gin"
)

type GalleryHandler struct {
	gallerySvc *service.GalleryService
	linkSvc    *service.ShareLinkService
}

func NewGalleryHandler(gallerySvc *service.GalleryService, linkSvc *service.ShareLinkService) *GalleryHandler {
	return &GalleryHandler{gallerySvc: gallerySvc, linkSvc: linkSvc}
}

// Create 创建相册
func (h *GalleryHandler) Create(c *gin.Context) {
	var req model.CreateGalleryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	gallery, err := h.gallerySvc.Create(c.Request.Context(), &req, c.GetInt64("user_id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gallery)
}

// List 获取当前摄影师的相册列表
func (h *GalleryHandler) List(c *gin.Context) {
	resp, err := h.gallerySvc.List(c.Request.Context(), c.GetInt64("user_id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Get 获取相册详情
func (h *GalleryHandler) Get(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		return
	}

	gallery, err := h.gallerySvc.Get(c.Request.Context(), id, c.GetInt64("user_id"))
	if err != nil {
		respondGalleryError(c, err)
		return
	}
	c.JSON(http.StatusOK, gallery)
}

// Update 更新相册
func (h *GalleryHandler) Update(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		return
	}

	var req model.UpdateGalleryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	gallery, err := h.gallerySvc.Update(c.Request.Context(), id, c.GetInt64("user_id"), &req)
	if err != nil {
		respondGalleryError(c, err)
		return
	}
	c.JSON(http.StatusOK, gallery)
}

// Delete 删除相册
func (h *GalleryHandler) Delete(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		return
	}

	if err := h.gallerySvc.Delete(c.Request.Context(), id, c.GetInt64("user_id")); err != nil {
		respondGalleryError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "gallery deleted"})
}

// UploadPhoto 上传照片
func (h *GalleryHandler) UploadPhoto(c *gin.Context) {
	galleryID, err := parseID(c, "id")
	if err != nil {
		return
	}

	file, err := c.FormFile("photo")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "photo file is required"})
		return
	}

	// 先落到临时文件再交给存储管理器
	tmpPath := filepath.Join(os.TempDir(), filepath.Base(file.Filename))
	if err := c.SaveUploadedFile(file, tmpPath); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	defer os.Remove(tmpPath)

	photo, err := h.gallerySvc.AddPhoto(c.Request.Context(), galleryID, c.GetInt64("user_id"),
		file.Filename, tmpPath, file.Size)
	if err != nil {
		respondGalleryError(c, err)
		return
	}
	c.JSON(http.StatusCreated, photo)
}

// ListPhotos 获取相册照片列表
func (h *GalleryHandler) ListPhotos(c *gin.Context) {
	galleryID, err := parseID(c, "id")
	if err != nil {
		return
	}

	resp, err := h.gallerySvc.ListPhotos(c.Request.Context(), galleryID, c.GetInt64("user_id"))
	if err != nil {
		respondGalleryError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// DeletePhoto 删除照片
func (h *GalleryHandler) DeletePhoto(c *gin.Context) {
	photoID, err := parseID(c, "photoId")
	if err != nil {
		return
	}

	if err := h.gallerySvc.DeletePhoto(c.Request.Context(), photoID, c.GetInt64("user_id")); err != nil {
		if err == service.ErrPhotoNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "photo not found"})
			return
		}
		respondGalleryError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "photo deleted"})
}

// CreateShareLink 创建分享链接
func (h *GalleryHandler) CreateShareLink(c *gin.Context) {
	galleryID, err := parseID(c, "id")
	if err != nil {
		return
	}

	var req model.CreateShareLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.linkSvc.Create(c.Request.Context(), galleryID, c.GetInt64("user_id"), &req)
	if err != nil {
		respondGalleryError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ListShareLinks 获取相册的分享链接列表
func (h *GalleryHandler) ListShareLinks(c *gin.Context) {
	galleryID, err := parseID(c, "id")
	if err != nil {
		return
	}

	resp, err := h.linkSvc.List(c.Request.Context(), galleryID, c.GetInt64("user_id"))
	if err != nil {
		respondGalleryError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// DeleteShareLink 删除分享链接
func (h *GalleryHandler) DeleteShareLink(c *gin.Context) {
	linkID, err := parseID(c, "id")
	if err != nil {
		return
	}

	if err := h.linkSvc.Delete(c.Request.Context(), linkID, c.GetInt64("user_id")); err != nil {
		if err == service.ErrShareLinkNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "share link not found"})
			return
		}
		respondGalleryError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "share link deleted"})
}

// parseID 解析路径中的数字 ID，失败时直接写 400 响应
func parseID(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, err
	}
	return id, nil
}

// respondGalleryError 相册相关接口的通用错误映射
func respondGalleryError(c *gin.Context, err error) {
	switch err {
	case service.ErrGalleryNotFound:
		c.JSON(http.StatusNotFound, gin.H{"error": "gallery not found"})
	case service.ErrNotOwner:
		c.JSON(http.StatusForbidden, gin.H{"error": "not the gallery owner"})
	case service.ErrTokenCollision:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token generation failed, check entropy configuration"})
	case service.ErrStorageUnavailable:
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "photo storage not configured"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
