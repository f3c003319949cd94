package service

import (
	"context"
	"path/filepath"

	"github.com/vicrey1/Gallerypavilion-sub000/internal/model"
	"github.com/vicrey1/Gallerypavilion-sub000/internal/storage"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type GalleryService struct {
	galleryStore GalleryStore
	photoStore   PhotoStore
	storage      *storage.Manager
}

func NewGalleryService(galleryStore GalleryStore, photoStore PhotoStore, storageManager *storage.Manager) *GalleryService {
	return &GalleryService{
		galleryStore: galleryStore,
		photoStore:   photoStore,
		storage:      storageManager,
	}
}

// Create 创建相册（摄影师）
func (s *GalleryService) Create(ctx context.Context, req *model.CreateGalleryRequest, ownerID int64) (*model.Gallery, error) {
	gallery := &model.Gallery{
		OwnerID:     ownerID,
		Title:       req.Title,
		Description: req.Description,
		InviteOnly:  req.InviteOnly,
		ExpiresAt:   req.ExpiresAt,
	}

	// 设置了密码则开启相册级密码保护
	if req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		gallery.RequirePassword = true
		gallery.PasswordHash = string(hash)
	}

	if err := s.galleryStore.Create(ctx, gallery); err != nil {
		return nil, err
	}
	return gallery, nil
}

// Get 获取相册（摄影师本人）
func (s *GalleryService) Get(ctx context.Context, id, ownerID int64) (*model.Gallery, error) {
	return s.getOwned(ctx, id, ownerID)
}

// List 获取摄影师的所有相册
func (s *GalleryService) List(ctx context.Context, ownerID int64) (*model.GalleryListResponse, error) {
	galleries, err := s.galleryStore.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return &model.GalleryListResponse{
		Total:     int64(len(galleries)),
		Galleries: galleries,
	}, nil
}

// Update 更新相册（摄影师本人）
func (s *GalleryService) Update(ctx context.Context, id, ownerID int64, req *model.UpdateGalleryRequest) (*model.Gallery, error) {
	gallery, err := s.getOwned(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	if req.Title != "" {
		gallery.Title = req.Title
	}
	if req.Description != nil {
		gallery.Description = *req.Description
	}
	if req.Password != nil {
		if *req.Password == "" {
			gallery.RequirePassword = false
			gallery.PasswordHash = ""
		} else {
			hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
			if err != nil {
				return nil, err
			}
			gallery.RequirePassword = true
			gallery.PasswordHash = string(hash)
		}
	}
	if req.InviteOnly != nil {
		gallery.InviteOnly = *req.InviteOnly
	}
	if req.Published != nil {
		gallery.Published = *req.Published
	}
	if req.ExpiresAt != nil {
		gallery.ExpiresAt = req.ExpiresAt
	}

	if err := s.galleryStore.Update(ctx, gallery); err != nil {
		return nil, err
	}
	return gallery, nil
}

// Delete 删除相册（摄影师本人）
func (s *GalleryService) Delete(ctx context.Context, id, ownerID int64) error {
	if _, err := s.getOwned(ctx, id, ownerID); err != nil {
		return err
	}
	return s.galleryStore.Delete(ctx, id)
}

// AddPhoto 上传照片到相册
func (s *GalleryService) AddPhoto(ctx context.Context, galleryID, ownerID int64, filename, localPath string, size int64) (*model.Photo, error) {
	if _, err := s.getOwned(ctx, galleryID, ownerID); err != nil {
		return nil, err
	}
	if s.storage == nil {
		return nil, ErrStorageUnavailable
	}

	// 存储键用 uuid，避免文件名冲突和路径注入
	storageKey := uuid.NewString() + filepath.Ext(filename)
	url, err := s.storage.Upload(ctx, localPath, storageKey)
	if err != nil {
		return nil, err
	}

	photo := &model.Photo{
		GalleryID:  galleryID,
		Filename:   filename,
		StorageKey: storageKey,
		URL:        url,
		SizeBytes:  size,
	}
	if err := s.photoStore.Create(ctx, photo); err != nil {
		return nil, err
	}
	return photo, nil
}

// ListPhotos 获取相册照片（摄影师本人）
func (s *GalleryService) ListPhotos(ctx context.Context, galleryID, ownerID int64) (*model.PhotoListResponse, error) {
	if _, err := s.getOwned(ctx, galleryID, ownerID); err != nil {
		return nil, err
	}
	photos, err := s.photoStore.ListByGallery(ctx, galleryID)
	if err != nil {
		return nil, err
	}
	return &model.PhotoListResponse{
		Total:  int64(len(photos)),
		Photos: photos,
	}, nil
}

// DeletePhoto 删除照片
func (s *GalleryService) DeletePhoto(ctx context.Context, photoID, ownerID int64) error {
	photo, err := s.photoStore.GetByID(ctx, photoID)
	if err != nil {
		return err
	}
	if photo == nil {
		return ErrPhotoNotFound
	}
	if _, err := s.getOwned(ctx, photo.GalleryID, ownerID); err != nil {
		return err
	}

	if err := s.photoStore.Delete(ctx, photoID); err != nil {
		return err
	}
	// 存储清理失败不影响删除结果
	if s.storage != nil {
		s.storage.Delete(ctx, photo.StorageKey)
	}
	return nil
}

// getOwned 加载相册并校验归属
func (s *GalleryService) getOwned(ctx context.Context, id, ownerID int64) (*model.Gallery, error) {
	gallery, err := s.galleryStore.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if gallery == nil {
		return nil, ErrGalleryNotFound
	}
	if gallery.OwnerID != ownerID {
		return nil, ErrNotOwner
	}
	return gallery, nil
}
