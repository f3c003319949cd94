package service

import (
	"context"
	"time"

	"github.com/vicrey1/Gallerypavilion-sub000/internal/config"
	"github.com/vicrey1/Gallerypavilion-sub000/internal/model"
	"github.com/vicrey1/Gallerypavilion-sub000/internal/repository"
	"github.com/vicrey1/Gallerypavilion-sub000/pkg/utils"

	"golang.org/x/crypto/bcrypt"
)

// Token/邀请码连续碰撞的上限，超过说明熵配置有问题
const maxGenerateRetries = 3

type ShareLinkService struct {
	linkStore    ShareLinkStore
	galleryStore GalleryStore
	cache        TokenCache
	cfg          config.AccessConfig
}

func NewShareLinkService(linkStore ShareLinkStore, galleryStore GalleryStore, cache TokenCache, cfg config.AccessConfig) *ShareLinkService {
	return &ShareLinkService{
		linkStore:    linkStore,
		galleryStore: galleryStore,
		cache:        cache,
		cfg:          cfg,
	}
}

// Create 创建分享链接（摄影师）
func (s *ShareLinkService) Create(ctx context.Context, galleryID, ownerID int64, req *model.CreateShareLinkRequest) (*model.CreateShareLinkResponse, error) {
	gallery, err := s.galleryStore.GetByID(ctx, galleryID)
	if err != nil {
		return nil, err
	}
	if gallery == nil {
		return nil, ErrGalleryNotFound
	}
	if gallery.OwnerID != ownerID {
		return nil, ErrNotOwner
	}

	link := &model.ShareLink{
		GalleryID: galleryID,
		Name:      req.Name,
		Permissions: model.PermissionSet{
			CanView:     req.CanView,
			CanDownload: req.CanDownload,
			CanComment:  req.CanComment,
		},
		ExpiresAt: req.ExpiresAt,
		MaxViews:  req.MaxViews,
	}
	// 未显式给权限时至少允许浏览
	if !req.CanView && !req.CanDownload && !req.CanComment {
		link.Permissions.CanView = true
	}

	if req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		link.PasswordHash = string(hash)
	}

	// 唯一约束冲突时换新 Token 重试，连续碰撞视为配置错误
	for attempt := 0; ; attempt++ {
		token, err := utils.GenerateToken(s.cfg.TokenBytes)
		if err != nil {
			return nil, err
		}
		link.Token = token

		err = s.linkStore.Create(ctx, link)
		if err == nil {
			break
		}
		if !repository.IsUniqueViolation(err) {
			return nil, err
		}
		if attempt >= maxGenerateRetries {
			return nil, ErrTokenCollision
		}
	}

	return &model.CreateShareLinkResponse{
		ID:        link.ID,
		Token:     link.Token,
		ShareURL:  "/share/" + link.Token,
		MaxViews:  link.MaxViews,
		ViewCount: 0,
	}, nil
}

// List 获取相册的所有分享链接（摄影师）
func (s *ShareLinkService) List(ctx context.Context, galleryID, ownerID int64) (*model.ShareLinkListResponse, error) {
	gallery, err := s.galleryStore.GetByID(ctx, galleryID)
	if err != nil {
		return nil, err
	}
	if gallery == nil {
		return nil, ErrGalleryNotFound
	}
	if gallery.OwnerID != ownerID {
		return nil, ErrNotOwner
	}

	links, err := s.linkStore.ListByGallery(ctx, galleryID)
	if err != nil {
		return nil, err
	}
	return &model.ShareLinkListResponse{
		Total: int64(len(links)),
		Links: links,
	}, nil
}

// Delete 删除分享链接（摄影师）
func (s *ShareLinkService) Delete(ctx context.Context, linkID, ownerID int64) error {
	link, err := s.linkStore.GetByID(ctx, linkID)
	if err != nil {
		return err
	}
	if link == nil {
		return ErrShareLinkNotFound
	}

	gallery, err := s.galleryStore.GetByID(ctx, link.GalleryID)
	if err != nil {
		return err
	}
	if gallery == nil || gallery.OwnerID != ownerID {
		return ErrNotOwner
	}

	return s.linkStore.Delete(ctx, linkID)
}

// VerifyPassword 验证分享链接密码（游客），不消耗浏览次数
//
// 验证通过时签发一个短期访问令牌存入 Redis，后续访问可用它代替明文密码。
// 未知 token 和密码错误返回同样的结果，避免被用来枚举相册。
func (s *ShareLinkService) VerifyPassword(ctx context.Context, token, password string) (*model.VerifyPasswordResponse, error) {
	failed := &model.VerifyPasswordResponse{Verified: false}

	link, err := s.linkStore.GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if link == nil {
		return failed, nil
	}

	hash := link.PasswordHash
	if hash == "" {
		gallery, err := s.galleryStore.GetByID(ctx, link.GalleryID)
		if err != nil {
			return nil, err
		}
		if gallery == nil {
			return failed, nil
		}
		if gallery.RequirePassword {
			hash = gallery.PasswordHash
		}
	}

	// 链接本身不需要密码
	if hash == "" {
		return &model.VerifyPasswordResponse{Verified: true}, nil
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return failed, nil
	}

	accessToken, err := utils.GenerateToken(16)
	if err != nil {
		return nil, err
	}
	ttl := s.cfg.PasswordTokenTTL()
	if err := s.cache.SetShareAccessToken(token, accessToken, ttl); err != nil {
		return nil, err
	}

	expiresAt := time.Now().Add(ttl)
	return &model.VerifyPasswordResponse{
		Verified:    true,
		AccessToken: accessToken,
		ExpiresAt:   &expiresAt,
	}, nil
}
