package service

import (
	"context"
	"time"

	"github.com/vicrey1/Gallerypavilion-sub000/internal/model"
	"github.com/vicrey1/Gallerypavilion-sub000/internal/repository"
)

// 存储接口，由 repository 包的各 Repository 实现。
// Service 只依赖接口，测试用内存实现替换。

type UserStore interface {
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	GetByID(ctx context.Context, id int64) (*model.User, error)
	UpdateLastLogin(ctx context.Context, id int64, t time.Time) error
}

type GalleryStore interface {
	Create(ctx context.Context, g *model.Gallery) error
	GetByID(ctx context.Context, id int64) (*model.Gallery, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]*model.Gallery, error)
	Update(ctx context.Context, g *model.Gallery) error
	Delete(ctx context.Context, id int64) error
}

type PhotoStore interface {
	Create(ctx context.Context, p *model.Photo) error
	GetByID(ctx context.Context, id int64) (*model.Photo, error)
	ListByGallery(ctx context.Context, galleryID int64) ([]*model.Photo, error)
	Delete(ctx context.Context, id int64) error
}

type ShareLinkStore interface {
	Create(ctx context.Context, link *model.ShareLink) error
	GetByToken(ctx context.Context, token string) (*model.ShareLink, error)
	GetByID(ctx context.Context, id int64) (*model.ShareLink, error)
	ListByGallery(ctx context.Context, galleryID int64) ([]*model.ShareLink, error)
	Delete(ctx context.Context, id int64) error
}

type InvitationStore interface {
	Create(ctx context.Context, inv *model.Invitation) error
	GetByID(ctx context.Context, id int64) (*model.Invitation, error)
	GetByCodeAndGallery(ctx context.Context, code string, galleryID int64) (*model.Invitation, error)
	ListByGallery(ctx context.Context, galleryID int64) ([]*model.Invitation, error)
	MarkExpired(ctx context.Context, id int64) error
	Revoke(ctx context.Context, id int64) (bool, error)
}

// UsageLedger 限次计数的条件原子消费
type UsageLedger interface {
	ConsumeAccess(ctx context.Context, req repository.ConsumeRequest) (*repository.ConsumeResult, error)
}

// AuditStore 授权审计与统计查询
type AuditStore interface {
	RecordGrant(ctx context.Context, grant *model.AccessGrant) error
	CountInvitations(ctx context.Context, galleryID int64) (*repository.InviteCounts, error)
	DailyGrants(ctx context.Context, galleryID int64, since time.Time) ([]model.DailyGrantCount, error)
	PermissionStats(ctx context.Context, galleryID int64) (*model.PermissionStats, error)
}

// TokenCache 短期令牌缓存（Redis）
type TokenCache interface {
	SetRefreshToken(userID int64, token string, ttl time.Duration) error
	GetUserIDByRefreshToken(token string) (int64, error)
	DeleteRefreshToken(token string) error
	SetShareAccessToken(shareToken, accessToken string, ttl time.Duration) error
	VerifyShareAccessToken(ctx context.Context, shareToken, accessToken string) (bool, error)
}
