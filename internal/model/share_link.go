package model

import "time"

// LinkState 分享链接的计算状态（链接本身没有持久化的状态字段）
type LinkState int

const (
	LinkStateActive    LinkState = iota // 可访问
	LinkStateExpired                    // 已过期
	LinkStateExhausted                  // 浏览次数已用完
)

// ShareLink 分享链接
type ShareLink struct {
	ID           int64         `json:"id" db:"id"`
	GalleryID    int64         `json:"gallery_id" db:"gallery_id"`
	Token        string        `json:"token" db:"token"`
	Name         string        `json:"name" db:"name"`
	Permissions  PermissionSet `json:"permissions"`
	PasswordHash string        `json:"-" db:"password_hash"`
	ExpiresAt    *time.Time    `json:"expires_at" db:"expires_at"`
	MaxViews     *int          `json:"max_views" db:"max_views"` // nil 表示不限制
	ViewCount    int           `json:"view_count" db:"view_count"`
	CreatedAt    time.Time     `json:"created_at" db:"created_at"`
}

// State 计算链接当前状态
func (l *ShareLink) State(now time.Time) LinkState {
	if l.ExpiresAt != nil && now.After(*l.ExpiresAt) {
		return LinkStateExpired
	}
	if l.MaxViews != nil && l.ViewCount >= *l.MaxViews {
		return LinkStateExhausted
	}
	return LinkStateActive
}

// ViewLimited 是否设置了浏览次数上限
func (l *ShareLink) ViewLimited() bool {
	return l.MaxViews != nil
}

// CreateShareLinkRequest 创建分享链接请求
type CreateShareLinkRequest struct {
	Name        string     `json:"name"`
	CanView     bool       `json:"can_view"`
	CanDownload bool       `json:"can_download"`
	CanComment  bool       `json:"can_comment"`
	Password    string     `json:"password"`
	ExpiresAt   *time.Time `json:"expires_at"`
	MaxViews    *int       `json:"max_views"` // 不传表示不限制
}

// CreateShareLinkResponse 创建分享链接响应
type CreateShareLinkResponse struct {
	ID        int64  `json:"id"`
	Token     string `json:"token"`
	ShareURL  string `json:"share_url"`
	MaxViews  *int   `json:"max_views"`
	ViewCount int    `json:"view_count"`
}

// ShareLinkListResponse 分享链接列表响应
type ShareLinkListResponse struct {
	Total int64        `json:"total"`
	Links []*ShareLink `json:"links"`
}

// VerifyPasswordRequest 验证分享链接密码请求
type VerifyPasswordRequest struct {
	Password string `json:"password" binding:"required"`
}

// VerifyPasswordResponse 验证分享链接密码响应
// 验证通过时附带一个短期访问令牌，后续请求可用它代替明文密码
type VerifyPasswordResponse struct {
	Verified    bool       `json:"verified"`
	AccessToken string     `json:"access_token,omitempty"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
}
