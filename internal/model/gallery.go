package model

import "time"

// Gallery 相册
type Gallery struct {
	ID              int64      `json:"id" db:"id"`
	OwnerID         int64      `json:"owner_id" db:"owner_id"`
	Title           string     `json:"title" db:"title"`
	Description     string     `json:"description" db:"description"`
	RequirePassword bool       `json:"require_password" db:"require_password"`
	PasswordHash    string     `json:"-" db:"password_hash"`
	InviteOnly      bool       `json:"invite_only" db:"invite_only"`
	Published       bool       `json:"published" db:"published"`
	ExpiresAt       *time.Time `json:"expires_at" db:"expires_at"`
	CreatedAt       time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at" db:"updated_at"`
}

// Expired 相册是否已到期
func (g *Gallery) Expired(now time.Time) bool {
	return g.ExpiresAt != nil && now.After(*g.ExpiresAt)
}

// CreateGalleryRequest 创建相册请求
type CreateGalleryRequest struct {
	Title       string     `json:"title" binding:"required"`
	Description string     `json:"description"`
	Password    string     `json:"password"` // 非空则开启相册级密码保护
	InviteOnly  bool       `json:"invite_only"`
	ExpiresAt   *time.Time `json:"expires_at"`
}

// UpdateGalleryRequest 更新相册请求
type UpdateGalleryRequest struct {
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	Password    *string    `json:"password"` // 空字符串表示取消密码
	InviteOnly  *bool      `json:"invite_only"`
	Published   *bool      `json:"published"`
	ExpiresAt   *time.Time `json:"expires_at"`
}

// GalleryListResponse 相册列表响应
type GalleryListResponse struct {
	Total     int64      `json:"total"`
	Galleries []*Gallery `json:"galleries"`
}
