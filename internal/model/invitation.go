package model

import "time"

// 邀请类型
const (
	InviteTypeSingleUse   = "single_use"   // 一次性邀请，隐含 max_usage = 1
	InviteTypeMultiUse    = "multi_use"    // 多次使用邀请
	InviteTypeTimeLimited = "time_limited" // 限时邀请
)

// 邀请状态（revoked / expired 为终态，不可回到 active）
const (
	InviteStatusPending = "pending"
	InviteStatusActive  = "active"
	InviteStatusExpired = "expired"
	InviteStatusRevoked = "revoked"
)

// Invitation 邀请
type Invitation struct {
	ID          int64         `json:"id" db:"id"`
	GalleryID   int64         `json:"gallery_id" db:"gallery_id"`
	Code        string        `json:"code" db:"code"`
	Type        string        `json:"type" db:"type"`
	Status      string        `json:"status" db:"status"`
	ClientEmail *string       `json:"client_email" db:"client_email"`
	Description string        `json:"description" db:"description"`
	Permissions PermissionSet `json:"permissions"`
	MaxUsage    *int          `json:"max_usage" db:"max_usage"` // nil 表示不限制
	UsageCount  int           `json:"usage_count" db:"usage_count"`
	ExpiresAt   *time.Time    `json:"expires_at" db:"expires_at"`
	CreatedAt   time.Time     `json:"created_at" db:"created_at"`
	UsedAt      *time.Time    `json:"used_at" db:"used_at"`
}

// Terminal 状态是否为终态
func (i *Invitation) Terminal() bool {
	return i.Status == InviteStatusExpired || i.Status == InviteStatusRevoked
}

// TimeExpired 按时钟判断是否已过期
func (i *Invitation) TimeExpired(now time.Time) bool {
	return i.ExpiresAt != nil && now.After(*i.ExpiresAt)
}

// UsageLimited 是否设置了使用次数上限
func (i *Invitation) UsageLimited() bool {
	return i.MaxUsage != nil
}

// CreateInvitationRequest 创建邀请请求
type CreateInvitationRequest struct {
	GalleryID   int64         `json:"gallery_id" binding:"required"`
	Type        string        `json:"type"`
	MaxUsage    *int          `json:"max_usage"`
	ExpiresAt   *time.Time    `json:"expires_at"`
	Description string        `json:"description"`
	Permissions PermissionSet `json:"permissions"`
}

// SendInvitationRequest 创建并发送邀请请求
type SendInvitationRequest struct {
	GalleryID      int64         `json:"gallery_id" binding:"required"`
	RecipientEmail string        `json:"recipient_email" binding:"required,email"`
	RecipientName  string        `json:"recipient_name"`
	MaxUsage       *int          `json:"max_usage"`
	ExpiresAt      *time.Time    `json:"expires_at"`
	Permissions    PermissionSet `json:"permissions"`
}

// InvitationListResponse 邀请列表响应
type InvitationListResponse struct {
	Total       int64         `json:"total"`
	Invitations []*Invitation `json:"invitations"`
}
