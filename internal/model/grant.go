package model

import "time"

// AccessGrant 一次授权成功的结果，同时作为审计记录落库
type AccessGrant struct {
	ID           string        `json:"id" db:"id"` // uuid
	GalleryID    int64         `json:"gallery_id" db:"gallery_id"`
	ShareLinkID  *int64        `json:"share_link_id" db:"share_link_id"`
	InvitationID *int64        `json:"invitation_id" db:"invitation_id"`
	Permissions  PermissionSet `json:"permissions"`
	GrantedAt    time.Time     `json:"granted_at" db:"granted_at"`
}

// ShareViewResponse 游客访问分享链接成功的响应
type ShareViewResponse struct {
	Gallery     *Gallery      `json:"gallery"`
	Photos      []*Photo      `json:"photos"`
	Permissions PermissionSet `json:"permissions"`
}

// AnalyticsSummary 邀请分析汇总
type AnalyticsSummary struct {
	TotalInvites    int64             `json:"total_invites"`
	ActiveInvites   int64             `json:"active_invites"`
	ExpiredInvites  int64             `json:"expired_invites"`
	RevokedInvites  int64             `json:"revoked_invites"`
	PendingInvites  int64             `json:"pending_invites"`
	TotalUsage      int64             `json:"total_usage"`
	AverageUsage    float64           `json:"average_usage"`
	DailyBreakdown  []DailyGrantCount `json:"daily_breakdown"`
	TypeBreakdown   map[string]int64  `json:"type_breakdown"`
	PermissionStats PermissionStats   `json:"permission_stats"`
}

// DailyGrantCount 单日授权次数
type DailyGrantCount struct {
	Date   string `json:"date"` // YYYY-MM-DD
	Grants int64  `json:"grants"`
}

// PermissionStats 各权限被授予的邀请数
type PermissionStats struct {
	CanView            int64 `json:"can_view"`
	CanFavorite        int64 `json:"can_favorite"`
	CanComment         int64 `json:"can_comment"`
	CanDownload        int64 `json:"can_download"`
	CanRequestPurchase int64 `json:"can_request_purchase"`
}
