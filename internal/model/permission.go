package model

// 权限合并策略
const (
	PermissionPolicyIntersect  = "intersect"  // 取交集（默认，以更严格的一方为准）
	PermissionPolicyInvitation = "invitation" // 邀请权限覆盖分享链接权限
	PermissionPolicyShareLink  = "share_link" // 分享链接权限覆盖邀请权限
)

// PermissionSet 访问权限集合
// 分享链接只会授予 view / download / comment 三项，
// favorite / request_purchase 只能由邀请授予
type PermissionSet struct {
	CanView            bool `json:"can_view" db:"can_view"`
	CanFavorite        bool `json:"can_favorite" db:"can_favorite"`
	CanComment         bool `json:"can_comment" db:"can_comment"`
	CanDownload        bool `json:"can_download" db:"can_download"`
	CanRequestPurchase bool `json:"can_request_purchase" db:"can_request_purchase"`
}

// Intersect 取两个权限集合的交集
func (p PermissionSet) Intersect(other PermissionSet) PermissionSet {
	return PermissionSet{
		CanView:            p.CanView && other.CanView,
		CanFavorite:        p.CanFavorite && other.CanFavorite,
		CanComment:         p.CanComment && other.CanComment,
		CanDownload:        p.CanDownload && other.CanDownload,
		CanRequestPurchase: p.CanRequestPurchase && other.CanRequestPurchase,
	}
}

// CombinePermissions 按策略合并分享链接权限和邀请权限
func CombinePermissions(link, invite PermissionSet, policy string) PermissionSet {
	switch policy {
	case PermissionPolicyInvitation:
		return invite
	case PermissionPolicyShareLink:
		return link
	default:
		return link.Intersect(invite)
	}
}
