package service

import "errors"

var (
	// 账号
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrNotOwner           = errors.New("not the gallery owner")

	// 资源
	ErrGalleryNotFound    = errors.New("gallery not found")
	ErrShareLinkNotFound  = errors.New("share link not found")
	ErrInvitationNotFound = errors.New("invitation not found")
	ErrPhotoNotFound      = errors.New("photo not found")

	// 授权拒绝（预期内的业务结果，绝不以 500 形式冒泡）
	ErrLinkExpired        = errors.New("share link has expired")
	ErrLimitReached       = errors.New("share link view limit reached")
	ErrRequiresPassword   = errors.New("password required")
	ErrRequiresInvitation = errors.New("invitation required")
	ErrInvitationInvalid  = errors.New("invitation is expired or revoked")

	// 基础设施
	ErrStorageConflict    = errors.New("storage conflict, retry the request")
	ErrStorageUnavailable = errors.New("photo storage not configured")
	// Token 连续碰撞说明熵配置有问题，属于致命配置错误
	ErrTokenCollision = errors.New("token generation collisions exhausted")

	// 请求校验
	ErrInvalidInviteType = errors.New("invalid invitation type")
)
