package service

import (
	"context"
	"time"

	"github.com/vicrey1/Gallerypavilion-sub000/internal/config"
	"github.com/vicrey1/Gallerypavilion-sub000/internal/model"
	"github.com/vicrey1/Gallerypavilion-sub000/internal/repository"
	"github.com/vicrey1/Gallerypavilion-sub000/pkg/logger"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// 消费事务冲突的重试次数
const maxConsumeRetries = 3

// ResolveRequest 一次游客访问请求携带的凭证
type ResolveRequest struct {
	Token       string // 分享链接 token（必填）
	Password    string // 明文密码（可选）
	InviteCode  string // 邀请码（可选）
	AccessToken string // verify-password 签发的短期访问令牌（可选，代替明文密码）
}

// AccessService 访问授权引擎
//
// 对每个访问请求决定是否放行、放行时的有效权限，
// 并保证限次计数在并发下不超发（见 repository.LedgerRepository）。
type AccessService struct {
	linkStore    ShareLinkStore
	galleryStore GalleryStore
	inviteStore  InvitationStore
	photoStore   PhotoStore
	ledger       UsageLedger
	audit        AuditStore
	cache        TokenCache
	cfg          config.AccessConfig
}

func NewAccessService(
	linkStore ShareLinkStore,
	galleryStore GalleryStore,
	inviteStore InvitationStore,
	photoStore PhotoStore,
	ledger UsageLedger,
	audit AuditStore,
	cache TokenCache,
	cfg config.AccessConfig,
) *AccessService {
	return &AccessService{
		linkStore:    linkStore,
		galleryStore: galleryStore,
		inviteStore:  inviteStore,
		photoStore:   photoStore,
		ledger:       ledger,
		audit:        audit,
		cache:        cache,
		cfg:          cfg,
	}
}

// Resolve 解析一次访问请求，按序执行所有检查，任一失败立即返回对应的拒绝
//
// 检查顺序：链接存在性 → 相册/链接过期 → 次数预检 → 密码 → 邀请 → 原子消费。
// 预检只是快速失败，最终的次数保证由消费事务的条件更新承担。
func (s *AccessService) Resolve(ctx context.Context, req ResolveRequest) (*model.AccessGrant, error) {
	if timeout := s.cfg.ResolveTimeout(); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	now := time.Now()

	// 1. 查找分享链接
	link, err := s.linkStore.GetByToken(ctx, req.Token)
	if err != nil {
		return nil, err
	}
	if link == nil {
		return nil, ErrShareLinkNotFound
	}

	// 未发布或不存在的相册对游客而言等同于链接不存在
	gallery, err := s.galleryStore.GetByID(ctx, link.GalleryID)
	if err != nil {
		return nil, err
	}
	if gallery == nil || !gallery.Published {
		return nil, ErrShareLinkNotFound
	}

	// 2. 过期检查（相册级和链接级）
	if gallery.Expired(now) {
		return nil, ErrLinkExpired
	}
	switch link.State(now) {
	case model.LinkStateExpired:
		return nil, ErrLinkExpired
	case model.LinkStateExhausted:
		// 3. 次数预检的快速失败路径
		return nil, ErrLimitReached
	}

	// 4. 密码检查
	if err := s.checkPassword(ctx, gallery, link, req); err != nil {
		return nil, err
	}

	// 5. 邀请检查（仅限邀请的相册）
	var invitation *model.Invitation
	if gallery.InviteOnly {
		invitation, err = s.checkInvitation(ctx, gallery, req.InviteCode, now)
		if err != nil {
			return nil, err
		}
	}

	// 6. 原子消费：链接浏览计数和邀请使用计数同一事务，同进同退
	consume := repository.ConsumeRequest{ShareLinkID: link.ID}
	if invitation != nil {
		consume.InvitationID = &invitation.ID
	}
	result, err := s.consumeWithRetry(ctx, consume)
	if err != nil {
		return nil, err
	}
	if !result.Granted {
		switch result.Denial {
		case repository.DenialShareLimit:
			return nil, ErrLimitReached
		default:
			return nil, ErrInvitationInvalid
		}
	}

	// 7. 有效权限：链接和邀请同时生效时按配置的策略合并
	permissions := link.Permissions
	if invitation != nil {
		permissions = model.CombinePermissions(link.Permissions, invitation.Permissions, s.cfg.PermissionPolicy)
	}

	// 8. 落审计记录；消费已提交，审计失败只记日志
	grant := &model.AccessGrant{
		GalleryID:   gallery.ID,
		ShareLinkID: &link.ID,
		Permissions: permissions,
		GrantedAt:   now,
	}
	if invitation != nil {
		grant.InvitationID = &invitation.ID
	}
	if err := s.audit.RecordGrant(ctx, grant); err != nil {
		logger.Error("授权审计记录写入失败",
			zap.Int64("gallery_id", gallery.ID),
			zap.Int64("share_link_id", link.ID),
			zap.Error(err))
	}

	return grant, nil
}

// View 解析访问请求并组装相册内容响应
func (s *AccessService) View(ctx context.Context, req ResolveRequest) (*model.ShareViewResponse, error) {
	grant, err := s.Resolve(ctx, req)
	if err != nil {
		return nil, err
	}

	gallery, err := s.galleryStore.GetByID(ctx, grant.GalleryID)
	if err != nil {
		return nil, err
	}
	photos, err := s.photoStore.ListByGallery(ctx, grant.GalleryID)
	if err != nil {
		return nil, err
	}

	return &model.ShareViewResponse{
		Gallery:     gallery,
		Photos:      photos,
		Permissions: grant.Permissions,
	}, nil
}

// checkPassword 密码检查
// 链接自带密码优先，否则采用相册级密码。
// 密码缺失和密码错误返回同一个拒绝，不泄露哪一步失败。
func (s *AccessService) checkPassword(ctx context.Context, gallery *model.Gallery, link *model.ShareLink, req ResolveRequest) error {
	hash := link.PasswordHash
	if hash == "" && gallery.RequirePassword {
		hash = gallery.PasswordHash
	}
	if hash == "" {
		return nil
	}

	// 短期访问令牌可代替明文密码
	if req.AccessToken != "" {
		ok, err := s.cache.VerifyShareAccessToken(ctx, req.Token, req.AccessToken)
		if err == nil && ok {
			return nil
		}
	}

	if req.Password == "" {
		return ErrRequiresPassword
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(req.Password)); err != nil {
		return ErrRequiresPassword
	}
	return nil
}

// checkInvitation 邀请检查
// 邀请码按相册范围查找，其他相册的码等同于没有提供（而不是无效）。
// 时钟过期在这里惰性落库，不依赖后台任务。
func (s *AccessService) checkInvitation(ctx context.Context, gallery *model.Gallery, code string, now time.Time) (*model.Invitation, error) {
	if code == "" {
		return nil, ErrRequiresInvitation
	}

	invitation, err := s.inviteStore.GetByCodeAndGallery(ctx, code, gallery.ID)
	if err != nil {
		return nil, err
	}
	if invitation == nil {
		return nil, ErrRequiresInvitation
	}

	if invitation.Terminal() {
		return nil, ErrInvitationInvalid
	}
	if invitation.TimeExpired(now) {
		if err := s.inviteStore.MarkExpired(ctx, invitation.ID); err != nil {
			logger.Error("邀请过期状态落库失败",
				zap.Int64("invitation_id", invitation.ID), zap.Error(err))
		}
		return nil, ErrInvitationInvalid
	}
	// 次数预检；最终保证在消费事务里
	if invitation.UsageLimited() && invitation.UsageCount >= *invitation.MaxUsage {
		return nil, ErrInvitationInvalid
	}
	return invitation, nil
}

// consumeWithRetry 执行消费事务，事务冲突时有限次重试
func (s *AccessService) consumeWithRetry(ctx context.Context, req repository.ConsumeRequest) (*repository.ConsumeResult, error) {
	var lastErr error
	for attempt := 0; attempt < maxConsumeRetries; attempt++ {
		result, err := s.ledger.ConsumeAccess(ctx, req)
		if err == nil {
			return result, nil
		}
		if !repository.IsSerializationFailure(err) {
			return nil, err
		}
		lastErr = err
	}
	logger.Warn("消费事务冲突重试耗尽", zap.Error(lastErr))
	return nil, ErrStorageConflict
}
