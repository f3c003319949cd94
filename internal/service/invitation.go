package service

import (
	"context"
	"time"

	"github.com/vicrey1/Gallerypavilion-sub000/internal/config"
	"github.com/vicrey1/Gallerypavilion-sub000/internal/mail"
	"github.com/vicrey1/Gallerypavilion-sub000/internal/model"
	"github.com/vicrey1/Gallerypavilion-sub000/internal/repository"
	"github.com/vicrey1/Gallerypavilion-sub000/pkg/logger"
	"github.com/vicrey1/Gallerypavilion-sub000/pkg/utils"

	"go.uber.org/zap"
)

// Mailer 邀请邮件投递
type Mailer interface {
	SendInvite(ctx context.Context, msg mail.InviteMessage) error
}

type InvitationService struct {
	inviteStore  InvitationStore
	galleryStore GalleryStore
	mailer       Mailer // nil 表示未启用邮件投递
	cfg          config.AccessConfig
}

func NewInvitationService(inviteStore InvitationStore, galleryStore GalleryStore, mailer Mailer, cfg config.AccessConfig) *InvitationService {
	return &InvitationService{
		inviteStore:  inviteStore,
		galleryStore: galleryStore,
		mailer:       mailer,
		cfg:          cfg,
	}
}

// Create 创建邀请（摄影师）
func (s *InvitationService) Create(ctx context.Context, req *model.CreateInvitationRequest, ownerID int64) (*model.Invitation, error) {
	gallery, err := s.ownedGallery(ctx, req.GalleryID, ownerID)
	if err != nil {
		return nil, err
	}

	inv := &model.Invitation{
		GalleryID:   gallery.ID,
		Type:        req.Type,
		Status:      model.InviteStatusActive,
		Description: req.Description,
		Permissions: req.Permissions,
		MaxUsage:    req.MaxUsage,
		ExpiresAt:   req.ExpiresAt,
	}
	if err := s.prepare(inv); err != nil {
		return nil, err
	}

	if err := s.insertWithFreshCode(ctx, inv); err != nil {
		return nil, err
	}
	return inv, nil
}

// Send 创建邀请并投递邮件（摄影师）
// 邮件投递是尽力而为，失败只记日志，不影响邀请本身
func (s *InvitationService) Send(ctx context.Context, req *model.SendInvitationRequest, ownerID int64) (*model.Invitation, error) {
	gallery, err := s.ownedGallery(ctx, req.GalleryID, ownerID)
	if err != nil {
		return nil, err
	}

	inv := &model.Invitation{
		GalleryID:   gallery.ID,
		Status:      model.InviteStatusPending, // 绑定邮箱的邀请首次使用前处于 pending
		ClientEmail: &req.RecipientEmail,
		Description: "sent to " + req.RecipientEmail,
		Permissions: req.Permissions,
		MaxUsage:    req.MaxUsage,
		ExpiresAt:   req.ExpiresAt,
	}
	if err := s.prepare(inv); err != nil {
		return nil, err
	}

	if err := s.insertWithFreshCode(ctx, inv); err != nil {
		return nil, err
	}

	if s.mailer != nil {
		msg := mail.InviteMessage{
			To:           req.RecipientEmail,
			Name:         req.RecipientName,
			GalleryTitle: gallery.Title,
			InviteCode:   inv.Code,
		}
		if inv.ExpiresAt != nil {
			msg.ExpiresAt = inv.ExpiresAt.Format(time.RFC3339)
		}
		go func() {
			sendCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			if err := s.mailer.SendInvite(sendCtx, msg); err != nil {
				logger.Error("邀请邮件投递失败",
					zap.Int64("invitation_id", inv.ID),
					zap.String("recipient", req.RecipientEmail),
					zap.Error(err))
			}
		}()
	}

	return inv, nil
}

// List 获取相册的所有邀请（摄影师）
func (s *InvitationService) List(ctx context.Context, galleryID, ownerID int64) (*model.InvitationListResponse, error) {
	if _, err := s.ownedGallery(ctx, galleryID, ownerID); err != nil {
		return nil, err
	}

	invitations, err := s.inviteStore.ListByGallery(ctx, galleryID)
	if err != nil {
		return nil, err
	}
	return &model.InvitationListResponse{
		Total:       int64(len(invitations)),
		Invitations: invitations,
	}, nil
}

// Revoke 撤销邀请（摄影师），不可逆
func (s *InvitationService) Revoke(ctx context.Context, invitationID, ownerID int64) error {
	inv, err := s.inviteStore.GetByID(ctx, invitationID)
	if err != nil {
		return err
	}
	if inv == nil {
		return ErrInvitationNotFound
	}
	if _, err := s.ownedGallery(ctx, inv.GalleryID, ownerID); err != nil {
		return err
	}

	// 已是终态时撤销是空操作（expired 不会变成 revoked）
	_, err = s.inviteStore.Revoke(ctx, invitationID)
	return err
}

// prepare 补全类型、隐含上限和默认有效期
func (s *InvitationService) prepare(inv *model.Invitation) error {
	// 未指定类型时根据字段推断
	if inv.Type == "" {
		switch {
		case inv.MaxUsage != nil && *inv.MaxUsage == 1:
			inv.Type = model.InviteTypeSingleUse
		case inv.ExpiresAt != nil && inv.MaxUsage == nil:
			inv.Type = model.InviteTypeTimeLimited
		default:
			inv.Type = model.InviteTypeMultiUse
		}
	}

	switch inv.Type {
	case model.InviteTypeSingleUse:
		// 一次性邀请隐含 max_usage = 1
		one := 1
		inv.MaxUsage = &one
	case model.InviteTypeMultiUse, model.InviteTypeTimeLimited:
	default:
		return ErrInvalidInviteType
	}

	// 默认有效期
	if inv.ExpiresAt == nil && s.cfg.DefaultInviteExpiryHours > 0 {
		t := time.Now().Add(time.Duration(s.cfg.DefaultInviteExpiryHours) * time.Hour)
		inv.ExpiresAt = &t
	}

	// 权限全空时至少允许浏览
	if inv.Permissions == (model.PermissionSet{}) {
		inv.Permissions.CanView = true
	}
	return nil
}

// insertWithFreshCode 生成邀请码并插入，唯一约束冲突时换码重试
func (s *InvitationService) insertWithFreshCode(ctx context.Context, inv *model.Invitation) error {
	for attempt := 0; ; attempt++ {
		code, err := utils.GenerateInviteCode(s.cfg.InviteCodeLength)
		if err != nil {
			return err
		}
		inv.Code = code

		err = s.inviteStore.Create(ctx, inv)
		if err == nil {
			return nil
		}
		if !repository.IsUniqueViolation(err) {
			return err
		}
		if attempt >= maxGenerateRetries {
			return ErrTokenCollision
		}
	}
}

func (s *InvitationService) ownedGallery(ctx context.Context, galleryID, ownerID int64) (*model.Gallery, error) {
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
	return gallery, nil
}
