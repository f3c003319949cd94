package service

import (
	"context"
	"time"

	"github.com/vicrey1/Gallerypavilion-sub000/internal/model"
)

// 分析周期默认 30 天
const defaultAnalyticsPeriodDays = 30

// AnalyticsService 邀请分析，纯读侧，按需重算
type AnalyticsService struct {
	audit        AuditStore
	galleryStore GalleryStore
}

func NewAnalyticsService(audit AuditStore, galleryStore GalleryStore) *AnalyticsService {
	return &AnalyticsService{
		audit:        audit,
		galleryStore: galleryStore,
	}
}

// Summarize 汇总相册邀请数据（摄影师）
func (s *AnalyticsService) Summarize(ctx context.Context, galleryID, ownerID int64, periodDays int) (*model.AnalyticsSummary, error) {
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

	if periodDays <= 0 {
		periodDays = defaultAnalyticsPeriodDays
	}

	counts, err := s.audit.CountInvitations(ctx, galleryID)
	if err != nil {
		return nil, err
	}

	since := time.Now().AddDate(0, 0, -periodDays)
	daily, err := s.audit.DailyGrants(ctx, galleryID, since)
	if err != nil {
		return nil, err
	}

	permStats, err := s.audit.PermissionStats(ctx, galleryID)
	if err != nil {
		return nil, err
	}

	// 没有邀请时平均值定义为 0，不做除法
	averageUsage := 0.0
	if counts.Total > 0 {
		averageUsage = float64(counts.TotalUsage) / float64(counts.Total)
	}

	return &model.AnalyticsSummary{
		TotalInvites:    counts.Total,
		ActiveInvites:   counts.Active,
		ExpiredInvites:  counts.Expired,
		RevokedInvites:  counts.Revoked,
		PendingInvites:  counts.Pending,
		TotalUsage:      counts.TotalUsage,
		AverageUsage:    averageUsage,
		DailyBreakdown:  daily,
		TypeBreakdown:   counts.ByType,
		PermissionStats: *permStats,
	}, nil
}
