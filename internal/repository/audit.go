package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/vicrey1/Gallerypavilion-sub000/internal/model"

	"github.com/google/uuid"
)

// AuditRepository 访问授权审计与统计查询
type AuditRepository struct {
	db *sql.DB
}

func NewAuditRepository(db *sql.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// RecordGrant 落一条授权审计记录
func (r *AuditRepository) RecordGrant(ctx context.Context, grant *model.AccessGrant) error {
	if grant.ID == "" {
		grant.ID = uuid.NewString()
	}
	query := `
		INSERT INTO access_grants (id, gallery_id, share_link_id, invitation_id,
			can_view, can_favorite, can_comment, can_download, can_request_purchase, granted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := r.db.ExecContext(ctx, query,
		grant.ID, grant.GalleryID, grant.ShareLinkID, grant.InvitationID,
		grant.Permissions.CanView, grant.Permissions.CanFavorite, grant.Permissions.CanComment,
		grant.Permissions.CanDownload, grant.Permissions.CanRequestPurchase, grant.GrantedAt,
	)
	return err
}

// InviteCounts 邀请状态与类型分布
type InviteCounts struct {
	Total      int64
	Active     int64
	Expired    int64
	Revoked    int64
	Pending    int64
	TotalUsage int64
	ByType     map[string]int64
}

// CountInvitations 统计相册邀请的状态分布与用量总数
func (r *AuditRepository) CountInvitations(ctx context.Context, galleryID int64) (*InviteCounts, error) {
	counts := &InviteCounts{ByType: make(map[string]int64)}

	query := `
		SELECT status, type, COUNT(*), COALESCE(SUM(usage_count), 0)
		FROM invitations WHERE gallery_id = $1
		GROUP BY status, type
	`
	rows, err := r.db.QueryContext(ctx, query, galleryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var status, inviteType string
		var n, usage int64
		if err := rows.Scan(&status, &inviteType, &n, &usage); err != nil {
			return nil, err
		}
		counts.Total += n
		counts.TotalUsage += usage
		counts.ByType[inviteType] += n
		switch status {
		case model.InviteStatusActive:
			counts.Active += n
		case model.InviteStatusExpired:
			counts.Expired += n
		case model.InviteStatusRevoked:
			counts.Revoked += n
		case model.InviteStatusPending:
			counts.Pending += n
		}
	}
	return counts, rows.Err()
}

// DailyGrants 按天统计周期内的授权次数
func (r *AuditRepository) DailyGrants(ctx context.Context, galleryID int64, since time.Time) ([]model.DailyGrantCount, error) {
	query := `
		SELECT TO_CHAR(DATE_TRUNC('day', granted_at), 'YYYY-MM-DD'), COUNT(*)
		FROM access_grants
		WHERE gallery_id = $1 AND granted_at >= $2
		GROUP BY 1 ORDER BY 1
	`
	rows, err := r.db.QueryContext(ctx, query, galleryID, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	breakdown := make([]model.DailyGrantCount, 0)
	for rows.Next() {
		var day model.DailyGrantCount
		if err := rows.Scan(&day.Date, &day.Grants); err != nil {
			return nil, err
		}
		breakdown = append(breakdown, day)
	}
	return breakdown, rows.Err()
}

// PermissionStats 统计各权限被授予的邀请数
func (r *AuditRepository) PermissionStats(ctx context.Context, galleryID int64) (*model.PermissionStats, error) {
	query := `
		SELECT
			COUNT(*) FILTER (WHERE can_view),
			COUNT(*) FILTER (WHERE can_favorite),
			COUNT(*) FILTER (WHERE can_comment),
			COUNT(*) FILTER (WHERE can_download),
			COUNT(*) FILTER (WHERE can_request_purchase)
		FROM invitations WHERE gallery_id = $1
	`
	stats := &model.PermissionStats{}
	err := r.db.QueryRowContext(ctx, query, galleryID).Scan(
		&stats.CanView, &stats.CanFavorite, &stats.CanComment,
		&stats.CanDownload, &stats.CanRequestPurchase,
	)
	return stats, err
}
