package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/vicrey1/Gallerypavilion-sub000/internal/model"
)

type InvitationRepository struct {
	db *sql.DB
}

func NewInvitationRepository(db *sql.DB) *InvitationRepository {
	return &InvitationRepository{db: db}
}

const invitationColumns = `
	id, gallery_id, code, type, status, client_email, description,
	can_view, can_favorite, can_comment, can_download, can_request_purchase,
	max_usage, usage_count, expires_at, created_at, used_at
`

func scanInvitation(scan func(dest ...any) error) (*model.Invitation, error) {
	inv := &model.Invitation{}
	err := scan(
		&inv.ID, &inv.GalleryID, &inv.Code, &inv.Type, &inv.Status,
		&inv.ClientEmail, &inv.Description,
		&inv.Permissions.CanView, &inv.Permissions.CanFavorite, &inv.Permissions.CanComment,
		&inv.Permissions.CanDownload, &inv.Permissions.CanRequestPurchase,
		&inv.MaxUsage, &inv.UsageCount, &inv.ExpiresAt, &inv.CreatedAt, &inv.UsedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return inv, nil
}

// Create 创建邀请；code 冲突时返回唯一约束错误，由上层重新生成
func (r *InvitationRepository) Create(ctx context.Context, inv *model.Invitation) error {
	query := `
		INSERT INTO invitations (gallery_id, code, type, status, client_email, description,
			can_view, can_favorite, can_comment, can_download, can_request_purchase,
			max_usage, usage_count, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, 0, $13, $14)
		RETURNING id, created_at
	`
	return r.db.QueryRowContext(ctx, query,
		inv.GalleryID, inv.Code, inv.Type, inv.Status, inv.ClientEmail, inv.Description,
		inv.Permissions.CanView, inv.Permissions.CanFavorite, inv.Permissions.CanComment,
		inv.Permissions.CanDownload, inv.Permissions.CanRequestPurchase,
		inv.MaxUsage, inv.ExpiresAt, time.Now(),
	).Scan(&inv.ID, &inv.CreatedAt)
}

// GetByID 根据 ID 获取邀请
func (r *InvitationRepository) GetByID(ctx context.Context, id int64) (*model.Invitation, error) {
	query := `SELECT ` + invitationColumns + ` FROM invitations WHERE id = $1`
	return scanInvitation(r.db.QueryRowContext(ctx, query, id).Scan)
}

// GetByCodeAndGallery 按相册范围查询邀请码
// 其他相册的邀请码在这里等同于不存在（不泄露跨相册信息）
func (r *InvitationRepository) GetByCodeAndGallery(ctx context.Context, code string, galleryID int64) (*model.Invitation, error) {
	query := `SELECT ` + invitationColumns + ` FROM invitations WHERE code = $1 AND gallery_id = $2`
	return scanInvitation(r.db.QueryRowContext(ctx, query, code, galleryID).Scan)
}

// ListByGallery 获取相册的所有邀请
func (r *InvitationRepository) ListByGallery(ctx context.Context, galleryID int64) ([]*model.Invitation, error) {
	query := `SELECT ` + invitationColumns + ` FROM invitations WHERE gallery_id = $1 ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, galleryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	invitations := make([]*model.Invitation, 0)
	for rows.Next() {
		inv, err := scanInvitation(rows.Scan)
		if err != nil {
			return nil, err
		}
		invitations = append(invitations, inv)
	}
	return invitations, rows.Err()
}

// MarkExpired 将邀请置为过期；终态不回退（WHERE 子句保证单调性）
func (r *InvitationRepository) MarkExpired(ctx context.Context, id int64) error {
	query := `
		UPDATE invitations SET status = 'expired'
		WHERE id = $1 AND status IN ('pending', 'active')
	`
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}

// Revoke 撤销邀请；撤销不可逆，已是终态的行不受影响
func (r *InvitationRepository) Revoke(ctx context.Context, id int64) (bool, error) {
	query := `
		UPDATE invitations SET status = 'revoked'
		WHERE id = $1 AND status IN ('pending', 'active')
	`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}
