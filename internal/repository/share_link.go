package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/vicrey1/Gallerypavilion-sub000/internal/model"
)

type ShareLinkRepository struct {
	db *sql.DB
}

func NewShareLinkRepository(db *sql.DB) *ShareLinkRepository {
	return &ShareLinkRepository{db: db}
}

const shareLinkColumns = `
	id, gallery_id, token, name, can_view, can_download, can_comment,
	password_hash, expires_at, max_views, view_count, created_at
`

func scanShareLink(scan func(dest ...any) error) (*model.ShareLink, error) {
	link := &model.ShareLink{}
	err := scan(
		&link.ID, &link.GalleryID, &link.Token, &link.Name,
		&link.Permissions.CanView, &link.Permissions.CanDownload, &link.Permissions.CanComment,
		&link.PasswordHash, &link.ExpiresAt, &link.MaxViews, &link.ViewCount, &link.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return link, nil
}

// Create 创建分享链接；token 冲突时返回唯一约束错误，由上层重新生成
func (r *ShareLinkRepository) Create(ctx context.Context, link *model.ShareLink) error {
	query := `
		INSERT INTO share_links (gallery_id, token, name, can_view, can_download, can_comment,
			password_hash, expires_at, max_views, view_count, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, 0, $10)
		RETURNING id, created_at
	`
	return r.db.QueryRowContext(ctx, query,
		link.GalleryID, link.Token, link.Name,
		link.Permissions.CanView, link.Permissions.CanDownload, link.Permissions.CanComment,
		link.PasswordHash, link.ExpiresAt, link.MaxViews, time.Now(),
	).Scan(&link.ID, &link.CreatedAt)
}

// GetByToken 根据 token 获取分享链接
func (r *ShareLinkRepository) GetByToken(ctx context.Context, token string) (*model.ShareLink, error) {
	query := `SELECT ` + shareLinkColumns + ` FROM share_links WHERE token = $1`
	return scanShareLink(r.db.QueryRowContext(ctx, query, token).Scan)
}

// GetByID 根据 ID 获取分享链接
func (r *ShareLinkRepository) GetByID(ctx context.Context, id int64) (*model.ShareLink, error) {
	query := `SELECT ` + shareLinkColumns + ` FROM share_links WHERE id = $1`
	return scanShareLink(r.db.QueryRowContext(ctx, query, id).Scan)
}

// ListByGallery 获取相册的所有分享链接
func (r *ShareLinkRepository) ListByGallery(ctx context.Context, galleryID int64) ([]*model.ShareLink, error) {
	query := `SELECT ` + shareLinkColumns + ` FROM share_links WHERE gallery_id = $1 ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, galleryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	links := make([]*model.ShareLink, 0)
	for rows.Next() {
		link, err := scanShareLink(rows.Scan)
		if err != nil {
			return nil, err
		}
		links = append(links, link)
	}
	return links, rows.Err()
}

// Delete 删除分享链接
func (r *ShareLinkRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM share_links WHERE id = $1", id)
	return err
}
