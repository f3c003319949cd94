package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/vicrey1/Gallerypavilion-sub000/internal/model"
)

type GalleryRepository struct {
	db *sql.DB
}

func NewGalleryRepository(db *sql.DB) *GalleryRepository {
	return &GalleryRepository{db: db}
}

const galleryColumns = `
	id, owner_id, title, description, require_password, password_hash,
	invite_only, published, expires_at, created_at, updated_at
`

func scanGallery(row *sql.Row) (*model.Gallery, error) {
	g := &model.Gallery{}
	err := row.Scan(
		&g.ID, &g.OwnerID, &g.Title, &g.Description,
		&g.RequirePassword, &g.PasswordHash, &g.InviteOnly,
		&g.Published, &g.ExpiresAt, &g.CreatedAt, &g.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return g, err
}

// Create 创建相册
func (r *GalleryRepository) Create(ctx context.Context, g *model.Gallery) error {
	query := `
		INSERT INTO galleries (owner_id, title, description, require_password, password_hash,
			invite_only, published, expires_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)
		RETURNING id, created_at, updated_at
	`
	return r.db.QueryRowContext(ctx, query,
		g.OwnerID, g.Title, g.Description, g.RequirePassword, g.PasswordHash,
		g.InviteOnly, g.Published, g.ExpiresAt, time.Now(),
	).Scan(&g.ID, &g.CreatedAt, &g.UpdatedAt)
}

// GetByID 根据 ID 获取相册
func (r *GalleryRepository) GetByID(ctx context.Context, id int64) (*model.Gallery, error) {
	query := `SELECT ` + galleryColumns + ` FROM galleries WHERE id = $1`
	return scanGallery(r.db.QueryRowContext(ctx, query, id))
}

// ListByOwner 获取摄影师的所有相册
func (r *GalleryRepository) ListByOwner(ctx context.Context, ownerID int64) ([]*model.Gallery, error) {
	query := `SELECT ` + galleryColumns + ` FROM galleries WHERE owner_id = $1 ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	galleries := make([]*model.Gallery, 0)
	for rows.Next() {
		g := &model.Gallery{}
		err := rows.Scan(
			&g.ID, &g.OwnerID, &g.Title, &g.Description,
			&g.RequirePassword, &g.PasswordHash, &g.InviteOnly,
			&g.Published, &g.ExpiresAt, &g.CreatedAt, &g.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		galleries = append(galleries, g)
	}
	return galleries, rows.Err()
}

// Update 更新相册
func (r *GalleryRepository) Update(ctx context.Context, g *model.Gallery) error {
	query := `
		UPDATE galleries
		SET title = $1, description = $2, require_password = $3, password_hash = $4,
			invite_only = $5, published = $6, expires_at = $7, updated_at = $8
		WHERE id = $9
	`
	_, err := r.db.ExecContext(ctx, query,
		g.Title, g.Description, g.RequirePassword, g.PasswordHash,
		g.InviteOnly, g.Published, g.ExpiresAt, time.Now(), g.ID,
	)
	return err
}

// Delete 删除相册（照片、链接、邀请随外键级联删除）
func (r *GalleryRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM galleries WHERE id = $1", id)
	return err
}
