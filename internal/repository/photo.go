package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/vicrey1/Gallerypavilion-sub000/internal/model"
)

type PhotoRepository struct {
	db *sql.DB
}

func NewPhotoRepository(db *sql.DB) *PhotoRepository {
	return &PhotoRepository{db: db}
}

// Create 保存照片记录
func (r *PhotoRepository) Create(ctx context.Context, p *model.Photo) error {
	query := `
		INSERT INTO photos (gallery_id, filename, storage_key, url, size_bytes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`
	return r.db.QueryRowContext(ctx, query,
		p.GalleryID, p.Filename, p.StorageKey, p.URL, p.SizeBytes, time.Now(),
	).Scan(&p.ID, &p.CreatedAt)
}

// GetByID 根据 ID 获取照片
func (r *PhotoRepository) GetByID(ctx context.Context, id int64) (*model.Photo, error) {
	query := `
		SELECT id, gallery_id, filename, storage_key, url, size_bytes, created_at
		FROM photos WHERE id = $1
	`
	p := &model.Photo{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&p.ID, &p.GalleryID, &p.Filename, &p.StorageKey, &p.URL, &p.SizeBytes, &p.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return p, err
}

// ListByGallery 获取相册的所有照片
func (r *PhotoRepository) ListByGallery(ctx context.Context, galleryID int64) ([]*model.Photo, error) {
	query := `
		SELECT id, gallery_id, filename, storage_key, url, size_bytes, created_at
		FROM photos WHERE gallery_id = $1 ORDER BY created_at
	`
	rows, err := r.db.QueryContext(ctx, query, galleryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	photos := make([]*model.Photo, 0)
	for rows.Next() {
		p := &model.Photo{}
		err := rows.Scan(&p.ID, &p.GalleryID, &p.Filename, &p.StorageKey, &p.URL, &p.SizeBytes, &p.CreatedAt)
		if err != nil {
			return nil, err
		}
		photos = append(photos, p)
	}
	return photos, rows.Err()
}

// Delete 删除照片记录
func (r *PhotoRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM photos WHERE id = $1", id)
	return err
}
