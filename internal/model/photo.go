package model

import "time"

// Photo 相册中的照片
type Photo struct {
	ID         int64     `json:"id" db:"id"`
	GalleryID  int64     `json:"gallery_id" db:"gallery_id"`
	Filename   string    `json:"filename" db:"filename"`
	StorageKey string    `json:"storage_key" db:"storage_key"`
	URL        string    `json:"url" db:"url"`
	SizeBytes  int64     `json:"size_bytes" db:"size_bytes"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// PhotoListResponse 照片列表响应
type PhotoListResponse struct {
	Total  int64    `json:"total"`
	Photos []*Photo `json:"photos"`
}
