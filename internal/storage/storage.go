package storage

import (
	"context"
	"fmt"

	"github.com/vicrey1/Gallerypavilion-sub000/internal/config"
	"github.com/vicrey1/Gallerypavilion-sub000/pkg/logger"

	"go.uber.org/zap"
)

// Storage 照片存储后端
type Storage interface {
	Upload(ctx context.Context, localPath, remotePath string) (url string, err error)
	Delete(ctx context.Context, remotePath string) error
	Name() string
}

// Manager 存储管理器，照片同时写入所有启用的后端
type Manager struct {
	storages []Storage
}

// NewManager 创建存储管理器
func NewManager(cfg config.StorageConfig) (*Manager, error) {
	m := &Manager{storages: make([]Storage, 0)}

	for _, target := range cfg.Targets {
		if !target.Enabled {
			continue
		}

		var s Storage
		var err error

		switch target.Type {
		case "local":
			s, err = NewLocalStorage(target)
		case "s3", "cos", "oss":
			s, err = NewS3Storage(target)
		default:
			return nil, fmt.Errorf("unknown storage type: %s", target.Type)
		}

		if err != nil {
			return nil, fmt.Errorf("init storage %s failed: %w", target.Name, err)
		}
		m.storages = append(m.storages, s)
	}

	return m, nil
}

// Upload 上传照片到所有启用的后端，返回第一个成功后端的访问 URL
// 第一个后端视为主存储，主存储失败则整体失败
func (m *Manager) Upload(ctx context.Context, localPath, remotePath string) (string, error) {
	if len(m.storages) == 0 {
		return "", fmt.Errorf("no storage targets enabled")
	}

	primaryURL := ""
	for i, s := range m.storages {
		url, err := s.Upload(ctx, localPath, remotePath)
		if err != nil {
			if i == 0 {
				return "", fmt.Errorf("upload to %s failed: %w", s.Name(), err)
			}
			logger.Warn("副存储上传失败",
				zap.String("storage", s.Name()),
				zap.String("key", remotePath),
				zap.Error(err))
			continue
		}
		if primaryURL == "" {
			primaryURL = url
		}
	}
	return primaryURL, nil
}

// Delete 从所有后端删除照片，失败只记日志
func (m *Manager) Delete(ctx context.Context, remotePath string) {
	for _, s := range m.storages {
		if err := s.Delete(ctx, remotePath); err != nil {
			logger.Warn("存储删除失败",
				zap.String("storage", s.Name()),
				zap.String("key", remotePath),
				zap.Error(err))
		}
	}
}

// HasStorages 是否有启用的存储
func (m *Manager) HasStorages() bool {
	return len(m.storages) > 0
}
