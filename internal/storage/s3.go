package storage

import (
	"context"
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/vicrey1/Gallerypavilion-sub000/internal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Storage S3兼容存储（支持AWS S3/腾讯COS/阿里OSS）
type S3Storage struct {
	name         string
	client       *s3.Client
	bucket       string
	pathPrefix   string
	customDomain string
	endpoint     string
}

// NewS3Storage 创建S3兼容存储
func NewS3Storage(cfg config.StorageTarget) (*S3Storage, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("bucket is required")
	}
	if cfg.AccessKeyID == "" || cfg.SecretAccessKey == "" {
		return nil, fmt.Errorf("accessKeyId and secretAccessKey are required")
	}

	// 创建凭证
	creds := credentials.NewStaticCredentialsProvider(
		cfg.AccessKeyID,
		cfg.SecretAccessKey,
		"",
	)

	// 加载配置
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithCredentialsProvider(creds),
		awsconfig.WithRegion(cfg.Region),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config failed: %w", err)
	}

	// 创建S3客户端
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		// COS/OSS 需要使用路径风格
		o.UsePathStyle = true
	})

	return &S3Storage{
		name:         cfg.Name,
		client:       client,
		bucket:       cfg.Bucket,
		pathPrefix:   cfg.PathPrefix,
		customDomain: cfg.CustomDomain,
		endpoint:     cfg.Endpoint,
	}, nil
}

// Name 返回存储名称
func (s *S3Storage) Name() string {
	return s.name
}

// Upload 上传照片到S3
func (s *S3Storage) Upload(ctx context.Context, localPath, remotePath string) (string, error) {
	file, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("open file failed: %w", err)
	}
	defer file.Close()

	key := s.objectKey(remotePath)

	// 上传文件
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   file,
	})
	if err != nil {
		return "", fmt.Errorf("upload to s3 failed: %w", err)
	}

	return s.objectURL(key), nil
}

// Delete 从S3删除照片
func (s *S3Storage) Delete(ctx context.Context, remotePath string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.objectKey(remotePath)),
	})
	return err
}

// objectKey 构建对象键
func (s *S3Storage) objectKey(remotePath string) string {
	if s.pathPrefix != "" {
		return path.Join(s.pathPrefix, remotePath)
	}
	return remotePath
}

// objectURL 生成访问URL
func (s *S3Storage) objectURL(key string) string {
	if s.customDomain != "" {
		return strings.TrimSuffix(s.customDomain, "/") + "/" + key
	}
	if s.endpoint != "" {
		return strings.TrimSuffix(s.endpoint, "/") + "/" + s.bucket + "/" + key
	}
	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.bucket, key)
}
