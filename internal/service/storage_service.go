package service

import (
	"context"
	"elearning_backend/internal/config"
	"elearning_backend/internal/util"
	"elearning_backend/pkg/logger"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

// AssetStore 课程素材的底层存储
type AssetStore interface {
	Put(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error
	URL(key string) string
}

// DiskAssetStore 素材写入本地目录，由 /uploads 静态路由对外提供
type DiskAssetStore struct {
	Root string
}

func (d *DiskAssetStore) Put(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error {
	dst := filepath.Join(d.Root, filepath.FromSlash(key))
	rel, err := filepath.Rel(d.Root, dst)
	if err != nil || strings.HasPrefix(rel, "..") {
		return fmt.Errorf("asset key %q escapes storage root", key)
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return err
	}
	out, err := os.Create(dst)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, reader); err != nil {
		out.Close()
		os.Remove(dst)
		return err
	}
	return out.Close()
}

func (d *DiskAssetStore) URL(key string) string {
	return "/uploads/" + key
}

// MinioAssetStore 素材写入 MinIO 桶
type MinioAssetStore struct {
	Client  *minio.Client
	Bucket  string
	BaseURL string
}

// NewMinioAssetStore 桶不存在时创建
func NewMinioAssetStore(ctx context.Context, cfg *config.StorageConfig) (*MinioAssetStore, error) {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessID, cfg.MinioSecret, ""),
		Secure: cfg.MinioUseSSL,
	})
	if err != nil {
		return nil, err
	}

	exists, err := client.BucketExists(ctx, cfg.MinioBucket)
	if err != nil {
		return nil, err
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.MinioBucket, minio.MakeBucketOptions{}); err != nil {
			return nil, err
		}
	}

	return &MinioAssetStore{
		Client:  client,
		Bucket:  cfg.MinioBucket,
		BaseURL: client.EndpointURL().String(),
	}, nil
}

func (m *MinioAssetStore) Put(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error {
	_, err := m.Client.PutObject(ctx, m.Bucket, key, reader, size, minio.PutObjectOptions{ContentType: contentType})
	return err
}

func (m *MinioAssetStore) URL(key string) string {
	return strings.TrimSuffix(m.BaseURL, "/") + "/" + m.Bucket + "/" + key
}

// StorageService 生成素材对象名并写入存储
type StorageService struct {
	Store AssetStore
	now   func() time.Time
}

// NewStorageService MinIO 不可用时回退到本地目录
func NewStorageService(ctx context.Context, cfg *config.Config) *StorageService {
	var store AssetStore
	if cfg.Storage.Type == util.StorageMinio {
		m, err := NewMinioAssetStore(ctx, &cfg.Storage)
		if err != nil {
			logger.Log.Error("Failed to initialize minio storage, falling back to local", zap.Error(err))
		} else {
			store = m
		}
	}
	if store == nil {
		store = &DiskAssetStore{Root: cfg.Storage.LocalPath}
	}

	return &StorageService{Store: store, now: time.Now}
}

// SaveAsset 对象名为 content/<日期>/<uuid><扩展名>，返回访问 URL
func (s *StorageService) SaveAsset(ctx context.Context, originalName string, reader io.Reader, size int64, contentType string) (string, error) {
	key := "content/" + s.now().UTC().Format("20060102") + "/" + uuid.NewString() + util.SafeExt(originalName)
	if err := s.Store.Put(ctx, key, reader, size, contentType); err != nil {
		return "", fmt.Errorf("save asset: %w", err)
	}
	return s.Store.URL(key), nil
}
