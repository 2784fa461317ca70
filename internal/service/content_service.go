package service

import (
	"context"
	"elearning_backend/internal/model"
	"elearning_backend/internal/repository"
	"elearning_backend/internal/util"
	"elearning_backend/pkg/logger"
	"errors"
	"fmt"
	"io"
	"mime/multipart"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ContentService struct {
	ContentRepo    *repository.ContentRepository
	CourseRepo     *repository.CourseRepository
	StorageService *StorageService
}

func NewContentService(contentRepo *repository.ContentRepository, courseRepo *repository.CourseRepository, storageService *StorageService) *ContentService {
	return &ContentService{
		ContentRepo:    contentRepo,
		CourseRepo:     courseRepo,
		StorageService: storageService,
	}
}

// Add 课程不存在时返回 util.ErrCourseNotFound
func (s *ContentService) Add(ctx context.Context, item *model.ContentItem) error {
	if _, err := s.CourseRepo.FindByID(ctx, item.CourseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrCourseNotFound
		}
		return err
	}

	if err := s.ContentRepo.Create(ctx, item); err != nil {
		return err
	}
	logger.Ctx(ctx).Info("Course content added",
		zap.Uint("course_id", item.CourseID),
		zap.Uint("content_id", item.ID),
		zap.String("type", item.Type),
	)
	return nil
}

func (s *ContentService) ListByCourse(ctx context.Context, courseID uint) ([]model.ContentItem, error) {
	return s.ContentRepo.ListByCourse(ctx, courseID)
}

// UploadAsset 保存内容素材（视频、图片、音频、PDF），返回可在内容中引用的 URL
func (s *ContentService) UploadAsset(ctx context.Context, file *multipart.FileHeader) (string, error) {
	if file.Size > util.MaxAssetSize {
		return "", fmt.Errorf("%w: 文件过大，最大 %d MB", util.ErrInvalidAsset, util.MaxAssetSize>>20)
	}

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	// 深度验证 MIME 类型
	mimeType, err := util.ValidateMimeType(src, util.AllowedAssetTypes)
	if err != nil {
		return "", fmt.Errorf("%w: 非法的文件内容: %v", util.ErrInvalidAsset, err)
	}
	// 重置读取指针
	if seeker, ok := src.(io.Seeker); ok {
		if _, err := seeker.Seek(0, io.SeekStart); err != nil {
			return "", err
		}
	}

	url, err := s.StorageService.SaveAsset(ctx, file.Filename, src, file.Size, mimeType)
	if err != nil {
		return "", err
	}

	logger.Ctx(ctx).Info("Content asset uploaded", zap.String("url", url), zap.String("mime", mimeType))
	return url, nil
}
