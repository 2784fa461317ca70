package service

import (
	"context"
	"elearning_backend/internal/model"
	"elearning_backend/internal/repository"
	"elearning_backend/internal/util"
	"elearning_backend/pkg/logger"
	"elearning_backend/pkg/monitoring"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ProgressService struct {
	ProgressRepo *repository.ProgressRepository
	ContentRepo  *repository.ContentRepository

	now func() time.Time
}

func NewProgressService(progressRepo *repository.ProgressRepository, contentRepo *repository.ContentRepository) *ProgressService {
	return &ProgressService{
		ProgressRepo: progressRepo,
		ContentRepo:  contentRepo,
		now:          time.Now,
	}
}

// MarkCompleted 记录一次内容完成
// 返回值三选一：新记录、util.ErrAlreadyCompleted、存储错误
func (s *ProgressService) MarkCompleted(ctx context.Context, userID, courseID, contentID uint, timeSpent int) (*model.Progress, error) {
	content, err := s.ContentRepo.FindByID(ctx, contentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrContentNotFound
		}
		return nil, err
	}
	if content.CourseID != courseID {
		return nil, util.ErrContentNotFound
	}

	progress := &model.Progress{
		UserID:      userID,
		CourseID:    courseID,
		ContentID:   contentID,
		TimeSpent:   timeSpent,
		CompletedAt: s.now().UTC(),
	}
	if err := s.ProgressRepo.Create(ctx, progress); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, util.ErrAlreadyCompleted
		}
		return nil, err
	}

	monitoring.ContentCompletions.Inc()
	logger.Ctx(ctx).Info("Content marked as completed",
		zap.Uint("user_id", userID),
		zap.Uint("course_id", courseID),
		zap.Uint("content_id", contentID),
		zap.Int("time_spent", timeSpent),
	)
	return progress, nil
}

// List 用户在课程中的学习记录，附带内容详情
func (s *ProgressService) List(ctx context.Context, userID, courseID uint) ([]model.Progress, error) {
	return s.ProgressRepo.ListByUserCourse(ctx, userID, courseID, true)
}
