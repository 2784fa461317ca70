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

type EnrollmentService struct {
	EnrollmentRepo *repository.EnrollmentRepository
	UserRepo       *repository.UserRepository
	CourseRepo     *repository.CourseRepository

	now func() time.Time
}

func NewEnrollmentService(
	enrollmentRepo *repository.EnrollmentRepository,
	userRepo *repository.UserRepository,
	courseRepo *repository.CourseRepository,
) *EnrollmentService {
	return &EnrollmentService{
		EnrollmentRepo: enrollmentRepo,
		UserRepo:       userRepo,
		CourseRepo:     courseRepo,
		now:            time.Now,
	}
}

// Enroll 报名课程，重复报名由唯一索引识别
func (s *EnrollmentService) Enroll(ctx context.Context, userID, courseID uint) (*model.Enrollment, error) {
	if _, err := s.UserRepo.FindByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}
	if _, err := s.CourseRepo.FindByID(ctx, courseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}

	enrollment := &model.Enrollment{
		UserID:     userID,
		CourseID:   courseID,
		EnrolledAt: s.now().UTC(),
	}
	if err := s.EnrollmentRepo.Create(ctx, enrollment); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, util.ErrAlreadyEnrolled
		}
		return nil, err
	}

	monitoring.Enrollments.Inc()
	logger.Ctx(ctx).Info("User enrolled", zap.Uint("user_id", userID), zap.Uint("course_id", courseID))
	return enrollment, nil
}

func (s *EnrollmentService) ListByUser(ctx context.Context, userID uint) ([]model.Enrollment, error) {
	return s.EnrollmentRepo.ListByUser(ctx, userID)
}

func (s *EnrollmentService) ListByCourse(ctx context.Context, courseID uint) ([]model.Enrollment, error) {
	return s.EnrollmentRepo.ListByCourse(ctx, courseID)
}
