package service

import (
	"context"
	"elearning_backend/internal/model"
	"elearning_backend/internal/repository"
	"elearning_backend/internal/util"
	"elearning_backend/pkg/logger"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type CourseService struct {
	CourseRepo *repository.CourseRepository
	Settings   *AnalyticsSettings
}

func NewCourseService(courseRepo *repository.CourseRepository, settings *AnalyticsSettings) *CourseService {
	return &CourseService{
		CourseRepo: courseRepo,
		Settings:   settings,
	}
}

func (s *CourseService) Create(ctx context.Context, course *model.Course) error {
	if err := s.CourseRepo.Create(ctx, course); err != nil {
		return err
	}
	logger.Ctx(ctx).Info("Course created", zap.Uint("course_id", course.ID), zap.Uint("instructor_id", course.InstructorID))
	return nil
}

func (s *CourseService) List(ctx context.Context) ([]model.Course, error) {
	return s.CourseRepo.List(ctx)
}

func (s *CourseService) Get(ctx context.Context, id uint) (*model.Course, error) {
	course, err := s.CourseRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}
	return course, nil
}

// Update 空字段保留原值
func (s *CourseService) Update(ctx context.Context, id uint, title, description string) (*model.Course, error) {
	course, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if title != "" {
		course.Title = title
	}
	if description != "" {
		course.Description = description
	}
	if err := s.CourseRepo.Update(ctx, course); err != nil {
		return nil, err
	}
	return course, nil
}

// Delete 删除课程及其全部内容
func (s *CourseService) Delete(ctx context.Context, id uint) error {
	if err := s.CourseRepo.DeleteWithContent(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrCourseNotFound
		}
		return err
	}
	logger.Ctx(ctx).Info("Course deleted", zap.Uint("course_id", id))
	return nil
}

// Featured 报名人数最多的课程，包含无人报名的课程
func (s *CourseService) Featured(ctx context.Context) ([]model.FeaturedCourse, error) {
	courses, err := s.CourseRepo.Featured(ctx, s.Settings.TopLimit())
	if err != nil {
		return nil, err
	}
	if courses == nil {
		courses = []model.FeaturedCourse{}
	}
	return courses, nil
}
