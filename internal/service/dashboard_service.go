package service

import (
	"context"
	"elearning_backend/internal/model"
	"elearning_backend/internal/repository"
)

type DashboardService struct {
	EnrollmentRepo   *repository.EnrollmentRepository
	NotificationRepo *repository.NotificationRepository
	ProgressRepo     *repository.ProgressRepository
	Analytics        *AnalyticsService
}

func NewDashboardService(
	enrollmentRepo *repository.EnrollmentRepository,
	notificationRepo *repository.NotificationRepository,
	progressRepo *repository.ProgressRepository,
	analytics *AnalyticsService,
) *DashboardService {
	return &DashboardService{
		EnrollmentRepo:   enrollmentRepo,
		NotificationRepo: notificationRepo,
		ProgressRepo:     progressRepo,
		Analytics:        analytics,
	}
}

// GetDashboard 已报名课程及进度，以及最新通知
func (s *DashboardService) GetDashboard(ctx context.Context, userID uint) (*model.Dashboard, error) {
	enrollments, err := s.EnrollmentRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	dashboard := &model.Dashboard{
		Courses: make([]model.CourseProgress, 0, len(enrollments)),
	}
	for _, e := range enrollments {
		// 课程已删除
		if e.Course == nil {
			continue
		}

		progress, err := s.ProgressRepo.ListByUserCourse(ctx, userID, e.CourseID, false)
		if err != nil {
			return nil, err
		}
		pct, err := s.Analytics.CompletionPercentage(ctx, userID, e.CourseID)
		if err != nil {
			return nil, err
		}

		dashboard.Courses = append(dashboard.Courses, model.CourseProgress{
			Course:               *e.Course,
			CompletionPercentage: pct.CompletionPercentage,
			Progress:             progress,
		})
	}

	notifications, err := s.NotificationRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	dashboard.Notifications = notifications

	return dashboard, nil
}
