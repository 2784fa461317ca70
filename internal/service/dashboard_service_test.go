package service

import (
	"context"
	"elearning_backend/internal/config"
	"elearning_backend/internal/model"
	"elearning_backend/internal/repository"
	"elearning_backend/internal/testsupport"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboardService_GetDashboard(t *testing.T) {
	db := testsupport.NewTestDB(t)
	f := testsupport.NewFixtures(t, db)

	progressRepo := repository.NewProgressRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	analytics := NewAnalyticsService(
		progressRepo,
		enrollmentRepo,
		repository.NewContentRepository(db),
		repository.NewUserRepository(db),
		NewAnalyticsSettings(config.AnalyticsConfig{}),
	)
	svc := NewDashboardService(enrollmentRepo, notificationRepo, progressRepo, analytics)
	ctx := context.Background()

	instructor := f.CreateUser(model.Instructor)
	student := f.CreateUser(model.Student)
	course := f.CreateCourse(instructor.ID)
	removed := f.CreateCourse(instructor.ID)
	c1 := f.CreateContent(course.ID, 1)
	f.CreateContent(course.ID, 2)
	f.Enroll(student.ID, course.ID)
	f.Enroll(student.ID, removed.ID)
	f.Complete(student.ID, course.ID, c1.ID, 15, analyticsNow)
	require.NoError(t, notificationRepo.Create(ctx, &model.Notification{UserID: student.ID, Message: "welcome"}))
	require.NoError(t, courseRepo.DeleteWithContent(ctx, removed.ID))

	dashboard, err := svc.GetDashboard(ctx, student.ID)
	require.NoError(t, err)

	require.Len(t, dashboard.Courses, 1)
	assert.Equal(t, course.ID, dashboard.Courses[0].ID)
	assert.Equal(t, 50, dashboard.Courses[0].CompletionPercentage)
	require.Len(t, dashboard.Courses[0].Progress, 1)
	assert.Equal(t, c1.ID, dashboard.Courses[0].Progress[0].ContentID)

	require.Len(t, dashboard.Notifications, 1)
	assert.Equal(t, "welcome", dashboard.Notifications[0].Message)
}
