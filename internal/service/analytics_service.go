package service

import (
	"context"
	"elearning_backend/internal/model"
	"elearning_backend/internal/util"
	"elearning_backend/pkg/tracing"
	"fmt"
	"math"
	"time"

	"go.opentelemetry.io/otel/attribute"
)

// AnalyticsService 只读统计，每次请求实时计算，不做缓存
type AnalyticsService struct {
	Progress    ProgressStore
	Enrollments EnrollmentStore
	Contents    ContentStore
	Users       UserStore
	Settings    *AnalyticsSettings

	now func() time.Time
}

func NewAnalyticsService(
	progress ProgressStore,
	enrollments EnrollmentStore,
	contents ContentStore,
	users UserStore,
	settings *AnalyticsSettings,
) *AnalyticsService {
	return &AnalyticsService{
		Progress:    progress,
		Enrollments: enrollments,
		Contents:    contents,
		Users:       users,
		Settings:    settings,
		now:         time.Now,
	}
}

// WithClock 替换时钟，测试使用
func (s *AnalyticsService) WithClock(now func() time.Time) *AnalyticsService {
	s.now = now
	return s
}

func storeFailure(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, util.ErrStoreFailure, err)
}

// percent 返回 round(100*part/whole)，whole 为 0 时返回 0
func percent(part, whole int64) int {
	if whole <= 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(whole) * 100))
}

// CompletionPercentage 用户已完成的不同内容占课程内容总数的百分比
func (s *AnalyticsService) CompletionPercentage(ctx context.Context, userID, courseID uint) (_ *model.CompletionPercentage, err error) {
	ctx, span := tracing.StartSpan(ctx, "analytics.CompletionPercentage",
		attribute.Int64("user_id", int64(userID)),
		attribute.Int64("course_id", int64(courseID)),
	)
	defer func() { tracing.EndSpan(span, err) }()

	total, err := s.Contents.CountByCourse(ctx, courseID)
	if err != nil {
		return nil, storeFailure("count course content", err)
	}
	if total == 0 {
		return &model.CompletionPercentage{}, nil
	}

	completed, err := s.Progress.CountDistinctContent(ctx, userID, courseID)
	if err != nil {
		return nil, storeFailure("count completed content", err)
	}
	if completed > total {
		completed = total
	}

	return &model.CompletionPercentage{CompletionPercentage: percent(completed, total)}, nil
}

// CourseTimeAnalytics 课程总学习时长及每条记录的平均时长
func (s *AnalyticsService) CourseTimeAnalytics(ctx context.Context, courseID uint) (_ *model.TimeAnalytics, err error) {
	ctx, span := tracing.StartSpan(ctx, "analytics.CourseTimeAnalytics", attribute.Int64("course_id", int64(courseID)))
	defer func() { tracing.EndSpan(span, err) }()

	total, records, err := s.Progress.SumTimeByCourse(ctx, courseID)
	if err != nil {
		return nil, storeFailure("sum time spent", err)
	}

	result := &model.TimeAnalytics{TotalTimeSpent: total}
	if records > 0 {
		result.AverageTimeSpent = float64(total) / float64(records)
	}
	return result, nil
}

// CompletionRate 完成全部内容的用户数占报名人数的百分比
func (s *AnalyticsService) CompletionRate(ctx context.Context, courseID uint) (_ *model.CompletionRate, err error) {
	ctx, span := tracing.StartSpan(ctx, "analytics.CompletionRate", attribute.Int64("course_id", int64(courseID)))
	defer func() { tracing.EndSpan(span, err) }()

	enrollments, err := s.Enrollments.CountByCourse(ctx, courseID)
	if err != nil {
		return nil, storeFailure("count enrollments", err)
	}
	if enrollments == 0 {
		return &model.CompletionRate{}, nil
	}

	total, err := s.Contents.CountByCourse(ctx, courseID)
	if err != nil {
		return nil, storeFailure("count course content", err)
	}
	if total == 0 {
		return &model.CompletionRate{}, nil
	}

	completedUsers, err := s.Progress.CountUsersCompleted(ctx, courseID, total)
	if err != nil {
		return nil, storeFailure("count completed users", err)
	}

	rate := percent(completedUsers, enrollments)
	if rate > 100 {
		rate = 100
	}
	return &model.CompletionRate{CompletionRate: rate}, nil
}

// PopularCourses 报名人数最多的课程
func (s *AnalyticsService) PopularCourses(ctx context.Context) (_ []model.PopularCourse, err error) {
	ctx, span := tracing.StartSpan(ctx, "analytics.PopularCourses")
	defer func() { tracing.EndSpan(span, err) }()

	courses, err := s.Enrollments.TopCourses(ctx, s.Settings.TopLimit())
	if err != nil {
		return nil, storeFailure("top courses", err)
	}
	if courses == nil {
		courses = []model.PopularCourse{}
	}
	return courses, nil
}

// UserEngagement 活跃窗口内的活跃用户数及人均完成次数
func (s *AnalyticsService) UserEngagement(ctx context.Context) (_ *model.UserEngagement, err error) {
	ctx, span := tracing.StartSpan(ctx, "analytics.UserEngagement")
	defer func() { tracing.EndSpan(span, err) }()

	since := s.now().UTC().Add(-s.Settings.Window())
	interactions, users, err := s.Progress.CountSince(ctx, since)
	if err != nil {
		return nil, storeFailure("count recent progress", err)
	}

	result := &model.UserEngagement{ActiveUsers: users}
	if users > 0 {
		result.InteractionsPerUser = float64(interactions) / float64(users)
	}
	return result, nil
}

// RetentionRates 有学习记录的用户中，活跃窗口内仍有记录的比例
func (s *AnalyticsService) RetentionRates(ctx context.Context) (_ *model.RetentionSummary, err error) {
	ctx, span := tracing.StartSpan(ctx, "analytics.RetentionRates")
	defer func() { tracing.EndSpan(span, err) }()

	now := s.now().UTC()
	since := now.Add(-s.Settings.Window())

	userIDs, err := s.Users.ListIDs(ctx)
	if err != nil {
		return nil, storeFailure("list users", err)
	}
	first, err := s.Progress.FirstInteractions(ctx)
	if err != nil {
		return nil, storeFailure("first interactions", err)
	}
	activeIDs, err := s.Progress.ActiveUserIDs(ctx, since)
	if err != nil {
		return nil, storeFailure("active users", err)
	}

	active := make(map[uint]struct{}, len(activeIDs))
	for _, id := range activeIDs {
		active[id] = struct{}{}
	}

	summary := &model.RetentionSummary{UserRetention: []model.UserRetention{}}
	var activeCount int64
	for _, id := range userIDs {
		firstAt, ok := first[id]
		if !ok {
			continue
		}
		_, isActive := active[id]
		if isActive {
			activeCount++
		}
		summary.UserRetention = append(summary.UserRetention, model.UserRetention{
			UserID:                    id,
			DaysSinceFirstInteraction: int(math.Floor(now.Sub(firstAt).Hours() / 24)),
			IsActive:                  isActive,
		})
	}

	summary.RetentionRate = percent(activeCount, int64(len(summary.UserRetention)))
	return summary, nil
}

// ContentPopularity 课程内各内容的完成次数，降序
func (s *AnalyticsService) ContentPopularity(ctx context.Context, courseID uint) (_ []model.ContentPopularity, err error) {
	ctx, span := tracing.StartSpan(ctx, "analytics.ContentPopularity", attribute.Int64("course_id", int64(courseID)))
	defer func() { tracing.EndSpan(span, err) }()

	items, err := s.Progress.ContentPopularity(ctx, courseID)
	if err != nil {
		return nil, storeFailure("content popularity", err)
	}
	if items == nil {
		items = []model.ContentPopularity{}
	}
	return items, nil
}

// ProgressOverTime 用户在课程中的完成时间线
func (s *AnalyticsService) ProgressOverTime(ctx context.Context, userID, courseID uint) (_ []model.ProgressTimelineEntry, err error) {
	ctx, span := tracing.StartSpan(ctx, "analytics.ProgressOverTime",
		attribute.Int64("user_id", int64(userID)),
		attribute.Int64("course_id", int64(courseID)),
	)
	defer func() { tracing.EndSpan(span, err) }()

	records, err := s.Progress.ListByUserCourse(ctx, userID, courseID, false)
	if err != nil {
		return nil, storeFailure("list progress", err)
	}

	timeline := make([]model.ProgressTimelineEntry, 0, len(records))
	for _, r := range records {
		timeline = append(timeline, model.ProgressTimelineEntry{
			ContentID:   r.ContentID,
			CompletedAt: r.CompletedAt,
			TimeSpent:   r.TimeSpent,
		})
	}
	return timeline, nil
}
