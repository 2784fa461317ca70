package service

import (
	"context"
	"elearning_backend/internal/model"
	"time"
)

// ProgressStore 统计所需的学习记录查询
type ProgressStore interface {
	CountDistinctContent(ctx context.Context, userID, courseID uint) (int64, error)
	SumTimeByCourse(ctx context.Context, courseID uint) (total int64, records int64, err error)
	CountUsersCompleted(ctx context.Context, courseID uint, totalContent int64) (int64, error)
	CountSince(ctx context.Context, since time.Time) (interactions int64, users int64, err error)
	FirstInteractions(ctx context.Context) (map[uint]time.Time, error)
	ActiveUserIDs(ctx context.Context, since time.Time) ([]uint, error)
	ContentPopularity(ctx context.Context, courseID uint) ([]model.ContentPopularity, error)
	ListByUserCourse(ctx context.Context, userID, courseID uint, withContent bool) ([]model.Progress, error)
}

type EnrollmentStore interface {
	CountByCourse(ctx context.Context, courseID uint) (int64, error)
	TopCourses(ctx context.Context, limit int) ([]model.PopularCourse, error)
}

type ContentStore interface {
	CountByCourse(ctx context.Context, courseID uint) (int64, error)
}

type UserStore interface {
	ListIDs(ctx context.Context) ([]uint, error)
}
