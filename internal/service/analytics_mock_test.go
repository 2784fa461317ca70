package service

import (
	"context"
	"elearning_backend/internal/config"
	"elearning_backend/internal/model"
	"elearning_backend/internal/util"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockProgressStore struct {
	mock.Mock
}

func (m *mockProgressStore) CountDistinctContent(ctx context.Context, userID, courseID uint) (int64, error) {
	args := m.Called(ctx, userID, courseID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockProgressStore) SumTimeByCourse(ctx context.Context, courseID uint) (int64, int64, error) {
	args := m.Called(ctx, courseID)
	return args.Get(0).(int64), args.Get(1).(int64), args.Error(2)
}

func (m *mockProgressStore) CountUsersCompleted(ctx context.Context, courseID uint, totalContent int64) (int64, error) {
	args := m.Called(ctx, courseID, totalContent)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockProgressStore) CountSince(ctx context.Context, since time.Time) (int64, int64, error) {
	args := m.Called(ctx, since)
	return args.Get(0).(int64), args.Get(1).(int64), args.Error(2)
}

func (m *mockProgressStore) FirstInteractions(ctx context.Context) (map[uint]time.Time, error) {
	args := m.Called(ctx)
	first, _ := args.Get(0).(map[uint]time.Time)
	return first, args.Error(1)
}

func (m *mockProgressStore) ActiveUserIDs(ctx context.Context, since time.Time) ([]uint, error) {
	args := m.Called(ctx, since)
	ids, _ := args.Get(0).([]uint)
	return ids, args.Error(1)
}

func (m *mockProgressStore) ContentPopularity(ctx context.Context, courseID uint) ([]model.ContentPopularity, error) {
	args := m.Called(ctx, courseID)
	items, _ := args.Get(0).([]model.ContentPopularity)
	return items, args.Error(1)
}

func (m *mockProgressStore) ListByUserCourse(ctx context.Context, userID, courseID uint, withContent bool) ([]model.Progress, error) {
	args := m.Called(ctx, userID, courseID, withContent)
	records, _ := args.Get(0).([]model.Progress)
	return records, args.Error(1)
}

type mockCountStore struct {
	mock.Mock
}

func (m *mockCountStore) CountByCourse(ctx context.Context, courseID uint) (int64, error) {
	args := m.Called(ctx, courseID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockCountStore) TopCourses(ctx context.Context, limit int) ([]model.PopularCourse, error) {
	args := m.Called(ctx, limit)
	courses, _ := args.Get(0).([]model.PopularCourse)
	return courses, args.Error(1)
}

type mockUserStore struct {
	mock.Mock
}

func (m *mockUserStore) ListIDs(ctx context.Context) ([]uint, error) {
	args := m.Called(ctx)
	ids, _ := args.Get(0).([]uint)
	return ids, args.Error(1)
}

type mockedAnalytics struct {
	svc         *AnalyticsService
	progress    *mockProgressStore
	enrollments *mockCountStore
	contents    *mockCountStore
	users       *mockUserStore
}

func newMockedAnalytics() *mockedAnalytics {
	m := &mockedAnalytics{
		progress:    &mockProgressStore{},
		enrollments: &mockCountStore{},
		contents:    &mockCountStore{},
		users:       &mockUserStore{},
	}
	m.svc = NewAnalyticsService(m.progress, m.enrollments, m.contents, m.users, NewAnalyticsSettings(config.AnalyticsConfig{})).
		WithClock(func() time.Time { return analyticsNow })
	return m
}

var errStoreDown = errors.New("connection refused")

func assertStoreFailure(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	assert.ErrorIs(t, err, util.ErrStoreFailure)
	assert.ErrorIs(t, err, errStoreDown)
}

func TestAnalyticsService_StoreFailures(t *testing.T) {
	ctx := context.Background()
	anyCtx := mock.Anything

	t.Run("CompletionPercentage", func(t *testing.T) {
		m := newMockedAnalytics()
		m.contents.On("CountByCourse", anyCtx, uint(1)).Return(int64(2), nil)
		m.progress.On("CountDistinctContent", anyCtx, uint(7), uint(1)).Return(int64(0), errStoreDown)

		res, err := m.svc.CompletionPercentage(ctx, 7, 1)
		assert.Nil(t, res)
		assertStoreFailure(t, err)
	})

	t.Run("CourseTimeAnalytics", func(t *testing.T) {
		m := newMockedAnalytics()
		m.progress.On("SumTimeByCourse", anyCtx, uint(1)).Return(int64(0), int64(0), errStoreDown)

		_, err := m.svc.CourseTimeAnalytics(ctx, 1)
		assertStoreFailure(t, err)
	})

	t.Run("CompletionRate", func(t *testing.T) {
		m := newMockedAnalytics()
		m.enrollments.On("CountByCourse", anyCtx, uint(1)).Return(int64(0), errStoreDown)

		_, err := m.svc.CompletionRate(ctx, 1)
		assertStoreFailure(t, err)
	})

	t.Run("PopularCourses", func(t *testing.T) {
		m := newMockedAnalytics()
		m.enrollments.On("TopCourses", anyCtx, 5).Return(nil, errStoreDown)

		_, err := m.svc.PopularCourses(ctx)
		assertStoreFailure(t, err)
	})

	t.Run("UserEngagement", func(t *testing.T) {
		m := newMockedAnalytics()
		m.progress.On("CountSince", anyCtx, mock.AnythingOfType("time.Time")).Return(int64(0), int64(0), errStoreDown)

		_, err := m.svc.UserEngagement(ctx)
		assertStoreFailure(t, err)
	})

	t.Run("RetentionRates", func(t *testing.T) {
		m := newMockedAnalytics()
		m.users.On("ListIDs", anyCtx).Return([]uint{1, 2}, nil)
		m.progress.On("FirstInteractions", anyCtx).Return(nil, errStoreDown)

		_, err := m.svc.RetentionRates(ctx)
		assertStoreFailure(t, err)
	})

	t.Run("ContentPopularity", func(t *testing.T) {
		m := newMockedAnalytics()
		m.progress.On("ContentPopularity", anyCtx, uint(1)).Return(nil, errStoreDown)

		_, err := m.svc.ContentPopularity(ctx, 1)
		assertStoreFailure(t, err)
	})

	t.Run("ProgressOverTime", func(t *testing.T) {
		m := newMockedAnalytics()
		m.progress.On("ListByUserCourse", anyCtx, uint(7), uint(1), false).Return(nil, errStoreDown)

		_, err := m.svc.ProgressOverTime(ctx, 7, 1)
		assertStoreFailure(t, err)
	})
}

func TestAnalyticsService_CompletionPercentage_Clamped(t *testing.T) {
	m := newMockedAnalytics()
	m.contents.On("CountByCourse", mock.Anything, uint(1)).Return(int64(2), nil)
	m.progress.On("CountDistinctContent", mock.Anything, uint(7), uint(1)).Return(int64(3), nil)

	res, err := m.svc.CompletionPercentage(context.Background(), 7, 1)
	require.NoError(t, err)
	assert.Equal(t, 100, res.CompletionPercentage)
}

func TestAnalyticsService_CompletionRate_Clamped(t *testing.T) {
	m := newMockedAnalytics()
	m.enrollments.On("CountByCourse", mock.Anything, uint(1)).Return(int64(1), nil)
	m.contents.On("CountByCourse", mock.Anything, uint(1)).Return(int64(1), nil)
	// 未报名用户也可能完成全部内容
	m.progress.On("CountUsersCompleted", mock.Anything, uint(1), int64(1)).Return(int64(3), nil)

	res, err := m.svc.CompletionRate(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 100, res.CompletionRate)
}

func TestAnalyticsService_CompletionPercentage_Rounding(t *testing.T) {
	m := newMockedAnalytics()
	m.contents.On("CountByCourse", mock.Anything, uint(1)).Return(int64(3), nil)
	m.progress.On("CountDistinctContent", mock.Anything, uint(7), uint(1)).Return(int64(2), nil)

	res, err := m.svc.CompletionPercentage(context.Background(), 7, 1)
	require.NoError(t, err)
	assert.Equal(t, 67, res.CompletionPercentage)
	m.progress.AssertExpectations(t)
}

func TestAnalyticsService_UserEngagement_Window(t *testing.T) {
	m := newMockedAnalytics()
	since := analyticsNow.Add(-7 * day)
	m.progress.On("CountSince", mock.Anything, since).Return(int64(9), int64(4), nil)

	res, err := m.svc.UserEngagement(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(4), res.ActiveUsers)
	assert.InDelta(t, 2.25, res.InteractionsPerUser, 1e-9)
	m.progress.AssertExpectations(t)
}

func TestPercent(t *testing.T) {
	tests := []struct {
		part, whole int64
		want        int
	}{
		{0, 0, 0},
		{5, 0, 0},
		{1, 4, 25},
		{1, 3, 33},
		{1, 2, 50},
		{4, 4, 100},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, percent(tt.part, tt.whole), "percent(%d, %d)", tt.part, tt.whole)
	}
}
