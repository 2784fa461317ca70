package service

import (
	"context"
	"elearning_backend/internal/model"
	"elearning_backend/internal/repository"
	"elearning_backend/internal/testsupport"
	"elearning_backend/internal/util"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgressService_MarkCompleted(t *testing.T) {
	db := testsupport.NewTestDB(t)
	f := testsupport.NewFixtures(t, db)
	svc := NewProgressService(repository.NewProgressRepository(db), repository.NewContentRepository(db))
	svc.now = func() time.Time { return analyticsNow }
	ctx := context.Background()

	instructor := f.CreateUser(model.Instructor)
	student := f.CreateUser(model.Student)
	course := f.CreateCourse(instructor.ID)
	item := f.CreateContent(course.ID, 1)

	progress, err := svc.MarkCompleted(ctx, student.ID, course.ID, item.ID, 120)
	require.NoError(t, err)
	assert.NotZero(t, progress.ID)
	assert.Equal(t, 120, progress.TimeSpent)
	assert.True(t, progress.CompletedAt.Equal(analyticsNow))

	_, err = svc.MarkCompleted(ctx, student.ID, course.ID, item.ID, 30)
	assert.ErrorIs(t, err, util.ErrAlreadyCompleted)

	records, err := svc.List(ctx, student.ID, course.ID)
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.NotNil(t, records[0].Content)
	assert.Equal(t, item.ID, records[0].Content.ID)
}

func TestProgressService_MarkCompleted_ContentNotInCourse(t *testing.T) {
	db := testsupport.NewTestDB(t)
	f := testsupport.NewFixtures(t, db)
	svc := NewProgressService(repository.NewProgressRepository(db), repository.NewContentRepository(db))
	ctx := context.Background()

	instructor := f.CreateUser(model.Instructor)
	student := f.CreateUser(model.Student)
	course := f.CreateCourse(instructor.ID)
	other := f.CreateCourse(instructor.ID)
	item := f.CreateContent(other.ID, 1)

	_, err := svc.MarkCompleted(ctx, student.ID, course.ID, item.ID, 10)
	assert.ErrorIs(t, err, util.ErrContentNotFound)

	_, err = svc.MarkCompleted(ctx, student.ID, course.ID, 9999, 10)
	assert.ErrorIs(t, err, util.ErrContentNotFound)
}

func TestProgressService_MarkCompleted_ConcurrentDuplicates(t *testing.T) {
	db := testsupport.NewTestDB(t)
	f := testsupport.NewFixtures(t, db)
	svc := NewProgressService(repository.NewProgressRepository(db), repository.NewContentRepository(db))

	instructor := f.CreateUser(model.Instructor)
	student := f.CreateUser(model.Student)
	course := f.CreateCourse(instructor.ID)
	item := f.CreateContent(course.ID, 1)

	const workers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		created   int
		duplicate int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.MarkCompleted(context.Background(), student.ID, course.ID, item.ID, 10)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				created++
			case assert.ErrorIs(t, err, util.ErrAlreadyCompleted):
				duplicate++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, created)
	assert.Equal(t, workers-1, duplicate)

	var count int64
	require.NoError(t, db.Model(&model.Progress{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}
