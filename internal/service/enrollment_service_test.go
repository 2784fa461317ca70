package service

import (
	"context"
	"elearning_backend/internal/model"
	"elearning_backend/internal/repository"
	"elearning_backend/internal/testsupport"
	"elearning_backend/internal/util"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEnrollmentService(t *testing.T) (*EnrollmentService, *testsupport.Fixtures) {
	db := testsupport.NewTestDB(t)
	svc := NewEnrollmentService(
		repository.NewEnrollmentRepository(db),
		repository.NewUserRepository(db),
		repository.NewCourseRepository(db),
	)
	return svc, testsupport.NewFixtures(t, db)
}

func TestEnrollmentService_Enroll(t *testing.T) {
	svc, f := newEnrollmentService(t)
	ctx := context.Background()

	instructor := f.CreateUser(model.Instructor)
	student := f.CreateUser(model.Student)
	course := f.CreateCourse(instructor.ID)

	enrollment, err := svc.Enroll(ctx, student.ID, course.ID)
	require.NoError(t, err)
	assert.NotZero(t, enrollment.ID)
	assert.False(t, enrollment.EnrolledAt.IsZero())

	_, err = svc.Enroll(ctx, student.ID, course.ID)
	assert.ErrorIs(t, err, util.ErrAlreadyEnrolled)

	byUser, err := svc.ListByUser(ctx, student.ID)
	require.NoError(t, err)
	require.Len(t, byUser, 1)
	require.NotNil(t, byUser[0].Course)
	assert.Equal(t, course.Title, byUser[0].Course.Title)

	byCourse, err := svc.ListByCourse(ctx, course.ID)
	require.NoError(t, err)
	require.Len(t, byCourse, 1)
	require.NotNil(t, byCourse[0].User)
	assert.Equal(t, student.Email, byCourse[0].User.Email)
}

func TestEnrollmentService_Enroll_NotFound(t *testing.T) {
	svc, f := newEnrollmentService(t)
	ctx := context.Background()

	instructor := f.CreateUser(model.Instructor)
	course := f.CreateCourse(instructor.ID)

	_, err := svc.Enroll(ctx, 9999, course.ID)
	assert.ErrorIs(t, err, util.ErrUserNotFound)

	_, err = svc.Enroll(ctx, instructor.ID, 9999)
	assert.ErrorIs(t, err, util.ErrCourseNotFound)
}
