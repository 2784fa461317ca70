package repository

import (
	"context"
	"elearning_backend/internal/model"

	"gorm.io/gorm"
)

type EnrollmentRepository struct {
	DB *gorm.DB
}

func NewEnrollmentRepository(db *gorm.DB) *EnrollmentRepository {
	return &EnrollmentRepository{DB: db}
}

// Create 重复报名时返回 gorm.ErrDuplicatedKey
func (r *EnrollmentRepository) Create(ctx context.Context, enrollment *model.Enrollment) error {
	return r.DB.WithContext(ctx).Create(enrollment).Error
}

func (r *EnrollmentRepository) CountByCourse(ctx context.Context, courseID uint) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.Enrollment{}).Where("course_id = ?", courseID).Count(&count).Error
	return count, err
}

// TopCourses 报名人数最多的课程，人数相同按课程ID升序
func (r *EnrollmentRepository) TopCourses(ctx context.Context, limit int) ([]model.PopularCourse, error) {
	var courses []model.PopularCourse
	err := r.DB.WithContext(ctx).
		Model(&model.Enrollment{}).
		Select("course_id, COUNT(*) AS enrollment_count").
		Group("course_id").
		Order("COUNT(*) DESC, course_id ASC").
		Limit(limit).
		Scan(&courses).Error
	return courses, err
}

func (r *EnrollmentRepository) ListByUser(ctx context.Context, userID uint) ([]model.Enrollment, error) {
	var enrollments []model.Enrollment
	err := r.DB.WithContext(ctx).
		Preload("Course").
		Where("user_id = ?", userID).
		Order("enrolled_at ASC, id ASC").
		Find(&enrollments).Error
	return enrollments, err
}

func (r *EnrollmentRepository) ListByCourse(ctx context.Context, courseID uint) ([]model.Enrollment, error) {
	var enrollments []model.Enrollment
	err := r.DB.WithContext(ctx).
		Preload("User").
		Where("course_id = ?", courseID).
		Order("enrolled_at ASC, id ASC").
		Find(&enrollments).Error
	return enrollments, err
}
