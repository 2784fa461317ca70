package repository

import (
	"context"
	"elearning_backend/internal/model"

	"gorm.io/gorm"
)

type CourseRepository struct {
	DB *gorm.DB
}

func NewCourseRepository(db *gorm.DB) *CourseRepository {
	return &CourseRepository{DB: db}
}

func (r *CourseRepository) Create(ctx context.Context, course *model.Course) error {
	return r.DB.WithContext(ctx).Create(course).Error
}

func (r *CourseRepository) FindByID(ctx context.Context, id uint) (*model.Course, error) {
	var course model.Course
	err := r.DB.WithContext(ctx).First(&course, id).Error
	return &course, err
}

func (r *CourseRepository) List(ctx context.Context) ([]model.Course, error) {
	var courses []model.Course
	err := r.DB.WithContext(ctx).Order("id ASC").Find(&courses).Error
	return courses, err
}

func (r *CourseRepository) Update(ctx context.Context, course *model.Course) error {
	return r.DB.WithContext(ctx).Save(course).Error
}

// DeleteWithContent 在同一事务中删除课程、内容及内容的学习记录，报名记录保留
func (r *CourseRepository) DeleteWithContent(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("course_id = ?", id).Delete(&model.Progress{}).Error; err != nil {
			return err
		}
		if err := tx.Where("course_id = ?", id).Delete(&model.ContentItem{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.Course{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// Featured 按报名人数降序的课程，LEFT JOIN 保留无人报名的课程
func (r *CourseRepository) Featured(ctx context.Context, limit int) ([]model.FeaturedCourse, error) {
	var courses []model.FeaturedCourse
	err := r.DB.WithContext(ctx).
		Model(&model.Course{}).
		Select("courses.id, courses.title, COUNT(enrollments.id) AS enrollments").
		Joins("LEFT JOIN enrollments ON enrollments.course_id = courses.id").
		Group("courses.id, courses.title").
		Order("COUNT(enrollments.id) DESC, courses.id ASC").
		Limit(limit).
		Scan(&courses).Error
	return courses, err
}
