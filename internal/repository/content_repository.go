package repository

import (
	"context"
	"elearning_backend/internal/model"

	"gorm.io/gorm"
)

type ContentRepository struct {
	DB *gorm.DB
}

func NewContentRepository(db *gorm.DB) *ContentRepository {
	return &ContentRepository{DB: db}
}

func (r *ContentRepository) Create(ctx context.Context, item *model.ContentItem) error {
	return r.DB.WithContext(ctx).Create(item).Error
}

func (r *ContentRepository) FindByID(ctx context.Context, id uint) (*model.ContentItem, error) {
	var item model.ContentItem
	err := r.DB.WithContext(ctx).First(&item, id).Error
	return &item, err
}

// ListByCourse 按 order 升序
func (r *ContentRepository) ListByCourse(ctx context.Context, courseID uint) ([]model.ContentItem, error) {
	var items []model.ContentItem
	err := r.DB.WithContext(ctx).
		Where("course_id = ?", courseID).
		Order("sort_order ASC, id ASC").
		Find(&items).Error
	return items, err
}

func (r *ContentRepository) CountByCourse(ctx context.Context, courseID uint) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.ContentItem{}).Where("course_id = ?", courseID).Count(&count).Error
	return count, err
}
