package repository

import (
	"context"
	"elearning_backend/internal/model"

	"gorm.io/gorm"
)

type NotificationRepository struct {
	DB *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{DB: db}
}

func (r *NotificationRepository) Create(ctx context.Context, n *model.Notification) error {
	return r.DB.WithContext(ctx).Create(n).Error
}

// ListByUser 最新的在前
func (r *NotificationRepository) ListByUser(ctx context.Context, userID uint) ([]model.Notification, error) {
	var notifications []model.Notification
	err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&notifications).Error
	return notifications, err
}

func (r *NotificationRepository) FindByID(ctx context.Context, id uint) (*model.Notification, error) {
	var n model.Notification
	err := r.DB.WithContext(ctx).First(&n, id).Error
	return &n, err
}

func (r *NotificationRepository) MarkRead(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Model(&model.Notification{}).Where("id = ?", id).Update("is_read", true).Error
}
