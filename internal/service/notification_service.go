package service

import (
	"context"
	"elearning_backend/internal/model"
	"elearning_backend/internal/repository"
	"elearning_backend/internal/util"
	"elearning_backend/pkg/logger"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const notificationSubject = "New Notification"

type NotificationService struct {
	NotificationRepo *repository.NotificationRepository
	UserRepo         *repository.UserRepository
	Emails           EmailDispatcher
}

func NewNotificationService(
	notificationRepo *repository.NotificationRepository,
	userRepo *repository.UserRepository,
	emails EmailDispatcher,
) *NotificationService {
	return &NotificationService{
		NotificationRepo: notificationRepo,
		UserRepo:         userRepo,
		Emails:           emails,
	}
}

// Send 先持久化通知再异步投递邮件，邮件失败只记录日志
func (s *NotificationService) Send(ctx context.Context, userID uint, message string) (*model.Notification, error) {
	user, err := s.UserRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}

	notification := &model.Notification{
		UserID:  userID,
		Message: message,
	}
	if err := s.NotificationRepo.Create(ctx, notification); err != nil {
		return nil, err
	}

	job := EmailJob{
		NotificationID: notification.ID,
		ToName:         user.Name,
		ToAddress:      user.Email,
		Subject:        notificationSubject,
		Body:           message,
	}
	if err := s.Emails.Dispatch(ctx, job); err != nil {
		logger.Ctx(ctx).Error("Failed to dispatch notification email",
			zap.Uint("notification_id", notification.ID),
			zap.Error(err),
		)
	}

	return notification, nil
}

func (s *NotificationService) ListByUser(ctx context.Context, userID uint) ([]model.Notification, error) {
	return s.NotificationRepo.ListByUser(ctx, userID)
}

// MarkRead 只有通知所属用户或管理员可以标记
func (s *NotificationService) MarkRead(ctx context.Context, id uint, caller *util.Claims) (*model.Notification, error) {
	n, err := s.NotificationRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrNotificationNotFound
		}
		return nil, err
	}
	if caller.Role != model.Admin && caller.UserID != n.UserID {
		return nil, util.ErrPermissionDenied
	}

	if err := s.NotificationRepo.MarkRead(ctx, id); err != nil {
		return nil, err
	}
	n.IsRead = true
	return n, nil
}
