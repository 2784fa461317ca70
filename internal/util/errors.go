package util

import "errors"

var (
	ErrUserNotFound         = errors.New("User not found")
	ErrUserExists           = errors.New("User already exists")
	ErrInvalidCredentials   = errors.New("Invalid credentials")
	ErrCourseNotFound       = errors.New("Course not found")
	ErrContentNotFound      = errors.New("Content not found")
	ErrAlreadyEnrolled      = errors.New("User already enrolled in the course")
	ErrAlreadyCompleted     = errors.New("Content already marked as completed")
	ErrNotificationNotFound = errors.New("Notification not found")
	ErrPermissionDenied     = errors.New("permission denied")
	ErrInvalidRole          = errors.New("invalid role")
	ErrInvalidAsset         = errors.New("invalid asset")

	// ErrStoreFailure 存储不可用或查询失败，区别于“没有数据”
	ErrStoreFailure = errors.New("store failure")
)
