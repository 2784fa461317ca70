package controller

import (
	"elearning_backend/internal/util"
	"errors"

	"github.com/gin-gonic/gin"
)

// respondError 将业务错误映射为 HTTP 响应，未知错误记录日志并返回 500
func respondError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrUserNotFound),
		errors.Is(err, util.ErrCourseNotFound),
		errors.Is(err, util.ErrContentNotFound),
		errors.Is(err, util.ErrNotificationNotFound):
		util.NotFoundWithMessage(ctx, err.Error())
	case errors.Is(err, util.ErrAlreadyEnrolled),
		errors.Is(err, util.ErrAlreadyCompleted),
		errors.Is(err, util.ErrUserExists),
		errors.Is(err, util.ErrInvalidCredentials),
		errors.Is(err, util.ErrInvalidRole),
		errors.Is(err, util.ErrInvalidAsset):
		util.BadRequest(ctx, err.Error())
	case errors.Is(err, util.ErrPermissionDenied):
		util.Forbidden(ctx)
	default:
		util.LogInternalError(ctx, err)
	}
}
