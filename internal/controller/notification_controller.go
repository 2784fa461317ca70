package controller

import (
	"elearning_backend/internal/service"
	"elearning_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type NotificationController struct {
	NotificationService *service.NotificationService
}

func NewNotificationController(notificationService *service.NotificationService) *NotificationController {
	return &NotificationController{NotificationService: notificationService}
}

// SendNotificationRequest 发送通知
type SendNotificationRequest struct {
	UserID  uint   `json:"user_id" binding:"required,min=1"`
	Message string `json:"message" binding:"required"`
}

// @Summary 发送通知
// @Description 保存站内通知并异步发送邮件，邮件失败不影响结果
// @Tags 通知
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body SendNotificationRequest true "通知内容"
// @Success 201 {object} util.Response{data=model.Notification}
// @Failure 404 {object} util.Response "用户不存在"
// @Router /notifications [post]
func (c *NotificationController) Send(ctx *gin.Context) {
	var req SendNotificationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	notification, err := c.NotificationService.Send(ctx.Request.Context(), req.UserID, req.Message)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, notification)
}

// @Summary 用户通知列表
// @Description 按创建时间倒序
// @Tags 通知
// @Produce json
// @Security ApiKeyAuth
// @Param user_id path int true "用户ID"
// @Success 200 {object} util.Response{data=[]model.Notification}
// @Router /notifications/user/{user_id} [get]
func (c *NotificationController) ListByUser(ctx *gin.Context) {
	var uri UserURI
	if err := ctx.ShouldBindUri(&uri); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	notifications, err := c.NotificationService.ListByUser(ctx.Request.Context(), uri.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, notifications)
}

// @Summary 标记通知已读
// @Tags 通知
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "通知ID"
// @Success 200 {object} util.Response{data=model.Notification}
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /notifications/{id}/read [put]
func (c *NotificationController) MarkRead(ctx *gin.Context) {
	var uri IDURI
	if err := ctx.ShouldBindUri(&uri); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	notification, err := c.NotificationService.MarkRead(ctx.Request.Context(), uri.ID, user)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, notification)
}
