package controller

import (
	"elearning_backend/internal/service"
	"elearning_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ProgressController struct {
	ProgressService *service.ProgressService
}

func NewProgressController(progressService *service.ProgressService) *ProgressController {
	return &ProgressController{ProgressService: progressService}
}

// MarkCompletedRequest 标记内容完成，user_id 为空时使用当前用户
type MarkCompletedRequest struct {
	UserID    uint `json:"user_id"`
	CourseID  uint `json:"course_id" binding:"required,min=1"`
	ContentID uint `json:"content_id" binding:"required,min=1"`
	TimeSpent int  `json:"time_spent" binding:"min=0"`
}

// @Summary 标记内容完成
// @Description 学生只能为自己标记；同一内容重复标记返回400
// @Tags 学习进度
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body MarkCompletedRequest true "完成信息"
// @Success 201 {object} util.Response{data=model.Progress}
// @Failure 400 {object} util.Response
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response "内容不存在"
// @Router /progress [post]
func (c *ProgressController) MarkCompleted(ctx *gin.Context) {
	var req MarkCompletedRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}
	if req.UserID == 0 {
		req.UserID = user.UserID
	}
	if req.UserID != user.UserID && user.IsStudent() {
		util.Forbidden(ctx)
		return
	}

	progress, err := c.ProgressService.MarkCompleted(ctx.Request.Context(), req.UserID, req.CourseID, req.ContentID, req.TimeSpent)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, progress)
}

// @Summary 用户课程学习进度
// @Tags 学习进度
// @Produce json
// @Security ApiKeyAuth
// @Param user_id path int true "用户ID"
// @Param course_id path int true "课程ID"
// @Success 200 {object} util.Response{data=[]model.Progress}
// @Router /progress/{user_id}/{course_id} [get]
func (c *ProgressController) GetProgress(ctx *gin.Context) {
	var uri UserCourseURI
	if err := ctx.ShouldBindUri(&uri); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	records, err := c.ProgressService.List(ctx.Request.Context(), uri.UserID, uri.CourseID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, records)
}
