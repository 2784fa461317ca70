package controller

import (
	"elearning_backend/internal/service"
	"elearning_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AnalyticsController struct {
	AnalyticsService *service.AnalyticsService
}

func NewAnalyticsController(analyticsService *service.AnalyticsService) *AnalyticsController {
	return &AnalyticsController{AnalyticsService: analyticsService}
}

// @Summary 课程学习时长
// @Tags 统计分析
// @Produce json
// @Security ApiKeyAuth
// @Param course_id path int true "课程ID"
// @Success 200 {object} util.Response{data=model.TimeAnalytics}
// @Router /analytics/time/{course_id} [get]
func (c *AnalyticsController) CourseTime(ctx *gin.Context) {
	var uri CourseURI
	if err := ctx.ShouldBindUri(&uri); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.AnalyticsService.CourseTimeAnalytics(ctx.Request.Context(), uri.CourseID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// @Summary 课程完成率
// @Tags 统计分析
// @Produce json
// @Security ApiKeyAuth
// @Param course_id path int true "课程ID"
// @Success 200 {object} util.Response{data=model.CompletionRate}
// @Router /analytics/completion-rate/{course_id} [get]
func (c *AnalyticsController) CompletionRate(ctx *gin.Context) {
	var uri CourseURI
	if err := ctx.ShouldBindUri(&uri); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.AnalyticsService.CompletionRate(ctx.Request.Context(), uri.CourseID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// @Summary 用户课程完成百分比
// @Tags 统计分析
// @Produce json
// @Security ApiKeyAuth
// @Param user_id path int true "用户ID"
// @Param course_id path int true "课程ID"
// @Success 200 {object} util.Response{data=model.CompletionPercentage}
// @Router /analytics/completion/{user_id}/{course_id} [get]
func (c *AnalyticsController) CompletionPercentage(ctx *gin.Context) {
	var uri UserCourseURI
	if err := ctx.ShouldBindUri(&uri); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.AnalyticsService.CompletionPercentage(ctx.Request.Context(), uri.UserID, uri.CourseID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// @Summary 热门课程
// @Tags 统计分析
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.PopularCourse}
// @Router /analytics/popular [get]
func (c *AnalyticsController) PopularCourses(ctx *gin.Context) {
	result, err := c.AnalyticsService.PopularCourses(ctx.Request.Context())
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// @Summary 用户参与度
// @Tags 统计分析
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=model.UserEngagement}
// @Router /analytics/engagement [get]
func (c *AnalyticsController) UserEngagement(ctx *gin.Context) {
	result, err := c.AnalyticsService.UserEngagement(ctx.Request.Context())
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// @Summary 用户留存率
// @Tags 统计分析
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=model.RetentionSummary}
// @Router /analytics/retention [get]
func (c *AnalyticsController) RetentionRates(ctx *gin.Context) {
	result, err := c.AnalyticsService.RetentionRates(ctx.Request.Context())
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// @Summary 内容热度
// @Tags 统计分析
// @Produce json
// @Security ApiKeyAuth
// @Param course_id path int true "课程ID"
// @Success 200 {object} util.Response{data=[]model.ContentPopularity}
// @Router /analytics/content-popularity/{course_id} [get]
func (c *AnalyticsController) ContentPopularity(ctx *gin.Context) {
	var uri CourseURI
	if err := ctx.ShouldBindUri(&uri); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.AnalyticsService.ContentPopularity(ctx.Request.Context(), uri.CourseID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// @Summary 学习进度时间线
// @Tags 统计分析
// @Produce json
// @Security ApiKeyAuth
// @Param user_id path int true "用户ID"
// @Param course_id path int true "课程ID"
// @Success 200 {object} util.Response{data=[]model.ProgressTimelineEntry}
// @Router /analytics/progress-over-time/{user_id}/{course_id} [get]
func (c *AnalyticsController) ProgressOverTime(ctx *gin.Context) {
	var uri UserCourseURI
	if err := ctx.ShouldBindUri(&uri); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.AnalyticsService.ProgressOverTime(ctx.Request.Context(), uri.UserID, uri.CourseID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, result)
}
