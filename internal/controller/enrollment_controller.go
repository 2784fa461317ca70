package controller

import (
	"elearning_backend/internal/service"
	"elearning_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type EnrollmentController struct {
	EnrollmentService *service.EnrollmentService
}

func NewEnrollmentController(enrollmentService *service.EnrollmentService) *EnrollmentController {
	return &EnrollmentController{EnrollmentService: enrollmentService}
}

// EnrollRequest 报名课程
type EnrollRequest struct {
	UserID   uint `json:"user_id" binding:"required,min=1"`
	CourseID uint `json:"course_id" binding:"required,min=1"`
}

// @Summary 报名课程
// @Tags 报名
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body EnrollRequest true "报名信息"
// @Success 201 {object} util.Response{data=model.Enrollment}
// @Failure 400 {object} util.Response "已报名"
// @Failure 404 {object} util.Response "用户或课程不存在"
// @Router /enrollments [post]
func (c *EnrollmentController) Enroll(ctx *gin.Context) {
	var req EnrollRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	enrollment, err := c.EnrollmentService.Enroll(ctx.Request.Context(), req.UserID, req.CourseID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, enrollment)
}

// @Summary 用户的报名列表
// @Tags 报名
// @Produce json
// @Security ApiKeyAuth
// @Param user_id path int true "用户ID"
// @Success 200 {object} util.Response{data=[]model.Enrollment}
// @Router /enrollments/user/{user_id} [get]
func (c *EnrollmentController) ListByUser(ctx *gin.Context) {
	var uri UserURI
	if err := ctx.ShouldBindUri(&uri); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	enrollments, err := c.EnrollmentService.ListByUser(ctx.Request.Context(), uri.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, enrollments)
}

// @Summary 课程的报名列表
// @Tags 报名
// @Produce json
// @Security ApiKeyAuth
// @Param course_id path int true "课程ID"
// @Success 200 {object} util.Response{data=[]model.Enrollment}
// @Router /enrollments/course/{course_id} [get]
func (c *EnrollmentController) ListByCourse(ctx *gin.Context) {
	var uri CourseURI
	if err := ctx.ShouldBindUri(&uri); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	enrollments, err := c.EnrollmentService.ListByCourse(ctx.Request.Context(), uri.CourseID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, enrollments)
}
