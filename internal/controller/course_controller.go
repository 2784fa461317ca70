package controller

import (
	"elearning_backend/internal/model"
	"elearning_backend/internal/service"
	"elearning_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type CourseController struct {
	CourseService *service.CourseService
}

func NewCourseController(courseService *service.CourseService) *CourseController {
	return &CourseController{CourseService: courseService}
}

// CreateCourseRequest 创建课程
type CreateCourseRequest struct {
	Title        string `json:"title" binding:"required,max=255"`
	Description  string `json:"description"`
	InstructorID uint   `json:"instructor_id"`
}

// UpdateCourseRequest 更新课程，空字段保持不变
type UpdateCourseRequest struct {
	Title       string `json:"title" binding:"max=255"`
	Description string `json:"description"`
}

// @Summary 创建课程
// @Description instructor_id 为空时使用当前用户
// @Tags 课程
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body CreateCourseRequest true "课程信息"
// @Success 201 {object} util.Response{data=model.Course}
// @Failure 400 {object} util.Response
// @Router /courses [post]
func (c *CourseController) CreateCourse(ctx *gin.Context) {
	var req CreateCourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	course := &model.Course{
		Title:        req.Title,
		Description:  req.Description,
		InstructorID: req.InstructorID,
	}
	if course.InstructorID == 0 {
		course.InstructorID = user.UserID
	}

	if err := c.CourseService.Create(ctx.Request.Context(), course); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, course)
}

// @Summary 课程列表
// @Tags 课程
// @Produce json
// @Success 200 {object} util.Response{data=[]model.Course}
// @Router /courses [get]
func (c *CourseController) ListCourses(ctx *gin.Context) {
	courses, err := c.CourseService.List(ctx.Request.Context())
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, courses)
}

// @Summary 精选课程
// @Description 报名人数最多的课程，包含无人报名的课程
// @Tags 课程
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.FeaturedCourse}
// @Router /courses/featured [get]
func (c *CourseController) FeaturedCourses(ctx *gin.Context) {
	courses, err := c.CourseService.Featured(ctx.Request.Context())
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, courses)
}

// @Summary 课程详情
// @Tags 课程
// @Produce json
// @Param id path int true "课程ID"
// @Success 200 {object} util.Response{data=model.Course}
// @Failure 404 {object} util.Response
// @Router /courses/{id} [get]
func (c *CourseController) GetCourse(ctx *gin.Context) {
	var uri IDURI
	if err := ctx.ShouldBindUri(&uri); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	course, err := c.CourseService.Get(ctx.Request.Context(), uri.ID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, course)
}

// @Summary 更新课程
// @Tags 课程
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "课程ID"
// @Param body body UpdateCourseRequest true "课程信息"
// @Success 200 {object} util.Response{data=model.Course}
// @Failure 404 {object} util.Response
// @Router /courses/{id} [put]
func (c *CourseController) UpdateCourse(ctx *gin.Context) {
	var uri IDURI
	if err := ctx.ShouldBindUri(&uri); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	var req UpdateCourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	course, err := c.CourseService.Update(ctx.Request.Context(), uri.ID, req.Title, req.Description)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, course)
}

// @Summary 删除课程
// @Description 同时删除课程下的全部内容
// @Tags 课程
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "课程ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /courses/{id} [delete]
func (c *CourseController) DeleteCourse(ctx *gin.Context) {
	var uri IDURI
	if err := ctx.ShouldBindUri(&uri); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.CourseService.Delete(ctx.Request.Context(), uri.ID); err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"id": uri.ID})
}
