package controller

import (
	"elearning_backend/internal/service"
	"elearning_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type UserController struct {
	UserService *service.UserService
}

func NewUserController(userService *service.UserService) *UserController {
	return &UserController{UserService: userService}
}

// EmailQuery 按邮箱查询
type EmailQuery struct {
	Email string `form:"email" binding:"required,email"`
}

// @Summary 用户列表
// @Tags 用户
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.User}
// @Router /users [get]
func (c *UserController) ListUsers(ctx *gin.Context) {
	users, err := c.UserService.List(ctx.Request.Context())
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, users)
}

// @Summary 根据ID获取用户
// @Tags 用户
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "用户ID"
// @Success 200 {object} util.Response{data=model.User}
// @Failure 404 {object} util.Response
// @Router /users/user/{id} [get]
func (c *UserController) GetUser(ctx *gin.Context) {
	var uri IDURI
	if err := ctx.ShouldBindUri(&uri); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user, err := c.UserService.GetByID(ctx.Request.Context(), uri.ID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, user)
}

// @Summary 根据邮箱获取用户
// @Tags 用户
// @Produce json
// @Security ApiKeyAuth
// @Param email query string true "邮箱"
// @Success 200 {object} util.Response{data=model.User}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /users/email [get]
func (c *UserController) GetUserByEmail(ctx *gin.Context) {
	var q EmailQuery
	if err := ctx.ShouldBindQuery(&q); err != nil {
		util.BadRequest(ctx, "Email is required")
		return
	}

	user, err := c.UserService.GetByEmail(ctx.Request.Context(), q.Email)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, user)
}
