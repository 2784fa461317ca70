package controller

import (
	"elearning_backend/internal/service"
	"elearning_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type DashboardController struct {
	DashboardService *service.DashboardService
}

func NewDashboardController(dashboardService *service.DashboardService) *DashboardController {
	return &DashboardController{DashboardService: dashboardService}
}

// @Summary 用户仪表盘
// @Description 已报名课程、完成百分比、学习记录和通知
// @Tags 仪表盘
// @Produce json
// @Security ApiKeyAuth
// @Param user_id path int true "用户ID"
// @Success 200 {object} util.Response{data=model.Dashboard}
// @Router /dashboard/{user_id} [get]
func (c *DashboardController) GetDashboard(ctx *gin.Context) {
	var uri UserURI
	if err := ctx.ShouldBindUri(&uri); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	dashboard, err := c.DashboardService.GetDashboard(ctx.Request.Context(), uri.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, dashboard)
}
