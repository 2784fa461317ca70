package controller

import (
	"elearning_backend/internal/model"
	"elearning_backend/internal/service"
	"elearning_backend/internal/util"
	"encoding/json"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
)

type ContentController struct {
	ContentService *service.ContentService
}

func NewContentController(contentService *service.ContentService) *ContentController {
	return &ContentController{ContentService: contentService}
}

// AddContentRequest 添加课程内容，content 必须是 JSON 对象
type AddContentRequest struct {
	CourseID uint                   `json:"course_id" binding:"required,min=1"`
	Type     string                 `json:"type" binding:"required,max=50"`
	Content  map[string]interface{} `json:"content" binding:"required"`
	Order    *int                   `json:"order" binding:"required"`
}

// @Summary 添加课程内容
// @Tags 课程内容
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body AddContentRequest true "内容"
// @Success 201 {object} util.Response{data=model.ContentItem}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response "课程不存在"
// @Router /course-content [post]
func (c *ContentController) AddContent(ctx *gin.Context) {
	var req AddContentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	payload, err := json.Marshal(req.Content)
	if err != nil {
		util.BadRequest(ctx, "Content must be a JSON object")
		return
	}

	item := &model.ContentItem{
		CourseID: req.CourseID,
		Type:     req.Type,
		Content:  datatypes.JSON(payload),
		Order:    *req.Order,
	}
	if err := c.ContentService.Add(ctx.Request.Context(), item); err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, item)
}

// @Summary 课程内容列表
// @Description 按 order 升序
// @Tags 课程内容
// @Produce json
// @Security ApiKeyAuth
// @Param course_id path int true "课程ID"
// @Success 200 {object} util.Response{data=[]model.ContentItem}
// @Router /course-content/{course_id} [get]
func (c *ContentController) ListContent(ctx *gin.Context) {
	var uri CourseURI
	if err := ctx.ShouldBindUri(&uri); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	items, err := c.ContentService.ListByCourse(ctx.Request.Context(), uri.CourseID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, items)
}

// @Summary 上传内容素材
// @Description 上传视频、图片、音频或PDF，返回可写入内容的URL
// @Tags 课程内容
// @Accept multipart/form-data
// @Produce json
// @Security ApiKeyAuth
// @Param file formData file true "素材文件"
// @Success 201 {object} util.Response{data=object}
// @Failure 400 {object} util.Response
// @Router /course-content/upload [post]
func (c *ContentController) UploadAsset(ctx *gin.Context) {
	file, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "file is required")
		return
	}

	url, err := c.ContentService.UploadAsset(ctx.Request.Context(), file)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, gin.H{"url": url})
}
