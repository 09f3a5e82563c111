package controller

import (
	"exam_platform_backend/internal/service"
	"exam_platform_backend/internal/util"
	"fmt"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type UploadController struct {
	Storage *service.StorageService
}

func NewUploadController(storage *service.StorageService) *UploadController {
	return &UploadController{Storage: storage}
}

var allowedImageExt = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
	".svg":  true,
}

// @Summary 上传题干引用的图片
// @Tags 上传
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "图片文件"
// @Success 201 {object} util.Response
// @Router /api/admin/upload/image [post]
func (c *UploadController) UploadImage(ctx *gin.Context) {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "未找到上传文件")
		return
	}

	ext := filepath.Ext(fileHeader.Filename)
	if !allowedImageExt[ext] {
		util.BadRequest(ctx, "不支持的图片格式")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer file.Close()

	filename := fmt.Sprintf("images/%s/%s%s", time.Now().Format("2006-01"), uuid.New().String(), ext)
	contentType := fileHeader.Header.Get("Content-Type")

	url, err := c.Storage.Upload(ctx.Request.Context(), filename, file, fileHeader.Size, contentType)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, gin.H{"url": url, "filename": filename})
}
