package controller

import (
	"exam_platform_backend/internal/model"
	"exam_platform_backend/internal/service"
	"exam_platform_backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
)

type ExamTemplateController struct {
	Service *service.ExamTemplateService
}

func NewExamTemplateController(svc *service.ExamTemplateService) *ExamTemplateController {
	return &ExamTemplateController{Service: svc}
}

// swagger:model CreateTemplateRequest
type CreateTemplateRequest struct {
	Name string `json:"name" binding:"required"`
}

// @Summary 创建考试模板
// @Tags 考试模板
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateTemplateRequest true "模板信息"
// @Success 201 {object} util.Response{data=model.ExamTemplate}
// @Router /api/admin/exam/templates [post]
func (c *ExamTemplateController) CreateTemplate(ctx *gin.Context) {
	var req CreateTemplateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	t, err := c.Service.CreateTemplate(claims.UserID, req.Name)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, t)
}

// @Summary 获取模板列表
// @Tags 考试模板
// @Produce json
// @Security BearerAuth
// @Param page query int false "页码"
// @Param limit query int false "每页数量"
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/admin/exam/templates [get]
func (c *ExamTemplateController) ListTemplates(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	rows, total, err := c.Service.ListTemplates(page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{List: rows, Total: total, Page: page, Limit: limit})
}

// @Summary 加载模板聚合（含题目与响应项）
// @Tags 考试模板
// @Produce json
// @Security BearerAuth
// @Param id path string true "模板ID"
// @Success 200 {object} util.Response{data=service.TemplateAggregate}
// @Router /api/admin/exam/templates/{id} [get]
func (c *ExamTemplateController) GetTemplate(ctx *gin.Context) {
	agg, err := c.Service.LoadTemplate(ctx.Param("id"))
	if err != nil {
		if service.IsNotFound(err) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, agg)
}

// swagger:model RenameTemplateRequest
type RenameTemplateRequest struct {
	Name string `json:"name" binding:"required"`
}

// @Summary 重命名模板
// @Tags 考试模板
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "模板ID"
// @Param body body RenameTemplateRequest true "新名称"
// @Success 200 {object} util.Response{data=model.ExamTemplate}
// @Router /api/admin/exam/templates/{id} [patch]
func (c *ExamTemplateController) RenameTemplate(ctx *gin.Context) {
	var req RenameTemplateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	t, err := c.Service.RenameTemplate(claims.UserID, ctx.Param("id"), req.Name)
	if err != nil {
		if service.IsNotFound(err) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, t)
}

// @Summary 删除模板（级联删除题目与响应项）
// @Tags 考试模板
// @Produce json
// @Security BearerAuth
// @Param id path string true "模板ID"
// @Success 200 {object} util.Response
// @Router /api/admin/exam/templates/{id} [delete]
func (c *ExamTemplateController) DeleteTemplate(ctx *gin.Context) {
	if err := c.Service.DeleteTemplate(ctx.Param("id")); err != nil {
		if service.IsNotFound(err) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, nil)
}

// swagger:model AddQuestionRequest
type AddQuestionRequest struct {
	Type      model.QuestionType      `json:"type" binding:"required"`
	Body      string                  `json:"body"`
	Responses []service.ResponseDraft `json:"responses"`
}

// @Summary 向模板追加题目
// @Tags 考试模板
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "模板ID"
// @Param body body AddQuestionRequest true "题目信息"
// @Success 201 {object} util.Response{data=model.ExamTemplateQuestion}
// @Router /api/admin/exam/templates/{id}/questions [post]
func (c *ExamTemplateController) AddQuestion(ctx *gin.Context) {
	var req AddQuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	q, err := c.Service.AddQuestion(claims.UserID, ctx.Param("id"), req.Type, req.Body, req.Responses)
	if err != nil {
		if service.IsNotFound(err) {
			util.NotFound(ctx)
			return
		}
		if err == util.ErrInvalidQuestionType {
			util.BadRequest(ctx, err.Error())
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, q)
}

// @Summary 更新题目（连带写穿请求中携带的响应项）
// @Tags 考试模板
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param questionId path string true "题目ID"
// @Param body body service.QuestionUpdateReq true "题目更新"
// @Success 200 {object} util.Response{data=model.ExamTemplateQuestion}
// @Router /api/admin/exam/questions/{questionId} [patch]
func (c *ExamTemplateController) UpdateQuestion(ctx *gin.Context) {
	var req service.QuestionUpdateReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	q, err := c.Service.UpdateQuestion(ctx.Param("questionId"), req)
	if err != nil {
		if service.IsNotFound(err) {
			util.NotFound(ctx)
			return
		}
		if err == util.ErrInvalidQuestionType {
			util.BadRequest(ctx, err.Error())
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, q)
}

// @Summary 删除题目（级联删除其响应项）
// @Tags 考试模板
// @Produce json
// @Security BearerAuth
// @Param id path string true "模板ID"
// @Param questionId path string true "题目ID"
// @Success 200 {object} util.Response{data=service.TemplateAggregate}
// @Router /api/admin/exam/templates/{id}/questions/{questionId} [delete]
func (c *ExamTemplateController) DeleteQuestion(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	agg, err := c.Service.LoadTemplate(ctx.Param("id"))
	if err != nil {
		if service.IsNotFound(err) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	if err := c.Service.DeleteQuestion(claims.UserID, agg, ctx.Param("questionId")); err != nil {
		if service.IsNotFound(err) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	// 返回更新后的聚合，选中游标已被清理
	util.Success(ctx, agg)
}

// swagger:model AddResponseRequest
type AddResponseRequest struct {
	Value string `json:"value"`
}

// @Summary 为题目追加候选响应项（初始非正确答案）
// @Tags 考试模板
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param questionId path string true "题目ID"
// @Param body body AddResponseRequest true "响应项"
// @Success 201 {object} util.Response{data=model.ExamTemplateQuestionResponse}
// @Router /api/admin/exam/questions/{questionId}/responses [post]
func (c *ExamTemplateController) AddResponse(ctx *gin.Context) {
	var req AddResponseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	resp, err := c.Service.AddResponse(ctx.Param("questionId"), req.Value)
	if err != nil {
		if service.IsNotFound(err) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, resp)
}

// @Summary 删除响应项
// @Tags 考试模板
// @Produce json
// @Security BearerAuth
// @Param responseId path string true "响应项ID"
// @Success 200 {object} util.Response
// @Router /api/admin/exam/responses/{responseId} [delete]
func (c *ExamTemplateController) DeleteResponse(ctx *gin.Context) {
	if err := c.Service.DeleteResponse(ctx.Param("responseId")); err != nil {
		if service.IsNotFound(err) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, nil)
}

// @Summary 翻转响应项的正确标记
// @Tags 考试模板
// @Produce json
// @Security BearerAuth
// @Param responseId path string true "响应项ID"
// @Success 200 {object} util.Response{data=model.ExamTemplateQuestionResponse}
// @Router /api/admin/exam/responses/{responseId}/toggle-correct [post]
func (c *ExamTemplateController) ToggleResponseCorrect(ctx *gin.Context) {
	resp, err := c.Service.ToggleResponseCorrect(ctx.Param("responseId"))
	if err != nil {
		if service.IsNotFound(err) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, resp)
}
