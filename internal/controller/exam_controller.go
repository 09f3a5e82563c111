package controller

import (
	"errors"
	"exam_platform_backend/internal/model"
	"exam_platform_backend/internal/service"
	"exam_platform_backend/internal/util"
	"exam_platform_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
)

type ExamController struct {
	Service *service.ExamService
}

func NewExamController(svc *service.ExamService) *ExamController {
	return &ExamController{Service: svc}
}

// swagger:model AssignExamRequest
type AssignExamRequest struct {
	TemplateID string `json:"template_id" binding:"required"`
	UserID     string `json:"user_id" binding:"required"`
}

// @Summary 将模板分配给用户生成考试实例
// @Description 每次分配都生成一个独立的考试，重复分配互不影响
// @Tags 考试
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body AssignExamRequest true "分配信息"
// @Success 201 {object} util.Response{data=model.Exam}
// @Router /api/admin/exams [post]
func (c *ExamController) AssignExam(ctx *gin.Context) {
	var req AssignExamRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	exam, err := c.Service.AssignExam(req.TemplateID, req.UserID)
	if err != nil {
		if service.IsNotFound(err) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	monitoring.ExamAssignments.Inc()
	util.Created(ctx, exam)
}

// @Summary 获取所有未完成的考试
// @Tags 考试
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.Exam}
// @Router /api/admin/exams/active [get]
func (c *ExamController) ListActiveExams(ctx *gin.Context) {
	exams, err := c.Service.ListActiveExams()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, exams)
}

// @Summary 取消考试（删除考试及其题目和提交记录）
// @Tags 考试
// @Produce json
// @Security BearerAuth
// @Param id path string true "考试ID"
// @Success 200 {object} util.Response
// @Router /api/admin/exams/{id} [delete]
func (c *ExamController) CancelExam(ctx *gin.Context) {
	if err := c.Service.CancelExam(ctx.Param("id")); err != nil {
		if service.IsNotFound(err) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, nil)
}

// @Summary 获取当前用户的考试列表
// @Tags 考试
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.Exam}
// @Router /api/exams [get]
func (c *ExamController) ListMyExams(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	exams, err := c.Service.ListUserExams(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, exams)
}

// @Summary 获取考试详情（含题目与提交记录）
// @Tags 考试
// @Produce json
// @Security BearerAuth
// @Param id path string true "考试ID"
// @Success 200 {object} util.Response{data=model.Exam}
// @Router /api/exams/{id} [get]
func (c *ExamController) GetExam(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	exam, err := c.Service.GetExam(ctx.Param("id"), true)
	if err != nil {
		if service.IsNotFound(err) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	// 考生只能查看自己的考试，管理员不受限
	if claims.Role != model.Admin && exam.UserID != claims.UserID {
		util.Forbidden(ctx)
		return
	}

	util.Success(ctx, exam)
}

// @Summary 获取考试中的单道题目
// @Tags 考试
// @Produce json
// @Security BearerAuth
// @Param id path string true "考试ID"
// @Param questionId path string true "题目ID"
// @Success 200 {object} util.Response{data=model.ExamQuestion}
// @Router /api/exams/{id}/questions/{questionId} [get]
func (c *ExamController) GetExamQuestion(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	exam, err := c.Service.GetExam(ctx.Param("id"), false)
	if err != nil {
		if service.IsNotFound(err) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	if claims.Role != model.Admin && exam.UserID != claims.UserID {
		util.Forbidden(ctx)
		return
	}

	q, err := c.Service.GetExamQuestion(exam.ID, ctx.Param("questionId"))
	if err != nil {
		if service.IsNotFound(err) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, q)
}

// swagger:model SubmitAnswerRequest
type SubmitAnswerRequest struct {
	Answer string `json:"answer"`
}

// @Summary 提交某道题的作答
// @Description 每道题至多提交一次，全部题目提交后考试标记为完成
// @Tags 考试
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "考试ID"
// @Param questionId path string true "题目ID"
// @Param body body SubmitAnswerRequest true "作答内容"
// @Success 201 {object} util.Response{data=model.ExamQuestionResponse}
// @Router /api/exams/{id}/questions/{questionId}/submit [post]
func (c *ExamController) SubmitAnswer(ctx *gin.Context) {
	var req SubmitAnswerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	resp, err := c.Service.SubmitAnswer(claims.UserID, ctx.Param("id"), ctx.Param("questionId"), req.Answer)
	if err != nil {
		switch {
		case service.IsNotFound(err):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrPermissionDenied):
			util.Forbidden(ctx)
		case errors.Is(err, util.ErrAnswerAlreadySubmitted):
			util.Conflict(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Created(ctx, resp)
}
