package controller

import (
	"exam_platform_backend/internal/service"
	"exam_platform_backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
)

type UserController struct {
	Service *service.UserService
}

func NewUserController(svc *service.UserService) *UserController {
	return &UserController{Service: svc}
}

// @Summary 获取用户列表
// @Tags 用户管理
// @Produce json
// @Security BearerAuth
// @Param page query int false "页码"
// @Param limit query int false "每页数量"
// @Param search query string false "按姓名或邮箱模糊搜索"
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/admin/users [get]
func (c *UserController) ListUsers(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	users, total, err := c.Service.GetUsers(page, limit, ctx.Query("search"))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{List: users, Total: total, Page: page, Limit: limit})
}

// @Summary 获取用户详情
// @Tags 用户管理
// @Produce json
// @Security BearerAuth
// @Param id path string true "用户ID"
// @Success 200 {object} util.Response{data=model.User}
// @Router /api/admin/users/{id} [get]
func (c *UserController) GetUser(ctx *gin.Context) {
	user, err := c.Service.GetUserByID(ctx.Param("id"))
	if err != nil {
		if service.IsNotFound(err) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, user)
}

// @Summary 创建用户（管理员建档，口令可为空）
// @Tags 用户管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.CreateUserReq true "用户信息"
// @Success 201 {object} util.Response{data=model.User}
// @Router /api/admin/users [post]
func (c *UserController) CreateUser(ctx *gin.Context) {
	var req service.CreateUserReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user, err := c.Service.CreateUser(req)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, user)
}

// @Summary 更新用户
// @Tags 用户管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "用户ID"
// @Param body body service.UpdateUserReq true "用户更新"
// @Success 200 {object} util.Response{data=model.User}
// @Router /api/admin/users/{id} [patch]
func (c *UserController) UpdateUser(ctx *gin.Context) {
	var req service.UpdateUserReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user, err := c.Service.UpdateUser(ctx.Param("id"), req)
	if err != nil {
		if service.IsNotFound(err) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, user)
}

// @Summary 删除用户（级联删除其考试）
// @Tags 用户管理
// @Produce json
// @Security BearerAuth
// @Param id path string true "用户ID"
// @Success 200 {object} util.Response
// @Router /api/admin/users/{id} [delete]
func (c *UserController) DeleteUser(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims != nil && claims.UserID == ctx.Param("id") {
		util.BadRequest(ctx, "不能删除当前登录账号")
		return
	}

	if err := c.Service.DeleteUser(ctx.Param("id")); err != nil {
		if service.IsNotFound(err) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, nil)
}
