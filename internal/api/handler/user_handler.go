package handler

import (
	"errors"
	"strconv"

	"tube-go/internal/api/dto"
	"tube-go/internal/api/middleware"
	"tube-go/internal/api/response"
	"tube-go/internal/service"
	"tube-go/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type UserHandler struct {
	userService   *service.UserService
	authService   *service.AuthService
	searchService *service.SearchService
}

func NewUserHandler(userService *service.UserService, authService *service.AuthService, searchService *service.SearchService) *UserHandler {
	return &UserHandler{
		userService:   userService,
		authService:   authService,
		searchService: searchService,
	}
}

// GetUser 获取用户信息
// @Summary 获取用户信息
// @Description 根据用户 ID 获取用户公开信息
// @Tags 用户
// @Produce json
// @Param id path int true "用户ID"
// @Success 200 {object} response.Response{data=dto.UserFullInfo} "获取成功"
// @Failure 404 {object} response.ErrorResponse "用户不存在"
// @Router /users/{id} [get]
func (h *UserHandler) GetUser(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "无效的用户ID")
		return
	}

	info, err := h.userService.GetUserByID(userID)
	if err != nil {
		handleUserError(c, err)
		return
	}

	response.OK(c, "获取成功", info)
}

// UpdateUser 更新用户信息
// @Summary 更新用户信息
// @Description 更新用户信息（本人或管理员）
// @Tags 用户
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "用户ID"
// @Param request body dto.UserUpdateRequest true "更新信息"
// @Success 200 {object} response.Response{data=dto.UserFullInfo} "更新成功"
// @Failure 403 {object} response.ErrorResponse "没有权限"
// @Failure 404 {object} response.ErrorResponse "用户不存在"
// @Router /users/{id} [put]
func (h *UserHandler) UpdateUser(c *gin.Context) {
	targetID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "无效的用户ID")
		return
	}

	var req dto.UserUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数无效: "+err.Error())
		return
	}

	currentUser, ok := h.currentUser(c)
	if !ok {
		return
	}

	info, err := h.userService.UpdateUser(targetID, currentUser, &req)
	if err != nil {
		handleUserError(c, err)
		return
	}

	response.OK(c, "更新成功", info)
}

// DeleteAccount 注销账号
// @Summary 注销账号
// @Description 注销账号（本人或管理员），级联删除名下频道、视频、订阅、点赞和评论
// @Tags 用户
// @Produce json
// @Security BearerAuth
// @Param id path int true "用户ID"
// @Success 200 {object} response.Response "注销成功"
// @Failure 403 {object} response.ErrorResponse "没有权限"
// @Failure 404 {object} response.ErrorResponse "用户不存在"
// @Router /users/{id} [delete]
func (h *UserHandler) DeleteAccount(c *gin.Context) {
	targetID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "无效的用户ID")
		return
	}

	currentUser, ok := h.currentUser(c)
	if !ok {
		return
	}

	cascade, err := h.userService.DeleteAccount(targetID, currentUser)
	if err != nil {
		handleUserError(c, err)
		return
	}

	// 事务提交后清理搜索索引
	if cascade != nil {
		h.searchService.RemoveVideosFromES(cascade.VideoIDs)
	}

	logger.Info("Account deleted",
		zap.Int64("user_id", targetID),
		zap.Int64("operator_id", currentUser.ID),
	)

	response.OK(c, "注销成功", nil)
}

// ListUsers 获取用户列表
// @Summary 获取用户列表
// @Description 分页获取用户列表（管理员）
// @Tags 用户
// @Produce json
// @Security BearerAuth
// @Param page query int false "页码"
// @Param page_size query int false "每页数量"
// @Param username query string false "按昵称筛选"
// @Param user_role query string false "按角色筛选"
// @Success 200 {object} response.Response{data=dto.PaginatedData} "获取成功"
// @Failure 403 {object} response.ErrorResponse "需要管理员权限"
// @Router /users [get]
func (h *UserHandler) ListUsers(c *gin.Context) {
	page, pageSize := parsePagination(c)

	var username, userRole *string
	if v := c.Query("username"); v != "" {
		username = &v
	}
	if v := c.Query("user_role"); v != "" {
		userRole = &v
	}

	data, err := h.userService.ListUsers(page, pageSize, username, userRole)
	if err != nil {
		logger.Error("List users failed", zap.Error(err))
		response.InternalError(c, "获取用户列表失败")
		return
	}

	response.OK(c, "获取成功", data)
}

// currentUser 从上下文取登录用户并加载其角色信息
func (h *UserHandler) currentUser(c *gin.Context) (*dto.UserInfo, bool) {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		response.Unauthorized(c, "缺少认证信息")
		return nil, false
	}

	user, err := h.authService.GetCurrentUser(userID)
	if err != nil {
		response.Unauthorized(c, "用户不存在")
		return nil, false
	}
	return user, true
}

func handleUserError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, service.ErrUserNoPermission):
		response.Forbidden(c, err.Error())
	default:
		logger.Error("User operation failed", zap.Error(err))
		response.InternalError(c, "操作失败，请稍后重试")
	}
}
