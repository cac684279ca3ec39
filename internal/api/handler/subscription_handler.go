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

type SubscriptionHandler struct {
	subscriptionService *service.SubscriptionService
}

func NewSubscriptionHandler(subscriptionService *service.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{subscriptionService: subscriptionService}
}

// Subscribe POST /api/v1/channels/:id/subscribe
func (h *SubscriptionHandler) Subscribe(c *gin.Context) {
	channelID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "无效的频道ID")
		return
	}

	currentUserID, _ := middleware.GetCurrentUserID(c)

	if err := h.subscriptionService.Subscribe(currentUserID, channelID); err != nil {
		handleSubscriptionError(c, err)
		return
	}

	response.OK(c, "订阅成功", nil)
}

// Unsubscribe DELETE /api/v1/channels/:id/subscribe
func (h *SubscriptionHandler) Unsubscribe(c *gin.Context) {
	channelID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "无效的频道ID")
		return
	}

	currentUserID, _ := middleware.GetCurrentUserID(c)

	if err := h.subscriptionService.Unsubscribe(currentUserID, channelID); err != nil {
		handleSubscriptionError(c, err)
		return
	}

	response.OK(c, "取消订阅成功", nil)
}

// GetStatus GET /api/v1/channels/:id/subscribe
func (h *SubscriptionHandler) GetStatus(c *gin.Context) {
	channelID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "无效的频道ID")
		return
	}

	currentUserID, _ := middleware.GetCurrentUserID(c)

	isSubscribed, err := h.subscriptionService.IsSubscribed(currentUserID, channelID)
	if err != nil {
		logger.Error("Get subscribe status failed", zap.Error(err))
		response.InternalError(c, "查询订阅状态失败")
		return
	}

	response.OK(c, "查询订阅状态成功", dto.SubscribeStatusData{
		ChannelID:    channelID,
		IsSubscribed: isSubscribed,
	})
}

// ListSubscriptions GET /api/v1/subscriptions
func (h *SubscriptionHandler) ListSubscriptions(c *gin.Context) {
	currentUserID, _ := middleware.GetCurrentUserID(c)
	page, pageSize := parsePagination(c)

	data, err := h.subscriptionService.ListSubscriptions(currentUserID, page, pageSize)
	if err != nil {
		logger.Error("List subscriptions failed", zap.Error(err))
		response.InternalError(c, "获取订阅列表失败")
		return
	}

	response.OK(c, "获取订阅列表成功", data)
}

// ListSubscribers GET /api/v1/channels/:id/subscribers（频道主可见）
func (h *SubscriptionHandler) ListSubscribers(c *gin.Context) {
	channelID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "无效的频道ID")
		return
	}

	currentUserID, _ := middleware.GetCurrentUserID(c)
	page, pageSize := parsePagination(c)

	data, err := h.subscriptionService.ListSubscribers(channelID, currentUserID, page, pageSize)
	if err != nil {
		handleSubscriptionError(c, err)
		return
	}

	response.OK(c, "获取订阅者列表成功", data)
}

// BatchGetStatus POST /api/v1/subscriptions/batch-status
func (h *SubscriptionHandler) BatchGetStatus(c *gin.Context) {
	var req dto.BatchSubscribeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数无效: "+err.Error())
		return
	}

	currentUserID, _ := middleware.GetCurrentUserID(c)

	statusMap, err := h.subscriptionService.BatchCheckSubscribed(currentUserID, req.ChannelIDs)
	if err != nil {
		logger.Error("Batch subscribe status failed", zap.Error(err))
		response.InternalError(c, "批量查询订阅状态失败")
		return
	}

	response.OK(c, "批量查询订阅状态成功", gin.H{
		"subscribe_status": statusMap,
	})
}

func handleSubscriptionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrCannotSubscribeOwn):
		response.BadRequest(c, err.Error())
	case errors.Is(err, service.ErrAlreadySubscribed):
		response.Conflict(c, err.Error())
	case errors.Is(err, service.ErrNotSubscribed):
		response.BadRequest(c, err.Error())
	case errors.Is(err, service.ErrChannelNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, service.ErrChannelNoPermission):
		response.Forbidden(c, err.Error())
	default:
		logger.Error("Subscription operation failed", zap.Error(err))
		response.InternalError(c, "操作失败，请稍后重试")
	}
}
