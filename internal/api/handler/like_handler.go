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

type LikeHandler struct {
	likeService *service.LikeService
}

func NewLikeHandler(likeService *service.LikeService) *LikeHandler {
	return &LikeHandler{likeService: likeService}
}

// Like POST /api/v1/videos/:id/like
func (h *LikeHandler) Like(c *gin.Context) {
	videoID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "无效的视频ID")
		return
	}

	currentUserID, _ := middleware.GetCurrentUserID(c)

	if err := h.likeService.Like(currentUserID, videoID); err != nil {
		handleLikeError(c, err)
		return
	}

	response.OK(c, "点赞成功", nil)
}

// Unlike DELETE /api/v1/videos/:id/like
func (h *LikeHandler) Unlike(c *gin.Context) {
	videoID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "无效的视频ID")
		return
	}

	currentUserID, _ := middleware.GetCurrentUserID(c)

	if err := h.likeService.Unlike(currentUserID, videoID); err != nil {
		handleLikeError(c, err)
		return
	}

	response.OK(c, "取消点赞成功", nil)
}

// GetStatus GET /api/v1/videos/:id/like
func (h *LikeHandler) GetStatus(c *gin.Context) {
	videoID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "无效的视频ID")
		return
	}

	currentUserID, _ := middleware.GetCurrentUserID(c)

	isLiked, err := h.likeService.IsLiked(currentUserID, videoID)
	if err != nil {
		logger.Error("Get like status failed", zap.Error(err))
		response.InternalError(c, "查询点赞状态失败")
		return
	}

	response.OK(c, "查询点赞状态成功", dto.LikeStatusData{
		VideoID: videoID,
		IsLiked: isLiked,
	})
}

// ListLikedVideos GET /api/v1/likes/videos
func (h *LikeHandler) ListLikedVideos(c *gin.Context) {
	currentUserID, _ := middleware.GetCurrentUserID(c)
	page, pageSize := parsePagination(c)

	data, err := h.likeService.ListLikedVideos(currentUserID, page, pageSize)
	if err != nil {
		logger.Error("List liked videos failed", zap.Error(err))
		response.InternalError(c, "获取点赞视频列表失败")
		return
	}

	response.OK(c, "获取点赞视频列表成功", data)
}

// BatchGetStatus POST /api/v1/likes/batch-status
func (h *LikeHandler) BatchGetStatus(c *gin.Context) {
	var req dto.BatchLikeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数无效: "+err.Error())
		return
	}

	currentUserID, _ := middleware.GetCurrentUserID(c)

	statusMap, err := h.likeService.BatchCheckLiked(currentUserID, req.VideoIDs)
	if err != nil {
		logger.Error("Batch like status failed", zap.Error(err))
		response.InternalError(c, "批量查询点赞状态失败")
		return
	}

	response.OK(c, "批量查询点赞状态成功", gin.H{
		"like_status": statusMap,
	})
}

func handleLikeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrAlreadyLiked):
		response.Conflict(c, err.Error())
	case errors.Is(err, service.ErrNotLiked):
		response.BadRequest(c, err.Error())
	case errors.Is(err, service.ErrVideoNotFound):
		response.NotFound(c, err.Error())
	default:
		logger.Error("Like operation failed", zap.Error(err))
		response.InternalError(c, "操作失败，请稍后重试")
	}
}
