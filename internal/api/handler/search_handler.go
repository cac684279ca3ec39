package handler

import (
	"tube-go/internal/api/dto"
	"tube-go/internal/api/response"
	"tube-go/internal/service"
	"tube-go/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type SearchHandler struct {
	searchService *service.SearchService
}

func NewSearchHandler(searchService *service.SearchService) *SearchHandler {
	return &SearchHandler{searchService: searchService}
}

// SearchVideos GET /api/v1/search/videos（公开）
func (h *SearchHandler) SearchVideos(c *gin.Context) {
	var req dto.SearchVideoRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "请求参数无效: "+err.Error())
		return
	}

	data, err := h.searchService.SearchVideos(&req)
	if err != nil {
		logger.Error("Search videos failed", zap.Error(err))
		response.InternalError(c, "搜索失败，请稍后重试")
		return
	}

	response.OK(c, "搜索成功", data)
}

// SyncAll POST /api/v1/search/sync（管理员，全量重建索引）
func (h *SearchHandler) SyncAll(c *gin.Context) {
	success, failed, err := h.searchService.SyncVideosToES()
	if err != nil {
		logger.Error("Sync videos to ES failed", zap.Error(err))
		response.InternalError(c, "同步索引失败")
		return
	}

	response.OK(c, "同步索引完成", gin.H{
		"success": success,
		"failed":  failed,
	})
}
