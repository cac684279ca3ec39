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

type ChannelHandler struct {
	channelService *service.ChannelService
	videoService   *service.VideoService
	searchService  *service.SearchService
}

func NewChannelHandler(channelService *service.ChannelService, videoService *service.VideoService, searchService *service.SearchService) *ChannelHandler {
	return &ChannelHandler{
		channelService: channelService,
		videoService:   videoService,
		searchService:  searchService,
	}
}

// Create POST /api/v1/channels
func (h *ChannelHandler) Create(c *gin.Context) {
	var req dto.ChannelCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数无效: "+err.Error())
		return
	}

	currentUserID, _ := middleware.GetCurrentUserID(c)

	info, err := h.channelService.Create(currentUserID, &req)
	if err != nil {
		handleChannelError(c, err)
		return
	}

	response.Created(c, "创建频道成功", info)
}

// GetByID GET /api/v1/channels/:id（公开）
func (h *ChannelHandler) GetByID(c *gin.Context) {
	channelID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "无效的频道ID")
		return
	}

	info, err := h.channelService.GetByID(channelID)
	if err != nil {
		handleChannelError(c, err)
		return
	}

	response.OK(c, "获取频道成功", info)
}

// GetByHandle GET /api/v1/channels/handle/:handle（公开）
func (h *ChannelHandler) GetByHandle(c *gin.Context) {
	handle := c.Param("handle")
	if handle == "" {
		response.BadRequest(c, "无效的频道标识名")
		return
	}

	info, err := h.channelService.GetByHandle(handle)
	if err != nil {
		handleChannelError(c, err)
		return
	}

	response.OK(c, "获取频道成功", info)
}

// Update PUT /api/v1/channels/:id
func (h *ChannelHandler) Update(c *gin.Context) {
	channelID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "无效的频道ID")
		return
	}

	var req dto.ChannelUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数无效: "+err.Error())
		return
	}

	currentUserID, _ := middleware.GetCurrentUserID(c)

	info, err := h.channelService.Update(channelID, currentUserID, &req)
	if err != nil {
		handleChannelError(c, err)
		return
	}

	response.OK(c, "更新频道成功", info)
}

// UploadImage POST /api/v1/channels/:id/image?kind=avatar|banner
func (h *ChannelHandler) UploadImage(c *gin.Context) {
	channelID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "无效的频道ID")
		return
	}

	kind := c.DefaultQuery("kind", "avatar")
	if kind != "avatar" && kind != "banner" {
		response.BadRequest(c, "kind 只支持 avatar 或 banner")
		return
	}

	file, err := c.FormFile("image_file")
	if err != nil {
		response.BadRequest(c, "请上传图片文件")
		return
	}

	maxSize := int64(10 * 1024 * 1024) // 10MB
	if file.Size > maxSize || file.Size == 0 {
		response.BadRequest(c, "文件大小无效（不能为空，最大 10MB）")
		return
	}

	contentType := file.Header.Get("Content-Type")
	if contentType != "image/jpeg" && contentType != "image/png" && contentType != "image/webp" {
		response.BadRequest(c, "不支持的图片格式，支持: jpeg, png, webp")
		return
	}

	currentUserID, _ := middleware.GetCurrentUserID(c)

	f, err := file.Open()
	if err != nil {
		response.InternalError(c, "打开上传文件失败")
		return
	}
	defer f.Close()

	url, err := h.channelService.UploadImage(channelID, currentUserID, kind, f, file.Size, contentType)
	if err != nil {
		handleChannelError(c, err)
		return
	}

	response.OK(c, "图片上传成功", dto.ImageUploadData{URL: url})
}

// Delete DELETE /api/v1/channels/:id
func (h *ChannelHandler) Delete(c *gin.Context) {
	channelID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "无效的频道ID")
		return
	}

	currentUserID, _ := middleware.GetCurrentUserID(c)

	cascade, err := h.channelService.Delete(channelID, currentUserID)
	if err != nil {
		handleChannelError(c, err)
		return
	}

	// 事务提交后清理搜索索引
	h.searchService.RemoveVideosFromES(cascade.VideoIDs)

	response.OK(c, "删除频道成功", dto.ChannelDeleteData{
		ChannelID:     cascade.ChannelID,
		DeletedVideos: len(cascade.VideoIDs),
		Unsubscribed:  len(cascade.SubscriberIDs),
	})
}

// ListVideos GET /api/v1/channels/:id/videos（公开）
func (h *ChannelHandler) ListVideos(c *gin.Context) {
	channelID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "无效的频道ID")
		return
	}

	page, pageSize := parsePagination(c)

	// 非频道主只能看到已发布的视频
	status := "published"
	data, err := h.videoService.ListByChannel(channelID, page, pageSize, &status)
	if err != nil {
		handleChannelError(c, err)
		return
	}

	response.OK(c, "获取频道视频成功", data)
}

func handleChannelError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrChannelNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, service.ErrChannelNoPermission):
		response.Forbidden(c, err.Error())
	case errors.Is(err, service.ErrAlreadyHasChannel):
		response.Conflict(c, err.Error())
	case errors.Is(err, service.ErrHandleExists):
		response.Conflict(c, err.Error())
	case errors.Is(err, service.ErrUserNotFound):
		response.NotFound(c, err.Error())
	default:
		logger.Error("Channel operation failed", zap.Error(err))
		response.InternalError(c, "操作失败，请稍后重试")
	}
}
