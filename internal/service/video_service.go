package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"tube-go/internal/api/dto"
	"tube-go/internal/config"
	"tube-go/internal/data"
	infraKafka "tube-go/internal/infra/kafka"
	infraMinio "tube-go/internal/infra/minio"
	infraRedis "tube-go/internal/infra/redis"
	"tube-go/internal/model"
	"tube-go/internal/repository"
	"tube-go/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrVideoNotFound     = errors.New("视频不存在")
	ErrVideoNoPermission = errors.New("没有权限操作该视频")
	ErrNoFieldsToUpdate  = errors.New("没有需要更新的字段")
	ErrNoChannel         = errors.New("请先创建频道再发布视频")
)

const (
	rawVideoBucket = "raw-videos"

	// 同一用户对同一视频的重复播放在该窗口内只计一次
	viewDedupWindow = 30 * time.Minute
)

type VideoService struct {
	videoRepo   repository.VideoRepository
	channelRepo repository.ChannelRepository
	uow         data.UnitOfWork
}

func NewVideoService(videoRepo repository.VideoRepository, channelRepo repository.ChannelRepository, uow data.UnitOfWork) *VideoService {
	return &VideoService{videoRepo: videoRepo, channelRepo: channelRepo, uow: uow}
}

// Upload 上传视频：MinIO 存储 + Kafka 转码任务
// 发布要求用户已拥有频道，视频的 owner 始终与频道主一致
func (s *VideoService) Upload(ownerID int64, req *dto.VideoUploadRequest, fileReader io.Reader, fileSize int64, fileFormat string) (*dto.VideoInfo, error) {
	channel, err := s.channelRepo.GetByOwner(ownerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoChannel
		}
		return nil, err
	}

	video := &model.Video{
		ChannelID:   channel.ID,
		OwnerID:     ownerID,
		Title:       req.Title,
		Description: req.Description,
		Status:      "pending",
		FileSize:    fileSize,
		FileFormat:  fileFormat,
	}

	if err := s.videoRepo.Create(video); err != nil {
		return nil, err
	}

	objectName := fmt.Sprintf("%d/%d.%s", channel.ID, video.ID, fileFormat)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	contentType := "video/" + fileFormat
	if _, err := infraMinio.UploadFile(ctx, rawVideoBucket, objectName, fileReader, fileSize, contentType); err != nil {
		logger.Error("Upload to MinIO failed, rolling back video record",
			zap.Int64("video_id", video.ID), zap.Error(err))
		_ = s.videoRepo.Delete(video.ID)
		return nil, fmt.Errorf("上传文件失败: %w", err)
	}

	cfg := config.GetKafka()
	transcodeTopic := cfg.Topics["video_transcode"]

	task := &infraKafka.TranscodeTask{
		VideoID:    video.ID,
		ChannelID:  channel.ID,
		ObjectName: objectName,
		Bucket:     rawVideoBucket,
		FileFormat: fileFormat,
		FileSize:   fileSize,
	}

	if err := infraKafka.SendTranscodeTask(ctx, transcodeTopic, task); err != nil {
		logger.Error("Send transcode task failed", zap.Int64("video_id", video.ID), zap.Error(err))
		_, _ = s.videoRepo.Update(video.ID, map[string]interface{}{"status": "upload_failed"})
		return nil, fmt.Errorf("提交转码任务失败: %w", err)
	}

	_, _ = s.videoRepo.Update(video.ID, map[string]interface{}{"status": "transcoding"})
	video.Status = "transcoding"

	return toVideoInfo(video, false), nil
}

// HandleTranscodeResult 处理 Kafka 消费者收到的转码结果
func (s *VideoService) HandleTranscodeResult(result *infraKafka.TranscodeResult) error {
	updates := map[string]interface{}{
		"status": result.Status,
	}

	if result.Status == "published" {
		updates["play_url"] = result.PlayURL
		updates["cover_url"] = result.CoverURL
		updates["duration"] = result.Duration
		updates["width"] = result.Width
		updates["height"] = result.Height
		now := time.Now().Unix()
		updates["publish_time"] = now
	}

	_, err := s.videoRepo.Update(result.VideoID, updates)
	if err != nil {
		return fmt.Errorf("update video %d after transcode failed: %w", result.VideoID, err)
	}

	logger.Info("Video transcode result processed",
		zap.Int64("video_id", result.VideoID),
		zap.String("status", result.Status),
	)

	return nil
}

// GetDetail 获取视频详情
// 已发布视频增加观看次数，同一观看者在去重窗口内只计一次
func (s *VideoService) GetDetail(videoID, viewerID int64) (*dto.VideoInfo, error) {
	video, err := s.videoRepo.GetByIDWithChannel(videoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVideoNotFound
		}
		return nil, err
	}

	if video.Status == "published" && s.shouldCountView(videoID, viewerID) {
		_ = s.videoRepo.IncrementViewCount(videoID)
		video.ViewCount++
	}

	return toVideoInfo(video, true), nil
}

// shouldCountView 基于 Redis SETNX 的播放去重，Redis 不可用时退化为每次都计数
func (s *VideoService) shouldCountView(videoID, viewerID int64) bool {
	client := infraRedis.Get()
	if client == nil {
		return true
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	key := fmt.Sprintf("video:viewed:%d:%d", videoID, viewerID)
	ok, err := client.SetNX(ctx, key, 1, viewDedupWindow).Result()
	if err != nil {
		logger.Warn("View dedup check failed", zap.Error(err))
		return true
	}
	return ok
}

// Update 更新视频信息（仅作者本人）
func (s *VideoService) Update(videoID, currentUserID int64, req *dto.VideoUpdateRequest) (*dto.VideoInfo, error) {
	video, err := s.videoRepo.GetByID(videoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVideoNotFound
		}
		return nil, err
	}
	if video.OwnerID != currentUserID {
		return nil, ErrVideoNoPermission
	}

	updates := make(map[string]interface{})
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}

	if len(updates) == 0 {
		return nil, ErrNoFieldsToUpdate
	}

	video, err = s.videoRepo.Update(videoID, updates)
	if err != nil {
		return nil, err
	}

	return toVideoInfo(video, false), nil
}

// Delete 删除视频（仅作者本人），级联删除点赞与评论
// 权限校验在事务开启前完成，校验失败不产生任何写入
func (s *VideoService) Delete(videoID, currentUserID int64) error {
	video, err := s.videoRepo.GetByID(videoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrVideoNotFound
		}
		return err
	}
	if video.OwnerID != currentUserID {
		return ErrVideoNoPermission
	}

	return s.uow.Execute(func(repos *data.TxRepositories) error {
		return deleteVideoCascade(repos, videoID)
	})
}

// GetFeed 获取视频流（已发布，含频道信息，不需要登录）
func (s *VideoService) GetFeed(page, pageSize int) (*dto.VideoListData, error) {
	skip := (page - 1) * pageSize
	status := "published"
	videos, total, err := s.videoRepo.ListVideos(skip, pageSize, nil, &status, nil, true)
	if err != nil {
		return nil, err
	}
	return buildVideoListData(videos, total, page, pageSize, true), nil
}

// ListByChannel 获取频道下的视频列表（频道的视频集合是派生关系，按 channel_id 查询）
func (s *VideoService) ListByChannel(channelID int64, page, pageSize int, status *string) (*dto.VideoListData, error) {
	if _, err := s.channelRepo.GetByID(channelID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrChannelNotFound
		}
		return nil, err
	}

	skip := (page - 1) * pageSize
	videos, total, err := s.videoRepo.ListVideos(skip, pageSize, &channelID, status, nil, false)
	if err != nil {
		return nil, err
	}
	return buildVideoListData(videos, total, page, pageSize, false), nil
}

// GetMyVideos 获取当前用户频道下的视频列表
func (s *VideoService) GetMyVideos(ownerID int64, page, pageSize int, status *string) (*dto.VideoListData, error) {
	channel, err := s.channelRepo.GetByOwner(ownerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoChannel
		}
		return nil, err
	}

	skip := (page - 1) * pageSize
	videos, total, err := s.videoRepo.ListVideos(skip, pageSize, &channel.ID, status, nil, false)
	if err != nil {
		return nil, err
	}
	return buildVideoListData(videos, total, page, pageSize, false), nil
}

// toVideoInfo 将 model.Video 转换为 dto.VideoInfo
func toVideoInfo(video *model.Video, includeChannel bool) *dto.VideoInfo {
	info := &dto.VideoInfo{
		ID:           video.ID,
		ChannelID:    video.ChannelID,
		OwnerID:      video.OwnerID,
		Title:        video.Title,
		Description:  video.Description,
		PlayURL:      video.PlayURL,
		CoverURL:     video.CoverURL,
		Duration:     video.Duration,
		FileSize:     video.FileSize,
		FileFormat:   video.FileFormat,
		Width:        video.Width,
		Height:       video.Height,
		Status:       video.Status,
		ViewCount:    video.ViewCount,
		LikeCount:    video.LikeCount,
		CommentCount: video.CommentCount,
		PublishTime:  video.PublishTime,
		CreatedAt:    video.CreatedAt,
		UpdatedAt:    video.UpdatedAt,
	}

	if includeChannel && video.Channel.ID != 0 {
		info.Channel = &dto.ChannelBrief{
			ID:        video.Channel.ID,
			Name:      video.Channel.Name,
			Handle:    video.Channel.Handle,
			AvatarURL: video.Channel.AvatarURL,
		}
	}

	return info
}

func buildVideoListData(videos []model.Video, total int64, page, pageSize int, includeChannel bool) *dto.VideoListData {
	items := make([]dto.VideoInfo, 0, len(videos))
	for i := range videos {
		items = append(items, *toVideoInfo(&videos[i], includeChannel))
	}

	totalPages := (total + int64(pageSize) - 1) / int64(pageSize)

	return &dto.VideoListData{
		Videos:     items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}
}
