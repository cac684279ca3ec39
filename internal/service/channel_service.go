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
	infraMinio "tube-go/internal/infra/minio"
	"tube-go/internal/model"
	"tube-go/internal/repository"
	"tube-go/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrChannelNotFound     = errors.New("频道不存在")
	ErrChannelNoPermission = errors.New("没有权限操作该频道")
	ErrAlreadyHasChannel   = errors.New("您已经拥有一个频道了")
	ErrHandleExists        = errors.New("该频道标识名已被占用")
)

const imageBucket = "channel-images"

type ChannelService struct {
	channelRepo repository.ChannelRepository
	userRepo    repository.UserRepository
	uow         data.UnitOfWork
}

func NewChannelService(channelRepo repository.ChannelRepository, userRepo repository.UserRepository, uow data.UnitOfWork) *ChannelService {
	return &ChannelService{
		channelRepo: channelRepo,
		userRepo:    userRepo,
		uow:         uow,
	}
}

// Create 创建频道（每个用户至多一个）
// 频道记录与用户的 has_channel / channel_id 标记在同一事务内写入
func (s *ChannelService) Create(ownerID int64, req *dto.ChannelCreateRequest) (*dto.ChannelInfo, error) {
	user, err := s.userRepo.GetByID(ownerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if user.HasChannel {
		return nil, ErrAlreadyHasChannel
	}

	exists, err := s.channelRepo.ExistsByHandle(req.Handle)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrHandleExists
	}

	channel := &model.Channel{
		OwnerID:     ownerID,
		Name:        req.Name,
		Handle:      req.Handle,
		Description: req.Description,
	}

	err = s.uow.Execute(func(repos *data.TxRepositories) error {
		if err := repos.Channels.Create(channel); err != nil {
			return err
		}
		return repos.Users.SetChannel(ownerID, channel.ID)
	})
	if err != nil {
		return nil, err
	}

	return toChannelInfo(channel), nil
}

// GetByID 获取频道详情
func (s *ChannelService) GetByID(channelID int64) (*dto.ChannelInfo, error) {
	channel, err := s.channelRepo.GetByID(channelID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrChannelNotFound
		}
		return nil, err
	}
	return toChannelInfo(channel), nil
}

// GetByHandle 根据标识名获取频道详情
func (s *ChannelService) GetByHandle(handle string) (*dto.ChannelInfo, error) {
	channel, err := s.channelRepo.GetByHandle(handle)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrChannelNotFound
		}
		return nil, err
	}
	return toChannelInfo(channel), nil
}

// Update 更新频道信息（仅频道主）
func (s *ChannelService) Update(channelID, currentUserID int64, req *dto.ChannelUpdateRequest) (*dto.ChannelInfo, error) {
	channel, err := s.channelRepo.GetByID(channelID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrChannelNotFound
		}
		return nil, err
	}
	if channel.OwnerID != currentUserID {
		return nil, ErrChannelNoPermission
	}

	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}

	if len(updates) == 0 {
		return toChannelInfo(channel), nil
	}

	channel, err = s.channelRepo.Update(channelID, updates)
	if err != nil {
		return nil, err
	}
	return toChannelInfo(channel), nil
}

// UploadImage 上传频道头像或横幅到对象存储，返回公开访问 URL
// kind 取 "avatar" 或 "banner"
func (s *ChannelService) UploadImage(channelID, currentUserID int64, kind string, reader io.Reader, fileSize int64, contentType string) (string, error) {
	channel, err := s.channelRepo.GetByID(channelID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrChannelNotFound
		}
		return "", err
	}
	if channel.OwnerID != currentUserID {
		return "", ErrChannelNoPermission
	}

	objectName := fmt.Sprintf("%d/%s-%d", channelID, kind, time.Now().Unix())

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if _, err := infraMinio.UploadFile(ctx, imageBucket, objectName, reader, fileSize, contentType); err != nil {
		return "", fmt.Errorf("上传图片失败: %w", err)
	}

	minioCfg := config.GetMinIO()
	url := infraMinio.GetPublicURL(minioCfg.Endpoint, minioCfg.UseSSL, imageBucket, objectName)

	column := "avatar_url"
	if kind == "banner" {
		column = "banner_url"
	}
	if _, err := s.channelRepo.Update(channelID, map[string]interface{}{column: url}); err != nil {
		return "", err
	}

	return url, nil
}

// Delete 删除频道（仅频道主），级联删除频道视频与全部交叉引用
// 权限校验在事务开启前完成，校验失败不产生任何写入
func (s *ChannelService) Delete(channelID, currentUserID int64) (*ChannelCascade, error) {
	channel, err := s.channelRepo.GetByID(channelID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrChannelNotFound
		}
		return nil, err
	}
	if channel.OwnerID != currentUserID {
		return nil, ErrChannelNoPermission
	}

	var cascade *ChannelCascade
	err = s.uow.Execute(func(repos *data.TxRepositories) error {
		cascade, err = deleteChannelCascade(repos, channel)
		return err
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Channel deleted",
		zap.Int64("channel_id", channel.ID),
		zap.Int64("owner_id", channel.OwnerID),
		zap.Int("videos", len(cascade.VideoIDs)),
		zap.Int("subscribers", len(cascade.SubscriberIDs)),
	)

	return cascade, nil
}

func toChannelInfo(channel *model.Channel) *dto.ChannelInfo {
	return &dto.ChannelInfo{
		ID:              channel.ID,
		OwnerID:         channel.OwnerID,
		Name:            channel.Name,
		Handle:          channel.Handle,
		Description:     channel.Description,
		AvatarURL:       channel.AvatarURL,
		BannerURL:       channel.BannerURL,
		SubscriberCount: channel.SubscriberCount,
		CreatedAt:       channel.CreatedAt,
	}
}
