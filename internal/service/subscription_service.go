package service

import (
	"errors"

	"tube-go/internal/api/dto"
	"tube-go/internal/data"
	"tube-go/internal/repository"

	"gorm.io/gorm"
)

var (
	ErrAlreadySubscribed  = errors.New("已经订阅过该频道")
	ErrNotSubscribed      = errors.New("尚未订阅该频道")
	ErrCannotSubscribeOwn = errors.New("不能订阅自己的频道")
)

type SubscriptionService struct {
	subscriptionRepo repository.SubscriptionRepository
	channelRepo      repository.ChannelRepository
	userRepo         repository.UserRepository
	uow              data.UnitOfWork
}

func NewSubscriptionService(subscriptionRepo repository.SubscriptionRepository, channelRepo repository.ChannelRepository, userRepo repository.UserRepository, uow data.UnitOfWork) *SubscriptionService {
	return &SubscriptionService{
		subscriptionRepo: subscriptionRepo,
		channelRepo:      channelRepo,
		userRepo:         userRepo,
		uow:              uow,
	}
}

// Subscribe 订阅频道
// 订阅关系行与双方计数（用户订阅数、频道订阅者数）在同一事务内写入
func (s *SubscriptionService) Subscribe(userID, channelID int64) error {
	channel, err := s.channelRepo.GetByID(channelID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrChannelNotFound
		}
		return err
	}
	if channel.OwnerID == userID {
		return ErrCannotSubscribeOwn
	}

	exists, err := s.subscriptionRepo.Exists(userID, channelID)
	if err != nil {
		return err
	}
	if exists {
		return ErrAlreadySubscribed
	}

	return s.uow.Execute(func(repos *data.TxRepositories) error {
		if _, err := repos.Subscriptions.Create(userID, channelID); err != nil {
			return err
		}
		if err := repos.Users.IncrementSubscriptionCount(userID); err != nil {
			return err
		}
		return repos.Channels.IncrementSubscriberCount(channelID)
	})
}

// Unsubscribe 取消订阅
// 对未订阅的频道取消订阅返回 ErrNotSubscribed，不做任何写入
func (s *SubscriptionService) Unsubscribe(userID, channelID int64) error {
	if _, err := s.channelRepo.GetByID(channelID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrChannelNotFound
		}
		return err
	}

	exists, err := s.subscriptionRepo.Exists(userID, channelID)
	if err != nil {
		return err
	}
	if !exists {
		return ErrNotSubscribed
	}

	return s.uow.Execute(func(repos *data.TxRepositories) error {
		deleted, err := repos.Subscriptions.Delete(userID, channelID)
		if err != nil {
			return err
		}
		if !deleted {
			return nil
		}
		if err := repos.Users.DecrementSubscriptionCount(userID); err != nil {
			return err
		}
		return repos.Channels.DecrementSubscriberCount(channelID)
	})
}

// IsSubscribed 查询当前用户是否订阅了某频道
func (s *SubscriptionService) IsSubscribed(userID, channelID int64) (bool, error) {
	return s.subscriptionRepo.Exists(userID, channelID)
}

// ListSubscriptions 获取用户订阅的频道列表（分页）
func (s *SubscriptionService) ListSubscriptions(userID int64, page, pageSize int) (*dto.SubscriptionListData, error) {
	skip := (page - 1) * pageSize
	channelIDs, total, err := s.subscriptionRepo.GetSubscribedChannelIDs(userID, skip, pageSize)
	if err != nil {
		return nil, err
	}

	channels, err := s.channelRepo.GetByIDs(channelIDs)
	if err != nil {
		return nil, err
	}

	// 保持订阅时间排序
	byID := make(map[int64]int, len(channels))
	for i := range channels {
		byID[channels[i].ID] = i
	}

	items := make([]dto.ChannelInfo, 0, len(channelIDs))
	for _, id := range channelIDs {
		if i, ok := byID[id]; ok {
			items = append(items, *toChannelInfo(&channels[i]))
		}
	}

	totalPages := (total + int64(pageSize) - 1) / int64(pageSize)

	return &dto.SubscriptionListData{
		Channels:   items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}, nil
}

// ListSubscribers 获取频道的订阅者列表（分页，频道主可见）
func (s *SubscriptionService) ListSubscribers(channelID, currentUserID int64, page, pageSize int) (*dto.SubscriberListData, error) {
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

	skip := (page - 1) * pageSize
	userIDs, total, err := s.subscriptionRepo.GetSubscriberIDs(channelID, skip, pageSize)
	if err != nil {
		return nil, err
	}

	users, err := s.userRepo.GetByIDs(userIDs)
	if err != nil {
		return nil, err
	}

	items := make([]dto.UserInfo, 0, len(users))
	for i := range users {
		items = append(items, *toUserInfo(&users[i]))
	}

	totalPages := (total + int64(pageSize) - 1) / int64(pageSize)

	return &dto.SubscriberListData{
		Users:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}, nil
}

// BatchCheckSubscribed 批量查询订阅状态，返回 channelID -> 是否已订阅
func (s *SubscriptionService) BatchCheckSubscribed(userID int64, channelIDs []int64) (map[int64]bool, error) {
	return s.subscriptionRepo.BatchCheckSubscribed(userID, channelIDs)
}
