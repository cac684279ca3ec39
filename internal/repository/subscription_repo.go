package repository

import (
	"tube-go/internal/model"

	"gorm.io/gorm"
)

// SubscriptionRepository 订阅关系数据访问接口
type SubscriptionRepository interface {
	Create(userID, channelID int64) (*model.Subscription, error)
	Delete(userID, channelID int64) (bool, error)
	Exists(userID, channelID int64) (bool, error)
	ListChannelIDsByUser(userID int64) ([]int64, error)
	ListUserIDsByChannel(channelID int64) ([]int64, error)
	GetSubscribedChannelIDs(userID int64, skip, limit int) ([]int64, int64, error)
	GetSubscriberIDs(channelID int64, skip, limit int) ([]int64, int64, error)
	DeleteByUser(userID int64) error
	DeleteByChannel(channelID int64) error
	CountByChannel(channelID int64) (int64, error)
	BatchCheckSubscribed(userID int64, channelIDs []int64) (map[int64]bool, error)
}

type subscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

// Create 创建订阅关系
func (r *subscriptionRepository) Create(userID, channelID int64) (*model.Subscription, error) {
	sub := &model.Subscription{UserID: userID, ChannelID: channelID}
	if err := r.db.Create(sub).Error; err != nil {
		return nil, err
	}
	return sub, nil
}

// Delete 删除订阅关系
func (r *subscriptionRepository) Delete(userID, channelID int64) (bool, error) {
	result := r.db.Where("user_id = ? AND channel_id = ?", userID, channelID).
		Delete(&model.Subscription{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Exists 检查订阅关系是否存在
func (r *subscriptionRepository) Exists(userID, channelID int64) (bool, error) {
	var count int64
	err := r.db.Model(&model.Subscription{}).
		Where("user_id = ? AND channel_id = ?", userID, channelID).
		Count(&count).Error
	return count > 0, err
}

// ListChannelIDsByUser 获取用户订阅的全部频道 ID（级联清理用，不分页）
func (r *subscriptionRepository) ListChannelIDsByUser(userID int64) ([]int64, error) {
	var ids []int64
	err := r.db.Model(&model.Subscription{}).
		Where("user_id = ?", userID).
		Pluck("channel_id", &ids).Error
	return ids, err
}

// ListUserIDsByChannel 获取频道的全部订阅者 ID（级联清理用，不分页）
func (r *subscriptionRepository) ListUserIDsByChannel(channelID int64) ([]int64, error) {
	var ids []int64
	err := r.db.Model(&model.Subscription{}).
		Where("channel_id = ?", channelID).
		Pluck("user_id", &ids).Error
	return ids, err
}

// GetSubscribedChannelIDs 获取用户的订阅列表（分页）
func (r *subscriptionRepository) GetSubscribedChannelIDs(userID int64, skip, limit int) ([]int64, int64, error) {
	query := r.db.Model(&model.Subscription{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var ids []int64
	err := query.Order("created_at DESC").Offset(skip).Limit(limit).
		Pluck("channel_id", &ids).Error
	return ids, total, err
}

// GetSubscriberIDs 获取频道的订阅者列表（分页）
func (r *subscriptionRepository) GetSubscriberIDs(channelID int64, skip, limit int) ([]int64, int64, error) {
	query := r.db.Model(&model.Subscription{}).Where("channel_id = ?", channelID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var ids []int64
	err := query.Order("created_at DESC").Offset(skip).Limit(limit).
		Pluck("user_id", &ids).Error
	return ids, total, err
}

// DeleteByUser 删除用户的全部订阅（账号注销级联）
func (r *subscriptionRepository) DeleteByUser(userID int64) error {
	return r.db.Where("user_id = ?", userID).Delete(&model.Subscription{}).Error
}

// DeleteByChannel 删除频道的全部订阅（频道删除级联）
func (r *subscriptionRepository) DeleteByChannel(channelID int64) error {
	return r.db.Where("channel_id = ?", channelID).Delete(&model.Subscription{}).Error
}

// CountByChannel 统计频道的订阅者数
func (r *subscriptionRepository) CountByChannel(channelID int64) (int64, error) {
	var count int64
	err := r.db.Model(&model.Subscription{}).Where("channel_id = ?", channelID).Count(&count).Error
	return count, err
}

// BatchCheckSubscribed 批量查询订阅状态
func (r *subscriptionRepository) BatchCheckSubscribed(userID int64, channelIDs []int64) (map[int64]bool, error) {
	if len(channelIDs) == 0 {
		return map[int64]bool{}, nil
	}

	var subscribedIDs []int64
	err := r.db.Model(&model.Subscription{}).
		Where("user_id = ? AND channel_id IN ?", userID, channelIDs).
		Pluck("channel_id", &subscribedIDs).Error
	if err != nil {
		return nil, err
	}

	subscribedSet := make(map[int64]bool, len(subscribedIDs))
	for _, id := range subscribedIDs {
		subscribedSet[id] = true
	}

	result := make(map[int64]bool, len(channelIDs))
	for _, id := range channelIDs {
		result[id] = subscribedSet[id]
	}
	return result, nil
}
