package repository

import (
	"tube-go/internal/model"

	"gorm.io/gorm"
)

// ChannelRepository 频道数据访问接口
type ChannelRepository interface {
	GetByID(id int64) (*model.Channel, error)
	GetByOwner(ownerID int64) (*model.Channel, error)
	GetByHandle(handle string) (*model.Channel, error)
	GetByIDs(ids []int64) ([]model.Channel, error)
	Create(channel *model.Channel) error
	Update(id int64, updates map[string]interface{}) (*model.Channel, error)
	Delete(id int64) error
	ExistsByHandle(handle string) (bool, error)
	IncrementSubscriberCount(id int64) error
	DecrementSubscriberCount(id int64) error
	DecrementSubscriberCountFor(ids []int64) error
}

type channelRepository struct {
	db *gorm.DB
}

func NewChannelRepository(db *gorm.DB) ChannelRepository {
	return &channelRepository{db: db}
}

// GetByID 根据 ID 查询频道
func (r *channelRepository) GetByID(id int64) (*model.Channel, error) {
	var channel model.Channel
	err := r.db.Where("id = ?", id).First(&channel).Error
	if err != nil {
		return nil, err
	}
	return &channel, nil
}

// GetByOwner 根据频道主查询频道（owner_id 唯一）
func (r *channelRepository) GetByOwner(ownerID int64) (*model.Channel, error) {
	var channel model.Channel
	err := r.db.Where("owner_id = ?", ownerID).First(&channel).Error
	if err != nil {
		return nil, err
	}
	return &channel, nil
}

// GetByHandle 根据 handle 查询频道
func (r *channelRepository) GetByHandle(handle string) (*model.Channel, error) {
	var channel model.Channel
	err := r.db.Where("handle = ?", handle).First(&channel).Error
	if err != nil {
		return nil, err
	}
	return &channel, nil
}

// GetByIDs 批量查询频道
func (r *channelRepository) GetByIDs(ids []int64) ([]model.Channel, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var channels []model.Channel
	err := r.db.Where("id IN ?", ids).Find(&channels).Error
	return channels, err
}

// Create 创建频道
func (r *channelRepository) Create(channel *model.Channel) error {
	return r.db.Create(channel).Error
}

// Update 更新频道字段
func (r *channelRepository) Update(id int64, updates map[string]interface{}) (*model.Channel, error) {
	result := r.db.Model(&model.Channel{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.GetByID(id)
}

// Delete 删除频道记录（级联清理由上层在同一事务内完成）
func (r *channelRepository) Delete(id int64) error {
	result := r.db.Where("id = ?", id).Delete(&model.Channel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ExistsByHandle 检查 handle 是否已被占用
func (r *channelRepository) ExistsByHandle(handle string) (bool, error) {
	var count int64
	err := r.db.Model(&model.Channel{}).Where("handle = ?", handle).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// IncrementSubscriberCount 订阅者数 +1
func (r *channelRepository) IncrementSubscriberCount(id int64) error {
	return r.db.Model(&model.Channel{}).Where("id = ?", id).
		UpdateColumn("subscriber_count", gorm.Expr("subscriber_count + 1")).Error
}

// DecrementSubscriberCount 订阅者数 -1（不低于 0）
func (r *channelRepository) DecrementSubscriberCount(id int64) error {
	return r.db.Model(&model.Channel{}).Where("id = ? AND subscriber_count > 0", id).
		UpdateColumn("subscriber_count", gorm.Expr("subscriber_count - 1")).Error
}

// DecrementSubscriberCountFor 批量订阅者数 -1（账号注销时，对该用户订阅的全部频道）
func (r *channelRepository) DecrementSubscriberCountFor(ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.Model(&model.Channel{}).Where("id IN ? AND subscriber_count > 0", ids).
		UpdateColumn("subscriber_count", gorm.Expr("subscriber_count - 1")).Error
}
