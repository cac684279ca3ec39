package repository

import (
	"tube-go/internal/model"

	"gorm.io/gorm"
)

// UserRepository 用户数据访问接口
type UserRepository interface {
	GetByID(id int64) (*model.User, error)
	GetByEmail(email string) (*model.User, error)
	GetByIDs(ids []int64) ([]model.User, error)
	Create(user *model.User) error
	Update(id int64, updates map[string]interface{}) (*model.User, error)
	Delete(id int64) error
	ExistsByEmail(email string) (bool, error)
	ListWithFilters(skip, limit int, username, userRole *string) ([]model.User, int64, error)
	SetChannel(userID, channelID int64) error
	ClearChannel(userID int64) error
	IncrementSubscriptionCount(id int64) error
	DecrementSubscriptionCount(id int64) error
	DecrementSubscriptionCountFor(ids []int64) error
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// GetByID 根据 ID 查询用户
func (r *userRepository) GetByID(id int64) (*model.User, error) {
	var user model.User
	err := r.db.Where("id = ?", id).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByEmail 根据邮箱查询用户
func (r *userRepository) GetByEmail(email string) (*model.User, error) {
	var user model.User
	err := r.db.Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByIDs 批量查询用户
func (r *userRepository) GetByIDs(ids []int64) ([]model.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var users []model.User
	err := r.db.Where("id IN ?", ids).Find(&users).Error
	return users, err
}

// Create 创建用户
func (r *userRepository) Create(user *model.User) error {
	return r.db.Create(user).Error
}

// Update 更新用户字段（传入 map，只更新给定字段）
func (r *userRepository) Update(id int64, updates map[string]interface{}) (*model.User, error) {
	result := r.db.Model(&model.User{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.GetByID(id)
}

// Delete 删除用户记录（级联清理由上层在同一事务内完成）
func (r *userRepository) Delete(id int64) error {
	result := r.db.Where("id = ?", id).Delete(&model.User{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ExistsByEmail 检查邮箱是否已注册
func (r *userRepository) ExistsByEmail(email string) (bool, error) {
	var count int64
	err := r.db.Model(&model.User{}).Where("email = ?", email).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListWithFilters 带筛选条件的分页查询（管理员）
func (r *userRepository) ListWithFilters(skip, limit int, username, userRole *string) ([]model.User, int64, error) {
	query := r.db.Model(&model.User{})

	if username != nil && *username != "" {
		query = query.Where("user_name ILIKE ?", "%"+*username+"%")
	}
	if userRole != nil && *userRole != "" {
		query = query.Where("user_role = ?", *userRole)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []model.User
	if err := query.Offset(skip).Limit(limit).Find(&users).Error; err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

// SetChannel 记录用户拥有的频道（has_channel / channel_id 同步写入）
func (r *userRepository) SetChannel(userID, channelID int64) error {
	return r.db.Model(&model.User{}).Where("id = ?", userID).
		Updates(map[string]interface{}{"has_channel": true, "channel_id": channelID}).Error
}

// ClearChannel 清除用户的频道归属（频道删除级联的收尾步骤）
func (r *userRepository) ClearChannel(userID int64) error {
	return r.db.Model(&model.User{}).Where("id = ?", userID).
		Updates(map[string]interface{}{"has_channel": false, "channel_id": nil}).Error
}

// IncrementSubscriptionCount 订阅数 +1
func (r *userRepository) IncrementSubscriptionCount(id int64) error {
	return r.db.Model(&model.User{}).Where("id = ?", id).
		UpdateColumn("subscription_count", gorm.Expr("subscription_count + 1")).Error
}

// DecrementSubscriptionCount 订阅数 -1（不低于 0）
func (r *userRepository) DecrementSubscriptionCount(id int64) error {
	return r.db.Model(&model.User{}).Where("id = ? AND subscription_count > 0", id).
		UpdateColumn("subscription_count", gorm.Expr("subscription_count - 1")).Error
}

// DecrementSubscriptionCountFor 批量订阅数 -1（频道删除时，对全部订阅者）
func (r *userRepository) DecrementSubscriptionCountFor(ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.Model(&model.User{}).Where("id IN ? AND subscription_count > 0", ids).
		UpdateColumn("subscription_count", gorm.Expr("subscription_count - 1")).Error
}
