package model

import "time"

// User 用户模型
// HasChannel / ChannelID 与 channels.owner_id 保持一致（由频道创建/删除流程维护）
type User struct {
	ID                int64   `gorm:"primaryKey;autoIncrement;comment:用户标识" json:"id"`
	UserName          string  `gorm:"size:255;not null;comment:用户昵称" json:"user_name"`
	Email             string  `gorm:"size:255;not null;uniqueIndex;comment:登录邮箱" json:"email"`
	Password          string  `gorm:"size:255;not null;comment:密码哈希" json:"-"` // json:"-" 序列化时忽略密码
	Avatar            *string `gorm:"size:500;comment:用户头像" json:"avatar"`
	BackgroundImage   *string `gorm:"size:500;comment:主页背景" json:"background_image"`
	UserRole          string  `gorm:"size:32;not null;default:'user';comment:用户角色" json:"user_role"`
	HasChannel        bool    `gorm:"not null;default:false;comment:是否拥有频道" json:"has_channel"`
	ChannelID         *int64  `gorm:"comment:拥有的频道ID" json:"channel_id"`
	SubscriptionCount int64   `gorm:"not null;default:0;comment:订阅的频道数" json:"subscription_count"`

	CreatedAt time.Time `gorm:"autoCreateTime;comment:注册时间" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime;comment:更新时间" json:"updated_at"`

	// 关联关系
	Videos        []Video        `gorm:"foreignKey:OwnerID" json:"videos,omitempty"`
	Comments      []Comment      `gorm:"foreignKey:UserID" json:"comments,omitempty"`
	Subscriptions []Subscription `gorm:"foreignKey:UserID" json:"subscriptions,omitempty"`
	Likes         []Like         `gorm:"foreignKey:UserID" json:"likes,omitempty"`
}

func (User) TableName() string {
	return "users"
}
