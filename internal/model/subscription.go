package model

import "time"

// Subscription 订阅关系模型
// 一行同时代表 user.subscriptions 与 channel.subscribers 两侧
type Subscription struct {
	ID        int64     `gorm:"primaryKey;autoIncrement;comment:订阅记录ID" json:"id"`
	UserID    int64     `gorm:"not null;uniqueIndex:uq_user_channel_sub;index:idx_subs_user_id;comment:订阅用户ID" json:"user_id"`
	ChannelID int64     `gorm:"not null;uniqueIndex:uq_user_channel_sub;index:idx_subs_channel_id;comment:被订阅频道ID" json:"channel_id"`
	CreatedAt time.Time `gorm:"autoCreateTime;index:idx_subs_created_at;comment:订阅时间" json:"created_at"`

	// 关联关系
	User    User    `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Channel Channel `gorm:"foreignKey:ChannelID" json:"channel,omitempty"`
}

func (Subscription) TableName() string {
	return "subscriptions"
}
