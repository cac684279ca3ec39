package model

import "time"

// Channel 频道模型
// 一个用户至多拥有一个频道（owner_id 唯一索引）
// 频道的视频列表不落表，按 videos.channel_id 查询得到
type Channel struct {
	ID              int64  `gorm:"primaryKey;autoIncrement;comment:频道标识" json:"id"`
	OwnerID         int64  `gorm:"not null;uniqueIndex:uq_channel_owner;comment:频道主用户ID" json:"owner_id"`
	Name            string `gorm:"size:255;not null;comment:频道名称" json:"name"`
	Handle          string `gorm:"size:100;not null;uniqueIndex:uq_channel_handle;comment:频道唯一标识名" json:"handle"`
	Description     string `gorm:"type:text;comment:频道简介" json:"description"`
	AvatarURL       string `gorm:"size:500;comment:频道头像地址" json:"avatar_url"`
	BannerURL       string `gorm:"size:500;comment:频道横幅地址" json:"banner_url"`
	SubscriberCount int64  `gorm:"not null;default:0;comment:订阅者数量" json:"subscriber_count"`

	CreatedAt time.Time `gorm:"autoCreateTime;comment:创建时间" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime;comment:更新时间" json:"updated_at"`

	// 关联关系
	Owner       User           `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	Videos      []Video        `gorm:"foreignKey:ChannelID" json:"videos,omitempty"`
	Subscribers []Subscription `gorm:"foreignKey:ChannelID" json:"subscribers,omitempty"`
}

func (Channel) TableName() string {
	return "channels"
}
