package dto

import "time"

// ChannelCreateRequest 创建频道请求
type ChannelCreateRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=100"`
	Handle      string `json:"handle" binding:"required,min=3,max=30,alphanum"`
	Description string `json:"description" binding:"omitempty,max=1000"`
}

// ChannelUpdateRequest 更新频道请求
type ChannelUpdateRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=100"`
	Description *string `json:"description" binding:"omitempty,max=1000"`
}

// ChannelInfo 频道详情
type ChannelInfo struct {
	ID              int64     `json:"id"`
	OwnerID         int64     `json:"owner_id"`
	Name            string    `json:"name"`
	Handle          string    `json:"handle"`
	Description     string    `json:"description"`
	AvatarURL       string    `json:"avatar_url"`
	BannerURL       string    `json:"banner_url"`
	SubscriberCount int64     `json:"subscriber_count"`
	CreatedAt       time.Time `json:"created_at"`
}

// ChannelBrief 视频中嵌套的频道简要信息
type ChannelBrief struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Handle    string `json:"handle"`
	AvatarURL string `json:"avatar_url"`
}

// ChannelDeleteData 频道删除结果（级联范围）
type ChannelDeleteData struct {
	ChannelID     int64 `json:"channel_id"`
	DeletedVideos int   `json:"deleted_videos"`
	Unsubscribed  int   `json:"unsubscribed"`
}

// ImageUploadData 频道图片上传结果
type ImageUploadData struct {
	URL string `json:"url"`
}
