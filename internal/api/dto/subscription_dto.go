package dto

// SubscriptionListData 用户订阅的频道列表
type SubscriptionListData struct {
	Channels   []ChannelInfo `json:"channels"`
	Total      int64         `json:"total"`
	Page       int           `json:"page"`
	PageSize   int           `json:"page_size"`
	TotalPages int64         `json:"total_pages"`
}

// SubscriberListData 频道的订阅者列表
type SubscriberListData struct {
	Users      []UserInfo `json:"users"`
	Total      int64      `json:"total"`
	Page       int        `json:"page"`
	PageSize   int        `json:"page_size"`
	TotalPages int64      `json:"total_pages"`
}

// SubscribeStatusData 单个频道的订阅状态
type SubscribeStatusData struct {
	ChannelID    int64 `json:"channel_id"`
	IsSubscribed bool  `json:"is_subscribed"`
}

// BatchSubscribeStatusRequest 批量查询订阅状态请求
type BatchSubscribeStatusRequest struct {
	ChannelIDs []int64 `json:"channel_ids" binding:"required,min=1,max=100"`
}
