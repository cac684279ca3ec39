package dto

// LikeStatusData 单个视频的点赞状态
type LikeStatusData struct {
	VideoID int64 `json:"video_id"`
	IsLiked bool  `json:"is_liked"`
}

// BatchLikeStatusRequest 批量查询点赞状态请求
type BatchLikeStatusRequest struct {
	VideoIDs []int64 `json:"video_ids" binding:"required,min=1,max=100"`
}
