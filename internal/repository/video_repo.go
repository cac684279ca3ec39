package repository

import (
	"tube-go/internal/model"

	"gorm.io/gorm"
)

// VideoRepository 视频数据访问接口
type VideoRepository interface {
	GetByID(id int64) (*model.Video, error)
	GetByIDWithChannel(id int64) (*model.Video, error)
	GetByIDsWithChannel(ids []int64) ([]model.Video, error)
	Create(video *model.Video) error
	Update(id int64, updates map[string]interface{}) (*model.Video, error)
	Delete(id int64) error
	DeleteByIDs(ids []int64) error
	GetIDsByChannel(channelID int64) ([]int64, error)
	GetIDsByOwner(ownerID int64) ([]int64, error)
	ListVideos(skip, limit int, channelID *int64, status, search *string, withChannel bool) ([]model.Video, int64, error)
	IncrementViewCount(id int64) error
	IncrementCommentCount(id int64) error
	DecrementCommentCount(id int64) error
	DecrementCommentCountBy(id, n int64) error
	IncrementLikeCount(id int64) error
	DecrementLikeCount(id int64) error
	DecrementLikeCountFor(ids []int64) error
}

type videoRepository struct {
	db *gorm.DB
}

func NewVideoRepository(db *gorm.DB) VideoRepository {
	return &videoRepository{db: db}
}

// GetByID 根据 ID 获取视频
func (r *videoRepository) GetByID(id int64) (*model.Video, error) {
	var video model.Video
	err := r.db.Where("id = ?", id).First(&video).Error
	if err != nil {
		return nil, err
	}
	return &video, nil
}

// GetByIDWithChannel 根据 ID 获取视频（含频道信息）
func (r *videoRepository) GetByIDWithChannel(id int64) (*model.Video, error) {
	var video model.Video
	err := r.db.Preload("Channel").Where("id = ?", id).First(&video).Error
	if err != nil {
		return nil, err
	}
	return &video, nil
}

// GetByIDsWithChannel 批量获取视频（含频道信息，搜索回表用）
func (r *videoRepository) GetByIDsWithChannel(ids []int64) ([]model.Video, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var videos []model.Video
	err := r.db.Preload("Channel").Where("id IN ?", ids).Find(&videos).Error
	return videos, err
}

// Create 创建视频记录
func (r *videoRepository) Create(video *model.Video) error {
	return r.db.Create(video).Error
}

// Update 更新视频字段
func (r *videoRepository) Update(id int64, updates map[string]interface{}) (*model.Video, error) {
	result := r.db.Model(&model.Video{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.GetByID(id)
}

// Delete 删除单个视频记录
func (r *videoRepository) Delete(id int64) error {
	result := r.db.Where("id = ?", id).Delete(&model.Video{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteByIDs 批量删除视频记录（频道删除级联）
func (r *videoRepository) DeleteByIDs(ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.Where("id IN ?", ids).Delete(&model.Video{}).Error
}

// GetIDsByChannel 获取频道下全部视频 ID（频道视频列表是派生关系，按 channel_id 查询）
func (r *videoRepository) GetIDsByChannel(channelID int64) ([]int64, error) {
	var ids []int64
	err := r.db.Model(&model.Video{}).Where("channel_id = ?", channelID).Pluck("id", &ids).Error
	return ids, err
}

// GetIDsByOwner 获取用户名下全部视频 ID（账号注销的兜底清扫）
func (r *videoRepository) GetIDsByOwner(ownerID int64) ([]int64, error) {
	var ids []int64
	err := r.db.Model(&model.Video{}).Where("owner_id = ?", ownerID).Pluck("id", &ids).Error
	return ids, err
}

// ListVideos 视频列表查询（分页、筛选、排序）
func (r *videoRepository) ListVideos(skip, limit int, channelID *int64, status, search *string, withChannel bool) ([]model.Video, int64, error) {
	query := r.db.Model(&model.Video{})

	if channelID != nil {
		query = query.Where("channel_id = ?", *channelID)
	}
	if status != nil && *status != "" {
		query = query.Where("status = ?", *status)
		if *status == "published" {
			query = query.Where("play_url IS NOT NULL AND play_url != ''")
		}
	}
	if search != nil && *search != "" {
		query = query.Where("title ILIKE ? OR description ILIKE ?", "%"+*search+"%", "%"+*search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	findQuery := query.Order("created_at DESC").Offset(skip).Limit(limit)
	if withChannel {
		findQuery = findQuery.Preload("Channel")
	}

	var videos []model.Video
	if err := findQuery.Find(&videos).Error; err != nil {
		return nil, 0, err
	}

	return videos, total, nil
}

// IncrementViewCount 观看数 +1
func (r *videoRepository) IncrementViewCount(id int64) error {
	return r.db.Model(&model.Video{}).Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + 1")).Error
}

// IncrementCommentCount 评论数 +1
func (r *videoRepository) IncrementCommentCount(id int64) error {
	return r.db.Model(&model.Video{}).Where("id = ?", id).
		UpdateColumn("comment_count", gorm.Expr("comment_count + 1")).Error
}

// DecrementCommentCount 评论数 -1
func (r *videoRepository) DecrementCommentCount(id int64) error {
	return r.db.Model(&model.Video{}).Where("id = ? AND comment_count > 0", id).
		UpdateColumn("comment_count", gorm.Expr("comment_count - 1")).Error
}

// DecrementCommentCountBy 评论数 -n（账号注销时按视频聚合扣减）
func (r *videoRepository) DecrementCommentCountBy(id, n int64) error {
	if n <= 0 {
		return nil
	}
	return r.db.Model(&model.Video{}).Where("id = ? AND comment_count >= ?", id, n).
		UpdateColumn("comment_count", gorm.Expr("comment_count - ?", n)).Error
}

// IncrementLikeCount 点赞数 +1
func (r *videoRepository) IncrementLikeCount(id int64) error {
	return r.db.Model(&model.Video{}).Where("id = ?", id).
		UpdateColumn("like_count", gorm.Expr("like_count + 1")).Error
}

// DecrementLikeCount 点赞数 -1
func (r *videoRepository) DecrementLikeCount(id int64) error {
	return r.db.Model(&model.Video{}).Where("id = ? AND like_count > 0", id).
		UpdateColumn("like_count", gorm.Expr("like_count - 1")).Error
}

// DecrementLikeCountFor 批量点赞数 -1（账号注销时，对该用户点赞过的全部视频）
func (r *videoRepository) DecrementLikeCountFor(ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.Model(&model.Video{}).Where("id IN ? AND like_count > 0", ids).
		UpdateColumn("like_count", gorm.Expr("like_count - 1")).Error
}
