package repository

import (
	"tube-go/internal/model"

	"gorm.io/gorm"
)

// LikeRepository 点赞关系数据访问接口
type LikeRepository interface {
	Create(userID, videoID int64) (*model.Like, error)
	Delete(userID, videoID int64) (bool, error)
	Exists(userID, videoID int64) (bool, error)
	ListVideoIDsByUser(userID int64) ([]int64, error)
	GetLikedVideoIDs(userID int64, skip, limit int) ([]int64, int64, error)
	ListByVideo(videoID int64, skip, limit int) ([]model.Like, int64, error)
	DeleteByUser(userID int64) error
	DeleteByVideo(videoID int64) error
	DeleteByVideoIDs(videoIDs []int64) error
	CountByVideo(videoID int64) (int64, error)
	BatchCheckLiked(userID int64, videoIDs []int64) (map[int64]bool, error)
}

type likeRepository struct {
	db *gorm.DB
}

func NewLikeRepository(db *gorm.DB) LikeRepository {
	return &likeRepository{db: db}
}

// Create 创建点赞记录
func (r *likeRepository) Create(userID, videoID int64) (*model.Like, error) {
	like := &model.Like{UserID: userID, VideoID: videoID}
	if err := r.db.Create(like).Error; err != nil {
		return nil, err
	}
	return like, nil
}

// Delete 删除点赞记录
func (r *likeRepository) Delete(userID, videoID int64) (bool, error) {
	result := r.db.Where("user_id = ? AND video_id = ?", userID, videoID).Delete(&model.Like{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Exists 检查是否已点赞
func (r *likeRepository) Exists(userID, videoID int64) (bool, error) {
	var count int64
	err := r.db.Model(&model.Like{}).
		Where("user_id = ? AND video_id = ?", userID, videoID).Count(&count).Error
	return count > 0, err
}

// ListVideoIDsByUser 获取用户点赞的全部视频 ID（级联清理用，不分页）
func (r *likeRepository) ListVideoIDsByUser(userID int64) ([]int64, error) {
	var ids []int64
	err := r.db.Model(&model.Like{}).
		Where("user_id = ?", userID).
		Pluck("video_id", &ids).Error
	return ids, err
}

// GetLikedVideoIDs 获取用户点赞的视频 ID 列表（分页）
func (r *likeRepository) GetLikedVideoIDs(userID int64, skip, limit int) ([]int64, int64, error) {
	query := r.db.Model(&model.Like{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var ids []int64
	err := query.Order("created_at DESC").Offset(skip).Limit(limit).
		Pluck("video_id", &ids).Error
	return ids, total, err
}

// ListByVideo 获取视频的点赞列表（分页）
func (r *likeRepository) ListByVideo(videoID int64, skip, limit int) ([]model.Like, int64, error) {
	query := r.db.Model(&model.Like{}).Where("video_id = ?", videoID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var likes []model.Like
	err := query.Order("created_at DESC").Offset(skip).Limit(limit).Find(&likes).Error
	if err != nil {
		return nil, 0, err
	}
	return likes, total, nil
}

// DeleteByUser 删除用户的全部点赞（账号注销级联）
func (r *likeRepository) DeleteByUser(userID int64) error {
	return r.db.Where("user_id = ?", userID).Delete(&model.Like{}).Error
}

// DeleteByVideo 删除视频的全部点赞（视频删除级联）
func (r *likeRepository) DeleteByVideo(videoID int64) error {
	return r.db.Where("video_id = ?", videoID).Delete(&model.Like{}).Error
}

// DeleteByVideoIDs 批量删除多个视频的点赞（频道删除级联）
func (r *likeRepository) DeleteByVideoIDs(videoIDs []int64) error {
	if len(videoIDs) == 0 {
		return nil
	}
	return r.db.Where("video_id IN ?", videoIDs).Delete(&model.Like{}).Error
}

// CountByVideo 统计视频的点赞数
func (r *likeRepository) CountByVideo(videoID int64) (int64, error) {
	var count int64
	err := r.db.Model(&model.Like{}).Where("video_id = ?", videoID).Count(&count).Error
	return count, err
}

// BatchCheckLiked 批量查询点赞状态
func (r *likeRepository) BatchCheckLiked(userID int64, videoIDs []int64) (map[int64]bool, error) {
	if len(videoIDs) == 0 {
		return map[int64]bool{}, nil
	}

	var likedIDs []int64
	err := r.db.Model(&model.Like{}).
		Where("user_id = ? AND video_id IN ?", userID, videoIDs).
		Pluck("video_id", &likedIDs).Error
	if err != nil {
		return nil, err
	}

	likedSet := make(map[int64]bool, len(likedIDs))
	for _, id := range likedIDs {
		likedSet[id] = true
	}

	result := make(map[int64]bool, len(videoIDs))
	for _, id := range videoIDs {
		result[id] = likedSet[id]
	}
	return result, nil
}
