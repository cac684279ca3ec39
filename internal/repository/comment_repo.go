package repository

import (
	"tube-go/internal/model"

	"gorm.io/gorm"
)

// CommentRepository 评论数据访问接口
type CommentRepository interface {
	Create(comment *model.Comment) error
	GetByID(id int64) (*model.Comment, error)
	Update(commentID, userID int64, content string) error
	Delete(commentID, userID int64) (bool, error)
	DeleteByUser(userID int64) error
	DeleteByVideo(videoID int64) error
	DeleteByVideoIDs(videoIDs []int64) error
	ListVideoIDsByUser(userID int64) ([]int64, error)
	ListByVideo(videoID int64, parentID *int64, skip, limit int) ([]model.Comment, int64, error)
	ListReplies(parentID int64, skip, limit int) ([]model.Comment, int64, error)
	ListByUser(userID int64, skip, limit int) ([]model.Comment, int64, error)
}

type commentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(comment *model.Comment) error {
	return r.db.Create(comment).Error
}

func (r *commentRepository) GetByID(id int64) (*model.Comment, error) {
	var comment model.Comment
	err := r.db.First(&comment, id).Error
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// Update 更新评论（仅作者本人）
func (r *commentRepository) Update(commentID, userID int64, content string) error {
	result := r.db.Model(&model.Comment{}).
		Where("id = ? AND user_id = ?", commentID, userID).
		Update("content", content)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete 删除评论（仅作者本人）
func (r *commentRepository) Delete(commentID, userID int64) (bool, error) {
	result := r.db.Where("id = ? AND user_id = ?", commentID, userID).Delete(&model.Comment{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// DeleteByUser 删除用户的全部评论（账号注销级联）
func (r *commentRepository) DeleteByUser(userID int64) error {
	return r.db.Where("user_id = ?", userID).Delete(&model.Comment{}).Error
}

// DeleteByVideo 删除视频的全部评论（视频删除级联）
func (r *commentRepository) DeleteByVideo(videoID int64) error {
	return r.db.Where("video_id = ?", videoID).Delete(&model.Comment{}).Error
}

// DeleteByVideoIDs 批量删除多个视频的评论（频道删除级联）
func (r *commentRepository) DeleteByVideoIDs(videoIDs []int64) error {
	if len(videoIDs) == 0 {
		return nil
	}
	return r.db.Where("video_id IN ?", videoIDs).Delete(&model.Comment{}).Error
}

// ListVideoIDsByUser 获取用户全部评论所在的视频 ID（含重复，用于按视频聚合扣减评论数）
func (r *commentRepository) ListVideoIDsByUser(userID int64) ([]int64, error) {
	var ids []int64
	err := r.db.Model(&model.Comment{}).
		Where("user_id = ?", userID).
		Pluck("video_id", &ids).Error
	return ids, err
}

// ListByVideo 获取视频的评论列表（支持父评论筛选）
func (r *commentRepository) ListByVideo(videoID int64, parentID *int64, skip, limit int) ([]model.Comment, int64, error) {
	query := r.db.Model(&model.Comment{}).Where("video_id = ?", videoID)

	if parentID != nil {
		query = query.Where("parent_id = ?", *parentID)
	} else {
		query = query.Where("parent_id IS NULL")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var comments []model.Comment
	err := query.Preload("User").Order("created_at DESC").
		Offset(skip).Limit(limit).Find(&comments).Error
	if err != nil {
		return nil, 0, err
	}

	return comments, total, nil
}

// ListReplies 获取某条评论的回复
func (r *commentRepository) ListReplies(parentID int64, skip, limit int) ([]model.Comment, int64, error) {
	query := r.db.Model(&model.Comment{}).Where("parent_id = ?", parentID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var comments []model.Comment
	err := query.Preload("User").Order("created_at ASC").
		Offset(skip).Limit(limit).Find(&comments).Error
	if err != nil {
		return nil, 0, err
	}

	return comments, total, nil
}

// ListByUser 获取用户的评论列表
func (r *commentRepository) ListByUser(userID int64, skip, limit int) ([]model.Comment, int64, error) {
	query := r.db.Model(&model.Comment{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var comments []model.Comment
	err := query.Preload("Video").Order("created_at DESC").
		Offset(skip).Limit(limit).Find(&comments).Error
	if err != nil {
		return nil, 0, err
	}

	return comments, total, nil
}
