package service

import (
	"errors"

	"tube-go/internal/api/dto"
	"tube-go/internal/data"
	"tube-go/internal/model"
	"tube-go/internal/repository"

	"gorm.io/gorm"
)

var (
	ErrCommentNotFound     = errors.New("评论不存在")
	ErrCommentNoPermission = errors.New("没有权限操作该评论")
	ErrParentCommentBad    = errors.New("父评论不存在或不属于该视频")
)

type CommentService struct {
	commentRepo repository.CommentRepository
	videoRepo   repository.VideoRepository
	uow         data.UnitOfWork
}

func NewCommentService(commentRepo repository.CommentRepository, videoRepo repository.VideoRepository, uow data.UnitOfWork) *CommentService {
	return &CommentService{commentRepo: commentRepo, videoRepo: videoRepo, uow: uow}
}

// Create 发表评论，评论行与视频评论数在同一事务内写入
// parentID 非空时为回复，父评论必须属于同一视频
func (s *CommentService) Create(userID, videoID int64, content string, parentID *int64) (*dto.CommentInfo, error) {
	if _, err := s.videoRepo.GetByID(videoID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVideoNotFound
		}
		return nil, err
	}

	if parentID != nil {
		parent, err := s.commentRepo.GetByID(*parentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrParentCommentBad
			}
			return nil, err
		}
		if parent.VideoID != videoID {
			return nil, ErrParentCommentBad
		}
	}

	comment := &model.Comment{
		UserID:   userID,
		VideoID:  videoID,
		Content:  content,
		ParentID: parentID,
	}

	err := s.uow.Execute(func(repos *data.TxRepositories) error {
		if err := repos.Comments.Create(comment); err != nil {
			return err
		}
		return repos.Videos.IncrementCommentCount(videoID)
	})
	if err != nil {
		return nil, err
	}

	return toCommentInfo(comment), nil
}

// Update 修改评论内容（仅作者本人）
func (s *CommentService) Update(commentID, userID int64, content string) (*dto.CommentInfo, error) {
	comment, err := s.commentRepo.GetByID(commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, err
	}
	if comment.UserID != userID {
		return nil, ErrCommentNoPermission
	}

	if err := s.commentRepo.Update(commentID, userID, content); err != nil {
		return nil, err
	}
	comment.Content = content

	return toCommentInfo(comment), nil
}

// Delete 删除评论（仅作者本人），视频评论数在同一事务内扣减
func (s *CommentService) Delete(commentID, userID int64) error {
	comment, err := s.commentRepo.GetByID(commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCommentNotFound
		}
		return err
	}
	if comment.UserID != userID {
		return ErrCommentNoPermission
	}

	return s.uow.Execute(func(repos *data.TxRepositories) error {
		deleted, err := repos.Comments.Delete(commentID, userID)
		if err != nil {
			return err
		}
		if !deleted {
			return nil
		}
		return repos.Videos.DecrementCommentCount(comment.VideoID)
	})
}

// ListByVideo 获取视频的顶层评论列表
func (s *CommentService) ListByVideo(videoID int64, page, pageSize int) (*dto.CommentListData, error) {
	if _, err := s.videoRepo.GetByID(videoID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVideoNotFound
		}
		return nil, err
	}

	skip := (page - 1) * pageSize
	comments, total, err := s.commentRepo.ListByVideo(videoID, nil, skip, pageSize)
	if err != nil {
		return nil, err
	}
	return buildCommentListData(comments, total, page, pageSize), nil
}

// ListReplies 获取某条评论的回复列表
func (s *CommentService) ListReplies(parentID int64, page, pageSize int) (*dto.CommentListData, error) {
	if _, err := s.commentRepo.GetByID(parentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, err
	}

	skip := (page - 1) * pageSize
	comments, total, err := s.commentRepo.ListReplies(parentID, skip, pageSize)
	if err != nil {
		return nil, err
	}
	return buildCommentListData(comments, total, page, pageSize), nil
}

// ListByUser 获取用户发表的评论列表
func (s *CommentService) ListByUser(userID int64, page, pageSize int) (*dto.CommentListData, error) {
	skip := (page - 1) * pageSize
	comments, total, err := s.commentRepo.ListByUser(userID, skip, pageSize)
	if err != nil {
		return nil, err
	}
	return buildCommentListData(comments, total, page, pageSize), nil
}

func toCommentInfo(comment *model.Comment) *dto.CommentInfo {
	info := &dto.CommentInfo{
		ID:        comment.ID,
		UserID:    comment.UserID,
		VideoID:   comment.VideoID,
		Content:   comment.Content,
		ParentID:  comment.ParentID,
		CreatedAt: comment.CreatedAt,
	}

	if comment.User.ID != 0 {
		info.User = &dto.UserBrief{
			ID:       comment.User.ID,
			Username: comment.User.UserName,
			Avatar:   comment.User.Avatar,
		}
	}

	return info
}

func buildCommentListData(comments []model.Comment, total int64, page, pageSize int) *dto.CommentListData {
	items := make([]dto.CommentInfo, 0, len(comments))
	for i := range comments {
		items = append(items, *toCommentInfo(&comments[i]))
	}

	totalPages := (total + int64(pageSize) - 1) / int64(pageSize)

	return &dto.CommentListData{
		Comments:   items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}
}
