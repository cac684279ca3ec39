package service

import (
	"errors"

	"tube-go/internal/api/dto"
	"tube-go/internal/data"
	"tube-go/internal/repository"

	"gorm.io/gorm"
)

var (
	ErrAlreadyLiked = errors.New("已经点赞过该视频")
	ErrNotLiked     = errors.New("尚未点赞该视频")
)

type LikeService struct {
	likeRepo  repository.LikeRepository
	videoRepo repository.VideoRepository
	uow       data.UnitOfWork
}

func NewLikeService(likeRepo repository.LikeRepository, videoRepo repository.VideoRepository, uow data.UnitOfWork) *LikeService {
	return &LikeService{likeRepo: likeRepo, videoRepo: videoRepo, uow: uow}
}

// Like 点赞视频，点赞行与视频点赞数在同一事务内写入
func (s *LikeService) Like(userID, videoID int64) error {
	if _, err := s.videoRepo.GetByID(videoID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrVideoNotFound
		}
		return err
	}

	exists, err := s.likeRepo.Exists(userID, videoID)
	if err != nil {
		return err
	}
	if exists {
		return ErrAlreadyLiked
	}

	return s.uow.Execute(func(repos *data.TxRepositories) error {
		if _, err := repos.Likes.Create(userID, videoID); err != nil {
			return err
		}
		return repos.Videos.IncrementLikeCount(videoID)
	})
}

// Unlike 取消点赞，对未点赞的视频返回 ErrNotLiked，不做任何写入
func (s *LikeService) Unlike(userID, videoID int64) error {
	if _, err := s.videoRepo.GetByID(videoID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrVideoNotFound
		}
		return err
	}

	exists, err := s.likeRepo.Exists(userID, videoID)
	if err != nil {
		return err
	}
	if !exists {
		return ErrNotLiked
	}

	return s.uow.Execute(func(repos *data.TxRepositories) error {
		deleted, err := repos.Likes.Delete(userID, videoID)
		if err != nil {
			return err
		}
		if !deleted {
			return nil
		}
		return repos.Videos.DecrementLikeCount(videoID)
	})
}

// IsLiked 查询当前用户是否点赞了某视频
func (s *LikeService) IsLiked(userID, videoID int64) (bool, error) {
	return s.likeRepo.Exists(userID, videoID)
}

// ListLikedVideos 获取用户点赞的视频列表（分页）
func (s *LikeService) ListLikedVideos(userID int64, page, pageSize int) (*dto.VideoListData, error) {
	skip := (page - 1) * pageSize
	videoIDs, total, err := s.likeRepo.GetLikedVideoIDs(userID, skip, pageSize)
	if err != nil {
		return nil, err
	}

	videos, err := s.videoRepo.GetByIDsWithChannel(videoIDs)
	if err != nil {
		return nil, err
	}

	// 保持点赞时间排序
	byID := make(map[int64]int, len(videos))
	for i := range videos {
		byID[videos[i].ID] = i
	}

	items := make([]dto.VideoInfo, 0, len(videoIDs))
	for _, id := range videoIDs {
		if i, ok := byID[id]; ok {
			items = append(items, *toVideoInfo(&videos[i], true))
		}
	}

	totalPages := (total + int64(pageSize) - 1) / int64(pageSize)

	return &dto.VideoListData{
		Videos:     items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}, nil
}

// BatchCheckLiked 批量查询点赞状态，返回 videoID -> 是否已点赞
func (s *LikeService) BatchCheckLiked(userID int64, videoIDs []int64) (map[int64]bool, error) {
	return s.likeRepo.BatchCheckLiked(userID, videoIDs)
}
