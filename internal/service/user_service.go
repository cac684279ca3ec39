package service

import (
	"errors"

	"tube-go/internal/api/dto"
	"tube-go/internal/data"
	"tube-go/internal/model"
	"tube-go/internal/repository"

	"gorm.io/gorm"
)

var ErrUserNoPermission = errors.New("没有权限操作该用户")

type UserService struct {
	userRepo repository.UserRepository
	uow      data.UnitOfWork
}

func NewUserService(userRepo repository.UserRepository, uow data.UnitOfWork) *UserService {
	return &UserService{userRepo: userRepo, uow: uow}
}

// GetUserByID 获取用户信息
func (s *UserService) GetUserByID(id int64) (*dto.UserFullInfo, error) {
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return toUserFullInfo(user), nil
}

// UpdateUser 更新用户信息（本人或管理员）
func (s *UserService) UpdateUser(targetID int64, currentUser *dto.UserInfo, req *dto.UserUpdateRequest) (*dto.UserFullInfo, error) {
	if currentUser.ID != targetID && currentUser.UserRole != "admin" {
		return nil, ErrUserNoPermission
	}

	updates := make(map[string]interface{})
	if req.Username != nil {
		updates["user_name"] = *req.Username
	}
	if req.Avatar != nil {
		updates["avatar"] = *req.Avatar
	}
	if req.BackgroundImage != nil {
		updates["background_image"] = *req.BackgroundImage
	}

	if len(updates) == 0 {
		return s.GetUserByID(targetID)
	}

	user, err := s.userRepo.Update(targetID, updates)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return toUserFullInfo(user), nil
}

// DeleteAccount 注销账号（本人或管理员），单事务内完成全部级联：
//  1. 名下频道及其视频、点赞、评论、订阅关系
//  2. 该用户对外的订阅（频道侧订阅者数同步扣减）
//  3. 残留的名下视频（正常数据模型下为空集，发布要求先拥有频道）
//  4. 该用户发表的评论（存活视频的评论数按视频聚合扣减）
//  5. 该用户的点赞（存活视频的点赞数扣减）
//  6. 用户本体
func (s *UserService) DeleteAccount(targetID int64, currentUser *dto.UserInfo) (*ChannelCascade, error) {
	if currentUser.ID != targetID && currentUser.UserRole != "admin" {
		return nil, ErrUserNoPermission
	}

	user, err := s.userRepo.GetByID(targetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	var cascade *ChannelCascade

	err = s.uow.Execute(func(repos *data.TxRepositories) error {
		// 1. 名下频道
		if user.HasChannel && user.ChannelID != nil {
			channel, err := repos.Channels.GetByID(*user.ChannelID)
			if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			if channel != nil {
				cascade, err = deleteChannelCascade(repos, channel)
				if err != nil {
					return err
				}
			}
		}

		// 2. 对外订阅
		subscribedIDs, err := repos.Subscriptions.ListChannelIDsByUser(user.ID)
		if err != nil {
			return err
		}
		if err := repos.Subscriptions.DeleteByUser(user.ID); err != nil {
			return err
		}
		if err := repos.Channels.DecrementSubscriberCountFor(subscribedIDs); err != nil {
			return err
		}

		// 3. 残留的名下视频
		strayIDs, err := repos.Videos.GetIDsByOwner(user.ID)
		if err != nil {
			return err
		}
		if len(strayIDs) > 0 {
			if err := repos.Likes.DeleteByVideoIDs(strayIDs); err != nil {
				return err
			}
			if err := repos.Comments.DeleteByVideoIDs(strayIDs); err != nil {
				return err
			}
			if err := repos.Videos.DeleteByIDs(strayIDs); err != nil {
				return err
			}
		}

		// 4. 该用户的评论
		commentedVideoIDs, err := repos.Comments.ListVideoIDsByUser(user.ID)
		if err != nil {
			return err
		}
		if err := repos.Comments.DeleteByUser(user.ID); err != nil {
			return err
		}
		perVideo := make(map[int64]int64, len(commentedVideoIDs))
		for _, vid := range commentedVideoIDs {
			perVideo[vid]++
		}
		for vid, n := range perVideo {
			if err := repos.Videos.DecrementCommentCountBy(vid, n); err != nil {
				return err
			}
		}

		// 5. 该用户的点赞
		likedVideoIDs, err := repos.Likes.ListVideoIDsByUser(user.ID)
		if err != nil {
			return err
		}
		if err := repos.Likes.DeleteByUser(user.ID); err != nil {
			return err
		}
		if err := repos.Videos.DecrementLikeCountFor(likedVideoIDs); err != nil {
			return err
		}

		// 6. 用户本体
		return repos.Users.Delete(user.ID)
	})
	if err != nil {
		return nil, err
	}

	return cascade, nil
}

// ListUsers 获取用户列表（管理员，带筛选和分页）
func (s *UserService) ListUsers(page, pageSize int, username, userRole *string) (*dto.PaginatedData, error) {
	skip := (page - 1) * pageSize
	users, total, err := s.userRepo.ListWithFilters(skip, pageSize, username, userRole)
	if err != nil {
		return nil, err
	}

	items := make([]dto.UserFullInfo, 0, len(users))
	for i := range users {
		items = append(items, *toUserFullInfo(&users[i]))
	}

	totalPages := (total + int64(pageSize) - 1) / int64(pageSize)

	return &dto.PaginatedData{
		Items: items,
		Meta: dto.PaginationMeta{
			Page:       page,
			PageSize:   pageSize,
			Total:      total,
			TotalPages: totalPages,
		},
	}, nil
}

func toUserFullInfo(user *model.User) *dto.UserFullInfo {
	return &dto.UserFullInfo{
		ID:                user.ID,
		Username:          user.UserName,
		Email:             user.Email,
		Avatar:            user.Avatar,
		BackgroundImage:   user.BackgroundImage,
		UserRole:          user.UserRole,
		HasChannel:        user.HasChannel,
		ChannelID:         user.ChannelID,
		SubscriptionCount: user.SubscriptionCount,
		CreatedAt:         user.CreatedAt,
	}
}
