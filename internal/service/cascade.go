package service

import (
	"tube-go/internal/data"
	"tube-go/internal/model"
)

// ChannelCascade 频道删除级联影响到的实体集合，
// 调用方用它继续后续清理（清频道主标记、清搜索索引等）。
type ChannelCascade struct {
	ChannelID     int64
	OwnerID       int64
	VideoIDs      []int64
	SubscriberIDs []int64
}

// deleteChannelCascade 在同一事务内删除频道及其全部派生数据。
// 账号注销与频道删除两条流程共用，删除顺序：
//  1. 频道视频的点赞、评论、视频本体
//  2. 订阅关系（行同时代表两侧，删行即保持对称）+ 订阅者的订阅数
//  3. 频道本体
//  4. 频道主的 has_channel / channel_id 标记
func deleteChannelCascade(repos *data.TxRepositories, channel *model.Channel) (*ChannelCascade, error) {
	videoIDs, err := repos.Videos.GetIDsByChannel(channel.ID)
	if err != nil {
		return nil, err
	}

	if len(videoIDs) > 0 {
		if err := repos.Likes.DeleteByVideoIDs(videoIDs); err != nil {
			return nil, err
		}
		if err := repos.Comments.DeleteByVideoIDs(videoIDs); err != nil {
			return nil, err
		}
		if err := repos.Videos.DeleteByIDs(videoIDs); err != nil {
			return nil, err
		}
	}

	subscriberIDs, err := repos.Subscriptions.ListUserIDsByChannel(channel.ID)
	if err != nil {
		return nil, err
	}
	if err := repos.Subscriptions.DeleteByChannel(channel.ID); err != nil {
		return nil, err
	}
	if err := repos.Users.DecrementSubscriptionCountFor(subscriberIDs); err != nil {
		return nil, err
	}

	if err := repos.Channels.Delete(channel.ID); err != nil {
		return nil, err
	}
	if err := repos.Users.ClearChannel(channel.OwnerID); err != nil {
		return nil, err
	}

	return &ChannelCascade{
		ChannelID:     channel.ID,
		OwnerID:       channel.OwnerID,
		VideoIDs:      videoIDs,
		SubscriberIDs: subscriberIDs,
	}, nil
}

// deleteVideoCascade 在同一事务内删除单个视频及其点赞、评论。
// 频道的视频列表按 channel_id 派生，无需回写频道。
func deleteVideoCascade(repos *data.TxRepositories, videoID int64) error {
	if err := repos.Likes.DeleteByVideo(videoID); err != nil {
		return err
	}
	if err := repos.Comments.DeleteByVideo(videoID); err != nil {
		return err
	}
	return repos.Videos.Delete(videoID)
}
