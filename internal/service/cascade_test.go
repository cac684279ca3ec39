package service

import (
	"errors"
	"testing"

	"tube-go/internal/api/dto"
	"tube-go/internal/model"
)

// 构造一个典型的关联网：
// alice 拥有频道和两个视频，bob 订阅了 alice 的频道并点赞、评论了她的视频，
// bob 自己也有频道和视频，alice 订阅了 bob 的频道并点赞、评论了他的视频。
func buildWorld(s *memStore) (alice, bob *userWorld) {
	alice = &userWorld{}
	bob = &userWorld{}

	alice.user = s.addUser("alice")
	bob.user = s.addUser("bob")

	alice.channel = s.addChannel(alice.user, "Alice Ch", "alice")
	bob.channel = s.addChannel(bob.user, "Bob Ch", "bob")

	alice.videos = append(alice.videos, s.addVideo(alice.channel, "a1"), s.addVideo(alice.channel, "a2"))
	bob.videos = append(bob.videos, s.addVideo(bob.channel, "b1"))

	// bob -> alice
	s.addSubscription(bob.user, alice.channel)
	s.addLike(bob.user, alice.videos[0])
	s.addComment(bob.user, alice.videos[0], "nice")
	s.addComment(bob.user, alice.videos[1], "good")

	// alice -> bob
	s.addSubscription(alice.user, bob.channel)
	s.addLike(alice.user, bob.videos[0])
	s.addComment(alice.user, bob.videos[0], "cool")

	return alice, bob
}

type userWorld struct {
	user    *model.User
	channel *model.Channel
	videos  []*model.Video
}

func TestChannelDelete_Cascade(t *testing.T) {
	s := newMemStore()
	alice, bob := buildWorld(s)

	svc := NewChannelService(&fakeChannelRepo{s}, &fakeUserRepo{s}, &fakeUnitOfWork{s})

	cascade, err := svc.Delete(alice.channel.ID, alice.user.ID)
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	if cascade.ChannelID != alice.channel.ID || cascade.OwnerID != alice.user.ID {
		t.Errorf("cascade identity mismatch: %+v", cascade)
	}
	if len(cascade.VideoIDs) != 2 {
		t.Errorf("expected 2 cascaded videos, got %d", len(cascade.VideoIDs))
	}
	if len(cascade.SubscriberIDs) != 1 || cascade.SubscriberIDs[0] != bob.user.ID {
		t.Errorf("expected subscriber [%d], got %v", bob.user.ID, cascade.SubscriberIDs)
	}

	// 频道与视频已删除
	if _, ok := s.channels[alice.channel.ID]; ok {
		t.Error("channel should be deleted")
	}
	for _, v := range alice.videos {
		if _, ok := s.videos[v.ID]; ok {
			t.Errorf("video %d should be deleted", v.ID)
		}
	}

	// 视频的点赞、评论已删除
	for _, like := range s.likes {
		if like.VideoID == alice.videos[0].ID || like.VideoID == alice.videos[1].ID {
			t.Errorf("like on deleted video %d survived", like.VideoID)
		}
	}
	for _, c := range s.comments {
		if c.VideoID == alice.videos[0].ID || c.VideoID == alice.videos[1].ID {
			t.Errorf("comment on deleted video %d survived", c.VideoID)
		}
	}

	// 订阅关系已删除，订阅者的订阅数已扣减
	for _, sub := range s.subs {
		if sub.ChannelID == alice.channel.ID {
			t.Error("subscription to deleted channel survived")
		}
	}
	if s.users[bob.user.ID].SubscriptionCount != 0 {
		t.Errorf("bob subscription_count = %d, want 0", s.users[bob.user.ID].SubscriptionCount)
	}

	// 频道主标记已清除
	owner := s.users[alice.user.ID]
	if owner.HasChannel || owner.ChannelID != nil {
		t.Error("owner has_channel flag should be cleared")
	}

	// bob 的频道和视频不受影响
	if _, ok := s.channels[bob.channel.ID]; !ok {
		t.Error("unrelated channel was deleted")
	}
	if _, ok := s.videos[bob.videos[0].ID]; !ok {
		t.Error("unrelated video was deleted")
	}
	if s.videos[bob.videos[0].ID].LikeCount != 1 || s.videos[bob.videos[0].ID].CommentCount != 1 {
		t.Error("unrelated video counters were changed")
	}
}

func TestChannelDelete_Forbidden(t *testing.T) {
	s := newMemStore()
	alice, bob := buildWorld(s)

	svc := NewChannelService(&fakeChannelRepo{s}, &fakeUserRepo{s}, &fakeUnitOfWork{s})

	_, err := svc.Delete(alice.channel.ID, bob.user.ID)
	if !errors.Is(err, ErrChannelNoPermission) {
		t.Fatalf("expected ErrChannelNoPermission, got %v", err)
	}

	// 校验失败不产生任何写入
	if _, ok := s.channels[alice.channel.ID]; !ok {
		t.Error("channel should survive a forbidden delete")
	}
	if len(s.videos) != 3 || len(s.subs) != 2 || len(s.likes) != 2 || len(s.comments) != 3 {
		t.Error("forbidden delete mutated data")
	}
}

func TestChannelDelete_NotFound(t *testing.T) {
	s := newMemStore()
	alice, _ := buildWorld(s)

	svc := NewChannelService(&fakeChannelRepo{s}, &fakeUserRepo{s}, &fakeUnitOfWork{s})

	if _, err := svc.Delete(99999, alice.user.ID); !errors.Is(err, ErrChannelNotFound) {
		t.Fatalf("expected ErrChannelNotFound, got %v", err)
	}
}

func TestVideoDelete_Cascade(t *testing.T) {
	s := newMemStore()
	alice, bob := buildWorld(s)

	svc := NewVideoService(&fakeVideoRepo{s}, &fakeChannelRepo{s}, &fakeUnitOfWork{s})

	target := alice.videos[0]
	if err := svc.Delete(target.ID, alice.user.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	if _, ok := s.videos[target.ID]; ok {
		t.Error("video should be deleted")
	}
	for _, like := range s.likes {
		if like.VideoID == target.ID {
			t.Error("like on deleted video survived")
		}
	}
	for _, c := range s.comments {
		if c.VideoID == target.ID {
			t.Error("comment on deleted video survived")
		}
	}

	// 同频道的另一个视频及其评论不受影响
	if _, ok := s.videos[alice.videos[1].ID]; !ok {
		t.Error("sibling video was deleted")
	}
	if s.videos[alice.videos[1].ID].CommentCount != 1 {
		t.Error("sibling video comment_count was changed")
	}
	if _, ok := s.channels[alice.channel.ID]; !ok {
		t.Error("channel should survive a video delete")
	}
	if s.users[bob.user.ID].SubscriptionCount != 1 {
		t.Error("subscription counters should not change on video delete")
	}
}

func TestVideoDelete_Forbidden(t *testing.T) {
	s := newMemStore()
	alice, bob := buildWorld(s)

	svc := NewVideoService(&fakeVideoRepo{s}, &fakeChannelRepo{s}, &fakeUnitOfWork{s})

	err := svc.Delete(alice.videos[0].ID, bob.user.ID)
	if !errors.Is(err, ErrVideoNoPermission) {
		t.Fatalf("expected ErrVideoNoPermission, got %v", err)
	}
	if len(s.videos) != 3 || len(s.likes) != 2 || len(s.comments) != 3 {
		t.Error("forbidden delete mutated data")
	}
}

func TestAccountDelete_FullCascade(t *testing.T) {
	s := newMemStore()
	alice, bob := buildWorld(s)

	svc := NewUserService(&fakeUserRepo{s}, &fakeUnitOfWork{s})

	current := &dto.UserInfo{ID: alice.user.ID, UserRole: "user"}
	cascade, err := svc.DeleteAccount(alice.user.ID, current)
	if err != nil {
		t.Fatalf("DeleteAccount failed: %v", err)
	}
	if cascade == nil || cascade.ChannelID != alice.channel.ID {
		t.Fatalf("expected channel cascade for %d, got %+v", alice.channel.ID, cascade)
	}
	if len(cascade.VideoIDs) != 2 {
		t.Errorf("expected 2 cascaded videos, got %d", len(cascade.VideoIDs))
	}

	// 用户、频道、视频全部删除
	if _, ok := s.users[alice.user.ID]; ok {
		t.Error("user should be deleted")
	}
	if _, ok := s.channels[alice.channel.ID]; ok {
		t.Error("channel should be deleted")
	}
	for _, v := range alice.videos {
		if _, ok := s.videos[v.ID]; ok {
			t.Errorf("video %d should be deleted", v.ID)
		}
	}

	// alice 的所有入向引用消失：bob 的订阅、点赞、评论
	if len(s.subs) != 0 {
		t.Errorf("expected no subscriptions left, got %d", len(s.subs))
	}
	if s.users[bob.user.ID].SubscriptionCount != 0 {
		t.Errorf("bob subscription_count = %d, want 0", s.users[bob.user.ID].SubscriptionCount)
	}

	// alice 的所有出向引用消失：她对 bob 频道的订阅、对 bob 视频的点赞和评论
	if s.channels[bob.channel.ID].SubscriberCount != 0 {
		t.Errorf("bob channel subscriber_count = %d, want 0", s.channels[bob.channel.ID].SubscriberCount)
	}
	bobVideo := s.videos[bob.videos[0].ID]
	if bobVideo.LikeCount != 0 {
		t.Errorf("bob video like_count = %d, want 0", bobVideo.LikeCount)
	}
	if bobVideo.CommentCount != 0 {
		t.Errorf("bob video comment_count = %d, want 0", bobVideo.CommentCount)
	}
	for _, like := range s.likes {
		if like.UserID == alice.user.ID {
			t.Error("alice's like survived account deletion")
		}
	}
	for _, c := range s.comments {
		if c.UserID == alice.user.ID {
			t.Error("alice's comment survived account deletion")
		}
	}

	// bob 本体不受影响
	if _, ok := s.users[bob.user.ID]; !ok {
		t.Error("unrelated user was deleted")
	}
	if _, ok := s.videos[bob.videos[0].ID]; !ok {
		t.Error("unrelated video was deleted")
	}
}

func TestAccountDelete_WithoutChannel(t *testing.T) {
	s := newMemStore()
	alice, _ := buildWorld(s)

	viewer := s.addUser("carol")
	s.addSubscription(viewer, alice.channel)
	s.addLike(viewer, alice.videos[0])
	s.addComment(viewer, alice.videos[0], "hi")

	svc := NewUserService(&fakeUserRepo{s}, &fakeUnitOfWork{s})

	cascade, err := svc.DeleteAccount(viewer.ID, &dto.UserInfo{ID: viewer.ID, UserRole: "user"})
	if err != nil {
		t.Fatalf("DeleteAccount failed: %v", err)
	}
	if cascade != nil {
		t.Errorf("expected no channel cascade for channel-less user, got %+v", cascade)
	}

	if _, ok := s.users[viewer.ID]; ok {
		t.Error("user should be deleted")
	}
	// alice 侧计数回退，内容保留
	if s.channels[alice.channel.ID].SubscriberCount != 1 {
		t.Errorf("alice channel subscriber_count = %d, want 1", s.channels[alice.channel.ID].SubscriberCount)
	}
	v := s.videos[alice.videos[0].ID]
	if v.LikeCount != 1 {
		t.Errorf("video like_count = %d, want 1", v.LikeCount)
	}
	if v.CommentCount != 1 {
		t.Errorf("video comment_count = %d, want 1", v.CommentCount)
	}
	if _, ok := s.videos[alice.videos[0].ID]; !ok {
		t.Error("video should survive viewer deletion")
	}
}

func TestAccountDelete_AdminCanDelete(t *testing.T) {
	s := newMemStore()
	alice, _ := buildWorld(s)
	admin := s.addUser("root")
	admin.UserRole = "admin"

	svc := NewUserService(&fakeUserRepo{s}, &fakeUnitOfWork{s})

	if _, err := svc.DeleteAccount(alice.user.ID, &dto.UserInfo{ID: admin.ID, UserRole: "admin"}); err != nil {
		t.Fatalf("admin delete failed: %v", err)
	}
	if _, ok := s.users[alice.user.ID]; ok {
		t.Error("user should be deleted by admin")
	}
}

func TestAccountDelete_AlreadyDeleted(t *testing.T) {
	s := newMemStore()
	alice, _ := buildWorld(s)

	svc := NewUserService(&fakeUserRepo{s}, &fakeUnitOfWork{s})

	current := &dto.UserInfo{ID: alice.user.ID, UserRole: "user"}
	if _, err := svc.DeleteAccount(alice.user.ID, current); err != nil {
		t.Fatalf("DeleteAccount failed: %v", err)
	}
	// 重复删除返回 NotFound 而不是静默成功
	if _, err := svc.DeleteAccount(alice.user.ID, &dto.UserInfo{UserRole: "admin"}); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestAccountDelete_Forbidden(t *testing.T) {
	s := newMemStore()
	alice, bob := buildWorld(s)

	svc := NewUserService(&fakeUserRepo{s}, &fakeUnitOfWork{s})

	_, err := svc.DeleteAccount(alice.user.ID, &dto.UserInfo{ID: bob.user.ID, UserRole: "user"})
	if !errors.Is(err, ErrUserNoPermission) {
		t.Fatalf("expected ErrUserNoPermission, got %v", err)
	}
	if len(s.users) != 2 || len(s.channels) != 2 || len(s.videos) != 3 {
		t.Error("forbidden delete mutated data")
	}
	if len(s.subs) != 2 || len(s.likes) != 2 || len(s.comments) != 3 {
		t.Error("forbidden delete mutated cross references")
	}
}
