package service

import (
	"errors"
	"testing"
)

func newLikeService(s *memStore) *LikeService {
	return NewLikeService(&fakeLikeRepo{s}, &fakeVideoRepo{s}, &fakeUnitOfWork{s})
}

func TestLike_IncrementsCount(t *testing.T) {
	s := newMemStore()
	owner := s.addUser("owner")
	viewer := s.addUser("viewer")
	channel := s.addChannel(owner, "Ch", "ch")
	video := s.addVideo(channel, "v1")

	svc := newLikeService(s)

	if err := svc.Like(viewer.ID, video.ID); err != nil {
		t.Fatalf("Like failed: %v", err)
	}
	if got := s.videos[video.ID].LikeCount; got != 1 {
		t.Errorf("like_count = %d, want 1", got)
	}
	if ok, _ := svc.IsLiked(viewer.ID, video.ID); !ok {
		t.Error("IsLiked should report true after like")
	}
}

func TestLike_Duplicate(t *testing.T) {
	s := newMemStore()
	owner := s.addUser("owner")
	viewer := s.addUser("viewer")
	channel := s.addChannel(owner, "Ch", "ch")
	video := s.addVideo(channel, "v1")

	svc := newLikeService(s)

	if err := svc.Like(viewer.ID, video.ID); err != nil {
		t.Fatalf("Like failed: %v", err)
	}
	if err := svc.Like(viewer.ID, video.ID); !errors.Is(err, ErrAlreadyLiked) {
		t.Fatalf("expected ErrAlreadyLiked, got %v", err)
	}

	// 重复点赞不产生任何写入
	if got := s.videos[video.ID].LikeCount; got != 1 {
		t.Errorf("like_count = %d, want 1", got)
	}
	if len(s.likes) != 1 {
		t.Errorf("expected 1 like row, got %d", len(s.likes))
	}
}

func TestLike_VideoNotFound(t *testing.T) {
	s := newMemStore()
	viewer := s.addUser("viewer")

	svc := newLikeService(s)

	if err := svc.Like(viewer.ID, 404); !errors.Is(err, ErrVideoNotFound) {
		t.Fatalf("expected ErrVideoNotFound, got %v", err)
	}
}

func TestUnlike_Symmetry(t *testing.T) {
	s := newMemStore()
	owner := s.addUser("owner")
	viewer := s.addUser("viewer")
	channel := s.addChannel(owner, "Ch", "ch")
	video := s.addVideo(channel, "v1")

	svc := newLikeService(s)

	if err := svc.Like(viewer.ID, video.ID); err != nil {
		t.Fatalf("Like failed: %v", err)
	}
	if err := svc.Unlike(viewer.ID, video.ID); err != nil {
		t.Fatalf("Unlike failed: %v", err)
	}

	if got := s.videos[video.ID].LikeCount; got != 0 {
		t.Errorf("like_count = %d, want 0", got)
	}
	if ok, _ := svc.IsLiked(viewer.ID, video.ID); ok {
		t.Error("IsLiked should report false after unlike")
	}
}

func TestUnlike_NotLiked(t *testing.T) {
	s := newMemStore()
	owner := s.addUser("owner")
	viewer := s.addUser("viewer")
	channel := s.addChannel(owner, "Ch", "ch")
	video := s.addVideo(channel, "v1")

	svc := newLikeService(s)

	if err := svc.Unlike(viewer.ID, video.ID); !errors.Is(err, ErrNotLiked) {
		t.Fatalf("expected ErrNotLiked, got %v", err)
	}
	if got := s.videos[video.ID].LikeCount; got != 0 {
		t.Errorf("like_count = %d, want 0", got)
	}
}

func TestListLikedVideos_PreservesOrder(t *testing.T) {
	s := newMemStore()
	owner := s.addUser("owner")
	viewer := s.addUser("viewer")
	channel := s.addChannel(owner, "Ch", "ch")

	var videoIDs []int64
	for _, title := range []string{"v1", "v2", "v3"} {
		v := s.addVideo(channel, title)
		videoIDs = append(videoIDs, v.ID)
	}

	svc := newLikeService(s)
	for _, id := range videoIDs {
		if err := svc.Like(viewer.ID, id); err != nil {
			t.Fatalf("Like(%d) failed: %v", id, err)
		}
	}

	data, err := svc.ListLikedVideos(viewer.ID, 1, 10)
	if err != nil {
		t.Fatalf("ListLikedVideos failed: %v", err)
	}
	if data.Total != 3 || len(data.Videos) != 3 {
		t.Fatalf("expected 3 videos, got total=%d len=%d", data.Total, len(data.Videos))
	}
	for i, id := range videoIDs {
		if data.Videos[i].ID != id {
			t.Errorf("position %d: got video %d, want %d", i, data.Videos[i].ID, id)
		}
	}
	if data.Videos[0].Channel == nil || data.Videos[0].Channel.ID != channel.ID {
		t.Error("liked videos should carry channel brief")
	}
}

func TestBatchCheckLiked(t *testing.T) {
	s := newMemStore()
	owner := s.addUser("owner")
	viewer := s.addUser("viewer")
	channel := s.addChannel(owner, "Ch", "ch")
	v1 := s.addVideo(channel, "v1")
	v2 := s.addVideo(channel, "v2")
	s.addLike(viewer, v1)

	svc := newLikeService(s)

	status, err := svc.BatchCheckLiked(viewer.ID, []int64{v1.ID, v2.ID})
	if err != nil {
		t.Fatalf("BatchCheckLiked failed: %v", err)
	}
	if !status[v1.ID] || status[v2.ID] {
		t.Errorf("unexpected status map: %v", status)
	}
}
