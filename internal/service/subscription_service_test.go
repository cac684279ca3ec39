package service

import (
	"errors"
	"testing"
)

func newSubscriptionService(s *memStore) *SubscriptionService {
	return NewSubscriptionService(&fakeSubscriptionRepo{s}, &fakeChannelRepo{s}, &fakeUserRepo{s}, &fakeUnitOfWork{s})
}

func TestSubscribe_CountersBothSides(t *testing.T) {
	s := newMemStore()
	owner := s.addUser("owner")
	viewer := s.addUser("viewer")
	channel := s.addChannel(owner, "Ch", "ch")

	svc := newSubscriptionService(s)

	if err := svc.Subscribe(viewer.ID, channel.ID); err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}

	if got := s.users[viewer.ID].SubscriptionCount; got != 1 {
		t.Errorf("subscription_count = %d, want 1", got)
	}
	if got := s.channels[channel.ID].SubscriberCount; got != 1 {
		t.Errorf("subscriber_count = %d, want 1", got)
	}
	if ok, _ := svc.IsSubscribed(viewer.ID, channel.ID); !ok {
		t.Error("IsSubscribed should report true after subscribe")
	}
}

func TestSubscribe_Duplicate(t *testing.T) {
	s := newMemStore()
	owner := s.addUser("owner")
	viewer := s.addUser("viewer")
	channel := s.addChannel(owner, "Ch", "ch")

	svc := newSubscriptionService(s)

	if err := svc.Subscribe(viewer.ID, channel.ID); err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}
	if err := svc.Subscribe(viewer.ID, channel.ID); !errors.Is(err, ErrAlreadySubscribed) {
		t.Fatalf("expected ErrAlreadySubscribed, got %v", err)
	}

	// 重复订阅不产生任何写入
	if got := s.users[viewer.ID].SubscriptionCount; got != 1 {
		t.Errorf("subscription_count = %d, want 1", got)
	}
	if got := s.channels[channel.ID].SubscriberCount; got != 1 {
		t.Errorf("subscriber_count = %d, want 1", got)
	}
	if len(s.subs) != 1 {
		t.Errorf("expected 1 subscription row, got %d", len(s.subs))
	}
}

func TestSubscribe_OwnChannel(t *testing.T) {
	s := newMemStore()
	owner := s.addUser("owner")
	channel := s.addChannel(owner, "Ch", "ch")

	svc := newSubscriptionService(s)

	if err := svc.Subscribe(owner.ID, channel.ID); !errors.Is(err, ErrCannotSubscribeOwn) {
		t.Fatalf("expected ErrCannotSubscribeOwn, got %v", err)
	}
	if len(s.subs) != 0 {
		t.Error("self-subscribe should not create a row")
	}
}

func TestSubscribe_ChannelNotFound(t *testing.T) {
	s := newMemStore()
	viewer := s.addUser("viewer")

	svc := newSubscriptionService(s)

	if err := svc.Subscribe(viewer.ID, 404); !errors.Is(err, ErrChannelNotFound) {
		t.Fatalf("expected ErrChannelNotFound, got %v", err)
	}
}

func TestUnsubscribe_Symmetry(t *testing.T) {
	s := newMemStore()
	owner := s.addUser("owner")
	viewer := s.addUser("viewer")
	channel := s.addChannel(owner, "Ch", "ch")

	svc := newSubscriptionService(s)

	if err := svc.Subscribe(viewer.ID, channel.ID); err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}
	if err := svc.Unsubscribe(viewer.ID, channel.ID); err != nil {
		t.Fatalf("Unsubscribe failed: %v", err)
	}

	// 订阅与取消订阅成对出现后，双方计数回到原点
	if got := s.users[viewer.ID].SubscriptionCount; got != 0 {
		t.Errorf("subscription_count = %d, want 0", got)
	}
	if got := s.channels[channel.ID].SubscriberCount; got != 0 {
		t.Errorf("subscriber_count = %d, want 0", got)
	}
	if ok, _ := svc.IsSubscribed(viewer.ID, channel.ID); ok {
		t.Error("IsSubscribed should report false after unsubscribe")
	}
}

func TestUnsubscribe_NotSubscribed(t *testing.T) {
	s := newMemStore()
	owner := s.addUser("owner")
	viewer := s.addUser("viewer")
	channel := s.addChannel(owner, "Ch", "ch")

	svc := newSubscriptionService(s)

	if err := svc.Unsubscribe(viewer.ID, channel.ID); !errors.Is(err, ErrNotSubscribed) {
		t.Fatalf("expected ErrNotSubscribed, got %v", err)
	}
	if got := s.channels[channel.ID].SubscriberCount; got != 0 {
		t.Errorf("subscriber_count = %d, want 0", got)
	}
}

func TestListSubscriptions_PreservesOrder(t *testing.T) {
	s := newMemStore()
	viewer := s.addUser("viewer")
	var channelIDs []int64
	for _, handle := range []string{"c1", "c2", "c3"} {
		owner := s.addUser("owner-" + handle)
		ch := s.addChannel(owner, "Ch "+handle, handle)
		channelIDs = append(channelIDs, ch.ID)
	}

	svc := newSubscriptionService(s)
	for _, id := range channelIDs {
		if err := svc.Subscribe(viewer.ID, id); err != nil {
			t.Fatalf("Subscribe(%d) failed: %v", id, err)
		}
	}

	data, err := svc.ListSubscriptions(viewer.ID, 1, 10)
	if err != nil {
		t.Fatalf("ListSubscriptions failed: %v", err)
	}
	if data.Total != 3 || len(data.Channels) != 3 {
		t.Fatalf("expected 3 channels, got total=%d len=%d", data.Total, len(data.Channels))
	}
	for i, id := range channelIDs {
		if data.Channels[i].ID != id {
			t.Errorf("position %d: got channel %d, want %d", i, data.Channels[i].ID, id)
		}
	}
}

func TestListSubscribers_OwnerOnly(t *testing.T) {
	s := newMemStore()
	owner := s.addUser("owner")
	viewer := s.addUser("viewer")
	channel := s.addChannel(owner, "Ch", "ch")
	s.addSubscription(viewer, channel)

	svc := newSubscriptionService(s)

	if _, err := svc.ListSubscribers(channel.ID, viewer.ID, 1, 10); !errors.Is(err, ErrChannelNoPermission) {
		t.Fatalf("expected ErrChannelNoPermission, got %v", err)
	}

	data, err := svc.ListSubscribers(channel.ID, owner.ID, 1, 10)
	if err != nil {
		t.Fatalf("ListSubscribers failed: %v", err)
	}
	if data.Total != 1 || len(data.Users) != 1 || data.Users[0].ID != viewer.ID {
		t.Errorf("unexpected subscriber list: %+v", data)
	}
}

func TestBatchCheckSubscribed(t *testing.T) {
	s := newMemStore()
	owner := s.addUser("owner")
	viewer := s.addUser("viewer")
	ch1 := s.addChannel(owner, "Ch1", "ch1")
	owner2 := s.addUser("owner2")
	ch2 := s.addChannel(owner2, "Ch2", "ch2")
	s.addSubscription(viewer, ch1)

	svc := newSubscriptionService(s)

	status, err := svc.BatchCheckSubscribed(viewer.ID, []int64{ch1.ID, ch2.ID})
	if err != nil {
		t.Fatalf("BatchCheckSubscribed failed: %v", err)
	}
	if !status[ch1.ID] || status[ch2.ID] {
		t.Errorf("unexpected status map: %v", status)
	}
}
