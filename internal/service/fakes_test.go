package service

import (
	"os"
	"sort"
	"testing"

	"tube-go/internal/data"
	"tube-go/internal/model"
	"tube-go/pkg/logger"

	"gorm.io/gorm"
)

func TestMain(m *testing.M) {
	_ = logger.Init("error", "console", "stdout", "")
	os.Exit(m.Run())
}

// memStore 内存数据集，供各 fake Repository 共享
type memStore struct {
	users    map[int64]*model.User
	channels map[int64]*model.Channel
	videos   map[int64]*model.Video
	comments map[int64]*model.Comment
	subs     []model.Subscription
	likes    []model.Like
	nextID   int64
}

func newMemStore() *memStore {
	return &memStore{
		users:    make(map[int64]*model.User),
		channels: make(map[int64]*model.Channel),
		videos:   make(map[int64]*model.Video),
		comments: make(map[int64]*model.Comment),
		nextID:   1,
	}
}

func (s *memStore) id() int64 {
	id := s.nextID
	s.nextID++
	return id
}

func (s *memStore) repos() *data.TxRepositories {
	return &data.TxRepositories{
		Users:         &fakeUserRepo{s},
		Channels:      &fakeChannelRepo{s},
		Videos:        &fakeVideoRepo{s},
		Comments:      &fakeCommentRepo{s},
		Subscriptions: &fakeSubscriptionRepo{s},
		Likes:         &fakeLikeRepo{s},
	}
}

// fakeUnitOfWork 直接在同一个内存数据集上执行回调，无事务语义
type fakeUnitOfWork struct {
	s *memStore
}

func (u *fakeUnitOfWork) Execute(fn func(repos *data.TxRepositories) error) error {
	return fn(u.s.repos())
}

// --- 测试数据构造 ---

func (s *memStore) addUser(name string) *model.User {
	u := &model.User{ID: s.id(), UserName: name, Email: name + "@test.local", UserRole: "user"}
	s.users[u.ID] = u
	return u
}

func (s *memStore) addChannel(owner *model.User, name, handle string) *model.Channel {
	c := &model.Channel{ID: s.id(), OwnerID: owner.ID, Name: name, Handle: handle}
	s.channels[c.ID] = c
	owner.HasChannel = true
	owner.ChannelID = &c.ID
	return c
}

func (s *memStore) addVideo(channel *model.Channel, title string) *model.Video {
	v := &model.Video{
		ID:        s.id(),
		ChannelID: channel.ID,
		OwnerID:   channel.OwnerID,
		Title:     title,
		Status:    "published",
		PlayURL:   "http://minio/public-videos/video.mp4",
	}
	s.videos[v.ID] = v
	return v
}

func (s *memStore) addSubscription(user *model.User, channel *model.Channel) {
	s.subs = append(s.subs, model.Subscription{ID: s.id(), UserID: user.ID, ChannelID: channel.ID})
	user.SubscriptionCount++
	channel.SubscriberCount++
}

func (s *memStore) addLike(user *model.User, video *model.Video) {
	s.likes = append(s.likes, model.Like{ID: s.id(), UserID: user.ID, VideoID: video.ID})
	video.LikeCount++
}

func (s *memStore) addComment(user *model.User, video *model.Video, content string) *model.Comment {
	c := &model.Comment{ID: s.id(), UserID: user.ID, VideoID: video.ID, Content: content}
	s.comments[c.ID] = c
	video.CommentCount++
	return c
}

// --- UserRepository ---

type fakeUserRepo struct{ s *memStore }

func (r *fakeUserRepo) GetByID(id int64) (*model.User, error) {
	if u, ok := r.s.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) GetByEmail(email string) (*model.User, error) {
	for _, u := range r.s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) GetByIDs(ids []int64) ([]model.User, error) {
	var out []model.User
	for _, id := range ids {
		if u, ok := r.s.users[id]; ok {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) Create(user *model.User) error {
	user.ID = r.s.id()
	cp := *user
	r.s.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) Update(id int64, updates map[string]interface{}) (*model.User, error) {
	u, ok := r.s.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	if v, ok := updates["user_name"]; ok {
		u.UserName = v.(string)
	}
	if v, ok := updates["avatar"]; ok {
		av := v.(string)
		u.Avatar = &av
	}
	if v, ok := updates["background_image"]; ok {
		bg := v.(string)
		u.BackgroundImage = &bg
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) Delete(id int64) error {
	if _, ok := r.s.users[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.s.users, id)
	return nil
}

func (r *fakeUserRepo) ExistsByEmail(email string) (bool, error) {
	for _, u := range r.s.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeUserRepo) ListWithFilters(skip, limit int, username, userRole *string) ([]model.User, int64, error) {
	var out []model.User
	for _, u := range r.s.users {
		if userRole != nil && *userRole != "" && u.UserRole != *userRole {
			continue
		}
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	total := int64(len(out))
	if skip >= len(out) {
		return nil, total, nil
	}
	end := skip + limit
	if end > len(out) {
		end = len(out)
	}
	return out[skip:end], total, nil
}

func (r *fakeUserRepo) SetChannel(userID, channelID int64) error {
	if u, ok := r.s.users[userID]; ok {
		u.HasChannel = true
		u.ChannelID = &channelID
	}
	return nil
}

func (r *fakeUserRepo) ClearChannel(userID int64) error {
	if u, ok := r.s.users[userID]; ok {
		u.HasChannel = false
		u.ChannelID = nil
	}
	return nil
}

func (r *fakeUserRepo) IncrementSubscriptionCount(id int64) error {
	if u, ok := r.s.users[id]; ok {
		u.SubscriptionCount++
	}
	return nil
}

func (r *fakeUserRepo) DecrementSubscriptionCount(id int64) error {
	if u, ok := r.s.users[id]; ok && u.SubscriptionCount > 0 {
		u.SubscriptionCount--
	}
	return nil
}

func (r *fakeUserRepo) DecrementSubscriptionCountFor(ids []int64) error {
	for _, id := range ids {
		_ = r.DecrementSubscriptionCount(id)
	}
	return nil
}

// --- ChannelRepository ---

type fakeChannelRepo struct{ s *memStore }

func (r *fakeChannelRepo) GetByID(id int64) (*model.Channel, error) {
	if c, ok := r.s.channels[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeChannelRepo) GetByOwner(ownerID int64) (*model.Channel, error) {
	for _, c := range r.s.channels {
		if c.OwnerID == ownerID {
			cp := *c
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeChannelRepo) GetByHandle(handle string) (*model.Channel, error) {
	for _, c := range r.s.channels {
		if c.Handle == handle {
			cp := *c
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeChannelRepo) GetByIDs(ids []int64) ([]model.Channel, error) {
	var out []model.Channel
	for _, id := range ids {
		if c, ok := r.s.channels[id]; ok {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *fakeChannelRepo) Create(channel *model.Channel) error {
	channel.ID = r.s.id()
	cp := *channel
	r.s.channels[channel.ID] = &cp
	return nil
}

func (r *fakeChannelRepo) Update(id int64, updates map[string]interface{}) (*model.Channel, error) {
	c, ok := r.s.channels[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	if v, ok := updates["name"]; ok {
		c.Name = v.(string)
	}
	if v, ok := updates["description"]; ok {
		c.Description = v.(string)
	}
	if v, ok := updates["avatar_url"]; ok {
		c.AvatarURL = v.(string)
	}
	if v, ok := updates["banner_url"]; ok {
		c.BannerURL = v.(string)
	}
	cp := *c
	return &cp, nil
}

func (r *fakeChannelRepo) Delete(id int64) error {
	if _, ok := r.s.channels[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.s.channels, id)
	return nil
}

func (r *fakeChannelRepo) ExistsByHandle(handle string) (bool, error) {
	for _, c := range r.s.channels {
		if c.Handle == handle {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeChannelRepo) IncrementSubscriberCount(id int64) error {
	if c, ok := r.s.channels[id]; ok {
		c.SubscriberCount++
	}
	return nil
}

func (r *fakeChannelRepo) DecrementSubscriberCount(id int64) error {
	if c, ok := r.s.channels[id]; ok && c.SubscriberCount > 0 {
		c.SubscriberCount--
	}
	return nil
}

func (r *fakeChannelRepo) DecrementSubscriberCountFor(ids []int64) error {
	for _, id := range ids {
		_ = r.DecrementSubscriberCount(id)
	}
	return nil
}

// --- VideoRepository ---

type fakeVideoRepo struct{ s *memStore }

func (r *fakeVideoRepo) GetByID(id int64) (*model.Video, error) {
	if v, ok := r.s.videos[id]; ok {
		cp := *v
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeVideoRepo) GetByIDWithChannel(id int64) (*model.Video, error) {
	v, err := r.GetByID(id)
	if err != nil {
		return nil, err
	}
	if c, ok := r.s.channels[v.ChannelID]; ok {
		v.Channel = *c
	}
	return v, nil
}

func (r *fakeVideoRepo) GetByIDsWithChannel(ids []int64) ([]model.Video, error) {
	var out []model.Video
	for _, id := range ids {
		if v, err := r.GetByIDWithChannel(id); err == nil {
			out = append(out, *v)
		}
	}
	return out, nil
}

func (r *fakeVideoRepo) Create(video *model.Video) error {
	video.ID = r.s.id()
	cp := *video
	r.s.videos[video.ID] = &cp
	return nil
}

func (r *fakeVideoRepo) Update(id int64, updates map[string]interface{}) (*model.Video, error) {
	v, ok := r.s.videos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	if val, ok := updates["title"]; ok {
		v.Title = val.(string)
	}
	if val, ok := updates["description"]; ok {
		v.Description = val.(string)
	}
	if val, ok := updates["status"]; ok {
		v.Status = val.(string)
	}
	cp := *v
	return &cp, nil
}

func (r *fakeVideoRepo) Delete(id int64) error {
	if _, ok := r.s.videos[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.s.videos, id)
	return nil
}

func (r *fakeVideoRepo) DeleteByIDs(ids []int64) error {
	for _, id := range ids {
		delete(r.s.videos, id)
	}
	return nil
}

func (r *fakeVideoRepo) GetIDsByChannel(channelID int64) ([]int64, error) {
	var ids []int64
	for _, v := range r.s.videos {
		if v.ChannelID == channelID {
			ids = append(ids, v.ID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (r *fakeVideoRepo) GetIDsByOwner(ownerID int64) ([]int64, error) {
	var ids []int64
	for _, v := range r.s.videos {
		if v.OwnerID == ownerID {
			ids = append(ids, v.ID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (r *fakeVideoRepo) ListVideos(skip, limit int, channelID *int64, status, search *string, withChannel bool) ([]model.Video, int64, error) {
	var out []model.Video
	for _, v := range r.s.videos {
		if channelID != nil && v.ChannelID != *channelID {
			continue
		}
		if status != nil && *status != "" && v.Status != *status {
			continue
		}
		cp := *v
		if withChannel {
			if c, ok := r.s.channels[v.ChannelID]; ok {
				cp.Channel = *c
			}
		}
		out = append(out, cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	total := int64(len(out))
	if skip >= len(out) {
		return nil, total, nil
	}
	end := skip + limit
	if end > len(out) {
		end = len(out)
	}
	return out[skip:end], total, nil
}

func (r *fakeVideoRepo) IncrementViewCount(id int64) error {
	if v, ok := r.s.videos[id]; ok {
		v.ViewCount++
	}
	return nil
}

func (r *fakeVideoRepo) IncrementCommentCount(id int64) error {
	if v, ok := r.s.videos[id]; ok {
		v.CommentCount++
	}
	return nil
}

func (r *fakeVideoRepo) DecrementCommentCount(id int64) error {
	if v, ok := r.s.videos[id]; ok && v.CommentCount > 0 {
		v.CommentCount--
	}
	return nil
}

func (r *fakeVideoRepo) DecrementCommentCountBy(id, n int64) error {
	if v, ok := r.s.videos[id]; ok && v.CommentCount >= n {
		v.CommentCount -= n
	}
	return nil
}

func (r *fakeVideoRepo) IncrementLikeCount(id int64) error {
	if v, ok := r.s.videos[id]; ok {
		v.LikeCount++
	}
	return nil
}

func (r *fakeVideoRepo) DecrementLikeCount(id int64) error {
	if v, ok := r.s.videos[id]; ok && v.LikeCount > 0 {
		v.LikeCount--
	}
	return nil
}

func (r *fakeVideoRepo) DecrementLikeCountFor(ids []int64) error {
	for _, id := range ids {
		_ = r.DecrementLikeCount(id)
	}
	return nil
}

// --- CommentRepository ---

type fakeCommentRepo struct{ s *memStore }

func (r *fakeCommentRepo) Create(comment *model.Comment) error {
	comment.ID = r.s.id()
	cp := *comment
	r.s.comments[comment.ID] = &cp
	return nil
}

func (r *fakeCommentRepo) GetByID(id int64) (*model.Comment, error) {
	if c, ok := r.s.comments[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeCommentRepo) Update(commentID, userID int64, content string) error {
	c, ok := r.s.comments[commentID]
	if !ok || c.UserID != userID {
		return gorm.ErrRecordNotFound
	}
	c.Content = content
	return nil
}

func (r *fakeCommentRepo) Delete(commentID, userID int64) (bool, error) {
	c, ok := r.s.comments[commentID]
	if !ok || c.UserID != userID {
		return false, nil
	}
	delete(r.s.comments, commentID)
	return true, nil
}

func (r *fakeCommentRepo) DeleteByUser(userID int64) error {
	for id, c := range r.s.comments {
		if c.UserID == userID {
			delete(r.s.comments, id)
		}
	}
	return nil
}

func (r *fakeCommentRepo) DeleteByVideo(videoID int64) error {
	for id, c := range r.s.comments {
		if c.VideoID == videoID {
			delete(r.s.comments, id)
		}
	}
	return nil
}

func (r *fakeCommentRepo) DeleteByVideoIDs(videoIDs []int64) error {
	for _, vid := range videoIDs {
		_ = r.DeleteByVideo(vid)
	}
	return nil
}

func (r *fakeCommentRepo) ListVideoIDsByUser(userID int64) ([]int64, error) {
	var ids []int64
	for _, c := range r.s.comments {
		if c.UserID == userID {
			ids = append(ids, c.VideoID)
		}
	}
	return ids, nil
}

func (r *fakeCommentRepo) ListByVideo(videoID int64, parentID *int64, skip, limit int) ([]model.Comment, int64, error) {
	var out []model.Comment
	for _, c := range r.s.comments {
		if c.VideoID != videoID {
			continue
		}
		if parentID == nil && c.ParentID != nil {
			continue
		}
		if parentID != nil && (c.ParentID == nil || *c.ParentID != *parentID) {
			continue
		}
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return paginateComments(out, skip, limit)
}

func (r *fakeCommentRepo) ListReplies(parentID int64, skip, limit int) ([]model.Comment, int64, error) {
	var out []model.Comment
	for _, c := range r.s.comments {
		if c.ParentID != nil && *c.ParentID == parentID {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return paginateComments(out, skip, limit)
}

func (r *fakeCommentRepo) ListByUser(userID int64, skip, limit int) ([]model.Comment, int64, error) {
	var out []model.Comment
	for _, c := range r.s.comments {
		if c.UserID == userID {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return paginateComments(out, skip, limit)
}

func paginateComments(out []model.Comment, skip, limit int) ([]model.Comment, int64, error) {
	total := int64(len(out))
	if skip >= len(out) {
		return nil, total, nil
	}
	end := skip + limit
	if end > len(out) {
		end = len(out)
	}
	return out[skip:end], total, nil
}

// --- SubscriptionRepository ---

type fakeSubscriptionRepo struct{ s *memStore }

func (r *fakeSubscriptionRepo) Create(userID, channelID int64) (*model.Subscription, error) {
	sub := model.Subscription{ID: r.s.id(), UserID: userID, ChannelID: channelID}
	r.s.subs = append(r.s.subs, sub)
	return &sub, nil
}

func (r *fakeSubscriptionRepo) Delete(userID, channelID int64) (bool, error) {
	for i, sub := range r.s.subs {
		if sub.UserID == userID && sub.ChannelID == channelID {
			r.s.subs = append(r.s.subs[:i], r.s.subs[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeSubscriptionRepo) Exists(userID, channelID int64) (bool, error) {
	for _, sub := range r.s.subs {
		if sub.UserID == userID && sub.ChannelID == channelID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeSubscriptionRepo) ListChannelIDsByUser(userID int64) ([]int64, error) {
	var ids []int64
	for _, sub := range r.s.subs {
		if sub.UserID == userID {
			ids = append(ids, sub.ChannelID)
		}
	}
	return ids, nil
}

func (r *fakeSubscriptionRepo) ListUserIDsByChannel(channelID int64) ([]int64, error) {
	var ids []int64
	for _, sub := range r.s.subs {
		if sub.ChannelID == channelID {
			ids = append(ids, sub.UserID)
		}
	}
	return ids, nil
}

func (r *fakeSubscriptionRepo) GetSubscribedChannelIDs(userID int64, skip, limit int) ([]int64, int64, error) {
	ids, _ := r.ListChannelIDsByUser(userID)
	return paginateIDs(ids, skip, limit)
}

func (r *fakeSubscriptionRepo) GetSubscriberIDs(channelID int64, skip, limit int) ([]int64, int64, error) {
	ids, _ := r.ListUserIDsByChannel(channelID)
	return paginateIDs(ids, skip, limit)
}

func (r *fakeSubscriptionRepo) DeleteByUser(userID int64) error {
	kept := r.s.subs[:0]
	for _, sub := range r.s.subs {
		if sub.UserID != userID {
			kept = append(kept, sub)
		}
	}
	r.s.subs = kept
	return nil
}

func (r *fakeSubscriptionRepo) DeleteByChannel(channelID int64) error {
	kept := r.s.subs[:0]
	for _, sub := range r.s.subs {
		if sub.ChannelID != channelID {
			kept = append(kept, sub)
		}
	}
	r.s.subs = kept
	return nil
}

func (r *fakeSubscriptionRepo) CountByChannel(channelID int64) (int64, error) {
	ids, _ := r.ListUserIDsByChannel(channelID)
	return int64(len(ids)), nil
}

func (r *fakeSubscriptionRepo) BatchCheckSubscribed(userID int64, channelIDs []int64) (map[int64]bool, error) {
	result := make(map[int64]bool, len(channelIDs))
	for _, id := range channelIDs {
		ok, _ := r.Exists(userID, id)
		result[id] = ok
	}
	return result, nil
}

// --- LikeRepository ---

type fakeLikeRepo struct{ s *memStore }

func (r *fakeLikeRepo) Create(userID, videoID int64) (*model.Like, error) {
	like := model.Like{ID: r.s.id(), UserID: userID, VideoID: videoID}
	r.s.likes = append(r.s.likes, like)
	return &like, nil
}

func (r *fakeLikeRepo) Delete(userID, videoID int64) (bool, error) {
	for i, like := range r.s.likes {
		if like.UserID == userID && like.VideoID == videoID {
			r.s.likes = append(r.s.likes[:i], r.s.likes[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeLikeRepo) Exists(userID, videoID int64) (bool, error) {
	for _, like := range r.s.likes {
		if like.UserID == userID && like.VideoID == videoID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeLikeRepo) ListVideoIDsByUser(userID int64) ([]int64, error) {
	var ids []int64
	for _, like := range r.s.likes {
		if like.UserID == userID {
			ids = append(ids, like.VideoID)
		}
	}
	return ids, nil
}

func (r *fakeLikeRepo) GetLikedVideoIDs(userID int64, skip, limit int) ([]int64, int64, error) {
	ids, _ := r.ListVideoIDsByUser(userID)
	return paginateIDs(ids, skip, limit)
}

func (r *fakeLikeRepo) ListByVideo(videoID int64, skip, limit int) ([]model.Like, int64, error) {
	var out []model.Like
	for _, like := range r.s.likes {
		if like.VideoID == videoID {
			out = append(out, like)
		}
	}
	total := int64(len(out))
	if skip >= len(out) {
		return nil, total, nil
	}
	end := skip + limit
	if end > len(out) {
		end = len(out)
	}
	return out[skip:end], total, nil
}

func (r *fakeLikeRepo) DeleteByUser(userID int64) error {
	kept := r.s.likes[:0]
	for _, like := range r.s.likes {
		if like.UserID != userID {
			kept = append(kept, like)
		}
	}
	r.s.likes = kept
	return nil
}

func (r *fakeLikeRepo) DeleteByVideo(videoID int64) error {
	kept := r.s.likes[:0]
	for _, like := range r.s.likes {
		if like.VideoID != videoID {
			kept = append(kept, like)
		}
	}
	r.s.likes = kept
	return nil
}

func (r *fakeLikeRepo) DeleteByVideoIDs(videoIDs []int64) error {
	for _, vid := range videoIDs {
		_ = r.DeleteByVideo(vid)
	}
	return nil
}

func (r *fakeLikeRepo) CountByVideo(videoID int64) (int64, error) {
	var n int64
	for _, like := range r.s.likes {
		if like.VideoID == videoID {
			n++
		}
	}
	return n, nil
}

func (r *fakeLikeRepo) BatchCheckLiked(userID int64, videoIDs []int64) (map[int64]bool, error) {
	result := make(map[int64]bool, len(videoIDs))
	for _, id := range videoIDs {
		ok, _ := r.Exists(userID, id)
		result[id] = ok
	}
	return result, nil
}

func paginateIDs(ids []int64, skip, limit int) ([]int64, int64, error) {
	total := int64(len(ids))
	if skip >= len(ids) {
		return nil, total, nil
	}
	end := skip + limit
	if end > len(ids) {
		end = len(ids)
	}
	return ids[skip:end], total, nil
}
