package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Luismorlan/foodreels/feed"
	"github.com/Luismorlan/foodreels/model"
	"github.com/Luismorlan/foodreels/utils"
)

// MemoryStore keeps every entity in process and evaluates criteria in Go. It
// backs the tests and the "-store=memory" development mode.
type MemoryStore struct {
	m sync.RWMutex

	users    map[uint]model.User
	vendors  map[uint]model.Vendor
	videos   map[uint]model.Video
	follows  map[[2]uint]model.Follow
	likes    map[[2]uint]model.Like
	comments []model.Comment

	nextId uint
	now    func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:   map[uint]model.User{},
		vendors: map[uint]model.Vendor{},
		videos:  map[uint]model.Video{},
		follows: map[[2]uint]model.Follow{},
		likes:   map[[2]uint]model.Like{},
		now:     time.Now,
	}
}

// id must be called with the write lock held.
func (s *MemoryStore) id() uint {
	s.nextId++
	return s.nextId
}

// stamp fills zero timestamps, keeping the ones set by the caller.
func (s *MemoryStore) stamp(created, updated *time.Time) {
	now := s.now()
	if created.IsZero() {
		*created = now
	}
	if updated != nil && updated.IsZero() {
		*updated = *created
	}
}

func (s *MemoryStore) CreateUser(ctx context.Context, user *model.User) error {
	s.m.Lock()
	defer s.m.Unlock()
	if user.Id == 0 {
		user.Id = s.id()
	}
	s.stamp(&user.CreatedAt, &user.UpdatedAt)
	s.users[user.Id] = *user
	return nil
}

func (s *MemoryStore) CreateVendor(ctx context.Context, vendor *model.Vendor) error {
	s.m.Lock()
	defer s.m.Unlock()
	if vendor.Id == 0 {
		vendor.Id = s.id()
	}
	s.stamp(&vendor.CreatedAt, &vendor.UpdatedAt)
	s.vendors[vendor.Id] = *vendor
	return nil
}

func (s *MemoryStore) CreateVideo(ctx context.Context, video *model.Video) error {
	s.m.Lock()
	defer s.m.Unlock()
	if video.Id == 0 {
		video.Id = s.id()
	}
	s.stamp(&video.CreatedAt, &video.UpdatedAt)
	s.videos[video.Id] = *video
	return nil
}

func (s *MemoryStore) GetUser(ctx context.Context, id uint) (*model.User, error) {
	s.m.RLock()
	defer s.m.RUnlock()
	user, ok := s.users[id]
	if !ok {
		return nil, feed.ErrNotFound
	}
	return &user, nil
}

func (s *MemoryStore) GetUsers(ctx context.Context, ids []uint) (map[uint]model.User, error) {
	s.m.RLock()
	defer s.m.RUnlock()
	result := map[uint]model.User{}
	for _, id := range ids {
		if u, ok := s.users[id]; ok {
			result[id] = u
		}
	}
	return result, nil
}

func (s *MemoryStore) FollowedUserIDs(ctx context.Context, followerID uint) ([]uint, error) {
	s.m.RLock()
	defer s.m.RUnlock()
	ids := []uint{}
	for key := range s.follows {
		if key[0] == followerID {
			ids = append(ids, key[1])
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (s *MemoryStore) FollowCounts(ctx context.Context, userIDs []uint) (map[uint]feed.FollowCounts, error) {
	s.m.RLock()
	defer s.m.RUnlock()
	wanted := map[uint]bool{}
	for _, id := range userIDs {
		wanted[id] = true
	}
	result := map[uint]feed.FollowCounts{}
	for key := range s.follows {
		if wanted[key[1]] {
			c := result[key[1]]
			c.Followers++
			result[key[1]] = c
		}
		if wanted[key[0]] {
			c := result[key[0]]
			c.Following++
			result[key[0]] = c
		}
	}
	return result, nil
}

func (s *MemoryStore) LikedVideos(ctx context.Context, userID uint) ([]model.Video, error) {
	s.m.RLock()
	defer s.m.RUnlock()
	videos := []model.Video{}
	for key := range s.likes {
		if key[0] != userID {
			continue
		}
		if v, ok := s.videos[key[1]]; ok {
			videos = append(videos, v)
		}
	}
	sort.Slice(videos, func(i, j int) bool { return videos[i].Id < videos[j].Id })
	return videos, nil
}

func (s *MemoryStore) FindVideos(ctx context.Context, c feed.VideoCriteria) ([]model.Video, int64, error) {
	s.m.RLock()
	matched := []model.Video{}
	for _, v := range s.videos {
		if c.ActiveOnly && !v.IsActive {
			continue
		}
		if c.Where != nil && !matchVideo(c.Where, v) {
			continue
		}
		matched = append(matched, v)
	}
	s.m.RUnlock()

	sortVideos(matched, c.OrderBy, c.Weights)
	return window(matched, c.Window), int64(len(matched)), nil
}

func (s *MemoryStore) FindVendors(ctx context.Context, c feed.VendorCriteria) ([]model.Vendor, int64, error) {
	s.m.RLock()
	matched := []model.Vendor{}
	for _, v := range s.vendors {
		if c.ActiveOnly && !v.IsActive {
			continue
		}
		if c.Within != nil && !c.Within.Contains(v.Latitude, v.Longitude) {
			continue
		}
		if c.Text != "" && !containsAny(c.Text, v.BusinessName, v.Description, v.CuisineType) {
			continue
		}
		matched = append(matched, v)
	}
	s.m.RUnlock()

	sort.Slice(matched, func(i, j int) bool { return matched[i].Id < matched[j].Id })
	return window(matched, c.Window), int64(len(matched)), nil
}

func (s *MemoryStore) FindUsers(ctx context.Context, c feed.UserCriteria) ([]model.User, int64, error) {
	s.m.RLock()
	matched := []model.User{}
	for _, u := range s.users {
		if c.Text != "" && !containsAny(c.Text, u.Username, u.FullName, u.Bio) {
			continue
		}
		matched = append(matched, u)
	}
	s.m.RUnlock()

	sort.Slice(matched, func(i, j int) bool { return matched[i].Id < matched[j].Id })
	return window(matched, c.Window), int64(len(matched)), nil
}

func (s *MemoryStore) TrendingCuisines(ctx context.Context, since time.Time, limit int) ([]feed.CuisineCount, error) {
	s.m.RLock()
	counts := map[string]int64{}
	for _, v := range s.videos {
		if v.IsActive && !v.CreatedAt.Before(since) && v.CuisineType != "" {
			counts[v.CuisineType]++
		}
	}
	s.m.RUnlock()

	rows := make([]feed.CuisineCount, 0, len(counts))
	for cuisine, count := range counts {
		rows = append(rows, feed.CuisineCount{Cuisine: cuisine, Count: count})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Count != rows[j].Count {
			return rows[i].Count > rows[j].Count
		}
		return rows[i].Cuisine < rows[j].Cuisine
	})
	return window(rows, feed.Window{Limit: limit}), nil
}

func (s *MemoryStore) TopVendorsByEngagement(ctx context.Context, since time.Time, limit int) ([]model.Vendor, error) {
	s.m.RLock()
	totals := map[uint]int64{}
	for _, v := range s.videos {
		if v.VendorID == nil || !v.IsActive || v.CreatedAt.Before(since) {
			continue
		}
		totals[*v.VendorID] += v.Engagement()
	}
	vendors := []model.Vendor{}
	for id := range totals {
		if vendor, ok := s.vendors[id]; ok && vendor.IsActive {
			vendors = append(vendors, vendor)
		}
	}
	s.m.RUnlock()

	sort.Slice(vendors, func(i, j int) bool {
		ti, tj := totals[vendors[i].Id], totals[vendors[j].Id]
		if ti != tj {
			return ti > tj
		}
		return vendors[i].Id < vendors[j].Id
	})
	return window(vendors, feed.Window{Limit: limit}), nil
}

func (s *MemoryStore) UserExists(ctx context.Context, id uint) (bool, error) {
	s.m.RLock()
	defer s.m.RUnlock()
	_, ok := s.users[id]
	return ok, nil
}

func (s *MemoryStore) GetVideo(ctx context.Context, id uint) (*model.Video, error) {
	s.m.RLock()
	defer s.m.RUnlock()
	video, ok := s.videos[id]
	if !ok {
		return nil, feed.ErrNotFound
	}
	return &video, nil
}

func (s *MemoryStore) CreateFollow(ctx context.Context, followerID, followedID uint) (bool, error) {
	s.m.Lock()
	defer s.m.Unlock()
	key := [2]uint{followerID, followedID}
	if _, ok := s.follows[key]; ok {
		return false, nil
	}
	s.follows[key] = model.Follow{Id: s.id(), CreatedAt: s.now(), FollowerID: followerID, FollowedID: followedID}
	return true, nil
}

func (s *MemoryStore) DeleteFollow(ctx context.Context, followerID, followedID uint) (bool, error) {
	s.m.Lock()
	defer s.m.Unlock()
	key := [2]uint{followerID, followedID}
	if _, ok := s.follows[key]; !ok {
		return false, nil
	}
	delete(s.follows, key)
	return true, nil
}

func (s *MemoryStore) CreateLike(ctx context.Context, userID, videoID uint) (bool, error) {
	s.m.Lock()
	defer s.m.Unlock()
	key := [2]uint{userID, videoID}
	if _, ok := s.likes[key]; ok {
		return false, nil
	}
	s.likes[key] = model.Like{Id: s.id(), CreatedAt: s.now(), UserID: userID, VideoID: videoID}
	if v, ok := s.videos[videoID]; ok {
		v.LikeCount++
		s.videos[videoID] = v
	}
	return true, nil
}

func (s *MemoryStore) DeleteLike(ctx context.Context, userID, videoID uint) (bool, error) {
	s.m.Lock()
	defer s.m.Unlock()
	key := [2]uint{userID, videoID}
	if _, ok := s.likes[key]; !ok {
		return false, nil
	}
	delete(s.likes, key)
	if v, ok := s.videos[videoID]; ok && v.LikeCount > 0 {
		v.LikeCount--
		s.videos[videoID] = v
	}
	return true, nil
}

func (s *MemoryStore) GetComment(ctx context.Context, id uint) (*model.Comment, error) {
	s.m.RLock()
	defer s.m.RUnlock()
	for _, c := range s.comments {
		if c.Id == id {
			return &c, nil
		}
	}
	return nil, feed.ErrNotFound
}

func (s *MemoryStore) CreateComment(ctx context.Context, comment *model.Comment) error {
	s.m.Lock()
	defer s.m.Unlock()
	comment.Id = s.id()
	s.stamp(&comment.CreatedAt, &comment.UpdatedAt)
	s.comments = append(s.comments, *comment)
	if v, ok := s.videos[comment.VideoID]; ok {
		v.CommentCount++
		s.videos[comment.VideoID] = v
	}
	return nil
}

func (s *MemoryStore) IncrementViews(ctx context.Context, videoID uint) error {
	s.m.Lock()
	defer s.m.Unlock()
	if v, ok := s.videos[videoID]; ok {
		v.ViewCount++
		s.videos[videoID] = v
	}
	return nil
}

// Comments returns the comments of videoID in creation order.
func (s *MemoryStore) Comments(videoID uint) []model.Comment {
	s.m.RLock()
	defer s.m.RUnlock()
	result := []model.Comment{}
	for _, c := range s.comments {
		if c.VideoID == videoID {
			result = append(result, c)
		}
	}
	return result
}

// matchVideo is the in-process counterpart of videoPredicateSQL.
func matchVideo(pred feed.VideoPredicate, v model.Video) bool {
	switch p := pred.(type) {
	case feed.AllOf:
		for _, child := range p.Preds {
			if !matchVideo(child, v) {
				return false
			}
		}
		return true
	case feed.AnyOf:
		for _, child := range p.Preds {
			if matchVideo(child, v) {
				return true
			}
		}
		return false
	case feed.AuthorIn:
		return utils.ContainsUint(p.IDs, v.UserID)
	case feed.VendorIn:
		return v.VendorID != nil && utils.ContainsUint(p.IDs, *v.VendorID)
	case feed.CuisineIn:
		return utils.ContainsString(p.Values, v.CuisineType)
	case feed.CategoryIn:
		return utils.ContainsString(p.Values, v.FoodCategory)
	case feed.CreatedSince:
		return !v.CreatedAt.Before(p.Time)
	case feed.EngagementAbove:
		return v.Engagement() > p.Min
	case feed.LocatedWithin:
		return p.Box.Contains(v.Latitude, v.Longitude)
	case feed.CuisineContains:
		return containsAny(p.Text, v.CuisineType)
	case feed.HashtagsContain:
		return containsAny(p.Text, v.Hashtags)
	case feed.TextContains:
		return containsAny(p.Text, v.Title, v.Description, v.Hashtags, v.CuisineType)
	case feed.HasHashtags:
		return v.Hashtags != ""
	case feed.HasCuisine:
		return v.CuisineType != ""
	case feed.IsFeatured:
		return v.IsFeatured
	}
	return false
}

func sortVideos(videos []model.Video, o feed.Ordering, w feed.ScoreWeights) {
	var less func(a, b model.Video) bool
	switch o {
	case feed.OrderByRecency:
		less = func(a, b model.Video) bool {
			if !a.CreatedAt.Equal(b.CreatedAt) {
				return a.CreatedAt.After(b.CreatedAt)
			}
			return a.Id > b.Id
		}
	case feed.OrderByEngagement:
		less = func(a, b model.Video) bool {
			if a.Engagement() != b.Engagement() {
				return a.Engagement() > b.Engagement()
			}
			return a.Id > b.Id
		}
	case feed.OrderByScore:
		less = func(a, b model.Video) bool {
			sa, sb := feed.Score(a, w), feed.Score(b, w)
			if sa != sb {
				return sa > sb
			}
			return a.Id > b.Id
		}
	default:
		less = func(a, b model.Video) bool { return a.Id < b.Id }
	}
	sort.Slice(videos, func(i, j int) bool { return less(videos[i], videos[j]) })
}

func window[T any](rows []T, w feed.Window) []T {
	if w.Offset < 0 {
		w.Offset = 0
	}
	if w.Offset >= len(rows) {
		return []T{}
	}
	rows = rows[w.Offset:]
	if w.Limit > 0 && len(rows) > w.Limit {
		rows = rows[:w.Limit]
	}
	return rows
}

// containsAny is a case-insensitive literal substring test against any of
// fields.
func containsAny(text string, fields ...string) bool {
	needle := strings.ToLower(text)
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	return false
}
