package store

import (
	"context"
	"testing"
	"time"

	"github.com/Luismorlan/foodreels/feed"
	"github.com/Luismorlan/foodreels/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fullStore is what both GormStore and MemoryStore implement.
type fullStore interface {
	feed.Store
	Writer
	UserExists(ctx context.Context, id uint) (bool, error)
	GetVideo(ctx context.Context, id uint) (*model.Video, error)
	DeleteFollow(ctx context.Context, followerID, followedID uint) (bool, error)
	DeleteLike(ctx context.Context, userID, videoID uint) (bool, error)
	GetComment(ctx context.Context, id uint) (*model.Comment, error)
	CreateComment(ctx context.Context, comment *model.Comment) error
	IncrementViews(ctx context.Context, videoID uint) error
}

type suiteData struct {
	now                       time.Time
	alice, bob, carol         model.User
	nearVendor, closedVendor  model.Vendor
	farVendor                 model.Vendor
	pasta, noodles, old, gone model.Video
}

func ptr(f float64) *float64 { return &f }

func uintPtr(u uint) *uint { return &u }

func seedSuite(t *testing.T, s fullStore) suiteData {
	t.Helper()
	ctx := context.Background()
	d := suiteData{now: time.Now()}

	d.alice = model.User{Username: "alice", Email: "alice@example.com", FullName: "Alice Liddell", Bio: "pasta lover"}
	d.bob = model.User{Username: "bob", Email: "bob@example.com", FullName: "Bob Cook"}
	d.carol = model.User{Username: "carol", Email: "carol@example.com", FullName: "Carol Chef"}
	for _, u := range []*model.User{&d.alice, &d.bob, &d.carol} {
		require.NoError(t, s.CreateUser(ctx, u))
	}

	d.nearVendor = model.Vendor{UserID: d.bob.Id, BusinessName: "Bob's Trattoria", CuisineType: "Italian",
		Latitude: ptr(37.77), Longitude: ptr(-122.41), IsActive: true}
	d.closedVendor = model.Vendor{UserID: d.carol.Id, BusinessName: "Closed Diner", CuisineType: "American",
		Latitude: ptr(37.77), Longitude: ptr(-122.41), IsActive: false}
	d.farVendor = model.Vendor{UserID: d.carol.Id, BusinessName: "Far Taqueria", CuisineType: "Mexican",
		Latitude: ptr(40.71), Longitude: ptr(-74.0), IsActive: true}
	for _, v := range []*model.Vendor{&d.nearVendor, &d.closedVendor, &d.farVendor} {
		require.NoError(t, s.CreateVendor(ctx, v))
	}

	d.pasta = model.Video{CreatedAt: d.now.Add(-time.Hour), UserID: d.bob.Id, VendorID: uintPtr(d.nearVendor.Id),
		Title: "Fresh pasta", VideoUrl: "pasta.mp4", Hashtags: "pasta,spicy", CuisineType: "Italian",
		FoodCategory: "dinner", ViewCount: 100, LikeCount: 10, CommentCount: 5, IsActive: true}
	d.noodles = model.Video{CreatedAt: d.now.Add(-2 * time.Hour), UserID: d.carol.Id,
		Title: "Night market noodles", VideoUrl: "noodles.mp4", Hashtags: "spicy,noodles", CuisineType: "Thai",
		Latitude: ptr(37.771), Longitude: ptr(-122.4101), ViewCount: 5, IsActive: true, IsFeatured: true}
	d.old = model.Video{CreatedAt: d.now.Add(-30 * 24 * time.Hour), UserID: d.carol.Id, VendorID: uintPtr(d.farVendor.Id),
		Title: "100% beef tacos", VideoUrl: "tacos.mp4", Hashtags: "tacos", CuisineType: "Mexican",
		ViewCount: 1000, IsActive: true}
	d.gone = model.Video{CreatedAt: d.now.Add(-time.Minute), UserID: d.bob.Id,
		Title: "Deleted lasagna", VideoUrl: "lasagna.mp4", Hashtags: "pasta", CuisineType: "Italian",
		ViewCount: 50000, IsActive: false}
	for _, v := range []*model.Video{&d.pasta, &d.noodles, &d.old, &d.gone} {
		require.NoError(t, s.CreateVideo(ctx, v))
	}

	_, err := s.CreateFollow(ctx, d.alice.Id, d.bob.Id)
	require.NoError(t, err)
	return d
}

func videoIDs(videos []model.Video) []uint {
	ids := []uint{}
	for _, v := range videos {
		ids = append(ids, v.Id)
	}
	return ids
}

func runStoreSuite(t *testing.T, newStore func(t *testing.T) fullStore) {
	ctx := context.Background()

	t.Run("users", func(t *testing.T) {
		s := newStore(t)
		d := seedSuite(t, s)

		u, err := s.GetUser(ctx, d.alice.Id)
		require.NoError(t, err)
		assert.Equal(t, "alice", u.Username)

		_, err = s.GetUser(ctx, 99999)
		assert.True(t, feed.IsNotFound(err))

		users, err := s.GetUsers(ctx, []uint{d.alice.Id, d.carol.Id, 99999})
		require.NoError(t, err)
		assert.Len(t, users, 2)
		assert.Equal(t, "carol", users[d.carol.Id].Username)

		found, total, err := s.FindUsers(ctx, feed.UserCriteria{Text: "PASTA"})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Equal(t, d.alice.Id, found[0].Id)

		exists, err := s.UserExists(ctx, d.bob.Id)
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("follows", func(t *testing.T) {
		s := newStore(t)
		d := seedSuite(t, s)

		created, err := s.CreateFollow(ctx, d.alice.Id, d.bob.Id)
		require.NoError(t, err)
		assert.False(t, created)
		created, err = s.CreateFollow(ctx, d.carol.Id, d.bob.Id)
		require.NoError(t, err)
		assert.True(t, created)

		ids, err := s.FollowedUserIDs(ctx, d.alice.Id)
		require.NoError(t, err)
		assert.Equal(t, []uint{d.bob.Id}, ids)

		counts, err := s.FollowCounts(ctx, []uint{d.alice.Id, d.bob.Id, d.carol.Id})
		require.NoError(t, err)
		assert.Equal(t, feed.FollowCounts{Followers: 2}, counts[d.bob.Id])
		assert.Equal(t, feed.FollowCounts{Following: 1}, counts[d.alice.Id])

		deleted, err := s.DeleteFollow(ctx, d.alice.Id, d.bob.Id)
		require.NoError(t, err)
		assert.True(t, deleted)
		deleted, err = s.DeleteFollow(ctx, d.alice.Id, d.bob.Id)
		require.NoError(t, err)
		assert.False(t, deleted)
	})

	t.Run("video filters", func(t *testing.T) {
		s := newStore(t)
		d := seedSuite(t, s)

		find := func(c feed.VideoCriteria) ([]uint, int64) {
			videos, total, err := s.FindVideos(ctx, c)
			require.NoError(t, err)
			return videoIDs(videos), total
		}

		ids, total := find(feed.VideoCriteria{ActiveOnly: true, Where: feed.AuthorIn{IDs: []uint{d.bob.Id}}})
		assert.Equal(t, []uint{d.pasta.Id}, ids)
		assert.Equal(t, int64(1), total)

		ids, _ = find(feed.VideoCriteria{Where: feed.AuthorIn{IDs: []uint{d.bob.Id}}})
		assert.Equal(t, []uint{d.pasta.Id, d.gone.Id}, ids)

		ids, _ = find(feed.VideoCriteria{ActiveOnly: true, Where: feed.CuisineContains{Text: "ital"}, OrderBy: feed.OrderByEngagement})
		assert.Equal(t, []uint{d.pasta.Id}, ids)

		ids, _ = find(feed.VideoCriteria{ActiveOnly: true, Where: feed.HashtagsContain{Text: "spicy"}, OrderBy: feed.OrderByEngagement})
		assert.Equal(t, []uint{d.pasta.Id, d.noodles.Id}, ids)

		ids, _ = find(feed.VideoCriteria{ActiveOnly: true, Where: feed.TextContains{Text: "100%"}})
		assert.Equal(t, []uint{d.old.Id}, ids)
		ids, total = find(feed.VideoCriteria{ActiveOnly: true, Where: feed.TextContains{Text: "1_0"}})
		assert.Empty(t, ids)
		assert.Equal(t, int64(0), total)

		ids, _ = find(feed.VideoCriteria{ActiveOnly: true, Where: feed.AnyOf{}})
		assert.Empty(t, ids)

		box := feed.NewBoundingBox(37.77, -122.41, 1)
		ids, _ = find(feed.VideoCriteria{ActiveOnly: true, Where: feed.LocatedWithin{Box: box}})
		assert.Equal(t, []uint{d.noodles.Id}, ids)
		ids, _ = find(feed.VideoCriteria{ActiveOnly: true, Where: feed.VendorIn{IDs: []uint{d.nearVendor.Id}}})
		assert.Equal(t, []uint{d.pasta.Id}, ids)

		ids, _ = find(feed.VideoCriteria{ActiveOnly: true, Where: feed.IsFeatured{}})
		assert.Equal(t, []uint{d.noodles.Id}, ids)

		ids, _ = find(feed.VideoCriteria{ActiveOnly: true, Where: feed.AllOf{Preds: []feed.VideoPredicate{
			feed.CreatedSince{Time: d.now.Add(-7 * 24 * time.Hour)},
			feed.EngagementAbove{Min: 10},
		}}})
		assert.Equal(t, []uint{d.pasta.Id}, ids)
	})

	t.Run("video ordering and window", func(t *testing.T) {
		s := newStore(t)
		d := seedSuite(t, s)
		weights := feed.ScoreWeights{View: 0.3, Like: 0.4, Comment: 0.3, RecencyDivisor: 100000}

		videos, total, err := s.FindVideos(ctx, feed.VideoCriteria{ActiveOnly: true, OrderBy: feed.OrderByScore, Weights: weights})
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		assert.Equal(t, []uint{d.pasta.Id, d.noodles.Id, d.old.Id}, videoIDs(videos))

		videos, _, err = s.FindVideos(ctx, feed.VideoCriteria{ActiveOnly: true, OrderBy: feed.OrderByRecency})
		require.NoError(t, err)
		assert.Equal(t, []uint{d.pasta.Id, d.noodles.Id, d.old.Id}, videoIDs(videos))

		videos, _, err = s.FindVideos(ctx, feed.VideoCriteria{ActiveOnly: true, OrderBy: feed.OrderByEngagement})
		require.NoError(t, err)
		assert.Equal(t, []uint{d.old.Id, d.pasta.Id, d.noodles.Id}, videoIDs(videos))

		videos, total, err = s.FindVideos(ctx, feed.VideoCriteria{ActiveOnly: true, OrderBy: feed.OrderByID, Window: feed.Window{Offset: 1, Limit: 1}})
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		assert.Equal(t, []uint{d.noodles.Id}, videoIDs(videos))

		videos, total, err = s.FindVideos(ctx, feed.VideoCriteria{ActiveOnly: true, Window: feed.Window{Offset: 10, Limit: 5}})
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		assert.Empty(t, videos)
	})

	t.Run("vendors", func(t *testing.T) {
		s := newStore(t)
		d := seedSuite(t, s)

		box := feed.NewBoundingBox(37.77, -122.41, 10)
		vendors, total, err := s.FindVendors(ctx, feed.VendorCriteria{ActiveOnly: true, Within: &box})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Equal(t, d.nearVendor.Id, vendors[0].Id)

		vendors, _, err = s.FindVendors(ctx, feed.VendorCriteria{ActiveOnly: true, Text: "taq"})
		require.NoError(t, err)
		require.Len(t, vendors, 1)
		assert.Equal(t, d.farVendor.Id, vendors[0].Id)

		_, total, err = s.FindVendors(ctx, feed.VendorCriteria{Text: "diner"})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
	})

	t.Run("aggregations", func(t *testing.T) {
		s := newStore(t)
		d := seedSuite(t, s)
		since := d.now.Add(-7 * 24 * time.Hour)

		cuisines, err := s.TrendingCuisines(ctx, since, 10)
		require.NoError(t, err)
		assert.Equal(t, []feed.CuisineCount{{Cuisine: "Italian", Count: 1}, {Cuisine: "Thai", Count: 1}}, cuisines)

		cuisines, err = s.TrendingCuisines(ctx, since, 1)
		require.NoError(t, err)
		assert.Len(t, cuisines, 1)

		vendors, err := s.TopVendorsByEngagement(ctx, since, 10)
		require.NoError(t, err)
		require.Len(t, vendors, 1)
		assert.Equal(t, d.nearVendor.Id, vendors[0].Id)
		assert.Equal(t, "Bob's Trattoria", vendors[0].BusinessName)

		vendors, err = s.TopVendorsByEngagement(ctx, d.now.Add(-60*24*time.Hour), 10)
		require.NoError(t, err)
		require.Len(t, vendors, 2)
		assert.Equal(t, d.farVendor.Id, vendors[0].Id)
	})

	t.Run("engagement writes", func(t *testing.T) {
		s := newStore(t)
		d := seedSuite(t, s)

		reload := func() model.Video {
			v, err := s.GetVideo(ctx, d.pasta.Id)
			require.NoError(t, err)
			return *v
		}

		created, err := s.CreateLike(ctx, d.alice.Id, d.pasta.Id)
		require.NoError(t, err)
		assert.True(t, created)
		created, err = s.CreateLike(ctx, d.alice.Id, d.pasta.Id)
		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, int64(11), reload().LikeCount)

		liked, err := s.LikedVideos(ctx, d.alice.Id)
		require.NoError(t, err)
		assert.Equal(t, []uint{d.pasta.Id}, videoIDs(liked))

		deleted, err := s.DeleteLike(ctx, d.alice.Id, d.pasta.Id)
		require.NoError(t, err)
		assert.True(t, deleted)
		deleted, err = s.DeleteLike(ctx, d.alice.Id, d.pasta.Id)
		require.NoError(t, err)
		assert.False(t, deleted)
		assert.Equal(t, int64(10), reload().LikeCount)

		parent := model.Comment{UserID: d.alice.Id, VideoID: d.pasta.Id, Content: "yum"}
		require.NoError(t, s.CreateComment(ctx, &parent))
		assert.Equal(t, int64(6), reload().CommentCount)
		reply := model.Comment{UserID: d.bob.Id, VideoID: d.pasta.Id, ParentID: &parent.Id, Content: "thanks"}
		require.NoError(t, s.CreateComment(ctx, &reply))
		assert.Equal(t, int64(7), reload().CommentCount)

		got, err := s.GetComment(ctx, reply.Id)
		require.NoError(t, err)
		require.NotNil(t, got.ParentID)
		assert.Equal(t, parent.Id, *got.ParentID)
		assert.Equal(t, "thanks", got.Content)
		_, err = s.GetComment(ctx, 99999)
		assert.True(t, feed.IsNotFound(err))

		require.NoError(t, s.IncrementViews(ctx, d.pasta.Id))
		assert.Equal(t, int64(101), reload().ViewCount)

		_, err = s.GetVideo(ctx, 99999)
		assert.True(t, feed.IsNotFound(err))
	})
}

func TestMemoryStore(t *testing.T) {
	runStoreSuite(t, func(t *testing.T) fullStore { return NewMemoryStore() })
}

func TestWindow(t *testing.T) {
	rows := []int{1, 2, 3, 4}
	assert.Equal(t, []int{2, 3}, window(rows, feed.Window{Offset: 1, Limit: 2}))
	assert.Equal(t, []int{3, 4}, window(rows, feed.Window{Offset: 2}))
	assert.Equal(t, []int{}, window(rows, feed.Window{Offset: 4, Limit: 2}))
	assert.Equal(t, []int{1, 2}, window(rows, feed.Window{Offset: -5, Limit: 2}))
}
