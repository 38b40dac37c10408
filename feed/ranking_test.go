package feed

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/Luismorlan/foodreels/model"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

var defaultWeights = ScoreWeights{View: 0.3, Like: 0.4, Comment: 0.3, RecencyDivisor: 100000}

func TestScore(t *testing.T) {
	created := time.Unix(1_700_000_000, 0)
	v := model.Video{CreatedAt: created, ViewCount: 99, LikeCount: 9, CommentCount: 0}

	expected := 0.3*math.Log(100) + 0.4*math.Log(10) + 0.3*math.Log(1) + 1_700_000_000.0/100000
	assert.InDelta(t, expected, Score(v, defaultWeights), 1e-9)

	// A day of recency outweighs a lot of views.
	older := model.Video{CreatedAt: created.Add(-24 * time.Hour), ViewCount: 10000}
	assert.Greater(t, Score(v, defaultWeights), Score(older, defaultWeights))
}

func TestNewBoundingBox(t *testing.T) {
	box := NewBoundingBox(45, 10, 111)
	assert.InDelta(t, 44, box.MinLat, 1e-9)
	assert.InDelta(t, 46, box.MaxLat, 1e-9)
	assert.InDelta(t, 10-1.0/45, box.MinLng, 1e-9)
	assert.InDelta(t, 10+1.0/45, box.MaxLng, 1e-9)
	assert.False(t, box.UnboundedLongitude())

	south := NewBoundingBox(-45, 10, 111)
	assert.InDelta(t, box.MaxLng-box.MinLng, south.MaxLng-south.MinLng, 1e-9)
}

func TestNewBoundingBoxAtEquator(t *testing.T) {
	var box BoundingBox
	assert.NotPanics(t, func() { box = NewBoundingBox(0, 30, 10) })

	assert.InDelta(t, -10.0/111, box.MinLat, 1e-9)
	assert.InDelta(t, 10.0/111, box.MaxLat, 1e-9)
	assert.True(t, box.UnboundedLongitude())

	lat, farLng, nearLng := 0.01, -170.0, 30.0
	assert.True(t, box.Contains(&lat, &farLng))
	assert.True(t, box.Contains(&lat, &nearLng))
	outside := 1.0
	assert.False(t, box.Contains(&outside, &nearLng))
}

func TestBoundingBoxContains(t *testing.T) {
	box := BoundingBox{MinLat: 1, MaxLat: 2, MinLng: 3, MaxLng: 4}
	in, inLng, edge, out := 1.5, 3.5, 4.0, 5.0
	assert.True(t, box.Contains(&in, &inLng))
	assert.True(t, box.Contains(&in, &edge))
	assert.False(t, box.Contains(&in, &out))
	assert.False(t, box.Contains(nil, &edge))
	assert.False(t, box.Contains(&in, nil))
}

func videosWithIDs(ids ...uint) []model.Video {
	videos := make([]model.Video, 0, len(ids))
	for _, id := range ids {
		videos = append(videos, model.Video{Id: id})
	}
	return videos
}

func ids(videos []model.Video) []uint {
	result := []uint{}
	for _, v := range videos {
		result = append(result, v.Id)
	}
	return result
}

func TestStabilizedShuffleKeepsPrefixAndSet(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 20; i++ {
		videos := videosWithIDs(1, 2, 3, 4, 5, 6, 7, 8)
		StabilizedShuffle(videos, 3, rng)

		assert.Equal(t, []uint{1, 2, 3}, ids(videos[:3]))
		assert.ElementsMatch(t, []uint{4, 5, 6, 7, 8}, ids(videos[3:]))
	}
}

func TestStabilizedShuffleIsReproducible(t *testing.T) {
	a := videosWithIDs(1, 2, 3, 4, 5, 6, 7, 8, 9, 10)
	b := videosWithIDs(1, 2, 3, 4, 5, 6, 7, 8, 9, 10)
	StabilizedShuffle(a, 3, rand.New(rand.NewSource(42)))
	StabilizedShuffle(b, 3, rand.New(rand.NewSource(42)))
	assert.Equal(t, ids(a), ids(b))
}

func TestStabilizedShuffleShortPage(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	videos := videosWithIDs(1, 2)
	StabilizedShuffle(videos, 3, rng)
	assert.Equal(t, []uint{1, 2}, ids(videos))

	videos = []model.Video{}
	assert.NotPanics(t, func() { StabilizedShuffle(videos, 3, rng) })
}

func TestCountHashtags(t *testing.T) {
	videos := []model.Video{
		{Hashtags: "spicy,noodles"},
		{Hashtags: "spicy, tacos ,"},
		{Hashtags: ""},
		{Hashtags: "noodles,spicy"},
		{Hashtags: "bbq"},
	}

	got := CountHashtags(videos, 10)
	want := []TagCount{
		{Hashtag: "spicy", Count: 3},
		{Hashtag: "noodles", Count: 2},
		{Hashtag: "bbq", Count: 1},
		{Hashtag: "tacos", Count: 1},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("CountHashtags() mismatch (-want +got):\n%s", diff)
	}

	assert.Len(t, CountHashtags(videos, 2), 2)
	assert.Empty(t, CountHashtags(nil, 10))
}

func TestPreferenceSet(t *testing.T) {
	cuisines, categories := preferenceSet([]model.Video{
		{CuisineType: "Thai", FoodCategory: "noodles"},
		{CuisineType: "", FoodCategory: "dessert"},
		{CuisineType: "Thai", FoodCategory: "noodles"},
		{CuisineType: "Italian"},
	})
	assert.Equal(t, []string{"Thai", "Italian"}, cuisines)
	assert.Equal(t, []string{"noodles", "dessert"}, categories)

	cuisines, categories = preferenceSet(nil)
	assert.Empty(t, cuisines)
	assert.Empty(t, categories)
}

func TestPageCount(t *testing.T) {
	assert.Equal(t, int64(0), pageCount(0, 20))
	assert.Equal(t, int64(1), pageCount(1, 20))
	assert.Equal(t, int64(1), pageCount(20, 20))
	assert.Equal(t, int64(2), pageCount(21, 20))
	assert.Equal(t, int64(0), pageCount(5, 0))
	assert.Equal(t, int64(1), pageCount(5, math.MaxInt))
}
