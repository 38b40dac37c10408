package store

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/Luismorlan/foodreels/feed"
	"github.com/Luismorlan/foodreels/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func TestContainsPatternEscapesWildcards(t *testing.T) {
	assert.Equal(t, "%ital%", containsPattern("ital"))
	assert.Equal(t, `%100\%%`, containsPattern("100%"))
	assert.Equal(t, `%a\_b%`, containsPattern("a_b"))
	assert.Equal(t, `%c:\\d%`, containsPattern(`c:\d`))
}

func TestIlikeAny(t *testing.T) {
	sql, args := ilikeAny("taco", "videos.title", "videos.description")
	assert.Equal(t, "(videos.title ILIKE ? OR videos.description ILIKE ?)", sql)
	assert.Equal(t, []interface{}{"%taco%", "%taco%"}, args)
}

func TestBoxSQL(t *testing.T) {
	sql, args := boxSQL("vendors", feed.BoundingBox{MinLat: 1, MaxLat: 2, MinLng: 3, MaxLng: 4})
	assert.Equal(t, "(vendors.latitude BETWEEN ? AND ? AND vendors.longitude BETWEEN ? AND ?)", sql)
	assert.Equal(t, []interface{}{1.0, 2.0, 3.0, 4.0}, args)

	sql, args = boxSQL("videos", feed.NewBoundingBox(0, 10, 5))
	assert.Equal(t, "(videos.latitude BETWEEN ? AND ? AND videos.longitude IS NOT NULL)", sql)
	assert.Len(t, args, 2)
	for _, a := range args {
		assert.False(t, math.IsInf(a.(float64), 0))
	}
}

func TestVideoPredicateSQL(t *testing.T) {
	since := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	testCases := []struct {
		name string
		pred feed.VideoPredicate
		sql  string
		args []interface{}
	}{
		{"nil", nil, "1 = 1", nil},
		{"empty all", feed.AllOf{}, "1 = 1", nil},
		{"empty any", feed.AnyOf{}, "1 = 0", nil},
		{"no authors", feed.AuthorIn{}, "1 = 0", nil},
		{"authors", feed.AuthorIn{IDs: []uint{1, 2}}, "videos.user_id IN ?", []interface{}{[]uint{1, 2}}},
		{"vendors", feed.VendorIn{IDs: []uint{3}}, "videos.vendor_id IN ?", []interface{}{[]uint{3}}},
		{"no cuisines", feed.CuisineIn{}, "1 = 0", nil},
		{"categories", feed.CategoryIn{Values: []string{"dessert"}}, "videos.food_category IN ?", []interface{}{[]string{"dessert"}}},
		{"engagement", feed.EngagementAbove{Min: 10}, "(videos.like_count + videos.comment_count + videos.view_count) > ?", []interface{}{int64(10)}},
		{"cuisine contains", feed.CuisineContains{Text: "Ital"}, "(videos.cuisine_type ILIKE ?)", []interface{}{"%Ital%"}},
		{"featured", feed.IsFeatured{}, "videos.is_featured = ?", []interface{}{true}},
		{
			"personalization",
			feed.AnyOf{Preds: []feed.VideoPredicate{
				feed.AuthorIn{IDs: []uint{7}},
				feed.CuisineIn{Values: []string{"Thai"}},
				feed.AllOf{Preds: []feed.VideoPredicate{
					feed.CreatedSince{Time: since},
					feed.EngagementAbove{Min: 10},
				}},
			}},
			"(videos.user_id IN ? OR videos.cuisine_type IN ? OR (videos.created_at >= ? AND (videos.like_count + videos.comment_count + videos.view_count) > ?))",
			[]interface{}{[]uint{7}, []string{"Thai"}, since, int64(10)},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			sql, args := videoPredicateSQL(tc.pred)
			assert.Equal(t, tc.sql, sql)
			assert.Equal(t, tc.args, args)
		})
	}
}

func dryRunStore(t *testing.T) *GormStore {
	t.Helper()
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN: "host=localhost user=dryrun password=dryrun dbname=dryrun port=5432 sslmode=disable",
	}), &gorm.Config{DryRun: true, DisableAutomaticPing: true})
	require.NoError(t, err)
	return NewGormStore(db)
}

func explain(q *gorm.DB) string {
	return q.Dialector.Explain(q.Statement.SQL.String(), q.Statement.Vars...)
}

func TestFindVideosSQL(t *testing.T) {
	s := dryRunStore(t)
	c := feed.VideoCriteria{
		ActiveOnly: true,
		Where:      feed.AuthorIn{IDs: []uint{4, 5}},
		OrderBy:    feed.OrderByScore,
		Weights:    feed.ScoreWeights{View: 0.3, Like: 0.4, Comment: 0.3, RecencyDivisor: 100000},
		Window:     feed.Window{Offset: 20, Limit: 20},
	}

	videos, total, err := s.FindVideos(context.Background(), c)
	require.NoError(t, err)
	assert.Empty(t, videos)
	assert.Zero(t, total)

	q := applyWindow(s.videoQuery(context.Background(), c).Clauses(videoOrderBy(c.OrderBy, c.Weights)), c.Window).
		Find(&[]model.Video{})
	sql := explain(q)

	assert.Contains(t, sql, `FROM "videos"`)
	assert.Contains(t, sql, "videos.is_active = true")
	assert.Contains(t, sql, "videos.user_id IN (4,5)")
	assert.Contains(t, sql, "ORDER BY (0.3 * ln(videos.view_count + 1) + 0.4 * ln(videos.like_count + 1) + 0.3 * ln(videos.comment_count + 1)")
	assert.Contains(t, sql, "extract(epoch from videos.created_at)::float8 / 100000) DESC, videos.id DESC")
	assert.Contains(t, sql, "LIMIT 20")
	assert.Contains(t, sql, "OFFSET 20")
}

func TestFindVendorsSQL(t *testing.T) {
	s := dryRunStore(t)
	box := feed.NewBoundingBox(0, 10, 5)
	c := feed.VendorCriteria{ActiveOnly: true, Within: &box, Text: "taco"}

	q := s.vendorQuery(context.Background(), c).Order("vendors.id ASC").Find(&[]model.Vendor{})
	sql := explain(q)

	assert.Contains(t, sql, `FROM "vendors"`)
	assert.Contains(t, sql, "vendors.longitude IS NOT NULL")
	assert.Contains(t, sql, "vendors.business_name ILIKE '%taco%'")
	assert.NotContains(t, sql, "LIMIT")
}

func TestVideoOrderBy(t *testing.T) {
	s := dryRunStore(t)
	weights := feed.ScoreWeights{View: 0.3, Like: 0.4, Comment: 0.3, RecencyDivisor: 100000}

	for _, tc := range []struct {
		ordering feed.Ordering
		orderBy  string
	}{
		{feed.OrderByRecency, "ORDER BY videos.created_at DESC, videos.id DESC"},
		{feed.OrderByEngagement, "ORDER BY (videos.like_count + videos.comment_count + videos.view_count) DESC, videos.id DESC"},
		{feed.OrderByID, "ORDER BY videos.id ASC"},
		{feed.OrderByScore, "ORDER BY (0.3 * ln(videos.view_count + 1)"},
	} {
		q := s.videoQuery(context.Background(), feed.VideoCriteria{}).
			Clauses(videoOrderBy(tc.ordering, weights)).
			Find(&[]model.Video{})
		assert.Contains(t, explain(q), tc.orderBy)
	}
}
