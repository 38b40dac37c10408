package feed

import (
	"math"
	"time"
)

// VideoPredicate is a node of a video filter. Leaf predicates test a single
// column, AllOf and AnyOf combine them. Stores translate the tree into their
// native query language.
type VideoPredicate interface {
	isVideoPredicate() bool
}

// AllOf holds when every child holds. An empty AllOf always holds.
type AllOf struct {
	Preds []VideoPredicate
}

// AnyOf holds when at least one child holds. An empty AnyOf never holds.
type AnyOf struct {
	Preds []VideoPredicate
}

// AuthorIn matches videos authored by one of IDs.
type AuthorIn struct {
	IDs []uint
}

// VendorIn matches videos posted for one of IDs.
type VendorIn struct {
	IDs []uint
}

// CuisineIn matches an exact cuisine type.
type CuisineIn struct {
	Values []string
}

// CategoryIn matches an exact food category.
type CategoryIn struct {
	Values []string
}

// CreatedSince matches videos created at or after Time.
type CreatedSince struct {
	Time time.Time
}

// EngagementAbove matches likes + comments + views strictly greater than Min.
type EngagementAbove struct {
	Min int64
}

// LocatedWithin matches videos whose own coordinates fall inside Box.
type LocatedWithin struct {
	Box BoundingBox
}

// CuisineContains is a case-insensitive substring match on cuisine type.
type CuisineContains struct {
	Text string
}

// HashtagsContain is a case-insensitive substring match on the stored
// hashtag text.
type HashtagsContain struct {
	Text string
}

// TextContains is a case-insensitive substring match on title,
// description, hashtags or cuisine type.
type TextContains struct {
	Text string
}

// HasHashtags matches videos with a non-empty hashtag text.
type HasHashtags struct{}

// HasCuisine matches videos with a non-empty cuisine type.
type HasCuisine struct{}

// IsFeatured matches editorially featured videos.
type IsFeatured struct{}

func (AllOf) isVideoPredicate() bool           { return true }
func (AnyOf) isVideoPredicate() bool           { return true }
func (AuthorIn) isVideoPredicate() bool        { return true }
func (VendorIn) isVideoPredicate() bool        { return true }
func (CuisineIn) isVideoPredicate() bool       { return true }
func (CategoryIn) isVideoPredicate() bool      { return true }
func (CreatedSince) isVideoPredicate() bool    { return true }
func (EngagementAbove) isVideoPredicate() bool { return true }
func (LocatedWithin) isVideoPredicate() bool   { return true }
func (CuisineContains) isVideoPredicate() bool { return true }
func (HashtagsContain) isVideoPredicate() bool { return true }
func (TextContains) isVideoPredicate() bool    { return true }
func (HasHashtags) isVideoPredicate() bool     { return true }
func (HasCuisine) isVideoPredicate() bool      { return true }
func (IsFeatured) isVideoPredicate() bool      { return true }

// Ordering selects how a store sorts matched rows. Every ordering breaks
// ties by id descending, except OrderByID which is id ascending.
type Ordering int

const (
	OrderByID Ordering = iota
	// created_at descending
	OrderByRecency
	// likes + comments + views descending
	OrderByEngagement
	// ScoreWeights formula descending
	OrderByScore
)

// ScoreWeights parameterizes the personalized score:
// View·ln(views+1) + Like·ln(likes+1) + Comment·ln(comments+1) +
// epoch(created_at)/RecencyDivisor.
type ScoreWeights struct {
	View           float64
	Like           float64
	Comment        float64
	RecencyDivisor float64
}

// Window is the offset/limit slice a store returns. Limit 0 returns every
// matched row.
type Window struct {
	Offset int
	Limit  int
}

// VideoCriteria is a full video query. Where may be nil.
type VideoCriteria struct {
	ActiveOnly bool
	Where      VideoPredicate
	OrderBy    Ordering
	Weights    ScoreWeights
	Window     Window
}

// VendorCriteria is a full vendor query. Zero fields do not filter.
type VendorCriteria struct {
	ActiveOnly bool
	Within     *BoundingBox
	// case-insensitive substring over business name, description and
	// cuisine type
	Text   string
	Window Window
}

// UserCriteria is a full user query. Users have no active flag.
type UserCriteria struct {
	// case-insensitive substring over username, full name and bio
	Text   string
	Window Window
}

// CuisineCount is one row of the trending cuisine aggregation.
type CuisineCount struct {
	Cuisine string `json:"cuisine"`
	Count   int64  `json:"count"`
}

// FollowCounts are the follower/following totals of one user.
type FollowCounts struct {
	Followers int64
	Following int64
}

const kmPerDegree = 111.0

// BoundingBox is a latitude/longitude rectangle, bounds inclusive.
type BoundingBox struct {
	MinLat, MaxLat float64
	MinLng, MaxLng float64
}

// NewBoundingBox approximates a radius around (lat, lng) on a flat Earth:
// the latitude half width is radius/111 degrees and the longitude half width
// is radius/(111·|lat|) degrees.
//
// At lat = 0 the longitude half width divides by zero. The box then spans
// every longitude (the limit of the formula) rather than panicking or being
// silently corrected to a cos(lat) projection.
func NewBoundingBox(lat, lng, radiusKm float64) BoundingBox {
	latRange := radiusKm / kmPerDegree
	lngRange := math.Inf(1)
	if lat != 0 {
		lngRange = radiusKm / (kmPerDegree * math.Abs(lat))
	}
	return BoundingBox{
		MinLat: lat - latRange,
		MaxLat: lat + latRange,
		MinLng: lng - lngRange,
		MaxLng: lng + lngRange,
	}
}

// UnboundedLongitude is true when the box spans every longitude.
func (b BoundingBox) UnboundedLongitude() bool {
	return math.IsInf(b.MinLng, -1) && math.IsInf(b.MaxLng, 1)
}

// Contains reports whether both coordinates are present and inside the box.
func (b BoundingBox) Contains(lat, lng *float64) bool {
	if lat == nil || lng == nil {
		return false
	}
	return *lat >= b.MinLat && *lat <= b.MaxLat && *lng >= b.MinLng && *lng <= b.MaxLng
}
