package feed

import (
	"time"

	"github.com/Luismorlan/foodreels/model"
	"github.com/jinzhu/copier"
	"gorm.io/datatypes"
)

// PublicProfile is the part of a user visible to other users.
type PublicProfile struct {
	Id             uint   `json:"id"`
	Username       string `json:"username"`
	FullName       string `json:"full_name"`
	ProfilePicture string `json:"profile_picture"`
	Bio            string `json:"bio"`
	IsVendor       bool   `json:"is_vendor"`
	IsVerified     bool   `json:"is_verified"`
	FollowerCount  int64  `json:"follower_count"`
	FollowingCount int64  `json:"following_count"`
}

// VideoSummary is the serialized form of a video in every feed.
type VideoSummary struct {
	Id           uint           `json:"id"`
	UserID       uint           `json:"user_id"`
	VendorID     *uint          `json:"vendor_id"`
	Title        string         `json:"title"`
	Description  string         `json:"description"`
	VideoUrl     string         `json:"video_url"`
	ThumbnailUrl string         `json:"thumbnail_url"`
	Duration     int            `json:"duration"`
	Width        int            `json:"width"`
	Height       int            `json:"height"`
	Hashtags     []string       `json:"hashtags"`
	CuisineType  string         `json:"cuisine_type"`
	FoodCategory string         `json:"food_category"`
	Latitude     *float64       `json:"latitude"`
	Longitude    *float64       `json:"longitude"`
	LocationName string         `json:"location_name"`
	ViewCount    int64          `json:"view_count"`
	LikeCount    int64          `json:"like_count"`
	CommentCount int64          `json:"comment_count"`
	ShareCount   int64          `json:"share_count"`
	IsFeatured   bool           `json:"is_featured"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	Creator      *PublicProfile `json:"creator,omitempty"`
}

// VendorSummary is the serialized form of a vendor.
type VendorSummary struct {
	Id            uint           `json:"id"`
	UserID        uint           `json:"user_id"`
	BusinessName  string         `json:"business_name"`
	BusinessType  string         `json:"business_type"`
	Description   string         `json:"description"`
	CuisineType   string         `json:"cuisine_type"`
	Address       string         `json:"address"`
	City          string         `json:"city"`
	State         string         `json:"state"`
	ZipCode       string         `json:"zip_code"`
	Latitude      *float64       `json:"latitude"`
	Longitude     *float64       `json:"longitude"`
	Phone         string         `json:"phone"`
	Website       string         `json:"website"`
	BusinessHours datatypes.JSON `json:"business_hours"`
	IsActive      bool           `json:"is_active"`
	IsVerified    bool           `json:"is_verified"`
	AverageRating float64        `json:"average_rating"`
	TotalReviews  int            `json:"total_reviews"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

func NewPublicProfile(user model.User, counts FollowCounts) PublicProfile {
	var profile PublicProfile
	// Field names line up with model.User, so copier cannot fail here.
	_ = copier.Copy(&profile, &user)
	profile.FollowerCount = counts.Followers
	profile.FollowingCount = counts.Following
	return profile
}

// NewVideoSummary serializes v. creator may be nil, in which case the
// summary has no embedded profile.
func NewVideoSummary(v model.Video, creator *PublicProfile) VideoSummary {
	return VideoSummary{
		Id:           v.Id,
		UserID:       v.UserID,
		VendorID:     v.VendorID,
		Title:        v.Title,
		Description:  v.Description,
		VideoUrl:     v.VideoUrl,
		ThumbnailUrl: v.ThumbnailUrl,
		Duration:     v.Duration,
		Width:        v.Width,
		Height:       v.Height,
		Hashtags:     v.HashtagList(),
		CuisineType:  v.CuisineType,
		FoodCategory: v.FoodCategory,
		Latitude:     v.Latitude,
		Longitude:    v.Longitude,
		LocationName: v.LocationName,
		ViewCount:    v.ViewCount,
		LikeCount:    v.LikeCount,
		CommentCount: v.CommentCount,
		ShareCount:   v.ShareCount,
		IsFeatured:   v.IsFeatured,
		CreatedAt:    v.CreatedAt,
		UpdatedAt:    v.UpdatedAt,
		Creator:      creator,
	}
}

func NewVendorSummary(v model.Vendor) VendorSummary {
	var summary VendorSummary
	_ = copier.Copy(&summary, &v)
	return summary
}
