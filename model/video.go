package model

import (
	"strings"
	"time"
)

const hashtagSeparator = ","

/*

Video is a short clip uploaded by a user, optionally on behalf of a vendor.

Id: primary key
CreatedAt: time when entity is created, drives recency ordering
UserID: author, "belongs-to" relation
VendorID: vendor the clip was posted for, nil for personal uploads

Title, Description, VideoUrl, ThumbnailUrl, Duration, Width, Height,
FileSize: media fields
Hashtags: comma joined tags without "#", e.g. "tacos,streetfood"
CuisineType, FoodCategory: tags used by personalization and cuisine feed
Latitude, Longitude, LocationName: where the clip was shot, may differ from
the vendor location

ViewCount, LikeCount, CommentCount, ShareCount: denormalized engagement
counters, never negative, maintained by the engagement write paths
IsActive: inactive videos never appear in any feed
IsFeatured: editorially featured, surfaced by the discover digest
*/
type Video struct {
	Id           uint      `gorm:"primaryKey"`
	CreatedAt    time.Time `gorm:"index"`
	UpdatedAt    time.Time
	UserID       uint    `gorm:"not null;index;constraint:OnDelete:CASCADE;"`
	User         User    `gorm:"constraint:OnDelete:CASCADE;"`
	VendorID     *uint   `gorm:"index;constraint:OnDelete:SET NULL;"`
	Vendor       *Vendor `gorm:"constraint:OnDelete:SET NULL;"`
	Title        string  `gorm:"size:200"`
	Description  string
	VideoUrl     string `gorm:"size:255;not null"`
	ThumbnailUrl string `gorm:"size:255"`
	Duration     int
	Width        int
	Height       int
	FileSize     int64
	Hashtags     string
	CuisineType  string `gorm:"size:100;index"`
	FoodCategory string `gorm:"size:50"`
	Latitude     *float64
	Longitude    *float64
	LocationName string `gorm:"size:255"`
	ViewCount    int64  `gorm:"not null;default:0"`
	LikeCount    int64  `gorm:"not null;default:0"`
	CommentCount int64  `gorm:"not null;default:0"`
	ShareCount   int64  `gorm:"not null;default:0"`
	IsActive     bool   `gorm:"not null;index"`
	IsFeatured   bool   `gorm:"not null;default:false"`
}

// HashtagList splits the stored hashtag text, trimming blanks and dropping
// empty entries.
func (v Video) HashtagList() []string {
	tags := []string{}
	for _, tag := range strings.Split(v.Hashtags, hashtagSeparator) {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// SetHashtags stores tags in the comma joined form.
func (v *Video) SetHashtags(tags []string) {
	v.Hashtags = strings.Join(tags, hashtagSeparator)
}

// Engagement is likes + comments + views, the sum used by the cuisine and
// hashtag feeds, the trending clause and top vendor ranking.
func (v Video) Engagement() int64 {
	return v.LikeCount + v.CommentCount + v.ViewCount
}

// Like is a unique (user, video) pair.
type Like struct {
	Id        uint `gorm:"primaryKey"`
	CreatedAt time.Time
	UserID    uint `gorm:"not null;uniqueIndex:unique_like;constraint:OnDelete:CASCADE;"`
	VideoID   uint `gorm:"not null;uniqueIndex:unique_like;index;constraint:OnDelete:CASCADE;"`
}

/*

Comment is a text reply on a video. ParentID is set for replies to another
comment on the same video, deleting a comment deletes its replies.

*/
type Comment struct {
	Id        uint `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time
	UserID    uint     `gorm:"not null;index;constraint:OnDelete:CASCADE;"`
	VideoID   uint     `gorm:"not null;index;constraint:OnDelete:CASCADE;"`
	ParentID  *uint    `gorm:"index;constraint:OnDelete:CASCADE;"`
	Parent    *Comment `gorm:"constraint:OnDelete:CASCADE;"`
	Content   string   `gorm:"not null"`
	LikeCount int64    `gorm:"not null;default:0"`
}

// VideoMenuItem links a video to a menu item it features.
type VideoMenuItem struct {
	Id         uint `gorm:"primaryKey"`
	CreatedAt  time.Time
	VideoID    uint `gorm:"not null;uniqueIndex:unique_video_menu_item;constraint:OnDelete:CASCADE;"`
	MenuItemID uint `gorm:"not null;uniqueIndex:unique_video_menu_item;constraint:OnDelete:CASCADE;"`
}
