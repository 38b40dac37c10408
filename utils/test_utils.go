package utils

import (
	"testing"

	"github.com/Luismorlan/foodreels/model"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// CreateTestUser inserts a user named username, do sanity checks and returns
// it.
func CreateTestUser(t *testing.T, db *gorm.DB, username string) model.User {
	t.Helper()
	user := model.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "unused",
		FullName:     username,
	}
	require.NoError(t, db.Create(&user).Error)
	require.NotZero(t, user.Id)
	return user
}

// CreateTestVendor inserts an active vendor owned by userID at the given
// coordinates.
func CreateTestVendor(t *testing.T, db *gorm.DB, userID uint, name string, lat, lng float64) model.Vendor {
	t.Helper()
	vendor := model.Vendor{
		UserID:       userID,
		BusinessName: name,
		BusinessType: "restaurant",
		Latitude:     &lat,
		Longitude:    &lng,
		IsActive:     true,
	}
	require.NoError(t, db.Create(&vendor).Error)
	require.NotZero(t, vendor.Id)
	return vendor
}

// CreateTestVideo inserts an active video by userID. modify, when not nil,
// can change any field before the insert.
func CreateTestVideo(t *testing.T, db *gorm.DB, userID uint, modify func(v *model.Video)) model.Video {
	t.Helper()
	video := model.Video{
		UserID:   userID,
		Title:    "test video",
		VideoUrl: "https://cdn.example.com/video.mp4",
		IsActive: true,
	}
	if modify != nil {
		modify(&video)
	}
	require.NoError(t, db.Create(&video).Error)
	require.NotZero(t, video.Id)
	return video
}
