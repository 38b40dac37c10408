package feed

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/Luismorlan/foodreels/model"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func TestNewPublicProfile(t *testing.T) {
	user := model.User{
		Id:           7,
		Username:     "nonna",
		Email:        "nonna@example.com",
		PasswordHash: "secret",
		FullName:     "Nonna Rosa",
		Bio:          "fresh pasta daily",
		IsVendor:     true,
	}

	got := NewPublicProfile(user, FollowCounts{Followers: 12, Following: 3})
	want := PublicProfile{
		Id:             7,
		Username:       "nonna",
		FullName:       "Nonna Rosa",
		Bio:            "fresh pasta daily",
		IsVendor:       true,
		FollowerCount:  12,
		FollowingCount: 3,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("NewPublicProfile() mismatch (-want +got):\n%s", diff)
	}

	raw, err := json.Marshal(got)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "secret")
	assert.NotContains(t, string(raw), "email")
}

func TestNewVideoSummary(t *testing.T) {
	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	video := model.Video{Id: 3, UserID: 7, Title: "Cacio e pepe", Hashtags: "pasta, cheese", CreatedAt: created, LikeCount: 4}

	summary := NewVideoSummary(video, nil)
	assert.Equal(t, []string{"pasta", "cheese"}, summary.Hashtags)
	assert.Equal(t, int64(4), summary.LikeCount)
	assert.Nil(t, summary.Creator)

	raw, err := json.Marshal(summary)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), `"creator"`)

	empty := NewVideoSummary(model.Video{}, &PublicProfile{Username: "x"})
	raw, err = json.Marshal(empty)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"hashtags":[]`)
	assert.Contains(t, string(raw), `"creator":{`)
}

func TestNewVendorSummary(t *testing.T) {
	lat := 1.5
	vendor := model.Vendor{
		Id:            2,
		BusinessName:  "Nonna's",
		Latitude:      &lat,
		BusinessHours: datatypes.JSON(`{"mon":"9-17"}`),
		IsActive:      true,
		AverageRating: 4.5,
	}

	summary := NewVendorSummary(vendor)
	assert.Equal(t, uint(2), summary.Id)
	assert.Equal(t, "Nonna's", summary.BusinessName)
	require.NotNil(t, summary.Latitude)
	assert.Equal(t, 1.5, *summary.Latitude)
	assert.JSONEq(t, `{"mon":"9-17"}`, string(summary.BusinessHours))
	assert.True(t, summary.IsActive)
	assert.Equal(t, 4.5, summary.AverageRating)
}
