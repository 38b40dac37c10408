package feed

import (
	"context"
	"time"

	"github.com/Luismorlan/foodreels/model"
)

// Store is everything the feed service reads. Implementations must not
// mutate state from any of these methods.
type Store interface {
	// GetUser returns ErrNotFound when no user has id.
	GetUser(ctx context.Context, id uint) (*model.User, error)
	GetUsers(ctx context.Context, ids []uint) (map[uint]model.User, error)
	FollowedUserIDs(ctx context.Context, followerID uint) ([]uint, error)
	FollowCounts(ctx context.Context, userIDs []uint) (map[uint]FollowCounts, error)
	LikedVideos(ctx context.Context, userID uint) ([]model.Video, error)

	// FindVideos returns the rows inside c.Window and the total number of
	// rows matched before windowing.
	FindVideos(ctx context.Context, c VideoCriteria) ([]model.Video, int64, error)
	FindVendors(ctx context.Context, c VendorCriteria) ([]model.Vendor, int64, error)
	FindUsers(ctx context.Context, c UserCriteria) ([]model.User, int64, error)

	// TrendingCuisines counts active videos created since the given time by
	// non-empty cuisine type, count descending.
	TrendingCuisines(ctx context.Context, since time.Time, limit int) ([]CuisineCount, error)
	// TopVendorsByEngagement ranks active vendors by the summed engagement of
	// their active videos created since the given time.
	TopVendorsByEngagement(ctx context.Context, since time.Time, limit int) ([]model.Vendor, error)
}
