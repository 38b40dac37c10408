package store

import (
	"context"
	"time"

	"github.com/Luismorlan/foodreels/model"
	. "github.com/Luismorlan/foodreels/utils/log"
	"github.com/brianvoe/gofakeit/v6"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Writer is implemented by every store that can be seeded.
type Writer interface {
	CreateUser(ctx context.Context, user *model.User) error
	CreateVendor(ctx context.Context, vendor *model.Vendor) error
	CreateVideo(ctx context.Context, video *model.Video) error
	CreateFollow(ctx context.Context, followerID, followedID uint) (bool, error)
	CreateLike(ctx context.Context, userID, videoID uint) (bool, error)
}

// SeedOptions sizes a fake data set. Coordinates are scattered within about
// 20km of (CenterLat, CenterLng).
type SeedOptions struct {
	Users          int
	VendorRatio    float64
	VideosPerUser  int
	FollowsPerUser int
	LikesPerUser   int
	CenterLat      float64
	CenterLng      float64
	MaxAge         time.Duration
	Seed           int64
}

func DefaultSeedOptions() SeedOptions {
	return SeedOptions{
		Users:          30,
		VendorRatio:    0.3,
		VideosPerUser:  4,
		FollowsPerUser: 5,
		LikesPerUser:   8,
		CenterLat:      37.7749,
		CenterLng:      -122.4194,
		MaxAge:         30 * 24 * time.Hour,
		Seed:           42,
	}
}

// SeedSummary counts what SeedFakeData created.
type SeedSummary struct {
	Users   int
	Vendors int
	Videos  int
	Follows int
	Likes   int
}

var (
	seedCuisines   = []string{"Italian", "Mexican", "Japanese", "Thai", "Indian", "Korean", "American", "French"}
	seedCategories = []string{"street_food", "dessert", "breakfast", "fine_dining", "snack", "drinks"}
	seedHashtags   = []string{"foodie", "spicy", "streetfood", "homemade", "vegan", "brunch", "noodles", "tacos", "sweet", "bbq"}
	seedBusinesses = []string{"restaurant", "food_truck", "cafe", "bakery", "bar"}
)

// SeedFakeData fills w with random but reproducible users, vendors, videos,
// follows and likes.
func SeedFakeData(ctx context.Context, w Writer, opts SeedOptions, now time.Time) (SeedSummary, error) {
	faker := gofakeit.New(opts.Seed)
	summary := SeedSummary{}

	near := func() (*float64, *float64) {
		lat := opts.CenterLat + faker.Float64Range(-0.18, 0.18)
		lng := opts.CenterLng + faker.Float64Range(-0.18, 0.18)
		return &lat, &lng
	}

	users := make([]model.User, 0, opts.Users)
	vendorOf := map[uint]uint{}
	for i := 0; i < opts.Users; i++ {
		user := model.User{
			Username:       faker.Username() + faker.DigitN(4),
			Email:          faker.Email(),
			PasswordHash:   faker.Password(true, true, true, false, false, 32),
			FullName:       faker.Name(),
			ProfilePicture: faker.ImageURL(200, 200),
			Bio:            faker.Sentence(8),
			IsVendor:       faker.Float64() < opts.VendorRatio,
			IsVerified:     faker.Bool(),
		}
		if err := w.CreateUser(ctx, &user); err != nil {
			return summary, errors.Wrap(err, "fail to seed user")
		}
		users = append(users, user)
		summary.Users++

		if !user.IsVendor {
			continue
		}
		lat, lng := near()
		vendor := model.Vendor{
			UserID:        user.Id,
			BusinessName:  faker.Company() + " Kitchen",
			BusinessType:  faker.RandomString(seedBusinesses),
			Description:   faker.Sentence(12),
			CuisineType:   faker.RandomString(seedCuisines),
			Address:       faker.Street(),
			City:          faker.City(),
			State:         faker.StateAbr(),
			ZipCode:       faker.Zip(),
			Latitude:      lat,
			Longitude:     lng,
			Phone:         faker.Phone(),
			Website:       faker.URL(),
			IsActive:      true,
			IsVerified:    faker.Bool(),
			AverageRating: faker.Float64Range(3, 5),
			TotalReviews:  faker.Number(0, 300),
		}
		if err := w.CreateVendor(ctx, &vendor); err != nil {
			return summary, errors.Wrap(err, "fail to seed vendor")
		}
		vendorOf[user.Id] = vendor.Id
		summary.Vendors++
	}

	videos := []model.Video{}
	for _, user := range users {
		for j := 0; j < opts.VideosPerUser; j++ {
			age := time.Duration(faker.Number(0, int(opts.MaxAge/time.Minute))) * time.Minute
			video := model.Video{
				CreatedAt:    now.Add(-age),
				UserID:       user.Id,
				Title:        faker.Dessert() + " " + faker.Adjective(),
				Description:  faker.Sentence(15),
				VideoUrl:     faker.URL() + "/video.mp4",
				ThumbnailUrl: faker.ImageURL(320, 568),
				Duration:     faker.Number(5, 60),
				Width:        1080,
				Height:       1920,
				FileSize:     int64(faker.Number(1_000_000, 50_000_000)),
				CuisineType:  faker.RandomString(seedCuisines),
				FoodCategory: faker.RandomString(seedCategories),
				ViewCount:    int64(faker.Number(0, 5000)),
				CommentCount: int64(faker.Number(0, 50)),
				ShareCount:   int64(faker.Number(0, 100)),
				IsActive:     faker.Float64() < 0.95,
				IsFeatured:   faker.Float64() < 0.1,
			}
			video.SetHashtags(pickDistinct(faker, seedHashtags, faker.Number(0, 3)))
			if vendorID, ok := vendorOf[user.Id]; ok {
				id := vendorID
				video.VendorID = &id
			}
			if faker.Bool() {
				video.Latitude, video.Longitude = near()
				video.LocationName = faker.City()
			}
			if err := w.CreateVideo(ctx, &video); err != nil {
				return summary, errors.Wrap(err, "fail to seed video")
			}
			videos = append(videos, video)
			summary.Videos++
		}
	}

	for _, user := range users {
		for j := 0; j < opts.FollowsPerUser && len(users) > 1; j++ {
			other := users[faker.Number(0, len(users)-1)]
			if other.Id == user.Id {
				continue
			}
			created, err := w.CreateFollow(ctx, user.Id, other.Id)
			if err != nil {
				return summary, errors.Wrap(err, "fail to seed follow")
			}
			if created {
				summary.Follows++
			}
		}
		for j := 0; j < opts.LikesPerUser && len(videos) > 0; j++ {
			video := videos[faker.Number(0, len(videos)-1)]
			created, err := w.CreateLike(ctx, user.Id, video.Id)
			if err != nil {
				return summary, errors.Wrap(err, "fail to seed like")
			}
			if created {
				summary.Likes++
			}
		}
	}

	Log.WithFields(logrus.Fields{
		"users":   summary.Users,
		"vendors": summary.Vendors,
		"videos":  summary.Videos,
		"follows": summary.Follows,
		"likes":   summary.Likes,
	}).Info("fake data seeded")
	return summary, nil
}

func pickDistinct(faker *gofakeit.Faker, values []string, n int) []string {
	picked := []string{}
	for _, i := range faker.Rand.Perm(len(values)) {
		if len(picked) == n {
			break
		}
		picked = append(picked, values[i])
	}
	return picked
}
