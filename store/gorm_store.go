package store

import (
	"context"
	"time"

	"github.com/Luismorlan/foodreels/feed"
	"github.com/Luismorlan/foodreels/model"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore reads and writes every entity through gorm. Filtering, ordering
// and aggregation all run inside the database.
type GormStore struct {
	DB *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{DB: db}
}

func (s *GormStore) db(ctx context.Context) *gorm.DB {
	return s.DB.WithContext(ctx)
}

func (s *GormStore) GetUser(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	err := s.db(ctx).Where("id = ?", id).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, feed.ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "fail to get user")
	}
	return &user, nil
}

func (s *GormStore) GetUsers(ctx context.Context, ids []uint) (map[uint]model.User, error) {
	result := map[uint]model.User{}
	if len(ids) == 0 {
		return result, nil
	}
	var users []model.User
	if err := s.db(ctx).Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, errors.Wrap(err, "fail to get users")
	}
	for _, u := range users {
		result[u.Id] = u
	}
	return result, nil
}

func (s *GormStore) FollowedUserIDs(ctx context.Context, followerID uint) ([]uint, error) {
	ids := []uint{}
	err := s.db(ctx).Model(&model.Follow{}).
		Where("follower_id = ?", followerID).
		Pluck("followed_id", &ids).Error
	if err != nil {
		return nil, errors.Wrap(err, "fail to get followed users")
	}
	return ids, nil
}

func (s *GormStore) FollowCounts(ctx context.Context, userIDs []uint) (map[uint]feed.FollowCounts, error) {
	result := map[uint]feed.FollowCounts{}
	if len(userIDs) == 0 {
		return result, nil
	}

	type countRow struct {
		UserID uint
		Count  int64
	}

	var followers []countRow
	err := s.db(ctx).Model(&model.Follow{}).
		Select("followed_id AS user_id, COUNT(*) AS count").
		Where("followed_id IN ?", userIDs).
		Group("followed_id").
		Scan(&followers).Error
	if err != nil {
		return nil, errors.Wrap(err, "fail to count followers")
	}

	var following []countRow
	err = s.db(ctx).Model(&model.Follow{}).
		Select("follower_id AS user_id, COUNT(*) AS count").
		Where("follower_id IN ?", userIDs).
		Group("follower_id").
		Scan(&following).Error
	if err != nil {
		return nil, errors.Wrap(err, "fail to count following")
	}

	for _, r := range followers {
		c := result[r.UserID]
		c.Followers = r.Count
		result[r.UserID] = c
	}
	for _, r := range following {
		c := result[r.UserID]
		c.Following = r.Count
		result[r.UserID] = c
	}
	return result, nil
}

func (s *GormStore) LikedVideos(ctx context.Context, userID uint) ([]model.Video, error) {
	var videos []model.Video
	err := s.db(ctx).
		Where("videos.id IN (?)", s.db(ctx).Model(&model.Like{}).Select("video_id").Where("user_id = ?", userID)).
		Find(&videos).Error
	if err != nil {
		return nil, errors.Wrap(err, "fail to get liked videos")
	}
	return videos, nil
}

// videoQuery applies the filter part of c, without ordering or windowing.
func (s *GormStore) videoQuery(ctx context.Context, c feed.VideoCriteria) *gorm.DB {
	q := s.db(ctx).Model(&model.Video{})
	if c.ActiveOnly {
		q = q.Where("videos.is_active = ?", true)
	}
	if c.Where != nil {
		sql, args := videoPredicateSQL(c.Where)
		q = q.Where(sql, args...)
	}
	return q
}

func (s *GormStore) FindVideos(ctx context.Context, c feed.VideoCriteria) ([]model.Video, int64, error) {
	var total int64
	if err := s.videoQuery(ctx, c).Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(err, "fail to count videos")
	}

	videos := []model.Video{}
	q := s.videoQuery(ctx, c).Clauses(videoOrderBy(c.OrderBy, c.Weights))
	q = applyWindow(q, c.Window)
	if err := q.Find(&videos).Error; err != nil {
		return nil, 0, errors.Wrap(err, "fail to find videos")
	}
	return videos, total, nil
}

func (s *GormStore) vendorQuery(ctx context.Context, c feed.VendorCriteria) *gorm.DB {
	q := s.db(ctx).Model(&model.Vendor{})
	if c.ActiveOnly {
		q = q.Where("vendors.is_active = ?", true)
	}
	if c.Within != nil {
		sql, args := boxSQL("vendors", *c.Within)
		q = q.Where(sql, args...)
	}
	if c.Text != "" {
		sql, args := ilikeAny(c.Text, "vendors.business_name", "vendors.description", "vendors.cuisine_type")
		q = q.Where(sql, args...)
	}
	return q
}

func (s *GormStore) FindVendors(ctx context.Context, c feed.VendorCriteria) ([]model.Vendor, int64, error) {
	var total int64
	if err := s.vendorQuery(ctx, c).Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(err, "fail to count vendors")
	}
	vendors := []model.Vendor{}
	q := applyWindow(s.vendorQuery(ctx, c).Order("vendors.id ASC"), c.Window)
	if err := q.Find(&vendors).Error; err != nil {
		return nil, 0, errors.Wrap(err, "fail to find vendors")
	}
	return vendors, total, nil
}

func (s *GormStore) userQuery(ctx context.Context, c feed.UserCriteria) *gorm.DB {
	q := s.db(ctx).Model(&model.User{})
	if c.Text != "" {
		sql, args := ilikeAny(c.Text, "users.username", "users.full_name", "users.bio")
		q = q.Where(sql, args...)
	}
	return q
}

func (s *GormStore) FindUsers(ctx context.Context, c feed.UserCriteria) ([]model.User, int64, error) {
	var total int64
	if err := s.userQuery(ctx, c).Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(err, "fail to count users")
	}
	users := []model.User{}
	q := applyWindow(s.userQuery(ctx, c).Order("users.id ASC"), c.Window)
	if err := q.Find(&users).Error; err != nil {
		return nil, 0, errors.Wrap(err, "fail to find users")
	}
	return users, total, nil
}

func (s *GormStore) TrendingCuisines(ctx context.Context, since time.Time, limit int) ([]feed.CuisineCount, error) {
	rows := []feed.CuisineCount{}
	sql, args := videoPredicateSQL(feed.AllOf{Preds: []feed.VideoPredicate{
		feed.CreatedSince{Time: since},
		feed.HasCuisine{},
	}})
	err := s.db(ctx).Model(&model.Video{}).
		Select("videos.cuisine_type AS cuisine, COUNT(videos.id) AS count").
		Where("videos.is_active = ?", true).
		Where(sql, args...).
		Group("videos.cuisine_type").
		Order("count DESC, cuisine ASC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, "fail to count cuisines")
	}
	return rows, nil
}

func (s *GormStore) TopVendorsByEngagement(ctx context.Context, since time.Time, limit int) ([]model.Vendor, error) {
	type vendorEngagement struct {
		model.Vendor
		TotalEngagement int64
	}

	var rows []vendorEngagement
	err := s.db(ctx).Model(&model.Vendor{}).
		Select("vendors.*, SUM("+engagementSQL+") AS total_engagement").
		Joins("JOIN videos ON videos.vendor_id = vendors.id").
		Where("videos.created_at >= ? AND videos.is_active = ? AND vendors.is_active = ?", since, true, true).
		Group("vendors.id").
		Order("total_engagement DESC, vendors.id ASC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, "fail to rank vendors")
	}

	vendors := make([]model.Vendor, 0, len(rows))
	for _, r := range rows {
		vendors = append(vendors, r.Vendor)
	}
	return vendors, nil
}

func applyWindow(q *gorm.DB, w feed.Window) *gorm.DB {
	if w.Offset > 0 {
		q = q.Offset(w.Offset)
	}
	if w.Limit > 0 {
		q = q.Limit(w.Limit)
	}
	return q
}

// Writes. Counter updates share the transaction of the edge they belong to.

func (s *GormStore) CreateUser(ctx context.Context, user *model.User) error {
	return errors.Wrap(s.db(ctx).Create(user).Error, "fail to create user")
}

func (s *GormStore) CreateVendor(ctx context.Context, vendor *model.Vendor) error {
	return errors.Wrap(s.db(ctx).Create(vendor).Error, "fail to create vendor")
}

func (s *GormStore) CreateVideo(ctx context.Context, video *model.Video) error {
	return errors.Wrap(s.db(ctx).Create(video).Error, "fail to create video")
}

func (s *GormStore) UserExists(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := s.db(ctx).Model(&model.User{}).Where("id = ?", id).Count(&count).Error
	return count > 0, errors.Wrap(err, "fail to check user")
}

func (s *GormStore) GetVideo(ctx context.Context, id uint) (*model.Video, error) {
	var video model.Video
	err := s.db(ctx).Where("id = ?", id).First(&video).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, feed.ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "fail to get video")
	}
	return &video, nil
}

func (s *GormStore) CreateFollow(ctx context.Context, followerID, followedID uint) (bool, error) {
	res := s.db(ctx).Clauses(clause.OnConflict{DoNothing: true}).
		Create(&model.Follow{FollowerID: followerID, FollowedID: followedID})
	return res.RowsAffected > 0, errors.Wrap(res.Error, "fail to create follow")
}

func (s *GormStore) DeleteFollow(ctx context.Context, followerID, followedID uint) (bool, error) {
	res := s.db(ctx).Where("follower_id = ? AND followed_id = ?", followerID, followedID).Delete(&model.Follow{})
	return res.RowsAffected > 0, errors.Wrap(res.Error, "fail to delete follow")
}

func (s *GormStore) CreateLike(ctx context.Context, userID, videoID uint) (bool, error) {
	created := false
	err := s.db(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&model.Like{UserID: userID, VideoID: videoID})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		created = true
		return tx.Model(&model.Video{}).Where("id = ?", videoID).
			UpdateColumn("like_count", gorm.Expr("like_count + 1")).Error
	})
	return created, errors.Wrap(err, "fail to create like")
}

func (s *GormStore) DeleteLike(ctx context.Context, userID, videoID uint) (bool, error) {
	deleted := false
	err := s.db(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("user_id = ? AND video_id = ?", userID, videoID).Delete(&model.Like{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		deleted = true
		return tx.Model(&model.Video{}).Where("id = ? AND like_count > 0", videoID).
			UpdateColumn("like_count", gorm.Expr("like_count - 1")).Error
	})
	return deleted, errors.Wrap(err, "fail to delete like")
}

func (s *GormStore) GetComment(ctx context.Context, id uint) (*model.Comment, error) {
	var comment model.Comment
	err := s.db(ctx).Where("id = ?", id).First(&comment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, feed.ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "fail to get comment")
	}
	return &comment, nil
}

func (s *GormStore) CreateComment(ctx context.Context, comment *model.Comment) error {
	err := s.db(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(comment).Error; err != nil {
			return err
		}
		return tx.Model(&model.Video{}).Where("id = ?", comment.VideoID).
			UpdateColumn("comment_count", gorm.Expr("comment_count + 1")).Error
	})
	return errors.Wrap(err, "fail to create comment")
}

func (s *GormStore) IncrementViews(ctx context.Context, videoID uint) error {
	err := s.db(ctx).Model(&model.Video{}).Where("id = ?", videoID).
		UpdateColumn("view_count", gorm.Expr("view_count + 1")).Error
	return errors.Wrap(err, "fail to increment views")
}
