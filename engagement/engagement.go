package engagement

import (
	"context"
	"strings"
	"sync"

	"github.com/Luismorlan/foodreels/feed"
	"github.com/Luismorlan/foodreels/model"
	. "github.com/Luismorlan/foodreels/utils/log"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Store is every write the engagement paths need. Edge writes report whether
// a row was actually created or removed, and adjust the matching video
// counter in the same transaction.
type Store interface {
	UserExists(ctx context.Context, id uint) (bool, error)
	// GetVideo returns feed.ErrNotFound when no video has id.
	GetVideo(ctx context.Context, id uint) (*model.Video, error)

	CreateFollow(ctx context.Context, followerID, followedID uint) (bool, error)
	DeleteFollow(ctx context.Context, followerID, followedID uint) (bool, error)
	CreateLike(ctx context.Context, userID, videoID uint) (bool, error)
	DeleteLike(ctx context.Context, userID, videoID uint) (bool, error)
	// GetComment returns feed.ErrNotFound when no comment has id.
	GetComment(ctx context.Context, id uint) (*model.Comment, error)
	CreateComment(ctx context.Context, comment *model.Comment) error
	IncrementViews(ctx context.Context, videoID uint) error
}

// ViewTracker deduplicates views of signed in users. MarkViewed returns true
// the first time a (user, video) pair is seen, ClearViewed forgets the pair.
type ViewTracker interface {
	MarkViewed(ctx context.Context, userID, videoID uint) (bool, error)
	ClearViewed(ctx context.Context, userID, videoID uint) error
}

// Service owns the denormalized engagement counters the feeds rank by.
type Service struct {
	store Store
	views ViewTracker
}

func NewService(store Store, views ViewTracker) *Service {
	if views == nil {
		views = NewMemoryViewTracker()
	}
	return &Service{store: store, views: views}
}

func (s *Service) requireUser(ctx context.Context, id uint) error {
	exists, err := s.store.UserExists(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return errors.Wrapf(feed.ErrNotFound, "user %d", id)
	}
	return nil
}

func (s *Service) requireVideo(ctx context.Context, id uint) (*model.Video, error) {
	video, err := s.store.GetVideo(ctx, id)
	if err != nil {
		if feed.IsNotFound(err) {
			return nil, errors.Wrapf(feed.ErrNotFound, "video %d", id)
		}
		return nil, err
	}
	return video, nil
}

// Follow makes followerID follow followedID. Following twice is a no-op.
func (s *Service) Follow(ctx context.Context, followerID, followedID uint) error {
	if followerID == followedID {
		return feed.NewClientInputError("Cannot follow yourself")
	}
	if err := s.requireUser(ctx, followedID); err != nil {
		return err
	}
	created, err := s.store.CreateFollow(ctx, followerID, followedID)
	if err != nil {
		return err
	}
	Log.WithFields(logrus.Fields{"follower": followerID, "followed": followedID, "created": created}).Debug("follow")
	return nil
}

func (s *Service) Unfollow(ctx context.Context, followerID, followedID uint) error {
	_, err := s.store.DeleteFollow(ctx, followerID, followedID)
	return err
}

// Like records a like of videoID by userID. Liking twice is a no-op.
func (s *Service) Like(ctx context.Context, userID, videoID uint) error {
	if _, err := s.requireVideo(ctx, videoID); err != nil {
		return err
	}
	_, err := s.store.CreateLike(ctx, userID, videoID)
	return err
}

func (s *Service) Unlike(ctx context.Context, userID, videoID uint) error {
	if _, err := s.requireVideo(ctx, videoID); err != nil {
		return err
	}
	_, err := s.store.DeleteLike(ctx, userID, videoID)
	return err
}

// Comment adds a comment on videoID, optionally replying to parentID.
func (s *Service) Comment(ctx context.Context, userID, videoID uint, parentID *uint, content string) (*model.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, feed.NewClientInputError("Comment content is required")
	}
	if _, err := s.requireVideo(ctx, videoID); err != nil {
		return nil, err
	}
	if parentID != nil {
		parent, err := s.store.GetComment(ctx, *parentID)
		if err != nil {
			if feed.IsNotFound(err) {
				return nil, errors.Wrapf(feed.ErrNotFound, "comment %d", *parentID)
			}
			return nil, err
		}
		if parent.VideoID != videoID {
			return nil, feed.NewClientInputError("Parent comment belongs to another video")
		}
	}
	comment := &model.Comment{
		UserID:   userID,
		VideoID:  videoID,
		ParentID: parentID,
		Content:  content,
	}
	if err := s.store.CreateComment(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// RecordView counts a view of videoID. Anonymous views always count, a
// signed in viewer counts once per video. It returns whether the view was
// counted.
func (s *Service) RecordView(ctx context.Context, viewerID *uint, videoID uint) (bool, error) {
	if _, err := s.requireVideo(ctx, videoID); err != nil {
		return false, err
	}
	if viewerID != nil {
		first, err := s.views.MarkViewed(ctx, *viewerID, videoID)
		if err != nil {
			return false, err
		}
		if !first {
			return false, nil
		}
	}
	if err := s.store.IncrementViews(ctx, videoID); err != nil {
		// the view was not counted, so it must count when retried
		if viewerID != nil {
			if clearErr := s.views.ClearViewed(ctx, *viewerID, videoID); clearErr != nil {
				Log.WithError(clearErr).WithFields(logrus.Fields{"user": *viewerID, "video": videoID}).
					Error("fail to clear view mark")
			}
		}
		return false, err
	}
	return true, nil
}

// MemoryViewTracker is the in-process ViewTracker used without redis.
type MemoryViewTracker struct {
	m    sync.Mutex
	seen map[[2]uint]bool
}

func NewMemoryViewTracker() *MemoryViewTracker {
	return &MemoryViewTracker{seen: map[[2]uint]bool{}}
}

func (t *MemoryViewTracker) MarkViewed(ctx context.Context, userID, videoID uint) (bool, error) {
	t.m.Lock()
	defer t.m.Unlock()
	key := [2]uint{userID, videoID}
	if t.seen[key] {
		return false, nil
	}
	t.seen[key] = true
	return true, nil
}

func (t *MemoryViewTracker) ClearViewed(ctx context.Context, userID, videoID uint) error {
	t.m.Lock()
	defer t.m.Unlock()
	delete(t.seen, [2]uint{userID, videoID})
	return nil
}
