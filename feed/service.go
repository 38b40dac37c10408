package feed

import (
	"context"
	"math"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/Luismorlan/foodreels/app_config"
	"github.com/Luismorlan/foodreels/model"
	"github.com/pkg/errors"
)

const (
	ScopeAll     = "all"
	ScopeVideos  = "videos"
	ScopeVendors = "vendors"
	ScopeUsers   = "users"
)

// PageRequest is the page a client asked for. Both numbers are echoed back
// untouched; non-positive values are normalised only for the store query.
type PageRequest struct {
	Page    int
	PerPage int
}

// VideoPage is the common shape of every paginated feed.
type VideoPage struct {
	Videos      []VideoSummary `json:"videos"`
	Total       int64          `json:"total"`
	Pages       int64          `json:"pages"`
	CurrentPage int            `json:"current_page"`
	PerPage     int            `json:"per_page"`
}

type LocalFeed struct {
	VideoPage
	LocalVendorsCount int `json:"local_vendors_count"`
}

type CuisineFeed struct {
	VideoPage
	CuisineType string `json:"cuisine_type"`
}

type HashtagFeed struct {
	VideoPage
	Hashtag string `json:"hashtag"`
}

type DiscoverDigest struct {
	TrendingHashtags []TagCount      `json:"trending_hashtags"`
	TrendingCuisines []CuisineCount  `json:"trending_cuisines"`
	FeaturedVideos   []VideoSummary  `json:"featured_videos"`
	TopVendors       []VendorSummary `json:"top_vendors"`
}

type VideoSection struct {
	Items []VideoSummary `json:"items"`
	Total int64          `json:"total"`
}

type VendorSection struct {
	Items []VendorSummary `json:"items"`
	Total int64           `json:"total"`
}

type UserSection struct {
	Items []PublicProfile `json:"items"`
	Total int64           `json:"total"`
}

// SearchSections only carries the sections the requested scope covers.
type SearchSections struct {
	Videos  *VideoSection  `json:"videos,omitempty"`
	Vendors *VendorSection `json:"vendors,omitempty"`
	Users   *UserSection   `json:"users,omitempty"`
}

type SearchResult struct {
	Query   string         `json:"query"`
	Results SearchSections `json:"results"`
	Page    int            `json:"page"`
	PerPage int            `json:"per_page"`
}

// Service computes every feed on each request directly against the store.
// It holds no state besides the random source of the stabilized shuffle.
type Service struct {
	store  Store
	config app_config.FeedAppConfig
	now    func() time.Time

	m   sync.Mutex
	rng *rand.Rand
}

// NewService creates a feed service. rng drives the stabilized shuffle of
// the personalized feed; pass a seeded source for reproducible output.
func NewService(store Store, config app_config.FeedAppConfig, rng *rand.Rand) *Service {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Service{
		store:  store,
		config: config,
		now:    time.Now,
		rng:    rng,
	}
}

// WithClock replaces the wall clock used for the trending window.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) Config() app_config.FeedAppConfig {
	return s.config
}

func (s *Service) weights() ScoreWeights {
	return ScoreWeights{
		View:           s.config.VIEW_WEIGHT,
		Like:           s.config.LIKE_WEIGHT,
		Comment:        s.config.COMMENT_WEIGHT,
		RecencyDivisor: s.config.RECENCY_DIVISOR,
	}
}

func (s *Service) trendingSince() time.Time {
	return s.now().Add(-time.Duration(s.config.TRENDING_WINDOW_DAYS) * 24 * time.Hour)
}

func (s *Service) window(p PageRequest) Window {
	page, perPage := p.Page, p.PerPage
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = s.config.DEFAULT_PAGE_SIZE
	}
	// a page past the largest representable offset is past every row
	if page-1 > math.MaxInt/perPage {
		return Window{Offset: math.MaxInt, Limit: perPage}
	}
	return Window{Offset: (page - 1) * perPage, Limit: perPage}
}

// PersonalizedFeed ranks active videos by score. A known viewer only sees
// videos matching at least one of: authored by a followed account, cuisine
// or category seen in their likes, or trending. The page is then shuffled
// below the stable prefix.
func (s *Service) PersonalizedFeed(ctx context.Context, viewerID *uint, p PageRequest) (*VideoPage, error) {
	criteria := VideoCriteria{
		ActiveOnly: true,
		OrderBy:    OrderByScore,
		Weights:    s.weights(),
		Window:     s.window(p),
	}

	if viewerID != nil {
		where, err := s.personalization(ctx, *viewerID)
		if err != nil {
			return nil, err
		}
		criteria.Where = where
	}

	videos, total, err := s.store.FindVideos(ctx, criteria)
	if err != nil {
		return nil, errors.Wrap(err, "fail to query personalized feed")
	}

	s.m.Lock()
	StabilizedShuffle(videos, s.config.STABLE_PREFIX_SIZE, s.rng)
	s.m.Unlock()

	return s.videoPage(ctx, videos, total, p)
}

// personalization builds the OR filter for viewerID, or returns nil when
// the viewer does not exist.
func (s *Service) personalization(ctx context.Context, viewerID uint) (VideoPredicate, error) {
	if _, err := s.store.GetUser(ctx, viewerID); err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "fail to look up viewer")
	}

	followed, err := s.store.FollowedUserIDs(ctx, viewerID)
	if err != nil {
		return nil, errors.Wrap(err, "fail to query followed users")
	}
	liked, err := s.store.LikedVideos(ctx, viewerID)
	if err != nil {
		return nil, errors.Wrap(err, "fail to query liked videos")
	}
	cuisines, categories := preferenceSet(liked)

	conditions := []VideoPredicate{AuthorIn{IDs: followed}}
	if len(cuisines) > 0 {
		conditions = append(conditions, CuisineIn{Values: cuisines})
	}
	if len(categories) > 0 {
		conditions = append(conditions, CategoryIn{Values: categories})
	}
	conditions = append(conditions, AllOf{Preds: []VideoPredicate{
		CreatedSince{Time: s.trendingSince()},
		EngagementAbove{Min: s.config.TRENDING_MIN_ENGAGEMENT},
	}})
	return AnyOf{Preds: conditions}, nil
}

// FollowingFeed lists active videos of accounts viewerID follows, newest
// first.
func (s *Service) FollowingFeed(ctx context.Context, viewerID *uint, p PageRequest) (*VideoPage, error) {
	if viewerID == nil {
		return nil, NewClientInputError("Authentication is required")
	}
	followed, err := s.store.FollowedUserIDs(ctx, *viewerID)
	if err != nil {
		return nil, errors.Wrap(err, "fail to query followed users")
	}
	videos, total, err := s.store.FindVideos(ctx, VideoCriteria{
		ActiveOnly: true,
		Where:      AuthorIn{IDs: followed},
		OrderBy:    OrderByRecency,
		Window:     s.window(p),
	})
	if err != nil {
		return nil, errors.Wrap(err, "fail to query following feed")
	}
	return s.videoPage(ctx, videos, total, p)
}

// LocalFeed lists active videos posted for a vendor inside the bounding box
// around (lat, lng), or shot inside it, newest first. Only absent coordinates
// are rejected: a zero latitude or longitude is a real position and is
// served, at lat 0 with a box spanning every longitude.
func (s *Service) LocalFeed(ctx context.Context, lat, lng *float64, radiusKm *float64, p PageRequest) (*LocalFeed, error) {
	if lat == nil || lng == nil {
		return nil, NewClientInputError("Latitude and longitude are required")
	}
	radius := s.config.DEFAULT_RADIUS_KM
	if radiusKm != nil {
		radius = *radiusKm
	}
	box := NewBoundingBox(*lat, *lng, radius)

	vendors, _, err := s.store.FindVendors(ctx, VendorCriteria{ActiveOnly: true, Within: &box})
	if err != nil {
		return nil, errors.Wrap(err, "fail to query local vendors")
	}
	vendorIDs := make([]uint, 0, len(vendors))
	for _, v := range vendors {
		vendorIDs = append(vendorIDs, v.Id)
	}

	videos, total, err := s.store.FindVideos(ctx, VideoCriteria{
		ActiveOnly: true,
		Where: AnyOf{Preds: []VideoPredicate{
			VendorIn{IDs: vendorIDs},
			LocatedWithin{Box: box},
		}},
		OrderBy: OrderByRecency,
		Window:  s.window(p),
	})
	if err != nil {
		return nil, errors.Wrap(err, "fail to query local feed")
	}
	page, err := s.videoPage(ctx, videos, total, p)
	if err != nil {
		return nil, err
	}
	return &LocalFeed{VideoPage: *page, LocalVendorsCount: len(vendors)}, nil
}

// CuisineFeed ranks active videos whose cuisine type contains cuisine by
// engagement.
func (s *Service) CuisineFeed(ctx context.Context, cuisine string, p PageRequest) (*CuisineFeed, error) {
	videos, total, err := s.store.FindVideos(ctx, VideoCriteria{
		ActiveOnly: true,
		Where:      CuisineContains{Text: cuisine},
		OrderBy:    OrderByEngagement,
		Window:     s.window(p),
	})
	if err != nil {
		return nil, errors.Wrap(err, "fail to query cuisine feed")
	}
	page, err := s.videoPage(ctx, videos, total, p)
	if err != nil {
		return nil, err
	}
	return &CuisineFeed{VideoPage: *page, CuisineType: cuisine}, nil
}

// HashtagFeed ranks active videos whose hashtags contain tag by engagement.
// Leading "#" characters are ignored.
func (s *Service) HashtagFeed(ctx context.Context, tag string, p PageRequest) (*HashtagFeed, error) {
	tag = strings.TrimLeft(tag, "#")
	videos, total, err := s.store.FindVideos(ctx, VideoCriteria{
		ActiveOnly: true,
		Where:      HashtagsContain{Text: tag},
		OrderBy:    OrderByEngagement,
		Window:     s.window(p),
	})
	if err != nil {
		return nil, errors.Wrap(err, "fail to query hashtag feed")
	}
	page, err := s.videoPage(ctx, videos, total, p)
	if err != nil {
		return nil, err
	}
	return &HashtagFeed{VideoPage: *page, Hashtag: tag}, nil
}

// Discover computes the trending digest over the trending window.
func (s *Service) Discover(ctx context.Context) (*DiscoverDigest, error) {
	since := s.trendingSince()
	topN := s.config.DIGEST_TOP_N

	recent, _, err := s.store.FindVideos(ctx, VideoCriteria{
		ActiveOnly: true,
		Where:      AllOf{Preds: []VideoPredicate{CreatedSince{Time: since}, HasHashtags{}}},
		OrderBy:    OrderByID,
	})
	if err != nil {
		return nil, errors.Wrap(err, "fail to query recent videos")
	}

	cuisines, err := s.store.TrendingCuisines(ctx, since, topN)
	if err != nil {
		return nil, errors.Wrap(err, "fail to count trending cuisines")
	}

	featured, _, err := s.store.FindVideos(ctx, VideoCriteria{
		ActiveOnly: true,
		Where:      IsFeatured{},
		OrderBy:    OrderByRecency,
		Window:     Window{Limit: s.config.FEATURED_LIMIT},
	})
	if err != nil {
		return nil, errors.Wrap(err, "fail to query featured videos")
	}
	featuredSummaries, err := s.summarize(ctx, featured)
	if err != nil {
		return nil, err
	}

	vendors, err := s.store.TopVendorsByEngagement(ctx, since, topN)
	if err != nil {
		return nil, errors.Wrap(err, "fail to rank top vendors")
	}
	vendorSummaries := make([]VendorSummary, 0, len(vendors))
	for _, v := range vendors {
		vendorSummaries = append(vendorSummaries, NewVendorSummary(v))
	}

	if cuisines == nil {
		cuisines = []CuisineCount{}
	}
	return &DiscoverDigest{
		TrendingHashtags: CountHashtags(recent, topN),
		TrendingCuisines: cuisines,
		FeaturedVideos:   featuredSummaries,
		TopVendors:       vendorSummaries,
	}, nil
}

// Search looks up videos, vendors and users containing query. With scope
// "all" every section is the first page of SEARCH_SECTION_LIMIT rows; with a
// single scope that section follows p. Unknown scopes yield no sections.
func (s *Service) Search(ctx context.Context, query, scope string, p PageRequest) (*SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, NewClientInputError("Search query is required")
	}
	if scope == "" {
		scope = ScopeAll
	}

	sectionWindow := func(section string) Window {
		if scope == section {
			return s.window(p)
		}
		return Window{Offset: 0, Limit: s.config.SEARCH_SECTION_LIMIT}
	}

	result := &SearchResult{Query: query, Page: p.Page, PerPage: p.PerPage}

	if scope == ScopeAll || scope == ScopeVideos {
		videos, total, err := s.store.FindVideos(ctx, VideoCriteria{
			ActiveOnly: true,
			Where:      TextContains{Text: query},
			OrderBy:    OrderByRecency,
			Window:     sectionWindow(ScopeVideos),
		})
		if err != nil {
			return nil, errors.Wrap(err, "fail to search videos")
		}
		items, err := s.summarize(ctx, videos)
		if err != nil {
			return nil, err
		}
		result.Results.Videos = &VideoSection{Items: items, Total: total}
	}

	if scope == ScopeAll || scope == ScopeVendors {
		vendors, total, err := s.store.FindVendors(ctx, VendorCriteria{
			ActiveOnly: true,
			Text:       query,
			Window:     sectionWindow(ScopeVendors),
		})
		if err != nil {
			return nil, errors.Wrap(err, "fail to search vendors")
		}
		items := make([]VendorSummary, 0, len(vendors))
		for _, v := range vendors {
			items = append(items, NewVendorSummary(v))
		}
		result.Results.Vendors = &VendorSection{Items: items, Total: total}
	}

	if scope == ScopeAll || scope == ScopeUsers {
		users, total, err := s.store.FindUsers(ctx, UserCriteria{
			Text:   query,
			Window: sectionWindow(ScopeUsers),
		})
		if err != nil {
			return nil, errors.Wrap(err, "fail to search users")
		}
		items, err := s.profiles(ctx, users)
		if err != nil {
			return nil, err
		}
		result.Results.Users = &UserSection{Items: items, Total: total}
	}

	return result, nil
}

func (s *Service) videoPage(ctx context.Context, videos []model.Video, total int64, p PageRequest) (*VideoPage, error) {
	summaries, err := s.summarize(ctx, videos)
	if err != nil {
		return nil, err
	}
	return &VideoPage{
		Videos:      summaries,
		Total:       total,
		Pages:       pageCount(total, s.window(p).Limit),
		CurrentPage: p.Page,
		PerPage:     p.PerPage,
	}, nil
}

// summarize serializes videos with their creators' public profiles, loading
// every creator of the page in one batch.
func (s *Service) summarize(ctx context.Context, videos []model.Video) ([]VideoSummary, error) {
	summaries := make([]VideoSummary, 0, len(videos))
	if len(videos) == 0 {
		return summaries, nil
	}

	authorIDs := make([]uint, 0, len(videos))
	seen := map[uint]bool{}
	for _, v := range videos {
		if !seen[v.UserID] {
			seen[v.UserID] = true
			authorIDs = append(authorIDs, v.UserID)
		}
	}
	authors, err := s.store.GetUsers(ctx, authorIDs)
	if err != nil {
		return nil, errors.Wrap(err, "fail to load video creators")
	}
	counts, err := s.store.FollowCounts(ctx, authorIDs)
	if err != nil {
		return nil, errors.Wrap(err, "fail to count creator follows")
	}

	for _, v := range videos {
		var creator *PublicProfile
		if author, ok := authors[v.UserID]; ok {
			profile := NewPublicProfile(author, counts[v.UserID])
			creator = &profile
		}
		summaries = append(summaries, NewVideoSummary(v, creator))
	}
	return summaries, nil
}

func (s *Service) profiles(ctx context.Context, users []model.User) ([]PublicProfile, error) {
	profiles := make([]PublicProfile, 0, len(users))
	if len(users) == 0 {
		return profiles, nil
	}
	ids := make([]uint, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.Id)
	}
	counts, err := s.store.FollowCounts(ctx, ids)
	if err != nil {
		return nil, errors.Wrap(err, "fail to count user follows")
	}
	for _, u := range users {
		profiles = append(profiles, NewPublicProfile(u, counts[u.Id]))
	}
	return profiles, nil
}
