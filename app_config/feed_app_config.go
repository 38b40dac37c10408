package app_config

import (
	"io/ioutil"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// This is the ranking config for the feed service. Any key missing from the
// yaml file keeps its default value.
type FeedAppConfig struct {
	// Weights of ln(count+1) in the personalized score.
	VIEW_WEIGHT    float64 `yaml:"VIEW_WEIGHT"`
	LIKE_WEIGHT    float64 `yaml:"LIKE_WEIGHT"`
	COMMENT_WEIGHT float64 `yaml:"COMMENT_WEIGHT"`
	// Creation epoch seconds are divided by this value to form the recency
	// term of the score.
	RECENCY_DIVISOR float64 `yaml:"RECENCY_DIVISOR"`
	// Window used by the trending clause and the discover digest.
	TRENDING_WINDOW_DAYS int `yaml:"TRENDING_WINDOW_DAYS"`
	// Likes + comments + views must exceed this value for a recent video to
	// enter a personalized feed through the trending clause.
	TRENDING_MIN_ENGAGEMENT int64 `yaml:"TRENDING_MIN_ENGAGEMENT"`
	// Number of top ranked videos kept in place by the stabilized shuffle.
	STABLE_PREFIX_SIZE int `yaml:"STABLE_PREFIX_SIZE"`
	DEFAULT_PAGE_SIZE  int `yaml:"DEFAULT_PAGE_SIZE"`
	// Radius used by the local feed when the request has none.
	DEFAULT_RADIUS_KM float64 `yaml:"DEFAULT_RADIUS_KM"`
	// Per section cap of a search across all scopes.
	SEARCH_SECTION_LIMIT int `yaml:"SEARCH_SECTION_LIMIT"`
	// Length of the trending hashtag, trending cuisine and top vendor lists.
	DIGEST_TOP_N   int `yaml:"DIGEST_TOP_N"`
	FEATURED_LIMIT int `yaml:"FEATURED_LIMIT"`
}

func DefaultFeedAppConfig() FeedAppConfig {
	return FeedAppConfig{
		VIEW_WEIGHT:             0.3,
		LIKE_WEIGHT:             0.4,
		COMMENT_WEIGHT:          0.3,
		RECENCY_DIVISOR:         100000,
		TRENDING_WINDOW_DAYS:    7,
		TRENDING_MIN_ENGAGEMENT: 10,
		STABLE_PREFIX_SIZE:      3,
		DEFAULT_PAGE_SIZE:       20,
		DEFAULT_RADIUS_KM:       10,
		SEARCH_SECTION_LIMIT:    10,
		DIGEST_TOP_N:            10,
		FEATURED_LIMIT:          5,
	}
}

// ParseFeedAppConfig reads the yaml file at path on top of the defaults. An
// empty path or a file that does not exist yields the defaults.
func ParseFeedAppConfig(path string) (FeedAppConfig, error) {
	c := DefaultFeedAppConfig()
	if path == "" {
		return c, nil
	}
	yamlFile, err := ioutil.ReadFile(path)
	if os.IsNotExist(err) {
		return c, nil
	}
	if err != nil {
		return c, errors.Wrap(err, "fail to read feed config")
	}
	if err = yaml.Unmarshal(yamlFile, &c); err != nil {
		return c, errors.Wrap(err, "fail to parse feed config")
	}
	if c.RECENCY_DIVISOR == 0 {
		return c, errors.New("RECENCY_DIVISOR must not be zero")
	}
	return c, nil
}
