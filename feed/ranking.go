package feed

import (
	"math"
	"math/rand"
	"sort"

	"github.com/Luismorlan/foodreels/model"
)

// Score is the in-process form of the personalized ranking formula. Stores
// that push ordering into SQL must produce the same order.
func Score(v model.Video, w ScoreWeights) float64 {
	created := float64(v.CreatedAt.UnixNano()) / 1e9
	return w.View*math.Log(float64(v.ViewCount)+1) +
		w.Like*math.Log(float64(v.LikeCount)+1) +
		w.Comment*math.Log(float64(v.CommentCount)+1) +
		created/w.RecencyDivisor
}

// StabilizedShuffle keeps the first min(stable, len(videos)) videos in place
// and permutes the rest with rng. The slice is shuffled in place.
func StabilizedShuffle(videos []model.Video, stable int, rng *rand.Rand) {
	if stable < 0 {
		stable = 0
	}
	if stable >= len(videos) {
		return
	}
	tail := videos[stable:]
	rng.Shuffle(len(tail), func(i, j int) {
		tail[i], tail[j] = tail[j], tail[i]
	})
}

// TagCount is one row of the trending hashtag table.
type TagCount struct {
	Hashtag string `json:"hashtag"`
	Count   int64  `json:"count"`
}

// CountHashtags builds the hashtag frequency table of videos and returns the
// top n by count descending, ties by tag ascending.
func CountHashtags(videos []model.Video, n int) []TagCount {
	counts := map[string]int64{}
	for _, v := range videos {
		for _, tag := range v.HashtagList() {
			counts[tag]++
		}
	}

	result := make([]TagCount, 0, len(counts))
	for tag, count := range counts {
		result = append(result, TagCount{Hashtag: tag, Count: count})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Count != result[j].Count {
			return result[i].Count > result[j].Count
		}
		return result[i].Hashtag < result[j].Hashtag
	})
	if n >= 0 && len(result) > n {
		result = result[:n]
	}
	return result
}

// preferenceSet collects the distinct non-empty cuisine types and food
// categories of liked videos, in first seen order.
func preferenceSet(liked []model.Video) (cuisines []string, categories []string) {
	seenCuisine := map[string]bool{}
	seenCategory := map[string]bool{}
	for _, v := range liked {
		if v.CuisineType != "" && !seenCuisine[v.CuisineType] {
			seenCuisine[v.CuisineType] = true
			cuisines = append(cuisines, v.CuisineType)
		}
		if v.FoodCategory != "" && !seenCategory[v.FoodCategory] {
			seenCategory[v.FoodCategory] = true
			categories = append(categories, v.FoodCategory)
		}
	}
	return cuisines, categories
}

func pageCount(total int64, perPage int) int64 {
	if perPage <= 0 || total == 0 {
		return 0
	}
	pages := total / int64(perPage)
	if total%int64(perPage) != 0 {
		pages++
	}
	return pages
}
