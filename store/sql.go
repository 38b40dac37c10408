package store

import (
	"fmt"
	"strings"

	"github.com/Luismorlan/foodreels/feed"
	"gorm.io/gorm/clause"
)

const (
	alwaysTrue  = "1 = 1"
	alwaysFalse = "1 = 0"

	engagementSQL = "(videos.like_count + videos.comment_count + videos.view_count)"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern turns text into an ILIKE pattern matching it as a literal
// substring.
func containsPattern(text string) string {
	return "%" + likeEscaper.Replace(text) + "%"
}

// ilikeAny is "(col1 ILIKE ? OR col2 ILIKE ? ...)" with one pattern per column.
func ilikeAny(text string, columns ...string) (string, []interface{}) {
	pattern := containsPattern(text)
	parts := make([]string, 0, len(columns))
	args := make([]interface{}, 0, len(columns))
	for _, col := range columns {
		parts = append(parts, col+" ILIKE ?")
		args = append(args, pattern)
	}
	return "(" + strings.Join(parts, " OR ") + ")", args
}

// boxSQL matches rows of table whose coordinates fall inside box. A box that
// spans every longitude only requires a longitude to be present.
func boxSQL(table string, box feed.BoundingBox) (string, []interface{}) {
	sql := fmt.Sprintf("(%[1]s.latitude BETWEEN ? AND ?", table)
	args := []interface{}{box.MinLat, box.MaxLat}
	if box.UnboundedLongitude() {
		sql += fmt.Sprintf(" AND %s.longitude IS NOT NULL)", table)
		return sql, args
	}
	sql += fmt.Sprintf(" AND %s.longitude BETWEEN ? AND ?)", table)
	return sql, append(args, box.MinLng, box.MaxLng)
}

// videoPredicateSQL renders a predicate tree as a parenthesized SQL boolean
// expression over the videos table.
func videoPredicateSQL(pred feed.VideoPredicate) (string, []interface{}) {
	switch p := pred.(type) {
	case nil:
		return alwaysTrue, nil
	case feed.AllOf:
		return joinPredicates(p.Preds, " AND ", alwaysTrue)
	case feed.AnyOf:
		return joinPredicates(p.Preds, " OR ", alwaysFalse)
	case feed.AuthorIn:
		if len(p.IDs) == 0 {
			return alwaysFalse, nil
		}
		return "videos.user_id IN ?", []interface{}{p.IDs}
	case feed.VendorIn:
		if len(p.IDs) == 0 {
			return alwaysFalse, nil
		}
		return "videos.vendor_id IN ?", []interface{}{p.IDs}
	case feed.CuisineIn:
		if len(p.Values) == 0 {
			return alwaysFalse, nil
		}
		return "videos.cuisine_type IN ?", []interface{}{p.Values}
	case feed.CategoryIn:
		if len(p.Values) == 0 {
			return alwaysFalse, nil
		}
		return "videos.food_category IN ?", []interface{}{p.Values}
	case feed.CreatedSince:
		return "videos.created_at >= ?", []interface{}{p.Time}
	case feed.EngagementAbove:
		return engagementSQL + " > ?", []interface{}{p.Min}
	case feed.LocatedWithin:
		return boxSQL("videos", p.Box)
	case feed.CuisineContains:
		return ilikeAny(p.Text, "videos.cuisine_type")
	case feed.HashtagsContain:
		return ilikeAny(p.Text, "videos.hashtags")
	case feed.TextContains:
		return ilikeAny(p.Text, "videos.title", "videos.description", "videos.hashtags", "videos.cuisine_type")
	case feed.HasHashtags:
		return "(videos.hashtags IS NOT NULL AND videos.hashtags <> '')", nil
	case feed.HasCuisine:
		return "(videos.cuisine_type IS NOT NULL AND videos.cuisine_type <> '')", nil
	case feed.IsFeatured:
		return "videos.is_featured = ?", []interface{}{true}
	}
	panic(fmt.Sprintf("unsupported video predicate %T", pred))
}

func joinPredicates(preds []feed.VideoPredicate, op string, empty string) (string, []interface{}) {
	if len(preds) == 0 {
		return empty, nil
	}
	parts := make([]string, 0, len(preds))
	args := []interface{}{}
	for _, p := range preds {
		sql, a := videoPredicateSQL(p)
		parts = append(parts, sql)
		args = append(args, a...)
	}
	return "(" + strings.Join(parts, op) + ")", args
}

// videoOrderBy maps an ordering onto an ORDER BY clause. The score uses
// natural logarithms. Apply it with Clauses, Order ignores expressions.
func videoOrderBy(o feed.Ordering, w feed.ScoreWeights) clause.OrderBy {
	expr := clause.Expr{SQL: "videos.id ASC", WithoutParentheses: true}
	switch o {
	case feed.OrderByRecency:
		expr.SQL = "videos.created_at DESC, videos.id DESC"
	case feed.OrderByEngagement:
		expr.SQL = engagementSQL + " DESC, videos.id DESC"
	case feed.OrderByScore:
		expr.SQL = "(? * ln(videos.view_count + 1) + ? * ln(videos.like_count + 1) + " +
			"? * ln(videos.comment_count + 1) + extract(epoch from videos.created_at)::float8 / ?) DESC, videos.id DESC"
		expr.Vars = []interface{}{w.View, w.Like, w.Comment, w.RecencyDivisor}
	}
	return clause.OrderBy{Expression: expr}
}
