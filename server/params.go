package server

import (
	"strconv"

	"github.com/Luismorlan/foodreels/feed"
	"github.com/gin-gonic/gin"
)

const (
	defaultPage    = 1
	defaultPerPage = 20
)

// queryInt reads an integer query parameter. Missing or malformed values
// fall back to def.
func queryInt(c *gin.Context, key string, def int) int {
	v, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return def
	}
	return v
}

// queryFloat reads a float query parameter, nil when missing or malformed.
func queryFloat(c *gin.Context, key string) *float64 {
	v, err := strconv.ParseFloat(c.Query(key), 64)
	if err != nil {
		return nil
	}
	return &v
}

// queryUint reads an id query parameter, nil when missing or malformed.
func queryUint(c *gin.Context, key string) *uint {
	v, err := strconv.ParseUint(c.Query(key), 10, 0)
	if err != nil {
		return nil
	}
	id := uint(v)
	return &id
}

func pageRequest(c *gin.Context) feed.PageRequest {
	return feed.PageRequest{
		Page:    queryInt(c, "page", defaultPage),
		PerPage: queryInt(c, "per_page", defaultPerPage),
	}
}

// pathID parses the ":id" path parameter.
func pathID(c *gin.Context) (uint, error) {
	v, err := strconv.ParseUint(c.Param("id"), 10, 0)
	if err != nil || v == 0 {
		return 0, feed.NewClientInputError("Invalid id")
	}
	return uint(v), nil
}
