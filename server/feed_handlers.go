package server

import (
	"net/http"

	"github.com/Luismorlan/foodreels/feed"
	"github.com/Luismorlan/foodreels/server/middlewares"
	"github.com/gin-gonic/gin"
)

// FeedHandlers serves the read only feed routes.
type FeedHandlers struct {
	Feed *feed.Service
}

// ForYou identifies the viewer by the user_id query parameter, or by the
// bearer token when the parameter is absent.
func (h *FeedHandlers) ForYou(c *gin.Context) {
	viewer := queryUint(c, "user_id")
	if viewer == nil {
		viewer = middlewares.CurrentUserID(c)
	}
	page, err := h.Feed.PersonalizedFeed(c.Request.Context(), viewer, pageRequest(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *FeedHandlers) Following(c *gin.Context) {
	page, err := h.Feed.FollowingFeed(c.Request.Context(), middlewares.CurrentUserID(c), pageRequest(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *FeedHandlers) Local(c *gin.Context) {
	page, err := h.Feed.LocalFeed(
		c.Request.Context(),
		queryFloat(c, "lat"),
		queryFloat(c, "lng"),
		queryFloat(c, "radius"),
		pageRequest(c),
	)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *FeedHandlers) Cuisine(c *gin.Context) {
	page, err := h.Feed.CuisineFeed(c.Request.Context(), c.Param("cuisine_type"), pageRequest(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *FeedHandlers) Hashtag(c *gin.Context) {
	page, err := h.Feed.HashtagFeed(c.Request.Context(), c.Param("hashtag"), pageRequest(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *FeedHandlers) Discover(c *gin.Context) {
	digest, err := h.Feed.Discover(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, digest)
}

func (h *FeedHandlers) Search(c *gin.Context) {
	result, err := h.Feed.Search(c.Request.Context(), c.Query("q"), c.DefaultQuery("type", feed.ScopeAll), pageRequest(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
