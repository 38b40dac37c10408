package server

import (
	"net/http"

	"github.com/DataDog/datadog-go/statsd"
	"github.com/Luismorlan/foodreels/server/middlewares"
	"github.com/gin-gonic/gin"
	gintrace "gopkg.in/DataDog/dd-trace-go.v1/contrib/gin-gonic/gin"
)

type RouterConfig struct {
	ServiceName string
	Feed        *FeedHandlers
	Engagement  *EngagementHandlers
	Auth        *middlewares.Authenticator
	// nil disables request metrics
	Statsd statsd.ClientInterface
	// adds the Datadog APM middleware
	EnableTracing bool
}

// NewRouter wires every route. Feed routes live under /api/feed, engagement
// routes under /api.
func NewRouter(config RouterConfig) *gin.Engine {
	// Default With the Logger and Recovery middleware already attached
	router := gin.Default()

	router.Use(middlewares.RequestID())
	if config.EnableTracing {
		router.Use(gintrace.Middleware(config.ServiceName))
	}
	if config.Statsd != nil {
		router.Use(middlewares.Metrics(config.Statsd))
	}

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	api := router.Group("/api")

	feeds := api.Group("/feed")
	feeds.GET("/for-you", config.Auth.OptionalJWT(), config.Feed.ForYou)
	feeds.GET("/following", config.Auth.JWT(), config.Feed.Following)
	feeds.GET("/local", config.Feed.Local)
	feeds.GET("/cuisine/:cuisine_type", config.Feed.Cuisine)
	feeds.GET("/hashtag/:hashtag", config.Feed.Hashtag)
	feeds.GET("/discover", config.Feed.Discover)
	feeds.GET("/search", config.Feed.Search)

	api.POST("/videos/:id/view", config.Auth.OptionalJWT(), config.Engagement.RecordView)

	authed := api.Group("", config.Auth.JWT())
	authed.POST("/videos/:id/like", config.Engagement.Like)
	authed.DELETE("/videos/:id/like", config.Engagement.Unlike)
	authed.POST("/videos/:id/comments", config.Engagement.Comment)
	authed.POST("/users/:id/follow", config.Engagement.Follow)
	authed.DELETE("/users/:id/follow", config.Engagement.Unfollow)

	return router
}
