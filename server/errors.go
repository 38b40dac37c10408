package server

import (
	"net/http"

	"github.com/Luismorlan/foodreels/feed"
	"github.com/Luismorlan/foodreels/server/middlewares"
	. "github.com/Luismorlan/foodreels/utils/log"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// respondError maps err onto {"error": msg}: client input errors are 400,
// missing entities 404 and everything else 500 with the raw message.
func respondError(c *gin.Context, err error) {
	switch {
	case feed.IsClientInputError(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case feed.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		Log.WithError(err).WithFields(logrus.Fields{
			"route":      c.FullPath(),
			"request_id": c.GetString(middlewares.RequestIDHeader),
		}).Error("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
