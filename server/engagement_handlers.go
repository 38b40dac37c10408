package server

import (
	"net/http"

	"github.com/Luismorlan/foodreels/engagement"
	"github.com/Luismorlan/foodreels/feed"
	"github.com/Luismorlan/foodreels/server/middlewares"
	"github.com/gin-gonic/gin"
)

// EngagementHandlers serves the write routes that maintain the counters.
// Every route except RecordView sits behind the JWT guard.
type EngagementHandlers struct {
	Engagement *engagement.Service
}

type commentRequest struct {
	Content  string `json:"content"`
	ParentID *uint  `json:"parent_id"`
}

// caller is the authenticated user. The JWT guard guarantees it is set.
func caller(c *gin.Context) uint {
	return *middlewares.CurrentUserID(c)
}

func (h *EngagementHandlers) Like(c *gin.Context) {
	videoID, err := pathID(c)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := h.Engagement.Like(c.Request.Context(), caller(c), videoID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Video liked"})
}

func (h *EngagementHandlers) Unlike(c *gin.Context) {
	videoID, err := pathID(c)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := h.Engagement.Unlike(c.Request.Context(), caller(c), videoID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Video unliked"})
}

func (h *EngagementHandlers) Comment(c *gin.Context) {
	videoID, err := pathID(c)
	if err != nil {
		respondError(c, err)
		return
	}
	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, feed.NewClientInputError("Invalid request body"))
		return
	}
	comment, err := h.Engagement.Comment(c.Request.Context(), caller(c), videoID, req.ParentID, req.Content)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"id":         comment.Id,
		"user_id":    comment.UserID,
		"video_id":   comment.VideoID,
		"parent_id":  comment.ParentID,
		"content":    comment.Content,
		"created_at": comment.CreatedAt,
	})
}

func (h *EngagementHandlers) RecordView(c *gin.Context) {
	videoID, err := pathID(c)
	if err != nil {
		respondError(c, err)
		return
	}
	counted, err := h.Engagement.RecordView(c.Request.Context(), middlewares.CurrentUserID(c), videoID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"counted": counted})
}

func (h *EngagementHandlers) Follow(c *gin.Context) {
	userID, err := pathID(c)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := h.Engagement.Follow(c.Request.Context(), caller(c), userID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User followed"})
}

func (h *EngagementHandlers) Unfollow(c *gin.Context) {
	userID, err := pathID(c)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := h.Engagement.Unfollow(c.Request.Context(), caller(c), userID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User unfollowed"})
}
