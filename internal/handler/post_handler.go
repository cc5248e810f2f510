package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"Buzz_Board/internal/middleware"
	"Buzz_Board/internal/service"
	"Buzz_Board/internal/validate"
)

type PostHandler struct {
	feed *service.FeedService
	svc  *service.PostService
	log  *zap.Logger
}

func NewPostHandler(feed *service.FeedService, svc *service.PostService, log *zap.Logger) *PostHandler {
	return &PostHandler{feed: feed, svc: svc, log: log}
}

// List GET /api/posts?limit=&page=&buzzName=
func (h *PostHandler) List(c *gin.Context) {
	q, err := validate.ParseFeedQuery(c.Query("limit"), c.Query("page"), c.Query("buzzName"))
	if err != nil {
		renderError(c, h.log, err, defaultStatus, "msg")
		return
	}
	posts, err := h.feed.List(c.Request.Context(), q, middleware.SessionFrom(c))
	if err != nil {
		renderError(c, h.log, err, defaultStatus, "msg")
		return
	}
	c.JSON(http.StatusOK, posts)
}

func (h *PostHandler) Create(c *gin.Context) {
	var req validate.PostPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		renderError(c, h.log, bindError("invalid post payload", err), defaultStatus, "msg")
		return
	}
	in, err := validate.ParsePost(req)
	if err != nil {
		renderError(c, h.log, err, defaultStatus, "msg")
		return
	}
	post, err := h.svc.CreatePost(c.Request.Context(), middleware.SessionFrom(c).UserID, in)
	if err != nil {
		renderError(c, h.log, err, defaultStatus, "msg")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": post.ID})
}

func (h *PostHandler) Vote(c *gin.Context) {
	var req validate.VotePayload
	if err := c.ShouldBindJSON(&req); err != nil {
		renderError(c, h.log, bindError("invalid vote payload", err), defaultStatus, "msg")
		return
	}
	postID, vt, err := validate.ParseVote(req)
	if err != nil {
		renderError(c, h.log, err, defaultStatus, "msg")
		return
	}
	current, err := h.svc.Vote(c.Request.Context(), middleware.SessionFrom(c).UserID, postID, vt)
	if err != nil {
		renderError(c, h.log, err, defaultStatus, "msg")
		return
	}
	c.JSON(http.StatusOK, gin.H{"voteType": current})
}

func (h *PostHandler) Comment(c *gin.Context) {
	var req validate.CommentPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		renderError(c, h.log, bindError("invalid comment payload", err), defaultStatus, "msg")
		return
	}
	in, err := validate.ParseComment(req)
	if err != nil {
		renderError(c, h.log, err, defaultStatus, "msg")
		return
	}
	comment, err := h.svc.Comment(c.Request.Context(), middleware.SessionFrom(c).UserID, in)
	if err != nil {
		renderError(c, h.log, err, defaultStatus, "msg")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": comment.ID})
}
