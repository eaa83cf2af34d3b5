package httpapi

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/polawatHuang/mangaara-backend/internal/server/models"
	"github.com/polawatHuang/mangaara-backend/internal/server/repositories/comments"
)

func commentFilterFromQuery(c *gin.Context) comments.Filter {
	var f comments.Filter
	if v, err := strconv.ParseInt(c.Query("manga_id"), 10, 64); err == nil {
		f.MangaID = v
	}
	if v, err := strconv.Atoi(c.Query("episode")); err == nil {
		f.Episode = v
	}
	return f
}

// handleListComments is the public listing: only published comments, filtered
// by manga and episode.
func (rt *Router) handleListComments(c *gin.Context) {
	f := commentFilterFromQuery(c)
	f.Status = models.CommentPublished

	list, err := rt.catalog.ListComments(c.Request.Context(), f)
	if err != nil {
		rt.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"comments": list})
}

// handleModerationQueue is the admin listing: any status, defaulting to the
// pending queue.
func (rt *Router) handleModerationQueue(c *gin.Context) {
	f := commentFilterFromQuery(c)
	f.Status = c.DefaultQuery("status", models.CommentPending)

	list, err := rt.catalog.ListComments(c.Request.Context(), f)
	if err != nil {
		rt.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"comments": list})
}

type createCommentRequest struct {
	MangaID int64  `json:"manga_id"`
	Episode int    `json:"episode"`
	Comment string `json:"comment"`
}

func (rt *Router) handleCreateComment(c *gin.Context) {
	user := currentUser(c)
	var req createCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	commenter := user.Email
	if user.DisplayName != nil && *user.DisplayName != "" {
		commenter = *user.DisplayName
	}
	id, err := rt.catalog.CreateComment(c.Request.Context(), &models.Comment{
		MangaID:   req.MangaID,
		Episode:   req.Episode,
		Commenter: commenter,
		Comment:   req.Comment,
	})
	if err != nil {
		rt.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"comment_id": id, "status": models.CommentPending})
}

type commentStatusRequest struct {
	Status string `json:"status"`
}

func (rt *Router) handleSetCommentStatus(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req commentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Status == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status is required"})
		return
	}
	if err := rt.catalog.SetCommentStatus(c.Request.Context(), id, req.Status); err != nil {
		rt.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Comment status updated"})
}

func (rt *Router) handleDeleteComment(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := rt.catalog.DeleteComment(c.Request.Context(), id); err != nil {
		rt.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Comment deleted"})
}
