package httpapi

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/polawatHuang/mangaara-backend/internal/server/models"
	"github.com/polawatHuang/mangaara-backend/internal/server/repositories/episodes"
	"github.com/polawatHuang/mangaara-backend/internal/server/services"
)

const maxEpisodePages = 100

// Page uploads are stricter than the generic upload endpoint: no gifs.
var allowedPageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

type episodeRequest struct {
	MangaID int64   `json:"manga_id"`
	Episode int     `json:"episode"`
	Name    *string `json:"episode_name"`
}

func (rt *Router) handleCreateEpisode(c *gin.Context) {
	var req episodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	id, err := rt.episodes.CreateEpisode(c.Request.Context(), &models.Episode{
		MangaID: req.MangaID,
		Episode: req.Episode,
		Name:    req.Name,
	})
	if err != nil {
		rt.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id, "message": "Episode created successfully"})
}

func (rt *Router) handleGetEpisode(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	e, err := rt.episodes.GetEpisode(c.Request.Context(), id)
	if err != nil {
		rt.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, e)
}

func (rt *Router) handleGetEpisodeByNumber(c *gin.Context) {
	mangaID, ok := parseID(c, "manga_id")
	if !ok {
		return
	}
	episode, ok := parseEpisodeParam(c)
	if !ok {
		return
	}
	e, err := rt.episodes.GetEpisodeByNumber(c.Request.Context(), mangaID, episode)
	if err != nil {
		rt.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, e)
}

func (rt *Router) handleListEpisodes(c *gin.Context) {
	mangaID, ok := parseID(c, "manga_id")
	if !ok {
		return
	}
	list, err := rt.episodes.ListEpisodes(c.Request.Context(), mangaID)
	if err != nil {
		rt.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"episodes": list})
}

func (rt *Router) handleLatestEpisodes(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	list, err := rt.episodes.LatestEpisodes(c.Request.Context(), limit)
	if err != nil {
		rt.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"episodes": list})
}

type episodeUpdateRequest struct {
	Name       *string `json:"episode_name"`
	TotalPages *int    `json:"total_pages"`
}

func (rt *Router) handleUpdateEpisode(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req episodeUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	upd := &episodes.EpisodeUpdate{Name: req.Name, TotalPages: req.TotalPages}
	if err := rt.episodes.UpdateEpisode(c.Request.Context(), id, upd); err != nil {
		rt.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Episode updated"})
}

func (rt *Router) handleDeleteEpisode(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := rt.episodes.DeleteEpisode(c.Request.Context(), id); err != nil {
		rt.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Episode deleted"})
}

func (rt *Router) handleEpisodeView(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := rt.episodes.IncrementView(c.Request.Context(), id); err != nil {
		rt.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "View counted"})
}

// handleUploadEpisodePages stores the multipart episode_images set under
// <upload root>/<slug>/ep<episode>/ and swaps the episode's page rows for
// the new files. Every file is validated before anything touches the disk.
func (rt *Router) handleUploadEpisodePages(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid multipart form"})
		return
	}

	mangaID, _ := strconv.ParseInt(c.PostForm("manga_id"), 10, 64)
	slug := strings.TrimSpace(c.PostForm("manga_slug"))
	episode, _ := strconv.Atoi(c.PostForm("episode"))
	files := form.File["episode_images"]

	if mangaID <= 0 || slug == "" || len(files) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing manga_id, manga_slug, episode, or images"})
		return
	}
	if episode < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Episode number must be a positive number"})
		return
	}
	if len(files) > maxEpisodePages {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("At most %d images per episode", maxEpisodePages)})
		return
	}
	if slug != filepath.Base(slug) || strings.HasPrefix(slug, ".") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid manga_slug"})
		return
	}
	for _, f := range files {
		ext := strings.ToLower(filepath.Ext(f.Filename))
		if !allowedPageExts[ext] {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Only .jpg, .jpeg, .png, .webp files are allowed"})
			return
		}
		if f.Size > maxUploadBytes {
			c.JSON(http.StatusBadRequest, gin.H{"error": "File exceeds the 10MB limit"})
			return
		}
	}

	dir := filepath.Join(rt.cfg.UploadBasePath, slug, fmt.Sprintf("ep%d", episode))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		rt.logg.Error(c.Request.Context(), "episode dir create failed", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	stamp := time.Now().UnixMilli()
	images := make([]services.PageImage, 0, len(files))
	urls := make([]string, 0, len(files))
	for i, f := range files {
		ext := strings.ToLower(filepath.Ext(f.Filename))
		name := fmt.Sprintf("page_%d_%d%s", stamp, i+1, ext)
		if err := c.SaveUploadedFile(f, filepath.Join(dir, name)); err != nil {
			rt.logg.Error(c.Request.Context(), "episode page save failed", "error", err.Error())
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}
		url := fmt.Sprintf("/images/%s/ep%d/%s", slug, episode, name)
		images = append(images, services.PageImage{Filename: name, URL: url})
		urls = append(urls, url)
	}

	total, err := rt.episodes.ReplacePages(c.Request.Context(), mangaID, slug, episode, images)
	if err != nil {
		rt.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message":     "Episode pages uploaded successfully",
		"total_pages": total,
		"images":      urls,
	})
}

func (rt *Router) handleListEpisodePages(c *gin.Context) {
	mangaID, ok := parseID(c, "manga_id")
	if !ok {
		return
	}
	episode, ok := parseEpisodeParam(c)
	if !ok {
		return
	}
	list, err := rt.episodes.ListPages(c.Request.Context(), mangaID, episode)
	if err != nil {
		rt.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"pages": list})
}

func (rt *Router) handleListEpisodePagesBySlug(c *gin.Context) {
	slug := c.Param("manga_slug")
	episode, ok := parseEpisodeParam(c)
	if !ok {
		return
	}
	list, err := rt.episodes.ListPagesBySlug(c.Request.Context(), slug, episode)
	if err != nil {
		rt.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"pages": list})
}

func (rt *Router) handleDeleteEpisodePages(c *gin.Context) {
	mangaID, ok := parseID(c, "manga_id")
	if !ok {
		return
	}
	episode, ok := parseEpisodeParam(c)
	if !ok {
		return
	}
	if err := rt.episodes.DeletePages(c.Request.Context(), mangaID, episode); err != nil {
		rt.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Episode pages deleted"})
}

// parseEpisodeParam reads the positive :episode path parameter.
func parseEpisodeParam(c *gin.Context) (int, bool) {
	n, err := strconv.Atoi(c.Param("episode"))
	if err != nil || n <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid episode"})
		return 0, false
	}
	return n, true
}
