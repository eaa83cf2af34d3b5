package httpapi

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/polawatHuang/mangaara-backend/internal/server/models"
	"github.com/polawatHuang/mangaara-backend/internal/server/repositories/manga"
)

type mangaRequest struct {
	Name  string  `json:"manga_name"`
	Disc  *string `json:"manga_disc"`
	BgImg *string `json:"manga_bg_img"`
	Slug  string  `json:"manga_slug"`
	TagID *int64  `json:"tag_id"`
}

func (rt *Router) handleListManga(c *gin.Context) {
	list, err := rt.catalog.ListManga(c.Request.Context())
	if err != nil {
		rt.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"mangas": list})
}

func (rt *Router) handleGetManga(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	detail, err := rt.catalog.GetManga(c.Request.Context(), id)
	if err != nil {
		rt.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

func (rt *Router) handleCreateManga(c *gin.Context) {
	var req mangaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	id, err := rt.catalog.CreateManga(c.Request.Context(), &models.Manga{
		Name:  req.Name,
		Disc:  req.Disc,
		BgImg: req.BgImg,
		Slug:  req.Slug,
		TagID: req.TagID,
	})
	if err != nil {
		rt.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"manga_id": id})
}

type mangaUpdateRequest struct {
	Name  *string `json:"manga_name"`
	Disc  *string `json:"manga_disc"`
	BgImg *string `json:"manga_bg_img"`
	Slug  *string `json:"manga_slug"`
	TagID *int64  `json:"tag_id"`
}

func (rt *Router) handleUpdateManga(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req mangaUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	upd := &manga.MangaUpdate{
		Name:  req.Name,
		Disc:  req.Disc,
		BgImg: req.BgImg,
		Slug:  req.Slug,
		TagID: req.TagID,
	}
	if err := rt.catalog.UpdateManga(c.Request.Context(), id, upd); err != nil {
		rt.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Manga updated"})
}

func (rt *Router) handleDeleteManga(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := rt.catalog.DeleteManga(c.Request.Context(), id); err != nil {
		rt.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Manga deleted"})
}

type tagRequest struct {
	Name string `json:"tag_name"`
}

func (rt *Router) handleListTags(c *gin.Context) {
	list, err := rt.catalog.ListTags(c.Request.Context())
	if err != nil {
		rt.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tags": list})
}

func (rt *Router) handleCreateTag(c *gin.Context) {
	var req tagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	id, err := rt.catalog.CreateTag(c.Request.Context(), req.Name)
	if err != nil {
		rt.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"tag_id": id})
}

func (rt *Router) handleRenameTag(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req tagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if err := rt.catalog.RenameTag(c.Request.Context(), id, req.Name); err != nil {
		rt.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Tag updated"})
}

func (rt *Router) handleDeleteTag(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := rt.catalog.DeleteTag(c.Request.Context(), id); err != nil {
		rt.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Tag deleted"})
}

type favoriteRequest struct {
	MangaID int64 `json:"manga_id"`
}

func (rt *Router) handleListFavorites(c *gin.Context) {
	user := currentUser(c)
	list, err := rt.catalog.ListFavorites(c.Request.Context(), user.UserID)
	if err != nil {
		rt.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"favorites": list})
}

func (rt *Router) handleAddFavorite(c *gin.Context) {
	user := currentUser(c)
	var req favoriteRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.MangaID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "manga_id is required"})
		return
	}
	if err := rt.catalog.AddFavorite(c.Request.Context(), user.UserID, req.MangaID); err != nil {
		rt.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Added to favorites"})
}

func (rt *Router) handleRemoveFavorite(c *gin.Context) {
	user := currentUser(c)
	mangaID, err := strconv.ParseInt(c.Param("manga_id"), 10, 64)
	if err != nil || mangaID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid manga_id"})
		return
	}
	if err := rt.catalog.RemoveFavorite(c.Request.Context(), user.UserID, mangaID); err != nil {
		rt.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Removed from favorites"})
}
