package httpapi

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

const maxUploadBytes = 10 << 20

var allowedImageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// handleUpload stores one image under the upload root. The optional folder
// form field selects a single-level subdirectory; traversal is rejected.
func (rt *Router) handleUpload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBytes)

	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	if file.Size > maxUploadBytes {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File exceeds the 10MB limit"})
		return
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedImageExts[ext] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Only image files are allowed"})
		return
	}

	folder := c.PostForm("folder")
	if folder != "" && (folder != filepath.Base(folder) || strings.HasPrefix(folder, ".")) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid folder"})
		return
	}

	dir := rt.cfg.UploadBasePath
	if folder != "" {
		dir = filepath.Join(dir, folder)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		rt.logg.Error(c.Request.Context(), "upload dir create failed", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	name := fmt.Sprintf("%d%s", time.Now().UnixMilli(), ext)
	dst := filepath.Join(dir, name)
	if err := c.SaveUploadedFile(file, dst); err != nil {
		rt.logg.Error(c.Request.Context(), "upload save failed", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	rel := name
	if folder != "" {
		rel = folder + "/" + name
	}
	c.JSON(http.StatusCreated, gin.H{"filename": name, "path": rel})
}
