package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/polawatHuang/mangaara-backend/internal/server/status"
)

// handleStatus serves the health snapshot. Both views are public; the plain
// view may come from the reporter's cache, ?detailed=true is always fresh.
func (rt *Router) handleStatus(c *gin.Context) {
	detailed := c.Query("detailed") == "true"
	rep := rt.reporter.Report(c.Request.Context(), detailed)
	c.JSON(status.HTTPStatus(rep.Status), rep)
}

func (rt *Router) handleStatusDatabase(c *gin.Context) {
	check := rt.reporter.CheckDatabase(c.Request.Context())
	code := http.StatusOK
	if check.Status != status.DatabaseConnected {
		code = http.StatusInternalServerError
	}
	c.JSON(code, gin.H{"database": check})
}

func (rt *Router) handleStatusStorage(c *gin.Context) {
	check := rt.reporter.CheckStorage()
	code := http.StatusOK
	if check.Status != status.StorageAccessible {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, gin.H{"storage": check})
}
