package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/polawatHuang/mangaara-backend/internal/server/models"
	"github.com/polawatHuang/mangaara-backend/internal/server/repositories/users"
)

// userResponse is the account projection served to owners and admins. The
// password hash never appears here.
type userResponse struct {
	UserID      int64      `json:"user_id"`
	Email       string     `json:"email"`
	DisplayName *string    `json:"display_name"`
	Role        string     `json:"role"`
	IsActive    bool       `json:"is_active"`
	LastLogin   *time.Time `json:"last_login"`
	CreatedAt   time.Time  `json:"created_at"`
}

func toUserResponse(u *models.User) userResponse {
	return userResponse{
		UserID:      u.UserID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		Role:        u.Role,
		IsActive:    u.IsActive,
		LastLogin:   u.LastLogin,
		CreatedAt:   u.CreatedAt,
	}
}

func (rt *Router) handleListUsers(c *gin.Context) {
	list, err := rt.users.List(c.Request.Context())
	if err != nil {
		rt.writeError(c, err)
		return
	}
	out := make([]userResponse, 0, len(list))
	for _, u := range list {
		out = append(out, toUserResponse(u))
	}
	c.JSON(http.StatusOK, gin.H{"users": out})
}

func (rt *Router) handleGetUser(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	u, err := rt.users.Get(c.Request.Context(), id)
	if err != nil {
		rt.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toUserResponse(u))
}

type updateUserRequest struct {
	Email       *string `json:"email"`
	DisplayName *string `json:"display_name"`
	Role        *string `json:"role"`
	IsActive    *bool   `json:"is_active"`
}

func (rt *Router) handleUpdateUser(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	// role promotion and deactivation are admin moves even on one's own row
	caller := currentUser(c)
	if (req.Role != nil || req.IsActive != nil) && (caller == nil || caller.Role != models.RoleAdmin) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Unauthorized - Admin access required"})
		return
	}
	if req.Role != nil && *req.Role != models.RoleUser && *req.Role != models.RoleAdmin {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid role"})
		return
	}

	upd := &users.UserUpdate{
		Email:       req.Email,
		DisplayName: req.DisplayName,
		Role:        req.Role,
		IsActive:    req.IsActive,
	}
	if err := rt.users.Update(c.Request.Context(), id, upd); err != nil {
		rt.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User updated"})
}

func (rt *Router) handleDeleteUser(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := rt.users.Delete(c.Request.Context(), id); err != nil {
		rt.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User deleted"})
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

func (rt *Router) handleChangePassword(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.OldPassword == "" || req.NewPassword == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Old and new passwords are required"})
		return
	}

	if err := rt.users.ChangePassword(c.Request.Context(), id, req.OldPassword, req.NewPassword); err != nil {
		rt.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password changed, all sessions revoked"})
}

func (rt *Router) handleCleanupSessions(c *gin.Context) {
	n, err := rt.users.CleanupSessions(c.Request.Context())
	if err != nil {
		rt.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": n})
}

func (rt *Router) handleMetricsReset(c *gin.Context) {
	rt.rec.Reset()
	c.JSON(http.StatusOK, gin.H{"message": "Metrics reset"})
}
