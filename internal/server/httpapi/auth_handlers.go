package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/polawatHuang/mangaara-backend/internal/common"
)

type registerRequest struct {
	Email       string  `json:"email"`
	Password    string  `json:"password"`
	DisplayName *string `json:"display_name"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenRequest struct {
	Token string `json:"token"`
}

func (rt *Router) handleRegister(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email and password are required"})
		return
	}

	view, err := rt.users.Register(c.Request.Context(), req.Email, req.Password, req.DisplayName)
	if err != nil {
		if errors.Is(err, common.ErrorConflict) {
			c.JSON(http.StatusConflict, gin.H{"error": "Email already exists"})
			return
		}
		rt.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"user_id":      view.UserID,
		"email":        view.Email,
		"display_name": view.DisplayName,
	})
}

func (rt *Router) handleLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email and password are required"})
		return
	}

	res, err := rt.users.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		rt.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": res.Token, "user": res.User})
}

func (rt *Router) handleLogout(c *gin.Context) {
	var req tokenRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Token is required"})
		return
	}

	if err := rt.users.Logout(c.Request.Context(), req.Token); err != nil {
		rt.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

func (rt *Router) handleVerify(c *gin.Context) {
	var req tokenRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Token is required"})
		return
	}

	user, err := rt.users.Verify(c.Request.Context(), req.Token)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"valid": true, "user": user})
	case errors.Is(err, common.ErrTokenExpired):
		c.JSON(http.StatusUnauthorized, gin.H{"valid": false, "error": "Token expired"})
	case errors.Is(err, common.ErrorUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"valid": false, "error": "Invalid token"})
	case errors.Is(err, common.ErrAccountDeactivated):
		c.JSON(http.StatusForbidden, gin.H{"valid": false, "error": "Account is deactivated"})
	default:
		rt.logg.Error(c.Request.Context(), "token verification failed", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
