// Package models defines the data rows exchanged between repositories,
// services and the HTTP layer.
package models

import "time"

// Roles stored in users.role.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is the identity record backing authentication. PasswordHash never
// leaves the service layer.
type User struct {
	UserID       int64
	Email        string
	PasswordHash string
	DisplayName  *string
	Role         string
	IsActive     bool
	LastLogin    *time.Time
	CreatedAt    time.Time
}

// UserView is the sanitized projection of a user attached to authenticated
// requests and returned by auth endpoints.
type UserView struct {
	UserID      int64   `json:"user_id"`
	Email       string  `json:"email"`
	DisplayName *string `json:"display_name"`
	Role        string  `json:"role"`
}

// View returns the sanitized projection of u.
func (u *User) View() *UserView {
	return &UserView{
		UserID:      u.UserID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		Role:        u.Role,
	}
}
