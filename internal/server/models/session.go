package models

import "time"

// Session is one active login: an opaque token mapped to its owning user.
type Session struct {
	SessionID int64
	UserID    int64
	Token     string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// SessionView is the session row joined to its owning user, as read on the
// authenticated path. Validity is decided by the service layer: a session is
// valid iff now < ExpiresAt and IsActive is true.
type SessionView struct {
	SessionID   int64
	ExpiresAt   time.Time
	UserID      int64
	Email       string
	DisplayName *string
	Role        string
	IsActive    bool
}

// UserView returns the sanitized user projection carried by the session.
func (s *SessionView) UserView() *UserView {
	return &UserView{
		UserID:      s.UserID,
		Email:       s.Email,
		DisplayName: s.DisplayName,
		Role:        s.Role,
	}
}
