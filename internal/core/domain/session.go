package domain

import "time"

// SessionDuration is the fixed lifetime of an admin session.
const SessionDuration = 2 * time.Hour

// Session is the time-bounded grant written to the single session slot after
// a successful login. Permissions are a snapshot taken at login time; later
// role edits do not reach an open session.
type Session struct {
	ID          string       `json:"id"`
	UserID      string       `json:"user_id"`
	Email       string       `json:"email"`
	Role        Role         `json:"role"`
	Permissions []Permission `json:"permissions"`
	LoginTime   time.Time    `json:"login_time"`
	ExpiryTime  time.Time    `json:"expiry_time"`
}

// NewSession snapshots user into a session starting at loginTime.
// loginTime is truncated to milliseconds so the stored epoch-ms pair keeps
// ExpiryTime - LoginTime == ttl exactly.
func NewSession(id string, user AdminUser, loginTime time.Time, ttl time.Duration) *Session {
	login := loginTime.Truncate(time.Millisecond)
	return &Session{
		ID:          id,
		UserID:      user.ID,
		Email:       user.Email,
		Role:        user.Role,
		Permissions: ClonePermissions(user.Permissions),
		LoginTime:   login,
		ExpiryTime:  login.Add(ttl),
	}
}

// ExpiredAt reports whether the session is no longer valid at now.
// The expiry instant itself counts as expired.
func (s *Session) ExpiredAt(now time.Time) bool {
	return !now.Before(s.ExpiryTime)
}

// HasPermission applies the permission matching rules to the session snapshot.
func (s *Session) HasPermission(action, resource string) bool {
	if s == nil {
		return false
	}
	return Allows(s.Permissions, action, resource)
}
