package models

import "time"

// AdminSession is the server-side record behind an admin_session cookie.
type AdminSession struct {
	Token         string    // Opaque bearer value stored in the cookie
	Owner         string    // Username the session was issued to
	CreatedAt     time.Time // Expiry is measured from this instant
	OriginAddress string    // Remote address at login, informational only
}

// Age reports how long the session has existed at now.
func (s *AdminSession) Age(now time.Time) time.Duration {
	return now.Sub(s.CreatedAt)
}
