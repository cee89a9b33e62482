package models

import (
	"time"

	"github.com/octabyte/bm-health-portal/enums"
)

// Session is the client's belief about who is logged in. The zero value is
// the anonymous session.
type Session struct {
	Token string       `json:"authToken,omitempty"`
	User  *UserSummary `json:"user,omitempty"`
}

// Valid reports whether token and user are either both set or both empty.
func (s Session) Valid() bool {
	return (s.Token == "") == (s.User == nil)
}

func (s Session) Authenticated() bool {
	return s.Token != "" && s.User != nil
}

// SessionEvent is published on every session lifecycle transition.
type SessionEvent struct {
	Type   enums.SessionEventType `json:"type"`
	UserID int64                  `json:"user_id,omitempty"`
	Reason string                 `json:"reason,omitempty"`
	At     time.Time              `json:"at"`
}
