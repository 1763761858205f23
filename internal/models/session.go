package models

import (
	"strings"
	"time"
)

// Session is a named date range over which attendance percentage is computed
// independently of calendar months. Sessions live inside one user's
// attendance document and are never shared.
type Session struct {
	Name       string    `json:"name"`
	Code       string    `json:"code"` // stable short identifier, unique in practice
	StartDate  string    `json:"start_date"`
	EndDate    string    `json:"end_date,omitempty"` // empty = ongoing
	IsSelected bool      `json:"is_selected"`        // at most one per document
	CreatedAt  time.Time `json:"created_at"`
}

// MatchesName reports a case-insensitive name match.
func (s Session) MatchesName(name string) bool {
	return strings.EqualFold(s.Name, name)
}

// Range returns the session's window as spoken text.
func (s Session) Range() string {
	if s.EndDate == "" {
		return s.StartDate + " onwards"
	}
	return s.StartDate + " to " + s.EndDate
}
