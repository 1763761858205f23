package services

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/resource-jerc9024-data/alexa-attendance/internal/models"
)

// SessionManager implements the session list operations. The operations are
// pure over the list: callers read the current list from the document and
// merge the returned list back, which keeps the read-modify-write cycle in
// one place.
type SessionManager struct {
	now       func() time.Time
	newSuffix func() string
}

// NewSessionManager creates a new session manager
func NewSessionManager() *SessionManager {
	return &SessionManager{
		now:       time.Now,
		newSuffix: randomSuffix,
	}
}

// randomSuffix yields 4 lowercase hex characters for session codes.
func randomSuffix() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:4]
}

// GenerateCode derives a session code from a display name: the lowercased
// alphanumeric prefix of the name capped at 8 characters, plus a random
// 4-character suffix.
func (sm *SessionManager) GenerateCode(name string) string {
	var prefix strings.Builder
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			prefix.WriteRune(r)
			if prefix.Len() >= 8 {
				break
			}
		}
	}
	return prefix.String() + sm.newSuffix()
}

// Resolve finds a session by exact code first, then by case-insensitive
// name. A name shared by several sessions is an ambiguous match: the error
// carries every candidate so the user can disambiguate by code.
func (sm *SessionManager) Resolve(sessions []models.Session, identifier string) (*models.Session, error) {
	if len(sessions) == 0 {
		return nil, ErrNoSessions("no sessions exist yet")
	}

	for i := range sessions {
		if sessions[i].Code == identifier {
			return &sessions[i], nil
		}
	}

	var matches []models.Session
	for _, s := range sessions {
		if s.MatchesName(identifier) {
			matches = append(matches, s)
		}
	}
	switch len(matches) {
	case 0:
		return nil, ErrNotFound(fmt.Sprintf("no session named %s", identifier))
	case 1:
		return &matches[0], nil
	default:
		return nil, ErrAmbiguous(fmt.Sprintf("%d sessions are named %s", len(matches), identifier), matches)
	}
}

// SetPreset returns a new list where exactly the resolved session is
// selected and every other selection is cleared.
func (sm *SessionManager) SetPreset(sessions []models.Session, identifier string) ([]models.Session, *models.Session, error) {
	target, err := sm.Resolve(sessions, identifier)
	if err != nil {
		return nil, nil, err
	}

	out := make([]models.Session, len(sessions))
	var selected *models.Session
	for i, s := range sessions {
		s.IsSelected = s.Code == target.Code
		out[i] = s
		if s.IsSelected {
			selected = &out[i]
		}
	}
	return out, selected, nil
}

// ClearPreset clears every selection flag. Always succeeds; clearing an
// already-clear list is a no-op.
func (sm *SessionManager) ClearPreset(sessions []models.Session) []models.Session {
	out := make([]models.Session, len(sessions))
	for i, s := range sessions {
		s.IsSelected = false
		out[i] = s
	}
	return out
}

// Upsert inserts a session or replaces the existing one matching by
// case-insensitive name or by code. A code is generated only for genuinely
// new sessions, so re-saving under the same name keeps the stable code. The
// returned list is sorted newest-first by creation time.
func (sm *SessionManager) Upsert(sessions []models.Session, name, startDate, endDate string, setAsPreset bool) ([]models.Session, models.Session) {
	code := sm.GenerateCode(name)
	for _, s := range sessions {
		if s.MatchesName(name) || s.Code == code {
			code = s.Code
			break
		}
	}

	next := models.Session{
		Name:       name,
		Code:       code,
		StartDate:  startDate,
		EndDate:    endDate,
		IsSelected: setAsPreset,
		CreatedAt:  sm.now(),
	}

	out := make([]models.Session, 0, len(sessions)+1)
	for _, s := range sessions {
		if s.MatchesName(name) || s.Code == code {
			continue
		}
		if setAsPreset {
			s.IsSelected = false
		}
		out = append(out, s)
	}
	out = append(out, next)

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, next
}
