package services

import (
	"log"
	"sync"
	"time"

	"github.com/resource-jerc9024-data/alexa-attendance/internal/models"
)

// DialoguePhase identifies where a multi-turn conversation stands.
type DialoguePhase string

const (
	PhaseIdle                       DialoguePhase = "idle"
	PhaseAwaitingStatusConfirmation DialoguePhase = "awaiting_status_confirmation"
	PhaseAwaitingSessionName        DialoguePhase = "awaiting_session_name"
	PhaseAwaitingStartDate          DialoguePhase = "awaiting_start_date"
	PhaseAwaitingEndDate            DialoguePhase = "awaiting_end_date"
)

// PendingStatusChange holds a staged day-status overwrite awaiting a yes/no.
type PendingStatusChange struct {
	Date      string
	NewStatus models.DayStatus
	OldStatus models.DayStatus
}

// DialogueState is the complete transient state of one conversation. It is
// an explicit value passed into and out of each turn's handler; nothing else
// mutates it.
type DialogueState struct {
	Phase               DialoguePhase
	PendingStatusChange *PendingStatusChange

	// Session-creation fields
	PendingSessionName string
	PendingStartDate   string
	ShouldSetAsPreset  bool
}

// InCreation reports whether the state is inside the session-creation flow.
func (s DialogueState) InCreation() bool {
	switch s.Phase {
	case PhaseAwaitingSessionName, PhaseAwaitingStartDate, PhaseAwaitingEndDate:
		return true
	}
	return false
}

type dialogueEntry struct {
	state     DialogueState
	expiresAt time.Time
}

// DialogueManager keeps per-conversation state in memory, keyed by
// attendance key. Entries expire after a TTL; the conversation platform's
// own session expiry is the real bound, this just stops the map growing.
type DialogueManager struct {
	entries map[string]*dialogueEntry
	mu      sync.RWMutex
	ttl     time.Duration
}

// NewDialogueManager creates a new dialogue manager
func NewDialogueManager() *DialogueManager {
	dm := &DialogueManager{
		entries: make(map[string]*dialogueEntry),
		ttl:     30 * time.Minute,
	}

	// Start cleanup routine
	go dm.cleanupExpired()

	return dm
}

// State returns the current state for a conversation, Idle when none exists.
func (dm *DialogueManager) State(key string) DialogueState {
	dm.mu.RLock()
	defer dm.mu.RUnlock()

	entry, exists := dm.entries[key]
	if !exists || time.Now().After(entry.expiresAt) {
		return DialogueState{Phase: PhaseIdle}
	}
	return entry.state
}

// SetState stores the next state for a conversation. Storing an Idle state
// with no pending data clears the entry.
func (dm *DialogueManager) SetState(key string, state DialogueState) {
	dm.mu.Lock()
	defer dm.mu.Unlock()

	if state.Phase == PhaseIdle || state.Phase == "" {
		delete(dm.entries, key)
		return
	}
	dm.entries[key] = &dialogueEntry{
		state:     state,
		expiresAt: time.Now().Add(dm.ttl),
	}
}

// Clear drops any state for a conversation.
func (dm *DialogueManager) Clear(key string) {
	dm.mu.Lock()
	defer dm.mu.Unlock()
	delete(dm.entries, key)
}

// ActiveCount returns the number of live conversations (for monitoring).
func (dm *DialogueManager) ActiveCount() int {
	dm.mu.RLock()
	defer dm.mu.RUnlock()

	count := 0
	now := time.Now()
	for _, entry := range dm.entries {
		if now.Before(entry.expiresAt) {
			count++
		}
	}
	return count
}

// cleanupExpired runs periodically to drop abandoned conversations.
func (dm *DialogueManager) cleanupExpired() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		dm.mu.Lock()
		now := time.Now()
		for key, entry := range dm.entries {
			if now.After(entry.expiresAt) {
				delete(dm.entries, key)
				log.Printf("🧹 Cleaned up abandoned conversation for %s", key)
			}
		}
		dm.mu.Unlock()
	}
}
