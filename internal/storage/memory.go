package storage

import (
	"sync"

	"github.com/resource-jerc9024-data/alexa-attendance/internal/models"
)

// MemoryStore holds all data in memory for local development and tests
type MemoryStore struct {
	documents   map[string]*models.AttendanceDocument
	credentials map[string]string

	// Mutexes for thread safety
	docMu  sync.RWMutex
	credMu sync.RWMutex
}

// NewMemoryStore creates a new in-memory storage
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		documents:   make(map[string]*models.AttendanceDocument),
		credentials: make(map[string]string),
	}
}

// GetAttendance returns the document for a key. A missing document is not an
// error; callers get an empty-shaped document instead.
func (m *MemoryStore) GetAttendance(key string) (*models.AttendanceDocument, error) {
	m.docMu.RLock()
	defer m.docMu.RUnlock()

	doc, exists := m.documents[key]
	if !exists {
		return models.NewAttendanceDocument(), nil
	}
	return doc.Clone(), nil
}

// MergeAttendance applies a shallow merge-upsert: only non-nil patch fields
// replace their stored counterparts.
func (m *MemoryStore) MergeAttendance(key string, patch *models.AttendancePatch) error {
	m.docMu.Lock()
	defer m.docMu.Unlock()

	doc, exists := m.documents[key]
	if !exists {
		doc = models.NewAttendanceDocument()
		m.documents[key] = doc
	}
	doc.Apply(patch)
	return nil
}

// GetAttendanceKey resolves a credential ID to its attendance key.
func (m *MemoryStore) GetAttendanceKey(credentialID string) (string, error) {
	m.credMu.RLock()
	defer m.credMu.RUnlock()

	key, exists := m.credentials[credentialID]
	if !exists {
		return "", ErrCredentialNotFound
	}
	return key, nil
}

// PutCredential stores an identity-to-attendance-key mapping.
func (m *MemoryStore) PutCredential(credentialID, attendanceKey string) error {
	m.credMu.Lock()
	defer m.credMu.Unlock()

	m.credentials[credentialID] = attendanceKey
	return nil
}

func (m *MemoryStore) CountDocuments() (int64, error) {
	m.docMu.RLock()
	defer m.docMu.RUnlock()
	return int64(len(m.documents)), nil
}

func (m *MemoryStore) CountCredentials() (int64, error) {
	m.credMu.RLock()
	defer m.credMu.RUnlock()
	return int64(len(m.credentials)), nil
}
