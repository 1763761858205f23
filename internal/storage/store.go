package storage

import (
	"errors"

	"github.com/resource-jerc9024-data/alexa-attendance/internal/models"
)

var storeInstance Store

// ErrCredentialNotFound is returned when a caller identity has no attendance
// key mapped yet.
var ErrCredentialNotFound = errors.New("credential not found")

// SetStore sets the global store instance (call from main.go)
func SetStore(s Store) {
	storeInstance = s
}

// GetStore returns the global store instance
func GetStore() Store {
	return storeInstance
}

// Store defines the interface for storage operations. Attendance data is a
// per-key document with get/merge semantics: reads never fail for missing
// documents and merges only touch the fields present in the patch.
type Store interface {
	// Attendance document operations
	GetAttendance(key string) (*models.AttendanceDocument, error)
	MergeAttendance(key string, patch *models.AttendancePatch) error

	// Credential operations
	GetAttendanceKey(credentialID string) (string, error)
	PutCredential(credentialID, attendanceKey string) error

	// Counts for the health endpoint
	CountDocuments() (int64, error)
	CountCredentials() (int64, error)
}
