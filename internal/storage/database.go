package storage

import (
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/resource-jerc9024-data/alexa-attendance/internal/models"
)

// DatabaseStore persists attendance documents and credential mappings with
// GORM. Each attendance document is one row with the document serialized as
// a JSON column, so the table behaves like a key/value document collection.
type DatabaseStore struct {
	db *gorm.DB
}

// NewDatabaseStore creates a new database-backed storage
func NewDatabaseStore(db *gorm.DB) *DatabaseStore {
	return &DatabaseStore{db: db}
}

// GetAttendance loads a document. A missing row yields an empty-shaped
// document, never an error.
func (s *DatabaseStore) GetAttendance(key string) (*models.AttendanceDocument, error) {
	var row models.UserAttendance
	err := s.db.Where("attendance_key = ?", key).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NewAttendanceDocument(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load attendance document: %w", err)
	}

	doc := models.NewAttendanceDocument()
	if row.Document != "" {
		if err := json.Unmarshal([]byte(row.Document), doc); err != nil {
			return nil, fmt.Errorf("decode attendance document: %w", err)
		}
	}
	return doc, nil
}

// MergeAttendance reads the stored document, applies the patch and writes the
// result back. Only fields present in the patch change.
func (s *DatabaseStore) MergeAttendance(key string, patch *models.AttendancePatch) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var row models.UserAttendance
		err := tx.Where("attendance_key = ?", key).First(&row).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("load attendance document: %w", err)
		}

		doc := models.NewAttendanceDocument()
		if row.Document != "" {
			if err := json.Unmarshal([]byte(row.Document), doc); err != nil {
				return fmt.Errorf("decode attendance document: %w", err)
			}
		}
		doc.Apply(patch)

		raw, err := json.Marshal(doc)
		if err != nil {
			return fmt.Errorf("encode attendance document: %w", err)
		}

		row.AttendanceKey = key
		row.Document = string(raw)
		return tx.Save(&row).Error
	})
}

// GetAttendanceKey resolves a credential ID to its attendance key.
func (s *DatabaseStore) GetAttendanceKey(credentialID string) (string, error) {
	var cred models.Credential
	err := s.db.Where("credential_id = ?", credentialID).First(&cred).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrCredentialNotFound
	}
	if err != nil {
		return "", fmt.Errorf("load credential: %w", err)
	}
	return cred.AttendanceKey, nil
}

// PutCredential stores an identity-to-attendance-key mapping.
func (s *DatabaseStore) PutCredential(credentialID, attendanceKey string) error {
	cred := models.Credential{
		CredentialID:  credentialID,
		AttendanceKey: attendanceKey,
	}
	return s.db.Create(&cred).Error
}

func (s *DatabaseStore) CountDocuments() (int64, error) {
	var count int64
	err := s.db.Model(&models.UserAttendance{}).Count(&count).Error
	return count, err
}

func (s *DatabaseStore) CountCredentials() (int64, error) {
	var count int64
	err := s.db.Model(&models.Credential{}).Count(&count).Error
	return count, err
}
