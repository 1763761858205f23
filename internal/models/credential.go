package models

import (
	"gorm.io/gorm"
)

// Credential maps a caller's platform identity to the attendance key scoping
// all of that user's attendance data. The key never leaves the backend.
type Credential struct {
	gorm.Model
	CredentialID  string `json:"credential_id" gorm:"uniqueIndex;not null"`
	AttendanceKey string `json:"attendance_key" gorm:"uniqueIndex;not null"`
}
