package models

import (
	"gorm.io/gorm"
)

// DayStatusKind enumerates the possible statuses a date can carry.
type DayStatusKind string

const (
	DayPresent     DayStatusKind = "present"
	DayAbsent      DayStatusKind = "absent"
	DayHoliday     DayStatusKind = "holiday"
	DayNotEnrolled DayStatusKind = "not_enrolled"
)

// Valid returns true when the kind is a supported value.
func (k DayStatusKind) Valid() bool {
	switch k {
	case DayPresent, DayAbsent, DayHoliday, DayNotEnrolled:
		return true
	default:
		return false
	}
}

// DayStatus is the single tagged representation of a day's status.
// HolidayName is set only when Kind is DayHoliday.
type DayStatus struct {
	Kind        DayStatusKind `json:"kind"`
	HolidayName string        `json:"holiday_name,omitempty"`
}

// Spoken returns the status as it should be read out to the user.
func (s DayStatus) Spoken() string {
	switch s.Kind {
	case DayPresent:
		return "present"
	case DayAbsent:
		return "absent"
	case DayHoliday:
		if s.HolidayName != "" {
			return "a holiday for " + s.HolidayName
		}
		return "a holiday"
	case DayNotEnrolled:
		return "not enrolled"
	default:
		return "unknown"
	}
}

// Holiday is one named holiday entry. Dates appear at most once; the
// attendance service enforces that, not the storage layer.
type Holiday struct {
	Date string `json:"date"`
	Name string `json:"name"`
}

// AttendanceDocument is the per-user attendance document, keyed by an opaque
// attendance key. Records maps ISO dates to present/absent; a missing key
// means "no record", not absent.
type AttendanceDocument struct {
	Records       map[string]bool `json:"records"`
	Holidays      []Holiday       `json:"holidays"`
	NotEnrolled   []string        `json:"not_enrolled"`
	Sessions      []Session       `json:"sessions"`
	WeeklyDaysOff []int           `json:"weekly_days_off"` // 0=Sunday..6=Saturday
}

// NewAttendanceDocument returns an empty-shaped document.
func NewAttendanceDocument() *AttendanceDocument {
	return &AttendanceDocument{
		Records:       make(map[string]bool),
		Holidays:      []Holiday{},
		NotEnrolled:   []string{},
		Sessions:      []Session{},
		WeeklyDaysOff: []int{},
	}
}

// StatusFor returns the tagged status recorded for an ISO date, if any.
func (d *AttendanceDocument) StatusFor(date string) (DayStatus, bool) {
	if present, ok := d.Records[date]; ok {
		if present {
			return DayStatus{Kind: DayPresent}, true
		}
		return DayStatus{Kind: DayAbsent}, true
	}
	for _, h := range d.Holidays {
		if h.Date == date {
			return DayStatus{Kind: DayHoliday, HolidayName: h.Name}, true
		}
	}
	for _, ne := range d.NotEnrolled {
		if ne == date {
			return DayStatus{Kind: DayNotEnrolled}, true
		}
	}
	return DayStatus{}, false
}

// HasWeeklyDayOff reports whether the given weekday (0=Sunday) is configured
// as a day off.
func (d *AttendanceDocument) HasWeeklyDayOff(weekday int) bool {
	for _, w := range d.WeeklyDaysOff {
		if w == weekday {
			return true
		}
	}
	return false
}

// Clone returns a deep copy so callers can mutate freely.
func (d *AttendanceDocument) Clone() *AttendanceDocument {
	out := NewAttendanceDocument()
	for k, v := range d.Records {
		out.Records[k] = v
	}
	out.Holidays = append(out.Holidays, d.Holidays...)
	out.NotEnrolled = append(out.NotEnrolled, d.NotEnrolled...)
	out.Sessions = append(out.Sessions, d.Sessions...)
	out.WeeklyDaysOff = append(out.WeeklyDaysOff, d.WeeklyDaysOff...)
	return out
}

// AttendancePatch is a shallow merge against an AttendanceDocument: a nil
// field leaves the stored container untouched, a non-nil field replaces it
// wholesale (including non-nil empty, which clears it). Callers read the
// current container before producing the replacement.
type AttendancePatch struct {
	Records       map[string]bool `json:"records,omitempty"`
	Holidays      []Holiday       `json:"holidays,omitempty"`
	NotEnrolled   []string        `json:"not_enrolled,omitempty"`
	Sessions      []Session       `json:"sessions,omitempty"`
	WeeklyDaysOff []int           `json:"weekly_days_off,omitempty"`
}

// Apply merges the patch into the document.
func (d *AttendanceDocument) Apply(p *AttendancePatch) {
	if p.Records != nil {
		d.Records = p.Records
	}
	if p.Holidays != nil {
		d.Holidays = p.Holidays
	}
	if p.NotEnrolled != nil {
		d.NotEnrolled = p.NotEnrolled
	}
	if p.Sessions != nil {
		d.Sessions = p.Sessions
	}
	if p.WeeklyDaysOff != nil {
		d.WeeklyDaysOff = p.WeeklyDaysOff
	}
}

// UserAttendance is the persisted row backing one attendance document.
// The document itself is stored as a JSON column so the row behaves like a
// key/value document entry.
type UserAttendance struct {
	gorm.Model
	AttendanceKey string `json:"attendance_key" gorm:"uniqueIndex;not null"`
	Document      string `json:"document" gorm:"type:jsonb"`
}
