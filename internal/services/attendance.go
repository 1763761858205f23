package services

import (
	"fmt"
	"log"
	"time"

	"github.com/resource-jerc9024-data/alexa-attendance/internal/models"
	"github.com/resource-jerc9024-data/alexa-attendance/internal/storage"
)

// AttendanceService owns day-status mutation on attendance documents.
type AttendanceService struct {
	store storage.Store
}

// NewAttendanceService creates a new attendance service
func NewAttendanceService(store storage.Store) *AttendanceService {
	return &AttendanceService{store: store}
}

// Document loads the caller's attendance document.
func (a *AttendanceService) Document(key string) (*models.AttendanceDocument, error) {
	return a.store.GetAttendance(key)
}

// SetDayStatus records a status for one date. Invariant: after the call the
// date lives in exactly one of records, holidays or notEnrolled, so the date
// is first removed from all three containers and only then re-added under
// the new status.
//
// Present and absent marks are rejected on structurally non-working days
// (Sunday or a configured weekly day off); holiday and not-enrolled marks
// are allowed there since they describe the day rather than the user.
func (a *AttendanceService) SetDayStatus(key string, date time.Time, status models.DayStatus) error {
	if !status.Kind.Valid() {
		return ErrInvalid(fmt.Sprintf("unsupported day status %q", status.Kind))
	}

	doc, err := a.store.GetAttendance(key)
	if err != nil {
		return err
	}

	if status.Kind == models.DayPresent || status.Kind == models.DayAbsent {
		if IsWeeklyOff(date, doc.WeeklyDaysOff) {
			return ErrNonWorking(fmt.Sprintf("%s is a non-working day", FormatDate(date)))
		}
	}

	iso := FormatDate(date)

	records := make(map[string]bool, len(doc.Records))
	for d, present := range doc.Records {
		if d != iso {
			records[d] = present
		}
	}
	holidays := make([]models.Holiday, 0, len(doc.Holidays))
	for _, h := range doc.Holidays {
		if h.Date != iso {
			holidays = append(holidays, h)
		}
	}
	notEnrolled := make([]string, 0, len(doc.NotEnrolled))
	for _, d := range doc.NotEnrolled {
		if d != iso {
			notEnrolled = append(notEnrolled, d)
		}
	}

	switch status.Kind {
	case models.DayPresent:
		records[iso] = true
	case models.DayAbsent:
		records[iso] = false
	case models.DayHoliday:
		holidays = append(holidays, models.Holiday{Date: iso, Name: status.HolidayName})
	case models.DayNotEnrolled:
		notEnrolled = append(notEnrolled, iso)
	}

	err = a.store.MergeAttendance(key, &models.AttendancePatch{
		Records:     records,
		Holidays:    holidays,
		NotEnrolled: notEnrolled,
	})
	if err != nil {
		return err
	}

	log.Printf("📅 Day status set: key=%s date=%s status=%s", key, iso, status.Kind)
	return nil
}

// AddWeeklyDayOff configures an extra weekly non-working day.
func (a *AttendanceService) AddWeeklyDayOff(key string, weekday int) error {
	if weekday < 0 || weekday > 6 {
		return ErrInvalid("weekday must be between Sunday and Saturday")
	}

	doc, err := a.store.GetAttendance(key)
	if err != nil {
		return err
	}
	if doc.HasWeeklyDayOff(weekday) {
		return nil
	}

	daysOff := append([]int{}, doc.WeeklyDaysOff...)
	daysOff = append(daysOff, weekday)
	return a.store.MergeAttendance(key, &models.AttendancePatch{WeeklyDaysOff: daysOff})
}

// RemoveWeeklyDayOff drops a configured weekly day off. Sunday cannot be
// removed; it is non-working unconditionally.
func (a *AttendanceService) RemoveWeeklyDayOff(key string, weekday int) error {
	if weekday == 0 {
		return ErrInvalid("Sunday is always a day off")
	}
	if weekday < 0 || weekday > 6 {
		return ErrInvalid("weekday must be between Sunday and Saturday")
	}

	doc, err := a.store.GetAttendance(key)
	if err != nil {
		return err
	}

	daysOff := make([]int, 0, len(doc.WeeklyDaysOff))
	for _, off := range doc.WeeklyDaysOff {
		if off != weekday {
			daysOff = append(daysOff, off)
		}
	}
	return a.store.MergeAttendance(key, &models.AttendancePatch{WeeklyDaysOff: daysOff})
}
