package services

import (
	"fmt"
	"math"
	"time"

	"github.com/resource-jerc9024-data/alexa-attendance/internal/models"
)

// CalculatorService derives attendance percentages from a document, skipping
// non-working days.
type CalculatorService struct {
	now func() time.Time
}

// NewCalculatorService creates a new calculator service
func NewCalculatorService() *CalculatorService {
	return &CalculatorService{now: time.Now}
}

// MonthlySummary is the result of a monthly percentage calculation.
type MonthlySummary struct {
	Percentage  int
	PresentDays int
	WorkingDays int
}

// SessionSummary is the result of a session-scoped percentage calculation.
type SessionSummary struct {
	Percentage       int
	Label            string
	PresentDays      int
	TotalWorkingDays int
}

// holidayDates indexes holiday entries by ISO date for the working-day filter.
func holidayDates(doc *models.AttendanceDocument) map[string]bool {
	dates := make(map[string]bool, len(doc.Holidays))
	for _, h := range doc.Holidays {
		dates[h.Date] = true
	}
	return dates
}

func notEnrolledDates(doc *models.AttendanceDocument) map[string]bool {
	dates := make(map[string]bool, len(doc.NotEnrolled))
	for _, d := range doc.NotEnrolled {
		dates[d] = true
	}
	return dates
}

// tally walks the inclusive window counting working days and present days.
// Days after today are skipped outright, never counted as absent.
func (c *CalculatorService) tally(doc *models.AttendanceDocument, start, end time.Time) (present, working int) {
	today := c.now()
	holidays := holidayDates(doc)
	excluded := notEnrolledDates(doc)

	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if d.After(today) && !SameDate(d, today) {
			continue
		}
		iso := FormatDate(d)
		if IsWeeklyOff(d, doc.WeeklyDaysOff) || holidays[iso] || excluded[iso] {
			continue
		}
		working++
		if doc.Records[iso] {
			present++
		}
	}
	return present, working
}

// percentage rounds half-up to the nearest integer, returning 0 when there
// are no working days at all.
func percentage(present, working int) int {
	if working == 0 {
		return 0
	}
	return int(math.Round(float64(present) / float64(working) * 100))
}

// MonthlyPercentage computes attendance for one calendar month, counting only
// days up to and including today.
func (c *CalculatorService) MonthlyPercentage(doc *models.AttendanceDocument, year int, month time.Month) MonthlySummary {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, -1)

	present, working := c.tally(doc, start, end)
	return MonthlySummary{
		Percentage:  percentage(present, working),
		PresentDays: present,
		WorkingDays: working,
	}
}

// SessionPercentage computes attendance over a session window. Resolution
// priority: the preset session, then a session matching the hint by exact
// code or case-insensitive name, then the current calendar year. A hint
// naming several sessions is ambiguous so the user can answer with a code.
// The window's end is clamped to today when the nominal end is in the future.
func (c *CalculatorService) SessionPercentage(doc *models.AttendanceDocument, nameHint string) (SessionSummary, error) {
	today := c.now()

	var window *models.Session
	for i := range doc.Sessions {
		if doc.Sessions[i].IsSelected {
			window = &doc.Sessions[i]
			break
		}
	}
	if window == nil && nameHint != "" {
		for i := range doc.Sessions {
			if doc.Sessions[i].Code == nameHint {
				window = &doc.Sessions[i]
				break
			}
		}
		if window == nil {
			var matches []int
			for i := range doc.Sessions {
				if doc.Sessions[i].MatchesName(nameHint) {
					matches = append(matches, i)
				}
			}
			if len(matches) > 1 {
				named := make([]models.Session, 0, len(matches))
				for _, i := range matches {
					named = append(named, doc.Sessions[i])
				}
				return SessionSummary{}, ErrAmbiguous(fmt.Sprintf("%d sessions named %s", len(named), nameHint), named)
			}
			if len(matches) == 1 {
				window = &doc.Sessions[matches[0]]
			}
		}
	}

	var start, end time.Time
	var label string
	if window != nil {
		var err error
		start, err = ParseDate(window.StartDate)
		if err != nil {
			return SessionSummary{}, ErrInvalid(fmt.Sprintf("session %s has an invalid start date", window.Name))
		}
		end = today
		if window.EndDate != "" {
			end, err = ParseDate(window.EndDate)
			if err != nil {
				return SessionSummary{}, ErrInvalid(fmt.Sprintf("session %s has an invalid end date", window.Name))
			}
		}
		label = window.Name
	} else {
		start = time.Date(today.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
		end = time.Date(today.Year(), time.December, 31, 0, 0, 0, 0, time.UTC)
		label = "this year"
	}

	if end.After(today) {
		end = today
	}

	present, working := c.tally(doc, start, end)
	return SessionSummary{
		Percentage:       percentage(present, working),
		Label:            label,
		PresentDays:      present,
		TotalWorkingDays: working,
	}, nil
}
