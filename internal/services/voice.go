package services

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/resource-jerc9024-data/alexa-attendance/internal/models"
	"github.com/resource-jerc9024-data/alexa-attendance/internal/storage"
)

// Intent identifiers delivered by the voice platform.
const (
	IntentMarkPresent       = "MarkPresentIntent"
	IntentMarkAbsent        = "MarkAbsentIntent"
	IntentMarkHoliday       = "MarkHolidayIntent"
	IntentMarkNotEnrolled   = "MarkNotEnrolledIntent"
	IntentMonthlyAttendance = "MonthlyAttendanceIntent"
	IntentSessionAttendance = "SessionAttendanceIntent"
	IntentCreateSession     = "CreateSessionIntent"
	IntentSelectSession     = "SelectSessionIntent"
	IntentClearSession      = "ClearSessionIntent"
	IntentListSessions      = "ListSessionsIntent"
	IntentAddDayOff         = "AddWeeklyDayOffIntent"
	IntentRemoveDayOff      = "RemoveWeeklyDayOffIntent"
	IntentProvideName       = "ProvideNameIntent"
	IntentProvideDate       = "ProvideDateIntent"
	IntentYes               = "AMAZON.YesIntent"
	IntentNo                = "AMAZON.NoIntent"
	IntentHelp              = "AMAZON.HelpIntent"
	IntentCancel            = "AMAZON.CancelIntent"
	IntentStop              = "AMAZON.StopIntent"
)

// Slot names consumed by the router.
const (
	SlotDate        = "date"
	SlotMonth       = "month"
	SlotSessionName = "sessionName"
	SlotHolidayName = "holidayName"
	SlotDayOfWeek   = "dayOfWeek"
	SlotPreset      = "preset"
)

const apologySpeech = "Sorry, something went wrong on my end. Please try again in a moment."

const linkAccountSpeech = "I couldn't identify your account. Please make sure your account is linked, then try again."

// IntentRequest is the structured inbound request after the platform has
// done intent and slot extraction.
type IntentRequest struct {
	Intent      string            `json:"intent"`
	Slots       map[string]string `json:"slots"`
	AccessToken string            `json:"access_token"`
}

// Slot returns a trimmed slot value, empty when absent.
func (r *IntentRequest) Slot(name string) string {
	if r.Slots == nil {
		return ""
	}
	return strings.TrimSpace(r.Slots[name])
}

// VoiceService routes structured voice intents to the attendance components
// and renders spoken responses.
type VoiceService struct {
	store      storage.Store
	accounts   *AccountService
	attendance *AttendanceService
	calculator *CalculatorService
	sessions   *SessionManager
	dialogues  *DialogueManager
	now        func() time.Time
}

// NewVoiceService creates a new voice service
func NewVoiceService(
	store storage.Store,
	accounts *AccountService,
	attendance *AttendanceService,
	calculator *CalculatorService,
	sessions *SessionManager,
	dialogues *DialogueManager,
) *VoiceService {
	return &VoiceService{
		store:      store,
		accounts:   accounts,
		attendance: attendance,
		calculator: calculator,
		sessions:   sessions,
		dialogues:  dialogues,
		now:        time.Now,
	}
}

// HandleLaunch greets the user when the skill opens without an intent.
func (v *VoiceService) HandleLaunch() string {
	return "Welcome to your attendance tracker. You can say mark me present, " +
		"how is my attendance this month, or create a session. What would you like to do?"
}

// HandleSessionEnded clears any half-finished conversation.
func (v *VoiceService) HandleSessionEnded(accessToken string) {
	key, err := v.accounts.ResolveAttendanceKey(accessToken)
	if err != nil {
		return
	}
	v.dialogues.Clear(key)
}

// HandleIntent is the main entry point for all intents. It never returns an
// error: store failures are logged and spoken as one generic apology.
func (v *VoiceService) HandleIntent(req *IntentRequest) string {
	key, err := v.accounts.ResolveAttendanceKey(req.AccessToken)
	if err != nil {
		log.Printf("❌ Identity resolution failed: %v", err)
		return linkAccountSpeech
	}

	state := v.dialogues.State(key)
	log.Printf("🎙️  Intent %s for %s (phase %s)", req.Intent, key, state.Phase)

	var speech string
	next := state

	switch req.Intent {
	case IntentMarkPresent:
		speech, next = v.handleMark(key, state, req, models.DayStatus{Kind: models.DayPresent})

	case IntentMarkAbsent:
		speech, next = v.handleMark(key, state, req, models.DayStatus{Kind: models.DayAbsent})

	case IntentMarkHoliday:
		name := req.Slot(SlotHolidayName)
		if name == "" {
			name = "Holiday"
		}
		speech, next = v.handleMark(key, state, req, models.DayStatus{Kind: models.DayHoliday, HolidayName: name})

	case IntentMarkNotEnrolled:
		speech, next = v.handleMark(key, state, req, models.DayStatus{Kind: models.DayNotEnrolled})

	case IntentMonthlyAttendance:
		speech = v.handleMonthly(key, req)

	case IntentSessionAttendance:
		speech = v.handleSessionAttendance(key, req)

	case IntentCreateSession, IntentProvideName, IntentProvideDate:
		speech, next = v.handleCreationTurn(key, state, req)

	case IntentSelectSession:
		speech = v.handleSelectSession(key, req)

	case IntentClearSession:
		speech = v.handleClearSession(key)

	case IntentListSessions:
		speech = v.handleListSessions(key)

	case IntentAddDayOff:
		speech = v.handleDayOff(key, req, true)

	case IntentRemoveDayOff:
		speech = v.handleDayOff(key, req, false)

	case IntentYes:
		speech, next = v.handleYes(key, state)

	case IntentNo:
		speech, next = v.handleNo(state)

	case IntentHelp:
		speech = v.helpSpeech()

	case IntentCancel, IntentStop:
		next = DialogueState{Phase: PhaseIdle}
		speech = "Okay, goodbye."

	default:
		speech = "Sorry, I didn't understand that. Say help to hear what I can do."
	}

	v.dialogues.SetState(key, next)
	return speech
}

// markDate resolves the date slot, defaulting to today.
func (v *VoiceService) markDate(req *IntentRequest) (time.Time, error) {
	raw := req.Slot(SlotDate)
	if raw == "" {
		return v.now(), nil
	}
	date, err := ParseDate(raw)
	if err != nil {
		return time.Time{}, ErrInvalid("I didn't catch the date. Please say it again, for example March tenth.")
	}
	return date, nil
}

// handleMark records a day status, staging a confirmation when the date
// already carries a different status. While a confirmation is pending, a new
// status intent re-asks that confirmation instead of silently replacing it.
func (v *VoiceService) handleMark(key string, state DialogueState, req *IntentRequest, status models.DayStatus) (string, DialogueState) {
	if state.Phase == PhaseAwaitingStatusConfirmation && state.PendingStatusChange != nil {
		return v.confirmationPrompt(state.PendingStatusChange), state
	}

	date, err := v.markDate(req)
	if err != nil {
		return v.renderError(err), state
	}
	iso := FormatDate(date)
	spokenDate := date.Format("January 2")

	doc, err := v.attendance.Document(key)
	if err != nil {
		log.Printf("❌ Store failure loading document for %s: %v", key, err)
		return apologySpeech, state
	}

	if status.Kind == models.DayPresent || status.Kind == models.DayAbsent {
		if IsWeeklyOff(date, doc.WeeklyDaysOff) {
			return fmt.Sprintf("%s is a non-working day, so I can't mark attendance for it.", spokenDate), state
		}
	}

	if existing, ok := doc.StatusFor(iso); ok {
		if existing == status {
			return fmt.Sprintf("You're already marked %s for %s.", status.Spoken(), spokenDate), state
		}
		pending := &PendingStatusChange{Date: iso, NewStatus: status, OldStatus: existing}
		next := DialogueState{Phase: PhaseAwaitingStatusConfirmation, PendingStatusChange: pending}
		return v.confirmationPrompt(pending), next
	}

	if err := v.attendance.SetDayStatus(key, date, status); err != nil {
		return v.renderError(err), state
	}
	// Any in-flight session creation is left untouched; marking routes
	// independently of it.
	return fmt.Sprintf("Done. I marked %s as %s.", spokenDate, status.Spoken()), state
}

func (v *VoiceService) confirmationPrompt(pending *PendingStatusChange) string {
	date, err := ParseDate(pending.Date)
	spoken := pending.Date
	if err == nil {
		spoken = date.Format("January 2")
	}
	return fmt.Sprintf("%s is currently marked %s. Do you want to change it to %s?",
		spoken, pending.OldStatus.Spoken(), pending.NewStatus.Spoken())
}

// handleYes applies a pending confirmation, re-prompts inside session
// creation, and otherwise starts session creation as the implicit shortcut.
func (v *VoiceService) handleYes(key string, state DialogueState) (string, DialogueState) {
	switch {
	case state.Phase == PhaseAwaitingStatusConfirmation && state.PendingStatusChange != nil:
		pending := state.PendingStatusChange
		date, err := ParseDate(pending.Date)
		if err != nil {
			return v.renderError(err), DialogueState{Phase: PhaseIdle}
		}
		if err := v.attendance.SetDayStatus(key, date, pending.NewStatus); err != nil {
			// No rollback: the pending change stays staged so the user
			// can confirm again.
			return v.renderError(err), state
		}
		return fmt.Sprintf("Okay, I changed %s to %s.", date.Format("January 2"), pending.NewStatus.Spoken()),
			DialogueState{Phase: PhaseIdle}

	case state.Phase == PhaseAwaitingSessionName:
		return "What should I call the session?", state

	case state.Phase == PhaseAwaitingStartDate:
		return fmt.Sprintf("When does %s start?", state.PendingSessionName), state

	case state.Phase == PhaseAwaitingEndDate:
		return fmt.Sprintf("When does %s end?", state.PendingSessionName), state

	default:
		// A bare yes with nothing pending starts session creation.
		return "Let's create a session. What should I call it?", DialogueState{Phase: PhaseAwaitingSessionName}
	}
}

// handleNo discards whatever is pending.
func (v *VoiceService) handleNo(state DialogueState) (string, DialogueState) {
	switch {
	case state.Phase == PhaseAwaitingStatusConfirmation && state.PendingStatusChange != nil:
		old := state.PendingStatusChange.OldStatus
		return fmt.Sprintf("Okay, I left it marked %s.", old.Spoken()), DialogueState{Phase: PhaseIdle}

	case state.InCreation():
		return "Okay, I cancelled session creation.", DialogueState{Phase: PhaseIdle}

	default:
		return "Okay.", DialogueState{Phase: PhaseIdle}
	}
}

// handleCreationTurn drives the multi-step session creation flow: name, then
// start date, then end date. Invalid input re-prompts without changing state.
func (v *VoiceService) handleCreationTurn(key string, state DialogueState, req *IntentRequest) (string, DialogueState) {
	if req.Intent == IntentCreateSession {
		if state.InCreation() {
			return v.creationPrompt(state), state
		}
		next := DialogueState{
			Phase:             PhaseAwaitingSessionName,
			ShouldSetAsPreset: strings.EqualFold(req.Slot(SlotPreset), "true"),
		}
		if name := req.Slot(SlotSessionName); name != "" {
			next.Phase = PhaseAwaitingStartDate
			next.PendingSessionName = name
			return fmt.Sprintf("Creating session %s. When does it start?", name), next
		}
		return "Let's create a session. What should I call it?", next
	}

	switch state.Phase {
	case PhaseAwaitingSessionName:
		name := req.Slot(SlotSessionName)
		if name == "" {
			return "I didn't catch the name. What should I call the session?", state
		}
		state.PendingSessionName = name
		state.Phase = PhaseAwaitingStartDate
		return fmt.Sprintf("Got it, %s. When does it start?", name), state

	case PhaseAwaitingStartDate:
		raw := req.Slot(SlotDate)
		start, err := ParseDate(raw)
		if err != nil {
			return fmt.Sprintf("I didn't catch the start date for %s. Please say it again.", state.PendingSessionName), state
		}
		state.PendingStartDate = FormatDate(start)
		state.Phase = PhaseAwaitingEndDate
		return fmt.Sprintf("Starting %s. And when does %s end?", start.Format("January 2"), state.PendingSessionName), state

	case PhaseAwaitingEndDate:
		raw := req.Slot(SlotDate)
		end, err := ParseDate(raw)
		if err != nil {
			return fmt.Sprintf("I didn't catch the end date for %s. Please say it again.", state.PendingSessionName), state
		}
		start, err := ParseDate(state.PendingStartDate)
		if err == nil && end.Before(start) {
			return fmt.Sprintf("The end date has to be after %s. When does %s end?", state.PendingStartDate, state.PendingSessionName), state
		}
		return v.finishCreation(key, state, FormatDate(end))

	default:
		return "If you want to create a session, say create a session.", state
	}
}

func (v *VoiceService) creationPrompt(state DialogueState) string {
	switch state.Phase {
	case PhaseAwaitingStartDate:
		return fmt.Sprintf("We're already creating %s. When does it start?", state.PendingSessionName)
	case PhaseAwaitingEndDate:
		return fmt.Sprintf("We're already creating %s. When does it end?", state.PendingSessionName)
	default:
		return "We're already creating a session. What should I call it?"
	}
}

// finishCreation performs the upsert that completes the flow. On a store
// failure the collected attributes stay staged so the user can retry the
// last step.
func (v *VoiceService) finishCreation(key string, state DialogueState, endDate string) (string, DialogueState) {
	doc, err := v.attendance.Document(key)
	if err != nil {
		log.Printf("❌ Store failure loading document for %s: %v", key, err)
		return apologySpeech, state
	}

	sessions, created := v.sessions.Upsert(doc.Sessions, state.PendingSessionName, state.PendingStartDate, endDate, state.ShouldSetAsPreset)
	if err := v.store.MergeAttendance(key, &models.AttendancePatch{Sessions: sessions}); err != nil {
		log.Printf("❌ Store failure saving sessions for %s: %v", key, err)
		return apologySpeech, state
	}

	speech := fmt.Sprintf("All set. Session %s runs from %s to %s. Its code is %s.",
		created.Name, created.StartDate, created.EndDate, spellCode(created.Code))
	if created.IsSelected {
		speech += " I also made it your preset session."
	}
	return speech, DialogueState{Phase: PhaseIdle}
}

func (v *VoiceService) handleMonthly(key string, req *IntentRequest) string {
	year, month := v.now().Year(), v.now().Month()
	if raw := req.Slot(SlotMonth); raw != "" {
		var err error
		year, month, err = ParseMonth(raw)
		if err != nil {
			return "I didn't catch the month. Please say something like attendance for March."
		}
	}

	doc, err := v.attendance.Document(key)
	if err != nil {
		log.Printf("❌ Store failure loading document for %s: %v", key, err)
		return apologySpeech
	}

	summary := v.calculator.MonthlyPercentage(doc, year, month)
	if summary.WorkingDays == 0 {
		return fmt.Sprintf("There are no working days counted for %s %d yet.", month, year)
	}
	return fmt.Sprintf("In %s %d you were present %d out of %d working days. That's %d percent.",
		month, year, summary.PresentDays, summary.WorkingDays, summary.Percentage)
}

func (v *VoiceService) handleSessionAttendance(key string, req *IntentRequest) string {
	doc, err := v.attendance.Document(key)
	if err != nil {
		log.Printf("❌ Store failure loading document for %s: %v", key, err)
		return apologySpeech
	}

	summary, err := v.calculator.SessionPercentage(doc, req.Slot(SlotSessionName))
	if err != nil {
		return v.renderError(err)
	}
	if summary.TotalWorkingDays == 0 {
		return fmt.Sprintf("There are no working days counted for %s yet.", summary.Label)
	}
	return fmt.Sprintf("Your attendance for %s is %d percent. You were present %d out of %d working days.",
		summary.Label, summary.Percentage, summary.PresentDays, summary.TotalWorkingDays)
}

func (v *VoiceService) handleSelectSession(key string, req *IntentRequest) string {
	identifier := req.Slot(SlotSessionName)
	if identifier == "" {
		return "Which session should I use? Say its name or code."
	}

	doc, err := v.attendance.Document(key)
	if err != nil {
		log.Printf("❌ Store failure loading document for %s: %v", key, err)
		return apologySpeech
	}

	sessions, selected, err := v.sessions.SetPreset(doc.Sessions, identifier)
	if err != nil {
		return v.renderError(err)
	}
	if err := v.store.MergeAttendance(key, &models.AttendancePatch{Sessions: sessions}); err != nil {
		log.Printf("❌ Store failure saving sessions for %s: %v", key, err)
		return apologySpeech
	}
	return fmt.Sprintf("Okay, %s is now your preset session.", selected.Name)
}

func (v *VoiceService) handleClearSession(key string) string {
	doc, err := v.attendance.Document(key)
	if err != nil {
		log.Printf("❌ Store failure loading document for %s: %v", key, err)
		return apologySpeech
	}

	sessions := v.sessions.ClearPreset(doc.Sessions)
	if err := v.store.MergeAttendance(key, &models.AttendancePatch{Sessions: sessions}); err != nil {
		log.Printf("❌ Store failure saving sessions for %s: %v", key, err)
		return apologySpeech
	}
	return "Okay, I cleared your preset session."
}

func (v *VoiceService) handleListSessions(key string) string {
	doc, err := v.attendance.Document(key)
	if err != nil {
		log.Printf("❌ Store failure loading document for %s: %v", key, err)
		return apologySpeech
	}

	if len(doc.Sessions) == 0 {
		return "You don't have any sessions yet. Say create a session to make one."
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "You have %d sessions. ", len(doc.Sessions))
	for _, s := range doc.Sessions {
		fmt.Fprintf(&sb, "%s, code %s, %s", s.Name, spellCode(s.Code), s.Range())
		if s.IsSelected {
			sb.WriteString(", your preset")
		}
		sb.WriteString(". ")
	}
	return strings.TrimSpace(sb.String())
}

func (v *VoiceService) handleDayOff(key string, req *IntentRequest, add bool) string {
	weekday, err := ParseWeekday(req.Slot(SlotDayOfWeek))
	if err != nil {
		return "Which day of the week do you mean?"
	}

	if add {
		err = v.attendance.AddWeeklyDayOff(key, weekday)
	} else {
		err = v.attendance.RemoveWeeklyDayOff(key, weekday)
	}
	if err != nil {
		return v.renderError(err)
	}

	if add {
		return fmt.Sprintf("Okay, %ss are now weekly days off.", WeekdayName(weekday))
	}
	return fmt.Sprintf("Okay, %ss are working days again.", WeekdayName(weekday))
}

func (v *VoiceService) helpSpeech() string {
	return "You can say mark me present or mark me absent, mark a holiday, " +
		"ask how is my attendance this month or for a session, create a session, " +
		"pick a preset session, list your sessions, or set a weekly day off. " +
		"What would you like to do?"
}

// renderError turns expected conditions into guiding speech and everything
// else into the generic apology.
func (v *VoiceService) renderError(err error) string {
	fe, ok := AsFlowError(err)
	if !ok {
		log.Printf("❌ Store failure: %v", err)
		return apologySpeech
	}

	switch fe.Code {
	case CodeAmbiguous:
		var sb strings.Builder
		fmt.Fprintf(&sb, "I found %d sessions with that name. ", len(fe.Matches))
		for _, m := range fe.Matches {
			fmt.Fprintf(&sb, "Code %s runs %s. ", spellCode(m.Code), m.Range())
		}
		sb.WriteString("Say the code of the one you want.")
		return sb.String()
	case CodeNoSessions:
		return "You don't have any sessions yet. Say create a session to make one."
	case CodeNotFound:
		return "I couldn't find that session. Say list my sessions to hear them."
	case CodeNonWorkingDay:
		return "That's a non-working day, so I can't mark attendance for it."
	default:
		return fe.Message
	}
}

// spellCode spaces out a session code so the voice reads it character by
// character.
func spellCode(code string) string {
	return strings.Join(strings.Split(code, ""), " ")
}
